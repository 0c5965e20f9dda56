package retriever

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/Chatresh7/edtech-bot/internal/embedding"
	"github.com/Chatresh7/edtech-bot/internal/kb"
	"github.com/Chatresh7/edtech-bot/internal/vectorstore"
)

// Handle provides guarded lazy access to the single shared Retriever.
// Construction is expensive (every article is embedded), so the first caller
// builds the index while concurrent callers block on the mutex; once built,
// the fast path is a lock-free atomic load and every caller shares the same
// read-only instance. A failed build is not cached: the next caller retries.
type Handle struct {
	mu    sync.Mutex
	ready atomic.Pointer[Retriever]

	corpus     *kb.Corpus
	embedder   embedding.Embedder
	store      vectorstore.VectorStore
	collection string
}

// NewHandle creates a handle over the index dependencies. The index itself
// is not built until the first Get call.
func NewHandle(
	corpus *kb.Corpus,
	embedder embedding.Embedder,
	store vectorstore.VectorStore,
	collection string,
) *Handle {
	return &Handle{
		corpus:     corpus,
		embedder:   embedder,
		store:      store,
		collection: collection,
	}
}

// Get returns the shared Retriever, building it on first use.
func (h *Handle) Get(ctx context.Context) (*Retriever, error) {
	if r := h.ready.Load(); r != nil {
		return r, nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	// Another caller may have finished the build while we waited
	if r := h.ready.Load(); r != nil {
		return r, nil
	}

	r, err := build(ctx, h.corpus, h.embedder, h.store, h.collection)
	if err != nil {
		return nil, err
	}
	h.ready.Store(r)
	return r, nil
}

// Ready reports whether the index has been built.
func (h *Handle) Ready() bool {
	return h.ready.Load() != nil
}
