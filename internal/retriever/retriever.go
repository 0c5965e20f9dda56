package retriever

import (
	"context"
	"fmt"

	"github.com/Chatresh7/edtech-bot/internal/contextutil"
	"github.com/Chatresh7/edtech-bot/internal/embedding"
	"github.com/Chatresh7/edtech-bot/internal/kb"
	"github.com/Chatresh7/edtech-bot/internal/vectorstore"
)

// Retriever answers nearest-neighbor queries over the loaded corpus.
// It is read-only after construction and safe for concurrent use.
type Retriever struct {
	corpus     *kb.Corpus
	embedder   embedding.Embedder
	store      vectorstore.VectorStore
	collection string
}

// build constructs the index in one pass: prepare the embedder over the
// corpus, embed every article's title+tags+content, and upsert the vectors
// in corpus load order. Any failure aborts the build; no partial index is
// ever returned.
func build(
	ctx context.Context,
	corpus *kb.Corpus,
	embedder embedding.Embedder,
	store vectorstore.VectorStore,
	collection string,
) (*Retriever, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if corpus == nil || corpus.Len() == 0 {
		return nil, fmt.Errorf("cannot build index over empty corpus")
	}

	articles := corpus.Articles()
	texts := make([]string, len(articles))
	for i, a := range articles {
		texts[i] = a.EmbeddingText()
	}

	if err := embedder.Prepare(ctx, texts); err != nil {
		return nil, fmt.Errorf("failed to prepare embedder: %w", err)
	}

	points := make([]vectorstore.Point, 0, len(articles))
	for i, a := range articles {
		vec, err := embedder.Embed(ctx, texts[i])
		if err != nil {
			return nil, fmt.Errorf("failed to embed article %q: %w", a.ID, err)
		}
		points = append(points, vectorstore.Point{
			ID:  a.ID,
			Vec: vec,
			Meta: map[string]any{
				"title":    a.Title,
				"category": string(a.Category),
			},
		})
	}

	if err := store.Upsert(ctx, collection, points); err != nil {
		return nil, fmt.Errorf("failed to store article vectors: %w", err)
	}

	logger.InfoContext(ctx, "index built",
		"articles", len(articles),
		"dimension", embedder.Dimension(),
		"embedder", embedder.Name(),
	)

	return &Retriever{
		corpus:     corpus,
		embedder:   embedder,
		store:      store,
		collection: collection,
	}, nil
}

// Retrieve returns exactly min(k, corpus size) chunks ranked for the query,
// sorted by score descending. hint applies a soft category preference; an
// invalid or empty hint ranks by raw similarity alone.
func (r *Retriever) Retrieve(ctx context.Context, query string, hint kb.Category, k int) ([]RetrievedChunk, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if k < 1 {
		return nil, fmt.Errorf("k must be a positive integer, got %d", k)
	}

	queryVec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	pool := poolSize(k, r.corpus.Len())
	hits, err := r.store.Search(ctx, r.collection, queryVec, pool)
	if err != nil {
		return nil, fmt.Errorf("failed to search vector store: %w", err)
	}

	candidates := make([]RetrievedChunk, 0, len(hits))
	for _, hit := range hits {
		article, ok := r.corpus.Get(hit.PointID)
		if !ok {
			// A stale point in an external store; the corpus is authoritative.
			logger.WarnContext(ctx, "search hit has no corpus article", "id", hit.PointID)
			continue
		}
		candidates = append(candidates, RetrievedChunk{
			ID:       article.ID,
			Title:    article.Title,
			Category: article.Category,
			Content:  article.Content,
			Tags:     article.Tags,
			Score:    hit.Score,
		})
	}

	ranked := rankByCategory(candidates, hint, k)

	logger.DebugContext(ctx, "retrieval completed",
		"k", k,
		"pool", pool,
		"candidates", len(candidates),
		"returned", len(ranked),
		"hint", string(hint),
	)
	return ranked, nil
}

// Stats reports corpus totals for external display.
func (r *Retriever) Stats() kb.Stats {
	return r.corpus.Stats()
}

// CorpusSize returns the number of indexed articles.
func (r *Retriever) CorpusSize() int {
	return r.corpus.Len()
}
