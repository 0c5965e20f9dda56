package embedding

import "context"

// Embedder converts free text into an L2-normalized numeric vector.
// Implementations may require a preparation phase over the corpus before
// Embed can be called; Prepare is invoked exactly once at index-build time.
type Embedder interface {
	// Name returns the identifier of this embedder implementation.
	Name() string
	// Prepare builds any corpus-derived state (vocabulary, IDF values).
	Prepare(ctx context.Context, corpus []string) error
	// Dimension returns the dimensionality of produced vectors.
	// Only valid after Prepare.
	Dimension() int
	// Embed computes the vector for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)
}
