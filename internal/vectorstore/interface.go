package vectorstore

import "context"

// Point represents a vector point with metadata.
type Point struct {
	ID   string
	Vec  []float32
	Meta map[string]any
}

// SearchResult represents a single nearest-neighbor hit.
type SearchResult struct {
	PointID string
	Score   float32
	Meta    map[string]any
}

// VectorStore defines the interface for vector storage operations.
// Vectors are expected to be L2-normalized, so similarity is cosine.
type VectorStore interface {
	// Upsert inserts or updates points in the collection.
	Upsert(ctx context.Context, collection string, points []Point) error

	// Search returns the n points most similar to query, sorted by score
	// descending. Asking for more points than the store holds returns
	// everything.
	Search(ctx context.Context, collection string, query []float32, n int) ([]SearchResult, error)
}
