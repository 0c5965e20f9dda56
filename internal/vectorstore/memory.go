package vectorstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore is a brute-force in-memory vector store. Rows keep insertion
// order and search uses a stable sort, so equal scores tie-break by the order
// points were upserted. It is the default backend: the corpus is small enough
// that exact search stays well inside the latency budget.
type MemoryStore struct {
	mu   sync.RWMutex
	rows []Point
	byID map[string]int
}

// NewMemoryStore creates an empty in-memory vector store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]int)}
}

// Upsert inserts or updates points. New points append in call order;
// updating an existing ID keeps its original position.
func (s *MemoryStore) Upsert(_ context.Context, _ string, points []Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range points {
		if p.ID == "" {
			return fmt.Errorf("point with empty id")
		}
		if idx, ok := s.byID[p.ID]; ok {
			s.rows[idx] = p
			continue
		}
		s.byID[p.ID] = len(s.rows)
		s.rows = append(s.rows, p)
	}
	return nil
}

// Search returns the n most similar points by dot product (cosine similarity
// on normalized vectors), sorted descending.
func (s *MemoryStore) Search(_ context.Context, _ string, query []float32, n int) ([]SearchResult, error) {
	if n <= 0 {
		return nil, fmt.Errorf("n must be greater than 0")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]SearchResult, 0, len(s.rows))
	for _, row := range s.rows {
		results = append(results, SearchResult{
			PointID: row.ID,
			Score:   dot(query, row.Vec),
			Meta:    row.Meta,
		})
	}

	// Stable sort keeps insertion order for equal scores
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if n < len(results) {
		results = results[:n]
	}
	return results, nil
}

// Len returns the number of stored points.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

func dot(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float32
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
