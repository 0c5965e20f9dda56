package retriever

import (
	"sort"

	"github.com/Chatresh7/edtech-bot/internal/kb"
)

const (
	// poolFactor and poolFloor size the candidate pool relative to the
	// requested result count. The reranker needs raw candidates across
	// categories to fill K slots even when the literal nearest neighbors
	// skew toward the wrong category.
	poolFactor = 6
	poolFloor  = 20
)

// poolSize returns the candidate pool size for a requested result count k:
// clamp(6k, 20, corpusSize).
func poolSize(k, corpusSize int) int {
	p := poolFactor * k
	if p < poolFloor {
		p = poolFloor
	}
	if p > corpusSize {
		p = corpusSize
	}
	return p
}

// rankByCategory selects min(k, len(candidates)) chunks from candidates,
// applying a soft category preference. candidates must already be sorted by
// score descending.
//
// With a valid hint, candidates partition into preferred (category == hint)
// and others. If preferred can fill k slots it does so outright; otherwise
// all preferred chunks are kept and the best-scoring others fill the rest.
// The category affects membership only: the final slice is re-sorted by
// score descending regardless of which partition contributed each chunk.
// Without a valid hint the top k by raw score are returned.
func rankByCategory(candidates []RetrievedChunk, hint kb.Category, k int) []RetrievedChunk {
	if k <= 0 || len(candidates) == 0 {
		return []RetrievedChunk{}
	}

	var result []RetrievedChunk
	if !hint.Valid() {
		n := k
		if n > len(candidates) {
			n = len(candidates)
		}
		result = append(result, candidates[:n]...)
	} else {
		preferred := make([]RetrievedChunk, 0, len(candidates))
		others := make([]RetrievedChunk, 0, len(candidates))
		for _, c := range candidates {
			if c.Category == hint {
				preferred = append(preferred, c)
			} else {
				others = append(others, c)
			}
		}

		if len(preferred) >= k {
			result = preferred[:k]
		} else {
			fill := k - len(preferred)
			if fill > len(others) {
				fill = len(others)
			}
			result = append(preferred, others[:fill]...)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Score > result[j].Score
	})
	return result
}
