package retriever

import (
	"testing"

	"github.com/Chatresh7/edtech-bot/internal/kb"
)

func chunk(id string, category kb.Category, score float32) RetrievedChunk {
	return RetrievedChunk{ID: id, Title: id, Category: category, Content: "body", Score: score}
}

func ids(chunks []RetrievedChunk) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.ID
	}
	return out
}

func assertIDs(t *testing.T, got []RetrievedChunk, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d chunks %v, want %d %v", len(got), ids(got), len(want), want)
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Fatalf("chunk order = %v, want %v", ids(got), want)
		}
	}
}

func TestPoolSize(t *testing.T) {
	tests := []struct {
		k, corpusSize, want int
	}{
		{1, 100, 20},  // floor applies
		{3, 100, 20},  // 18 < floor
		{4, 100, 24},  // 6k above floor
		{4, 10, 10},   // capped at corpus size
		{8, 1000, 48}, // 6k
		{3, 5, 5},     // tiny corpus
	}
	for _, tt := range tests {
		if got := poolSize(tt.k, tt.corpusSize); got != tt.want {
			t.Errorf("poolSize(%d, %d) = %d, want %d", tt.k, tt.corpusSize, got, tt.want)
		}
	}
}

func TestRankByCategoryNoHint(t *testing.T) {
	candidates := []RetrievedChunk{
		chunk("a", kb.CategoryCourse, 0.9),
		chunk("b", kb.CategoryAssessment, 0.8),
		chunk("c", kb.CategoryCourse, 0.7),
	}

	got := rankByCategory(candidates, "", 2)
	assertIDs(t, got, "a", "b")

	// An unknown hint behaves the same as no hint
	got = rankByCategory(candidates, kb.Category("general"), 2)
	assertIDs(t, got, "a", "b")
}

func TestRankByCategoryHardPreference(t *testing.T) {
	candidates := []RetrievedChunk{
		chunk("a", kb.CategoryAssessment, 0.95),
		chunk("b", kb.CategoryCourse, 0.9),
		chunk("c", kb.CategoryCourse, 0.8),
		chunk("d", kb.CategoryAssessment, 0.75),
		chunk("e", kb.CategoryCourse, 0.7),
	}

	got := rankByCategory(candidates, kb.CategoryCourse, 3)
	assertIDs(t, got, "b", "c", "e")
	for _, c := range got {
		if c.Category != kb.CategoryCourse {
			t.Errorf("chunk %s has category %s, want course", c.ID, c.Category)
		}
	}
}

func TestRankByCategoryGracefulFill(t *testing.T) {
	candidates := []RetrievedChunk{
		chunk("a", kb.CategoryAssessment, 0.95),
		chunk("b", kb.CategoryCourse, 0.9),
		chunk("c", kb.CategoryAssessment, 0.85),
		chunk("d", kb.CategoryAssessment, 0.2),
	}

	// Only one course candidate; the two best others fill the quota and the
	// final list is re-sorted by score.
	got := rankByCategory(candidates, kb.CategoryCourse, 3)
	assertIDs(t, got, "a", "b", "c")
}

func TestRankByCategoryMembershipNotOrdering(t *testing.T) {
	// A cross-category chunk that outranks every preferred one must come
	// first once it has earned membership.
	candidates := []RetrievedChunk{
		chunk("top", kb.CategoryProgress, 0.99),
		chunk("p1", kb.CategoryCourse, 0.5),
		chunk("p2", kb.CategoryCourse, 0.4),
	}

	got := rankByCategory(candidates, kb.CategoryCourse, 3)
	assertIDs(t, got, "top", "p1", "p2")
}

func TestRankByCategoryEmptyCandidates(t *testing.T) {
	got := rankByCategory(nil, kb.CategoryCourse, 3)
	if got == nil || len(got) != 0 {
		t.Fatalf("got %v, want empty non-nil slice", got)
	}
}

func TestRankByCategoryFewerCandidatesThanK(t *testing.T) {
	candidates := []RetrievedChunk{
		chunk("a", kb.CategoryCourse, 0.9),
		chunk("b", kb.CategoryAssessment, 0.8),
	}
	got := rankByCategory(candidates, kb.CategoryCourse, 5)
	assertIDs(t, got, "a", "b")
}

func TestRankByCategoryDoesNotMutateInput(t *testing.T) {
	candidates := []RetrievedChunk{
		chunk("a", kb.CategoryAssessment, 0.9),
		chunk("b", kb.CategoryCourse, 0.8),
		chunk("c", kb.CategoryCourse, 0.7),
	}
	_ = rankByCategory(candidates, kb.CategoryCourse, 2)

	assertIDs(t, candidates, "a", "b", "c")
}
