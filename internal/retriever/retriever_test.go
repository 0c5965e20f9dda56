package retriever

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/Chatresh7/edtech-bot/internal/embedding"
	"github.com/Chatresh7/edtech-bot/internal/kb"
	"github.com/Chatresh7/edtech-bot/internal/vectorstore"
)

// testCorpus has 4 course and 4 assessment articles. The course articles
// mention enrollment so an enrollment query scores them above the rest.
func testCorpus(t *testing.T) *kb.Corpus {
	t.Helper()
	corpus, err := kb.New([]kb.Article{
		{ID: "c1", Title: "Enrolling in a Course", Category: kb.CategoryCourse,
			Content: "Click the enroll button on the course page to enroll.", Tags: []string{"enroll"}},
		{ID: "c2", Title: "Course Structure", Category: kb.CategoryCourse,
			Content: "A course contains modules with lessons and videos. You enroll once per course."},
		{ID: "c3", Title: "Course Forums", Category: kb.CategoryCourse,
			Content: "Each course has a discussion forum for enrolled learners."},
		{ID: "c4", Title: "Refund Policy", Category: kb.CategoryCourse,
			Content: "Refunds are available within 14 days of payment."},
		{ID: "a1", Title: "Quiz Grading", Category: kb.CategoryAssessment,
			Content: "Quizzes are auto-graded immediately after submission."},
		{ID: "a2", Title: "Assignment Deadlines", Category: kb.CategoryAssessment,
			Content: "Assignments must be submitted before the module deadline."},
		{ID: "a3", Title: "Exam Retakes", Category: kb.CategoryAssessment,
			Content: "Final exams allow two retake attempts."},
		{ID: "a4", Title: "Plagiarism Checks", Category: kb.CategoryAssessment,
			Content: "Submitted work is scanned for plagiarism."},
	})
	if err != nil {
		t.Fatalf("failed to build test corpus: %v", err)
	}
	return corpus
}

func builtRetriever(t *testing.T) *Retriever {
	t.Helper()
	h := NewHandle(testCorpus(t), embedding.NewTFIDF(), vectorstore.NewMemoryStore(), "kb")
	r, err := h.Get(context.Background())
	if err != nil {
		t.Fatalf("Get() returned error: %v", err)
	}
	return r
}

func TestRetrieveExactK(t *testing.T) {
	r := builtRetriever(t)

	for k := 1; k <= 8; k++ {
		chunks, err := r.Retrieve(context.Background(), "how do I enroll", "", k)
		if err != nil {
			t.Fatalf("Retrieve(k=%d) returned error: %v", k, err)
		}
		if len(chunks) != k {
			t.Errorf("Retrieve(k=%d) returned %d chunks", k, len(chunks))
		}
		for i := 1; i < len(chunks); i++ {
			if chunks[i].Score > chunks[i-1].Score {
				t.Errorf("Retrieve(k=%d) not sorted descending at index %d", k, i)
			}
		}
	}
}

func TestRetrieveKLargerThanCorpus(t *testing.T) {
	r := builtRetriever(t)

	chunks, err := r.Retrieve(context.Background(), "how do I enroll", "", 50)
	if err != nil {
		t.Fatalf("Retrieve() returned error: %v", err)
	}
	if len(chunks) != 8 {
		t.Errorf("got %d chunks, want corpus size 8", len(chunks))
	}
}

func TestRetrieveInvalidK(t *testing.T) {
	r := builtRetriever(t)
	if _, err := r.Retrieve(context.Background(), "enroll", "", 0); err == nil {
		t.Fatal("Retrieve(k=0) expected error, got nil")
	}
}

func TestRetrieveIdempotent(t *testing.T) {
	r := builtRetriever(t)

	first, err := r.Retrieve(context.Background(), "how are quizzes graded", kb.CategoryAssessment, 4)
	if err != nil {
		t.Fatalf("Retrieve() returned error: %v", err)
	}
	second, err := r.Retrieve(context.Background(), "how are quizzes graded", kb.CategoryAssessment, 4)
	if err != nil {
		t.Fatalf("Retrieve() returned error: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("result lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID || first[i].Score != second[i].Score {
			t.Errorf("results differ at index %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestRetrieveCategoryHintMembership(t *testing.T) {
	r := builtRetriever(t)

	chunks, err := r.Retrieve(context.Background(), "how do I enroll", kb.CategoryCourse, 3)
	if err != nil {
		t.Fatalf("Retrieve() returned error: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	for _, c := range chunks {
		if c.Category != kb.CategoryCourse {
			t.Errorf("chunk %s has category %s, want course", c.ID, c.Category)
		}
	}
	for i := 1; i < len(chunks); i++ {
		if chunks[i].Score > chunks[i-1].Score {
			t.Errorf("chunks not sorted descending at index %d", i)
		}
	}
}

func TestRetrieveAbsentCategoryFallsBack(t *testing.T) {
	r := builtRetriever(t)

	// No progress articles exist; the quota degrades to similarity-only fill
	chunks, err := r.Retrieve(context.Background(), "how do I enroll", kb.CategoryProgress, 3)
	if err != nil {
		t.Fatalf("Retrieve() returned error: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	// Pure similarity order: the enroll-heavy course article leads
	if chunks[0].ID != "c1" {
		t.Errorf("top chunk = %s, want c1", chunks[0].ID)
	}
}

func TestRetrieverStats(t *testing.T) {
	r := builtRetriever(t)

	stats := r.Stats()
	if stats.TotalArticles != 8 {
		t.Errorf("TotalArticles = %d, want 8", stats.TotalArticles)
	}
	if stats.ByCategory[kb.CategoryCourse] != 4 {
		t.Errorf("ByCategory[course] = %d, want 4", stats.ByCategory[kb.CategoryCourse])
	}
	if r.CorpusSize() != 8 {
		t.Errorf("CorpusSize() = %d, want 8", r.CorpusSize())
	}
}

// countingEmbedder wraps TFIDF to count Prepare calls.
type countingEmbedder struct {
	*embedding.TFIDF
	prepares atomic.Int32
}

func (c *countingEmbedder) Prepare(ctx context.Context, corpus []string) error {
	c.prepares.Add(1)
	return c.TFIDF.Prepare(ctx, corpus)
}

func TestHandleBuildsOnce(t *testing.T) {
	emb := &countingEmbedder{TFIDF: embedding.NewTFIDF()}
	h := NewHandle(testCorpus(t), emb, vectorstore.NewMemoryStore(), "kb")

	if h.Ready() {
		t.Fatal("Ready() = true before first Get")
	}

	var wg sync.WaitGroup
	retrievers := make([]*Retriever, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := h.Get(context.Background())
			if err != nil {
				t.Errorf("Get() returned error: %v", err)
				return
			}
			retrievers[i] = r
		}(i)
	}
	wg.Wait()

	if got := emb.prepares.Load(); got != 1 {
		t.Errorf("Prepare called %d times, want 1", got)
	}
	for i := 1; i < len(retrievers); i++ {
		if retrievers[i] != retrievers[0] {
			t.Fatal("Get() returned different instances across goroutines")
		}
	}
	if !h.Ready() {
		t.Error("Ready() = false after build")
	}
}

func TestHandleEmptyCorpusFailsFast(t *testing.T) {
	h := NewHandle(nil, embedding.NewTFIDF(), vectorstore.NewMemoryStore(), "kb")
	if _, err := h.Get(context.Background()); err == nil {
		t.Fatal("Get() expected error for nil corpus, got nil")
	}
	if h.Ready() {
		t.Error("Ready() = true after failed build")
	}
}
