package prompt

import "github.com/Chatresh7/edtech-bot/internal/retriever"

// DefaultConfidenceThreshold is the score below which retrieval is treated
// as too weak to answer from. Tunable via CONFIDENCE_THRESHOLD.
const DefaultConfidenceThreshold float32 = 0.20

// ClarificationResponse is returned instead of calling the generator when
// the confidence gate trips.
const ClarificationResponse = "I want to make sure I give you the most accurate answer. " +
	"Could you clarify — are you asking about:\n" +
	"- **Quizzes** (short graded tests within modules)\n" +
	"- **Assignments** (submitted project work)\n" +
	"- **Final Exams** (end-of-course certification exams)\n" +
	"- **Progress Tracking** (dashboard and completion metrics)\n\n" +
	"That will help me explain the right process for you!"

// NeedsClarification reports whether the retrieval evidence is too weak to
// answer from: no chunks at all, or the best score strictly below threshold.
// Only the top score matters; a low-scoring tail behind one strong hit does
// not trip the gate.
func NeedsClarification(chunks []retriever.RetrievedChunk, threshold float32) bool {
	if len(chunks) == 0 {
		return true
	}
	best := chunks[0].Score
	for _, c := range chunks[1:] {
		if c.Score > best {
			best = c.Score
		}
	}
	return best < threshold
}
