package retriever

import "github.com/Chatresh7/edtech-bot/internal/kb"

// RetrievedChunk is one ranked retrieval result. Fields are copied from the
// source article; Score is the cosine similarity against the query vector.
type RetrievedChunk struct {
	ID       string      `json:"id"`
	Title    string      `json:"title"`
	Category kb.Category `json:"category"`
	Content  string      `json:"content"`
	Tags     []string    `json:"tags,omitempty"`
	Score    float32     `json:"score"`
}
