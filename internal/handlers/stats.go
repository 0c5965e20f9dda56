package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Chatresh7/edtech-bot/internal/contextutil"
	"github.com/Chatresh7/edtech-bot/internal/kb"
	"github.com/Chatresh7/edtech-bot/internal/retriever"
	"github.com/Chatresh7/edtech-bot/internal/session"
)

// StatsHandler reports knowledge-base and session counters.
type StatsHandler struct {
	index    *retriever.Handle
	sessions *session.Store
	embedder string
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(index *retriever.Handle, sessions *session.Store, embedder string) *StatsHandler {
	return &StatsHandler{
		index:    index,
		sessions: sessions,
		embedder: embedder,
	}
}

// StatsResponse represents the stats payload.
type StatsResponse struct {
	KnowledgeBase kb.Stats `json:"knowledge_base"`
	Sessions      int      `json:"active_sessions"`
	Embedder      string   `json:"embedder"`
}

// ServeHTTP handles HTTP requests for stats.
func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	ret, err := h.index.Get(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "retrieval index unavailable", "error", err)
		writeError(w, http.StatusServiceUnavailable, "Retrieval index unavailable")
		return
	}

	resp := StatsResponse{
		KnowledgeBase: ret.Stats(),
		Sessions:      h.sessions.Len(),
		Embedder:      h.embedder,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.ErrorContext(ctx, "failed to encode stats response", "error", err)
	}
}
