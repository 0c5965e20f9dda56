package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Chatresh7/edtech-bot/internal/contextutil"
	"github.com/Chatresh7/edtech-bot/internal/retriever"
)

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	index *retriever.Handle
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(index *retriever.Handle) *HealthHandler {
	return &HealthHandler{index: index}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	// Overall health status: "healthy" or "unhealthy"
	Status string `json:"status"`

	// Timestamp of the health check
	Timestamp string `json:"timestamp"`

	// Individual check results
	Checks map[string]string `json:"checks"`

	// List of issues (only present if status is unhealthy)
	Issues []string `json:"issues,omitempty"`
}

// ServeHTTP handles HTTP requests for health checks. The retrieval index is
// built lazily, so a not-yet-built index counts as unhealthy until the first
// resolution succeeds.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	checks := make(map[string]string)
	var issues []string

	if h.index.Ready() {
		checks["retrieval_index"] = "ok"
	} else {
		checks["retrieval_index"] = "not ready"
		issues = append(issues, "retrieval_index_not_ready")
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if len(issues) > 0 {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}
	if len(issues) > 0 {
		response.Issues = issues
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.ErrorContext(ctx, "failed to encode health response", "error", err)
	}
}
