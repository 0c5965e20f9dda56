package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_dependencies.go -package=mocks github.com/Chatresh7/edtech-bot/internal/service Generator,Retriever,InteractionLogger
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chat_service.go -package=mocks -mock_names=ChatService=MockChatService github.com/Chatresh7/edtech-bot/internal/service ChatService

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Chatresh7/edtech-bot/internal/auditlog"
	"github.com/Chatresh7/edtech-bot/internal/contextutil"
	"github.com/Chatresh7/edtech-bot/internal/kb"
	"github.com/Chatresh7/edtech-bot/internal/llm"
	"github.com/Chatresh7/edtech-bot/internal/prompt"
	"github.com/Chatresh7/edtech-bot/internal/retriever"
	"github.com/Chatresh7/edtech-bot/internal/safety"
	"github.com/Chatresh7/edtech-bot/internal/session"
)

// Generator produces a reply from a prepared message list.
// This interface is defined from the service layer's perspective (consumer-first).
type Generator interface {
	ChatWithMessages(ctx context.Context, messages []llm.Message, params llm.ChatParams) (string, time.Duration, error)
}

// Retriever returns the top knowledge-base chunks for a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, hint kb.Category, k int) ([]retriever.RetrievedChunk, error)
}

// InteractionLogger records anonymized interaction entries.
type InteractionLogger interface {
	Log(ctx context.Context, entry auditlog.Entry)
}

// ChatRequest represents a chat request in the domain layer.
type ChatRequest struct {
	SessionID string
	Message   string `validate:"required"`
	TopK      int
}

// Source describes one knowledge-base chunk that backed a reply.
type Source struct {
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Score    float32 `json:"score"`
}

// ChatResponse represents a chat response in the domain layer.
type ChatResponse struct {
	SessionID     string
	Reply         string
	Intent        string
	Blocked       bool
	Clarification bool
	Sources       []Source
	ChunkCount    int
	Latency       time.Duration
}

// Options tune the chat pipeline. Zero values are not usable; build them
// from config.
type Options struct {
	ConfidenceThreshold float32
	DefaultTopK         int
	MaxTopK             int
	HistoryWindow       int
	RateLimit           int
	RateLimitWindow     time.Duration
}

// ChatService provides chat functionality.
type ChatService interface {
	// ProcessChat processes a chat request and returns a response.
	ProcessChat(ctx context.Context, req ChatRequest) (ChatResponse, error)
}

// chatService implements ChatService.
type chatService struct {
	retriever Retriever
	generator Generator
	audit     InteractionLogger
	sessions  *session.Store
	opts      Options
}

// NewChatService creates a new ChatService.
func NewChatService(ret Retriever, gen Generator, audit InteractionLogger, sessions *session.Store, opts Options) ChatService {
	return &chatService{
		retriever: ret,
		generator: gen,
		audit:     audit,
		sessions:  sessions,
		opts:      opts,
	}
}

// ProcessChat runs the full pipeline: validation, rate limiting, the safety
// gate, retrieval, the confidence gate, prompt assembly and generation,
// answer-leakage validation, and finally the interaction log.
func (s *chatService) ProcessChat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)
	started := time.Now()

	if strings.TrimSpace(req.Message) == "" {
		logger.WarnContext(ctx, "empty message in chat request")
		return ChatResponse{}, &ValidationError{
			Field:   "message",
			Message: "cannot be empty",
		}
	}

	sess := s.sessions.GetOrCreate(req.SessionID)

	if !sess.Allow(s.opts.RateLimit, s.opts.RateLimitWindow, time.Now()) {
		logger.WarnContext(ctx, "session rate limited", "session_id", sess.ID)
		return ChatResponse{}, ErrRateLimited
	}

	intent := safety.ClassifyIntent(req.Message)

	if intent == safety.IntentBlocked {
		logger.InfoContext(ctx, "query blocked by safety filter", "session_id", sess.ID)
		resp := s.finish(ctx, sess, req.Message, safety.SafeResponse, intent, nil, started, true)
		resp.Blocked = true
		return resp, nil
	}

	k := clampTopK(req.TopK, s.opts.DefaultTopK, s.opts.MaxTopK)

	chunks, err := s.retriever.Retrieve(ctx, req.Message, intent.CategoryHint(), k)
	if err != nil {
		logger.ErrorContext(ctx, "retrieval failed", "error", err)
		return ChatResponse{}, fmt.Errorf("%w: retrieval: %v", ErrExternalService, err)
	}

	if prompt.NeedsClarification(chunks, s.opts.ConfidenceThreshold) {
		logger.InfoContext(ctx, "low retrieval confidence, asking for clarification",
			"session_id", sess.ID, "chunks", len(chunks))
		resp := s.finish(ctx, sess, req.Message, prompt.ClarificationResponse, intent, nil, started, false)
		resp.Clarification = true
		return resp, nil
	}

	// Window the history before appending the current turn so the query
	// text reaches the model exactly once, inside the augmented message.
	window := session.Window(sess.History(), s.opts.HistoryWindow)

	messages := make([]llm.Message, 0, len(window)+2)
	messages = append(messages, llm.Message{Role: "system", Content: prompt.SystemPrompt})
	messages = append(messages, prompt.BuildContext(req.Message, chunks, window, intent.CategoryHint(), k)...)

	reply, _, err := s.generator.ChatWithMessages(ctx, messages, prompt.DefaultParams)
	if err != nil {
		logger.ErrorContext(ctx, "failed to get LLM response", "error", err)
		return ChatResponse{}, fmt.Errorf("%w: generation: %v", ErrExternalService, err)
	}

	reply, safe := safety.ValidateResponse(reply)
	if !safe {
		logger.WarnContext(ctx, "generated reply blocked for answer leakage", "session_id", sess.ID)
	}

	resp := s.finish(ctx, sess, req.Message, reply, intent, chunks, started, !safe)
	logger.InfoContext(ctx, "chat request processed successfully",
		"session_id", sess.ID,
		"intent", string(intent),
		"chunks", len(chunks),
		"latency_ms", resp.Latency.Milliseconds(),
		"reply_length", len(reply))
	return resp, nil
}

// finish records the exchange on the session, writes the interaction log and
// assembles the response. Every reply path goes through here so follow-up
// turns always see the full conversation.
func (s *chatService) finish(
	ctx context.Context,
	sess *session.Session,
	query, reply string,
	intent safety.Intent,
	chunks []retriever.RetrievedChunk,
	started time.Time,
	safetyTriggered bool,
) ChatResponse {
	sess.Append(session.RoleUser, query)
	sess.Append(session.RoleAssistant, reply)

	latency := time.Since(started)

	sources := make([]Source, 0, len(chunks))
	titles := make([]string, 0, len(chunks))
	for _, c := range chunks {
		sources = append(sources, Source{Title: c.Title, Category: string(c.Category), Score: c.Score})
		titles = append(titles, c.Title)
	}

	if s.audit != nil {
		// The request context may be cancelled as soon as the handler
		// returns; the log write must still complete.
		go s.audit.Log(context.WithoutCancel(ctx), auditlog.Entry{
			SessionID:       sess.ID,
			QueryLength:     len(query),
			Intent:          string(intent),
			RetrievedTitles: titles,
			Latency:         latency,
			SafetyTriggered: safetyTriggered,
			ReplyLength:     len(reply),
		})
	}

	return ChatResponse{
		SessionID:  sess.ID,
		Reply:      reply,
		Intent:     string(intent),
		Sources:    sources,
		ChunkCount: len(chunks),
		Latency:    latency,
	}
}

func clampTopK(k, def, max int) int {
	if k <= 0 {
		return def
	}
	if k > max {
		return max
	}
	return k
}
