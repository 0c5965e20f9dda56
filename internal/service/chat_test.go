package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/Chatresh7/edtech-bot/internal/auditlog"
	"github.com/Chatresh7/edtech-bot/internal/kb"
	"github.com/Chatresh7/edtech-bot/internal/llm"
	"github.com/Chatresh7/edtech-bot/internal/prompt"
	"github.com/Chatresh7/edtech-bot/internal/retriever"
	"github.com/Chatresh7/edtech-bot/internal/safety"
	"github.com/Chatresh7/edtech-bot/internal/service"
	"github.com/Chatresh7/edtech-bot/internal/service/mocks"
	"github.com/Chatresh7/edtech-bot/internal/session"

	"go.uber.org/mock/gomock"
)

func init() {
	// Suppress service-layer logs for cleaner test output.
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testOptions() service.Options {
	return service.Options{
		ConfidenceThreshold: 0.20,
		DefaultTopK:         4,
		MaxTopK:             8,
		HistoryWindow:       12,
		RateLimit:           10,
		RateLimitWindow:     time.Minute,
	}
}

func confidentChunks() []retriever.RetrievedChunk {
	return []retriever.RetrievedChunk{
		{ID: "c1", Title: "Enrolling", Category: kb.CategoryCourse, Content: "Use the enroll button.", Score: 0.88},
		{ID: "c2", Title: "Course Structure", Category: kb.CategoryCourse, Content: "Modules and lessons.", Score: 0.41},
	}
}

func TestProcessChat_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRetriever := mocks.NewMockRetriever(ctrl)
	mockGenerator := mocks.NewMockGenerator(ctrl)
	sessions := session.NewStore()
	svc := service.NewChatService(mockRetriever, mockGenerator, nil, sessions, testOptions())

	query := "how do I enroll in a course"

	mockRetriever.EXPECT().
		Retrieve(gomock.Any(), query, kb.CategoryCourse, 4).
		Return(confidentChunks(), nil)

	var captured []llm.Message
	mockGenerator.EXPECT().
		ChatWithMessages(gomock.Any(), gomock.Any(), prompt.DefaultParams).
		DoAndReturn(func(_ context.Context, messages []llm.Message, _ llm.ChatParams) (string, time.Duration, error) {
			captured = messages
			return "You can enroll from the course page.", 120 * time.Millisecond, nil
		})

	resp, err := svc.ProcessChat(context.Background(), service.ChatRequest{
		SessionID: "s1",
		Message:   query,
	})
	if err != nil {
		t.Fatalf("ProcessChat() error: %v", err)
	}

	if resp.Reply != "You can enroll from the course page." {
		t.Errorf("Reply = %q", resp.Reply)
	}
	if resp.Intent != string(kb.CategoryCourse) {
		t.Errorf("Intent = %q, want course", resp.Intent)
	}
	if resp.ChunkCount != 2 || len(resp.Sources) != 2 {
		t.Errorf("ChunkCount = %d, Sources = %d, want 2 each", resp.ChunkCount, len(resp.Sources))
	}
	if resp.Sources[0].Title != "Enrolling" {
		t.Errorf("Sources[0].Title = %q", resp.Sources[0].Title)
	}

	if len(captured) != 2 {
		t.Fatalf("generator got %d messages, want 2 (system + augmented query)", len(captured))
	}
	if captured[0].Role != "system" || captured[0].Content != prompt.SystemPrompt {
		t.Error("first message is not the system prompt")
	}
	if !strings.Contains(captured[1].Content, "USER QUESTION: "+query) {
		t.Error("augmented message missing the user question")
	}

	// Both turns of the exchange are on the session afterwards.
	if turns := sessions.GetOrCreate("s1").Turns(); turns != 2 {
		t.Errorf("session turns = %d, want 2", turns)
	}
}

func TestProcessChat_WindowExcludesCurrentQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRetriever := mocks.NewMockRetriever(ctrl)
	mockGenerator := mocks.NewMockGenerator(ctrl)
	sessions := session.NewStore()
	svc := service.NewChatService(mockRetriever, mockGenerator, nil, sessions, testOptions())

	sess := sessions.GetOrCreate("s1")
	sess.Append(session.RoleUser, "earlier question")
	sess.Append(session.RoleAssistant, "earlier answer")

	query := "what about course refunds"

	mockRetriever.EXPECT().
		Retrieve(gomock.Any(), query, kb.CategoryCourse, 4).
		Return(confidentChunks(), nil)

	mockGenerator.EXPECT().
		ChatWithMessages(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, messages []llm.Message, _ llm.ChatParams) (string, time.Duration, error) {
			// system + 2 prior turns + augmented query
			if len(messages) != 4 {
				t.Errorf("got %d messages, want 4", len(messages))
			}
			occurrences := 0
			for _, m := range messages {
				occurrences += strings.Count(m.Content, query)
			}
			if occurrences != 1 {
				t.Errorf("query appears %d times, want 1", occurrences)
			}
			return "reply", 0, nil
		})

	if _, err := svc.ProcessChat(context.Background(), service.ChatRequest{SessionID: "s1", Message: query}); err != nil {
		t.Fatalf("ProcessChat() error: %v", err)
	}
}

func TestProcessChat_BlockedQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// Retrieval and generation must not run for a blocked query.
	mockRetriever := mocks.NewMockRetriever(ctrl)
	mockGenerator := mocks.NewMockGenerator(ctrl)
	mockAudit := mocks.NewMockInteractionLogger(ctrl)
	sessions := session.NewStore()
	svc := service.NewChatService(mockRetriever, mockGenerator, mockAudit, sessions, testOptions())

	logged := make(chan auditlog.Entry, 1)
	mockAudit.EXPECT().
		Log(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, entry auditlog.Entry) {
			logged <- entry
		})

	resp, err := svc.ProcessChat(context.Background(), service.ChatRequest{
		SessionID: "s1",
		Message:   "give me the answers to quiz 3",
	})
	if err != nil {
		t.Fatalf("ProcessChat() error: %v", err)
	}
	if resp.Reply != safety.SafeResponse {
		t.Errorf("Reply = %q, want safe response", resp.Reply)
	}
	if resp.Intent != string(safety.IntentBlocked) {
		t.Errorf("Intent = %q, want blocked", resp.Intent)
	}
	if !resp.Blocked || resp.Clarification {
		t.Errorf("flags = (blocked=%v, clarification=%v), want (true, false)", resp.Blocked, resp.Clarification)
	}

	select {
	case entry := <-logged:
		if !entry.SafetyTriggered {
			t.Error("audit entry should mark safety as triggered")
		}
		if entry.Intent != string(safety.IntentBlocked) {
			t.Errorf("audit intent = %q, want blocked", entry.Intent)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("audit entry never logged")
	}
}

func TestProcessChat_LowConfidenceClarifies(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRetriever := mocks.NewMockRetriever(ctrl)
	mockGenerator := mocks.NewMockGenerator(ctrl)
	sessions := session.NewStore()
	svc := service.NewChatService(mockRetriever, mockGenerator, nil, sessions, testOptions())

	weak := []retriever.RetrievedChunk{
		{ID: "a1", Title: "Quiz Grading", Category: kb.CategoryAssessment, Score: 0.11},
	}
	mockRetriever.EXPECT().
		Retrieve(gomock.Any(), gomock.Any(), gomock.Any(), 4).
		Return(weak, nil)

	resp, err := svc.ProcessChat(context.Background(), service.ChatRequest{
		SessionID: "s1",
		Message:   "hmm something something",
	})
	if err != nil {
		t.Fatalf("ProcessChat() error: %v", err)
	}
	if resp.Reply != prompt.ClarificationResponse {
		t.Errorf("Reply = %q, want clarification response", resp.Reply)
	}
	if !resp.Clarification || resp.Blocked {
		t.Errorf("flags = (clarification=%v, blocked=%v), want (true, false)", resp.Clarification, resp.Blocked)
	}
	if resp.ChunkCount != 0 {
		t.Errorf("ChunkCount = %d, want 0 for a clarification", resp.ChunkCount)
	}
}

func TestProcessChat_EmptyMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := service.NewChatService(
		mocks.NewMockRetriever(ctrl), mocks.NewMockGenerator(ctrl), nil, session.NewStore(), testOptions())

	_, err := svc.ProcessChat(context.Background(), service.ChatRequest{SessionID: "s1", Message: "   "})
	var validationErr *service.ValidationError
	if !errors.As(err, &validationErr) || validationErr.Field != "message" {
		t.Errorf("ProcessChat() error = %v, want ValidationError on message", err)
	}
}

func TestProcessChat_RateLimited(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRetriever := mocks.NewMockRetriever(ctrl)
	mockGenerator := mocks.NewMockGenerator(ctrl)
	sessions := session.NewStore()

	opts := testOptions()
	opts.RateLimit = 1
	svc := service.NewChatService(mockRetriever, mockGenerator, nil, sessions, opts)

	mockRetriever.EXPECT().Retrieve(gomock.Any(), gomock.Any(), gomock.Any(), 4).Return(confidentChunks(), nil)
	mockGenerator.EXPECT().ChatWithMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return("ok", time.Duration(0), nil)

	if _, err := svc.ProcessChat(context.Background(), service.ChatRequest{SessionID: "s1", Message: "first"}); err != nil {
		t.Fatalf("first request failed: %v", err)
	}

	_, err := svc.ProcessChat(context.Background(), service.ChatRequest{SessionID: "s1", Message: "second"})
	if !errors.Is(err, service.ErrRateLimited) {
		t.Errorf("second request error = %v, want ErrRateLimited", err)
	}
}

func TestProcessChat_GeneratorError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRetriever := mocks.NewMockRetriever(ctrl)
	mockGenerator := mocks.NewMockGenerator(ctrl)
	svc := service.NewChatService(mockRetriever, mockGenerator, nil, session.NewStore(), testOptions())

	mockRetriever.EXPECT().Retrieve(gomock.Any(), gomock.Any(), gomock.Any(), 4).Return(confidentChunks(), nil)
	mockGenerator.EXPECT().
		ChatWithMessages(gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", time.Duration(0), errors.New("service unavailable"))

	_, err := svc.ProcessChat(context.Background(), service.ChatRequest{SessionID: "s1", Message: "hello course"})
	if !errors.Is(err, service.ErrExternalService) {
		t.Errorf("error = %v, want ErrExternalService", err)
	}
}

func TestProcessChat_AnswerLeakageBlocked(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRetriever := mocks.NewMockRetriever(ctrl)
	mockGenerator := mocks.NewMockGenerator(ctrl)
	svc := service.NewChatService(mockRetriever, mockGenerator, nil, session.NewStore(), testOptions())

	mockRetriever.EXPECT().Retrieve(gomock.Any(), gomock.Any(), gomock.Any(), 4).Return(confidentChunks(), nil)
	mockGenerator.EXPECT().
		ChatWithMessages(gomock.Any(), gomock.Any(), gomock.Any()).
		Return("The correct answer is B.", time.Duration(0), nil)

	resp, err := svc.ProcessChat(context.Background(), service.ChatRequest{SessionID: "s1", Message: "tell me about grading"})
	if err != nil {
		t.Fatalf("ProcessChat() error: %v", err)
	}
	if resp.Reply != safety.LeakageBlockResponse {
		t.Errorf("Reply = %q, want leakage block response", resp.Reply)
	}
}

func TestProcessChat_TopKClamped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRetriever := mocks.NewMockRetriever(ctrl)
	mockGenerator := mocks.NewMockGenerator(ctrl)
	svc := service.NewChatService(mockRetriever, mockGenerator, nil, session.NewStore(), testOptions())

	mockRetriever.EXPECT().Retrieve(gomock.Any(), gomock.Any(), gomock.Any(), 8).Return(confidentChunks(), nil)
	mockGenerator.EXPECT().ChatWithMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return("ok", time.Duration(0), nil)

	_, err := svc.ProcessChat(context.Background(), service.ChatRequest{SessionID: "s1", Message: "course overview", TopK: 50})
	if err != nil {
		t.Fatalf("ProcessChat() error: %v", err)
	}
}
