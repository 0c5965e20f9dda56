package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single conversation message. History is append-only: turns are
// never reordered or deduplicated, only windowed from the front when
// assembling context.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Session holds one conversation's state. A session serves one request at a
// time; the mutex guards against registry-level concurrent access.
type Session struct {
	ID string

	mu      sync.Mutex
	history []Turn

	requestCount int
	windowStart  time.Time
}

// Append adds a turn to the conversation history.
func (s *Session) Append(role Role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, Turn{Role: role, Content: content})
}

// History returns a snapshot of the conversation so far.
func (s *Session) History() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.history))
	copy(out, s.history)
	return out
}

// Turns returns the number of turns recorded so far.
func (s *Session) Turns() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

// Allow applies a sliding-window rate limit: at most limit requests per
// window. It returns false when the budget for the current window is spent.
func (s *Session) Allow(limit int, window time.Duration, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Sub(s.windowStart) > window {
		s.requestCount = 0
		s.windowStart = now
	}
	if s.requestCount >= limit {
		return false
	}
	s.requestCount++
	return true
}

// Store is an in-memory session registry keyed by session ID.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewStore creates an empty session registry.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// GetOrCreate returns the session with the given ID, creating it if needed.
// An empty ID creates a fresh session with a generated UUID.
func (st *Store) GetOrCreate(id string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	if id == "" {
		id = uuid.New().String()
	}
	if s, ok := st.sessions[id]; ok {
		return s
	}
	s := &Session{ID: id, windowStart: time.Now()}
	st.sessions[id] = s
	return s
}

// Len returns the number of active sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
