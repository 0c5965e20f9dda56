// Package auditlog records anonymized interaction entries. The log is a
// fire-and-forget sink: callers never block the request path on it, and a
// failed write only produces a warning.
package auditlog

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Chatresh7/edtech-bot/internal/contextutil"
)

// Entry is one logged interaction. No PII: the session ID is hashed and the
// raw query is never stored, only its length.
type Entry struct {
	SessionID       string
	QueryLength     int
	Intent          string
	RetrievedTitles []string
	Latency         time.Duration
	SafetyTriggered bool
	ReplyLength     int
}

// Store persists interaction entries in SQLite.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the interaction log database at the given path and
// runs migrations.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// migrate creates the required tables. Idempotent.
func migrate(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS interactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL,
		user_hash TEXT NOT NULL,
		query_length INTEGER NOT NULL,
		intent TEXT NOT NULL,
		retrieved_docs TEXT NOT NULL,
		latency_seconds REAL NOT NULL,
		safety_triggered INTEGER NOT NULL,
		reply_length INTEGER NOT NULL
	);`)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Log writes one interaction entry. Errors are logged, not returned: the
// sink must never fail a chat request.
func (s *Store) Log(ctx context.Context, entry Entry) {
	logger := contextutil.LoggerFromContext(ctx)

	titles, err := json.Marshal(entry.RetrievedTitles)
	if err != nil {
		logger.WarnContext(ctx, "failed to encode retrieved titles", "error", err)
		titles = []byte("[]")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO interactions
		 (timestamp, user_hash, query_length, intent, retrieved_docs, latency_seconds, safety_triggered, reply_length)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339),
		anonymize(entry.SessionID),
		entry.QueryLength,
		entry.Intent,
		string(titles),
		entry.Latency.Seconds(),
		entry.SafetyTriggered,
		entry.ReplyLength,
	)
	if err != nil {
		logger.WarnContext(ctx, "failed to write interaction log", "error", err)
	}
}

// Count returns the number of logged interactions.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM interactions").Scan(&count)
	return count, err
}

// anonymize hashes a session ID so no identifier is stored in the clear.
func anonymize(sessionID string) string {
	sum := sha256.Sum256([]byte(sessionID))
	return hex.EncodeToString(sum[:])[:16]
}
