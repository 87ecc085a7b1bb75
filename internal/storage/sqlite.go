package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/resh-o/agora/internal/core"
)

// SQLiteStore implements Store using a single SQLite database. Session
// payloads are stored as JSON blobs with indexed summary columns for listing
// and search.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (or creates) the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &SQLiteStore{db: db, path: dbPath}, nil
}

// Initialize creates the database schema.
func (s *SQLiteStore) Initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT NOT NULL,
		kind TEXT NOT NULL,
		title TEXT NOT NULL,
		status TEXT NOT NULL,
		message_count INTEGER NOT NULL,
		participants TEXT NOT NULL DEFAULT '',
		payload TEXT NOT NULL,
		saved_at DATETIME NOT NULL,
		PRIMARY KEY (id, kind)
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_kind ON sessions(kind);
	CREATE INDEX IF NOT EXISTS idx_sessions_saved_at ON sessions(saved_at DESC);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) upsert(kind SessionKind, id, title, status string, messageCount int, participants string, session any) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	query := `
	INSERT INTO sessions (id, kind, title, status, message_count, participants, payload, saved_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id, kind) DO UPDATE SET
		title = excluded.title,
		status = excluded.status,
		message_count = excluded.message_count,
		participants = excluded.participants,
		payload = excluded.payload,
		saved_at = excluded.saved_at
	`

	if _, err := s.db.Exec(query, id, string(kind), title, status, messageCount, participants, string(payload), time.Now()); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// SaveDialogue writes a dialogue session, overwriting any previous save.
func (s *SQLiteStore) SaveDialogue(session *core.DialogueSession) error {
	status := "ended"
	if session.IsActive {
		status = "active"
	}
	return s.upsert(KindDialogue, session.ID, session.PhilosopherName, status, len(session.Messages), "", session)
}

// SaveDebate writes a debate session, overwriting any previous save.
func (s *SQLiteStore) SaveDebate(session *core.DebateSession) error {
	var names []string
	for _, p := range session.Participants {
		names = append(names, p.Name)
	}
	return s.upsert(KindDebate, session.ID, session.Topic, string(session.Status),
		len(session.Messages), strings.Join(names, ","), session)
}

func (s *SQLiteStore) payload(kind SessionKind, id string) ([]byte, error) {
	var payload string
	err := s.db.QueryRow("SELECT payload FROM sessions WHERE id = ? AND kind = ?", id, string(kind)).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return []byte(payload), nil
}

// GetDialogue loads a dialogue session by id.
func (s *SQLiteStore) GetDialogue(id string) (*core.DialogueSession, error) {
	payload, err := s.payload(KindDialogue, id)
	if err != nil {
		return nil, err
	}
	var session core.DialogueSession
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dialogue session: %w", err)
	}
	return &session, nil
}

// GetDebate loads a debate session by id.
func (s *SQLiteStore) GetDebate(id string) (*core.DebateSession, error) {
	payload, err := s.payload(KindDebate, id)
	if err != nil {
		return nil, err
	}
	var session core.DebateSession
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal debate session: %w", err)
	}
	return &session, nil
}

func (s *SQLiteStore) scanSummaries(rows *sql.Rows) ([]StoredSummary, error) {
	defer rows.Close()

	var summaries []StoredSummary
	for rows.Next() {
		var summary StoredSummary
		var kind string
		if err := rows.Scan(&summary.ID, &kind, &summary.Title, &summary.Status,
			&summary.MessageCount, &summary.SavedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session summary: %w", err)
		}
		summary.Kind = SessionKind(kind)
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}

// List returns summaries of one kind, most recently saved first.
func (s *SQLiteStore) List(kind SessionKind) ([]StoredSummary, error) {
	query := `
	SELECT id, kind, title, status, message_count, saved_at
	FROM sessions
	WHERE kind = ?
	ORDER BY saved_at DESC
	`

	rows, err := s.db.Query(query, string(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return s.scanSummaries(rows)
}

// Delete removes a persisted session.
func (s *SQLiteStore) Delete(kind SessionKind, id string) error {
	result, err := s.db.Exec("DELETE FROM sessions WHERE id = ? AND kind = ?", id, string(kind))
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Search matches sessions by title or debate participant, case-insensitively.
func (s *SQLiteStore) Search(query string) ([]StoredSummary, error) {
	pattern := "%" + strings.ToLower(query) + "%"

	rows, err := s.db.Query(`
	SELECT id, kind, title, status, message_count, saved_at
	FROM sessions
	WHERE lower(title) LIKE ? OR lower(participants) LIKE ?
	ORDER BY saved_at DESC
	`, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search sessions: %w", err)
	}
	return s.scanSummaries(rows)
}

// CleanupOlderThan removes sessions saved longer than age ago.
func (s *SQLiteStore) CleanupOlderThan(age time.Duration) (int, error) {
	cutoff := time.Now().Add(-age)
	result, err := s.db.Exec("DELETE FROM sessions WHERE saved_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up sessions: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to clean up sessions: %w", err)
	}
	return int(affected), nil
}
