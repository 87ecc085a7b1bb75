// Package storage persists dialogue and debate sessions. Two backends are
// provided: JSON files on disk and SQLite.
package storage

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/resh-o/agora/internal/core"
)

// SessionKind discriminates the two session types in storage.
type SessionKind string

const (
	KindDialogue SessionKind = "dialogue"
	KindDebate   SessionKind = "debate"
)

// ErrNotFound is returned when a session does not exist in the store.
var ErrNotFound = errors.New("session not found in storage")

// StoredSummary is a listing entry for a persisted session.
type StoredSummary struct {
	Kind         SessionKind `json:"kind"`
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Status       string      `json:"status,omitempty"`
	MessageCount int         `json:"message_count"`
	SavedAt      time.Time   `json:"saved_at"`
}

// Store defines the interface for session persistence.
type Store interface {
	// Initialize sets up the storage (creates directories, tables, etc.)
	Initialize() error

	// Close closes the storage.
	Close() error

	// Save operations. Saving an existing session overwrites it.
	SaveDialogue(session *core.DialogueSession) error
	SaveDebate(session *core.DebateSession) error

	// Load operations. Return ErrNotFound when the id is unknown.
	GetDialogue(id string) (*core.DialogueSession, error)
	GetDebate(id string) (*core.DebateSession, error)

	// List returns summaries of one kind, most recently saved first.
	List(kind SessionKind) ([]StoredSummary, error)

	// Delete removes a persisted session. ErrNotFound when absent.
	Delete(kind SessionKind, id string) error

	// Search matches sessions by topic, philosopher, or participant name.
	Search(query string) ([]StoredSummary, error)

	// CleanupOlderThan removes sessions saved longer than age ago and
	// returns how many were removed.
	CleanupOlderThan(age time.Duration) (int, error)
}

// envelope is the persisted wrapper around a session payload.
type envelope struct {
	SessionType SessionKind     `json:"session_type"`
	SavedAt     time.Time       `json:"saved_at"`
	Session     json.RawMessage `json:"session"`
}
