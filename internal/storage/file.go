package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/resh-o/agora/internal/core"
)

// FileStore persists sessions as JSON files under a base directory, one
// file per session:
//
//	<base>/dialogues/<id>.json
//	<base>/debates/<id>.json
type FileStore struct {
	base   string
	logger *slog.Logger
}

// NewFileStore creates a file store rooted at base.
func NewFileStore(base string, logger *slog.Logger) *FileStore {
	return &FileStore{base: base, logger: logger}
}

// Initialize creates the session directories.
func (s *FileStore) Initialize() error {
	for _, kind := range []SessionKind{KindDialogue, KindDebate} {
		if err := os.MkdirAll(s.dir(kind), 0755); err != nil {
			return fmt.Errorf("failed to create session directory: %w", err)
		}
	}
	return nil
}

// Close is a no-op for the file backend.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) dir(kind SessionKind) string {
	switch kind {
	case KindDebate:
		return filepath.Join(s.base, "debates")
	default:
		return filepath.Join(s.base, "dialogues")
	}
}

func (s *FileStore) path(kind SessionKind, id string) string {
	return filepath.Join(s.dir(kind), id+".json")
}

func (s *FileStore) save(kind SessionKind, id string, session any) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	data, err := json.MarshalIndent(envelope{
		SessionType: kind,
		SavedAt:     time.Now(),
		Session:     payload,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}

	if err := os.WriteFile(s.path(kind, id), data, 0644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

func (s *FileStore) load(kind SessionKind, id string) (*envelope, error) {
	data, err := os.ReadFile(s.path(kind, id))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}
	return &env, nil
}

// SaveDialogue writes a dialogue session, overwriting any previous save.
func (s *FileStore) SaveDialogue(session *core.DialogueSession) error {
	return s.save(KindDialogue, session.ID, session)
}

// SaveDebate writes a debate session, overwriting any previous save.
func (s *FileStore) SaveDebate(session *core.DebateSession) error {
	return s.save(KindDebate, session.ID, session)
}

// GetDialogue loads a dialogue session by id.
func (s *FileStore) GetDialogue(id string) (*core.DialogueSession, error) {
	env, err := s.load(KindDialogue, id)
	if err != nil {
		return nil, err
	}
	var session core.DialogueSession
	if err := json.Unmarshal(env.Session, &session); err != nil {
		return nil, fmt.Errorf("failed to parse dialogue session: %w", err)
	}
	return &session, nil
}

// GetDebate loads a debate session by id.
func (s *FileStore) GetDebate(id string) (*core.DebateSession, error) {
	env, err := s.load(KindDebate, id)
	if err != nil {
		return nil, err
	}
	var session core.DebateSession
	if err := json.Unmarshal(env.Session, &session); err != nil {
		return nil, fmt.Errorf("failed to parse debate session: %w", err)
	}
	return &session, nil
}

// List returns summaries of one kind, most recently saved first. Files that
// cannot be read or parsed are skipped with a warning rather than failing
// the whole listing.
func (s *FileStore) List(kind SessionKind) ([]StoredSummary, error) {
	entries, err := os.ReadDir(s.dir(kind))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session directory: %w", err)
	}

	var summaries []StoredSummary
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		summary, err := s.summarize(kind, id)
		if err != nil {
			s.logger.Warn("skipping unreadable session file",
				"kind", kind, "file", entry.Name(), "error", err)
			continue
		}
		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].SavedAt.After(summaries[j].SavedAt)
	})
	return summaries, nil
}

func (s *FileStore) summarize(kind SessionKind, id string) (StoredSummary, error) {
	env, err := s.load(kind, id)
	if err != nil {
		return StoredSummary{}, err
	}

	summary := StoredSummary{Kind: kind, ID: id, SavedAt: env.SavedAt}
	switch kind {
	case KindDebate:
		var session core.DebateSession
		if err := json.Unmarshal(env.Session, &session); err != nil {
			return StoredSummary{}, err
		}
		summary.Title = session.Topic
		summary.Status = string(session.Status)
		summary.MessageCount = len(session.Messages)
	default:
		var session core.DialogueSession
		if err := json.Unmarshal(env.Session, &session); err != nil {
			return StoredSummary{}, err
		}
		summary.Title = session.PhilosopherName
		if session.IsActive {
			summary.Status = "active"
		} else {
			summary.Status = "ended"
		}
		summary.MessageCount = len(session.Messages)
	}
	return summary, nil
}

// Delete removes a persisted session.
func (s *FileStore) Delete(kind SessionKind, id string) error {
	err := os.Remove(s.path(kind, id))
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete session file: %w", err)
	}
	return nil
}

// Search matches sessions of both kinds by title or debate participant,
// case-insensitively.
func (s *FileStore) Search(query string) ([]StoredSummary, error) {
	query = strings.ToLower(query)

	var matches []StoredSummary
	for _, kind := range []SessionKind{KindDialogue, KindDebate} {
		summaries, err := s.List(kind)
		if err != nil {
			return nil, err
		}
		for _, summary := range summaries {
			if strings.Contains(strings.ToLower(summary.Title), query) {
				matches = append(matches, summary)
				continue
			}
			if kind == KindDebate && s.matchesParticipant(summary.ID, query) {
				matches = append(matches, summary)
			}
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].SavedAt.After(matches[j].SavedAt)
	})
	return matches, nil
}

func (s *FileStore) matchesParticipant(id, query string) bool {
	session, err := s.GetDebate(id)
	if err != nil {
		return false
	}
	for _, p := range session.Participants {
		if strings.Contains(strings.ToLower(p.Name), query) {
			return true
		}
	}
	return false
}

// CleanupOlderThan removes sessions saved longer than age ago.
func (s *FileStore) CleanupOlderThan(age time.Duration) (int, error) {
	cutoff := time.Now().Add(-age)
	removed := 0

	for _, kind := range []SessionKind{KindDialogue, KindDebate} {
		summaries, err := s.List(kind)
		if err != nil {
			return removed, err
		}
		for _, summary := range summaries {
			if summary.SavedAt.Before(cutoff) {
				if err := s.Delete(kind, summary.ID); err != nil {
					return removed, err
				}
				removed++
			}
		}
	}
	return removed, nil
}
