// Package session tracks live dialogue and debate sessions in memory and
// evicts idle dialogues past their timeout.
package session

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/resh-o/agora/internal/core"
)

var ErrSessionNotFound = errors.New("session not found")

// Manager is the in-memory registry of live sessions. Dialogue sessions
// expire after the idle timeout; debates live until completed or removed.
// Expired dialogues are evicted lazily on access, not by a background timer.
type Manager struct {
	mu        sync.Mutex
	dialogues map[string]*core.DialogueSession
	debates   map[string]*core.DebateSession
	timeout   time.Duration
	logger    *slog.Logger
}

// NewManager creates a session manager with the given dialogue idle timeout.
func NewManager(timeout time.Duration, logger *slog.Logger) *Manager {
	if timeout <= 0 {
		timeout = time.Hour
	}
	return &Manager{
		dialogues: make(map[string]*core.DialogueSession),
		debates:   make(map[string]*core.DebateSession),
		timeout:   timeout,
		logger:    logger,
	}
}

// TrackDialogue registers a dialogue session.
func (m *Manager) TrackDialogue(session *core.DialogueSession) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dialogues[session.ID] = session
}

// TrackDebate registers a debate session.
func (m *Manager) TrackDebate(session *core.DebateSession) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.debates[session.ID] = session
}

// GetDialogue returns a tracked dialogue. An expired session is evicted and
// reported as not found.
func (m *Manager) GetDialogue(id string) (*core.DialogueSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.dialogues[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if session.Expired(m.timeout) {
		delete(m.dialogues, id)
		m.logger.Info("evicted expired dialogue", "session_id", id)
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// GetDebate returns a tracked debate.
func (m *Manager) GetDebate(id string) (*core.DebateSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.debates[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// ActiveDialogues lists tracked dialogues with IsActive set, evicting
// expired ones as a side effect. Paused dialogues stay tracked but are
// not reported.
func (m *Manager) ActiveDialogues() []*core.DialogueSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	var active []*core.DialogueSession
	for id, session := range m.dialogues {
		if session.Expired(m.timeout) {
			delete(m.dialogues, id)
			m.logger.Info("evicted expired dialogue", "session_id", id)
			continue
		}
		if !session.IsActive {
			continue
		}
		active = append(active, session)
	}
	return active
}

// ActiveDebates lists all tracked debates.
func (m *Manager) ActiveDebates() []*core.DebateSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	debates := make([]*core.DebateSession, 0, len(m.debates))
	for _, session := range m.debates {
		debates = append(debates, session)
	}
	return debates
}

// EndDialogue deactivates and removes a dialogue, appending a parting
// system message first.
func (m *Manager) EndDialogue(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.dialogues[id]
	if !ok {
		return ErrSessionNotFound
	}
	session.AddSystemMessage("The dialogue has ended. Farewell!")
	session.IsActive = false
	delete(m.dialogues, id)
	m.logger.Info("dialogue ended", "session_id", id)
	return nil
}

// PauseDialogue marks a dialogue inactive while keeping it tracked.
func (m *Manager) PauseDialogue(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.dialogues[id]
	if !ok {
		return ErrSessionNotFound
	}
	session.AddSystemMessage("The dialogue has been paused.")
	session.IsActive = false
	return nil
}

// ResumeDialogue reactivates a paused dialogue.
func (m *Manager) ResumeDialogue(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.dialogues[id]
	if !ok {
		return ErrSessionNotFound
	}
	session.AddSystemMessage("The dialogue has resumed.")
	session.IsActive = true
	return nil
}

// RemoveDebate drops a debate from tracking without altering its state.
func (m *Manager) RemoveDebate(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.debates[id]; !ok {
		return ErrSessionNotFound
	}
	delete(m.debates, id)
	return nil
}

// CleanupExpired evicts every expired dialogue and returns how many were
// removed. Debates do not expire.
func (m *Manager) CleanupExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, session := range m.dialogues {
		if session.Expired(m.timeout) {
			delete(m.dialogues, id)
			removed++
		}
	}
	if removed > 0 {
		m.logger.Info("cleaned up expired dialogues", "count", removed)
	}
	return removed
}

// Stats summarizes what the manager is tracking.
type Stats struct {
	Dialogues      int `json:"dialogues"`
	Debates        int `json:"debates"`
	ActiveDebates  int `json:"active_debates"`
	TimeoutSeconds int `json:"timeout_seconds"`
}

// Stats reports current tracking counts.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := Stats{
		Dialogues:      len(m.dialogues),
		Debates:        len(m.debates),
		TimeoutSeconds: int(m.timeout.Seconds()),
	}
	for _, d := range m.debates {
		if d.Status == core.StatusActive {
			stats.ActiveDebates++
		}
	}
	return stats
}
