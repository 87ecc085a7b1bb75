package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/resh-o/agora/internal/ai"
	"github.com/resh-o/agora/internal/philosopher"
)

// DebateStatus represents the lifecycle state of a debate session.
type DebateStatus string

const (
	StatusPreparing DebateStatus = "preparing"
	StatusActive    DebateStatus = "active"
	StatusPaused    DebateStatus = "paused"
	StatusCompleted DebateStatus = "completed"
)

var (
	// ErrInsufficientParticipants is returned when starting a debate with
	// fewer than two participants.
	ErrInsufficientParticipants = errors.New("at least 2 participants required for a debate")

	// ErrDebateCompleted is returned by operations on a completed debate.
	ErrDebateCompleted = errors.New("debate is already completed")

	// ErrDebateNotActive is returned when pausing a debate that is not active.
	ErrDebateNotActive = errors.New("debate is not active")

	// ErrDebateNotPaused is returned when resuming a debate that is not paused.
	ErrDebateNotPaused = errors.New("debate is not paused")
)

// DebateParticipant is one philosopher taking part in a debate.
type DebateParticipant struct {
	Type           philosopher.Type `json:"philosopher_type"`
	Name           string           `json:"name"`
	Position       string           `json:"position"`
	TurnCount      int              `json:"turn_count"`
	LastResponseAt *time.Time       `json:"last_response_time,omitempty"`
}

// DebateSession is a moderated multi-philosopher exchange over one shared
// append-only message log. Speaker rotation is strict round-robin in
// participant order.
type DebateSession struct {
	ID                     string              `json:"id"`
	Topic                  string              `json:"topic"`
	Description            string              `json:"description,omitempty"`
	Participants           []DebateParticipant `json:"participants"`
	Messages               []Message           `json:"messages"`
	CurrentSpeakerIndex    int                 `json:"current_speaker_index"`
	Status                 DebateStatus        `json:"status"`
	CreatedAt              time.Time           `json:"created_at"`
	StartedAt              *time.Time          `json:"started_at,omitempty"`
	CompletedAt            *time.Time          `json:"completed_at,omitempty"`
	LastActivity           time.Time           `json:"last_activity"`
	MaxTurnsPerParticipant int                 `json:"max_turns_per_participant"`
	Context                map[string]string   `json:"context,omitempty"`
	ModeratorEnabled       bool                `json:"moderator_enabled"`
}

// NewDebateSession creates a debate in the preparing state.
func NewDebateSession(topic, description string, maxTurnsPerParticipant int) *DebateSession {
	if maxTurnsPerParticipant <= 0 {
		maxTurnsPerParticipant = 3
	}
	now := time.Now()
	return &DebateSession{
		ID:                     uuid.New().String(),
		Topic:                  topic,
		Description:            description,
		Status:                 StatusPreparing,
		CreatedAt:              now,
		LastActivity:           now,
		MaxTurnsPerParticipant: maxTurnsPerParticipant,
		ModeratorEnabled:       true,
	}
}

// AddParticipant resolves the philosopher type against the registry and
// appends it to the speaking order. A copy of the stored participant is
// returned; the session owns the participant list.
func (s *DebateSession) AddParticipant(ptype philosopher.Type, position string) (DebateParticipant, error) {
	if s.Status == StatusCompleted {
		return DebateParticipant{}, ErrDebateCompleted
	}
	profile := philosopher.Get(ptype)
	if profile == nil {
		return DebateParticipant{}, fmt.Errorf("unknown philosopher: %s", ptype)
	}

	participant := DebateParticipant{
		Type:     ptype,
		Name:     profile.Name,
		Position: position,
	}
	s.Participants = append(s.Participants, participant)
	return participant, nil
}

// Start activates the debate and appends the opening system message.
// It fails without mutating state when fewer than 2 participants are present.
func (s *DebateSession) Start() error {
	if len(s.Participants) < 2 {
		return ErrInsufficientParticipants
	}

	now := time.Now()
	s.Status = StatusActive
	s.StartedAt = &now
	s.LastActivity = now

	names := make([]string, len(s.Participants))
	for i, p := range s.Participants {
		names[i] = p.Name
	}
	s.AddSystemMessage(fmt.Sprintf("Debate on '%s' has begun with %d participants: %s",
		s.Topic, len(s.Participants), strings.Join(names, ", ")))
	return nil
}

func (s *DebateSession) append(msg Message) Message {
	s.Messages = append(s.Messages, msg)
	s.LastActivity = time.Now()
	return msg
}

// AddUserMessage appends a user message to the shared log.
func (s *DebateSession) AddUserMessage(content string) Message {
	return s.append(NewMessage(MessageUser, content, nil))
}

// AddSystemMessage appends a system message to the shared log.
func (s *DebateSession) AddSystemMessage(content string) Message {
	return s.append(NewMessage(MessageSystem, content, nil))
}

// AddPhilosopherMessage appends a message attributed to the named speaker and
// increments that participant's turn count. Matching is by exact display
// name; the first match wins.
func (s *DebateSession) AddPhilosopherMessage(name, content string, metadata map[string]string) Message {
	md := map[string]string{"speaker": name}
	for k, v := range metadata {
		md[k] = v
	}
	msg := s.append(NewMessage(MessagePhilosopher, content, md))

	for i := range s.Participants {
		if s.Participants[i].Name == name {
			s.Participants[i].TurnCount++
			now := time.Now()
			s.Participants[i].LastResponseAt = &now
			break
		}
	}
	return msg
}

// CurrentSpeaker returns the participant whose turn it is, or nil when the
// debate is not active or has no participants.
func (s *DebateSession) CurrentSpeaker() *DebateParticipant {
	if s.Status != StatusActive || len(s.Participants) == 0 {
		return nil
	}
	return &s.Participants[s.CurrentSpeakerIndex]
}

// AdvanceSpeaker rotates to the next participant in order and returns the
// new current speaker.
func (s *DebateSession) AdvanceSpeaker() *DebateParticipant {
	if len(s.Participants) == 0 {
		return nil
	}
	s.CurrentSpeakerIndex = (s.CurrentSpeakerIndex + 1) % len(s.Participants)
	return s.CurrentSpeaker()
}

// IsComplete reports whether every participant has reached the turn cap.
// It is a pure predicate: the transition to completed is the caller's job.
// Always false unless the debate is active.
func (s *DebateSession) IsComplete() bool {
	if s.Status != StatusActive {
		return false
	}
	for _, p := range s.Participants {
		if p.TurnCount < s.MaxTurnsPerParticipant {
			return false
		}
	}
	return true
}

// Complete terminates the debate and appends a closing system message.
// Irreversible; completing twice is an error.
func (s *DebateSession) Complete() error {
	if s.Status == StatusCompleted {
		return ErrDebateCompleted
	}
	now := time.Now()
	s.Status = StatusCompleted
	s.CompletedAt = &now
	s.AddSystemMessage(fmt.Sprintf("Debate on '%s' has concluded. Each participant made %d contributions.",
		s.Topic, s.MaxTurnsPerParticipant))
	return nil
}

// Pause suspends an active debate.
func (s *DebateSession) Pause() error {
	if s.Status != StatusActive {
		return ErrDebateNotActive
	}
	s.Status = StatusPaused
	return nil
}

// Resume reactivates a paused debate and refreshes LastActivity.
func (s *DebateSession) Resume() error {
	if s.Status != StatusPaused {
		return ErrDebateNotPaused
	}
	s.Status = StatusActive
	s.LastActivity = time.Now()
	return nil
}

// History maps the shared log into role-tagged exchanges. Philosopher
// messages carry a speaker-name prefix since multiple personas share the log.
func (s *DebateSession) History(includeSystem bool) []ai.Exchange {
	history := make([]ai.Exchange, 0, len(s.Messages))
	for _, msg := range s.Messages {
		if msg.Type == MessageSystem && !includeSystem {
			continue
		}

		content := msg.Content
		if msg.Type == MessagePhilosopher {
			speaker := msg.SpeakerName()
			if speaker == "" {
				speaker = "Philosopher"
			}
			content = fmt.Sprintf("[%s]: %s", speaker, msg.Content)
		}

		role := "assistant"
		if msg.Type == MessageUser {
			role = "user"
		}
		history = append(history, ai.Exchange{Role: role, Content: content})
	}
	return history
}

// DebateSummary is a lightweight representation for listing debates.
type DebateSummary struct {
	ID             string         `json:"id"`
	Topic          string         `json:"topic"`
	Description    string         `json:"description,omitempty"`
	Status         DebateStatus   `json:"status"`
	Participants   []string       `json:"participants"`
	MessageCount   int            `json:"message_count"`
	CreatedAt      time.Time      `json:"created_at"`
	LastActivity   time.Time      `json:"last_activity"`
	CurrentSpeaker string         `json:"current_speaker,omitempty"`
	CompletedAt    *time.Time     `json:"completed_at,omitempty"`
	MessagesByName map[string]int `json:"philosopher_messages,omitempty"`
}

// Summary builds a listing summary for the session.
func (s *DebateSession) Summary() DebateSummary {
	summary := DebateSummary{
		ID:           s.ID,
		Topic:        s.Topic,
		Description:  s.Description,
		Status:       s.Status,
		MessageCount: len(s.Messages),
		CreatedAt:    s.CreatedAt,
		LastActivity: s.LastActivity,
		CompletedAt:  s.CompletedAt,
	}
	for _, p := range s.Participants {
		summary.Participants = append(summary.Participants, p.Name)
	}
	if speaker := s.CurrentSpeaker(); speaker != nil {
		summary.CurrentSpeaker = speaker.Name
	}

	byName := make(map[string]int)
	for _, msg := range s.Messages {
		if msg.Type == MessagePhilosopher {
			byName[msg.SpeakerName()]++
		}
	}
	if len(byName) > 0 {
		summary.MessagesByName = byName
	}
	return summary
}
