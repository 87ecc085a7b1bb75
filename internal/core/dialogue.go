package core

import (
	"time"

	"github.com/google/uuid"

	"github.com/resh-o/agora/internal/ai"
)

// DialogueSession is a one-on-one conversation with a single philosopher.
// The message log is append-only; every append refreshes LastActivity.
type DialogueSession struct {
	ID              string            `json:"id"`
	PhilosopherName string            `json:"philosopher_name"`
	Messages        []Message         `json:"messages"`
	CreatedAt       time.Time         `json:"created_at"`
	LastActivity    time.Time         `json:"last_activity"`
	Context         map[string]string `json:"context,omitempty"`
	IsActive        bool              `json:"is_active"`
}

// NewDialogueSession creates an active session for the named philosopher.
func NewDialogueSession(philosopherName string) *DialogueSession {
	now := time.Now()
	return &DialogueSession{
		ID:              uuid.New().String(),
		PhilosopherName: philosopherName,
		CreatedAt:       now,
		LastActivity:    now,
		IsActive:        true,
	}
}

func (s *DialogueSession) append(msg Message) Message {
	s.Messages = append(s.Messages, msg)
	s.LastActivity = time.Now()
	return msg
}

// AddUserMessage appends a user message to the log.
func (s *DialogueSession) AddUserMessage(content string) Message {
	return s.append(NewMessage(MessageUser, content, nil))
}

// AddPhilosopherMessage appends a philosopher message to the log.
func (s *DialogueSession) AddPhilosopherMessage(content string) Message {
	return s.append(NewMessage(MessagePhilosopher, content, nil))
}

// AddSystemMessage appends a system message to the log.
func (s *DialogueSession) AddSystemMessage(content string) Message {
	return s.append(NewMessage(MessageSystem, content, nil))
}

// RecentMessages returns the last limit messages in log order. The whole log
// is returned when limit is zero, negative, or exceeds the log length.
func (s *DialogueSession) RecentMessages(limit int) []Message {
	if limit <= 0 || limit >= len(s.Messages) {
		return s.Messages
	}
	return s.Messages[len(s.Messages)-limit:]
}

// History maps the log into role-tagged exchanges for the generation service.
// User messages become role "user", everything else "assistant". System
// messages are omitted unless includeSystem is set.
func (s *DialogueSession) History(includeSystem bool) []ai.Exchange {
	history := make([]ai.Exchange, 0, len(s.Messages))
	for _, msg := range s.Messages {
		if msg.Type == MessageSystem && !includeSystem {
			continue
		}
		role := "assistant"
		if msg.Type == MessageUser {
			role = "user"
		}
		history = append(history, ai.Exchange{Role: role, Content: msg.Content})
	}
	return history
}

// ClearHistory empties the message log without deleting the session.
func (s *DialogueSession) ClearHistory() {
	s.Messages = nil
	s.LastActivity = time.Now()
}

// Expired reports whether the session has been idle longer than timeout.
func (s *DialogueSession) Expired(timeout time.Duration) bool {
	return time.Since(s.LastActivity) > timeout
}

// DialogueSummary is a lightweight representation for listing dialogues.
type DialogueSummary struct {
	ID                  string    `json:"id"`
	PhilosopherName     string    `json:"philosopher_name"`
	CreatedAt           time.Time `json:"created_at"`
	LastActivity        time.Time `json:"last_activity"`
	MessageCount        int       `json:"message_count"`
	UserMessages        int       `json:"user_messages"`
	PhilosopherMessages int       `json:"philosopher_messages"`
	IsActive            bool      `json:"is_active"`
}

// Summary builds a listing summary for the session.
func (s *DialogueSession) Summary() DialogueSummary {
	summary := DialogueSummary{
		ID:              s.ID,
		PhilosopherName: s.PhilosopherName,
		CreatedAt:       s.CreatedAt,
		LastActivity:    s.LastActivity,
		MessageCount:    len(s.Messages),
		IsActive:        s.IsActive,
	}
	for _, msg := range s.Messages {
		switch msg.Type {
		case MessageUser:
			summary.UserMessages++
		case MessagePhilosopher:
			summary.PhilosopherMessages++
		}
	}
	return summary
}
