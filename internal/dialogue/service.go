// Package dialogue runs one-on-one conversations between a user and a
// single philosopher persona.
package dialogue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/resh-o/agora/internal/ai"
	"github.com/resh-o/agora/internal/core"
	"github.com/resh-o/agora/internal/philosopher"
)

// maxLogMessages bounds the in-memory message log. When exceeded, the
// oldest exchanges are dropped but the welcome message is kept.
const maxLogMessages = 200

var ErrUnknownPhilosopher = errors.New("unknown philosopher")

// Service creates dialogue sessions and generates philosopher replies.
type Service struct {
	generator  ai.Generator
	logger     *slog.Logger
	maxHistory int
	maxTokens  int
}

// NewService builds a dialogue service. maxHistory caps how many prior
// messages are replayed to the generator on each turn.
func NewService(generator ai.Generator, logger *slog.Logger, maxHistory int) *Service {
	if maxHistory <= 0 {
		maxHistory = 20
	}
	return &Service{
		generator:  generator,
		logger:     logger,
		maxHistory: maxHistory,
		maxTokens:  4000,
	}
}

// Start creates a new session with the given philosopher and seeds it
// with the persona's welcome message.
func (s *Service) Start(ptype philosopher.Type) (*core.DialogueSession, error) {
	prof := philosopher.Get(ptype)
	if prof == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPhilosopher, ptype)
	}

	session := core.NewDialogueSession(prof.Name)
	session.AddPhilosopherMessage(prof.WelcomeMessage())

	s.logger.Info("dialogue started",
		"session_id", session.ID,
		"philosopher", prof.Name)
	return session, nil
}

// Send records the user's message, asks the generator for the
// philosopher's reply, and appends it to the session. When the backend
// fails the philosopher still answers, with an in-character apology, so
// the conversation never dead-ends.
func (s *Service) Send(ctx context.Context, session *core.DialogueSession, message string) (core.Message, error) {
	prof := philosopher.FromName(session.PhilosopherName)
	if prof == nil {
		return core.Message{}, fmt.Errorf("%w: %s", ErrUnknownPhilosopher, session.PhilosopherName)
	}

	session.AddUserMessage(message)

	history := session.History(false)
	if len(history) > s.maxHistory {
		history = history[len(history)-s.maxHistory:]
	}
	history = ai.TruncateHistory(history, s.maxTokens)

	reply, err := s.generator.Generate(ctx, ai.Request{
		SystemPrompt: prof.SystemPrompt(),
		History:      history,
		Message:      message,
	})
	if err != nil {
		var svcErr *ai.ServiceError
		if !errors.As(err, &svcErr) {
			return core.Message{}, fmt.Errorf("generate reply: %w", err)
		}
		s.logger.Warn("generation failed, using fallback reply",
			"session_id", session.ID,
			"kind", svcErr.Kind,
			"error", svcErr)
		reply = fallbackReply(prof)
	}

	msg := session.AddPhilosopherMessage(reply)
	s.trim(session)
	return msg, nil
}

// trim drops the oldest exchanges once the log grows past the cap. The
// first message is the welcome and survives trimming.
func (s *Service) trim(session *core.DialogueSession) {
	if len(session.Messages) <= maxLogMessages {
		return
	}
	keep := session.Messages[:1]
	tail := session.Messages[len(session.Messages)-(maxLogMessages-1):]
	session.Messages = append(append([]core.Message{}, keep...), tail...)
	s.logger.Debug("trimmed dialogue log", "session_id", session.ID)
}

// Info returns the profile backing a session, if still registered.
func (s *Service) Info(session *core.DialogueSession) *philosopher.Profile {
	return philosopher.FromName(session.PhilosopherName)
}

func fallbackReply(prof *philosopher.Profile) string {
	return fmt.Sprintf("Forgive me, my thoughts are clouded at this moment. As %s, I must pause and reflect before I can answer you properly. Please, ask me again.", prof.Name)
}
