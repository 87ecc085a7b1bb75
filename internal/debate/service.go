// Package debate orchestrates multi-philosopher debates over a shared
// session log, driving generation for whichever participant holds the turn.
package debate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/resh-o/agora/internal/ai"
	"github.com/resh-o/agora/internal/core"
	"github.com/resh-o/agora/internal/philosopher"
)

const (
	openingTemperature = 0.9
	turnTemperature    = 0.8
	closingWindow      = 10
)

// Service creates debates and generates participant turns.
type Service struct {
	generator  ai.Generator
	logger     *slog.Logger
	maxHistory int
	maxTokens  int
}

// NewService builds a debate service.
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

// Create builds a debate session in the preparing state.
func (s *Service) Create(topic, description string, maxTurnsPerParticipant int) *core.DebateSession {
	session := core.NewDebateSession(topic, description, maxTurnsPerParticipant)
	s.logger.Info("debate created", "session_id", session.ID, "topic", topic)
	return session
}

// AddParticipant registers a philosopher with an optional stated position.
func (s *Service) AddParticipant(session *core.DebateSession, ptype philosopher.Type, position string) (core.DebateParticipant, error) {
	participant, err := session.AddParticipant(ptype, position)
	if err != nil {
		return core.DebateParticipant{}, err
	}
	s.logger.Info("participant added",
		"session_id", session.ID,
		"philosopher", participant.Name,
		"position", position)
	return participant, nil
}

// Start activates the debate and collects one opening statement from each
// participant in order. A backend failure for one participant does not stop
// the others; that participant opens with a fallback line instead.
func (s *Service) Start(ctx context.Context, session *core.DebateSession) error {
	if err := session.Start(); err != nil {
		return err
	}
	s.logger.Info("debate started",
		"session_id", session.ID,
		"topic", session.Topic,
		"participants", len(session.Participants))

	for i := range session.Participants {
		p := &session.Participants[i]
		prof := philosopher.Get(p.Type)
		if prof == nil {
			continue
		}

		prompt := fmt.Sprintf("The debate on '%s' is beginning. %s Present your opening statement on this topic, staying true to your philosophical framework. Be concise but substantive.",
			session.Topic, positionClause(p))

		reply, err := s.generator.Generate(ctx, ai.Request{
			SystemPrompt: s.debatePrompt(session, prof, p),
			History:      s.recentHistory(session),
			Message:      prompt,
			Temperature:  openingTemperature,
		})
		if err != nil {
			if !recoverable(err) {
				return fmt.Errorf("opening statement for %s: %w", p.Name, err)
			}
			s.logger.Warn("opening statement failed, using fallback",
				"session_id", session.ID,
				"philosopher", p.Name,
				"error", err)
			reply = fallbackLine(p.Name)
		}
		session.AddPhilosopherMessage(p.Name, reply, map[string]string{"phase": "opening"})
	}
	return nil
}

// NextResponse generates the current speaker's turn and rotates to the next
// participant. When every participant has reached the turn cap, the debate is
// completed instead and the moderator's closing summary is returned. Backend
// failures degrade to a fallback line attributed to the speaker; the rotation
// advances regardless so one broken turn cannot stall the debate.
func (s *Service) NextResponse(ctx context.Context, session *core.DebateSession) (core.Message, error) {
	if session.Status != core.StatusActive {
		return core.Message{}, core.ErrDebateNotActive
	}

	if session.IsComplete() {
		return s.conclude(ctx, session)
	}

	speaker := session.CurrentSpeaker()
	if speaker == nil {
		return core.Message{}, core.ErrDebateNotActive
	}
	prof := philosopher.Get(speaker.Type)
	if prof == nil {
		return core.Message{}, fmt.Errorf("unknown philosopher: %s", speaker.Type)
	}

	prompt := fmt.Sprintf("It is your turn in the debate on '%s'. This is turn %d of %d for you. Respond to the discussion so far, engaging with the other participants' arguments. %s",
		session.Topic, speaker.TurnCount+1, session.MaxTurnsPerParticipant, positionClause(speaker))

	reply, err := s.generator.Generate(ctx, ai.Request{
		SystemPrompt: s.debatePrompt(session, prof, speaker),
		History:      s.recentHistory(session),
		Message:      prompt,
		Temperature:  turnTemperature,
	})
	if err != nil {
		if !recoverable(err) {
			return core.Message{}, fmt.Errorf("turn for %s: %w", speaker.Name, err)
		}
		s.logger.Warn("turn generation failed, using fallback",
			"session_id", session.ID,
			"philosopher", speaker.Name,
			"error", err)
		reply = fallbackLine(speaker.Name)
	}

	msg := session.AddPhilosopherMessage(speaker.Name, reply, nil)
	session.AdvanceSpeaker()
	return msg, nil
}

// AddUserInput injects a user contribution into the shared log. The speaker
// rotation is unaffected.
func (s *Service) AddUserInput(session *core.DebateSession, content string) (core.Message, error) {
	if session.Status != core.StatusActive {
		return core.Message{}, core.ErrDebateNotActive
	}
	return session.AddUserMessage(content), nil
}

// Pause suspends an active debate.
func (s *Service) Pause(session *core.DebateSession) error {
	if err := session.Pause(); err != nil {
		return err
	}
	s.logger.Info("debate paused", "session_id", session.ID)
	return nil
}

// Resume reactivates a paused debate.
func (s *Service) Resume(session *core.DebateSession) error {
	if err := session.Resume(); err != nil {
		return err
	}
	s.logger.Info("debate resumed", "session_id", session.ID)
	return nil
}

// conclude completes the debate and appends the moderator's closing summary,
// synthesized from the tail of the discussion. If summary generation fails
// the debate still completes with a plain closing line.
func (s *Service) conclude(ctx context.Context, session *core.DebateSession) (core.Message, error) {
	history := session.History(false)
	if len(history) > closingWindow {
		history = history[len(history)-closingWindow:]
	}

	if err := session.Complete(); err != nil {
		return core.Message{}, err
	}
	s.logger.Info("debate completed", "session_id", session.ID, "topic", session.Topic)

	if !session.ModeratorEnabled {
		return session.Messages[len(session.Messages)-1], nil
	}

	summary, err := s.generator.Generate(ctx, ai.Request{
		SystemPrompt: "You are a neutral debate moderator. Summarize the key arguments made by each participant fairly and concisely, then note the central points of disagreement.",
		History:      history,
		Message:      fmt.Sprintf("The debate on '%s' has ended. Provide your closing summary.", session.Topic),
		Temperature:  turnTemperature,
	})
	if err != nil {
		if !recoverable(err) {
			return core.Message{}, fmt.Errorf("closing summary: %w", err)
		}
		s.logger.Warn("closing summary failed", "session_id", session.ID, "error", err)
		summary = fmt.Sprintf("The debate on '%s' has concluded. Thank you all for a spirited exchange of ideas.", session.Topic)
	}

	return session.AddPhilosopherMessage("Moderator", summary, map[string]string{"phase": "closing"}), nil
}

// debatePrompt extends the philosopher's persona prompt with the debate
// framing: topic, stated position, and the other participants.
func (s *Service) debatePrompt(session *core.DebateSession, prof *philosopher.Profile, speaker *core.DebateParticipant) string {
	var others []string
	for _, p := range session.Participants {
		if p.Name != speaker.Name {
			others = append(others, p.Name)
		}
	}

	var b strings.Builder
	b.WriteString(prof.SystemPrompt())
	fmt.Fprintf(&b, "\n\nDEBATE CONTEXT:\nYou are participating in a formal debate on: %s\n", session.Topic)
	if session.Description != "" {
		fmt.Fprintf(&b, "Background: %s\n", session.Description)
	}
	if speaker.Position != "" {
		fmt.Fprintf(&b, "Your stated position: %s\n", speaker.Position)
	}
	if len(others) > 0 {
		fmt.Fprintf(&b, "Your fellow debaters: %s\n", strings.Join(others, ", "))
	}
	b.WriteString("Address the other participants directly when challenging their arguments.")
	return b.String()
}

func (s *Service) recentHistory(session *core.DebateSession) []ai.Exchange {
	history := session.History(false)
	if len(history) > s.maxHistory {
		history = history[len(history)-s.maxHistory:]
	}
	return ai.TruncateHistory(history, s.maxTokens)
}

// recoverable reports whether a generation error should degrade to a
// fallback line rather than abort the operation.
func recoverable(err error) bool {
	var svcErr *ai.ServiceError
	return errors.As(err, &svcErr)
}

// fallbackLine is the short placeholder appended in the speaker's name when
// the backend fails but the debate must continue.
func fallbackLine(name string) string {
	return fmt.Sprintf("%s pauses to gather their thoughts, unable to respond at this moment, and yields the floor.", name)
}

func positionClause(p *core.DebateParticipant) string {
	if p.Position == "" {
		return ""
	}
	return fmt.Sprintf("Your position is: %s.", p.Position)
}
