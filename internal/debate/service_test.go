package debate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/resh-o/agora/internal/ai"
	"github.com/resh-o/agora/internal/core"
	"github.com/resh-o/agora/internal/philosopher"
)

func newTestService(mock *ai.Mock) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(mock, logger, 20)
}

func startedDebate(t *testing.T, svc *Service, turns int) *core.DebateSession {
	t.Helper()
	sess := svc.Create("Is free will an illusion?", "", turns)
	for _, ptype := range []philosopher.Type{philosopher.Socrates, philosopher.Kant} {
		if _, err := svc.AddParticipant(sess, ptype, ""); err != nil {
			t.Fatalf("failed to add %s: %v", ptype, err)
		}
	}
	if err := svc.Start(context.Background(), sess); err != nil {
		t.Fatalf("failed to start debate: %v", err)
	}
	return sess
}

func TestStartCollectsOpeningStatements(t *testing.T) {
	mock := &ai.Mock{Responses: []string{"Opening A", "Opening B"}}
	svc := newTestService(mock)
	sess := startedDebate(t, svc, 3)

	// system + two openings
	if len(sess.Messages) != 3 {
		t.Fatalf("message count = %d, want 3", len(sess.Messages))
	}
	if sess.Messages[1].SpeakerName() != "Socrates" {
		t.Errorf("first opening by %q, want Socrates", sess.Messages[1].SpeakerName())
	}
	if sess.Messages[2].SpeakerName() != "Immanuel Kant" {
		t.Errorf("second opening by %q, want Immanuel Kant", sess.Messages[2].SpeakerName())
	}

	// Openings count as turns.
	if sess.Participants[0].TurnCount != 1 || sess.Participants[1].TurnCount != 1 {
		t.Errorf("turn counts = %d, %d, want 1, 1",
			sess.Participants[0].TurnCount, sess.Participants[1].TurnCount)
	}

	// Opening statements run hotter than regular turns.
	if mock.Requests[0].Temperature != openingTemperature {
		t.Errorf("opening temperature = %g, want %g", mock.Requests[0].Temperature, openingTemperature)
	}
	if !strings.Contains(mock.Requests[0].SystemPrompt, "DEBATE CONTEXT") {
		t.Error("opening prompt missing debate framing")
	}
}

func TestStartTooFewParticipants(t *testing.T) {
	svc := newTestService(&ai.Mock{})
	sess := svc.Create("Topic", "", 3)
	svc.AddParticipant(sess, philosopher.Socrates, "")

	err := svc.Start(context.Background(), sess)
	if !errors.Is(err, core.ErrInsufficientParticipants) {
		t.Fatalf("error = %v, want ErrInsufficientParticipants", err)
	}
}

func TestNextResponseRotates(t *testing.T) {
	mock := &ai.Mock{Responses: []string{"reply"}}
	svc := newTestService(mock)
	sess := startedDebate(t, svc, 3)

	// After openings, rotation starts at the first participant.
	msg, err := svc.NextResponse(context.Background(), sess)
	if err != nil {
		t.Fatalf("next response failed: %v", err)
	}
	if msg.SpeakerName() != "Socrates" {
		t.Errorf("first turn by %q, want Socrates", msg.SpeakerName())
	}

	msg, err = svc.NextResponse(context.Background(), sess)
	if err != nil {
		t.Fatal(err)
	}
	if msg.SpeakerName() != "Immanuel Kant" {
		t.Errorf("second turn by %q, want Immanuel Kant", msg.SpeakerName())
	}

	if mock.Requests[2].Temperature != turnTemperature {
		t.Errorf("turn temperature = %g, want %g", mock.Requests[2].Temperature, turnTemperature)
	}

	// The opening counted as turn 1, so the first rotation turn is 2 of 3.
	if !strings.Contains(mock.Requests[2].Message, "This is turn 2 of 3 for you.") {
		t.Errorf("turn prompt missing turn framing: %q", mock.Requests[2].Message)
	}
}

func TestNextResponseBackendFailureAdvances(t *testing.T) {
	mock := &ai.Mock{Errs: []error{
		nil, nil, // openings succeed
		&ai.ServiceError{Kind: ai.ErrRateLimited, Message: "slow down"},
	}}
	svc := newTestService(mock)
	sess := startedDebate(t, svc, 3)

	msg, err := svc.NextResponse(context.Background(), sess)
	if err != nil {
		t.Fatalf("backend failure should degrade, got error: %v", err)
	}
	if msg.SpeakerName() != "Socrates" {
		t.Errorf("fallback attributed to %q, want Socrates", msg.SpeakerName())
	}
	// The rotation must advance past the failed speaker.
	if speaker := sess.CurrentSpeaker(); speaker == nil || speaker.Name != "Immanuel Kant" {
		t.Errorf("current speaker = %v, want Immanuel Kant", speaker)
	}
}

func TestDebateRunsToCompletion(t *testing.T) {
	mock := &ai.Mock{Responses: []string{"a thought"}}
	svc := newTestService(mock)
	sess := startedDebate(t, svc, 2)

	for sess.Status == core.StatusActive {
		if _, err := svc.NextResponse(context.Background(), sess); err != nil {
			t.Fatalf("debate failed: %v", err)
		}
	}

	if sess.Status != core.StatusCompleted {
		t.Fatalf("status = %q, want completed", sess.Status)
	}
	for _, p := range sess.Participants {
		if p.TurnCount != 2 {
			t.Errorf("%s turn count = %d, want 2", p.Name, p.TurnCount)
		}
	}

	// Moderator closes the debate after the closing system message.
	last := sess.Messages[len(sess.Messages)-1]
	if last.SpeakerName() != "Moderator" {
		t.Errorf("last message by %q, want Moderator", last.SpeakerName())
	}
}

func TestNextResponseRequiresActive(t *testing.T) {
	svc := newTestService(&ai.Mock{})
	sess := startedDebate(t, svc, 3)
	svc.Pause(sess)

	if _, err := svc.NextResponse(context.Background(), sess); !errors.Is(err, core.ErrDebateNotActive) {
		t.Errorf("error = %v, want ErrDebateNotActive", err)
	}

	if err := svc.Resume(sess); err != nil {
		t.Fatalf("resume failed: %v", err)
	}
	if _, err := svc.NextResponse(context.Background(), sess); err != nil {
		t.Errorf("next response after resume failed: %v", err)
	}
}

func TestAddUserInput(t *testing.T) {
	svc := newTestService(&ai.Mock{})
	sess := startedDebate(t, svc, 3)
	speakerBefore := sess.CurrentSpeaker().Name

	msg, err := svc.AddUserInput(sess, "Consider the Stoic view as well.")
	if err != nil {
		t.Fatalf("user input failed: %v", err)
	}
	if msg.Type != core.MessageUser {
		t.Errorf("message type = %q, want user", msg.Type)
	}
	if sess.CurrentSpeaker().Name != speakerBefore {
		t.Error("user input must not advance the rotation")
	}

	svc.Pause(sess)
	if _, err := svc.AddUserInput(sess, "hello?"); !errors.Is(err, core.ErrDebateNotActive) {
		t.Errorf("paused input error = %v, want ErrDebateNotActive", err)
	}
}
