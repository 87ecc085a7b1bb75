package dialogue

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

func TestStart(t *testing.T) {
	svc := newTestService(&ai.Mock{})

	sess, err := svc.Start(philosopher.Socrates)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if sess.PhilosopherName != "Socrates" {
		t.Errorf("philosopher = %q, want Socrates", sess.PhilosopherName)
	}
	if len(sess.Messages) != 1 || sess.Messages[0].Type != core.MessagePhilosopher {
		t.Fatal("welcome message missing")
	}
	if !strings.Contains(sess.Messages[0].Content, "Socrates of Athens") {
		t.Errorf("unexpected welcome: %q", sess.Messages[0].Content)
	}
}

func TestStartUnknown(t *testing.T) {
	svc := newTestService(&ai.Mock{})
	if _, err := svc.Start(philosopher.Type("hegel")); !errors.Is(err, ErrUnknownPhilosopher) {
		t.Errorf("error = %v, want ErrUnknownPhilosopher", err)
	}
}

func TestSend(t *testing.T) {
	mock := &ai.Mock{Responses: []string{"Virtue is knowledge, my friend."}}
	svc := newTestService(mock)

	sess, _ := svc.Start(philosopher.Socrates)
	reply, err := svc.Send(context.Background(), sess, "What is virtue?")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}

	if reply.Content != "Virtue is knowledge, my friend." {
		t.Errorf("reply = %q", reply.Content)
	}
	// welcome + user + reply
	if len(sess.Messages) != 3 {
		t.Fatalf("message count = %d, want 3", len(sess.Messages))
	}

	req := mock.Requests[0]
	if !strings.Contains(req.SystemPrompt, "You are Socrates") {
		t.Error("system prompt does not carry the persona")
	}
	if req.Message != "What is virtue?" {
		t.Errorf("message = %q", req.Message)
	}
	// History includes the welcome and the just-appended user message.
	if len(req.History) != 2 {
		t.Errorf("history length = %d, want 2", len(req.History))
	}
	if req.History[1].Role != "user" {
		t.Errorf("last history role = %q, want user", req.History[1].Role)
	}
}

func TestSendBackendFailure(t *testing.T) {
	mock := &ai.Mock{Errs: []error{&ai.ServiceError{Kind: ai.ErrRateLimited, Message: "slow down"}}}
	svc := newTestService(mock)

	sess, _ := svc.Start(philosopher.Socrates)
	reply, err := svc.Send(context.Background(), sess, "What is virtue?")
	if err != nil {
		t.Fatalf("backend failure should degrade, got error: %v", err)
	}
	if !strings.Contains(reply.Content, "Socrates") {
		t.Errorf("fallback reply should stay in character: %q", reply.Content)
	}
	// The fallback is appended like any reply.
	if len(sess.Messages) != 3 {
		t.Errorf("message count = %d, want 3", len(sess.Messages))
	}
}

func TestSendUnexpectedError(t *testing.T) {
	mock := &ai.Mock{Errs: []error{errors.New("boom")}}
	svc := newTestService(mock)

	sess, _ := svc.Start(philosopher.Socrates)
	if _, err := svc.Send(context.Background(), sess, "hello"); err == nil {
		t.Error("non-service errors should propagate")
	}
}

func TestHistoryCapped(t *testing.T) {
	mock := &ai.Mock{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(mock, logger, 4)

	sess, _ := svc.Start(philosopher.Socrates)
	for i := 0; i < 5; i++ {
		if _, err := svc.Send(context.Background(), sess, "another question"); err != nil {
			t.Fatal(err)
		}
	}

	last := mock.Requests[len(mock.Requests)-1]
	if len(last.History) > 4 {
		t.Errorf("history length = %d, want at most 4", len(last.History))
	}
}
