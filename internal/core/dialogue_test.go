package core

import (
	"testing"
	"time"
)

func TestNewDialogueSession(t *testing.T) {
	s := NewDialogueSession("Socrates")

	if s.ID == "" {
		t.Error("session has no id")
	}
	if !s.IsActive {
		t.Error("new session should be active")
	}
	if s.PhilosopherName != "Socrates" {
		t.Errorf("philosopher = %q, want Socrates", s.PhilosopherName)
	}
}

func TestDialogueMessageLog(t *testing.T) {
	s := NewDialogueSession("Socrates")
	s.AddPhilosopherMessage("Greetings!")
	s.AddUserMessage("What is virtue?")
	s.AddSystemMessage("Session note")

	if len(s.Messages) != 3 {
		t.Fatalf("message count = %d, want 3", len(s.Messages))
	}
	if s.Messages[0].Type != MessagePhilosopher || s.Messages[1].Type != MessageUser {
		t.Error("messages recorded with wrong types")
	}

	summary := s.Summary()
	if summary.UserMessages != 1 || summary.PhilosopherMessages != 1 {
		t.Errorf("summary counts = %d user, %d philosopher, want 1 and 1",
			summary.UserMessages, summary.PhilosopherMessages)
	}
}

func TestDialogueHistory(t *testing.T) {
	s := NewDialogueSession("Socrates")
	s.AddPhilosopherMessage("Greetings!")
	s.AddUserMessage("What is virtue?")
	s.AddSystemMessage("Session note")

	history := s.History(false)
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2 (system omitted)", len(history))
	}
	if history[0].Role != "assistant" {
		t.Errorf("philosopher role = %q, want assistant", history[0].Role)
	}
	if history[1].Role != "user" {
		t.Errorf("user role = %q, want user", history[1].Role)
	}

	withSystem := s.History(true)
	if len(withSystem) != 3 {
		t.Fatalf("history length = %d, want 3 with system", len(withSystem))
	}
	// System messages map to the assistant role too.
	if withSystem[2].Role != "assistant" {
		t.Errorf("system role = %q, want assistant", withSystem[2].Role)
	}
}

func TestRecentMessages(t *testing.T) {
	s := NewDialogueSession("Socrates")
	for i := 0; i < 5; i++ {
		s.AddUserMessage("message")
	}

	if got := len(s.RecentMessages(3)); got != 3 {
		t.Errorf("RecentMessages(3) = %d messages, want 3", got)
	}
	if got := len(s.RecentMessages(0)); got != 5 {
		t.Errorf("RecentMessages(0) = %d messages, want all 5", got)
	}
	if got := len(s.RecentMessages(10)); got != 5 {
		t.Errorf("RecentMessages(10) = %d messages, want all 5", got)
	}
}

func TestClearHistory(t *testing.T) {
	s := NewDialogueSession("Socrates")
	s.AddUserMessage("hello")
	before := s.LastActivity

	time.Sleep(time.Millisecond)
	s.ClearHistory()

	if len(s.Messages) != 0 {
		t.Error("messages remain after clear")
	}
	if !s.LastActivity.After(before) {
		t.Error("clear should refresh LastActivity")
	}
	if !s.IsActive {
		t.Error("clear should not deactivate the session")
	}
}

func TestExpired(t *testing.T) {
	s := NewDialogueSession("Socrates")
	if s.Expired(time.Hour) {
		t.Error("fresh session reported expired")
	}

	s.LastActivity = time.Now().Add(-2 * time.Hour)
	if !s.Expired(time.Hour) {
		t.Error("idle session not reported expired")
	}

	// Activity resets the clock.
	s.AddUserMessage("still here")
	if s.Expired(time.Hour) {
		t.Error("session expired despite fresh activity")
	}
}
