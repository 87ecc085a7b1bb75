package storage

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/resh-o/agora/internal/core"
	"github.com/resh-o/agora/internal/philosopher"
)

func testStores(t *testing.T) map[string]Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	sqlite, err := NewSQLiteStore(filepath.Join(t.TempDir(), "agora.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite store: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })

	stores := map[string]Store{
		"file":   NewFileStore(t.TempDir(), logger),
		"sqlite": sqlite,
	}
	for name, store := range stores {
		if err := store.Initialize(); err != nil {
			t.Fatalf("failed to initialize %s store: %v", name, err)
		}
	}
	return stores
}

func sampleDialogue() *core.DialogueSession {
	session := core.NewDialogueSession("Socrates")
	session.AddPhilosopherMessage("Greetings, my friend!")
	session.AddUserMessage("What is justice?")
	session.AddPhilosopherMessage("Tell me first, what do you believe justice to be?")
	return session
}

func sampleDebate(t *testing.T) *core.DebateSession {
	t.Helper()
	session := core.NewDebateSession("Is virtue teachable?", "", 3)
	for _, ptype := range []philosopher.Type{philosopher.Socrates, philosopher.Kant} {
		if _, err := session.AddParticipant(ptype, ""); err != nil {
			t.Fatalf("failed to add participant: %v", err)
		}
	}
	if err := session.Start(); err != nil {
		t.Fatalf("failed to start debate: %v", err)
	}
	session.AddPhilosopherMessage("Socrates", "Let us first define virtue.", nil)
	return session
}

func TestDialogueRoundTrip(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			session := sampleDialogue()
			if err := store.SaveDialogue(session); err != nil {
				t.Fatalf("failed to save dialogue: %v", err)
			}

			loaded, err := store.GetDialogue(session.ID)
			if err != nil {
				t.Fatalf("failed to load dialogue: %v", err)
			}
			if loaded.PhilosopherName != "Socrates" {
				t.Errorf("philosopher = %q, want Socrates", loaded.PhilosopherName)
			}
			if len(loaded.Messages) != len(session.Messages) {
				t.Errorf("message count = %d, want %d", len(loaded.Messages), len(session.Messages))
			}
			if loaded.Messages[1].Type != core.MessageUser {
				t.Errorf("message type = %q, want user", loaded.Messages[1].Type)
			}
		})
	}
}

func TestDebateRoundTrip(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			session := sampleDebate(t)
			if err := store.SaveDebate(session); err != nil {
				t.Fatalf("failed to save debate: %v", err)
			}

			loaded, err := store.GetDebate(session.ID)
			if err != nil {
				t.Fatalf("failed to load debate: %v", err)
			}
			if loaded.Topic != session.Topic {
				t.Errorf("topic = %q, want %q", loaded.Topic, session.Topic)
			}
			if loaded.Status != core.StatusActive {
				t.Errorf("status = %q, want active", loaded.Status)
			}
			if len(loaded.Participants) != 2 {
				t.Fatalf("participants = %d, want 2", len(loaded.Participants))
			}
			if loaded.Participants[0].TurnCount != 1 {
				t.Errorf("turn count = %d, want 1", loaded.Participants[0].TurnCount)
			}
		})
	}
}

func TestGetNotFound(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := store.GetDialogue("no-such-id"); !errors.Is(err, ErrNotFound) {
				t.Errorf("GetDialogue error = %v, want ErrNotFound", err)
			}
			if _, err := store.GetDebate("no-such-id"); !errors.Is(err, ErrNotFound) {
				t.Errorf("GetDebate error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestSaveOverwrites(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			session := sampleDialogue()
			if err := store.SaveDialogue(session); err != nil {
				t.Fatalf("failed to save dialogue: %v", err)
			}
			session.AddUserMessage("And what of courage?")
			if err := store.SaveDialogue(session); err != nil {
				t.Fatalf("failed to re-save dialogue: %v", err)
			}

			loaded, err := store.GetDialogue(session.ID)
			if err != nil {
				t.Fatalf("failed to load dialogue: %v", err)
			}
			if len(loaded.Messages) != len(session.Messages) {
				t.Errorf("message count = %d, want %d", len(loaded.Messages), len(session.Messages))
			}

			summaries, err := store.List(KindDialogue)
			if err != nil {
				t.Fatalf("failed to list dialogues: %v", err)
			}
			if len(summaries) != 1 {
				t.Errorf("list returned %d entries, want 1", len(summaries))
			}
		})
	}
}

func TestListSeparatesKinds(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.SaveDialogue(sampleDialogue()); err != nil {
				t.Fatalf("failed to save dialogue: %v", err)
			}
			if err := store.SaveDebate(sampleDebate(t)); err != nil {
				t.Fatalf("failed to save debate: %v", err)
			}

			dialogues, err := store.List(KindDialogue)
			if err != nil {
				t.Fatalf("failed to list dialogues: %v", err)
			}
			debates, err := store.List(KindDebate)
			if err != nil {
				t.Fatalf("failed to list debates: %v", err)
			}
			if len(dialogues) != 1 || len(debates) != 1 {
				t.Errorf("got %d dialogues and %d debates, want 1 and 1", len(dialogues), len(debates))
			}
			if dialogues[0].Kind != KindDialogue || debates[0].Kind != KindDebate {
				t.Error("summaries carry wrong kind")
			}
		})
	}
}

func TestDelete(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			session := sampleDialogue()
			if err := store.SaveDialogue(session); err != nil {
				t.Fatalf("failed to save dialogue: %v", err)
			}
			if err := store.Delete(KindDialogue, session.ID); err != nil {
				t.Fatalf("failed to delete dialogue: %v", err)
			}
			if _, err := store.GetDialogue(session.ID); !errors.Is(err, ErrNotFound) {
				t.Errorf("session still loadable after delete: %v", err)
			}
			if err := store.Delete(KindDialogue, session.ID); !errors.Is(err, ErrNotFound) {
				t.Errorf("second delete error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestSearch(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.SaveDialogue(sampleDialogue()); err != nil {
				t.Fatalf("failed to save dialogue: %v", err)
			}
			if err := store.SaveDebate(sampleDebate(t)); err != nil {
				t.Fatalf("failed to save debate: %v", err)
			}

			tests := []struct {
				query string
				want  int
			}{
				{"socrates", 2}, // dialogue title + debate participant
				{"virtue", 1},   // debate topic
				{"VIRTUE", 1},
				{"nietzsche", 0},
			}
			for _, tt := range tests {
				matches, err := store.Search(tt.query)
				if err != nil {
					t.Fatalf("search %q failed: %v", tt.query, err)
				}
				if len(matches) != tt.want {
					t.Errorf("search %q = %d matches, want %d", tt.query, len(matches), tt.want)
				}
			}
		})
	}
}

func TestCleanupOlderThan(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.SaveDialogue(sampleDialogue()); err != nil {
				t.Fatalf("failed to save dialogue: %v", err)
			}

			removed, err := store.CleanupOlderThan(time.Hour)
			if err != nil {
				t.Fatalf("cleanup failed: %v", err)
			}
			if removed != 0 {
				t.Errorf("cleanup removed %d fresh sessions", removed)
			}

			removed, err = store.CleanupOlderThan(-time.Second)
			if err != nil {
				t.Fatalf("cleanup failed: %v", err)
			}
			if removed != 1 {
				t.Errorf("cleanup removed %d, want 1", removed)
			}

			if _, err := store.GetDialogue("anything"); !errors.Is(err, ErrNotFound) {
				t.Errorf("unexpected error after cleanup: %v", err)
			}
		})
	}
}
