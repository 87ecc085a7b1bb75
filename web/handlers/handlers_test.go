package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/resh-o/agora/internal/core"
	"github.com/resh-o/agora/internal/philosopher"
	"github.com/resh-o/agora/internal/session"
	"github.com/resh-o/agora/internal/storage"
)

func testServer(t *testing.T) (*httptest.Server, storage.Store) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := storage.NewFileStore(t.TempDir(), logger)
	if err := store.Initialize(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	manager := session.NewManager(time.Hour, logger)

	srv := httptest.NewServer(New(store, manager, logger).Router())
	t.Cleanup(srv.Close)
	return srv, store
}

func get(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	srv, _ := testServer(t)

	var body map[string]string
	if status := get(t, srv.URL+"/api/health", &body); status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if body["status"] != "ok" {
		t.Errorf("body = %v, want status ok", body)
	}
}

func TestListPhilosophers(t *testing.T) {
	srv, _ := testServer(t)

	var profiles []philosopher.Profile
	if status := get(t, srv.URL+"/api/philosophers", &profiles); status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if len(profiles) != 10 {
		t.Errorf("got %d philosophers, want 10", len(profiles))
	}
}

func TestGetPhilosopher(t *testing.T) {
	srv, _ := testServer(t)

	var prof philosopher.Profile
	if status := get(t, srv.URL+"/api/philosophers/socrates", &prof); status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if prof.Name != "Socrates" {
		t.Errorf("name = %q, want Socrates", prof.Name)
	}

	if status := get(t, srv.URL+"/api/philosophers/hegel", nil); status != http.StatusNotFound {
		t.Errorf("unknown philosopher status = %d, want 404", status)
	}
}

func TestSessionEndpoints(t *testing.T) {
	srv, store := testServer(t)

	dialogue := core.NewDialogueSession("Socrates")
	dialogue.AddUserMessage("What is justice?")
	if err := store.SaveDialogue(dialogue); err != nil {
		t.Fatalf("failed to save dialogue: %v", err)
	}

	t.Run("list all", func(t *testing.T) {
		var summaries []storage.StoredSummary
		if status := get(t, srv.URL+"/api/sessions", &summaries); status != http.StatusOK {
			t.Fatalf("status = %d, want 200", status)
		}
		if len(summaries) != 1 {
			t.Fatalf("got %d sessions, want 1", len(summaries))
		}
	})

	t.Run("list filtered", func(t *testing.T) {
		var summaries []storage.StoredSummary
		get(t, srv.URL+"/api/sessions?type=debate", &summaries)
		if len(summaries) != 0 {
			t.Errorf("got %d debates, want 0", len(summaries))
		}
	})

	t.Run("bad type", func(t *testing.T) {
		if status := get(t, srv.URL+"/api/sessions?type=symposium", nil); status != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", status)
		}
	})

	t.Run("search", func(t *testing.T) {
		var summaries []storage.StoredSummary
		get(t, srv.URL+"/api/sessions?q=socrates", &summaries)
		if len(summaries) != 1 {
			t.Errorf("search got %d matches, want 1", len(summaries))
		}
	})

	t.Run("get", func(t *testing.T) {
		var loaded core.DialogueSession
		if status := get(t, srv.URL+"/api/sessions/dialogue/"+dialogue.ID, &loaded); status != http.StatusOK {
			t.Fatalf("status = %d, want 200", status)
		}
		if loaded.PhilosopherName != "Socrates" {
			t.Errorf("philosopher = %q, want Socrates", loaded.PhilosopherName)
		}
	})

	t.Run("get missing", func(t *testing.T) {
		if status := get(t, srv.URL+"/api/sessions/dialogue/no-such-id", nil); status != http.StatusNotFound {
			t.Errorf("status = %d, want 404", status)
		}
	})

	t.Run("delete", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/sessions/dialogue/"+dialogue.ID, nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		if status := get(t, srv.URL+"/api/sessions/dialogue/"+dialogue.ID, nil); status != http.StatusNotFound {
			t.Errorf("session still present after delete")
		}
	})
}

func TestStats(t *testing.T) {
	srv, _ := testServer(t)

	var stats session.Stats
	if status := get(t, srv.URL+"/api/stats", &stats); status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if stats.Dialogues != 0 || stats.Debates != 0 {
		t.Errorf("fresh manager stats = %+v, want zeros", stats)
	}
}
