// Package handlers provides the JSON HTTP API for browsing philosophers and
// saved sessions.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/resh-o/agora/internal/philosopher"
	"github.com/resh-o/agora/internal/session"
	"github.com/resh-o/agora/internal/storage"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	store    storage.Store
	sessions *session.Manager
	logger   *slog.Logger
}

// New creates a new Handler.
func New(store storage.Store, sessions *session.Manager, logger *slog.Logger) *Handler {
	return &Handler{
		store:    store,
		sessions: sessions,
		logger:   logger,
	}
}

// Router builds the chi router with all API routes mounted.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.handleHealth)
		r.Get("/philosophers", h.handleListPhilosophers)
		r.Get("/philosophers/{id}", h.handleGetPhilosopher)
		r.Get("/sessions", h.handleListSessions)
		r.Get("/sessions/{kind}/{id}", h.handleGetSession)
		r.Delete("/sessions/{kind}/{id}", h.handleDeleteSession)
		r.Get("/stats", h.handleStats)
	})
	return r
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, msg string) {
	h.respondJSON(w, status, map[string]string{"error": msg})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleListPhilosophers(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, philosopher.Defaults())
}

func (h *Handler) handleGetPhilosopher(w http.ResponseWriter, r *http.Request) {
	id := philosopher.Type(chi.URLParam(r, "id"))
	prof := philosopher.Get(id)
	if prof == nil {
		h.respondError(w, http.StatusNotFound, "unknown philosopher")
		return
	}
	h.respondJSON(w, http.StatusOK, prof)
}

// handleListSessions lists saved sessions. Query params: type (dialogue or
// debate, both when omitted) and q (search query).
func (h *Handler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	if q := r.URL.Query().Get("q"); q != "" {
		matches, err := h.store.Search(q)
		if err != nil {
			h.logger.Error("session search failed", "query", q, "error", err)
			h.respondError(w, http.StatusInternalServerError, "search failed")
			return
		}
		h.respondJSON(w, http.StatusOK, matches)
		return
	}

	kinds := []storage.SessionKind{storage.KindDialogue, storage.KindDebate}
	switch r.URL.Query().Get("type") {
	case "":
	case "dialogue":
		kinds = kinds[:1]
	case "debate":
		kinds = kinds[1:]
	default:
		h.respondError(w, http.StatusBadRequest, "type must be dialogue or debate")
		return
	}

	summaries := []storage.StoredSummary{}
	for _, kind := range kinds {
		list, err := h.store.List(kind)
		if err != nil {
			h.logger.Error("session listing failed", "kind", kind, "error", err)
			h.respondError(w, http.StatusInternalServerError, "listing failed")
			return
		}
		summaries = append(summaries, list...)
	}
	h.respondJSON(w, http.StatusOK, summaries)
}

func sessionKind(raw string) (storage.SessionKind, bool) {
	switch raw {
	case "dialogue":
		return storage.KindDialogue, true
	case "debate":
		return storage.KindDebate, true
	}
	return "", false
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	kind, ok := sessionKind(chi.URLParam(r, "kind"))
	if !ok {
		h.respondError(w, http.StatusBadRequest, "kind must be dialogue or debate")
		return
	}
	id := chi.URLParam(r, "id")

	var (
		data any
		err  error
	)
	if kind == storage.KindDialogue {
		data, err = h.store.GetDialogue(id)
	} else {
		data, err = h.store.GetDebate(id)
	}
	if errors.Is(err, storage.ErrNotFound) {
		h.respondError(w, http.StatusNotFound, "session not found")
		return
	}
	if err != nil {
		h.logger.Error("session load failed", "kind", kind, "id", id, "error", err)
		h.respondError(w, http.StatusInternalServerError, "load failed")
		return
	}
	h.respondJSON(w, http.StatusOK, data)
}

func (h *Handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	kind, ok := sessionKind(chi.URLParam(r, "kind"))
	if !ok {
		h.respondError(w, http.StatusBadRequest, "kind must be dialogue or debate")
		return
	}
	id := chi.URLParam(r, "id")

	err := h.store.Delete(kind, id)
	if errors.Is(err, storage.ErrNotFound) {
		h.respondError(w, http.StatusNotFound, "session not found")
		return
	}
	if err != nil {
		h.logger.Error("session delete failed", "kind", kind, "id", id, "error", err)
		h.respondError(w, http.StatusInternalServerError, "delete failed")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.sessions.Stats())
}
