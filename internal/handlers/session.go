package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tugruldev/lighthouse-quest/internal/services"
	"github.com/tugruldev/lighthouse-quest/pkg/state"
	"github.com/tugruldev/lighthouse-quest/pkg/world"
)

// SaveSessionResponse returns the id of a freshly stored snapshot.
type SaveSessionResponse struct {
	ID uuid.UUID `json:"id"`
}

// SessionHandler serves the optional save/resume endpoints:
//
//	POST   /v1/sessions       - store a snapshot, returns its id
//	GET    /v1/sessions/{id}  - load a snapshot
//	DELETE /v1/sessions/{id}  - delete a snapshot
//
// These are a convenience on top of the stateless interpret flow.
type SessionHandler struct {
	store  services.SessionStore
	world  *world.World
	ttl    time.Duration
	logger *slog.Logger
}

func NewSessionHandler(store services.SessionStore, w *world.World, ttl time.Duration, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		store:  store,
		world:  w,
		ttl:    ttl,
		logger: logger,
	}
}

func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	path := strings.TrimPrefix(r.URL.Path, "/v1/sessions")
	var sessionID uuid.UUID
	if trimmed := strings.Trim(path, "/"); trimmed != "" {
		var err error
		sessionID, err = uuid.Parse(trimmed)
		if err != nil {
			h.logger.Warn("Invalid session ID", "id", trimmed, "error", err)
			writeError(w, h.logger, http.StatusBadRequest, "Invalid session ID format")
			return
		}
	}

	switch r.Method {
	case http.MethodPost:
		h.handleSave(w, r)
	case http.MethodGet:
		h.handleLoad(w, r, sessionID)
	case http.MethodDelete:
		h.handleDelete(w, r, sessionID)
	default:
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed.")
	}
}

func (h *SessionHandler) handleSave(w http.ResponseWriter, r *http.Request) {
	var gs state.GameState
	if err := json.NewDecoder(r.Body).Decode(&gs); err != nil {
		h.logger.Warn("Invalid session body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body. Expected a game state snapshot.")
		return
	}
	if err := gs.Validate(h.world); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid game state: "+err.Error())
		return
	}

	id := uuid.New()
	if err := h.store.SaveSession(r.Context(), id, gs, h.ttl); err != nil {
		h.logger.Error("Failed to save session", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to save session.")
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(SaveSessionResponse{ID: id}); err != nil {
		h.logger.Error("Error encoding session response", "error", err)
	}
}

func (h *SessionHandler) handleLoad(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if id == uuid.Nil {
		writeError(w, h.logger, http.StatusBadRequest, "Session ID is required.")
		return
	}

	gs, err := h.store.LoadSession(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			writeError(w, h.logger, http.StatusNotFound, "Session not found.")
			return
		}
		h.logger.Error("Failed to load session", "id", id, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load session.")
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(gs); err != nil {
		h.logger.Error("Error encoding session response", "error", err)
	}
}

func (h *SessionHandler) handleDelete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if id == uuid.Nil {
		writeError(w, h.logger, http.StatusBadRequest, "Session ID is required.")
		return
	}

	if err := h.store.DeleteSession(r.Context(), id); err != nil {
		h.logger.Error("Failed to delete session", "id", id, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to delete session.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
