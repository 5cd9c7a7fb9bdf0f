package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/neontetris/internal/api/request"
	"github.com/mcoot/neontetris/internal/api/response"
	"github.com/mcoot/neontetris/internal/model"
	"github.com/mcoot/neontetris/internal/services/game"
	"github.com/mcoot/neontetris/internal/stream"
)

// SessionHandler handles game session endpoints
type SessionHandler struct {
	controller game.ControllerInterface
	hubManager *stream.HubManager
	logger     *slog.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(controller game.ControllerInterface, hubManager *stream.HubManager, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		controller: controller,
		hubManager: hubManager,
		logger:     logger,
	}
}

func sessionID(r *http.Request) model.SessionID {
	return model.SessionID(mux.Vars(r)["id"])
}

// Start handles POST /api/v1/sessions
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req request.StartSessionRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	m := model.GameMode(strings.ToLower(req.Mode))
	if m == "" {
		m = model.ModeClassic
	}
	level := req.ChallengeLevel
	if m == model.ModeChallenge && level == 0 {
		level = 1
	}

	id, status, err := h.controller.StartSession(r.Context(), m, level)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Created(w, response.SessionFromModel(id, status))
}

// Get handles GET /api/v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)

	status, err := h.controller.GetSession(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.SessionFromModel(id, status))
}

// End handles DELETE /api/v1/sessions/{id}
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.EndSession(r.Context(), sessionID(r)); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Command handles POST /api/v1/sessions/{id}/commands/{command}
func (h *SessionHandler) Command(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	cmd := game.Command(mux.Vars(r)["command"])

	applied, status, err := h.controller.Command(r.Context(), id, cmd)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.CommandResponse{
		Command: string(cmd),
		Applied: applied,
		Session: response.SessionFromModel(id, status),
	})
}

// Reset handles POST /api/v1/sessions/{id}/reset
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)

	status, err := h.controller.Reset(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.SessionFromModel(id, status))
}

// NextLevel handles POST /api/v1/sessions/{id}/next-level
func (h *SessionHandler) NextLevel(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)

	status, err := h.controller.NextChallengeLevel(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.SessionFromModel(id, status))
}

// Save handles POST /api/v1/sessions/{id}/save
func (h *SessionHandler) Save(w http.ResponseWriter, r *http.Request) {
	snap, err := h.controller.SaveSession(r.Context(), sessionID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Created(w, response.SavedFromModel(snap))
}

// Events handles GET /api/v1/sessions/{id}/events
// Upgrades to a websocket that first receives the session state, then every
// event the session emits until it ends.
func (h *SessionHandler) Events(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)

	event, err := h.controller.Subscribe(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	if status, ok := event.Payload.(model.Status); ok {
		event.Payload = response.SessionFromModel(id, status)
	}

	initial, err := json.Marshal(event)
	if err != nil {
		WriteError(w, err)
		return
	}

	hub := h.hubManager.GetHub(id)
	if hub == nil {
		// Ended between subscribing and upgrading
		WriteError(w, model.ErrSessionNotFound)
		return
	}
	if err := stream.ServeWS(w, r, hub, initial); err != nil {
		// The upgrader has already written an error response
		h.logger.Warn("websocket upgrade failed",
			slog.String("session_id", string(id)),
			slog.String("error", err.Error()),
		)
	}
}
