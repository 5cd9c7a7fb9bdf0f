package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/neontetris/internal/api/response"
	"github.com/mcoot/neontetris/internal/model"
	"github.com/mcoot/neontetris/internal/services/game"
)

// LeaderboardHandler handles high score and challenge catalog endpoints
type LeaderboardHandler struct {
	controller game.ControllerInterface
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(controller game.ControllerInterface) *LeaderboardHandler {
	return &LeaderboardHandler{controller: controller}
}

// HighScores handles GET /api/v1/highscores/{mode}
func (h *LeaderboardHandler) HighScores(w http.ResponseWriter, r *http.Request) {
	m := model.GameMode(strings.ToLower(mux.Vars(r)["mode"]))
	if !m.IsValid() {
		WriteError(w, fmt.Errorf("%w: %q", model.ErrUnknownMode, m))
		return
	}

	scores, err := h.controller.HighScores(r.Context(), m)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.HighScoresFromModel(m, scores))
}

// Challenges handles GET /api/v1/challenges
func (h *LeaderboardHandler) Challenges(w http.ResponseWriter, r *http.Request) {
	levels, err := h.controller.ChallengeLevels(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.ChallengeLevels{Levels: levels})
}
