package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/neontetris/internal/api/handler"
	"github.com/mcoot/neontetris/internal/api/middleware"
	"github.com/mcoot/neontetris/internal/api/response"
	"github.com/mcoot/neontetris/internal/services/game"
	"github.com/mcoot/neontetris/internal/stream"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	GameController *game.Controller
	HubManager     *stream.HubManager
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	sessionHandler := handler.NewSessionHandler(cfg.GameController, cfg.HubManager, cfg.Logger)
	snapshotHandler := handler.NewSnapshotHandler(cfg.GameController)
	leaderboardHandler := handler.NewLeaderboardHandler(cfg.GameController)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Stack(cfg.Logger))

	// Session routes
	sessions := api.PathPrefix("/sessions").Subrouter()
	sessions.HandleFunc("", sessionHandler.Start).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}", sessionHandler.Get).Methods(http.MethodGet)
	sessions.HandleFunc("/{id}", sessionHandler.End).Methods(http.MethodDelete)
	sessions.HandleFunc("/{id}/commands/{command}", sessionHandler.Command).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/reset", sessionHandler.Reset).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/save", sessionHandler.Save).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/next-level", sessionHandler.NextLevel).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/events", sessionHandler.Events).Methods(http.MethodGet)

	// Saved game routes
	snapshots := api.PathPrefix("/snapshots").Subrouter()
	snapshots.HandleFunc("", snapshotHandler.List).Methods(http.MethodGet)
	snapshots.HandleFunc("/{id}/restore", snapshotHandler.Restore).Methods(http.MethodPost)
	snapshots.HandleFunc("/{id}", snapshotHandler.Delete).Methods(http.MethodDelete)

	// Leaderboard routes
	api.HandleFunc("/highscores/{mode}", leaderboardHandler.HighScores).Methods(http.MethodGet)
	api.HandleFunc("/challenges", leaderboardHandler.Challenges).Methods(http.MethodGet)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler(cfg.GameController)).Methods(http.MethodGet)

	return r
}

func healthHandler(controller *game.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, response.Health{
			Status:   "ok",
			Sessions: controller.SessionCount(),
		})
	}
}
