package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/neontetris/internal/api/apierr"
	"github.com/mcoot/neontetris/internal/middleware"
)

// Stack returns the API's middleware chain: panics become JSON 500s and
// every request, websocket upgrades included, is access logged with
// component=api
func Stack(logger *slog.Logger) func(http.Handler) http.Handler {
	apiLogger := logger.With(slog.String("component", "api"))
	recovery := middleware.Recovery(apiLogger, func(w http.ResponseWriter, _ *http.Request, _ any) {
		apierr.WriteError(w, apierr.NewInternalError())
	})
	logging := middleware.Logging(apiLogger)

	return func(next http.Handler) http.Handler {
		return recovery(logging(next))
	}
}
