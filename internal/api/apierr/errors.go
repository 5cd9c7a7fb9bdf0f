package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/neontetris/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest         = "INVALID_REQUEST"
	CodeUnknownMode            = "UNKNOWN_MODE"
	CodeUnknownCommand         = "UNKNOWN_COMMAND"
	CodeSessionNotFound        = "SESSION_NOT_FOUND"
	CodeSessionClosed          = "SESSION_CLOSED"
	CodeSessionLimitReached    = "SESSION_LIMIT_REACHED"
	CodeSnapshotNotFound       = "SNAPSHOT_NOT_FOUND"
	CodeInvalidSnapshot        = "INVALID_SNAPSHOT"
	CodeChallengeLevelNotFound = "CHALLENGE_LEVEL_NOT_FOUND"
	CodeLevelLocked            = "LEVEL_LOCKED"
	CodeNoNextLevel            = "NO_NEXT_LEVEL"
	CodeGameNotWon             = "GAME_NOT_WON"
	CodeNotChallenge           = "NOT_CHALLENGE"
	CodeGameEnded              = "GAME_ENDED"
	CodeInternalError          = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status code err maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSessionNotFound, "Session not found"}}
	case errors.Is(err, model.ErrSnapshotNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSnapshotNotFound, "No saved game for this session"}}
	case errors.Is(err, model.ErrChallengeLevelNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeChallengeLevelNotFound, "Challenge level not found"}}
	case errors.Is(err, model.ErrUnknownMode):
		return &httpError{http.StatusBadRequest, APIError{CodeUnknownMode, "Mode must be classic, invisible or challenge"}}
	case errors.Is(err, model.ErrUnknownCommand):
		return &httpError{http.StatusBadRequest, APIError{CodeUnknownCommand, "Unknown command"}}
	case errors.Is(err, model.ErrInvalidSnapshot):
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeInvalidSnapshot, "Saved game is not valid"}}
	case errors.Is(err, model.ErrLevelLocked):
		return &httpError{http.StatusForbidden, APIError{CodeLevelLocked, "Challenge level is locked"}}
	case errors.Is(err, model.ErrNoNextLevel):
		return &httpError{http.StatusConflict, APIError{CodeNoNextLevel, "This is the last challenge level"}}
	case errors.Is(err, model.ErrGameNotWon):
		return &httpError{http.StatusConflict, APIError{CodeGameNotWon, "Challenge has not been won"}}
	case errors.Is(err, model.ErrNotChallenge):
		return &httpError{http.StatusConflict, APIError{CodeNotChallenge, "Session is not a challenge"}}
	case errors.Is(err, model.ErrGameEnded):
		return &httpError{http.StatusConflict, APIError{CodeGameEnded, "Game has already ended"}}
	case errors.Is(err, model.ErrSessionClosed):
		return &httpError{http.StatusGone, APIError{CodeSessionClosed, "Session is closed"}}
	case errors.Is(err, model.ErrSessionLimitReached):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeSessionLimitReached, "Too many active sessions"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
