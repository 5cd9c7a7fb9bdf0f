package model

import "errors"

// Common errors used across the application
var (
	// Configuration errors
	ErrInvalidGrid            = errors.New("invalid grid")
	ErrInvalidPresetGrid      = errors.New("preset grid does not match board size")
	ErrUnknownMode            = errors.New("unknown game mode")
	ErrChallengeLevelNotFound = errors.New("challenge level not found")
	ErrInvalidSnapshot        = errors.New("invalid snapshot")

	// Session errors
	ErrSessionNotFound     = errors.New("session not found")
	ErrSessionClosed       = errors.New("session is closed")
	ErrSessionLimitReached = errors.New("too many active sessions")
	ErrUnknownCommand      = errors.New("unknown command")
	ErrGameEnded           = errors.New("game has ended")

	// Progression errors
	ErrLevelLocked  = errors.New("challenge level is locked")
	ErrNoNextLevel  = errors.New("no next challenge level")
	ErrGameNotWon   = errors.New("challenge has not been won")
	ErrNotChallenge = errors.New("session is not in challenge mode")

	// Storage errors
	ErrSnapshotNotFound = errors.New("snapshot not found")
)
