package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	EventPieceSpawned  EventType = "piece_spawned"
	EventPieceLocked   EventType = "piece_locked"
	EventLinesPending  EventType = "lines_pending"
	EventLinesCleared  EventType = "lines_cleared"
	EventLevelUp       EventType = "level_up"
	EventPaused        EventType = "paused"
	EventResumed       EventType = "resumed"
	EventGameOver      EventType = "game_over"
	EventGameWon       EventType = "game_won"
	EventGameReset     EventType = "game_reset"
	EventFogChanged    EventType = "fog_changed"
	EventLevelUnlocked EventType = "level_unlocked"

	// Sent once to each new stream subscriber
	EventSessionState EventType = "session_state"
)

// Event is the base structure for all events
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	SessionID SessionID `json:"session_id,omitempty"`
	Payload   any       `json:"payload,omitempty"`
}

// PieceSpawnedPayload contains data for piece spawned events
type PieceSpawnedPayload struct {
	Piece Tetromino  `json:"piece"`
	Next  *Tetromino `json:"next,omitempty"`
}

// PieceLockedPayload contains data for piece locked events
type PieceLockedPayload struct {
	Piece    Tetromino `json:"piece"`
	HardDrop int       `json:"hard_drop,omitempty"` // Rows travelled by a hard drop
}

// LinesPendingPayload contains the rows awaiting the clear animation
type LinesPendingPayload struct {
	Rows  []int `json:"rows"`
	Combo int   `json:"combo"`
}

// LinesClearedPayload contains data for lines cleared events
type LinesClearedPayload struct {
	Count  int `json:"count"`
	Points int `json:"points"`
	Combo  int `json:"combo"`
	Level  int `json:"level"`
	Total  int `json:"total"`
}

// LevelUpPayload contains data for level up events
type LevelUpPayload struct {
	Level        int   `json:"level"`
	DropInterval int64 `json:"drop_interval_ms"`
}

// GameEndedPayload contains data for game over and game won events
type GameEndedPayload struct {
	Reason          EndReason  `json:"reason"`
	Score           int        `json:"score"`
	Lines           int        `json:"lines"`
	Level           int        `json:"level"`
	TargetType      TargetType `json:"target_type,omitempty"`
	TargetRemaining int        `json:"target_remaining,omitempty"`
	PiecesUsed      int        `json:"pieces_used,omitempty"`
	PiecesLimit     int        `json:"pieces_limit,omitempty"`
}

// FogChangedPayload announces when locked cells change visibility
type FogChangedPayload struct {
	Phase        FogPhase  `json:"phase"`
	NextChangeAt time.Time `json:"next_change_at"`
}

// LevelUnlockedPayload contains data for level unlocked events
type LevelUnlockedPayload struct {
	Level int `json:"level"`
}
