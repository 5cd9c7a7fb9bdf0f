package model

import "time"

// SessionID uniquely identifies a play session
type SessionID string

// GameMode selects the rule set a session plays under
type GameMode string

const (
	ModeClassic   GameMode = "classic"
	ModeInvisible GameMode = "invisible"
	ModeChallenge GameMode = "challenge"
)

// IsValid reports whether m is a known mode
func (m GameMode) IsValid() bool {
	switch m {
	case ModeClassic, ModeInvisible, ModeChallenge:
		return true
	}
	return false
}

// Phase is the engine's position in its state machine
type Phase string

const (
	PhaseSpawning Phase = "spawning"
	PhaseFalling  Phase = "falling"
	PhaseClearing Phase = "clearing" // Waiting for the clear animation to finish
	PhasePaused   Phase = "paused"
	PhaseGameOver Phase = "game_over"
	PhaseWon      Phase = "won"
)

// IsTerminal reports whether no further command can change the game
func (p Phase) IsTerminal() bool {
	return p == PhaseGameOver || p == PhaseWon
}

// EndReason explains why a game ended
type EndReason string

const (
	EndReasonNone        EndReason = ""
	EndReasonTopOut      EndReason = "top_out"      // Spawned piece collided
	EndReasonPieceBudget EndReason = "piece_budget" // Challenge ran out of pieces
	EndReasonObjective   EndReason = "objective"    // Challenge target reached
)

// TargetType is the objective a challenge level counts down
type TargetType string

const (
	TargetLines TargetType = "lines"
	TargetScore TargetType = "score"
)

// ChallengeLevelConfig describes one authored challenge
type ChallengeLevelConfig struct {
	Level       int        `json:"level"`
	TargetType  TargetType `json:"target_type"`
	TargetValue int        `json:"target_value"`
	PiecesLimit int        `json:"pieces_limit"`
	PresetGrid  [][]int    `json:"preset_grid"`
}

// ModeContext holds the mode-specific observable fields
type ModeContext struct {
	// Challenge
	ChallengeLevel  int        `json:"challenge_level,omitempty"`
	TargetType      TargetType `json:"target_type,omitempty"`
	TargetRemaining int        `json:"target_remaining,omitempty"`
	PiecesUsed      int        `json:"pieces_used,omitempty"`
	PiecesLimit     int        `json:"pieces_limit,omitempty"`

	// Invisible
	Fog *FogState `json:"fog,omitempty"`
}

// FogPhase is the visibility of locked cells in invisible mode
type FogPhase string

const (
	FogVisible FogPhase = "visible"
	FogHidden  FogPhase = "hidden"
	FogFlash   FogPhase = "flash"
)

// FogState is the invisible-mode overlay at a point in time
type FogState struct {
	Phase        FogPhase    `json:"phase"`
	Opacity      [][]float64 `json:"opacity"`
	NextChangeAt time.Time   `json:"next_change_at"`
}

// Status is the engine's observable state
type Status struct {
	Mode             GameMode      `json:"mode"`
	Phase            Phase         `json:"phase"`
	Grid             Grid          `json:"grid"`
	CurrentPiece     *Tetromino    `json:"current_piece,omitempty"`
	NextPiece        *Tetromino    `json:"next_piece,omitempty"`
	Score            int           `json:"score"`
	Level            int           `json:"level"`
	Lines            int           `json:"lines"`
	Combo            int           `json:"combo"`
	DropInterval     time.Duration `json:"drop_interval"`
	PendingClearRows []int         `json:"pending_clear_rows,omitempty"`
	EndReason        EndReason     `json:"end_reason,omitempty"`
	ModeContext      ModeContext   `json:"mode_context"`
}

// IsRunning reports whether the game has not ended
func (s Status) IsRunning() bool {
	return !s.Phase.IsTerminal()
}

// IsPaused reports whether the game is suspended
func (s Status) IsPaused() bool {
	return s.Phase == PhasePaused
}

// IsGameOver reports whether the game was lost
func (s Status) IsGameOver() bool {
	return s.Phase == PhaseGameOver
}

// IsWin reports whether a challenge objective was met
func (s Status) IsWin() bool {
	return s.Phase == PhaseWon
}

// Snapshot is the persisted form of a session, sufficient to rebuild it
type Snapshot struct {
	SessionID       SessionID  `json:"session_id"`
	Grid            Grid       `json:"grid"`
	CurrentPiece    *Tetromino `json:"current_piece,omitempty"`
	NextPiece       *Tetromino `json:"next_piece,omitempty"`
	Score           int        `json:"score"`
	Level           int        `json:"level"`
	Line            int        `json:"line"`
	IsPaused        bool       `json:"is_paused"`
	GameMode        GameMode   `json:"game_mode"`
	ChallengeLevel  int        `json:"challenge_level,omitempty"`
	IsInvisibleMode bool       `json:"is_invisible_mode"`

	Combo            int   `json:"combo"`
	DropIntervalMs   int64 `json:"drop_interval_ms"`
	PiecesUsed       int   `json:"pieces_used,omitempty"`
	TargetRemaining  int   `json:"target_remaining,omitempty"`
	PendingClearRows []int `json:"pending_clear_rows,omitempty"`

	// EndReason is set when the game was already over at save time
	EndReason EndReason `json:"end_reason,omitempty"`

	SavedAt time.Time `json:"saved_at"`
}

// HighScore is one entry in a mode's leaderboard
type HighScore struct {
	Score      int       `json:"score"`
	Lines      int       `json:"lines"`
	Level      int       `json:"level"`
	AchievedAt time.Time `json:"achieved_at"`
}
