package response

import (
	"time"

	"github.com/mcoot/neontetris/internal/model"
	"github.com/mcoot/neontetris/internal/services/game"
)

// Piece represents a falling or preview tetromino
type Piece struct {
	Type     string  `json:"type"`
	Color    int     `json:"color"`
	X        int     `json:"x"`
	Y        int     `json:"y"`
	Rotation int     `json:"rotation"`
	Cells    [][]int `json:"cells"`
}

// PieceFromModel converts a model.Tetromino, or returns nil
func PieceFromModel(t *model.Tetromino) *Piece {
	if t == nil {
		return nil
	}
	return &Piece{
		Type:     string(t.Type),
		Color:    t.Color,
		X:        t.Position.X,
		Y:        t.Position.Y,
		Rotation: t.Rotation,
		Cells:    cells(t.Shape()),
	}
}

// cells widens a shape matrix so it encodes as numbers rather than bytes
func cells(m model.Matrix) [][]int {
	out := make([][]int, len(m))
	for y, row := range m {
		out[y] = make([]int, len(row))
		for x, v := range row {
			out[y][x] = int(v)
		}
	}
	return out
}

// Challenge represents challenge progress
type Challenge struct {
	Level           int    `json:"level"`
	TargetType      string `json:"target_type"`
	TargetRemaining int    `json:"target_remaining"`
	PiecesUsed      int    `json:"pieces_used"`
	PiecesLimit     int    `json:"pieces_limit"`
}

// Fog represents the invisible-mode overlay
type Fog struct {
	Phase        string      `json:"phase"`
	Opacity      [][]float64 `json:"opacity"`
	NextChangeAt time.Time   `json:"next_change_at"`
}

// Session represents a session's observable state
type Session struct {
	ID               string     `json:"id"`
	Mode             string     `json:"mode"`
	Phase            string     `json:"phase"`
	Grid             [][]int    `json:"grid"`
	CurrentPiece     *Piece     `json:"current_piece"`
	NextPiece        *Piece     `json:"next_piece"`
	Score            int        `json:"score"`
	Level            int        `json:"level"`
	Lines            int        `json:"lines"`
	Combo            int        `json:"combo"`
	DropIntervalMs   int64      `json:"drop_interval_ms"`
	PendingClearRows []int      `json:"pending_clear_rows,omitempty"`
	EndReason        string     `json:"end_reason,omitempty"`
	Challenge        *Challenge `json:"challenge,omitempty"`
	Fog              *Fog       `json:"fog,omitempty"`
}

// SessionFromModel converts a model.Status to a response Session
func SessionFromModel(id model.SessionID, s model.Status) Session {
	resp := Session{
		ID:               string(id),
		Mode:             string(s.Mode),
		Phase:            string(s.Phase),
		Grid:             s.Grid.Rows(),
		CurrentPiece:     PieceFromModel(s.CurrentPiece),
		NextPiece:        PieceFromModel(s.NextPiece),
		Score:            s.Score,
		Level:            s.Level,
		Lines:            s.Lines,
		Combo:            s.Combo,
		DropIntervalMs:   s.DropInterval.Milliseconds(),
		PendingClearRows: s.PendingClearRows,
		EndReason:        string(s.EndReason),
	}

	mc := s.ModeContext
	if s.Mode == model.ModeChallenge {
		resp.Challenge = &Challenge{
			Level:           mc.ChallengeLevel,
			TargetType:      string(mc.TargetType),
			TargetRemaining: mc.TargetRemaining,
			PiecesUsed:      mc.PiecesUsed,
			PiecesLimit:     mc.PiecesLimit,
		}
	}
	if mc.Fog != nil {
		resp.Fog = &Fog{
			Phase:        string(mc.Fog.Phase),
			Opacity:      mc.Fog.Opacity,
			NextChangeAt: mc.Fog.NextChangeAt,
		}
	}
	return resp
}

// CommandResponse is the response after sending a command
type CommandResponse struct {
	Command string  `json:"command"`
	Applied bool    `json:"applied"`
	Session Session `json:"session"`
}

// SavedResponse is the response after saving a session
type SavedResponse struct {
	SessionID string    `json:"session_id"`
	Score     int       `json:"score"`
	SavedAt   time.Time `json:"saved_at"`
}

// SavedFromModel converts a model.Snapshot
func SavedFromModel(s *model.Snapshot) SavedResponse {
	return SavedResponse{
		SessionID: string(s.SessionID),
		Score:     s.Score,
		SavedAt:   s.SavedAt,
	}
}

// SnapshotList lists saved sessions
type SnapshotList struct {
	SessionIDs []string `json:"session_ids"`
}

// SnapshotListFromModel converts session ids
func SnapshotListFromModel(ids []model.SessionID) SnapshotList {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return SnapshotList{SessionIDs: out}
}

// HighScore represents one leaderboard entry
type HighScore struct {
	Rank       int       `json:"rank"`
	Score      int       `json:"score"`
	Lines      int       `json:"lines"`
	Level      int       `json:"level"`
	AchievedAt time.Time `json:"achieved_at"`
}

// HighScores represents a mode's leaderboard
type HighScores struct {
	Mode   string      `json:"mode"`
	Scores []HighScore `json:"scores"`
}

// HighScoresFromModel converts a leaderboard, best first
func HighScoresFromModel(m model.GameMode, scores []model.HighScore) HighScores {
	out := make([]HighScore, len(scores))
	for i, hs := range scores {
		out[i] = HighScore{
			Rank:       i + 1,
			Score:      hs.Score,
			Lines:      hs.Lines,
			Level:      hs.Level,
			AchievedAt: hs.AchievedAt,
		}
	}
	return HighScores{Mode: string(m), Scores: out}
}

// ChallengeLevels lists the challenge catalog
type ChallengeLevels struct {
	Levels []game.ChallengeSummary `json:"levels"`
}

// Health is the health check response
type Health struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}
