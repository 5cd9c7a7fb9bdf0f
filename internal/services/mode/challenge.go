package mode

import (
	"fmt"
	"time"

	"github.com/mcoot/neontetris/internal/model"
)

// ChallengeDropInterval is the fixed gravity interval for challenge levels
const ChallengeDropInterval = 800 * time.Millisecond

// Challenge starts from an authored grid and must reach its target within a
// piece budget
type Challenge struct {
	cfg             model.ChallengeLevelConfig
	targetRemaining int
	piecesUsed      int
	outcome         Outcome
}

var _ Policy = (*Challenge)(nil)

// NewChallenge creates a Challenge policy for one level
func NewChallenge(cfg model.ChallengeLevelConfig) *Challenge {
	return &Challenge{
		cfg:             cfg,
		targetRemaining: cfg.TargetValue,
	}
}

func (c *Challenge) Mode() model.GameMode { return model.ModeChallenge }

// Level returns the level this policy plays
func (c *Challenge) Level() int { return c.cfg.Level }

// Initialize validates and loads the preset grid. A preset whose dimensions
// differ from the board is rejected rather than padded or cropped.
func (c *Challenge) Initialize(width, height int) (model.Grid, error) {
	if len(c.cfg.PresetGrid) == 0 {
		return model.NewGrid(width, height), nil
	}
	if len(c.cfg.PresetGrid) != height {
		return model.Grid{}, fmt.Errorf("%w: level %d has %d rows, want %d",
			model.ErrInvalidPresetGrid, c.cfg.Level, len(c.cfg.PresetGrid), height)
	}
	for y, row := range c.cfg.PresetGrid {
		if len(row) != width {
			return model.Grid{}, fmt.Errorf("%w: level %d row %d has %d cells, want %d",
				model.ErrInvalidPresetGrid, c.cfg.Level, y, len(row), width)
		}
	}
	grid, err := model.GridFromRows(c.cfg.PresetGrid)
	if err != nil {
		return model.Grid{}, fmt.Errorf("%w: level %d: %w", model.ErrInvalidPresetGrid, c.cfg.Level, err)
	}
	return grid, nil
}

func (c *Challenge) OnLock(time.Time) {}

// OnLinesCleared counts the clear against the target, clamped at zero
func (c *Challenge) OnLinesCleared(lines, points int) Outcome {
	if c.outcome != OutcomeContinue {
		return c.outcome
	}
	switch c.cfg.TargetType {
	case model.TargetLines:
		c.targetRemaining -= lines
	case model.TargetScore:
		c.targetRemaining -= points
	}
	if c.targetRemaining <= 0 {
		c.targetRemaining = 0
		c.outcome = OutcomeWin
	}
	return c.outcome
}

// OnPieceSpawned spends one piece from the budget
func (c *Challenge) OnPieceSpawned(time.Time) Outcome {
	if c.outcome != OutcomeContinue {
		return c.outcome
	}
	c.piecesUsed++
	if c.piecesUsed >= c.cfg.PiecesLimit {
		if c.targetRemaining > 0 {
			c.outcome = OutcomeLose
		} else {
			c.outcome = OutcomeWin
		}
	}
	return c.outcome
}

func (c *Challenge) IsTerminal() bool { return c.outcome != OutcomeContinue }

func (c *Challenge) ProgressesLevel() bool { return false }

func (c *Challenge) InitialDropInterval() time.Duration { return ChallengeDropInterval }

func (c *Challenge) Context(model.Grid, time.Time) model.ModeContext {
	return model.ModeContext{
		ChallengeLevel:  c.cfg.Level,
		TargetType:      c.cfg.TargetType,
		TargetRemaining: c.targetRemaining,
		PiecesUsed:      c.piecesUsed,
		PiecesLimit:     c.cfg.PiecesLimit,
	}
}

func (c *Challenge) Restore(snap *model.Snapshot, _ time.Time) {
	c.piecesUsed = snap.PiecesUsed
	c.targetRemaining = max(snap.TargetRemaining, 0)
	c.outcome = OutcomeContinue
}
