// Package mode holds the per-mode rule sets the engine delegates to.
package mode

import (
	"fmt"
	"time"

	"github.com/mcoot/neontetris/internal/model"
	"github.com/mcoot/neontetris/internal/services/fog"
)

// Outcome is a policy's verdict after a game event
type Outcome int

const (
	OutcomeContinue Outcome = iota
	OutcomeWin
	OutcomeLose
)

// Policy is the rule set for one game mode
type Policy interface {
	Mode() model.GameMode

	// Initialize returns the starting grid for a board of the given size
	Initialize(width, height int) (model.Grid, error)

	// OnLock is called after a piece is written into the grid
	OnLock(now time.Time)

	// OnLinesCleared is called after cleared rows are applied and scored
	OnLinesCleared(lines, points int) Outcome

	// OnPieceSpawned is called when a new piece enters play, before the
	// spawn collision check
	OnPieceSpawned(now time.Time) Outcome

	// IsTerminal reports whether the policy has decided the game
	IsTerminal() bool

	// ProgressesLevel reports whether cleared lines raise the level
	ProgressesLevel() bool

	// InitialDropInterval overrides the level-one gravity interval when non-zero
	InitialDropInterval() time.Duration

	// Context returns the mode-specific observable fields
	Context(grid model.Grid, now time.Time) model.ModeContext

	// Restore reloads counters from a persisted snapshot
	Restore(snap *model.Snapshot, now time.Time)
}

// Options carries everything needed to build any policy
type Options struct {
	Mode      model.GameMode
	Challenge *model.ChallengeLevelConfig
	Fog       fog.Config
	Now       time.Time
}

// New builds the policy for opts.Mode
func New(opts Options) (Policy, error) {
	switch opts.Mode {
	case model.ModeClassic:
		return NewClassic(), nil
	case model.ModeInvisible:
		return NewInvisible(opts.Fog, opts.Now), nil
	case model.ModeChallenge:
		if opts.Challenge == nil {
			return nil, fmt.Errorf("%w: challenge mode needs a level", model.ErrChallengeLevelNotFound)
		}
		return NewChallenge(*opts.Challenge), nil
	default:
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownMode, opts.Mode)
	}
}

// Classic is the endless mode: empty start, no piece limit, ends only when a
// spawned piece collides.
type Classic struct{}

var _ Policy = (*Classic)(nil)

// NewClassic creates a Classic policy
func NewClassic() *Classic {
	return &Classic{}
}

func (c *Classic) Mode() model.GameMode { return model.ModeClassic }

func (c *Classic) Initialize(width, height int) (model.Grid, error) {
	return model.NewGrid(width, height), nil
}

func (c *Classic) OnLock(time.Time) {}

func (c *Classic) OnLinesCleared(int, int) Outcome { return OutcomeContinue }

func (c *Classic) OnPieceSpawned(time.Time) Outcome { return OutcomeContinue }

func (c *Classic) IsTerminal() bool { return false }

func (c *Classic) ProgressesLevel() bool { return true }

func (c *Classic) InitialDropInterval() time.Duration { return 0 }

func (c *Classic) Context(model.Grid, time.Time) model.ModeContext {
	return model.ModeContext{}
}

func (c *Classic) Restore(*model.Snapshot, time.Time) {}

// Invisible plays like Classic but hides locked cells after a delay
type Invisible struct {
	Classic
	overlay *fog.Overlay
}

var _ Policy = (*Invisible)(nil)

// NewInvisible creates an Invisible policy
func NewInvisible(cfg fog.Config, now time.Time) *Invisible {
	return &Invisible{overlay: fog.NewOverlay(cfg, now)}
}

func (i *Invisible) Mode() model.GameMode { return model.ModeInvisible }

func (i *Invisible) OnLock(now time.Time) {
	i.overlay.Reset(now)
}

func (i *Invisible) OnPieceSpawned(now time.Time) Outcome {
	i.overlay.Reset(now)
	return OutcomeContinue
}

func (i *Invisible) Context(grid model.Grid, now time.Time) model.ModeContext {
	return model.ModeContext{Fog: i.overlay.State(grid, now)}
}

func (i *Invisible) Restore(_ *model.Snapshot, now time.Time) {
	i.overlay.Reset(now)
}

// Overlay exposes the fog schedule
func (i *Invisible) Overlay() *fog.Overlay {
	return i.overlay
}
