package fog

import (
	"time"

	"github.com/mcoot/neontetris/internal/model"
)

// Config holds invisible-mode timing
type Config struct {
	// HideDelay is how long locked cells stay visible after a lock or spawn
	HideDelay time.Duration
	// FlashInterval is the gap between flashes once cells are hidden
	FlashInterval time.Duration
	// FlashDuration is how long each flash shows the cells
	FlashDuration time.Duration
}

// DefaultConfig returns the standard fog timing
func DefaultConfig() Config {
	return Config{
		HideDelay:     1500 * time.Millisecond,
		FlashInterval: 5 * time.Second,
		FlashDuration: 300 * time.Millisecond,
	}
}

// Overlay computes cell visibility from the time of the last reset.
// It holds no timers; callers ask for the phase at a given instant and use
// NextChange to schedule their own wake-ups.
type Overlay struct {
	cfg     Config
	resetAt time.Time
}

// NewOverlay creates an overlay that is fully visible from now
func NewOverlay(cfg Config, now time.Time) *Overlay {
	return &Overlay{cfg: cfg, resetAt: now}
}

// Reset makes every cell visible and restarts the hide countdown
func (o *Overlay) Reset(now time.Time) {
	o.resetAt = now
}

// ResetAt returns the instant of the last reset
func (o *Overlay) ResetAt() time.Time {
	return o.resetAt
}

// Phase returns the visibility of occupied cells at now
func (o *Overlay) Phase(now time.Time) model.FogPhase {
	elapsed := now.Sub(o.resetAt)
	if elapsed < o.cfg.HideDelay {
		return model.FogVisible
	}
	if o.cfg.FlashInterval <= 0 || o.cfg.FlashDuration <= 0 {
		return model.FogHidden
	}
	sinceHide := elapsed - o.cfg.HideDelay
	if sinceHide < o.cfg.FlashInterval {
		return model.FogHidden
	}
	if sinceHide%o.cfg.FlashInterval < o.cfg.FlashDuration {
		return model.FogFlash
	}
	return model.FogHidden
}

// NextChange returns the next instant after now at which Phase changes
func (o *Overlay) NextChange(now time.Time) time.Time {
	hideAt := o.resetAt.Add(o.cfg.HideDelay)
	if now.Before(hideAt) {
		return hideAt
	}
	if o.cfg.FlashInterval <= 0 || o.cfg.FlashDuration <= 0 {
		return time.Time{}
	}
	sinceHide := now.Sub(hideAt)
	cycle := sinceHide / o.cfg.FlashInterval
	cycleStart := hideAt.Add(cycle * o.cfg.FlashInterval)
	if cycle >= 1 && sinceHide%o.cfg.FlashInterval < o.cfg.FlashDuration {
		return cycleStart.Add(o.cfg.FlashDuration)
	}
	return cycleStart.Add(o.cfg.FlashInterval)
}

// Opacity returns a per-cell opacity matrix for grid at now. Empty cells are
// always 1; occupied cells are 1 while visible or flashing and 0 when hidden.
func (o *Overlay) Opacity(grid model.Grid, now time.Time) [][]float64 {
	hidden := o.Phase(now) == model.FogHidden
	out := make([][]float64, grid.Height())
	for y := range out {
		out[y] = make([]float64, grid.Width())
		for x := range out[y] {
			if hidden && grid.At(x, y) != 0 {
				continue
			}
			out[y][x] = 1
		}
	}
	return out
}

// State returns the overlay as an observable value
func (o *Overlay) State(grid model.Grid, now time.Time) *model.FogState {
	return &model.FogState{
		Phase:        o.Phase(now),
		Opacity:      o.Opacity(grid, now),
		NextChangeAt: o.NextChange(now),
	}
}
