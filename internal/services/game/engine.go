package game

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/mcoot/neontetris/internal/dependencies/clock"
	"github.com/mcoot/neontetris/internal/dependencies/random"
	"github.com/mcoot/neontetris/internal/model"
	"github.com/mcoot/neontetris/internal/services/fog"
	"github.com/mcoot/neontetris/internal/services/mode"
	"github.com/mcoot/neontetris/internal/services/piece"
	"github.com/mcoot/neontetris/internal/services/scoring"
)

// wallKickOffsets are the horizontal nudges tried when a rotation collides
var wallKickOffsets = [...]int{-1, 1, -2, 2}

// EngineConfig holds settings shared by every engine
type EngineConfig struct {
	Width     int
	Height    int
	WallKicks bool
	Pieces    piece.Config
	Fog       fog.Config
	Rules     scoring.Rules
}

// DefaultEngineConfig returns the canonical 10x20 board without wall kicks
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Width:  model.GridWidth,
		Height: model.GridHeight,
		Pieces: piece.DefaultConfig(),
		Fog:    fog.DefaultConfig(),
		Rules:  scoring.DefaultRules(),
	}
}

// Engine is the state machine for one game. It is not safe for concurrent
// use; a Runner serialises access to it.
type Engine struct {
	cfg     EngineConfig
	clock   clock.Clock
	random  random.Random
	scoring *scoring.Service
	logger  *slog.Logger

	policy         mode.Policy
	factory        *piece.Factory
	challengeLevel int

	grid         model.Grid
	current      *model.Tetromino
	next         *model.Tetromino
	score        int
	level        int
	lines        int
	combo        int
	dropInterval time.Duration
	phase        model.Phase
	resumePhase  model.Phase
	pendingRows  []int
	endReason    model.EndReason

	events []model.Event
}

// NewEngine creates an engine and starts a game in the given mode.
// level is required for challenge mode and ignored otherwise.
func NewEngine(
	cfg EngineConfig,
	m model.GameMode,
	level *model.ChallengeLevelConfig,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) (*Engine, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = model.GridWidth, model.GridHeight
	}
	cfg.Pieces.Width = cfg.Width

	e := &Engine{
		cfg:     cfg,
		clock:   clock,
		random:  random,
		scoring: scoring.New(cfg.Rules),
		logger:  logger,
	}
	if err := e.Reset(m, level); err != nil {
		return nil, err
	}
	return e, nil
}

// Reset discards the current game and starts a new one. On error the engine
// keeps its previous state.
func (e *Engine) Reset(m model.GameMode, level *model.ChallengeLevelConfig) error {
	now := e.clock.Now()
	policy, err := mode.New(mode.Options{
		Mode:      m,
		Challenge: level,
		Fog:       e.cfg.Fog,
		Now:       now,
	})
	if err != nil {
		return err
	}
	grid, err := policy.Initialize(e.cfg.Width, e.cfg.Height)
	if err != nil {
		return err
	}

	e.policy = policy
	e.factory = piece.NewFactory(e.random, e.cfg.Pieces)
	e.challengeLevel = 0
	if level != nil && m == model.ModeChallenge {
		e.challengeLevel = level.Level
	}
	e.grid = grid
	e.current = nil
	e.next = nil
	e.score = 0
	e.level = 1
	e.lines = 0
	e.combo = 0
	e.dropInterval = e.initialDropInterval()
	e.pendingRows = nil
	e.endReason = model.EndReasonNone
	e.resumePhase = ""
	e.phase = model.PhaseSpawning

	e.emit(model.EventGameReset, nil)
	e.logger.Info("game reset",
		slog.String("mode", string(m)),
		slog.Int("challenge_level", e.challengeLevel),
	)

	e.spawn()
	return nil
}

func (e *Engine) initialDropInterval() time.Duration {
	if d := e.policy.InitialDropInterval(); d > 0 {
		return d
	}
	return e.scoring.DropInterval(1)
}

// MoveLeft shifts the falling piece one column left
func (e *Engine) MoveLeft() bool {
	return e.shift(-1)
}

// MoveRight shifts the falling piece one column right
func (e *Engine) MoveRight() bool {
	return e.shift(1)
}

func (e *Engine) shift(dx int) bool {
	if !e.canAct() {
		return false
	}
	candidate := e.current.Moved(dx, 0)
	if e.collides(candidate) {
		return false
	}
	e.current = &candidate
	return true
}

// SoftDrop moves the falling piece down one row, locking it if blocked
func (e *Engine) SoftDrop() bool {
	if !e.canAct() {
		return false
	}
	candidate := e.current.Moved(0, 1)
	if e.collides(candidate) {
		e.lock(0)
		return true
	}
	e.current = &candidate
	return true
}

// HardDrop drops the falling piece as far as it goes and locks it
func (e *Engine) HardDrop() bool {
	if !e.canAct() {
		return false
	}
	distance := 0
	for {
		candidate := e.current.Moved(0, 1)
		if e.collides(candidate) {
			break
		}
		e.current = &candidate
		distance++
	}
	e.lock(distance)
	return true
}

// Rotate turns the falling piece clockwise. A colliding rotation is rejected
// unless wall kicks are enabled and a nudged position fits.
func (e *Engine) Rotate() bool {
	if !e.canAct() {
		return false
	}
	candidate := e.current.Rotated()
	if !e.collides(candidate) {
		e.current = &candidate
		return true
	}
	if !e.cfg.WallKicks {
		return false
	}
	for _, dx := range wallKickOffsets {
		kicked := candidate.Moved(dx, 0)
		if !e.collides(kicked) {
			e.current = &kicked
			return true
		}
	}
	return false
}

// Tick applies one step of gravity
func (e *Engine) Tick() bool {
	switch e.phase {
	case model.PhaseSpawning:
		e.spawn()
		return true
	case model.PhaseFalling:
		return e.SoftDrop()
	}
	return false
}

// Pause suspends the game. Pausing twice is the same as pausing once.
func (e *Engine) Pause() bool {
	if e.phase != model.PhaseFalling && e.phase != model.PhaseSpawning {
		return false
	}
	e.resumePhase = e.phase
	e.phase = model.PhasePaused
	e.emit(model.EventPaused, nil)
	return true
}

// Resume returns a paused game to the phase it was paused from
func (e *Engine) Resume() bool {
	if e.phase != model.PhasePaused {
		return false
	}
	e.phase = e.resumePhase
	if e.phase == "" {
		e.phase = model.PhaseFalling
	}
	e.resumePhase = ""
	e.emit(model.EventResumed, nil)
	return true
}

// SignalClearAnimationDone applies the pending line clear and spawns the next
// piece
func (e *Engine) SignalClearAnimationDone() bool {
	if e.phase != model.PhaseClearing {
		return false
	}

	grid, count := e.grid.ClearRows(e.pendingRows)
	e.grid = grid
	e.pendingRows = nil
	e.lines += count

	if e.policy.ProgressesLevel() {
		if level := e.scoring.LevelForLines(e.lines); level != e.level {
			e.level = level
			e.dropInterval = e.scoring.DropInterval(level)
			e.emit(model.EventLevelUp, model.LevelUpPayload{
				Level:        level,
				DropInterval: e.dropInterval.Milliseconds(),
			})
			e.logger.Info("level up",
				slog.Int("level", level),
				slog.Duration("drop_interval", e.dropInterval),
			)
		}
	}

	points := e.scoring.ClearScore(count, e.level, e.combo)
	e.score += points
	e.emit(model.EventLinesCleared, model.LinesClearedPayload{
		Count:  count,
		Points: points,
		Combo:  e.combo,
		Level:  e.level,
		Total:  e.lines,
	})
	e.logger.Debug("lines cleared",
		slog.Int("count", count),
		slog.Int("points", points),
		slog.Int("combo", e.combo),
	)

	switch e.policy.OnLinesCleared(count, points) {
	case mode.OutcomeWin:
		e.end(model.PhaseWon, model.EndReasonObjective)
		return true
	case mode.OutcomeLose:
		e.end(model.PhaseGameOver, model.EndReasonPieceBudget)
		return true
	}

	e.spawn()
	return true
}

func (e *Engine) canAct() bool {
	return e.phase == model.PhaseFalling && e.current != nil
}

func (e *Engine) collides(t model.Tetromino) bool {
	return e.grid.Collides(t.Shape(), t.Position)
}

func (e *Engine) lock(distance int) {
	locked := *e.current
	e.grid = e.grid.Place(locked.Shape(), locked.Position, locked.Color)
	e.current = nil
	e.policy.OnLock(e.clock.Now())
	e.emit(model.EventPieceLocked, model.PieceLockedPayload{Piece: locked, HardDrop: distance})

	rows := e.grid.FindFullRows()
	if len(rows) > 0 {
		e.combo++
		e.pendingRows = rows
		e.phase = model.PhaseClearing
		e.emit(model.EventLinesPending, model.LinesPendingPayload{
			Rows:  slices.Clone(rows),
			Combo: e.combo,
		})
		return
	}

	e.combo = 0
	e.spawn()
}

func (e *Engine) spawn() {
	if e.next == nil {
		n := e.factory.Next()
		e.next = &n
	}
	spawned := *e.next
	upcoming := e.factory.Next()
	e.current = &spawned
	e.next = &upcoming
	e.phase = model.PhaseSpawning

	switch e.policy.OnPieceSpawned(e.clock.Now()) {
	case mode.OutcomeLose:
		e.end(model.PhaseGameOver, model.EndReasonPieceBudget)
		return
	case mode.OutcomeWin:
		e.end(model.PhaseWon, model.EndReasonObjective)
		return
	}

	if e.collides(spawned) {
		e.end(model.PhaseGameOver, model.EndReasonTopOut)
		return
	}

	e.phase = model.PhaseFalling
	e.emit(model.EventPieceSpawned, model.PieceSpawnedPayload{Piece: spawned, Next: &upcoming})
}

func (e *Engine) end(phase model.Phase, reason model.EndReason) {
	e.phase = phase
	e.endReason = reason
	e.resumePhase = ""

	ctx := e.policy.Context(e.grid, e.clock.Now())
	payload := model.GameEndedPayload{
		Reason:          reason,
		Score:           e.score,
		Lines:           e.lines,
		Level:           e.level,
		TargetType:      ctx.TargetType,
		TargetRemaining: ctx.TargetRemaining,
		PiecesUsed:      ctx.PiecesUsed,
		PiecesLimit:     ctx.PiecesLimit,
	}

	eventType := model.EventGameOver
	if phase == model.PhaseWon {
		eventType = model.EventGameWon
	}
	e.emit(eventType, payload)

	e.logger.Info("game ended",
		slog.String("mode", string(e.policy.Mode())),
		slog.String("phase", string(phase)),
		slog.String("reason", string(reason)),
		slog.Int("score", e.score),
		slog.Int("lines", e.lines),
	)
}

func (e *Engine) emit(t model.EventType, payload any) {
	e.events = append(e.events, model.Event{
		Type:      t,
		Timestamp: e.clock.Now(),
		Payload:   payload,
	})
}

// DrainEvents returns and forgets the events emitted since the last call
func (e *Engine) DrainEvents() []model.Event {
	events := e.events
	e.events = nil
	return events
}

// Phase returns the current state machine phase
func (e *Engine) Phase() model.Phase {
	return e.phase
}

// Mode returns the mode being played
func (e *Engine) Mode() model.GameMode {
	return e.policy.Mode()
}

// ChallengeLevel returns the challenge level being played, or 0
func (e *Engine) ChallengeLevel() int {
	return e.challengeLevel
}

// DropInterval returns the current gravity interval
func (e *Engine) DropInterval() time.Duration {
	return e.dropInterval
}

// NextFogChange returns when the invisible-mode overlay next changes, or the
// zero time when there is no fog to schedule
func (e *Engine) NextFogChange() time.Time {
	invisible, ok := e.policy.(*mode.Invisible)
	if !ok || e.phase.IsTerminal() {
		return time.Time{}
	}
	return invisible.Overlay().NextChange(e.clock.Now())
}

// PublishFog emits the current fog phase
func (e *Engine) PublishFog() {
	invisible, ok := e.policy.(*mode.Invisible)
	if !ok {
		return
	}
	now := e.clock.Now()
	e.emit(model.EventFogChanged, model.FogChangedPayload{
		Phase:        invisible.Overlay().Phase(now),
		NextChangeAt: invisible.Overlay().NextChange(now),
	})
}

// Status returns the observable state. The grid shares storage with the
// engine, which is safe because grids are never written in place.
func (e *Engine) Status() model.Status {
	status := model.Status{
		Mode:             e.policy.Mode(),
		Phase:            e.phase,
		Grid:             e.grid,
		Score:            e.score,
		Level:            e.level,
		Lines:            e.lines,
		Combo:            e.combo,
		DropInterval:     e.dropInterval,
		PendingClearRows: slices.Clone(e.pendingRows),
		EndReason:        e.endReason,
		ModeContext:      e.policy.Context(e.grid, e.clock.Now()),
	}
	if e.current != nil {
		c := *e.current
		status.CurrentPiece = &c
	}
	if e.next != nil {
		n := *e.next
		status.NextPiece = &n
	}
	return status
}

// Snapshot returns the persisted form of the game
func (e *Engine) Snapshot() *model.Snapshot {
	ctx := e.policy.Context(e.grid, e.clock.Now())
	snap := &model.Snapshot{
		Grid:             e.grid,
		Score:            e.score,
		Level:            e.level,
		Line:             e.lines,
		IsPaused:         e.phase == model.PhasePaused,
		GameMode:         e.policy.Mode(),
		ChallengeLevel:   e.challengeLevel,
		IsInvisibleMode:  e.policy.Mode() == model.ModeInvisible,
		Combo:            e.combo,
		DropIntervalMs:   e.dropInterval.Milliseconds(),
		PiecesUsed:       ctx.PiecesUsed,
		TargetRemaining:  ctx.TargetRemaining,
		PendingClearRows: slices.Clone(e.pendingRows),
		SavedAt:          e.clock.Now(),
	}
	if e.phase.IsTerminal() {
		snap.EndReason = e.endReason
	}
	if e.current != nil {
		c := *e.current
		snap.CurrentPiece = &c
	}
	if e.next != nil {
		n := *e.next
		snap.NextPiece = &n
	}
	return snap
}

// Restore replaces the game with a persisted one. level is required when the
// snapshot is a challenge. On error the engine keeps its previous state.
func (e *Engine) Restore(snap *model.Snapshot, level *model.ChallengeLevelConfig) error {
	if snap.EndReason != model.EndReasonNone {
		return fmt.Errorf("%w: ended by %s", model.ErrGameEnded, snap.EndReason)
	}
	m := snap.GameMode
	if snap.IsInvisibleMode {
		m = model.ModeInvisible
	}
	if snap.Grid.Width() != e.cfg.Width || snap.Grid.Height() != e.cfg.Height {
		return fmt.Errorf("%w: grid is %dx%d", model.ErrInvalidSnapshot, snap.Grid.Width(), snap.Grid.Height())
	}
	for _, p := range []*model.Tetromino{snap.CurrentPiece, snap.NextPiece} {
		if p != nil && !p.Type.IsValid() {
			return fmt.Errorf("%w: unknown piece %q", model.ErrInvalidSnapshot, p.Type)
		}
	}
	if cur := snap.CurrentPiece; cur != nil && snap.Grid.Collides(cur.Shape(), cur.Position) {
		return fmt.Errorf("%w: current piece overlaps the grid", model.ErrInvalidSnapshot)
	}

	now := e.clock.Now()
	policy, err := mode.New(mode.Options{Mode: m, Challenge: level, Fog: e.cfg.Fog, Now: now})
	if err != nil {
		return err
	}
	policy.Restore(snap, now)

	e.policy = policy
	e.factory = piece.NewFactory(e.random, e.cfg.Pieces)
	e.challengeLevel = 0
	if m == model.ModeChallenge {
		e.challengeLevel = snap.ChallengeLevel
	}
	e.grid = snap.Grid
	e.current = nil
	e.next = nil
	if snap.CurrentPiece != nil {
		c := *snap.CurrentPiece
		e.current = &c
	}
	if snap.NextPiece != nil {
		n := *snap.NextPiece
		e.next = &n
		e.factory.Seed(n.Type)
	}
	e.score = max(snap.Score, 0)
	e.level = max(snap.Level, 1)
	e.lines = max(snap.Line, 0)
	e.combo = max(snap.Combo, 0)
	e.dropInterval = time.Duration(snap.DropIntervalMs) * time.Millisecond
	if e.dropInterval <= 0 {
		if policy.ProgressesLevel() {
			e.dropInterval = e.scoring.DropInterval(e.level)
		} else {
			e.dropInterval = e.initialDropInterval()
		}
	}
	e.pendingRows = slices.Clone(snap.PendingClearRows)
	e.endReason = model.EndReasonNone
	e.resumePhase = ""

	switch {
	case len(e.pendingRows) > 0:
		e.phase = model.PhaseClearing
	case e.current == nil:
		e.phase = model.PhaseSpawning
	default:
		e.phase = model.PhaseFalling
	}
	if snap.IsPaused && e.phase != model.PhaseClearing {
		e.resumePhase = e.phase
		e.phase = model.PhasePaused
	}

	e.logger.Info("game restored",
		slog.String("mode", string(m)),
		slog.Int("score", e.score),
		slog.String("phase", string(e.phase)),
	)
	return nil
}
