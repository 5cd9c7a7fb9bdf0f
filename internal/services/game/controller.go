package game

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mcoot/neontetris/internal/dependencies/clock"
	"github.com/mcoot/neontetris/internal/dependencies/random"
	"github.com/mcoot/neontetris/internal/model"
	"github.com/mcoot/neontetris/internal/services/highscore"
	"github.com/mcoot/neontetris/internal/services/mode"
	"github.com/mcoot/neontetris/internal/services/progress"
	"github.com/mcoot/neontetris/internal/storage"
)

const sessionIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Command is a player input accepted by Controller.Command
type Command string

const (
	CommandMoveLeft  Command = "move-left"
	CommandMoveRight Command = "move-right"
	CommandSoftDrop  Command = "soft-drop"
	CommandHardDrop  Command = "hard-drop"
	CommandRotate    Command = "rotate"
	CommandTick      Command = "tick"
	CommandPause     Command = "pause"
	CommandResume    Command = "resume"
	CommandClearDone Command = "clear-done"
)

// Commands lists every accepted command
var Commands = []Command{
	CommandMoveLeft, CommandMoveRight, CommandSoftDrop, CommandHardDrop,
	CommandRotate, CommandTick, CommandPause, CommandResume, CommandClearDone,
}

func (c Command) apply(e *Engine) (bool, error) {
	switch c {
	case CommandMoveLeft:
		return e.MoveLeft(), nil
	case CommandMoveRight:
		return e.MoveRight(), nil
	case CommandSoftDrop:
		return e.SoftDrop(), nil
	case CommandHardDrop:
		return e.HardDrop(), nil
	case CommandRotate:
		return e.Rotate(), nil
	case CommandTick:
		return e.Tick(), nil
	case CommandPause:
		return e.Pause(), nil
	case CommandResume:
		return e.Resume(), nil
	case CommandClearDone:
		return e.SignalClearAnimationDone(), nil
	}
	return false, fmt.Errorf("%w: %q", model.ErrUnknownCommand, c)
}

// Publisher delivers session events to subscribers
type Publisher interface {
	Publish(id model.SessionID, event model.Event)
	Open(id model.SessionID)
	Close(id model.SessionID)
}

// Config holds controller settings
type Config struct {
	Engine      EngineConfig
	Runner      RunnerConfig
	MaxSessions int // Zero means unlimited
}

// DefaultConfig returns the standard controller settings
func DefaultConfig() Config {
	return Config{
		Engine:      DefaultEngineConfig(),
		MaxSessions: 100,
	}
}

// ChallengeSummary describes a challenge level and whether it may be played
type ChallengeSummary struct {
	Level       int              `json:"level"`
	TargetType  model.TargetType `json:"target_type"`
	TargetValue int              `json:"target_value"`
	PiecesLimit int              `json:"pieces_limit"`
	Unlocked    bool             `json:"unlocked"`
}

// Controller owns the live sessions and connects them to persistence,
// leaderboards, and subscribers
type Controller struct {
	storage    storage.Storage
	highScores *highscore.Service
	progress   *progress.Service
	publisher  Publisher
	clock      clock.Clock
	random     random.Random
	logger     *slog.Logger
	cfg        Config

	mu       sync.RWMutex
	sessions map[model.SessionID]*Runner
}

// NewController creates a new session Controller
func NewController(
	storage storage.Storage,
	highScores *highscore.Service,
	progress *progress.Service,
	publisher Publisher,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
	cfg Config,
) *Controller {
	return &Controller{
		storage:    storage,
		highScores: highScores,
		progress:   progress,
		publisher:  publisher,
		clock:      clock,
		random:     random,
		logger:     logger,
		cfg:        cfg,
		sessions:   make(map[model.SessionID]*Runner),
	}
}

// StartSession begins a new game. challengeLevel is required for challenge
// mode and ignored otherwise.
func (c *Controller) StartSession(ctx context.Context, m model.GameMode, challengeLevel int) (model.SessionID, model.Status, error) {
	if !m.IsValid() {
		return "", model.Status{}, fmt.Errorf("%w: %q", model.ErrUnknownMode, m)
	}

	level, err := c.playableLevel(ctx, m, challengeLevel)
	if err != nil {
		return "", model.Status{}, err
	}

	id := model.SessionID(c.random.String(12, sessionIDAlphabet))
	engine, err := NewEngine(c.cfg.Engine, m, level, c.clock, c.random, c.logger.With(slog.String("session_id", string(id))))
	if err != nil {
		return "", model.Status{}, err
	}

	runner, err := c.register(id, engine)
	if err != nil {
		return "", model.Status{}, err
	}

	c.logger.Info("session started",
		slog.String("session_id", string(id)),
		slog.String("mode", string(m)),
		slog.Int("challenge_level", engine.ChallengeLevel()),
	)

	status, err := runner.Status(ctx)
	return id, status, err
}

// playableLevel resolves the challenge level for a new game, or nil outside
// challenge mode
func (c *Controller) playableLevel(ctx context.Context, m model.GameMode, level int) (*model.ChallengeLevelConfig, error) {
	if m != model.ModeChallenge {
		return nil, nil
	}
	cfg, err := mode.ChallengeLevel(level)
	if err != nil {
		return nil, err
	}
	unlocked, err := c.progress.IsUnlocked(ctx, level)
	if err != nil {
		return nil, err
	}
	if !unlocked {
		return nil, fmt.Errorf("%w: %d", model.ErrLevelLocked, level)
	}
	return &cfg, nil
}

// register starts a runner for engine under id, replacing any existing
// session with the same id
func (c *Controller) register(id model.SessionID, engine *Engine) (*Runner, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing, replacing := c.sessions[id]
	if !replacing && c.cfg.MaxSessions > 0 && len(c.sessions) >= c.cfg.MaxSessions {
		return nil, model.ErrSessionLimitReached
	}
	if replacing {
		existing.Stop()
	}

	runner := NewRunner(engine, c.cfg.Runner, c.publisherFor(id, engine), engine.logger)
	c.sessions[id] = runner
	runner.Start()
	return runner, nil
}

func (c *Controller) runner(id model.SessionID) (*Runner, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	runner, ok := c.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return runner, nil
}

// GetSession returns a session's observable state
func (c *Controller) GetSession(ctx context.Context, id model.SessionID) (model.Status, error) {
	runner, err := c.runner(id)
	if err != nil {
		return model.Status{}, err
	}
	return runner.Status(ctx)
}

// Subscribe opens a session's event stream and returns the session_state
// event its subscribers start from. The stream is opened under the session
// lock, so a concurrent EndSession always closes it.
func (c *Controller) Subscribe(ctx context.Context, id model.SessionID) (model.Event, error) {
	c.mu.RLock()
	runner, ok := c.sessions[id]
	if ok {
		c.publisher.Open(id)
	}
	c.mu.RUnlock()
	if !ok {
		return model.Event{}, model.ErrSessionNotFound
	}

	status, err := runner.Status(ctx)
	if err != nil {
		return model.Event{}, err
	}
	return model.Event{
		Type:      model.EventSessionState,
		Timestamp: c.clock.Now(),
		SessionID: id,
		Payload:   status,
	}, nil
}

// Command applies a player input and reports whether it changed the game
func (c *Controller) Command(ctx context.Context, id model.SessionID, cmd Command) (bool, model.Status, error) {
	runner, err := c.runner(id)
	if err != nil {
		return false, model.Status{}, err
	}

	var applied bool
	var status model.Status
	err = runner.Do(ctx, func(e *Engine) error {
		var err error
		applied, err = cmd.apply(e)
		status = e.Status()
		return err
	})
	return applied, status, err
}

// Reset restarts a session in the same mode and challenge level
func (c *Controller) Reset(ctx context.Context, id model.SessionID) (model.Status, error) {
	runner, err := c.runner(id)
	if err != nil {
		return model.Status{}, err
	}

	var status model.Status
	err = runner.Do(ctx, func(e *Engine) error {
		var level *model.ChallengeLevelConfig
		if e.Mode() == model.ModeChallenge {
			cfg, err := mode.ChallengeLevel(e.ChallengeLevel())
			if err != nil {
				return err
			}
			level = &cfg
		}
		if err := e.Reset(e.Mode(), level); err != nil {
			return err
		}
		status = e.Status()
		return nil
	})
	return status, err
}

// NextChallengeLevel moves a won challenge session on to the next level
func (c *Controller) NextChallengeLevel(ctx context.Context, id model.SessionID) (model.Status, error) {
	runner, err := c.runner(id)
	if err != nil {
		return model.Status{}, err
	}

	var status model.Status
	err = runner.Do(ctx, func(e *Engine) error {
		if e.Mode() != model.ModeChallenge {
			return model.ErrNotChallenge
		}
		if e.Phase() != model.PhaseWon {
			return model.ErrGameNotWon
		}
		next := e.ChallengeLevel() + 1
		if next > mode.LastChallengeLevel() {
			return model.ErrNoNextLevel
		}
		cfg, err := mode.ChallengeLevel(next)
		if err != nil {
			return err
		}
		if err := e.Reset(model.ModeChallenge, &cfg); err != nil {
			return err
		}
		status = e.Status()
		return nil
	})
	return status, err
}

// SaveSession pauses a session and persists it so it can be restored later.
// A game that has already ended cannot be saved.
func (c *Controller) SaveSession(ctx context.Context, id model.SessionID) (*model.Snapshot, error) {
	runner, err := c.runner(id)
	if err != nil {
		return nil, err
	}

	var snap *model.Snapshot
	if err := runner.Do(ctx, func(e *Engine) error {
		if e.Phase().IsTerminal() {
			return model.ErrGameEnded
		}
		e.Pause()
		snap = e.Snapshot()
		return nil
	}); err != nil {
		return nil, err
	}
	snap.SessionID = id

	if err := c.storage.SaveSnapshot(ctx, snap); err != nil {
		c.logger.Error("failed to save snapshot",
			slog.String("session_id", string(id)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.logger.Info("session saved",
		slog.String("session_id", string(id)),
		slog.Int("score", snap.Score),
	)
	return snap, nil
}

// RestoreSession rebuilds a session from its saved snapshot under the same
// id, replacing the live session if there is one
func (c *Controller) RestoreSession(ctx context.Context, id model.SessionID) (model.Status, error) {
	snap, err := c.storage.GetSnapshot(ctx, id)
	if err != nil {
		return model.Status{}, err
	}

	var level *model.ChallengeLevelConfig
	if snap.GameMode == model.ModeChallenge && !snap.IsInvisibleMode {
		cfg, err := mode.ChallengeLevel(snap.ChallengeLevel)
		if err != nil {
			return model.Status{}, fmt.Errorf("%w: %w", model.ErrInvalidSnapshot, err)
		}
		level = &cfg
	}

	logger := c.logger.With(slog.String("session_id", string(id)))
	engine, err := NewEngine(c.cfg.Engine, model.ModeClassic, nil, c.clock, c.random, logger)
	if err != nil {
		return model.Status{}, err
	}
	// Discard the placeholder game's events
	engine.DrainEvents()
	if err := engine.Restore(snap, level); err != nil {
		return model.Status{}, err
	}

	runner, err := c.register(id, engine)
	if err != nil {
		return model.Status{}, err
	}

	c.logger.Info("session restored",
		slog.String("session_id", string(id)),
		slog.String("mode", string(engine.Mode())),
	)
	return runner.Status(ctx)
}

// ListSnapshots returns the ids of every saved session
func (c *Controller) ListSnapshots(ctx context.Context) ([]model.SessionID, error) {
	return c.storage.ListSnapshots(ctx)
}

// DeleteSnapshot forgets a saved session
func (c *Controller) DeleteSnapshot(ctx context.Context, id model.SessionID) error {
	return c.storage.DeleteSnapshot(ctx, id)
}

// EndSession stops a session and disconnects its subscribers
func (c *Controller) EndSession(ctx context.Context, id model.SessionID) error {
	c.mu.Lock()
	runner, ok := c.sessions[id]
	delete(c.sessions, id)
	c.mu.Unlock()

	if !ok {
		return model.ErrSessionNotFound
	}

	runner.Stop()
	c.publisher.Close(id)

	c.logger.Info("session ended", slog.String("session_id", string(id)))
	return nil
}

// SessionCount returns the number of live sessions
func (c *Controller) SessionCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sessions)
}

// HighScores returns a mode's leaderboard, best first
func (c *Controller) HighScores(ctx context.Context, m model.GameMode) ([]model.HighScore, error) {
	return c.highScores.Top(ctx, m)
}

// ChallengeLevels lists every challenge level with its unlock state
func (c *Controller) ChallengeLevels(ctx context.Context) ([]ChallengeSummary, error) {
	unlocked, err := c.progress.Unlocked(ctx)
	if err != nil {
		return nil, err
	}
	open := make(map[int]bool, len(unlocked))
	for _, level := range unlocked {
		open[level] = true
	}

	levels := mode.ChallengeLevels()
	out := make([]ChallengeSummary, len(levels))
	for i, l := range levels {
		out[i] = ChallengeSummary{
			Level:       l.Level,
			TargetType:  l.TargetType,
			TargetValue: l.TargetValue,
			PiecesLimit: l.PiecesLimit,
			Unlocked:    open[l.Level],
		}
	}
	return out, nil
}

// Shutdown stops every session
func (c *Controller) Shutdown() {
	c.mu.Lock()
	sessions := c.sessions
	c.sessions = make(map[model.SessionID]*Runner)
	c.mu.Unlock()

	for id, runner := range sessions {
		runner.Stop()
		c.publisher.Close(id)
	}
	c.logger.Info("sessions shut down", slog.Int("count", len(sessions)))
}

// publisherFor returns the runner callback for one session. It stamps
// events with the session id, forwards them, and records results when the
// game ends. It runs on the runner goroutine.
func (c *Controller) publisherFor(id model.SessionID, engine *Engine) PublishFunc {
	return func(events []model.Event) {
		for _, ev := range events {
			ev.SessionID = id
			c.publisher.Publish(id, ev)

			switch ev.Type {
			case model.EventGameOver, model.EventGameWon:
				c.recordResult(id, engine, ev)
			}
		}
	}
}

func (c *Controller) recordResult(id model.SessionID, engine *Engine, ev model.Event) {
	// The runner outlives any request context
	ctx := context.Background()

	payload, _ := ev.Payload.(model.GameEndedPayload)
	m := engine.Mode()

	rank, err := c.highScores.Submit(ctx, m, model.HighScore{
		Score:      payload.Score,
		Lines:      payload.Lines,
		Level:      payload.Level,
		AchievedAt: ev.Timestamp,
	})
	if err != nil {
		c.logger.Error("failed to record high score",
			slog.String("session_id", string(id)),
			slog.String("error", err.Error()),
		)
	} else if rank > 0 {
		c.logger.Info("new high score",
			slog.String("session_id", string(id)),
			slog.String("mode", string(m)),
			slog.Int("rank", rank),
			slog.Int("score", payload.Score),
		)
	}

	if ev.Type != model.EventGameWon || m != model.ModeChallenge {
		return
	}
	next := engine.ChallengeLevel() + 1
	if next > mode.LastChallengeLevel() {
		return
	}
	newly, err := c.progress.Unlock(ctx, next)
	if err != nil {
		c.logger.Error("failed to unlock level",
			slog.String("session_id", string(id)),
			slog.Int("level", next),
			slog.String("error", err.Error()),
		)
		return
	}
	if newly {
		c.logger.Info("challenge level unlocked", slog.Int("level", next))
		c.publisher.Publish(id, model.Event{
			Type:      model.EventLevelUnlocked,
			Timestamp: c.clock.Now(),
			SessionID: id,
			Payload:   model.LevelUnlockedPayload{Level: next},
		})
	}
}

// Interface for dependency injection
type ControllerInterface interface {
	StartSession(ctx context.Context, m model.GameMode, challengeLevel int) (model.SessionID, model.Status, error)
	GetSession(ctx context.Context, id model.SessionID) (model.Status, error)
	Subscribe(ctx context.Context, id model.SessionID) (model.Event, error)
	Command(ctx context.Context, id model.SessionID, cmd Command) (bool, model.Status, error)
	Reset(ctx context.Context, id model.SessionID) (model.Status, error)
	NextChallengeLevel(ctx context.Context, id model.SessionID) (model.Status, error)
	SaveSession(ctx context.Context, id model.SessionID) (*model.Snapshot, error)
	RestoreSession(ctx context.Context, id model.SessionID) (model.Status, error)
	ListSnapshots(ctx context.Context) ([]model.SessionID, error)
	DeleteSnapshot(ctx context.Context, id model.SessionID) error
	EndSession(ctx context.Context, id model.SessionID) error
	HighScores(ctx context.Context, m model.GameMode) ([]model.HighScore, error)
	ChallengeLevels(ctx context.Context) ([]ChallengeSummary, error)
}

var _ ControllerInterface = (*Controller)(nil)
