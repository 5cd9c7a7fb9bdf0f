package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/neontetris/internal/dependencies/clock"
	"github.com/mcoot/neontetris/internal/dependencies/random"
	"github.com/mcoot/neontetris/internal/services/game"
	"github.com/mcoot/neontetris/internal/services/highscore"
	"github.com/mcoot/neontetris/internal/services/mode"
	"github.com/mcoot/neontetris/internal/services/progress"
	"github.com/mcoot/neontetris/internal/storage"
	"github.com/mcoot/neontetris/internal/storage/memory"
	pgstorage "github.com/mcoot/neontetris/internal/storage/postgres"
	redisstorage "github.com/mcoot/neontetris/internal/storage/redis"
	"github.com/mcoot/neontetris/internal/stream"
)

// DefaultHubSweepInterval is how often idle event streams are looked for
const DefaultHubSweepInterval = time.Minute

// Storage type constants
const (
	StorageTypeMemory   = "memory"
	StorageTypeRedis    = "redis"
	StorageTypePostgres = "postgres"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	HighScoreService *highscore.Service
	ProgressService  *progress.Service
	GameController   *game.Controller
	HubManager       *stream.HubManager

	stopSweep context.CancelFunc
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "postgres")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// PostgresConfig holds database settings (required if StorageType is "postgres")
	PostgresConfig *pgstorage.Config
	// HighScoreLimit is the leaderboard length per mode
	// If zero, defaults to highscore.DefaultLimit
	HighScoreLimit int
	// Seed makes piece order reproducible when non-zero
	Seed uint64
	// Game holds engine, runner and session limits
	// If zero value, defaults to game.DefaultConfig()
	Game game.Config
	// HubSweepInterval is how often hubs without subscribers are removed
	// If zero, defaults to DefaultHubSweepInterval
	HubSweepInterval time.Duration
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	case StorageTypePostgres:
		if cfg.PostgresConfig == nil {
			return nil, errors.New("PostgresConfig required when StorageType is postgres")
		}
		pgStore, err := pgstorage.New(*cfg.PostgresConfig)
		if err != nil {
			return nil, err
		}
		store = pgStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'postgres'")
	}

	gameCfg := cfg.Game
	if gameCfg.Engine.Width == 0 {
		gameCfg = game.DefaultConfig()
	}
	limit := cfg.HighScoreLimit
	if limit == 0 {
		limit = highscore.DefaultLimit
	}

	var rnd random.Random = random.New()
	if cfg.Seed != 0 {
		rnd = random.NewSeeded(cfg.Seed)
	}

	sweep := cfg.HubSweepInterval
	if sweep == 0 {
		sweep = DefaultHubSweepInterval
	}

	app := newWithDependencies(store, clock.New(), rnd, gameCfg, limit, logger)
	ctx, cancel := context.WithCancel(context.Background())
	app.stopSweep = cancel
	go app.HubManager.SweepEmptyHubs(ctx, sweep)
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	gameCfg game.Config,
	highScoreLimit int,
	logger *slog.Logger,
) *App {
	highScoreService := highscore.New(store, highScoreLimit)
	progressService := progress.New(store, mode.LastChallengeLevel())
	hubManager := stream.NewHubManager(logger)
	gameController := game.NewController(store, highScoreService, progressService, hubManager, clk, rnd, logger, gameCfg)

	return &App{
		Storage:          store,
		Clock:            clk,
		Random:           rnd,
		HighScoreService: highScoreService,
		ProgressService:  progressService,
		GameController:   gameController,
		HubManager:       hubManager,
	}
}

// Close stops every session and releases the storage connection
func (a *App) Close() error {
	if a.stopSweep != nil {
		a.stopSweep()
	}
	a.GameController.Shutdown()
	a.HubManager.CloseAll()
	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
