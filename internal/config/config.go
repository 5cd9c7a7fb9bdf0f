package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/mcoot/neontetris/internal/services/game"
	"github.com/mcoot/neontetris/internal/services/highscore"
	"github.com/mcoot/neontetris/internal/services/piece"
)

// Storage backends
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

// Config is the server's process configuration
type Config struct {
	Port           int
	StorageType    string
	RedisURL       string
	DatabaseURL    string
	LogLevel       slog.Level
	HighScoreLimit int
	AutoClear      time.Duration // Zero waits for clients to signal clear-done
	MaxSessions    int
	WallKicks      bool
	PiecePolicy    piece.Policy
	Seed           uint64 // Non-zero makes piece order reproducible
}

// Default returns the configuration used when nothing is set
func Default() Config {
	return Config{
		Port:           8080,
		StorageType:    StorageMemory,
		LogLevel:       slog.LevelInfo,
		HighScoreLimit: highscore.DefaultLimit,
		MaxSessions:    game.DefaultConfig().MaxSessions,
		PiecePolicy:    piece.PolicyBag,
	}
}

// Load reads configuration from the environment. Values in the given env
// files (".env" when none are named) fill in variables the environment does
// not set; missing files are ignored.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}

	fileValues := map[string]string{}
	for _, file := range files {
		values, err := godotenv.Read(file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Config{}, fmt.Errorf("failed to read %s: %w", file, err)
		}
		for k, v := range values {
			if _, ok := fileValues[k]; !ok {
				fileValues[k] = v
			}
		}
	}

	return parse(func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileValues[key]
		return v, ok
	})
}

type lookupFunc func(key string) (string, bool)

func parse(lookup lookupFunc) (Config, error) {
	cfg := Default()
	var errs []error

	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}
	getInt := func(key string, dst *int) {
		if v := get(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				errs = append(errs, fmt.Errorf("%s must be a non-negative integer, got %q", key, v))
				return
			}
			*dst = n
		}
	}

	getInt("PORT", &cfg.Port)
	getInt("HIGHSCORE_LIMIT", &cfg.HighScoreLimit)
	getInt("MAX_SESSIONS", &cfg.MaxSessions)

	var autoClearMs int
	getInt("AUTO_CLEAR_MS", &autoClearMs)
	cfg.AutoClear = time.Duration(autoClearMs) * time.Millisecond

	if v := get("WALL_KICKS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("WALL_KICKS must be a boolean, got %q", v))
		}
		cfg.WallKicks = b
	}

	if v := get("LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
		}
	}

	if v := get("PIECE_POLICY"); v != "" {
		switch p := piece.Policy(strings.ToLower(v)); p {
		case piece.PolicyBag, piece.PolicyUniform:
			cfg.PiecePolicy = p
		default:
			errs = append(errs, fmt.Errorf("PIECE_POLICY must be 'bag' or 'uniform', got %q", v))
		}
	}

	if v := get("RANDOM_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("RANDOM_SEED must be an unsigned integer, got %q", v))
		}
		cfg.Seed = seed
	}

	if v := get("STORAGE_TYPE"); v != "" {
		cfg.StorageType = strings.ToLower(v)
	}
	cfg.RedisURL = get("REDIS_URL")
	cfg.DatabaseURL = get("DATABASE_URL")

	switch cfg.StorageType {
	case StorageMemory:
	case StorageRedis:
		if cfg.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL required when STORAGE_TYPE=redis"))
		}
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL required when STORAGE_TYPE=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORAGE_TYPE must be 'memory', 'redis' or 'postgres', got %q", cfg.StorageType))
	}

	if cfg.HighScoreLimit == 0 {
		errs = append(errs, errors.New("HIGHSCORE_LIMIT must be positive"))
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// GameConfig returns the session controller settings
func (c Config) GameConfig() game.Config {
	cfg := game.DefaultConfig()
	cfg.Engine.WallKicks = c.WallKicks
	cfg.Engine.Pieces.Policy = c.PiecePolicy
	cfg.Runner.AutoClearDelay = c.AutoClear
	cfg.MaxSessions = c.MaxSessions
	return cfg
}
