package factory

import (
	"time"

	"github.com/mcoot/neontetris/internal/dependencies/mocks"
	"github.com/mcoot/neontetris/internal/services/game"
	"github.com/mcoot/neontetris/internal/services/highscore"
	"github.com/mcoot/neontetris/internal/storage/memory"
	"github.com/mcoot/neontetris/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// Gravity is slowed to an hour so only explicit commands move pieces.
func NewTestApp() *TestApp {
	cfg := game.DefaultConfig()
	cfg.Engine.Rules.BaseInterval = time.Hour
	cfg.Engine.Rules.MinInterval = time.Hour
	return NewTestAppWithConfig(cfg)
}

// NewTestAppWithConfig creates a test App with the given game settings
func NewTestAppWithConfig(cfg game.Config) *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, mockClock, mockRandom, cfg, highscore.DefaultLimit, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
