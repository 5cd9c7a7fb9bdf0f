package mocks

import (
	"sync"
	"time"

	"github.com/mcoot/neontetris/internal/dependencies/clock"
)

// MockClock is a mock implementation of Clock for testing. It is safe to
// read from session goroutines while a test advances it.
type MockClock struct {
	mu      sync.RWMutex
	current time.Time
}

// Ensure MockClock implements Clock
var _ clock.Clock = (*MockClock)(nil)

// NewMockClock creates a MockClock set to the given time
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{current: t}
}

// Now returns the mocked current time
func (c *MockClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Until returns the duration from the mocked now to t, never less than zero
func (c *MockClock) Until(t time.Time) time.Duration {
	return max(t.Sub(c.Now()), 0)
}

// Advance moves the clock forward by the given duration
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}

// Set sets the clock to the given time
func (c *MockClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = t
}
