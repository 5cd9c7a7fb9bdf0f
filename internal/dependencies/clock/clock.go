package clock

import "time"

// Clock provides the current time to engines and services. Timers still use
// the runtime clock; only timestamps and deadlines go through here.
type Clock interface {
	Now() time.Time
	// Until returns the duration from now to t, never less than zero
	Until(t time.Time) time.Duration
}

// SystemClock implements Clock using the system clock
type SystemClock struct{}

// New creates a new SystemClock
func New() *SystemClock {
	return &SystemClock{}
}

func (c *SystemClock) Now() time.Time {
	return time.Now()
}

func (c *SystemClock) Until(t time.Time) time.Duration {
	return max(time.Until(t), 0)
}
