package adapter

import "time"

// Clock defines an interface for time operations to enable mocking.
// Window computations and cache freshness checks read the time through it
// so tests can pin "now" to either side of a reset boundary.
//
//go:generate mockgen -source=clock.go -destination=../mocks/clock.go -package=mocks -mock_names=Clock=MockClock
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
}

// RealClock implements Clock using the standard time package
type RealClock struct{}

// NewClock creates a new real clock implementation
func NewClock() Clock {
	return &RealClock{}
}

func (c *RealClock) Now() time.Time {
	return time.Now().UTC()
}

func (c *RealClock) Since(t time.Time) time.Duration {
	return time.Since(t)
}

// FixedClock is a Clock pinned to a single instant. It is used by the report
// CLI to evaluate a window "as of" a given time.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time {
	return c.At.UTC()
}

func (c FixedClock) Since(t time.Time) time.Duration {
	return c.At.Sub(t)
}
