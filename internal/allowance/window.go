package allowance

import (
	"fmt"
	"time"

	"github.com/ds8/tip-allowance/internal/domain"
)

// Window describes a recurring allowance period that resets at a fixed
// time of day (UTC).
type Window struct {
	ResetHour   int
	ResetMinute int
	Period      time.Duration
}

// DefaultWindow resets every day at 07:35 UTC
var DefaultWindow = Window{
	ResetHour:   domain.DEFAULT_RESET_HOUR,
	ResetMinute: domain.DEFAULT_RESET_MINUTE,
	Period:      24 * time.Hour,
}

// Validate checks the window settings
func (w Window) Validate() error {
	if w.ResetHour < 0 || w.ResetHour > 23 {
		return fmt.Errorf("reset hour %d out of range", w.ResetHour)
	}
	if w.ResetMinute < 0 || w.ResetMinute > 59 {
		return fmt.Errorf("reset minute %d out of range", w.ResetMinute)
	}
	if w.Period <= 0 {
		return fmt.Errorf("period must be positive, got %s", w.Period)
	}
	// Boundaries are anchored on the daily reset time, so a period must tile a day
	if w.Period > 24*time.Hour || (24*time.Hour)%w.Period != 0 {
		return fmt.Errorf("period %s must evenly divide 24h", w.Period)
	}
	return nil
}

// Start returns the most recent reset boundary at or before now.
func (w Window) Start(now time.Time) time.Time {
	now = now.UTC()
	anchor := time.Date(now.Year(), now.Month(), now.Day(), w.ResetHour, w.ResetMinute, 0, 0, time.UTC)

	if !anchor.After(now) {
		// Periods shorter than a day repeat after the daily anchor
		elapsed := now.Sub(anchor)
		return anchor.Add(elapsed - elapsed%w.Period)
	}

	// Walk back from today's anchor until the boundary is not in the future
	steps := (anchor.Sub(now) + w.Period - 1) / w.Period
	return anchor.Add(-time.Duration(steps) * w.Period)
}

// Current returns the window containing now
func (w Window) Current(now time.Time) domain.AllowanceWindow {
	start := w.Start(now)
	return domain.AllowanceWindow{Start: start, End: start.Add(w.Period)}
}
