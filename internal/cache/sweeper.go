package cache

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ds8/tip-allowance/internal/adapter"
	"github.com/ds8/tip-allowance/internal/logger"
	"github.com/ds8/tip-allowance/internal/store"
)

// Sweeper removes expired rows of the Postgres backend. Redis expires keys
// itself, so only the Postgres backend needs it.
type Sweeper struct {
	store    store.Store
	clock    adapter.Clock
	interval time.Duration
}

// NewSweeper creates a sweeper that runs every interval
func NewSweeper(s store.Store, clock adapter.Clock, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Sweeper{
		store:    s,
		clock:    clock,
		interval: interval,
	}
}

// SweepOnce deletes expired rows and returns how many were removed
func (s *Sweeper) SweepOnce(ctx context.Context) (int64, error) {
	removed, err := s.store.DeleteExpiredKeyValues(ctx, s.clock.Now())
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		logger.InfoCtx(ctx, "Swept expired tip cache rows", zap.Int64("removed", removed))
	}
	return removed, nil
}

// Run sweeps until ctx is cancelled
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.SweepOnce(ctx); err != nil {
				logger.WarnCtx(ctx, "Tip cache sweep failed", zap.Error(err))
			}
		}
	}
}
