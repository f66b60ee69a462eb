package store

import (
	"context"
	"time"

	"github.com/ds8/tip-allowance/internal/store/schema"
)

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// GetKeyValue returns the value stored under key, or nil when the key is absent or expired at now
	GetKeyValue(ctx context.Context, key string, now time.Time) ([]byte, error)
	// SetKeyValue upserts the value under key with an absolute expiry
	SetKeyValue(ctx context.Context, key string, value []byte, expiresAt time.Time) error
	// DeleteExpiredKeyValues removes entries that expired before now and returns how many were removed
	DeleteExpiredKeyValues(ctx context.Context, now time.Time) (int64, error)
	// ListTipsSince returns indexed tip casts authored by fid at or after since, oldest first
	ListTipsSince(ctx context.Context, fid string, since time.Time) ([]schema.DegenTip, error)
	// SumRaindropsUsed returns the raindrop value spent by fid, counting each cast once at its highest value
	SumRaindropsUsed(ctx context.Context, fid string) (float64, error)
}
