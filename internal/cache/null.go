package cache

import (
	"context"
	"time"

	"github.com/ds8/tip-allowance/internal/domain"
	"github.com/ds8/tip-allowance/internal/metrics"
)

// NullStore is the Store used when no backend is configured: every lookup
// misses and every write is discarded.
type NullStore struct{}

// NewNullStore creates a store that never holds anything
func NewNullStore() Store {
	return NullStore{}
}

func (NullStore) Get(_ context.Context, _ string) (*domain.TipCacheEntry, bool) {
	metrics.RecordCacheLookup(BackendNone, "miss")
	return nil, false
}

func (NullStore) Set(_ context.Context, _ string, _ domain.TipCacheEntry, _ time.Duration) {}
