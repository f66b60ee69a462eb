package cache

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ds8/tip-allowance/internal/adapter"
	"github.com/ds8/tip-allowance/internal/domain"
	"github.com/ds8/tip-allowance/internal/logger"
	"github.com/ds8/tip-allowance/internal/metrics"
	"github.com/ds8/tip-allowance/internal/store"
)

// PostgresStore keeps entries as JSONB rows in the key-value table, with the
// TTL turned into an absolute expiry.
type PostgresStore struct {
	store store.Store
	json  adapter.JSON
	clock adapter.Clock
}

// NewPostgresStore creates a Postgres backed store
func NewPostgresStore(s store.Store, json adapter.JSON, clock adapter.Clock) Store {
	return &PostgresStore{
		store: s,
		json:  json,
		clock: clock,
	}
}

// Get reads the unexpired entry under key
func (s *PostgresStore) Get(ctx context.Context, key string) (*domain.TipCacheEntry, bool) {
	raw, err := s.store.GetKeyValue(ctx, key, s.clock.Now())
	if err != nil {
		logger.WarnCtx(ctx, "Tip cache read failed, treating as miss", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheLookup(BackendPostgres, "error")
		return nil, false
	}
	if raw == nil {
		metrics.RecordCacheLookup(BackendPostgres, "miss")
		return nil, false
	}

	var entry domain.TipCacheEntry
	if err := s.json.Unmarshal(raw, &entry); err != nil {
		logger.WarnCtx(ctx, "Failed to decode tip cache entry, treating as miss", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheLookup(BackendPostgres, "error")
		return nil, false
	}

	metrics.RecordCacheLookup(BackendPostgres, "hit")
	return &entry, true
}

// Set upserts the entry with an expiry of now+ttl
func (s *PostgresStore) Set(ctx context.Context, key string, entry domain.TipCacheEntry, ttl time.Duration) {
	raw, err := s.json.Marshal(entry)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to encode tip cache entry", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheWrite(BackendPostgres, "error")
		return
	}

	if err := s.store.SetKeyValue(ctx, key, raw, s.clock.Now().Add(ttl)); err != nil {
		logger.WarnCtx(ctx, "Tip cache write failed", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheWrite(BackendPostgres, "error")
		return
	}

	metrics.RecordCacheWrite(BackendPostgres, "ok")
}
