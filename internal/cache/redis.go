package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ds8/tip-allowance/internal/adapter"
	"github.com/ds8/tip-allowance/internal/domain"
	"github.com/ds8/tip-allowance/internal/logger"
	"github.com/ds8/tip-allowance/internal/metrics"
)

// RedisStore keeps entries as JSON strings with a Redis expiry
type RedisStore struct {
	client adapter.RedisClient
	json   adapter.JSON
}

// NewRedisStore creates a Redis backed store
func NewRedisStore(client adapter.RedisClient, json adapter.JSON) Store {
	return &RedisStore{
		client: client,
		json:   json,
	}
}

// Get reads and decodes the entry under key
func (s *RedisStore) Get(ctx context.Context, key string) (*domain.TipCacheEntry, bool) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.RecordCacheLookup(BackendRedis, "miss")
			return nil, false
		}
		logger.WarnCtx(ctx, "Tip cache read failed, treating as miss", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheLookup(BackendRedis, "error")
		return nil, false
	}

	var entry domain.TipCacheEntry
	if !s.json.Valid(raw) {
		logger.WarnCtx(ctx, "Tip cache entry is not valid JSON, treating as miss", zap.String("key", key))
		metrics.RecordCacheLookup(BackendRedis, "error")
		return nil, false
	}
	if err := s.json.Unmarshal(raw, &entry); err != nil {
		logger.WarnCtx(ctx, "Failed to decode tip cache entry, treating as miss", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheLookup(BackendRedis, "error")
		return nil, false
	}

	metrics.RecordCacheLookup(BackendRedis, "hit")
	return &entry, true
}

// Set encodes and writes the entry with the given expiry
func (s *RedisStore) Set(ctx context.Context, key string, entry domain.TipCacheEntry, ttl time.Duration) {
	raw, err := s.json.Marshal(entry)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to encode tip cache entry", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheWrite(BackendRedis, "error")
		return
	}

	if err := s.client.SetEx(ctx, key, raw, ttl).Err(); err != nil {
		logger.WarnCtx(ctx, "Tip cache write failed", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheWrite(BackendRedis, "error")
		return
	}

	logger.DebugCtx(ctx, "Saved tip cache entry",
		zap.String("key", key),
		zap.Time("window_start", entry.WindowStart),
		zap.Int("count", len(entry.Tips)),
	)
	metrics.RecordCacheWrite(BackendRedis, "ok")
}
