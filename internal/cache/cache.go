package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/ds8/tip-allowance/internal/domain"
)

// Backend names accepted in configuration
const (
	BackendNone     = "none"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// DefaultTTL bounds how long a backend keeps an entry
const DefaultTTL = 24 * time.Hour

// Store holds per-identity tip cache entries.
//
// Implementations never report errors: an unreachable backend, a missing key,
// an expired key and an undecodable value are all a miss, and a failed write
// is logged and dropped. Callers therefore treat every miss as "no cache".
//
//go:generate mockgen -source=cache.go -destination=../mocks/cache_store.go -package=mocks -mock_names=Store=MockCacheStore
type Store interface {
	// Get returns the entry stored under key
	Get(ctx context.Context, key string) (*domain.TipCacheEntry, bool)

	// Set stores entry under key; the backend drops it after ttl
	Set(ctx context.Context, key string, entry domain.TipCacheEntry, ttl time.Duration)
}

// TipsKey returns the cache key of an identity's daily tips
func TipsKey(fid domain.FID) string {
	return fmt.Sprintf("daily-tips-%d", fid)
}
