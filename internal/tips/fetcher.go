package tips

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ds8/tip-allowance/internal/adapter"
	"github.com/ds8/tip-allowance/internal/allowance"
	"github.com/ds8/tip-allowance/internal/cache"
	"github.com/ds8/tip-allowance/internal/domain"
	"github.com/ds8/tip-allowance/internal/logger"
	"github.com/ds8/tip-allowance/internal/metrics"
)

// PostSource returns casts authored by an identity
//
//go:generate mockgen -source=fetcher.go -destination=../mocks/tips.go -package=mocks -mock_names=PostSource=MockPostSource,Fetcher=MockTipFetcher
type PostSource interface {
	// FetchPosts returns casts authored by fid at or after since
	FetchPosts(ctx context.Context, fid domain.FID, since time.Time) ([]domain.Post, error)
}

// Fetcher produces the tip list of an identity for the current allowance window
type Fetcher interface {
	// FetchTips never fails; upstream and cache failures degrade to fewer (or no) tips
	FetchTips(ctx context.Context, fid domain.FID) []domain.TipRecord
}

// Config holds the cache refresh settings of the fetcher
type Config struct {
	// Freshness is how long a cached entry is served without contacting the post source
	Freshness time.Duration
	// Lookback is how far before the last save an incremental refresh starts, to catch late casts
	Lookback time.Duration
	// TTL is the backend expiry of written entries
	TTL time.Duration
}

// DefaultConfig is a 5 minute freshness, 60 minute lookback and a one day TTL
var DefaultConfig = Config{
	Freshness: 5 * time.Minute,
	Lookback:  60 * time.Minute,
	TTL:       cache.DefaultTTL,
}

type fetcher struct {
	source    PostSource
	cache     cache.Store
	extractor *Extractor
	window    allowance.Window
	clock     adapter.Clock
	config    Config
}

// NewFetcher creates an incremental tip fetcher
func NewFetcher(source PostSource, store cache.Store, extractor *Extractor, window allowance.Window, clock adapter.Clock, config Config) Fetcher {
	if config.Freshness <= 0 {
		config.Freshness = DefaultConfig.Freshness
	}
	if config.Lookback <= 0 {
		config.Lookback = DefaultConfig.Lookback
	}
	if config.TTL <= 0 {
		config.TTL = DefaultConfig.TTL
	}
	if store == nil {
		store = cache.NewNullStore()
	}

	return &fetcher{
		source:    source,
		cache:     store,
		extractor: extractor,
		window:    window,
		clock:     clock,
		config:    config,
	}
}

// FetchTips returns the authoritative tip list for the identity's current window
func (f *fetcher) FetchTips(ctx context.Context, fid domain.FID) []domain.TipRecord {
	now := f.clock.Now()
	windowStart := f.window.Start(now)
	key := cache.TipsKey(fid)

	since := windowStart
	var base []domain.TipRecord
	path := "rebuild"

	if entry, ok := f.cache.Get(ctx, key); ok {
		logger.DebugCtx(ctx, "Fetched tip cache entry",
			zap.String("key", key),
			zap.Time("saved_at", entry.SavedAt),
			zap.Time("window_start", entry.WindowStart),
			zap.Int("count", len(entry.Tips)),
		)

		if !entry.WindowStart.Before(windowStart) && now.Sub(entry.SavedAt) < f.config.Freshness {
			metrics.RecordTipFetch("fresh")
			return entry.Tips
		}

		// Only an entry collected from this exact boundary can be extended;
		// anything else is rebuilt from the window start
		if entry.WindowStart.Equal(windowStart) {
			since = entry.SavedAt.Add(-f.config.Lookback)
			if since.Before(windowStart) {
				since = windowStart
			}
			base = entry.Tips
			path = "incremental"
		}
	} else {
		logger.DebugCtx(ctx, "No cached tips", zap.String("key", key))
	}

	posts, err := f.source.FetchPosts(ctx, fid, since)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to fetch casts, using cached tips only",
			zap.Uint64("fid", uint64(fid)),
			zap.Time("since", since),
			zap.Int("cached", len(base)),
			zap.Error(err),
		)
		metrics.RecordTipFetch("degraded")
		if base == nil {
			return []domain.TipRecord{}
		}
		return base
	}

	merged := Merge(base, f.extractor.Extract(posts))

	f.cache.Set(ctx, key, domain.TipCacheEntry{
		WindowStart: windowStart,
		Tips:        merged,
		SavedAt:     now,
	}, f.config.TTL)

	logger.DebugCtx(ctx, "Refreshed tips",
		zap.String("key", key),
		zap.String("path", path),
		zap.Time("since", since),
		zap.Int("posts", len(posts)),
		zap.Int("count", len(merged)),
	)
	metrics.RecordTipFetch(path)

	return merged
}
