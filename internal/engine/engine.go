package engine

import (
	"context"
	"fmt"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ds8/tip-allowance/internal/adapter"
	"github.com/ds8/tip-allowance/internal/allowance"
	"github.com/ds8/tip-allowance/internal/cache"
	"github.com/ds8/tip-allowance/internal/config"
	"github.com/ds8/tip-allowance/internal/logger"
	"github.com/ds8/tip-allowance/internal/providers/airstack"
	"github.com/ds8/tip-allowance/internal/providers/degentips"
	"github.com/ds8/tip-allowance/internal/providers/edit"
	"github.com/ds8/tip-allowance/internal/providers/hub"
	"github.com/ds8/tip-allowance/internal/raindrop"
	"github.com/ds8/tip-allowance/internal/ratelimit"
	"github.com/ds8/tip-allowance/internal/stats"
	"github.com/ds8/tip-allowance/internal/store"
	"github.com/ds8/tip-allowance/internal/tips"
	"github.com/ds8/tip-allowance/internal/upstream"
)

// Engine is the wired report computation shared by the API server and the report command
type Engine struct {
	Window     allowance.Window
	Resolver   stats.IdentityResolver
	Aggregator stats.Aggregator
	Stats      stats.Service
	// Raindrop is nil when the feature is disabled
	Raindrop raindrop.Service
	// Sweeper is nil unless the postgres cache backend is selected
	Sweeper *cache.Sweeper

	pool    pond.Pool
	closers []func() error
}

// New validates cfg and wires every component. Connections are closed by Close.
func New(ctx context.Context, cfg *config.EngineConfig, clock adapter.Clock) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	window := allowance.Window{
		ResetHour:   cfg.Allowance.ResetHour,
		ResetMinute: cfg.Allowance.ResetMinute,
		Period:      cfg.Allowance.Period,
	}
	if err := window.Validate(); err != nil {
		return nil, fmt.Errorf("invalid allowance window: %w", err)
	}

	policy, err := allowance.ParseRemainingPolicy(cfg.Allowance.RemainingPolicy)
	if err != nil {
		return nil, err
	}
	mode, err := upstream.ParseMode(cfg.Allowance.ProviderMode)
	if err != nil {
		return nil, err
	}
	extractor, err := tips.NewExtractor(cfg.Allowance.Token)
	if err != nil {
		return nil, err
	}

	e := &Engine{Window: window}

	// Outbound plumbing
	httpClient := adapter.NewHTTPClient(cfg.Stats.HTTPTimeout, adapter.DefaultRetryConfig)
	jsonAdapter := adapter.NewJSON()
	var proxyOpts []ratelimit.Option

	// Database, when any component needs it
	var dataStore store.Store
	if cfg.UsesDatabase() {
		db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
			return nil, fmt.Errorf("failed to configure connection pool: %w", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			e.closers = append(e.closers, sqlDB.Close)
		}
		dataStore = store.NewPGStore(db)
		logger.InfoCtx(ctx, "Connected to database", zap.String("host", cfg.Database.Host))
	}

	// Tip cache
	var tipCache cache.Store
	switch cfg.Cache.Backend {
	case config.CacheBackendRedis:
		redisClient, err := adapter.NewRedisClient(adapter.RedisOptions{
			URL:      cfg.Redis.URL,
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		e.closers = append(e.closers, redisClient.Close)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			// The cache degrades to misses, so an unreachable Redis is not fatal
			logger.WarnCtx(ctx, "Redis is not reachable, cache lookups will miss", zap.Error(err))
		}
		tipCache = cache.NewRedisStore(redisClient, jsonAdapter)
		// Replicas sharing the cache also share the vendor quotas
		proxyOpts = append(proxyOpts, ratelimit.WithDistributedLimiter(redisClient.NewRateLimiter(), ratelimit.DEFAULT_KEY_PREFIX))
	case config.CacheBackendPostgres:
		tipCache = cache.NewPostgresStore(dataStore, jsonAdapter, clock)
		e.Sweeper = cache.NewSweeper(dataStore, clock, cfg.Cache.SweepInterval)
	default:
		tipCache = cache.NewNullStore()
	}
	logger.InfoCtx(ctx, "Tip cache configured", zap.String("backend", cfg.Cache.Backend))

	proxy, err := ratelimit.NewProxy(rateLimits(cfg.RateLimit), proxyOpts...)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limits: %w", err)
	}

	// Post source
	airstackClient := airstack.NewClient(httpClient, proxy, cfg.Airstack.APIURL, cfg.Airstack.APIKey, jsonAdapter)
	var source tips.PostSource
	if cfg.Posts.Source == config.PostSourceDatabase {
		source = tips.NewStoreSource(dataStore)
	} else {
		source = airstackClient
	}

	fetcher := tips.NewFetcher(source, tipCache, extractor, window, clock, tips.Config{
		Freshness: cfg.Cache.Freshness,
		Lookback:  cfg.Cache.Lookback,
		TTL:       cfg.Cache.TTL,
	})

	// Upstream providers
	degenClient := degentips.NewClient(httpClient, proxy, cfg.Vendors.DegenTipsURL)
	editClient := edit.NewClient(httpClient, proxy, cfg.Vendors.EditURL)
	providers, err := upstream.NewSet(cfg.Allowance.Providers, mode, degenClient, editClient)
	if err != nil {
		return nil, err
	}
	points, err := upstream.NewPointsProviders(cfg.Allowance.Points, degenClient)
	if err != nil {
		return nil, err
	}

	e.pool = pond.NewPool(max(cfg.Stats.WorkerPoolSize, 1))
	e.Resolver = hub.NewClient(httpClient, proxy, cfg.Hub.URL, cfg.Hub.APIKey)
	e.Aggregator = stats.NewAggregator(e.pool, providers, points, fetcher, window, clock, policy)
	e.Stats = stats.NewService(e.Resolver, e.Aggregator, window, clock, cfg.Stats.RequestTimeout)

	if cfg.Raindrop.Enabled {
		e.Raindrop = raindrop.NewService(e.pool, airstackClient, dataStore, raindrop.Config{
			TokenAddress: cfg.Raindrop.TokenAddress,
			RainWallet:   cfg.Raindrop.RainWallet,
		})
	}

	logger.InfoCtx(ctx, "Engine configured",
		zap.Strings("providers", cfg.Allowance.Providers),
		zap.String("provider_mode", string(mode)),
		zap.Strings("points", cfg.Allowance.Points),
		zap.String("remaining_policy", string(policy)),
		zap.String("post_source", cfg.Posts.Source),
		zap.Bool("raindrop", cfg.Raindrop.Enabled),
	)

	return e, nil
}

// Close stops the worker pool and closes connections
func (e *Engine) Close() {
	if e.pool != nil {
		e.pool.StopAndWait()
	}
	for _, closer := range e.closers {
		if err := closer(); err != nil {
			logger.Warn("Failed to close connection", zap.Error(err))
		}
	}
}

func rateLimits(cfg config.RateLimitConfig) map[string]ratelimit.ProviderLimit {
	limits := make(map[string]ratelimit.ProviderLimit)
	add := func(name string, c config.ProviderRateLimitConfig) {
		// Zero disables throttling for the provider
		if c.RequestsPerSecond <= 0 {
			return
		}
		limits[name] = ratelimit.ProviderLimit{
			RequestsPerSecond: c.RequestsPerSecond,
			Burst:             c.Burst,
			MaxQueueTime:      c.MaxQueueTime,
		}
	}
	add(airstack.PROVIDER_NAME, cfg.Airstack)
	add(hub.PROVIDER_NAME, cfg.Hub)
	add(degentips.PROVIDER_NAME, cfg.DegenTips)
	add(edit.PROVIDER_NAME, cfg.Edit)
	return limits
}
