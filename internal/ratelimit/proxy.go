package ratelimit

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ds8/tip-allowance/internal/adapter"
	"github.com/ds8/tip-allowance/internal/logger"
)

// DEFAULT_KEY_PREFIX namespaces the shared buckets in Redis
const DEFAULT_KEY_PREFIX = "tip-allowance:ratelimit:"

// RequestFunc is a function that performs the actual API request
type RequestFunc func(ctx context.Context) (interface{}, error)

// ProviderLimit is the token bucket of one upstream provider
type ProviderLimit struct {
	RequestsPerSecond float64
	Burst             int
	// MaxQueueTime bounds how long a request may wait for a token
	MaxQueueTime time.Duration
}

// Proxy defines the interface for the rate-limiting proxy
//
//go:generate mockgen -source=proxy.go -destination=../mocks/ratelimit_proxy.go -package=mocks -mock_names=Proxy=MockRateLimitProxy
type Proxy interface {
	// Request waits for a token of providerName and runs fn
	Request(ctx context.Context, providerName string, fn RequestFunc) (interface{}, error)
}

type providerLimiter struct {
	limiter      *rate.Limiter
	shared       redis_rate.Limit
	maxQueueTime time.Duration
}

// proxy is the concrete implementation of the rate-limiting proxy
type proxy struct {
	limiters    map[string]*providerLimiter
	distributed adapter.RedisRateLimiter
	keyPrefix   string
}

// Option configures a proxy
type Option func(*proxy)

// WithDistributedLimiter makes every replica sharing the Redis draw from one
// bucket per provider. The local bucket still caps each replica.
func WithDistributedLimiter(limiter adapter.RedisRateLimiter, keyPrefix string) Option {
	return func(p *proxy) {
		p.distributed = limiter
		p.keyPrefix = keyPrefix
	}
}

// sharedLimit converts a fractional rate into a redis_rate limit
func sharedLimit(rps float64, burst int) redis_rate.Limit {
	if rps >= 1 {
		return redis_rate.Limit{Rate: int(math.Round(rps)), Burst: burst, Period: time.Second}
	}
	return redis_rate.Limit{Rate: 1, Burst: burst, Period: time.Duration(float64(time.Second) / rps)}
}

// NewProxy creates a proxy with one token bucket per configured provider.
// Providers without a configured limit are not throttled.
func NewProxy(limits map[string]ProviderLimit, opts ...Option) (Proxy, error) {
	limiters := make(map[string]*providerLimiter, len(limits))
	for name, limit := range limits {
		if limit.RequestsPerSecond <= 0 {
			return nil, fmt.Errorf("provider %q: requests_per_second must be positive", name)
		}
		burst := max(limit.Burst, 1)
		queue := limit.MaxQueueTime
		if queue <= 0 {
			queue = 2 * time.Second
		}
		limiters[name] = &providerLimiter{
			limiter:      rate.NewLimiter(rate.Limit(limit.RequestsPerSecond), burst),
			shared:       sharedLimit(limit.RequestsPerSecond, burst),
			maxQueueTime: queue,
		}
	}

	p := &proxy{limiters: limiters, keyPrefix: DEFAULT_KEY_PREFIX}
	for _, opt := range opts {
		opt(p)
	}

	logger.Info("Rate limit proxy initialized",
		zap.Int("providers", len(limiters)),
		zap.Bool("distributed", p.distributed != nil),
	)

	return p, nil
}

// Request submits a rate-limited request and returns the result with type safety
func Request[T any](ctx context.Context, p Proxy, providerName string, fn func(ctx context.Context) (T, error)) (T, error) {
	if p == nil {
		return fn(ctx)
	}

	var zero T
	result, err := p.Request(ctx, providerName, func(ctx context.Context) (interface{}, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, err
	}
	if result == nil {
		return zero, nil
	}
	return result.(T), nil
}

// Request blocks until a token is available (or the queue time passes) and runs fn
func (p *proxy) Request(ctx context.Context, providerName string, fn RequestFunc) (interface{}, error) {
	limiter, ok := p.limiters[providerName]
	if !ok {
		return fn(ctx)
	}

	queueCtx, cancel := context.WithTimeout(ctx, limiter.maxQueueTime)
	defer cancel()

	if err := limiter.limiter.Wait(queueCtx); err != nil {
		return nil, fmt.Errorf("rate limit wait for %s: %w", providerName, err)
	}
	if p.distributed != nil {
		if err := p.waitShared(queueCtx, providerName, limiter.shared); err != nil {
			return nil, fmt.Errorf("shared rate limit wait for %s: %w", providerName, err)
		}
	}

	return fn(ctx)
}

// waitShared polls the Redis bucket until a token is granted.
// A Redis failure falls back to the local token already taken.
func (p *proxy) waitShared(ctx context.Context, providerName string, limit redis_rate.Limit) error {
	key := p.keyPrefix + providerName
	for {
		res, err := p.distributed.Allow(ctx, key, limit)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.WarnCtx(ctx, "Shared rate limiter unavailable, using local limit",
				zap.String("provider", providerName),
				zap.Error(err),
			)
			return nil
		}
		if res.Allowed > 0 {
			return nil
		}

		wait := max(res.RetryAfter, 10*time.Millisecond)
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
