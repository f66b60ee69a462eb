package ratelimit_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ds8/tip-allowance/internal/logger"
	"github.com/ds8/tip-allowance/internal/mocks"
	"github.com/ds8/tip-allowance/internal/ratelimit"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

func TestNewProxy_RejectsNonPositiveRate(t *testing.T) {
	_, err := ratelimit.NewProxy(map[string]ratelimit.ProviderLimit{
		"airstack": {RequestsPerSecond: 0, Burst: 1},
	})
	assert.Error(t, err)
}

func TestProxy_UnknownProviderIsNotThrottled(t *testing.T) {
	proxy, err := ratelimit.NewProxy(nil)
	require.NoError(t, err)

	calls := 0
	for i := 0; i < 100; i++ {
		_, err := proxy.Request(context.Background(), "hub", func(ctx context.Context) (interface{}, error) {
			calls++
			return nil, nil
		})
		require.NoError(t, err)
	}

	assert.Equal(t, 100, calls)
}

func TestProxy_BurstThenQueueTimeout(t *testing.T) {
	// One token per minute, so only the burst is served within the queue time
	proxy, err := ratelimit.NewProxy(map[string]ratelimit.ProviderLimit{
		"edit": {RequestsPerSecond: 1.0 / 60, Burst: 2, MaxQueueTime: 20 * time.Millisecond},
	})
	require.NoError(t, err)

	fn := func(ctx context.Context) (interface{}, error) { return "ok", nil }

	for i := 0; i < 2; i++ {
		result, err := proxy.Request(context.Background(), "edit", fn)
		require.NoError(t, err)
		assert.Equal(t, "ok", result)
	}

	_, err = proxy.Request(context.Background(), "edit", fn)
	assert.Error(t, err)
}

func TestProxy_PropagatesRequestError(t *testing.T) {
	proxy, err := ratelimit.NewProxy(map[string]ratelimit.ProviderLimit{
		"degentips": {RequestsPerSecond: 100, Burst: 10},
	})
	require.NoError(t, err)

	wantErr := errors.New("502 bad gateway")
	_, err = proxy.Request(context.Background(), "degentips", func(ctx context.Context) (interface{}, error) {
		return nil, wantErr
	})

	assert.ErrorIs(t, err, wantErr)
}

func newSharedProxy(t *testing.T, limiter *mocks.MockRedisRateLimiter, limit ratelimit.ProviderLimit) ratelimit.Proxy {
	t.Helper()
	proxy, err := ratelimit.NewProxy(
		map[string]ratelimit.ProviderLimit{"airstack": limit},
		ratelimit.WithDistributedLimiter(limiter, "test:"),
	)
	require.NoError(t, err)
	return proxy
}

func TestProxy_SharedLimiterAllows(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	limiter := mocks.NewMockRedisRateLimiter(ctrl)
	limiter.EXPECT().
		Allow(gomock.Any(), "test:airstack", redis_rate.Limit{Rate: 5, Burst: 10, Period: time.Second}).
		Return(&redis_rate.Result{Allowed: 1, Remaining: 9}, nil)

	proxy := newSharedProxy(t, limiter, ratelimit.ProviderLimit{RequestsPerSecond: 5, Burst: 10})

	result, err := proxy.Request(context.Background(), "airstack", func(ctx context.Context) (interface{}, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", result)
}

func TestProxy_SharedLimiterFractionalRate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	limiter := mocks.NewMockRedisRateLimiter(ctrl)
	limiter.EXPECT().
		Allow(gomock.Any(), "test:airstack", redis_rate.Limit{Rate: 1, Burst: 2, Period: 2 * time.Second}).
		Return(&redis_rate.Result{Allowed: 1}, nil)

	proxy := newSharedProxy(t, limiter, ratelimit.ProviderLimit{RequestsPerSecond: 0.5, Burst: 2})

	_, err := proxy.Request(context.Background(), "airstack", func(ctx context.Context) (interface{}, error) {
		return nil, nil
	})
	require.NoError(t, err)
}

func TestProxy_SharedLimiterWaitsRetryAfter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	limiter := mocks.NewMockRedisRateLimiter(ctrl)
	gomock.InOrder(
		limiter.EXPECT().Allow(gomock.Any(), "test:airstack", gomock.Any()).
			Return(&redis_rate.Result{Allowed: 0, RetryAfter: 15 * time.Millisecond}, nil),
		limiter.EXPECT().Allow(gomock.Any(), "test:airstack", gomock.Any()).
			Return(&redis_rate.Result{Allowed: 1}, nil),
	)

	proxy := newSharedProxy(t, limiter, ratelimit.ProviderLimit{RequestsPerSecond: 100, Burst: 10, MaxQueueTime: time.Second})

	start := time.Now()
	_, err := proxy.Request(context.Background(), "airstack", func(ctx context.Context) (interface{}, error) {
		return nil, nil
	})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
}

func TestProxy_SharedLimiterDeniedPastQueueTime(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	limiter := mocks.NewMockRedisRateLimiter(ctrl)
	limiter.EXPECT().Allow(gomock.Any(), "test:airstack", gomock.Any()).
		Return(&redis_rate.Result{Allowed: 0, RetryAfter: time.Minute}, nil)

	proxy := newSharedProxy(t, limiter, ratelimit.ProviderLimit{RequestsPerSecond: 100, Burst: 10, MaxQueueTime: 20 * time.Millisecond})

	_, err := proxy.Request(context.Background(), "airstack", func(ctx context.Context) (interface{}, error) {
		t.Fatal("request must not run")
		return nil, nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestProxy_SharedLimiterErrorFallsBackToLocal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	limiter := mocks.NewMockRedisRateLimiter(ctrl)
	limiter.EXPECT().Allow(gomock.Any(), "test:airstack", gomock.Any()).
		Return(nil, errors.New("connection refused")).Times(3)

	proxy := newSharedProxy(t, limiter, ratelimit.ProviderLimit{RequestsPerSecond: 100, Burst: 10})

	calls := 0
	for i := 0; i < 3; i++ {
		_, err := proxy.Request(context.Background(), "airstack", func(ctx context.Context) (interface{}, error) {
			calls++
			return nil, nil
		})
		require.NoError(t, err)
	}
	assert.Equal(t, 3, calls)
}

func TestProxy_SharedLimiterSkipsUnknownProvider(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No Allow expectation: unlimited providers never touch Redis
	limiter := mocks.NewMockRedisRateLimiter(ctrl)
	proxy := newSharedProxy(t, limiter, ratelimit.ProviderLimit{RequestsPerSecond: 100, Burst: 10})

	_, err := proxy.Request(context.Background(), "hub", func(ctx context.Context) (interface{}, error) {
		return nil, nil
	})
	require.NoError(t, err)
}

func TestRequest_NilProxyCallsDirectly(t *testing.T) {
	result, err := ratelimit.Request(context.Background(), nil, "hub", func(ctx context.Context) ([]byte, error) {
		return []byte("body"), nil
	})

	require.NoError(t, err)
	assert.Equal(t, []byte("body"), result)
}

func TestRequest_ThroughProxy(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	proxy := mocks.NewMockRateLimitProxy(ctrl)
	proxy.EXPECT().Request(gomock.Any(), "airstack", gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, fn ratelimit.RequestFunc) (interface{}, error) {
			return fn(ctx)
		})

	result, err := ratelimit.Request(context.Background(), proxy, "airstack", func(ctx context.Context) ([]byte, error) {
		return []byte("body"), nil
	})

	require.NoError(t, err)
	assert.Equal(t, []byte("body"), result)
}

func TestRequest_ProxyError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	proxy := mocks.NewMockRateLimitProxy(ctrl)
	proxy.EXPECT().Request(gomock.Any(), "airstack", gomock.Any()).Return(nil, context.DeadlineExceeded)

	result, err := ratelimit.Request(context.Background(), proxy, "airstack", func(ctx context.Context) ([]byte, error) {
		t.Fatal("request must not run")
		return nil, nil
	})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, result)
}
