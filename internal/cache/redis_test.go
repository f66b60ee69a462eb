package cache_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ds8/tip-allowance/internal/adapter"
	"github.com/ds8/tip-allowance/internal/cache"
	"github.com/ds8/tip-allowance/internal/domain"
	"github.com/ds8/tip-allowance/internal/logger"
	"github.com/ds8/tip-allowance/internal/mocks"
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

var testEntry = domain.TipCacheEntry{
	WindowStart: time.Date(2024, 4, 2, 7, 35, 0, 0, time.UTC),
	Tips: []domain.TipRecord{
		{ID: "0x01", SenderFID: 42, RecipientFID: 7, Amount: 25, PostedAt: time.Date(2024, 4, 2, 8, 0, 0, 0, time.UTC)},
	},
	SavedAt: time.Date(2024, 4, 2, 9, 0, 0, 0, time.UTC),
}

func assertEntry(t *testing.T, want domain.TipCacheEntry, got *domain.TipCacheEntry) {
	t.Helper()
	require.NotNil(t, got)
	assert.True(t, want.WindowStart.Equal(got.WindowStart))
	assert.True(t, want.SavedAt.Equal(got.SavedAt))
	require.Len(t, got.Tips, len(want.Tips))
	for i := range want.Tips {
		assert.Equal(t, want.Tips[i].ID, got.Tips[i].ID)
		assert.Equal(t, want.Tips[i].Amount, got.Tips[i].Amount)
		assert.True(t, want.Tips[i].PostedAt.Equal(got.Tips[i].PostedAt))
	}
}

func TestTipsKey(t *testing.T) {
	assert.Equal(t, "daily-tips-42", cache.TipsKey(42))
}

func TestRedisStore_Get(t *testing.T) {
	raw, err := adapter.NewJSON().Marshal(testEntry)
	require.NoError(t, err)

	tests := []struct {
		name   string
		result *redis.StringCmd
		hit    bool
	}{
		{name: "hit", result: redis.NewStringResult(string(raw), nil), hit: true},
		{name: "missing key", result: redis.NewStringResult("", redis.Nil)},
		{name: "connection error", result: redis.NewStringResult("", errors.New("dial tcp: connection refused"))},
		{name: "invalid json", result: redis.NewStringResult("not json", nil)},
		{name: "wrong shape", result: redis.NewStringResult(`{"tips":"nope"}`, nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			client := mocks.NewMockRedisClient(ctrl)
			client.EXPECT().Get(gomock.Any(), "daily-tips-42").Return(tt.result)

			store := cache.NewRedisStore(client, adapter.NewJSON())
			entry, ok := store.Get(context.Background(), "daily-tips-42")

			assert.Equal(t, tt.hit, ok)
			if tt.hit {
				assertEntry(t, testEntry, entry)
			} else {
				assert.Nil(t, entry)
			}
		})
	}
}

func TestRedisStore_Set(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockRedisClient(ctrl)
	store := cache.NewRedisStore(client, adapter.NewJSON())

	client.EXPECT().SetEx(gomock.Any(), "daily-tips-42", gomock.Any(), 24*time.Hour).
		DoAndReturn(func(_ context.Context, _ string, value interface{}, _ time.Duration) *redis.StatusCmd {
			var decoded domain.TipCacheEntry
			require.NoError(t, adapter.NewJSON().Unmarshal(value.([]byte), &decoded))
			assertEntry(t, testEntry, &decoded)
			return redis.NewStatusResult("OK", nil)
		})

	store.Set(context.Background(), "daily-tips-42", testEntry, 24*time.Hour)
}

func TestRedisStore_SetErrorIsDropped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockRedisClient(ctrl)
	store := cache.NewRedisStore(client, adapter.NewJSON())

	client.EXPECT().SetEx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(redis.NewStatusResult("", errors.New("READONLY")))

	assert.NotPanics(t, func() {
		store.Set(context.Background(), "daily-tips-42", testEntry, time.Hour)
	})
}

func TestRedisStore_MarshalErrorSkipsWrite(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockRedisClient(ctrl)
	json := mocks.NewMockJSON(ctrl)
	store := cache.NewRedisStore(client, json)

	json.EXPECT().Marshal(gomock.Any()).Return(nil, errors.New("boom"))
	client.EXPECT().SetEx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	store.Set(context.Background(), "daily-tips-42", testEntry, time.Hour)
}

func TestNullStore(t *testing.T) {
	store := cache.NewNullStore()

	store.Set(context.Background(), "daily-tips-42", testEntry, time.Hour)
	entry, ok := store.Get(context.Background(), "daily-tips-42")

	assert.False(t, ok)
	assert.Nil(t, entry)
}
