package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ds8/tip-allowance/internal/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadAPIConfig(t *testing.T) {
	tests := []struct {
		name        string
		configFile  string
		expectError bool
		validate    func(*testing.T, *APIConfig)
	}{
		{
			name: "valid config file",
			configFile: `
debug: true
sentry_dsn: "https://sentry.example.com"
server:
  host: 127.0.0.1
  port: 9090
auth:
  api_keys: ["key-1", "key-2"]
database:
  host: localhost
  user: testuser
  password: testpass
  dbname: testdb
redis:
  url: "redis://localhost:6379/1"
cache:
  backend: Redis
  freshness: 2m
allowance:
  reset_hour: 6
  reset_minute: 0
  token: "$unit"
  providers: ["degentips", "edit"]
  provider_mode: fallback
  remaining_policy: clamped
posts:
  source: database
airstack:
  api_key: airstack-key
rate_limit:
  airstack:
    requests_per_second: 2.5
    burst: 3
    max_queue_time: 1s
raindrop:
  enabled: true
stats:
  request_timeout: 3s
`,
			validate: func(t *testing.T, cfg *APIConfig) {
				assert.True(t, cfg.Debug)
				assert.Equal(t, "https://sentry.example.com", cfg.SentryDSN)
				assert.Equal(t, "127.0.0.1", cfg.Server.Host)
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, []string{"key-1", "key-2"}, cfg.Auth.APIKeys)
				assert.Equal(t, "localhost", cfg.Database.Host)
				assert.Equal(t, "redis://localhost:6379/1", cfg.Redis.URL)
				assert.Equal(t, CacheBackendRedis, cfg.Cache.Backend)
				assert.Equal(t, 2*time.Minute, cfg.Cache.Freshness)
				assert.Equal(t, 6, cfg.Allowance.ResetHour)
				assert.Equal(t, 0, cfg.Allowance.ResetMinute)
				assert.Equal(t, "$unit", cfg.Allowance.Token)
				assert.Equal(t, []string{"degentips", "edit"}, cfg.Allowance.Providers)
				assert.Equal(t, "fallback", cfg.Allowance.ProviderMode)
				assert.Equal(t, "clamped", cfg.Allowance.RemainingPolicy)
				assert.Equal(t, PostSourceDatabase, cfg.Posts.Source)
				assert.Equal(t, 2.5, cfg.RateLimit.Airstack.RequestsPerSecond)
				assert.Equal(t, 3, cfg.RateLimit.Airstack.Burst)
				assert.Equal(t, time.Second, cfg.RateLimit.Airstack.MaxQueueTime)
				assert.True(t, cfg.Raindrop.Enabled)
				assert.Equal(t, 3*time.Second, cfg.Stats.RequestTimeout)

				// Hub key falls back to the Airstack key
				assert.Equal(t, "airstack-key", cfg.Hub.APIKey)

				assert.NoError(t, cfg.Validate())
			},
		},
		{
			name: "config with defaults",
			configFile: `
airstack:
  api_key: airstack-key
`,
			validate: func(t *testing.T, cfg *APIConfig) {
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 5432, cfg.Database.Port)
				assert.Equal(t, "disable", cfg.Database.SSLMode)
				assert.Equal(t, CacheBackendNone, cfg.Cache.Backend)
				assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
				assert.Equal(t, 5*time.Minute, cfg.Cache.Freshness)
				assert.Equal(t, time.Hour, cfg.Cache.Lookback)
				assert.Equal(t, domain.DEFAULT_RESET_HOUR, cfg.Allowance.ResetHour)
				assert.Equal(t, domain.DEFAULT_RESET_MINUTE, cfg.Allowance.ResetMinute)
				assert.Equal(t, 24*time.Hour, cfg.Allowance.Period)
				assert.Equal(t, domain.DEFAULT_TIP_TOKEN, cfg.Allowance.Token)
				assert.Equal(t, []string{"degentips"}, cfg.Allowance.Providers)
				assert.Equal(t, []string{"points", "liquidity_mining"}, cfg.Allowance.Points)
				assert.Equal(t, "local", cfg.Allowance.RemainingPolicy)
				assert.Equal(t, PostSourceAirstack, cfg.Posts.Source)
				assert.Equal(t, "https://hubs.airstack.xyz", cfg.Hub.URL)
				assert.Equal(t, 8*time.Second, cfg.Stats.RequestTimeout)
				assert.False(t, cfg.Raindrop.Enabled)
				assert.False(t, cfg.UsesDatabase())

				assert.NoError(t, cfg.Validate())
			},
		},
		{
			name: "invalid yaml",
			configFile: `
				server:
				  port: invalid
			`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadAPIConfig(writeConfig(t, tt.configFile), t.TempDir())

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)
			tt.validate(t, cfg)
		})
	}
}

func TestLoadReportConfig(t *testing.T) {
	path := writeConfig(t, `
airstack:
  api_key: airstack-key
hub:
  api_key: hub-key
allowance:
  points: "points, Liquidity_Mining, points"
`)

	cfg, err := LoadReportConfig(path, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "hub-key", cfg.Hub.APIKey)
	assert.Equal(t, []string{"points", "liquidity_mining"}, cfg.Allowance.Points)
	assert.NoError(t, cfg.Validate())
}

func TestLoadSweeperConfig(t *testing.T) {
	path := writeConfig(t, `
database:
  host: db.internal
  dbname: tips
cache:
  sweep_interval: 15m
`)

	cfg, err := LoadSweeperConfig(path, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 15*time.Minute, cfg.Cache.SweepInterval)
	assert.NoError(t, cfg.Validate())

	cfg.Database.Host = ""
	assert.True(t, errors.Is(cfg.Validate(), domain.ErrMissingConfig))
}

func TestEngineConfig_Validate(t *testing.T) {
	valid := func() EngineConfig {
		return EngineConfig{
			Cache:     CacheConfig{Backend: CacheBackendNone},
			Posts:     PostsConfig{Source: PostSourceAirstack},
			Airstack:  AirstackConfig{APIKey: "key"},
			Hub:       HubConfig{APIKey: "key"},
			Allowance: AllowanceConfig{Token: "$degen", Providers: []string{"degentips"}},
		}
	}

	tests := []struct {
		name        string
		mutate      func(*EngineConfig)
		wantMissing bool
		wantErr     bool
	}{
		{
			name:   "valid",
			mutate: func(*EngineConfig) {},
		},
		{
			name:        "airstack source without key",
			mutate:      func(c *EngineConfig) { c.Airstack.APIKey = "" },
			wantMissing: true,
		},
		{
			name:        "database source without host",
			mutate:      func(c *EngineConfig) { c.Posts.Source = PostSourceDatabase },
			wantMissing: true,
		},
		{
			name: "database source with host",
			mutate: func(c *EngineConfig) {
				c.Posts.Source = PostSourceDatabase
				c.Database.Host = "db"
			},
		},
		{
			name:        "redis backend without address",
			mutate:      func(c *EngineConfig) { c.Cache.Backend = CacheBackendRedis },
			wantMissing: true,
		},
		{
			name: "redis backend with address",
			mutate: func(c *EngineConfig) {
				c.Cache.Backend = CacheBackendRedis
				c.Redis.Addr = "localhost:6379"
			},
		},
		{
			name:        "postgres backend without host",
			mutate:      func(c *EngineConfig) { c.Cache.Backend = CacheBackendPostgres },
			wantMissing: true,
		},
		{
			name:        "raindrop without database",
			mutate:      func(c *EngineConfig) { c.Raindrop.Enabled = true },
			wantMissing: true,
		},
		{
			name:        "no hub key",
			mutate:      func(c *EngineConfig) { c.Hub.APIKey = "" },
			wantMissing: true,
		},
		{
			name:        "no providers",
			mutate:      func(c *EngineConfig) { c.Allowance.Providers = nil },
			wantMissing: true,
		},
		{
			name:    "unknown backend",
			mutate:  func(c *EngineConfig) { c.Cache.Backend = "memcached" },
			wantErr: true,
		},
		{
			name:    "unknown post source",
			mutate:  func(c *EngineConfig) { c.Posts.Source = "warpcast" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			switch {
			case tt.wantMissing:
				require.Error(t, err)
				assert.True(t, errors.Is(err, domain.ErrMissingConfig), "got %v", err)
			case tt.wantErr:
				require.Error(t, err)
				assert.False(t, errors.Is(err, domain.ErrMissingConfig))
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestAPIConfig_ValidatePort(t *testing.T) {
	cfg := APIConfig{
		EngineConfig: EngineConfig{
			Cache:     CacheConfig{Backend: CacheBackendNone},
			Posts:     PostsConfig{Source: PostSourceAirstack},
			Airstack:  AirstackConfig{APIKey: "key"},
			Hub:       HubConfig{APIKey: "key"},
			Allowance: AllowanceConfig{Token: "$degen", Providers: []string{"edit"}},
		},
	}
	assert.Error(t, cfg.Validate())

	cfg.Server.Port = 8080
	assert.NoError(t, cfg.Validate())
}

func TestDatabaseConfig_DSN(t *testing.T) {
	tests := []struct {
		name     string
		config   DatabaseConfig
		expected string
	}{
		{
			name: "complete config",
			config: DatabaseConfig{
				Host:     "localhost",
				Port:     5432,
				User:     "testuser",
				Password: "testpass",
				DBName:   "testdb",
				SSLMode:  "require",
			},
			expected: "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=require",
		},
		{
			name: "with special characters in password",
			config: DatabaseConfig{
				Host:     "localhost",
				Port:     5432,
				User:     "testuser",
				Password: "p@ssw0rd!",
				DBName:   "testdb",
				SSLMode:  "disable",
			},
			expected: "host=localhost port=5432 user=testuser password=p@ssw0rd! dbname=testdb sslmode=disable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.DSN())
		})
	}
}

func TestConfigWithEnvironmentVariables(t *testing.T) {
	tmpDir := t.TempDir()

	envDir := filepath.Join(tmpDir, "env")
	require.NoError(t, os.MkdirAll(envDir, 0750))

	// godotenv sets real process variables; unset them so other tests are unaffected
	envVars := map[string]string{
		"TIP_ALLOWANCE_DEBUG":               "true",
		"TIP_ALLOWANCE_DATABASE_HOST":       "env-host",
		"TIP_ALLOWANCE_DATABASE_PORT":       "6543",
		"TIP_ALLOWANCE_CACHE_BACKEND":       "postgres",
		"TIP_ALLOWANCE_ALLOWANCE_PROVIDERS": "degentips,edit",
		"TIP_ALLOWANCE_AIRSTACK_API_KEY":    "env-key",
	}
	var envContent string
	for key, value := range envVars {
		envContent += key + "=" + value + "\n"
		t.Cleanup(func() { _ = os.Unsetenv(key) })
	}
	require.NoError(t, os.WriteFile(filepath.Join(envDir, ".env"), []byte(envContent), 0600))

	configPath := writeConfig(t, `
debug: false
database:
  host: file-host
  port: 5432
cache:
  backend: none
`)

	cfg, err := LoadAPIConfig(configPath, envDir)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	// Variables from the .env file override the config file
	assert.True(t, cfg.Debug)
	assert.Equal(t, "env-host", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, CacheBackendPostgres, cfg.Cache.Backend)
	assert.Equal(t, []string{"degentips", "edit"}, cfg.Allowance.Providers)
	assert.Equal(t, "env-key", cfg.Hub.APIKey)
	assert.True(t, cfg.UsesDatabase())
	assert.NoError(t, cfg.Validate())
}
