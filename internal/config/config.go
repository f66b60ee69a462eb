package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ds8/tip-allowance/internal/domain"
)

// Cache backends
const (
	CacheBackendNone     = "none"
	CacheBackendRedis    = "redis"
	CacheBackendPostgres = "postgres"
)

// Post sources
const (
	PostSourceAirstack = "airstack"
	PostSourceDatabase = "database"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`     // Maximum number of open connections to the database
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`     // Maximum number of idle connections in the pool
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`  // Maximum amount of time a connection may be reused (e.g., "5m", "1h")
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"` // Maximum amount of time a connection may be idle (e.g., "10m", "30m")
}

// RedisConfig holds Redis configuration. URL takes precedence over Addr.
type RedisConfig struct {
	URL      string `mapstructure:"url"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CacheConfig holds tip cache configuration
type CacheConfig struct {
	Backend       string        `mapstructure:"backend"`
	TTL           time.Duration `mapstructure:"ttl"`
	Freshness     time.Duration `mapstructure:"freshness"`
	Lookback      time.Duration `mapstructure:"lookback"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"` // postgres backend only
}

// AllowanceConfig holds the allowance window and upstream provider selection
type AllowanceConfig struct {
	ResetHour       int           `mapstructure:"reset_hour"`
	ResetMinute     int           `mapstructure:"reset_minute"`
	Period          time.Duration `mapstructure:"period"`
	Token           string        `mapstructure:"token"`
	Providers       []string      `mapstructure:"providers"`
	ProviderMode    string        `mapstructure:"provider_mode"`
	Points          []string      `mapstructure:"points"`
	RemainingPolicy string        `mapstructure:"remaining_policy"`
}

// PostsConfig selects the post source of the tip fetcher
type PostsConfig struct {
	Source string `mapstructure:"source"`
}

// AirstackConfig holds Airstack GraphQL configuration
type AirstackConfig struct {
	APIURL string `mapstructure:"api_url"`
	APIKey string `mapstructure:"api_key"`
}

// HubConfig holds Farcaster hub configuration. APIKey defaults to the Airstack key.
type HubConfig struct {
	URL    string `mapstructure:"url"`
	APIKey string `mapstructure:"api_key"`
}

// VendorsConfig holds vendor API configurations
type VendorsConfig struct {
	DegenTipsURL string `mapstructure:"degentips_url"`
	EditURL      string `mapstructure:"edit_url"`
}

// ProviderRateLimitConfig is the outbound token bucket of one provider
type ProviderRateLimitConfig struct {
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	MaxQueueTime      time.Duration `mapstructure:"max_queue_time"`
}

// RateLimitConfig holds the outbound rate limits per provider
type RateLimitConfig struct {
	Airstack  ProviderRateLimitConfig `mapstructure:"airstack"`
	Hub       ProviderRateLimitConfig `mapstructure:"hub"`
	DegenTips ProviderRateLimitConfig `mapstructure:"degentips"`
	Edit      ProviderRateLimitConfig `mapstructure:"edit"`
}

// RaindropConfig holds raindrop balance configuration
type RaindropConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	TokenAddress string `mapstructure:"token_address"`
	RainWallet   string `mapstructure:"rain_wallet"`
}

// StatsConfig holds request-level settings of the report computation
type StatsConfig struct {
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	HTTPTimeout    time.Duration `mapstructure:"http_timeout"`
	WorkerPoolSize int           `mapstructure:"worker_pool_size"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // in seconds
}

// AuthConfig holds authentication configuration. Auth is disabled when both are empty.
// An API key may be limited to routes with "<key>:allowance,raindrop".
type AuthConfig struct {
	JWTPublicKey string   `mapstructure:"jwt_public_key"`
	APIKeys      []string `mapstructure:"api_keys"`
}

// EngineConfig holds everything needed to compute a report
type EngineConfig struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Allowance AllowanceConfig `mapstructure:"allowance"`
	Posts     PostsConfig     `mapstructure:"posts"`
	Airstack  AirstackConfig  `mapstructure:"airstack"`
	Hub       HubConfig       `mapstructure:"hub"`
	Vendors   VendorsConfig   `mapstructure:"vendors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Raindrop  RaindropConfig  `mapstructure:"raindrop"`
	Stats     StatsConfig     `mapstructure:"stats"`
}

// APIConfig holds configuration for API server
type APIConfig struct {
	BaseConfig   `mapstructure:",squash"`
	EngineConfig `mapstructure:",squash"`
	Server       ServerConfig `mapstructure:"server"`
	Auth         AuthConfig   `mapstructure:"auth"`
}

// ReportConfig holds configuration for the report command
type ReportConfig struct {
	BaseConfig   `mapstructure:",squash"`
	EngineConfig `mapstructure:",squash"`
}

// SweeperConfig holds configuration for the standalone tip cache sweeper
type SweeperConfig struct {
	BaseConfig `mapstructure:",squash"`
	Database   DatabaseConfig `mapstructure:"database"`
	Cache      CacheConfig    `mapstructure:"cache"`
}

// LoadAPIConfig loads configuration for API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	// Set defaults
	setEngineDefaults(v)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 15)
	v.SetDefault("server.idle_timeout", 120)

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var config APIConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.EngineConfig.applyFallbacks()

	return &config, nil
}

// LoadReportConfig loads configuration for the report command
func LoadReportConfig(configFile string, envPath string) (*ReportConfig, error) {
	v := configureViper("report", configFile, envPath)

	// Set defaults
	setEngineDefaults(v)

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var config ReportConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.EngineConfig.applyFallbacks()

	return &config, nil
}

// LoadSweeperConfig loads configuration for the tip cache sweeper
func LoadSweeperConfig(configFile string, envPath string) (*SweeperConfig, error) {
	v := configureViper("sweeper", configFile, envPath)

	// Set defaults
	setEngineDefaults(v)

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var config SweeperConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// Validate reports missing settings of the sweeper
func (c *SweeperConfig) Validate() error {
	if c.Database.Host == "" {
		return missing("database.host", "running the sweeper")
	}
	if c.Cache.SweepInterval <= 0 {
		return fmt.Errorf("cache.sweep_interval must be positive, got %s", c.Cache.SweepInterval)
	}
	return nil
}

// Validate reports missing or inconsistent settings of the API server
func (c *APIConfig) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	return c.EngineConfig.Validate()
}

// Validate reports missing or inconsistent engine settings.
// Missing required values wrap domain.ErrMissingConfig.
func (c *EngineConfig) Validate() error {
	switch c.Posts.Source {
	case PostSourceAirstack:
		if c.Airstack.APIKey == "" {
			return missing("airstack.api_key", "posts.source is airstack")
		}
	case PostSourceDatabase:
		if c.Database.Host == "" {
			return missing("database.host", "posts.source is database")
		}
	default:
		return fmt.Errorf("unknown posts.source %q", c.Posts.Source)
	}

	switch c.Cache.Backend {
	case CacheBackendNone:
	case CacheBackendRedis:
		if c.Redis.URL == "" && c.Redis.Addr == "" {
			return missing("redis.url or redis.addr", "cache.backend is redis")
		}
	case CacheBackendPostgres:
		if c.Database.Host == "" {
			return missing("database.host", "cache.backend is postgres")
		}
	default:
		return fmt.Errorf("unknown cache.backend %q", c.Cache.Backend)
	}

	if c.Raindrop.Enabled {
		if c.Airstack.APIKey == "" {
			return missing("airstack.api_key", "raindrop is enabled")
		}
		if c.Database.Host == "" {
			return missing("database.host", "raindrop is enabled")
		}
	}

	if c.Hub.APIKey == "" {
		return missing("hub.api_key", "identity resolution")
	}

	if c.Allowance.Token == "" {
		return missing("allowance.token", "tip extraction")
	}
	if len(c.Allowance.Providers) == 0 {
		return missing("allowance.providers", "allowance ceiling")
	}

	return nil
}

// UsesDatabase reports whether any configured component needs Postgres
func (c *EngineConfig) UsesDatabase() bool {
	return c.Posts.Source == PostSourceDatabase ||
		c.Cache.Backend == CacheBackendPostgres ||
		c.Raindrop.Enabled
}

func (c *EngineConfig) applyFallbacks() {
	if c.Hub.APIKey == "" {
		c.Hub.APIKey = c.Airstack.APIKey
	}
	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	c.Posts.Source = strings.ToLower(strings.TrimSpace(c.Posts.Source))
	c.Allowance.Providers = normalizeList(c.Allowance.Providers)
	c.Allowance.Points = normalizeList(c.Allowance.Points)
}

// normalizeList accepts both YAML lists and comma separated env values
func normalizeList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, item := range strings.Split(value, ",") {
			item = strings.ToLower(strings.TrimSpace(item))
			if item != "" && !slices.Contains(out, item) {
				out = append(out, item)
			}
		}
	}
	return out
}

func missing(key, reason string) error {
	return fmt.Errorf("%w: %s (required when %s)", domain.ErrMissingConfig, key, reason)
}

func setEngineDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("cache.backend", CacheBackendNone)
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.freshness", "5m")
	v.SetDefault("cache.lookback", "60m")
	v.SetDefault("cache.sweep_interval", "1h")
	v.SetDefault("allowance.reset_hour", domain.DEFAULT_RESET_HOUR)
	v.SetDefault("allowance.reset_minute", domain.DEFAULT_RESET_MINUTE)
	v.SetDefault("allowance.period", "24h")
	v.SetDefault("allowance.token", domain.DEFAULT_TIP_TOKEN)
	v.SetDefault("allowance.providers", []string{"degentips"})
	v.SetDefault("allowance.provider_mode", "combine")
	v.SetDefault("allowance.points", []string{"points", "liquidity_mining"})
	v.SetDefault("allowance.remaining_policy", "local")
	v.SetDefault("posts.source", PostSourceAirstack)
	v.SetDefault("airstack.api_url", "https://api.airstack.xyz/gql")
	v.SetDefault("hub.url", "https://hubs.airstack.xyz")
	v.SetDefault("vendors.degentips_url", "https://www.degen.tips")
	v.SetDefault("vendors.edit_url", "https://www.degentip.me")
	v.SetDefault("rate_limit.airstack.requests_per_second", 5)
	v.SetDefault("rate_limit.airstack.burst", 10)
	v.SetDefault("rate_limit.hub.requests_per_second", 10)
	v.SetDefault("rate_limit.hub.burst", 20)
	v.SetDefault("rate_limit.degentips.requests_per_second", 10)
	v.SetDefault("rate_limit.degentips.burst", 20)
	v.SetDefault("rate_limit.edit.requests_per_second", 5)
	v.SetDefault("rate_limit.edit.burst", 10)
	v.SetDefault("raindrop.enabled", false)
	v.SetDefault("raindrop.token_address", domain.DEGEN_CONTRACT_ADDRESS)
	v.SetDefault("raindrop.rain_wallet", domain.DEGEN_RAIN_WALLET)
	v.SetDefault("stats.request_timeout", "8s")
	v.SetDefault("stats.http_timeout", "5s")
	v.SetDefault("stats.worker_pool_size", 32)
}

// readConfig reads the config file; a missing file falls back to environment variables
func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	// Load environment variables
	loadEnv(envPath, service)

	// Set config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// Search for config.yaml in multiple locations:
		// 1. Current directory
		v.AddConfigPath(".")
		// 2. Service-specific directory (e.g., cmd/api/)
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		// 3. Config directory
		v.AddConfigPath("config/")
	}

	// Set environment variables
	v.SetEnvPrefix("TIP_ALLOWANCE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind all environment variables
	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		// Database
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// Redis
		"redis.url",
		"redis.addr",
		"redis.password",
		"redis.db",
		// Cache
		"cache.backend",
		"cache.ttl",
		"cache.freshness",
		"cache.lookback",
		"cache.sweep_interval",
		// Allowance
		"allowance.reset_hour",
		"allowance.reset_minute",
		"allowance.period",
		"allowance.token",
		"allowance.providers",
		"allowance.provider_mode",
		"allowance.points",
		"allowance.remaining_policy",
		// Posts
		"posts.source",
		// Upstreams
		"airstack.api_url",
		"airstack.api_key",
		"hub.url",
		"hub.api_key",
		"vendors.degentips_url",
		"vendors.edit_url",
		// Rate limits
		"rate_limit.airstack.requests_per_second",
		"rate_limit.airstack.burst",
		"rate_limit.airstack.max_queue_time",
		"rate_limit.hub.requests_per_second",
		"rate_limit.hub.burst",
		"rate_limit.hub.max_queue_time",
		"rate_limit.degentips.requests_per_second",
		"rate_limit.degentips.burst",
		"rate_limit.degentips.max_queue_time",
		"rate_limit.edit.requests_per_second",
		"rate_limit.edit.burst",
		"rate_limit.edit.max_queue_time",
		// Raindrop
		"raindrop.enabled",
		"raindrop.token_address",
		"raindrop.rain_wallet",
		// Stats
		"stats.request_timeout",
		"stats.http_timeout",
		"stats.worker_pool_size",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		// Auth
		"auth.jwt_public_key",
		"auth.api_keys",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	// Always try shared base first, then local, then optional per-service local.
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	// Default to config directory
	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // Overload lets later files override earlier ones
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
