package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config struct to hold the configuration settings
type Config struct {
	HTTP          HTTPConfig          `yaml:"http"`
	Postgres      PostgresConfig      `yaml:"postgres"`
	Redis         RedisConfig         `yaml:"redis"`
	NATS          NATSConfig          `yaml:"nats"`
	JWT           JWTConfig           `yaml:"jwt"`
	Leaderboard   LeaderboardConfig   `yaml:"leaderboard"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// HTTPConfig holds the API listener settings.
type HTTPConfig struct {
	Address        string   `yaml:"address"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	RateLimitRPS   float64  `yaml:"rate_limit_rps"`
	RateLimitBurst int      `yaml:"rate_limit_burst"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// RedisConfig holds the cache and idempotency store connection.
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// NATSConfig holds NATS configuration. An empty URL disables event publishing.
type NATSConfig struct {
	URL string `yaml:"url"`
}

// JWTConfig holds JWT configuration.
type JWTConfig struct {
	Secret     string        `yaml:"secret"`
	Issuer     string        `yaml:"issuer"`
	DefaultTTL time.Duration `yaml:"default_ttl"`
}

// LeaderboardConfig tunes replay protection, caching and query bounds.
type LeaderboardConfig struct {
	IdempotencyTTL                   time.Duration `yaml:"idempotency_ttl"`
	ReplayWindow                     time.Duration `yaml:"replay_window"`
	CacheTTL                         time.Duration `yaml:"cache_ttl"`
	CanonicalTopN                    int           `yaml:"canonical_top_n"`
	DefaultTopN                      int           `yaml:"default_top_n"`
	MaxTopN                          int           `yaml:"max_top_n"`
	DefaultAroundK                   int           `yaml:"default_around_k"`
	MaxAroundK                       int           `yaml:"max_around_k"`
	ReleaseIdempotencyOnStoreFailure bool          `yaml:"release_idempotency_on_store_failure"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	ServiceName    string `yaml:"service_name"`
	Environment    string `yaml:"environment"`
	LogLevel       string `yaml:"log_level"`
	MetricsAddress string `yaml:"metrics_address"`
	OTLPEndpoint   string `yaml:"otlp_endpoint"`
}

// LoadConfig loads the configuration from a YAML file. If the file cannot be
// read, configuration comes from environment variables only. Environment
// variables always win over file values.
func LoadConfig(filename string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(filename)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("REDIS_ADDRESS"); v != "" {
		cfg.Redis.Address = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB value: %v", err)
		}
		cfg.Redis.DB = db
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("JWT_ISSUER"); v != "" {
		cfg.JWT.Issuer = v
	}
	if v := os.Getenv("JWT_DEFAULT_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid JWT_DEFAULT_TTL value: %v", err)
		}
		cfg.JWT.DefaultTTL = d
	}
	if v := os.Getenv("RELEASE_IDEMPOTENCY_ON_STORE_FAILURE"); v != "" {
		cfg.Leaderboard.ReleaseIdempotencyOnStoreFailure = v == "true"
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
	if v := os.Getenv("METRICS_ADDRESS"); v != "" {
		cfg.Observability.MetricsAddress = v
	}
	if v := os.Getenv("OTLP_ENDPOINT"); v != "" {
		cfg.Observability.OTLPEndpoint = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":3000"
	}
	if c.HTTP.RateLimitRPS == 0 {
		c.HTTP.RateLimitRPS = 10
	}
	if c.HTTP.RateLimitBurst == 0 {
		c.HTTP.RateLimitBurst = 20
	}
	if c.JWT.DefaultTTL == 0 {
		c.JWT.DefaultTTL = 24 * time.Hour
	}

	lb := &c.Leaderboard
	if lb.IdempotencyTTL == 0 {
		lb.IdempotencyTTL = 5 * time.Minute
	}
	if lb.ReplayWindow == 0 {
		lb.ReplayWindow = 10 * time.Minute
	}
	if lb.CacheTTL == 0 {
		lb.CacheTTL = 5 * time.Minute
	}
	if lb.CanonicalTopN == 0 {
		lb.CanonicalTopN = 100
	}
	if lb.DefaultTopN == 0 {
		lb.DefaultTopN = 100
	}
	if lb.MaxTopN == 0 {
		lb.MaxTopN = 1000
	}
	if lb.DefaultAroundK == 0 {
		lb.DefaultAroundK = 5
	}
	if lb.MaxAroundK == 0 {
		lb.MaxAroundK = 50
	}

	if c.Observability.ServiceName == "" {
		c.Observability.ServiceName = "leaderboard-api"
	}
	if c.Observability.Environment == "" {
		c.Observability.Environment = "development"
	}
	if c.Observability.LogLevel == "" {
		c.Observability.LogLevel = "info"
	}
}

// Validate reports every missing or out-of-range setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Postgres.DSN == "" {
		errs = append(errs, errors.New("postgres.dsn (DATABASE_URL) is required"))
	}
	if c.Redis.Address == "" {
		errs = append(errs, errors.New("redis.address (REDIS_ADDRESS) is required"))
	}
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("jwt.secret (JWT_SECRET) is required"))
	}

	lb := c.Leaderboard
	for name, d := range map[string]time.Duration{
		"leaderboard.idempotency_ttl": lb.IdempotencyTTL,
		"leaderboard.replay_window":   lb.ReplayWindow,
		"leaderboard.cache_ttl":       lb.CacheTTL,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", name))
		}
	}
	if lb.CanonicalTopN <= 0 || lb.DefaultTopN <= 0 || lb.MaxTopN <= 0 {
		errs = append(errs, errors.New("leaderboard top-n sizes must be positive"))
	}
	if lb.DefaultTopN > lb.MaxTopN || lb.CanonicalTopN > lb.MaxTopN {
		errs = append(errs, errors.New("leaderboard.max_top_n must cover default_top_n and canonical_top_n"))
	}
	if lb.DefaultAroundK < 0 || lb.MaxAroundK < 0 || lb.DefaultAroundK > lb.MaxAroundK {
		errs = append(errs, errors.New("leaderboard around-k bounds are invalid"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
