package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// DefaultEnvFiles are loaded in order when present. Variables already set in
// the environment win.
var DefaultEnvFiles = []string{".env.development", ".env"}

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid configuration")

// Config stores all configuration for the service and the CLI.
type Config struct {
	Port     string `mapstructure:"PORT"`
	GinMode  string `mapstructure:"GIN_MODE"`
	DevMode  bool   `mapstructure:"DEV_MODE"`
	LogLevel string `mapstructure:"LOG_LEVEL"`
	DataDir  string `mapstructure:"DATA_DIR"`

	RateLimit float64 `mapstructure:"RATE_LIMIT"`
	RateBurst int     `mapstructure:"RATE_BURST"`

	LiveTimeoutSeconds int `mapstructure:"LIVE_TIMEOUT_SECONDS"`

	PageSpeedAPIKey   string `mapstructure:"PAGESPEED_API_KEY"`
	PageSpeedEndpoint string `mapstructure:"PAGESPEED_ENDPOINT"`
	PageSpeedStrategy string `mapstructure:"PAGESPEED_STRATEGY"`

	SearchProvider string `mapstructure:"SEARCH_PROVIDER"`
	SearchAPIKey   string `mapstructure:"SEARCH_API_KEY"`
	SearchEngineID string `mapstructure:"SEARCH_ENGINE_ID"`
	SearchEndpoint string `mapstructure:"SEARCH_ENDPOINT"`

	StatsBackend string `mapstructure:"STATS_BACKEND"`
	RedisAddr    string `mapstructure:"REDIS_ADDR"`

	HistoryLimit int `mapstructure:"HISTORY_LIMIT"`
}

var defaults = map[string]any{
	"PORT":                 "8082",
	"GIN_MODE":             "release",
	"DEV_MODE":             false,
	"LOG_LEVEL":            "info",
	"DATA_DIR":             "data",
	"RATE_LIMIT":           2.0,
	"RATE_BURST":           5,
	"LIVE_TIMEOUT_SECONDS": 15,
	"PAGESPEED_API_KEY":    "",
	"PAGESPEED_ENDPOINT":   "",
	"PAGESPEED_STRATEGY":   "mobile",
	"SEARCH_PROVIDER":      "none",
	"SEARCH_API_KEY":       "",
	"SEARCH_ENGINE_ID":     "",
	"SEARCH_ENDPOINT":      "",
	"STATS_BACKEND":        "file",
	"REDIS_ADDR":           "localhost:6379",
	"HISTORY_LIMIT":        50,
}

// Load reads the env files, then the environment, and validates the result.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = DefaultEnvFiles
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.GinMode = strings.ToLower(strings.TrimSpace(c.GinMode))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.SearchProvider = strings.ToLower(strings.TrimSpace(c.SearchProvider))
	c.StatsBackend = strings.ToLower(strings.TrimSpace(c.StatsBackend))
	c.PageSpeedStrategy = strings.ToLower(strings.TrimSpace(c.PageSpeedStrategy))
	if c.SearchProvider == "" {
		c.SearchProvider = "none"
	}
}

// Validate rejects values the service cannot run with.
func (c *Config) Validate() error {
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("%w: GIN_MODE %q", ErrInvalid, c.GinMode)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: LOG_LEVEL %q", ErrInvalid, c.LogLevel)
	}
	if c.Port == "" {
		return fmt.Errorf("%w: PORT is empty", ErrInvalid)
	}
	if c.RateLimit <= 0 || c.RateBurst < 1 {
		return fmt.Errorf("%w: RATE_LIMIT and RATE_BURST must be positive", ErrInvalid)
	}
	if c.LiveTimeoutSeconds < 1 {
		return fmt.Errorf("%w: LIVE_TIMEOUT_SECONDS must be at least 1", ErrInvalid)
	}
	switch c.PageSpeedStrategy {
	case "mobile", "desktop":
	default:
		return fmt.Errorf("%w: PAGESPEED_STRATEGY %q", ErrInvalid, c.PageSpeedStrategy)
	}
	switch c.SearchProvider {
	case "none":
	case "google":
		if c.SearchAPIKey == "" || c.SearchEngineID == "" {
			return fmt.Errorf("%w: SEARCH_PROVIDER google needs SEARCH_API_KEY and SEARCH_ENGINE_ID", ErrInvalid)
		}
	case "html":
	default:
		return fmt.Errorf("%w: SEARCH_PROVIDER %q", ErrInvalid, c.SearchProvider)
	}
	switch c.StatsBackend {
	case "file":
	case "redis":
		if c.RedisAddr == "" {
			return fmt.Errorf("%w: STATS_BACKEND redis needs REDIS_ADDR", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: STATS_BACKEND %q", ErrInvalid, c.StatsBackend)
	}
	if c.HistoryLimit < 1 {
		return fmt.Errorf("%w: HISTORY_LIMIT must be at least 1", ErrInvalid)
	}
	return nil
}

// LiveTimeout is the budget for a single live collaborator call
func (c *Config) LiveTimeout() time.Duration {
	return time.Duration(c.LiveTimeoutSeconds) * time.Second
}

// Addr is the listen address for the HTTP server
func (c *Config) Addr() string {
	return ":" + c.Port
}

// LiveMeasurementEnabled reports whether a PageSpeed key is configured
func (c *Config) LiveMeasurementEnabled() bool {
	return c.PageSpeedAPIKey != ""
}
