package dashboard

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the dashboard client configuration. Everything except the
// API origin is optional.
type Config struct {
	// APIBaseURL is the dashboard API origin, e.g. "https://api.kaacib.app".
	APIBaseURL string `yaml:"api_base_url"`

	// CredentialsFile is where the token pair is persisted between runs.
	// Empty means session-only (in-memory) persistence.
	CredentialsFile string `yaml:"credentials_file"`

	// RedisURL, when set, backs the reference-data cache with a shared
	// Redis keyspace instead of process memory.
	RedisURL string `yaml:"redis_url"`

	// SentryDSN enables error forwarding to Sentry. Empty disables it.
	SentryDSN string `yaml:"sentry_dsn"`

	// Environment tags telemetry, e.g. "production" or "staging".
	Environment string `yaml:"environment"`

	// LogLevel is one of debug, info, warn, error. Default: info.
	LogLevel string `yaml:"log_level"`

	// CacheTTL overrides the reference cache lifetime. Default: 10 minutes.
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// envOverrides maps environment variables onto config fields.
// Environment always wins over the file.
var envOverrides = map[string]func(*Config, string){
	"KAACIB_API_URL":          func(c *Config, v string) { c.APIBaseURL = v },
	"KAACIB_CREDENTIALS_FILE": func(c *Config, v string) { c.CredentialsFile = v },
	"KAACIB_REDIS_URL":        func(c *Config, v string) { c.RedisURL = v },
	"KAACIB_SENTRY_DSN":       func(c *Config, v string) { c.SentryDSN = v },
	"KAACIB_ENVIRONMENT":      func(c *Config, v string) { c.Environment = v },
	"KAACIB_LOG_LEVEL":        func(c *Config, v string) { c.LogLevel = v },
	"KAACIB_CACHE_TTL": func(c *Config, v string) {
		if d, err := time.ParseDuration(v); err == nil {
			c.CacheTTL = d
		}
	},
}

// LoadConfig reads configuration from an optional YAML file and applies
// environment overrides on top. An empty path skips the file and
// configures from the environment alone.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("dashboard: read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("dashboard: parse config: %w", err)
		}
	}

	for name, apply := range envOverrides {
		if v := os.Getenv(name); v != "" {
			apply(&cfg, v)
		}
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.APIBaseURL == "" {
		return errors.New("dashboard: API base URL is required (api_base_url or KAACIB_API_URL)")
	}
	return nil
}

// logLevel parses the configured level, defaulting to info.
func (c Config) logLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
