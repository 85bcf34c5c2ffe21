package infra

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every setting of the dashboard.
// LoadConfig starts from DefaultConfig, applies the YAML file, then
// environment variable overrides.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	API struct {
		BaseURL    string `yaml:"base_url"`
		APIKey     string `yaml:"api_key"`
		TimeoutSec int    `yaml:"timeout_sec"`

		RateLimit struct {
			Burst     int     `yaml:"burst"`
			PerMinute float64 `yaml:"per_minute"` // 0 disables the limiter
		} `yaml:"rate_limit"`

		CircuitBreaker struct {
			Enabled          bool `yaml:"enabled"`
			FailureThreshold int  `yaml:"failure_threshold"`
			SuccessThreshold int  `yaml:"success_threshold"`
			CooldownSec      int  `yaml:"cooldown_sec"`
		} `yaml:"circuit_breaker"`
	} `yaml:"api"`

	Dashboard struct {
		Currency        string `yaml:"currency"`
		Order           string `yaml:"order"`
		PerPage         int    `yaml:"per_page"`
		PollIntervalSec int    `yaml:"poll_interval_sec"`
	} `yaml:"dashboard"`

	Ticker struct {
		Order           string `yaml:"order"`
		PerPage         int    `yaml:"per_page"`
		PollIntervalSec int    `yaml:"poll_interval_sec"`
	} `yaml:"ticker"`

	Server struct {
		Listen      string   `yaml:"listen"`
		PprofListen string   `yaml:"pprof_listen"` // empty disables pprof
		CORSOrigins []string `yaml:"cors_origins"` // origins allowed on /api
	} `yaml:"server"`

	UI struct {
		Theme string `yaml:"theme"` // "dark" or "light"
	} `yaml:"ui"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // "text" or "json"

		Output io.Writer `yaml:"-"` // nil means stderr
	} `yaml:"logging"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.App.Name = "Crypto Dash"
	cfg.App.Version = "0.1.0"

	cfg.API.BaseURL = "https://api.coingecko.com/api/v3"
	cfg.API.TimeoutSec = 15
	cfg.API.RateLimit.Burst = 5
	cfg.API.RateLimit.PerMinute = 30
	cfg.API.CircuitBreaker.Enabled = false
	cfg.API.CircuitBreaker.FailureThreshold = 5
	cfg.API.CircuitBreaker.SuccessThreshold = 1
	cfg.API.CircuitBreaker.CooldownSec = 30

	cfg.Dashboard.Currency = "usd"
	cfg.Dashboard.Order = "market_cap_desc"
	cfg.Dashboard.PerPage = 12
	cfg.Dashboard.PollIntervalSec = 60

	cfg.Ticker.Order = "volume_desc"
	cfg.Ticker.PerPage = 15
	cfg.Ticker.PollIntervalSec = 60

	cfg.Server.Listen = "localhost:8080"
	cfg.Server.PprofListen = "localhost:6060"
	cfg.Server.CORSOrigins = []string{"*"}

	cfg.UI.Theme = "dark"

	cfg.Logging.Level = "info"
	cfg.Logging.Format = "text"
	return cfg
}

// LoadConfig reads and parses the YAML file at path.
// A missing file is not an error: defaults (plus env overrides) are used.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		slog.Warn("Config file not found, using defaults", slog.String("path", path))
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	overrideWithEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid API base URL: %q", c.API.BaseURL)
	}
	if c.API.TimeoutSec <= 0 {
		return fmt.Errorf("api timeout must be positive")
	}
	if c.API.RateLimit.PerMinute < 0 {
		return fmt.Errorf("rate limit must not be negative")
	}
	if c.API.RateLimit.PerMinute > 0 && c.API.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate limit burst must be positive")
	}

	if c.Dashboard.PerPage <= 0 || c.Ticker.PerPage <= 0 {
		return fmt.Errorf("per_page must be positive")
	}
	if c.Dashboard.PollIntervalSec <= 0 || c.Ticker.PollIntervalSec <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}

	switch c.UI.Theme {
	case "dark", "light":
	default:
		return fmt.Errorf("unknown theme: %q", c.UI.Theme)
	}

	if c.Server.Listen == "" {
		return fmt.Errorf("server listen address is required")
	}

	return nil
}

// Timeout returns the HTTP timeout for upstream calls.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSec) * time.Second
}

// overrideWithEnv lets environment variables take precedence over the file.
func overrideWithEnv(cfg *Config) {
	if v := os.Getenv("CRYPTO_DASH_API_URL"); v != "" {
		cfg.API.BaseURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("CRYPTO_DASH_API_KEY"); v != "" {
		cfg.API.APIKey = v
	}
	if v := os.Getenv("CRYPTO_DASH_LISTEN"); v != "" {
		cfg.Server.Listen = v
	}
	if v := os.Getenv("CRYPTO_DASH_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
