package config

// #region imports
import (
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// #endregion

// #region defaults

const (
	DefaultAddr              = ":8080"
	DefaultDBPath            = "faqforge.db"
	DefaultBaseURL           = "https://api.openai.com/v1"
	DefaultModel             = "gpt-4o-mini"
	DefaultMaxAttempts       = 3
	DefaultRequestTimeoutSec = 90
	DefaultGenTimeoutSec     = 30
	DefaultRequestsPerMinute = 60
)

// #endregion

// #region types

// Config holds the application configuration.
type Config struct {
	Addr     string `toml:"addr"`
	DBPath   string `toml:"db_path"`
	LogLevel string `toml:"log_level"`

	Generation Generation `toml:"generation"`
	Learning   Learning   `toml:"learning"`
}

// Generation configures the upstream completion endpoint.
type Generation struct {
	BaseURL           string `toml:"base_url"`
	APIKey            string `toml:"api_key"`
	Model             string `toml:"model"`
	RequestsPerMinute int    `toml:"requests_per_minute"`
	TimeoutSeconds    int    `toml:"timeout_seconds"`
}

// Learning configures the adaptive loop.
type Learning struct {
	MaxAttempts           int `toml:"max_attempts"`
	RequestTimeoutSeconds int `toml:"request_timeout_seconds"`
}

// RequestTimeout returns the per-request wall-clock cap as a duration.
func (l Learning) RequestTimeout() time.Duration {
	return time.Duration(l.RequestTimeoutSeconds) * time.Second
}

// GenTimeout returns the per-call upstream timeout as a duration.
func (g Generation) GenTimeout() time.Duration {
	return time.Duration(g.TimeoutSeconds) * time.Second
}

// #endregion

// #region load

// Load builds the configuration from defaults, an optional TOML file, and
// FAQFORGE_* environment overrides, in that order.
func Load(path string) (Config, error) {
	cfg := Config{
		Addr:     DefaultAddr,
		DBPath:   DefaultDBPath,
		LogLevel: "info",
		Generation: Generation{
			BaseURL:           DefaultBaseURL,
			Model:             DefaultModel,
			RequestsPerMinute: DefaultRequestsPerMinute,
			TimeoutSeconds:    DefaultGenTimeoutSec,
		},
		Learning: Learning{
			MaxAttempts:           DefaultMaxAttempts,
			RequestTimeoutSeconds: DefaultRequestTimeoutSec,
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrapf(err, "read config %s", path)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Wrapf(err, "parse config %s", path)
		}
	}

	applyEnv(&cfg)

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("FAQFORGE_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("FAQFORGE_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("FAQFORGE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("FAQFORGE_BASE_URL"); v != "" {
		cfg.Generation.BaseURL = v
	}
	if v := os.Getenv("FAQFORGE_API_KEY"); v != "" {
		cfg.Generation.APIKey = v
	} else if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Generation.APIKey = v
	}
	if v := os.Getenv("FAQFORGE_MODEL"); v != "" {
		cfg.Generation.Model = v
	}
	if v := os.Getenv("FAQFORGE_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Learning.MaxAttempts = n
		}
	}
}

func validate(cfg Config) error {
	if cfg.Learning.MaxAttempts < 1 {
		return errors.Errorf("learning.max_attempts must be >= 1, got %d", cfg.Learning.MaxAttempts)
	}
	if cfg.Generation.Model == "" {
		return errors.New("generation.model must be set")
	}
	if cfg.Generation.RequestsPerMinute < 1 {
		return errors.Errorf("generation.requests_per_minute must be >= 1, got %d", cfg.Generation.RequestsPerMinute)
	}
	return nil
}

// #endregion
