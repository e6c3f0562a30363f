package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the client settings.
type Config struct {
	APIBase           string        `env:"API_BASE"`
	RequestTimeout    time.Duration `env:"REQUEST_TIMEOUT"`
	RequestsPerSecond float64       `env:"REQUESTS_PER_SECOND"`
	Burst             int           `env:"BURST"`
	SyncInterval      time.Duration `env:"SYNC_INTERVAL"`
	LogLevel          string        `env:"LOG_LEVEL"`
	LogFormat         string        `env:"LOG_FORMAT"`
	LogFile           string        `env:"LOG_FILE"`
	SessionDir        string        `env:"SESSION_DIR"`
}

const (
	envPrefix = "POKEDEX_"

	defaultConfigPath        = "~/.config/pokedex/config.toml"
	defaultAPIBase           = "http://127.0.0.1:8080"
	defaultRequestTimeout    = 5 * time.Second
	defaultRequestsPerSecond = 10
	defaultBurst             = 5
	defaultSyncInterval      = 30 * time.Second
	defaultLogLevel          = "info"
	defaultLogFormat         = "console"
	defaultLogFile           = "~/.local/state/pokedex/pokedex.log"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIBase:           defaultAPIBase,
		RequestTimeout:    defaultRequestTimeout,
		RequestsPerSecond: defaultRequestsPerSecond,
		Burst:             defaultBurst,
		SyncInterval:      defaultSyncInterval,
		LogLevel:          defaultLogLevel,
		LogFormat:         defaultLogFormat,
		LogFile:           mustExpand(defaultLogFile),
	}
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Load reads the config file at path (default path when empty), then applies
// POKEDEX_* environment overrides, including any from a .env file in the
// working directory. A missing file yields defaults.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := loadFile(resolved, &cfg); err != nil {
		return Config{}, err
	}

	_ = godotenv.Load()
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	cfg.normalize()
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIBase           string   `toml:"api_base"`
		RequestTimeout    string   `toml:"request_timeout"`
		RequestsPerSecond *float64 `toml:"requests_per_second"`
		Burst             *int     `toml:"burst"`
		SyncInterval      string   `toml:"sync_interval"`
		LogLevel          string   `toml:"log_level"`
		LogFormat         string   `toml:"log_format"`
		LogFile           string   `toml:"log_file"`
		SessionDir        string   `toml:"session_dir"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIBase); v != "" {
		cfg.APIBase = v
	}
	if v := strings.TrimSpace(raw.RequestTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse request_timeout: %w", err)
		}
		cfg.RequestTimeout = d
	}
	if raw.RequestsPerSecond != nil {
		cfg.RequestsPerSecond = *raw.RequestsPerSecond
	}
	if raw.Burst != nil {
		cfg.Burst = *raw.Burst
	}
	if v := strings.TrimSpace(raw.SyncInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse sync_interval: %w", err)
		}
		cfg.SyncInterval = d
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(raw.LogFormat); v != "" {
		cfg.LogFormat = v
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = v
	}
	if v := strings.TrimSpace(raw.SessionDir); v != "" {
		cfg.SessionDir = v
	}
	return nil
}

// normalize replaces out-of-range values with defaults and expands paths.
func (c *Config) normalize() {
	c.APIBase = strings.TrimSpace(c.APIBase)
	if c.APIBase == "" {
		c.APIBase = defaultAPIBase
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = defaultRequestTimeout
	}
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = defaultRequestsPerSecond
	}
	if c.Burst < 1 {
		c.Burst = defaultBurst
	}
	if c.SyncInterval < 0 {
		c.SyncInterval = 0
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	if c.LogFormat != "json" && c.LogFormat != "console" {
		c.LogFormat = defaultLogFormat
	}
	if strings.TrimSpace(c.LogFile) == "" {
		c.LogFile = defaultLogFile
	}
	c.LogFile = mustExpand(c.LogFile)
	if strings.TrimSpace(c.SessionDir) != "" {
		c.SessionDir = mustExpand(c.SessionDir)
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
