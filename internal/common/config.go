// Package common provides shared utilities for Attest
package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for the Attest threshold engine
type Config struct {
	Environment string         `toml:"environment"`
	Preview     PreviewConfig  `toml:"preview"`
	Defaults    DefaultsConfig `toml:"defaults"`
	Logging     LoggingConfig  `toml:"logging"`
}

// PreviewConfig holds remote preview echo endpoint configuration
type PreviewConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"` // requests per second
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *PreviewConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// DefaultsConfig locates the practice-defaults settings file. An empty
// path means built-in defaults are used.
type DefaultsConfig struct {
	Path string `toml:"path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Preview: PreviewConfig{
			BaseURL:   "https://api.attest.dev/v1/preview",
			RateLimit: 5,
			Timeout:   "10s",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("ATTEST_ENV"); env != "" {
		config.Environment = env
	}

	if level := os.Getenv("ATTEST_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if url := os.Getenv("ATTEST_PREVIEW_URL"); url != "" {
		config.Preview.BaseURL = url
	}

	if rl := os.Getenv("ATTEST_PREVIEW_RATE_LIMIT"); rl != "" {
		if n, err := strconv.Atoi(rl); err == nil && n > 0 {
			config.Preview.RateLimit = n
		}
	}

	if timeout := os.Getenv("ATTEST_PREVIEW_TIMEOUT"); timeout != "" {
		config.Preview.Timeout = timeout
	}

	if path := os.Getenv("ATTEST_DEFAULTS_PATH"); path != "" {
		config.Defaults.Path = path
	}
}
