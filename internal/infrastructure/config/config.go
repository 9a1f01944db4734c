// Package config loads daemon configuration from environment variables.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all daemon configuration.
type Config struct {
	Server    ServerConfig
	Sandbox   SandboxConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"BRIDGE_PORT" default:"8750"`
	Host string `envconfig:"BRIDGE_HOST" default:"127.0.0.1"`
}

// SandboxConfig holds sandbox store configuration.
//
// Root is the on-disk directory backing the origin-private store; when empty
// the daemon serves an in-memory store (useful for ephemeral sessions and
// tests). QuotaBytes is the advertised storage quota; zero means the host
// reports no quota and storage estimates carry a null quota.
type SandboxConfig struct {
	Root       string `envconfig:"BRIDGE_SANDBOX_ROOT" default:""`
	Origin     string `envconfig:"BRIDGE_SANDBOX_ORIGIN" default:"default"`
	QuotaBytes uint64 `envconfig:"BRIDGE_SANDBOX_QUOTA_BYTES" default:"10737418240"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"BRIDGE_LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"BRIDGE_LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"BRIDGE_RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"BRIDGE_RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"BRIDGE_RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns defaults.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8750",
			Host: "127.0.0.1",
		},
		Sandbox: SandboxConfig{
			Origin:     "default",
			QuotaBytes: 10 << 30,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}
