// Package config provides configuration for the fleet console.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the console configuration.
type Config struct {
	// Server settings
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`
	WSPort   int `env:"WS_PORT"   envDefault:"8090"`

	// Journal; in-memory by default so nothing outlives the session.
	DatabaseURL string `env:"DATABASE_URL" envDefault:"file:fleetconsole?mode=memory&cache=shared"`

	// Seed data and policy overrides. Empty means the built-in defaults.
	FleetFile  string `env:"FLEET_FILE"`
	PolicyFile string `env:"POLICY_FILE"`

	// Dispatch timing
	StaggerInterval     time.Duration `env:"STAGGER_INTERVAL"      envDefault:"300ms"`
	HighlightDuration   time.Duration `env:"HIGHLIGHT_DURATION"    envDefault:"2500ms"`
	SelectionClearDelay time.Duration `env:"SELECTION_CLEAR_DELAY" envDefault:"2s"`

	// RandomSeed fixes the flavour values; 0 seeds from the clock.
	RandomSeed uint64 `env:"RANDOM_SEED"`

	// WebSocket settings
	PingInterval   time.Duration `env:"WS_PING_INTERVAL"    envDefault:"30s"`
	WriteTimeout   time.Duration `env:"WS_WRITE_TIMEOUT"    envDefault:"10s"`
	ReadTimeout    time.Duration `env:"WS_READ_TIMEOUT"     envDefault:"60s"`
	MaxMessageSize int64         `env:"WS_MAX_MESSAGE_SIZE" envDefault:"65536"`

	// Logging
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges env parsing cannot express.
func (c *Config) Validate() error {
	if c.StaggerInterval < 0 {
		return fmt.Errorf("STAGGER_INTERVAL must not be negative")
	}
	if c.HighlightDuration <= 0 {
		return fmt.Errorf("HIGHLIGHT_DURATION must be positive")
	}
	if c.SelectionClearDelay < 0 {
		return fmt.Errorf("SELECTION_CLEAR_DELAY must not be negative")
	}
	if c.HTTPPort == c.WSPort {
		return fmt.Errorf("HTTP_PORT and WS_PORT must differ")
	}
	return nil
}
