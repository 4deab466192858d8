package config

import (
	"fmt"
	"time"
)

// Config holds runtime settings for the gophtodo CLI.
type Config struct {
	DBPath        string        `env:"DB_PATH"`
	ToastDuration time.Duration `env:"TOAST_DURATION"`
	LogLevel      string        `env:"LOG_LEVEL"`
	SeedDemo      bool          `env:"SEED_DEMO"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DBPath = "todo.db"
	c.ToastDuration = 3 * time.Second
	c.LogLevel = "info"
	c.SeedDemo = true
}

// LoadConfig applies defaults, then the config file, environment and flags.
// Later sources take precedence over earlier ones.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseFile(cfg); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}
	if err := parseEnv(cfg); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	if err := parseFlags(cfg); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	return cfg, nil
}
