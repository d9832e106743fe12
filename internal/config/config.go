package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`
	Env  string `env:"ENV" envDefault:"development"`

	// LINE channel
	ChannelSecret      string `env:"LINE_CHANNEL_SECRET"`
	ChannelAccessToken string `env:"LINE_CHANNEL_ACCESS_TOKEN"`
	APIEndpoint        string `env:"LINE_API_ENDPOINT"` // empty means the SDK default

	// Storage
	DatabaseURL string `env:"DATABASE_URL"` // PostgreSQL; SQLite is used when empty
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"./data/bot.db"`
	RedisURL    string `env:"REDIS_URL"`

	MenuTrigger string `env:"MENU_TRIGGER" envDefault:"structure pricing"`

	// ExposeKeywords serves GET /keywords. Stored responses are not secret
	// (any user can add one), but the listing can be turned off.
	ExposeKeywords bool `env:"EXPOSE_KEYWORDS" envDefault:"true"`
}

// Load reads configuration from environment variables.
// In development, it loads from .env file if present.
func Load() (*Config, error) {
	// Load .env file if it exists (for development)
	_ = godotenv.Load()

	return parse()
}

func parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required settings. The channel credentials are required
// in production; development may run without them to serve /health.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT must not be empty")
	}
	if c.Env == "production" {
		if c.ChannelSecret == "" {
			return errors.New("LINE_CHANNEL_SECRET is required in production")
		}
		if c.ChannelAccessToken == "" {
			return errors.New("LINE_CHANNEL_ACCESS_TOKEN is required in production")
		}
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
