package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL  string `env:"DATABASE_URL"`
	DatabaseName string `env:"DATABASE_NAME"`

	// HTTP configuration
	HTTPAddr   string `env:"HTTP_ADDR" envDefault:":8080"`
	AdminToken string `env:"ADMIN_TOKEN"`

	// Draw configuration
	DrawMaxAttempts int `env:"DRAW_MAX_ATTEMPTS" envDefault:"3"`

	// Localization
	DefaultLocale string `env:"DEFAULT_LOCALE" envDefault:"vi"`

	// NATS configuration (empty URL disables publishing)
	NATSURL           string `env:"NATS_URL"`
	NATSSubjectPrefix string `env:"NATS_SUBJECT_PREFIX" envDefault:"luckydraw"`

	// Discord announcer configuration (empty token disables the announcer)
	DiscordToken     string `env:"DISCORD_TOKEN"`
	DiscordChannelID string `env:"DISCORD_CHANNEL_ID"`

	// Metrics configuration
	MetricsEnabled        bool          `env:"METRICS_ENABLED" envDefault:"false"`
	MetricsExportInterval time.Duration `env:"METRICS_EXPORT_INTERVAL" envDefault:"30s"`
	ServiceName           string        `env:"SERVICE_NAME" envDefault:"luckydraw"`

	// Logging
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Environment
	Environment string `env:"ENVIRONMENT" envDefault:"development"` // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = Load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// Load reads configuration from the environment, preloading a .env file when present
func Load() (*Config, error) {
	// A missing .env file is fine, real deployments inject the environment directly
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Environment == "test" {
		return nil
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.DrawMaxAttempts < 1 {
		return fmt.Errorf("DRAW_MAX_ATTEMPTS must be at least 1, got %d", c.DrawMaxAttempts)
	}
	if c.DiscordToken != "" && c.DiscordChannelID == "" {
		return fmt.Errorf("DISCORD_CHANNEL_ID is required when DISCORD_TOKEN is set")
	}
	return nil
}

// IsProduction reports whether the process runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// NewTestConfig returns a configuration suitable for tests without touching the environment
func NewTestConfig() *Config {
	return &Config{
		HTTPAddr:              ":0",
		DrawMaxAttempts:       3,
		DefaultLocale:         "vi",
		NATSSubjectPrefix:     "luckydraw",
		MetricsExportInterval: 30 * time.Second,
		ServiceName:           "luckydraw-test",
		LogLevel:              "debug",
		Environment:           "test",
	}
}
