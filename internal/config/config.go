package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	log "github.com/sirupsen/logrus"

	"github.com/hperssn/guessgame/internal/domain"
)

type Config struct {
	Addr            string        `env:"GUESSGAME_ADDR" envDefault:":8080"`
	TimerSeconds    int           `env:"GUESSGAME_TIMER_SECONDS" envDefault:"60"`
	TimerExpiry     string        `env:"GUESSGAME_TIMER_EXPIRY" envDefault:"hold"`
	TickInterval    time.Duration `env:"GUESSGAME_TICK_INTERVAL" envDefault:"1s"`
	SessionTTL      time.Duration `env:"GUESSGAME_SESSION_TTL" envDefault:"1h"`
	CleanupInterval time.Duration `env:"GUESSGAME_CLEANUP_INTERVAL" envDefault:"5m"`
	StorageDriver   string        `env:"GUESSGAME_STORAGE_DRIVER"`
	StorageDSN      string        `env:"GUESSGAME_STORAGE_DSN" envDefault:"guessgame.db"`
	LogLevel        string        `env:"GUESSGAME_LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.TimerSeconds <= 0 {
		return fmt.Errorf("timer seconds must be positive, got %d", c.TimerSeconds)
	}
	if _, err := domain.ParseExpiryPolicy(c.TimerExpiry); err != nil {
		return err
	}
	switch c.StorageDriver {
	case "", "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

func (c Config) SessionConfig() domain.SessionConfig {
	return domain.SessionConfig{
		TimerSeconds: c.TimerSeconds,
		Expiry:       domain.ExpiryPolicy(c.TimerExpiry),
	}
}

// ConfigureLogging applies the configured level to the standard logrus logger.
func (c Config) ConfigureLogging() {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
}
