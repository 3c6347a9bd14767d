// Package config loads and validates the process configuration from the
// environment. The config value is constructed once in main and handed to
// each component's constructor; nothing reads the environment after startup.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

const (
	minSecretLength = 32
	minTTLMinutes   = 1
	maxTTLMinutes   = 1440
)

type Config struct {
	Environment string `env:"APP_ENV" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`

	DatabaseURL string `env:"DATABASE_URL"`

	JWTSecret       string `env:"JWT_SECRET"`
	JWTAlgorithm    string `env:"JWT_ALGORITHM" envDefault:"HS256"`
	TokenTTLMinutes int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"30"`

	SessionSweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"15m"`

	// Bootstrap admin account registered at startup when all three are set.
	SeedAdminUsername string `env:"SEED_ADMIN_USERNAME"`
	SeedAdminEmail    string `env:"SEED_ADMIN_EMAIL"`
	SeedAdminPassword string `env:"SEED_ADMIN_PASSWORD"`
}

// Load parses the environment and rejects configurations that must never
// reach a running process: empty DSN, weak signing secret, unsupported
// algorithm, out-of-range token TTL.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if len(cfg.JWTSecret) < minSecretLength {
		return nil, fmt.Errorf("JWT_SECRET must be at least %d characters, got %d", minSecretLength, len(cfg.JWTSecret))
	}
	if cfg.JWTAlgorithm != "HS256" {
		return nil, fmt.Errorf("unsupported JWT_ALGORITHM %q (only HS256)", cfg.JWTAlgorithm)
	}
	if cfg.TokenTTLMinutes < minTTLMinutes || cfg.TokenTTLMinutes > maxTTLMinutes {
		return nil, fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be in [%d, %d], got %d", minTTLMinutes, maxTTLMinutes, cfg.TokenTTLMinutes)
	}
	if cfg.SessionSweepInterval <= 0 {
		return nil, fmt.Errorf("SESSION_SWEEP_INTERVAL must be positive")
	}
	return cfg, nil
}

// TokenTTL is the default lifetime applied to both the session row and the
// signed token at issuance.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLMinutes) * time.Minute
}
