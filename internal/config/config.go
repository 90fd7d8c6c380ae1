// Package config loads the family safe server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/mmynk/familysafe/internal/models"
)

// ErrMissingSecret is returned when no JWT signing secret is configured.
var ErrMissingSecret = errors.New("FAMILYSAFE_JWT_SECRET is required")

// Config controls the server.
type Config struct {
	Port            int           `env:"FAMILYSAFE_PORT"               envDefault:"8080"`
	DBPath          string        `env:"FAMILYSAFE_DB_PATH"            envDefault:"./data/familysafe.db"`
	FoundingMembers []string      `env:"FAMILYSAFE_FOUNDING_MEMBERS"   envSeparator:","`
	JWTSecret       string        `env:"FAMILYSAFE_JWT_SECRET"`
	TokenTTL        time.Duration `env:"FAMILYSAFE_TOKEN_TTL"          envDefault:"24h"`
	PayoutURL       string        `env:"FAMILYSAFE_PAYOUT_WEBHOOK_URL"`
	PayoutTimeout   time.Duration `env:"FAMILYSAFE_PAYOUT_TIMEOUT"     envDefault:"10s"`
	LogLevel        string        `env:"LOG_LEVEL"                     envDefault:"info"`
}

// Load parses the environment into a Config and validates it.
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

// Validate checks settings that have no usable default.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return ErrMissingSecret
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("invalid token ttl %s", c.TokenTTL)
	}
	return nil
}

// Founders returns the founding member list as addresses, trimmed, skipping blanks.
func (c Config) Founders() []models.Address {
	out := make([]models.Address, 0, len(c.FoundingMembers))
	for _, m := range c.FoundingMembers {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		out = append(out, models.Address(m))
	}
	return out
}
