// Package config loads process configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all runtime configuration for the server process.
type Config struct {
	// Port is the TCP port the HTTP listener binds to.
	Port int `env:"PORT" envDefault:"3000"`

	// DBPath is the filesystem path of the SQLite database.
	DBPath string `env:"DB_PATH" envDefault:"./data/apnakhata.db"`

	// SecretKey signs and verifies bearer tokens. Required.
	SecretKey string `env:"SECRET_KEY,required"`

	// TokenTTL is how long issued tokens remain valid.
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	// CORSOrigin is the origin allowed by the CORS middleware.
	CORSOrigin string `env:"CORS_ORIGIN" envDefault:"*"`

	// LogLevel is the slog level name: debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses configuration from the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
