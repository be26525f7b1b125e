// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. A local '.env' file,
when present, is loaded first with 'joho/godotenv'; real environment variables
always win over the file.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// # Configuration Schema

// Config holds all runtime configuration for the library API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"3000"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`
	APIVersion  string `env:"API_VERSION"  envDefault:"v1"`
	AppVersion  string `env:"APP_VERSION"  envDefault:"1.0.0"`

	// Relational Database (PostgreSQL)
	DatabaseURL      string        `env:"DATABASE_URL,required,notEmpty"`
	DBMaxConns       int32         `env:"DB_MAX_CONNS"       envDefault:"10"`
	DBMinConns       int32         `env:"DB_MIN_CONNS"       envDefault:"2"`
	DBAcquireTimeout time.Duration `env:"DB_ACQUIRE_TIMEOUT" envDefault:"5s"`

	// MigrateOnStart applies the embedded schema migrations before serving.
	MigrateOnStart bool `env:"MIGRATE_ON_START" envDefault:"true"`

	// Key-Value store (Redis). Optional; enables the shared rate limiter.
	RedisURL string `env:"REDIS_URL"`

	// Rate limiting (per client IP, fixed window)
	RateLimitWindow      time.Duration `env:"RATE_LIMIT_WINDOW"       envDefault:"15m"`
	RateLimitMaxRequests int           `env:"RATE_LIMIT_MAX_REQUESTS" envDefault:"100"`

	// TrustProxy honours X-Forwarded-For and X-Real-IP for the client address.
	// Enable only when a reverse proxy rewrites those headers; otherwise
	// clients could pick their own rate limit key.
	TrustProxy bool `env:"TRUST_PROXY" envDefault:"false"`

	// Cross-Origin Resource Sharing, comma separated. "*" allows any origin.
	CORSOrigin string `env:"CORS_ORIGIN" envDefault:"*"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Pick up a local .env file if there is one. A missing file is not an error.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read .env file: %w", err)
	}

	// Initialize an empty config struct
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.RateLimitMaxRequests <= 0 || cfg.RateLimitWindow <= 0 {
		return nil, errors.New("config: RATE_LIMIT_MAX_REQUESTS and RATE_LIMIT_WINDOW must be positive")
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// APIPrefix returns the versioned route prefix, e.g. "/api/v1".
func (c *Config) APIPrefix() string {
	return "/api/" + c.APIVersion
}

// AllowedOrigins splits [Config.CORSOrigin] into its individual origins.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.CORSOrigin, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
