// Package config loads process environment once at startup. Absence of
// DATABASE_URL is fatal at startup per spec.md §6.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config is the process-wide environment, loaded exactly once (spec.md §5
// "Shared-resource policy").
type Config struct {
	DatabaseURL       string
	AuthSecret        string
	CORSAllowedOrigin string
	Env               string // RUST_ENV: "production" selects Info-level logging, anything else Debug; the log format is the same either way
}

// Load reads a .env file if present (missing is not an error — production
// deployments set real env vars) and then the process environment,
// returning an error if a required variable is absent.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("config: DATABASE_URL is required")
	}
	authSecret := os.Getenv("AUTH_SECRET")
	if authSecret == "" {
		return nil, fmt.Errorf("config: AUTH_SECRET is required")
	}

	return &Config{
		DatabaseURL:       dbURL,
		AuthSecret:        authSecret,
		CORSAllowedOrigin: os.Getenv("CORS_ALLOWED_ORIGIN"),
		Env:               os.Getenv("RUST_ENV"),
	}, nil
}

// IsProduction reports whether RUST_ENV is "production", which selects
// Info-level rather than Debug-level logging. It does not change the log
// output format.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
