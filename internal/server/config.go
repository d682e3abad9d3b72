package server

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds HTTP server settings.
type Config struct {
	// Addr is the listen address. Default: ":8080".
	Addr string

	// FunctionKey, when set, must accompany every request as the
	// x-functions-key header or the code query parameter.
	FunctionKey string

	// ExposeUpstreamErrors appends the raw upstream error to 500 bodies.
	ExposeUpstreamErrors bool

	// MaxBodyBytes caps request bodies. Default: 1 MiB.
	MaxBodyBytes int64

	// ShutdownTimeout bounds graceful shutdown. Default: 10s.
	ShutdownTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		MaxBodyBytes:    1 << 20,
		ShutdownTimeout: 10 * time.Second,
	}
}

// ConfigFromEnv builds a Config from GIFTED_* environment variables.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if a := os.Getenv("GIFTED_ADDR"); a != "" {
		cfg.Addr = a
	}
	cfg.FunctionKey = os.Getenv("GIFTED_FUNCTION_KEY")

	if v := os.Getenv("GIFTED_EXPOSE_UPSTREAM_ERRORS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("GIFTED_EXPOSE_UPSTREAM_ERRORS: %w", err)
		}
		cfg.ExposeUpstreamErrors = b
	}

	return cfg, nil
}

// Validate checks the config for values the server cannot run with.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("listen address is required")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max body size must be positive")
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("shutdown timeout must not be negative")
	}
	return nil
}
