package api

import (
	"os"
	"time"
)

const defaultBaseURL = "http://localhost:8000/api"

// Config holds API client configuration.
type Config struct {
	// BaseURL is the backend root, including the /api prefix.
	BaseURL string

	// Timeout bounds a single request. The transport is the only place a
	// timeout exists; the UI layer deliberately adds none of its own.
	Timeout time.Duration
}

// DefaultConfig returns a Config pointing at a local backend.
func DefaultConfig() Config {
	return Config{
		BaseURL: defaultBaseURL,
		Timeout: 30 * time.Second,
	}
}

// ConfigFromEnv builds a Config from SKILLFORGE_API_URL, falling back to
// defaults for anything unset.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("SKILLFORGE_API_URL"); v != "" {
		cfg.BaseURL = v
	}
	return cfg
}
