// Package probe exercises a running reelrank server and checks the
// recommendation invariants on what it returns.
package probe

import (
	"errors"
	"time"
)

// Probe defaults.
const (
	DefaultBaseURL   = "http://localhost:9080"
	DefaultTimeout   = 10 * time.Second
	DefaultLimit     = 10
	DefaultGenres    = 5
	DefaultWorkers   = 4
	DefaultMinRating = 6.0
)

// Sentinel kinds for probe errors.
var (
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrNotReady         = errors.New("catalog not ready")
	ErrViolations       = errors.New("invariant violations found")
)

// Config holds configuration for a probe run.
type Config struct {
	BaseURL string        // Base URL of the service
	Timeout time.Duration // HTTP request timeout
	Limit   int           // Limit sent with each query
	Genres  int           // Number of genres probed per language, 0 for none
	Workers int           // Number of concurrent queries
}

// DefaultConfig returns the probe defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
		Limit:   DefaultLimit,
		Genres:  DefaultGenres,
		Workers: DefaultWorkers,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.BaseURL == "" {
		c.BaseURL = d.BaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.Limit <= 0 {
		c.Limit = d.Limit
	}
	if c.Genres < 0 {
		c.Genres = 0
	}
	if c.Workers <= 0 {
		c.Workers = d.Workers
	}
	return c
}
