package repository

import (
	"time"

	"github.com/okian/reelrank/pkg/logger"
)

// DefaultMaxAge is how long a cached catalog stays fresh.
const DefaultMaxAge = 24 * time.Hour

// Option applies a configuration option to the BadgerCache.
type Option func(*BadgerCache)

// WithMaxAge sets the staleness window and the entry TTL.
func WithMaxAge(d time.Duration) Option {
	return func(c *BadgerCache) {
		if d > 0 {
			c.maxAge = d
		}
	}
}

// WithInMemory keeps the cache in memory; the directory is ignored.
func WithInMemory() Option {
	return func(c *BadgerCache) {
		c.inMemory = true
	}
}

// WithClock replaces time.Now for freshness checks.
func WithClock(now func() time.Time) Option {
	return func(c *BadgerCache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger routes badger's own logging through log.
func WithLogger(log logger.Logger) Option {
	return func(c *BadgerCache) {
		c.log = log
	}
}
