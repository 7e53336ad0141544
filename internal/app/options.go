package service

import (
	"time"

	"github.com/okian/reelrank/internal/adapters/repository"
	"github.com/okian/reelrank/internal/adapters/source"
	"github.com/okian/reelrank/internal/domain/catalog"
	"github.com/okian/reelrank/internal/domain/interactions"
	"github.com/okian/reelrank/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSources sets the adapters the pipeline reads. Order does not matter;
// records are concatenated in model.Sources order.
func WithSources(adapters ...source.Adapter) Option {
	return func(s *Service) {
		s.adapters = adapters
	}
}

// WithThresholds overrides the servable catalog thresholds.
func WithThresholds(t catalog.Thresholds) Option {
	return func(s *Service) {
		s.thresholds = t
	}
}

// WithCache sets the snapshot cache. The service closes it on Stop.
func WithCache(c repository.SnapshotCache) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithInteractionConfig configures the synthetic interaction log.
func WithInteractionConfig(cfg interactions.Config) Option {
	return func(s *Service) {
		s.interactions = cfg
	}
}

// WithQueueSize sets how many rebuild requests may wait.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDefaultLimit sets the limit used when a query leaves it at zero.
func WithDefaultLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.defaultLimit = n
		}
	}
}

// WithMaxLimit caps the recommendation limit.
func WithMaxLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// WithClock replaces time.Now for catalog timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
