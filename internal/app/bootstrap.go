package service

import (
	"fmt"

	"github.com/okian/reelrank/internal/adapters/repository"
	"github.com/okian/reelrank/internal/adapters/source"
	"github.com/okian/reelrank/internal/config"
	"github.com/okian/reelrank/internal/domain/catalog"
	"github.com/okian/reelrank/internal/domain/interactions"
	"github.com/okian/reelrank/pkg/logger"
)

// SourcesFromConfig builds the three CSV adapters from configured paths.
func SourcesFromConfig(cfg *config.Config) []source.Adapter {
	var tmdbOpts []source.Option
	if cfg.TMDBPrefilter {
		tmdbOpts = append(tmdbOpts, source.WithPrefilter(cfg.MinRating, cfg.MinVotes))
	} else {
		tmdbOpts = append(tmdbOpts, source.WithoutPrefilter())
	}
	return []source.Adapter{
		source.NewTMDB(cfg.TMDBPath, tmdbOpts...),
		source.NewIndian(cfg.IndianPath),
		source.NewIMDb(cfg.IMDbPath),
	}
}

// CacheFromConfig opens the badger snapshot cache, or a no-op cache when
// caching is disabled.
func CacheFromConfig(cfg *config.Config) (repository.SnapshotCache, error) {
	if !cfg.CacheEnabled {
		return repository.NopCache{}, nil
	}
	c, err := repository.NewBadgerCache(cfg.CacheDir,
		repository.WithMaxAge(cfg.CacheMaxAge),
		repository.WithLogger(logger.Get().Named("cache")),
	)
	if err != nil {
		return nil, fmt.Errorf("snapshot cache: %w", err)
	}
	return c, nil
}

// FromConfig assembles a Service from process configuration. Extra options
// are applied last.
func FromConfig(cfg *config.Config, opts ...Option) (*Service, error) {
	cache, err := CacheFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	base := []Option{
		WithSources(SourcesFromConfig(cfg)...),
		WithCache(cache),
		WithThresholds(catalog.Thresholds{
			MinRating: cfg.MinRating,
			MinVotes:  cfg.MinVotes,
			MinYear:   cfg.MinYear,
			Languages: cfg.Languages,
		}),
		WithInteractionConfig(interactions.Config{
			Users:    cfg.InteractionUsers,
			Draws:    cfg.InteractionCount,
			PoolSize: cfg.InteractionPool,
			Seed:     cfg.InteractionSeed,
		}),
		WithQueueSize(cfg.RebuildQueueSize),
		WithDefaultLimit(cfg.DefaultLimit),
		WithMaxLimit(cfg.MaxLimit),
	}
	return New(append(base, opts...)...), nil
}
