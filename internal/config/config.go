// Package config defines service configuration and its layered loader.
package config

import (
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"omitempty,oneof=debug info warn warning error"`

	// LogFormat selects the slog handler: text or json.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr" validate:"required"`

	// Source export locations. An empty or missing path is an unavailable source.
	TMDBPath   string `koanf:"tmdb_path"`
	IndianPath string `koanf:"indian_path"`
	IMDbPath   string `koanf:"imdb_path"`

	// TMDBPrefilter drops weak TMDB rows while reading.
	TMDBPrefilter bool `koanf:"tmdb_prefilter"`

	// Snapshot cache.
	CacheEnabled bool          `koanf:"cache_enabled"`
	CacheDir     string        `koanf:"cache_dir" validate:"required_if=CacheEnabled true"`
	CacheMaxAge  time.Duration `koanf:"cache_max_age" validate:"gt=0"`

	// Servable catalog thresholds.
	MinRating float64  `koanf:"min_rating" validate:"gte=0,lte=10"`
	MinVotes  int      `koanf:"min_votes" validate:"gte=0"`
	MinYear   int      `koanf:"min_year" validate:"gte=0"`
	Languages []string `koanf:"languages" validate:"min=1,dive,len=2"`

	// Recommendation limits.
	DefaultLimit int `koanf:"default_limit" validate:"gte=1"`
	MaxLimit     int `koanf:"max_limit" validate:"gtefield=DefaultLimit"`

	// Rebuild queue capacity and HTTP rate.
	RebuildQueueSize int `koanf:"rebuild_queue_size" validate:"gte=1"`
	RebuildPerMinute int `koanf:"rebuild_per_minute" validate:"gte=1"`

	// Synthetic interaction log.
	InteractionUsers int   `koanf:"interaction_users" validate:"gte=1"`
	InteractionCount int   `koanf:"interaction_count" validate:"gte=0"`
	InteractionPool  int   `koanf:"interaction_pool" validate:"gte=1"`
	InteractionSeed  int64 `koanf:"interaction_seed"`
}

// New returns a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		TMDBPath:         "data/tmdb_movies.csv",
		IndianPath:       "data/indian_movies.csv",
		IMDbPath:         "data/imdb_top_1000.csv",
		TMDBPrefilter:    true,
		CacheEnabled:     true,
		CacheDir:         "data/cache",
		CacheMaxAge:      24 * time.Hour,
		MinRating:        6.0,
		MinVotes:         2000,
		MinYear:          1970,
		Languages:        []string{"en", "hi"},
		DefaultLimit:     1,
		MaxLimit:         50,
		RebuildQueueSize: 1,
		RebuildPerMinute: 2,
		InteractionUsers: 500,
		InteractionCount: 12000,
		InteractionPool:  3000,
		InteractionSeed:  42,
	}
}
