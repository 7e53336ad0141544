// Package interactions generates a synthetic interaction log over a catalog.
// Each (user, movie) pair appears at most once.
package interactions

import (
	"math/rand"
	"sort"

	"github.com/okian/reelrank/internal/domain/dedupe"
	"github.com/okian/reelrank/internal/domain/model"
	"github.com/okian/reelrank/internal/domain/scoring"
)

// Default generator settings.
const (
	defaultUsers    = 500
	defaultDraws    = 12000
	defaultPoolSize = 3000
	defaultSeed     = 42
)

// Config controls the generator.
type Config struct {
	Users    int   // user ids are drawn from 1..Users
	Draws    int   // number of draws before duplicate pairs are dropped
	PoolSize int   // only the PoolSize most-voted titles are sampled
	Seed     int64 // fixed seed for reproducible logs
}

// DefaultConfig returns 500 users, 12000 draws over the 3000 most-voted
// titles, seed 42.
func DefaultConfig() Config {
	return Config{
		Users:    defaultUsers,
		Draws:    defaultDraws,
		PoolSize: defaultPoolSize,
		Seed:     defaultSeed,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Users <= 0 {
		c.Users = d.Users
	}
	if c.Draws < 0 {
		c.Draws = 0
	}
	if c.PoolSize <= 0 {
		c.PoolSize = d.PoolSize
	}
	return c
}

type pair struct {
	user  int
	movie string
}

// Generate draws a synthetic interaction log. The same records and config
// always produce the same log.
func Generate(records []model.MergedRecord, cfg Config) []model.Interaction {
	if len(records) == 0 {
		return []model.Interaction{}
	}
	cfg = cfg.withDefaults()

	pool := make([]model.MergedRecord, len(records))
	copy(pool, records)
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].RatingCount > pool[j].RatingCount
	})
	if len(pool) > cfg.PoolSize {
		pool = pool[:cfg.PoolSize]
	}

	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // deterministic seed for reproducible logs
	rater := scoring.NewRater(rng)
	seen := dedupe.New[pair]()

	out := make([]model.Interaction, 0, cfg.Draws)
	for i := 0; i < cfg.Draws; i++ {
		user := rng.Intn(cfg.Users) + 1
		movie := pool[rng.Intn(len(pool))]
		rating := rater.Rate(movie.RatingAverage)
		if seen.SeenAndRecord(pair{user: user, movie: movie.ID}) {
			continue
		}
		out = append(out, model.Interaction{UserID: user, MovieID: movie.ID, Rating: rating})
	}
	return out
}
