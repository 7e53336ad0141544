// Package scoring turns a title's catalog rating into synthetic 1-5 user
// ratings. Higher-rated titles draw from a band skewed toward 4 and 5.
package scoring

import (
	"math/rand"
)

// Band is a discrete rating distribution used for titles rated at or above
// Floor.
type Band struct {
	Floor   float64
	Ratings []int
	Weights []float64
}

// pick draws one rating from the band using u in [0,1).
func (b Band) pick(u float64) int {
	acc := 0.0
	for i, w := range b.Weights {
		acc += w
		if u < acc {
			return b.Ratings[i]
		}
	}
	return b.Ratings[len(b.Ratings)-1]
}

// DefaultBands returns the bands used when no option overrides them:
// avg >= 8 draws {4,5}, avg >= 7 draws {3,4,5}, everything else {1..5}.
func DefaultBands() []Band {
	return []Band{
		{Floor: 8, Ratings: []int{4, 5}, Weights: []float64{0.3, 0.7}},
		{Floor: 7, Ratings: []int{3, 4, 5}, Weights: []float64{0.2, 0.4, 0.4}},
		{Floor: 0, Ratings: []int{1, 2, 3, 4, 5}, Weights: []float64{0.1, 0.1, 0.2, 0.3, 0.3}},
	}
}

// Option applies a configuration option to the Rater.
type Option func(*Rater)

// WithBands replaces the rating bands. Bands are checked in order, so they
// must be listed from the highest floor down.
func WithBands(bands []Band) Option {
	return func(r *Rater) {
		if len(bands) > 0 {
			r.bands = bands
		}
	}
}

// Rater samples user ratings. It is not safe for concurrent use because it
// owns its random source.
type Rater struct {
	bands []Band
	rng   *rand.Rand
}

// NewRater creates a Rater seeded for reproducible draws.
func NewRater(rng *rand.Rand, opts ...Option) *Rater {
	r := &Rater{
		bands: DefaultBands(),
		rng:   rng,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rate draws a 1-5 rating for a title with the given catalog average.
func (r *Rater) Rate(average float64) int {
	u := r.rng.Float64()
	for _, b := range r.bands {
		if average >= b.Floor {
			return b.pick(u)
		}
	}
	return r.bands[len(r.bands)-1].pick(u)
}
