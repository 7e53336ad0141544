package catalog

import (
	"slices"

	"github.com/okian/reelrank/internal/domain/model"
)

// Default servability thresholds.
const (
	DefaultMinRating = 6.0
	DefaultMinVotes  = 2000
	DefaultMinYear   = 1970
)

// Thresholds are the quality and eligibility bounds a merged record must
// meet to be servable.
type Thresholds struct {
	MinRating float64
	MinVotes  int
	MinYear   int
	Languages []string
}

// DefaultThresholds returns rating >= 6.0, votes >= 2000, year >= 1970 and
// languages {en, hi}.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinRating: DefaultMinRating,
		MinVotes:  DefaultMinVotes,
		MinYear:   DefaultMinYear,
		Languages: []string{"en", "hi"},
	}
}

// Allows reports whether rec satisfies every threshold.
func (t Thresholds) Allows(rec model.MergedRecord) bool {
	return rec.RatingAverage >= t.MinRating &&
		rec.RatingCount >= t.MinVotes &&
		rec.ReleaseYear >= t.MinYear &&
		slices.Contains(t.Languages, rec.Language)
}

// Filter returns the records that pass t, preserving their order. Filtering
// its own output again returns the same records.
func Filter(records []model.MergedRecord, t Thresholds) []model.MergedRecord {
	out := make([]model.MergedRecord, 0, len(records))
	for _, rec := range records {
		if t.Allows(rec) {
			out = append(out, rec)
		}
	}
	return out
}
