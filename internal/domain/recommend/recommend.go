// Package recommend selects ranked recommendations from a servable catalog.
package recommend

import (
	"fmt"
	"sort"
	"strings"

	"github.com/okian/reelrank/internal/domain/catalog"
	"github.com/okian/reelrank/internal/domain/dedupe"
	"github.com/okian/reelrank/internal/domain/model"
	"github.com/okian/reelrank/internal/domain/normalize"
)

// Selector defaults.
const (
	DefaultLimit = 1
	MinRating    = 6.0
)

// Select filters, ranks and deduplicates the records of c for q. A nil or
// empty catalog yields StatusNotReady.
//
// Records whose id is excluded are dropped, as are records rated below
// MinRating or in a different language. A non-empty genre must appear as a
// case-insensitive substring of the genres field. Survivors are ordered by
// rating then vote count, both descending, ties keeping catalog order. The
// walk then skips titles that normalize to empty, titles already emitted and
// titles shared with an excluded record, stopping at q.Limit.
//
// A zero limit means DefaultLimit. A negative limit returns ErrInvalidLimit.
func Select(c *catalog.Catalog, q model.Query) (model.Result, error) {
	if q.Limit < 0 {
		return model.Result{}, fmt.Errorf("limit %d: %w", q.Limit, ErrInvalidLimit)
	}
	limit := q.Limit
	if limit == 0 {
		limit = DefaultLimit
	}

	res := model.Result{
		Recommendations: []model.MergedRecord{},
		Filters:         model.Filters{Genre: q.Genre, Language: q.Language},
		Status:          model.StatusNotReady,
	}
	if c.Len() == 0 {
		return res, nil
	}

	excludedTitles := make(map[string]struct{}, len(q.ExcludedIDs))
	for id := range q.ExcludedIDs {
		if rec, ok := c.Lookup(id); ok {
			excludedTitles[normalize.Title(rec.Title)] = struct{}{}
		}
	}

	genre := strings.ToLower(q.Genre)
	candidates := make([]model.MergedRecord, 0, c.Len())
	for _, rec := range c.Records {
		if q.Excludes(rec.ID) {
			continue
		}
		if rec.RatingAverage < MinRating || rec.Language != q.Language {
			continue
		}
		if genre != "" && !strings.Contains(strings.ToLower(rec.Genres), genre) {
			continue
		}
		candidates = append(candidates, rec)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.RatingAverage != b.RatingAverage {
			return a.RatingAverage > b.RatingAverage
		}
		return a.RatingCount > b.RatingCount
	})

	seen := dedupe.New[string]()
	for _, rec := range candidates {
		title := normalize.Title(rec.Title)
		if title == "" {
			continue
		}
		if _, excluded := excludedTitles[title]; excluded {
			continue
		}
		if seen.SeenAndRecord(title) {
			continue
		}
		res.Recommendations = append(res.Recommendations, rec)
		if len(res.Recommendations) >= limit {
			break
		}
	}

	res.Total = len(res.Recommendations)
	res.Status = model.StatusOK
	if res.Total == 0 {
		res.Status = model.StatusNoMatches
	}
	return res, nil
}
