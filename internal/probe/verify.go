package probe

import (
	"fmt"
	"slices"
	"strings"

	"github.com/okian/reelrank/internal/domain/model"
	"github.com/okian/reelrank/internal/domain/normalize"
	"github.com/okian/reelrank/internal/domain/types"
)

// Violation is one broken invariant in a response.
type Violation struct {
	Query  string
	Rule   string
	Detail string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s [%s] %s", v.Query, v.Rule, v.Detail)
}

func (q Query) String() string {
	return "/recommendations?" + q.values().Encode()
}

// Verify checks res against the selector's guarantees for q. Titles in
// excludedTitles must not reappear under any id.
func Verify(q Query, res types.Recommendations, excludedTitles ...string) []Violation {
	var out []Violation
	add := func(rule, format string, args ...any) {
		out = append(out, Violation{Query: q.String(), Rule: rule, Detail: fmt.Sprintf(format, args...)})
	}

	recs := res.Recommendations
	if q.Limit > 0 && len(recs) > q.Limit {
		add("limit", "%d results for limit %d", len(recs), q.Limit)
	}
	if res.Total != len(recs) {
		add("total", "total %d but %d results", res.Total, len(recs))
	}
	switch {
	case res.Status == model.StatusOK && len(recs) == 0:
		add("status", "status ok with no results")
	case res.Status != model.StatusOK && len(recs) > 0:
		add("status", "status %s with %d results", res.Status, len(recs))
	}

	banned := make(map[string]struct{}, len(excludedTitles))
	for _, t := range excludedTitles {
		banned[normalize.Title(t)] = struct{}{}
	}
	seen := make(map[string]int, len(recs))
	genre := strings.ToLower(q.Genre)

	for i, m := range recs {
		if i > 0 && ranksBefore(m, recs[i-1]) {
			add("order", "%q (%.1f, %d) ranked after %q (%.1f, %d)",
				m.Title, m.VoteAverage, m.VoteCount, recs[i-1].Title, recs[i-1].VoteAverage, recs[i-1].VoteCount)
		}
		title := normalize.Title(m.Title)
		if title == "" {
			add("title", "result %d has an empty title", i)
		}
		if j, dup := seen[title]; dup {
			add("unique_title", "%q at %d repeats %d", m.Title, i, j)
		} else {
			seen[title] = i
		}
		if _, ok := banned[title]; ok {
			add("excluded_title", "%q shares an excluded title", m.Title)
		}
		if slices.Contains(q.Exclude, m.ID) {
			add("excluded_id", "%s was excluded", m.ID)
		}
		if m.OriginalLanguage != q.Language {
			add("language", "%q is %s", m.Title, m.OriginalLanguage)
		}
		if genre != "" && !strings.Contains(strings.ToLower(m.Genres), genre) {
			add("genre", "%q genres %q lack %q", m.Title, m.Genres, q.Genre)
		}
		if m.VoteAverage < DefaultMinRating {
			add("min_rating", "%q rated %.1f", m.Title, m.VoteAverage)
		}
	}
	return out
}

// ranksBefore reports whether a must come strictly before b.
func ranksBefore(a, b types.Movie) bool {
	if a.VoteAverage != b.VoteAverage {
		return a.VoteAverage > b.VoteAverage
	}
	return a.VoteCount > b.VoteCount
}
