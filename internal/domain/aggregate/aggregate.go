// Package aggregate reconciles canonical records from every source into one
// merged record per group key.
package aggregate

import (
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/reelrank/internal/domain/model"
	"github.com/okian/reelrank/internal/domain/normalize"
)

// catalogNamespace seeds the name-based ids of merged records so the same
// group key always yields the same id.
var catalogNamespace = uuid.MustParse("6b1f8e4c-3a52-4d7e-9c0a-5e2f1d8b7a63")

// ID returns the surrogate id of the merged record built for key.
func ID(key model.GroupKey) string {
	name := key.DedupKey + "\x00" + strconv.Itoa(key.ReleaseYear)
	return uuid.NewSHA1(catalogNamespace, []byte(name)).String()
}

type group struct {
	key        model.GroupKey
	first      model.CanonicalRecord
	ratingSum  float64
	countSum   int
	members    int
	sourceSeen map[model.Source]struct{}
}

func (g *group) add(rec model.CanonicalRecord) {
	g.ratingSum += normalize.ClampRating(rec.RatingAverage)
	if rec.RatingCount > 0 {
		g.countSum += rec.RatingCount
	}
	g.members++
	if rec.Source != "" {
		g.sourceSeen[rec.Source] = struct{}{}
	}
}

func (g *group) merged() model.MergedRecord {
	sources := make([]string, 0, len(g.sourceSeen))
	for s := range g.sourceSeen {
		sources = append(sources, string(s))
	}
	sort.Strings(sources)

	return model.MergedRecord{
		ID:            ID(g.key),
		SourceID:      g.first.SourceID,
		Title:         g.first.Title,
		ExternalID:    strings.TrimSpace(g.first.ExternalID),
		RatingAverage: g.ratingSum / float64(g.members),
		RatingCount:   g.countSum,
		ReleaseYear:   g.key.ReleaseYear,
		ReleaseDate:   g.first.ReleaseDate,
		Language:      g.first.Language,
		Genres:        g.first.Genres,
		Overview:      g.first.Overview,
		PosterPath:    g.first.PosterPath,
		Sources:       strings.Join(sources, ","),
		Contributors:  g.members,
	}
}

// Aggregate groups records by group key and reduces each group to a merged
// record. The input order is the contributor order: the first record of a
// group supplies title, date, language, genres, overview and poster.
// Ratings are averaged without weighting, counts are summed and source
// names are unioned. Groups are emitted in order of first appearance.
func Aggregate(records []model.CanonicalRecord) []model.MergedRecord {
	index := make(map[model.GroupKey]int, len(records))
	groups := make([]*group, 0, len(records))

	for _, rec := range records {
		key := normalize.Key(rec)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, &group{
				key:        key,
				first:      rec,
				sourceSeen: make(map[model.Source]struct{}, 1),
			})
		}
		groups[i].add(rec)
	}

	out := make([]model.MergedRecord, len(groups))
	for i, g := range groups {
		out[i] = g.merged()
	}
	return out
}
