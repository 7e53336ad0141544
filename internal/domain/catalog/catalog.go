// Package catalog builds and describes the servable movie catalog.
//
// A Catalog is an immutable snapshot: once built it is only read. Rebuilding
// produces a new Catalog value rather than changing an existing one.
package catalog

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/okian/reelrank/internal/domain/aggregate"
	"github.com/okian/reelrank/internal/domain/model"
)

// Stats summarises one pipeline run.
type Stats struct {
	Loaded   map[model.Source]int `json:"loaded"`
	Merged   int                  `json:"merged"`
	Servable int                  `json:"servable"`
}

// Catalog is a servable snapshot.
type Catalog struct {
	Records      []model.MergedRecord `json:"records"`
	Interactions []model.Interaction  `json:"interactions,omitempty"`
	BuiltAt      time.Time            `json:"built_at"`
	Stats        Stats                `json:"stats"`

	byID map[string]int
}

// New wraps records in a Catalog and indexes them by id.
func New(records []model.MergedRecord, builtAt time.Time, stats Stats) *Catalog {
	c := &Catalog{
		Records: records,
		BuiltAt: builtAt,
		Stats:   stats,
	}
	c.reindex()
	return c
}

func (c *Catalog) reindex() {
	c.byID = make(map[string]int, len(c.Records))
	for i, rec := range c.Records {
		c.byID[rec.ID] = i
	}
}

// Restore re-creates the id index of a catalog decoded from storage.
func (c *Catalog) Restore() *Catalog {
	if c.Stats.Loaded == nil {
		c.Stats.Loaded = map[model.Source]int{}
	}
	c.reindex()
	return c
}

// Build runs the reconciliation pipeline. sources holds one record slice per
// adapter, in model.Sources order; that order is the contributor order used
// by the aggregator. A nil or empty slice stands for an unavailable source.
func Build(sources map[model.Source][]model.CanonicalRecord, t Thresholds, now time.Time) *Catalog {
	stats := Stats{Loaded: make(map[model.Source]int, len(sources))}

	total := 0
	for _, recs := range sources {
		total += len(recs)
	}
	all := make([]model.CanonicalRecord, 0, total)
	for _, src := range model.Sources() {
		recs := sources[src]
		stats.Loaded[src] = len(recs)
		all = append(all, recs...)
	}

	merged := aggregate.Aggregate(all)
	servable := Filter(merged, t)
	stats.Merged = len(merged)
	stats.Servable = len(servable)

	return New(servable, now, stats)
}

// WithInteractions returns a copy of c carrying the given interaction log.
// The record slice and index are shared, not copied.
func (c *Catalog) WithInteractions(in []model.Interaction) *Catalog {
	cp := *c
	cp.Interactions = in
	return &cp
}

// Len returns the number of servable records.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Records)
}

// Lookup returns the record with the given id.
func (c *Catalog) Lookup(id string) (model.MergedRecord, bool) {
	if c == nil {
		return model.MergedRecord{}, false
	}
	i, ok := c.byID[id]
	if !ok {
		return model.MergedRecord{}, false
	}
	return c.Records[i], true
}

// Genres returns the sorted set of distinct genre tokens in the catalog.
func (c *Catalog) Genres() []string {
	if c == nil {
		return []string{}
	}
	set := make(map[string]struct{})
	for _, rec := range c.Records {
		for _, g := range strings.Split(rec.Genres, ",") {
			if g = strings.TrimSpace(g); g != "" {
				set[g] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(set))
	for g := range set {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

var supported = []language.Tag{language.English, language.Hindi}

// Languages lists the supported language codes with English display names.
func Languages() []model.Language {
	namer := display.English.Languages()
	out := make([]model.Language, 0, len(supported))
	for _, tag := range supported {
		base, _ := tag.Base()
		out = append(out, model.Language{Code: base.String(), Name: namer.Name(tag)})
	}
	return out
}
