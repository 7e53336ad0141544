// Package model contains domain models passed between layers.
package model

import "time"

// Source identifies one of the catalog families the pipeline ingests.
// The set is closed; adapters exist for exactly these values.
type Source string

// Known sources, listed in the order their records are concatenated before
// aggregation. That order decides which contributor wins first-value fields.
const (
	SourceTMDB   Source = "tmdb"
	SourceIndian Source = "indian_movies"
	SourceIMDb   Source = "imdb_top1000"
)

// Sources returns the fixed adapter enumeration order.
func Sources() []Source {
	return []Source{SourceTMDB, SourceIndian, SourceIMDb}
}

// UnknownLanguage is used when a source row carries no usable language.
const UnknownLanguage = "unknown"

// CanonicalRecord is one title from one source after adapter mapping.
type CanonicalRecord struct {
	SourceID      string  // opaque per-adapter id
	Title         string  // display title as the source spells it
	ExternalID    string  // cross-source identifier, may be empty
	RatingAverage float64 // 0-10
	RatingCount   int     // >= 0
	ReleaseYear   int     // 0 when unknown
	ReleaseDate   string
	Language      string // 2-letter code or UnknownLanguage
	Genres        string // comma-joined
	Overview      string
	PosterPath    string
	Source        Source
}

// GroupKey decides whether two canonical records describe the same title.
type GroupKey struct {
	DedupKey    string
	ReleaseYear int
}

// MergedRecord is the reconciled representation of one title.
type MergedRecord struct {
	ID            string  `json:"id"`
	SourceID      string  `json:"source_id"`
	Title         string  `json:"title"`
	ExternalID    string  `json:"external_id"`
	RatingAverage float64 `json:"rating_average"`
	RatingCount   int     `json:"rating_count"`
	ReleaseYear   int     `json:"release_year"`
	ReleaseDate   string  `json:"release_date"`
	Language      string  `json:"language"`
	Genres        string  `json:"genres"`
	Overview      string  `json:"overview"`
	PosterPath    string  `json:"poster_path"`
	Sources       string  `json:"sources"`
	Contributors  int     `json:"contributors"`
}

// Query describes a recommendation request.
type Query struct {
	Genre       string
	Language    string
	ExcludedIDs map[string]struct{}
	Limit       int
}

// Excludes reports whether id is in the exclusion set.
func (q Query) Excludes(id string) bool {
	_, ok := q.ExcludedIDs[id]
	return ok
}

// Status tells callers why a result may be empty.
type Status string

// Result statuses.
const (
	StatusOK        Status = "ok"
	StatusNoMatches Status = "no_matches"
	StatusNotReady  Status = "not_ready"
)

// Filters echoes the filters applied to a result.
type Filters struct {
	Genre    string `json:"genre"`
	Language string `json:"language"`
}

// Result is an ordered recommendation list.
type Result struct {
	Recommendations []MergedRecord
	Total           int
	Filters         Filters
	Status          Status
}

// Interaction is one synthetic (user, movie, rating) observation.
type Interaction struct {
	UserID  int    `json:"user_id"`
	MovieID string `json:"movie_id"`
	Rating  int    `json:"rating"`
}

// Language pairs a supported language code with its display name.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// RebuildRequest asks for a full pipeline re-run.
type RebuildRequest struct {
	ID          string
	Reason      string
	RequestedAt time.Time
}
