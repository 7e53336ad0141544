// Package types contains the wire shapes shared by the HTTP API and the CLI.
package types

import (
	"github.com/okian/reelrank/internal/domain/model"
)

// Movie is one recommended title as clients see it.
type Movie struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	ReleaseDate      string  `json:"release_date"`
	Overview         string  `json:"overview"`
	Genres           string  `json:"genres"`
	OriginalLanguage string  `json:"original_language"`
	PosterPath       string  `json:"poster_path"`
	Sources          string  `json:"sources"`
}

// Recommendations is the body of GET /recommendations.
type Recommendations struct {
	Success         bool          `json:"success"`
	Status          model.Status  `json:"status"`
	Recommendations []Movie       `json:"recommendations"`
	Total           int           `json:"total"`
	Filters         model.Filters `json:"filters"`
}

// Genres is the body of GET /genres.
type Genres struct {
	Success bool     `json:"success"`
	Genres  []string `json:"genres"`
}

// Languages is the body of GET /languages.
type Languages struct {
	Success   bool             `json:"success"`
	Languages []model.Language `json:"languages"`
}

// Stats is the body of GET /stats.
type Stats struct {
	Ready        bool           `json:"ready"`
	BuiltAt      string         `json:"built_at,omitempty"`
	Loaded       map[string]int `json:"loaded"`
	Merged       int            `json:"merged"`
	Servable     int            `json:"servable"`
	Interactions int            `json:"interactions"`
}

// RebuildAccepted is the body of an accepted POST /rebuild.
type RebuildAccepted struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// FromRecord maps a merged record onto the wire shape.
func FromRecord(rec model.MergedRecord) Movie {
	return Movie{
		ID:               rec.ID,
		Title:            rec.Title,
		VoteAverage:      rec.RatingAverage,
		VoteCount:        rec.RatingCount,
		ReleaseDate:      rec.ReleaseDate,
		Overview:         rec.Overview,
		Genres:           rec.Genres,
		OriginalLanguage: rec.Language,
		PosterPath:       rec.PosterPath,
		Sources:          rec.Sources,
	}
}

// FromResult maps a selector result onto the response body.
func FromResult(res model.Result) Recommendations {
	movies := make([]Movie, 0, len(res.Recommendations))
	for _, rec := range res.Recommendations {
		movies = append(movies, FromRecord(rec))
	}
	return Recommendations{
		Success:         true,
		Status:          res.Status,
		Recommendations: movies,
		Total:           res.Total,
		Filters:         res.Filters,
	}
}
