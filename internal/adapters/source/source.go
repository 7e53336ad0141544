// Package source maps the raw catalog exports into canonical records.
//
// Three adapters exist, one per source family: the TMDB movie dataset, the
// Indian movies export and the IMDb Top-1000 export. Each adapter is
// independent; LoadAll runs them concurrently and returns their output keyed
// by source so the caller can concatenate in the fixed model.Sources order.
package source

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/okian/reelrank/internal/domain/model"
	"github.com/okian/reelrank/internal/domain/normalize"
	"github.com/okian/reelrank/pkg/logger"
	"github.com/okian/reelrank/pkg/metrics"
)

// Adapter produces canonical records for one source.
type Adapter interface {
	Name() model.Source
	Load(ctx context.Context) ([]model.CanonicalRecord, error)
}

// TMDB pre-filter defaults, matching the servable thresholds.
const (
	defaultPrefilterRating = 6.0
	defaultPrefilterVotes  = 2000
)

// Option applies a configuration option to the TMDB adapter.
type Option func(*tmdbOptions)

type tmdbOptions struct {
	prefilter bool
	minRating float64
	minVotes  int
}

// WithPrefilter drops TMDB rows below the given rating or vote count while
// reading. The TMDB export is large; most rows never become servable.
func WithPrefilter(minRating float64, minVotes int) Option {
	return func(o *tmdbOptions) {
		o.prefilter = true
		o.minRating = minRating
		o.minVotes = minVotes
	}
}

// WithoutPrefilter keeps every TMDB row.
func WithoutPrefilter() Option {
	return func(o *tmdbOptions) {
		o.prefilter = false
	}
}

// NewTMDB returns the adapter for the TMDB movie dataset. Columns: id,
// title, vote_average, vote_count, release_date, original_language, genres,
// overview, poster_path, imdb_id.
func NewTMDB(path string, opts ...Option) *CSVAdapter {
	o := tmdbOptions{prefilter: true, minRating: defaultPrefilterRating, minVotes: defaultPrefilterVotes}
	for _, opt := range opts {
		opt(&o)
	}

	return &CSVAdapter{
		source: model.SourceTMDB,
		path:   path,
		mapRow: func(r row, _ int) (model.CanonicalRecord, bool) {
			rating := normalize.Rating(r.get("vote_average"))
			votes := normalize.Votes(r.get("vote_count"))
			if o.prefilter && (rating < o.minRating || votes < o.minVotes) {
				return model.CanonicalRecord{}, false
			}
			date := r.get("release_date")
			return model.CanonicalRecord{
				SourceID:      r.get("id"),
				Title:         r.get("title"),
				ExternalID:    r.get("imdb_id"),
				RatingAverage: rating,
				RatingCount:   votes,
				ReleaseYear:   normalize.Year(date),
				ReleaseDate:   date,
				Language:      normalize.Language(r.get("original_language")),
				Genres:        r.get("genres"),
				Overview:      r.get("overview"),
				PosterPath:    r.get("poster_path"),
			}, true
		},
	}
}

// NewIndian returns the adapter for the Indian movies export. Columns: ID,
// Movie Name, Year, Genre, Rating(10), Votes, Language.
func NewIndian(path string) *CSVAdapter {
	return &CSVAdapter{
		source: model.SourceIndian,
		path:   path,
		mapRow: func(r row, index int) (model.CanonicalRecord, bool) {
			id := r.get("ID")
			sourceID := "indian_" + id
			if id == "" {
				sourceID = "indian_row_" + strconv.Itoa(index)
			}
			genres := r.get("Genre")
			if genres == "" {
				genres = "Unknown"
			}
			year := normalize.Year(r.get("Year"))
			return model.CanonicalRecord{
				SourceID:      sourceID,
				Title:         r.get("Movie Name"),
				ExternalID:    id,
				RatingAverage: normalize.Rating(r.get("Rating(10)")),
				RatingCount:   normalize.Votes(r.get("Votes")),
				ReleaseYear:   year,
				ReleaseDate:   yearDate(year),
				Language:      normalize.Language(r.get("Language")),
				Genres:        genres,
			}, true
		},
	}
}

// NewIMDb returns the adapter for the IMDb Top-1000 export. Columns:
// Series_Title, Released_Year, Genre, IMDB_Rating, Overview, No_of_Votes,
// Poster_Link. The export carries no identifier and is English only.
func NewIMDb(path string) *CSVAdapter {
	return &CSVAdapter{
		source: model.SourceIMDb,
		path:   path,
		mapRow: func(r row, index int) (model.CanonicalRecord, bool) {
			year := normalize.Year(r.get("Released_Year"))
			return model.CanonicalRecord{
				SourceID:      "imdb_" + strconv.Itoa(index),
				Title:         r.get("Series_Title"),
				RatingAverage: normalize.Rating(r.get("IMDB_Rating")),
				RatingCount:   normalize.Votes(r.get("No_of_Votes")),
				ReleaseYear:   year,
				ReleaseDate:   yearDate(year),
				Language:      "en",
				Genres:        r.get("Genre"),
				Overview:      r.get("Overview"),
				PosterPath:    r.get("Poster_Link"),
			}, true
		},
	}
}

func yearDate(year int) string {
	if year <= 0 {
		return ""
	}
	return strconv.Itoa(year) + "-01-01"
}

// LoadAll runs every adapter concurrently. A failing adapter is logged and
// contributes no records; it never fails the whole load.
func LoadAll(ctx context.Context, log logger.Logger, adapters ...Adapter) map[model.Source][]model.CanonicalRecord {
	results := make([][]model.CanonicalRecord, len(adapters))

	var wg sync.WaitGroup
	for i, a := range adapters {
		wg.Add(1)
		go func(i int, a Adapter) {
			defer wg.Done()
			start := time.Now()
			recs, err := a.Load(ctx)
			ms := float64(time.Since(start).Milliseconds())
			if err != nil {
				metrics.RecordErrorByComponent("source", string(a.Name()))
				log.Warn(ctx, "source unavailable; continuing without it",
					logger.String("source", string(a.Name())),
					logger.Error(err),
				)
				recs = nil
			}
			if len(recs) == 0 && err == nil {
				log.Warn(ctx, "source produced no records", logger.String("source", string(a.Name())))
			}
			metrics.RecordSourceLoad(string(a.Name()), len(recs), ms)
			results[i] = recs
		}(i, a)
	}
	wg.Wait()

	out := make(map[model.Source][]model.CanonicalRecord, len(adapters))
	for i, a := range adapters {
		out[a.Name()] = append(out[a.Name()], results[i]...)
	}
	return out
}
