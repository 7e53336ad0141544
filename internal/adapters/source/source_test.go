package source_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/reelrank/internal/adapters/source"
	"github.com/okian/reelrank/internal/domain/model"
	"github.com/okian/reelrank/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const tmdbCSV = `id,title,vote_average,vote_count,status,release_date,revenue,original_language,genres,overview,poster_path,imdb_id
27205,Inception,8.364,34495,Released,2010-07-15,825532764,en,"Action, Science Fiction, Adventure","Cobb, a skilled thief...",/oYuLEt3zVCKq57qu2F8dT7NIa6f.jpg,tt1375666
1,Tiny,9.1,12,Released,2001-01-01,0,en,Drama,,,
2,Broken,abc,5000,Released,not-a-date,0,fr,Drama,,,
`

const indianCSV = `ID,Movie Name,Year,Timing(min),Rating(10),Votes,Genre,Language
tt0112870,Dilwale Dulhania Le Jayenge,1995,189,8.0,"63,000","Drama, Romance",Hindi
tt9999999,Unrated,2019,120,-,-,,Tamil
`

const imdbCSV = `Poster_Link,Series_Title,Released_Year,Certificate,Runtime,Genre,IMDB_Rating,Overview,Meta_score,Director,No_of_Votes,Gross
https://img/1.jpg,The Shawshank Redemption,1994,A,142 min,Drama,9.3,Two imprisoned men...,80,Frank Darabont,2343110,"28,341,469"
https://img/2.jpg,Apollo 13,PG,U,140 min,"Adventure, Drama, History",7.6,NASA must devise...,77,Ron Howard,269197,"173,837,933"
`

func TestTMDB(t *testing.T) {
	Convey("Given a TMDB export", t, func() {
		ctx := context.Background()

		Convey("When reading with the default pre-filter", func() {
			recs, err := source.NewTMDB("").Read(ctx, strings.NewReader(tmdbCSV))

			Convey("Then low-vote and unparseable rows are dropped", func() {
				So(err, ShouldBeNil)
				So(recs, ShouldHaveLength, 1)
			})

			Convey("Then the row maps onto the canonical shape", func() {
				r := recs[0]
				So(r.SourceID, ShouldEqual, "27205")
				So(r.Title, ShouldEqual, "Inception")
				So(r.ExternalID, ShouldEqual, "tt1375666")
				So(r.RatingAverage, ShouldEqual, 8.364)
				So(r.RatingCount, ShouldEqual, 34495)
				So(r.ReleaseYear, ShouldEqual, 2010)
				So(r.ReleaseDate, ShouldEqual, "2010-07-15")
				So(r.Language, ShouldEqual, "en")
				So(r.Genres, ShouldEqual, "Action, Science Fiction, Adventure")
				So(r.PosterPath, ShouldEqual, "/oYuLEt3zVCKq57qu2F8dT7NIa6f.jpg")
				So(r.Source, ShouldEqual, model.SourceTMDB)
			})
		})

		Convey("When reading without the pre-filter", func() {
			recs, err := source.NewTMDB("", source.WithoutPrefilter()).Read(ctx, strings.NewReader(tmdbCSV))

			Convey("Then malformed fields default to zero instead of failing", func() {
				So(err, ShouldBeNil)
				So(recs, ShouldHaveLength, 3)
				So(recs[2].RatingAverage, ShouldEqual, 0)
				So(recs[2].ReleaseYear, ShouldEqual, 0)
				So(recs[2].Language, ShouldEqual, "fr")
			})
		})

		Convey("When the input is empty", func() {
			recs, err := source.NewTMDB("").Read(ctx, strings.NewReader(""))

			Convey("Then there are no records and no error", func() {
				So(err, ShouldBeNil)
				So(recs, ShouldBeEmpty)
			})
		})
	})
}

func TestIndian(t *testing.T) {
	Convey("Given an Indian movies export", t, func() {
		recs, err := source.NewIndian("").Read(context.Background(), strings.NewReader(indianCSV))
		So(err, ShouldBeNil)
		So(recs, ShouldHaveLength, 2)

		Convey("Then ids, votes and language are mapped", func() {
			r := recs[0]
			So(r.SourceID, ShouldEqual, "indian_tt0112870")
			So(r.ExternalID, ShouldEqual, "tt0112870")
			So(r.Title, ShouldEqual, "Dilwale Dulhania Le Jayenge")
			So(r.RatingAverage, ShouldEqual, 8.0)
			So(r.RatingCount, ShouldEqual, 63000)
			So(r.ReleaseYear, ShouldEqual, 1995)
			So(r.ReleaseDate, ShouldEqual, "1995-01-01")
			So(r.Language, ShouldEqual, "hi")
			So(r.Source, ShouldEqual, model.SourceIndian)
		})

		Convey("Then placeholders default rather than fail", func() {
			r := recs[1]
			So(r.RatingAverage, ShouldEqual, 0)
			So(r.RatingCount, ShouldEqual, 0)
			So(r.Genres, ShouldEqual, "Unknown")
			So(r.Language, ShouldEqual, model.UnknownLanguage)
		})
	})
}

func TestIMDb(t *testing.T) {
	Convey("Given an IMDb Top-1000 export", t, func() {
		recs, err := source.NewIMDb("").Read(context.Background(), strings.NewReader(imdbCSV))
		So(err, ShouldBeNil)
		So(recs, ShouldHaveLength, 2)

		Convey("Then rows are English, unidentified and indexed", func() {
			r := recs[0]
			So(r.SourceID, ShouldEqual, "imdb_0")
			So(r.ExternalID, ShouldBeEmpty)
			So(r.Language, ShouldEqual, "en")
			So(r.RatingAverage, ShouldEqual, 9.3)
			So(r.RatingCount, ShouldEqual, 2343110)
			So(r.ReleaseYear, ShouldEqual, 1994)
			So(r.PosterPath, ShouldEqual, "https://img/1.jpg")
			So(r.Source, ShouldEqual, model.SourceIMDb)
		})

		Convey("Then an unparseable year is unknown", func() {
			So(recs[1].SourceID, ShouldEqual, "imdb_1")
			So(recs[1].ReleaseYear, ShouldEqual, 0)
			So(recs[1].ReleaseDate, ShouldBeEmpty)
		})
	})
}

func TestLoad(t *testing.T) {
	Convey("Given adapters pointing at files", t, func() {
		ctx := context.Background()
		dir := t.TempDir()

		Convey("When the file does not exist", func() {
			recs, err := source.NewIMDb(filepath.Join(dir, "missing.csv")).Load(ctx)

			Convey("Then the source is simply empty", func() {
				So(err, ShouldBeNil)
				So(recs, ShouldBeEmpty)
			})
		})

		Convey("When the file exists", func() {
			path := filepath.Join(dir, "imdb.csv")
			So(os.WriteFile(path, []byte(imdbCSV), 0o600), ShouldBeNil)
			recs, err := source.NewIMDb(path).Load(ctx)

			Convey("Then its rows are loaded", func() {
				So(err, ShouldBeNil)
				So(recs, ShouldHaveLength, 2)
			})
		})

		Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := source.NewIMDb("").Read(cctx, strings.NewReader(imdbCSV))

			Convey("Then the read stops with the context error", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})
}

type stubAdapter struct {
	name model.Source
	recs []model.CanonicalRecord
	err  error
}

func (s stubAdapter) Name() model.Source { return s.name }

func (s stubAdapter) Load(context.Context) ([]model.CanonicalRecord, error) {
	return s.recs, s.err
}

func TestLoadAll(t *testing.T) {
	Convey("Given several adapters, one failing", t, func() {
		adapters := []source.Adapter{
			stubAdapter{name: model.SourceTMDB, recs: []model.CanonicalRecord{{Title: "A"}, {Title: "B"}}},
			stubAdapter{name: model.SourceIndian, err: errors.New("disk on fire")},
			stubAdapter{name: model.SourceIMDb, recs: []model.CanonicalRecord{{Title: "C"}}},
		}

		Convey("When loading all of them", func() {
			out := source.LoadAll(context.Background(), logger.Get(), adapters...)

			Convey("Then the failing source is empty and the rest are intact", func() {
				So(out[model.SourceTMDB], ShouldHaveLength, 2)
				So(out[model.SourceTMDB][0].Title, ShouldEqual, "A")
				So(out[model.SourceIndian], ShouldBeEmpty)
				So(out[model.SourceIMDb], ShouldHaveLength, 1)
			})
		})
	})
}
