package normalize_test

import (
	"math"
	"testing"

	"github.com/okian/reelrank/internal/domain/model"
	"github.com/okian/reelrank/internal/domain/normalize"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTitle(t *testing.T) {
	Convey("Given raw titles", t, func() {
		Convey("When they differ only by case, punctuation or numeral style", func() {
			Convey("Then they share one key", func() {
				So(normalize.Title("Rocky II"), ShouldEqual, "rocky 2")
				So(normalize.Title("rocky 2"), ShouldEqual, "rocky 2")
				So(normalize.Title("ROCKY: II!"), ShouldEqual, "rocky 2")
				So(normalize.Title("Star Wars: Episode IV - A New Hope"), ShouldEqual, "star wars episode 4 a new hope")
				So(normalize.Title("Malcolm X"), ShouldEqual, "malcolm 10")
			})
		})

		Convey("When a numeral is part of a longer word", func() {
			Convey("Then it is left alone", func() {
				So(normalize.Title("Vixen"), ShouldEqual, "vixen")
				So(normalize.Title("Civil War"), ShouldEqual, "civil war")
			})
		})

		Convey("When the title is empty or only punctuation", func() {
			Convey("Then the key is empty", func() {
				So(normalize.Title(""), ShouldEqual, "")
				So(normalize.Title("  --!!  "), ShouldEqual, "")
			})
		})

		Convey("When non-ASCII letters are present", func() {
			Convey("Then they become separators", func() {
				So(normalize.Title("Amélie"), ShouldEqual, "am lie")
			})
		})

		Convey("When normalizing twice", func() {
			inputs := []string{"Rocky II", "  The   Godfather: Part III ", "Se7en", "X-Men", "Amélie", "ix ix", ""}
			Convey("Then the second pass changes nothing", func() {
				for _, in := range inputs {
					once := normalize.Title(in)
					So(normalize.Title(once), ShouldEqual, once)
				}
			})
		})
	})
}

func TestKey(t *testing.T) {
	Convey("Given canonical records", t, func() {
		Convey("When an external id is present", func() {
			k := normalize.Key(model.CanonicalRecord{Title: "Inception", ExternalID: " tt1375666 ", ReleaseYear: 2010})
			Convey("Then the trimmed id is the dedup key", func() {
				So(k, ShouldResemble, model.GroupKey{DedupKey: "tt1375666", ReleaseYear: 2010})
			})
		})

		Convey("When the external id is blank", func() {
			k := normalize.Key(model.CanonicalRecord{Title: "Rocky II", ExternalID: "   ", ReleaseYear: 1979})
			Convey("Then the normalized title is the dedup key", func() {
				So(k, ShouldResemble, model.GroupKey{DedupKey: "rocky 2", ReleaseYear: 1979})
			})
		})

		Convey("When one record is identified and the other is not", func() {
			a := normalize.Key(model.CanonicalRecord{Title: "Inception", ExternalID: "tt1375666", ReleaseYear: 2010})
			b := normalize.Key(model.CanonicalRecord{Title: "Inception", ReleaseYear: 2010})
			Convey("Then the keys differ", func() {
				So(a, ShouldNotResemble, b)
			})
		})

		Convey("When only the year differs", func() {
			a := normalize.Key(model.CanonicalRecord{Title: "Heat"})
			b := normalize.Key(model.CanonicalRecord{Title: "Heat", ReleaseYear: 1995})
			Convey("Then year 0 does not collide with a real year", func() {
				So(a, ShouldNotResemble, b)
			})
		})
	})
}

func TestParsers(t *testing.T) {
	Convey("Given raw numeric fields", t, func() {
		Convey("Float falls back on bad input", func() {
			So(normalize.Float("7.5", 0), ShouldEqual, 7.5)
			So(normalize.Float("", 1), ShouldEqual, 1)
			So(normalize.Float("-", 0), ShouldEqual, 0)
			So(normalize.Float("NaN", 2), ShouldEqual, 2)
			So(normalize.Float("Inf", 3), ShouldEqual, 3)
		})

		Convey("Int truncates decimals and falls back on bad input", func() {
			So(normalize.Int("42", 0), ShouldEqual, 42)
			So(normalize.Int("1994.0", 0), ShouldEqual, 1994)
			So(normalize.Int("abc", 7), ShouldEqual, 7)
		})

		Convey("Votes strips separators and never goes negative", func() {
			So(normalize.Votes("2,343,110"), ShouldEqual, 2343110)
			So(normalize.Votes("1200"), ShouldEqual, 1200)
			So(normalize.Votes("-5"), ShouldEqual, 0)
			So(normalize.Votes("n/a"), ShouldEqual, 0)
		})

		Convey("Rating is clamped to the 0-10 scale", func() {
			So(normalize.Rating("8.8"), ShouldEqual, 8.8)
			So(normalize.Rating("11"), ShouldEqual, 10)
			So(normalize.Rating("-1"), ShouldEqual, 0)
			So(normalize.Rating("-"), ShouldEqual, 0)
			So(normalize.ClampRating(math.NaN()), ShouldEqual, 0)
		})

		Convey("Year reads bare years and dates", func() {
			So(normalize.Year("1994"), ShouldEqual, 1994)
			So(normalize.Year("2010-07-15"), ShouldEqual, 2010)
			So(normalize.Year("1994.0"), ShouldEqual, 1994)
			So(normalize.Year("PG"), ShouldEqual, 0)
			So(normalize.Year(""), ShouldEqual, 0)
		})
	})
}

func TestLanguage(t *testing.T) {
	Convey("Given language values from different sources", t, func() {
		So(normalize.Language("Hindi"), ShouldEqual, "hi")
		So(normalize.Language("bollywood"), ShouldEqual, "hi")
		So(normalize.Language("English"), ShouldEqual, "en")
		So(normalize.Language("EN"), ShouldEqual, "en")
		So(normalize.Language("fr"), ShouldEqual, "fr")
		So(normalize.Language("Tamil"), ShouldEqual, model.UnknownLanguage)
		So(normalize.Language(""), ShouldEqual, model.UnknownLanguage)
	})
}
