package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/okian/reelrank/internal/adapters/repository"
	"github.com/okian/reelrank/internal/domain/model"
	"github.com/okian/reelrank/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestBadgerCache(t *testing.T) {
	Convey("Given an in-memory badger cache", t, func() {
		ctx := context.Background()
		now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		clock := now
		cache, err := repository.NewBadgerCache("",
			repository.WithInMemory(),
			repository.WithMaxAge(time.Hour),
			repository.WithClock(func() time.Time { return clock }),
			repository.WithLogger(logger.Get()),
		)
		So(err, ShouldBeNil)
		defer func() { _ = cache.Close() }()

		Convey("When nothing was saved", func() {
			cat, fresh, err := cache.Load(ctx)

			Convey("Then it is a miss without error", func() {
				So(err, ShouldBeNil)
				So(fresh, ShouldBeFalse)
				So(cat, ShouldBeNil)
			})
		})

		Convey("When a catalog is saved", func() {
			src := sampleCatalog(now, "Heat", "Ronin").WithInteractions([]model.Interaction{
				{UserID: 1, MovieID: "id-Heat", Rating: 5},
			})
			So(cache.Save(ctx, src), ShouldBeNil)

			Convey("And loaded within the window", func() {
				clock = now.Add(30 * time.Minute)
				cat, fresh, err := cache.Load(ctx)

				Convey("Then the round trip keeps records, stats and interactions", func() {
					So(err, ShouldBeNil)
					So(fresh, ShouldBeTrue)
					So(cat.Records, ShouldResemble, src.Records)
					So(cat.Stats, ShouldResemble, src.Stats)
					So(cat.Interactions, ShouldResemble, src.Interactions)
					So(cat.BuiltAt.Equal(now), ShouldBeTrue)
				})

				Convey("Then the id index is rebuilt", func() {
					rec, ok := cat.Lookup("id-Ronin")
					So(ok, ShouldBeTrue)
					So(rec.Title, ShouldEqual, "Ronin")
				})
			})

			Convey("And loaded after the window", func() {
				clock = now.Add(2 * time.Hour)
				cat, fresh, err := cache.Load(ctx)

				Convey("Then it is stale and not returned", func() {
					So(err, ShouldBeNil)
					So(fresh, ShouldBeFalse)
					So(cat, ShouldBeNil)
				})
			})

			Convey("And replaced by a newer catalog", func() {
				So(cache.Save(ctx, sampleCatalog(now, "Alien")), ShouldBeNil)
				cat, fresh, err := cache.Load(ctx)

				Convey("Then the newer one wins", func() {
					So(err, ShouldBeNil)
					So(fresh, ShouldBeTrue)
					So(cat.Len(), ShouldEqual, 1)
				})
			})
		})

		Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()

			Convey("Then load and save refuse to run", func() {
				_, _, err := cache.Load(cctx)
				So(err, ShouldNotBeNil)
				So(cache.Save(cctx, sampleCatalog(now, "X")), ShouldNotBeNil)
			})
		})
	})
}

func TestBadgerCacheOnDisk(t *testing.T) {
	Convey("Given a cache directory", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		now := time.Now()

		cache, err := repository.NewBadgerCache(dir)
		So(err, ShouldBeNil)
		So(cache.Save(ctx, sampleCatalog(now, "Heat")), ShouldBeNil)
		So(cache.Close(), ShouldBeNil)

		Convey("When the cache is reopened", func() {
			reopened, err := repository.NewBadgerCache(dir)
			So(err, ShouldBeNil)
			defer func() { _ = reopened.Close() }()
			cat, fresh, err := reopened.Load(ctx)

			Convey("Then the catalog survived the restart", func() {
				So(err, ShouldBeNil)
				So(fresh, ShouldBeTrue)
				So(cat.Len(), ShouldEqual, 1)
			})
		})
	})
}

func TestNopCache(t *testing.T) {
	Convey("Given the no-op cache", t, func() {
		ctx := context.Background()
		var cache repository.SnapshotCache = repository.NopCache{}

		Convey("Then it stores nothing", func() {
			So(cache.Save(ctx, sampleCatalog(time.Now(), "A")), ShouldBeNil)
			cat, fresh, err := cache.Load(ctx)
			So(err, ShouldBeNil)
			So(fresh, ShouldBeFalse)
			So(cat, ShouldBeNil)
			So(cache.Close(), ShouldBeNil)
		})
	})
}
