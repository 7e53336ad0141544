package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	json "github.com/goccy/go-json"

	"github.com/okian/reelrank/internal/domain/catalog"
	"github.com/okian/reelrank/pkg/logger"
	"github.com/okian/reelrank/pkg/metrics"
)

// SnapshotCache stores the last built catalog between runs.
type SnapshotCache interface {
	// Load returns the cached catalog and true when a fresh one exists.
	// A missing or stale entry returns nil, false and no error.
	Load(ctx context.Context) (*catalog.Catalog, bool, error)
	// Save stores c, replacing any previous entry.
	Save(ctx context.Context, c *catalog.Catalog) error
	Close() error
}

var catalogKey = []byte("catalog/v1")

// BadgerCache is a SnapshotCache on an embedded badger database. The entry
// TTL equals the staleness window, so badger drops stale catalogs on its own.
type BadgerCache struct {
	db       *badger.DB
	maxAge   time.Duration
	inMemory bool
	now      func() time.Time
	log      logger.Logger
}

// NewBadgerCache opens (or creates) the cache in dir.
func NewBadgerCache(dir string, opts ...Option) (*BadgerCache, error) {
	c := &BadgerCache{maxAge: DefaultMaxAge, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}

	bopts := badger.DefaultOptions(dir).WithLogger(nil)
	if c.inMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	}
	if c.log != nil {
		bopts = bopts.WithLogger(badgerLogger{log: c.log.Named("badger")})
	}

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCacheOpen, dir, err)
	}
	c.db = db
	return c, nil
}

// Load implements SnapshotCache.
func (c *BadgerCache) Load(ctx context.Context) (*catalog.Catalog, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	var raw []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(catalogKey)
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		metrics.RecordCacheLookup(metrics.CacheMiss)
		return nil, false, nil
	}
	if err != nil {
		metrics.RecordCacheLookup(metrics.CacheError)
		return nil, false, fmt.Errorf("%w: %w", ErrCacheRead, err)
	}

	var cat catalog.Catalog
	if err := json.Unmarshal(raw, &cat); err != nil {
		metrics.RecordCacheLookup(metrics.CacheError)
		return nil, false, fmt.Errorf("%w: %w", ErrCacheDecode, err)
	}
	if c.now().Sub(cat.BuiltAt) >= c.maxAge {
		metrics.RecordCacheLookup(metrics.CacheStale)
		return nil, false, nil
	}
	metrics.RecordCacheLookup(metrics.CacheHit)
	return cat.Restore(), true, nil
}

// Save implements SnapshotCache.
func (c *BadgerCache) Save(ctx context.Context, cat *catalog.Catalog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if cat == nil {
		return nil
	}
	start := time.Now()

	raw, err := json.Marshal(cat)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCacheWrite, err)
	}
	err = c.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(catalogKey, raw).WithTTL(c.maxAge))
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCacheWrite, err)
	}
	metrics.RecordCacheSave(float64(time.Since(start).Milliseconds()))
	return nil
}

// Close implements SnapshotCache.
func (c *BadgerCache) Close() error {
	return c.db.Close()
}

// NopCache never holds a catalog. It stands in when caching is disabled.
type NopCache struct{}

// Load implements SnapshotCache.
func (NopCache) Load(context.Context) (*catalog.Catalog, bool, error) { return nil, false, nil }

// Save implements SnapshotCache.
func (NopCache) Save(context.Context, *catalog.Catalog) error { return nil }

// Close implements SnapshotCache.
func (NopCache) Close() error { return nil }

// badgerLogger adapts logger.Logger to badger.Logger.
type badgerLogger struct {
	log logger.Logger
}

func (b badgerLogger) Errorf(format string, args ...any) {
	b.log.Error(context.Background(), fmt.Sprintf(format, args...))
}

func (b badgerLogger) Warningf(format string, args ...any) {
	b.log.Warn(context.Background(), fmt.Sprintf(format, args...))
}

func (b badgerLogger) Infof(format string, args ...any) {
	b.log.Debug(context.Background(), fmt.Sprintf(format, args...))
}

func (b badgerLogger) Debugf(format string, args ...any) {
	b.log.Debug(context.Background(), fmt.Sprintf(format, args...))
}
