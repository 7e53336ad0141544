// Package repository holds the published catalog snapshot and its on-disk
// cache.
package repository

import (
	"context"
	"sync/atomic"

	"github.com/okian/reelrank/internal/domain/catalog"
	"github.com/okian/reelrank/pkg/metrics"
)

// Store provides access to the current catalog snapshot.
type Store interface {
	// Current returns the published catalog, or nil before the first publish.
	Current(ctx context.Context) *catalog.Catalog
	// Publish replaces the current catalog. Readers holding the previous one
	// keep using it undisturbed.
	Publish(ctx context.Context, c *catalog.Catalog)
	// Count returns the number of servable records in the current catalog.
	Count(ctx context.Context) int
}

// CatalogStore publishes immutable catalogs through an atomic pointer.
type CatalogStore struct {
	current atomic.Pointer[catalog.Catalog]
}

var _ Store = (*CatalogStore)(nil)

// NewCatalogStore returns an empty store.
func NewCatalogStore() *CatalogStore {
	return &CatalogStore{}
}

// Current implements Store.
func (s *CatalogStore) Current(_ context.Context) *catalog.Catalog {
	return s.current.Load()
}

// Publish implements Store. A nil catalog is ignored.
func (s *CatalogStore) Publish(_ context.Context, c *catalog.Catalog) {
	if c == nil {
		return
	}
	s.current.Store(c)
	metrics.UpdateCatalogSize(c.Stats.Merged, c.Len(), len(c.Interactions), c.BuiltAt.Unix())
}

// Count implements Store.
func (s *CatalogStore) Count(_ context.Context) int {
	return s.current.Load().Len()
}
