// Package service wires the catalog pipeline, its cache and the rebuild
// worker behind the operations the HTTP API and the CLI call.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	rebuildqueue "github.com/okian/reelrank/internal/adapters/mq/queue"
	rebuildworker "github.com/okian/reelrank/internal/adapters/mq/worker"
	"github.com/okian/reelrank/internal/adapters/repository"
	"github.com/okian/reelrank/internal/adapters/source"
	"github.com/okian/reelrank/internal/domain/catalog"
	"github.com/okian/reelrank/internal/domain/interactions"
	"github.com/okian/reelrank/internal/domain/model"
	"github.com/okian/reelrank/internal/domain/recommend"
	"github.com/okian/reelrank/internal/domain/types"
	"github.com/okian/reelrank/pkg/logger"
	"github.com/okian/reelrank/pkg/metrics"
)

const (
	defaultMaxLimit        = 50
	workerShutdownDeadline = 30 * time.Second
)

// Service owns the published catalog and everything that produces it.
type Service struct {
	mu sync.RWMutex

	store        repository.Store
	cache        repository.SnapshotCache
	adapters     []source.Adapter
	thresholds   catalog.Thresholds
	interactions interactions.Config

	queue     *rebuildqueue.InMemoryQueue
	worker    *rebuildworker.RebuildWorker
	queueSize int

	defaultLimit int
	maxLimit     int

	// Serializes pipeline runs from the worker and direct callers.
	rebuildMu sync.Mutex

	started     bool
	cacheClosed bool
	cancel      context.CancelFunc
	now         func() time.Time
	logger      logger.Logger
}

// New constructs a Service. Without WithSources it reads nothing and
// publishes empty catalogs.
func New(opts ...Option) *Service {
	s := &Service{
		store:        repository.NewCatalogStore(),
		cache:        repository.NopCache{},
		thresholds:   catalog.DefaultThresholds(),
		interactions: interactions.DefaultConfig(),
		queueSize:    1,
		defaultLimit: recommend.DefaultLimit,
		maxLimit:     defaultMaxLimit,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.maxLimit < s.defaultLimit {
		s.maxLimit = s.defaultLimit
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	return s
}

// Start publishes an initial catalog, from the cache when it is fresh and
// from the sources otherwise, then starts the rebuild worker.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.logger.Info(ctx, "starting catalog service...")

	if err := s.warm(ctx); err != nil {
		return err
	}

	s.queue = rebuildqueue.NewInMemoryQueue(rebuildqueue.WithCapacity(s.queueSize))
	s.worker = rebuildworker.NewRebuildWorker(s.queue, s, rebuildworker.WithLogger(s.logger.Named("worker")))
	wctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	go s.worker.Run(wctx)

	s.started = true
	s.logger.Info(ctx, "catalog service started",
		logger.Int("servable", s.store.Count(ctx)),
		logger.Int("queueSize", s.queueSize),
	)
	return nil
}

func (s *Service) warm(ctx context.Context) error {
	start := time.Now()
	cached, fresh, err := s.cache.Load(ctx)
	if err != nil {
		metrics.RecordErrorByComponent("cache", "load")
		s.logger.Warn(ctx, "snapshot cache unreadable; rebuilding", logger.Error(err))
	}
	if fresh {
		s.store.Publish(ctx, cached)
		metrics.RecordCatalogBuild("cached", float64(time.Since(start).Milliseconds()))
		s.logger.Info(ctx, "catalog restored from cache",
			logger.Int("servable", cached.Len()),
			logger.String("built_at", cached.BuiltAt.Format(time.RFC3339)),
		)
		return nil
	}
	return s.Rebuild(ctx, "startup")
}

// Stop shuts down the worker and closes the cache. A service that was
// never started only closes its cache.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := context.Background()
	if !s.started {
		s.closeCache(ctx)
		return
	}
	s.logger.Info(ctx, "stopping catalog service...")

	_ = s.queue.Close()
	s.cancel()
	sctx, cancel := context.WithTimeout(ctx, workerShutdownDeadline)
	if err := s.worker.Shutdown(sctx); err != nil {
		s.logger.Warn(ctx, "rebuild worker did not stop cleanly", logger.Error(err))
	}
	cancel()

	s.closeCache(ctx)
	s.started = false
	s.logger.Info(ctx, "catalog service stopped")
}

func (s *Service) closeCache(ctx context.Context) {
	if s.cacheClosed {
		return
	}
	s.cacheClosed = true
	if err := s.cache.Close(); err != nil {
		s.logger.Warn(ctx, "closing snapshot cache", logger.Error(err))
	}
}

// Rebuild runs the full pipeline and publishes its result: load every
// source, build the catalog, attach an interaction log, publish, cache.
// Source and cache failures are logged and never fail the rebuild; only a
// cancelled context does.
func (s *Service) Rebuild(ctx context.Context, reason string) error {
	s.rebuildMu.Lock()
	defer s.rebuildMu.Unlock()

	log := s.logger
	start := time.Now()

	loaded := source.LoadAll(ctx, log, s.adapters...)
	if err := ctx.Err(); err != nil {
		metrics.RecordCatalogBuild("failed", 0)
		return fmt.Errorf("rebuild (%s): %w", reason, err)
	}

	cat := catalog.Build(loaded, s.thresholds, s.now())
	cat = cat.WithInteractions(interactions.Generate(cat.Records, s.interactions))
	s.store.Publish(ctx, cat)

	took := time.Since(start)
	metrics.RecordCatalogBuild("built", float64(took.Milliseconds()))
	log.Info(ctx, "catalog built",
		logger.String("reason", reason),
		logger.Int("merged", cat.Stats.Merged),
		logger.Int("servable", cat.Stats.Servable),
		logger.Int("interactions", len(cat.Interactions)),
		logger.Duration("took", took),
	)
	if cat.Len() == 0 {
		log.Warn(ctx, "published catalog is empty; recommendations report not_ready")
	}

	if err := s.cache.Save(ctx, cat); err != nil {
		metrics.RecordErrorByComponent("cache", "save")
		log.Warn(ctx, "snapshot cache write failed", logger.Error(err))
	}
	return nil
}

// RequestRebuild queues an asynchronous rebuild and returns its request id.
func (s *Service) RequestRebuild(ctx context.Context, reason string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return "", ErrNotStarted
	}
	req := model.RebuildRequest{ID: uuid.NewString(), Reason: reason, RequestedAt: s.now()}
	if !s.queue.Enqueue(ctx, req) {
		return "", ErrRebuildBusy
	}
	s.logger.Info(ctx, "rebuild queued", logger.String("request_id", req.ID), logger.String("reason", reason))
	return req.ID, nil
}

// Recommend answers q against the current catalog. A zero limit uses the
// service default; limits above the maximum return ErrLimitExceeded.
func (s *Service) Recommend(ctx context.Context, q model.Query) (model.Result, error) {
	start := time.Now()
	if q.Limit > s.maxLimit {
		return model.Result{}, fmt.Errorf("limit %d above %d: %w", q.Limit, s.maxLimit, ErrLimitExceeded)
	}
	if q.Limit == 0 {
		q.Limit = s.defaultLimit
	}

	res, err := recommend.Select(s.store.Current(ctx), q)
	if err != nil {
		return model.Result{}, err
	}
	metrics.RecordRecommendation(string(res.Status), float64(time.Since(start).Microseconds())/1000)
	return res, nil
}

// Genres lists the genres present in the current catalog.
func (s *Service) Genres(ctx context.Context) []string {
	return s.store.Current(ctx).Genres()
}

// Languages lists the supported languages.
func (s *Service) Languages(_ context.Context) []model.Language {
	return catalog.Languages()
}

// Catalog returns the current snapshot, nil before the first publish.
func (s *Service) Catalog(ctx context.Context) *catalog.Catalog {
	return s.store.Current(ctx)
}

// GetStats describes the current catalog.
func (s *Service) GetStats(ctx context.Context) types.Stats {
	st := types.Stats{Loaded: map[string]int{}}
	cat := s.store.Current(ctx)
	if cat == nil {
		return st
	}
	st.Ready = cat.Len() > 0
	st.BuiltAt = cat.BuiltAt.UTC().Format(time.RFC3339)
	for src, n := range cat.Stats.Loaded {
		st.Loaded[string(src)] = n
	}
	st.Merged = cat.Stats.Merged
	st.Servable = cat.Stats.Servable
	st.Interactions = len(cat.Interactions)
	return st
}
