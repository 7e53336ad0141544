// Package worker consumes rebuild requests and re-runs the catalog pipeline.
//
// One worker drains the queue, so at most one rebuild runs at a time.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/reelrank/internal/adapters/mq/queue"
	"github.com/okian/reelrank/pkg/logger"
	"github.com/okian/reelrank/pkg/metrics"
)

const defaultRebuildTimeout = 10 * time.Minute

// Rebuilder re-runs the pipeline and publishes its result.
type Rebuilder interface {
	Rebuild(ctx context.Context, reason string) error
}

// Queue defines how the worker receives requests.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Request
}

// Worker processes rebuild requests.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue closes.
	Run(ctx context.Context)

	// Shutdown stops the worker, waiting for an in-flight rebuild to finish
	// or for ctx to expire.
	Shutdown(ctx context.Context) error
}

// RebuildWorker implements Worker.
type RebuildWorker struct {
	queue     Queue
	rebuilder Rebuilder
	name      string
	timeout   time.Duration

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewRebuildWorker creates a worker with configuration options.
func NewRebuildWorker(q Queue, r Rebuilder, opts ...Option) *RebuildWorker {
	w := &RebuildWorker{
		queue:     q,
		rebuilder: r,
		name:      "rebuild-worker",
		timeout:   defaultRebuildTimeout,
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run implements Worker.
func (w *RebuildWorker) Run(ctx context.Context) {
	defer close(w.done)

	requests := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case req, ok := <-requests:
			if !ok {
				return
			}
			if err := w.process(ctx, req); err != nil {
				w.logger.Error(ctx, "rebuild failed", logger.String("request_id", req.ID), logger.Error(err))
			}
		}
	}
}

// Shutdown implements Worker. It is safe to call more than once.
func (w *RebuildWorker) Shutdown(ctx context.Context) error {
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *RebuildWorker) process(ctx context.Context, req queue.Request) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	w.logger.Info(ctx, "rebuild started",
		logger.String("request_id", req.ID),
		logger.String("reason", req.Reason),
		logger.Duration("waited", start.Sub(req.RequestedAt)),
	)

	rctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	if err := w.rebuilder.Rebuild(rctx, req.Reason); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "rebuild_error")
		metrics.RecordErrorLatency("worker", "rebuild_error", float64(time.Since(start).Milliseconds()))
		return fmt.Errorf("rebuild %s: %w", req.ID, err)
	}

	w.logger.Info(ctx, "rebuild finished",
		logger.String("request_id", req.ID),
		logger.Duration("took", time.Since(start)),
	)
	return nil
}
