package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/reelrank/internal/adapters/mq/queue"
	"github.com/okian/reelrank/internal/adapters/mq/worker"
	"github.com/okian/reelrank/internal/domain/model"
	logging "github.com/okian/reelrank/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logging.Init(); err != nil {
		panic(err)
	}
}

type mockRebuilder struct {
	mu      sync.Mutex
	reasons []string
	fail    error
	block   chan struct{}
	calls   chan struct{}
	active  int
	maxSeen int
}

func newMockRebuilder() *mockRebuilder {
	return &mockRebuilder{calls: make(chan struct{}, 16)}
}

func (m *mockRebuilder) Rebuild(ctx context.Context, reason string) error {
	m.mu.Lock()
	m.active++
	if m.active > m.maxSeen {
		m.maxSeen = m.active
	}
	m.reasons = append(m.reasons, reason)
	block, fail := m.block, m.fail
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
		}
	}

	m.mu.Lock()
	m.active--
	m.mu.Unlock()
	m.calls <- struct{}{}
	return fail
}

func (m *mockRebuilder) seen() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.reasons...)
}

func waitCalls(t *testing.T, m *mockRebuilder, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-m.calls:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for rebuild %d", i+1)
		}
	}
}

func req(id, reason string) model.RebuildRequest {
	return model.RebuildRequest{ID: id, Reason: reason, RequestedAt: time.Now()}
}

func TestRebuildWorker(t *testing.T) {
	convey.Convey("Given a queue and a worker", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		q := queue.NewInMemoryQueue(queue.WithCapacity(4))
		rb := newMockRebuilder()
		w := worker.NewRebuildWorker(q, rb, worker.WithName("test-worker"), worker.WithTimeout(time.Second))
		go w.Run(ctx)

		convey.Convey("When requests are enqueued", func() {
			convey.So(q.Enqueue(ctx, req("1", "api")), convey.ShouldBeTrue)
			convey.So(q.Enqueue(ctx, req("2", "cli")), convey.ShouldBeTrue)
			waitCalls(t, rb, 2)

			convey.Convey("Then each one triggers a rebuild in order", func() {
				convey.So(rb.seen(), convey.ShouldResemble, []string{"api", "cli"})
			})

			convey.Convey("Then rebuilds never overlap", func() {
				rb.mu.Lock()
				defer rb.mu.Unlock()
				convey.So(rb.maxSeen, convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When a rebuild fails", func() {
			rb.fail = errors.New("sources unreadable")
			convey.So(q.Enqueue(ctx, req("1", "first")), convey.ShouldBeTrue)
			waitCalls(t, rb, 1)
			rb.mu.Lock()
			rb.fail = nil
			rb.mu.Unlock()
			convey.So(q.Enqueue(ctx, req("2", "second")), convey.ShouldBeTrue)
			waitCalls(t, rb, 1)

			convey.Convey("Then the worker keeps serving", func() {
				convey.So(rb.seen(), convey.ShouldResemble, []string{"first", "second"})
			})
		})

		convey.Convey("When shut down", func() {
			sctx, scancel := context.WithTimeout(context.Background(), time.Second)
			defer scancel()

			convey.Convey("Then shutdown returns and is idempotent", func() {
				convey.So(w.Shutdown(sctx), convey.ShouldBeNil)
				convey.So(w.Shutdown(sctx), convey.ShouldBeNil)
			})
		})
	})
}

func TestRebuildWorkerQueueClose(t *testing.T) {
	convey.Convey("Given a running worker", t, func() {
		q := queue.NewInMemoryQueue()
		w := worker.NewRebuildWorker(q, newMockRebuilder(), worker.WithLogger(logging.Get()))
		done := make(chan struct{})
		go func() {
			w.Run(context.Background())
			close(done)
		}()

		convey.Convey("When the queue is closed", func() {
			convey.So(q.Close(), convey.ShouldBeNil)

			convey.Convey("Then the worker loop exits", func() {
				select {
				case <-done:
					convey.So(true, convey.ShouldBeTrue)
				case <-time.After(2 * time.Second):
					t.Fatal("worker did not stop")
				}
			})
		})
	})
}

func TestRebuildWorkerTimeout(t *testing.T) {
	convey.Convey("Given a rebuild that blocks", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		q := queue.NewInMemoryQueue()
		rb := newMockRebuilder()
		rb.block = make(chan struct{})
		w := worker.NewRebuildWorker(q, rb, worker.WithTimeout(50*time.Millisecond))
		go w.Run(ctx)

		convey.Convey("When it exceeds the timeout", func() {
			convey.So(q.Enqueue(ctx, req("slow", "slow")), convey.ShouldBeTrue)

			convey.Convey("Then its context is cancelled and it returns", func() {
				waitCalls(t, rb, 1)
				convey.So(rb.seen(), convey.ShouldResemble, []string{"slow"})
			})
		})
	})
}
