package probe

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/reelrank/pkg/logger"
)

// Report summarises a probe run.
type Report struct {
	Queries    int64
	Empty      int64
	Failed     int64
	Violations []Violation
	Duration   time.Duration
}

// Run probes every supported language, plain and for the first cfg.Genres
// genres, then repeats each non-empty query excluding its top result. It
// returns ErrViolations when any response breaks an invariant.
func Run(ctx context.Context, cfg Config) (*Report, error) {
	cfg = cfg.withDefaults()
	start := time.Now()
	log := logger.Get().Named("probe")
	client := NewClient(cfg.BaseURL, cfg.Timeout)

	stats, err := client.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	if !stats.Ready {
		return nil, ErrNotReady
	}
	langs, err := client.Languages(ctx)
	if err != nil {
		return nil, fmt.Errorf("languages: %w", err)
	}
	genres, err := client.Genres(ctx)
	if err != nil {
		return nil, fmt.Errorf("genres: %w", err)
	}
	genres = genres[:min(cfg.Genres, len(genres))]

	var queries []Query
	for _, l := range langs {
		queries = append(queries, Query{Language: l.Code, Limit: cfg.Limit})
		for _, g := range genres {
			queries = append(queries, Query{Language: l.Code, Genre: g, Limit: cfg.Limit})
		}
	}
	log.Info(ctx, "probing",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("queries", len(queries)),
		logger.Int("workers", cfg.Workers),
		logger.Int("servable", stats.Servable))

	rep := &Report{}
	var (
		mu         sync.Mutex
		violations []Violation
		wg         sync.WaitGroup
	)
	record := func(v ...Violation) {
		mu.Lock()
		violations = append(violations, v...)
		mu.Unlock()
	}
	check := func(q Query, excludedTitles ...string) (string, string, bool) {
		atomic.AddInt64(&rep.Queries, 1)
		res, err := client.Recommendations(ctx, q)
		if err != nil {
			atomic.AddInt64(&rep.Failed, 1)
			record(Violation{Query: q.String(), Rule: "request", Detail: err.Error()})
			return "", "", false
		}
		record(Verify(q, res, excludedTitles...)...)
		if len(res.Recommendations) == 0 {
			atomic.AddInt64(&rep.Empty, 1)
			return "", "", false
		}
		top := res.Recommendations[0]
		return top.ID, top.Title, true
	}

	jobs := make(chan Query, cfg.Workers*2)
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for q := range jobs {
				if ctx.Err() != nil {
					continue
				}
				id, title, ok := check(q)
				if !ok {
					continue
				}
				follow := q
				follow.Exclude = []string{id}
				check(follow, title)
			}
		}()
	}
	for _, q := range queries {
		select {
		case jobs <- q:
		case <-ctx.Done():
		}
	}
	close(jobs)
	wg.Wait()

	slices.SortFunc(violations, func(a, b Violation) int {
		return cmp.Or(cmp.Compare(a.Query, b.Query), cmp.Compare(a.Rule, b.Rule), cmp.Compare(a.Detail, b.Detail))
	})
	rep.Violations = violations
	rep.Duration = time.Since(start)

	if err := ctx.Err(); err != nil {
		return rep, fmt.Errorf("probe interrupted: %w", err)
	}
	log.Info(ctx, "probe finished",
		logger.Int("queries", int(rep.Queries)),
		logger.Int("empty", int(rep.Empty)),
		logger.Int("violations", len(rep.Violations)),
		logger.Duration("duration", rep.Duration))
	if len(rep.Violations) > 0 {
		return rep, fmt.Errorf("%d found: %w", len(rep.Violations), ErrViolations)
	}
	return rep, nil
}
