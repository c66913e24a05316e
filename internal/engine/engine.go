// Package engine orchestrates the query pipeline: it pulls best-effort
// snapshots from the per-kind item caches, scores them against the query
// and assembles the ranked result list. A periodic background refresh
// keeps the caches warm independently of query traffic.
package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/raphi011/vsx/internal/cache"
	"github.com/raphi011/vsx/internal/fuzzy"
	"github.com/raphi011/vsx/internal/item"
	"github.com/raphi011/vsx/internal/log"
)

// DefaultRefreshInterval is the periodic background refresh cadence.
const DefaultRefreshInterval = 5 * time.Minute

// Source is one refreshable supply of items (workspaces, machines).
type Source struct {
	Name  string
	Cache *cache.Cache[item.Item]
}

// Engine serves ranked queries over all item sources.
//
// It starts in a bootstrapping state: queries return a synthetic loading
// row plus whatever items are already discoverable. Once the first refresh
// of every source has completed (not necessarily succeeded) the engine is
// ready for good and runs the full pipeline per query. A later failed
// refresh never reverts readiness; staleness is tolerated, absence is not.
type Engine struct {
	logger   *log.Logger
	sources  []Source
	minScore int
	interval time.Duration

	ready    atomic.Bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// Config tunes the engine.
type Config struct {
	// MinScore is the per-token floor passed to the ranker.
	MinScore int
	// RefreshInterval is the periodic refresh cadence.
	RefreshInterval time.Duration
}

// New creates an engine over the given sources.
func New(logger *log.Logger, cfg Config, sources ...Source) *Engine {
	if cfg.MinScore <= 0 {
		cfg.MinScore = fuzzy.DefaultMinScore
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = DefaultRefreshInterval
	}
	return &Engine{
		logger:   logger,
		sources:  sources,
		minScore: cfg.MinScore,
		interval: cfg.RefreshInterval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start kicks off the initial load of all sources and the periodic
// refresh loop. It returns immediately; readiness flips asynchronously
// once the initial load completes.
func (e *Engine) Start(ctx context.Context) {
	go func() {
		defer close(e.done)

		e.refreshAll(ctx)
		e.ready.Store(true)
		e.logger.Debugf("initial load complete: %d sources", len(e.sources))

		ticker := time.NewTicker(e.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				e.refreshAll(ctx)
			case <-ctx.Done():
				return
			case <-e.stop:
				return
			}
		}
	}()
}

// Stop ends the refresh loop and waits up to the given bound for
// in-flight refreshes to settle before abandoning them.
func (e *Engine) Stop(wait time.Duration) {
	e.stopOnce.Do(func() { close(e.stop) })

	select {
	case <-e.done:
	case <-time.After(wait):
	}
	for _, s := range e.sources {
		s.Cache.Close(wait)
	}
}

// Ready reports whether the initial load of all sources has completed.
func (e *Engine) Ready() bool {
	return e.ready.Load()
}

// Bootstrap runs the initial load synchronously. Callers that want
// results on their first query (the one-shot CLI commands) use this
// instead of waiting on Start's background load.
func (e *Engine) Bootstrap(ctx context.Context) {
	e.refreshAll(ctx)
	e.ready.Store(true)
}

// Query scores all known items against the raw query string and returns
// the ranked, deduplicated result list. Never returns an error: scoring
// panics degrade to a single error row, provider failures have already
// degraded to stale snapshots inside the caches.
func (e *Engine) Query(ctx context.Context, query string) (results []item.Scored) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Errorf("query %q panicked: %v", query, r)
			results = []item.Scored{{Item: item.Item{
				Title: "Something went wrong while searching",
				Kind:  item.KindStatus,
			}}}
		}
	}()

	tokens := fuzzy.Tokenize(query)

	if !e.ready.Load() {
		// Best-effort partial results: whatever the caches already hold,
		// behind a loading row so the list is never misleadingly final.
		partial := Assemble(e.peekAll(), tokens, e.minScore)
		return append([]item.Scored{{Item: item.Item{
			Title: "Still discovering workspaces…",
			Kind:  item.KindStatus,
		}}}, partial...)
	}

	return Assemble(e.collect(ctx), tokens, e.minScore)
}

// List returns all items from every source, unscored, in source order.
func (e *Engine) List(ctx context.Context) []item.Item {
	if !e.ready.Load() {
		return e.peekAll()
	}
	return e.collect(ctx)
}

// collect gathers the current best-effort snapshot of every source.
func (e *Engine) collect(ctx context.Context) []item.Item {
	var all []item.Item
	for _, s := range e.sources {
		all = append(all, s.Cache.Get(ctx)...)
	}
	return all
}

// peekAll gathers snapshots without triggering any refresh.
func (e *Engine) peekAll() []item.Item {
	var all []item.Item
	for _, s := range e.sources {
		all = append(all, s.Cache.Peek()...)
	}
	return all
}

// refreshAll refreshes every source in parallel. Each source refreshes
// independently; one failing or slow provider never holds up the others.
func (e *Engine) refreshAll(ctx context.Context) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, s := range e.sources {
		g.Go(func() error {
			s.Cache.Get(ctx)
			return nil // failures are logged by the cache, never fatal
		})
	}
	_ = g.Wait()
}
