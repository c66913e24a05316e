// Package cache implements a refreshable snapshot cache for slowly loaded
// item lists. Reads are served from the last snapshot whenever it is fresh
// enough; stale reads wait a bounded time for an in-flight refresh and
// otherwise load synchronously while a background refresh keeps later
// reads cheap. Provider failures never empty a previously populated cache.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/raphi011/vsx/internal/log"
)

// Defaults used when the Config leaves a field zero.
const (
	DefaultFreshFor = 30 * time.Second
	DefaultWaitFor  = 2 * time.Second
)

// LoadFunc loads the full item list from the underlying provider.
// The returned slice replaces the snapshot wholesale; partial merges
// don't exist at this layer.
type LoadFunc[T any] func(ctx context.Context) ([]T, error)

// Config tunes a cache instance.
type Config struct {
	// FreshFor is the snapshot age below which Get returns without I/O.
	FreshFor time.Duration
	// WaitFor bounds how long Get waits on an in-flight refresh.
	WaitFor time.Duration
	// PersistPath, when set, mirrors successful snapshots to disk and
	// primes the cache from disk at construction (see persist.go).
	PersistPath string
	// Now substitutes the clock in tests.
	Now func() time.Time
}

// Cache serves a list of T with bounded staleness.
type Cache[T any] struct {
	name     string
	load     LoadFunc[T]
	logger   *log.Logger
	freshFor time.Duration
	waitFor  time.Duration
	persist  string
	now      func() time.Time

	mu            sync.Mutex
	snapshot      []T
	lastRefreshed time.Time
	refreshing    bool
	settled       chan struct{} // closed when the in-flight refresh settles
}

// New creates a cache around the given provider load function.
func New[T any](name string, load LoadFunc[T], logger *log.Logger, cfg Config) *Cache[T] {
	if cfg.FreshFor <= 0 {
		cfg.FreshFor = DefaultFreshFor
	}
	if cfg.WaitFor <= 0 {
		cfg.WaitFor = DefaultWaitFor
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	c := &Cache[T]{
		name:     name,
		load:     load,
		logger:   logger,
		freshFor: cfg.FreshFor,
		waitFor:  cfg.WaitFor,
		persist:  cfg.PersistPath,
		now:      cfg.Now,
	}
	if c.persist != "" {
		c.primeFromDisk()
	}
	return c
}

// Get returns the current item list, refreshing it when stale.
//
// Fresh snapshot: returned immediately, no I/O. Refresh in flight: wait
// up to the configured bound and adopt its result. Otherwise a background
// refresh is started and a synchronous load runs in parallel for this
// caller; whichever settles updates the snapshot. Load failures are
// logged and the prior snapshot is served.
func (c *Cache[T]) Get(ctx context.Context) []T {
	c.mu.Lock()

	if !c.lastRefreshed.IsZero() && c.now().Sub(c.lastRefreshed) < c.freshFor {
		snap := c.snapshot
		c.mu.Unlock()
		return snap
	}

	if c.refreshing {
		settled := c.settled
		before := c.lastRefreshed
		c.mu.Unlock()

		timer := time.NewTimer(c.waitFor)
		defer timer.Stop()
		select {
		case <-settled:
			// Adopt the refreshed snapshot. A refresh that settled
			// without storing anything failed; load synchronously
			// instead of re-serving the stale data.
			c.mu.Lock()
			refreshed := c.lastRefreshed.After(before)
			snap := c.snapshot
			c.mu.Unlock()
			if refreshed {
				return snap
			}
			return c.syncLoad(ctx)
		case <-ctx.Done():
			return c.Peek()
		case <-timer.C:
			// Bounded wait expired. The in-flight attempt keeps running
			// and will settle on its own; this caller loads synchronously
			// so it never blocks past the bound again.
			c.logger.Debugf("%s: refresh still in flight after %v, loading synchronously", c.name, c.waitFor)
			return c.syncLoad(ctx)
		}
	}

	c.refreshing = true
	c.settled = make(chan struct{})
	c.mu.Unlock()

	go c.backgroundRefresh()

	return c.syncLoad(ctx)
}

// Peek returns the current snapshot without triggering any refresh.
func (c *Cache[T]) Peek() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot
}

// LastRefreshed returns when the snapshot was last replaced.
// Zero means the cache has never been populated by a provider load.
func (c *Cache[T]) LastRefreshed() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastRefreshed
}

// Close waits up to the given bound for an in-flight background refresh
// to settle, then abandons it. No mid-flight cancellation is attempted.
func (c *Cache[T]) Close(wait time.Duration) {
	c.mu.Lock()
	if !c.refreshing {
		c.mu.Unlock()
		return
	}
	settled := c.settled
	c.mu.Unlock()

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-settled:
	case <-timer.C:
		c.logger.Debugf("%s: abandoning in-flight refresh on shutdown", c.name)
	}
}

// backgroundRefresh runs a provider load detached from any caller and
// clears the in-flight flag once it settles, win or lose.
func (c *Cache[T]) backgroundRefresh() {
	items, err := c.load(context.Background())
	if err != nil {
		c.logger.Warnf("%s: background refresh failed: %v", c.name, err)
	} else {
		c.store(items)
	}

	c.mu.Lock()
	c.refreshing = false
	close(c.settled)
	c.mu.Unlock()
}

// syncLoad satisfies the current caller directly. On failure the prior
// snapshot (possibly empty) is served and the error only logged.
func (c *Cache[T]) syncLoad(ctx context.Context) []T {
	items, err := c.load(ctx)
	if err != nil {
		c.logger.Warnf("%s: load failed, serving cached snapshot: %v", c.name, err)
		return c.Peek()
	}
	c.store(items)
	return items
}

// store replaces the snapshot wholesale. lastRefreshed only advances:
// when the background and synchronous attempts race, the later clock
// reading wins and an older one never rewinds the timestamp.
func (c *Cache[T]) store(items []T) {
	ts := c.now()

	c.mu.Lock()
	c.snapshot = items
	if ts.After(c.lastRefreshed) {
		c.lastRefreshed = ts
	}
	c.mu.Unlock()

	if c.persist != "" {
		c.persistToDisk(items)
	}
}
