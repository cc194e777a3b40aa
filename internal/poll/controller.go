// Package poll keeps job-list snapshots fresh. Every list screen in the
// gateway is backed by a Controller that fetches once on start and then on a
// fixed interval, holding the latest snapshot for renders in between.
package poll

import (
	"context"
	"sync"
	"time"

	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/metrics"
)

// DefaultInterval matches the refresh cadence of every list view.
const DefaultInterval = 15 * time.Second

// Snapshot is the latest state of one list view. Loaded distinguishes
// "not yet fetched" from a confirmed-empty list. Err carries the most recent
// fetch failure; a failed refresh never blanks previously loaded records —
// stale-but-present data is preferred over an empty view.
type Snapshot[T any] struct {
	Records   []T
	Loaded    bool
	Err       error
	UpdatedAt time.Time
}

// Controller owns the refresh loop for one session's view of one list. All
// fetches, the first included, run in a single goroutine, so refreshes never
// overlap and snapshot replacement is strictly ordered by fetch completion.
type Controller[T any] struct {
	view     string
	interval time.Duration
	fetch    func(ctx context.Context) ([]T, error)

	mu       sync.Mutex
	snap     Snapshot[T]
	lastSeen time.Time

	ready  chan struct{}
	cancel context.CancelFunc
	done   chan struct{}
}

// start launches the refresh loop. The first refresh happens inside the loop
// goroutine; ready closes once it completes, so the mounting render can wait
// for real data without holding any shared lock.
func start[T any](ctx context.Context, view string, interval time.Duration, fetch func(ctx context.Context) ([]T, error)) *Controller[T] {
	if interval <= 0 {
		interval = DefaultInterval
	}
	loopCtx, cancel := context.WithCancel(ctx)
	c := &Controller[T]{
		view:     view,
		interval: interval,
		fetch:    fetch,
		lastSeen: time.Now(),
		ready:    make(chan struct{}),
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	metrics.PollersActive.WithLabelValues(view).Inc()

	go c.run(loopCtx)
	return c
}

func (c *Controller[T]) run(ctx context.Context) {
	defer close(c.done)

	c.refresh(ctx)
	close(c.ready)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.refresh(ctx)
		}
	}
}

func (c *Controller[T]) refresh(ctx context.Context) {
	records, err := c.fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		// Keep the previous snapshot; only the error slot changes.
		c.snap.Err = err
		metrics.PollRefreshesTotal.WithLabelValues(c.view, "error").Inc()
		return
	}
	c.snap = Snapshot[T]{
		Records:   records,
		Loaded:    true,
		UpdatedAt: time.Now(),
	}
	metrics.PollRefreshesTotal.WithLabelValues(c.view, "ok").Inc()
}

// Snapshot returns the latest state and marks the controller as in use, which
// defers idle eviction.
func (c *Controller[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastSeen = time.Now()
	return c.snap
}

func (c *Controller[T]) idleSince(cutoff time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSeen.Before(cutoff)
}

// Stop cancels the refresh loop and waits for it to exit. Safe to call more
// than once.
func (c *Controller[T]) Stop() {
	c.cancel()
	<-c.done
}
