package poll

import (
	"context"
	"sync"
	"time"

	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/metrics"
)

// DefaultIdleTTL is how long a controller survives without a render touching
// it before it is treated as unmounted and stopped.
const DefaultIdleTTL = 2 * time.Minute

// Hub multiplexes one list view across browser sessions: each session gets
// its own Controller, started on first request and stopped when the session
// stops looking at the view. The request that starts a controller is the
// mount; idle eviction is the unmount, and it is guaranteed — a janitor
// goroutine sweeps idle controllers, and Close stops everything on shutdown.
type Hub[T any] struct {
	view     string
	interval time.Duration
	idleTTL  time.Duration

	mu          sync.Mutex
	controllers map[string]*Controller[T]

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewHub starts a hub for one named view.
func NewHub[T any](view string, interval, idleTTL time.Duration) *Hub[T] {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	ctx, cancel := context.WithCancel(context.Background())
	h := &Hub[T]{
		view:        view,
		interval:    interval,
		idleTTL:     idleTTL,
		controllers: make(map[string]*Controller[T]),
		ctx:         ctx,
		cancel:      cancel,
		done:        make(chan struct{}),
	}
	go h.janitor()
	return h
}

// Snapshot returns the session's current snapshot for this view, starting the
// session's controller if it is not already running. fetch is captured on
// first call and reused for every later refresh of that controller.
func (h *Hub[T]) Snapshot(sessionID string, fetch func(ctx context.Context) ([]T, error)) Snapshot[T] {
	h.mu.Lock()
	c, ok := h.controllers[sessionID]
	if !ok {
		c = start(h.ctx, h.view, h.interval, fetch)
		h.controllers[sessionID] = c
	}
	h.mu.Unlock()

	// Wait for the first fetch outside the hub lock, so one session's slow
	// upstream cannot stall another session's render, Drop, or the janitor.
	<-c.ready
	return c.Snapshot()
}

// Drop stops and removes one session's controller, used on logout.
func (h *Hub[T]) Drop(sessionID string) {
	h.mu.Lock()
	c, ok := h.controllers[sessionID]
	delete(h.controllers, sessionID)
	h.mu.Unlock()

	if ok {
		c.Stop()
		metrics.PollersActive.WithLabelValues(h.view).Dec()
	}
}

// Close stops the janitor and every controller. Used on server shutdown.
func (h *Hub[T]) Close() {
	h.cancel()
	<-h.done

	h.mu.Lock()
	controllers := h.controllers
	h.controllers = make(map[string]*Controller[T])
	h.mu.Unlock()

	for _, c := range controllers {
		c.Stop()
		metrics.PollersActive.WithLabelValues(h.view).Dec()
	}
}

func (h *Hub[T]) janitor() {
	defer close(h.done)

	ticker := time.NewTicker(h.idleTTL / 2)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return
		case <-ticker.C:
			h.sweep()
		}
	}
}

func (h *Hub[T]) sweep() {
	cutoff := time.Now().Add(-h.idleTTL)

	h.mu.Lock()
	var stale []*Controller[T]
	for id, c := range h.controllers {
		if c.idleSince(cutoff) {
			stale = append(stale, c)
			delete(h.controllers, id)
		}
	}
	h.mu.Unlock()

	for _, c := range stale {
		c.Stop()
		metrics.PollersActive.WithLabelValues(h.view).Dec()
	}
}
