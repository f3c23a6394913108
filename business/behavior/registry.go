package behavior

import (
	"context"
	"sync"
	"time"
)

// Registry hands out one tracker per user and runs the recurring idle
// sweep over all of them.
type Registry struct {
	mu       sync.Mutex
	trackers map[string]*Tracker

	store Store
	cfg   Config
}

func NewRegistry(store Store, cfg Config) *Registry {
	return &Registry{
		trackers: make(map[string]*Tracker),
		store:    store,
		cfg:      cfg,
	}
}

// ForUser returns the user's tracker, creating it (and loading persisted
// behavior) on first use.
func (r *Registry) ForUser(ctx context.Context, userID string) *Tracker {
	r.mu.Lock()
	t, ok := r.trackers[userID]
	r.mu.Unlock()
	if ok {
		return t
	}

	// load outside the registry lock; a racing duplicate is discarded
	fresh := NewTracker(ctx, userID, r.store, r.cfg)

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.trackers[userID]; ok {
		return existing
	}
	r.trackers[userID] = fresh
	return fresh
}

// Run sweeps every tracker for idle-session timeouts on a fixed tick
// until the context is cancelled.
func (r *Registry) Run(ctx context.Context) {
	interval := r.cfg.IdleCheckInterval
	if interval <= 0 {
		interval = 60 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

func (r *Registry) sweep(ctx context.Context) {
	r.mu.Lock()
	trackers := make([]*Tracker, 0, len(r.trackers))
	for _, t := range r.trackers {
		trackers = append(trackers, t)
	}
	r.mu.Unlock()

	for _, t := range trackers {
		t.CheckIdleTimeout(ctx)
	}
}
