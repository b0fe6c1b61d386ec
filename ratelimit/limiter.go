/*
Copyright © 2025 Webtoolbox Authors.

Released under MIT license.
*/

// Package ratelimit implements a per-client sliding window log rate limiter.
// Every admitted request is recorded with its timestamp; a request is rejected
// when the number of recorded timestamps still inside the window reaches the
// limit. Rejected requests are not recorded and do not consume a slot.
package ratelimit

import (
	"fmt"
	"sync"
	"time"

	"github.com/webtoolbox/toolbox/lrucache"
)

// Decision is the outcome of a single rate limit evaluation.
type Decision struct {
	// Allowed tells whether the request was admitted and recorded.
	Allowed bool

	// RetryAfter is the duration after which the client may be admitted again.
	// It is set only for rejected requests.
	RetryAfter time.Duration

	// Remaining is the number of slots left in the client's window
	// after this evaluation.
	Remaining int
}

type clientWindow struct {
	mu         sync.Mutex
	timestamps []time.Time
}

// SlidingWindowLogLimiter limits the number of requests per client within a sliding window.
//
// Client windows are kept in a bounded LRU store, so the number of tracked
// clients never exceeds maxClients; the least recently seen client is evicted
// when the bound is reached. An entry's TTL is refreshed on each admitted
// request, which makes clients idle for longer than the window expire on
// their own (their recorded timestamps would all be pruned anyway).
type SlidingWindowLogLimiter struct {
	window      time.Duration
	maxRequests int
	store       *lrucache.LRUCache[string, *clientWindow]
	metrics     MetricsCollector
}

// NewSlidingWindowLogLimiter creates a new limiter.
// Metrics collector may be nil, in this case metrics are disabled.
func NewSlidingWindowLogLimiter(
	window time.Duration, maxRequests, maxClients int, metrics MetricsCollector,
) (*SlidingWindowLogLimiter, error) {
	if window <= 0 {
		return nil, fmt.Errorf("window must be positive")
	}
	if maxRequests <= 0 {
		return nil, fmt.Errorf("maxRequests must be positive")
	}
	if metrics == nil {
		metrics = disabledMetrics{}
	}
	store, err := lrucache.NewWithOpts[string, *clientWindow](
		maxClients, nil, lrucache.Options{DefaultTTL: window})
	if err != nil {
		return nil, fmt.Errorf("new LRU store for client windows: %w", err)
	}
	return &SlidingWindowLogLimiter{
		window:      window,
		maxRequests: maxRequests,
		store:       store,
		metrics:     metrics,
	}, nil
}

// NewSlidingWindowLogLimiterFromConfig creates a new limiter using parameters from Config.
func NewSlidingWindowLogLimiterFromConfig(cfg *Config, metrics MetricsCollector) (*SlidingWindowLogLimiter, error) {
	return NewSlidingWindowLogLimiter(time.Duration(cfg.Window), cfg.MaxRequests, cfg.MaxClients, metrics)
}

// CheckAndRecord evaluates a request from the client against the limit at the moment now.
//
// Timestamps older than or exactly at the window boundary (now - window) are
// pruned first; only strictly newer ones count. If the remaining count has
// reached the limit, the request is rejected and nothing is recorded.
// Otherwise now is appended to the client's log and the request is admitted.
//
// The read-modify-write on a client's window is guarded by the window's own
// mutex, so concurrent requests from the same client are serialized and the
// count can never overshoot the limit.
func (l *SlidingWindowLogLimiter) CheckAndRecord(clientID string, now time.Time) Decision {
	win, _ := l.store.GetOrAdd(clientID, func() *clientWindow { return &clientWindow{} })

	win.mu.Lock()
	decision := l.evaluate(win, now)
	win.mu.Unlock()

	if decision.Allowed {
		// Re-adding the same window restarts its TTL, keeping the entry
		// alive for another full window from the last admitted request.
		l.store.Add(clientID, win)
		l.metrics.IncAdmitted()
	} else {
		l.metrics.IncRejected()
	}
	l.metrics.SetTrackedClients(l.store.Len())
	return decision
}

func (l *SlidingWindowLogLimiter) evaluate(win *clientWindow, now time.Time) Decision {
	boundary := now.Add(-l.window)
	kept := win.timestamps[:0]
	for _, ts := range win.timestamps {
		if ts.After(boundary) {
			kept = append(kept, ts)
		}
	}
	win.timestamps = kept

	if len(win.timestamps) >= l.maxRequests {
		retryAfter := win.timestamps[0].Add(l.window).Sub(now)
		return Decision{Allowed: false, RetryAfter: retryAfter}
	}
	win.timestamps = append(win.timestamps, now)
	return Decision{Allowed: true, Remaining: l.maxRequests - len(win.timestamps)}
}

// TrackedClients returns the number of clients with a live window.
func (l *SlidingWindowLogLimiter) TrackedClients() int {
	return l.store.Len()
}

// Sweep removes windows of clients that have been idle for longer than the
// limiting window. It's supposed to be called periodically in the background
// (see service.PeriodicWorker).
func (l *SlidingWindowLogLimiter) Sweep() {
	l.store.CleanupExpired()
	l.metrics.SetTrackedClients(l.store.Len())
}
