/*
Copyright © 2025 Webtoolbox Authors.

Released under MIT license.
*/

// Package respcache provides a TTL cache for HTTP response payloads.
// Responses are stored under a request fingerprint and served on subsequent
// equivalent requests without invoking the handler again.
package respcache

import (
	"fmt"
	"net/http"
	"time"

	"github.com/webtoolbox/toolbox/lrucache"
)

// Entry is a cached response payload.
type Entry struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Cache stores response entries with a fixed TTL in a bounded LRU store.
type Cache struct {
	store *lrucache.LRUCache[string, Entry]
}

// Options represents options for the cache.
type Options struct {
	// NowFunc is a clock used for TTL calculations. time.Now by default.
	NowFunc func() time.Time
}

// New creates a new response cache with the provided TTL and maximum number of entries.
// Metrics collector may be nil, in this case metrics are disabled.
func New(ttl time.Duration, maxEntries int, metrics lrucache.MetricsCollector) (*Cache, error) {
	return NewWithOpts(ttl, maxEntries, metrics, Options{})
}

// NewWithOpts creates a new response cache with an ability to specify optional parameters.
func NewWithOpts(ttl time.Duration, maxEntries int, metrics lrucache.MetricsCollector, opts Options) (*Cache, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("ttl must be positive")
	}
	store, err := lrucache.NewWithOpts[string, Entry](
		maxEntries, metrics, lrucache.Options{DefaultTTL: ttl, NowFunc: opts.NowFunc})
	if err != nil {
		return nil, fmt.Errorf("new LRU store for response entries: %w", err)
	}
	return &Cache{store: store}, nil
}

// NewFromConfig creates a new response cache using parameters from Config.
func NewFromConfig(cfg *Config, metrics lrucache.MetricsCollector) (*Cache, error) {
	return New(time.Duration(cfg.TTL), cfg.MaxEntries, metrics)
}

// Lookup returns the entry stored under the key.
// It reports a hit only while the entry's age is strictly less than the TTL.
func (c *Cache) Lookup(key string) (Entry, bool) {
	return c.store.Get(key)
}

// Store puts the entry under the key unconditionally.
// An existing entry is overwritten and its TTL restarts (last write wins).
func (c *Cache) Store(key string, entry Entry) {
	c.store.Add(key, entry)
}

// Clear removes all entries. It is called on graceful shutdown.
func (c *Cache) Clear() {
	c.store.Purge()
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	return c.store.Len()
}

// Cleanup removes expired entries. It's supposed to be called periodically
// in the background (see service.PeriodicWorker).
func (c *Cache) Cleanup() {
	c.store.CleanupExpired()
}

// RequestFingerprint builds the cache key for a request: the method and the
// request target, query string included verbatim. The raw query is not
// normalized, so the same parameters in a different order produce a
// different key.
func RequestFingerprint(r *http.Request) string {
	if r.URL.RawQuery == "" {
		return r.Method + " " + r.URL.Path
	}
	return r.Method + " " + r.URL.Path + "?" + r.URL.RawQuery
}
