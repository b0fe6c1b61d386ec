/*
Copyright © 2025 Webtoolbox Authors.

Released under MIT license.
*/

package respcache

import (
	"bytes"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/webtoolbox/toolbox/config"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func mustNewCache(t *testing.T, ttl time.Duration, clock *fakeClock) *Cache {
	t.Helper()
	cache, err := NewWithOpts(ttl, 100, nil, Options{NowFunc: clock.Now})
	require.NoError(t, err)
	return cache
}

func TestCacheLookupWithinTTL(t *testing.T) {
	clock := newFakeClock()
	cache := mustNewCache(t, time.Minute*5, clock)

	entry := Entry{StatusCode: 200, ContentType: "application/json", Body: []byte(`{"ok":true}`)}
	cache.Store("GET /api/toolbox/v1/tools/hash?text=abc", entry)

	clock.Advance(time.Minute*5 - time.Second)
	got, ok := cache.Lookup("GET /api/toolbox/v1/tools/hash?text=abc")
	require.True(t, ok)
	require.Equal(t, entry, got)
}

func TestCacheLookupAfterTTL(t *testing.T) {
	clock := newFakeClock()
	cache := mustNewCache(t, time.Minute*5, clock)

	cache.Store("GET /api/toolbox/v1/tools/hash?text=abc", Entry{StatusCode: 200})

	clock.Advance(time.Minute*5 + time.Second)
	_, ok := cache.Lookup("GET /api/toolbox/v1/tools/hash?text=abc")
	require.False(t, ok)
}

func TestCacheLastWriteWins(t *testing.T) {
	clock := newFakeClock()
	cache := mustNewCache(t, time.Minute*5, clock)

	cache.Store("k", Entry{StatusCode: 200, Body: []byte("first")})
	clock.Advance(time.Minute * 4)
	cache.Store("k", Entry{StatusCode: 200, Body: []byte("second")})

	// The overwrite restarted the TTL, so the entry outlives the first write's deadline.
	clock.Advance(time.Minute * 4)
	got, ok := cache.Lookup("k")
	require.True(t, ok)
	require.Equal(t, []byte("second"), got.Body)
}

func TestCacheClear(t *testing.T) {
	clock := newFakeClock()
	cache := mustNewCache(t, time.Minute*5, clock)

	cache.Store("a", Entry{StatusCode: 200})
	cache.Store("b", Entry{StatusCode: 200})
	require.Equal(t, 2, cache.Len())

	cache.Clear()
	require.Equal(t, 0, cache.Len())
	_, ok := cache.Lookup("a")
	require.False(t, ok)
}

func TestCacheCleanup(t *testing.T) {
	clock := newFakeClock()
	cache := mustNewCache(t, time.Minute*5, clock)

	cache.Store("a", Entry{StatusCode: 200})
	clock.Advance(time.Minute * 6)
	cache.Store("b", Entry{StatusCode: 200})
	require.Equal(t, 2, cache.Len())

	cache.Cleanup()
	require.Equal(t, 1, cache.Len())
	_, ok := cache.Lookup("b")
	require.True(t, ok)
}

func TestRequestFingerprint(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"no query", "/api/toolbox/v1/tools/morse", "GET /api/toolbox/v1/tools/morse"},
		{"with query", "/api/toolbox/v1/tools/hash?text=abc&algorithm=md5",
			"GET /api/toolbox/v1/tools/hash?text=abc&algorithm=md5"},
		{"query order preserved", "/api/toolbox/v1/tools/hash?algorithm=md5&text=abc",
			"GET /api/toolbox/v1/tools/hash?algorithm=md5&text=abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.target, nil)
			require.Equal(t, tt.want, RequestFingerprint(req))
		})
	}

	// Same parameters in a different order are distinct keys.
	req1 := httptest.NewRequest("GET", "/t?a=1&b=2", nil)
	req2 := httptest.NewRequest("GET", "/t?b=2&a=1", nil)
	require.NotEqual(t, RequestFingerprint(req1), RequestFingerprint(req2))
}

func TestConfigSet(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := NewConfig()
		err := config.NewDefaultLoader("toolbox").LoadFromReader(bytes.NewBufferString("{}"), config.DataTypeYAML, cfg)
		require.NoError(t, err)
		require.True(t, cfg.Enabled)
		require.Equal(t, config.TimeDuration(time.Minute*5), cfg.TTL)
		require.Equal(t, 10000, cfg.MaxEntries)
		require.Equal(t, config.TimeDuration(time.Minute), cfg.CleanupInterval)
		require.Empty(t, cfg.ExcludedRoutes)
	})

	t.Run("full yaml", func(t *testing.T) {
		cfgData := bytes.NewBufferString(`
responseCache:
  enabled: true
  ttl: 30s
  maxEntries: 100
  cleanupInterval: 10s
  excludedRoutes:
    - /api/toolbox/v1/tools/uuid
    - /api/toolbox/v1/tools/random
`)
		cfg := NewConfig()
		err := config.NewDefaultLoader("toolbox").LoadFromReader(cfgData, config.DataTypeYAML, cfg)
		require.NoError(t, err)
		require.Equal(t, config.TimeDuration(time.Second*30), cfg.TTL)
		require.Equal(t, 100, cfg.MaxEntries)
		require.Len(t, cfg.ExcludedRoutes, 2)
	})

	t.Run("non-positive ttl", func(t *testing.T) {
		cfg := NewConfig()
		err := config.NewDefaultLoader("toolbox").LoadFromReader(
			bytes.NewBufferString("responseCache:\n  ttl: -1s\n"), config.DataTypeYAML, cfg)
		require.Error(t, err)
		require.Contains(t, err.Error(), "responseCache.ttl")
	})
}
