/*
Copyright © 2025 Webtoolbox Authors.

Released under MIT license.
*/

package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

func mustNewLimiter(t *testing.T, window time.Duration, maxRequests, maxClients int) *SlidingWindowLogLimiter {
	t.Helper()
	limiter, err := NewSlidingWindowLogLimiter(window, maxRequests, maxClients, nil)
	require.NoError(t, err)
	return limiter
}

func TestLimiterAdmitsUpToLimit(t *testing.T) {
	limiter := mustNewLimiter(t, time.Minute*15, 100, 1000)
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 100; i++ {
		decision := limiter.CheckAndRecord("client-1", now)
		require.True(t, decision.Allowed, "request %d should be admitted", i+1)
		require.Equal(t, 100-i-1, decision.Remaining)
	}

	decision := limiter.CheckAndRecord("client-1", now)
	require.False(t, decision.Allowed, "101st request should be rejected")
	require.Equal(t, time.Minute*15, decision.RetryAfter)
}

func TestLimiterAdmitsAfterWindowPasses(t *testing.T) {
	const window = time.Minute * 15

	limiter := mustNewLimiter(t, window, 100, 1000)
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 100; i++ {
		require.True(t, limiter.CheckAndRecord("client-1", now).Allowed)
	}
	require.False(t, limiter.CheckAndRecord("client-1", now).Allowed)

	// One second after the window boundary all old entries are pruned.
	decision := limiter.CheckAndRecord("client-1", now.Add(window+time.Second))
	require.True(t, decision.Allowed)
	require.Equal(t, 99, decision.Remaining)
}

func TestLimiterWindowBoundaryIsExclusive(t *testing.T) {
	const window = time.Minute

	limiter := mustNewLimiter(t, window, 1, 1000)
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	require.True(t, limiter.CheckAndRecord("client-1", now).Allowed)

	// Exactly at the boundary the old entry does not count anymore.
	require.True(t, limiter.CheckAndRecord("client-1", now.Add(window)).Allowed)

	// One instant before the boundary it still does.
	require.True(t, limiter.CheckAndRecord("client-2", now).Allowed)
	require.False(t, limiter.CheckAndRecord("client-2", now.Add(window-time.Nanosecond)).Allowed)
}

func TestLimiterRejectionConsumesNoSlot(t *testing.T) {
	const window = time.Minute

	limiter := mustNewLimiter(t, window, 2, 1000)
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	require.True(t, limiter.CheckAndRecord("client-1", now).Allowed)
	require.True(t, limiter.CheckAndRecord("client-1", now.Add(time.Second)).Allowed)

	// Hammering while rejected must not extend the rejection.
	for i := 0; i < 10; i++ {
		decision := limiter.CheckAndRecord("client-1", now.Add(time.Second*2))
		require.False(t, decision.Allowed)
		require.Equal(t, window-time.Second*2, decision.RetryAfter)
	}

	// The first slot frees up exactly one window after the first admit.
	require.True(t, limiter.CheckAndRecord("client-1", now.Add(window)).Allowed)
}

func TestLimiterRetryAfterTracksOldestEntry(t *testing.T) {
	const window = time.Minute

	limiter := mustNewLimiter(t, window, 2, 1000)
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	require.True(t, limiter.CheckAndRecord("client-1", now).Allowed)
	require.True(t, limiter.CheckAndRecord("client-1", now.Add(time.Second*10)).Allowed)

	decision := limiter.CheckAndRecord("client-1", now.Add(time.Second*30))
	require.False(t, decision.Allowed)
	require.Equal(t, time.Second*30, decision.RetryAfter)

	// After the oldest entry leaves the window, the next oldest drives Retry-After.
	require.True(t, limiter.CheckAndRecord("client-1", now.Add(window+time.Second)).Allowed)
	decision = limiter.CheckAndRecord("client-1", now.Add(window+time.Second*2))
	require.False(t, decision.Allowed)
	require.Equal(t, time.Second*8, decision.RetryAfter)
}

func TestLimiterIsolatesClients(t *testing.T) {
	limiter := mustNewLimiter(t, time.Minute, 1, 1000)
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	require.True(t, limiter.CheckAndRecord("client-1", now).Allowed)
	require.False(t, limiter.CheckAndRecord("client-1", now).Allowed)
	require.True(t, limiter.CheckAndRecord("client-2", now).Allowed)
}

func TestLimiterConcurrentRequests(t *testing.T) {
	const maxRequests = 100

	limiter := mustNewLimiter(t, time.Minute*15, maxRequests, 1000)
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	admitted := atomic.NewInt32(0)
	rejected := atomic.NewInt32(0)

	var wg sync.WaitGroup
	for i := 0; i < maxRequests*3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.CheckAndRecord("client-1", now).Allowed {
				admitted.Inc()
			} else {
				rejected.Inc()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int32(maxRequests), admitted.Load())
	require.Equal(t, int32(maxRequests*2), rejected.Load())
}

func TestLimiterBoundsTrackedClients(t *testing.T) {
	const maxClients = 10

	limiter := mustNewLimiter(t, time.Minute*15, 100, maxClients)
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	for i := 0; i < maxClients*5; i++ {
		require.True(t, limiter.CheckAndRecord(fmt.Sprintf("client-%d", i), now).Allowed)
	}
	require.Equal(t, maxClients, limiter.TrackedClients())
}

func TestLimiterSweepRemovesIdleClients(t *testing.T) {
	const window = time.Millisecond * 20

	limiter := mustNewLimiter(t, window, 100, 1000)

	for i := 0; i < 5; i++ {
		require.True(t, limiter.CheckAndRecord(fmt.Sprintf("client-%d", i), time.Now()).Allowed)
	}
	require.Equal(t, 5, limiter.TrackedClients())

	time.Sleep(window * 2)
	limiter.Sweep()
	require.Equal(t, 0, limiter.TrackedClients())
}

func TestLimiterMetrics(t *testing.T) {
	metrics := NewPrometheusMetrics()
	limiter, err := NewSlidingWindowLogLimiter(time.Minute, 1, 1000, metrics)
	require.NoError(t, err)

	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	require.True(t, limiter.CheckAndRecord("client-1", now).Allowed)
	require.False(t, limiter.CheckAndRecord("client-1", now).Allowed)
	require.True(t, limiter.CheckAndRecord("client-2", now).Allowed)

	require.Equal(t, float64(2), testutil.ToFloat64(metrics.AdmittedTotal))
	require.Equal(t, float64(1), testutil.ToFloat64(metrics.RejectedTotal))
	require.Equal(t, float64(2), testutil.ToFloat64(metrics.TrackedClients))
}

func TestLimiterInvalidParams(t *testing.T) {
	_, err := NewSlidingWindowLogLimiter(0, 100, 1000, nil)
	require.Error(t, err)

	_, err = NewSlidingWindowLogLimiter(time.Minute, 0, 1000, nil)
	require.Error(t, err)

	_, err = NewSlidingWindowLogLimiter(time.Minute, 100, 0, nil)
	require.Error(t, err)
}
