/*
Copyright © 2025 Webtoolbox Authors.

Released under MIT license.
*/

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/webtoolbox/toolbox/testutil"
)

func pathRoutePattern(r *http.Request) string {
	return r.URL.Path
}

func getDurationsHistogram(
	t *testing.T, collector *HTTPRequestMetricsCollector, method, routePattern string, statusCode int,
) prometheus.Histogram {
	t.Helper()
	m, err := collector.Durations.GetMetricWith(prometheus.Labels{
		httpRequestMetricsLabelMethod:       method,
		httpRequestMetricsLabelRoutePattern: routePattern,
		httpRequestMetricsLabelStatusCode:   strconv.Itoa(statusCode),
	})
	require.NoError(t, err)
	return m.(prometheus.Histogram)
}

func TestHTTPRequestMetrics(t *testing.T) {
	t.Run("observations are collected per status code", func(t *testing.T) {
		collector := NewHTTPRequestMetricsCollector()
		next := http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/broken" {
				rw.WriteHeader(http.StatusInternalServerError)
				return
			}
			rw.WriteHeader(http.StatusOK)
		})
		h := HTTPRequestMetrics(collector, pathRoutePattern)(next)

		for i := 0; i < 3; i++ {
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/endpoint", nil))
		}
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/broken", nil))

		testutil.RequireSamplesCountInHistogram(t,
			getDurationsHistogram(t, collector, http.MethodGet, "/endpoint", http.StatusOK), 3)
		testutil.RequireSamplesCountInHistogram(t,
			getDurationsHistogram(t, collector, http.MethodGet, "/broken", http.StatusInternalServerError), 1)
	})

	t.Run("panic is tracked as 500 and propagated", func(t *testing.T) {
		collector := NewHTTPRequestMetricsCollector()
		next := http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			panic("boom")
		})
		h := HTTPRequestMetrics(collector, pathRoutePattern)(next)

		require.Panics(t, func() {
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/panicky", nil))
		})
		testutil.RequireSamplesCountInHistogram(t,
			getDurationsHistogram(t, collector, http.MethodGet, "/panicky", http.StatusInternalServerError), 1)
	})

	t.Run("excluded endpoints are not observed", func(t *testing.T) {
		collector := NewHTTPRequestMetricsCollector()
		next := http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			rw.WriteHeader(http.StatusOK)
		})
		h := HTTPRequestMetricsWithOpts(collector, pathRoutePattern, HTTPRequestMetricsOpts{
			ExcludedEndpoints: []string{"/healthz"},
		})(next)

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
		testutil.RequireSamplesCountInHistogram(t,
			getDurationsHistogram(t, collector, http.MethodGet, "/healthz", http.StatusOK), 0)
	})
}
