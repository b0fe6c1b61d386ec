/*
Copyright © 2025 Webtoolbox Authors.

Released under MIT license.
*/

package ratelimit

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector represents a collector of the limiter's metrics.
type MetricsCollector interface {
	// IncAdmitted increments the total number of admitted requests.
	IncAdmitted()

	// IncRejected increments the total number of rejected requests.
	IncRejected()

	// SetTrackedClients sets the number of clients with a live window.
	SetTrackedClients(int)
}

// PrometheusMetrics represents Prometheus metrics for the limiter.
type PrometheusMetrics struct {
	AdmittedTotal  prometheus.Counter
	RejectedTotal  prometheus.Counter
	TrackedClients prometheus.Gauge
}

// PrometheusMetricsOpts represents options for PrometheusMetrics.
type PrometheusMetricsOpts struct {
	// Namespace is a namespace for metrics. It will be prepended to all metric names.
	Namespace string

	// ConstLabels is a set of labels that will be applied to all metrics.
	ConstLabels prometheus.Labels
}

// NewPrometheusMetrics creates a new instance of PrometheusMetrics with default options.
func NewPrometheusMetrics() *PrometheusMetrics {
	return NewPrometheusMetricsWithOpts(PrometheusMetricsOpts{})
}

// NewPrometheusMetricsWithOpts creates a new instance of PrometheusMetrics with the provided options.
func NewPrometheusMetricsWithOpts(opts PrometheusMetricsOpts) *PrometheusMetrics {
	return &PrometheusMetrics{
		AdmittedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   opts.Namespace,
			Name:        "rate_limit_admitted_requests_total",
			Help:        "Total number of requests admitted by the rate limiter.",
			ConstLabels: opts.ConstLabels,
		}),
		RejectedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   opts.Namespace,
			Name:        "rate_limit_rejected_requests_total",
			Help:        "Total number of requests rejected by the rate limiter.",
			ConstLabels: opts.ConstLabels,
		}),
		TrackedClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   opts.Namespace,
			Name:        "rate_limit_tracked_clients",
			Help:        "Number of clients with a live rate limiting window.",
			ConstLabels: opts.ConstLabels,
		}),
	}
}

// MustRegister does registration of metrics collector in Prometheus and panics if any error occurs.
func (pm *PrometheusMetrics) MustRegister() {
	prometheus.MustRegister(
		pm.AdmittedTotal,
		pm.RejectedTotal,
		pm.TrackedClients,
	)
}

// Unregister cancels registration of metrics collector in Prometheus.
func (pm *PrometheusMetrics) Unregister() {
	prometheus.Unregister(pm.AdmittedTotal)
	prometheus.Unregister(pm.RejectedTotal)
	prometheus.Unregister(pm.TrackedClients)
}

// IncAdmitted increments the total number of admitted requests.
func (pm *PrometheusMetrics) IncAdmitted() {
	pm.AdmittedTotal.Inc()
}

// IncRejected increments the total number of rejected requests.
func (pm *PrometheusMetrics) IncRejected() {
	pm.RejectedTotal.Inc()
}

// SetTrackedClients sets the number of clients with a live window.
func (pm *PrometheusMetrics) SetTrackedClients(n int) {
	pm.TrackedClients.Set(float64(n))
}

type disabledMetrics struct{}

func (disabledMetrics) IncAdmitted()          {}
func (disabledMetrics) IncRejected()          {}
func (disabledMetrics) SetTrackedClients(int) {}
