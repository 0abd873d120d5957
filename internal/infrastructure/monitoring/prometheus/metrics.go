// Package prometheus exposes the service's operational metrics.
package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/turtlebank/teenfin/internal/recommend"
	apperrors "github.com/turtlebank/teenfin/pkg/errors"
)

var httpDurationBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// Pipeline stages run from sub-millisecond validation up to multi-second
// model calls.
var stageDurationBuckets = []float64{.001, .01, .05, .1, .5, 1, 2, 5, 10, 30}

// Metrics bundles every collector on a private registry so tests never
// collide on the global default.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	PipelineStageDuration *prometheus.HistogramVec
	PipelineFailuresTotal *prometheus.CounterVec
}

var _ recommend.PipelineMetrics = (*Metrics)(nil)

// New registers all collectors under the given namespace.
func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, route, and status.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   httpDurationBuckets,
		}, []string{"method", "route"}),
		PipelineStageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recommendation_stage_duration_seconds",
			Help:      "Recommendation pipeline stage latency.",
			Buckets:   stageDurationBuckets,
		}, []string{"stage"}),
		PipelineFailuresTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommendation_failures_total",
			Help:      "Recommendation pipeline failures by error code.",
		}, []string{"code"}),
	}
}

// Handler serves the exposition endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveHTTP records one finished HTTP request.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveStage records one pipeline stage timing.
func (m *Metrics) ObserveStage(state recommend.State, elapsed time.Duration) {
	m.PipelineStageDuration.WithLabelValues(string(state)).Observe(elapsed.Seconds())
}

// RecordFailure counts one pipeline failure by error code.
func (m *Metrics) RecordFailure(code apperrors.ErrorCode) {
	m.PipelineFailuresTotal.WithLabelValues(code.String()).Inc()
}
