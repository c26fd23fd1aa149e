// Package telemetry exposes Prometheus metrics for the dispatch pipeline,
// the HTTP transport, and the session layer.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every Prometheus metric the server publishes.
type Metrics struct {
	// Tool pipeline
	ToolCallsTotal   *prometheus.CounterVec
	ToolCallDuration *prometheus.HistogramVec

	// Frame transport
	FramesTotal *prometheus.CounterVec

	// HTTP transport
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Sessions
	SessionsActive prometheus.Gauge
	SessionsTotal  *prometheus.CounterVec

	// Runtime
	Goroutines  prometheus.Gauge
	MemoryBytes prometheus.Gauge
}

// NewMetrics creates and registers all metrics on the default registerer.
func NewMetrics() *Metrics {
	return &Metrics{
		ToolCallsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "odmcp_tool_calls_total",
				Help: "Total number of tool calls by outcome",
			},
			[]string{"tool", "status"},
		),
		ToolCallDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "odmcp_tool_call_duration_seconds",
				Help:    "Duration of tool calls in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"tool"},
		),
		FramesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "odmcp_frames_total",
				Help: "Total number of protocol frames by direction and kind",
			},
			[]string{"direction", "kind"},
		),
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "odmcp_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "odmcp_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "odmcp_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),
		SessionsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "odmcp_sessions_active",
				Help: "Number of active client sessions",
			},
		),
		SessionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "odmcp_sessions_total",
				Help: "Total number of session lifecycle events",
			},
			[]string{"action"},
		),
		Goroutines: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "odmcp_goroutines_current",
				Help: "Number of goroutines that currently exist",
			},
		),
		MemoryBytes: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "odmcp_memory_usage_bytes",
				Help: "Current heap allocation in bytes",
			},
		),
	}
}

// RecordToolCall records one completed tool call.
func (m *Metrics) RecordToolCall(tool, status string, duration time.Duration) {
	m.ToolCallsTotal.WithLabelValues(tool, status).Inc()
	m.ToolCallDuration.WithLabelValues(tool).Observe(duration.Seconds())
}

// RecordFrame counts one protocol frame.
func (m *Metrics) RecordFrame(direction, kind string) {
	m.FramesTotal.WithLabelValues(direction, kind).Inc()
}

// RecordHTTPRequest records one completed HTTP request.
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordSessionCreated counts a new session.
func (m *Metrics) RecordSessionCreated() {
	m.SessionsActive.Inc()
	m.SessionsTotal.WithLabelValues("created").Inc()
}

// RecordSessionDeleted counts a retired session.
func (m *Metrics) RecordSessionDeleted() {
	m.SessionsActive.Dec()
	m.SessionsTotal.WithLabelValues("deleted").Inc()
}

// RecordSessionsExpired counts sessions removed by a sweep.
func (m *Metrics) RecordSessionsExpired(n int) {
	m.SessionsActive.Sub(float64(n))
	m.SessionsTotal.WithLabelValues("expired").Add(float64(n))
}

// UpdateSystemMetrics updates the runtime gauges.
func (m *Metrics) UpdateSystemMetrics(goroutines int, memoryBytes uint64) {
	m.Goroutines.Set(float64(goroutines))
	m.MemoryBytes.Set(float64(memoryBytes))
}
