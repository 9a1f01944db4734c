// Package monitoring provides Prometheus metrics for the bridge daemon.
package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Bridge operation metrics
	OpCalls    *prometheus.CounterVec
	OpDuration *prometheus.HistogramVec
	OpErrors   *prometheus.CounterVec

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	// Sandbox metrics
	SandboxUsageBytes prometheus.Gauge

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewMetrics creates a metrics collector on the default registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith creates a metrics collector on the given registerer. Tests
// pass a fresh registry so collectors never collide across instances.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{
		startTime: time.Now(),
		stop:      make(chan struct{}),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bridge_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bridge_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),

		OpCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bridge_op_calls_total",
				Help: "Total number of bridge operations dispatched",
			},
			[]string{"op", "status"},
		),
		OpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bridge_op_duration_seconds",
				Help:    "Bridge operation duration in seconds",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"op"},
		),
		OpErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bridge_op_errors_total",
				Help: "Total number of failed bridge operations",
			},
			[]string{"op"},
		),

		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "bridge_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bridge_ws_messages_total",
				Help: "Total number of WebSocket messages",
			},
			[]string{"direction", "op"},
		),

		SandboxUsageBytes: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "bridge_sandbox_usage_bytes",
				Help: "Last computed sandbox usage in bytes",
			},
		),

		Uptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "bridge_uptime_seconds",
				Help: "Daemon uptime in seconds",
			},
		),
	}

	go m.updateUptime()

	return m
}

func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Uptime.Set(time.Since(m.startTime).Seconds())
		case <-m.stop:
			return
		}
	}
}

// Close stops background collection. Safe to call more than once.
func (m *Metrics) Close() {
	m.stopOnce.Do(func() { close(m.stop) })
}

// RecordHTTPRequest records an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordOp records a dispatched bridge operation.
func (m *Metrics) RecordOp(op, status string, duration time.Duration) {
	m.OpCalls.WithLabelValues(op, status).Inc()
	m.OpDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// RecordOpError records a failed bridge operation.
func (m *Metrics) RecordOpError(op string) {
	m.OpErrors.WithLabelValues(op).Inc()
}

// RecordWSMessage records a WebSocket message.
func (m *Metrics) RecordWSMessage(direction, op string) {
	m.WSMessages.WithLabelValues(direction, op).Inc()
}

// IncWSConnections increments the WebSocket connection gauge.
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
}

// DecWSConnections decrements the WebSocket connection gauge.
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
}

// SetSandboxUsage records the last computed sandbox usage.
func (m *Metrics) SetSandboxUsage(bytes uint64) {
	m.SandboxUsageBytes.Set(float64(bytes))
}
