package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds all Prometheus metrics for the API
type Metrics struct {
	// HTTP request metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight *prometheus.GaugeVec

	// Ingest pipeline metrics
	ingestTotal        *prometheus.CounterVec
	argumentsTotal     *prometheus.CounterVec
	renderDuration     prometheus.Histogram
	truncationsTotal   prometheus.Counter
	bufferSpillsTotal  prometheus.Counter
	entriesStoredTotal prometheus.Counter

	// API key authentication metrics
	authRequestsTotal *prometheus.CounterVec

	// Health check metrics
	healthChecksTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics() *Metrics {
	m := &Metrics{
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skald_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "skald_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpRequestsInFlight: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "skald_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method", "endpoint"},
		),

		ingestTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skald_ingest_total",
				Help: "Total number of ingest requests",
			},
			[]string{"status"},
		),

		argumentsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skald_arguments_total",
				Help: "Total number of encoded log arguments",
			},
			[]string{"kind"},
		),

		renderDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "skald_render_duration_seconds",
				Help:    "Time spent encoding and replaying one entry",
				Buckets: prometheus.ExponentialBuckets(1e-6, 10, 8),
			},
		),

		truncationsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "skald_string_truncations_total",
				Help: "Total number of clamped over-long string arguments",
			},
		),

		bufferSpillsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "skald_buffer_spills_total",
				Help: "Total number of argument buffers that outgrew inline storage",
			},
		),

		entriesStoredTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "skald_entries_stored_total",
				Help: "Total number of rendered entries persisted",
			},
		),

		authRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skald_auth_requests_total",
				Help: "Total number of authentication requests",
			},
			[]string{"status"},
		),

		healthChecksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skald_health_checks_total",
				Help: "Total number of health checks",
			},
			[]string{"status"},
		),
	}

	return m
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	statusCodeStr := strconv.Itoa(statusCode)

	m.httpRequestsTotal.WithLabelValues(method, endpoint, statusCodeStr).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordIngest records an ingest request outcome
func (m *Metrics) RecordIngest(success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.ingestTotal.WithLabelValues(status).Inc()
}

// RecordArgument records one encoded argument by kind
func (m *Metrics) RecordArgument(kind string) {
	m.argumentsTotal.WithLabelValues(kind).Inc()
}

// RecordRender records the encode-and-replay duration of one entry
func (m *Metrics) RecordRender(duration time.Duration) {
	m.renderDuration.Observe(duration.Seconds())
}

// RecordTruncation records one clamped string argument
func (m *Metrics) RecordTruncation() {
	m.truncationsTotal.Inc()
}

// RecordBufferSpill records a buffer that moved to heap storage
func (m *Metrics) RecordBufferSpill() {
	m.bufferSpillsTotal.Inc()
}

// RecordEntryStored records one persisted entry
func (m *Metrics) RecordEntryStored() {
	m.entriesStoredTotal.Inc()
}

// RecordAuthRequest records an authentication request
func (m *Metrics) RecordAuthRequest(success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.authRequestsTotal.WithLabelValues(status).Inc()
}

// RecordHealthCheck records a health check
func (m *Metrics) RecordHealthCheck(success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.healthChecksTotal.WithLabelValues(status).Inc()
}

// InstrumentHandler instruments an HTTP handler with metrics
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Record request in flight
		gauge := m.httpRequestsInFlight.WithLabelValues(method, endpoint)
		gauge.Inc()
		defer gauge.Dec()

		// Create response writer wrapper to capture status code
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		// Call the original handler
		handler(rw, r)

		// Record metrics
		duration := time.Since(start)
		m.RecordHTTPRequest(method, endpoint, rw.statusCode, duration)
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
