package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Latency buckets in milliseconds. Computations are in-memory so most land
// well under 10ms.
var defaultBuckets = []float64{0.1, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000}

// Manager owns the service's Prometheus collectors.
// A nil or disabled Manager accepts every call and records nothing.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         *prometheus.Registry

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Computations
	computations       *prometheus.CounterVec
	computationErrors  *prometheus.CounterVec
	computationLatency *prometheus.HistogramVec
	eventsProcessed    *prometheus.CounterVec
	outliersDetected   prometheus.Counter
}

// NewManager creates a metrics manager. Unless WithRegistry is given, a
// fresh registry is used so Go runtime collectors are not exported.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "analytics",
		histogramBuckets: defaultBuckets,
		enabled:          true,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}

	if m.enabled {
		m.initializeMetrics()
	}

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by route, method and status code",
		},
		[]string{"route", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"route", "method"},
	)

	m.computations = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "computations_total",
			Help:      "Total number of successful computations by operation",
		},
		[]string{"operation"},
	)

	m.computationErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "computation_errors_total",
			Help:      "Total number of failed computations by operation and error kind",
		},
		[]string{"operation", "kind"},
	)

	m.computationLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "computation_duration_milliseconds",
			Help:      "Computation duration in milliseconds by operation",
			Buckets:   m.histogramBuckets,
		},
		[]string{"operation"},
	)

	m.eventsProcessed = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "events_processed_total",
			Help:      "Total number of events fed into computations by operation",
		},
		[]string{"operation"},
	)

	m.outliersDetected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "outliers_detected_total",
		Help:      "Total number of outlier values reported",
	})
}

func (m *Manager) active() bool {
	return m != nil && m.enabled
}

// Enabled reports whether the manager records anything.
func (m *Manager) Enabled() bool {
	return m.active()
}

// Registry returns the registry backing this manager.
func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordComputation records a successful computation over events inputs.
func (m *Manager) RecordComputation(operation string, events int, duration time.Duration) {
	if !m.active() {
		return
	}
	m.computations.WithLabelValues(operation).Inc()
	m.eventsProcessed.WithLabelValues(operation).Add(float64(events))
	m.computationLatency.WithLabelValues(operation).Observe(milliseconds(duration))
}

// RecordComputationError records a failed computation.
func (m *Manager) RecordComputationError(operation, kind string) {
	if !m.active() {
		return
	}
	m.computationErrors.WithLabelValues(operation, kind).Inc()
}

// RecordOutliers adds n reported outliers.
func (m *Manager) RecordOutliers(n int) {
	if !m.active() || n <= 0 {
		return
	}
	m.outliersDetected.Add(float64(n))
}

// RecordHTTPRequest records one served request.
func (m *Manager) RecordHTTPRequest(route, method string, status int, duration time.Duration) {
	if !m.active() {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(milliseconds(duration))
}

// Middleware returns a Fiber middleware that records request count and latency
// labelled by the matched route pattern.
func (m *Manager) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !m.active() {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}

		route := c.Route().Path
		if status == fiber.StatusNotFound {
			route = "unmatched"
		}

		m.RecordHTTPRequest(route, c.Method(), status, time.Since(start))
		return err
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{}))
}

func milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
