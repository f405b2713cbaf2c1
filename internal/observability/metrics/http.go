package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	analysisTotal    *prometheus.CounterVec
	analysisDuration *prometheus.HistogramVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "locadoc",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "locadoc",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "locadoc",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	analysisTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "locadoc",
			Subsystem: "dedup",
			Name:      "analysis_total",
			Help:      "Total duplicate analyses by outcome.",
		},
		[]string{"service", "duplicate_type", "suggested_action"},
	)
	analysisDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "locadoc",
			Subsystem: "dedup",
			Name:      "analysis_duration_seconds",
			Help:      "Duplicate analysis duration in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"service"},
	)
	registry.MustRegister(requestTotal, requestDuration, requestInFlight, analysisTotal, analysisDuration)

	return &HTTPServerMetrics{
		registry:         registry,
		requestTotal:     requestTotal,
		requestDuration:  requestDuration,
		requestInFlight:  requestInFlight,
		analysisTotal:    analysisTotal,
		analysisDuration: analysisDuration,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) ObserveRequest(service, method, path string, status int, duration time.Duration) {
	m.requestTotal.WithLabelValues(service, method, normalizePath(path), strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(service, method, normalizePath(path)).Observe(duration.Seconds())
}

func (m *HTTPServerMetrics) RequestStarted()  { m.requestInFlight.Inc() }
func (m *HTTPServerMetrics) RequestFinished() { m.requestInFlight.Dec() }

func (m *HTTPServerMetrics) ObserveAnalysis(service, duplicateType, suggestedAction string, duration time.Duration) {
	m.analysisTotal.WithLabelValues(service, duplicateType, suggestedAction).Inc()
	m.analysisDuration.WithLabelValues(service).Observe(duration.Seconds())
}

// normalizePath collapses per-document paths into one label value to keep
// cardinality bounded.
func normalizePath(path string) string {
	if strings.HasPrefix(path, "/v1/documents/") {
		rest := strings.TrimPrefix(path, "/v1/documents/")
		if strings.HasSuffix(rest, "/analysis") {
			return "/v1/documents/:id/analysis"
		}
		if rest != "" {
			return "/v1/documents/:id"
		}
	}
	return path
}
