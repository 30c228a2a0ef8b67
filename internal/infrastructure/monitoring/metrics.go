// Package monitoring exposes Prometheus metrics and OpenTelemetry tracing
package monitoring

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/macrotrack/api/internal/domain/nutrition"
	"github.com/macrotrack/api/internal/domain/shared"
)

const namespace = "macrotrack"

// MetricsCollector handles Prometheus metrics collection
type MetricsCollector struct {
	logger   *zap.Logger
	registry *prometheus.Registry

	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpResponseSize    *prometheus.HistogramVec
	httpInFlight        prometheus.Gauge

	// Business metrics
	domainEventsTotal     *prometheus.CounterVec
	nutritionLookups      *prometheus.CounterVec
	nutritionLookupTiming *prometheus.HistogramVec
	rateLimitedTotal      prometheus.Counter
}

// NewMetricsCollector creates a collector on its own registry, with the Go
// runtime and process collectors attached
func NewMetricsCollector(logger *zap.Logger) *MetricsCollector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &MetricsCollector{
		logger:   logger.Named("metrics"),
		registry: reg,

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status_code"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route", "status_code"},
		),
		httpResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_response_size_bytes",
				Help:      "HTTP response size in bytes",
				Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
			},
			[]string{"method", "route"},
		),
		httpInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Requests currently being served",
			},
		),

		domainEventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "domain_events_total",
				Help:      "Domain events dispatched, by name",
			},
			[]string{"event"},
		),
		nutritionLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "nutrition_lookups_total",
				Help:      "Nutrition lookups, by the source that answered",
			},
			[]string{"source"},
		),
		nutritionLookupTiming: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "nutrition_lookup_duration_seconds",
				Help:      "Nutrition lookup latency in seconds",
				Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 20.0},
			},
			[]string{"source"},
		),
		rateLimitedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_limited_requests_total",
				Help:      "Requests rejected by the rate limiter",
			},
		),
	}
}

// Registry returns the registry the collector writes to
func (m *MetricsCollector) Registry() *prometheus.Registry {
	return m.registry
}

// RegisterDB exports connection pool statistics for db
func (m *MetricsCollector) RegisterDB(db *sql.DB, name string) {
	if err := m.registry.Register(collectors.NewDBStatsCollector(db, name)); err != nil {
		m.logger.Warn("Failed to register database stats collector", zap.Error(err))
	}
}

// HTTPMiddleware records request count, latency and response size per route
func (m *MetricsCollector) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		m.httpInFlight.Inc()
		defer m.httpInFlight.Dec()

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := routePattern(r)
		code := strconv.Itoa(status)

		m.httpRequestsTotal.WithLabelValues(r.Method, route, code).Inc()
		m.httpRequestDuration.WithLabelValues(r.Method, route, code).Observe(time.Since(start).Seconds())
		m.httpResponseSize.WithLabelValues(r.Method, route).Observe(float64(ww.BytesWritten()))
	})
}

// routePattern keeps label cardinality bounded by using the matched chi route
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

// ObserveLookup implements outbound.LookupObserver
func (m *MetricsCollector) ObserveLookup(source nutrition.Source, took time.Duration) {
	m.nutritionLookups.WithLabelValues(string(source)).Inc()
	m.nutritionLookupTiming.WithLabelValues(string(source)).Observe(took.Seconds())
}

// EventHandler counts dispatched domain events
func (m *MetricsCollector) EventHandler(e shared.DomainEvent) error {
	m.domainEventsTotal.WithLabelValues(e.EventName()).Inc()
	return nil
}

// RateLimited counts a rejected request
func (m *MetricsCollector) RateLimited() {
	m.rateLimitedTotal.Inc()
}

// Handler returns the Prometheus metrics HTTP handler
func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
