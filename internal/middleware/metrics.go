package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics contains the Prometheus collectors of the API.
type Metrics struct {
	RequestsTotal      *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
	RequestsInProgress prometheus.Gauge

	// Dashboard operations
	ReportsTotal *prometheus.CounterVec
	ExportsTotal *prometheus.CounterVec
	DigestsTotal *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetrics registers the collectors on registry, together with the Go
// runtime and process collectors.
func NewMetrics(registry *prometheus.Registry) (*Metrics, error) {
	m := &Metrics{
		registry: registry,
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "unitmonitor_http_requests_total",
			Help: "Total HTTP requests partitioned by method, route and status code.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "unitmonitor_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~2s
		}, []string{"method", "route"}),
		RequestsInProgress: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "unitmonitor_http_requests_in_progress",
			Help: "HTTP requests currently being served.",
		}),
		ReportsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "unitmonitor_reports_total",
			Help: "Monthly reports built, partitioned by result.",
		}, []string{"result"}),
		ExportsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "unitmonitor_report_exports_total",
			Help: "Report exports to object storage, partitioned by result.",
		}, []string{"result"}),
		DigestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "unitmonitor_report_digests_total",
			Help: "LLM digests requested, partitioned by result.",
		}, []string{"result"}),
	}

	for _, c := range []prometheus.Collector{
		m.RequestsTotal, m.RequestDuration, m.RequestsInProgress,
		m.ReportsTotal, m.ExportsTotal, m.DigestsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}
	return m, nil
}

// Result labels an operation outcome.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// Middleware tracks request metrics. Routes are labelled by chi pattern so
// ids in the path do not explode cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.RequestsInProgress.Inc()
		defer m.RequestsInProgress.Dec()

		start := time.Now()
		wrapped := wrapWriter(w)
		next.ServeHTTP(wrapped, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		m.RequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(wrapped.statusCode)).Inc()
		m.RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
