// Package metrics holds the Prometheus collectors of the ledger and its
// HTTP front end.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns its registry so several instances can live in one process.
type Metrics struct {
	registry *prometheus.Registry

	mutations       *prometheus.CounterVec
	mutationErrors  *prometheus.CounterVec
	publishFailures prometheus.Counter
	cacheLookups    *prometheus.CounterVec

	httpInFlight        prometheus.Gauge
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moneyflow_ledger_mutations_total",
			Help: "Committed ledger mutations.",
		}, []string{"operation"}),
		mutationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moneyflow_ledger_mutation_errors_total",
			Help: "Rejected or failed ledger mutations.",
		}, []string{"operation"}),
		publishFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "moneyflow_event_publish_failures_total",
			Help: "Ledger events that could not be published.",
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moneyflow_summary_cache_lookups_total",
			Help: "Summary cache lookups by result.",
		}, []string{"result"}),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_in_flight_requests",
			Help: "In-flight HTTP requests.",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}

	m.registry.MustRegister(
		m.mutations, m.mutationErrors, m.publishFailures, m.cacheLookups,
		m.httpInFlight, m.httpRequestsTotal, m.httpRequestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// The record methods accept a nil receiver so callers can run without metrics.

func (m *Metrics) MutationCommitted(op string) {
	if m != nil {
		m.mutations.WithLabelValues(op).Inc()
	}
}

func (m *Metrics) MutationFailed(op string) {
	if m != nil {
		m.mutationErrors.WithLabelValues(op).Inc()
	}
}

func (m *Metrics) PublishFailed() {
	if m != nil {
		m.publishFailures.Inc()
	}
}

func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheLookups.WithLabelValues("hit").Inc()
	} else {
		m.cacheLookups.WithLabelValues("miss").Inc()
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Instrument records request count, latency and in-flight requests.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := CanonicalPath(r.URL.Path)

		m.httpInFlight.Inc()
		defer m.httpInFlight.Dec()
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(sw, r)

		status := strconv.Itoa(sw.code)
		m.httpRequestDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
		m.httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
	})
}

var idCollections = map[string]bool{
	"wallets":      true,
	"transactions": true,
	"loans":        true,
}

// CanonicalPath replaces record ids in API paths with ":id" to keep label
// cardinality bounded.
func CanonicalPath(p string) string {
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return "/"
	}
	parts := strings.Split(strings.Trim(p, "/"), "/")
	if len(parts) >= 3 && parts[0] == "api" && idCollections[parts[1]] {
		parts[2] = ":id"
	}
	return "/" + strings.Join(parts, "/")
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
