// Package metrics exposes Prometheus collectors for the HTTP surface and the
// record store.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "saba"

// Metrics holds every collector on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests  *prometheus.CounterVec
	HTTPDuration  *prometheus.HistogramVec
	StoreOps      *prometheus.CounterVec
	StoreDuration *prometheus.HistogramVec
	LowStockItems prometheus.Gauge
	RateLimited   prometheus.Counter
	Suspicious    prometheus.Counter
}

// New registers the collectors, plus the Go and process collectors, on a
// fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		StoreOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_operations_total",
			Help:      "Record store operations by kind, operation and result.",
		}, []string{"kind", "op", "result"}),
		StoreDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_operation_duration_seconds",
			Help:      "Record store latency by kind and operation.",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
		}, []string{"kind", "op"}),
		LowStockItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "low_stock_items",
			Help:      "Stock items at or below their alert threshold at the last check.",
		}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_rate_limited_total",
			Help:      "Write requests rejected by the rate limiter.",
		}),
		Suspicious: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_suspicious_requests_total",
			Help:      "Requests matching a known probing pattern.",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests,
		m.HTTPDuration,
		m.StoreOps,
		m.StoreDuration,
		m.LowStockItems,
		m.RateLimited,
		m.Suspicious,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry is exposed for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTP records one completed request.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) observeStore(kind, op string, err error, d time.Duration) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.StoreOps.WithLabelValues(kind, op, result).Inc()
	m.StoreDuration.WithLabelValues(kind, op).Observe(d.Seconds())
}
