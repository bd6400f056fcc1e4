// Package metrics exposes Prometheus collectors for view computation, the
// view cache, scan processing and the HTTP surface.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"

	ScanStored   = "stored"
	ScanFallback = "fallback"
	ScanRejected = "rejected"
	ScanFailed   = "failed"
)

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	registry      *prometheus.Registry
	viewsComputed *prometheus.CounterVec
	viewDuration  *prometheus.HistogramVec
	cacheRequests *prometheus.CounterVec
	scans         *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

// New registers all collectors under namespace
func New(namespace string) *Metrics {
	namespace = strings.TrimSpace(namespace)
	if namespace == "" {
		namespace = "energy_insights"
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		viewsComputed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "views_computed_total",
			Help:      "Insight views computed from stored records.",
		}, []string{"view"}),
		viewDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "view_compute_duration_seconds",
			Help:      "Time to load records and compute an insight view.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"view"}),
		cacheRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "view_cache_requests_total",
			Help:      "View cache lookups by result.",
		}, []string{"view", "result"}),
		scans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scans_processed_total",
			Help:      "Scan messages processed by kind and outcome.",
		}, []string{"kind", "outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.viewsComputed,
		m.viewDuration,
		m.cacheRequests,
		m.scans,
		m.httpRequests,
		m.httpDuration,
	)

	return m
}

// ObserveView records one view computation
func (m *Metrics) ObserveView(view string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.viewsComputed.WithLabelValues(view).Inc()
	m.viewDuration.WithLabelValues(view).Observe(elapsed.Seconds())
}

// CacheResult records a cache lookup outcome
func (m *Metrics) CacheResult(view, result string) {
	if m == nil {
		return
	}
	m.cacheRequests.WithLabelValues(view, result).Inc()
}

// ScanProcessed records the outcome of a scan message
func (m *Metrics) ScanProcessed(kind, outcome string) {
	if m == nil {
		return
	}
	m.scans.WithLabelValues(kind, outcome).Inc()
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// GinMiddleware records request counts and latency by route template
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if m == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		m.httpRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
