package server

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/panelmap/pkg/observability"
)

// Metrics implements the observability hooks on top of Prometheus.
type Metrics struct {
	BuildDuration  *prometheus.HistogramVec
	ExportDuration *prometheus.HistogramVec
	ExportSize     *prometheus.HistogramVec
	CacheEvents    *prometheus.CounterVec

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPInFlight        prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics registers every panelmap metric on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{registry: reg}
	m.initPipelineMetrics()
	m.initHTTPMetrics()
	return m
}

func (m *Metrics) initPipelineMetrics() {
	m.BuildDuration = promauto.With(m.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "panelmap_build_duration_seconds",
			Help:    "Time to normalize, flatten and lay out a tree",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"engine", "status"},
	)

	m.ExportDuration = promauto.With(m.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "panelmap_export_duration_seconds",
			Help:    "Time to export a diagram in one format",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"format", "status"},
	)

	m.ExportSize = promauto.With(m.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "panelmap_export_size_bytes",
			Help:    "Size of exported documents",
			Buckets: []float64{1e3, 1e4, 1e5, 1e6, 1e7},
		},
		[]string{"format"},
	)

	m.CacheEvents = promauto.With(m.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "panelmap_cache_events_total",
			Help: "Cache hits, misses and writes",
		},
		[]string{"key_type", "event"},
	)
}

func (m *Metrics) initHTTPMetrics() {
	m.HTTPRequestsTotal = promauto.With(m.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "panelmap_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	m.HTTPRequestDuration = promauto.With(m.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "panelmap_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	m.HTTPInFlight = promauto.With(m.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "panelmap_http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// OnBuildStart implements observability.PipelineHooks.
func (m *Metrics) OnBuildStart(context.Context, string) {}

// OnBuildComplete implements observability.PipelineHooks.
func (m *Metrics) OnBuildComplete(_ context.Context, engine string, _ int, d time.Duration, err error) {
	m.BuildDuration.WithLabelValues(engine, status(err)).Observe(d.Seconds())
}

// OnExportStart implements observability.PipelineHooks.
func (m *Metrics) OnExportStart(context.Context, string, int) {}

// OnExportComplete implements observability.PipelineHooks.
func (m *Metrics) OnExportComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	m.ExportDuration.WithLabelValues(format, status(err)).Observe(d.Seconds())
	if err == nil {
		m.ExportSize.WithLabelValues(format).Observe(float64(size))
	}
}

// OnCacheHit implements observability.CacheHooks.
func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.CacheEvents.WithLabelValues(keyType, "hit").Inc()
}

// OnCacheMiss implements observability.CacheHooks.
func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.CacheEvents.WithLabelValues(keyType, "miss").Inc()
}

// OnCacheSet implements observability.CacheHooks.
func (m *Metrics) OnCacheSet(_ context.Context, keyType string, _ int) {
	m.CacheEvents.WithLabelValues(keyType, "set").Inc()
}

// OnRequest implements observability.ServerHooks.
func (m *Metrics) OnRequest(_ context.Context, method, route string, code int, d time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.ServerHooks   = (*Metrics)(nil)
)
