// Package metrics defines the Prometheus collectors for the index server
// and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the server.
type Metrics struct {
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	HTTPRequestsInFlight  prometheus.Gauge
	SearchesTotal         *prometheus.CounterVec
	SearchLatency         *prometheus.HistogramVec
	SnapshotFiles         prometheus.Gauge
	SnapshotSizeBytes     prometheus.Gauge
	SnapshotBuildsTotal   prometheus.Counter
	SnapshotBuildDuration prometheus.Histogram
	ContextFilesTotal     *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics. Call it once per
// process; registering the same collectors twice panics.
func New() *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "repolens_http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "repolens_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "repolens_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed.",
			},
		),
		SearchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "repolens_searches_total",
				Help: "Total search operations by kind (search, grep, find, query).",
			},
			[]string{"kind"},
		),
		SearchLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "repolens_search_latency_seconds",
				Help:    "Search operation latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"kind"},
		),
		SnapshotFiles: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "repolens_snapshot_files",
				Help: "Number of files in the current snapshot.",
			},
		),
		SnapshotSizeBytes: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "repolens_snapshot_size_bytes",
				Help: "Total indexed bytes in the current snapshot.",
			},
		),
		SnapshotBuildsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "repolens_snapshot_builds_total",
				Help: "Total snapshot builds, including rebuilds.",
			},
		),
		SnapshotBuildDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "repolens_snapshot_build_duration_seconds",
				Help:    "Snapshot build duration in seconds.",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
		),
		ContextFilesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "repolens_context_files_total",
				Help: "Context bundle entries served by form (full, stub, missing).",
			},
			[]string{"form"},
		),
	}

	prometheus.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.SearchesTotal,
		m.SearchLatency,
		m.SnapshotFiles,
		m.SnapshotSizeBytes,
		m.SnapshotBuildsTotal,
		m.SnapshotBuildDuration,
		m.ContextFilesTotal,
	)

	return m
}

// ObserveSnapshot records the size of a freshly built snapshot.
func (m *Metrics) ObserveSnapshot(files int, sizeBytes int64, buildSeconds float64) {
	m.SnapshotFiles.Set(float64(files))
	m.SnapshotSizeBytes.Set(float64(sizeBytes))
	m.SnapshotBuildsTotal.Inc()
	m.SnapshotBuildDuration.Observe(buildSeconds)
}

// Handler returns the Prometheus scrape HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
