package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds the centrality engine metrics on a private Prometheus
// registry, so several engines in one process never collide.
type Registry struct {
	// Graph Metrics
	GraphNodesTotal prometheus.Gauge
	GraphEdgesTotal prometheus.Gauge

	// Path cache population
	PopulateRunsTotal      *prometheus.CounterVec
	PopulateDuration       prometheus.Histogram
	PopulatePairsTotal     prometheus.Counter
	PopulateChunksTotal    prometheus.Counter
	PopulateChunkDuration  prometheus.Histogram
	DisconnectedPairsTotal prometheus.Counter
	CachedPathsTotal       prometheus.Gauge

	// Centrality measures
	MeasuresTotal        *prometheus.CounterVec
	MeasureDuration      *prometheus.HistogramVec
	UndefinedScoresTotal *prometheus.CounterVec

	// System Metrics
	UptimeSeconds    prometheus.Gauge
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge

	registry *prometheus.Registry
	mu       sync.RWMutex
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initGraphMetrics()
	r.initPopulateMetrics()
	r.initMeasureMetrics()
	r.initSystemMetrics()

	return r
}
