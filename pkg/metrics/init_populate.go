package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initGraphMetrics() {
	r.GraphNodesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "centrality_graph_nodes",
			Help: "Number of nodes in the loaded graph",
		},
	)

	r.GraphEdgesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "centrality_graph_edges",
			Help: "Number of undirected edges in the loaded graph",
		},
	)
}

func (r *Registry) initPopulateMetrics() {
	r.PopulateRunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "centrality_populate_runs_total",
			Help: "Path cache population runs by outcome",
		},
		[]string{"status"},
	)

	r.PopulateDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "centrality_populate_duration_seconds",
			Help:    "Wall time of a full path cache population",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 30, 120, 600},
		},
	)

	r.PopulatePairsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "centrality_populate_pairs_total",
			Help: "Node pairs whose shortest paths were enumerated",
		},
	)

	r.PopulateChunksTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "centrality_populate_chunks_total",
			Help: "Pair chunks completed by workers",
		},
	)

	r.PopulateChunkDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "centrality_populate_chunk_duration_seconds",
			Help:    "Wall time of a single pair chunk",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		},
	)

	r.DisconnectedPairsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "centrality_disconnected_pairs_total",
			Help: "Node pairs with no connecting path",
		},
	)

	r.CachedPathsTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "centrality_cached_paths",
			Help: "Shortest paths held by the most recent populated cache",
		},
	)
}

func (r *Registry) initMeasureMetrics() {
	r.MeasuresTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "centrality_measures_total",
			Help: "Centrality computations by measure and outcome",
		},
		[]string{"measure", "status"},
	)

	r.MeasureDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "centrality_measure_duration_seconds",
			Help:    "Centrality computation duration in seconds, excluding cache population",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 30},
		},
		[]string{"measure"},
	)

	r.UndefinedScoresTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "centrality_undefined_scores_total",
			Help: "Nodes whose score could not be defined",
		},
		[]string{"measure"},
	)
}
