package metrics

import (
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Status labels
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// RecordGraph records the size of the loaded graph
func (r *Registry) RecordGraph(nodes, edges int) {
	r.GraphNodesTotal.Set(float64(nodes))
	r.GraphEdgesTotal.Set(float64(edges))
}

// RecordPopulate records one full path cache population
func (r *Registry) RecordPopulate(err error, duration time.Duration, pairs, paths, disconnected int) {
	if err != nil {
		r.PopulateRunsTotal.WithLabelValues(StatusError).Inc()
		return
	}
	r.PopulateRunsTotal.WithLabelValues(StatusSuccess).Inc()
	r.PopulateDuration.Observe(duration.Seconds())
	r.PopulatePairsTotal.Add(float64(pairs))
	r.DisconnectedPairsTotal.Add(float64(disconnected))
	r.CachedPathsTotal.Set(float64(paths))
}

// RecordChunk records a completed pair chunk
func (r *Registry) RecordChunk(duration time.Duration) {
	r.PopulateChunksTotal.Inc()
	r.PopulateChunkDuration.Observe(duration.Seconds())
}

// RecordMeasure records a centrality computation
func (r *Registry) RecordMeasure(measure string, err error, duration time.Duration, undefined int) {
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	r.MeasuresTotal.WithLabelValues(measure, status).Inc()
	if err != nil {
		return
	}
	r.MeasureDuration.WithLabelValues(measure).Observe(duration.Seconds())
	if undefined > 0 {
		r.UndefinedScoresTotal.WithLabelValues(measure).Add(float64(undefined))
	}
}

// UpdateSystemMetrics refreshes runtime gauges
func (r *Registry) UpdateSystemMetrics(startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	r.UptimeSeconds.Set(time.Since(startTime).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))
	r.MemoryAllocBytes.Set(float64(m.Alloc))
}

// Handler serves the registry in the Prometheus exposition format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
