// Package algorithms computes node centrality measures over a graph.
//
// An Engine owns the shortest-path cache of exactly one graph. Degree and
// clustering coefficient are local to each node's neighbourhood; betweenness
// and closeness read the cache and populate it on first use. Each call
// returns fresh Scores.
package algorithms

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/dd0wney/cluso-centrality/pkg/graph"
	"github.com/dd0wney/cluso-centrality/pkg/logging"
	"github.com/dd0wney/cluso-centrality/pkg/metrics"
	"github.com/dd0wney/cluso-centrality/pkg/pathcache"
	"github.com/dd0wney/cluso-centrality/pkg/paths"
)

// Measure names a centrality measure.
type Measure string

// Supported measures
const (
	MeasureDegree      Measure = "degree"
	MeasureBetweenness Measure = "betweenness"
	MeasureCloseness   Measure = "closeness"
	MeasureClustering  Measure = "clustering"
)

// Measures lists every measure in menu order.
var Measures = []Measure{MeasureDegree, MeasureBetweenness, MeasureCloseness, MeasureClustering}

// Title returns a display name for the measure.
func (m Measure) Title() string {
	switch m {
	case MeasureDegree:
		return "Degree Centrality"
	case MeasureBetweenness:
		return "Betweenness Centrality"
	case MeasureCloseness:
		return "Closeness Centrality"
	case MeasureClustering:
		return "Clustering Coefficient"
	default:
		return string(m)
	}
}

// Scores maps each node to its score for one measure. Undefined scores are
// stored as NaN.
type Scores map[graph.NodeID]float64

// Engine computes centrality measures for one graph.
type Engine struct {
	g       *graph.Graph
	cache   *pathcache.Cache
	logger  logging.Logger
	metrics *metrics.Registry
}

// NewEngine returns an engine for g whose path cache is populated with opts
// on first need.
func NewEngine(g *graph.Graph, opts pathcache.Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	e := &Engine{
		g:       g,
		logger:  logger.With(logging.Component("algorithms")),
		metrics: opts.Metrics,
	}
	opts.Logger = logger
	e.cache = pathcache.New(g, opts)
	if e.metrics != nil {
		e.metrics.RecordGraph(g.Len(), g.EdgeCount())
	}
	return e
}

// Graph returns the engine's graph.
func (e *Engine) Graph() *graph.Graph {
	return e.g
}

// Cache returns the engine's path cache, for snapshotting and inspection.
func (e *Engine) Cache() *pathcache.Cache {
	return e.cache
}

// Warm populates the path cache eagerly.
func (e *Engine) Warm(ctx context.Context) error {
	return e.cache.Populate(ctx)
}

// Compute runs the named measure.
func (e *Engine) Compute(ctx context.Context, m Measure) (Scores, error) {
	switch m {
	case MeasureDegree:
		return e.Degree(), nil
	case MeasureBetweenness:
		return e.Betweenness(ctx)
	case MeasureCloseness:
		return e.Closeness(ctx)
	case MeasureClustering:
		return e.ClusteringCoefficient(), nil
	default:
		return nil, fmt.Errorf("unknown measure %q", m)
	}
}

// ShortestPaths returns the cached shortest paths from a to b, populating
// the cache if needed.
func (e *Engine) ShortestPaths(ctx context.Context, a, b graph.NodeID) (paths.PathSet, error) {
	if !e.g.HasNode(a) {
		return paths.PathSet{}, graph.InvalidNode("ShortestPaths", a)
	}
	if !e.g.HasNode(b) {
		return paths.PathSet{}, graph.InvalidNode("ShortestPaths", b)
	}
	if err := e.cache.Populate(ctx); err != nil {
		return paths.PathSet{}, err
	}
	return e.cache.Lookup(a, b)
}

// cachedSets populates the cache if needed and returns its sets.
func (e *Engine) cachedSets(ctx context.Context) ([]paths.PathSet, error) {
	if err := e.cache.Populate(ctx); err != nil {
		return nil, fmt.Errorf("populate path cache: %w", err)
	}
	return e.cache.Sets(), nil
}

// observe records the outcome of one measure computation.
func (e *Engine) observe(m Measure, start time.Time, scores Scores, err error) {
	elapsed := time.Since(start)
	undefined := 0
	for _, v := range scores {
		if math.IsNaN(v) {
			undefined++
		}
	}

	if err != nil {
		e.logger.Error("measure failed", logging.Measure(string(m)), logging.Error(err))
	} else {
		e.logger.Debug("measure computed",
			logging.Measure(string(m)),
			logging.Count(len(scores)),
			logging.Latency(elapsed))
	}
	if undefined > 0 {
		e.logger.Warn("undefined scores", logging.Measure(string(m)), logging.Int("nodes", undefined))
	}
	if e.metrics != nil {
		e.metrics.RecordMeasure(string(m), err, elapsed, undefined)
	}
}
