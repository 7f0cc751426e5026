package algorithms

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/dd0wney/cluso-centrality/pkg/graph"
	"github.com/dd0wney/cluso-centrality/pkg/paths"
)

// Degree computes degree centrality for all nodes: the number of neighbours.
func (e *Engine) Degree() Scores {
	start := time.Now()
	scores := make(Scores, e.g.Len())
	for _, id := range e.g.Nodes() {
		scores[id] = float64(e.g.Degree(id))
	}
	e.observe(MeasureDegree, start, scores, nil)
	return scores
}

// Betweenness computes unnormalised betweenness centrality for all nodes:
// for every pair not ending at the node, the fraction of that pair's
// shortest paths passing through it. Disconnected pairs contribute nothing.
func (e *Engine) Betweenness(ctx context.Context) (Scores, error) {
	start := time.Now()
	sets, err := e.cachedSets(ctx)
	if err != nil {
		e.observe(MeasureBetweenness, start, nil, err)
		return nil, err
	}

	// Indexed by canonical node position; sets arrive in canonical pair
	// order, so the floating point sums are identical on every run.
	acc := make([]float64, e.g.Len())
	for _, set := range sets {
		if !set.Connected() {
			continue
		}
		total := float64(len(set.Paths))
		for _, nc := range interiorCounts(e.g, set) {
			acc[nc.index] += float64(nc.count) / total
		}
	}

	scores := make(Scores, len(acc))
	for i, id := range e.g.Nodes() {
		scores[id] = acc[i]
	}
	e.observe(MeasureBetweenness, start, scores, nil)
	return scores, nil
}

type nodeCount struct {
	index int
	count int
}

// interiorCounts returns, for each node strictly inside a path of set, the
// number of the set's paths containing it. Endpoints are never counted.
func interiorCounts(g *graph.Graph, set paths.PathSet) []nodeCount {
	pos := make(map[graph.NodeID]int)
	var out []nodeCount
	for _, p := range set.Paths {
		if len(p) < 3 {
			continue
		}
		for _, id := range p[1 : len(p)-1] {
			k, ok := pos[id]
			if !ok {
				k = len(out)
				pos[id] = k
				out = append(out, nodeCount{index: g.Index(id)})
			}
			out[k].count++
		}
	}
	return out
}

// Closeness computes closeness centrality for all nodes: (N-1) divided by
// the sum of distances to every other node. Nodes whose score is undefined
// are stored as NaN; the other scores are unaffected.
func (e *Engine) Closeness(ctx context.Context) (Scores, error) {
	start := time.Now()
	if _, err := e.cachedSets(ctx); err != nil {
		e.observe(MeasureCloseness, start, nil, err)
		return nil, err
	}

	scores := make(Scores, e.g.Len())
	for _, id := range e.g.Nodes() {
		score, err := e.closeness(id)
		if err != nil {
			score = math.NaN()
		}
		scores[id] = score
	}
	e.observe(MeasureCloseness, start, scores, nil)
	return scores, nil
}

// ClosenessOf computes the closeness of a single node. An undefined score
// is reported as an *UndefinedScoreError.
func (e *Engine) ClosenessOf(ctx context.Context, id graph.NodeID) (float64, error) {
	if !e.g.HasNode(id) {
		return 0, graph.InvalidNode("ClosenessOf", id)
	}
	if _, err := e.cachedSets(ctx); err != nil {
		return 0, err
	}
	return e.closeness(id)
}

// closeness assumes a populated cache. A node that cannot reach every other
// node has no defined score: dividing N-1 by a partial distance sum would
// overstate it.
func (e *Engine) closeness(id graph.NodeID) (float64, error) {
	n := e.g.Len()
	if n < 2 {
		return 0, &UndefinedScoreError{Measure: MeasureCloseness, Node: id, Reason: "graph has a single node"}
	}

	sum, reached := 0, 0
	for _, set := range e.cache.Incident(id) {
		if !set.Connected() {
			continue
		}
		sum += set.Distance
		reached++
	}

	switch {
	case sum == 0:
		return 0, &UndefinedScoreError{Measure: MeasureCloseness, Node: id, Reason: "distance sum is zero"}
	case reached < n-1:
		return 0, &UndefinedScoreError{
			Measure: MeasureCloseness,
			Node:    id,
			Reason:  unreachableReason(n-1-reached),
		}
	}
	return float64(n-1) / float64(sum), nil
}

func unreachableReason(missing int) string {
	if missing == 1 {
		return "1 node is unreachable"
	}
	return fmt.Sprintf("%d nodes are unreachable", missing)
}
