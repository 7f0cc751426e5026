package algorithms

import (
	"math"
	"time"

	"github.com/dd0wney/cluso-centrality/pkg/graph"
)

// clusteringPrecision is the number of decimal digits kept in clustering
// coefficients.
const clusteringPrecision = 2

// ClusteringCoefficient computes the local clustering coefficient for all
// nodes: the fraction of ordered neighbour pairs that are themselves
// adjacent. Nodes with fewer than two neighbours score 0.
func (e *Engine) ClusteringCoefficient() Scores {
	start := time.Now()
	scores := make(Scores, e.g.Len())
	for _, id := range e.g.Nodes() {
		scores[id] = round(localClustering(e.g, id), clusteringPrecision)
	}
	e.observe(MeasureClustering, start, scores, nil)
	return scores
}

// AverageClustering returns the mean of the unrounded local coefficients.
func (e *Engine) AverageClustering() float64 {
	nodes := e.g.Nodes()
	if len(nodes) == 0 {
		return 0
	}
	sum := 0.0
	for _, id := range nodes {
		sum += localClustering(e.g, id)
	}
	return sum / float64(len(nodes))
}

func localClustering(g *graph.Graph, id graph.NodeID) float64 {
	nb := g.Neighbors(id)
	k := len(nb)
	if k < 2 {
		return 0
	}

	// Each adjacent unordered pair is counted once; the ordered count is twice that.
	linked := 0
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			if g.HasEdge(nb[i], nb[j]) {
				linked++
			}
		}
	}
	return float64(2*linked) / float64(k*(k-1))
}

func round(v float64, digits int) float64 {
	scale := math.Pow(10, float64(digits))
	return math.Round(v*scale) / scale
}
