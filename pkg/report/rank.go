// Package report orders centrality scores and renders them as tables.
package report

import (
	"container/heap"
	"math"
	"sort"

	"github.com/dd0wney/cluso-centrality/pkg/graph"
)

// Labeler resolves display names; *graph.Graph satisfies it.
type Labeler interface {
	Label(id graph.NodeID) string
}

// Entry is one ranked node.
type Entry struct {
	Index int          `json:"index"` // 1-based position
	Node  graph.NodeID `json:"node"`
	Label string       `json:"label"`
	Score float64      `json:"score"`
}

// Undefined reports whether the entry has no score.
func (e Entry) Undefined() bool {
	return math.IsNaN(e.Score)
}

// before orders by descending score, undefined scores last, ties broken by
// canonical node order so output is stable.
func before(a, b Entry) bool {
	an, bn := math.IsNaN(a.Score), math.IsNaN(b.Score)
	switch {
	case an != bn:
		return bn
	case !an && a.Score != b.Score:
		return a.Score > b.Score
	default:
		return graph.Less(a.Node, b.Node)
	}
}

func entries(scores map[graph.NodeID]float64, labels Labeler) []Entry {
	out := make([]Entry, 0, len(scores))
	for id, score := range scores {
		out = append(out, Entry{Node: id, Label: label(labels, id), Score: score})
	}
	return out
}

func label(labels Labeler, id graph.NodeID) string {
	if labels == nil {
		return string(id)
	}
	return labels.Label(id)
}

func numbered(out []Entry) []Entry {
	for i := range out {
		out[i].Index = i + 1
	}
	return out
}

// Rank returns every score sorted best first. labels may be nil.
func Rank(scores map[graph.NodeID]float64, labels Labeler) []Entry {
	out := entries(scores, labels)
	sort.Slice(out, func(i, j int) bool { return before(out[i], out[j]) })
	return numbered(out)
}

// entryHeap keeps the worst retained entry at the root.
type entryHeap []Entry

func (h entryHeap) Len() int           { return len(h) }
func (h entryHeap) Less(i, j int) bool { return before(h[j], h[i]) }
func (h entryHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x any) {
	*h = append(*h, x.(Entry))
}

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

// Top returns the n best entries in Rank order without sorting every score.
func Top(scores map[graph.NodeID]float64, n int, labels Labeler) []Entry {
	if n <= 0 {
		return nil
	}

	h := make(entryHeap, 0, n)
	for id, score := range scores {
		e := Entry{Node: id, Score: score}
		if h.Len() < n {
			heap.Push(&h, e)
		} else if before(e, h[0]) {
			h[0] = e
			heap.Fix(&h, 0)
		}
	}

	out := make([]Entry, h.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(&h).(Entry)
		out[i].Label = label(labels, out[i].Node)
	}
	return numbered(out)
}
