// Package paths enumerates every shortest path between two nodes of an
// unweighted undirected graph.
//
// The search is a level-synchronous breadth-first traversal that keeps, for
// each reached node, all of its predecessors from the layer that first
// reached it. A node's distance is fixed the first time it is reached and it
// is never expanded again, so the traversal stays O(V+E) while the
// predecessor sets still encode every tied path. Paths are rebuilt from the
// predecessor sets with an explicit stack.
package paths

import (
	"github.com/dd0wney/cluso-centrality/pkg/graph"
)

// Path is a sequence of distinct adjacent nodes from source to destination.
type Path []graph.NodeID

// Len returns the number of edges in the path.
func (p Path) Len() int {
	if len(p) == 0 {
		return 0
	}
	return len(p) - 1
}

// Contains reports whether id appears anywhere on the path.
func (p Path) Contains(id graph.NodeID) bool {
	for _, n := range p {
		if n == id {
			return true
		}
	}
	return false
}

// Reversed returns a reversed copy of p.
func (p Path) Reversed() Path {
	out := make(Path, len(p))
	for i, n := range p {
		out[len(p)-1-i] = n
	}
	return out
}

// Pair is an unordered node pair, normalised so U precedes V in canonical
// node order.
type Pair struct {
	U graph.NodeID
	V graph.NodeID
}

// NewPair normalises a and b into a Pair.
func NewPair(a, b graph.NodeID) Pair {
	if graph.Less(b, a) {
		a, b = b, a
	}
	return Pair{U: a, V: b}
}

// Has reports whether id is an endpoint of the pair.
func (p Pair) Has(id graph.NodeID) bool {
	return p.U == id || p.V == id
}

// PathSet is the complete set of shortest paths between Source and Target.
// Every path runs from Source to Target and has exactly Distance edges. An
// empty set (Distance -1) means the endpoints are disconnected.
type PathSet struct {
	Source   graph.NodeID `json:"source"`
	Target   graph.NodeID `json:"target"`
	Distance int          `json:"distance"`
	Paths    []Path       `json:"paths"`
}

// Pair returns the unordered pair the set belongs to.
func (s PathSet) Pair() Pair {
	return NewPair(s.Source, s.Target)
}

// Connected reports whether at least one path exists.
func (s PathSet) Connected() bool {
	return len(s.Paths) > 0
}

// From returns the paths oriented so they start at id. id must be one of the
// endpoints; the returned paths are copies when a reversal is needed.
func (s PathSet) From(id graph.NodeID) []Path {
	if id == s.Source {
		return s.Paths
	}
	out := make([]Path, len(s.Paths))
	for i, p := range s.Paths {
		out[i] = p.Reversed()
	}
	return out
}

// ShortestPaths returns every shortest path from start to end.
func ShortestPaths(g *graph.Graph, start, end graph.NodeID) (PathSet, error) {
	if g == nil {
		return PathSet{}, graph.NewError("ShortestPaths").Cause(graph.ErrNilGraph).Build()
	}
	if !g.HasNode(start) {
		return PathSet{}, graph.InvalidNode("ShortestPaths", start)
	}
	if !g.HasNode(end) {
		return PathSet{}, graph.InvalidNode("ShortestPaths", end)
	}

	set := PathSet{Source: start, Target: end, Distance: -1}
	if start == end {
		set.Distance = 0
		set.Paths = []Path{{start}}
		return set, nil
	}

	preds, depth := layeredSearch(g, start, end)
	if depth < 0 {
		return set, nil
	}

	set.Distance = depth
	set.Paths = reconstruct(preds, start, end, depth)
	return set, nil
}

// layeredSearch expands start layer by layer until the layer containing end
// is complete. It returns the minimal-distance predecessor sets and the
// distance of end, or -1 if end is unreachable.
func layeredSearch(g *graph.Graph, start, end graph.NodeID) (map[graph.NodeID][]graph.NodeID, int) {
	dist := map[graph.NodeID]int{start: 0}
	preds := make(map[graph.NodeID][]graph.NodeID)
	frontier := []graph.NodeID{start}

	for depth := 0; len(frontier) > 0; depth++ {
		next := make([]graph.NodeID, 0, len(frontier))
		for _, u := range frontier {
			for _, w := range g.Neighbors(u) {
				d, seen := dist[w]
				if !seen {
					d = depth + 1
					dist[w] = d
					next = append(next, w)
				}
				// Equal-distance predecessors are all kept; later layers
				// never touch a fixed node.
				if d == depth+1 {
					preds[w] = append(preds[w], u)
				}
			}
		}
		if d, ok := dist[end]; ok {
			return preds, d
		}
		frontier = next
	}
	return nil, -1
}

// reconstruct walks the predecessor sets backwards from end, emitting every
// combination of predecessor chains as a start-to-end path.
func reconstruct(preds map[graph.NodeID][]graph.NodeID, start, end graph.NodeID, depth int) []Path {
	type frame struct {
		node graph.NodeID
		tail []graph.NodeID // end ... node, reversed
	}

	var out []Path
	stack := []frame{{node: end, tail: []graph.NodeID{end}}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.node == start {
			p := make(Path, len(f.tail))
			for i, n := range f.tail {
				p[len(f.tail)-1-i] = n
			}
			out = append(out, p)
			continue
		}

		ps := preds[f.node]
		// Push in reverse so the first predecessor is expanded first.
		for i := len(ps) - 1; i >= 0; i-- {
			tail := make([]graph.NodeID, len(f.tail), depth+1)
			copy(tail, f.tail)
			stack = append(stack, frame{node: ps[i], tail: append(tail, ps[i])})
		}
	}
	return out
}
