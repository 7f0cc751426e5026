package graph

// Builder accumulates undirected edges. Every edge is stored in both
// directions, duplicates collapse and self-loops are dropped, so a Builder
// can only ever produce a symmetric graph without isolated nodes.
type Builder struct {
	adj    map[NodeID]map[NodeID]struct{}
	labels map[NodeID]string
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		adj:    make(map[NodeID]map[NodeID]struct{}),
		labels: make(map[NodeID]string),
	}
}

// AddEdge connects u and v. Self-loops are ignored.
func (b *Builder) AddEdge(u, v NodeID) *Builder {
	if u == v {
		return b
	}
	b.link(u, v)
	b.link(v, u)
	return b
}

func (b *Builder) link(from, to NodeID) {
	set, ok := b.adj[from]
	if !ok {
		set = make(map[NodeID]struct{})
		b.adj[from] = set
	}
	set[to] = struct{}{}
}

// SetLabel attaches a display label to id. Labels for ids that never gain
// an edge are discarded by Build.
func (b *Builder) SetLabel(id NodeID, label string) *Builder {
	b.labels[id] = label
	return b
}

// Len returns the number of nodes added so far.
func (b *Builder) Len() int {
	return len(b.adj)
}

// Build freezes the accumulated edges into a Graph.
func (b *Builder) Build() *Graph {
	nodes := make([]NodeID, 0, len(b.adj))
	for id := range b.adj {
		nodes = append(nodes, id)
	}
	SortNodes(nodes)

	g := &Graph{
		nodes:     nodes,
		index:     make(map[NodeID]int, len(nodes)),
		neighbors: make([][]NodeID, len(nodes)),
		sets:      make([]map[NodeID]struct{}, len(nodes)),
		labels:    make(map[NodeID]string),
	}
	for i, id := range nodes {
		g.index[id] = i
	}
	for i, id := range nodes {
		set := make(map[NodeID]struct{}, len(b.adj[id]))
		nb := make([]NodeID, 0, len(b.adj[id]))
		for n := range b.adj[id] {
			set[n] = struct{}{}
			nb = append(nb, n)
		}
		SortNodes(nb)
		g.neighbors[i] = nb
		g.sets[i] = set
		if l, ok := b.labels[id]; ok {
			g.labels[id] = l
		}
	}
	return g
}

// FromEdges builds a graph from a list of undirected edges.
func FromEdges(edges ...[2]NodeID) *Graph {
	b := NewBuilder()
	for _, e := range edges {
		b.AddEdge(e[0], e[1])
	}
	return b.Build()
}

// FromAdjacency builds a graph from an explicit adjacency mapping. The
// mapping must already be symmetric and every node must have a neighbor;
// violations are reported rather than repaired.
func FromAdjacency(adj map[NodeID][]NodeID) (*Graph, error) {
	for u, nbs := range adj {
		if len(nbs) == 0 {
			return nil, NewError("FromAdjacency").Node(u).Cause(ErrIsolatedNode).Build()
		}
		for _, v := range nbs {
			if u == v {
				continue
			}
			if !contains(adj[v], u) {
				return nil, NewError("FromAdjacency").Node(u).Cause(ErrAsymmetric).
					Context("%s lists %s but not the reverse", u, v).Build()
			}
		}
	}

	b := NewBuilder()
	for u, nbs := range adj {
		for _, v := range nbs {
			b.AddEdge(u, v)
		}
	}
	return b.Build(), nil
}

func contains(ids []NodeID, id NodeID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
