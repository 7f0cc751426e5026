// Package graph holds the read-only adjacency model every centrality
// computation runs against: a simple, undirected, unweighted graph whose
// node and neighbor listings come back in a stable order.
package graph

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
)

// NodeID identifies a node. Adjacency-list inputs use decimal integers,
// node/edge JSON inputs use arbitrary keys.
type NodeID string

// Graph is an immutable symmetric adjacency mapping. Build one with a
// Builder; once built it is safe for concurrent readers.
type Graph struct {
	nodes     []NodeID
	index     map[NodeID]int
	neighbors [][]NodeID
	sets      []map[NodeID]struct{}
	labels    map[NodeID]string
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Nodes returns all nodes in canonical order. The slice is shared; callers
// must not modify it.
func (g *Graph) Nodes() []NodeID {
	return g.nodes
}

// HasNode reports whether id is a node of g.
func (g *Graph) HasNode(id NodeID) bool {
	_, ok := g.index[id]
	return ok
}

// Index returns the canonical position of id, or -1 if absent.
func (g *Graph) Index(id NodeID) int {
	if i, ok := g.index[id]; ok {
		return i
	}
	return -1
}

// Neighbors returns the neighbors of id in canonical order, or nil if id is
// not a node. The slice is shared; callers must not modify it.
func (g *Graph) Neighbors(id NodeID) []NodeID {
	i, ok := g.index[id]
	if !ok {
		return nil
	}
	return g.neighbors[i]
}

// Degree returns the number of neighbors of id.
func (g *Graph) Degree(id NodeID) int {
	return len(g.Neighbors(id))
}

// HasEdge reports whether u and v are adjacent.
func (g *Graph) HasEdge(u, v NodeID) bool {
	i, ok := g.index[u]
	if !ok {
		return false
	}
	_, adj := g.sets[i][v]
	return adj
}

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int {
	total := 0
	for _, nb := range g.neighbors {
		total += len(nb)
	}
	return total / 2
}

// Label returns the display label of id, falling back to the id itself.
func (g *Graph) Label(id NodeID) string {
	if l, ok := g.labels[id]; ok && l != "" {
		return l
	}
	return string(id)
}

// Fingerprint returns a stable digest of the adjacency structure. Two graphs
// with the same nodes and edges share a fingerprint regardless of how they
// were loaded.
func (g *Graph) Fingerprint() string {
	h := sha256.New()
	for i, id := range g.nodes {
		h.Write([]byte(id))
		h.Write([]byte{0})
		for _, nb := range g.neighbors[i] {
			h.Write([]byte(nb))
			h.Write([]byte{1})
		}
		h.Write([]byte{2})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Less is the canonical node order: integer ids ascend numerically and sort
// before all other ids, which ascend lexicographically.
func Less(a, b NodeID) bool {
	ai, aerr := strconv.ParseInt(string(a), 10, 64)
	bi, berr := strconv.ParseInt(string(b), 10, 64)
	switch {
	case aerr == nil && berr == nil:
		if ai != bi {
			return ai < bi
		}
		return a < b
	case aerr == nil:
		return true
	case berr == nil:
		return false
	default:
		return a < b
	}
}

// SortNodes sorts ids in place in canonical order.
func SortNodes(ids []NodeID) {
	sort.Slice(ids, func(i, j int) bool { return Less(ids[i], ids[j]) })
}
