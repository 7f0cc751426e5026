package loader

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dd0wney/cluso-centrality/pkg/graph"
)

// document is the node/edge exchange format:
//
//	{"nodes": [{"key": "a", "attributes": {"label": "Alice"}}],
//	 "edges": [{"source": "a", "target": "b"}]}
type document struct {
	Nodes []struct {
		Key        string `json:"key"`
		Attributes struct {
			Label string `json:"label"`
		} `json:"attributes"`
	} `json:"nodes"`
	Edges []struct {
		Source string `json:"source"`
		Target string `json:"target"`
	} `json:"edges"`
}

// ReadJSON parses a node/edge document. Node labels are kept for display;
// nodes that appear in no edge are dropped.
func ReadJSON(source string, r io.Reader) (*graph.Graph, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, malformed(source, 0, "decode: %v", err)
	}

	b := graph.NewBuilder()
	declared := make(map[graph.NodeID]bool, len(doc.Nodes))
	for i, n := range doc.Nodes {
		if n.Key == "" {
			return nil, malformed(source, 0, "nodes[%d] has no key", i)
		}
		id := graph.NodeID(n.Key)
		declared[id] = true
		if n.Attributes.Label != "" {
			b.SetLabel(id, n.Attributes.Label)
		}
	}

	for i, e := range doc.Edges {
		if e.Source == "" || e.Target == "" {
			return nil, malformed(source, 0, "edges[%d] needs both source and target", i)
		}
		for _, end := range []string{e.Source, e.Target} {
			if len(declared) > 0 && !declared[graph.NodeID(end)] {
				return nil, malformed(source, 0, "edges[%d] references undeclared node %q", i, end)
			}
		}
		b.AddEdge(graph.NodeID(e.Source), graph.NodeID(e.Target))
	}

	if b.Len() == 0 && len(doc.Nodes) > 0 {
		return nil, fmt.Errorf("%s: %w", source, graph.ErrIsolatedNode)
	}
	return b.Build(), nil
}
