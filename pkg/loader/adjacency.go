package loader

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/dd0wney/cluso-centrality/pkg/graph"
)

// ReadAdjacency parses one "NODE - N1, N2, N3" line per node. Ids must be
// integers. The graph is undirected, so every listed neighbour also gains
// the reverse edge. Blank lines are skipped.
func ReadAdjacency(source string, r io.Reader) (*graph.Graph, error) {
	b := graph.NewBuilder()
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		head, tail, ok := strings.Cut(line, " - ")
		if !ok {
			// "3 -" survives TrimSpace without the trailing blank.
			head, ok = strings.CutSuffix(line, " -")
		}
		if !ok {
			return nil, malformed(source, lineNo, "expected \"NODE - N1, N2, ...\", got %q", line)
		}
		node, err := parseID(head)
		if err != nil {
			return nil, malformed(source, lineNo, "node %q is not an integer", strings.TrimSpace(head))
		}

		tail = strings.TrimSpace(tail)
		if tail == "" {
			return nil, malformed(source, lineNo, "node %s has no neighbours", node)
		}
		for _, field := range strings.Split(tail, ",") {
			nb, err := parseID(field)
			if err != nil {
				return nil, malformed(source, lineNo, "neighbour %q is not an integer", strings.TrimSpace(field))
			}
			if nb == node {
				return nil, malformed(source, lineNo, "node %s lists itself as a neighbour", node)
			}
			b.AddEdge(node, nb)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return b.Build(), nil
}

// parseID normalises an integer id so "07" and "7" name the same node.
func parseID(s string) (graph.NodeID, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return "", err
	}
	return graph.NodeID(strconv.FormatInt(n, 10)), nil
}
