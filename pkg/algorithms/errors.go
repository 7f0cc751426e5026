package algorithms

import (
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-centrality/pkg/graph"
)

// ErrUndefinedScore is matched by every *UndefinedScoreError.
var ErrUndefinedScore = errors.New("score is undefined")

// UndefinedScoreError reports a node whose score cannot be computed, such
// as the closeness of a node with no reachable peers.
type UndefinedScoreError struct {
	Measure Measure
	Node    graph.NodeID
	Reason  string
}

func (e *UndefinedScoreError) Error() string {
	return fmt.Sprintf("%s of node %q is undefined: %s", e.Measure, e.Node, e.Reason)
}

// Is lets errors.Is match ErrUndefinedScore.
func (e *UndefinedScoreError) Is(target error) bool {
	return target == ErrUndefinedScore
}
