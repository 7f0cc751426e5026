package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dd0wney/cluso-centrality/pkg/algorithms"
	"github.com/dd0wney/cluso-centrality/pkg/graph"
	"github.com/dd0wney/cluso-centrality/pkg/report"
	"github.com/dd0wney/cluso-centrality/pkg/session"
)

const rule = "======================================================"

type menu struct {
	session *session.Session
	scanner *bufio.Scanner
	out     io.Writer
	plain   bool
}

func (m *menu) showMenu() {
	fmt.Fprintln(m.out, rule)
	fmt.Fprintln(m.out, "Choose a centrality measure to sort the nodes by:")
	for i, measure := range algorithms.Measures {
		fmt.Fprintf(m.out, "    %d. %s\n", i+1, strings.TrimSuffix(measure.Title(), " Centrality"))
	}
	fmt.Fprintf(m.out, "    %d. Exit\n", len(algorithms.Measures)+1)
	fmt.Fprintln(m.out, "    path A B  shows every shortest path between A and B")
}

// run reads choices until Exit, end of input or cancellation.
func (m *menu) run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		m.showMenu()
		fmt.Fprint(m.out, ">>> ")

		if !m.scanner.Scan() {
			return m.scanner.Err()
		}
		input := strings.TrimSpace(m.scanner.Text())

		done, err := m.execute(ctx, input)
		if err != nil {
			return err
		}
		if done {
			fmt.Fprintln(m.out, "👋 Goodbye!")
			return nil
		}
	}
}

// execute handles one line. It reports done for Exit and returns an error
// only for failures that end the session.
func (m *menu) execute(ctx context.Context, input string) (bool, error) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		fmt.Fprintln(m.out, "Invalid choice")
		return false, nil
	}

	switch choice := strings.ToLower(parts[0]); choice {
	case "1", "2", "3", "4":
		measure := algorithms.Measures[choice[0]-'1']
		return false, m.showMeasure(ctx, measure)
	case "5", "exit", "quit":
		return true, nil
	case "path":
		if len(parts) != 3 {
			fmt.Fprintln(m.out, "Usage: path <node> <node>")
			return false, nil
		}
		return false, m.showPaths(ctx, graph.NodeID(parts[1]), graph.NodeID(parts[2]))
	default:
		fmt.Fprintln(m.out, "Invalid choice")
		return false, nil
	}
}

func (m *menu) showMeasure(ctx context.Context, measure algorithms.Measure) error {
	scores, err := m.session.Engine.Compute(ctx, measure)
	if err != nil {
		return err
	}

	fmt.Fprintf(m.out, "%s:\n", measure.Title())
	ranked := report.Rank(scores, m.session.Graph)
	if m.plain {
		err = report.WritePlain(m.out, ranked)
	} else {
		_, err = fmt.Fprintln(m.out, report.Table(ranked))
	}
	if err != nil || measure != algorithms.MeasureClustering {
		return err
	}
	_, err = fmt.Fprintf(m.out, "Average clustering: %.2f\n", m.session.Engine.AverageClustering())
	return err
}

func (m *menu) showPaths(ctx context.Context, a, b graph.NodeID) error {
	set, err := m.session.Engine.ShortestPaths(ctx, a, b)
	if errors.Is(err, graph.ErrInvalidNode) {
		fmt.Fprintf(m.out, "❌ %v\n", err)
		return nil
	}
	if err != nil {
		return err
	}

	if !set.Connected() {
		fmt.Fprintf(m.out, "%s and %s are not connected\n", a, b)
		return nil
	}
	fmt.Fprintf(m.out, "%d shortest path(s) of length %d:\n", len(set.Paths), set.Distance)
	for _, p := range set.Paths {
		labels := make([]string, len(p))
		for i, id := range p {
			labels[i] = m.session.Graph.Label(id)
		}
		fmt.Fprintf(m.out, "  %s\n", strings.Join(labels, " → "))
	}
	return nil
}
