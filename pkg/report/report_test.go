package report

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-centrality/pkg/graph"
)

func nodes(ranked []Entry) []graph.NodeID {
	out := make([]graph.NodeID, len(ranked))
	for i, e := range ranked {
		out[i] = e.Node
	}
	return out
}

func TestRankOrder(t *testing.T) {
	scores := map[graph.NodeID]float64{
		"10": 0.5,
		"2":  0.5,
		"3":  math.NaN(),
		"4":  2,
		"a":  0.5,
		"1":  math.NaN(),
	}
	ranked := Rank(scores, nil)

	// Descending, ties in canonical order, undefined last.
	assert.Equal(t, []graph.NodeID{"4", "2", "10", "a", "1", "3"}, nodes(ranked))
	for i, e := range ranked {
		assert.Equal(t, i+1, e.Index)
		assert.Equal(t, string(e.Node), e.Label)
	}
	assert.True(t, ranked[5].Undefined())
}

func TestRankUsesLabels(t *testing.T) {
	b := graph.NewBuilder()
	b.AddEdge("u1", "u2")
	b.SetLabel("u1", "Alice")
	g := b.Build()

	ranked := Rank(map[graph.NodeID]float64{"u1": 1, "u2": 1}, g)
	require.Len(t, ranked, 2)
	assert.Equal(t, "Alice", ranked[0].Label)
	assert.Equal(t, "u2", ranked[1].Label)
}

func TestTopMatchesRank(t *testing.T) {
	scores := map[graph.NodeID]float64{}
	for i, v := range []float64{3, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5} {
		scores[graph.NodeID(string(rune('a'+i)))] = v
	}
	scores["z"] = math.NaN()

	full := Rank(scores, nil)
	for _, n := range []int{1, 3, 5, 12, 20} {
		top := Top(scores, n, nil)
		want := full
		if n < len(full) {
			want = full[:n]
		}
		assertSameEntries(t, want, top, "n=%d", n)
	}
	assert.Nil(t, Top(scores, 0, nil))

	// The undefined score is kept and ranked last.
	top := Top(scores, 20, nil)
	require.Len(t, top, 12)
	assert.Equal(t, graph.NodeID("z"), top[11].Node)
	assert.True(t, top[11].Undefined())
}

// assertSameEntries compares entries field by field, treating two NaN
// scores as equal.
func assertSameEntries(t *testing.T, want, got []Entry, msgAndArgs ...any) {
	t.Helper()
	if !assert.Len(t, got, len(want), msgAndArgs...) {
		return
	}
	for i := range want {
		w, g := want[i], got[i]
		assert.Equal(t, w.Index, g.Index, msgAndArgs...)
		assert.Equal(t, w.Node, g.Node, msgAndArgs...)
		assert.Equal(t, w.Label, g.Label, msgAndArgs...)
		if w.Undefined() {
			assert.True(t, g.Undefined(), msgAndArgs...)
		} else {
			assert.Equal(t, w.Score, g.Score, msgAndArgs...)
		}
	}
}

func TestFormatScore(t *testing.T) {
	assert.Equal(t, "3", FormatScore(3))
	assert.Equal(t, "0.5", FormatScore(0.5))
	assert.Equal(t, "0.6666666666666666", FormatScore(2.0/3.0))
	assert.Equal(t, "undefined", FormatScore(math.NaN()))
}

func TestWritePlain(t *testing.T) {
	ranked := Rank(map[graph.NodeID]float64{"1": 2, "2": math.NaN()}, nil)
	var buf bytes.Buffer
	require.NoError(t, WritePlain(&buf, ranked))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "  Index      Node     Value   ", lines[0])
	assert.Equal(t, strings.Repeat("-", 30), lines[1])
	assert.Equal(t, "    1         1         2     ", lines[2])
	assert.Equal(t, "    2         2     undefined ", lines[3])
}

func TestTable(t *testing.T) {
	ranked := Rank(map[graph.NodeID]float64{"1": 0.25, "2": math.NaN()}, nil)
	out := Table(ranked)

	for _, want := range []string{"Index", "Node", "Value", "0.25", "undefined"} {
		assert.Contains(t, out, want)
	}
	assert.Less(t, strings.Index(out, "0.25"), strings.Index(out, "undefined"))
}
