package graph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderSymmetric(t *testing.T) {
	g := NewBuilder().
		AddEdge("1", "2").
		AddEdge("2", "3").
		AddEdge("2", "1"). // duplicate collapses
		AddEdge("3", "3"). // self-loop dropped
		Build()

	assert.Equal(t, 3, g.Len())
	assert.Equal(t, 2, g.EdgeCount())
	assert.True(t, g.HasEdge("1", "2"))
	assert.True(t, g.HasEdge("2", "1"))
	assert.False(t, g.HasEdge("3", "3"))
	assert.Equal(t, []NodeID{"1", "3"}, g.Neighbors("2"))
	assert.Equal(t, 1, g.Degree("3"))
}

func TestCanonicalOrder(t *testing.T) {
	g := FromEdges(
		[2]NodeID{"10", "2"},
		[2]NodeID{"b", "a"},
		[2]NodeID{"9", "b"},
	)
	assert.Equal(t, []NodeID{"2", "9", "10", "a", "b"}, g.Nodes())
	assert.Equal(t, 2, g.Index("10"))
	assert.Equal(t, -1, g.Index("missing"))
}

func TestLessIsTransitiveAcrossMixedIDs(t *testing.T) {
	// Numeric ids always precede non-numeric ids.
	assert.True(t, Less("9", "10"))
	assert.True(t, Less("10", "1a"))
	assert.True(t, Less("9", "1a"))
	assert.False(t, Less("1a", "9"))
}

func TestLabels(t *testing.T) {
	g := NewBuilder().
		AddEdge("n1", "n2").
		SetLabel("n1", "Alice").
		SetLabel("ghost", "Nobody").
		Build()

	assert.Equal(t, "Alice", g.Label("n1"))
	assert.Equal(t, "n2", g.Label("n2"))
	assert.False(t, g.HasNode("ghost"))
}

func TestFingerprintIgnoresInsertionOrder(t *testing.T) {
	a := FromEdges([2]NodeID{"1", "2"}, [2]NodeID{"2", "3"})
	b := FromEdges([2]NodeID{"3", "2"}, [2]NodeID{"2", "1"})
	c := FromEdges([2]NodeID{"1", "2"}, [2]NodeID{"1", "3"})

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}

func TestFromAdjacency(t *testing.T) {
	t.Run("symmetric", func(t *testing.T) {
		g, err := FromAdjacency(map[NodeID][]NodeID{
			"1": {"2", "3"},
			"2": {"1"},
			"3": {"1"},
		})
		require.NoError(t, err)
		assert.Equal(t, 2, g.EdgeCount())
	})

	t.Run("asymmetric", func(t *testing.T) {
		_, err := FromAdjacency(map[NodeID][]NodeID{
			"1": {"2"},
			"2": {"3"},
			"3": {"2"},
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrAsymmetric))

		var gerr *Error
		require.True(t, errors.As(err, &gerr))
		assert.Equal(t, "FromAdjacency", gerr.Op)
	})

	t.Run("isolated", func(t *testing.T) {
		_, err := FromAdjacency(map[NodeID][]NodeID{
			"1": {"2"},
			"2": {"1"},
			"3": {},
		})
		assert.ErrorIs(t, err, ErrIsolatedNode)
	})
}

func TestErrorFormatting(t *testing.T) {
	err := InvalidNode("ShortestPaths", "42")
	assert.Equal(t, `ShortestPaths node "42": invalid node`, err.Error())
	assert.ErrorIs(t, err, ErrInvalidNode)

	err = NewError("Load").Cause(ErrNilGraph).Context("file %s", "x.txt").Build()
	assert.Equal(t, "Load (file x.txt): graph is nil", err.Error())
}
