package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-centrality/pkg/graph"
)

func TestReadAdjacency(t *testing.T) {
	input := `1 - 2, 3, 4
2 - 1, 3

5 - 01
`
	g, err := ReadAdjacency("graph.txt", strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []graph.NodeID{"1", "2", "3", "4", "5"}, g.Nodes())
	assert.Equal(t, []graph.NodeID{"1", "2"}, g.Neighbors("3"), "reverse edges are added")
	assert.Equal(t, []graph.NodeID{"5"}, g.Neighbors("1")[3:], "leading zeros name the same node")
	assert.Equal(t, 5, g.EdgeCount())
	assert.Equal(t, "4", g.Label("4"))
}

func TestReadAdjacencyMalformed(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		line   int
		reason string
	}{
		{"missing separator", "1 2, 3\n", 1, "expected"},
		{"non-integer node", "1 - 2\nx - 1\n", 2, `node "x" is not an integer`},
		{"non-integer neighbour", "1 - 2, b\n", 1, `neighbour "b" is not an integer`},
		{"no neighbours", "1 - 2\n\n3 - \n", 3, "no neighbours"},
		{"self loop", "4 - 4\n", 1, "lists itself"},
		{"trailing comma", "1 - 2,\n", 1, "neighbour"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := ReadAdjacency("bad.txt", strings.NewReader(tt.input))
			assert.Nil(t, g, "no partial graph on error")
			require.ErrorIs(t, err, ErrMalformedInput)

			var mErr *MalformedInputError
			require.True(t, errors.As(err, &mErr))
			assert.Equal(t, "bad.txt", mErr.Source)
			assert.Equal(t, tt.line, mErr.Line)
			assert.Contains(t, mErr.Reason, tt.reason)
		})
	}
}

func TestMalformedInputErrorString(t *testing.T) {
	assert.Equal(t, "g.txt:3: bad", (&MalformedInputError{Source: "g.txt", Line: 3, Reason: "bad"}).Error())
	assert.Equal(t, "g.json: bad", (&MalformedInputError{Source: "g.json", Reason: "bad"}).Error())
}

func TestReadJSON(t *testing.T) {
	input := `{
  "nodes": [
    {"key": "a", "attributes": {"label": "Alice"}},
    {"key": "b", "attributes": {"label": "Bob"}},
    {"key": "c", "attributes": {}},
    {"key": "lonely", "attributes": {"label": "Nobody"}}
  ],
  "edges": [
    {"source": "a", "target": "b"},
    {"source": "b", "target": "c"},
    {"source": "c", "target": "b"}
  ]
}`
	g, err := ReadJSON("graph.json", strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []graph.NodeID{"a", "b", "c"}, g.Nodes(), "nodes without edges are dropped")
	assert.Equal(t, 2, g.EdgeCount())
	assert.Equal(t, "Alice", g.Label("a"))
	assert.Equal(t, "c", g.Label("c"), "missing label falls back to the key")
}

func TestReadJSONMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"not json", `{"nodes": [`, ErrMalformedInput},
		{"missing key", `{"nodes": [{"attributes": {}}], "edges": []}`, ErrMalformedInput},
		{"missing target", `{"edges": [{"source": "a"}]}`, ErrMalformedInput},
		{"undeclared node", `{"nodes": [{"key": "a"}], "edges": [{"source": "a", "target": "z"}]}`, ErrMalformedInput},
		{"nodes only", `{"nodes": [{"key": "a"}], "edges": []}`, graph.ErrIsolatedNode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := ReadJSON("bad.json", strings.NewReader(tt.input))
			assert.Nil(t, g)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadDispatchesOnExtension(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "g.txt")
	require.NoError(t, os.WriteFile(txt, []byte("1 - 2, 3\n"), 0o600))
	js := filepath.Join(dir, "g.JSON")
	require.NoError(t, os.WriteFile(js, []byte(`{"edges": [{"source": "x", "target": "y"}]}`), 0o600))

	g, err := Load(txt)
	require.NoError(t, err)
	assert.Equal(t, 3, g.Len())

	g, err = Load(js)
	require.NoError(t, err)
	assert.Equal(t, []graph.NodeID{"x", "y"}, g.Nodes())

	_, err = Load(filepath.Join(dir, "g.csv"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Load(filepath.Join(dir, "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

// fakeRows serves fixed rows through the pgx.Rows interface.
type fakeRows struct {
	pgx.Rows // unimplemented methods panic
	rows     [][2]*string
	pos      int
	err      error
	closed   bool
}

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.rows[r.pos-1]
	*(dest[0].(**string)) = row[0]
	*(dest[1].(**string)) = row[1]
	return nil
}

func (r *fakeRows) Err() error { return r.err }
func (r *fakeRows) Close()     { r.closed = true }

type fakeQuerier struct {
	rows  *fakeRows
	err   error
	query string
}

func (q *fakeQuerier) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	q.query = sql
	if q.err != nil {
		return nil, q.err
	}
	return q.rows, nil
}

func str(s string) *string { return &s }

func TestReadEdges(t *testing.T) {
	rows := &fakeRows{rows: [][2]*string{
		{str("alice"), str("bob")},
		{str("bob"), str("carol")},
		{str("alice"), str("alice")}, // self-comment, ignored
	}}
	q := &fakeQuerier{rows: rows}

	g, err := ReadEdges(context.Background(), q, "SELECT author, parent FROM comments")
	require.NoError(t, err)
	assert.Equal(t, "SELECT author, parent FROM comments", q.query)
	assert.Equal(t, []graph.NodeID{"alice", "bob", "carol"}, g.Nodes())
	assert.Equal(t, 2, g.EdgeCount())
	assert.True(t, rows.closed)
}

func TestReadEdgesErrors(t *testing.T) {
	t.Run("query fails", func(t *testing.T) {
		_, err := ReadEdges(context.Background(), &fakeQuerier{err: errors.New("relation does not exist")}, "SELECT")
		assert.ErrorContains(t, err, "relation does not exist")
	})

	t.Run("null endpoint", func(t *testing.T) {
		q := &fakeQuerier{rows: &fakeRows{rows: [][2]*string{{str("a"), str("b")}, {str("a"), nil}}}}
		_, err := ReadEdges(context.Background(), q, "SELECT")
		require.ErrorIs(t, err, ErrMalformedInput)
		var mErr *MalformedInputError
		require.True(t, errors.As(err, &mErr))
		assert.Equal(t, PostgresSource, mErr.Source)
		assert.Equal(t, 2, mErr.Line)
	})

	t.Run("iteration fails", func(t *testing.T) {
		q := &fakeQuerier{rows: &fakeRows{err: errors.New("connection reset")}}
		_, err := ReadEdges(context.Background(), q, "SELECT")
		assert.ErrorContains(t, err, "connection reset")
	})
}
