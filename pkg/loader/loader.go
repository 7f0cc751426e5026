// Package loader builds graphs from adjacency-list text files, node/edge
// JSON documents and Postgres edge queries. A loader either returns a
// complete graph or an error; it never returns a partial graph.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dd0wney/cluso-centrality/pkg/graph"
)

// ErrMalformedInput is matched by every *MalformedInputError.
var ErrMalformedInput = errors.New("malformed input")

// ErrUnsupportedFormat is returned for file extensions with no loader.
var ErrUnsupportedFormat = errors.New("unsupported input format: must be .json or .txt")

// MalformedInputError reports a line or record that violates its format.
type MalformedInputError struct {
	Source string // file name or "postgres"
	Line   int    // 1-based line or row number; 0 when not applicable
	Reason string
}

func (e *MalformedInputError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Source, e.Line, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Source, e.Reason)
}

// Is lets errors.Is match ErrMalformedInput.
func (e *MalformedInputError) Is(target error) bool {
	return target == ErrMalformedInput
}

func malformed(source string, line int, format string, args ...any) *MalformedInputError {
	return &MalformedInputError{Source: source, Line: line, Reason: fmt.Sprintf(format, args...)}
}

// Load reads the graph file at path, choosing the format by extension.
func Load(path string) (*graph.Graph, error) {
	var parse func(source string, r io.Reader) (*graph.Graph, error)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		parse = ReadAdjacency
	case ".json":
		parse = ReadJSON
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parse(filepath.Base(path), f)
}
