package graph

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrInvalidNode  = errors.New("invalid node")
	ErrAsymmetric   = errors.New("adjacency is not symmetric")
	ErrIsolatedNode = errors.New("node has no neighbors")
	ErrNilGraph     = errors.New("graph is nil")
)

// Error provides structured error information for graph operations.
type Error struct {
	Op      string // Operation that failed (e.g., "ShortestPaths", "FromAdjacency")
	Node    NodeID // Offending node (if applicable)
	Cause   error  // Underlying error
	Context string // Additional context
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Node != "" {
		if e.Context != "" {
			return fmt.Sprintf("%s node %q (%s): %v", e.Op, e.Node, e.Context, e.Cause)
		}
		return fmt.Sprintf("%s node %q: %v", e.Op, e.Node, e.Cause)
	}
	if e.Context != "" {
		return fmt.Sprintf("%s (%s): %v", e.Op, e.Context, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// ErrorBuilder provides a fluent interface for building graph errors.
type ErrorBuilder struct {
	err Error
}

// NewError creates a new error builder with the given operation.
func NewError(op string) *ErrorBuilder {
	return &ErrorBuilder{err: Error{Op: op}}
}

// Node sets the offending node.
func (b *ErrorBuilder) Node(id NodeID) *ErrorBuilder {
	b.err.Node = id
	return b
}

// Cause sets the underlying error.
func (b *ErrorBuilder) Cause(err error) *ErrorBuilder {
	b.err.Cause = err
	return b
}

// Context adds free-form context.
func (b *ErrorBuilder) Context(format string, args ...any) *ErrorBuilder {
	b.err.Context = fmt.Sprintf(format, args...)
	return b
}

// Build returns the constructed error.
func (b *ErrorBuilder) Build() *Error {
	e := b.err
	return &e
}

// InvalidNode is shorthand for an ErrInvalidNode failure in op.
func InvalidNode(op string, id NodeID) *Error {
	return NewError(op).Node(id).Cause(ErrInvalidNode).Build()
}
