package api

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyName        = errors.New("flowgraph: definition name must not be empty")
	ErrNilStart         = errors.New("flowgraph: definition has no start node")
	ErrIncompleteBranch = errors.New("flowgraph: incomplete branch")
	ErrMultipleStart    = errors.New("flowgraph: more than one start node")
	ErrDuplicateName    = errors.New("flowgraph: duplicate node name")
	ErrUnreachableNode  = errors.New("flowgraph: unreachable node")
	ErrNoEnd            = errors.New("flowgraph: no reachable end node")
	ErrAlreadyPublished = errors.New("flowgraph: node already belongs to a published definition")
)

// IncompleteBranchError reports a gate edge whose destination was never
// assigned, such as an If without OnFalse.
type IncompleteBranchError struct {
	Node  Node
	Class EdgeClass
}

func (e *IncompleteBranchError) Error() string {
	return fmt.Sprintf("%s: %s %q has no %s target", ErrIncompleteBranch, e.Node.Kind(), e.Node.String(), e.Class)
}

func (e *IncompleteBranchError) Unwrap() error { return ErrIncompleteBranch }

// MultipleStartError reports a second Start reachable from the first.
type MultipleStartError struct {
	Node Node
}

func (e *MultipleStartError) Error() string {
	return fmt.Sprintf("%s: %q is reachable from the definition start", ErrMultipleStart, e.Node.String())
}

func (e *MultipleStartError) Unwrap() error { return ErrMultipleStart }

// DuplicateNameError reports two reachable nodes sharing a name.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("%s: %q", ErrDuplicateName, e.Name)
}

func (e *DuplicateNameError) Unwrap() error { return ErrDuplicateName }

// UnreachableNodeError reports a declared node that cannot be reached from
// the start.
type UnreachableNodeError struct {
	Node Node
}

func (e *UnreachableNodeError) Error() string {
	return fmt.Sprintf("%s: %s %q", ErrUnreachableNode, e.Node.Kind(), e.Node.String())
}

func (e *UnreachableNodeError) Unwrap() error { return ErrUnreachableNode }
