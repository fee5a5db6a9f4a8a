package api

import "fmt"

// EdgeClass describes why an edge exists. The runtime uses it to decide
// activation semantics.
type EdgeClass string

const (
	// EdgeNext is an unconditional successor link.
	EdgeNext EdgeClass = "next"
	// EdgeCondTrue is taken when the guarding condition holds.
	EdgeCondTrue EdgeClass = "cond_true"
	// EdgeCondFalse is taken when the guarding condition does not hold.
	EdgeCondFalse EdgeClass = "cond_false"
	// EdgeDefault is an unguarded fallback (Switch) or always-on branch (Split).
	EdgeDefault EdgeClass = "default"
)

// Edge is an immutable directed link between two nodes.
//
// Edges are not stored anywhere; nodes compute them on demand from their
// wiring state, so two enumerations of an unmodified node yield equal edges.
type Edge struct {
	src   Node
	dst   Node
	class EdgeClass
	label string
}

// NewEdge builds an edge. label may be empty.
func NewEdge(src, dst Node, class EdgeClass, label string) Edge {
	return Edge{src: src, dst: dst, class: class, label: label}
}

// Src returns the node that owns the edge.
func (e Edge) Src() Node { return e.src }

// Dst returns the destination node. It is nil when a gate branch was never
// assigned; Publish reports such edges as IncompleteBranchError.
func (e Edge) Dst() Node { return e.dst }

// Class returns the edge class.
func (e Edge) Class() EdgeClass { return e.class }

// Label returns the optional label.
func (e Edge) Label() string { return e.label }

// String renders the edge as "[class] src ---> dst (label)".
func (e Edge) String() string {
	s := fmt.Sprintf("[%s] %s ---> %s", e.class, nodeString(e.src), nodeString(e.dst))
	if e.label != "" {
		s += " (" + e.label + ")"
	}
	return s
}

func nodeString(n Node) string {
	if IsNil(n) {
		return "<nil>"
	}
	return n.String()
}
