package api

import (
	"fmt"
	"iter"
	"reflect"
	"slices"
	"strings"
	"sync/atomic"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind identifies the concrete node type.
type Kind string

const (
	KindStart   Kind = "start"
	KindEnd     Kind = "end"
	KindTimer   Kind = "timer"
	KindMailbox Kind = "mailbox"
	KindView    Kind = "view"
	KindJob     Kind = "job"
	KindIf      Kind = "if"
	KindSwitch  Kind = "switch"
	KindJoin    Kind = "join"
	KindSplit   Kind = "split"
	KindFirst   Kind = "first"
)

// Category groups kinds into events, tasks and gates.
type Category string

const (
	CategoryEvent Category = "event"
	CategoryTask  Category = "task"
	CategoryGate  Category = "gate"
)

// Category returns the taxonomy group of k, or "" for an unknown kind.
func (k Kind) Category() Category {
	switch k {
	case KindStart, KindEnd, KindTimer, KindMailbox:
		return CategoryEvent
	case KindView, KindJob:
		return CategoryTask
	case KindIf, KindSwitch, KindJoin, KindSplit, KindFirst:
		return CategoryGate
	default:
		return ""
	}
}

// Node is a vertex of a process definition.
//
// The set of implementations is closed: Start, End, Timer, Mailbox, View,
// Job, If, Switch, Join, Split and First. Builder methods live on the
// concrete types so that chaining keeps the concrete type.
type Node interface {
	fmt.Stringer

	Kind() Kind

	// Name returns the name set via Named, or "".
	Name() string

	// AssignedRole returns the role set via Role, or "".
	AssignedRole() string

	// Outgoing enumerates the node's successors as edges. The sequence is
	// computed from the current wiring state each time it is ranged over.
	Outgoing() iter.Seq[Edge]

	// Incoming enumerates the edges attached with SetIncoming.
	Incoming() iter.Seq[Edge]

	// SetIncoming replaces the incoming edge set. It is called by the graph
	// indexer during Publish; nodes never compute incoming edges themselves.
	SetIncoming(edges []Edge)

	// Freeze marks the node as published. Builder calls on a frozen node
	// panic.
	Freeze()

	Frozen() bool

	base() *node
}

// node holds the state shared by every kind.
type node struct {
	kind     Kind
	name     string
	role     string
	incoming []Edge
	frozen   atomic.Bool
}

func (n *node) base() *node { return n }

func (n *node) Kind() Kind { return n.kind }

func (n *node) Name() string { return n.name }

func (n *node) AssignedRole() string { return n.role }

func (n *node) Incoming() iter.Seq[Edge] {
	return slices.Values(n.incoming)
}

func (n *node) SetIncoming(edges []Edge) {
	n.mutate()
	n.incoming = slices.Clone(edges)
}

func (n *node) Freeze() { n.frozen.Store(true) }

func (n *node) Frozen() bool { return n.frozen.Load() }

// String renders the display name: "approve_request" becomes
// "Approve Request". Unnamed nodes render as "<kind>@<address>".
func (n *node) String() string {
	if n.name != "" {
		// Casers are stateful, so one is built per call to keep String safe
		// for concurrent readers.
		return cases.Title(language.Und).String(strings.ReplaceAll(n.name, "_", " "))
	}
	return fmt.Sprintf("%s@%p", n.kind, n)
}

func (n *node) setName(name string) {
	n.mutate()
	n.name = name
}

func (n *node) setRole(role string) {
	n.mutate()
	n.role = role
}

func (n *node) mutate() {
	if n.frozen.Load() {
		panic(fmt.Sprintf("flowgraph: %s node %q is published and can no longer be modified", n.kind, n.String()))
	}
}

// IsNil reports whether n is nil or a nil pointer to a node type, such as
// (*View)(nil).
func IsNil(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

func mustNode(n Node, op string) Node {
	if IsNil(n) {
		panic("flowgraph: " + op + " called with nil node")
	}
	return n
}

// nextEdges yields one EdgeNext edge from src to each node of *succ.
// succ is dereferenced when ranged so the sequence reflects current wiring.
func nextEdges(src Node, succ *[]Node) iter.Seq[Edge] {
	return func(yield func(Edge) bool) {
		for _, dst := range *succ {
			if !yield(NewEdge(src, dst, EdgeNext, "")) {
				return
			}
		}
	}
}

var (
	_ Node = (*Start)(nil)
	_ Node = (*End)(nil)
	_ Node = (*Timer)(nil)
	_ Node = (*Mailbox)(nil)
	_ Node = (*View)(nil)
	_ Node = (*Job)(nil)
	_ Node = (*If)(nil)
	_ Node = (*Switch)(nil)
	_ Node = (*Join)(nil)
	_ Node = (*Split)(nil)
	_ Node = (*First)(nil)
)
