package api

import (
	"iter"
	"slices"
)

// ConditionFunc is a predicate guarding a gate branch. Gates store it and
// never call it; evaluation belongs to the runtime.
type ConditionFunc func(input any) bool

// Branch is a successor registered on a Switch or Split together with its
// optional guard. A nil Cond marks an unconditioned branch.
type Branch struct {
	Node Node
	Cond ConditionFunc
}

func (b Branch) class() EdgeClass {
	if b.Cond != nil {
		return EdgeCondTrue
	}
	return EdgeDefault
}

func branchEdges(src Node, branches *[]Branch) iter.Seq[Edge] {
	return func(yield func(Edge) bool) {
		for _, b := range *branches {
			if !yield(NewEdge(src, b.Node, b.class(), "")) {
				return
			}
		}
	}
}

// If activates one of two paths depending on a condition.
//
// It always emits exactly two edges, cond_true then cond_false, even when a
// target is unset. Publish rejects the unset case.
type If struct {
	node
	cond    ConditionFunc
	onTrue  Node
	onFalse Node
}

// NewIf returns a binary gate guarded by cond.
func NewIf(cond ConditionFunc) *If {
	return &If{node: node{kind: KindIf}, cond: cond}
}

func (g *If) Condition() ConditionFunc { return g.cond }

// OnTrue sets the target taken when the condition holds, replacing any
// previous one.
func (g *If) OnTrue(n Node) *If {
	g.mutate()
	g.onTrue = mustNode(n, "If.OnTrue")
	return g
}

// OnFalse sets the target taken when the condition does not hold,
// replacing any previous one.
func (g *If) OnFalse(n Node) *If {
	g.mutate()
	g.onFalse = mustNode(n, "If.OnFalse")
	return g
}

func (g *If) Role(role string) *If {
	g.setRole(role)
	return g
}

func (g *If) Named(name string) *If {
	g.setName(name)
	return g
}

func (g *If) Outgoing() iter.Seq[Edge] {
	return func(yield func(Edge) bool) {
		if !yield(NewEdge(g, g.onTrue, EdgeCondTrue, "")) {
			return
		}
		yield(NewEdge(g, g.onFalse, EdgeCondFalse, ""))
	}
}

// Switch activates the first branch whose condition holds, falling back to
// the default branches. Registration order is evaluation order.
type Switch struct {
	node
	branches []Branch
}

func NewSwitch() *Switch {
	return &Switch{node: node{kind: KindSwitch}}
}

// Case appends a branch guarded by cond. A nil cond registers the branch
// as a default.
func (g *Switch) Case(n Node, cond ConditionFunc) *Switch {
	g.mutate()
	g.branches = append(g.branches, Branch{Node: mustNode(n, "Switch.Case"), Cond: cond})
	return g
}

// Default appends an unconditioned fallback branch.
func (g *Switch) Default(n Node) *Switch {
	g.mutate()
	g.branches = append(g.branches, Branch{Node: mustNode(n, "Switch.Default")})
	return g
}

// Branches returns the registered branches in registration order.
func (g *Switch) Branches() []Branch { return slices.Clone(g.branches) }

func (g *Switch) Role(role string) *Switch {
	g.setRole(role)
	return g
}

func (g *Switch) Named(name string) *Switch {
	g.setName(name)
	return g
}

func (g *Switch) Outgoing() iter.Seq[Edge] { return branchEdges(g, &g.branches) }

// Join waits for one or all of its incoming branches, then activates its
// successors. What "all" means is the cardinality of the incoming edge set
// attached at publish time.
type Join struct {
	node
	waitAll bool
	next    []Node
}

// NewJoin returns a join. waitAll=true waits for every incoming branch,
// false continues on the first arrival.
func NewJoin(waitAll bool) *Join {
	return &Join{node: node{kind: KindJoin}, waitAll: waitAll}
}

func (g *Join) WaitAll() bool { return g.waitAll }

func (g *Join) Next(n Node) *Join {
	g.mutate()
	g.next = append(g.next, mustNode(n, "Join.Next"))
	return g
}

func (g *Join) Role(role string) *Join {
	g.setRole(role)
	return g
}

func (g *Join) Named(name string) *Join {
	g.setName(name)
	return g
}

func (g *Join) Outgoing() iter.Seq[Edge] { return nextEdges(g, &g.next) }

// Split fans execution out in parallel. Every successor whose condition
// holds is activated; unconditioned successors always are.
type Split struct {
	node
	branches []Branch
}

func NewSplit() *Split {
	return &Split{node: node{kind: KindSplit}}
}

// Next appends a successor guarded by cond, which may be nil.
func (g *Split) Next(n Node, cond ConditionFunc) *Split {
	g.mutate()
	g.branches = append(g.branches, Branch{Node: mustNode(n, "Split.Next"), Cond: cond})
	return g
}

// Always appends an unconditioned successor. It is Next(n, nil).
func (g *Split) Always(n Node) *Split {
	return g.Next(n, nil)
}

func (g *Split) Branches() []Branch { return slices.Clone(g.branches) }

func (g *Split) Role(role string) *Split {
	g.setRole(role)
	return g
}

func (g *Split) Named(name string) *Split {
	g.setName(name)
	return g
}

func (g *Split) Outgoing() iter.Seq[Edge] { return branchEdges(g, &g.branches) }

// First starts competing successors; the first to complete wins and the
// runtime cancels the rest.
type First struct {
	node
	candidates []Node
}

func NewFirst() *First {
	return &First{node: node{kind: KindFirst}}
}

// Of appends a competing successor.
func (g *First) Of(n Node) *First {
	g.mutate()
	g.candidates = append(g.candidates, mustNode(n, "First.Of"))
	return g
}

func (g *First) Candidates() []Node { return successors(g.candidates) }

func (g *First) Role(role string) *First {
	g.setRole(role)
	return g
}

func (g *First) Named(name string) *First {
	g.setName(name)
	return g
}

func (g *First) Outgoing() iter.Seq[Edge] { return nextEdges(g, &g.candidates) }
