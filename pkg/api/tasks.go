package api

import (
	"context"
	"iter"
)

// JobFunc is the unit of work of an automatic Job. This package only stores
// it; the runtime executes it.
type JobFunc func(ctx context.Context, input any) (any, error)

// View is a human-performed task. The descriptor identifies the form,
// screen or handler presenting the work and is opaque here.
//
// Several Next calls keep every successor in declared order. They are
// emitted as plain next edges; whether the runtime treats them as fan-out
// is its own decision.
type View struct {
	node
	descriptor any
	next       []Node
}

// NewView returns a human task wrapping descriptor.
func NewView(descriptor any) *View {
	return &View{node: node{kind: KindView}, descriptor: descriptor}
}

func (v *View) Descriptor() any { return v.descriptor }

func (v *View) Next(n Node) *View {
	v.mutate()
	v.next = append(v.next, mustNode(n, "View.Next"))
	return v
}

func (v *View) Role(role string) *View {
	v.setRole(role)
	return v
}

func (v *View) Named(name string) *View {
	v.setName(name)
	return v
}

func (v *View) Outgoing() iter.Seq[Edge] { return nextEdges(v, &v.next) }

// Job is an automatically executed task.
type Job struct {
	node
	fn   JobFunc
	next []Node
}

// NewJob returns an automatic task wrapping fn.
func NewJob(fn JobFunc) *Job {
	return &Job{node: node{kind: KindJob}, fn: fn}
}

func (j *Job) Func() JobFunc { return j.fn }

func (j *Job) Next(n Node) *Job {
	j.mutate()
	j.next = append(j.next, mustNode(n, "Job.Next"))
	return j
}

func (j *Job) Role(role string) *Job {
	j.setRole(role)
	return j
}

func (j *Job) Named(name string) *Job {
	j.setName(name)
	return j
}

func (j *Job) Outgoing() iter.Seq[Edge] { return nextEdges(j, &j.next) }
