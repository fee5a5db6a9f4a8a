package hclflow

import (
	"context"

	"github.com/petrijr/flowgraph/pkg/api"
)

// Bindings resolves the callback and view names used in flow files.
type Bindings struct {
	Conditions map[string]api.ConditionFunc
	Jobs       map[string]api.JobFunc
	Receivers  map[string]api.ReceiveFunc
	Views      map[string]any

	// symbolic resolves every name that is not bound explicitly to an inert
	// placeholder.
	symbolic bool
}

// Symbol is the view descriptor produced by Symbolic bindings: the name the
// flow file used.
type Symbol string

func (s Symbol) String() string { return string(s) }

// Symbolic returns bindings that accept any name. Conditions and receivers
// never hold, jobs return their input unchanged and views are described by
// their Symbol. It is meant for tooling that inspects topology only.
func Symbolic() Bindings {
	return Bindings{symbolic: true}
}

// Symbolic returns a copy of b that falls back to placeholders for names
// b does not bind.
func (b Bindings) Symbolic() Bindings {
	b.symbolic = true
	return b
}

func (b Bindings) condition(name string) (api.ConditionFunc, bool) {
	if fn, ok := b.Conditions[name]; ok && fn != nil {
		return fn, true
	}
	if b.symbolic {
		return func(any) bool { return false }, true
	}
	return nil, false
}

func (b Bindings) job(name string) (api.JobFunc, bool) {
	if fn, ok := b.Jobs[name]; ok && fn != nil {
		return fn, true
	}
	if b.symbolic {
		return func(_ context.Context, input any) (any, error) { return input, nil }, true
	}
	return nil, false
}

func (b Bindings) receiver(name string) (api.ReceiveFunc, bool) {
	if fn, ok := b.Receivers[name]; ok && fn != nil {
		return fn, true
	}
	if b.symbolic {
		return func(any) bool { return false }, true
	}
	return nil, false
}

// view falls back to the name itself when no descriptor is bound, so a
// plain string descriptor needs no binding.
func (b Bindings) view(name string) any {
	if d, ok := b.Views[name]; ok {
		return d
	}
	if b.symbolic {
		return Symbol(name)
	}
	return name
}
