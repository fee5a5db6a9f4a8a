package hclflow

import (
	"context"
	"errors"

	"github.com/petrijr/flowgraph"
	"github.com/petrijr/flowgraph/pkg/api"
)

// Flow is one flow block turned into an unpublished node graph.
type Flow struct {
	Name    string
	Version string
	Start   *api.Start

	// Nodes lists every declared node in declaration order.
	Nodes []api.Node

	byName map[string]api.Node
}

// Node returns the node declared under name.
func (f *Flow) Node(name string) (api.Node, bool) {
	n, ok := f.byName[name]
	return n, ok
}

// publishOptions prepends the flow's version and declared nodes so that
// nodes nothing leads to are reported as unreachable. Caller options win.
func (f *Flow) publishOptions(opts []flowgraph.PublishOption) []flowgraph.PublishOption {
	return append([]flowgraph.PublishOption{
		flowgraph.WithVersion(f.Version),
		flowgraph.WithDeclaredNodes(f.Nodes...),
	}, opts...)
}

// Publish publishes the flow. A Flow can be published once.
func (f *Flow) Publish(opts ...flowgraph.PublishOption) (*api.Definition, error) {
	return flowgraph.Publish(f.Name, f.Start, f.publishOptions(opts)...)
}

// Register publishes the flow into reg.
func (f *Flow) Register(ctx context.Context, reg *flowgraph.Registry, opts ...flowgraph.PublishOption) (*api.Definition, error) {
	return reg.Publish(ctx, f.Name, f.Start, f.publishOptions(opts)...)
}

// RegisterAll registers every flow and returns the definitions that made
// it. Failures are joined; one bad flow does not stop the others.
func RegisterAll(ctx context.Context, reg *flowgraph.Registry, flows []*Flow, opts ...flowgraph.PublishOption) ([]*api.Definition, error) {
	var (
		defs []*api.Definition
		errs []error
	)
	for _, f := range flows {
		def, err := f.Register(ctx, reg, opts...)
		if err != nil {
			errs = append(errs, &FlowError{Flow: f.Name, Err: err})
			continue
		}
		defs = append(defs, def)
	}
	return defs, errors.Join(errs...)
}

// FlowError ties a publish failure to the flow it came from.
type FlowError struct {
	Flow string
	Err  error
}

func (e *FlowError) Error() string { return "flow " + e.Flow + ": " + e.Err.Error() }

func (e *FlowError) Unwrap() error { return e.Err }
