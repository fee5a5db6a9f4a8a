// Package graph indexes the nodes reachable from a Start: it assigns stable
// ids, back-links incoming edges and runs the structural checks performed
// at publish time.
package graph

import (
	"errors"
	"fmt"

	"github.com/petrijr/flowgraph/pkg/api"
)

// Options controls the optional health checks of Build.
type Options struct {
	// Declared lists nodes the author created. Any of them not reachable
	// from the start is reported as UnreachableNodeError.
	Declared []api.Node

	// RequireEnd turns a missing reachable End into an error.
	RequireEnd bool
}

// Index is the reachable set of a definition.
type Index struct {
	Start    *api.Start
	Nodes    []api.Node
	IDs      map[api.Node]string
	Incoming map[api.Node][]api.Edge
}

// Build walks the graph depth-first in edge order from start and validates
// it. All violations found are returned joined; the Index is only returned
// when there are none.
func Build(start *api.Start, opts Options) (*Index, error) {
	if start == nil {
		return nil, api.ErrNilStart
	}

	idx := &Index{
		Start:    start,
		IDs:      make(map[api.Node]string),
		Incoming: make(map[api.Node][]api.Edge),
	}

	var errs []error
	seen := make(map[api.Node]bool)

	var visit func(n api.Node)
	visit = func(n api.Node) {
		if seen[n] {
			return
		}
		seen[n] = true
		idx.Nodes = append(idx.Nodes, n)

		for e := range n.Outgoing() {
			dst := e.Dst()
			if dst == nil {
				errs = append(errs, &api.IncompleteBranchError{Node: n, Class: e.Class()})
				continue
			}
			idx.Incoming[dst] = append(idx.Incoming[dst], e)
			visit(dst)
		}
	}
	visit(start)

	sawEnd := false
	names := make(map[string]int)
	for _, n := range idx.Nodes {
		if n.Frozen() {
			errs = append(errs, fmt.Errorf("%w: %s %q", api.ErrAlreadyPublished, n.Kind(), n.String()))
		}
		switch n.Kind() {
		case api.KindStart:
			if n != api.Node(start) {
				errs = append(errs, &api.MultipleStartError{Node: n})
			}
		case api.KindEnd:
			sawEnd = true
		}
		if name := n.Name(); name != "" {
			names[name]++
			if names[name] == 2 {
				errs = append(errs, &api.DuplicateNameError{Name: name})
			}
		}
	}

	for _, n := range opts.Declared {
		if !api.IsNil(n) && !seen[n] {
			errs = append(errs, &api.UnreachableNodeError{Node: n})
		}
	}

	if opts.RequireEnd && !sawEnd {
		errs = append(errs, api.ErrNoEnd)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	assignIDs(idx, names)
	return idx, nil
}

// assignIDs uses the node name when set and "<kind>-<n>" otherwise,
// skipping generated ids that collide with a name.
func assignIDs(idx *Index, names map[string]int) {
	counters := make(map[api.Kind]int)
	for _, n := range idx.Nodes {
		if name := n.Name(); name != "" {
			idx.IDs[n] = name
			continue
		}
		for {
			counters[n.Kind()]++
			id := fmt.Sprintf("%s-%d", n.Kind(), counters[n.Kind()])
			if names[id] == 0 {
				idx.IDs[n] = id
				break
			}
		}
	}
}

// Attach stores the computed incoming edges on every indexed node and
// freezes them. After Attach the graph is read-only.
func (idx *Index) Attach() {
	for _, n := range idx.Nodes {
		n.SetIncoming(idx.Incoming[n])
	}
	for _, n := range idx.Nodes {
		n.Freeze()
	}
}
