package api

import (
	"slices"
	"time"
)

// DefinitionParams carries the output of the graph indexer into
// NewDefinition. Nodes must be in walk order and IDs must cover every node.
type DefinitionParams struct {
	ID          string
	Name        string
	Version     string
	PublishedAt time.Time
	Start       *Start
	Nodes       []Node
	IDs         map[Node]string
	Cycle       []Node
}

// Definition is a published, frozen process definition: the nodes
// reachable from one Start, each with its incoming edges attached.
//
// A Definition is read-only and safe for concurrent use.
type Definition struct {
	id          string
	name        string
	version     string
	publishedAt time.Time
	start       *Start
	nodes       []Node
	ids         map[Node]string
	byID        map[string]Node
	cycle       []Node
	fingerprint string
}

// NewDefinition assembles a Definition. It is called by Publish; the graph
// indexer has already validated the input.
func NewDefinition(p DefinitionParams) *Definition {
	d := &Definition{
		id:          p.ID,
		name:        p.Name,
		version:     p.Version,
		publishedAt: p.PublishedAt,
		start:       p.Start,
		nodes:       slices.Clone(p.Nodes),
		ids:         make(map[Node]string, len(p.IDs)),
		byID:        make(map[string]Node, len(p.IDs)),
		cycle:       slices.Clone(p.Cycle),
	}
	for n, id := range p.IDs {
		d.ids[n] = id
		d.byID[id] = n
	}
	d.fingerprint = ComputeFingerprint(d.nodeRecords(), d.edgeRecords())
	return d
}

func (d *Definition) ID() string             { return d.id }
func (d *Definition) Name() string           { return d.name }
func (d *Definition) Version() string        { return d.version }
func (d *Definition) PublishedAt() time.Time { return d.publishedAt }
func (d *Definition) Start() *Start          { return d.start }
func (d *Definition) Fingerprint() string    { return d.fingerprint }

// Nodes returns every reachable node in walk order, Start first.
func (d *Definition) Nodes() []Node { return slices.Clone(d.nodes) }

// Node looks a node up by its definition id.
func (d *Definition) Node(id string) (Node, bool) {
	n, ok := d.byID[id]
	return n, ok
}

// NodeID returns the definition id of n, or "" if n is not part of d.
func (d *Definition) NodeID(n Node) string { return d.ids[n] }

// Edges returns the outgoing edges of every node, in node order.
func (d *Definition) Edges() []Edge {
	var out []Edge
	for _, n := range d.nodes {
		out = slices.AppendSeq(out, n.Outgoing())
	}
	return out
}

// Incoming returns the incoming edges attached to n at publish time.
func (d *Definition) Incoming(n Node) []Edge {
	return slices.Collect(n.Incoming())
}

// Ends returns the reachable End nodes.
func (d *Definition) Ends() []*End {
	var out []*End
	for _, n := range d.nodes {
		if e, ok := n.(*End); ok {
			out = append(out, e)
		}
	}
	return out
}

// Cycle returns one cycle of the graph as a node path whose first and last
// elements are the same node, or nil if the graph is acyclic. Cycles are
// legal; they model loops such as revise-and-resubmit.
func (d *Definition) Cycle() []Node { return slices.Clone(d.cycle) }

// Snapshot returns the serializable form of d.
func (d *Definition) Snapshot() *Snapshot {
	return &Snapshot{
		ID:          d.id,
		Name:        d.name,
		Version:     d.version,
		Fingerprint: d.fingerprint,
		PublishedAt: d.publishedAt,
		Nodes:       d.nodeRecords(),
		Edges:       d.edgeRecords(),
	}
}

func (d *Definition) nodeRecords() []NodeRecord {
	out := make([]NodeRecord, 0, len(d.nodes))
	for _, n := range d.nodes {
		out = append(out, nodeRecord(d.ids[n], n))
	}
	return out
}

func (d *Definition) edgeRecords() []EdgeRecord {
	var out []EdgeRecord
	for _, e := range d.Edges() {
		out = append(out, EdgeRecord{
			Source: d.ids[e.Src()],
			Target: d.ids[e.Dst()],
			Class:  e.Class(),
			Label:  e.Label(),
		})
	}
	return out
}
