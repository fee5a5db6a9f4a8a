// Package api contains the building blocks of flowgraph process
// definitions: the node types, the edges between them, published
// definitions, their serializable snapshots and observability hooks.
//
// Most users interact with the higher-level flowgraph package, which
// re-exports the types and constructors of this package. The api package is
// intended for integrations that inspect definitions directly.
//
// # Nodes
//
// Nodes fall into three categories:
//
//   - Events: Start, End, Timer, Mailbox
//   - Tasks: View, Job
//   - Gates: If, Switch, Join, Split, First
//
// Every node is built with its constructor and wired with chaining methods:
//
//	end := api.NewEnd()
//	view := api.NewView("approve_form").Named("approve").Role("manager")
//	view.Next(end)
//	start := api.NewStart().Activate(view)
//
// Cycles are created by wiring a node back to an earlier one.
//
// # Edges
//
// Outgoing edges are never stored. Each node computes them from its own
// fields every time Outgoing is ranged over, so the sequence always reflects
// the latest wiring. Incoming edges are the opposite: they are computed once
// by the publisher and attached to the destination node.
//
// # Publishing
//
// A graph is mutable until it is published. Publishing indexes the reachable
// nodes, validates them and freezes them; any later mutation panics. The
// result is a Definition, which is read-only and safe for concurrent use.
//
// # Observability
//
// Observer receives publish and registration events. NoopObserver,
// CompositeObserver, LoggingObserver and BasicMetrics are provided.
package api
