// Package flowgraph lets Go code declare business processes as graphs of
// typed nodes and publish them as immutable, uniquely identified definitions.
//
// A process is authored by creating nodes and wiring them together:
//
//	done := flowgraph.NewEnd().Named("done")
//	approve := flowgraph.NewView("approve_form").Named("approve").Role("manager")
//	check := flowgraph.NewIf(isApproved).Named("approved").OnTrue(done).OnFalse(approve)
//	approve.Next(check)
//	start := flowgraph.NewStart().Activate(approve)
//
//	def, err := flowgraph.Publish("approval", start)
//
// # Nodes
//
// Nodes fall into three categories:
//
//   - events: Start, End, Timer and Mailbox
//   - tasks: View and Job
//   - gates: If, Switch, Join, Split and First
//
// Every node can be given a role, the actor responsible for it, and a
// snake_case name used for display and lookup.
//
// # Publishing
//
// Publish walks the graph from its start, assigns stable node IDs, checks
// the structure and freezes every node. All problems found are returned at
// once, joined with errors.Join; use errors.Is with ErrIncompleteBranch,
// ErrMultipleStart, ErrDuplicateName, ErrUnreachableNode or ErrNoEnd to
// inspect them. Cycles are valid and reported through Definition.Cycle.
//
// Modifying a node after it was published panics.
//
// # Registry and stores
//
// A Registry keeps published definitions by name and version. With
// WithStore it also persists each definition's Snapshot, a callback free
// JSON form of the graph. Stores exist for memory, SQLite, PostgreSQL and
// Redis.
//
// # Observability
//
// Observers are notified of publish and register events. LoggingObserver
// writes to log/slog, BasicMetrics counts events and CompositeObserver fans
// out to several observers.
//
// Flow files written in HCL are loaded by package
// github.com/petrijr/flowgraph/pkg/hclflow.
package flowgraph
