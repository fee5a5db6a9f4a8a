package graph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/petrijr/flowgraph/pkg/api"
)

func yes(any) bool { return true }

func TestBuild_NilStart(t *testing.T) {
	_, err := Build(nil, Options{})
	require.ErrorIs(t, err, api.ErrNilStart)
}

func TestBuild_WalkOrderAndIDs(t *testing.T) {
	end := api.NewEnd()
	job := api.NewJob(nil).Next(end)
	view := api.NewView(nil).Named("approve").Next(job)
	other := api.NewJob(nil).Next(end)
	start := api.NewStart().Activate(view).Activate(other)

	idx, err := Build(start, Options{})
	require.NoError(t, err)

	// Depth-first in edge order: the first branch is fully visited before
	// the second.
	require.Equal(t, []api.Node{start, view, job, end, other}, idx.Nodes)
	require.Equal(t, map[api.Node]string{
		start: "start-1",
		view:  "approve",
		job:   "job-1",
		end:   "end-1",
		other: "job-2",
	}, idx.IDs)

	require.Len(t, idx.Incoming[end], 2)
	require.Len(t, idx.Incoming[view], 1)
	require.Empty(t, idx.Incoming[start])
}

func TestBuild_GeneratedIDsSkipNames(t *testing.T) {
	end := api.NewEnd()
	named := api.NewJob(nil).Named("job-1").Next(end)
	unnamed := api.NewJob(nil).Next(named)
	start := api.NewStart().Activate(unnamed)

	idx, err := Build(start, Options{})
	require.NoError(t, err)
	require.Equal(t, "job-2", idx.IDs[unnamed])
	require.Equal(t, "job-1", idx.IDs[named])
}

func TestBuild_HandlesCycles(t *testing.T) {
	end := api.NewEnd()
	revise := api.NewView(nil).Named("revise")
	approve := api.NewView(nil).Named("approve")
	check := api.NewIf(yes).OnTrue(end).OnFalse(revise)
	approve.Next(check)
	revise.Next(approve)
	start := api.NewStart().Activate(approve)

	idx, err := Build(start, Options{})
	require.NoError(t, err)
	require.Len(t, idx.Nodes, 5)
	require.Len(t, idx.Incoming[approve], 2, "start and revise both lead to approve")
}

func TestBuild_ReportsAllViolations(t *testing.T) {
	end := api.NewEnd()
	dup1 := api.NewView(nil).Named("review").Next(end)
	dup2 := api.NewJob(nil).Named("review").Next(end)
	gate := api.NewIf(yes).OnTrue(dup1)
	sw := api.NewSwitch().Case(dup2, yes)
	start := api.NewStart().Activate(gate).Activate(sw)

	_, err := Build(start, Options{})
	require.Error(t, err)

	require.ErrorIs(t, err, api.ErrIncompleteBranch)
	require.ErrorIs(t, err, api.ErrDuplicateName)

	var incomplete *api.IncompleteBranchError
	require.True(t, errors.As(err, &incomplete))
	require.Equal(t, api.Node(gate), incomplete.Node)
	require.Equal(t, api.EdgeCondFalse, incomplete.Class)

	var dup *api.DuplicateNameError
	require.True(t, errors.As(err, &dup))
	require.Equal(t, "review", dup.Name)
}

func TestBuild_DuplicateNameReportedOnce(t *testing.T) {
	end := api.NewEnd()
	a := api.NewJob(nil).Named("x").Next(end)
	b := api.NewJob(nil).Named("x").Next(end)
	c := api.NewJob(nil).Named("x").Next(end)
	start := api.NewStart().Activate(a).Activate(b).Activate(c)

	_, err := Build(start, Options{})
	joined, ok := err.(interface{ Unwrap() []error })
	require.True(t, ok, "expected a joined error")
	require.Len(t, joined.Unwrap(), 1)
}

func TestBuild_MultipleStart(t *testing.T) {
	end := api.NewEnd()
	inner := api.NewStart().Activate(end)
	job := api.NewJob(nil).Next(inner)
	start := api.NewStart().Activate(job)

	_, err := Build(start, Options{})
	var multi *api.MultipleStartError
	require.ErrorAs(t, err, &multi)
	require.Equal(t, api.Node(inner), multi.Node)
}

func TestBuild_UnreachableDeclared(t *testing.T) {
	end := api.NewEnd()
	orphan := api.NewView(nil).Named("orphan").Next(end)
	start := api.NewStart().Activate(end)

	var noView *api.View
	_, err := Build(start, Options{Declared: []api.Node{start, end, orphan, nil, noView}})
	var unreachable *api.UnreachableNodeError
	require.ErrorAs(t, err, &unreachable)
	require.Equal(t, api.Node(orphan), unreachable.Node)
	require.Equal(t, `flowgraph: unreachable node: view "Orphan"`, err.Error())
}

func TestBuild_TypedNilDeclaredNodesAreSkipped(t *testing.T) {
	var noView *api.View
	var noJob *api.Job
	_, err := Build(api.NewStart().Activate(api.NewEnd()), Options{Declared: []api.Node{noView, noJob}})
	require.NoError(t, err)
}

func TestBuild_RequireEnd(t *testing.T) {
	mk := func() *api.Start {
		job := api.NewJob(nil)
		job.Next(job)
		return api.NewStart().Activate(job)
	}

	_, err := Build(mk(), Options{})
	require.NoError(t, err, "a missing End is not an error by default")

	_, err = Build(mk(), Options{RequireEnd: true})
	require.ErrorIs(t, err, api.ErrNoEnd)
}

func TestAttach_SetsIncomingAndFreezes(t *testing.T) {
	end := api.NewEnd()
	view := api.NewView(nil).Next(end)
	start := api.NewStart().Activate(view)

	idx, err := Build(start, Options{})
	require.NoError(t, err)
	idx.Attach()

	for _, n := range idx.Nodes {
		require.True(t, n.Frozen(), "%s must be frozen", n)
	}
	var in []api.Edge
	for e := range end.Incoming() {
		in = append(in, e)
	}
	require.Equal(t, []api.Edge{api.NewEdge(view, end, api.EdgeNext, "")}, in)

	_, err = Build(start, Options{})
	require.ErrorIs(t, err, api.ErrAlreadyPublished)
}
