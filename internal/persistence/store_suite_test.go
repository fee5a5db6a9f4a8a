package persistence

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/petrijr/flowgraph/pkg/api"
)

// SnapshotStoreSuite is run against every SnapshotStore implementation.
// newStore must return an empty store.
type SnapshotStoreSuite struct {
	suite.Suite
	newStore func() SnapshotStore
	store    SnapshotStore
	ctx      context.Context
}

func (s *SnapshotStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = s.newStore()
}

func sampleSnapshot(name, version string) *api.Snapshot {
	waitAll := true
	minutes := 15
	return &api.Snapshot{
		ID:          "id-" + name + "-" + version,
		Name:        name,
		Version:     version,
		Fingerprint: "fp-" + version,
		PublishedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Nodes: []api.NodeRecord{
			{ID: "start", Kind: api.KindStart, Name: "start", Title: "Start"},
			{ID: "wait", Kind: api.KindTimer, Name: "wait", Title: "Wait", Delay: &api.DelayRecord{Minutes: &minutes}},
			{ID: "merge", Kind: api.KindJoin, Name: "merge", Title: "Merge", Role: "ops", WaitAll: &waitAll},
			{ID: "end-1", Kind: api.KindEnd, Title: "end-1"},
		},
		Edges: []api.EdgeRecord{
			{Source: "start", Target: "wait", Class: api.EdgeNext},
			{Source: "wait", Target: "merge", Class: api.EdgeNext},
			{Source: "merge", Target: "end-1", Class: api.EdgeNext, Label: "done"},
		},
	}
}

func (s *SnapshotStoreSuite) TestSaveAndGet() {
	snap := sampleSnapshot("leave-request", "v1")
	s.Require().NoError(s.store.SaveSnapshot(s.ctx, snap))

	got, err := s.store.GetSnapshot(s.ctx, "leave-request", "v1")
	s.Require().NoError(err)

	s.Equal(snap.ID, got.ID)
	s.Equal(snap.Fingerprint, got.Fingerprint)
	s.True(snap.PublishedAt.Equal(got.PublishedAt), "published_at %v != %v", snap.PublishedAt, got.PublishedAt)
	s.Equal(snap.Nodes, got.Nodes)
	s.Equal(snap.Edges, got.Edges)
}

func (s *SnapshotStoreSuite) TestGetMissing() {
	_, err := s.store.GetSnapshot(s.ctx, "does-not-exist", "v1")
	s.ErrorIs(err, ErrSnapshotNotFound)
}

func (s *SnapshotStoreSuite) TestSaveTwiceIsRejected() {
	s.Require().NoError(s.store.SaveSnapshot(s.ctx, sampleSnapshot("orders", "v1")))

	second := sampleSnapshot("orders", "v1")
	second.ID = "other"
	s.ErrorIs(s.store.SaveSnapshot(s.ctx, second), ErrSnapshotExists)

	got, err := s.store.GetSnapshot(s.ctx, "orders", "v1")
	s.Require().NoError(err)
	s.Equal("id-orders-v1", got.ID, "existing snapshot must not be overwritten")
}

func (s *SnapshotStoreSuite) TestListVersionsSorted() {
	for _, v := range []string{"v3", "v1", "v2"} {
		s.Require().NoError(s.store.SaveSnapshot(s.ctx, sampleSnapshot("billing", v)))
	}
	s.Require().NoError(s.store.SaveSnapshot(s.ctx, sampleSnapshot("other", "v9")))

	versions, err := s.store.ListVersions(s.ctx, "billing")
	s.Require().NoError(err)
	s.Equal([]string{"v1", "v2", "v3"}, versions)

	none, err := s.store.ListVersions(s.ctx, "unknown")
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *SnapshotStoreSuite) TestListSnapshotsFilterAndOrder() {
	s.Require().NoError(s.store.SaveSnapshot(s.ctx, sampleSnapshot("b-flow", "v1")))
	s.Require().NoError(s.store.SaveSnapshot(s.ctx, sampleSnapshot("a-flow", "v2")))
	s.Require().NoError(s.store.SaveSnapshot(s.ctx, sampleSnapshot("a-flow", "v1")))

	all, err := s.store.ListSnapshots(s.ctx, SnapshotFilter{})
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal("a-flow", all[0].Name)
	s.Equal("v1", all[0].Version)
	s.Equal("a-flow", all[1].Name)
	s.Equal("v2", all[1].Version)
	s.Equal("b-flow", all[2].Name)

	only, err := s.store.ListSnapshots(s.ctx, SnapshotFilter{Name: "b-flow"})
	s.Require().NoError(err)
	s.Require().Len(only, 1)
	s.Equal("b-flow", only[0].Name)
}

func (s *SnapshotStoreSuite) TestListingUsesByteOrder() {
	for _, name := range []string{"beta", "Zeta", "alpha"} {
		s.Require().NoError(s.store.SaveSnapshot(s.ctx, sampleSnapshot(name, "v1")))
	}
	for _, v := range []string{"v10", "V2", "v1"} {
		s.Require().NoError(s.store.SaveSnapshot(s.ctx, sampleSnapshot("mixed", v)))
	}

	versions, err := s.store.ListVersions(s.ctx, "mixed")
	s.Require().NoError(err)
	s.Equal([]string{"V2", "v1", "v10"}, versions)

	all, err := s.store.ListSnapshots(s.ctx, SnapshotFilter{})
	s.Require().NoError(err)
	names := make([]string, 0, len(all))
	for _, snap := range all {
		names = append(names, snap.Name+"/"+snap.Version)
	}
	s.Equal([]string{"Zeta/v1", "alpha/v1", "beta/v1", "mixed/V2", "mixed/v1", "mixed/v10"}, names)
}
