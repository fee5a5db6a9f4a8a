package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/petrijr/flowgraph/internal/persistence"
	"github.com/petrijr/flowgraph/pkg/api"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seededStore(t *testing.T) persistence.SnapshotStore {
	t.Helper()
	store := persistence.NewInMemoryStore()
	for _, v := range []string{"v1", "v2"} {
		require.NoError(t, store.SaveSnapshot(context.Background(), &api.Snapshot{
			ID:          "id-" + v,
			Name:        "leave-request",
			Version:     v,
			Fingerprint: "fp-" + v,
			PublishedAt: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
			Nodes: []api.NodeRecord{
				{ID: "start-1", Kind: api.KindStart, Title: "start-1"},
				{ID: "approve", Kind: api.KindView, Name: "approve", Title: "Approve"},
				{ID: "end-1", Kind: api.KindEnd, Title: "end-1"},
			},
			Edges: []api.EdgeRecord{
				{Source: "start-1", Target: "approve", Class: api.EdgeNext},
				{Source: "approve", Target: "end-1", Class: api.EdgeNext, Label: "done"},
			},
		}))
	}
	require.NoError(t, store.SaveSnapshot(context.Background(), &api.Snapshot{
		ID: "id-other", Name: "other", Version: "v1",
	}))
	return store
}

func get(t *testing.T, s *Server, path string) (int, []byte) {
	t.Helper()
	resp, err := s.App().Test(httptest.NewRequest(http.MethodGet, path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func TestHealthz(t *testing.T) {
	s := New(persistence.NewInMemoryStore(), quietLogger())

	status, body := get(t, s, "/healthz")
	require.Equal(t, http.StatusOK, status)
	require.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestListDefinitions(t *testing.T) {
	s := New(seededStore(t), quietLogger())

	status, body := get(t, s, "/definitions")
	require.Equal(t, http.StatusOK, status)

	var all []DefinitionSummary
	require.NoError(t, json.Unmarshal(body, &all))
	require.Len(t, all, 3)
	require.Equal(t, "leave-request", all[0].Name)
	require.Equal(t, 3, all[0].Nodes)
	require.Equal(t, 2, all[0].Edges)

	status, body = get(t, s, "/definitions?name=other")
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &all))
	require.Len(t, all, 1)
	require.Equal(t, "other", all[0].Name)
}

func TestListVersions(t *testing.T) {
	s := New(seededStore(t), quietLogger())

	status, body := get(t, s, "/definitions/leave-request/versions")
	require.Equal(t, http.StatusOK, status)
	require.JSONEq(t, `{"name":"leave-request","versions":["v1","v2"]}`, string(body))

	status, _ = get(t, s, "/definitions/unknown/versions")
	require.Equal(t, http.StatusNotFound, status)
}

func TestGetSnapshot(t *testing.T) {
	s := New(seededStore(t), quietLogger())

	status, body := get(t, s, "/definitions/leave-request/versions/v2")
	require.Equal(t, http.StatusOK, status)

	var snap api.Snapshot
	require.NoError(t, json.Unmarshal(body, &snap))
	require.Equal(t, "id-v2", snap.ID)
	require.Len(t, snap.Nodes, 3)

	status, body = get(t, s, "/definitions/leave-request/versions/v9")
	require.Equal(t, http.StatusNotFound, status)
	require.JSONEq(t, `{"error":"definition not found"}`, string(body))
}

func TestGetEdges(t *testing.T) {
	s := New(seededStore(t), quietLogger())

	status, body := get(t, s, "/definitions/leave-request/versions/v1/edges")
	require.Equal(t, http.StatusOK, status)
	require.JSONEq(t, `{
		"name": "leave-request",
		"version": "v1",
		"edges": [
			"[next] start-1 ---> Approve",
			"[next] Approve ---> end-1 (done)"
		]
	}`, string(body))
}

type brokenStore struct {
	persistence.SnapshotStore
}

func (brokenStore) ListSnapshots(context.Context, persistence.SnapshotFilter) ([]*api.Snapshot, error) {
	return nil, errors.New("connection refused")
}

func TestStoreFailureIs500(t *testing.T) {
	s := New(brokenStore{}, quietLogger())

	status, body := get(t, s, "/definitions")
	require.Equal(t, http.StatusInternalServerError, status)
	require.JSONEq(t, `{"error":"connection refused"}`, string(body))
}
