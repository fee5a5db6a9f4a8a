package cli

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/petrijr/flowgraph/internal/persistence"
)

const approvalHCL = `
flow "approval" {
  start "begin" {
    activate = [review]
  }

  view "review" {
    role = var.reviewer
    next = [ok]
  }

  if "ok" {
    cond     = "is_ok"
    on_true  = done
    on_false = review
  }

  end "done" {}
}
`

const brokenGraphHCL = `
flow "broken" {
  start "begin" {
    activate = [check]
  }

  if "check" {
    cond = "c"
  }
}
`

func writeFlow(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func discardLogger() *slog.Logger { return NewLogger("error", "text", io.Discard) }

func TestRun_PrintsDefinitions(t *testing.T) {
	dir := t.TempDir()
	writeFlow(t, dir, "approval.hcl", approvalHCL)

	cfg, err := NewConfig(Config{
		Paths: []string{dir},
		Print: true,
		Vars:  map[string]string{"reviewer": "lead"},
	})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), cfg, &out, discardLogger()))

	got := out.String()
	require.True(t, strings.HasPrefix(got, "approval v1 ("), "unexpected header: %q", got)
	for _, want := range []string{
		"  [next] Begin ---> Review\n",
		"  [next] Review ---> Ok\n",
		"  [cond_true] Ok ---> Done\n",
		"  [cond_false] Ok ---> Review\n",
		"  cycle: [Review Ok Review]\n",
	} {
		require.Contains(t, got, want)
	}
}

func TestRun_DiagnosticsExitOne(t *testing.T) {
	dir := t.TempDir()
	writeFlow(t, dir, "bad.hcl", `
flow "bad" {
  start "begin" {
    activate = [missing]
  }
}
`)
	cfg, err := NewConfig(Config{Paths: []string{dir}})
	require.NoError(t, err)

	var out bytes.Buffer
	err = Run(context.Background(), cfg, &out, discardLogger())

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	require.Equal(t, 1, exitErr.Code)
	require.Contains(t, out.String(), "Unknown node reference")
}

func TestRun_PublishFailureExitOne(t *testing.T) {
	dir := t.TempDir()
	writeFlow(t, dir, "a.hcl", strings.ReplaceAll(approvalHCL, "var.reviewer", `"lead"`))
	writeFlow(t, dir, "b.hcl", brokenGraphHCL)

	cfg, err := NewConfig(Config{Paths: []string{dir}, Print: true})
	require.NoError(t, err)

	var out bytes.Buffer
	err = Run(context.Background(), cfg, &out, discardLogger())

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	require.Equal(t, 1, exitErr.Code)
	require.Contains(t, out.String(), "approval v1", "valid flows are still printed")
	require.Contains(t, out.String(), "flow broken")
}

func TestRun_PersistsToSQLite(t *testing.T) {
	dir := t.TempDir()
	writeFlow(t, dir, "approval.hcl", approvalHCL)
	dbPath := filepath.Join(dir, "flows.db")

	cfg, err := NewConfig(Config{
		Paths: []string{filepath.Join(dir, "approval.hcl")},
		Store: StoreSQLite,
		DSN:   dbPath,
		Vars:  map[string]string{"reviewer": "lead"},
	})
	require.NoError(t, err)
	require.NoError(t, Run(context.Background(), cfg, io.Discard, discardLogger()))

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store, err := persistence.NewSQLiteSnapshotStore(db)
	require.NoError(t, err)

	snap, err := store.GetSnapshot(context.Background(), "approval", "v1")
	require.NoError(t, err)
	require.Len(t, snap.Nodes, 4)
	require.Equal(t, "lead", snap.Nodes[1].Role)
}
