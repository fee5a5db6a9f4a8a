package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/petrijr/flowgraph/internal/cli"
)

func noEnv(string) string { return "" }

func TestRun_PrintsFlow(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
flow "hello" {
  start "begin" {
    activate = [greet]
  }
  job "greet" {
    job  = "say_hello"
    next = [done]
  }
  end "done" {}
}
`), 0o644))

	var out, logs bytes.Buffer
	err := run(context.Background(), &out, &logs, []string{"-print", path}, noEnv)
	require.NoError(t, err)
	require.Contains(t, out.String(), "[next] Greet ---> Done")
	require.Contains(t, logs.String(), "definition_published")
}

func TestRun_UsageErrorCode(t *testing.T) {
	var out, logs bytes.Buffer
	err := run(context.Background(), &out, &logs, nil, noEnv)

	var exitErr *cli.ExitError
	require.True(t, errors.As(err, &exitErr))
	require.Equal(t, 2, exitErr.Code)
}

func TestRun_Help(t *testing.T) {
	var out, logs bytes.Buffer
	require.NoError(t, run(context.Background(), &out, &logs, []string{"-help"}, noEnv))
	require.Contains(t, out.String(), "flowgraph [options] FILE|DIR...")
}
