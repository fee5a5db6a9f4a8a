package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func env(values map[string]string) func(string) string {
	return func(k string) string { return values[k] }
}

func TestParse_Defaults(t *testing.T) {
	cfg, exit, err := Parse([]string{"flows/"}, &bytes.Buffer{}, nil)
	require.NoError(t, err)
	require.False(t, exit)

	require.Equal(t, []string{"flows/"}, cfg.Paths)
	require.Equal(t, StoreMemory, cfg.Store)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "text", cfg.LogFormat)
	require.False(t, cfg.Print)
	require.Empty(t, cfg.Listen)
	require.Empty(t, cfg.Vars)
}

func TestParse_Flags(t *testing.T) {
	cfg, _, err := Parse([]string{
		"-print",
		"-store", "SQLite",
		"-dsn", "file:test.db",
		"-listen", ":8080",
		"-var", "approver=manager",
		"-var", "limit=500",
		"-log-level", "debug",
		"-log-format", "json",
		"a.hcl", "b.hcl",
	}, &bytes.Buffer{}, nil)
	require.NoError(t, err)

	require.True(t, cfg.Print)
	require.Equal(t, StoreSQLite, cfg.Store)
	require.Equal(t, "file:test.db", cfg.DSN)
	require.Equal(t, ":8080", cfg.Listen)
	require.Equal(t, map[string]string{"approver": "manager", "limit": "500"}, cfg.Vars)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "json", cfg.LogFormat)
	require.Equal(t, []string{"a.hcl", "b.hcl"}, cfg.Paths)
}

func TestParse_EnvironmentDefaults(t *testing.T) {
	getenv := env(map[string]string{
		EnvStore:    "redis",
		EnvDSN:      "redis://localhost:6379/0",
		EnvLogLevel: "warn",
	})

	cfg, _, err := Parse([]string{"x.hcl"}, &bytes.Buffer{}, getenv)
	require.NoError(t, err)
	require.Equal(t, StoreRedis, cfg.Store)
	require.Equal(t, "redis://localhost:6379/0", cfg.DSN)
	require.Equal(t, "warn", cfg.LogLevel)

	// Flags override the environment.
	cfg, _, err = Parse([]string{"-store", "memory", "x.hcl"}, &bytes.Buffer{}, getenv)
	require.NoError(t, err)
	require.Equal(t, StoreMemory, cfg.Store)
}

func TestParse_Help(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := Parse([]string{"-h"}, &out, nil)
	require.NoError(t, err)
	require.True(t, exit)
	require.Nil(t, cfg)
	require.Contains(t, out.String(), "Usage:")
}

func TestParse_UsageErrors(t *testing.T) {
	cases := map[string][]string{
		"no paths":       {},
		"unknown flag":   {"-nope", "x.hcl"},
		"bad var":        {"-var", "novalue", "x.hcl"},
		"bad store":      {"-store", "mongo", "x.hcl"},
		"missing dsn":    {"-store", "postgres", "x.hcl"},
		"bad log level":  {"-log-level", "loud", "x.hcl"},
		"bad log format": {"-log-format", "xml", "x.hcl"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := Parse(args, &bytes.Buffer{}, nil)
			var exitErr *ExitError
			require.True(t, errors.As(err, &exitErr), "expected ExitError, got %v", err)
			require.Equal(t, 2, exitErr.Code)
		})
	}
}

func TestNewConfig_RequiresPaths(t *testing.T) {
	_, err := NewConfig(Config{})
	require.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("warn", "json", &buf)

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"msg":"shown"`)
	require.Contains(t, buf.String(), `"k":"v"`)
}
