package cli

import (
	"errors"
	"fmt"
	"slices"
)

// Store backends accepted by -store.
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// Environment variables providing flag defaults.
const (
	EnvStore     = "FLOWGRAPH_STORE"
	EnvDSN       = "FLOWGRAPH_DSN"
	EnvListen    = "FLOWGRAPH_LISTEN"
	EnvLogLevel  = "FLOWGRAPH_LOG_LEVEL"
	EnvLogFormat = "FLOWGRAPH_LOG_FORMAT"
)

// Config holds everything a Run needs.
type Config struct {
	Paths []string // flow files or directories

	Print  bool
	Store  string
	DSN    string
	Listen string
	Vars   map[string]string

	LogLevel  string
	LogFormat string
}

var (
	storeKinds = []string{StoreMemory, StoreSQLite, StorePostgres, StoreRedis}
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.Paths) == 0 {
		return nil, errors.New("at least one flow file or directory is required")
	}
	if cfg.Store == "" {
		cfg.Store = StoreMemory
	}
	if !slices.Contains(storeKinds, cfg.Store) {
		return nil, fmt.Errorf("invalid store %q: must be one of %v", cfg.Store, storeKinds)
	}
	if cfg.Store != StoreMemory && cfg.DSN == "" {
		return nil, fmt.Errorf("store %q requires a dsn", cfg.Store)
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if !slices.Contains(logLevels, cfg.LogLevel) {
		return nil, fmt.Errorf("invalid log-level %q: must be one of %v", cfg.LogLevel, logLevels)
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if !slices.Contains(logFormats, cfg.LogFormat) {
		return nil, fmt.Errorf("invalid log-format %q: must be one of %v", cfg.LogFormat, logFormats)
	}

	if cfg.Vars == nil {
		cfg.Vars = map[string]string{}
	}
	return &cfg, nil
}
