package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
)

// ExitError carries the process exit code for a failure.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// varFlag collects repeated -var key=value flags.
type varFlag map[string]string

func (v varFlag) String() string {
	pairs := make([]string, 0, len(v))
	for k, val := range v {
		pairs = append(pairs, k+"="+val)
	}
	return strings.Join(pairs, ",")
}

func (v varFlag) Set(s string) error {
	key, value, ok := strings.Cut(s, "=")
	if !ok || key == "" {
		return fmt.Errorf("expected key=value, got %q", s)
	}
	v[key] = value
	return nil
}

// Parse processes command-line arguments. Flag defaults come from
// getenv (usually os.Getenv). It returns the Config, whether the program
// should exit cleanly (help was printed), or an ExitError with code 2.
func Parse(args []string, output io.Writer, getenv func(string) string) (*Config, bool, error) {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}

	flagSet := flag.NewFlagSet("flowgraph", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, `
flowgraph - publish and inspect HCL process definitions.

Usage:
  flowgraph [options] FILE|DIR...

Arguments:
  FILE|DIR
    A .hcl flow file or a directory searched for .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	vars := varFlag{}
	printFlag := flagSet.Bool("print", false, "Print the edge listing of every published definition.")
	storeFlag := flagSet.String("store", getenv(EnvStore), "Snapshot store: memory, sqlite, postgres or redis. Env: "+EnvStore+".")
	dsnFlag := flagSet.String("dsn", getenv(EnvDSN), "Store connection string. Env: "+EnvDSN+".")
	listenFlag := flagSet.String("listen", getenv(EnvListen), "Serve the HTTP API on this address, e.g. :8080. Env: "+EnvListen+".")
	logLevelFlag := flagSet.String("log-level", getenv(EnvLogLevel), "Logging level: debug, info, warn or error. Env: "+EnvLogLevel+".")
	logFormatFlag := flagSet.String("log-format", getenv(EnvLogFormat), "Log output format: text or json. Env: "+EnvLogFormat+".")
	flagSet.Var(vars, "var", "Set a flow variable as key=value. Repeatable.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if flagSet.NArg() == 0 {
		flagSet.Usage()
		return nil, false, &ExitError{Code: 2, Message: "no flow files given"}
	}

	cfg, err := NewConfig(Config{
		Paths:     flagSet.Args(),
		Print:     *printFlag,
		Store:     strings.ToLower(*storeFlag),
		DSN:       *dsnFlag,
		Listen:    *listenFlag,
		Vars:      vars,
		LogLevel:  strings.ToLower(*logLevelFlag),
		LogFormat: strings.ToLower(*logFormatFlag),
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	return cfg, false, nil
}
