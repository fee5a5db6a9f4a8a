package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/petrijr/flowgraph"
	"github.com/petrijr/flowgraph/internal/httpapi"
	"github.com/petrijr/flowgraph/pkg/api"
	"github.com/petrijr/flowgraph/pkg/hclflow"
)

// Run loads, publishes and registers every flow of cfg. Validation
// failures of flow files or graphs produce an ExitError with code 1 after
// everything valid was registered. With cfg.Listen set, Run then serves the
// HTTP API until ctx is canceled.
func Run(ctx context.Context, cfg *Config, outW io.Writer, logger *slog.Logger) error {
	vars := make(map[string]cty.Value, len(cfg.Vars))
	for k, v := range cfg.Vars {
		vars[k] = cty.StringVal(v)
	}

	loader := hclflow.NewLoader(hclflow.Symbolic(),
		hclflow.WithVariables(vars),
		hclflow.WithLogger(logger),
	)
	flows, err := loader.Load(ctx, cfg.Paths...)
	if err != nil {
		var diags hcl.Diagnostics
		if errors.As(err, &diags) {
			wr := hcl.NewDiagnosticTextWriter(outW, loader.Files(), 78, false)
			_ = wr.WriteDiagnostics(diags)
			return &ExitError{Code: 1, Message: fmt.Sprintf("%d problem(s) in flow files", len(diags.Errs()))}
		}
		return err
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	metrics := &flowgraph.BasicMetrics{}
	reg := flowgraph.NewRegistry(
		flowgraph.WithStore(store),
		flowgraph.WithObserver(flowgraph.NewCompositeObserver(
			flowgraph.NewLoggingObserver(logger),
			metrics,
		)),
	)

	defs, regErr := hclflow.RegisterAll(ctx, reg, flows)
	if cfg.Print {
		for _, def := range defs {
			printDefinition(outW, def)
		}
	}

	m := metrics.Snapshot()
	logger.Info("publish finished",
		slog.Int64("published", m.Published),
		slog.Int64("failed", m.PublishFailed),
		slog.Int64("registered", m.Registered),
		slog.String("store", cfg.Store),
	)

	if regErr != nil {
		fmt.Fprintln(outW, regErr)
		return &ExitError{Code: 1, Message: fmt.Sprintf("%d flow(s) failed to publish", len(flows)-len(defs))}
	}

	if cfg.Listen == "" {
		return nil
	}
	return serve(ctx, httpapi.New(store, logger), cfg.Listen)
}

const shutdownTimeout = 5 * time.Second

func serve(ctx context.Context, srv *httpapi.Server, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func printDefinition(w io.Writer, def *api.Definition) {
	fmt.Fprintf(w, "%s %s (%s)\n", def.Name(), def.Version(), def.Fingerprint()[:12])
	for _, e := range def.Edges() {
		fmt.Fprintf(w, "  %s\n", e.String())
	}
	if cycle := def.Cycle(); cycle != nil {
		fmt.Fprintf(w, "  cycle: %v\n", cycle)
	}
}
