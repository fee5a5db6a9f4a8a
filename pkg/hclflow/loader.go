package hclflow

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// FileExtension is the extension Load looks for in directories.
const FileExtension = ".hcl"

// Loader parses flow files into node graphs. A Loader keeps every parsed
// file so diagnostics can be rendered with source snippets; it is not safe
// for concurrent use.
type Loader struct {
	bindings Bindings
	vars     map[string]cty.Value
	logger   *slog.Logger
	parser   *hclparse.Parser
	seen     map[string]hcl.Range
}

// Option configures a Loader.
type Option func(*Loader)

// WithVariables makes vars available to flow files as var.<name>.
func WithVariables(vars map[string]cty.Value) Option {
	return func(l *Loader) {
		for k, v := range vars {
			l.vars[k] = v
		}
	}
}

// WithLogger sets the logger used for load progress. Defaults to
// slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader creates a Loader resolving callback names through b.
func NewLoader(b Bindings, opts ...Option) *Loader {
	l := &Loader{
		bindings: b,
		vars:     make(map[string]cty.Value),
		logger:   slog.Default(),
		parser:   hclparse.NewParser(),
		seen:     make(map[string]hcl.Range),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Files returns the parsed files by name, for use with
// hcl.NewDiagnosticTextWriter.
func (l *Loader) Files() map[string]*hcl.File {
	return l.parser.Files()
}

// Load reads every path, descending into directories for files ending in
// FileExtension, and returns the flows in file order. Flow names must be
// unique across everything a Loader has loaded.
func (l *Loader) Load(ctx context.Context, paths ...string) ([]*Flow, error) {
	files, err := findFiles(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		l.logger.WarnContext(ctx, "no flow files found", "paths", paths)
		return nil, nil
	}

	var flows []*Flow
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		l.logger.DebugContext(ctx, "loading flow file", "path", file)

		hclFile, diags := l.parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("hclflow: parse %s: %w", file, diags)
		}
		fileFlows, err := l.decode(ctx, file, hclFile)
		if err != nil {
			return nil, err
		}
		flows = append(flows, fileFlows...)
	}
	return flows, nil
}

// Parse decodes flows from src. filename is used in diagnostics.
func (l *Loader) Parse(ctx context.Context, filename string, src []byte) ([]*Flow, error) {
	hclFile, diags := l.parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("hclflow: parse %s: %w", filename, diags)
	}
	return l.decode(ctx, filename, hclFile)
}

func (l *Loader) decode(ctx context.Context, filename string, file *hcl.File) ([]*Flow, error) {
	evalCtx := l.evalContext()

	var parsed fileSchema
	diags := gohcl.DecodeBody(file.Body, evalCtx, &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("hclflow: decode %s: %w", filename, diags)
	}

	// Names are only remembered once the whole file loaded, so a fixed file
	// can be loaded again after a failure.
	defined := make(map[string]hcl.Range, len(parsed.Flows))
	flows := make([]*Flow, 0, len(parsed.Flows))
	for _, fb := range parsed.Flows {
		prev, dup := l.seen[fb.Name]
		if !dup {
			prev, dup = defined[fb.Name]
		}
		if dup {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate flow",
				Detail:   fmt.Sprintf("A flow named %q was already defined at %s.", fb.Name, prev),
				Subject:  bodyRange(fb.Body),
			})
			continue
		}
		defined[fb.Name] = *bodyRange(fb.Body)

		flow, flowDiags := buildFlow(fb, evalCtx, l.bindings)
		diags = append(diags, flowDiags...)
		if flowDiags.HasErrors() {
			continue
		}
		l.logger.DebugContext(ctx, "flow loaded",
			slog.String("flow", flow.Name),
			slog.String("version", flow.Version),
			slog.Int("nodes", len(flow.Nodes)),
			slog.String("path", filename),
		)
		flows = append(flows, flow)
	}
	if diags.HasErrors() {
		return nil, fmt.Errorf("hclflow: %s: %w", filename, diags)
	}
	maps.Copy(l.seen, defined)
	return flows, nil
}

func (l *Loader) evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"var": cty.ObjectVal(l.vars),
		},
		Functions: map[string]function.Function{
			"concat": stdlib.ConcatFunc,
			"format": stdlib.FormatFunc,
			"join":   stdlib.JoinFunc,
			"lower":  stdlib.LowerFunc,
			"upper":  stdlib.UpperFunc,
		},
	}
}

// findFiles expands directories into the flow files they contain.
func findFiles(paths []string) ([]string, error) {
	var files []string
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("hclflow: %w", err)
		}
		if !info.IsDir() {
			files = append(files, root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(d.Name(), FileExtension) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("hclflow: find flow files in %s: %w", root, err)
		}
	}
	return files, nil
}
