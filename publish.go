package flowgraph

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/petrijr/flowgraph/internal/graph"
	"github.com/petrijr/flowgraph/pkg/api"
)

// DefaultVersion is used when Publish is called without WithVersion.
const DefaultVersion = "v1"

type publishConfig struct {
	version    string
	declared   []Node
	requireEnd bool
	observer   Observer
	ctx        context.Context
	now        func() time.Time
}

// PublishOption configures Publish.
type PublishOption func(*publishConfig)

// WithVersion sets the definition version. The default is DefaultVersion.
func WithVersion(version string) PublishOption {
	return func(c *publishConfig) { c.version = version }
}

// WithDeclaredNodes lists every node the author created so that nodes not
// reachable from the start are reported as UnreachableNodeError.
func WithDeclaredNodes(nodes ...Node) PublishOption {
	return func(c *publishConfig) { c.declared = append(c.declared, nodes...) }
}

// RequireEnd makes a definition without a reachable End fail to publish.
// Without it a missing End is only reported through the observer.
func RequireEnd() PublishOption {
	return func(c *publishConfig) { c.requireEnd = true }
}

// WithPublishObserver reports the publish outcome to obs.
func WithPublishObserver(obs Observer) PublishOption {
	return func(c *publishConfig) { c.observer = obs }
}

// WithContext sets the context handed to the observer.
func WithContext(ctx context.Context) PublishOption {
	return func(c *publishConfig) { c.ctx = ctx }
}

func newPublishConfig(opts []PublishOption) publishConfig {
	cfg := publishConfig{
		version:  DefaultVersion,
		observer: NoopObserver{},
		ctx:      context.Background(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.observer == nil {
		cfg.observer = NoopObserver{}
	}
	return cfg
}

// Publish closes the authoring phase of the graph rooted at start.
//
// It indexes every reachable node, validates the structure, attaches
// incoming edges and freezes the nodes. Structural problems are all reported
// at once, joined into the returned error:
//
//	def, err := flowgraph.Publish("leave-request", start)
//	if errors.Is(err, flowgraph.ErrIncompleteBranch) { ... }
//
// Cycles are allowed.
func Publish(name string, start *Start, opts ...PublishOption) (*Definition, error) {
	cfg := newPublishConfig(opts)

	if name == "" {
		cfg.observer.OnPublishFailed(cfg.ctx, name, ErrEmptyName)
		return nil, ErrEmptyName
	}

	idx, err := graph.Build(start, graph.Options{
		Declared:   cfg.declared,
		RequireEnd: cfg.requireEnd,
	})
	if err != nil {
		cfg.observer.OnPublishFailed(cfg.ctx, name, err)
		return nil, err
	}

	idx.Attach()

	def := api.NewDefinition(api.DefinitionParams{
		ID:          uuid.NewString(),
		Name:        name,
		Version:     cfg.version,
		PublishedAt: cfg.now().UTC(),
		Start:       idx.Start,
		Nodes:       idx.Nodes,
		IDs:         idx.IDs,
		Cycle:       graph.FindCycle(idx.Nodes),
	})
	cfg.observer.OnPublished(cfg.ctx, def)
	return def, nil
}

// MustPublish is like Publish but panics on error.
// Useful for package-level definitions.
func MustPublish(name string, start *Start, opts ...PublishOption) *Definition {
	def, err := Publish(name, start, opts...)
	if err != nil {
		panic(err)
	}
	return def
}
