package api

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// Observer receives callbacks when definitions are published and
// registered, for logging and metrics.
//
// Implementations should be fast and non-blocking.
type Observer interface {
	// OnPublished is called once a definition passed validation and was
	// frozen.
	OnPublished(ctx context.Context, def *Definition)

	// OnPublishFailed is called when Publish rejects a definition. err may
	// join several validation errors.
	OnPublishFailed(ctx context.Context, name string, err error)

	// OnRegistered is called after a definition was added to a registry and,
	// if configured, persisted.
	OnRegistered(ctx context.Context, def *Definition)
}

// NoopObserver is an Observer that does nothing.
// It is used as the default when no observer is configured.
type NoopObserver struct{}

func (NoopObserver) OnPublished(ctx context.Context, def *Definition)            {}
func (NoopObserver) OnPublishFailed(ctx context.Context, name string, err error) {}
func (NoopObserver) OnRegistered(ctx context.Context, def *Definition)           {}

// CompositeObserver fans out events to multiple observers.
type CompositeObserver struct {
	observers []Observer
}

// NewCompositeObserver creates an Observer that forwards events to each
// non-nil observer in obs.
func NewCompositeObserver(obs ...Observer) Observer {
	filtered := make([]Observer, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			filtered = append(filtered, o)
		}
	}
	if len(filtered) == 0 {
		return NoopObserver{}
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &CompositeObserver{observers: filtered}
}

func (c *CompositeObserver) OnPublished(ctx context.Context, def *Definition) {
	for _, o := range c.observers {
		o.OnPublished(ctx, def)
	}
}

func (c *CompositeObserver) OnPublishFailed(ctx context.Context, name string, err error) {
	for _, o := range c.observers {
		o.OnPublishFailed(ctx, name, err)
	}
}

func (c *CompositeObserver) OnRegistered(ctx context.Context, def *Definition) {
	for _, o := range c.observers {
		o.OnRegistered(ctx, def)
	}
}

// LoggingObserver writes structured logs using log/slog.
type LoggingObserver struct {
	Logger *slog.Logger
}

// NewLoggingObserver creates an Observer that logs publish lifecycle events
// using the provided slog.Logger. If logger is nil, slog.Default() is used.
func NewLoggingObserver(logger *slog.Logger) Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{Logger: logger}
}

func (o *LoggingObserver) OnPublished(ctx context.Context, def *Definition) {
	o.Logger.InfoContext(ctx, "definition_published",
		slog.String("definition", def.Name()),
		slog.String("version", def.Version()),
		slog.String("definition_id", def.ID()),
		slog.Int("nodes", len(def.nodes)),
		slog.String("fingerprint", def.Fingerprint()),
	)
	if len(def.Ends()) == 0 {
		o.Logger.WarnContext(ctx, "definition_without_end",
			slog.String("definition", def.Name()),
			slog.String("version", def.Version()),
		)
	}
}

func (o *LoggingObserver) OnPublishFailed(ctx context.Context, name string, err error) {
	o.Logger.ErrorContext(ctx, "definition_publish_failed",
		slog.String("definition", name),
		slog.Any("error", err),
	)
}

func (o *LoggingObserver) OnRegistered(ctx context.Context, def *Definition) {
	o.Logger.DebugContext(ctx, "definition_registered",
		slog.String("definition", def.Name()),
		slog.String("version", def.Version()),
		slog.String("definition_id", def.ID()),
	)
}

// BasicMetrics collects simple publish counters.
// It implements Observer, and can be combined with LoggingObserver via
// NewCompositeObserver.
type BasicMetrics struct {
	NoopObserver

	published      atomic.Int64
	publishFailed  atomic.Int64
	registered     atomic.Int64
	nodesPublished atomic.Int64
}

// BasicMetricsSnapshot is an immutable snapshot of BasicMetrics.
type BasicMetricsSnapshot struct {
	Published     int64
	PublishFailed int64
	Registered    int64

	NodesPublished     int64
	AvgNodesPerPublish float64
}

func (m *BasicMetrics) OnPublished(ctx context.Context, def *Definition) {
	m.published.Add(1)
	m.nodesPublished.Add(int64(len(def.nodes)))
}

func (m *BasicMetrics) OnPublishFailed(ctx context.Context, name string, err error) {
	m.publishFailed.Add(1)
}

func (m *BasicMetrics) OnRegistered(ctx context.Context, def *Definition) {
	m.registered.Add(1)
}

// Snapshot returns a snapshot of the current metrics.
func (m *BasicMetrics) Snapshot() BasicMetricsSnapshot {
	published := m.published.Load()
	nodes := m.nodesPublished.Load()

	var avg float64
	if published > 0 {
		avg = float64(nodes) / float64(published)
	}

	return BasicMetricsSnapshot{
		Published:          published,
		PublishFailed:      m.publishFailed.Load(),
		Registered:         m.registered.Load(),
		NodesPublished:     nodes,
		AvgNodesPerPublish: avg,
	}
}
