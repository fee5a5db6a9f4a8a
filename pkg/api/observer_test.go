package api

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

//
// Helpers
//

// testObserver is a simple Observer implementation used to verify fan-out behavior.
type testObserver struct {
	mu sync.Mutex

	published  int
	failed     int
	registered int

	lastFailName string
	lastFailErr  error
}

func (o *testObserver) OnPublished(ctx context.Context, def *Definition) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.published++
}

func (o *testObserver) OnPublishFailed(ctx context.Context, name string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failed++
	o.lastFailName = name
	o.lastFailErr = err
}

func (o *testObserver) OnRegistered(ctx context.Context, def *Definition) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.registered++
}

//
// CompositeObserver
//

func TestNewCompositeObserver_Collapses(t *testing.T) {
	if _, ok := NewCompositeObserver().(NoopObserver); !ok {
		t.Fatalf("expected NoopObserver for no observers")
	}
	if _, ok := NewCompositeObserver(nil, nil).(NoopObserver); !ok {
		t.Fatalf("expected NoopObserver for nil observers")
	}

	single := &testObserver{}
	if got := NewCompositeObserver(nil, single); got != Observer(single) {
		t.Fatalf("expected the single observer to be returned as is")
	}
}

func TestCompositeObserver_FansOut(t *testing.T) {
	a, b := &testObserver{}, &testObserver{}
	obs := NewCompositeObserver(a, nil, b)

	def, _, _ := buildDefinition(t)
	ctx := context.Background()
	boom := errors.New("boom")

	obs.OnPublished(ctx, def)
	obs.OnRegistered(ctx, def)
	obs.OnPublishFailed(ctx, "broken", boom)

	for i, o := range []*testObserver{a, b} {
		if o.published != 1 || o.registered != 1 || o.failed != 1 {
			t.Fatalf("observer %d: got published=%d registered=%d failed=%d", i, o.published, o.registered, o.failed)
		}
		if o.lastFailName != "broken" || !errors.Is(o.lastFailErr, boom) {
			t.Fatalf("observer %d: unexpected failure args %q %v", i, o.lastFailName, o.lastFailErr)
		}
	}
}

//
// LoggingObserver
//

func TestLoggingObserver_WritesEvents(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	obs := NewLoggingObserver(logger)

	def, _, _ := buildDefinition(t)
	ctx := context.Background()

	obs.OnPublished(ctx, def)
	obs.OnRegistered(ctx, def)
	obs.OnPublishFailed(ctx, "broken", errors.New("no start"))

	out := buf.String()
	for _, want := range []string{
		"definition_published",
		"definition=leave",
		"nodes=3",
		"definition_registered",
		"definition_publish_failed",
		`error="no start"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected log output to contain %q, got:\n%s", want, out)
		}
	}
	if strings.Contains(out, "definition_without_end") {
		t.Fatalf("unexpected missing-end warning for a definition with an End")
	}
}

func TestLoggingObserver_WarnsWithoutEnd(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLoggingObserver(slog.New(slog.NewTextHandler(&buf, nil)))

	start := NewStart()
	def := NewDefinition(DefinitionParams{
		Name:  "empty",
		Start: start,
		Nodes: []Node{start},
		IDs:   map[Node]string{start: "start-1"},
	})
	obs.OnPublished(context.Background(), def)

	if !strings.Contains(buf.String(), "definition_without_end") {
		t.Fatalf("expected missing-end warning, got:\n%s", buf.String())
	}
}

func TestNewLoggingObserver_DefaultsLogger(t *testing.T) {
	obs, ok := NewLoggingObserver(nil).(*LoggingObserver)
	if !ok || obs.Logger == nil {
		t.Fatalf("expected a LoggingObserver with a default logger")
	}
}

//
// BasicMetrics
//

func TestBasicMetrics(t *testing.T) {
	m := &BasicMetrics{}
	def, _, _ := buildDefinition(t)
	ctx := context.Background()

	if snap := m.Snapshot(); snap.AvgNodesPerPublish != 0 {
		t.Fatalf("expected zero average before any publish, got %v", snap.AvgNodesPerPublish)
	}

	m.OnPublished(ctx, def)
	m.OnPublished(ctx, def)
	m.OnRegistered(ctx, def)
	m.OnPublishFailed(ctx, "x", errors.New("x"))

	snap := m.Snapshot()
	if snap.Published != 2 || snap.Registered != 1 || snap.PublishFailed != 1 {
		t.Fatalf("unexpected counters: %+v", snap)
	}
	if snap.NodesPublished != 6 || snap.AvgNodesPerPublish != 3 {
		t.Fatalf("unexpected node counters: %+v", snap)
	}
}
