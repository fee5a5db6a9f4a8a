package flowgraph

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
)

var (
	// ErrDefinitionNotFound is returned when no definition is registered
	// under a name and version.
	ErrDefinitionNotFound = errors.New("flowgraph: definition not found")

	// ErrDefinitionExists is returned when a name and version is registered
	// twice.
	ErrDefinitionExists = errors.New("flowgraph: definition already registered")
)

// Registry holds published definitions by name and version, optionally
// persisting their snapshots.
type Registry struct {
	mu       sync.RWMutex
	byName   map[string]map[string]*Definition
	pending  map[versionKey]struct{}
	store    SnapshotStore
	observer Observer
}

type versionKey struct {
	name, version string
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithStore persists the snapshot of every registered definition.
func WithStore(store SnapshotStore) RegistryOption {
	return func(r *Registry) { r.store = store }
}

// WithObserver sets the observer notified by Publish and Register.
func WithObserver(obs Observer) RegistryOption {
	return func(r *Registry) {
		if obs != nil {
			r.observer = obs
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		byName:   make(map[string]map[string]*Definition),
		pending:  make(map[versionKey]struct{}),
		observer: NoopObserver{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Publish publishes the graph rooted at start and registers the result.
// The registry observer receives both the publish and register events.
//
// A name and version that is already taken is rejected before the graph is
// touched, so the nodes stay editable. If only persisting fails, the frozen
// definition is returned together with the error and can be passed to
// Register again.
func (r *Registry) Publish(ctx context.Context, name string, start *Start, opts ...PublishOption) (*Definition, error) {
	opts = append([]PublishOption{WithPublishObserver(r.observer), WithContext(ctx)}, opts...)
	key := versionKey{name: name, version: newPublishConfig(opts).version}

	if err := r.reserve(key); err != nil {
		r.observer.OnPublishFailed(ctx, name, err)
		return nil, err
	}

	def, err := Publish(name, start, opts...)
	if err != nil {
		r.release(key)
		return nil, err
	}
	if err := r.persist(ctx, key, def); err != nil {
		return def, err
	}
	return def, nil
}

// Register adds a published definition. A name and version can only be
// registered once. When a store is configured the snapshot is saved first
// and a store failure leaves the registry unchanged.
func (r *Registry) Register(ctx context.Context, def *Definition) error {
	if def == nil {
		return errors.New("flowgraph: nil definition")
	}
	key := versionKey{name: def.Name(), version: def.Version()}
	if err := r.reserve(key); err != nil {
		return err
	}
	return r.persist(ctx, key, def)
}

// reserve claims key so that concurrent registrations of the same name and
// version fail while the snapshot is being saved.
func (r *Registry) reserve(key versionKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, registered := r.byName[key.name][key.version]
	_, pending := r.pending[key]
	if registered || pending {
		return fmt.Errorf("%w: %q version %q", ErrDefinitionExists, key.name, key.version)
	}
	r.pending[key] = struct{}{}
	return nil
}

func (r *Registry) release(key versionKey) {
	r.mu.Lock()
	delete(r.pending, key)
	r.mu.Unlock()
}

// persist saves the snapshot without holding the lock, then commits or
// releases the reservation of key.
func (r *Registry) persist(ctx context.Context, key versionKey, def *Definition) error {
	if r.store != nil {
		if err := r.store.SaveSnapshot(ctx, def.Snapshot()); err != nil {
			r.release(key)
			return fmt.Errorf("flowgraph: persist %q version %q: %w", key.name, key.version, err)
		}
	}

	r.mu.Lock()
	delete(r.pending, key)
	versions := r.byName[key.name]
	if versions == nil {
		versions = make(map[string]*Definition)
		r.byName[key.name] = versions
	}
	versions[key.version] = def
	r.mu.Unlock()

	r.observer.OnRegistered(ctx, def)
	return nil
}

// Get returns the definition registered under name and version.
func (r *Registry) Get(name, version string) (*Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.byName[name][version]
	if !ok {
		return nil, fmt.Errorf("%w: %q version %q", ErrDefinitionNotFound, name, version)
	}
	return def, nil
}

// Latest returns the definition if exactly one version of name exists.
func (r *Registry) Latest(name string) (*Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	versions := r.byName[name]
	switch len(versions) {
	case 0:
		return nil, fmt.Errorf("%w: %q", ErrDefinitionNotFound, name)
	case 1:
		for _, def := range versions {
			return def, nil
		}
	}
	return nil, fmt.Errorf("flowgraph: %q has %d versions, pick one explicitly", name, len(versions))
}

// Versions returns the registered versions of name, sorted.
func (r *Registry) Versions(name string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	versions := r.byName[name]
	out := make([]string, 0, len(versions))
	for v := range versions {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// Names returns the names of all registered definitions, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.byName))
	for name, versions := range r.byName {
		if len(versions) > 0 {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}
