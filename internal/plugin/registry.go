package plugin

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

var (
	// ErrDuplicateKind is returned when a factory is registered twice.
	ErrDuplicateKind = errors.New("factory already registered")
	// ErrUnknownKind is returned for a manifest whose kind has no factory.
	ErrUnknownKind = errors.New("no factory for plugin kind")
)

// Factory builds one instance from its manifest.
type Factory[T any] func(m Manifest) (T, error)

// Registry maps manifest kinds to factories for one capability.
type Registry[T any] struct {
	capability string

	mu        sync.RWMutex
	factories map[string]Factory[T]
}

// NewRegistry returns an empty registry for capability.
func NewRegistry[T any](capability string) *Registry[T] {
	return &Registry[T]{capability: capability, factories: map[string]Factory[T]{}}
}

// Capability returns the capability manifests must declare.
func (r *Registry[T]) Capability() string { return r.capability }

// Register adds a factory for kind.
func (r *Registry[T]) Register(kind string, f Factory[T]) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[kind]; ok {
		return fmt.Errorf("register %s/%s: %w", r.capability, kind, ErrDuplicateKind)
	}
	r.factories[kind] = f
	return nil
}

// Kinds returns the registered kinds sorted.
func (r *Registry[T]) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.factories))
	for k := range r.factories {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

func (r *Registry[T]) build(m Manifest) (T, error) {
	r.mu.RLock()
	f, ok := r.factories[m.Kind]
	r.mu.RUnlock()
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s: %w %q", m.Path, ErrUnknownKind, m.Kind)
	}
	return f(m)
}
