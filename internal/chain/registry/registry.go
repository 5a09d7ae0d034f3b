// Package registry is the process-wide adapter registry (spec.md §1 "a
// polymorphic blockchain adapter registry"). Grounded on the teacher's
// internal/arbitrage/registry.go and internal/strategy/registry.go, which
// both hold the same mutex-guarded name-to-implementation map with
// Register/Get/List.
package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/nocdem/dna-messenger/walletcore/internal/domain"
)

// Registry holds named chain adapters for lookup by chain name. Adapters are
// registered by the caller that builds the registry (the app wiring layer)
// and are never removed.
type Registry struct {
	adapters map[string]domain.Adapter
	mu       sync.RWMutex
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]domain.Adapter)}
}

// Register adds an adapter under its own Name(). Calling Register twice
// with the same name replaces the previous entry.
func (r *Registry) Register(a domain.Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[a.Name()] = a
}

// Get returns the adapter registered under name, or ErrNotFound.
func (r *Registry) Get(name string) (domain.Adapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.adapters[name]
	if !ok {
		return nil, fmt.Errorf("%w: chain adapter %q", domain.ErrNotFound, name)
	}
	return a, nil
}

// List returns all registered chain names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.adapters))
	for n := range r.adapters {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// PingAll calls Init on every registered adapter concurrently, returning the
// first error encountered (if any). Adapter.Init is documented as idempotent
// and safe to call repeatedly, so this doubles as a liveness check a caller
// can run against an already-initialized registry without side effects.
func (r *Registry) PingAll(ctx context.Context) error {
	r.mu.RLock()
	adapters := make([]domain.Adapter, 0, len(r.adapters))
	for _, a := range r.adapters {
		adapters = append(adapters, a)
	}
	r.mu.RUnlock()

	g, gctx := errgroup.WithContext(ctx)
	for _, a := range adapters {
		a := a
		g.Go(func() error {
			return a.Init(gctx)
		})
	}
	return g.Wait()
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide default registry. No chain package
// registers itself into it; it holds only what callers add via Register.
func Default() *Registry {
	return defaultRegistry
}

// Register is a convenience wrapper registering a onto the default registry.
func Register(a domain.Adapter) {
	defaultRegistry.Register(a)
}
