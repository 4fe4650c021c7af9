// Package registry manages compiled record schemas: registration with
// duplicate detection, lookup by name, and hot reload of a manifest
// directory.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/firepack/firepack/core/record"
)

// Registry holds compiled schemas by name. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]*record.Schema
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{schemas: make(map[string]*record.Schema)}
}

// Register adds a schema. Registering a name twice is an error.
func (r *Registry) Register(s *record.Schema) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.schemas[s.Name()]; exists {
		return fmt.Errorf("schema %q already registered", s.Name())
	}
	r.schemas[s.Name()] = s
	return nil
}

// Get looks up a schema by name.
func (r *Registry) Get(name string) (*record.Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[name]
	return s, ok
}

// Names returns the registered schema names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered schemas.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.schemas)
}

// Replace swaps the whole schema set atomically. Used by the hot-reload
// holder so readers never observe a partially loaded set.
func (r *Registry) Replace(schemas map[string]*record.Schema) {
	next := make(map[string]*record.Schema, len(schemas))
	for name, s := range schemas {
		next[name] = s
	}
	r.mu.Lock()
	r.schemas = next
	r.mu.Unlock()
}
