package migration

import (
	"fmt"
	"sync"
)

// Registry holds the executable content of migrations, keyed by version.
// Dynamic loading of discovered files is not a thing in a compiled binary,
// so each migration source file registers its unit from init(); the loader
// pairs files found on disk with the entries registered here.
type Registry struct {
	mu    sync.Mutex
	units map[string]any
}

// NewRegistry creates an empty registry. Tests use their own instances;
// migration source files normally register into Default().
func NewRegistry() *Registry {
	return &Registry{units: make(map[string]any)}
}

// Register adds the executable content for a version. It panics on a
// duplicate version: registration happens at program init, before any I/O,
// and a duplicate there is a programming error that must not be silently
// resolved by registration order.
func (r *Registry) Register(version string, candidate any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.units[version]; exists {
		panic(fmt.Sprintf("migration: version %s registered twice", version))
	}
	r.units[version] = candidate
}

// Lookup returns the registered candidate for a version, unvalidated.
func (r *Registry) Lookup(version string) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	candidate, ok := r.units[version]
	return candidate, ok
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry used by the CLI.
func Default() *Registry {
	return defaultRegistry
}

// Register adds a migration to the default registry.
func Register(version string, candidate any) {
	defaultRegistry.Register(version, candidate)
}
