package scope

import (
	"fmt"
	"sort"
	"sync"
)

// BackendFactory creates a new backend instance.
// Factories are registered via RegisterBackend and called by NewBackend.
type BackendFactory func() Backend

var (
	registryMu sync.RWMutex
	backends   = make(map[string]BackendFactory)
)

// RegisterBackend registers a backend factory with the given name.
// It is typically called from init() in a backend package, following the
// database/sql driver pattern:
//
//	func init() {
//	    scope.RegisterBackend("raster", func() scope.Backend { return New() })
//	}
//
// RegisterBackend panics if factory is nil or name is already registered.
func RegisterBackend(name string, factory BackendFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		panic("scope: RegisterBackend factory is nil")
	}
	if _, dup := backends[name]; dup {
		panic("scope: RegisterBackend called twice for " + name)
	}
	backends[name] = factory
}

// UnregisterBackend removes a backend from the registry.
// It is mainly useful in tests. Unknown names are ignored.
func UnregisterBackend(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// NewBackend creates a backend instance by name.
// The error wraps ErrInvalidConfig and hints at a missing import.
func NewBackend(name string) (Backend, error) {
	registryMu.RLock()
	factory, ok := backends[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: unknown backend %q (forgotten import?)", ErrInvalidConfig, name)
	}
	return factory(), nil
}

// Backends returns the sorted names of all registered backends.
func Backends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
