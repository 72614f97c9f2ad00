// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"log/slog"
	"sort"
	"sync"
)

// Options configures a driver when it opens a blit context.
type Options struct {
	// Logger receives driver diagnostics. Nil means silent.
	Logger *slog.Logger
}

// DriverFactory opens a blit context.
// Implementations should validate options and return descriptive errors.
type DriverFactory func(opts Options) (Blitter, error)

// RegistryEntry represents a registered blit driver.
type RegistryEntry struct {
	// Name is the unique identifier for this driver.
	Name string

	// Priority determines selection order (higher = preferred).
	// Hardware drivers use 100, emulated drivers 10.
	Priority int

	// Factory opens blit contexts.
	Factory DriverFactory

	// Available reports if the driver can be used on this system.
	Available func() bool
}

// globalRegistry is the default registry.
var globalRegistry = &Registry{}

// Registry manages registered blit drivers.
//
// Drivers register themselves from an init function so that the renderer
// can open them by name without importing them:
//
//	func init() {
//	    surface.Register("mem", 10, open, nil)
//	}
//
//	b, err := surface.OpenByName("mem", surface.Options{})
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*RegistryEntry
}

// NewRegistry creates a new empty registry.
// Most code should use the global registry via Register and Open.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*RegistryEntry),
	}
}

// Register adds a driver to the global registry.
//
// If available is nil, the driver is assumed always available.
// Registering a name that already exists replaces the previous entry.
func Register(name string, priority int, factory DriverFactory, available func() bool) {
	globalRegistry.Register(name, priority, factory, available)
}

// Unregister removes a driver from the global registry.
func Unregister(name string) {
	globalRegistry.Unregister(name)
}

// List returns all registered driver names sorted by priority (highest first).
func List() []string {
	return globalRegistry.List()
}

// Available returns names of all available drivers sorted by priority.
func Available() []string {
	return globalRegistry.Available()
}

// Get returns information about a specific driver.
func Get(name string) (*RegistryEntry, bool) {
	return globalRegistry.Get(name)
}

// Open opens a blit context on the best available driver.
func Open(opts Options) (Blitter, error) {
	return globalRegistry.Open(opts)
}

// OpenByName opens a blit context on a specific driver.
func OpenByName(name string, opts Options) (Blitter, error) {
	return globalRegistry.OpenByName(name, opts)
}

// Register adds a driver to this registry.
func (r *Registry) Register(name string, priority int, factory DriverFactory, available func() bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entries == nil {
		r.entries = make(map[string]*RegistryEntry)
	}

	if available == nil {
		available = func() bool { return true }
	}

	r.entries[name] = &RegistryEntry{
		Name:      name,
		Priority:  priority,
		Factory:   factory,
		Available: available,
	}
}

// Unregister removes a driver from this registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, name)
}

// List returns all registered driver names sorted by priority.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedNames(false)
}

// Available returns names of all available drivers sorted by priority.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedNames(true)
}

// Get returns information about a specific driver.
func (r *Registry) Get(name string) (*RegistryEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[name]
	if !ok {
		return nil, false
	}

	entryCopy := *entry
	return &entryCopy, true
}

// Open opens a blit context on the best available driver, falling back
// to lower priorities when a driver fails to open.
func (r *Registry) Open(opts Options) (Blitter, error) {
	r.mu.RLock()
	available := r.sortedNames(true)
	r.mu.RUnlock()

	if len(available) == 0 {
		return nil, ErrNoDriverAvailable
	}

	var lastErr error
	for _, name := range available {
		b, err := r.OpenByName(name, opts)
		if err == nil {
			return b, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// OpenByName opens a blit context on a specific driver.
func (r *Registry) OpenByName(name string, opts Options) (Blitter, error) {
	r.mu.RLock()
	entry, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &DriverNotFoundError{Name: name}
	}

	if !entry.Available() {
		return nil, &DriverUnavailableError{Name: name}
	}

	return entry.Factory(opts)
}

// sortedNames returns driver names sorted by priority (highest first).
// If onlyAvailable is true, filters to available drivers only.
// Must be called with lock held.
func (r *Registry) sortedNames(onlyAvailable bool) []string {
	if len(r.entries) == 0 {
		return nil
	}

	type entry struct {
		name     string
		priority int
	}

	entries := make([]entry, 0, len(r.entries))
	for name, e := range r.entries {
		if onlyAvailable && !e.Available() {
			continue
		}
		entries = append(entries, entry{name: name, priority: e.Priority})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].priority != entries[j].priority {
			return entries[i].priority > entries[j].priority
		}
		return entries[i].name < entries[j].name
	})

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}
	return names
}
