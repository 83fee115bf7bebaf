package filter

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]func(*slog.Logger) Filter)
)

// Register adds a filter factory to the registry.
// Called by filter implementations in their init() functions.
func Register(name string, factory func(*slog.Logger) Filter) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// Get retrieves a filter factory by name.
func Get(name string) (func(*slog.Logger) Filter, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[name]
	return f, ok
}

// New creates the named filter.
// The logger parameter is passed to the filter constructor (nil uses discard logger).
func New(name string, logger *slog.Logger) (Filter, error) {
	if name == "" {
		return nil, fmt.Errorf("filter name not specified")
	}
	factory, ok := Get(name)
	if !ok {
		return nil, &UnknownFilterError{Name: name, Available: List()}
	}
	return factory(logger), nil
}

// List returns all registered filter names (sorted).
func List() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnknownFilterError is returned when an unknown filter is requested.
type UnknownFilterError struct {
	Name      string
	Available []string
}

func (e *UnknownFilterError) Error() string {
	return fmt.Sprintf("unknown output filter %q\nAvailable filters: %v\nHint: Check the filter setting in morkxml.yaml or --filter", e.Name, e.Available)
}
