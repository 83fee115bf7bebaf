package source

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Factory creates a source from its configuration.
// A nil logger means logging is discarded.
type Factory func(ctx context.Context, cfg Config, logger *slog.Logger) (Source, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register adds a source factory to the registry.
// Called by source implementations in their init() functions.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// Get retrieves a source factory by name.
func Get(name string) (Factory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[name]
	return f, ok
}

// List returns all registered source names (sorted).
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

// UnknownSourceError is returned when no source matches the configuration.
type UnknownSourceError struct {
	Type      string
	Location  string
	Available []string
}

func (e *UnknownSourceError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("cannot detect source type for %q\nAvailable sources: %v\nHint: Pass --source to choose one", e.Location, e.Available)
	}
	return fmt.Sprintf("unknown source type %q\nAvailable sources: %v\nHint: Check source.type in morkxml.yaml or --source", e.Type, e.Available)
}
