package providerfactory

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"meridian-hq/hermes/pkg/providers"
)

// Manager owns the live set of provider instances.
// It supports atomic whole-map replacement so provider descriptors can be
// hot-reloaded without in-flight requests ever observing a half-updated
// set.
//
// Manager is thread-safe and can be used concurrently.
type Manager struct {
	mu        sync.RWMutex
	providers map[string]providers.Provider
}

// NewManager creates an empty provider manager.
func NewManager() *Manager {
	return &Manager{
		providers: make(map[string]providers.Provider),
	}
}

// Load builds providers from the given configurations and atomically
// replaces the current set. Previously loaded providers are closed after
// the swap. Configurations that fail to build are skipped and collected
// into the returned error; the swap still happens with the rest.
func (m *Manager) Load(configs []providers.Config) error {
	next := make(map[string]providers.Provider, len(configs))
	var errs []error

	for _, config := range configs {
		if _, ok := next[config.Name]; ok {
			errs = append(errs, fmt.Errorf("duplicate provider name %q", config.Name))
			continue
		}

		provider, err := NewProvider(config)
		if err != nil {
			errs = append(errs, err)
			slog.Error("failed to load provider",
				"name", config.Name,
				"error", err,
			)
			continue
		}
		next[config.Name] = provider
	}

	m.mu.Lock()
	old := m.providers
	m.providers = next
	m.mu.Unlock()

	for name, provider := range old {
		if err := provider.Close(); err != nil {
			slog.Error("error closing provider", "name", name, "error", err)
		}
	}

	slog.Info("provider set loaded",
		"count", len(next),
		"failed", len(errs),
	)

	if len(errs) > 0 {
		return fmt.Errorf("failed to load %d provider(s): %v", len(errs), errs)
	}
	return nil
}

// Get returns a provider by name.
func (m *Manager) Get(name string) (providers.Provider, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	provider, ok := m.providers[name]
	return provider, ok
}

// All returns a copy of the current provider map, safe to iterate without
// holding any lock.
func (m *Manager) All() map[string]providers.Provider {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]providers.Provider, len(m.providers))
	for name, provider := range m.providers {
		out[name] = provider
	}
	return out
}

// Names returns the sorted list of loaded provider names.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.providers))
	for name := range m.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of loaded providers.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.providers)
}

// Close closes all providers and empties the set.
func (m *Manager) Close() error {
	m.mu.Lock()
	old := m.providers
	m.providers = make(map[string]providers.Provider)
	m.mu.Unlock()

	var errs []error
	for name, provider := range old {
		if err := provider.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close provider %q: %w", name, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing providers: %v", errs)
	}

	slog.Info("provider manager closed")
	return nil
}
