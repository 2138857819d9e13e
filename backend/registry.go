package backend

import (
	"fmt"
	"slices"
	"sync"
)

// Provider names.
const (
	// ProviderONNX is the onnxruntime provider in backend/onnx.
	ProviderONNX = "onnx"
	// ProviderWGPU is the enumeration-only Vulkan provider in backend/wgpu.
	ProviderWGPU = "wgpu"
)

// registry holds registered providers.
var (
	registryMu sync.RWMutex
	providers  = make(map[string]Provider)
	// Priority order for provider selection (first registered wins).
	// Providers that can run a network come before enumeration-only ones.
	providerPriority = []string{ProviderONNX, ProviderWGPU}
)

// Register registers a provider under its Name.
// This is typically called from init() functions in backend packages.
// If a provider with the same name is already registered, it is replaced.
func Register(p Provider) {
	if p == nil {
		panic("backend: Register provider is nil")
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	providers[p.Name()] = p
}

// Unregister removes a provider from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(providers, name)
}

// Available returns the sorted names of registered providers.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsRegistered checks if a provider with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := providers[name]
	return ok
}

// Get returns a provider by name.
// Returns nil if the provider is not registered.
func Get(name string) Provider {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return providers[name]
}

// Default returns the best registered provider based on priority.
// Providers outside the priority list are considered in name order.
// Returns nil if no providers are registered.
func Default() Provider {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, name := range providerPriority {
		if p, ok := providers[name]; ok {
			return p
		}
	}

	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil
	}
	slices.Sort(names)
	return providers[names[0]]
}

// Lookup returns the named provider, or Default when name is empty.
func Lookup(name string) (Provider, error) {
	if name == "" {
		if p := Default(); p != nil {
			return p, nil
		}
		return nil, ErrNotRegistered
	}
	if p := Get(name); p != nil {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrNotRegistered, name)
}
