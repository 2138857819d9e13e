package upscale

import (
	"sync"
	"sync/atomic"

	"github.com/gogpu/upscale/backend"
	"github.com/gogpu/upscale/envconfig"
)

// ContextManager owns the process-wide GPU backend instance and shares it
// between filters by reference count.
//
// The instance is opened when the count goes from 0 to 1 and closed when it
// returns to 0. Transitions away from and back to zero are serialized by a
// mutex, so Acquire never returns before a pending open or close has
// finished. Other increments and decrements are lock-free.
type ContextManager struct {
	// provider is fixed at construction; nil means the registry default,
	// looked up on every 0→1 transition.
	provider backend.Provider

	refs atomic.Int64

	mu   sync.Mutex
	inst atomic.Pointer[openInstance]

	inits     atomic.Int64
	teardowns atomic.Int64
}

type openInstance struct {
	provider backend.Provider
	backend.Instance
}

// NewContextManager creates a manager for provider. A nil provider selects
// the registered provider named by UPSCALE_BACKEND, or the registry default.
func NewContextManager(provider backend.Provider) *ContextManager {
	return &ContextManager{provider: provider}
}

var defaultManager = sync.OnceValue(func() *ContextManager {
	return NewContextManager(nil)
})

// DefaultContextManager returns the manager shared by filters created
// without WithContextManager.
func DefaultContextManager() *ContextManager {
	return defaultManager()
}

// Acquire takes a reference to the GPU instance, creating it if this is the
// first reference. Every successful Acquire must be paired with one Release.
func (m *ContextManager) Acquire() (backend.Instance, error) {
	for {
		n := m.refs.Load()
		if n <= 0 {
			break
		}
		if m.refs.CompareAndSwap(n, n+1) {
			return m.inst.Load().Instance, nil
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Releases can only reach zero under mu, so a positive count here is stable.
	if m.refs.Load() > 0 {
		m.refs.Add(1)
		return m.inst.Load().Instance, nil
	}

	p := m.provider
	if p == nil {
		var err error
		if p, err = backend.Lookup(envconfig.Backend()); err != nil {
			return nil, &InitError{Op: "failed to create GPU instance", Err: err}
		}
	}
	inst, err := p.Open()
	if err != nil {
		return nil, &InitError{Op: "failed to create GPU instance", Err: err}
	}
	if inst == nil {
		return nil, &InitError{Op: "failed to create GPU instance", Err: backend.ErrNoDevice}
	}

	m.inst.Store(&openInstance{provider: p, Instance: inst})
	m.inits.Add(1)
	m.refs.Store(1)
	Logger().Info("upscale: GPU context created", "provider", p.Name(), "devices", len(inst.Devices()))
	return inst, nil
}

// Release drops a reference taken by Acquire. Dropping the last reference
// closes the GPU instance. An unmatched Release is logged and ignored.
func (m *ContextManager) Release() {
	for {
		n := m.refs.Load()
		if n <= 1 {
			break
		}
		if m.refs.CompareAndSwap(n, n-1) {
			return
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for {
		n := m.refs.Load()
		if n <= 0 {
			Logger().Warn("upscale: GPU context released more times than acquired")
			return
		}
		if n > 1 {
			// Another Acquire got in while we waited for mu.
			if m.refs.CompareAndSwap(n, n-1) {
				return
			}
			continue
		}
		if m.refs.CompareAndSwap(1, 0) {
			break
		}
	}

	open := m.inst.Swap(nil)
	m.teardowns.Add(1)
	if err := open.Close(); err != nil {
		Logger().Warn("upscale: GPU context teardown failed", "provider", open.provider.Name(), "err", err)
		return
	}
	Logger().Info("upscale: GPU context destroyed", "provider", open.provider.Name())
}

// Provider returns the provider of the open instance, or the configured
// provider when no instance is open. It may be nil.
func (m *ContextManager) Provider() backend.Provider {
	if open := m.inst.Load(); open != nil {
		return open.provider
	}
	return m.provider
}

// Refs returns the current reference count.
func (m *ContextManager) Refs() int64 {
	return m.refs.Load()
}

// Inits returns how many times the GPU instance has been created.
func (m *ContextManager) Inits() int64 {
	return m.inits.Load()
}

// Teardowns returns how many times the GPU instance has been closed.
func (m *ContextManager) Teardowns() int64 {
	return m.teardowns.Load()
}
