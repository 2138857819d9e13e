// Package backendtest provides an in-memory backend.Provider for tests.
//
// The provider scripts its device list and counts every Open, Close, NewNet
// and Forward so tests can assert on lifecycle behaviour without a GPU. Its
// Net performs nearest-neighbour magnification of the unpadded tile, which
// makes tiled output directly comparable with a whole-frame reference.
package backendtest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/upscale/backend"
)

// ErrInjected is returned by scripted failures.
var ErrInjected = errors.New("backendtest: injected failure")

// Provider is a scriptable backend.Provider.
type Provider struct {
	// ProviderName defaults to "test".
	ProviderName string

	// DeviceList is returned by Instance.Devices. Index fields are filled in.
	DeviceList []backend.DeviceInfo

	// Default is the default device index. Ignored when DeviceList is empty.
	Default int

	// ModelFormat defaults to backend.NCNNFormat.
	ModelFormat *backend.ModelFormat

	// OpenErr makes Open fail.
	OpenErr error

	// NetErr makes NewNet fail.
	NetErr error

	// FailForwardAt makes the n-th Forward call (1-based) fail. Zero disables.
	FailForwardAt int64

	// OnOpen is called inside Open before the instance is returned.
	OnOpen func()

	// OnForward is called at the start of every Forward and may block.
	OnForward func()

	opens    atomic.Int64
	closes   atomic.Int64
	nets     atomic.Int64
	netClose atomic.Int64
	forwards atomic.Int64

	mu       sync.Mutex
	lastOpts backend.NetOptions
}

// New returns a provider with n discrete devices, each accepting queues
// concurrent submissions.
func New(n, queues int) *Provider {
	p := &Provider{}
	for i := range n {
		p.DeviceList = append(p.DeviceList, backend.DeviceInfo{
			Name:          fmt.Sprintf("Test GPU %d", i),
			Type:          backend.DeviceDiscrete,
			ComputeQueues: queues,
		})
	}
	return p
}

func (p *Provider) Name() string {
	if p.ProviderName == "" {
		return "test"
	}
	return p.ProviderName
}

func (p *Provider) Format() backend.ModelFormat {
	if p.ModelFormat != nil {
		return *p.ModelFormat
	}
	return backend.NCNNFormat
}

func (p *Provider) Open() (backend.Instance, error) {
	if p.OnOpen != nil {
		p.OnOpen()
	}
	if p.OpenErr != nil {
		return nil, p.OpenErr
	}
	p.opens.Add(1)
	return &instance{p: p}, nil
}

// Opens returns the number of successful Open calls.
func (p *Provider) Opens() int64 { return p.opens.Load() }

// Closes returns the number of Instance.Close calls.
func (p *Provider) Closes() int64 { return p.closes.Load() }

// Live returns Opens minus Closes.
func (p *Provider) Live() int64 { return p.opens.Load() - p.closes.Load() }

// NetsCreated returns the number of successful NewNet calls.
func (p *Provider) NetsCreated() int64 { return p.nets.Load() }

// NetsClosed returns the number of Net.Close calls.
func (p *Provider) NetsClosed() int64 { return p.netClose.Load() }

// Forwards returns the number of Forward calls, failed ones included.
func (p *Provider) Forwards() int64 { return p.forwards.Load() }

// LastNetOptions returns the options of the most recent NewNet call.
func (p *Provider) LastNetOptions() backend.NetOptions {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastOpts
}

type instance struct {
	p      *Provider
	closed atomic.Bool
}

func (i *instance) Devices() []backend.DeviceInfo {
	out := make([]backend.DeviceInfo, len(i.p.DeviceList))
	for n, d := range i.p.DeviceList {
		d.Index = n
		out[n] = d
	}
	return out
}

func (i *instance) DefaultDevice() int {
	if len(i.p.DeviceList) == 0 {
		return -1
	}
	return i.p.Default
}

func (i *instance) NewNet(opts backend.NetOptions) (backend.Net, error) {
	if i.closed.Load() {
		return nil, backend.ErrClosed
	}
	if opts.Device < 0 || opts.Device >= len(i.p.DeviceList) {
		return nil, backend.ErrNoDevice
	}
	i.p.mu.Lock()
	i.p.lastOpts = opts
	i.p.mu.Unlock()
	if i.p.NetErr != nil {
		return nil, i.p.NetErr
	}
	i.p.nets.Add(1)
	return &Net{Scale: opts.Scale, p: i.p}, nil
}

func (i *instance) Close() error {
	if i.closed.Swap(true) {
		return backend.ErrClosed
	}
	i.p.closes.Add(1)
	return nil
}

// Net magnifies the unpadded tile with nearest-neighbour sampling.
type Net struct {
	Scale int

	p      *Provider
	closed atomic.Bool
}

// NewNet returns a standalone Net not tied to a Provider.
func NewNet(scale int) *Net {
	return &Net{Scale: scale}
}

func (n *Net) Forward(_ context.Context, in backend.Image, b backend.Border, out backend.Image) error {
	if n.closed.Load() {
		return backend.ErrClosed
	}
	if n.p != nil {
		if n.p.OnForward != nil {
			n.p.OnForward()
		}
		k := n.p.forwards.Add(1)
		if n.p.FailForwardAt > 0 && k == n.p.FailForwardAt {
			return ErrInjected
		}
	}
	s := max(n.Scale, 1)
	w := in.Width - b.Left - b.Right
	h := in.Height - b.Top - b.Bottom
	if out.Width != w*s || out.Height != h*s {
		return fmt.Errorf("backendtest: output %dx%d, want %dx%d", out.Width, out.Height, w*s, h*s)
	}
	for c := range backend.Channels {
		for y := range out.Height {
			for x := range out.Width {
				out.Set(c, x, y, in.At(c, b.Left+x/s, b.Top+y/s))
			}
		}
	}
	return nil
}

func (n *Net) Close() error {
	if n.closed.Swap(true) {
		return backend.ErrClosed
	}
	if n.p != nil {
		n.p.netClose.Add(1)
	}
	return nil
}
