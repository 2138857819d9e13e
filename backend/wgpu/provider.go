// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu && !cgo

package wgpu

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gogpu/upscale/backend"
)

func init() {
	backend.Register(Provider{})
}

// Provider opens a Vulkan HAL instance.
type Provider struct{}

func (Provider) Name() string { return backend.ProviderWGPU }

func (Provider) Format() backend.ModelFormat { return backend.NCNNFormat }

// EnumerateOnly reports true: instances list adapters but cannot run a Net.
func (Provider) EnumerateOnly() bool { return true }

// SetLogger sets the package logger. It is called by upscale.SetLogger.
func (Provider) SetLogger(l *slog.Logger) { setLogger(l) }

// Open creates the Vulkan instance and enumerates its adapters.
func (Provider) Open() (backend.Instance, error) {
	vk, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, errors.New("wgpu: vulkan backend not available")
	}
	inst, err := vk.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create instance: %w", err)
	}

	adapters := inst.EnumerateAdapters(nil)
	descs := make([]adapterDesc, len(adapters))
	for i := range adapters {
		descs[i] = adapterDesc{name: adapters[i].Info.Name, typ: adapters[i].Info.DeviceType}
	}
	devs := describe(descs)

	for _, d := range devs {
		slogger().Debug("wgpu: adapter", "index", d.Index, "name", d.Name, "type", d.Type)
	}
	return &instance{hal: inst, devices: devs, def: backend.PreferredDevice(devs)}, nil
}

type instance struct {
	mu      sync.Mutex
	hal     hal.Instance
	devices []backend.DeviceInfo
	def     int
}

func (i *instance) Devices() []backend.DeviceInfo {
	return append([]backend.DeviceInfo(nil), i.devices...)
}

func (i *instance) DefaultDevice() int {
	return i.def
}

func (i *instance) NewNet(opts backend.NetOptions) (backend.Net, error) {
	if opts.Device < 0 || opts.Device >= len(i.devices) {
		return nil, backend.ErrNoDevice
	}
	return nil, fmt.Errorf("wgpu: %s: %w", i.devices[opts.Device].Name, backend.ErrNetUnsupported)
}

func (i *instance) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.hal == nil {
		return backend.ErrClosed
	}
	i.hal.Destroy()
	i.hal = nil
	return nil
}
