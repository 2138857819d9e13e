// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build cgo

package onnx

import (
	"fmt"
	"log/slog"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/gogpu/upscale/backend"
	"github.com/gogpu/upscale/envconfig"
)

func init() {
	backend.Register(Provider{})
}

// Provider creates the onnxruntime environment.
type Provider struct{}

func (Provider) Name() string { return backend.ProviderONNX }

func (Provider) Format() backend.ModelFormat { return Format }

// SetLogger sets the package logger. It is called by upscale.SetLogger.
func (Provider) SetLogger(l *slog.Logger) { setLogger(l) }

// Open enumerates CUDA devices and initializes the onnxruntime environment.
func (Provider) Open() (backend.Instance, error) {
	cuda, err := cudaDevices(envconfig.CUDALibrary())
	if err != nil {
		return nil, err
	}
	devs := describe(cuda)

	if lib := envconfig.ORTLibrary(); lib != "" {
		ort.SetSharedLibraryPath(lib)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("onnx: initialize environment: %w", err)
	}
	for _, d := range devs {
		slogger().Debug("onnx: CUDA device", "index", d.Index, "name", d.Name, "type", d.Type)
	}
	slogger().Info("onnx: runtime initialized", "devices", len(devs))
	return &instance{devices: devs, def: backend.PreferredDevice(devs)}, nil
}

type instance struct {
	devices []backend.DeviceInfo
	def     int

	mu     sync.Mutex
	closed bool
}

func (i *instance) Devices() []backend.DeviceInfo {
	return append([]backend.DeviceInfo(nil), i.devices...)
}

func (i *instance) DefaultDevice() int {
	return i.def
}

func (i *instance) NewNet(opts backend.NetOptions) (backend.Net, error) {
	i.mu.Lock()
	closed := i.closed
	i.mu.Unlock()
	if closed {
		return nil, backend.ErrClosed
	}
	if opts.Device < 0 || opts.Device >= len(i.devices) {
		return nil, backend.ErrNoDevice
	}
	if len(opts.Files) != 1 {
		return nil, fmt.Errorf("onnx: want one model file, got %d", len(opts.Files))
	}
	return newNet(opts)
}

func (i *instance) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return backend.ErrClosed
	}
	i.closed = true
	return ort.DestroyEnvironment()
}
