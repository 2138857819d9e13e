// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/upscale/backend"
)

// adapterDesc is the part of an adapter this package needs.
type adapterDesc struct {
	name string
	typ  gputypes.DeviceType
}

// deviceType maps a HAL device type to a backend.DeviceType.
func deviceType(t gputypes.DeviceType) backend.DeviceType {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU:
		return backend.DeviceDiscrete
	case gputypes.DeviceTypeIntegratedGPU:
		return backend.DeviceIntegrated
	default:
		return backend.DeviceOther
	}
}

// describe converts adapters to DeviceInfo in enumeration order.
func describe(adapters []adapterDesc) []backend.DeviceInfo {
	devs := make([]backend.DeviceInfo, len(adapters))
	for i, a := range adapters {
		t := deviceType(a.typ)
		devs[i] = backend.DeviceInfo{
			Index:         i,
			Name:          a.name,
			Type:          t,
			ComputeQueues: backend.ComputeQueues(t),
		}
	}
	return devs
}
