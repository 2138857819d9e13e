// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package onnx

import (
	"os"
	"strings"

	"github.com/gogpu/upscale/backend"
)

// cudaDevice is what the driver reports about one CUDA ordinal.
type cudaDevice struct {
	name       string
	integrated bool
}

// describe converts CUDA devices to DeviceInfo. Index is the CUDA ordinal,
// which is the device_id the execution provider expects.
func describe(cuda []cudaDevice) []backend.DeviceInfo {
	devs := make([]backend.DeviceInfo, len(cuda))
	for i, d := range cuda {
		t := backend.DeviceDiscrete
		if d.integrated {
			t = backend.DeviceIntegrated
		}
		devs[i] = backend.DeviceInfo{
			Index:         i,
			Name:          d.name,
			Type:          t,
			ComputeQueues: backend.ComputeQueues(t),
		}
	}
	return devs
}

// halfSuffix marks the half precision variant of a model file.
const halfSuffix = "_fp16"

// modelFile returns the file to load for path. Unless fp32 is set, a half
// precision sibling (noise1_scale2.0x_model_fp16.onnx) is preferred when it
// exists.
func modelFile(path string, fp32 bool) string {
	if fp32 {
		return path
	}
	half := strings.TrimSuffix(path, Format.Extensions[0]) + halfSuffix + Format.Extensions[0]
	if fi, err := os.Stat(half); err == nil && fi.Mode().IsRegular() {
		return half
	}
	return path
}
