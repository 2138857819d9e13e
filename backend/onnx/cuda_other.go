// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build cgo && !linux

package onnx

import (
	"fmt"
	"runtime"
)

func cudaDevices(string) ([]cudaDevice, error) {
	return nil, fmt.Errorf("onnx: CUDA device enumeration is not supported on %s", runtime.GOOS)
}
