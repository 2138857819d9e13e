// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package wgpu registers the "wgpu" provider, a Vulkan instance created
// through the gogpu/wgpu HAL.
//
// The provider enumerates Vulkan adapters in driver order, which is the
// order gpu_id refers to, and picks the first discrete GPU as the default
// device. It does not execute networks: NewNet returns
// backend.ErrNetUnsupported. It is useful for list_gpu and for validating
// device options on machines without an inference runtime.
//
// Import it for its side effect:
//
//	import _ "github.com/gogpu/upscale/backend/wgpu"
//
// The HAL loads Vulkan through goffi, which requires CGO_ENABLED=0, so the
// provider is only built without cgo; cgo builds use backend/onnx instead.
// Build with -tags nogpu to leave the provider out.
package wgpu
