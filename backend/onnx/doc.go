// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package onnx registers the "onnx" provider, which runs waifu2x networks
// exported to ONNX with onnxruntime and its CUDA execution provider.
//
// The process-wide GPU instance is the onnxruntime environment: it is
// initialized on the first reference and destroyed on the last. Devices are
// the CUDA driver's ordinals, read from libcuda at runtime (override the
// library with UPSCALE_CUDA_LIBRARY), so gpu_id is the device_id handed to
// the CUDA execution provider. Each filter owns one session bound to its
// device; sessions accept concurrent Run calls.
//
// Models are single files with the .onnx extension laid out like the ncnn
// model zoo, e.g. models-cunet/noise1_scale2.0x_model.onnx. The network
// must take one NCHW tensor whose H and W are dynamic and return one NCHW
// tensor; the centre (h*scale)×(w*scale) region of the output is used.
//
// Unless fp32 is set, a half precision sibling named <base>_fp16.onnx is
// loaded in place of <base>.onnx when present. Float16 models are fed half
// precision tensors; fp32 cannot widen a model that only exists in float16.
//
// The provider needs cgo. Without cgo only the enumerate-only "wgpu"
// provider is available.
//
// The onnxruntime shared library is located via UPSCALE_ORT_LIBRARY.
package onnx
