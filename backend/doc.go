// Package backend defines the contract between the upscale filter and the
// inference engines that actually run the super-resolution network.
//
// The filter itself never executes kernels. It partitions frames into padded
// tiles and hands each tile to a [Net]. A [Provider] owns the process-wide GPU
// state: [Provider.Open] is called exactly once when the first filter in the
// process needs the GPU, and the returned [Instance] is closed when the last
// filter is released.
//
// # Backend Registration
//
// Providers are registered via init() functions and selected at runtime:
//
//	import _ "github.com/gogpu/upscale/backend/onnx" // registers "onnx"
//
// # Backend Selection
//
// Use Default() to get the preferred registered provider, or Get() to request
// a specific one by name:
//
//	p := backend.Default()
//	p = backend.Get("onnx")
//
// # Available Backends
//
//   - "onnx": onnxruntime with the CUDA execution provider (backend/onnx, cgo builds)
//   - "wgpu": Vulkan adapter enumeration only, no Net (backend/wgpu, builds without cgo)
package backend
