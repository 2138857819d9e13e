// Package upscale provides a tiled GPU super-resolution filter for Go video
// pipelines.
//
// # Overview
//
// upscale denoises and magnifies RGB float32 frames with the waifu2x family
// of convolutional networks. A host pipeline builds one filter per clip and
// then requests output frames, possibly from many goroutines at once. Each
// frame is split into padded tiles sized to fit GPU memory, the tiles are
// run through an inference backend, and the results are stitched back into
// the output frame.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/upscale"
//	    _ "github.com/gogpu/upscale/backend/onnx"
//	)
//
//	clip, err := upscale.New(src, upscale.WithNoise(1), upscale.WithScale(2))
//	if err != nil {
//	    return err
//	}
//	defer clip.Free()
//
//	frame, err := clip.Frame(ctx, 0)
//
// # Architecture
//
// The package is organized into:
//   - Parameter resolution: Options, Resolve, Config
//   - GPU context: ContextManager shares one backend.Instance between filters
//   - Admission: Gate bounds concurrent GPU submissions per filter
//   - Frame adapter: Filter implements Clip on top of internal/tile
//   - Backends: backend/onnx (inference), backend/wgpu (Vulkan enumeration)
//
// # Concurrency
//
// Clip.Frame on a Filter is safe for concurrent use. The only point where a
// request blocks is the admission gate; at most gpu_thread requests of one
// filter run tiles on the GPU at the same time.
//
// # Ownership
//
// New takes ownership of the source clip. On failure the source is freed; on
// success it is freed together with the returned clip.
package upscale

// Version information
const (
	// Version is the current version of the library
	Version = "0.3.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 3

	// VersionPatch is the patch version
	VersionPatch = 0
)
