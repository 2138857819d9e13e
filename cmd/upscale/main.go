// Command upscale runs the waifu2x filter over still images and lists the
// GPUs the backends can see.
//
// Usage:
//
//	upscale list-gpu [--backend name]
//	upscale run [flags] INPUT... -o OUTDIR
//
// Flags may also come from a YAML or TOML file given with --config and from
// UPSCALE_* environment variables; command line flags win.
package main

import (
	"context"
	"os"
	"os/signal"

	// Backends register themselves with the backend registry.
	_ "github.com/gogpu/upscale/backend/onnx"
	_ "github.com/gogpu/upscale/backend/wgpu"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := newRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
