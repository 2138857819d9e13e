package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/gogpu/upscale"
	"github.com/gogpu/upscale/backend"
	"github.com/gogpu/upscale/envconfig"
	"github.com/gogpu/upscale/internal/host"
	"github.com/gogpu/upscale/internal/imageio"
)

// filterKeys are the flags forwarded to upscale.ParseArgs when set.
var filterKeys = []string{"noise", "scale", "tile_w", "tile_h", "model", "gpu_id", "gpu_thread", "tta", "fp32"}

func (a *app) runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [flags] INPUT...",
		Short: "Upscale a sequence of images",
		Long: `Upscale the input images as one constant-format frame sequence.
Frames are requested in parallel and written to the output directory in
order, keeping their base names.`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.run,
	}
	f := cmd.Flags()
	f.Int("noise", upscale.DefaultNoise, "denoise level, -1 to 3")
	f.Int("scale", upscale.DefaultScale, "magnification, 1 or 2")
	f.Int("tile_w", 0, "tile width (default: frame width)")
	f.Int("tile_h", 0, "tile height (default: frame height)")
	f.Int("model", upscale.DefaultModel, "0 upconv_7_anime_style_art_rgb, 1 upconv_7_photo, 2 cunet")
	f.Int("gpu_id", 0, "GPU index from list-gpu (default: platform default)")
	f.Int("gpu_thread", 0, "concurrent GPU submissions (default: 2)")
	f.Bool("tta", false, "test-time augmentation")
	f.Bool("fp32", false, "full precision inference")
	f.String("models", "", "model root directory (default: $UPSCALE_MODELS)")
	f.StringP("output", "o", "", "output directory")
	f.String("format", "png", "output format: "+strings.Join(trimDots(imageio.Extensions), ", "))
	f.Int("requests", int(envconfig.MaxRequests()), "parallel frame requests (default: GOMAXPROCS)")
	f.String("metrics-file", "", "write prometheus metrics to this file when done")
	return cmd
}

func (a *app) run(cmd *cobra.Command, inputs []string) error {
	outDir := a.v.GetString("output")
	if outDir == "" {
		return errors.New("output directory required (-o)")
	}
	ext := "." + strings.TrimPrefix(strings.ToLower(a.v.GetString("format")), ".")
	if !imageio.Supported(ext) {
		return fmt.Errorf("%w: %q", imageio.ErrFormat, a.v.GetString("format"))
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	args := make(map[string]string)
	for _, k := range filterKeys {
		if a.v.IsSet(k) {
			args[k] = a.v.GetString(k)
		}
	}
	opts, err := upscale.ParseArgs(args)
	if err != nil {
		return err
	}
	if dir := a.v.GetString("models"); dir != "" {
		opts = append(opts, upscale.WithModelDir(dir))
	}

	mgr, err := a.manager()
	if err != nil {
		return err
	}
	if err := checkRunsNets(mgr); err != nil {
		return err
	}
	opts = append(opts, upscale.WithContextManager(mgr))

	var reg *prometheus.Registry
	if a.v.GetString("metrics-file") != "" {
		reg = prometheus.NewRegistry()
		reg.MustRegister(upscale.NewContextCollector(mgr))
		opts = append(opts, upscale.WithMetrics(upscale.NewMetrics(reg)))
	}

	seq, err := host.Open(inputs)
	if err != nil {
		return err
	}
	clip, err := upscale.New(seq, opts...)
	if err != nil {
		return err
	}
	defer clip.Free()

	log := upscale.Logger()
	vi := clip.Info()
	log.Info("upscaling", "frames", vi.NumFrames, "in", fmt.Sprintf("%dx%d", seq.Info().Width, seq.Info().Height),
		"out", fmt.Sprintf("%dx%d", vi.Width, vi.Height))

	start := time.Now()
	err = host.Request(cmd.Context(), clip, a.v.GetInt("requests"), func(n int, f *upscale.Frame) error {
		path := host.OutputPath(outDir, seq.Path(n), ext)
		log.Debug("writing frame", "frame", n, "path", path)
		return imageio.WriteFile(path, f)
	})
	if err != nil {
		return err
	}
	log.Info("done", "frames", vi.NumFrames, "elapsed", time.Since(start).Round(time.Millisecond))

	if reg != nil {
		if err := prometheus.WriteToTextfile(a.v.GetString("metrics-file"), reg); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

// checkRunsNets rejects providers that can only list devices.
func checkRunsNets(mgr *upscale.ContextManager) error {
	p := mgr.Provider()
	if p == nil {
		var err error
		if p, err = backend.Lookup(envconfig.Backend()); err != nil {
			return err
		}
	}
	if !backend.RunsNets(p) {
		return fmt.Errorf("backend %q only lists devices and cannot upscale; the onnx backend needs a cgo build", p.Name())
	}
	return nil
}

func trimDots(exts []string) []string {
	out := make([]string, len(exts))
	for i, e := range exts {
		out[i] = strings.TrimPrefix(e, ".")
	}
	return out
}
