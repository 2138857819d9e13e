package upscale

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Option configures a filter during creation.
// Options not given keep their defaults, some of which depend on the
// source clip (tile size) or the GPU (device index).
//
// Example:
//
//	clip, err := upscale.New(src,
//	    upscale.WithNoise(2),
//	    upscale.WithTileSize(256, 256),
//	    upscale.WithGPUThreads(1),
//	)
type Option func(*options)

// setting is an integer option that remembers whether it was given.
type setting struct {
	v   int
	set bool
}

func (s setting) or(def int) int {
	if s.set {
		return s.v
	}
	return def
}

// options holds the raw option values before resolution.
type options struct {
	noise     setting
	scale     setting
	tileW     setting
	tileH     setting
	model     setting
	gpuID     setting
	gpuThread setting

	tta     bool
	fp32    bool
	listGPU bool

	modelDir string
	manager  *ContextManager
	metrics  *Metrics
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithNoise sets the denoise level in [-1, 3]. -1 disables denoising.
func WithNoise(n int) Option {
	return func(o *options) { o.noise = setting{n, true} }
}

// WithScale sets the magnification, 1 or 2.
func WithScale(s int) Option {
	return func(o *options) { o.scale = setting{s, true} }
}

// WithTileSize sets the maximum tile width and height. Both must be at least 32.
func WithTileSize(w, h int) Option {
	return func(o *options) {
		o.tileW = setting{w, true}
		o.tileH = setting{h, true}
	}
}

// WithTileWidth sets only the maximum tile width.
func WithTileWidth(w int) Option {
	return func(o *options) { o.tileW = setting{w, true} }
}

// WithTileHeight sets only the maximum tile height.
func WithTileHeight(h int) Option {
	return func(o *options) { o.tileH = setting{h, true} }
}

// WithModel selects the network: 0 upconv_7 anime, 1 upconv_7 photo, 2 cunet.
func WithModel(m int) Option {
	return func(o *options) { o.model = setting{m, true} }
}

// WithGPU selects the device index. The default is the platform default device.
func WithGPU(id int) Option {
	return func(o *options) { o.gpuID = setting{id, true} }
}

// WithGPUThreads sets how many tile submissions may run concurrently.
func WithGPUThreads(n int) Option {
	return func(o *options) { o.gpuThread = setting{n, true} }
}

// WithTTA enables 8-way test-time augmentation.
func WithTTA(on bool) Option {
	return func(o *options) { o.tta = on }
}

// WithFP32 requests full precision inference.
func WithFP32(on bool) Option {
	return func(o *options) { o.fp32 = on }
}

// WithListGPU makes New return a clip that annotates frames with the
// device list instead of processing them.
func WithListGPU(on bool) Option {
	return func(o *options) { o.listGPU = on }
}

// WithModelDir sets the directory containing the model variant directories.
// The default comes from envconfig.Models.
func WithModelDir(dir string) Option {
	return func(o *options) { o.modelDir = dir }
}

// WithContextManager sets the GPU context manager. The default is
// DefaultContextManager.
func WithContextManager(m *ContextManager) Option {
	return func(o *options) { o.manager = m }
}

// WithMetrics attaches prometheus collectors to the filter.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// ParseArgs converts host key/value arguments into options. Recognized keys
// are noise, scale, tile_w, tile_h, model, gpu_id, gpu_thread, tta, fp32 and
// list_gpu. Boolean keys accept integers (non-zero is true) and the strconv
// boolean spellings.
func ParseArgs(args map[string]string) ([]Option, error) {
	ints := map[string]func(int) Option{
		"noise":      WithNoise,
		"scale":      WithScale,
		"tile_w":     WithTileWidth,
		"tile_h":     WithTileHeight,
		"model":      WithModel,
		"gpu_id":     WithGPU,
		"gpu_thread": WithGPUThreads,
	}
	bools := map[string]func(bool) Option{
		"tta":      WithTTA,
		"fp32":     WithFP32,
		"list_gpu": WithListGPU,
	}

	opts := make([]Option, 0, len(args))
	for _, key := range slices.Sorted(maps.Keys(args)) {
		val := strings.TrimSpace(args[key])
		if mk, ok := ints[key]; ok {
			n, err := strconv.Atoi(val)
			if err != nil {
				return nil, configErrorf(key, "%s must be an integer, got %q", key, val)
			}
			opts = append(opts, mk(n))
			continue
		}
		if mk, ok := bools[key]; ok {
			b, err := parseFlag(val)
			if err != nil {
				return nil, configErrorf(key, "%s must be a boolean, got %q", key, val)
			}
			opts = append(opts, mk(b))
			continue
		}
		return nil, configErrorf(key, "unknown argument %q", key)
	}
	return opts, nil
}

func parseFlag(s string) (bool, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n != 0, nil
	}
	return strconv.ParseBool(s)
}
