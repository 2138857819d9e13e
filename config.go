package upscale

import (
	"github.com/gogpu/upscale/backend"
	"github.com/gogpu/upscale/internal/tile"
)

// Defaults applied when an option is not given.
const (
	DefaultNoise     = 0
	DefaultScale     = 2
	DefaultModel     = ModelCUNet
	DefaultGPUThread = 2
)

// Model variants.
const (
	ModelUpconv7Anime = 0
	ModelUpconv7Photo = 1
	ModelCUNet        = 2
)

// Config is the resolved, immutable filter configuration.
type Config struct {
	Noise     int
	Scale     int
	TileW     int
	TileH     int
	Model     int
	GPUID     int
	GPUThread int
	TTA       bool
	FP32      bool

	// Prepadding is derived from Model, Noise and Scale.
	Prepadding int
}

// Passthrough reports whether the configuration leaves frames unchanged.
func (c Config) Passthrough() bool {
	return c.Noise == -1 && c.Scale == 1
}

// tileConfig returns the engine configuration.
func (c Config) tileConfig() tile.Config {
	return tile.Config{
		Scale:      c.Scale,
		TileW:      c.TileW,
		TileH:      c.TileH,
		Prepadding: c.Prepadding,
		TTA:        c.TTA,
	}
}

// Prepadding returns the context border baked into the trained network:
// 7 for the upconv_7 models; for cunet 18 when the model magnifies or only
// magnifies, 28 for the denoise-only variants.
func Prepadding(model, noise, scale int) int {
	if model != ModelCUNet {
		return 7
	}
	if noise == -1 || scale == 2 {
		return 18
	}
	return 28
}

// Resolve validates options against the source clip and the GPU devices
// and returns the effective configuration.
//
// Checks run in a fixed order and the first violation is reported as a
// *ConfigError: input format, noise, scale, tile_w, tile_h, model, model
// and scale, gpu_id, gpu_thread.
func Resolve(vi VideoInfo, devices []backend.DeviceInfo, defaultDevice int, opts ...Option) (Config, error) {
	o := newOptions(opts)
	cfg, err := o.resolveStatic(vi)
	if err != nil {
		return Config{}, err
	}
	if err := o.bindDevice(&cfg, devices, defaultDevice); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// resolveStatic performs every check that needs no GPU.
func (o *options) resolveStatic(vi VideoInfo) (Config, error) {
	if !vi.IsConstant() || vi.Format != RGBS {
		return Config{}, configErrorf("", "only constant RGB format 32 bit float input supported")
	}

	cfg := Config{
		Noise:     o.noise.or(DefaultNoise),
		Scale:     o.scale.or(DefaultScale),
		TileW:     o.tileW.or(max(vi.Width, tile.MinSize)),
		TileH:     o.tileH.or(max(vi.Height, tile.MinSize)),
		Model:     o.model.or(DefaultModel),
		GPUThread: o.gpuThread.or(DefaultGPUThread),
		TTA:       o.tta,
		FP32:      o.fp32,
	}

	switch {
	case cfg.Noise < -1 || cfg.Noise > 3:
		return Config{}, configErrorf("noise", "noise must be between -1 and 3 (inclusive)")
	case cfg.Scale < 1 || cfg.Scale > 2:
		return Config{}, configErrorf("scale", "scale must be 1 or 2")
	case cfg.TileW < tile.MinSize:
		return Config{}, configErrorf("tile_w", "tile_w must be at least %d", tile.MinSize)
	case cfg.TileH < tile.MinSize:
		return Config{}, configErrorf("tile_h", "tile_h must be at least %d", tile.MinSize)
	case cfg.Model < 0 || cfg.Model > 2:
		return Config{}, configErrorf("model", "model must be between 0 and 2 (inclusive)")
	case cfg.Model != ModelCUNet && cfg.Scale == 1:
		return Config{}, configErrorf("model", "only cunet model supports scale=1")
	}

	cfg.Prepadding = Prepadding(cfg.Model, cfg.Noise, cfg.Scale)
	return cfg, nil
}

// bindDevice validates gpu_id and gpu_thread against the enumerated devices.
func (o *options) bindDevice(cfg *Config, devices []backend.DeviceInfo, defaultDevice int) error {
	cfg.GPUID = o.gpuID.or(defaultDevice)
	if cfg.GPUID < 0 || cfg.GPUID >= len(devices) {
		return configErrorf("gpu_id", "invalid GPU device")
	}
	queues := devices[cfg.GPUID].ComputeQueues
	if cfg.GPUThread < 1 || cfg.GPUThread > queues {
		return configErrorf("gpu_thread", "gpu_thread must be between 1 and %d (inclusive)", queues)
	}
	return nil
}
