package upscale

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/upscale/backend"
)

func testDevices(n, queues int) []backend.DeviceInfo {
	devs := make([]backend.DeviceInfo, n)
	for i := range devs {
		devs[i] = backend.DeviceInfo{Index: i, Name: "dev", Type: backend.DeviceDiscrete, ComputeQueues: queues}
	}
	return devs
}

func TestPrepadding(t *testing.T) {
	tests := []struct {
		model, noise, scale int
		want                int
	}{
		{0, -1, 2, 7},
		{0, 3, 2, 7},
		{1, 0, 2, 7},
		{2, -1, 2, 18},
		{2, -1, 1, 18},
		{2, 0, 2, 18},
		{2, 3, 2, 18},
		{2, 0, 1, 28},
		{2, 3, 1, 28},
	}
	for _, tt := range tests {
		got := Prepadding(tt.model, tt.noise, tt.scale)
		if got != tt.want {
			t.Errorf("Prepadding(%d,%d,%d) = %d, want %d", tt.model, tt.noise, tt.scale, got, tt.want)
		}
		if again := Prepadding(tt.model, tt.noise, tt.scale); again != got {
			t.Errorf("Prepadding(%d,%d,%d) not deterministic: %d then %d", tt.model, tt.noise, tt.scale, got, again)
		}
	}
}

func TestResolveDefaults(t *testing.T) {
	vi := VideoInfo{Format: RGBS, Width: 20, Height: 400, NumFrames: 1}
	got, err := Resolve(vi, testDevices(3, 8), 1)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := Config{
		Noise:      0,
		Scale:      2,
		TileW:      32,
		TileH:      400,
		Model:      ModelCUNet,
		GPUID:      1,
		GPUThread:  2,
		Prepadding: 18,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Resolve() mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveExplicit(t *testing.T) {
	vi := VideoInfo{Format: RGBS, Width: 1920, Height: 1080}
	got, err := Resolve(vi, testDevices(2, 4), 0,
		WithNoise(3), WithScale(1), WithTileSize(200, 100), WithGPU(1),
		WithGPUThreads(4), WithTTA(true), WithFP32(true),
	)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := Config{
		Noise: 3, Scale: 1, TileW: 200, TileH: 100, Model: ModelCUNet,
		GPUID: 1, GPUThread: 4, TTA: true, FP32: true, Prepadding: 28,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Resolve() mismatch (-want +got):\n%s", diff)
	}
	if got.Passthrough() {
		t.Error("Passthrough() = true for noise=3 scale=1")
	}
}

func TestResolveErrors(t *testing.T) {
	vi := VideoInfo{Format: RGBS, Width: 64, Height: 64}
	tests := []struct {
		name    string
		devices []backend.DeviceInfo
		def     int
		opts    []Option
		option  string
	}{
		{"tile_w 31", testDevices(1, 2), 0, []Option{WithTileWidth(31)}, "tile_w"},
		{"model 0 scale 1", testDevices(1, 2), 0, []Option{WithModel(0), WithScale(1)}, "model"},
		{"gpu_id 999", testDevices(2, 2), 0, []Option{WithGPU(999)}, "gpu_id"},
		{"no devices", nil, -1, nil, "gpu_id"},
		{"gpu_thread exceeds queues", testDevices(1, 1), 0, nil, "gpu_thread"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(vi, tt.devices, tt.def, tt.opts...)
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("Resolve() error = %v, want *ConfigError", err)
			}
			if ce.Option != tt.option {
				t.Errorf("Option = %q, want %q", ce.Option, tt.option)
			}
		})
	}
}

func TestConfigPassthrough(t *testing.T) {
	for noise := -1; noise <= 3; noise++ {
		for scale := 1; scale <= 2; scale++ {
			c := Config{Noise: noise, Scale: scale}
			if want := noise == -1 && scale == 1; c.Passthrough() != want {
				t.Errorf("Config{Noise:%d,Scale:%d}.Passthrough() = %v, want %v", noise, scale, !want, want)
			}
		}
	}
}
