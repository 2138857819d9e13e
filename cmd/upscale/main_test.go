package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/upscale"
	"github.com/gogpu/upscale/backend"
	"github.com/gogpu/upscale/internal/backendtest"
	"github.com/gogpu/upscale/internal/imageio"
)

// register installs a two-device test provider for the duration of t.
func register(t *testing.T) *backendtest.Provider {
	t.Helper()
	p := backendtest.New(2, 4)
	p.ProviderName = "cli-test"
	backend.Register(p)
	t.Cleanup(func() { backend.Unregister(p.Name()) })
	return p
}

func writeModels(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for model := range 3 {
		dir := filepath.Join(root, upscale.ModelDir(model))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		for noise := -1; noise <= 3; noise++ {
			for scale := 1; scale <= 2; scale++ {
				for _, ext := range backend.NCNNFormat.Extensions {
					name := filepath.Join(dir, upscale.ModelBaseName(noise, scale)+ext)
					if err := os.WriteFile(name, nil, 0o644); err != nil {
						t.Fatal(err)
					}
				}
			}
		}
	}
	return root
}

func writeInputs(t *testing.T, n, w, h int) []string {
	t.Helper()
	dir := t.TempDir()
	var paths []string
	for i := range n {
		f := upscale.NewFrame(w, h, nil)
		for c := range f.Planes {
			for y := range h {
				for x := range w {
					f.Planes[c].Data[y*f.Planes[c].Stride+x] = float32((c+i*3+y*w+x)%97) / 96
				}
			}
		}
		p := filepath.Join(dir, fmt.Sprintf("img%02d.png", i))
		if err := imageio.WriteFile(p, f); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, p)
	}
	return paths
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	t.Cleanup(func() { upscale.SetLogger(nil) })
	return out.String(), err
}

func TestListGPU(t *testing.T) {
	p := register(t)
	out, err := execute(t, "list-gpu", "--backend", p.Name())
	if err != nil {
		t.Fatal(err)
	}
	if want := "0: Test GPU 0\n1: Test GPU 1\n"; !strings.Contains(out, want) {
		t.Errorf("output = %q, want %q", out, want)
	}
	if p.Live() != 0 {
		t.Errorf("live instances = %d after list-gpu", p.Live())
	}
}

func TestUnknownBackend(t *testing.T) {
	_, err := execute(t, "list-gpu", "--backend", "no-such-backend")
	if err == nil || !strings.Contains(err.Error(), "unknown backend") {
		t.Errorf("err = %v, want unknown backend", err)
	}
}

func TestRun(t *testing.T) {
	p := register(t)
	models := writeModels(t)
	inputs := writeInputs(t, 5, 37, 21)
	out := t.TempDir()
	metrics := filepath.Join(t.TempDir(), "metrics.prom")

	args := append([]string{"run", "--backend", p.Name(), "--models", models,
		"-o", out, "--format", "tiff", "--tile_w", "32", "--gpu_thread", "3",
		"--requests", "3", "--metrics-file", metrics}, inputs...)
	if _, err := execute(t, args...); err != nil {
		t.Fatal(err)
	}

	for i, in := range inputs {
		src, err := imageio.ReadFile(in)
		if err != nil {
			t.Fatal(err)
		}
		got, err := imageio.ReadFile(filepath.Join(out, fmt.Sprintf("img%02d.tiff", i)))
		if err != nil {
			t.Fatal(err)
		}
		if got.Width != 74 || got.Height != 42 {
			t.Fatalf("frame %d is %dx%d, want 74x42", i, got.Width, got.Height)
		}
		for c := range got.Planes {
			for y := range got.Height {
				for x := range got.Width {
					want := src.Planes[c].Data[(y/2)*src.Planes[c].Stride+x/2]
					if g := got.Planes[c].Data[y*got.Planes[c].Stride+x]; g != want {
						t.Fatalf("frame %d c=%d (%d,%d) = %v, want %v", i, c, x, y, g, want)
					}
				}
			}
		}
	}

	if opts := p.LastNetOptions(); opts.Scale != 2 || opts.Noise != 0 {
		t.Errorf("net options = %+v, want default noise 0 scale 2", opts)
	}
	if p.Live() != 0 || p.NetsCreated() != p.NetsClosed() {
		t.Errorf("leak: live=%d nets=%d/%d", p.Live(), p.NetsCreated(), p.NetsClosed())
	}
	text, err := os.ReadFile(metrics)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(text), `upscale_frames_total{result="ok"} 5`) {
		t.Errorf("metrics missing frame count:\n%s", text)
	}
}

func TestRunPassthrough(t *testing.T) {
	p := register(t)
	inputs := writeInputs(t, 2, 8, 8)
	out := t.TempDir()

	args := append([]string{"run", "--backend", p.Name(), "-o", out, "--noise", "-1", "--scale", "1"}, inputs...)
	if _, err := execute(t, args...); err != nil {
		t.Fatal(err)
	}
	if p.Opens() != 0 {
		t.Errorf("passthrough opened the GPU %d times", p.Opens())
	}
	got, err := imageio.ReadFile(filepath.Join(out, "img01.png"))
	if err != nil {
		t.Fatal(err)
	}
	if got.Width != 8 || got.Height != 8 {
		t.Errorf("size = %dx%d, want 8x8", got.Width, got.Height)
	}
}

func TestRunConfigFile(t *testing.T) {
	p := register(t)
	models := writeModels(t)
	inputs := writeInputs(t, 1, 16, 16)
	out := t.TempDir()
	cfg := filepath.Join(t.TempDir(), "upscale.yaml")
	yaml := fmt.Sprintf("backend: %s\nmodels: %s\nnoise: 3\nmodel: 1\n", p.Name(), models)
	if err := os.WriteFile(cfg, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	// The flag overrides the file.
	args := append([]string{"run", "--config", cfg, "-o", out, "--noise", "2"}, inputs...)
	if _, err := execute(t, args...); err != nil {
		t.Fatal(err)
	}
	opts := p.LastNetOptions()
	if opts.Noise != 2 {
		t.Errorf("noise = %d, want flag value 2", opts.Noise)
	}
	if want := filepath.Join(models, upscale.ModelDir(1)); !strings.HasPrefix(opts.Files[0], want) {
		t.Errorf("model file %q not under %q", opts.Files[0], want)
	}
}

func TestRunErrors(t *testing.T) {
	p := register(t)
	inputs := writeInputs(t, 1, 8, 8)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad scale", []string{"--scale", "3"}, "scale must be 1 or 2"},
		{"small tile", []string{"--tile_w", "31"}, "tile_w must be at least 32"},
		{"bad format", []string{"--format", "gif"}, "unsupported output format"},
		{"no output", []string{"-o", ""}, "output directory required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"run", "--backend", p.Name(), "-o", t.TempDir()}, tt.args...)
			args = append(args, inputs...)
			_, err := execute(t, args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want %q", err, tt.want)
			}
		})
	}
	if p.Live() != 0 {
		t.Errorf("live instances = %d after failed runs", p.Live())
	}
}
