package upscale

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/gogpu/upscale/backend"
)

// memClip generates deterministic RGBS frames with padded rows.
type memClip struct {
	vi    VideoInfo
	pad   int
	freed atomic.Int32
}

func newMemClip(width, height, frames int) *memClip {
	return &memClip{
		vi: VideoInfo{
			Format:    RGBS,
			Width:     width,
			Height:    height,
			NumFrames: frames,
			FPSNum:    24000,
			FPSDen:    1001,
		},
		pad: 3,
	}
}

func sample(c, n, x, y, width int) float32 {
	return float32(c*100000 + n*1000 + y*width + x)
}

func (m *memClip) Info() VideoInfo { return m.vi }

func (m *memClip) Frame(_ context.Context, n int) (*Frame, error) {
	w, h := m.vi.Width, m.vi.Height
	stride := w + m.pad
	f := &Frame{Width: w, Height: h, Props: map[string]any{"_FrameNumber": n}}
	for c := range f.Planes {
		data := make([]float32, stride*h)
		for y := range h {
			for x := range w {
				data[y*stride+x] = sample(c, n, x, y, w)
			}
		}
		f.Planes[c] = Plane{Data: data, Stride: stride}
	}
	return f, nil
}

func (m *memClip) Free() { m.freed.Add(1) }

// writeModelTree creates every ncnn asset for every model variant under a
// temporary directory.
func writeModelTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for model := range 3 {
		dir := filepath.Join(root, ModelDir(model))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		for noise := -1; noise <= 3; noise++ {
			for scale := 1; scale <= 2; scale++ {
				for _, ext := range backend.NCNNFormat.Extensions {
					name := filepath.Join(dir, ModelBaseName(noise, scale)+ext)
					if err := os.WriteFile(name, []byte("7767517\n"), 0o644); err != nil {
						t.Fatal(err)
					}
				}
			}
		}
	}
	return root
}

// checkUpscaled verifies that out is the nearest-neighbour magnification of
// source frame n.
func checkUpscaled(t *testing.T, out *Frame, n, srcW, srcH, scale int) {
	t.Helper()
	if out.Width != srcW*scale || out.Height != srcH*scale {
		t.Fatalf("frame %d is %dx%d, want %dx%d", n, out.Width, out.Height, srcW*scale, srcH*scale)
	}
	for c, pl := range out.Planes {
		for y := range out.Height {
			row := pl.Row(y, out.Width)
			for x, got := range row {
				if want := sample(c, n, x/scale, y/scale, srcW); got != want {
					t.Fatalf("frame %d plane %d (%d,%d) = %v, want %v", n, c, x, y, got, want)
				}
			}
		}
	}
}
