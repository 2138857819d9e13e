// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package onnx

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/upscale/backend"
)

func ramp(w, h int) backend.Image {
	im := backend.NewImage(w, h)
	for c := range backend.Channels {
		for y := range h {
			for x := range w {
				im.Set(c, x, y, float32(c*100+y*10+x))
			}
		}
	}
	return im
}

func TestPadTileFull(t *testing.T) {
	in := ramp(4, 3)
	got := padTile(in, backend.Border{Left: 2, Top: 2, Right: 2, Bottom: 2}, 2)
	if got.Width != 4 || got.Height != 3 {
		t.Fatalf("size = %dx%d, want unchanged 4x3", got.Width, got.Height)
	}
}

func TestPadTileReplicate(t *testing.T) {
	in := ramp(3, 2)
	// Left and top edges of the frame; right and bottom have full context.
	got := padTile(in, backend.Border{Right: 2, Bottom: 2}, 2)
	if got.Width != 5 || got.Height != 4 {
		t.Fatalf("size = %dx%d, want 5x4", got.Width, got.Height)
	}
	for c := range backend.Channels {
		for y := range got.Height {
			for x := range got.Width {
				sx := max(x-2, 0)
				sy := max(y-2, 0)
				if g, w := got.At(c, x, y), in.At(c, sx, sy); g != w {
					t.Fatalf("c=%d (%d,%d) = %v, want %v", c, x, y, g, w)
				}
			}
		}
	}
}

func TestPadTilePartialBorder(t *testing.T) {
	in := ramp(2, 2)
	got := padTile(in, backend.Border{Left: 1, Top: 3, Right: 3, Bottom: 0}, 3)
	if got.Width != 4 || got.Height != 5 {
		t.Fatalf("size = %dx%d, want 4x5", got.Width, got.Height)
	}
	if g, w := got.At(0, 0, 0), in.At(0, 0, 0); g != w {
		t.Errorf("corner = %v, want %v", g, w)
	}
	if g, w := got.At(1, 3, 4), in.At(1, 1, 1); g != w {
		t.Errorf("far corner = %v, want %v", g, w)
	}
}

func TestCropInto(t *testing.T) {
	sw, sh := 6, 4
	src := make([]float32, backend.Channels*sw*sh)
	for i := range src {
		src[i] = float32(i%(sw*sh)) / 100
	}
	src[0*sw*sh+1*sw+2] = 2  // clamped high
	src[1*sw*sh+1*sw+3] = -1 // clamped low

	out := backend.NewImage(2, 2)
	if err := cropInto(src, sw, sh, out); err != nil {
		t.Fatal(err)
	}
	want := backend.NewImage(2, 2)
	for c := range backend.Channels {
		for y := range 2 {
			for x := range 2 {
				v := float32((1+y)*sw+2+x) / 100
				want.Set(c, x, y, v)
			}
		}
	}
	want.Set(0, 0, 0, 1)
	want.Set(1, 1, 0, 0)
	if diff := cmp.Diff(want.Data, out.Data); diff != "" {
		t.Errorf("crop mismatch (-want +got):\n%s", diff)
	}
}

func TestCropIntoErrors(t *testing.T) {
	out := backend.NewImage(4, 4)
	if err := cropInto(make([]float32, 10), 4, 4, out); err == nil {
		t.Error("short output accepted")
	}
	if err := cropInto(make([]float32, 3*2*8), 2, 8, out); err == nil {
		t.Error("narrow output accepted")
	}
}

func TestHalfRoundTrip(t *testing.T) {
	src := []float32{0, 0.5, 1, 0.25, -2, 65504}
	buf := toHalf(src)
	if len(buf) != 2*len(src) {
		t.Fatalf("len = %d, want %d", len(buf), 2*len(src))
	}
	// 1.0 is 0x3c00 in binary16, little-endian.
	if buf[4] != 0x00 || buf[5] != 0x3c {
		t.Errorf("1.0 encoded as %#x %#x", buf[4], buf[5])
	}
	if diff := cmp.Diff(src, fromHalf(buf)); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
}

func TestCUDAOptions(t *testing.T) {
	got := cudaOptions(3)
	if got["device_id"] != "3" {
		t.Errorf("device_id = %q, want 3", got["device_id"])
	}
}
