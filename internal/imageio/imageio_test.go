package imageio

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/gogpu/upscale"
)

// testFrame returns a frame whose samples are exact 16-bit values.
func testFrame(w, h int) *upscale.Frame {
	f := upscale.NewFrame(w, h, nil)
	for c := range f.Planes {
		for y := range h {
			for x := range w {
				v := uint16((c*7919 + y*613 + x*97) % 0x10000)
				f.Planes[c].Data[y*f.Planes[c].Stride+x] = float32(v) / 0xffff
			}
		}
	}
	return f
}

func samples(f *upscale.Frame) [3][]float32 {
	var out [3][]float32
	for c, pl := range f.Planes {
		for y := range f.Height {
			out[c] = append(out[c], pl.Row(y, f.Width)...)
		}
	}
	return out
}

func TestRoundTripLossless(t *testing.T) {
	for _, ext := range []string{".png", ".tiff"} {
		t.Run(ext, func(t *testing.T) {
			src := testFrame(19, 7)
			var buf bytes.Buffer
			if err := Encode(&buf, src, ext); err != nil {
				t.Fatal(err)
			}
			got, _, err := Decode(&buf)
			if err != nil {
				t.Fatal(err)
			}
			if got.Width != 19 || got.Height != 7 {
				t.Fatalf("size = %dx%d, want 19x7", got.Width, got.Height)
			}
			if diff := cmp.Diff(samples(src), samples(got)); diff != "" {
				t.Errorf("samples (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRoundTripBMP(t *testing.T) {
	src := testFrame(8, 5)
	var buf bytes.Buffer
	if err := Encode(&buf, src, ".BMP"); err != nil {
		t.Fatal(err)
	}
	got, format, err := Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if format != "bmp" {
		t.Errorf("format = %q, want bmp", format)
	}
	if diff := cmp.Diff(samples(src), samples(got), cmpopts.EquateApprox(0, 1.0/255)); diff != "" {
		t.Errorf("samples (-want +got):\n%s", diff)
	}
}

func TestToImageClamps(t *testing.T) {
	f := upscale.NewFrame(2, 1, nil)
	f.Planes[0].Data[0] = -0.5
	f.Planes[0].Data[1] = 1.5
	img := ToImage(f)
	if got := img.NRGBA64At(0, 0).R; got != 0 {
		t.Errorf("negative sample = %d, want 0", got)
	}
	if got := img.NRGBA64At(1, 0).R; got != 0xffff {
		t.Errorf("overflow sample = %d, want 65535", got)
	}
	if got := img.NRGBA64At(1, 0).A; got != 0xffff {
		t.Errorf("alpha = %d, want opaque", got)
	}
}

func TestFromImageBoundsOffset(t *testing.T) {
	img := image.NewNRGBA(image.Rect(10, 20, 13, 22))
	img.SetNRGBA(12, 21, color.NRGBA{R: 255, G: 0, B: 51, A: 255})
	f := FromImage(img)
	if f.Width != 3 || f.Height != 2 {
		t.Fatalf("size = %dx%d, want 3x2", f.Width, f.Height)
	}
	i := 1*f.Planes[0].Stride + 2
	got := []float32{f.Planes[0].Data[i], f.Planes[1].Data[i], f.Planes[2].Data[i]}
	want := []float32{1, 0, 0.2}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-6)); diff != "" {
		t.Errorf("pixel (-want +got):\n%s", diff)
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.png")
	src := testFrame(5, 4)
	if err := WriteFile(path, src); err != nil {
		t.Fatal(err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(samples(src), samples(got)); diff != "" {
		t.Errorf("samples (-want +got):\n%s", diff)
	}
}

func TestUnsupportedFormat(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "frame.gif"), testFrame(1, 1))
	if !errors.Is(err, ErrFormat) {
		t.Errorf("WriteFile(.gif) = %v, want ErrFormat", err)
	}
	if err := Encode(&bytes.Buffer{}, testFrame(1, 1), ".jpg"); !errors.Is(err, ErrFormat) {
		t.Errorf("Encode(.jpg) = %v, want ErrFormat", err)
	}
	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("ReadFile of missing file succeeded")
	}
}

func TestDecodeGarbage(t *testing.T) {
	if _, _, err := Decode(bytes.NewReader([]byte("not an image"))); err == nil {
		t.Error("Decode accepted garbage")
	}
	if !Supported(".TIF") || Supported(".webp") {
		t.Error("Supported mismatch")
	}
}
