// Package imageio converts still images to and from RGB float frames.
//
// Decoding accepts PNG, JPEG, TIFF, BMP and WebP. Encoding writes PNG and
// TIFF with 16 bits per channel, or 8-bit BMP. Samples are normalized to
// [0, 1]; alpha is dropped on decode and written opaque.
package imageio

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // decoder
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp" // decoder

	"github.com/gogpu/upscale"
)

// ErrFormat is returned for file extensions no encoder handles.
var ErrFormat = errors.New("imageio: unsupported output format")

// Extensions lists the output extensions WriteFile understands.
var Extensions = []string{".png", ".tif", ".tiff", ".bmp"}

// FromImage converts img into a frame.
func FromImage(img image.Image) *upscale.Frame {
	b := img.Bounds()
	f := upscale.NewFrame(b.Dx(), b.Dy(), nil)
	r, g, bl := f.Planes[0], f.Planes[1], f.Planes[2]

	for y := range f.Height {
		for x := range f.Width {
			c := color.NRGBA64Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA64)
			i := y*r.Stride + x
			r.Data[i] = float32(c.R) / 0xffff
			g.Data[i] = float32(c.G) / 0xffff
			bl.Data[i] = float32(c.B) / 0xffff
		}
	}
	return f
}

// ToImage converts a frame into an opaque 16-bit image. Samples outside
// [0, 1] are clamped.
func ToImage(f *upscale.Frame) *image.NRGBA64 {
	img := image.NewNRGBA64(image.Rect(0, 0, f.Width, f.Height))
	for y := range f.Height {
		for x := range f.Width {
			img.SetNRGBA64(x, y, color.NRGBA64{
				R: quantize(f.Planes[0].Data[y*f.Planes[0].Stride+x]),
				G: quantize(f.Planes[1].Data[y*f.Planes[1].Stride+x]),
				B: quantize(f.Planes[2].Data[y*f.Planes[2].Stride+x]),
				A: 0xffff,
			})
		}
	}
	return img
}

func quantize(v float32) uint16 {
	return uint16(min(max(v, 0), 1)*0xffff + 0.5)
}

// Decode reads an image in any registered format.
func Decode(r io.Reader) (*upscale.Frame, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", err
	}
	return FromImage(img), format, nil
}

// Encode writes f in the format selected by ext (".png", ".tiff", ...).
func Encode(w io.Writer, f *upscale.Frame, ext string) error {
	img := ToImage(f)
	switch strings.ToLower(ext) {
	case ".png":
		enc := png.Encoder{CompressionLevel: png.BestSpeed}
		return enc.Encode(w, img)
	case ".tif", ".tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	case ".bmp":
		return bmp.Encode(w, img)
	default:
		return fmt.Errorf("%w: %q", ErrFormat, ext)
	}
}

// ReadFile decodes the image at path.
func ReadFile(path string) (*upscale.Frame, error) {
	file, err := os.Open(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = file.Close()
	}()

	f, _, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("imageio: %s: %w", path, err)
	}
	return f, nil
}

// WriteFile encodes f to path, choosing the format from its extension.
func WriteFile(path string, f *upscale.Frame) (err error) {
	ext := filepath.Ext(path)
	if !Supported(ext) {
		return fmt.Errorf("%w: %q", ErrFormat, ext)
	}
	file, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	return Encode(file, f, ext)
}

// Supported reports whether ext names an output format.
func Supported(ext string) bool {
	ext = strings.ToLower(ext)
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}
