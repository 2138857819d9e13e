package tile

import (
	"fmt"

	"github.com/gogpu/upscale/backend"
)

// Plane is one channel of a host frame. Stride is the row pitch in samples
// and may exceed the width.
type Plane struct {
	Data   []float32
	Stride int
}

// Planes holds the R, G and B planes of a frame.
type Planes [backend.Channels]Plane

// check verifies that every plane can hold a width×height image.
func (p Planes) check(width, height int) error {
	for c, pl := range p {
		if pl.Stride < width {
			return fmt.Errorf("plane %d: stride %d smaller than width %d", c, pl.Stride, width)
		}
		if need := (height-1)*pl.Stride + width; height > 0 && len(pl.Data) < need {
			return fmt.Errorf("plane %d: %d samples, need %d", c, len(pl.Data), need)
		}
	}
	return nil
}

// extract copies the region r of src into dst, which must be r.W×r.H.
func extract(src Planes, r Rect, dst backend.Image) {
	for c := range backend.Channels {
		pl := src[c]
		out := dst.Plane(c)
		for y := range r.H {
			off := (r.Y+y)*pl.Stride + r.X
			copy(out[y*r.W:(y+1)*r.W], pl.Data[off:off+r.W])
		}
	}
}

// place copies src into the region r of dst, which must be src-sized.
func place(src backend.Image, dst Planes, r Rect) {
	for c := range backend.Channels {
		pl := dst[c]
		in := src.Plane(c)
		for y := range r.H {
			off := (r.Y+y)*pl.Stride + r.X
			copy(pl.Data[off:off+r.W], in[y*r.W:(y+1)*r.W])
		}
	}
}
