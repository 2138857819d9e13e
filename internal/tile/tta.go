package tile

import "github.com/gogpu/upscale/backend"

// TTACount is the number of geometric variants evaluated in TTA mode.
const TTACount = 8

// Transform is one of the eight symmetries of the square, encoded as
// bit 2 = transpose, bit 0 = horizontal flip, bit 1 = vertical flip.
// The transpose is applied first.
type Transform uint8

const (
	flipH     Transform = 1 << 0
	flipV     Transform = 1 << 1
	transpose Transform = 1 << 2
)

// Identity leaves the image unchanged.
const Identity Transform = 0

func (t Transform) transposes() bool { return t&transpose != 0 }

// Size returns the dimensions of a w×h image after t.
func (t Transform) Size(w, h int) (int, int) {
	if t.transposes() {
		return h, w
	}
	return w, h
}

// point maps a coordinate of the untransformed image of size w×h to the
// transformed image.
func (t Transform) point(x, y, w, h int) (int, int) {
	tw, th := t.Size(w, h)
	if t.transposes() {
		x, y = y, x
	}
	if t&flipH != 0 {
		x = tw - 1 - x
	}
	if t&flipV != 0 {
		y = th - 1 - y
	}
	return x, y
}

// Border returns b as seen after t.
func (t Transform) Border(b backend.Border) backend.Border {
	if t.transposes() {
		b = backend.Border{Left: b.Top, Top: b.Left, Right: b.Bottom, Bottom: b.Right}
	}
	if t&flipH != 0 {
		b.Left, b.Right = b.Right, b.Left
	}
	if t&flipV != 0 {
		b.Top, b.Bottom = b.Bottom, b.Top
	}
	return b
}

// Apply writes src transformed by t into dst, which must have the
// transformed size.
func (t Transform) Apply(src, dst backend.Image) {
	for c := range backend.Channels {
		for y := range src.Height {
			for x := range src.Width {
				tx, ty := t.point(x, y, src.Width, src.Height)
				dst.Set(c, tx, ty, src.At(c, x, y))
			}
		}
	}
}

// Accumulate adds the inverse transform of src into dst. dst has the
// untransformed size.
func (t Transform) Accumulate(src, dst backend.Image) {
	for c := range backend.Channels {
		for y := range dst.Height {
			for x := range dst.Width {
				tx, ty := t.point(x, y, dst.Width, dst.Height)
				dst.Data[(c*dst.Height+y)*dst.Width+x] += src.At(c, tx, ty)
			}
		}
	}
}
