// Package tile partitions frames into padded tiles, runs each tile through a
// backend.Net and reassembles the magnified result.
//
// The frame is divided into a grid of tiles no larger than the configured
// tile size. Edge tiles may be smaller when the frame is not evenly divisible.
// Each tile is extracted together with up to Prepadding context pixels on
// every side so that convolution windows near the tile boundary see real
// neighbours; the net output covers only the unpadded tile.
//
// Thread safety: Grid is immutable after construction. Engine.Process may be
// called concurrently; each call owns its scratch buffers.
package tile

import "github.com/gogpu/upscale/backend"

// MinSize is the smallest tile edge accepted at configuration time.
const MinSize = 32

// Rect is an axis-aligned pixel rectangle.
type Rect struct {
	X, Y, W, H int
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Scale returns the rectangle magnified by s.
func (r Rect) Scale(s int) Rect {
	return Rect{X: r.X * s, Y: r.Y * s, W: r.W * s, H: r.H * s}
}

// Tile is one cell of a Grid.
type Tile struct {
	// Col is the tile column index (0-based).
	Col int

	// Row is the tile row index (0-based).
	Row int

	// Rect is the region of the source this tile is responsible for.
	Rect

	// Padded is Rect grown by the prepadding and clipped to the frame.
	Padded Rect
}

// Border returns the context pixels actually present around Rect.
func (t Tile) Border() backend.Border {
	return backend.Border{
		Left:   t.X - t.Padded.X,
		Top:    t.Y - t.Padded.Y,
		Right:  t.Padded.X + t.Padded.W - (t.X + t.W),
		Bottom: t.Padded.Y + t.Padded.H - (t.Y + t.H),
	}
}

// OutRect returns the destination region of this tile for the given scale.
func (t Tile) OutRect(scale int) Rect {
	return t.Rect.Scale(scale)
}

// Contains returns true if the source pixel (x, y) is within this tile.
func (t Tile) Contains(x, y int) bool {
	return x >= t.X && x < t.X+t.W &&
		y >= t.Y && y < t.Y+t.H
}
