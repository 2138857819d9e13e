package tile

// Grid divides a frame into tiles for inference.
//
// Tiles are stored in a flat slice in row-major order, accessed via
// index = row * cols + col. Edge tiles have reduced dimensions when the frame
// is not evenly divisible by the tile size.
type Grid struct {
	tiles []Tile

	cols, rows    int
	width, height int
	tileW, tileH  int
	pad           int
}

// NewGrid creates the grid for a width×height frame with tiles of at most
// tileW×tileH and pad context pixels on every side.
// A non-positive frame size yields an empty grid.
func NewGrid(width, height, tileW, tileH, pad int) *Grid {
	g := &Grid{width: width, height: height, tileW: tileW, tileH: tileH, pad: max(pad, 0)}
	if width <= 0 || height <= 0 || tileW <= 0 || tileH <= 0 {
		g.width, g.height = 0, 0
		return g
	}

	g.cols = (width + tileW - 1) / tileW
	g.rows = (height + tileH - 1) / tileH
	g.tiles = make([]Tile, 0, g.cols*g.rows)

	for row := range g.rows {
		for col := range g.cols {
			g.tiles = append(g.tiles, g.makeTile(col, row))
		}
	}
	return g
}

func (g *Grid) makeTile(col, row int) Tile {
	x := col * g.tileW
	y := row * g.tileH
	w := min(g.tileW, g.width-x)
	h := min(g.tileH, g.height-y)

	x0 := max(x-g.pad, 0)
	y0 := max(y-g.pad, 0)
	x1 := min(x+w+g.pad, g.width)
	y1 := min(y+h+g.pad, g.height)

	return Tile{
		Col:    col,
		Row:    row,
		Rect:   Rect{X: x, Y: y, W: w, H: h},
		Padded: Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0},
	}
}

// TileAt returns the tile at grid coordinates (col, row).
// Returns false if coordinates are out of bounds.
func (g *Grid) TileAt(col, row int) (Tile, bool) {
	if col < 0 || col >= g.cols || row < 0 || row >= g.rows {
		return Tile{}, false
	}
	return g.tiles[row*g.cols+col], true
}

// TileAtPixel returns the tile responsible for the source pixel (x, y).
func (g *Grid) TileAtPixel(x, y int) (Tile, bool) {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return Tile{}, false
	}
	return g.TileAt(x/g.tileW, y/g.tileH)
}

// Tiles returns all tiles in row-major order.
// The returned slice should not be modified.
func (g *Grid) Tiles() []Tile {
	return g.tiles
}

// TileCount returns the total number of tiles in the grid.
func (g *Grid) TileCount() int {
	return len(g.tiles)
}

// Cols returns the number of tiles horizontally.
func (g *Grid) Cols() int {
	return g.cols
}

// Rows returns the number of tiles vertically.
func (g *Grid) Rows() int {
	return g.rows
}

// Width returns the frame width in pixels.
func (g *Grid) Width() int {
	return g.width
}

// Height returns the frame height in pixels.
func (g *Grid) Height() int {
	return g.height
}

// Pad returns the prepadding used for every tile.
func (g *Grid) Pad() int {
	return g.pad
}
