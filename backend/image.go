package backend

// Channels is the number of color planes in every Image.
const Channels = 3

// Image is a planar RGB float32 buffer exchanged with a Net.
//
// Data holds three tightly packed planes (R, G, B) of Width*Height samples
// each, in that order. This is the CHW layout most inference runtimes expect.
type Image struct {
	Width, Height int
	Data          []float32
}

// NewImage allocates a zeroed image.
func NewImage(width, height int) Image {
	return Image{
		Width:  width,
		Height: height,
		Data:   make([]float32, Channels*width*height),
	}
}

// Plane returns channel c (0=R, 1=G, 2=B) as a slice into Data.
func (im Image) Plane(c int) []float32 {
	n := im.Width * im.Height
	return im.Data[c*n : (c+1)*n]
}

// At returns the sample of channel c at (x, y).
func (im Image) At(c, x, y int) float32 {
	return im.Data[(c*im.Height+y)*im.Width+x]
}

// Set stores v as the sample of channel c at (x, y).
func (im Image) Set(c, x, y int, v float32) {
	im.Data[(c*im.Height+y)*im.Width+x] = v
}

// Border counts the context pixels present around a tile on each side.
type Border struct {
	Left, Top, Right, Bottom int
}

// Missing returns how many pixels on each side fall short of pad.
// Tiles on the image edge get less context than interior tiles; a Net
// fills the shortfall with its own extension policy.
func (b Border) Missing(pad int) Border {
	return Border{
		Left:   max(pad-b.Left, 0),
		Top:    max(pad-b.Top, 0),
		Right:  max(pad-b.Right, 0),
		Bottom: max(pad-b.Bottom, 0),
	}
}
