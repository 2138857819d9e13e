package upscale

import (
	"context"
	"maps"

	"github.com/gogpu/upscale/internal/tile"
)

// ColorFamily classifies the planes of a format.
type ColorFamily int

const (
	ColorUndefined ColorFamily = iota
	ColorGray
	ColorRGB
	ColorYUV
)

// SampleType is the numeric type of a sample.
type SampleType int

const (
	SampleInteger SampleType = iota
	SampleFloat
)

// Format describes the sample layout of a clip. The zero Format means the
// format varies from frame to frame.
type Format struct {
	ColorFamily   ColorFamily
	SampleType    SampleType
	BitsPerSample int
}

// RGBS is planar RGB with 32-bit float samples, the only format the filter
// accepts.
var RGBS = Format{ColorFamily: ColorRGB, SampleType: SampleFloat, BitsPerSample: 32}

// VideoInfo describes a clip.
type VideoInfo struct {
	Format Format

	// Width and Height are zero when the frame size varies.
	Width, Height int

	NumFrames int

	FPSNum, FPSDen int64
}

// IsConstant reports whether format and frame size are fixed for the whole clip.
func (vi VideoInfo) IsConstant() bool {
	return vi.Format.BitsPerSample > 0 && vi.Width > 0 && vi.Height > 0
}

// Plane is one channel of a frame. Stride is the row pitch in samples and
// may exceed the frame width.
type Plane struct {
	Data   []float32
	Stride int
}

// Row returns the width samples of row y.
func (p Plane) Row(y, width int) []float32 {
	return p.Data[y*p.Stride : y*p.Stride+width]
}

// PropText is the frame property set by a list_gpu clip.
const PropText = "Text"

// Frame is one RGB float32 frame.
type Frame struct {
	Width, Height int
	Planes        [3]Plane

	// Props are per-frame properties carried through the filter chain.
	Props map[string]any
}

// strideAlign is the row alignment, in samples, of frames allocated by NewFrame.
const strideAlign = 16

// NewFrame allocates a zeroed frame. Rows are padded to a multiple of 16
// samples. Properties are copied from propSrc when it is not nil.
func NewFrame(width, height int, propSrc *Frame) *Frame {
	stride := (width + strideAlign - 1) / strideAlign * strideAlign
	f := &Frame{Width: width, Height: height, Props: map[string]any{}}
	for c := range f.Planes {
		f.Planes[c] = Plane{Data: make([]float32, stride*height), Stride: stride}
	}
	if propSrc != nil {
		maps.Copy(f.Props, propSrc.Props)
	}
	return f
}

// withProps returns a shallow copy of f that shares plane data but owns its
// property map.
func (f *Frame) withProps() *Frame {
	out := *f
	out.Props = maps.Clone(f.Props)
	if out.Props == nil {
		out.Props = map[string]any{}
	}
	return &out
}

func (f *Frame) tilePlanes() tile.Planes {
	var p tile.Planes
	for c, pl := range f.Planes {
		p[c] = tile.Plane(pl)
	}
	return p
}

// Clip is a source of frames, the node type of a host pipeline.
type Clip interface {
	// Info describes the frames the clip produces.
	Info() VideoInfo

	// Frame returns frame n. It may be called concurrently for different n.
	Frame(ctx context.Context, n int) (*Frame, error)

	// Free releases the clip and everything it holds.
	Free()
}
