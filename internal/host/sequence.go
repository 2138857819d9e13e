// Package host is a minimal in-process frame host. It exposes a sequence of
// still images as a constant-format clip and pulls frames from a clip chain
// in parallel while delivering them in order.
package host

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/gogpu/upscale"
	"github.com/gogpu/upscale/internal/imageio"
)

// Loader decodes the frame stored at path.
type Loader func(path string) (*upscale.Frame, error)

// ErrFreed is returned by a Sequence used after Free.
var ErrFreed = errors.New("host: clip freed")

// Sequence is a clip whose frame n is the image at Paths[n]. The clip size is
// taken from the first image; later images must match it.
type Sequence struct {
	paths []string
	load  Loader
	vi    upscale.VideoInfo
	freed atomic.Bool
}

// Open creates a sequence of image files decoded with imageio.
func Open(paths []string) (*Sequence, error) {
	return OpenWith(paths, imageio.ReadFile)
}

// OpenWith creates a sequence that decodes frames with load.
func OpenWith(paths []string, load Loader) (*Sequence, error) {
	if len(paths) == 0 {
		return nil, errors.New("host: empty sequence")
	}
	first, err := load(paths[0])
	if err != nil {
		return nil, err
	}
	return &Sequence{
		paths: append([]string(nil), paths...),
		load:  load,
		vi: upscale.VideoInfo{
			Format:    upscale.RGBS,
			Width:     first.Width,
			Height:    first.Height,
			NumFrames: len(paths),
			FPSNum:    1,
			FPSDen:    1,
		},
	}, nil
}

func (s *Sequence) Info() upscale.VideoInfo { return s.vi }

// Path returns the file backing frame n.
func (s *Sequence) Path(n int) string { return s.paths[n] }

func (s *Sequence) Frame(ctx context.Context, n int) (*upscale.Frame, error) {
	if s.freed.Load() {
		return nil, ErrFreed
	}
	if n < 0 || n >= len(s.paths) {
		return nil, fmt.Errorf("host: frame %d out of range [0, %d)", n, len(s.paths))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := s.load(s.paths[n])
	if err != nil {
		return nil, err
	}
	if f.Width != s.vi.Width || f.Height != s.vi.Height {
		return nil, fmt.Errorf("host: %s is %dx%d, sequence is %dx%d",
			s.paths[n], f.Width, f.Height, s.vi.Width, s.vi.Height)
	}
	return f, nil
}

func (s *Sequence) Free() { s.freed.Store(true) }

// OutputPath maps an input file to dir with its extension replaced by ext.
func OutputPath(dir, in, ext string) string {
	base := filepath.Base(in)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, base+ext)
}
