package tile

import (
	"context"
	"fmt"

	"github.com/gogpu/upscale/backend"
)

// Config describes how frames are tiled.
type Config struct {
	Scale      int
	TileW      int
	TileH      int
	Prepadding int
	TTA        bool
}

// Error reports the tile whose forward pass failed.
type Error struct {
	Col, Row int
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("tile (%d,%d): %v", e.Col, e.Row, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Engine runs a Net over every tile of a frame.
type Engine struct {
	net  backend.Net
	cfg  Config
	pool *ImagePool
}

// NewEngine creates an engine for net. A zero Scale is treated as 1.
func NewEngine(net backend.Net, cfg Config) *Engine {
	if cfg.Scale <= 0 {
		cfg.Scale = 1
	}
	return &Engine{net: net, cfg: cfg, pool: NewImagePool()}
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Submissions returns the number of Forward calls one width×height frame needs.
func (e *Engine) Submissions(width, height int) int {
	n := NewGrid(width, height, e.cfg.TileW, e.cfg.TileH, e.cfg.Prepadding).TileCount()
	if e.cfg.TTA {
		n *= TTACount
	}
	return n
}

// Process upscales the width×height frame in src into dst, which must hold
// (width*Scale)×(height*Scale) samples per plane. Tiles are processed in
// row-major order. The first failing tile aborts the frame and is reported
// as *Error.
func (e *Engine) Process(ctx context.Context, src, dst Planes, width, height int) error {
	if err := src.check(width, height); err != nil {
		return fmt.Errorf("source %w", err)
	}
	s := e.cfg.Scale
	if err := dst.check(width*s, height*s); err != nil {
		return fmt.Errorf("destination %w", err)
	}

	grid := NewGrid(width, height, e.cfg.TileW, e.cfg.TileH, e.cfg.Prepadding)
	for _, t := range grid.Tiles() {
		if err := e.processTile(ctx, src, dst, t); err != nil {
			return &Error{Col: t.Col, Row: t.Row, Err: err}
		}
	}
	return nil
}

func (e *Engine) processTile(ctx context.Context, src, dst Planes, t Tile) error {
	s := e.cfg.Scale
	in := e.pool.Get(t.Padded.W, t.Padded.H)
	defer e.pool.Put(in)
	extract(src, t.Padded, in)

	out := e.pool.Get(t.W*s, t.H*s)
	defer e.pool.Put(out)

	if !e.cfg.TTA {
		if err := e.net.Forward(ctx, in, t.Border(), out); err != nil {
			return err
		}
		place(out, dst, t.OutRect(s))
		return nil
	}

	for k := range TTACount {
		tr := Transform(k)
		tw, th := tr.Size(in.Width, in.Height)
		tin := e.pool.Get(tw, th)
		tr.Apply(in, tin)

		ow, oh := tr.Size(out.Width, out.Height)
		tout := e.pool.Get(ow, oh)
		err := e.net.Forward(ctx, tin, tr.Border(t.Border()), tout)
		if err == nil {
			tr.Accumulate(tout, out)
		}
		e.pool.Put(tin)
		e.pool.Put(tout)
		if err != nil {
			return err
		}
	}
	for i := range out.Data {
		out.Data[i] *= 1.0 / TTACount
	}
	place(out, dst, t.OutRect(s))
	return nil
}
