package upscale

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gogpu/upscale/backend"
	"github.com/gogpu/upscale/internal/tile"
)

// Filter upscales the frames of a source clip on the GPU.
//
// Filter is safe for concurrent use. Free must be called exactly once.
type Filter struct {
	src     Clip
	vi      VideoInfo
	cfg     Config
	mgr     *ContextManager
	net     backend.Net
	engine  *tile.Engine
	gate    *Gate
	metrics *Metrics

	freeOnce sync.Once
}

// New builds the filter for src.
//
// The returned clip depends on the options: with list_gpu it annotates the
// source frames with the device list, with noise=-1 and scale=1 it is src
// itself, otherwise it is a *Filter. New takes ownership of src and frees it
// when construction fails.
//
// Errors are *ConfigError for invalid options and *InitError when the GPU
// context or model cannot be set up. A failed New holds no GPU context
// reference.
func New(src Clip, opts ...Option) (Clip, error) {
	o := newOptions(opts)
	vi := src.Info()

	cfg, err := o.resolveStatic(vi)
	if err != nil {
		src.Free()
		return nil, err
	}
	if cfg.Passthrough() && !o.listGPU {
		Logger().Debug("upscale: noise=-1 scale=1, passing source through")
		return src, nil
	}

	mgr := o.manager
	if mgr == nil {
		mgr = DefaultContextManager()
	}
	inst, err := mgr.Acquire()
	if err != nil {
		src.Free()
		return nil, err
	}

	keepContext, keepSource := false, false
	defer func() {
		if !keepContext {
			mgr.Release()
		}
		if !keepSource {
			src.Free()
		}
	}()

	if err := o.bindDevice(&cfg, inst.Devices(), inst.DefaultDevice()); err != nil {
		return nil, err
	}

	if o.listGPU {
		keepSource = true
		return &textClip{src: src, text: DeviceList(inst.Devices())}, nil
	}

	provider := mgr.Provider()
	files := ModelFiles(o.modelRoot(), cfg, provider.Format())
	if err := checkModelFiles(files); err != nil {
		return nil, err
	}
	net, err := inst.NewNet(backend.NetOptions{
		Device:     cfg.GPUID,
		Files:      files,
		Noise:      cfg.Noise,
		Scale:      cfg.Scale,
		Prepadding: cfg.Prepadding,
		FP32:       cfg.FP32,
	})
	if err != nil {
		return nil, &InitError{Op: "failed to load model", Err: err}
	}

	out := vi
	out.Width *= cfg.Scale
	out.Height *= cfg.Scale

	gate := NewGate(cfg.GPUThread)
	gate.metrics = o.metrics

	f := &Filter{
		src:     src,
		vi:      out,
		cfg:     cfg,
		mgr:     mgr,
		net:     net,
		engine:  tile.NewEngine(net, cfg.tileConfig()),
		gate:    gate,
		metrics: o.metrics,
	}
	keepContext, keepSource = true, true

	Logger().Info("upscale: filter created",
		"provider", provider.Name(),
		"device", cfg.GPUID,
		"model", ModelDir(cfg.Model),
		"noise", cfg.Noise,
		"scale", cfg.Scale,
		"tile", fmt.Sprintf("%dx%d", cfg.TileW, cfg.TileH),
		"prepadding", cfg.Prepadding,
		"gpu_thread", cfg.GPUThread,
		"tta", cfg.TTA,
	)
	return f, nil
}

// Info describes the output clip: the source scaled by Config.Scale.
func (f *Filter) Info() VideoInfo {
	return f.vi
}

// Config returns the resolved configuration.
func (f *Filter) Config() Config {
	return f.cfg
}

// Frame produces output frame n.
//
// The source frame is fetched first; the request then waits for a GPU slot
// and runs every tile. A failed tile fails the whole frame with an
// *InferenceError.
func (f *Filter) Frame(ctx context.Context, n int) (*Frame, error) {
	src, err := f.src.Frame(ctx, n)
	if err != nil {
		return nil, err
	}
	if src.Width*f.cfg.Scale != f.vi.Width || src.Height*f.cfg.Scale != f.vi.Height {
		return nil, &InferenceError{Frame: n, Err: fmt.Errorf("source frame is %dx%d, clip is %dx%d",
			src.Width, src.Height, f.vi.Width/f.cfg.Scale, f.vi.Height/f.cfg.Scale)}
	}
	dst := NewFrame(f.vi.Width, f.vi.Height, src)

	start := time.Now()
	if err := f.gate.Acquire(ctx); err != nil {
		f.metrics.frameDone(resultError, 0, time.Since(start))
		return nil, err
	}
	err = f.engine.Process(ctx, src.tilePlanes(), dst.tilePlanes(), src.Width, src.Height)
	f.gate.Release()

	if err != nil {
		f.metrics.frameDone(resultError, 0, time.Since(start))
		ie := &InferenceError{Frame: n, Err: err}
		var te *tile.Error
		if errors.As(err, &te) {
			ie.TileX, ie.TileY, ie.Err = te.Col, te.Row, te.Err
		}
		return nil, ie
	}
	f.metrics.frameDone(resultOK, f.engine.Submissions(src.Width, src.Height), time.Since(start))
	return dst, nil
}

// Free closes the network, drops the GPU context reference and frees the
// source clip.
func (f *Filter) Free() {
	f.freeOnce.Do(func() {
		if err := f.net.Close(); err != nil {
			Logger().Warn("upscale: closing network failed", "err", err)
		}
		f.mgr.Release()
		f.src.Free()
	})
}
