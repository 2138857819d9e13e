package host

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/gogpu/upscale"
)

// Sink consumes frame n. Request calls it from a single goroutine in frame
// order.
type Sink func(n int, f *upscale.Frame) error

// Request fetches every frame of clip with up to workers concurrent Frame
// calls and hands them to sink in order. At most 2*workers frames are
// fetched ahead of the one sink is waiting for. workers < 1 means
// GOMAXPROCS.
//
// The first error from the clip or from sink stops further requests and is
// returned.
func Request(ctx context.Context, clip upscale.Clip, workers int, sink Sink) error {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	n := clip.Info().NumFrames

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	results := make([]chan *upscale.Frame, n)
	for i := range results {
		results[i] = make(chan *upscale.Frame, 1)
	}
	window := semaphore.NewWeighted(int64(2 * workers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers + 1)
	g.Go(func() error {
		for i := range n {
			if err := window.Acquire(gctx, 1); err != nil {
				return err
			}
			g.Go(func() error {
				f, err := clip.Frame(gctx, i)
				if err != nil {
					return err
				}
				results[i] <- f
				return nil
			})
		}
		return nil
	})

	for i := range n {
		select {
		case f := <-results[i]:
			err := sink(i, f)
			window.Release(1)
			if err != nil {
				cancel(err)
				_ = g.Wait()
				return err
			}
		case <-gctx.Done():
			if err := g.Wait(); err != nil {
				return err
			}
			return context.Cause(ctx)
		}
	}
	return g.Wait()
}
