package upscale

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
)

// Gate bounds how many frame requests of one filter submit tiles to the GPU
// at the same time.
type Gate struct {
	sem     *semaphore.Weighted
	size    int
	inUse   atomic.Int64
	metrics *Metrics
}

// NewGate creates a gate with n permits. n must be at least 1.
func NewGate(n int) *Gate {
	if n < 1 {
		panic("upscale: gate size must be at least 1")
	}
	return &Gate{sem: semaphore.NewWeighted(int64(n)), size: n}
}

// Acquire blocks until a permit is free or ctx is done.
func (g *Gate) Acquire(ctx context.Context) error {
	if g.sem.TryAcquire(1) {
		g.enter(0)
		return nil
	}
	start := time.Now()
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	wait := time.Since(start)
	Logger().Debug("upscale: waited for GPU slot", "wait", wait)
	g.enter(wait)
	return nil
}

func (g *Gate) enter(wait time.Duration) {
	g.inUse.Add(1)
	g.metrics.gateEntered(wait)
}

// Release returns a permit taken by Acquire.
func (g *Gate) Release() {
	g.inUse.Add(-1)
	g.metrics.gateLeft()
	g.sem.Release(1)
}

// Size returns the number of permits.
func (g *Gate) Size() int {
	return g.size
}

// InUse returns the number of permits currently held.
func (g *Gate) InUse() int {
	return int(g.inUse.Load())
}
