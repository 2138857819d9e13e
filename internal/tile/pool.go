package tile

import (
	"sync"

	"github.com/gogpu/upscale/backend"
)

// ImagePool provides reuse of backend.Image scratch buffers via sync.Pool.
//
// A frame produces many tiles of the same padded size, so buffers are pooled
// per dimension pair. Buffers returned by Get are zeroed.
//
// Thread safety: ImagePool is safe for concurrent use.
type ImagePool struct {
	// pools holds a *sync.Pool per image size.
	pools sync.Map
}

type poolKey struct {
	w, h int
}

// NewImagePool creates a new image pool.
func NewImagePool() *ImagePool {
	return &ImagePool{}
}

// Get retrieves a zeroed width×height image from the pool or allocates one.
func (p *ImagePool) Get(width, height int) backend.Image {
	if width <= 0 || height <= 0 {
		return backend.Image{}
	}
	pool := p.getOrCreatePool(poolKey{width, height})
	im := pool.Get().(*backend.Image)
	clear(im.Data)
	return *im
}

// Put returns an image to the pool for reuse.
// Images with no data are ignored.
func (p *ImagePool) Put(im backend.Image) {
	if len(im.Data) == 0 {
		return
	}
	v, ok := p.pools.Load(poolKey{im.Width, im.Height})
	if !ok {
		// Not produced by this pool.
		return
	}
	v.(*sync.Pool).Put(&im)
}

func (p *ImagePool) getOrCreatePool(key poolKey) *sync.Pool {
	if v, ok := p.pools.Load(key); ok {
		return v.(*sync.Pool)
	}
	pool := &sync.Pool{
		New: func() any {
			im := backend.NewImage(key.w, key.h)
			return &im
		},
	}
	actual, _ := p.pools.LoadOrStore(key, pool)
	return actual.(*sync.Pool)
}
