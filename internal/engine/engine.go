// Package engine provides the raster-processing primitives the scan
// pipeline composes: color conversion, Gaussian blur, Canny edge detection,
// contour extraction, resizing and perspective warping.
//
// An Engine is constructed once at startup and injected into callers.
// Its working tables are prepared asynchronously; Ready is a non-blocking
// capability probe and callers are expected to check it before invoking
// operations.
package engine

import (
	"context"
	"math"
	"sync/atomic"

	"github.com/MeKo-Tech/docscan/internal/mempool"
)

// gaussianKernelSize is fixed at 5 taps; the pipeline's blur is a 5x5.
const gaussianKernelSize = 5

// Engine holds the precomputed tables shared by all operations. All methods
// are safe for concurrent use; every call allocates its own working buffers
// from the pool and releases them before returning.
type Engine struct {
	ready atomic.Bool
	done  chan struct{}

	gauss [gaussianKernelSize]float32
}

// New constructs an engine and starts preparing its tables in the
// background. Use Ready to probe or WaitReady to suspend until usable.
func New() *Engine {
	e := &Engine{done: make(chan struct{})}
	go e.init()
	return e
}

func (e *Engine) init() {
	// Sigma for a 5-tap kernel, matching the common auto-sigma formula
	// sigma = 0.3*((ksize-1)*0.5 - 1) + 0.8.
	const sigma = 0.3*((gaussianKernelSize-1)*0.5-1) + 0.8
	var sum float64
	var k [gaussianKernelSize]float64
	for i := 0; i < gaussianKernelSize; i++ {
		x := float64(i - gaussianKernelSize/2)
		k[i] = math.Exp(-(x * x) / (2 * sigma * sigma))
		sum += k[i]
	}
	for i := 0; i < gaussianKernelSize; i++ {
		e.gauss[i] = float32(k[i] / sum)
	}

	e.ready.Store(true)
	close(e.done)
}

// Ready reports whether the engine finished initializing. It never blocks.
func (e *Engine) Ready() bool { return e.ready.Load() }

// WaitReady suspends until the engine is usable or ctx is done.
func (e *Engine) WaitReady(ctx context.Context) error {
	select {
	case <-e.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Plane is a single-channel raster backed by a pooled buffer. Release must
// be called exactly once when the plane is no longer needed.
type Plane struct {
	Pix    []uint8
	Width  int
	Height int
}

func newPlane(w, h int) *Plane {
	return &Plane{Pix: mempool.GetUint8(w * h), Width: w, Height: h}
}

// Release returns the backing buffer to the pool.
func (p *Plane) Release() {
	if p == nil || p.Pix == nil {
		return
	}
	mempool.PutUint8(p.Pix)
	p.Pix = nil
}
