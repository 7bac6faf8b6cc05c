package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReadyEngine(t *testing.T) *Engine {
	t.Helper()

	e := New()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, e.WaitReady(ctx))
	return e
}

func TestWaitReady(t *testing.T) {
	e := New()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, e.WaitReady(ctx))
	assert.True(t, e.Ready())
}

func TestWaitReadyCanceled(t *testing.T) {
	e := &Engine{done: make(chan struct{})} // never initializes

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, e.WaitReady(ctx), context.Canceled)
	assert.False(t, e.Ready())
}

func TestGaussianKernelNormalized(t *testing.T) {
	e := newReadyEngine(t)

	var sum float64
	for _, v := range e.gauss {
		sum += float64(v)
	}
	assert.InDelta(t, 1.0, sum, 1e-5)
	// Symmetric, peaked at the center.
	assert.InDelta(t, e.gauss[0], e.gauss[4], 1e-7)
	assert.InDelta(t, e.gauss[1], e.gauss[3], 1e-7)
	assert.Greater(t, e.gauss[2], e.gauss[1])
}

func TestPlaneRelease(t *testing.T) {
	p := newPlane(8, 8)
	require.Len(t, p.Pix, 64)

	p.Release()
	assert.Nil(t, p.Pix)
	p.Release() // releasing twice is a no-op

	var nilPlane *Plane
	nilPlane.Release()
}
