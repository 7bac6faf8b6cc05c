package engine

import (
	"github.com/MeKo-Tech/docscan/internal/mempool"
)

// GaussianBlur5 applies the engine's separable 5x5 Gaussian to the plane and
// returns a new pooled plane. Borders are handled by clamping sample
// coordinates to the plane edge.
func (e *Engine) GaussianBlur5(p *Plane) *Plane {
	w, h := p.Width, p.Height
	out := newPlane(w, h)
	if w == 0 || h == 0 {
		return out
	}

	tmp := mempool.GetFloat32(w * h)
	defer mempool.PutFloat32(tmp)

	const r = gaussianKernelSize / 2

	// Horizontal pass.
	for y := 0; y < h; y++ {
		row := p.Pix[y*w : (y+1)*w]
		for x := 0; x < w; x++ {
			var acc float32
			for k := -r; k <= r; k++ {
				sx := clamp(x+k, 0, w-1)
				acc += e.gauss[k+r] * float32(row[sx])
			}
			tmp[y*w+x] = acc
		}
	}

	// Vertical pass.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc float32
			for k := -r; k <= r; k++ {
				sy := clamp(y+k, 0, h-1)
				acc += e.gauss[k+r] * tmp[sy*w+x]
			}
			out.Pix[y*w+x] = uint8(acc + 0.5)
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
