package engine

import (
	"github.com/MeKo-Tech/docscan/internal/mempool"
)

// Edge map pixel states during hysteresis.
const (
	edgeNone   = 0
	edgeWeak   = 128
	edgeStrong = 255
)

// Canny runs edge detection on a (already blurred) luma plane: Sobel
// gradients with L1 magnitude, 4-direction non-maximum suppression and
// two-threshold hysteresis. The returned pooled plane holds 255 for edge
// pixels and 0 elsewhere. The one-pixel image border is never an edge.
func (e *Engine) Canny(p *Plane, low, high float64) *Plane {
	w, h := p.Width, p.Height
	out := newPlane(w, h)
	if w < 3 || h < 3 {
		return out
	}

	mag := mempool.GetFloat32(w * h)
	defer mempool.PutFloat32(mag)
	// Border magnitudes are never written by sobel but are read as
	// suppression neighbors; they must start at zero.
	clear(mag)
	gxBuf := mempool.GetFloat32(w * h)
	defer mempool.PutFloat32(gxBuf)
	gyBuf := mempool.GetFloat32(w * h)
	defer mempool.PutFloat32(gyBuf)

	sobel(p, gxBuf, gyBuf, mag)
	nonMaxSuppress(mag, gxBuf, gyBuf, out.Pix, w, h, low, high)
	hysteresis(out.Pix, w, h)
	return out
}

// sobel fills gx, gy and the L1 gradient magnitude for interior pixels.
func sobel(p *Plane, gx, gy, mag []float32) {
	w, h := p.Width, p.Height
	pix := p.Pix
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			tl := float32(pix[i-w-1])
			tc := float32(pix[i-w])
			tr := float32(pix[i-w+1])
			ml := float32(pix[i-1])
			mr := float32(pix[i+1])
			bl := float32(pix[i+w-1])
			bc := float32(pix[i+w])
			br := float32(pix[i+w+1])

			dx := (tr + 2*mr + br) - (tl + 2*ml + bl)
			dy := (bl + 2*bc + br) - (tl + 2*tc + tr)
			gx[i] = dx
			gy[i] = dy
			mag[i] = abs32(dx) + abs32(dy)
		}
	}
}

// nonMaxSuppress thins ridges to single-pixel width and classifies the
// survivors against the hysteresis thresholds.
func nonMaxSuppress(mag, gx, gy []float32, out []uint8, w, h int, low, high float64) {
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			m := mag[i]
			if float64(m) < low {
				continue
			}

			var a, b float32
			switch quantizeDirection(gx[i], gy[i]) {
			case 0: // horizontal gradient: compare east/west
				a, b = mag[i-1], mag[i+1]
			case 1: // 45 degrees: compare ne/sw
				a, b = mag[i-w+1], mag[i+w-1]
			case 2: // vertical gradient: compare north/south
				a, b = mag[i-w], mag[i+w]
			default: // 135 degrees: compare nw/se
				a, b = mag[i-w-1], mag[i+w+1]
			}
			if m < a || m < b {
				continue
			}

			if float64(m) >= high {
				out[i] = edgeStrong
			} else {
				out[i] = edgeWeak
			}
		}
	}
}

// quantizeDirection maps a gradient vector to one of 4 sampling axes.
func quantizeDirection(dx, dy float32) int {
	adx, ady := abs32(dx), abs32(dy)
	// tan(22.5 deg) ~ 0.4142
	const t = 0.41421356
	switch {
	case ady <= adx*t:
		return 0
	case adx <= ady*t:
		return 2
	case (dx > 0) == (dy > 0):
		return 3
	default:
		return 1
	}
}

// hysteresis promotes weak pixels 8-connected to strong ones and clears the
// rest.
func hysteresis(edges []uint8, w, h int) {
	stack := make([]int, 0, 256)
	for i, v := range edges {
		if v == edgeStrong {
			stack = append(stack, i)
		}
	}

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%w, i/w
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := x+dx, y+dy
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				ni := ny*w + nx
				if edges[ni] == edgeWeak {
					edges[ni] = edgeStrong
					stack = append(stack, ni)
				}
			}
		}
	}

	for i, v := range edges {
		if v != edgeStrong {
			edges[i] = edgeNone
		}
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
