package engine

import (
	"image"

	"github.com/disintegration/imaging"
)

// Downscale shrinks img so its longer dimension equals maxDim, using the Box
// filter (area averaging, which preserves quality when shrinking). Images at
// or below the cap are returned as-is with scale 1. The returned scale maps
// original coordinates to downscaled ones (downscaled = original * scale).
func (e *Engine) Downscale(img image.Image, maxDim int) (image.Image, float64) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	longer := w
	if h > longer {
		longer = h
	}
	if maxDim <= 0 || longer <= maxDim {
		return img, 1.0
	}

	scale := float64(maxDim) / float64(longer)
	nw := int(float64(w)*scale + 0.5)
	nh := int(float64(h)*scale + 0.5)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return imaging.Resize(img, nw, nh, imaging.Box), scale
}
