package engine

import (
	"image"
)

// Grayscale converts img to a single luma plane using ITU-R BT.601 weights.
// The returned plane is pooled; callers must Release it.
func (e *Engine) Grayscale(img image.Image) *Plane {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	p := newPlane(w, h)

	// Row offsets go through PixOffset so sub-images with a non-origin
	// Bounds().Min read the right pixels.
	switch src := img.(type) {
	case *image.Gray:
		for y := 0; y < h; y++ {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(p.Pix[y*w:(y+1)*w], src.Pix[off:off+w])
		}
	case *image.RGBA:
		for y := 0; y < h; y++ {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			row := src.Pix[off : off+w*4]
			for x := 0; x < w; x++ {
				r := uint32(row[x*4])
				g := uint32(row[x*4+1])
				bl := uint32(row[x*4+2])
				p.Pix[y*w+x] = uint8((299*r + 587*g + 114*bl + 500) / 1000)
			}
		}
	case *image.NRGBA:
		for y := 0; y < h; y++ {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			row := src.Pix[off : off+w*4]
			for x := 0; x < w; x++ {
				r := uint32(row[x*4])
				g := uint32(row[x*4+1])
				bl := uint32(row[x*4+2])
				p.Pix[y*w+x] = uint8((299*r + 587*g + 114*bl + 500) / 1000)
			}
		}
	default:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
				// RGBA returns 16-bit channels.
				p.Pix[y*w+x] = uint8((299*(r>>8) + 587*(g>>8) + 114*(bl>>8) + 500) / 1000)
			}
		}
	}
	return p
}
