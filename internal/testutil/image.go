package testutil

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// FrameConfig describes a synthetic camera frame: a bright document
// quadrilateral on a dark background, optionally labeled and rotated.
type FrameConfig struct {
	Width      int
	Height     int
	Corners    [4]image.Point // TL, TR, BR, BL of the document
	Background color.Color
	Paper      color.Color
	Label      string  // text drawn near the document center
	Rotation   float64 // whole-frame rotation in degrees
}

// DefaultFrameConfig returns a 1000x1000 frame with a centered axis-aligned
// 600x400 document.
func DefaultFrameConfig() FrameConfig {
	return FrameConfig{
		Width:  1000,
		Height: 1000,
		Corners: [4]image.Point{
			{X: 200, Y: 300},
			{X: 800, Y: 300},
			{X: 800, Y: 700},
			{X: 200, Y: 700},
		},
		Background: color.RGBA{24, 24, 24, 255},
		Paper:      color.RGBA{245, 245, 245, 255},
	}
}

// GenerateFrame renders the configured frame.
func GenerateFrame(config FrameConfig) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, config.Width, config.Height))
	draw.Draw(img, img.Bounds(), &image.Uniform{config.Background}, image.Point{}, draw.Src)

	FillQuad(img, config.Corners, config.Paper)

	if config.Label != "" {
		drawer := &font.Drawer{
			Dst:  img,
			Src:  &image.Uniform{color.Black},
			Face: basicfont.Face7x13,
		}
		cx := (config.Corners[0].X + config.Corners[2].X) / 2
		cy := (config.Corners[0].Y + config.Corners[2].Y) / 2
		textWidth := font.MeasureString(basicfont.Face7x13, config.Label).Ceil()
		drawer.Dot = fixed.P(cx-textWidth/2, cy)
		drawer.DrawString(config.Label)
	}

	if config.Rotation != 0 {
		rotated := imaging.Rotate(img, config.Rotation, config.Background)
		rgba := image.NewRGBA(rotated.Bounds())
		draw.Draw(rgba, rgba.Bounds(), rotated, rotated.Bounds().Min, draw.Src)
		return rgba
	}
	return img
}

// FillQuad fills the convex quadrilateral (TL, TR, BR, BL) with c using a
// scanline test against the four edges.
func FillQuad(img *image.RGBA, quad [4]image.Point, c color.Color) {
	minX, minY := quad[0].X, quad[0].Y
	maxX, maxY := quad[0].X, quad[0].Y
	for _, p := range quad[1:] {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}

	inside := func(x, y int) bool {
		pos, neg := false, false
		for i := 0; i < 4; i++ {
			a := quad[i]
			b := quad[(i+1)%4]
			cr := (b.X-a.X)*(y-a.Y) - (b.Y-a.Y)*(x-a.X)
			if cr > 0 {
				pos = true
			} else if cr < 0 {
				neg = true
			}
		}
		return !(pos && neg)
	}

	bounds := img.Bounds()
	for y := max(minY, bounds.Min.Y); y <= min(maxY, bounds.Max.Y-1); y++ {
		for x := max(minX, bounds.Min.X); x <= min(maxX, bounds.Max.X-1); x++ {
			if inside(x, y) {
				img.Set(x, y, c)
			}
		}
	}
}

// SolidFrame creates a uniformly colored frame with no document in it.
func SolidFrame(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
	return img
}

// SaveImage saves an image as PNG to the specified path.
func SaveImage(t *testing.T, img image.Image, path string) {
	t.Helper()

	dir := filepath.Dir(path)
	require.NoError(t, os.MkdirAll(dir, 0o750), "Failed to create directory %s", dir)

	file, err := os.Create(path) //nolint:gosec // G304: Test file creation with controlled path
	require.NoError(t, err, "Failed to create file %s", path)
	defer func() {
		require.NoError(t, file.Close())
	}()

	require.NoError(t, png.Encode(file, img), "Failed to encode PNG image")
}

// LoadImage loads an image from the specified path.
func LoadImage(t *testing.T, path string) image.Image {
	t.Helper()

	file, err := os.Open(path) //nolint:gosec // G304: Test file reading with controlled path
	require.NoError(t, err, "Failed to open image file %s", path)
	defer func() { _ = file.Close() }()

	img, _, err := image.Decode(file)
	require.NoError(t, err, "Failed to decode image")

	return img
}

// CompareImages compares two images and returns true if their average pixel
// difference stays within tolerance (0..1).
func CompareImages(img1, img2 image.Image, tolerance float64) bool {
	bounds1 := img1.Bounds()
	bounds2 := img2.Bounds()

	if bounds1.Dx() != bounds2.Dx() || bounds1.Dy() != bounds2.Dy() {
		return false
	}

	var totalDiff float64
	var pixelCount float64

	for y := 0; y < bounds1.Dy(); y++ {
		for x := 0; x < bounds1.Dx(); x++ {
			r1, g1, b1, a1 := img1.At(bounds1.Min.X+x, bounds1.Min.Y+y).RGBA()
			r2, g2, b2, a2 := img2.At(bounds2.Min.X+x, bounds2.Min.Y+y).RGBA()

			dr := float64(r1) - float64(r2)
			dg := float64(g1) - float64(g2)
			db := float64(b1) - float64(b2)
			da := float64(a1) - float64(a2)

			totalDiff += math.Sqrt(dr*dr + dg*dg + db*db + da*da)
			pixelCount++
		}
	}

	avgDiff := totalDiff / pixelCount
	maxDiff := math.Sqrt(4 * 65535 * 65535)

	return (avgDiff / maxDiff) <= tolerance
}
