package utils

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCropImageRect(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	img.Set(5, 5, color.RGBA{255, 0, 0, 255})

	cropped := CropImageRect(img, image.Rect(4, 4, 10, 10))
	assert.Equal(t, 6, cropped.Bounds().Dx())
	assert.Equal(t, 6, cropped.Bounds().Dy())

	r, _, _, _ := cropped.At(cropped.Bounds().Min.X+1, cropped.Bounds().Min.Y+1).RGBA()
	assert.Equal(t, uint32(0xffff), r)
}

func TestCropImageRectOutside(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	cropped := CropImageRect(img, image.Rect(50, 50, 60, 60))
	assert.Equal(t, 0, cropped.Bounds().Dx())
}

func TestCropImageBox(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 30, 30))
	cropped := CropImageBox(img, NewBox(5.2, 5.2, 14.8, 24.8))
	assert.Equal(t, 10, cropped.Bounds().Dx())
	assert.Equal(t, 20, cropped.Bounds().Dy())
}

func TestCloneRGBA(t *testing.T) {
	src := image.NewNRGBA(image.Rect(3, 3, 8, 8))
	src.Set(4, 4, color.NRGBA{10, 20, 30, 255})

	dst := CloneRGBA(src)
	assert.Equal(t, image.Rect(0, 0, 5, 5), dst.Bounds())

	r, g, b, _ := dst.At(1, 1).RGBA()
	assert.Equal(t, uint32(10), r>>8)
	assert.Equal(t, uint32(20), g>>8)
	assert.Equal(t, uint32(30), b>>8)
}

func TestDrawRect(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	red := color.RGBA{255, 0, 0, 255}
	DrawRect(img, image.Rect(2, 2, 10, 10), red, 1)

	assert.Equal(t, red, img.RGBAAt(2, 2))
	assert.Equal(t, red, img.RGBAAt(9, 9))
	assert.Equal(t, red, img.RGBAAt(5, 2))
	// Interior untouched.
	assert.Equal(t, color.RGBA{}, img.RGBAAt(5, 5))
}

func TestDrawPolygonClosesShape(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 30, 30))
	green := color.RGBA{0, 255, 0, 255}
	DrawPolygon(img, []Point{{X: 5, Y: 5}, {X: 25, Y: 5}, {X: 25, Y: 25}, {X: 5, Y: 25}}, green, 1)

	// All four edges painted, including the closing one.
	assert.Equal(t, green, img.RGBAAt(15, 5))
	assert.Equal(t, green, img.RGBAAt(25, 15))
	assert.Equal(t, green, img.RGBAAt(15, 25))
	assert.Equal(t, green, img.RGBAAt(5, 15))
}
