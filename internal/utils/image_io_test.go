package utils

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSupportedImage(t *testing.T) {
	assert.True(t, IsSupportedImage("scan.jpg"))
	assert.True(t, IsSupportedImage("SCAN.JPEG"))
	assert.True(t, IsSupportedImage("frame.png"))
	assert.True(t, IsSupportedImage("frame.bmp"))
	assert.False(t, IsSupportedImage("document.pdf"))
	assert.False(t, IsSupportedImage("noext"))
}

func TestLoadImageErrors(t *testing.T) {
	_, _, err := LoadImage("")
	require.Error(t, err)

	var perr *ImageProcessingError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "load", perr.Operation)

	_, _, err = LoadImage("missing.gif")
	require.Error(t, err)

	_, _, err = LoadImage(filepath.Join(t.TempDir(), "missing.png"))
	require.Error(t, err)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 12, 8))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.RGBA{200, 50, 25, 255}}, image.Point{}, draw.Src)

	for _, name := range []string{"out.png", "out.jpg"} {
		path := filepath.Join(t.TempDir(), name)
		require.NoError(t, SaveImage(img, path, 92))

		loaded, meta, err := LoadImage(path)
		require.NoError(t, err)
		assert.Equal(t, 12, meta.Width)
		assert.Equal(t, 8, meta.Height)
		assert.InDelta(t, 1.5, meta.AspectRatio, 1e-9)
		assert.Positive(t, meta.SizeBytes)
		assert.Equal(t, 12, loaded.Bounds().Dx())
	}
}

func TestSaveImageUnsupportedExtension(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	err := SaveImage(img, filepath.Join(t.TempDir(), "out.tiff"), 92)
	require.Error(t, err)
}

func TestImageProcessingErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := &ImageProcessingError{Operation: "decode", Err: inner}
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "decode")
}
