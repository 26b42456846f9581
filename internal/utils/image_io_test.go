package utils

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.png")

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	img.SetRGBA(3, 3, color.RGBA{200, 100, 50, 255})
	require.NoError(t, SaveImage(path, img))
	assert.True(t, ImageExists(path))

	loaded, err := LoadImage(path)
	require.NoError(t, err)
	assert.Equal(t, 8, loaded.Bounds().Dx())
	r, g, b, _ := loaded.At(3, 3).RGBA()
	assert.Equal(t, uint32(200), r>>8)
	assert.Equal(t, uint32(100), g>>8)
	assert.Equal(t, uint32(50), b>>8)
}

func TestLoadImage_Missing(t *testing.T) {
	_, err := LoadImage(filepath.Join(t.TempDir(), "nope.png"))
	assert.Error(t, err)
}

func TestSaveImage_Nil(t *testing.T) {
	err := SaveImage(filepath.Join(t.TempDir(), "x.png"), nil)
	assert.Error(t, err)
}

func TestImageExists(t *testing.T) {
	assert.False(t, ImageExists(filepath.Join(t.TempDir(), "missing.png")))
}
