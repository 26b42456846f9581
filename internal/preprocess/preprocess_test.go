package preprocess

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownscale_BoundsLargerSide(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3000, 1500))
	out, err := Downscale(img, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 1000, out.Bounds().Dx())
	assert.Equal(t, 500, out.Bounds().Dy())
}

func TestDownscale_Disabled(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3000, 1500))
	cfg := DefaultConfig()
	cfg.MaxDimension = 0
	out, err := Downscale(img, cfg)
	require.NoError(t, err)
	assert.Equal(t, 3000, out.Bounds().Dx())
}

func TestGrayscale(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.SetRGBA(2, 2, color.RGBA{255, 255, 255, 255})
	gray := Grayscale(img)
	assert.Equal(t, uint8(255), gray.GrayAt(2, 2).Y)
}

func TestGaussianBlur_ZeroSigmaPassthrough(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 4, 4))
	assert.Same(t, gray, GaussianBlur(gray, 0))
}

func TestGaussianBlur_Smooths(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 11, 11))
	gray.Pix[5*11+5] = 255
	out := GaussianBlur(gray, 1.5)
	assert.Less(t, out.Pix[5*11+5], uint8(255))
	assert.Positive(t, out.Pix[5*11+4])
}

func TestEdgeMap_FindsPageOutline(t *testing.T) {
	// Bright page on dark background.
	img := image.NewRGBA(image.Rect(0, 0, 200, 160))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.RGBA{25, 25, 25, 255}}, image.Point{}, draw.Src)
	page := image.Rect(40, 30, 160, 130)
	draw.Draw(img, page, &image.Uniform{color.RGBA{230, 230, 230, 255}}, image.Point{}, draw.Src)

	edges := EdgeMap(img, DefaultConfig())
	require.Equal(t, 200, edges.Rect.Dx())

	onNearBorder := 0
	onInterior := 0
	for y := 0; y < 160; y++ {
		for x := 0; x < 200; x++ {
			if edges.Pix[y*200+x] != 255 {
				continue
			}
			if x > 50 && x < 150 && y > 40 && y < 120 {
				onInterior++
			} else {
				onNearBorder++
			}
		}
	}
	assert.Positive(t, onNearBorder, "page outline should produce edges")
	assert.Zero(t, onInterior, "page interior should stay flat")
}
