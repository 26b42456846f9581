package utils

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFillPolygon_Rectangle(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	white := color.RGBA{255, 255, 255, 255}
	FillPolygon(img, []Point{{5, 5}, {15, 5}, {15, 15}, {5, 15}}, white)

	assert.Equal(t, white, img.RGBAAt(10, 10))
	assert.Equal(t, white, img.RGBAAt(6, 6))
	assert.Equal(t, color.RGBA{}, img.RGBAAt(2, 2))
	assert.Equal(t, color.RGBA{}, img.RGBAAt(18, 18))
}

func TestFillPolygon_Triangle(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	white := color.RGBA{255, 255, 255, 255}
	FillPolygon(img, []Point{{0, 0}, {19, 0}, {0, 19}}, white)

	assert.Equal(t, white, img.RGBAAt(2, 2))
	assert.Equal(t, color.RGBA{}, img.RGBAAt(18, 18))
}

func TestDrawPolygon_ClosesOutline(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	red := color.RGBA{255, 0, 0, 255}
	DrawPolygon(img, []Point{{2, 2}, {17, 2}, {17, 17}, {2, 17}}, red, 1)

	// All four sides touched, including the closing edge back to the start.
	assert.Equal(t, red, img.RGBAAt(10, 2))
	assert.Equal(t, red, img.RGBAAt(17, 10))
	assert.Equal(t, red, img.RGBAAt(10, 17))
	assert.Equal(t, red, img.RGBAAt(2, 10))
	// Interior untouched.
	assert.Equal(t, color.RGBA{}, img.RGBAAt(10, 10))
}

func TestDrawRect(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	blue := color.RGBA{0, 0, 255, 255}
	DrawRect(img, image.Rect(1, 1, 9, 9), blue, 1)

	assert.Equal(t, blue, img.RGBAAt(1, 5))
	assert.Equal(t, color.RGBA{}, img.RGBAAt(5, 5))
}
