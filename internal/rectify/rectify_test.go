package rectify

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/descan/internal/utils"
)

func testScene(w, h int, corners [4]utils.Point) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{30, 30, 30, 255})
		}
	}
	utils.FillPolygon(img, corners[:], color.RGBA{235, 235, 235, 255})
	return img
}

func TestRectify_Success(t *testing.T) {
	corners := [4]utils.Point{
		{X: 100, Y: 100}, {X: 900, Y: 120}, {X: 880, Y: 700}, {X: 90, Y: 680},
	}
	img := testScene(1000, 800, corners)
	boundary := make([]utils.Point, 0, 200)
	for i := 0; i < 4; i++ {
		a := corners[i]
		b := corners[(i+1)%4]
		for s := 0; s < 50; s++ {
			t := float64(s) / 50
			boundary = append(boundary, utils.Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t})
		}
	}

	res, err := Rectify(img, [][]utils.Point{boundary}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, StateRectified, res.State)
	assert.Equal(t, 800, res.Image.Rect.Dx())
	assert.Equal(t, 580, res.Image.Rect.Dy())
	assert.Equal(t, utils.Point{X: 100, Y: 100}, res.Corners.TL)

	// The rectified raster is the bright page, not the dark surroundings.
	center := res.Image.RGBAAt(400, 290)
	assert.Greater(t, center.R, uint8(200))

	// The forward homography maps the detected TL corner to the output origin.
	x, y := res.Homography.Apply(res.Corners.TL.X, res.Corners.TL.Y)
	assert.InDelta(t, 0, x, 1e-6)
	assert.InDelta(t, 0, y, 1e-6)
}

func TestRectify_EmptyBoundariesFallsBack(t *testing.T) {
	img := testScene(200, 100, [4]utils.Point{{X: 10, Y: 10}, {X: 190, Y: 10}, {X: 190, Y: 90}, {X: 10, Y: 90}})

	res, err := Rectify(img, nil, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, StateFallbackFullImage, res.State)
	assert.Equal(t, 200, res.Image.Rect.Dx())
	assert.Equal(t, 100, res.Image.Rect.Dy())
	assert.Equal(t, Identity(), res.Homography)
	assert.Equal(t, FullImageQuad(200, 100), res.Corners)
	// Pixel-for-pixel copy of the input.
	assert.Equal(t, img.Pix, res.Image.Pix)
}

func TestRectify_FallbackCopyIsIndependent(t *testing.T) {
	img := testScene(50, 50, [4]utils.Point{{X: 5, Y: 5}, {X: 45, Y: 5}, {X: 45, Y: 45}, {X: 5, Y: 45}})
	res, err := Rectify(img, nil, DefaultOptions())
	require.NoError(t, err)

	res.Image.SetRGBA(0, 0, color.RGBA{255, 0, 0, 255})
	assert.NotEqual(t, img.RGBAAt(0, 0), res.Image.RGBAAt(0, 0))
}

func TestRectify_NoValidQuadFallsBack(t *testing.T) {
	img := testScene(200, 100, [4]utils.Point{{X: 10, Y: 10}, {X: 190, Y: 10}, {X: 190, Y: 90}, {X: 10, Y: 90}})
	// Only a triangle boundary: no quadrilateral candidate.
	tri := []utils.Point{{X: 20, Y: 20}, {X: 180, Y: 25}, {X: 100, Y: 80}}

	res, err := Rectify(img, [][]utils.Point{tri}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, StateFallbackFullImage, res.State)
}

func TestRectify_NilImage(t *testing.T) {
	_, err := Rectify(nil, nil, DefaultOptions())
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRectify_ZeroSizeImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 0, 0))
	_, err := Rectify(img, nil, DefaultOptions())
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRectify_ZeroValueOptionsUseDefaults(t *testing.T) {
	img := testScene(100, 100, [4]utils.Point{{X: 5, Y: 5}, {X: 95, Y: 5}, {X: 95, Y: 95}, {X: 5, Y: 95}})
	res, err := Rectify(img, nil, Options{})
	require.NoError(t, err)
	assert.Equal(t, StateFallbackFullImage, res.State)
}
