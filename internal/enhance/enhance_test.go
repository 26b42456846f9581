package enhance

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bimodal builds a half-dark, half-bright grayscale image.
func bimodal(w, h int, lo, hi uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x < w/2 {
				img.Pix[y*w+x] = lo
			} else {
				img.Pix[y*w+x] = hi
			}
		}
	}
	return img
}

func TestOtsuThreshold_SeparatesModes(t *testing.T) {
	img := bimodal(40, 20, 30, 220)
	thr := OtsuThreshold(img)
	assert.Greater(t, thr, uint8(30))
	assert.Less(t, thr, uint8(220))
}

func TestOtsuThreshold_EmptyImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 0, 0))
	assert.Equal(t, uint8(128), OtsuThreshold(img))
}

func TestBinarize(t *testing.T) {
	img := bimodal(10, 4, 30, 220)
	out := Binarize(img, 100)
	assert.Equal(t, uint8(0), out.Pix[0])
	assert.Equal(t, uint8(255), out.Pix[9])
}

func TestAdaptiveThreshold_TextOnPage(t *testing.T) {
	// Bright page with a dark stroke.
	img := image.NewGray(image.Rect(0, 0, 40, 40))
	for i := range img.Pix {
		img.Pix[i] = 220
	}
	for x := 10; x < 30; x++ {
		img.Pix[20*40+x] = 40
	}

	out := AdaptiveThreshold(img, 11, 2)
	// Stroke goes black, page body stays white.
	assert.Equal(t, uint8(0), out.Pix[20*40+20])
	assert.Equal(t, uint8(255), out.Pix[5*40+5])
}

func TestAdaptiveThreshold_UniformImageAllWhite(t *testing.T) {
	// With C > 0 every pixel sits above (mean - C).
	img := image.NewGray(image.Rect(0, 0, 20, 20))
	for i := range img.Pix {
		img.Pix[i] = 128
	}
	out := AdaptiveThreshold(img, 11, 2)
	for _, p := range out.Pix {
		assert.Equal(t, uint8(255), p)
	}
}

func TestSharpen_PreservesFlatRegionsAndBorders(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 10, 10))
	for i := range img.Pix {
		img.Pix[i] = 100
	}
	out := Sharpen(img)
	for _, p := range out.Pix {
		assert.Equal(t, uint8(100), p)
	}
}

func TestSharpen_BoostsContrast(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 11, 11))
	for i := range img.Pix {
		img.Pix[i] = 100
	}
	img.Pix[5*11+5] = 200
	out := Sharpen(img)
	assert.Equal(t, uint8(255), out.Pix[5*11+5]) // clamped overshoot
	assert.Less(t, out.Pix[5*11+4], uint8(100))  // undershoot beside it
}

func TestApply_Methods(t *testing.T) {
	img := bimodal(30, 30, 40, 210)

	require.NotNil(t, Apply(img, Config{Method: MethodOtsu}))
	require.NotNil(t, Apply(img, Config{Method: MethodSharpen}))

	out := Apply(img, DefaultConfig())
	require.NotNil(t, out)
	assert.Equal(t, 30, out.Rect.Dx())
}

func TestApply_FixesInvalidBlockSize(t *testing.T) {
	img := bimodal(20, 20, 40, 210)
	// Even and tiny block sizes are corrected, not rejected.
	assert.NotNil(t, Apply(img, Config{Method: MethodAdaptive, BlockSize: 4}))
	assert.NotNil(t, Apply(img, Config{Method: MethodAdaptive, BlockSize: 0}))
}
