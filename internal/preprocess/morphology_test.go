package preprocess

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func maskWith(w, h int, on [][2]int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for _, p := range on {
		img.Pix[p[1]*w+p[0]] = 255
	}
	return img
}

func countOn(img *image.Gray) int {
	n := 0
	for _, p := range img.Pix {
		if p == 255 {
			n++
		}
	}
	return n
}

func TestDilate_GrowsSinglePixel(t *testing.T) {
	img := maskWith(9, 9, [][2]int{{4, 4}})
	out := Dilate(img, 3)
	assert.Equal(t, 9, countOn(out))
	assert.Equal(t, uint8(255), out.Pix[3*9+3])
	assert.Equal(t, uint8(255), out.Pix[5*9+5])
	assert.Equal(t, uint8(0), out.Pix[2*9+2])
}

func TestErode_RemovesSinglePixel(t *testing.T) {
	img := maskWith(9, 9, [][2]int{{4, 4}})
	out := Erode(img, 3)
	assert.Equal(t, 0, countOn(out))
}

func TestErode_ShrinksBlock(t *testing.T) {
	var on [][2]int
	for y := 2; y <= 6; y++ {
		for x := 2; x <= 6; x++ {
			on = append(on, [2]int{x, y})
		}
	}
	img := maskWith(9, 9, on)
	out := Erode(img, 3)
	// 5x5 block erodes to 3x3.
	assert.Equal(t, 9, countOn(out))
	assert.Equal(t, uint8(255), out.Pix[4*9+4])
	assert.Equal(t, uint8(0), out.Pix[2*9+2])
}

func TestErode_BorderCountsAsBackground(t *testing.T) {
	var on [][2]int
	for y := 0; y < 9; y++ {
		for x := 0; x < 9; x++ {
			on = append(on, [2]int{x, y})
		}
	}
	img := maskWith(9, 9, on)
	out := Erode(img, 3)
	// Fully-on mask loses its one-pixel border.
	assert.Equal(t, 49, countOn(out))
	assert.Equal(t, uint8(0), out.Pix[0])
	assert.Equal(t, uint8(255), out.Pix[4*9+4])
}

func TestOpen_RemovesSpeck(t *testing.T) {
	var on [][2]int
	for y := 2; y <= 6; y++ {
		for x := 2; x <= 6; x++ {
			on = append(on, [2]int{x, y})
		}
	}
	on = append(on, [2]int{0, 8}) // isolated speck
	img := maskWith(9, 9, on)
	out := Open(img, 3)
	assert.Equal(t, uint8(0), out.Pix[8*9+0])
	assert.Equal(t, uint8(255), out.Pix[4*9+4])
}

func TestClose_FillsGap(t *testing.T) {
	var on [][2]int
	for y := 2; y <= 6; y++ {
		for x := 2; x <= 6; x++ {
			if x == 4 && y == 4 {
				continue // hole
			}
			on = append(on, [2]int{x, y})
		}
	}
	img := maskWith(9, 9, on)
	out := Close(img, 3)
	assert.Equal(t, uint8(255), out.Pix[4*9+4])
}

func TestMorph_KernelOnePassthrough(t *testing.T) {
	img := maskWith(5, 5, [][2]int{{2, 2}})
	assert.Same(t, img, Dilate(img, 1))
	assert.Same(t, img, Erode(img, 0))
}
