package rectify

import (
	"fmt"
	"image"
	"image/color"

	"github.com/MeKo-Tech/descan/internal/utils"
)

// Interpolation selects the resampling kernel used by WarpPerspective.
type Interpolation string

const (
	// InterpBilinear averages the four nearest source pixels.
	InterpBilinear Interpolation = "bilinear"
	// InterpNearest snaps to the nearest source pixel.
	InterpNearest Interpolation = "nearest"
)

// backgroundFill is the value written for destination pixels whose
// inverse-mapped source coordinate falls outside the source raster.
var backgroundFill = color.RGBA{0, 0, 0, 255}

// WarpPerspective resamples src through the inverse of h into a new
// dstW x dstH raster. h must map source coordinates to destination
// coordinates; its inverse is computed once, outside the pixel loop.
// Destination pixels mapping outside the source are filled with black.
func WarpPerspective(src image.Image, h Homography, dstW, dstH int, interp Interpolation) (*image.RGBA, error) {
	if src == nil || dstW <= 0 || dstH <= 0 {
		return nil, fmt.Errorf("%w: warp target %dx%d", ErrInvalidInput, dstW, dstH)
	}
	inv, err := h.Invert()
	if err != nil {
		return nil, err
	}

	rgba := utils.ToRGBA(src)
	sw := rgba.Rect.Dx()
	sh := rgba.Rect.Dy()
	out := image.NewRGBA(image.Rect(0, 0, dstW, dstH))

	for v := 0; v < dstH; v++ {
		row := out.PixOffset(0, v)
		for u := 0; u < dstW; u++ {
			sx, sy := inv.Apply(float64(u), float64(v))
			var c color.RGBA
			if interp == InterpNearest {
				c = nearestSample(rgba, sw, sh, sx, sy)
			} else {
				c = bilinearSample(rgba, sw, sh, sx, sy)
			}
			o := row + u*4
			out.Pix[o] = c.R
			out.Pix[o+1] = c.G
			out.Pix[o+2] = c.B
			out.Pix[o+3] = c.A
		}
	}
	return out, nil
}

// nearestSample rounds to the closest pixel; out-of-bounds coordinates get
// the background fill.
func nearestSample(src *image.RGBA, w, h int, x, y float64) color.RGBA {
	xi := int(x + 0.5)
	yi := int(y + 0.5)
	if x < 0 || y < 0 || xi < 0 || yi < 0 || xi >= w || yi >= h {
		return backgroundFill
	}
	o := src.PixOffset(xi, yi)
	return color.RGBA{src.Pix[o], src.Pix[o+1], src.Pix[o+2], src.Pix[o+3]}
}

// bilinearSample blends the four integer pixels around (x, y); coordinates
// outside the source raster get the background fill.
func bilinearSample(src *image.RGBA, w, h int, x, y float64) color.RGBA {
	if x < 0 || y < 0 || x > float64(w-1) || y > float64(h-1) {
		return backgroundFill
	}
	x0 := int(x)
	y0 := int(y)
	x1 := x0 + 1
	y1 := y0 + 1
	if x1 >= w {
		x1 = w - 1
	}
	if y1 >= h {
		y1 = h - 1
	}
	fx := x - float64(x0)
	fy := y - float64(y0)

	o00 := src.PixOffset(x0, y0)
	o10 := src.PixOffset(x1, y0)
	o01 := src.PixOffset(x0, y1)
	o11 := src.PixOffset(x1, y1)

	var c color.RGBA
	c.R = blend(src.Pix[o00], src.Pix[o10], src.Pix[o01], src.Pix[o11], fx, fy)
	c.G = blend(src.Pix[o00+1], src.Pix[o10+1], src.Pix[o01+1], src.Pix[o11+1], fx, fy)
	c.B = blend(src.Pix[o00+2], src.Pix[o10+2], src.Pix[o01+2], src.Pix[o11+2], fx, fy)
	c.A = blend(src.Pix[o00+3], src.Pix[o10+3], src.Pix[o01+3], src.Pix[o11+3], fx, fy)
	return c
}

func blend(c00, c10, c01, c11 uint8, fx, fy float64) uint8 {
	top := lerp(float64(c00), float64(c10), fx)
	bot := lerp(float64(c01), float64(c11), fx)
	return uint8(lerp(top, bot, fy) + 0.5)
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }
