package preprocess

import (
	"image"
	"math"
)

// Canny performs edge detection on a grayscale image: Sobel gradients,
// non-maximum suppression along the quantized gradient direction, and
// double-threshold hysteresis. Pixels stronger than high seed edges; pixels
// between low and high survive only when connected to a seed. The result
// is binary (0 or 255).
func Canny(gray *image.Gray, low, high float64) *image.Gray {
	w := gray.Rect.Dx()
	h := gray.Rect.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	if w < 3 || h < 3 {
		return out
	}
	if high < low {
		low, high = high, low
	}

	mag, dir := sobel(gray, w, h)
	thin := nonMaxSuppress(mag, dir, w, h)
	hysteresis(thin, out.Pix, w, h, low, high)
	return out
}

// sobel computes the gradient magnitude and a direction sector (0..3:
// horizontal, 45°, vertical, 135°) per pixel. Border pixels stay zero.
func sobel(gray *image.Gray, w, h int) ([]float64, []uint8) {
	mag := make([]float64, w*h)
	dir := make([]uint8, w*h)
	px := func(x, y int) float64 {
		return float64(gray.Pix[gray.PixOffset(gray.Rect.Min.X+x, gray.Rect.Min.Y+y)])
	}
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			gx := -px(x-1, y-1) + px(x+1, y-1) +
				-2*px(x-1, y) + 2*px(x+1, y) +
				-px(x-1, y+1) + px(x+1, y+1)
			gy := -px(x-1, y-1) - 2*px(x, y-1) - px(x+1, y-1) +
				px(x-1, y+1) + 2*px(x, y+1) + px(x+1, y+1)
			i := y*w + x
			mag[i] = math.Hypot(gx, gy)
			dir[i] = sector(gx, gy)
		}
	}
	return mag, dir
}

// sector quantizes the gradient angle into four direction bins.
func sector(gx, gy float64) uint8 {
	ang := math.Atan2(gy, gx) * 180 / math.Pi
	if ang < 0 {
		ang += 180
	}
	switch {
	case ang < 22.5 || ang >= 157.5:
		return 0 // gradient horizontal, edge vertical
	case ang < 67.5:
		return 1
	case ang < 112.5:
		return 2
	default:
		return 3
	}
}

// nonMaxSuppress keeps only pixels that are local maxima along their
// gradient direction, thinning edges to single-pixel ridges.
func nonMaxSuppress(mag []float64, dir []uint8, w, h int) []float64 {
	out := make([]float64, w*h)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			m := mag[i]
			if m == 0 {
				continue
			}
			var a, b float64
			switch dir[i] {
			case 0:
				a, b = mag[i-1], mag[i+1]
			case 1:
				a, b = mag[i-w+1], mag[i+w-1]
			case 2:
				a, b = mag[i-w], mag[i+w]
			default:
				a, b = mag[i-w-1], mag[i+w+1]
			}
			if m >= a && m >= b {
				out[i] = m
			}
		}
	}
	return out
}

// hysteresis seeds from strong pixels and grows through weak neighbors,
// writing 255 into pix for every accepted edge pixel.
func hysteresis(mag []float64, pix []uint8, w, h int, low, high float64) {
	stack := make([]int, 0, w+h)
	for i, m := range mag {
		if m >= high && pix[i] == 0 {
			pix[i] = 255
			stack = append(stack, i)
			stack = growEdges(mag, pix, stack, w, h, low)
		}
	}
}

func growEdges(mag []float64, pix []uint8, stack []int, w, h int, low float64) []int {
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		cx, cy := i%w, i/w
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := cx+dx, cy+dy
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				ni := ny*w + nx
				if pix[ni] == 0 && mag[ni] >= low {
					pix[ni] = 255
					stack = append(stack, ni)
				}
			}
		}
	}
	return stack
}
