// Package enhance post-processes a rectified document raster into a clean
// scan: adaptive or global (Otsu) binarization, or mild sharpening.
package enhance

import (
	"image"
	"math"

	"github.com/MeKo-Tech/descan/internal/utils"
)

// Method selects the enhancement applied after rectification.
type Method string

const (
	// MethodAdaptive binarizes with a Gaussian-weighted local mean.
	MethodAdaptive Method = "adaptive"
	// MethodOtsu binarizes with a global Otsu threshold.
	MethodOtsu Method = "otsu"
	// MethodSharpen applies a 3x3 sharpening kernel without binarizing.
	MethodSharpen Method = "sharpen"
)

// Config holds enhancement parameters.
type Config struct {
	Method Method
	// BlockSize is the adaptive-threshold window side; must be odd.
	BlockSize int
	// C is subtracted from the local weighted mean before comparison.
	C float64
}

// DefaultConfig matches the classic document-scan look.
func DefaultConfig() Config {
	return Config{Method: MethodAdaptive, BlockSize: 11, C: 2}
}

// Apply runs the configured enhancement on the image and returns an 8-bit
// grayscale result.
func Apply(img image.Image, cfg Config) *image.Gray {
	gray := utils.ToGray(img)
	switch cfg.Method {
	case MethodOtsu:
		return Binarize(gray, OtsuThreshold(gray))
	case MethodSharpen:
		return Sharpen(gray)
	default:
		block := cfg.BlockSize
		if block < 3 {
			block = 11
		}
		if block%2 == 0 {
			block++
		}
		return AdaptiveThreshold(gray, block, cfg.C)
	}
}

// AdaptiveThreshold binarizes with a per-pixel threshold equal to the
// Gaussian-weighted mean of the surrounding block minus c. Pixels above the
// threshold become white.
func AdaptiveThreshold(gray *image.Gray, blockSize int, c float64) *image.Gray {
	w := gray.Rect.Dx()
	h := gray.Rect.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	half := blockSize / 2
	kernel := gaussianKernel(blockSize)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			mean := weightedMean(gray, kernel, w, h, x, y, half)
			v := float64(gray.Pix[gray.PixOffset(gray.Rect.Min.X+x, gray.Rect.Min.Y+y)])
			if v > mean-c {
				out.Pix[y*w+x] = 255
			}
		}
	}
	return out
}

func weightedMean(gray *image.Gray, kernel []float64, w, h, x, y, half int) float64 {
	size := 2*half + 1
	sum := 0.0
	weight := 0.0
	for ky := -half; ky <= half; ky++ {
		for kx := -half; kx <= half; kx++ {
			nx, ny := x+kx, y+ky
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				continue
			}
			k := kernel[(ky+half)*size+(kx+half)]
			sum += k * float64(gray.Pix[gray.PixOffset(gray.Rect.Min.X+nx, gray.Rect.Min.Y+ny)])
			weight += k
		}
	}
	if weight == 0 {
		return 0
	}
	return sum / weight
}

// gaussianKernel builds a normalized square Gaussian kernel with sigma
// derived from the block size the way OpenCV does for its Gaussian windows.
func gaussianKernel(size int) []float64 {
	sigma := 0.3*(float64(size-1)*0.5-1) + 0.8
	half := size / 2
	k := make([]float64, size*size)
	sum := 0.0
	for y := -half; y <= half; y++ {
		for x := -half; x <= half; x++ {
			v := math.Exp(-float64(x*x+y*y) / (2 * sigma * sigma))
			k[(y+half)*size+(x+half)] = v
			sum += v
		}
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

// OtsuThreshold computes the global threshold maximizing between-class
// variance of the grayscale histogram.
func OtsuThreshold(gray *image.Gray) uint8 {
	var hist [256]int
	total := 0
	for y := gray.Rect.Min.Y; y < gray.Rect.Max.Y; y++ {
		row := gray.PixOffset(gray.Rect.Min.X, y)
		for x := 0; x < gray.Rect.Dx(); x++ {
			hist[gray.Pix[row+x]]++
			total++
		}
	}
	if total == 0 {
		return 128
	}

	var totalSum float64
	for i, n := range hist {
		totalSum += float64(i) * float64(n)
	}

	var sumB float64
	wB := 0
	best := 0
	var maxVariance float64
	for t := 0; t < 256; t++ {
		wB += hist[t]
		if wB == 0 {
			continue
		}
		wF := total - wB
		if wF == 0 {
			break
		}
		sumB += float64(t) * float64(hist[t])
		meanB := sumB / float64(wB)
		meanF := (totalSum - sumB) / float64(wF)
		variance := float64(wB) * float64(wF) * (meanB - meanF) * (meanB - meanF)
		if variance > maxVariance {
			maxVariance = variance
			best = t
		}
	}
	return uint8(best)
}

// Binarize maps pixels above thr to white and the rest to black.
func Binarize(gray *image.Gray, thr uint8) *image.Gray {
	w := gray.Rect.Dx()
	h := gray.Rect.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		row := gray.PixOffset(gray.Rect.Min.X, gray.Rect.Min.Y+y)
		for x := 0; x < w; x++ {
			if gray.Pix[row+x] > thr {
				out.Pix[y*w+x] = 255
			}
		}
	}
	return out
}

// Sharpen applies the classic 3x3 kernel (center 9, neighbors -1), clamping
// to the 0..255 range. Border pixels are copied unchanged.
func Sharpen(gray *image.Gray) *image.Gray {
	w := gray.Rect.Dx()
	h := gray.Rect.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	px := func(x, y int) int {
		return int(gray.Pix[gray.PixOffset(gray.Rect.Min.X+x, gray.Rect.Min.Y+y)])
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x == 0 || y == 0 || x == w-1 || y == h-1 {
				out.Pix[y*w+x] = uint8(px(x, y))
				continue
			}
			v := 9*px(x, y) -
				px(x-1, y-1) - px(x, y-1) - px(x+1, y-1) -
				px(x-1, y) - px(x+1, y) -
				px(x-1, y+1) - px(x, y+1) - px(x+1, y+1)
			if v < 0 {
				v = 0
			}
			if v > 255 {
				v = 255
			}
			out.Pix[y*w+x] = uint8(v)
		}
	}
	return out
}
