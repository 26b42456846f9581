// Package preprocess prepares a photographed page for boundary detection:
// downscaling, grayscale conversion, Gaussian blur, Canny edge detection
// and binary morphology.
package preprocess

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/MeKo-Tech/descan/internal/utils"
)

// Config holds the preprocessing parameters.
type Config struct {
	// MaxDimension bounds the larger image side before detection; larger
	// inputs are downscaled. 0 disables downscaling.
	MaxDimension int
	// BlurSigma is the Gaussian blur radius applied before edge detection.
	BlurSigma float64
	// CannyLow and CannyHigh are the hysteresis thresholds on the Sobel
	// gradient magnitude.
	CannyLow  float64
	CannyHigh float64
	// DilateKernel is the square kernel size used to close edge gaps
	// after Canny. 0 or 1 disables dilation.
	DilateKernel int
}

// DefaultConfig returns the standard document-scanning parameters.
func DefaultConfig() Config {
	return Config{
		MaxDimension: 1000,
		BlurSigma:    1.0,
		CannyLow:     50,
		CannyHigh:    150,
		DilateKernel: 5,
	}
}

// Downscale shrinks the image so its larger side does not exceed
// cfg.MaxDimension, preserving aspect ratio. Smaller images pass through.
func Downscale(img image.Image, cfg Config) (image.Image, error) {
	if cfg.MaxDimension <= 0 {
		return img, nil
	}
	return utils.ResizeToMax(img, cfg.MaxDimension)
}

// Grayscale converts the image to 8-bit luminance.
func Grayscale(img image.Image) *image.Gray {
	return utils.ToGray(img)
}

// GaussianBlur smooths the grayscale image for noise suppression before
// gradient computation.
func GaussianBlur(gray *image.Gray, sigma float64) *image.Gray {
	if sigma <= 0 {
		return gray
	}
	return utils.ToGray(imaging.Blur(gray, sigma))
}

// EdgeMap runs the full chain on an already-downscaled image: grayscale,
// blur, Canny, dilation. The result is a binary edge image (0 or 255).
func EdgeMap(img image.Image, cfg Config) *image.Gray {
	gray := Grayscale(img)
	blurred := GaussianBlur(gray, cfg.BlurSigma)
	edges := Canny(blurred, cfg.CannyLow, cfg.CannyHigh)
	if cfg.DilateKernel > 1 {
		edges = Dilate(edges, cfg.DilateKernel)
	}
	return edges
}
