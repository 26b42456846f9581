package preprocess

import "image"

// Binary morphology over 0/255 grayscale masks with a square kernel.

// Dilate expands foreground (255) regions by the given kernel size.
func Dilate(bin *image.Gray, kernelSize int) *image.Gray {
	return morph(bin, kernelSize, true)
}

// Erode shrinks foreground (255) regions by the given kernel size.
func Erode(bin *image.Gray, kernelSize int) *image.Gray {
	return morph(bin, kernelSize, false)
}

// Open erodes then dilates, removing small foreground noise.
func Open(bin *image.Gray, kernelSize int) *image.Gray {
	return Dilate(Erode(bin, kernelSize), kernelSize)
}

// Close dilates then erodes, filling small gaps in the foreground.
func Close(bin *image.Gray, kernelSize int) *image.Gray {
	return Erode(Dilate(bin, kernelSize), kernelSize)
}

func morph(bin *image.Gray, kernelSize int, dilate bool) *image.Gray {
	if kernelSize <= 1 {
		return bin
	}
	w := bin.Rect.Dx()
	h := bin.Rect.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	half := kernelSize / 2

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if scanKernel(bin, w, h, x, y, half, dilate) {
				out.Pix[y*w+x] = 255
			}
		}
	}
	return out
}

// scanKernel reports whether the output pixel is foreground: for dilation,
// any kernel pixel being foreground suffices; for erosion, every kernel
// pixel must be foreground (pixels beyond the border count as background).
func scanKernel(bin *image.Gray, w, h, x, y, half int, dilate bool) bool {
	for ky := -half; ky <= half; ky++ {
		for kx := -half; kx <= half; kx++ {
			nx, ny := x+kx, y+ky
			inside := nx >= 0 && nx < w && ny >= 0 && ny < h
			fg := inside && bin.Pix[bin.PixOffset(bin.Rect.Min.X+nx, bin.Rect.Min.Y+ny)] >= 128
			if dilate && fg {
				return true
			}
			if !dilate && !fg {
				return false
			}
		}
	}
	return !dilate
}
