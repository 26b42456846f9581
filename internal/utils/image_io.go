package utils

import (
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
)

// LoadImage loads an image from disk. Format is detected from the content;
// PNG, JPEG, GIF, TIFF and BMP are supported.
func LoadImage(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load image %s: %w", path, err)
	}
	return img, nil
}

// SaveImage writes an image to disk. The format is chosen from the file
// extension (.png, .jpg, .jpeg, .gif, .tif, .bmp).
func SaveImage(path string, img image.Image) error {
	if img == nil {
		return &ImageProcessingError{Operation: "save", Err: fmt.Errorf("nil image for %s", path)}
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save image %s: %w", path, err)
	}
	return nil
}

// ImageExists reports whether path exists and is a regular file.
func ImageExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.Mode().IsRegular()
}
