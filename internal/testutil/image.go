package testutil

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/MeKo-Tech/descan/internal/utils"
)

// SceneConfig describes a synthetic photograph of a document: a bright
// quadrilateral page on a dark background.
type SceneConfig struct {
	Width      int
	Height     int
	Corners    [4]utils.Point // page corners in TL, TR, BR, BL order
	Background color.Color
	Page       color.Color
}

// DefaultSceneConfig returns a skewed page filling most of a 1000x800 frame.
func DefaultSceneConfig() SceneConfig {
	return SceneConfig{
		Width:  1000,
		Height: 800,
		Corners: [4]utils.Point{
			{X: 100, Y: 100},
			{X: 900, Y: 120},
			{X: 880, Y: 700},
			{X: 90, Y: 680},
		},
		Background: color.RGBA{30, 30, 30, 255},
		Page:       color.RGBA{235, 235, 235, 255},
	}
}

// GenerateDocumentScene renders the configured page quadrilateral onto the
// background. The page/background contrast is strong enough for edge
// detection to recover the outline.
func GenerateDocumentScene(cfg SceneConfig) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	draw.Draw(img, img.Bounds(), &image.Uniform{cfg.Background}, image.Point{}, draw.Src)
	utils.FillPolygon(img, cfg.Corners[:], cfg.Page)
	return img
}

// GenerateDocumentSceneWithText renders a page and writes a few lines of
// text inside it so enhancement has structure to work on.
func GenerateDocumentSceneWithText(cfg SceneConfig) *image.RGBA {
	img := GenerateDocumentScene(cfg)
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{40, 40, 40, 255}),
		Face: basicfont.Face7x13,
	}
	lines := []string{
		"Lorem ipsum dolor sit amet",
		"consectetur adipiscing elit",
		"sed do eiusmod tempor",
		"incididunt ut labore",
	}
	for i, line := range lines {
		t := 0.25 + 0.12*float64(i)
		left := lerpPoint(cfg.Corners[0], cfg.Corners[3], t)
		right := lerpPoint(cfg.Corners[1], cfg.Corners[2], t)
		at := lerpPoint(left, right, 0.15)
		drawer.Dot = fixed.P(int(at.X), int(at.Y))
		drawer.DrawString(line)
	}
	return img
}

func lerpPoint(a, b utils.Point, t float64) utils.Point {
	return utils.Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}

// GenerateGradient returns a grayscale ramp, useful for interpolation tests.
func GenerateGradient(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8((x * 255) / max(width-1, 1))
			img.SetRGBA(x, y, color.RGBA{v, v, v, 255})
		}
	}
	return img
}

// SaveImage writes img as PNG, creating parent directories as needed.
func SaveImage(t *testing.T, img image.Image, path string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))

	file, err := os.Create(path) //nolint:gosec // G304: test file creation with controlled path
	require.NoError(t, err, "Failed to create file %s", path)
	defer func() {
		require.NoError(t, file.Close())
	}()

	require.NoError(t, png.Encode(file, img), "Failed to encode PNG image")
}

// LoadImage decodes the image at path, failing the test on error.
func LoadImage(t *testing.T, path string) image.Image {
	t.Helper()

	file, err := os.Open(path) //nolint:gosec // G304: test file reading with controlled path
	require.NoError(t, err, "Failed to open image file %s", path)
	defer func() { _ = file.Close() }()

	img, _, err := image.Decode(file)
	require.NoError(t, err, "Failed to decode image")

	return img
}

// CompareImages reports whether two images of equal bounds differ on average
// by no more than tolerance (0..1 of the full color range).
func CompareImages(img1, img2 image.Image, tolerance float64) bool {
	bounds1 := img1.Bounds()
	bounds2 := img2.Bounds()
	if bounds1 != bounds2 {
		return false
	}

	var totalDiff float64
	var pixelCount float64
	for y := bounds1.Min.Y; y < bounds1.Max.Y; y++ {
		for x := bounds1.Min.X; x < bounds1.Max.X; x++ {
			r1, g1, b1, a1 := img1.At(x, y).RGBA()
			r2, g2, b2, a2 := img2.At(x, y).RGBA()

			dr := float64(r1) - float64(r2)
			dg := float64(g1) - float64(g2)
			db := float64(b1) - float64(b2)
			da := float64(a1) - float64(a2)

			totalDiff += math.Sqrt(dr*dr + dg*dg + db*db + da*da)
			pixelCount++
		}
	}

	avgDiff := totalDiff / pixelCount
	maxDiff := math.Sqrt(4 * 65535 * 65535)
	return (avgDiff / maxDiff) <= tolerance
}

// MeanBrightness returns the average luminance of the image, 0..255.
func MeanBrightness(img image.Image) float64 {
	b := img.Bounds()
	var sum float64
	var n float64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bb, _ := img.At(x, y).RGBA()
			sum += (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(bb)) / 257.0
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / n
}
