package pipeline

import (
	"image"
	"image/color"

	"github.com/MeKo-Tech/descan/internal/rectify"
	"github.com/MeKo-Tech/descan/internal/utils"
)

// Overlay draws the detected document quadrilateral onto a copy of the
// source image, corners marked, for visual inspection of a scan.
func Overlay(img image.Image, q rectify.OrderedQuad) *image.RGBA {
	canvas := utils.CloneRGBA(img)
	corners := q.Corners()
	utils.DrawPolygon(canvas, corners[:], color.RGBA{255, 0, 0, 255}, 2)
	for _, c := range corners {
		utils.DrawRect(canvas, image.Rect(int(c.X)-3, int(c.Y)-3, int(c.X)+4, int(c.Y)+4),
			color.RGBA{0, 0, 255, 255}, 2)
	}
	return canvas
}

// SideBySide places the source (with quad overlay) and the rectified output
// next to each other on one canvas.
func SideBySide(res *ScanResult) *image.RGBA {
	left := Overlay(res.Source, res.Corners)
	right := res.Scanned

	const gap = 10
	lb := left.Bounds()
	rb := right.Bounds()
	outW := lb.Dx() + gap + rb.Dx()
	outH := lb.Dy()
	if rb.Dy() > outH {
		outH = rb.Dy()
	}
	canvas := image.NewRGBA(image.Rect(0, 0, outW, outH))
	for y := 0; y < lb.Dy(); y++ {
		for x := 0; x < lb.Dx(); x++ {
			canvas.Set(x, y, left.At(lb.Min.X+x, lb.Min.Y+y))
		}
	}
	xoff := lb.Dx() + gap
	for y := 0; y < rb.Dy(); y++ {
		for x := 0; x < rb.Dx(); x++ {
			canvas.Set(xoff+x, y, right.At(rb.Min.X+x, rb.Min.Y+y))
		}
	}
	utils.DrawRect(canvas, image.Rect(xoff, 0, xoff+rb.Dx(), rb.Dy()), color.RGBA{0, 255, 0, 255}, 2)
	return canvas
}
