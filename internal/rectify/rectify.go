// Package rectify implements the geometric core of the document scanner:
// quadrilateral selection, corner ordering, homography estimation and
// perspective resampling. It is pure computation, free of I/O, and each
// call is independent and re-entrant.
package rectify

import (
	"fmt"
	"image"

	"github.com/MeKo-Tech/descan/internal/utils"
)

// State records how far a rectification request progressed.
type State string

const (
	// StateSearching is the initial state while candidate boundaries are
	// examined. It never appears in a final Result.
	StateSearching State = "searching"
	// StateCornersFound means a document quadrilateral was selected and
	// ordered. It never appears in a final Result.
	StateCornersFound State = "corners_found"
	// StateRectified is the terminal success state: the output raster was
	// resampled through the computed homography.
	StateRectified State = "rectified"
	// StateFallbackFullImage is the terminal degraded state: no usable
	// quadrilateral (or a degenerate homography) was found, and the full
	// image corners stand in for the document.
	StateFallbackFullImage State = "fallback_full_image"
)

// Options control quadrilateral selection and resampling.
type Options struct {
	// MinAreaFraction is the minimum quadrilateral area as a fraction of
	// the image area. Small enough to catch partially framed documents,
	// large enough to suppress clutter.
	MinAreaFraction float64
	// ApproxEpsilonFraction scales the Douglas-Peucker tolerance by each
	// candidate polygon's own perimeter.
	ApproxEpsilonFraction float64
	// MaxCandidates caps how many area-ranked contours are examined.
	MaxCandidates int
	// Interpolation selects the resampling kernel.
	Interpolation Interpolation
}

// DefaultOptions returns the standard document-scanning parameters.
func DefaultOptions() Options {
	return Options{
		MinAreaFraction:       0.10,
		ApproxEpsilonFraction: 0.02,
		MaxCandidates:         10,
		Interpolation:         InterpBilinear,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MinAreaFraction <= 0 {
		o.MinAreaFraction = d.MinAreaFraction
	}
	if o.ApproxEpsilonFraction <= 0 {
		o.ApproxEpsilonFraction = d.ApproxEpsilonFraction
	}
	if o.MaxCandidates <= 0 {
		o.MaxCandidates = d.MaxCandidates
	}
	if o.Interpolation != InterpNearest {
		o.Interpolation = InterpBilinear
	}
	return o
}

// Result holds the outcome of a rectification request. Image is always
// non-nil: on fallback it is an unmodified copy of the input and the
// homography is the identity.
type Result struct {
	Image      *image.RGBA
	Homography Homography
	Corners    OrderedQuad
	State      State
}

// Rectify locates the document quadrilateral among the supplied closed
// boundaries, orders its corners, estimates the projective transform onto
// an axis-aligned rectangle sized by the measured edge lengths, and
// resamples the image through it.
//
// Ordinary detection failure (no quadrilateral, degenerate geometry) is
// recovered by returning the full input with StateFallbackFullImage and no
// error. Only contract violations (nil or zero-sized image) return an error.
func Rectify(img image.Image, boundaries [][]utils.Point, opts Options) (*Result, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidInput)
	}
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: image %dx%d", ErrInvalidInput, width, height)
	}
	opts = opts.withDefaults()

	quad, err := FindDocumentQuad(boundaries, width, height, opts)
	if err != nil {
		return fallbackResult(img, width, height), nil
	}

	ordered, err := OrderCorners(quad[:])
	if err != nil {
		return nil, err
	}

	dstW, dstH := ordered.OutputSize()
	h, err := ComputeHomography(ordered.Corners(), rectCorners(dstW, dstH))
	if err != nil {
		// Degenerate geometry degrades to the full image, same as
		// not finding a quadrilateral at all.
		return fallbackResult(img, width, height), nil
	}

	out, err := WarpPerspective(img, h, dstW, dstH, opts.Interpolation)
	if err != nil {
		return fallbackResult(img, width, height), nil
	}

	return &Result{
		Image:      out,
		Homography: h,
		Corners:    ordered,
		State:      StateRectified,
	}, nil
}

// rectCorners returns the canonical destination rectangle corners
// (0,0), (W-1,0), (W-1,H-1), (0,H-1).
func rectCorners(w, h int) [4]utils.Point {
	fw := float64(w - 1)
	fh := float64(h - 1)
	return [4]utils.Point{
		{X: 0, Y: 0},
		{X: fw, Y: 0},
		{X: fw, Y: fh},
		{X: 0, Y: fh},
	}
}

func fallbackResult(img image.Image, width, height int) *Result {
	return &Result{
		Image:      utils.CloneRGBA(img),
		Homography: Identity(),
		Corners:    FullImageQuad(width, height),
		State:      StateFallbackFullImage,
	}
}
