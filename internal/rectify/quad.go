package rectify

import (
	"fmt"
	"math"
	"sort"

	"github.com/MeKo-Tech/descan/internal/utils"
)

// Quad is an unordered document quadrilateral as produced by polygon
// simplification. It must be passed through OrderCorners before any
// geometric use; the homography solver only accepts an OrderedQuad.
type Quad [4]utils.Point

// OrderedQuad holds the four document corners in canonical order.
type OrderedQuad struct {
	TL utils.Point
	TR utils.Point
	BR utils.Point
	BL utils.Point
}

// Corners returns the corners in canonical order (TL, TR, BR, BL), matching
// the winding of the destination rectangle used by the homography solver.
func (q OrderedQuad) Corners() [4]utils.Point {
	return [4]utils.Point{q.TL, q.TR, q.BR, q.BL}
}

// OutputSize computes the rectified raster dimensions that preserve the
// quadrilateral's true aspect ratio. Each dimension is the maximum of the
// two opposing edge lengths, so perspective foreshortening of one edge pair
// never under-crops the output. Results are floored and clamped to 1.
func (q OrderedQuad) OutputSize() (int, int) {
	width := math.Max(utils.Dist(q.TL, q.TR), utils.Dist(q.BL, q.BR))
	height := math.Max(utils.Dist(q.TL, q.BL), utils.Dist(q.TR, q.BR))
	w := int(width)
	h := int(height)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// OrderCorners produces the canonical (TL, TR, BR, BL) ordering of exactly
// four unordered points. TL minimizes x+y, BR maximizes it; TR minimizes
// y-x, BL maximizes it. The heuristic is reliable for convex quadrilaterals
// in roughly upright orientation and degrades past ~45° of rotation. Ties
// resolve to the first occurrence.
func OrderCorners(pts []utils.Point) (OrderedQuad, error) {
	if len(pts) != 4 {
		return OrderedQuad{}, fmt.Errorf("%w: need exactly 4 points, got %d", ErrInvalidInput, len(pts))
	}

	q := OrderedQuad{TL: pts[0], TR: pts[0], BR: pts[0], BL: pts[0]}
	minSum, maxSum := pts[0].X+pts[0].Y, pts[0].X+pts[0].Y
	minDiff, maxDiff := pts[0].Y-pts[0].X, pts[0].Y-pts[0].X
	for _, p := range pts[1:] {
		sum := p.X + p.Y
		diff := p.Y - p.X
		if sum < minSum {
			minSum = sum
			q.TL = p
		}
		if sum > maxSum {
			maxSum = sum
			q.BR = p
		}
		if diff < minDiff {
			minDiff = diff
			q.TR = p
		}
		if diff > maxDiff {
			maxDiff = diff
			q.BL = p
		}
	}
	return q, nil
}

// FindDocumentQuad selects the most plausible document boundary from a set
// of closed polygons. Candidates are ranked by enclosed area, capped to
// opts.MaxCandidates, simplified with Douglas–Peucker (epsilon proportional
// to each polygon's own perimeter), and the first simplification with
// exactly four vertices covering more than opts.MinAreaFraction of the
// image is accepted. Returns ErrNoQuadrilateral when nothing qualifies.
func FindDocumentQuad(boundaries [][]utils.Point, imgWidth, imgHeight int, opts Options) (Quad, error) {
	opts = opts.withDefaults()
	imgArea := float64(imgWidth) * float64(imgHeight)
	if imgArea <= 0 {
		return Quad{}, fmt.Errorf("%w: image area %dx%d", ErrInvalidInput, imgWidth, imgHeight)
	}

	candidates := make([][]utils.Point, 0, len(boundaries))
	for _, poly := range boundaries {
		if len(poly) < 3 {
			continue
		}
		candidates = append(candidates, poly)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return utils.PolygonArea(candidates[i]) > utils.PolygonArea(candidates[j])
	})
	if len(candidates) > opts.MaxCandidates {
		candidates = candidates[:opts.MaxCandidates]
	}

	for _, poly := range candidates {
		eps := opts.ApproxEpsilonFraction * utils.Perimeter(poly)
		approx := utils.SimplifyClosed(poly, eps)
		if len(approx) != 4 {
			continue
		}
		if utils.PolygonArea(approx) <= opts.MinAreaFraction*imgArea {
			continue
		}
		return Quad{approx[0], approx[1], approx[2], approx[3]}, nil
	}
	return Quad{}, ErrNoQuadrilateral
}

// FullImageQuad returns the ordered quadrilateral spanning the whole image,
// used as the rectification fallback.
func FullImageQuad(width, height int) OrderedQuad {
	w := float64(width - 1)
	h := float64(height - 1)
	return OrderedQuad{
		TL: utils.Point{X: 0, Y: 0},
		TR: utils.Point{X: w, Y: 0},
		BR: utils.Point{X: w, Y: h},
		BL: utils.Point{X: 0, Y: h},
	}
}
