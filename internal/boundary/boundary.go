// Package boundary extracts closed polygonal boundaries from a binary edge
// or threshold map. It labels connected foreground components and traces
// each component's outer contour, producing polygons in image pixel
// coordinates for the rectification core to filter.
package boundary

import (
	"image"

	"github.com/MeKo-Tech/descan/internal/mempool"
	"github.com/MeKo-Tech/descan/internal/utils"
)

// minComponentPixels filters specks that cannot possibly be a document.
const minComponentPixels = 16

// FindBoundaries returns the closed outer contours of all foreground
// components in the binary image, in arbitrary order. Components smaller
// than a few pixels are skipped.
func FindBoundaries(bin *image.Gray) [][]utils.Point {
	if bin == nil {
		return nil
	}
	w := bin.Rect.Dx()
	h := bin.Rect.Dy()
	if w <= 0 || h <= 0 {
		return nil
	}

	mask := binarize(bin, w, h)
	defer mempool.PutBool(mask)

	comps, labels := connectedComponents(mask, w, h)
	defer mempool.PutInt(labels)

	polys := make([][]utils.Point, 0, len(comps))
	for i, st := range comps {
		if st.count < minComponentPixels {
			continue
		}
		poly := traceContour(labels, w, h, i+1, st)
		if len(poly) >= 3 {
			polys = append(polys, poly)
		}
	}
	return polys
}
