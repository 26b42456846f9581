package boundary

import "github.com/MeKo-Tech/descan/internal/utils"

// traceContour extracts the closed boundary polygon of a labeled component
// using Moore-neighbor tracing, restricted to the component's bounding box.
// Returned points are pixel-center coordinates with collinear runs collapsed.
func traceContour(labels []int, w, h, label int, st compStats) []utils.Point {
	if label <= 0 || len(labels) != w*h {
		return nil
	}

	sx, sy := findStartPixel(labels, w, h, label, st)
	if sx == -1 {
		return nil
	}

	pts := make([]utils.Point, 0, 64)
	addPoint := func(x, y int) {
		p := utils.Point{X: float64(x), Y: float64(y)}
		n := len(pts)
		if n >= 2 {
			a := pts[n-2]
			b := pts[n-1]
			// Drop b when a, b, p are collinear.
			if (b.X-a.X)*(p.Y-b.Y)-(b.Y-a.Y)*(p.X-b.X) == 0 {
				pts = pts[:n-1]
			}
		}
		pts = append(pts, p)
	}

	cx, cy := sx, sy
	bx, by := sx-1, sy // backtrack to the left of start
	addPoint(cx, cy)

	startCx, startCy := cx, cy
	startBx, startBy := bx, by
	maxSteps := w*h*4 + 8

	for steps := 0; steps < maxSteps; steps++ {
		nx, ny, nbx, nby, found := nextBoundaryPixel(labels, w, h, label, cx, cy, bx, by)
		if !found {
			break
		}
		bx, by = nbx, nby
		cx, cy = nx, ny

		if len(pts) == 0 || pts[len(pts)-1].X != float64(cx) || pts[len(pts)-1].Y != float64(cy) {
			addPoint(cx, cy)
		}
		if cx == startCx && cy == startCy && bx == startBx && by == startBy {
			break
		}
	}

	// Remove the duplicated closing point if present.
	if len(pts) >= 2 && pts[0] == pts[len(pts)-1] {
		pts = pts[:len(pts)-1]
	}
	return pts
}

// findStartPixel locates the first boundary pixel of the component within
// its bounding box.
func findStartPixel(labels []int, w, h, label int, st compStats) (int, int) {
	for y := st.minY; y <= st.maxY; y++ {
		for x := st.minX; x <= st.maxX; x++ {
			if isBoundaryPixel(labels, w, h, label, x, y) {
				return x, y
			}
		}
	}
	return -1, -1
}

func isBoundaryPixel(labels []int, w, h, label, x, y int) bool {
	if !isLabelPixel(labels, w, h, label, x, y) {
		return false
	}
	return !isLabelPixel(labels, w, h, label, x+1, y) ||
		!isLabelPixel(labels, w, h, label, x-1, y) ||
		!isLabelPixel(labels, w, h, label, x, y+1) ||
		!isLabelPixel(labels, w, h, label, x, y-1)
}

func isLabelPixel(labels []int, w, h, label, x, y int) bool {
	if x < 0 || y < 0 || x >= w || y >= h {
		return false
	}
	return labels[y*w+x] == label
}

// nextBoundaryPixel scans the Moore neighborhood clockwise starting after
// the backtrack position and returns the next component pixel together with
// the new backtrack.
func nextBoundaryPixel(labels []int, w, h, label, cx, cy, bx, by int) (int, int, int, int, bool) {
	// 8-neighborhood clockwise order: E, SE, S, SW, W, NW, N, NE
	ndx := [8]int{1, 1, 0, -1, -1, -1, 0, 1}
	ndy := [8]int{0, 1, 1, 1, 0, -1, -1, -1}

	start := 0
	for i := 0; i < 8; i++ {
		if ndx[i] == bx-cx && ndy[i] == by-cy {
			start = (i + 1) % 8
			break
		}
	}

	for k := 0; k < 8; k++ {
		i := (start + k) % 8
		tx, ty := cx+ndx[i], cy+ndy[i]
		if isLabelPixel(labels, w, h, label, tx, ty) {
			return tx, ty, bx, by, true
		}
		bx, by = tx, ty
	}
	return 0, 0, bx, by, false
}
