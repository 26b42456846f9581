package utils

import "math"

// SimplifyPolygon reduces the number of points in an open polyline using the
// Douglas–Peucker algorithm with the given tolerance epsilon. The first and
// last points are always kept.
func SimplifyPolygon(pts []Point, epsilon float64) []Point {
	if len(pts) <= 2 || epsilon <= 0 {
		return append([]Point(nil), pts...)
	}
	keep := make([]bool, len(pts))
	keep[0] = true
	keep[len(pts)-1] = true
	dpSimplify(pts, 0, len(pts)-1, epsilon, keep)
	out := make([]Point, 0, len(pts))
	for i, k := range keep {
		if k {
			out = append(out, pts[i])
		}
	}
	return out
}

// SimplifyClosed simplifies a closed polygon with Douglas–Peucker. The chain
// is anchored at the two mutually farthest vertices so the result does not
// depend on where the contour tracing happened to start. The returned
// polygon is closed implicitly (no duplicated end vertex).
func SimplifyClosed(pts []Point, epsilon float64) []Point {
	if len(pts) <= 3 || epsilon <= 0 {
		return append([]Point(nil), pts...)
	}

	// Anchor at the two vertices farthest apart.
	ai, bi := farthestPair(pts)
	if ai > bi {
		ai, bi = bi, ai
	}

	// Split into two chains: ai..bi and bi..ai (wrapping).
	chain1 := append([]Point(nil), pts[ai:bi+1]...)
	chain2 := make([]Point, 0, len(pts)-(bi-ai)+1)
	chain2 = append(chain2, pts[bi:]...)
	chain2 = append(chain2, pts[:ai+1]...)

	s1 := SimplifyPolygon(chain1, epsilon)
	s2 := SimplifyPolygon(chain2, epsilon)

	// Join, dropping the shared anchor vertices of the second chain.
	out := make([]Point, 0, len(s1)+len(s2)-2)
	out = append(out, s1...)
	if len(s2) > 2 {
		out = append(out, s2[1:len(s2)-1]...)
	}
	return out
}

func farthestPair(pts []Point) (int, int) {
	best := -1.0
	ai, bi := 0, 0
	for i := range pts {
		for j := i + 1; j < len(pts); j++ {
			d := Dist(pts[i], pts[j])
			if d > best {
				best = d
				ai, bi = i, j
			}
		}
	}
	return ai, bi
}

func dpSimplify(pts []Point, start, end int, eps float64, keep []bool) {
	if end <= start+1 {
		return
	}
	maxDist := -1.0
	index := -1
	a := pts[start]
	b := pts[end]
	for i := start + 1; i < end; i++ {
		d := perpendicularDistance(pts[i], a, b)
		if d > maxDist {
			maxDist = d
			index = i
		}
	}
	if maxDist > eps {
		dpSimplify(pts, start, index, eps, keep)
		keep[index] = true
		dpSimplify(pts, index, end, eps, keep)
	}
}

func perpendicularDistance(p, a, b Point) float64 {
	vx, vy := b.X-a.X, b.Y-a.Y
	if vx == 0 && vy == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	// Area of parallelogram / base length
	num := math.Abs((p.X-a.X)*vy - (p.Y-a.Y)*vx)
	den := math.Hypot(vx, vy)
	return num / den
}
