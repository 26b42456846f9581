package rectify

import (
	"fmt"
	"math"

	"github.com/MeKo-Tech/descan/internal/utils"
)

// Homography is a 3x3 projective transform in row-major order, normalized
// so that h[8] == 1. It maps source-plane points to destination-plane
// points; the inverse maps the other way.
type Homography [9]float64

// Identity returns the identity transform.
func Identity() Homography {
	return Homography{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

// Apply maps the point (x, y) through the homography.
func (h Homography) Apply(x, y float64) (float64, float64) {
	denom := h[6]*x + h[7]*y + h[8]
	if denom == 0 {
		return math.Inf(-1), math.Inf(-1)
	}
	tx := (h[0]*x + h[1]*y + h[2]) / denom
	ty := (h[3]*x + h[4]*y + h[5]) / denom
	return tx, ty
}

// Det returns the determinant of the 3x3 matrix.
func (h Homography) Det() float64 {
	return h[0]*(h[4]*h[8]-h[5]*h[7]) -
		h[1]*(h[3]*h[8]-h[5]*h[6]) +
		h[2]*(h[3]*h[7]-h[4]*h[6])
}

// Invert returns the inverse transform, renormalized to h[8] == 1.
// A near-zero determinant yields ErrDegenerateHomography.
func (h Homography) Invert() (Homography, error) {
	det := h.Det()
	if math.Abs(det) < 1e-12 {
		return Homography{}, fmt.Errorf("%w: determinant %g", ErrDegenerateHomography, det)
	}
	// Adjugate over determinant.
	inv := Homography{
		(h[4]*h[8] - h[5]*h[7]) / det,
		(h[2]*h[7] - h[1]*h[8]) / det,
		(h[1]*h[5] - h[2]*h[4]) / det,
		(h[5]*h[6] - h[3]*h[8]) / det,
		(h[0]*h[8] - h[2]*h[6]) / det,
		(h[2]*h[3] - h[0]*h[5]) / det,
		(h[3]*h[7] - h[4]*h[6]) / det,
		(h[1]*h[6] - h[0]*h[7]) / det,
		(h[0]*h[4] - h[1]*h[3]) / det,
	}
	if inv[8] == 0 {
		return Homography{}, fmt.Errorf("%w: inverse not normalizable", ErrDegenerateHomography)
	}
	for i := range inv {
		inv[i] /= inv[8]
	}
	return inv, nil
}

// ComputeHomography computes the 3x3 matrix H mapping src[i] -> dst[i].
// Each correspondence contributes two linear equations in the eight unknown
// parameters (h22 is fixed to 1); the 8x8 system is solved with Gaussian
// elimination and partial pivoting. Collinear or near-collinear source
// points make the system singular and yield ErrDegenerateHomography.
func ComputeHomography(src, dst [4]utils.Point) (Homography, error) {
	var a [8][8]float64
	var b [8]float64
	maxEntry := 1.0
	for i := 0; i < 4; i++ {
		X, Y := src[i].X, src[i].Y
		x, y := dst[i].X, dst[i].Y
		r := 2 * i
		// x' = (h00 X + h01 Y + h02)/(h20 X + h21 Y + 1)
		a[r][0] = X
		a[r][1] = Y
		a[r][2] = 1
		a[r][6] = -X * x
		a[r][7] = -Y * x
		b[r] = x

		// y' = (h10 X + h11 Y + h12)/(h20 X + h21 Y + 1)
		a[r+1][3] = X
		a[r+1][4] = Y
		a[r+1][5] = 1
		a[r+1][6] = -X * y
		a[r+1][7] = -Y * y
		b[r+1] = y

		for _, v := range []float64{X, Y, X * x, Y * x, X * y, Y * y} {
			if av := math.Abs(v); av > maxEntry {
				maxEntry = av
			}
		}
	}

	h8, err := solve8x8(a, b, 1e-10*maxEntry)
	if err != nil {
		return Homography{}, err
	}
	h := Homography{h8[0], h8[1], h8[2], h8[3], h8[4], h8[5], h8[6], h8[7], 1}

	// Reject ill-conditioned solves that slipped past the pivot check:
	// the solution must reproduce the correspondences it was built from.
	scale := math.Max(1, maxEntry)
	for i := 0; i < 4; i++ {
		x, y := h.Apply(src[i].X, src[i].Y)
		if math.Abs(x-dst[i].X) > 1e-6*scale || math.Abs(y-dst[i].Y) > 1e-6*scale {
			return Homography{}, fmt.Errorf("%w: residual too large at corner %d", ErrDegenerateHomography, i)
		}
	}
	return h, nil
}

// solve8x8 solves a*x = b with Gaussian elimination and partial pivoting.
// Pivots below tol indicate a singular system.
func solve8x8(a [8][8]float64, b [8]float64, tol float64) ([8]float64, error) {
	if tol <= 0 {
		tol = 1e-12
	}
	for col := 0; col < 8; col++ {
		pivot := findPivotRow(a, col, tol)
		if pivot == -1 {
			return [8]float64{}, fmt.Errorf("%w: singular system at column %d", ErrDegenerateHomography, col)
		}
		if pivot != col {
			a[col], a[pivot] = a[pivot], a[col]
			b[col], b[pivot] = b[pivot], b[col]
		}
		normalizeRow(&a, &b, col)
		eliminateColumn(&a, &b, col)
	}
	return b, nil
}

func findPivotRow(a [8][8]float64, col int, tol float64) int {
	maxAbs := math.Abs(a[col][col])
	pivot := col
	for r := col + 1; r < 8; r++ {
		if v := math.Abs(a[r][col]); v > maxAbs {
			maxAbs = v
			pivot = r
		}
	}
	if maxAbs < tol {
		return -1
	}
	return pivot
}

func normalizeRow(a *[8][8]float64, b *[8]float64, row int) {
	div := a[row][row]
	for c := row; c < 8; c++ {
		a[row][c] /= div
	}
	b[row] /= div
}

func eliminateColumn(a *[8][8]float64, b *[8]float64, col int) {
	for r := 0; r < 8; r++ {
		if r == col {
			continue
		}
		factor := a[r][col]
		if factor == 0 {
			continue
		}
		for c := col; c < 8; c++ {
			a[r][c] -= factor * a[col][c]
		}
		b[r] -= factor * b[col]
	}
}
