package rectify

import "errors"

var (
	// ErrInvalidInput indicates a caller contract violation: nil or
	// zero-sized image, or a point set of the wrong size. It is surfaced
	// as a hard error and never recovered internally.
	ErrInvalidInput = errors.New("rectify: invalid input")

	// ErrNoQuadrilateral indicates that no 4-vertex candidate met the area
	// threshold. Rectify recovers from it by falling back to the full
	// image quadrilateral.
	ErrNoQuadrilateral = errors.New("rectify: no document quadrilateral found")

	// ErrDegenerateHomography indicates collinear or near-collinear
	// correspondences for which no stable projective transform exists.
	ErrDegenerateHomography = errors.New("rectify: degenerate homography")
)
