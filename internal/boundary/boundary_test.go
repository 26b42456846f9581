package boundary

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/descan/internal/utils"
)

func fillRect(img *image.Gray, x0, y0, x1, y1 int) {
	w := img.Rect.Dx()
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			img.Pix[y*w+x] = 255
		}
	}
}

func TestFindBoundaries_SingleRectangle(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 60, 40))
	fillRect(img, 10, 8, 49, 31)

	polys := FindBoundaries(img)
	require.Len(t, polys, 1)

	poly := polys[0]
	require.GreaterOrEqual(t, len(poly), 4)
	box := utils.BoundingBox(poly)
	assert.InDelta(t, 10, box.MinX, 1e-9)
	assert.InDelta(t, 8, box.MinY, 1e-9)
	assert.InDelta(t, 49, box.MaxX, 1e-9)
	assert.InDelta(t, 31, box.MaxY, 1e-9)

	// A clean axis-aligned rectangle collapses to its four corners.
	assert.Len(t, poly, 4)
}

func TestFindBoundaries_MultipleComponents(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 60, 60))
	fillRect(img, 2, 2, 20, 20)
	fillRect(img, 30, 30, 55, 55)

	polys := FindBoundaries(img)
	assert.Len(t, polys, 2)
}

func TestFindBoundaries_SkipsSpecks(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 40, 40))
	// 2x2 = 4 pixels, below the component minimum.
	fillRect(img, 5, 5, 6, 6)

	polys := FindBoundaries(img)
	assert.Empty(t, polys)
}

func TestFindBoundaries_EmptyImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 30, 30))
	assert.Empty(t, FindBoundaries(img))
	assert.Nil(t, FindBoundaries(nil))
}

func TestFindBoundaries_RingComponent(t *testing.T) {
	// A hollow rectangle: outer contour must still span the full outline.
	img := image.NewGray(image.Rect(0, 0, 50, 50))
	fillRect(img, 10, 10, 40, 40)
	for y := 15; y <= 35; y++ {
		for x := 15; x <= 35; x++ {
			img.Pix[y*50+x] = 0
		}
	}

	polys := FindBoundaries(img)
	require.Len(t, polys, 1)
	box := utils.BoundingBox(polys[0])
	assert.InDelta(t, 10, box.MinX, 1e-9)
	assert.InDelta(t, 40, box.MaxX, 1e-9)
}

func TestConnectedComponents_LabelsAndStats(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 20, 20))
	fillRect(img, 1, 1, 5, 5)

	mask := binarize(img, 20, 20)
	comps, labels := connectedComponents(mask, 20, 20)
	require.Len(t, comps, 1)
	assert.Equal(t, 25, comps[0].count)
	assert.Equal(t, 1, comps[0].minX)
	assert.Equal(t, 5, comps[0].maxY)
	assert.Equal(t, 1, labels[1*20+1])
	assert.Equal(t, 0, labels[0])
}

func TestTraceContour_SquareCorners(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 20, 20))
	fillRect(img, 4, 4, 12, 12)

	mask := binarize(img, 20, 20)
	comps, labels := connectedComponents(mask, 20, 20)
	require.Len(t, comps, 1)

	poly := traceContour(labels, 20, 20, 1, comps[0])
	require.Len(t, poly, 4)
	assert.Contains(t, poly, utils.Point{X: 4, Y: 4})
	assert.Contains(t, poly, utils.Point{X: 12, Y: 4})
	assert.Contains(t, poly, utils.Point{X: 12, Y: 12})
	assert.Contains(t, poly, utils.Point{X: 4, Y: 12})
}
