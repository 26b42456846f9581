package boundary

import (
	"image"

	"github.com/MeKo-Tech/descan/internal/mempool"
)

// compStats holds the pixel count and bounding box of a connected component.
type compStats struct {
	count int
	minX  int
	minY  int
	maxX  int
	maxY  int
}

// binarize converts a 0/255 grayscale mask to a pooled boolean mask.
// The caller must return the mask via mempool.PutBool.
func binarize(bin *image.Gray, w, h int) []bool {
	mask := mempool.GetBool(w * h)
	for y := 0; y < h; y++ {
		row := bin.PixOffset(bin.Rect.Min.X, bin.Rect.Min.Y+y)
		for x := 0; x < w; x++ {
			if bin.Pix[row+x] >= 128 {
				mask[y*w+x] = true
			}
		}
	}
	return mask
}

// connectedComponents labels 4-connected foreground components and returns
// per-component stats plus the label map (pooled; caller returns it via
// mempool.PutInt). Labels start at 1.
func connectedComponents(mask []bool, w, h int) ([]compStats, []int) {
	labels := mempool.GetInt(w * h)
	var comps []compStats
	label := 1

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			if mask[idx] && labels[idx] == 0 {
				comps = append(comps, floodFill(mask, labels, w, h, x, y, label))
				label++
			}
		}
	}
	return comps, labels
}

// floodFill labels one component from a seed pixel using an explicit stack
// and accumulates its stats.
func floodFill(mask []bool, labels []int, w, h, startX, startY, label int) compStats {
	st := compStats{minX: startX, minY: startY, maxX: startX, maxY: startY}
	stack := []int{startY*w + startX}
	labels[startY*w+startX] = label

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		cx, cy := i%w, i/w

		st.count++
		if cx < st.minX {
			st.minX = cx
		}
		if cy < st.minY {
			st.minY = cy
		}
		if cx > st.maxX {
			st.maxX = cx
		}
		if cy > st.maxY {
			st.maxY = cy
		}

		for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			nx, ny := cx+d[0], cy+d[1]
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				continue
			}
			ni := ny*w + nx
			if mask[ni] && labels[ni] == 0 {
				labels[ni] = label
				stack = append(stack, ni)
			}
		}
	}
	return st
}
