package stipple

import (
	"math"

	"github.com/gogpu/npr/internal/filter"
)

const (
	// EdgeDark is the largest edge-map value treated as an edge.
	EdgeDark = 15

	// edgeSharpness scales the difference of Gaussians before tanh.
	edgeSharpness = 0.5
)

// EdgeMap computes a white-background edge map from gray with a
// difference of Gaussians: e = 255*(1+tanh(s*(G1-G2))) clamped to 255.
// Dark pixels (<= EdgeDark) are edges.
func EdgeMap(gray []uint8, rows, cols int, sigma1, sigma2 float64) []uint8 {
	src := filter.PlaneFromU8(gray, rows, cols, 1, 0)
	g1 := filter.GaussianBlur(src, 0, sigma1)
	g2 := filter.GaussianBlur(src, 0, sigma2)

	out := make([]uint8, rows*cols)
	for i := range out {
		d := float64(g1.Pix[i] - g2.Pix[i])
		e := 255 * (1 + math.Tanh(edgeSharpness*d))
		out[i] = uint8(min(math.Round(e), 255))
	}
	return out
}

// PruneEdges reverts 8-connected edge components with fewer than minLen
// pixels to white and returns the number of pixels removed.
func PruneEdges(edges []uint8, rows, cols, minLen int) int {
	if minLen <= 1 {
		return 0
	}
	seen := make([]bool, len(edges))
	var stack, comp []int
	removed := 0
	for start := range edges {
		if seen[start] || edges[start] > EdgeDark {
			continue
		}
		comp = comp[:0]
		stack = append(stack[:0], start)
		seen[start] = true
		for len(stack) > 0 {
			p := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			comp = append(comp, p)
			r, c := p/cols, p%cols
			for dr := -1; dr <= 1; dr++ {
				for dc := -1; dc <= 1; dc++ {
					nr, nc := r+dr, c+dc
					if nr < 0 || nr >= rows || nc < 0 || nc >= cols {
						continue
					}
					q := nr*cols + nc
					if !seen[q] && edges[q] <= EdgeDark {
						seen[q] = true
						stack = append(stack, q)
					}
				}
			}
		}
		if len(comp) < minLen {
			for _, p := range comp {
				edges[p] = 255
			}
			removed += len(comp)
		}
	}
	return removed
}
