package stipple

const (
	minCluster   = 4
	smallCluster = 8
)

type polarity uint8

const (
	noInk polarity = iota
	blackInk
	whiteInk
)

// canvas describes the rendered image for smoothing: ink polarity depends
// on the tone level of each pixel.
type canvas struct {
	out        []uint8
	levels     []int
	rows, cols int
	whiteStart int
}

func (cv *canvas) polarity(p int) polarity {
	white := cv.levels[p] >= cv.whiteStart
	switch {
	case !white && cv.out[p] == 0:
		return blackInk
	case white && cv.out[p] == 255:
		return whiteInk
	}
	return noInk
}

func (cv *canvas) background(p int) uint8 {
	if cv.levels[p] >= cv.whiteStart {
		return 0
	}
	return 255
}

// Smooth removes ink clusters smaller than four pixels and nudges or
// removes clusters of four to seven pixels. Clusters are 8-connected runs
// of the same polarity. It returns the counts of erased and shifted
// clusters.
func Smooth(out []uint8, levels []int, rows, cols, whiteStart int) (erased, shifted int) {
	cv := &canvas{out: out, levels: levels, rows: rows, cols: cols, whiteStart: whiteStart}

	label := make([]int, len(out))
	next := 0
	var stack []int
	var clusters [][]int
	for start := range out {
		pol := cv.polarity(start)
		if pol == noInk || label[start] != 0 {
			continue
		}
		next++
		label[start] = next
		var comp []int
		stack = append(stack[:0], start)
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
					if label[q] == 0 && cv.polarity(q) == pol {
						label[q] = next
						stack = append(stack, q)
					}
				}
			}
		}
		if len(comp) < smallCluster {
			clusters = append(clusters, comp)
		}
	}

	for _, comp := range clusters {
		pol := cv.polarity(comp[0])
		if pol == noInk {
			continue
		}
		if len(comp) >= minCluster {
			if dy, dx, ok := cv.nudge(comp, label, pol); ok {
				cv.shift(comp, dy, dx, pol)
				shifted++
				continue
			}
		}
		for _, p := range comp {
			out[p] = cv.background(p)
		}
		erased++
	}
	return erased, shifted
}

// nudge searches rings 2 and 3 around the first cluster pixel for a pixel
// of the same polarity outside the cluster. The nearest hit is accepted
// only when both offsets exceed one pixel.
func (cv *canvas) nudge(comp, label []int, pol polarity) (dy, dx int, ok bool) {
	own := label[comp[0]]
	r0, c0 := comp[0]/cv.cols, comp[0]%cv.cols
	best := -1
	for ring := 2; ring <= 3; ring++ {
		for y := -ring; y <= ring; y++ {
			for x := -ring; x <= ring; x++ {
				if max(abs(y), abs(x)) != ring {
					continue
				}
				r, c := r0+y, c0+x
				if r < 0 || r >= cv.rows || c < 0 || c >= cv.cols {
					continue
				}
				q := r*cv.cols + c
				if label[q] == own || cv.polarity(q) != pol {
					continue
				}
				if d := y*y + x*x; best < 0 || d < best {
					best, dy, dx = d, y, x
				}
			}
		}
		if best >= 0 {
			break
		}
	}
	if best < 0 {
		return 0, 0, false
	}
	return dy, dx, abs(dy) > 1 && abs(dx) > 1
}

func (cv *canvas) shift(comp []int, dy, dx int, pol polarity) {
	value := uint8(0)
	if pol == whiteInk {
		value = 255
	}
	for _, p := range comp {
		cv.out[p] = cv.background(p)
	}
	for _, p := range comp {
		r, c := p/cv.cols+dy, p%cv.cols+dx
		if r < 0 || r >= cv.rows || c < 0 || c >= cv.cols {
			continue
		}
		cv.out[r*cv.cols+c] = value
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
