package stipple

import (
	"context"
	"errors"
	"math"
	"math/rand"
)

// ErrNoTones is returned when rendering without a tone map.
var ErrNoTones = errors.New("stipple: tone map has no levels")

// tanhSteepness shapes the tanh level weighting.
const tanhSteepness = 4.0

// Config controls one rendering.
type Config struct {
	// WhiteStart is the first level rendered with white stipples.
	WhiteStart int

	// Probabilistic picks between bracketing levels at random; otherwise
	// the nearer level wins.
	Probabilistic bool
	// TanhWeighting sharpens the probability around the midpoint.
	TanhWeighting bool

	EdgeCombination bool
	Sigma1, Sigma2  float64
	MinEdgeLength   int

	Smoothing bool
	Rotate    bool
}

// Assets bundles the example data used by Render.
type Assets struct {
	Tones *ToneMap
	Black *Database
	White *Database
}

// Stats reports what Render did.
type Stats struct {
	BlackCandidates, WhiteCandidates int
	BlackPlaced, WhitePlaced         int
	Unplaced                         int
	SkippedEmptyDatabase             int
	EdgePixels, EdgePixelsPruned     int
	ClustersErased, ClustersShifted  int
}

// Result is the output of Render.
type Result struct {
	Out    []uint8
	Levels []int
	Stats  Stats
}

// Stage names passed to the progress callback.
const (
	StageTone   = "tone"
	StagePlace  = "place"
	StageEdges  = "edges"
	StageSmooth = "smooth"
)

// ProgressFunc receives stage progress.
type ProgressFunc func(stage string, done, total int)

// Render stipples gray (rows x cols, one byte per pixel). A non-nil edges
// map replaces the computed one. rng drives level choice, mark draws and
// rotations; the same seed reproduces the same output.
func Render(ctx context.Context, gray []uint8, rows, cols int, edges []uint8,
	a *Assets, cfg Config, rng *rand.Rand, progress ProgressFunc) (*Result, error) {
	if a == nil || a.Tones == nil || len(a.Tones.Levels) == 0 {
		return nil, ErrNoTones
	}
	if progress == nil {
		progress = func(string, int, int) {}
	}

	res := &Result{Out: make([]uint8, rows*cols), Levels: make([]int, rows*cols)}
	st := &res.Stats

	var black, white []int
	for r := 0; r < rows; r++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for c := 0; c < cols; c++ {
			p := r*cols + c
			level := chooseLevel(a.Tones, float64(gray[p]), cfg, rng)
			res.Levels[p] = level
			v := a.Tones.Levels[level].Texture.At(r, c)
			if level < cfg.WhiteStart {
				res.Out[p] = 255
				if v < inkThreshold {
					black = append(black, p)
				}
			} else if v >= inkThreshold {
				white = append(white, p)
			}
		}
	}
	st.BlackCandidates, st.WhiteCandidates = len(black), len(white)
	progress(StageTone, 1, 1)

	if edges == nil && cfg.EdgeCombination {
		edges = EdgeMap(gray, rows, cols, cfg.Sigma1, cfg.Sigma2)
		st.EdgePixelsPruned = PruneEdges(edges, rows, cols, cfg.MinEdgeLength)
	}

	place := func(cands []int, db *Database, value uint8) (int, error) {
		pool := NewPool(db, rng)
		if pool.Empty() {
			st.SkippedEmptyDatabase += len(cands)
			return 0, nil
		}
		placed := 0
		for i, p := range cands {
			if i%cols == 0 {
				if err := ctx.Err(); err != nil {
					return placed, err
				}
			}
			m := pool.Draw()
			angle := rng.Intn(360)
			if cfg.Rotate {
				m = Rotate(m, float64(angle))
			}
			if edges != nil && edges[p] <= EdgeDark {
				st.Unplaced++
				continue
			}
			Stamp(res.Out, rows, cols, m, p/cols, p%cols, value)
			placed++
		}
		return placed, nil
	}
	var err error
	if st.BlackPlaced, err = place(black, a.Black, 0); err != nil {
		return nil, err
	}
	if st.WhitePlaced, err = place(white, a.White, 255); err != nil {
		return nil, err
	}
	progress(StagePlace, 1, 1)

	if cfg.EdgeCombination && edges != nil {
		for p, e := range edges {
			if e <= EdgeDark {
				res.Out[p] = e
				st.EdgePixels++
			}
		}
	}
	progress(StageEdges, 1, 1)

	if cfg.Smoothing {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		st.ClustersErased, st.ClustersShifted = Smooth(res.Out, res.Levels, rows, cols, cfg.WhiteStart)
	}
	progress(StageSmooth, 1, 1)
	return res, nil
}

// chooseLevel assigns one of the two levels bracketing g.
func chooseLevel(m *ToneMap, g float64, cfg Config, rng *rand.Rand) int {
	lo, hi, t := m.Bracket(g)
	if lo == hi {
		return lo
	}
	if !cfg.Probabilistic {
		if t > 0.5 {
			return hi
		}
		return lo
	}
	p := t
	if cfg.TanhWeighting {
		p = TanhWeight(t)
	}
	if rng.Float64() < p {
		return hi
	}
	return lo
}

// TanhWeight maps t in [0, 1] onto a sigmoid through (0.5, 0.5) that keeps
// the endpoints fixed.
func TanhWeight(t float64) float64 {
	return 0.5 + 0.5*math.Tanh(tanhSteepness*(t-0.5))/math.Tanh(tanhSteepness*0.5)
}
