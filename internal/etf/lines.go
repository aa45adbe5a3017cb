package etf

import (
	"context"
	"math"

	"github.com/gogpu/npr/internal/filter"
)

// LineParams configures Lines.
type LineParams struct {
	CenterSize   int     // odd Gaussian size across the line, center lobe
	SurroundSize int     // odd Gaussian size across the line, surround lobe
	Rho          float64 // surround scale
	LengthSize   int     // odd Gaussian size along the line
	DeltaLength  float64 // step along the flow
	DeltaWidth   float64 // step across the flow
	Iterations   int
	Theta        float64 // 1+tanh(H) below Theta becomes a line pixel
}

// Response integrates the DoG profile across the flow while walking
// LengthSize/2 steps forward and backward along it from every pixel.
func Response(gray *filter.Plane, field *Field, p LineParams) []float64 {
	width := filter.DoGProfile(
		filter.GaussianKernel64(p.CenterSize, 0),
		filter.GaussianKernel64(p.SurroundSize, 0),
		p.Rho)
	length := filter.GaussianKernel64(p.LengthSize, 0)
	halfW := len(width) / 2
	halfL := len(length) / 2

	rows, cols := gray.Rows, gray.Cols
	out := make([]float64, rows*cols)

	// across sums the width profile centered on (r, c) perpendicular to t.
	across := func(r, c int, t Vec) float64 {
		nx, ny := float64(-t.Y), float64(t.X)
		acc := 0.0
		for j := -halfW; j <= halfW; j++ {
			sr := int(math.Round(float64(r) + float64(j)*p.DeltaWidth*ny))
			sc := int(math.Round(float64(c) + float64(j)*p.DeltaWidth*nx))
			if sr < 0 || sr >= rows || sc < 0 || sc >= cols {
				continue
			}
			acc += width[j+halfW] * float64(gray.Pix[sr*cols+sc])
		}
		return acc
	}

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			t0 := field.At(r, c)
			h := length[halfL] * across(r, c, t0)

			for _, sign := range [2]float64{1, -1} {
				pr, pc := r, c
				for s := 1; s <= halfL; s++ {
					t := field.At(pr, pc)
					if t.X == 0 && t.Y == 0 {
						break
					}
					nr := int(math.Round(float64(pr) + sign*p.DeltaLength*float64(t.Y)))
					nc := int(math.Round(float64(pc) + sign*p.DeltaLength*float64(t.X)))
					if nr < 0 || nr >= rows || nc < 0 || nc >= cols {
						break
					}
					pr, pc = nr, nc
					h += length[halfL+int(sign)*s] * across(pr, pc, field.At(pr, pc))
				}
			}
			out[r*cols+c] = h
		}
	}
	return out
}

// Threshold maps a response to 0 (line) when 1+tanh(h) < theta, else 255.
func Threshold(resp []float64, theta float64, dst []uint8) {
	for i, h := range resp {
		if 1+math.Tanh(h) < theta {
			dst[i] = 0
		} else {
			dst[i] = 255
		}
	}
}

// Lines runs p.Iterations extraction passes over the same source samples
// and writes the thresholded result of the last completed pass into dst.
// On cancellation dst keeps the last completed pass and ctx.Err() is
// returned; if no pass completed dst is untouched.
func Lines(ctx context.Context, gray *filter.Plane, field *Field, p LineParams, dst []uint8, progress Progress) error {
	for it := 0; it < p.Iterations; it++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		Threshold(Response(gray, field, p), p.Theta, dst)
		if progress != nil {
			progress(it+1, p.Iterations)
		}
	}
	return nil
}
