// Package etf computes edge tangent flow fields and extracts coherent
// lines along them.
//
// Refine builds the flow: Sobel gradients rotated by 90 degrees, smoothed
// by weighted averaging of neighbor tangents whose contribution depends on
// the gradient magnitude difference and on direction agreement. Lines then
// integrates a difference-of-Gaussians profile across the flow while
// walking along it, and thresholds the response.
package etf

import (
	"context"
	"math"

	"github.com/gogpu/npr/internal/filter"
)

// Vec is a 2D vector in (x, y) = (column, row) order.
type Vec struct {
	X, Y float32
}

// Dot returns the dot product.
func (v Vec) Dot(o Vec) float32 { return v.X*o.X + v.Y*o.Y }

// Len returns the Euclidean length.
func (v Vec) Len() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y)))
}

// Field is a rows x cols grid of tangent vectors plus the normalized
// gradient magnitude used to weight them.
type Field struct {
	Rows, Cols int
	Flow       []Vec
	Mag        []float32
}

// At returns the tangent at (r, c).
func (f *Field) At(r, c int) Vec { return f.Flow[r*f.Cols+c] }

// Params configures Refine.
type Params struct {
	Iterations int
	Radius     int
	Eta        float64
}

// Progress is called after every completed iteration.
type Progress func(done, total int)

// Initial returns the normalized gradient of gray rotated by 90 degrees.
// Pixels with zero gradient get the zero vector.
func Initial(gray *filter.Plane) *Field {
	scaled := gray.Clone()
	for i := range scaled.Pix {
		scaled.Pix[i] /= 255
	}
	gx, gy := filter.Sobel(scaled)

	f := &Field{
		Rows: gray.Rows,
		Cols: gray.Cols,
		Flow: make([]Vec, len(gray.Pix)),
		Mag:  make([]float32, len(gray.Pix)),
	}
	var maxMag float32
	for i := range f.Flow {
		g := Vec{X: gx.Pix[i], Y: gy.Pix[i]}
		m := g.Len()
		f.Mag[i] = m
		maxMag = max(maxMag, m)
		if m > 0 {
			f.Flow[i] = Vec{X: -g.Y / m, Y: g.X / m}
		}
	}
	if maxMag > 0 {
		for i := range f.Mag {
			f.Mag[i] /= maxMag
		}
	}
	return f
}

// Refine smooths the initial field p.Iterations times, ping-ponging between
// two buffers. If ctx is cancelled between iterations the field of the last
// completed iteration is returned together with ctx.Err().
func Refine(ctx context.Context, gray *filter.Plane, p Params, progress Progress) (*Field, error) {
	cur := Initial(gray)
	next := &Field{Rows: cur.Rows, Cols: cur.Cols, Flow: make([]Vec, len(cur.Flow)), Mag: cur.Mag}

	offsets := diskOffsets(p.Radius)
	for it := 0; it < p.Iterations; it++ {
		if err := ctx.Err(); err != nil {
			return cur, err
		}
		refineOnce(cur, next, offsets, float32(p.Eta))
		cur, next = next, cur
		if progress != nil {
			progress(it+1, p.Iterations)
		}
	}
	return cur, nil
}

type offset struct{ dr, dc int }

// diskOffsets lists the offsets within Euclidean distance radius.
func diskOffsets(radius int) []offset {
	var out []offset
	r2 := radius * radius
	for dr := -radius; dr <= radius; dr++ {
		for dc := -radius; dc <= radius; dc++ {
			if dr*dr+dc*dc <= r2 {
				out = append(out, offset{dr, dc})
			}
		}
	}
	return out
}

func refineOnce(src, dst *Field, offsets []offset, eta float32) {
	rows, cols := src.Rows, src.Cols
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			i := r*cols + c
			t := src.Flow[i]
			var sum Vec
			for _, o := range offsets {
				rr, cc := r+o.dr, c+o.dc
				if rr < 0 || rr >= rows || cc < 0 || cc >= cols {
					continue
				}
				j := rr*cols + cc
				ty := src.Flow[j]
				wm := 0.5 * (1 + float32(math.Tanh(float64(eta*(src.Mag[j]-src.Mag[i])))))
				wd := t.Dot(ty)
				sum.X += ty.X * wm * wd
				sum.Y += ty.Y * wm * wd
			}
			l := sum.Len()
			if l == 0 {
				l = 1
			}
			dst.Flow[i] = Vec{X: sum.X / l, Y: sum.Y / l}
		}
	}
}
