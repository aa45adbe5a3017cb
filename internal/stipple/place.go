package stipple

import (
	stdimage "image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Rotate returns m rotated by deg degrees about its center using bilinear
// resampling. The result is square and large enough to hold every
// orientation.
func Rotate(m *Mark, deg float64) *Mark {
	src := stdimage.NewGray(stdimage.Rect(0, 0, m.Cols, m.Rows))
	for i, ink := range m.Ink {
		if ink {
			src.Pix[i] = 255
		}
	}

	side := int(math.Ceil(math.Hypot(float64(m.Rows), float64(m.Cols))))
	side |= 1
	dst := stdimage.NewGray(stdimage.Rect(0, 0, side, side))

	sin, cos := math.Sincos(deg * math.Pi / 180)
	sx, sy := float64(m.Cols)/2, float64(m.Rows)/2
	dx, dy := float64(side)/2, float64(side)/2
	s2d := f64.Aff3{
		cos, -sin, dx - (cos*sx - sin*sy),
		sin, cos, dy - (sin*sx + cos*sy),
	}
	draw.BiLinear.Transform(dst, s2d, src, src.Bounds(), draw.Src, nil)

	out := NewMark(side, side, dst.Pix)
	return &out
}

// Stamp writes value at every ink pixel of m centered on (r, c), clipping
// at the canvas border. It returns the number of pixels written.
func Stamp(dst []uint8, rows, cols int, m *Mark, r, c int, value uint8) int {
	top, left := r-m.Rows/2, c-m.Cols/2
	n := 0
	for y := 0; y < m.Rows; y++ {
		yy := top + y
		if yy < 0 || yy >= rows {
			continue
		}
		for x := 0; x < m.Cols; x++ {
			xx := left + x
			if xx < 0 || xx >= cols || !m.Ink[y*m.Cols+x] {
				continue
			}
			dst[yy*cols+xx] = value
			n++
		}
	}
	return n
}
