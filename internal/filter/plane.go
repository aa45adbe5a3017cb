package filter

import "math"

// Plane is a single-channel float32 image stored row-major.
type Plane struct {
	Rows int
	Cols int
	Pix  []float32
}

// NewPlane allocates a zeroed plane.
func NewPlane(rows, cols int) *Plane {
	return &Plane{Rows: rows, Cols: cols, Pix: make([]float32, rows*cols)}
}

// PlaneFromU8 extracts channel ch of an interleaved 8-bit image.
func PlaneFromU8(data []uint8, rows, cols, channels, ch int) *Plane {
	p := NewPlane(rows, cols)
	for i := range p.Pix {
		p.Pix[i] = float32(data[i*channels+ch])
	}
	return p
}

// At returns the sample at (r, c) without bounds checks.
func (p *Plane) At(r, c int) float32 {
	return p.Pix[r*p.Cols+c]
}

// Clone returns a deep copy.
func (p *Plane) Clone() *Plane {
	q := NewPlane(p.Rows, p.Cols)
	copy(q.Pix, p.Pix)
	return q
}

// AddScalar returns a new plane with v added to every sample.
func (p *Plane) AddScalar(v float32) *Plane {
	q := NewPlane(p.Rows, p.Cols)
	for i, s := range p.Pix {
		q.Pix[i] = s + v
	}
	return q
}

// Mul returns the element-wise product of p and o.
func (p *Plane) Mul(o *Plane) *Plane {
	q := NewPlane(p.Rows, p.Cols)
	for i := range p.Pix {
		q.Pix[i] = p.Pix[i] * o.Pix[i]
	}
	return q
}

// StoreU8 writes the plane into channel ch of an interleaved 8-bit image,
// rounding half to even and saturating to [0, 255].
func (p *Plane) StoreU8(data []uint8, channels, ch int) {
	for i, v := range p.Pix {
		data[i*channels+ch] = SaturateU8(v)
	}
}

// SaturateU8 rounds v half to even and clamps it to [0, 255].
func SaturateU8(v float32) uint8 {
	r := math.RoundToEven(float64(v))
	if r <= 0 {
		return 0
	}
	if r >= 255 {
		return 255
	}
	return uint8(r)
}

// Reflect101 maps an out-of-range index into [0, n) by mirroring about the
// edge samples without repeating them (gfedcb|abcdefgh|gfedcba).
func Reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*n - 2 - i
		}
	}
	return i
}
