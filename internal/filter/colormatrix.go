package filter

// ColorMatrix is a 3x4 affine color transformation over 8-bit samples:
//
//	[R']   [a00 a01 a02 a03]   [R]
//	[G'] = [a10 a11 a12 a13] * [G]
//	[B']   [a20 a21 a22 a23]   [B]
//	                           [1]
//
// The fourth column is an offset in the [0, 255] range. Results are
// clamped to [0, 255] and rounded half up.
type ColorMatrix struct {
	// Matrix holds the rows in order: [0-3] R, [4-7] G, [8-11] B.
	Matrix [12]float32
}

// NewColorMatrix creates a color matrix from its rows.
func NewColorMatrix(m [12]float32) *ColorMatrix {
	return &ColorMatrix{Matrix: m}
}

// NewInvertMatrix maps every sample v to 255-v.
func NewInvertMatrix() *ColorMatrix {
	return &ColorMatrix{
		Matrix: [12]float32{
			-1, 0, 0, 255,
			0, -1, 0, 255,
			0, 0, -1, 255,
		},
	}
}

// Rec. 601 luma weights (0.299, 0.587, 0.114) rounded to multiples of 2^-14.
// Every product and sum with 8-bit inputs is exact in float32, so Apply
// matches the usual fixed-point conversion bit for bit.
const (
	lumaR = 4899.0 / 16384
	lumaG = 9617.0 / 16384
	lumaB = 1868.0 / 16384
)

// NewGrayscaleMatrix writes Rec. 601 luma into all three channels.
func NewGrayscaleMatrix() *ColorMatrix {
	return &ColorMatrix{
		Matrix: [12]float32{
			lumaR, lumaG, lumaB, 0,
			lumaR, lumaG, lumaB, 0,
			lumaR, lumaG, lumaB, 0,
		},
	}
}

var grayscale = NewGrayscaleMatrix()

// Apply transforms src into dst. Both hold interleaved samples with the
// given channel count (1 or 3) and may be the same slice. A 1-channel
// sample v is treated as the color (v, v, v) and transformed by row 0.
func (m *ColorMatrix) Apply(dst, src []uint8, channels int) {
	a := &m.Matrix
	if channels == 1 {
		k := a[0] + a[1] + a[2]
		for i, v := range src {
			dst[i] = roundU8(k*float32(v) + a[3])
		}
		return
	}
	for i := 0; i+2 < len(src); i += 3 {
		r, g, b := float32(src[i]), float32(src[i+1]), float32(src[i+2])
		dst[i] = roundU8(a[0]*r + a[1]*g + a[2]*b + a[3])
		dst[i+1] = roundU8(a[4]*r + a[5]*g + a[6]*b + a[7])
		dst[i+2] = roundU8(a[8]*r + a[9]*g + a[10]*b + a[11])
	}
}

// Project evaluates row of the matrix for each interleaved RGB pixel of src,
// producing one sample per pixel in dst.
func (m *ColorMatrix) Project(dst, src []uint8, row int) {
	a := m.Matrix[4*row : 4*row+4]
	for i := range dst {
		r, g, b := float32(src[3*i]), float32(src[3*i+1]), float32(src[3*i+2])
		dst[i] = roundU8(a[0]*r + a[1]*g + a[2]*b + a[3])
	}
}

func roundU8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
