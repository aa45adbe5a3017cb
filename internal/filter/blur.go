package filter

import "github.com/gogpu/npr/internal/parallel"

// SeparableFilter convolves src with kx along rows and then ky along
// columns. Borders use reflect-101. Symmetric kernels are evaluated as
// k[c]*s[x] + sum k[c+i]*(s[x-i]+s[x+i]) so a mirrored input produces an
// exactly mirrored output.
func SeparableFilter(src *Plane, kx, ky []float32) *Plane {
	rows, cols := src.Rows, src.Cols
	tmp := NewPlane(rows, cols)
	parallel.Bands(rows, func(lo, hi int) {
		for r := lo; r < hi; r++ {
			convolveLine(src.Pix[r*cols:(r+1)*cols], tmp.Pix[r*cols:(r+1)*cols], kx)
		}
	})

	dst := NewPlane(rows, cols)
	parallel.Bands(cols, func(lo, hi int) {
		col := make([]float32, rows)
		out := make([]float32, rows)
		for c := lo; c < hi; c++ {
			for r := 0; r < rows; r++ {
				col[r] = tmp.Pix[r*cols+c]
			}
			convolveLine(col, out, ky)
			for r := 0; r < rows; r++ {
				dst.Pix[r*cols+c] = out[r]
			}
		}
	})
	return dst
}

// convolveLine convolves one line with reflect-101 extension.
func convolveLine(in, out []float32, k []float32) {
	n := len(in)
	half := len(k) / 2

	if isSymmetric(k) {
		for x := 0; x < n; x++ {
			acc := k[half] * in[x]
			for i := 1; i <= half; i++ {
				acc += k[half+i] * (in[Reflect101(x-i, n)] + in[Reflect101(x+i, n)])
			}
			out[x] = acc
		}
		return
	}

	for x := 0; x < n; x++ {
		var acc float32
		for i, w := range k {
			acc += w * in[Reflect101(x+i-half, n)]
		}
		out[x] = acc
	}
}

// GaussianBlur blurs src with a ksize x ksize Gaussian. A non-positive
// sigma is derived from ksize; ksize <= 0 is derived from sigma. ksize 1
// returns a copy.
func GaussianBlur(src *Plane, ksize int, sigma float64) *Plane {
	if ksize <= 0 {
		ksize = SizeForSigma(sigma)
	}
	if ksize == 1 {
		return src.Clone()
	}
	k := GaussianKernel(ksize, sigma)
	return SeparableFilter(src, k, k)
}

// Sobel returns the 3x3 Sobel derivatives of src in x (columns) and y (rows).
func Sobel(src *Plane) (gx, gy *Plane) {
	deriv := []float32{-1, 0, 1}
	smooth := []float32{1, 2, 1}
	return SeparableFilter(src, deriv, smooth), SeparableFilter(src, smooth, deriv)
}
