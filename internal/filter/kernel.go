package filter

import "math"

// smallGaussianTables are the fixed kernels used for ksize <= 7 when no
// sigma is given.
var smallGaussianTables = map[int][]float64{
	1: {1},
	3: {0.25, 0.5, 0.25},
	5: {0.0625, 0.25, 0.375, 0.25, 0.0625},
	7: {0.03125, 0.109375, 0.21875, 0.28125, 0.21875, 0.109375, 0.03125},
}

// SigmaForSize returns the sigma implied by an odd kernel size:
// 0.3*((ksize-1)*0.5-1)+0.8.
func SigmaForSize(ksize int) float64 {
	return 0.3*((float64(ksize)-1)*0.5-1) + 0.8
}

// SizeForSigma returns the odd kernel size covering sigma for 8-bit data:
// round(sigma*6+1) | 1.
func SizeForSigma(sigma float64) int {
	n := int(math.Round(sigma*3*2+1)) | 1
	return max(n, 1)
}

// GaussianKernel returns a normalized 1D Gaussian kernel of odd size ksize.
// A non-positive sigma is derived from ksize; sizes up to 7 then use the
// fixed tables.
func GaussianKernel(ksize int, sigma float64) []float32 {
	if ksize < 1 {
		ksize = 1
	}
	if sigma <= 0 {
		if t, ok := smallGaussianTables[ksize]; ok {
			k := make([]float32, ksize)
			for i, v := range t {
				k[i] = float32(v)
			}
			return k
		}
		sigma = SigmaForSize(ksize)
	}

	half := float64(ksize-1) * 0.5
	scale := -0.5 / (sigma * sigma)
	tmp := make([]float64, ksize)
	sum := 0.0
	for i := range tmp {
		x := float64(i) - half
		tmp[i] = math.Exp(scale * x * x)
		sum += tmp[i]
	}

	k := make([]float32, ksize)
	for i := range tmp {
		k[i] = float32(tmp[i] / sum)
	}
	return k
}

// GaussianKernel64 is GaussianKernel in float64 precision.
func GaussianKernel64(ksize int, sigma float64) []float64 {
	k32 := GaussianKernel(ksize, sigma)
	if sigma <= 0 && ksize <= 7 {
		k := make([]float64, len(k32))
		for i, v := range k32 {
			k[i] = float64(v)
		}
		return k
	}
	if sigma <= 0 {
		sigma = SigmaForSize(ksize)
	}
	half := float64(ksize-1) * 0.5
	k := make([]float64, ksize)
	sum := 0.0
	for i := range k {
		x := float64(i) - half
		k[i] = math.Exp(-x * x / (2 * sigma * sigma))
		sum += k[i]
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

// DoGProfile returns center - rho*surround with the center kernel
// zero-padded to the surround length so both share the same center tap.
func DoGProfile(center, surround []float64, rho float64) []float64 {
	n := max(len(center), len(surround))
	out := make([]float64, n)
	cOff := (n - len(center)) / 2
	sOff := (n - len(surround)) / 2
	for i, v := range center {
		out[cOff+i] += v
	}
	for i, v := range surround {
		out[sOff+i] -= rho * v
	}
	return out
}

// isSymmetric reports whether k[i] == k[n-1-i] for every i.
func isSymmetric(k []float32) bool {
	for i, j := 0, len(k)-1; i < j; i, j = i+1, j-1 {
		if k[i] != k[j] {
			return false
		}
	}
	return true
}
