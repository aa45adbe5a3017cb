package npr

import (
	"context"
	"log/slog"
	"math"

	"github.com/gogpu/npr/internal/filter"
)

var (
	retinexVariance   = floatParam{key: "Color_restoration_variance", def: 1, lo: 0, hi: 4}
	retinexNumKernels = intParam{key: "Num_kernels", def: 3, lo: 1, hi: 8}
)

// Retinex kernel sizes are spread uniformly over this range.
const (
	retinexMinKernel = 3
	retinexMaxKernel = 255
	retinexMinSide   = 256
)

// degenerateRange is the smallest stretch range treated as non-flat.
// Narrower ranges come from rounding noise and use the unit fallback.
const degenerateRange = 1e-4

// RetinexConfig holds the parameters of multi-scale Retinex with color
// restoration.
type RetinexConfig struct {
	// Variance scales the standard deviation that defines the output range.
	Variance float64
	// NumKernels is the number of Gaussian scales.
	NumKernels int
}

// DefaultRetinexConfig returns the editor defaults.
func DefaultRetinexConfig() RetinexConfig {
	return RetinexConfig{Variance: retinexVariance.def, NumKernels: retinexNumKernels.def}
}

// Validate checks every field against its range.
func (c RetinexConfig) Validate() error {
	if err := retinexVariance.check(TypeRetinex, c.Variance); err != nil {
		return err
	}
	return retinexNumKernels.check(TypeRetinex, c.NumKernels)
}

// KernelSizes returns the odd Gaussian sizes spread between 3 and 255.
func (c RetinexConfig) KernelSizes() []int {
	sizes := make([]int, c.NumKernels)
	for i := range sizes {
		s := retinexMinKernel
		if c.NumKernels > 1 {
			s += i * (retinexMaxKernel - retinexMinKernel) / (c.NumKernels - 1)
		}
		if s%2 == 0 {
			s++
		}
		sizes[i] = min(s, retinexMaxKernel)
	}
	return sizes
}

// Retinex normalizes illumination of a color image.
type Retinex struct {
	base
	cfg RetinexConfig
}

// NewRetinex creates a Retinex filter with 3-channel input and output.
func NewRetinex(opts ...Option) *Retinex {
	return &Retinex{
		base: newFixedBase(TypeRetinex, []int{3}, []int{3}, opts),
		cfg:  DefaultRetinexConfig(),
	}
}

// Config returns the current parameters.
func (f *Retinex) Config() RetinexConfig { return f.cfg }

// SetConfig validates and applies c.
func (f *Retinex) SetConfig(c RetinexConfig) error {
	if err := c.Validate(); err != nil {
		return err
	}
	f.cfg = c
	return nil
}

// ResetData restores the default parameters.
func (f *Retinex) ResetData() { f.cfg = DefaultRetinexConfig() }

// ReadParameters parses p into the configuration.
func (f *Retinex) ReadParameters(p Params) error {
	r := newParamReader(f.typ, p)
	c := RetinexConfig{
		Variance:   r.readFloat(retinexVariance),
		NumKernels: r.readInt(retinexNumKernels),
	}
	if r.err != nil {
		return r.err
	}
	return f.SetConfig(c)
}

// WriteParameters returns the configuration as a parameter map.
func (f *Retinex) WriteParameters() Params {
	w := paramWriter{}
	w.putFloat(retinexVariance, f.cfg.Variance)
	w.putInt(retinexNumKernels, f.cfg.NumKernels)
	return Params(w)
}

// Update processes inputs[0]. Inputs that are not 3-channel or are smaller
// than 256x256 leave the output untouched and return an error wrapping
// ErrPrecondition.
func (f *Retinex) Update(_ context.Context, inputs ...*Buffer) error {
	if len(inputs) == 0 || inputs[0] == nil {
		return ErrMissingInput
	}
	raw := inputs[0]
	if raw.channels != 3 || raw.rows < retinexMinSide || raw.cols < retinexMinSide {
		f.logger().Warn("npr: Retinex needs a 3-channel image of at least 256x256",
			slog.Int("rows", raw.rows), slog.Int("cols", raw.cols), slog.Int("channels", raw.channels))
		return preconditionf("%s: got %dx%d with %d channels", f.typ, raw.rows, raw.cols, raw.channels)
	}

	in, err := f.negotiate(inputs)
	if err != nil {
		return err
	}
	src := in[0]
	dst := f.target(0, src.rows, src.cols, 3, in)
	retinex(src, dst, f.cfg)
	return f.commit(0, dst, in)
}

func retinex(src, dst *Buffer, cfg RetinexConfig) {
	rows, cols := src.rows, src.cols
	sizes := cfg.KernelSizes()
	weight := float32(1) / float32(len(sizes))

	var restored [3]*filter.Plane
	for ch := range 3 {
		plus1 := filter.PlaneFromU8(src.data, rows, cols, 3, ch).AddScalar(1)
		logSrc := logPlane(plus1)

		msr := filter.NewPlane(rows, cols)
		for _, k := range sizes {
			logBlur := logPlane(filter.GaussianBlur(plus1, k, 0))
			for i := range msr.Pix {
				msr.Pix[i] += weight * (logSrc.Pix[i] - logBlur.Pix[i])
			}
		}
		restored[ch] = msr
	}

	// Color restoration uses the original samples of all three channels.
	for i := 0; i < rows*cols; i++ {
		r, g, b := float64(src.data[3*i]), float64(src.data[3*i+1]), float64(src.data[3*i+2])
		logSum := math.Log(r + g + b + 3)
		for ch := range 3 {
			c := float64(src.data[3*i+ch])
			restored[ch].Pix[i] *= float32(math.Log(128*(c+1)) - logSum)
		}
	}

	lo, hi := stretchRange(restored, cfg.Variance)
	scale := 255 / (hi - lo)
	for ch := range 3 {
		for i, v := range restored[ch].Pix {
			dst.data[3*i+ch] = filter.SaturateU8(float32((float64(v) - lo) * scale))
		}
	}
}

// stretchRange returns mean -/+ variance*std over all channels pooled.
// A degenerate range is replaced by a unit range centered on the mean.
func stretchRange(planes [3]*filter.Plane, variance float64) (lo, hi float64) {
	var sum, sumSq float64
	n := 0
	for _, p := range planes {
		for _, v := range p.Pix {
			sum += float64(v)
			sumSq += float64(v) * float64(v)
		}
		n += len(p.Pix)
	}
	mean := sum / float64(n)
	std := math.Sqrt(max(0, sumSq/float64(n)-mean*mean))

	lo, hi = mean-variance*std, mean+variance*std
	if hi-lo < degenerateRange {
		lo, hi = mean-0.5, mean+0.5
	}
	return lo, hi
}

func logPlane(p *filter.Plane) *filter.Plane {
	q := filter.NewPlane(p.Rows, p.Cols)
	for i, v := range p.Pix {
		q.Pix[i] = float32(math.Log(float64(v)))
	}
	return q
}
