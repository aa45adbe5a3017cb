package npr

import (
	"context"

	"github.com/gogpu/npr/internal/filter"
)

var gaussianKernelSize = intParam{key: "Kernel_size", def: 1, lo: 1, hi: 255, oddOnly: true}

// GaussianConfig holds the parameters of a Gaussian filter.
type GaussianConfig struct {
	// KernelSize is the odd side of the square kernel. 1 copies the input.
	KernelSize int
}

// DefaultGaussianConfig returns the editor defaults.
func DefaultGaussianConfig() GaussianConfig {
	return GaussianConfig{KernelSize: gaussianKernelSize.def}
}

// Validate checks every field against its range.
func (c GaussianConfig) Validate() error {
	return gaussianKernelSize.check(TypeGaussian, c.KernelSize)
}

// Gaussian blurs every channel with a separable kernelSize x kernelSize
// Gaussian whose sigma follows from the size.
type Gaussian struct {
	base
	cfg GaussianConfig
}

// NewGaussian creates a Gaussian filter with default parameters.
// Both slots default to 3 channels.
func NewGaussian(opts ...Option) *Gaussian {
	return &Gaussian{
		base: newBase(TypeGaussian, []int{3}, []int{3}, opts),
		cfg:  DefaultGaussianConfig(),
	}
}

// Config returns the current parameters.
func (f *Gaussian) Config() GaussianConfig { return f.cfg }

// SetConfig validates and applies c.
func (f *Gaussian) SetConfig(c GaussianConfig) error {
	if err := c.Validate(); err != nil {
		return err
	}
	f.cfg = c
	return nil
}

// ResetData restores the default parameters.
func (f *Gaussian) ResetData() { f.cfg = DefaultGaussianConfig() }

// ReadParameters parses p into the configuration.
func (f *Gaussian) ReadParameters(p Params) error {
	r := newParamReader(f.typ, p)
	c := GaussianConfig{KernelSize: r.readInt(gaussianKernelSize)}
	if r.err != nil {
		return r.err
	}
	return f.SetConfig(c)
}

// WriteParameters returns the configuration as a parameter map.
func (f *Gaussian) WriteParameters() Params {
	w := paramWriter{}
	w.putInt(gaussianKernelSize, f.cfg.KernelSize)
	return Params(w)
}

// Update blurs inputs[0] into output slot 0.
func (f *Gaussian) Update(_ context.Context, inputs ...*Buffer) error {
	in, err := f.negotiate(inputs)
	if err != nil {
		return err
	}
	src := in[0]
	dst := f.target(0, src.rows, src.cols, src.channels, in)

	if f.cfg.KernelSize == 1 {
		copy(dst.data, src.data)
		return f.commit(0, dst, in)
	}

	kernel := filter.GaussianKernel(f.cfg.KernelSize, 0)
	for ch := 0; ch < src.channels; ch++ {
		plane := filter.PlaneFromU8(src.data, src.rows, src.cols, src.channels, ch)
		filter.SeparableFilter(plane, kernel, kernel).StoreU8(dst.data, dst.channels, ch)
	}
	return f.commit(0, dst, in)
}
