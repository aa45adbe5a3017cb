package npr

import (
	"context"
	"log/slog"
	"math"

	"github.com/gogpu/npr/internal/filter"
)

// SSIM constants for 8-bit data: (0.01*255)^2 and (0.03*255)^2.
const (
	ssimC1     = 6.5025
	ssimC2     = 58.5225
	ssimWindow = 11
	ssimSigma  = 1.5

	// identicalSSE is the squared-error sum at or below which two images
	// are considered identical and PSNR reports 0.
	identicalSSE = 1e-10
)

// Measure compares two grayscale images and reports MSSIM and PSNR.
// Output slot 0 receives a copy of the first input.
type Measure struct {
	base
	mssim float64
	psnr  float64
}

// NewMeasure creates a measurement filter with two 1-channel inputs.
func NewMeasure(opts ...Option) *Measure {
	return &Measure{base: newFixedBase(TypeMeasure, []int{1, 1}, []int{1}, opts)}
}

// MSSIM returns the mean SSIM of the last successful Update.
func (f *Measure) MSSIM() float64 { return f.mssim }

// PSNR returns the PSNR in dB of the last successful Update, or 0 when
// the images were identical.
func (f *Measure) PSNR() float64 { return f.psnr }

// ResetData is a no-op.
func (f *Measure) ResetData() {}

// ReadParameters accepts any map; there is nothing to read.
func (f *Measure) ReadParameters(Params) error { return nil }

// WriteParameters returns an empty map.
func (f *Measure) WriteParameters() Params { return Params{} }

// Update computes both metrics. Inputs that differ in channel count or
// size are skipped with an error wrapping ErrPrecondition.
func (f *Measure) Update(_ context.Context, inputs ...*Buffer) error {
	if len(inputs) < 2 || inputs[0] == nil || inputs[1] == nil {
		return ErrMissingInput
	}
	a, b := inputs[0], inputs[1]
	if !a.SameShape(b) {
		f.logger().Warn("npr: measurement inputs differ",
			slog.Int("rows0", a.rows), slog.Int("cols0", a.cols), slog.Int("channels0", a.channels),
			slog.Int("rows1", b.rows), slog.Int("cols1", b.cols), slog.Int("channels1", b.channels))
		return preconditionf("%s: inputs differ in size or channels", f.typ)
	}

	in, err := f.negotiate(inputs)
	if err != nil {
		return err
	}
	f.mssim = MSSIM(in[0], in[1])
	f.psnr = PSNR(in[0], in[1])
	f.logger().Debug("npr: measured", slog.Float64("mssim", f.mssim), slog.Float64("psnr", f.psnr))
	return f.passThrough(in[0], in)
}

// MSSIM returns the mean structural similarity of two same-shape 1-channel
// buffers using an 11x11 Gaussian window with sigma 1.5.
func MSSIM(a, b *Buffer) float64 {
	x := filter.PlaneFromU8(a.data, a.rows, a.cols, 1, 0)
	y := filter.PlaneFromU8(b.data, b.rows, b.cols, 1, 0)

	blur := func(p *filter.Plane) *filter.Plane {
		return filter.GaussianBlur(p, ssimWindow, ssimSigma)
	}
	muX, muY := blur(x), blur(y)
	sXX, sYY, sXY := blur(x.Mul(x)), blur(y.Mul(y)), blur(x.Mul(y))

	sum := 0.0
	for i := range x.Pix {
		mx, my := float64(muX.Pix[i]), float64(muY.Pix[i])
		vx := float64(sXX.Pix[i]) - mx*mx
		vy := float64(sYY.Pix[i]) - my*my
		cov := float64(sXY.Pix[i]) - mx*my
		num := (2*mx*my + ssimC1) * (2*cov + ssimC2)
		den := (mx*mx + my*my + ssimC1) * (vx + vy + ssimC2)
		sum += num / den
	}
	return sum / float64(len(x.Pix))
}

// PSNR returns 10*log10(255^2/MSE), or 0 when the images are identical.
func PSNR(a, b *Buffer) float64 {
	sse := 0.0
	for i := range a.data {
		d := float64(a.data[i]) - float64(b.data[i])
		sse += d * d
	}
	if sse <= identicalSSE {
		return 0
	}
	mse := sse / float64(len(a.data))
	return 10 * math.Log10(255*255/mse)
}
