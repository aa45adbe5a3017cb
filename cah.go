package npr

import (
	"context"
	"math"
)

var (
	cahKernelSize = intParam{key: "Kernel_size", def: 7, lo: 3, hi: 15, oddOnly: true}
	cahExponent   = floatParam{key: "Exponent", def: 2.6, lo: 1.0, hi: 5.0}
)

// CAHConfig holds the parameters of contrast-aware halftoning.
type CAHConfig struct {
	// KernelSize is the odd side of the diffusion window.
	KernelSize int
	// Exponent shapes the distance falloff of the diffusion weights.
	Exponent float64
}

// DefaultCAHConfig returns the editor defaults.
func DefaultCAHConfig() CAHConfig {
	return CAHConfig{KernelSize: cahKernelSize.def, Exponent: cahExponent.def}
}

// Validate checks every field against its range.
func (c CAHConfig) Validate() error {
	if err := cahKernelSize.check(TypeCAH, c.KernelSize); err != nil {
		return err
	}
	return cahExponent.check(TypeCAH, c.Exponent)
}

// CAH is an error-diffusion halftoner whose weights favour unvisited
// neighbors that contrast with the chosen output level.
type CAH struct {
	base
	cfg CAHConfig
}

// NewCAH creates a CAH filter with 1-channel input and output.
func NewCAH(opts ...Option) *CAH {
	return &CAH{
		base: newFixedBase(TypeCAH, []int{1}, []int{1}, opts),
		cfg:  DefaultCAHConfig(),
	}
}

// Config returns the current parameters.
func (f *CAH) Config() CAHConfig { return f.cfg }

// SetConfig validates and applies c.
func (f *CAH) SetConfig(c CAHConfig) error {
	if err := c.Validate(); err != nil {
		return err
	}
	f.cfg = c
	return nil
}

// ResetData restores the default parameters.
func (f *CAH) ResetData() { f.cfg = DefaultCAHConfig() }

// ReadParameters parses p into the configuration.
func (f *CAH) ReadParameters(p Params) error {
	r := newParamReader(f.typ, p)
	c := CAHConfig{
		KernelSize: r.readInt(cahKernelSize),
		Exponent:   r.readFloat(cahExponent),
	}
	if r.err != nil {
		return r.err
	}
	return f.SetConfig(c)
}

// WriteParameters returns the configuration as a parameter map.
func (f *CAH) WriteParameters() Params {
	w := paramWriter{}
	w.putInt(cahKernelSize, f.cfg.KernelSize)
	w.putFloat(cahExponent, f.cfg.Exponent)
	return Params(w)
}

// Update halftones inputs[0] into output slot 0.
func (f *CAH) Update(_ context.Context, inputs ...*Buffer) error {
	in, err := f.negotiate(inputs)
	if err != nil {
		return err
	}
	src := in[0]
	dst := f.target(0, src.rows, src.cols, 1, in)
	halftoneCAH(src.data, dst.data, src.rows, src.cols, f.cfg)
	return f.commit(0, dst, in)
}

// cahWeight is one precomputed window offset.
type cahWeight struct {
	dr, dc  int
	falloff float64 // 1 / distance^exponent
}

// halftoneCAH runs the diffusion and returns the visited mask. Pixels are
// scanned row-major inside a KernelSize/2 border. Each pixel adds the carried
// residual, snaps to 0 (value <= 128) or 255, and spreads its error over
// unvisited window neighbors with weights |neighbor-reference|/d^exponent.
// Error clamped away at a neighbor is carried to the next scanned pixel.
// Border pixels are thresholded from their final running values.
func halftoneCAH(src, dst []uint8, rows, cols int, cfg CAHConfig) []bool {
	radius := cfg.KernelSize / 2

	offsets := make([]cahWeight, 0, cfg.KernelSize*cfg.KernelSize-1)
	for dr := -radius; dr <= radius; dr++ {
		for dc := -radius; dc <= radius; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			d := math.Hypot(float64(dr), float64(dc))
			offsets = append(offsets, cahWeight{dr: dr, dc: dc, falloff: 1 / math.Pow(d, cfg.Exponent)})
		}
	}

	vals := make([]float64, rows*cols)
	for i, v := range src {
		vals[i] = float64(v)
	}
	visited := make([]bool, rows*cols)
	weights := make([]float64, len(offsets))

	residual := 0.0
	for r := radius; r < rows-radius; r++ {
		for c := radius; c < cols-radius; c++ {
			i := r*cols + c
			v := vals[i] + residual
			residual = 0

			ref, errv := 0.0, v
			out := uint8(0)
			if v > 128 {
				ref, errv, out = 255, v-255, 255
			}
			dst[i] = out
			visited[i] = true

			sum := 0.0
			for k, o := range offsets {
				j := (r+o.dr)*cols + c + o.dc
				if visited[j] {
					weights[k] = 0
					continue
				}
				weights[k] = math.Abs(vals[j]-ref) * o.falloff
				sum += weights[k]
			}
			if sum == 0 {
				continue
			}

			for k, o := range offsets {
				if weights[k] == 0 {
					continue
				}
				j := (r+o.dr)*cols + c + o.dc
				nv := vals[j] + errv*weights[k]/sum
				switch {
				case nv < 0:
					residual += nv
					nv = 0
				case nv > 255:
					residual += nv - 255
					nv = 255
				}
				vals[j] = nv
			}
		}
	}

	for i := range vals {
		if visited[i] {
			continue
		}
		if vals[i] > 128 {
			dst[i] = 255
		} else {
			dst[i] = 0
		}
	}
	return visited
}
