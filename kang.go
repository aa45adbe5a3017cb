package npr

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gogpu/npr/internal/etf"
	"github.com/gogpu/npr/internal/filter"
)

var (
	kangETFIterations  = intParam{key: "ETF_iterations", def: 3, lo: 1, hi: 10}
	kangRadius         = intParam{key: "Radius", def: 5, lo: 0, hi: 20}
	kangEta            = floatParam{key: "Eta", def: 1.0, lo: 0, hi: 5}
	kangCenterSize     = intParam{key: "Kernel_size_center", def: 5, lo: 1, hi: 31, oddOnly: true}
	kangSurroundSize   = intParam{key: "Kernel_size_surround", def: 9, lo: 3, hi: 61, oddOnly: true}
	kangRo             = floatParam{key: "Ro", def: 0.997, lo: 0.9, hi: 1.0}
	kangLineLengthSize = intParam{key: "Kernel_size_line_length", def: 9, lo: 1, hi: 61, oddOnly: true}
	kangDeltaLength    = floatParam{key: "Delta_line_length", def: 1, lo: 0.5, hi: 5}
	kangDeltaWidth     = floatParam{key: "Delta_line_width", def: 1, lo: 0.5, hi: 5}
	kangLinesIter      = intParam{key: "Lines_iterations", def: 3, lo: 1, hi: 10}
	kangTheta          = floatParam{key: "Theta", def: 0.5, lo: 0, hi: 2}
)

// KangConfig holds the parameters of the flow-based line drawing filter.
type KangConfig struct {
	ETFIterations  int
	Radius         int
	Eta            float64
	CenterSize     int
	SurroundSize   int
	Ro             float64
	LineLengthSize int
	DeltaLength    float64
	DeltaWidth     float64
	LinesIter      int
	Theta          float64
}

// DefaultKangConfig returns the editor defaults.
func DefaultKangConfig() KangConfig {
	return KangConfig{
		ETFIterations:  kangETFIterations.def,
		Radius:         kangRadius.def,
		Eta:            kangEta.def,
		CenterSize:     kangCenterSize.def,
		SurroundSize:   kangSurroundSize.def,
		Ro:             kangRo.def,
		LineLengthSize: kangLineLengthSize.def,
		DeltaLength:    kangDeltaLength.def,
		DeltaWidth:     kangDeltaWidth.def,
		LinesIter:      kangLinesIter.def,
		Theta:          kangTheta.def,
	}
}

// Validate checks every field against its range.
func (c KangConfig) Validate() error {
	for _, err := range []error{
		kangETFIterations.check(TypeKang, c.ETFIterations),
		kangRadius.check(TypeKang, c.Radius),
		kangEta.check(TypeKang, c.Eta),
		kangCenterSize.check(TypeKang, c.CenterSize),
		kangSurroundSize.check(TypeKang, c.SurroundSize),
		kangRo.check(TypeKang, c.Ro),
		kangLineLengthSize.check(TypeKang, c.LineLengthSize),
		kangDeltaLength.check(TypeKang, c.DeltaLength),
		kangDeltaWidth.check(TypeKang, c.DeltaWidth),
		kangLinesIter.check(TypeKang, c.LinesIter),
		kangTheta.check(TypeKang, c.Theta),
	} {
		if err != nil {
			return err
		}
	}
	if c.SurroundSize <= c.CenterSize {
		return &ParamError{Filter: TypeKang, Key: kangSurroundSize.key, Value: fmt.Sprint(c.SurroundSize),
			Err: fmt.Errorf("%w: must exceed %s", ErrOutOfRange, kangCenterSize.key)}
	}
	return nil
}

// Kang draws coherent lines along a smoothed edge tangent flow.
// Line pixels are 0, background 255.
type Kang struct {
	base
	cfg KangConfig
}

// NewKang creates a Kang filter with 1-channel input and output.
func NewKang(opts ...Option) *Kang {
	return &Kang{
		base: newFixedBase(TypeKang, []int{1}, []int{1}, opts),
		cfg:  DefaultKangConfig(),
	}
}

// Config returns the current parameters.
func (f *Kang) Config() KangConfig { return f.cfg }

// SetConfig validates and applies c.
func (f *Kang) SetConfig(c KangConfig) error {
	if err := c.Validate(); err != nil {
		return err
	}
	f.cfg = c
	return nil
}

// ResetData restores the default parameters.
func (f *Kang) ResetData() { f.cfg = DefaultKangConfig() }

// ReadParameters parses p into the configuration.
func (f *Kang) ReadParameters(p Params) error {
	r := newParamReader(f.typ, p)
	c := KangConfig{
		ETFIterations:  r.readInt(kangETFIterations),
		Radius:         r.readInt(kangRadius),
		Eta:            r.readFloat(kangEta),
		CenterSize:     r.readInt(kangCenterSize),
		SurroundSize:   r.readInt(kangSurroundSize),
		Ro:             r.readFloat(kangRo),
		LineLengthSize: r.readInt(kangLineLengthSize),
		DeltaLength:    r.readFloat(kangDeltaLength),
		DeltaWidth:     r.readFloat(kangDeltaWidth),
		LinesIter:      r.readInt(kangLinesIter),
		Theta:          r.readFloat(kangTheta),
	}
	if r.err != nil {
		return r.err
	}
	return f.SetConfig(c)
}

// WriteParameters returns the configuration as a parameter map.
func (f *Kang) WriteParameters() Params {
	w := paramWriter{}
	w.putInt(kangETFIterations, f.cfg.ETFIterations)
	w.putInt(kangRadius, f.cfg.Radius)
	w.putFloat(kangEta, f.cfg.Eta)
	w.putInt(kangCenterSize, f.cfg.CenterSize)
	w.putInt(kangSurroundSize, f.cfg.SurroundSize)
	w.putFloat(kangRo, f.cfg.Ro)
	w.putInt(kangLineLengthSize, f.cfg.LineLengthSize)
	w.putFloat(kangDeltaLength, f.cfg.DeltaLength)
	w.putFloat(kangDeltaWidth, f.cfg.DeltaWidth)
	w.putInt(kangLinesIter, f.cfg.LinesIter)
	w.putFloat(kangTheta, f.cfg.Theta)
	return Params(w)
}

// Update draws lines for inputs[0]. Cancellation is checked between ETF
// and line iterations. A cancelled line phase publishes the last completed
// iteration; a cancellation before any line iteration leaves the output
// untouched. Both return ctx.Err().
func (f *Kang) Update(ctx context.Context, inputs ...*Buffer) error {
	in, err := f.negotiate(inputs)
	if err != nil {
		return err
	}
	src := in[0]
	gray := filter.PlaneFromU8(src.data, src.rows, src.cols, 1, 0)

	field, err := etf.Refine(ctx, gray, etf.Params{
		Iterations: f.cfg.ETFIterations,
		Radius:     f.cfg.Radius,
		Eta:        f.cfg.Eta,
	}, func(done, total int) {
		f.report("etf", done, total)
	})
	if err != nil {
		f.logger().Debug("npr: Kang cancelled during ETF", slog.String("err", err.Error()))
		return err
	}

	lines := make([]uint8, src.rows*src.cols)
	completed := 0
	err = etf.Lines(ctx, gray, field, etf.LineParams{
		CenterSize:   f.cfg.CenterSize,
		SurroundSize: f.cfg.SurroundSize,
		Rho:          f.cfg.Ro,
		LengthSize:   f.cfg.LineLengthSize,
		DeltaLength:  f.cfg.DeltaLength,
		DeltaWidth:   f.cfg.DeltaWidth,
		Iterations:   f.cfg.LinesIter,
		Theta:        f.cfg.Theta,
	}, lines, func(done, total int) {
		completed = done
		f.report("lines", done, total)
	})
	if completed > 0 {
		res := &Buffer{rows: src.rows, cols: src.cols, channels: 1, data: lines}
		if cerr := f.commit(0, res, in); cerr != nil {
			return cerr
		}
	}
	return err
}
