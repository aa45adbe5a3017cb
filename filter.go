package npr

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gogpu/npr/internal/filter"
)

// Type identifies a filter algorithm. The string form is the persisted tag.
type Type string

// Filter types.
const (
	TypeGaussian  Type = "GAUSSIAN"
	TypeInversion Type = "INVERSION"
	TypeACSP      Type = "HALFTONING_ACSP"
	TypeCAH       Type = "HALFTONING_CAH"
	TypeRetinex   Type = "RETINEX"
	TypeKang      Type = "KANG"
	TypeSBE       Type = "STIPPLING_SBE"
	TypeMeasure   Type = "MEASURE_SSIM_PSNR"
)

// String returns the persisted tag.
func (t Type) String() string { return string(t) }

// Filter is a stateful image filter with fixed input and output slots.
//
// Update reads the input buffers (never writing them) and writes the
// filter-owned output buffers, reallocating a slot when its dimensions
// change. Every call rebuilds its working state from scratch.
type Filter interface {
	// Type returns the algorithm tag.
	Type() Type

	// NumInputs returns the number of input slots, including optional ones.
	NumInputs() int

	// NumOutputs returns the number of output slots.
	NumOutputs() int

	// InputChannels returns the channel count required by input slot i.
	InputChannels(i int) int

	// OutputChannels returns the channel count produced in output slot i.
	OutputChannels(i int) int

	// SetInputChannels changes the requirement of input slot i (1 or 3).
	// Filters whose algorithm works on one layout reject the other with
	// ErrInvalidChannels.
	SetInputChannels(i, n int) error

	// SetOutputChannels changes the channel count of output slot i (1 or 3).
	SetOutputChannels(i, n int) error

	// Update runs the algorithm on inputs. Errors wrapping ErrPrecondition
	// are recoverable; the output then holds the documented fallback.
	Update(ctx context.Context, inputs ...*Buffer) error

	// Output returns output slot i, or nil before the first Update.
	Output(i int) *Buffer

	// ResetData restores the default parameters.
	ResetData()

	// ReadParameters replaces the parameters with values parsed from p.
	// On error the previous parameters are kept.
	ReadParameters(p Params) error

	// WriteParameters returns the current parameters.
	WriteParameters() Params
}

// Measurer is implemented by filters that produce quality metrics.
type Measurer interface {
	Filter

	// MSSIM returns the mean structural similarity of the last Update.
	MSSIM() float64

	// PSNR returns the peak signal-to-noise ratio of the last Update.
	PSNR() float64
}

// base implements slot bookkeeping and channel negotiation for all filters.
type base struct {
	typ      Type
	inCh     []int
	outCh    []int
	optional int  // trailing input slots that may be nil
	fixedIn  bool // input channel counts cannot be changed
	outputs  []*Buffer
	opts     options
}

func newBase(t Type, in, out []int, opts []Option) base {
	return base{
		typ:     t,
		inCh:    in,
		outCh:   out,
		outputs: make([]*Buffer, len(out)),
		opts:    buildOptions(opts),
	}
}

// newFixedBase is newBase for algorithms that index their input samples
// with a fixed stride.
func newFixedBase(t Type, in, out []int, opts []Option) base {
	b := newBase(t, in, out, opts)
	b.fixedIn = true
	return b
}

func (b *base) Type() Type      { return b.typ }
func (b *base) NumInputs() int  { return len(b.inCh) }
func (b *base) NumOutputs() int { return len(b.outCh) }

func (b *base) InputChannels(i int) int {
	if i < 0 || i >= len(b.inCh) {
		return 0
	}
	return b.inCh[i]
}

func (b *base) OutputChannels(i int) int {
	if i < 0 || i >= len(b.outCh) {
		return 0
	}
	return b.outCh[i]
}

func (b *base) SetInputChannels(i, n int) error {
	if i < 0 || i >= len(b.inCh) {
		return fmt.Errorf("npr: %s has no input slot %d", b.typ, i)
	}
	if n != 1 && n != 3 {
		return ErrInvalidChannels
	}
	if b.fixedIn && n != b.inCh[i] {
		return fmt.Errorf("%w: %s input %d takes %d channels", ErrInvalidChannels, b.typ, i, b.inCh[i])
	}
	b.inCh[i] = n
	return nil
}

func (b *base) SetOutputChannels(i, n int) error {
	if i < 0 || i >= len(b.outCh) {
		return fmt.Errorf("npr: %s has no output slot %d", b.typ, i)
	}
	if n != 1 && n != 3 {
		return ErrInvalidChannels
	}
	b.outCh[i] = n
	return nil
}

func (b *base) Output(i int) *Buffer {
	if i < 0 || i >= len(b.outputs) {
		return nil
	}
	return b.outputs[i]
}

func (b *base) logger() *slog.Logger {
	if b.opts.logger != nil {
		return b.opts.logger
	}
	return Logger()
}

func (b *base) report(stage string, done, total int) {
	if b.opts.progress != nil {
		b.opts.progress(Progress{Filter: b.typ, Stage: stage, Done: done, Total: total})
	}
}

// negotiate converts each input to the declared channel count of its slot.
// Matching inputs are returned as-is (still borrowed); 3-channel inputs
// feeding a 1-channel slot are converted into temporaries. Any other
// mismatch is an error. Missing optional inputs stay nil.
func (b *base) negotiate(inputs []*Buffer) ([]*Buffer, error) {
	required := len(b.inCh) - b.optional
	out := make([]*Buffer, len(b.inCh))
	for i, want := range b.inCh {
		if i >= len(inputs) || inputs[i] == nil {
			if i < required {
				return nil, fmt.Errorf("%w: %s slot %d", ErrMissingInput, b.typ, i)
			}
			continue
		}
		conv, err := convertInput(inputs[i], want)
		if err != nil {
			return nil, fmt.Errorf("%s input %d: %w", b.typ, i, err)
		}
		out[i] = conv
	}
	b.logger().Debug("npr: negotiated inputs",
		slog.String("filter", b.typ.String()),
		slog.Int("rows", out[0].rows),
		slog.Int("cols", out[0].cols),
		slog.Int("channels", out[0].channels))
	return out, nil
}

func convertInput(in *Buffer, want int) (*Buffer, error) {
	switch {
	case in.channels == want:
		return in, nil
	case in.channels == 3 && want == 1:
		return &Buffer{rows: in.rows, cols: in.cols, channels: 1, data: filter.RGBToGray(in.data)}, nil
	default:
		return nil, fmt.Errorf("%w: %d -> %d channels", ErrChannelMismatch, in.channels, want)
	}
}

// target returns the buffer an algorithm producing native channels should
// write. When native matches the slot, the slot buffer itself is returned
// (reallocated if the size changed or it aliases an input); otherwise a
// temporary is returned and commit must route it into the slot.
func (b *base) target(slot, rows, cols, native int, inputs []*Buffer) *Buffer {
	if native == b.outCh[slot] {
		return b.ensureOutput(slot, rows, cols, inputs)
	}
	return &Buffer{rows: rows, cols: cols, channels: native, data: make([]uint8, rows*cols*native)}
}

// commit publishes res into output slot, broadcasting 1 -> 3 channels or
// converting 3 -> 1 via luma when the slot requires it.
func (b *base) commit(slot int, res *Buffer, inputs []*Buffer) error {
	if res == b.outputs[slot] {
		return nil
	}
	dst := b.ensureOutput(slot, res.rows, res.cols, inputs)
	switch {
	case res.channels == dst.channels:
		copy(dst.data, res.data)
	case res.channels == 1 && dst.channels == 3:
		copy(dst.data, filter.GrayToRGB(res.data))
	case res.channels == 3 && dst.channels == 1:
		copy(dst.data, filter.RGBToGray(res.data))
	default:
		return fmt.Errorf("%w: %d -> %d channels", ErrChannelMismatch, res.channels, dst.channels)
	}
	return nil
}

// ensureOutput makes output slot hold a rows x cols buffer with the slot's
// channel count. A new buffer is allocated instead of resizing in place so
// holders of the previous buffer keep valid contents.
func (b *base) ensureOutput(slot, rows, cols int, inputs []*Buffer) *Buffer {
	want := b.outCh[slot]
	out := b.outputs[slot]
	if out != nil && out.rows == rows && out.cols == cols && out.channels == want && !aliases(out, inputs) {
		return out
	}
	out = &Buffer{rows: rows, cols: cols, channels: want, data: make([]uint8, rows*cols*want)}
	b.outputs[slot] = out
	return out
}

func aliases(out *Buffer, inputs []*Buffer) bool {
	for _, in := range inputs {
		if in != nil && len(in.data) > 0 && len(out.data) > 0 && &in.data[0] == &out.data[0] {
			return true
		}
	}
	return false
}

// passThrough publishes a copy of in into slot 0.
func (b *base) passThrough(in *Buffer, inputs []*Buffer) error {
	return b.commit(0, in.Clone(), inputs)
}
