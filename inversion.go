package npr

import (
	"context"

	"github.com/gogpu/npr/internal/filter"
)

var invert = filter.NewInvertMatrix()

// Inversion replaces every sample v with 255-v. It has no parameters.
type Inversion struct {
	base
}

// NewInversion creates an inversion filter. Both slots default to 3 channels.
func NewInversion(opts ...Option) *Inversion {
	return &Inversion{base: newBase(TypeInversion, []int{3}, []int{3}, opts)}
}

// ResetData is a no-op.
func (f *Inversion) ResetData() {}

// ReadParameters accepts any map; there is nothing to read.
func (f *Inversion) ReadParameters(Params) error { return nil }

// WriteParameters returns an empty map.
func (f *Inversion) WriteParameters() Params { return Params{} }

// Update inverts inputs[0] into output slot 0.
func (f *Inversion) Update(_ context.Context, inputs ...*Buffer) error {
	in, err := f.negotiate(inputs)
	if err != nil {
		return err
	}
	src := in[0]
	dst := f.target(0, src.rows, src.cols, src.channels, in)
	invert.Apply(dst.data, src.data, src.channels)
	return f.commit(0, dst, in)
}
