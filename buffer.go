package npr

import (
	"fmt"
	"image"
	"image/color"
)

// Buffer is a row-major grid of 8-bit samples with 1 (gray) or 3 (color)
// interleaved channels. The stride is cols*channels; there is no padding.
//
// A Buffer stored in a filter's output slot is owned by that filter. Any
// Buffer passed to Update as input is borrowed and never written.
type Buffer struct {
	rows     int
	cols     int
	channels int
	data     []uint8
}

// NewBuffer allocates a zeroed buffer.
func NewBuffer(rows, cols, channels int) (*Buffer, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}
	if channels != 1 && channels != 3 {
		return nil, ErrInvalidChannels
	}
	return &Buffer{
		rows:     rows,
		cols:     cols,
		channels: channels,
		data:     make([]uint8, rows*cols*channels),
	}, nil
}

// BufferFromData wraps data without copying. len(data) must equal
// rows*cols*channels.
func BufferFromData(rows, cols, channels int, data []uint8) (*Buffer, error) {
	b := &Buffer{rows: rows, cols: cols, channels: channels}
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}
	if channels != 1 && channels != 3 {
		return nil, ErrInvalidChannels
	}
	if len(data) != rows*cols*channels {
		return nil, fmt.Errorf("%w: have %d samples, want %d", ErrInvalidDimensions, len(data), rows*cols*channels)
	}
	b.data = data
	return b, nil
}

// Rows returns the number of rows.
func (b *Buffer) Rows() int { return b.rows }

// Cols returns the number of columns.
func (b *Buffer) Cols() int { return b.cols }

// Channels returns 1 or 3.
func (b *Buffer) Channels() int { return b.channels }

// Data returns the raw samples.
func (b *Buffer) Data() []uint8 { return b.data }

// At returns sample ch of pixel (r, c). Out-of-range coordinates return 0.
func (b *Buffer) At(r, c, ch int) uint8 {
	if r < 0 || r >= b.rows || c < 0 || c >= b.cols || ch < 0 || ch >= b.channels {
		return 0
	}
	return b.data[(r*b.cols+c)*b.channels+ch]
}

// Set writes sample ch of pixel (r, c). Out-of-range writes are ignored.
func (b *Buffer) Set(r, c, ch int, v uint8) {
	if r < 0 || r >= b.rows || c < 0 || c >= b.cols || ch < 0 || ch >= b.channels {
		return
	}
	b.data[(r*b.cols+c)*b.channels+ch] = v
}

// Fill sets every sample to v.
func (b *Buffer) Fill(v uint8) {
	for i := range b.data {
		b.data[i] = v
	}
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	data := make([]uint8, len(b.data))
	copy(data, b.data)
	return &Buffer{rows: b.rows, cols: b.cols, channels: b.channels, data: data}
}

// SameSize reports whether o has the same rows and cols.
func (b *Buffer) SameSize(o *Buffer) bool {
	return o != nil && b.rows == o.rows && b.cols == o.cols
}

// SameShape reports whether o has the same rows, cols and channels.
func (b *Buffer) SameShape(o *Buffer) bool {
	return b.SameSize(o) && b.channels == o.channels
}

// ToImage converts the buffer to *image.Gray or *image.RGBA.
func (b *Buffer) ToImage() image.Image {
	rect := image.Rect(0, 0, b.cols, b.rows)
	if b.channels == 1 {
		g := image.NewGray(rect)
		copy(g.Pix, b.data)
		return g
	}
	img := image.NewRGBA(rect)
	for i, j := 0, 0; i < len(b.data); i, j = i+3, j+4 {
		img.Pix[j+0] = b.data[i+0]
		img.Pix[j+1] = b.data[i+1]
		img.Pix[j+2] = b.data[i+2]
		img.Pix[j+3] = 255
	}
	return img
}

// FromImage converts img to a buffer. Gray images produce 1 channel;
// everything else produces 3 channels with alpha composited over black.
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	rows, cols := bounds.Dy(), bounds.Dx()

	if g, ok := img.(*image.Gray); ok {
		b := &Buffer{rows: rows, cols: cols, channels: 1, data: make([]uint8, rows*cols)}
		for y := range rows {
			copy(b.data[y*cols:(y+1)*cols], g.Pix[y*g.Stride:y*g.Stride+cols])
		}
		return b
	}

	b := &Buffer{rows: rows, cols: cols, channels: 3, data: make([]uint8, rows*cols*3)}
	for y := range rows {
		for x := range cols {
			c := color.RGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.RGBA)
			i := (y*cols + x) * 3
			b.data[i+0] = c.R
			b.data[i+1] = c.G
			b.data[i+2] = c.B
		}
	}
	return b
}
