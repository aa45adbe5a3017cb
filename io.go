package npr

import (
	"github.com/gogpu/npr/internal/image"
)

// LoadBuffer decodes an 8-bit PNG, JPEG, BMP or TIFF file. Grayscale files
// give 1 channel, everything else 3; alpha is dropped.
func LoadBuffer(path string) (*Buffer, error) {
	r, err := image.Load(path)
	if err != nil {
		return nil, err
	}
	return BufferFromData(r.Rows, r.Cols, r.Channels, r.Pix)
}

// SavePNG writes b as an 8-bit gray or RGB PNG.
func (b *Buffer) SavePNG(path string) error {
	r := &image.Raster{Rows: b.rows, Cols: b.cols, Channels: b.channels, Pix: b.data}
	return r.SavePNG(path)
}
