// Package image loads and saves 8-bit rasters with 1 or 3 channels.
//
// Gray sources stay single-channel; every other 8-bit source becomes RGB
// with any alpha channel dropped. Sources with more than 8 bits per
// channel are rejected.
package image

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // register JPEG decoding
	"image/png"
	"io"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"  // register BMP decoding
	_ "golang.org/x/image/tiff" // register TIFF decoding

	"github.com/gogpu/npr/internal/filter"
)

// I/O errors.
var (
	// ErrEmptyData is returned when image data is empty.
	ErrEmptyData = errors.New("image: empty data")

	// ErrBitDepth is returned for sources deeper than 8 bits per channel.
	ErrBitDepth = errors.New("image: only 8-bit sources are supported")

	// ErrChannels is returned when a raster has a channel count other than 1 or 3.
	ErrChannels = errors.New("image: channel count must be 1 or 3")
)

// Raster is a row-major 8-bit image with interleaved channels.
type Raster struct {
	Rows     int
	Cols     int
	Channels int
	Pix      []uint8
}

// Load decodes the image file at path.
func Load(path string) (*Raster, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("image: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	r, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// LoadFromBytes decodes an in-memory image.
func LoadFromBytes(data []byte) (*Raster, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}
	return Decode(bytes.NewReader(data))
}

// Decode decodes an image from r, auto-detecting the format.
func Decode(r io.Reader) (*Raster, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("image: decode: %w", err)
	}
	return FromStdImage(img)
}

// FromStdImage converts a standard library image.
func FromStdImage(img image.Image) (*Raster, error) {
	b := img.Bounds()
	rows, cols := b.Dy(), b.Dx()

	switch src := img.(type) {
	case *image.Gray16, *image.RGBA64, *image.NRGBA64:
		return nil, ErrBitDepth
	case *image.Gray:
		r := &Raster{Rows: rows, Cols: cols, Channels: 1, Pix: make([]uint8, rows*cols)}
		for y := range rows {
			copy(r.Pix[y*cols:(y+1)*cols], src.Pix[y*src.Stride:y*src.Stride+cols])
		}
		return r, nil
	case *image.NRGBA:
		r := &Raster{Rows: rows, Cols: cols, Channels: 3, Pix: make([]uint8, rows*cols*3)}
		for y := range rows {
			row := src.Pix[y*src.Stride:]
			for x := range cols {
				copy(r.Pix[(y*cols+x)*3:(y*cols+x)*3+3], row[x*4:x*4+3])
			}
		}
		return r, nil
	}

	r := &Raster{Rows: rows, Cols: cols, Channels: 3, Pix: make([]uint8, rows*cols*3)}
	for y := range rows {
		for x := range cols {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			i := (y*cols + x) * 3
			r.Pix[i], r.Pix[i+1], r.Pix[i+2] = c.R, c.G, c.B
		}
	}
	return r, nil
}

// ToStdImage returns *image.Gray for 1 channel and *image.NRGBA otherwise.
func (r *Raster) ToStdImage() (image.Image, error) {
	rect := image.Rect(0, 0, r.Cols, r.Rows)
	switch r.Channels {
	case 1:
		g := image.NewGray(rect)
		copy(g.Pix, r.Pix)
		return g, nil
	case 3:
		n := image.NewNRGBA(rect)
		for i, j := 0, 0; i < len(r.Pix); i, j = i+3, j+4 {
			n.Pix[j], n.Pix[j+1], n.Pix[j+2], n.Pix[j+3] = r.Pix[i], r.Pix[i+1], r.Pix[i+2], 255
		}
		return n, nil
	default:
		return nil, ErrChannels
	}
}

// Gray returns one luma sample per pixel. 1-channel rasters are returned
// without copying.
func (r *Raster) Gray() []uint8 {
	if r.Channels == 1 {
		return r.Pix
	}
	return filter.RGBToGray(r.Pix)
}

// EncodePNG writes the raster as PNG.
func (r *Raster) EncodePNG(w io.Writer) error {
	img, err := r.ToStdImage()
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("image: encode PNG: %w", err)
	}
	return nil
}

// SavePNG writes the raster to a PNG file.
func (r *Raster) SavePNG(path string) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("image: create file: %w", err)
	}
	if err := r.EncodePNG(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
