package npr

import (
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"testing"
)

func TestNewBufferValidation(t *testing.T) {
	tests := []struct {
		name             string
		rows, cols, chns int
		want             error
	}{
		{"ok gray", 2, 3, 1, nil},
		{"ok color", 2, 3, 3, nil},
		{"zero rows", 0, 3, 1, ErrInvalidDimensions},
		{"negative cols", 2, -1, 1, ErrInvalidDimensions},
		{"two channels", 2, 3, 2, ErrInvalidChannels},
		{"four channels", 2, 3, 4, ErrInvalidChannels},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBuffer(tt.rows, tt.cols, tt.chns)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if err == nil && len(b.Data()) != tt.rows*tt.cols*tt.chns {
				t.Errorf("len(Data) = %d", len(b.Data()))
			}
		})
	}
}

func TestBufferFromDataLength(t *testing.T) {
	if _, err := BufferFromData(2, 2, 3, make([]uint8, 11)); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("err = %v, want ErrInvalidDimensions", err)
	}
	data := make([]uint8, 12)
	b, err := BufferFromData(2, 2, 3, data)
	if err != nil {
		t.Fatal(err)
	}
	b.Set(1, 1, 2, 7)
	if data[11] != 7 {
		t.Error("BufferFromData should wrap without copying")
	}
}

func TestBufferAccessAndClone(t *testing.T) {
	b := mustBuffer(t, 3, 4, 3)
	b.Set(2, 1, 0, 10)
	b.Set(2, 1, 2, 30)
	if b.At(2, 1, 0) != 10 || b.At(2, 1, 2) != 30 || b.At(2, 1, 1) != 0 {
		t.Fatal("At/Set mismatch")
	}

	c := b.Clone()
	c.Set(2, 1, 0, 99)
	if b.At(2, 1, 0) != 10 {
		t.Error("Clone shares storage")
	}
	if !b.SameShape(c) || !b.SameSize(mustBuffer(t, 3, 4, 1)) || b.SameShape(mustBuffer(t, 3, 4, 1)) {
		t.Error("shape comparisons wrong")
	}
}

func TestBufferImageBridge(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 3, 2))
	gray.SetGray(2, 1, color.Gray{Y: 200})
	b := FromImage(gray)
	if b.Channels() != 1 || b.Rows() != 2 || b.Cols() != 3 || b.At(1, 2, 0) != 200 {
		t.Fatalf("FromImage(gray) = %dx%dx%d", b.Rows(), b.Cols(), b.Channels())
	}
	if g, ok := b.ToImage().(*image.Gray); !ok || g.GrayAt(2, 1).Y != 200 {
		t.Error("ToImage should return the gray image")
	}

	rgba := image.NewRGBA(image.Rect(0, 0, 2, 2))
	rgba.Set(1, 0, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	c := FromImage(rgba)
	if c.Channels() != 3 || c.At(0, 1, 0) != 10 || c.At(0, 1, 2) != 30 {
		t.Error("FromImage(rgba) lost color")
	}
}

func TestBufferSaveLoadPNG(t *testing.T) {
	b := gradientBuffer(t, 5, 7, 3)
	path := filepath.Join(t.TempDir(), "b.png")
	if err := b.SavePNG(path); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
	got, err := LoadBuffer(path)
	if err != nil {
		t.Fatalf("LoadBuffer: %v", err)
	}
	if !got.SameShape(b) {
		t.Fatalf("shape %dx%dx%d", got.Rows(), got.Cols(), got.Channels())
	}
	for i := range b.data {
		if got.data[i] != b.data[i] {
			t.Fatalf("sample %d = %d, want %d", i, got.data[i], b.data[i])
		}
	}
}
