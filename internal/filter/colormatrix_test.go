package filter

import "testing"

func TestNewColorMatrix(t *testing.T) {
	matrix := [12]float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
	}
	m := NewColorMatrix(matrix)

	for i, v := range matrix {
		if m.Matrix[i] != v {
			t.Errorf("Matrix[%d] = %v, want %v", i, m.Matrix[i], v)
		}
	}
}

func TestColorMatrixApply(t *testing.T) {
	tests := []struct {
		name     string
		m        *ColorMatrix
		channels int
		src      []uint8
		want     []uint8
	}{
		{"invert rgb", NewInvertMatrix(), 3, []uint8{0, 100, 255, 55, 55, 55}, []uint8{255, 155, 0, 200, 200, 200}},
		{"invert gray", NewInvertMatrix(), 1, []uint8{0, 1, 128, 255}, []uint8{255, 254, 127, 0}},
		{"grayscale", NewGrayscaleMatrix(), 3, []uint8{255, 0, 0, 10, 10, 10}, []uint8{76, 76, 76, 10, 10, 10}},
		{"clamps", NewColorMatrix([12]float32{2, 0, 0, 0, 0, 1, 0, -50, 0, 0, 1, 0}), 3, []uint8{200, 20, 7}, []uint8{255, 0, 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := make([]uint8, len(tt.src))
			tt.m.Apply(dst, tt.src, tt.channels)
			for i := range tt.want {
				if dst[i] != tt.want[i] {
					t.Errorf("sample %d = %d, want %d", i, dst[i], tt.want[i])
				}
			}
		})
	}
}

func TestColorMatrixApplyInPlace(t *testing.T) {
	buf := []uint8{10, 20, 30}
	NewInvertMatrix().Apply(buf, buf, 3)
	if buf[0] != 245 || buf[1] != 235 || buf[2] != 225 {
		t.Errorf("in-place invert = %v", buf)
	}
}

// The luma row must agree with the 14-bit fixed-point conversion for every
// input, not only the common test colors.
func TestGrayscaleMatchesFixedPoint(t *testing.T) {
	src := make([]uint8, 3)
	dst := make([]uint8, 1)
	m := NewGrayscaleMatrix()
	for r := 0; r < 256; r += 3 {
		for g := 0; g < 256; g += 5 {
			for b := 0; b < 256; b += 7 {
				src[0], src[1], src[2] = uint8(r), uint8(g), uint8(b)
				m.Project(dst, src, 0)
				want := uint8((r*4899 + g*9617 + b*1868 + 1<<13) >> 14)
				if dst[0] != want {
					t.Fatalf("luma(%d, %d, %d) = %d, want %d", r, g, b, dst[0], want)
				}
			}
		}
	}
}

func BenchmarkColorMatrixApply(b *testing.B) {
	src := make([]uint8, 256*256*3)
	for i := range src {
		src[i] = uint8(i)
	}
	dst := make([]uint8, len(src))
	m := NewInvertMatrix()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Apply(dst, src, 3)
	}
}
