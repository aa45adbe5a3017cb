package npr

import (
	"testing"
)

func TestCAHVisitsInterior(t *testing.T) {
	const rows, cols = 20, 25
	in := gradientBuffer(t, rows, cols, 1)
	for _, k := range []int{3, 7, 15} {
		cfg := CAHConfig{KernelSize: k, Exponent: 2.6}
		dst := make([]uint8, rows*cols)
		visited := halftoneCAH(in.data, dst, rows, cols, cfg)
		n := 0
		for _, v := range visited {
			if v {
				n++
			}
		}
		r := k / 2
		if want := (rows - 2*r) * (cols - 2*r); n != want {
			t.Errorf("k=%d: visited %d, want %d", k, n, want)
		}
	}
}

func TestCAHBinaryOutput(t *testing.T) {
	const rows, cols = 24, 24
	in := noisy(gradientBuffer(t, rows, cols, 1), 30, 5)
	dst := make([]uint8, rows*cols)
	halftoneCAH(in.data, dst, rows, cols, DefaultCAHConfig())
	for i, v := range dst {
		if v != 0 && v != 255 {
			t.Fatalf("sample %d = %d", i, v)
		}
	}
}

func TestCAHFlatLevels(t *testing.T) {
	const rows, cols = 32, 32
	tests := []struct {
		name      string
		v         uint8
		wantBlack bool
		wantWhite bool
	}{
		{"black", 0, true, false},
		{"white", 255, false, true},
		{"mid gray", 128, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := filled(t, rows, cols, 1, tt.v)
			dst := make([]uint8, rows*cols)
			halftoneCAH(in.data, dst, rows, cols, DefaultCAHConfig())
			out := &Buffer{rows: rows, cols: cols, channels: 1, data: dst}
			black, white := countValue(out, 0), countValue(out, 255)
			if (black > 0) != tt.wantBlack || (white > 0) != tt.wantWhite {
				t.Errorf("black=%d white=%d", black, white)
			}
		})
	}
}

func TestCAHInputUntouched(t *testing.T) {
	in := gradientBuffer(t, 16, 16, 1)
	orig := in.Clone()
	dst := make([]uint8, 16*16)
	halftoneCAH(in.data, dst, 16, 16, DefaultCAHConfig())
	for i := range in.data {
		if in.data[i] != orig.data[i] {
			t.Fatal("input modified")
		}
	}
}
