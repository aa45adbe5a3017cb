package filter

import "testing"

func TestGaussianBlurSizeOneCopies(t *testing.T) {
	src := rampPlane(6, 7)
	dst := GaussianBlur(src, 1, 0)
	for i := range src.Pix {
		if dst.Pix[i] != src.Pix[i] {
			t.Fatalf("pix %d = %v, want %v", i, dst.Pix[i], src.Pix[i])
		}
	}
}

func TestGaussianBlurPreservesConstant(t *testing.T) {
	src := constPlane(20, 20, 128)
	dst := GaussianBlur(src, 9, 0)
	for i, v := range dst.Pix {
		if absf32(v-128) > 1e-3 {
			t.Fatalf("pix %d = %v, want 128", i, v)
		}
	}
}

func TestGaussianBlurMirrorSymmetric(t *testing.T) {
	src := rampPlane(16, 23)
	a := mirrorCols(GaussianBlur(src, 7, 0))
	b := GaussianBlur(mirrorCols(src), 7, 0)
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("pix %d: %v != %v", i, a.Pix[i], b.Pix[i])
		}
	}
}

func TestSobelRamp(t *testing.T) {
	p := NewPlane(5, 5)
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			p.Pix[r*p.Cols+c] = float32(c)
		}
	}
	gx, gy := Sobel(p)
	if got := gx.At(2, 2); got != 8 {
		t.Errorf("gx = %v, want 8", got)
	}
	if got := gy.At(2, 2); got != 0 {
		t.Errorf("gy = %v, want 0", got)
	}
}

func TestRGBToGray(t *testing.T) {
	got := RGBToGray([]uint8{128, 128, 128, 255, 255, 255, 255, 0, 0, 0, 255, 0})
	want := []uint8{128, 255, 76, 150}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("pixel %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func BenchmarkGaussianBlur(b *testing.B) {
	src := rampPlane(256, 256)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = GaussianBlur(src, 15, 0)
	}
}
