package npr

import (
	"math/rand"
	"testing"
)

// mustBuffer allocates a zeroed buffer or fails the test.
func mustBuffer(t testing.TB, rows, cols, channels int) *Buffer {
	t.Helper()
	b, err := NewBuffer(rows, cols, channels)
	if err != nil {
		t.Fatalf("NewBuffer(%d, %d, %d): %v", rows, cols, channels, err)
	}
	return b
}

// filled returns a buffer with every sample set to v.
func filled(t testing.TB, rows, cols, channels int, v uint8) *Buffer {
	t.Helper()
	b := mustBuffer(t, rows, cols, channels)
	b.Fill(v)
	return b
}

// gradientBuffer ramps from 0 at the left to 255 at the right.
func gradientBuffer(t testing.TB, rows, cols, channels int) *Buffer {
	t.Helper()
	b := mustBuffer(t, rows, cols, channels)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			for ch := 0; ch < channels; ch++ {
				b.Set(r, c, ch, uint8(c*255/max(cols-1, 1)))
			}
		}
	}
	return b
}

// noisy returns a copy of b with uniform noise of the given amplitude.
func noisy(b *Buffer, amplitude int, seed int64) *Buffer {
	rng := rand.New(rand.NewSource(seed))
	out := b.Clone()
	for i, v := range out.data {
		n := int(v) + rng.Intn(2*amplitude+1) - amplitude
		out.data[i] = uint8(max(0, min(255, n)))
	}
	return out
}

// mirrorCols flips b left to right.
func mirrorCols(b *Buffer) *Buffer {
	out := b.Clone()
	for r := 0; r < b.rows; r++ {
		for c := 0; c < b.cols; c++ {
			for ch := 0; ch < b.channels; ch++ {
				out.Set(r, b.cols-1-c, ch, b.At(r, c, ch))
			}
		}
	}
	return out
}

// isBinary reports whether every sample is 0 or 255.
func isBinary(b *Buffer) bool {
	for _, v := range b.data {
		if v != 0 && v != 255 {
			return false
		}
	}
	return true
}

func countValue(b *Buffer, v uint8) int {
	n := 0
	for _, s := range b.data {
		if s == v {
			n++
		}
	}
	return n
}
