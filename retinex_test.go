package npr

import (
	"context"
	"errors"
	"testing"
)

func TestRetinexRejectsUnsupportedInput(t *testing.T) {
	tests := []struct {
		name string
		in   *Buffer
	}{
		{"too small", filled(t, 128, 300, 3, 90)},
		{"gray", filled(t, 256, 256, 1, 90)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewRetinex()
			err := f.Update(context.Background(), tt.in)
			if !errors.Is(err, ErrPrecondition) {
				t.Fatalf("err = %v, want ErrPrecondition", err)
			}
			if f.Output(0) != nil {
				t.Error("output written despite failed precondition")
			}
		})
	}
}

func TestRetinexFlatImageMapsToMidGray(t *testing.T) {
	if testing.Short() {
		t.Skip("large kernels")
	}
	f := NewRetinex()
	if err := f.Update(context.Background(), filled(t, 256, 256, 3, 128)); err != nil {
		t.Fatal(err)
	}
	for i, v := range f.Output(0).data {
		if v < 127 || v > 128 {
			t.Fatalf("sample %d = %d, want ~128", i, v)
		}
	}
}

func TestRetinexKernelSizes(t *testing.T) {
	tests := []struct {
		n    int
		want []int
	}{
		{1, []int{3}},
		{2, []int{3, 255}},
		{3, []int{3, 129, 255}},
	}
	for _, tt := range tests {
		got := RetinexConfig{Variance: 1, NumKernels: tt.n}.KernelSizes()
		if len(got) != len(tt.want) {
			t.Fatalf("n=%d: %v", tt.n, got)
		}
		for i := range got {
			if got[i] != tt.want[i] || got[i]%2 == 0 {
				t.Errorf("n=%d: sizes %v, want %v", tt.n, got, tt.want)
				break
			}
		}
	}
}
