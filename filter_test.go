package npr

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestColorInputIntoGraySlotUsesLuma(t *testing.T) {
	in := mustBuffer(t, 4, 4, 3)
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			in.Set(r, c, 0, 255) // pure red
		}
	}
	f := NewCAH()
	if err := f.Update(context.Background(), in); err != nil {
		t.Fatal(err)
	}
	out := f.Output(0)
	if out.Channels() != 1 {
		t.Fatalf("channels = %d, want 1", out.Channels())
	}
	// red luma is 76 <= 128: every thresholded border pixel is 0
	if out.At(0, 0, 0) != 0 {
		t.Errorf("corner = %d, want 0", out.At(0, 0, 0))
	}
	if in.At(0, 0, 0) != 255 {
		t.Error("input was modified")
	}
}

func TestGrayInputIntoColorSlotFails(t *testing.T) {
	f := NewGaussian()
	err := f.Update(context.Background(), mustBuffer(t, 4, 4, 1))
	if !errors.Is(err, ErrChannelMismatch) {
		t.Errorf("err = %v, want ErrChannelMismatch", err)
	}
}

func TestMissingInput(t *testing.T) {
	for _, f := range []Filter{NewGaussian(), NewInversion(), NewCAH(), NewACSP(), NewKang(), NewSBE(), NewRetinex()} {
		if err := f.Update(context.Background()); !errors.Is(err, ErrMissingInput) {
			t.Errorf("%s: err = %v, want ErrMissingInput", f.Type(), err)
		}
	}
	m := NewMeasure()
	if err := m.Update(context.Background(), mustBuffer(t, 2, 2, 1), nil); !errors.Is(err, ErrMissingInput) {
		t.Errorf("measure: err = %v, want ErrMissingInput", err)
	}
}

func TestGrayResultBroadcastToColorSlot(t *testing.T) {
	f := NewCAH()
	if err := f.SetOutputChannels(0, 3); err != nil {
		t.Fatal(err)
	}
	if err := f.Update(context.Background(), filled(t, 9, 9, 1, 200)); err != nil {
		t.Fatal(err)
	}
	out := f.Output(0)
	if out.Channels() != 3 {
		t.Fatalf("channels = %d, want 3", out.Channels())
	}
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			v := out.At(r, c, 0)
			if out.At(r, c, 1) != v || out.At(r, c, 2) != v {
				t.Fatalf("(%d,%d) not broadcast", r, c)
			}
		}
	}
}

func TestColorResultConvertedToGraySlot(t *testing.T) {
	f := NewInversion()
	if err := f.SetOutputChannels(0, 1); err != nil {
		t.Fatal(err)
	}
	if err := f.Update(context.Background(), filled(t, 3, 3, 3, 55)); err != nil {
		t.Fatal(err)
	}
	out := f.Output(0)
	if out.Channels() != 1 || out.At(1, 1, 0) != 200 {
		t.Errorf("out = %d channels, sample %d", out.Channels(), out.At(1, 1, 0))
	}
}

func TestInversionGraySlot(t *testing.T) {
	f := NewInversion()
	if err := f.SetInputChannels(0, 1); err != nil {
		t.Fatal(err)
	}
	if err := f.SetOutputChannels(0, 1); err != nil {
		t.Fatal(err)
	}
	in := mustBuffer(t, 1, 3, 1)
	in.Set(0, 0, 0, 0)
	in.Set(0, 1, 0, 100)
	in.Set(0, 2, 0, 255)
	if err := f.Update(context.Background(), in); err != nil {
		t.Fatal(err)
	}
	out := f.Output(0)
	for c, want := range []uint8{255, 155, 0} {
		if got := out.At(0, c, 0); got != want {
			t.Errorf("col %d = %d, want %d", c, got, want)
		}
	}
}

func TestSetChannelsValidation(t *testing.T) {
	f := NewGaussian()
	if err := f.SetInputChannels(0, 2); !errors.Is(err, ErrInvalidChannels) {
		t.Errorf("err = %v, want ErrInvalidChannels", err)
	}
	if err := f.SetInputChannels(1, 1); err == nil {
		t.Error("slot 1 accepted on a single-input filter")
	}
	if err := f.SetInputChannels(0, 1); err != nil {
		t.Fatal(err)
	}
	if f.InputChannels(0) != 1 || f.InputChannels(5) != 0 {
		t.Error("InputChannels mismatch")
	}
}

func TestFixedInputLayoutRejectsReconfiguration(t *testing.T) {
	tests := []struct {
		f    Filter
		slot int
		bad  int
	}{
		{NewCAH(), 0, 3},
		{NewACSP(), 0, 3},
		{NewKang(), 0, 3},
		{NewSBE(), 0, 3},
		{NewSBE(), 1, 3},
		{NewMeasure(), 1, 3},
		{NewRetinex(), 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.f.Type().String(), func(t *testing.T) {
			want := tt.f.InputChannels(tt.slot)
			if err := tt.f.SetInputChannels(tt.slot, tt.bad); !errors.Is(err, ErrInvalidChannels) {
				t.Errorf("SetInputChannels(%d, %d) = %v, want ErrInvalidChannels", tt.slot, tt.bad, err)
			}
			if got := tt.f.InputChannels(tt.slot); got != want {
				t.Errorf("InputChannels(%d) = %d after rejected change, want %d", tt.slot, got, want)
			}
			if err := tt.f.SetInputChannels(tt.slot, want); err != nil {
				t.Errorf("re-setting the native count: %v", err)
			}
		})
	}
}

func TestRejectedReconfigurationKeepsLumaPath(t *testing.T) {
	in := mustBuffer(t, 4, 4, 3)
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			in.Set(r, c, 0, 255)
		}
	}
	for _, f := range []Filter{NewCAH(), NewACSP()} {
		_ = f.SetInputChannels(0, 3)
		if err := f.Update(context.Background(), in); err != nil {
			t.Fatalf("%s: %v", f.Type(), err)
		}
		out := f.Output(0)
		if out.Rows() != 4 || out.Cols() != 4 || out.Channels() != 1 {
			t.Errorf("%s: output %dx%dx%d, want 4x4x1", f.Type(), out.Rows(), out.Cols(), out.Channels())
		}
	}
}

func TestOutputReallocationKeepsOldBuffer(t *testing.T) {
	f := NewInversion()
	if err := f.Update(context.Background(), filled(t, 4, 4, 3, 10)); err != nil {
		t.Fatal(err)
	}
	old := f.Output(0)
	if err := f.Update(context.Background(), filled(t, 6, 5, 3, 20)); err != nil {
		t.Fatal(err)
	}
	if f.Output(0) == old {
		t.Fatal("output not reallocated for a new size")
	}
	if old.Rows() != 4 || old.At(0, 0, 0) != 245 {
		t.Error("previous output buffer was modified")
	}
}

func TestOutputAliasingInputIsReallocated(t *testing.T) {
	f := NewInversion()
	if err := f.Update(context.Background(), filled(t, 4, 4, 3, 10)); err != nil {
		t.Fatal(err)
	}
	out := f.Output(0)
	if err := f.Update(context.Background(), out); err != nil {
		t.Fatal(err)
	}
	if out.At(0, 0, 0) != 245 {
		t.Error("filter wrote through its input")
	}
	if f.Output(0).At(0, 0, 0) != 10 {
		t.Errorf("double inversion = %d, want 10", f.Output(0).At(0, 0, 0))
	}
}

func TestOutputBeforeUpdate(t *testing.T) {
	f := NewGaussian()
	if f.Output(0) != nil || f.Output(3) != nil {
		t.Error("Output should be nil before Update")
	}
}

func TestWithLoggerOverridesPackageLogger(t *testing.T) {
	var buf bytes.Buffer
	f := NewACSP(WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	_ = f.Update(context.Background(), mustBuffer(t, 3, 5, 1))
	if !strings.Contains(buf.String(), "ACSP") {
		t.Errorf("per-filter logger got %q", buf.String())
	}
}

func TestWithProgressReportsStages(t *testing.T) {
	var stages []string
	f := NewKang(WithProgress(func(p Progress) {
		if p.Filter != TypeKang {
			t.Errorf("progress from %s", p.Filter)
		}
		stages = append(stages, p.Stage)
	}))
	if err := f.Update(context.Background(), gradientBuffer(t, 12, 12, 1)); err != nil {
		t.Fatal(err)
	}
	want := DefaultKangConfig().ETFIterations + DefaultKangConfig().LinesIter
	if len(stages) != want {
		t.Fatalf("%d progress calls, want %d", len(stages), want)
	}
	if stages[0] != "etf" || stages[len(stages)-1] != "lines" {
		t.Errorf("stages = %v", stages)
	}
}
