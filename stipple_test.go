package npr

import (
	"context"
	"errors"
	"testing"

	"github.com/gogpu/npr/internal/stipple"
)

func newTestSBE(t *testing.T, opts ...Option) *SBE {
	t.Helper()
	o := stipple.DefaultSynthOptions()
	o.TextureSize = 32
	o.Marks = 8
	assets, err := stipple.Synthesize(t.TempDir(), o)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	f := NewSBE(opts...)
	cfg := DefaultSBEConfig()
	cfg.ToneMap = assets.IndexPath
	cfg.BlackStipples = assets.BlackDir
	cfg.WhiteStipples = assets.WhiteDir
	cfg.WhiteStartIndex = assets.WhiteStart
	if err := f.SetConfig(cfg); err != nil {
		t.Fatal(err)
	}
	return f
}

func TestSBERendersAndReports(t *testing.T) {
	var stages []string
	f := newTestSBE(t, WithProgress(func(p Progress) { stages = append(stages, p.Stage) }))
	in := gradientBuffer(t, 32, 48, 1)
	if err := f.Update(context.Background(), in); err != nil {
		t.Fatalf("Update: %v", err)
	}
	out := f.Output(0)
	if out == nil || !out.SameShape(in) {
		t.Fatal("missing or misshapen output")
	}
	st := f.Stats()
	if st.BlackPlaced == 0 || st.WhitePlaced == 0 {
		t.Errorf("stats = %+v", st)
	}
	if len(f.LevelMap()) != 32*48 {
		t.Errorf("level map has %d entries", len(f.LevelMap()))
	}
	if len(stages) != 4 || stages[0] != stipple.StageTone || stages[3] != stipple.StageSmooth {
		t.Errorf("stages = %v", stages)
	}
}

func TestSBESeedReproducible(t *testing.T) {
	f := newTestSBE(t)
	in := gradientBuffer(t, 24, 40, 1)
	if err := f.Update(context.Background(), in); err != nil {
		t.Fatal(err)
	}
	first := f.Output(0).Clone()
	if err := f.Update(context.Background(), in); err != nil {
		t.Fatal(err)
	}
	for i := range first.data {
		if f.Output(0).data[i] != first.data[i] {
			t.Fatalf("sample %d differs between runs with the same seed", i)
		}
	}

	cfg := f.Config()
	cfg.Seed++
	if err := f.SetConfig(cfg); err != nil {
		t.Fatal(err)
	}
	if err := f.Update(context.Background(), in); err != nil {
		t.Fatal(err)
	}
	same := true
	for i := range first.data {
		if f.Output(0).data[i] != first.data[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical output")
	}
}

func TestSBEEdgeMapInputBlocksPlacement(t *testing.T) {
	f := newTestSBE(t)
	in := filled(t, 16, 16, 1, 200)
	edges := filled(t, 16, 16, 1, 0)
	if err := f.Update(context.Background(), in, edges); err != nil {
		t.Fatal(err)
	}
	st := f.Stats()
	if st.BlackPlaced+st.WhitePlaced != 0 || st.Unplaced == 0 {
		t.Errorf("stats = %+v", st)
	}
	if edges.At(0, 0, 0) != 0 {
		t.Error("edge map input was modified")
	}
}

func TestSBEEdgeMapSizeMismatch(t *testing.T) {
	f := newTestSBE(t)
	err := f.Update(context.Background(), filled(t, 16, 16, 1, 200), filled(t, 8, 16, 1, 0))
	if !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("err = %v, want ErrInvalidDimensions", err)
	}
}

func TestSBEMissingAssets(t *testing.T) {
	f := NewSBE()
	if err := f.Update(context.Background(), filled(t, 8, 8, 1, 0)); !errors.Is(err, ErrAsset) {
		t.Errorf("unset paths: err = %v, want ErrAsset", err)
	}

	err := f.ReadParameters(Params{
		"Tone_map":       "/nonexistent/index.txt",
		"Black_stipples": "/nonexistent/black",
		"White_stipples": "/nonexistent/white",
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Update(context.Background(), filled(t, 8, 8, 1, 0)); !errors.Is(err, ErrAsset) {
		t.Errorf("missing files: err = %v, want ErrAsset", err)
	}
	if f.Output(0) != nil {
		t.Error("output written without assets")
	}
}

func TestSBECancelled(t *testing.T) {
	f := newTestSBE(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := f.Update(ctx, gradientBuffer(t, 8, 8, 1)); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if f.Output(0) != nil {
		t.Error("cancelled run published output")
	}
}

func TestSBERotatedStipples(t *testing.T) {
	f := newTestSBE(t)
	cfg := f.Config()
	cfg.RotateStipples = true
	cfg.PostSmoothing = false
	if err := f.SetConfig(cfg); err != nil {
		t.Fatal(err)
	}
	if err := f.Update(context.Background(), gradientBuffer(t, 16, 32, 1)); err != nil {
		t.Fatal(err)
	}
	if f.Stats().BlackPlaced == 0 {
		t.Errorf("stats = %+v", f.Stats())
	}
}
