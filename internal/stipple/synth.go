package stipple

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"

	"github.com/gogpu/npr/internal/image"
)

// SynthOptions controls Synthesize.
type SynthOptions struct {
	Levels      int // tone levels
	TextureSize int // texture side in pixels
	MarkSize    int // mark side in pixels
	Marks       int // marks per database
	Rand        *rand.Rand
}

// DefaultSynthOptions returns small assets suitable for tests and demos.
func DefaultSynthOptions() SynthOptions {
	return SynthOptions{Levels: 8, TextureSize: 64, MarkSize: 7, Marks: 16}
}

// Synthesized describes generated assets.
type Synthesized struct {
	IndexPath  string
	BlackDir   string
	WhiteDir   string
	WhiteStart int
}

// Synthesize writes a tone map and black and white stipple databases below
// dir. Level i targets gray 255*(1-(i+0.5)/Levels); light levels carry
// sparse black centers on white and dark levels white centers on black.
func Synthesize(dir string, o SynthOptions) (*Synthesized, error) {
	if o.Levels <= 0 || o.TextureSize <= 0 || o.MarkSize <= 0 {
		return nil, fmt.Errorf("stipple: invalid synth options %+v", o)
	}
	rng := o.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	s := &Synthesized{
		IndexPath:  filepath.Join(dir, "tones", "index.txt"),
		BlackDir:   filepath.Join(dir, "black"),
		WhiteDir:   filepath.Join(dir, "white"),
		WhiteStart: o.Levels,
	}
	for _, d := range []string{filepath.Dir(s.IndexPath), s.BlackDir, s.WhiteDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, err
		}
	}

	grays := make([]float64, o.Levels)
	for i := range grays {
		target := 255 * (1 - (float64(i)+0.5)/float64(o.Levels))
		if target < 128 && s.WhiteStart == o.Levels {
			s.WhiteStart = i
		}
		dc := toneTexture(o.TextureSize, target, rng)
		if err := dc.SavePNG(filepath.Join(filepath.Dir(s.IndexPath), TextureName(i))); err != nil {
			return nil, err
		}
		grays[i] = meanGray(dc)
	}
	if err := writeIndex(s.IndexPath, grays); err != nil {
		return nil, err
	}

	for _, d := range []string{s.BlackDir, s.WhiteDir} {
		for j := 0; j < o.Marks; j++ {
			dc := markImage(o.MarkSize, rng)
			if err := dc.SavePNG(filepath.Join(d, fmt.Sprintf("mark%03d.png", j))); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}

func toneTexture(side int, target float64, rng *rand.Rand) *gg.Context {
	dc := gg.NewContext(side, side)
	bg, fg := 1.0, 0.0
	frac := (255 - target) / 255
	if target < 128 {
		bg, fg = 0, 1
		frac = target / 255
	}
	dc.SetRGB(bg, bg, bg)
	dc.Clear()
	dc.SetRGB(fg, fg, fg)
	n := int(frac*float64(side*side) + 0.5)
	for _, p := range rng.Perm(side * side)[:n] {
		dc.SetPixel(p%side, p/side)
	}
	return dc
}

func markImage(side int, rng *rand.Rand) *gg.Context {
	dc := gg.NewContext(side, side)
	dc.SetRGB(0, 0, 0)
	dc.Clear()
	dc.SetRGB(1, 1, 1)
	c := float64(side) / 2
	r := c * 0.8
	dc.DrawEllipse(c, c, r*(0.7+0.3*rng.Float64()), r*(0.7+0.3*rng.Float64()))
	dc.Fill()
	return dc
}

func meanGray(dc *gg.Context) float64 {
	r, err := image.FromStdImage(dc.Image())
	if err != nil {
		return 0
	}
	sum := 0
	for _, v := range r.Gray() {
		sum += int(v)
	}
	return float64(sum) / float64(r.Rows*r.Cols)
}

func writeIndex(path string, grays []float64) (err error) {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	w := bufio.NewWriter(f)
	fmt.Fprintln(w, "tone map")
	fmt.Fprintln(w, len(grays))
	for i := range grays {
		fmt.Fprintln(w, TextureName(i))
	}
	for _, g := range grays {
		fmt.Fprintf(w, "%.4f\n", g)
	}
	return w.Flush()
}
