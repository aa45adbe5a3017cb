package npr

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"github.com/seehuhn/mt19937"

	"github.com/gogpu/npr/internal/stipple"
)

var (
	sbeToneMap       = stringParam{key: "Tone_map"}
	sbeBlackStipples = stringParam{key: "Black_stipples"}
	sbeWhiteStipples = stringParam{key: "White_stipples"}
	sbeWhiteStart    = intParam{key: "White_stipple_start_index", def: 8, lo: 0, hi: 255}
	sbeProbability   = boolParam{key: "Probability_selection", def: true}
	sbeTanh          = boolParam{key: "Tanh_weighting", def: false}
	sbeEdges         = boolParam{key: "Edge_combination", def: true}
	sbeSigma1        = floatParam{key: "Edge_sigma1", def: 1.3, lo: 0.1, hi: 10}
	sbeSigma2        = floatParam{key: "Edge_sigma2", def: 1.8, lo: 0.1, hi: 10}
	sbeMinLength     = intParam{key: "Edge_min_length", def: 10, lo: 0, hi: 10000}
	sbeSmoothing     = boolParam{key: "Post_smoothing", def: true}
	sbeRotate        = boolParam{key: "Rotate_stipples", def: false}
	sbeSeed          = intParam{key: "Seed", def: 5489, lo: 0, hi: math.MaxInt32}
)

// sbeAssets is shared by all SBE filters; entries are keyed on file
// modification times so edited assets are reloaded.
var sbeAssets = stipple.NewLoader(4)

// SBEConfig holds the parameters of the Stipple-by-Example renderer.
type SBEConfig struct {
	// ToneMap is the path of the tone index file.
	ToneMap string
	// BlackStipples and WhiteStipples are directories of mark images.
	BlackStipples string
	WhiteStipples string

	// WhiteStartIndex is the first tone level drawn with white stipples.
	WhiteStartIndex int

	ProbabilitySelection bool
	TanhWeighting        bool

	EdgeCombination bool
	EdgeSigma1      float64
	EdgeSigma2      float64
	EdgeMinLength   int

	PostSmoothing  bool
	RotateStipples bool

	// Seed initializes the Mersenne Twister for each Update.
	Seed int
}

// DefaultSBEConfig returns the editor defaults. Asset paths are empty and
// must be set before Update.
func DefaultSBEConfig() SBEConfig {
	return SBEConfig{
		WhiteStartIndex:      sbeWhiteStart.def,
		ProbabilitySelection: sbeProbability.def,
		TanhWeighting:        sbeTanh.def,
		EdgeCombination:      sbeEdges.def,
		EdgeSigma1:           sbeSigma1.def,
		EdgeSigma2:           sbeSigma2.def,
		EdgeMinLength:        sbeMinLength.def,
		PostSmoothing:        sbeSmoothing.def,
		RotateStipples:       sbeRotate.def,
		Seed:                 sbeSeed.def,
	}
}

// Validate checks every numeric field against its range.
func (c SBEConfig) Validate() error {
	for _, err := range []error{
		sbeWhiteStart.check(TypeSBE, c.WhiteStartIndex),
		sbeSigma1.check(TypeSBE, c.EdgeSigma1),
		sbeSigma2.check(TypeSBE, c.EdgeSigma2),
		sbeMinLength.check(TypeSBE, c.EdgeMinLength),
		sbeSeed.check(TypeSBE, c.Seed),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}

// SBEStats summarizes the last Update.
type SBEStats struct {
	BlackCandidates, WhiteCandidates int
	BlackPlaced, WhitePlaced         int
	// Unplaced counts candidates rejected because they fall on an edge.
	Unplaced int
	// SkippedEmptyDatabase counts candidates of a type whose database is empty.
	SkippedEmptyDatabase int
	EdgePixels           int
	EdgePixelsPruned     int
	ClustersErased       int
	ClustersShifted      int
}

// SBE renders a stipple drawing from example tone textures and stipple
// marks. Input 0 is the image; the optional input 1 is an edge map (dark
// pixels are edges) used instead of the computed one.
type SBE struct {
	base
	cfg    SBEConfig
	stats  SBEStats
	levels []int
}

// NewSBE creates a Stipple-by-Example filter with 1-channel slots.
func NewSBE(opts ...Option) *SBE {
	f := &SBE{
		base: newFixedBase(TypeSBE, []int{1, 1}, []int{1}, opts),
		cfg:  DefaultSBEConfig(),
	}
	f.optional = 1
	return f
}

// Config returns the current parameters.
func (f *SBE) Config() SBEConfig { return f.cfg }

// SetConfig validates and applies c.
func (f *SBE) SetConfig(c SBEConfig) error {
	if err := c.Validate(); err != nil {
		return err
	}
	f.cfg = c
	return nil
}

// ResetData restores the default parameters and clears statistics.
func (f *SBE) ResetData() {
	f.cfg = DefaultSBEConfig()
	f.stats = SBEStats{}
	f.levels = nil
}

// Stats returns statistics of the last successful Update.
func (f *SBE) Stats() SBEStats { return f.stats }

// LevelMap returns the tone level chosen for each pixel by the last
// successful Update, row-major.
func (f *SBE) LevelMap() []int { return f.levels }

// ReadParameters parses p into the configuration.
func (f *SBE) ReadParameters(p Params) error {
	r := newParamReader(f.typ, p)
	c := SBEConfig{
		ToneMap:              r.readString(sbeToneMap),
		BlackStipples:        r.readString(sbeBlackStipples),
		WhiteStipples:        r.readString(sbeWhiteStipples),
		WhiteStartIndex:      r.readInt(sbeWhiteStart),
		ProbabilitySelection: r.readBool(sbeProbability),
		TanhWeighting:        r.readBool(sbeTanh),
		EdgeCombination:      r.readBool(sbeEdges),
		EdgeSigma1:           r.readFloat(sbeSigma1),
		EdgeSigma2:           r.readFloat(sbeSigma2),
		EdgeMinLength:        r.readInt(sbeMinLength),
		PostSmoothing:        r.readBool(sbeSmoothing),
		RotateStipples:       r.readBool(sbeRotate),
		Seed:                 r.readInt(sbeSeed),
	}
	if r.err != nil {
		return r.err
	}
	return f.SetConfig(c)
}

// WriteParameters returns the configuration as a parameter map.
func (f *SBE) WriteParameters() Params {
	w := paramWriter{}
	w.putString(sbeToneMap, f.cfg.ToneMap)
	w.putString(sbeBlackStipples, f.cfg.BlackStipples)
	w.putString(sbeWhiteStipples, f.cfg.WhiteStipples)
	w.putInt(sbeWhiteStart, f.cfg.WhiteStartIndex)
	w.putBool(sbeProbability, f.cfg.ProbabilitySelection)
	w.putBool(sbeTanh, f.cfg.TanhWeighting)
	w.putBool(sbeEdges, f.cfg.EdgeCombination)
	w.putFloat(sbeSigma1, f.cfg.EdgeSigma1)
	w.putFloat(sbeSigma2, f.cfg.EdgeSigma2)
	w.putInt(sbeMinLength, f.cfg.EdgeMinLength)
	w.putBool(sbeSmoothing, f.cfg.PostSmoothing)
	w.putBool(sbeRotate, f.cfg.RotateStipples)
	w.putInt(sbeSeed, f.cfg.Seed)
	return Params(w)
}

// loadAssets returns the tone map and both stipple databases.
func (f *SBE) loadAssets() (*stipple.Assets, error) {
	if f.cfg.ToneMap == "" || f.cfg.BlackStipples == "" || f.cfg.WhiteStipples == "" {
		return nil, fmt.Errorf("%w: tone map and stipple directories must be set", ErrAsset)
	}
	tones, err := sbeAssets.ToneMap(f.cfg.ToneMap)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAsset, err)
	}
	black, err := sbeAssets.Database(f.cfg.BlackStipples)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAsset, err)
	}
	white, err := sbeAssets.Database(f.cfg.WhiteStipples)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAsset, err)
	}

	log := f.logger()
	log.Debug("npr: SBE assets loaded",
		slog.Int("levels", len(tones.Levels)),
		slog.Int("black", len(black.Marks)),
		slog.Int("white", len(white.Marks)))
	if len(black.Marks) == 0 {
		log.Warn("npr: SBE black stipple database is empty", slog.String("dir", f.cfg.BlackStipples))
	}
	if len(white.Marks) == 0 {
		log.Warn("npr: SBE white stipple database is empty", slog.String("dir", f.cfg.WhiteStipples))
	}
	return &stipple.Assets{Tones: tones, Black: black, White: white}, nil
}

// Update stipples inputs[0]. Assets are checked for changes on every call.
// Cancellation is checked per row and between stages; a cancelled run leaves
// the output and statistics untouched and returns ctx.Err().
func (f *SBE) Update(ctx context.Context, inputs ...*Buffer) error {
	in, err := f.negotiate(inputs)
	if err != nil {
		return err
	}
	src := in[0]

	var edges []uint8
	if e := in[1]; e != nil {
		if !e.SameSize(src) {
			return fmt.Errorf("%w: edge map %dx%d, image %dx%d",
				ErrInvalidDimensions, e.rows, e.cols, src.rows, src.cols)
		}
		edges = e.Clone().data
	}

	assets, err := f.loadAssets()
	if err != nil {
		return err
	}

	mt := mt19937.New()
	mt.Seed(int64(f.cfg.Seed))
	rng := rand.New(mt)

	res, err := stipple.Render(ctx, src.data, src.rows, src.cols, edges, assets, stipple.Config{
		WhiteStart:      f.cfg.WhiteStartIndex,
		Probabilistic:   f.cfg.ProbabilitySelection,
		TanhWeighting:   f.cfg.TanhWeighting,
		EdgeCombination: f.cfg.EdgeCombination,
		Sigma1:          f.cfg.EdgeSigma1,
		Sigma2:          f.cfg.EdgeSigma2,
		MinEdgeLength:   f.cfg.EdgeMinLength,
		Smoothing:       f.cfg.PostSmoothing,
		Rotate:          f.cfg.RotateStipples,
	}, rng, f.report)
	if err != nil {
		return err
	}

	s := res.Stats
	f.stats = SBEStats{
		BlackCandidates:      s.BlackCandidates,
		WhiteCandidates:      s.WhiteCandidates,
		BlackPlaced:          s.BlackPlaced,
		WhitePlaced:          s.WhitePlaced,
		Unplaced:             s.Unplaced,
		SkippedEmptyDatabase: s.SkippedEmptyDatabase,
		EdgePixels:           s.EdgePixels,
		EdgePixelsPruned:     s.EdgePixelsPruned,
		ClustersErased:       s.ClustersErased,
		ClustersShifted:      s.ClustersShifted,
	}
	f.levels = res.Levels
	f.logger().Debug("npr: SBE done",
		slog.Int("black_placed", s.BlackPlaced),
		slog.Int("white_placed", s.WhitePlaced),
		slog.Int("unplaced", s.Unplaced))

	return f.commit(0, &Buffer{rows: src.rows, cols: src.cols, channels: 1, data: res.Out}, in)
}
