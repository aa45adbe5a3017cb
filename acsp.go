package npr

import (
	"context"
	"log/slog"

	"github.com/gogpu/npr/internal/hilbert"
)

var (
	acspClusterSize    = intParam{key: "Cluster_size", def: 9, lo: 1, hi: 256}
	acspThreshold      = intParam{key: "Threshold", def: 100, lo: 0, hi: 600}
	acspAdaptive       = boolParam{key: "Adaptive_clustering", def: true}
	acspSelectivePrecp = boolParam{key: "Selective_precipitation", def: true}
)

// Laplacian-of-Gaussian taps applied along the path. The window is centered
// logLookahead pixels behind the front cursor.
var logTaps = [7]int{-1, -5, 0, 13, 0, -5, -1}

const logLookahead = len(logTaps) / 2

// ink is the sample value written for precipitated pixels.
const ink = 255

// ACSPConfig holds the parameters of the adaptive clustering / selective
// precipitation halftoner.
type ACSPConfig struct {
	// ClusterSize is the maximum number of path pixels per cluster.
	ClusterSize int
	// Threshold is the minimum LoG jump across a zero crossing that ends a
	// cluster early when AdaptiveClustering is set.
	Threshold int
	// AdaptiveClustering ends clusters at edges.
	AdaptiveClustering bool
	// SelectivePrecipitation places the ink run where the cluster is darkest.
	SelectivePrecipitation bool
}

// DefaultACSPConfig returns the editor defaults.
func DefaultACSPConfig() ACSPConfig {
	return ACSPConfig{
		ClusterSize:            acspClusterSize.def,
		Threshold:              acspThreshold.def,
		AdaptiveClustering:     acspAdaptive.def,
		SelectivePrecipitation: acspSelectivePrecp.def,
	}
}

// Validate checks every field against its range.
func (c ACSPConfig) Validate() error {
	if err := acspClusterSize.check(TypeACSP, c.ClusterSize); err != nil {
		return err
	}
	return acspThreshold.check(TypeACSP, c.Threshold)
}

// ACSP halftones a square power-of-two grayscale image along a Hilbert
// curve, precipitating ink in clusters so that gray mass is conserved.
// Ink pixels are 255, all others 0.
type ACSP struct {
	base
	cfg ACSPConfig
}

// NewACSP creates an ACSP filter with 1-channel input and output.
func NewACSP(opts ...Option) *ACSP {
	return &ACSP{
		base: newFixedBase(TypeACSP, []int{1}, []int{1}, opts),
		cfg:  DefaultACSPConfig(),
	}
}

// Config returns the current parameters.
func (f *ACSP) Config() ACSPConfig { return f.cfg }

// SetConfig validates and applies c.
func (f *ACSP) SetConfig(c ACSPConfig) error {
	if err := c.Validate(); err != nil {
		return err
	}
	f.cfg = c
	return nil
}

// ResetData restores the default parameters.
func (f *ACSP) ResetData() { f.cfg = DefaultACSPConfig() }

// ReadParameters parses p into the configuration.
func (f *ACSP) ReadParameters(p Params) error {
	r := newParamReader(f.typ, p)
	c := ACSPConfig{
		ClusterSize:            r.readInt(acspClusterSize),
		Threshold:              r.readInt(acspThreshold),
		AdaptiveClustering:     r.readBool(acspAdaptive),
		SelectivePrecipitation: r.readBool(acspSelectivePrecp),
	}
	if r.err != nil {
		return r.err
	}
	return f.SetConfig(c)
}

// WriteParameters returns the configuration as a parameter map.
func (f *ACSP) WriteParameters() Params {
	w := paramWriter{}
	w.putInt(acspClusterSize, f.cfg.ClusterSize)
	w.putInt(acspThreshold, f.cfg.Threshold)
	w.putBool(acspAdaptive, f.cfg.AdaptiveClustering)
	w.putBool(acspSelectivePrecp, f.cfg.SelectivePrecipitation)
	return Params(w)
}

// Update halftones inputs[0]. Inputs that are not square with a
// power-of-two side are copied through unchanged and an error wrapping
// ErrPrecondition is returned.
func (f *ACSP) Update(_ context.Context, inputs ...*Buffer) error {
	in, err := f.negotiate(inputs)
	if err != nil {
		return err
	}
	src := in[0]

	if src.rows != src.cols || !hilbert.IsPowerOfTwo(src.rows) {
		f.logger().Warn("npr: ACSP needs a square power-of-two image, passing input through",
			slog.Int("rows", src.rows), slog.Int("cols", src.cols))
		if err := f.passThrough(src, in); err != nil {
			return err
		}
		return preconditionf("%s: %dx%d is not a square power of two", f.typ, src.rows, src.cols)
	}

	m, err := hilbert.New(src.rows)
	if err != nil {
		return err
	}
	dst := f.target(0, src.rows, src.cols, 1, in)
	halftoneACSP(src.data, dst.data, m.Path(), f.cfg)
	return f.commit(0, dst, in)
}

// acspState is the per-call traversal state. The front cursor reads
// logLookahead samples ahead of the pixel that joins the cluster so the LoG
// window centered on that pixel is complete.
type acspState struct {
	cfg      ACSPConfig
	src, dst []uint8
	path     []int

	window   [len(logTaps)]int // samples around the current pixel, oldest first
	front    int               // next path index read into the window
	prevConv int
	hasPrev  bool

	cluster []int // path indices of the open cluster
	acc     int   // accumulated gray, carried across clusters
}

func halftoneACSP(src, dst []uint8, path []int, cfg ACSPConfig) {
	s := &acspState{
		cfg:     cfg,
		src:     src,
		dst:     dst,
		path:    path,
		cluster: make([]int, 0, cfg.ClusterSize),
	}
	s.primeWindow()

	last := len(path) - 1
	for i := 0; i <= last; i++ {
		conv := s.advance()
		if cfg.AdaptiveClustering && s.hasPrev && len(s.cluster) > 0 && s.isEdge(conv) {
			s.flush()
		}
		s.prevConv, s.hasPrev = conv, true

		s.cluster = append(s.cluster, i)
		s.acc += int(src[path[i]])

		if len(s.cluster) >= cfg.ClusterSize || i == last {
			s.flush()
		}
	}
}

// sample returns the gray value at path index i, clamping to the path ends.
func (s *acspState) sample(i int) int {
	i = max(0, min(i, len(s.path)-1))
	return int(s.src[s.path[i]])
}

// primeWindow fills the window so that its center is path index 0.
func (s *acspState) primeWindow() {
	for k := range s.window {
		s.window[k] = s.sample(k - logLookahead)
	}
	s.front = logLookahead + 1
}

// advance returns the LoG response centered on the pixel about to join the
// cluster and then shifts the window one step along the path.
func (s *acspState) advance() int {
	conv := 0
	for k, w := range logTaps {
		conv += w * s.window[k]
	}
	copy(s.window[:], s.window[1:])
	s.window[len(s.window)-1] = s.sample(s.front)
	s.front++
	return conv
}

// isEdge reports a zero crossing whose jump exceeds the threshold.
func (s *acspState) isEdge(conv int) bool {
	crossed := (s.prevConv < 0 && conv >= 0) || (s.prevConv >= 0 && conv < 0)
	jump := conv - s.prevConv
	if jump < 0 {
		jump = -jump
	}
	return crossed && jump > s.cfg.Threshold
}

// flush precipitates acc/255 ink pixels inside the cluster and carries the
// remainder into the next cluster.
func (s *acspState) flush() {
	n := len(s.cluster)
	if n == 0 {
		return
	}
	count := min(s.acc/ink, n)

	start := 0
	if s.cfg.SelectivePrecipitation && count > 0 && count < n {
		start = s.darkestRun(count)
	}

	for k, pi := range s.cluster {
		if k >= start && s.acc >= ink {
			s.dst[s.path[pi]] = ink
			s.acc -= ink
		} else {
			s.dst[s.path[pi]] = 0
		}
	}
	s.cluster = s.cluster[:0]
}

// darkestRun returns the offset of the length-run window inside the cluster
// with the largest sample sum. Ties keep the earliest offset.
func (s *acspState) darkestRun(run int) int {
	sum := 0
	for k := 0; k < run; k++ {
		sum += int(s.src[s.path[s.cluster[k]]])
	}
	best, bestStart := sum, 0
	for k := run; k < len(s.cluster); k++ {
		sum += int(s.src[s.path[s.cluster[k]]]) - int(s.src[s.path[s.cluster[k-run]]])
		if sum > best {
			best, bestStart = sum, k-run+1
		}
	}
	return bestStart
}
