package stipple

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/gogpu/npr/internal/image"
)

// Errors returned while loading assets.
var (
	ErrIndex     = errors.New("stipple: malformed tone index")
	ErrToneOrder = errors.New("stipple: tone levels must go from light to dark")
	ErrNoTexture = errors.New("stipple: tone texture not found")
)

// Texture is a grayscale tone texture. Lookups wrap around its edges.
type Texture struct {
	Rows, Cols int
	Pix        []uint8
}

// At returns the sample at (r, c) modulo the texture size.
func (t *Texture) At(r, c int) uint8 {
	return t.Pix[(r%t.Rows)*t.Cols+c%t.Cols]
}

// Level is one tone level.
type Level struct {
	Texture *Texture
	Gray    float64
}

// ToneMap is the ordered list of tone levels, lightest first.
type ToneMap struct {
	Levels []Level
}

// Index is the parsed content of a tone index file.
type Index struct {
	Files []string
	Grays []float64
}

// ParseIndex reads a tone index: an ignored first line, the level count N,
// N texture file names and N average gray values. A UTF-8 byte order mark
// is accepted.
func ParseIndex(r io.Reader) (*Index, error) {
	dec := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	sc := bufio.NewScanner(dec)

	var lines []string
	first := true
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if first {
			first = false
			continue
		}
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("stipple: read index: %w", err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: missing level count", ErrIndex)
	}

	n, err := strconv.Atoi(lines[0])
	if err != nil || n <= 0 {
		return nil, fmt.Errorf("%w: level count %q", ErrIndex, lines[0])
	}
	if len(lines) < 1+2*n {
		return nil, fmt.Errorf("%w: want %d entries, have %d lines", ErrIndex, 2*n, len(lines)-1)
	}

	idx := &Index{Files: lines[1 : 1+n], Grays: make([]float64, n)}
	for i, s := range lines[1+n : 1+2*n] {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: gray %d: %v", ErrIndex, i, err)
		}
		idx.Grays[i] = v
	}
	return idx, nil
}

// TextureName is the fixed file name of tone level i.
func TextureName(i int) string {
	return fmt.Sprintf("tone%d_4096x4096.png", i)
}

// LoadToneMap loads the index at path and every texture it names. Names
// resolve relative to the index directory; a missing name falls back to
// TextureName(i) in the same directory.
func LoadToneMap(path string) (*ToneMap, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("stipple: open index: %w", err)
	}
	defer func() { _ = f.Close() }()

	idx, err := ParseIndex(f)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	m := &ToneMap{Levels: make([]Level, len(idx.Files))}
	for i, name := range idx.Files {
		tex, err := loadTexture(dir, name, i)
		if err != nil {
			return nil, err
		}
		m.Levels[i] = Level{Texture: tex, Gray: idx.Grays[i]}
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func loadTexture(dir, name string, i int) (*Texture, error) {
	candidates := []string{filepath.Join(dir, name), filepath.Join(dir, TextureName(i))}
	for _, p := range candidates {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		r, err := image.Load(p)
		if err != nil {
			return nil, err
		}
		return &Texture{Rows: r.Rows, Cols: r.Cols, Pix: r.Gray()}, nil
	}
	return nil, fmt.Errorf("%w: level %d (%s)", ErrNoTexture, i, name)
}

func (m *ToneMap) validate() error {
	for i := 1; i < len(m.Levels); i++ {
		if m.Levels[i].Gray > m.Levels[i-1].Gray {
			return fmt.Errorf("%w: level %d gray %g > level %d gray %g",
				ErrToneOrder, i, m.Levels[i].Gray, i-1, m.Levels[i-1].Gray)
		}
	}
	return nil
}

// Bracket returns the lighter and darker levels around gray g and the
// normalized distance t in [0, 1] from the lighter one. Values outside the
// map clamp to the first or last level with t = 0.
func (m *ToneMap) Bracket(g float64) (lo, hi int, t float64) {
	last := len(m.Levels) - 1
	if g >= m.Levels[0].Gray {
		return 0, 0, 0
	}
	if g <= m.Levels[last].Gray {
		return last, last, 0
	}
	for i := 0; i < last; i++ {
		a, b := m.Levels[i].Gray, m.Levels[i+1].Gray
		if g <= a && g > b {
			return i, i + 1, (a - g) / (a - b)
		}
	}
	return last, last, 0
}
