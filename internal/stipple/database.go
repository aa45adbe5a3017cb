package stipple

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/npr/internal/image"
)

// inkThreshold separates ink (>=) from background in mark images.
const inkThreshold = 128

// Mark is one binary stipple example centered on (Rows/2, Cols/2).
type Mark struct {
	Rows, Cols int
	Ink        []bool
	Count      int
}

// NewMark builds a mark from gray samples; samples >= 128 are ink.
func NewMark(rows, cols int, gray []uint8) Mark {
	m := Mark{Rows: rows, Cols: cols, Ink: make([]bool, rows*cols)}
	for i, v := range gray {
		if v >= inkThreshold {
			m.Ink[i] = true
			m.Count++
		}
	}
	return m
}

// Database is a set of stipple marks with their average ink count.
type Database struct {
	Marks  []Mark
	AvgInk float64
}

// NewDatabase computes AvgInk for marks.
func NewDatabase(marks []Mark) *Database {
	db := &Database{Marks: marks}
	if len(marks) > 0 {
		total := 0
		for _, m := range marks {
			total += m.Count
		}
		db.AvgInk = float64(total) / float64(len(marks))
	}
	return db
}

// LoadDatabase reads every .png file directly inside dir. An existing
// directory without marks yields an empty database.
func LoadDatabase(dir string) (*Database, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("stipple: read database: %w", err)
	}
	var marks []Mark
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".png") {
			continue
		}
		r, err := image.Load(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		marks = append(marks, NewMark(r.Rows, r.Cols, r.Gray()))
	}
	return NewDatabase(marks), nil
}

// Pool draws marks uniformly at random without replacement, refilling
// itself once every mark has been used.
type Pool struct {
	db        *Database
	rng       *rand.Rand
	remaining []int
}

// NewPool creates a pool over db.
func NewPool(db *Database, rng *rand.Rand) *Pool {
	return &Pool{db: db, rng: rng}
}

// Empty reports whether the database has no marks.
func (p *Pool) Empty() bool { return p.db == nil || len(p.db.Marks) == 0 }

// Draw returns the next mark, or nil for an empty database.
func (p *Pool) Draw() *Mark {
	if p.Empty() {
		return nil
	}
	if len(p.remaining) == 0 {
		p.remaining = make([]int, len(p.db.Marks))
		for i := range p.remaining {
			p.remaining[i] = i
		}
	}
	k := p.rng.Intn(len(p.remaining))
	idx := p.remaining[k]
	last := len(p.remaining) - 1
	p.remaining[k] = p.remaining[last]
	p.remaining = p.remaining[:last]
	return &p.db.Marks[idx]
}
