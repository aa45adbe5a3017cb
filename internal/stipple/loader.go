package stipple

import (
	"fmt"
	"hash/fnv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/npr/internal/cache"
)

// assetKey identifies an asset by its path and a fingerprint of the
// modification times and sizes of every file it was read from.
type assetKey struct {
	path        string
	fingerprint uint64
}

// Loader loads tone maps and stipple databases, reusing previous results
// while the underlying files are unchanged.
type Loader struct {
	tones *cache.Cache[assetKey, *ToneMap]
	dbs   *cache.Cache[assetKey, *Database]
}

// NewLoader creates a loader keeping up to capacity assets of each kind.
func NewLoader(capacity int) *Loader {
	return &Loader{
		tones: cache.New[assetKey, *ToneMap](capacity),
		dbs:   cache.New[assetKey, *Database](capacity),
	}
}

// ToneMap returns the tone map for the index at path.
func (l *Loader) ToneMap(path string) (*ToneMap, error) {
	key, err := toneKey(path)
	if err != nil {
		return nil, err
	}
	if m, ok := l.tones.Get(key); ok {
		return m, nil
	}
	m, err := LoadToneMap(path)
	if err != nil {
		return nil, err
	}
	l.tones.Put(key, m)
	return m, nil
}

// Database returns the stipple database in dir.
func (l *Loader) Database(dir string) (*Database, error) {
	key, err := dirKey(dir)
	if err != nil {
		return nil, err
	}
	if db, ok := l.dbs.Get(key); ok {
		return db, nil
	}
	db, err := LoadDatabase(dir)
	if err != nil {
		return nil, err
	}
	l.dbs.Put(key, db)
	return db, nil
}

// Stats returns the tone map and database cache counters.
func (l *Loader) Stats() (tones, dbs cache.Stats) {
	return l.tones.Stats(), l.dbs.Stats()
}

func toneKey(path string) (assetKey, error) {
	h := fnv.New64a()
	if err := stamp(h, path); err != nil {
		return assetKey{}, fmt.Errorf("stipple: open index: %w", err)
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return assetKey{}, fmt.Errorf("stipple: open index: %w", err)
	}
	idx, err := ParseIndex(f)
	_ = f.Close()
	if err != nil {
		return assetKey{}, err
	}
	dir := filepath.Dir(path)
	for i, name := range idx.Files {
		// missing files are reported by LoadToneMap
		if stamp(h, filepath.Join(dir, name)) != nil {
			_ = stamp(h, filepath.Join(dir, TextureName(i)))
		}
	}
	return assetKey{path: path, fingerprint: h.Sum64()}, nil
}

func dirKey(dir string) (assetKey, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return assetKey{}, fmt.Errorf("stipple: read database: %w", err)
	}
	h := fnv.New64a()
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".png") {
			continue
		}
		if err := stamp(h, filepath.Join(dir, e.Name())); err != nil {
			return assetKey{}, err
		}
	}
	return assetKey{path: dir, fingerprint: h.Sum64()}, nil
}

// stamp hashes the name, size and modification time of path.
func stamp(h io.Writer, path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(h, "%s|%d|%d\n", path, fi.Size(), fi.ModTime().UnixNano())
	return nil
}
