package stipple

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoaderReusesUnchangedAssets(t *testing.T) {
	_, s := synthAssets(t)
	l := NewLoader(2)

	m1, err := l.ToneMap(s.IndexPath)
	if err != nil {
		t.Fatal(err)
	}
	m2, err := l.ToneMap(s.IndexPath)
	if err != nil {
		t.Fatal(err)
	}
	if m1 != m2 {
		t.Error("unchanged tone map was reloaded")
	}

	d1, err := l.Database(s.BlackDir)
	if err != nil {
		t.Fatal(err)
	}
	d2, err := l.Database(s.BlackDir)
	if err != nil {
		t.Fatal(err)
	}
	if d1 != d2 {
		t.Error("unchanged database was reloaded")
	}

	tones, dbs := l.Stats()
	if tones.Hits != 1 || dbs.Hits != 1 {
		t.Errorf("hits: tones %d, dbs %d", tones.Hits, dbs.Hits)
	}
}

func TestLoaderReloadsChangedTexture(t *testing.T) {
	_, s := synthAssets(t)
	l := NewLoader(2)
	m1, err := l.ToneMap(s.IndexPath)
	if err != nil {
		t.Fatal(err)
	}

	tex := filepath.Join(filepath.Dir(s.IndexPath), TextureName(2))
	later := time.Now().Add(time.Hour)
	if err := os.Chtimes(tex, later, later); err != nil {
		t.Fatal(err)
	}
	m2, err := l.ToneMap(s.IndexPath)
	if err != nil {
		t.Fatal(err)
	}
	if m1 == m2 {
		t.Error("modified texture did not invalidate the cached tone map")
	}
}

func TestLoaderMissingAssets(t *testing.T) {
	l := NewLoader(1)
	if _, err := l.ToneMap(filepath.Join(t.TempDir(), "index.txt")); err == nil {
		t.Error("missing index accepted")
	}
	if _, err := l.Database(filepath.Join(t.TempDir(), "none")); err == nil {
		t.Error("missing database directory accepted")
	}
}
