// Command stipplegen writes a synthetic tone map and stipple databases for
// the Stipple-by-Example filter.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"

	"github.com/seehuhn/mt19937"

	"github.com/gogpu/npr/internal/stipple"
)

func main() {
	def := stipple.DefaultSynthOptions()
	var (
		dir    = flag.String("dir", "stipple-assets", "output directory")
		levels = flag.Int("levels", def.Levels, "number of tone levels")
		size   = flag.Int("size", 256, "tone texture side in pixels")
		mark   = flag.Int("mark", def.MarkSize, "stipple mark side in pixels")
		marks  = flag.Int("marks", def.Marks, "marks per database")
		seed   = flag.Int64("seed", 5489, "random seed")
	)
	flag.Parse()

	mt := mt19937.New()
	mt.Seed(*seed)

	s, err := stipple.Synthesize(*dir, stipple.SynthOptions{
		Levels:      *levels,
		TextureSize: *size,
		MarkSize:    *mark,
		Marks:       *marks,
		Rand:        rand.New(mt),
	})
	if err != nil {
		log.Fatalf("stipplegen: %v", err)
	}

	fmt.Printf("Tone_map=%s\n", s.IndexPath)
	fmt.Printf("Black_stipples=%s\n", s.BlackDir)
	fmt.Printf("White_stipples=%s\n", s.WhiteDir)
	fmt.Printf("White_stipple_start_index=%d\n", s.WhiteStart)
}
