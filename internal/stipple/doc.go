// Package stipple renders stipple drawings by example.
//
// A ToneMap holds reference tone textures ordered from the lightest level
// (0) to the darkest, each with its average gray. Every source pixel is
// assigned one of the two levels bracketing its gray, and the texture of
// that level decides whether the pixel is the center of a black stipple
// (light levels) or a white stipple (dark levels). Stipple marks are drawn
// from example Databases without repetition, optionally suppressed on
// edges, and the result can be combined with a pruned difference-of-
// Gaussians edge map and smoothed by removing tiny clusters.
package stipple
