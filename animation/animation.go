/*
Package animation contains implementations of animation routines, generating
frames of colored points for consecutive output frames.
*/
package animation

import (
	"iter"
)

// Effect is an interface for types that support generation of animation
// frames
type Effect[P any] interface {
	// NextFrame advances the effect by exactly one frame and returns a
	// snapshot of every point, in the order the points were supplied. The
	// snapshot is a copy the caller is free to keep or modify. Effects are
	// not safe for concurrent use
	NextFrame() []P
}

// Frames presents an effect as an unbounded sequence of frames, each pull
// calling NextFrame. The sequence is a view over the effect's own state,
// ranging over it a second time carries on from where the first range
// stopped, and it is no safer to share between goroutines than the effect.
func Frames[P any](effect Effect[P]) iter.Seq[[]P] {
	return func(yield func([]P) bool) {
		for {
			if !yield(effect.NextFrame()) {
				return
			}
		}
	}
}
