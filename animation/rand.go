package animation

import (
	"math/rand"
	"time"
)

// Rand is the source of randomness used by effects, *rand.Rand satisfies it.
// Tests supply a seeded source to get repeatable selections
type Rand interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// Option adjusts optional effect settings at construction time
type Option func(*options)

type options struct {
	rnd Rand
}

// WithRand replaces the default time seeded random source
func WithRand(rnd Rand) Option {
	return func(opts *options) {
		if rnd != nil {
			opts.rnd = rnd
		}
	}
}

func newOptions(opts []Option) (o *options) {
	o = &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.rnd == nil {
		o.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return o
}
