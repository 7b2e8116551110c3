package animation

// Shine is an asynchronous twinkle effect. At a regular interval a handful of
// idle points are chosen to start glowing, after which each point rises to
// full brightness and fades back to black on its own schedule.

import (
	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"

	"github.com/cgorski/glow-effects/model"
)

var (
	// ErrInvalidNumStartSimultaneous is the kind of error returned when the
	// batch size is zero or larger than the number of points
	ErrInvalidNumStartSimultaneous = errors.New("num_start_simultaneous must be between 1 up to and including the total number of points")

	// ErrColorSetIsEmpty is the kind of error returned when there are no
	// colors to glow with
	ErrColorSetIsEmpty = errors.New("colors set must not be empty")
)

// ShineConfig holds the timing parameters of a Shine effect, all measured in
// frames
type ShineConfig struct {
	FramesBetweenGlowStart uint32 `yaml:"frames_between_glow_start"` // Frames between batches of points starting to glow
	FramesToMaxGlow        uint32 `yaml:"frames_to_max_glow"`        // Frames taken to rise from black to full brightness
	FramesToFade           uint32 `yaml:"frames_to_fade"`            // Frames taken to fall from full brightness to black
	NumStartSimultaneous   int    `yaml:"num_start_simultaneous"`    // Upper bound on points starting in one batch
}

// cycle is the number of frames a point spends glowing, points are idle once
// this many frames have passed since they started
func (cfg ShineConfig) cycle() uint64 {
	return uint64(cfg.FramesToMaxGlow) + uint64(cfg.FramesToFade)
}

// Shine holds the state of a twinkle effect over a fixed set of points.
type Shine[C model.RGBContainer[C], P model.ColorPointContainer[C, P]] struct {
	cfg ShineConfig

	points []P // Current state of every point, in caller order
	colors []C // Palette, duplicates removed

	currentFrame        uint64
	framesSinceLastGlow uint32
	glowStartTimes      []uint64 // Frame at which each point last started to glow
	currentGlowColors   []C      // Color each point is fading through

	rnd Rand
}

// NewShine builds a Shine effect over the given points. The points are copied
// and from then on owned by the effect. colors is treated as a set.
func NewShine[C model.RGBContainer[C], P model.ColorPointContainer[C, P]](points []P, colors []C, cfg ShineConfig, opts ...Option) (shine *Shine[C, P], err errors.Error) {

	if cfg.NumStartSimultaneous < 1 || cfg.NumStartSimultaneous > len(points) {
		return nil, errors.Wrap(ErrInvalidNumStartSimultaneous).With("num_start_simultaneous", cfg.NumStartSimultaneous).With("points", len(points)).With("stack", stack.Trace().TrimRuntime())
	}

	palette := make([]C, 0, len(colors))
	seen := make(map[C]struct{}, len(colors))
	for _, c := range colors {
		if _, isPresent := seen[c]; isPresent {
			continue
		}
		seen[c] = struct{}{}
		palette = append(palette, c)
	}
	if len(palette) == 0 {
		return nil, errors.Wrap(ErrColorSetIsEmpty).With("stack", stack.Trace().TrimRuntime())
	}

	shine = &Shine[C, P]{
		cfg:    cfg,
		points: make([]P, len(points)),
		colors: palette,
		// Start far enough along that the nominal glow start of 0 for every
		// point is already in the past and all points are eligible
		currentFrame: 2 * cfg.cycle(),
		// Trigger a batch on the very first frame
		framesSinceLastGlow: cfg.FramesBetweenGlowStart,
		glowStartTimes:      make([]uint64, len(points)),
		currentGlowColors:   make([]C, len(points)),
		rnd:                 newOptions(opts).rnd,
	}
	copy(shine.points, points)
	for i := range shine.currentGlowColors {
		shine.currentGlowColors[i] = palette[0]
	}

	return shine, nil
}

// NextFrame advances the effect one frame and returns a copy of all points
func (s *Shine[C, P]) NextFrame() (frame []P) {

	if s.framesSinceLastGlow >= s.cfg.FramesBetweenGlowStart {
		s.startGlows()
		s.framesSinceLastGlow = 0
	} else {
		s.framesSinceLastGlow++
	}

	for i := range s.points {
		elapsed := s.currentFrame - s.glowStartTimes[i]

		// A point that has gone dark picks up a fresh color to fade through
		if s.points[i].ColorValue().IsBlack() {
			s.currentGlowColors[i] = s.randomColor()
		}
		glow := s.currentGlowColors[i].RGB()

		brightness := s.brightness(elapsed)

		current := s.points[i].ColorValue()
		s.points[i] = s.points[i].WithColorValue(current.WithRGB(model.RGB{
			Red:   uint8(float64(glow.Red) * brightness),
			Green: uint8(float64(glow.Green) * brightness),
			Blue:  uint8(float64(glow.Blue) * brightness),
		}))
	}

	s.currentFrame++

	return s.Snapshot()
}

// startGlows selects up to NumStartSimultaneous idle points at random and
// starts them glowing from the current frame
func (s *Shine[C, P]) startGlows() {
	cycle := s.cfg.cycle()

	available := make([]int, 0, len(s.points))
	for i := range s.points {
		if s.currentFrame-s.glowStartTimes[i] >= cycle {
			available = append(available, i)
		}
	}
	s.rnd.Shuffle(len(available), func(i, j int) {
		available[i], available[j] = available[j], available[i]
	})

	if len(available) > s.cfg.NumStartSimultaneous {
		available = available[:s.cfg.NumStartSimultaneous]
	}
	for _, idx := range available {
		s.glowStartTimes[idx] = s.currentFrame
		// Only the shared channels change, a white level stays with the point
		current := s.points[idx].ColorValue()
		s.points[idx] = s.points[idx].WithColorValue(current.WithRGB(s.randomColor().RGB()))
	}
}

func (s *Shine[C, P]) randomColor() C {
	return s.colors[s.rnd.Intn(len(s.colors))]
}

// brightness is the piecewise linear glow curve, rising from 0 to 1 over
// FramesToMaxGlow frames then falling back to 0 over FramesToFade frames
func (s *Shine[C, P]) brightness(elapsed uint64) float64 {
	rise := uint64(s.cfg.FramesToMaxGlow)
	switch {
	case elapsed < rise:
		return float64(elapsed) / float64(rise)
	case elapsed < s.cfg.cycle():
		return 1.0 - float64(elapsed-rise)/float64(s.cfg.FramesToFade)
	default:
		return 0.0
	}
}

// Snapshot returns a copy of the current state of all points without
// advancing the effect
func (s *Shine[C, P]) Snapshot() (points []P) {
	points = make([]P, len(s.points))
	copy(points, s.points)
	return points
}

// Frame returns the frame counter, it increases by one with every call to
// NextFrame
func (s *Shine[C, P]) Frame() uint64 {
	return s.currentFrame
}

// Len is the number of points being animated
func (s *Shine[C, P]) Len() int {
	return len(s.points)
}

// Config returns the timing parameters the effect was built with
func (s *Shine[C, P]) Config() ShineConfig {
	return s.cfg
}
