package glow

// This file contains the interfaces to the animation effects
//
// Effects produce frames of colored points, the sinks in this package want
// plain pixel values in strand order, so sources adapt one to the other and
// the pump requests frames at the cadence of the display

import (
	"image/color"
	"time"

	"github.com/cgorski/glow-effects/animation"
	"github.com/cgorski/glow-effects/model"
)

// PixelColor is a color that can be written to an output device
type PixelColor interface {
	model.Color
	model.Pixeler
}

// Source is a generator of output frames
type Source interface {
	// GetFrame advances the underlying animation and returns a fresh frame
	GetFrame() []color.RGBA
}

type effectSource[C PixelColor, P model.ColorPointContainer[C, P]] struct {
	effect animation.Effect[P]
}

// NewSource adapts an effect into a Source
func NewSource[C PixelColor, P model.ColorPointContainer[C, P]](effect animation.Effect[P]) Source {
	return &effectSource[C, P]{effect: effect}
}

func (src *effectSource[C, P]) GetFrame() (frame []color.RGBA) {
	points := src.effect.NextFrame()
	frame = make([]color.RGBA, len(points))
	for idx, p := range points {
		frame[idx] = p.ColorValue().Pixel()
	}
	return frame
}

// StartPump will request a frame from the source once per frame interval and
// pass it on to frameC until quitC is closed. A slow reader holds the pump
// back rather than being skipped, frames are never generated ahead of use
func StartPump(src Source, fps int, frameC chan<- []color.RGBA, quitC <-chan struct{}) {
	if fps <= 0 {
		fps = DefaultFPS
	}

	tick := time.NewTicker(time.Second / time.Duration(fps))
	defer tick.Stop()

	for {
		select {
		case <-tick.C:
			frame := src.GetFrame()
			select {
			case frameC <- frame:
			case <-quitC:
				return
			}
		case <-quitC:
			return
		}
	}
}
