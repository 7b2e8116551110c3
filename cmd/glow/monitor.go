package main

import (
	"fmt"
	"image/color"
	"time"
)

// This file implements a monitor that subscribes to the frames being played
// and periodically reports how many pixels are lit

func lit(frame []color.RGBA) (count int) {
	for _, px := range frame {
		if px.R != 0 || px.G != 0 || px.B != 0 || px.A != 0 {
			count++
		}
	}
	return count
}

func runMonitoring(subscribeC chan chan []color.RGBA, msgC chan<- string, interval time.Duration, quitC <-chan struct{}) {

	frameC := make(chan []color.RGBA, 1)
	defer close(frameC)
	subscribeC <- frameC

	frames := 0
	latest := []color.RGBA{}

	tick := time.NewTicker(interval)
	defer tick.Stop()

	for {
		select {
		case frame := <-frameC:
			if frame == nil {
				continue
			}
			frames++
			latest = frame
		case <-tick.C:
			msg := fmt.Sprintf("%d frames, %d of %d pixels lit\n", frames, lit(latest), len(latest))
			logger.Debug(msg)
			select {
			case msgC <- msg:
			default:
			}
			frames = 0
		case <-quitC:
			return
		}
	}
}
