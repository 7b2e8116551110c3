package glow

// This module wires an animation source to its outputs. Frames are pulled
// from the source at the scene frame rate, broadcast to subscribers and
// streamed to the fadecandy server

import (
	"image/color"
	"time"

	"github.com/karlmutch/errors"
	logxi "github.com/mgutz/logxi/v1"
)

var (
	logger = logxi.New("glow")
)

// GatewayConfig holds the settings needed to start a Gateway
type GatewayConfig struct {
	Source  Source
	Mapping *Mapping
	FPS     int
	Server  string        // host:port of the OPC server, empty to run without one
	Refresh time.Duration // How often the OPC server is updated, defaults to the frame interval
}

type Gateway struct {
}

// Start runs the gateway until quitC is closed. The returned channel accepts
// further frame subscribers, a monitor for example
func (*Gateway) Start(cfg GatewayConfig, errorC chan<- errors.Error, quitC <-chan struct{}) (subscribeC chan chan []color.RGBA) {

	fps := cfg.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}
	refresh := cfg.Refresh
	if refresh <= 0 {
		refresh = time.Second / time.Duration(fps)
	}

	frameC, subscribeC := StartFanOut(quitC)

	// The fadecandy subscribes before the first frame is produced so that
	// it sees the whole animation
	if cfg.Server != "" {
		StartFadeCandy(cfg.Server, cfg.Mapping, refresh, subscribeC, errorC, quitC)
	}

	go StartPump(cfg.Source, fps, frameC, quitC)

	return subscribeC
}
