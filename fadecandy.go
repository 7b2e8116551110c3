package glow

// This file contains a function that when started will subscribe to frames
// from the animation and will keep the most recent one in a data structure
// that another function checks on a regular basis and uses to update LEDs
// attached to one or more fadecandy device(s)

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"sync"
	"time"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"

	"github.com/cnf/structhash"

	"github.com/kellydunn/go-opc"
)

// LastFrame holds the most recent frame seen by the sink
type LastFrame struct {
	frame []color.RGBA
	sync.Mutex
}

// hashedFrame is the form hashed to detect frames identical to the last one sent
type hashedFrame struct {
	Pixels []color.RGBA
}

// StartFadeCandy subscribes to the frame fan out and starts sending the most
// recent frame to the OPC server every refresh interval, skipping frames that
// are identical to the last one sent
func StartFadeCandy(server string, mapping *Mapping, refresh time.Duration, subscribeC chan chan []color.RGBA, errorC chan<- errors.Error, quitC <-chan struct{}) {

	frameC := make(chan []color.RGBA, 1)
	subscribeC <- frameC

	last := &LastFrame{}

	go func() {
		defer close(frameC)
		for {
			select {
			case frame := <-frameC:
				if nil == frame {
					continue
				}
				last.Lock()
				last.frame = frame
				last.Unlock()
			case <-quitC:
				return
			}
		}
	}()

	go runFadeCandyOPC(last, server, mapping, refresh, errorC, quitC)
}

func reportError(err errors.Error, errorC chan<- errors.Error) {
	select {
	case errorC <- err:
	case <-time.After(100 * time.Millisecond):
		fmt.Fprintln(os.Stderr, err.Error())
	}
}

func send(oc *opc.Client, msgs []*opc.Message) (err errors.Error) {
	for _, m := range msgs {
		if errGo := oc.Send(m); errGo != nil {
			return errors.Wrap(errGo).With("stack", stack.Trace().TrimRuntime())
		}
	}
	return nil
}

// disconnect closes the client socket, it is safe to call on a client that
// never connected
func disconnect(oc *opc.Client) {
	if oc == nil || oc.Conn == nil {
		return
	}
	if errGo := oc.Conn.Close(); errGo != nil {
		logger.Debug("closing fadecandy connection", "error", errGo.Error())
	}
}

func runFadeCandyOPC(last *LastFrame, server string, mapping *Mapping, refresh time.Duration, errorC chan<- errors.Error, quitC <-chan struct{}) {

	lastHash := []byte{}

	var oc *opc.Client
	defer func() {
		disconnect(oc)
	}()

	tick := time.NewTicker(refresh)
	defer tick.Stop()

	for {
		select {
		case <-tick.C:
			if oc == nil {
				oc = opc.NewClient()
				if errGo := oc.Connect("tcp", server); errGo != nil {
					oc = nil
					reportError(errors.Wrap(errGo).With("url", server).With("stack", stack.Trace().TrimRuntime()), errorC)
					continue
				}
				logger.Debug("connected to fadecandy", "url", server)
				lastHash = []byte{}
			}

			last.Lock()
			copied := append([]color.RGBA{}, last.frame...)
			last.Unlock()

			if len(copied) == 0 {
				continue
			}

			hash := structhash.Md5(hashedFrame{Pixels: copied}, 1)
			if bytes.Equal(lastHash, hash) {
				continue
			}
			msgs, err := mapping.Messages(copied)
			if err != nil {
				// Retrying the same frame will not help
				lastHash = hash
				reportError(err.With("url", server), errorC)
				continue
			}
			if err := send(oc, msgs); err != nil {
				// Reconnect on the next tick, the server may have restarted
				disconnect(oc)
				oc = nil
				reportError(err.With("url", server), errorC)
				continue
			}
			lastHash = hash
		case <-quitC:
			return
		}
	}
}
