package glow

import (
	"image/color"
	"sync"
	"time"
)

// sendTimeout bounds how long a single subscriber may hold up a frame
const sendTimeout = 250 * time.Millisecond

type subs struct {
	subs []chan []color.RGBA
	sync.Mutex
}

// StartFanOut implement a broadcast mechanism for accepting frames and
// relaying them to subscribers. The function returns a single channel to
// which frames get sent and, a channel that can be used to add listeners.
// Each subscriber receives its own copy of every frame. Subscribers leave by
// closing their channel
//
func StartFanOut(quitC <-chan struct{}) (inC chan []color.RGBA, subC chan chan []color.RGBA) {

	inC = make(chan []color.RGBA, 1)
	subC = make(chan chan []color.RGBA, 1)

	subscribers := &subs{
		subs: []chan []color.RGBA{},
	}

	go func(quitC <-chan struct{}) {
		defer logger.Debug("fanout stopped")
		for {
			select {
			case <-quitC:
				return
			case sub := <-subC:
				if nil != sub {
					subscribers.Lock()
					subscribers.subs = append(subscribers.subs, sub)
					subscribers.Unlock()
					logger.Debug("subscription added")
				}
			case frame := <-inC:
				// The subscriptions are notified of a frame and are groomed out
				// on unrecoverable failures using https://github.com/golang/go/wiki/SliceTricks#filtering-without-allocating
				subscribers.Lock()
				newSubs := subscribers.subs[:0]
				for _, ch := range subscribers.subs {
					if relay(ch, frame, quitC) {
						newSubs = append(newSubs, ch)
						continue
					}
					logger.Debug("subscription dropped failed to send")
				}
				subscribers.subs = newSubs
				subscribers.Unlock()
			}
		}
	}(quitC)

	return inC, subC
}

// relay returns false only when the subscriber has gone away, a send that
// times out just drops this frame for that subscriber
func relay(ch chan []color.RGBA, frame []color.RGBA, quitC <-chan struct{}) (alive bool) {
	defer func() {
		if r := recover(); r != nil {
			alive = false
		}
	}()

	cpy := make([]color.RGBA, len(frame))
	copy(cpy, frame)

	select {
	case ch <- cpy:
	case <-time.After(sendTimeout):
		logger.Debug("subscription failed to send")
	case <-quitC:
	}
	return true
}
