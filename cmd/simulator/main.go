package main

// The simulator stands in for a fadecandy server.  It accepts OPC clients,
// decodes the pixels they send and serves the most recent pixels of every
// channel as JSON so an installation can be checked without hardware

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"sort"
	"sync"
	"time"

	logxi "github.com/mgutz/logxi/v1"

	"github.com/cgorski/glow-effects"
)

var (
	listen    = flag.String("listen", ":7890", "Address the OPC server binds to")
	httpAddr  = flag.String("http", ":8080", "Address the pixel status page is served from, empty to disable")
	summarize = flag.Duration("summarize", 5*time.Second, "How often a summary of the received pixels is logged")
)

type channelState struct {
	Packets uint64   `json:"packets"`
	Lit     int      `json:"lit"`
	Pixels  []string `json:"pixels"`
}

type display struct {
	channels map[uint8]*channelState
	sync.Mutex
}

var (
	// create Logger interface
	logW = logxi.NewLogger(logxi.NewConcurrentWriter(os.Stdout), "glow-simulator")

	pixels = display{
		channels: map[uint8]*channelState{},
	}
)

func main() {

	flag.Parse()

	ln, err := net.Listen("tcp", *listen)
	if err != nil {
		logxi.Fatal(err.Error())
		os.Exit(-1)
	}
	logW.Info(fmt.Sprintf("listening for OPC clients on %s", ln.Addr().String()))

	go auditPixels()

	if len(*httpAddr) != 0 {
		http.HandleFunc("/", serveHandler)
		go func() {
			if err := http.ListenAndServe(*httpAddr, nil); err != nil {
				logW.Warn(err.Error())
			}
		}()
	}

	for {
		conn, err := ln.Accept()
		if err != nil {
			logW.Warn(err.Error())
			continue
		}
		go serveOPC(conn)
	}
}

// serveOPC decodes packets from a single client until it disconnects
//
func serveOPC(conn net.Conn) {
	defer conn.Close()

	logW.Debug(fmt.Sprintf("client %s connected", conn.RemoteAddr().String()))

	for {
		pkt, err := glow.ReadPacket(conn)
		if err != nil {
			if err != io.EOF {
				logW.Warn(fmt.Sprintf("client %s dropped due to %s", conn.RemoteAddr().String(), err.Error()), "error", err)
			}
			return
		}
		if pkt.Command != glow.CmdSetPixelColors {
			logW.Debug(fmt.Sprintf("ignoring command %d on channel %d", pkt.Command, pkt.Channel))
			continue
		}
		update(pkt)
	}
}

func update(pkt *glow.Packet) {
	px := pkt.Pixels()
	hex := make([]string, 0, len(px))
	for _, c := range px {
		hex = append(hex, fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
	}

	pixels.Lock()
	defer pixels.Unlock()

	state, isPresent := pixels.channels[pkt.Channel]
	if !isPresent {
		state = &channelState{}
		pixels.channels[pkt.Channel] = state
	}
	state.Packets++
	state.Lit = pkt.Lit()
	state.Pixels = hex
}

func snapshot() (channels map[uint8]channelState) {
	pixels.Lock()
	defer pixels.Unlock()

	channels = make(map[uint8]channelState, len(pixels.channels))
	for ch, state := range pixels.channels {
		channels[ch] = channelState{
			Packets: state.Packets,
			Lit:     state.Lit,
			Pixels:  append([]string{}, state.Pixels...),
		}
	}
	return channels
}

func auditPixels() {
	tick := time.NewTicker(*summarize)
	defer tick.Stop()

	for range tick.C {
		channels := snapshot()
		ids := make([]int, 0, len(channels))
		for ch := range channels {
			ids = append(ids, int(ch))
		}
		sort.Ints(ids)

		for _, ch := range ids {
			state := channels[uint8(ch)]
			logW.Info(fmt.Sprintf("channel %d %d of %d pixels lit after %d packets", ch, state.Lit, len(state.Pixels), state.Packets))
		}
	}
}

func serveHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snapshot()); err != nil {
		http.Error(w, err.Error(), 500)
	}
}
