package glow

// Decoding of Open Pixel Control packets, as sent by the fadecandy sink. Used
// by the simulator in place of a real fcserver

import (
	"encoding/binary"
	"image/color"
	"io"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"
)

const (
	// CmdSetPixelColors is the only OPC command the sink sends
	CmdSetPixelColors = 0
	opcHeaderLen      = 4
)

// Packet is a single decoded OPC message
type Packet struct {
	Channel uint8
	Command uint8
	Data    []byte
}

// ReadPacket reads exactly one OPC message. io.EOF is returned unwrapped when
// the stream ends cleanly between messages
func ReadPacket(r io.Reader) (pkt *Packet, err error) {
	header := [opcHeaderLen]byte{}
	if _, errGo := io.ReadFull(r, header[:]); errGo != nil {
		if errGo == io.EOF {
			return nil, errGo
		}
		return nil, errors.Wrap(errGo).With("stack", stack.Trace().TrimRuntime())
	}

	pkt = &Packet{
		Channel: header[0],
		Command: header[1],
		Data:    make([]byte, binary.BigEndian.Uint16(header[2:])),
	}
	if _, errGo := io.ReadFull(r, pkt.Data); errGo != nil {
		return nil, errors.Wrap(errGo).With("channel", pkt.Channel).With("length", len(pkt.Data)).With("stack", stack.Trace().TrimRuntime())
	}
	return pkt, nil
}

// Pixels interprets the data of a set-pixel-colors message, a trailing
// partial pixel is dropped
func (pkt *Packet) Pixels() (pixels []color.RGBA) {
	pixels = make([]color.RGBA, len(pkt.Data)/3)
	for idx := range pixels {
		pixels[idx] = color.RGBA{R: pkt.Data[idx*3], G: pkt.Data[idx*3+1], B: pkt.Data[idx*3+2]}
	}
	return pixels
}

// Lit counts the pixels that are not black
func (pkt *Packet) Lit() (lit int) {
	for _, p := range pkt.Pixels() {
		if p.R != 0 || p.G != 0 || p.B != 0 {
			lit++
		}
	}
	return lit
}
