package glow

// Code to support mapping from the logical order of points in a frame to the
// OPC channels and pixel offsets the fadecandy server expects

import (
	"image/color"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"
	"github.com/kellydunn/go-opc"
)

// {channel, pixel} tuple identifying a physical pixel
type location struct {
	channel uint8
	pixel   int
}

// ChannelData defines data for a particular OPC channel for a frame
type ChannelData struct {
	Channel uint8
	Data    []color.RGBA
}

// Mapping captures mapping from frame positions to physical pixels
type Mapping struct {
	// Indexed by position within a frame
	locations []location

	// Number of pixels on each channel
	sizes map[uint8]int

	// Channels in the order they were first added so output is stable
	channels []uint8
}

// NewMapping creates an empty mapping
func NewMapping() *Mapping {
	return &Mapping{
		locations: make([]location, 0, 64),
		sizes:     make(map[uint8]int, 8),
		channels:  make([]uint8, 0, 8),
	}
}

// MaxChannelPixels is the most pixels one OPC message can carry, its length
// field is 16 bits wide and each pixel takes 3 bytes
const MaxChannelPixels = 0xFFFF / 3

// AddStrand appends count pixels to the mapping. They occupy the next count
// frame positions and continue on from any pixels already on the channel
func (m *Mapping) AddStrand(channel uint8, count int) (err errors.Error) {
	start := m.sizes[channel]
	if count < 0 || start+count > MaxChannelPixels {
		return errors.New("too many pixels for one channel").With("channel", channel).With("pixels", start+count).With("max", MaxChannelPixels).With("stack", stack.Trace().TrimRuntime())
	}
	if _, isPresent := m.sizes[channel]; !isPresent {
		m.channels = append(m.channels, channel)
	}
	for idx := 0; idx < count; idx++ {
		m.locations = append(m.locations, location{channel, start + idx})
	}
	m.sizes[channel] = start + count
	return nil
}

// Len is the number of frame positions mapped
func (m *Mapping) Len() int {
	return len(m.locations)
}

// Channels returns the channels in use, in the order they were added
func (m *Mapping) Channels() []uint8 {
	return append([]uint8{}, m.channels...)
}

// Split distributes a frame across its channels. The frame must cover every
// mapped position, anything beyond that is ignored
func (m *Mapping) Split(frame []color.RGBA) (data []ChannelData, err errors.Error) {
	if len(frame) < len(m.locations) {
		loc := m.locations[len(frame)]
		return nil, errors.New("frame too short for mapping").With("frame", len(frame)).With("mapping", len(m.locations)).With("channel", loc.channel).With("stack", stack.Trace().TrimRuntime())
	}

	byChannel := make(map[uint8]int, len(m.channels))
	data = make([]ChannelData, 0, len(m.channels))
	for idx, ch := range m.channels {
		byChannel[ch] = idx
		data = append(data, ChannelData{Channel: ch, Data: make([]color.RGBA, m.sizes[ch])})
	}
	for idx, loc := range m.locations {
		data[byChannel[loc.channel]].Data[loc.pixel] = frame[idx]
	}
	return data, nil
}

// Messages builds one OPC set-pixel-colors message per channel
func (m *Mapping) Messages(frame []color.RGBA) (msgs []*opc.Message, err errors.Error) {
	data, err := m.Split(frame)
	if err != nil {
		return nil, err
	}
	msgs = make([]*opc.Message, 0, len(data))
	for _, cd := range data {
		msgs = append(msgs, opcMessage(cd))
	}
	return msgs, nil
}

func opcMessage(cd ChannelData) (msg *opc.Message) {
	msg = opc.NewMessage(cd.Channel)
	msg.SetLength(uint16(len(cd.Data) * 3))
	for idx, c := range cd.Data {
		r, g, b := rgb(c)
		msg.SetPixelColor(idx, r, g, b)
	}
	return msg
}

// rgb folds the white channel, carried in alpha, into the color channels as
// fadecandy boards only drive RGB
func rgb(c color.RGBA) (r, g, b uint8) {
	return addClamped(c.R, c.A), addClamped(c.G, c.A), addClamped(c.B, c.A)
}

func addClamped(a, b uint8) uint8 {
	if sum := int(a) + int(b); sum < 0xFF {
		return uint8(sum)
	}
	return 0xFF
}
