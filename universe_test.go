package glow

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMappingSplit(t *testing.T) {
	m := NewMapping()
	m.AddStrand(3, 2)
	m.AddStrand(1, 1)
	m.AddStrand(3, 1)

	assert.Equal(t, 4, m.Len())
	assert.Equal(t, []uint8{3, 1}, m.Channels())

	frame := []color.RGBA{{R: 1}, {R: 2}, {R: 3}, {R: 4}, {R: 99}}
	data, err := m.Split(frame)
	require.Nil(t, err)
	assert.Equal(t, []ChannelData{
		{Channel: 3, Data: []color.RGBA{{R: 1}, {R: 2}, {R: 4}}},
		{Channel: 1, Data: []color.RGBA{{R: 3}}},
	}, data)
}

func TestMappingShortFrame(t *testing.T) {
	m := NewMapping()
	m.AddStrand(0, 2)
	m.AddStrand(7, 2)

	_, err := m.Split(make([]color.RGBA, 3))
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "frame too short")

	_, err = m.Messages(nil)
	require.NotNil(t, err)
}

func TestMappingMessages(t *testing.T) {
	m := NewMapping()
	m.AddStrand(0, 3)
	m.AddStrand(5, 1)

	msgs, err := m.Messages(make([]color.RGBA, 4))
	require.Nil(t, err)
	assert.Len(t, msgs, 2)
}

func TestWhiteFoldsIntoRGB(t *testing.T) {
	r, g, b := rgb(color.RGBA{R: 10, G: 250, B: 0, A: 20})
	assert.Equal(t, []uint8{30, 255, 20}, []uint8{r, g, b})

	r, g, b = rgb(color.RGBA{R: 1, G: 2, B: 3})
	assert.Equal(t, []uint8{1, 2, 3}, []uint8{r, g, b})
}

func TestMappingChannelLimit(t *testing.T) {
	m := NewMapping()
	require.Nil(t, m.AddStrand(2, MaxChannelPixels-1))
	require.Nil(t, m.AddStrand(4, MaxChannelPixels))

	err := m.AddStrand(2, 2)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "too many pixels")

	// A rejected strand leaves the mapping untouched
	assert.Equal(t, 2*MaxChannelPixels-1, m.Len())
	assert.Equal(t, []uint8{2, 4}, m.Channels())

	require.Nil(t, m.AddStrand(2, 1))
	msgs, err := m.Messages(make([]color.RGBA, m.Len()))
	require.Nil(t, err)
	require.Len(t, msgs, 2)

	require.NotNil(t, NewMapping().AddStrand(9, MaxChannelPixels+1))
}
