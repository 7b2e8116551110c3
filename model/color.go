package model

import (
	"fmt"
	"image/color"
)

// Color is the set of capabilities every color value must offer. Colors are
// small comparable values so they can be used as set members and map keys.
type Color interface {
	comparable
	IsBlack() bool
}

// RGBContainer is a color that exposes red, green and blue channels and can
// be rebuilt from new values for them. Types with extra channels keep those
// untouched when rebuilt.
type RGBContainer[C any] interface {
	Color
	RGB() RGB
	WithRGB(rgb RGB) C
}

// RGBWContainer is a color that exposes red, green, blue and white channels
type RGBWContainer[C any] interface {
	Color
	RGBW() RGBW
	WithRGBW(rgbw RGBW) C
}

// Pixeler is implemented by colors that can be handed to an output device.
// The alpha channel of the returned value carries the white channel, if any.
type Pixeler interface {
	Pixel() color.RGBA
}

// RGB is a three channel color, 8 bits per channel
type RGB struct {
	Red   uint8 `yaml:"red" json:"red"`
	Green uint8 `yaml:"green" json:"green"`
	Blue  uint8 `yaml:"blue" json:"blue"`
}

func (c RGB) IsBlack() bool {
	return c.Red == 0 && c.Green == 0 && c.Blue == 0
}

func (c RGB) RGB() RGB {
	return c
}

func (c RGB) WithRGB(rgb RGB) RGB {
	return rgb
}

func (c RGB) Pixel() color.RGBA {
	return color.RGBA{R: c.Red, G: c.Green, B: c.Blue}
}

func (c RGB) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.Red, c.Green, c.Blue)
}

// RGBW is a four channel color for strips with a dedicated white LED
type RGBW struct {
	Red   uint8 `yaml:"red" json:"red"`
	Green uint8 `yaml:"green" json:"green"`
	Blue  uint8 `yaml:"blue" json:"blue"`
	White uint8 `yaml:"white" json:"white"`
}

func (c RGBW) IsBlack() bool {
	return c.Red == 0 && c.Green == 0 && c.Blue == 0 && c.White == 0
}

func (c RGBW) RGBW() RGBW {
	return c
}

func (c RGBW) WithRGBW(rgbw RGBW) RGBW {
	return rgbw
}

// RGB returns the color channels shared with RGB, dropping white
func (c RGBW) RGB() RGB {
	return RGB{Red: c.Red, Green: c.Green, Blue: c.Blue}
}

// WithRGB replaces the red, green and blue channels and leaves white alone
func (c RGBW) WithRGB(rgb RGB) RGBW {
	return RGBW{Red: rgb.Red, Green: rgb.Green, Blue: rgb.Blue, White: c.White}
}

func (c RGBW) Pixel() color.RGBA {
	return color.RGBA{R: c.Red, G: c.Green, B: c.Blue, A: c.White}
}

func (c RGBW) String() string {
	return fmt.Sprintf("#%02x%02x%02x/%02x", c.Red, c.Green, c.Blue, c.White)
}
