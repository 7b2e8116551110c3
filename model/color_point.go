package model

// ColorPointContainer is a point that carries a color value of type C.
// Replacing the color never moves the point, and moving the point never
// changes the color.
type ColorPointContainer[C Color, P any] interface {
	PointContainer[P]
	ColorValue() C
	WithColorValue(c C) P
}

// RGBPoint is a point carrying a color with at least red, green and blue channels
type RGBPoint[C RGBContainer[C]] struct {
	Point Point `yaml:"point" json:"point"`
	Color C     `yaml:"color" json:"color"`
}

// NewRGBPoint is a convenience for the common RGB case
func NewRGBPoint(point Point, c RGB) RGBPoint[RGB] {
	return RGBPoint[RGB]{Point: point, Color: c}
}

func (p RGBPoint[C]) Coordinates() (x, y, z float64) {
	return p.Point.Coordinates()
}

func (p RGBPoint[C]) WithCoordinates(x, y, z float64) RGBPoint[C] {
	return RGBPoint[C]{Point: p.Point.WithCoordinates(x, y, z), Color: p.Color}
}

func (p RGBPoint[C]) ColorValue() C {
	return p.Color
}

// WithColorValue copies the red, green and blue channels of c into the
// point's own color, so any channels beyond those survive
func (p RGBPoint[C]) WithColorValue(c C) RGBPoint[C] {
	return RGBPoint[C]{Point: p.Point, Color: p.Color.WithRGB(c.RGB())}
}

// RGBWPoint is a point carrying a four channel color
type RGBWPoint[C RGBWContainer[C]] struct {
	Point Point `yaml:"point" json:"point"`
	Color C     `yaml:"color" json:"color"`
}

// NewRGBWPoint is a convenience for the common RGBW case
func NewRGBWPoint(point Point, c RGBW) RGBWPoint[RGBW] {
	return RGBWPoint[RGBW]{Point: point, Color: c}
}

func (p RGBWPoint[C]) Coordinates() (x, y, z float64) {
	return p.Point.Coordinates()
}

func (p RGBWPoint[C]) WithCoordinates(x, y, z float64) RGBWPoint[C] {
	return RGBWPoint[C]{Point: p.Point.WithCoordinates(x, y, z), Color: p.Color}
}

func (p RGBWPoint[C]) ColorValue() C {
	return p.Color
}

func (p RGBWPoint[C]) WithColorValue(c C) RGBWPoint[C] {
	return RGBWPoint[C]{Point: p.Point, Color: p.Color.WithRGBW(c.RGBW())}
}
