package model

// This module defines implementation neutral spatial data structures
// for the pixels being animated

// PointContainer is implemented by anything that has a position in 3D space
// and can be rebuilt at a new position. P is the concrete type being
// rebuilt so that transforms hand back the same type they were given.
type PointContainer[P any] interface {
	Coordinates() (x, y, z float64)
	WithCoordinates(x, y, z float64) P
}

// Point is a position in 3D space
type Point struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
	Z float64 `yaml:"z" json:"z"`
}

func (p Point) Coordinates() (x, y, z float64) {
	return p.X, p.Y, p.Z
}

func (p Point) WithCoordinates(x, y, z float64) Point {
	return Point{X: x, Y: y, Z: z}
}
