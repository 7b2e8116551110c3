// Package geometry contains rigid transforms applied to point sets when a
// scene is laid out. None of it is used while frames are being generated.
package geometry

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"

	"github.com/cgorski/glow-effects/model"
)

var (
	// ErrInvalidRotation is the kind of error returned for an axis or angle that
	// cannot be turned into a rotation
	ErrInvalidRotation = errors.New("invalid rotation axis or angle")
)

// Axis is one of the three coordinate axes
type Axis int

const (
	X Axis = iota
	Y
	Z
)

func (axis Axis) String() string {
	switch axis {
	case X:
		return "x"
	case Y:
		return "y"
	case Z:
		return "z"
	}
	return fmt.Sprintf("Axis(%d)", int(axis))
}

// ParseAxis accepts x, y or z in either case
func ParseAxis(name string) (axis Axis, err errors.Error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "x":
		return X, nil
	case "y":
		return Y, nil
	case "z":
		return Z, nil
	}
	return X, errors.Wrap(ErrInvalidRotation).With("axis", name).With("stack", stack.Trace().TrimRuntime())
}

// Operation identifies the kind of transform
type Operation int

const (
	Flip Operation = iota
	Rotate
)

// Transformation describes a single rigid transform. Flips are half turns
// about the axis.
type Transformation struct {
	Operation    Operation
	Axis         Axis
	AngleDegrees float64 // Only used by Rotate, positive is counter clockwise looking down the axis
}

var (
	FlipAcrossXAxis = Transformation{Operation: Flip, Axis: X}
	FlipAcrossYAxis = Transformation{Operation: Flip, Axis: Y}
	FlipAcrossZAxis = Transformation{Operation: Flip, Axis: Z}
)

// RotateAroundAxis builds a rotation of the given number of degrees
func RotateAroundAxis(axis Axis, angleDegrees float64) Transformation {
	return Transformation{Operation: Rotate, Axis: axis, AngleDegrees: angleDegrees}
}

func (t Transformation) String() string {
	if t.Operation == Flip {
		return "flip " + t.Axis.String()
	}
	return fmt.Sprintf("rotate %s %g", t.Axis, t.AngleDegrees)
}

// rotation is a 3x3 row major rotation matrix
type rotation [3][3]float64

func (t Transformation) matrix() (m rotation, err errors.Error) {
	rad := 0.0
	switch t.Operation {
	case Flip:
		rad = math.Pi
	case Rotate:
		if math.IsNaN(t.AngleDegrees) || math.IsInf(t.AngleDegrees, 0) {
			return m, errors.Wrap(ErrInvalidRotation).With("angle", t.AngleDegrees).With("stack", stack.Trace().TrimRuntime())
		}
		rad = t.AngleDegrees * math.Pi / 180.0
	default:
		return m, errors.Wrap(ErrInvalidRotation).With("operation", int(t.Operation)).With("stack", stack.Trace().TrimRuntime())
	}

	sin, cos := math.Sincos(rad)
	switch t.Axis {
	case X:
		return rotation{{1, 0, 0}, {0, cos, -sin}, {0, sin, cos}}, nil
	case Y:
		return rotation{{cos, 0, sin}, {0, 1, 0}, {-sin, 0, cos}}, nil
	case Z:
		return rotation{{cos, -sin, 0}, {sin, cos, 0}, {0, 0, 1}}, nil
	}
	return m, errors.Wrap(ErrInvalidRotation).With("axis", t.Axis.String()).With("stack", stack.Trace().TrimRuntime())
}

func (m rotation) apply(x, y, z float64) (float64, float64, float64) {
	return m[0][0]*x + m[0][1]*y + m[0][2]*z,
		m[1][0]*x + m[1][1]*y + m[1][2]*z,
		m[2][0]*x + m[2][1]*y + m[2][2]*z
}

// Apply returns a new slice holding every point transformed. Anything other
// than the coordinates, colors for example, is carried over untouched.
func Apply[P model.PointContainer[P]](points []P, t Transformation) (transformed []P, err errors.Error) {
	m, err := t.matrix()
	if err != nil {
		return nil, err
	}

	transformed = make([]P, 0, len(points))
	for _, p := range points {
		transformed = append(transformed, p.WithCoordinates(m.apply(p.Coordinates())))
	}
	return transformed, nil
}

// ApplyAll applies the transforms in order
func ApplyAll[P model.PointContainer[P]](points []P, ts ...Transformation) (transformed []P, err errors.Error) {
	transformed = points
	for _, t := range ts {
		if transformed, err = Apply(transformed, t); err != nil {
			return nil, err.With("transform", t.String())
		}
	}
	if len(ts) == 0 {
		transformed = append([]P{}, points...)
	}
	return transformed, nil
}
