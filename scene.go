package glow

// This module loads the description of a physical installation, where its
// pixels sit in space, how they are wired to the fadecandy and the colors
// and timing of the effect played on them

import (
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"
	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v2"

	"github.com/cgorski/glow-effects/animation"
	"github.com/cgorski/glow-effects/geometry"
	"github.com/cgorski/glow-effects/model"
)

// DefaultFPS is used when a scene does not specify a frame rate
const DefaultFPS = 30

// StrandSpec describes a run of evenly spaced pixels on one OPC channel
type StrandSpec struct {
	Channel uint8     `yaml:"channel"`
	Count   int       `yaml:"count"`
	Start   []float64 `yaml:"start"` // Position of the first pixel
	Step    []float64 `yaml:"step"`  // Offset between neighboring pixels
}

// ColorSpec is a palette entry, either a bare hex string or a hex string with
// a white level for RGBW strips
type ColorSpec struct {
	Hex   string `yaml:"hex"`
	White uint8  `yaml:"white"`
}

// UnmarshalYAML accepts both "#ff0000" and {hex: "#ff0000", white: 10}
func (c *ColorSpec) UnmarshalYAML(unmarshal func(interface{}) error) error {
	hex := ""
	if errGo := unmarshal(&hex); errGo == nil {
		c.Hex = hex
		c.White = 0
		return nil
	}
	type plain ColorSpec
	return unmarshal((*plain)(c))
}

// GradientSpec generates palette entries blended between two colors
type GradientSpec struct {
	From  string `yaml:"from"`
	To    string `yaml:"to"`
	Steps int    `yaml:"steps"`
}

// PaletteSpec lists the colors points may glow with
type PaletteSpec struct {
	Colors   []ColorSpec   `yaml:"colors"`
	Gradient *GradientSpec `yaml:"gradient"`
}

// TransformSpec is one setup transform, either {flip: x} or {rotate: z, degrees: 90}
type TransformSpec struct {
	Flip    string  `yaml:"flip"`
	Rotate  string  `yaml:"rotate"`
	Degrees float64 `yaml:"degrees"`
}

// Scene is an installation together with the effect settings played on it
type Scene struct {
	FPS           int                   `yaml:"fps"`
	RGBW          bool                  `yaml:"rgbw"`
	Seed          int64                 `yaml:"seed"` // Non zero to make the effect repeatable
	PointsChannel uint8                 `yaml:"points_channel"`
	Points        [][]float64           `yaml:"points"`
	Strands       []StrandSpec          `yaml:"strands"`
	Palette       PaletteSpec           `yaml:"palette"`
	Transforms    []TransformSpec       `yaml:"transforms"`
	Shine         animation.ShineConfig `yaml:"shine"`

	points  []model.Point
	palette []model.RGBW
	mapping *Mapping
}

// LoadScene reads and validates a YAML scene file
func LoadScene(fn string) (scene *Scene, err errors.Error) {
	data, errGo := os.ReadFile(fn)
	if errGo != nil {
		return nil, errors.Wrap(errGo).With("file", fn).With("stack", stack.Trace().TrimRuntime())
	}
	if scene, err = ParseScene(data); err != nil {
		return nil, err.With("file", fn)
	}
	return scene, nil
}

// ParseScene decodes and validates a YAML scene
func ParseScene(data []byte) (scene *Scene, err errors.Error) {
	scene = &Scene{}
	if errGo := yaml.Unmarshal(data, scene); errGo != nil {
		return nil, errors.Wrap(errGo).With("stack", stack.Trace().TrimRuntime())
	}

	if scene.FPS == 0 {
		scene.FPS = DefaultFPS
	}
	if scene.FPS < 0 {
		return nil, errors.New("fps must be positive").With("field", "fps").With("fps", scene.FPS).With("stack", stack.Trace().TrimRuntime())
	}

	if err = scene.layout(); err != nil {
		return nil, err
	}
	if err = scene.loadPalette(); err != nil {
		return nil, err
	}
	if err = scene.transform(); err != nil {
		return nil, err
	}
	return scene, nil
}

func coordinates(field string, v []float64) (p model.Point, err errors.Error) {
	if len(v) != 3 {
		return p, errors.New("coordinates need exactly 3 values").With("field", field).With("values", len(v)).With("stack", stack.Trace().TrimRuntime())
	}
	return model.Point{X: v[0], Y: v[1], Z: v[2]}, nil
}

// layout places explicit points first, on their own channel, followed by
// each strand in turn
func (scene *Scene) layout() (err errors.Error) {
	scene.mapping = NewMapping()
	scene.points = make([]model.Point, 0, len(scene.Points))

	for idx, v := range scene.Points {
		p, err := coordinates(fmt.Sprintf("points[%d]", idx), v)
		if err != nil {
			return err
		}
		scene.points = append(scene.points, p)
	}
	if len(scene.points) != 0 {
		if err = scene.mapping.AddStrand(scene.PointsChannel, len(scene.points)); err != nil {
			return err.With("field", "points")
		}
	}

	for idx, strand := range scene.Strands {
		field := fmt.Sprintf("strands[%d]", idx)
		if strand.Count <= 0 {
			return errors.New("strand must have at least one pixel").With("field", field+".count").With("stack", stack.Trace().TrimRuntime())
		}
		start := model.Point{}
		if strand.Start != nil {
			if start, err = coordinates(field+".start", strand.Start); err != nil {
				return err
			}
		}
		step := model.Point{}
		if strand.Step != nil {
			if step, err = coordinates(field+".step", strand.Step); err != nil {
				return err
			}
		}
		for pixel := 0; pixel < strand.Count; pixel++ {
			n := float64(pixel)
			scene.points = append(scene.points, model.Point{
				X: start.X + n*step.X,
				Y: start.Y + n*step.Y,
				Z: start.Z + n*step.Z,
			})
		}
		if err = scene.mapping.AddStrand(strand.Channel, strand.Count); err != nil {
			return err.With("field", field+".count")
		}
	}

	if len(scene.points) == 0 {
		return errors.New("scene has no points").With("field", "points").With("stack", stack.Trace().TrimRuntime())
	}
	return nil
}

func parseHex(field string, hex string) (c colorful.Color, err errors.Error) {
	c, errGo := colorful.Hex(strings.TrimSpace(hex))
	if errGo != nil {
		return c, errors.Wrap(errGo).With("field", field).With("hex", hex).With("stack", stack.Trace().TrimRuntime())
	}
	return c, nil
}

func (scene *Scene) loadPalette() (err errors.Error) {
	scene.palette = make([]model.RGBW, 0, len(scene.Palette.Colors))

	for idx, spec := range scene.Palette.Colors {
		c, err := parseHex(fmt.Sprintf("palette.colors[%d]", idx), spec.Hex)
		if err != nil {
			return err
		}
		r, g, b := c.RGB255()
		scene.palette = append(scene.palette, model.RGBW{Red: r, Green: g, Blue: b, White: spec.White})
	}

	if grad := scene.Palette.Gradient; grad != nil {
		if grad.Steps <= 0 {
			return errors.New("gradient needs at least one step").With("field", "palette.gradient.steps").With("stack", stack.Trace().TrimRuntime())
		}
		from, err := parseHex("palette.gradient.from", grad.From)
		if err != nil {
			return err
		}
		to, err := parseHex("palette.gradient.to", grad.To)
		if err != nil {
			return err
		}
		for i := 0; i != grad.Steps; i++ {
			t := 0.0
			if grad.Steps > 1 {
				t = float64(i) / float64(grad.Steps-1)
			}
			r, g, b := from.BlendLab(to, t).Clamped().RGB255()
			scene.palette = append(scene.palette, model.RGBW{Red: r, Green: g, Blue: b})
		}
	}

	if len(scene.palette) == 0 {
		return errors.Wrap(animation.ErrColorSetIsEmpty).With("field", "palette").With("stack", stack.Trace().TrimRuntime())
	}
	return nil
}

func (spec TransformSpec) transformation(field string) (t geometry.Transformation, err errors.Error) {
	switch {
	case spec.Flip != "" && spec.Rotate == "":
		axis, err := geometry.ParseAxis(spec.Flip)
		if err != nil {
			return t, err.With("field", field+".flip")
		}
		return geometry.Transformation{Operation: geometry.Flip, Axis: axis}, nil
	case spec.Rotate != "" && spec.Flip == "":
		axis, err := geometry.ParseAxis(spec.Rotate)
		if err != nil {
			return t, err.With("field", field+".rotate")
		}
		return geometry.RotateAroundAxis(axis, spec.Degrees), nil
	}
	return t, errors.New("transform needs exactly one of flip or rotate").With("field", field).With("stack", stack.Trace().TrimRuntime())
}

func (scene *Scene) transform() (err errors.Error) {
	ts := make([]geometry.Transformation, 0, len(scene.Transforms))
	for idx, spec := range scene.Transforms {
		t, err := spec.transformation(fmt.Sprintf("transforms[%d]", idx))
		if err != nil {
			return err
		}
		ts = append(ts, t)
	}
	scene.points, err = geometry.ApplyAll(scene.points, ts...)
	return err
}

// Points returns the position of every pixel after setup transforms, in
// frame order
func (scene *Scene) Points() []model.Point {
	return append([]model.Point{}, scene.points...)
}

// Mapping returns the OPC layout of the scene
func (scene *Scene) Mapping() *Mapping {
	return scene.mapping
}

// RGBPalette returns the palette without white levels
func (scene *Scene) RGBPalette() (palette []model.RGB) {
	palette = make([]model.RGB, 0, len(scene.palette))
	for _, c := range scene.palette {
		palette = append(palette, c.RGB())
	}
	return palette
}

// RGBWPalette returns the palette including white levels
func (scene *Scene) RGBWPalette() []model.RGBW {
	return append([]model.RGBW{}, scene.palette...)
}

// RGBPoints returns every pixel as a black RGB point
func (scene *Scene) RGBPoints() (points []model.RGBPoint[model.RGB]) {
	points = make([]model.RGBPoint[model.RGB], 0, len(scene.points))
	for _, p := range scene.points {
		points = append(points, model.NewRGBPoint(p, model.RGB{}))
	}
	return points
}

// RGBWPoints returns every pixel as a black RGBW point
func (scene *Scene) RGBWPoints() (points []model.RGBWPoint[model.RGBW]) {
	points = make([]model.RGBWPoint[model.RGBW], 0, len(scene.points))
	for _, p := range scene.points {
		points = append(points, model.NewRGBWPoint(p, model.RGBW{}))
	}
	return points
}

// Source builds the Shine effect described by the scene, in RGB or RGBW as
// configured, ready for the pump. A scene seed is applied before opts, so
// opts can still override it
func (scene *Scene) Source(opts ...animation.Option) (src Source, err errors.Error) {
	if scene.Seed != 0 {
		opts = append([]animation.Option{animation.WithRand(rand.New(rand.NewSource(scene.Seed)))}, opts...)
	}

	if scene.RGBW {
		shine, err := animation.NewShine(scene.RGBWPoints(), scene.RGBWPalette(), scene.Shine, opts...)
		if err != nil {
			return nil, err.With("field", "shine")
		}
		return NewSource[model.RGBW, model.RGBWPoint[model.RGBW]](shine), nil
	}

	shine, err := animation.NewShine(scene.RGBPoints(), scene.RGBPalette(), scene.Shine, opts...)
	if err != nil {
		return nil, err.With("field", "shine")
	}
	return NewSource[model.RGB, model.RGBPoint[model.RGB]](shine), nil
}
