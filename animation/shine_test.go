package animation

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cgorski/glow-effects/model"
)

var (
	red   = model.RGB{Red: 255}
	green = model.RGB{Green: 255}
	blue  = model.RGB{Blue: 200}
)

func blackPoints(n int) (points []model.RGBPoint[model.RGB]) {
	points = make([]model.RGBPoint[model.RGB], n)
	for i := range points {
		points[i] = model.NewRGBPoint(model.Point{X: float64(i), Y: float64(2 * i), Z: float64(3 * i)}, model.RGB{})
	}
	return points
}

func newTestShine(t *testing.T, n int, colors []model.RGB, cfg ShineConfig, seed int64) *Shine[model.RGB, model.RGBPoint[model.RGB]] {
	t.Helper()
	shine, err := NewShine(blackPoints(n), colors, cfg, WithRand(rand.New(rand.NewSource(seed))))
	require.Nil(t, err)
	return shine
}

func TestNewShineValidation(t *testing.T) {
	cfg := ShineConfig{FramesBetweenGlowStart: 1, FramesToMaxGlow: 2, FramesToFade: 2}

	tests := []struct {
		name     string
		points   int
		colors   []model.RGB
		simul    int
		wantKind error
	}{
		{"zero batch", 2, []model.RGB{red}, 0, ErrInvalidNumStartSimultaneous},
		{"negative batch", 2, []model.RGB{red}, -1, ErrInvalidNumStartSimultaneous},
		{"batch larger than points", 2, []model.RGB{red}, 3, ErrInvalidNumStartSimultaneous},
		{"no points", 0, []model.RGB{red}, 1, ErrInvalidNumStartSimultaneous},
		{"empty palette", 2, []model.RGB{}, 1, ErrColorSetIsEmpty},
		{"nil palette", 2, nil, 2, ErrColorSetIsEmpty},
		{"batch checked before palette", 2, nil, 0, ErrInvalidNumStartSimultaneous},
		{"smallest batch", 2, []model.RGB{red}, 1, nil},
		{"batch equal to points", 2, []model.RGB{red, green}, 2, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := cfg
			c.NumStartSimultaneous = tt.simul
			shine, err := NewShine(blackPoints(tt.points), tt.colors, c)
			if tt.wantKind == nil {
				require.Nil(t, err)
				require.NotNil(t, shine)
				return
			}
			require.NotNil(t, err)
			assert.Nil(t, shine)
			assert.Contains(t, err.Error(), tt.wantKind.Error())
		})
	}
}

func TestNewShineInitialState(t *testing.T) {
	cfg := ShineConfig{FramesBetweenGlowStart: 5, FramesToMaxGlow: 3, FramesToFade: 4, NumStartSimultaneous: 2}
	shine := newTestShine(t, 4, []model.RGB{blue, blue, red}, cfg, 1)

	assert.Equal(t, uint64(14), shine.Frame())
	assert.Equal(t, uint32(5), shine.framesSinceLastGlow)
	assert.Equal(t, []model.RGB{blue, red}, shine.colors, "palette is a set")
	assert.Equal(t, []uint64{0, 0, 0, 0}, shine.glowStartTimes)
	assert.Equal(t, []model.RGB{blue, blue, blue, blue}, shine.currentGlowColors)
	assert.Equal(t, 4, shine.Len())
	assert.Equal(t, cfg, shine.Config())
}

// A point with a single red color glows through shades of red only
func TestShadeOfRedWithNoGreenOrBlue(t *testing.T) {
	cfg := ShineConfig{FramesBetweenGlowStart: 1, FramesToMaxGlow: 2, FramesToFade: 2, NumStartSimultaneous: 1}
	shine := newTestShine(t, 2, []model.RGB{red}, cfg, 42)

	for i := 0; i < 5; i++ {
		shine.NextFrame()
	}
	points := shine.NextFrame()

	found := false
	for _, p := range points {
		c := p.ColorValue()
		if c.Red > 0 && c.Green == 0 && c.Blue == 0 {
			found = true
			break
		}
	}
	assert.True(t, found, "no point is a shade of red in %v", points)
}

func TestFrameShapeAndOrder(t *testing.T) {
	cfg := ShineConfig{FramesBetweenGlowStart: 0, FramesToMaxGlow: 3, FramesToFade: 5, NumStartSimultaneous: 3}
	input := blackPoints(7)
	shine, err := NewShine(input, []model.RGB{red, green, blue}, cfg, WithRand(rand.New(rand.NewSource(3))))
	require.Nil(t, err)

	for f := 0; f < 100; f++ {
		frame := shine.NextFrame()
		require.Len(t, frame, len(input))
		for i := range frame {
			assert.Equal(t, input[i].Point, frame[i].Point)
		}
	}
}

func TestFrameCounterAdvances(t *testing.T) {
	cfg := ShineConfig{FramesBetweenGlowStart: 2, FramesToMaxGlow: 2, FramesToFade: 3, NumStartSimultaneous: 1}
	shine := newTestShine(t, 3, []model.RGB{red}, cfg, 5)

	for i := 0; i < 20; i++ {
		before := shine.Frame()
		shine.NextFrame()
		require.Equal(t, before+1, shine.Frame())
	}
}

func TestBrightnessCurve(t *testing.T) {
	cfg := ShineConfig{FramesToMaxGlow: 4, FramesToFade: 8, NumStartSimultaneous: 1}
	shine := newTestShine(t, 1, []model.RGB{red}, cfg, 1)

	tests := []struct {
		elapsed uint64
		want    float64
	}{
		{0, 0.0},
		{1, 0.25},
		{2, 0.5},
		{3, 0.75},
		{4, 1.0},
		{6, 0.75},
		{8, 0.5},
		{11, 0.125},
		{12, 0.0},
		{13, 0.0},
		{1000, 0.0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, shine.brightness(tt.elapsed), 1e-9, "elapsed %d", tt.elapsed)
	}

	// Rising then falling, never outside [0, 1]
	prev := -1.0
	for e := uint64(0); e <= 4; e++ {
		b := shine.brightness(e)
		assert.Greater(t, b, prev)
		prev = b
	}
	for e := uint64(5); e <= 12; e++ {
		b := shine.brightness(e)
		assert.Less(t, b, prev)
		assert.GreaterOrEqual(t, b, 0.0)
		prev = b
	}
}

func TestBrightnessZeroLengthPhases(t *testing.T) {
	cfg := ShineConfig{FramesToMaxGlow: 0, FramesToFade: 0, NumStartSimultaneous: 1}
	shine := newTestShine(t, 1, []model.RGB{red}, cfg, 1)

	for e := uint64(0); e < 5; e++ {
		assert.Equal(t, 0.0, shine.brightness(e))
	}
	for i := 0; i < 10; i++ {
		for _, p := range shine.NextFrame() {
			assert.True(t, p.ColorValue().IsBlack())
		}
	}
}

// Displayed colors are the tracked glow color scaled down, never up
func TestBrightnessAttenuates(t *testing.T) {
	cfg := ShineConfig{FramesBetweenGlowStart: 1, FramesToMaxGlow: 5, FramesToFade: 7, NumStartSimultaneous: 4}
	colors := []model.RGB{red, green, blue, {Red: 10, Green: 200, Blue: 33}}
	shine := newTestShine(t, 12, colors, cfg, 9)

	for f := 0; f < 300; f++ {
		frame := shine.NextFrame()
		for i, p := range frame {
			c := p.ColorValue()
			glow := shine.currentGlowColors[i]
			require.LessOrEqual(t, c.Red, glow.Red)
			require.LessOrEqual(t, c.Green, glow.Green)
			require.LessOrEqual(t, c.Blue, glow.Blue)
		}
	}
}

func TestBatchSizeAndCoolDown(t *testing.T) {
	cfg := ShineConfig{FramesBetweenGlowStart: 2, FramesToMaxGlow: 3, FramesToFade: 4, NumStartSimultaneous: 3}
	shine := newTestShine(t, 10, []model.RGB{red, green}, cfg, 11)
	cycle := cfg.cycle()

	for f := 0; f < 500; f++ {
		frame := shine.Frame()
		batch := shine.framesSinceLastGlow >= cfg.FramesBetweenGlowStart
		before := append([]uint64{}, shine.glowStartTimes...)

		shine.NextFrame()

		started := 0
		for i, start := range shine.glowStartTimes {
			if start == before[i] {
				continue
			}
			started++
			require.True(t, batch, "point %d started outside a batch at frame %d", i, frame)
			require.Equal(t, frame, start)
			require.GreaterOrEqual(t, frame-before[i], cycle, "point %d restarted while still glowing", i)
		}
		require.LessOrEqual(t, started, cfg.NumStartSimultaneous)
	}
}

func TestFirstFrameStartsBatch(t *testing.T) {
	cfg := ShineConfig{FramesBetweenGlowStart: 10, FramesToMaxGlow: 3, FramesToFade: 3, NumStartSimultaneous: 4}
	shine := newTestShine(t, 6, []model.RGB{red}, cfg, 2)
	first := shine.Frame()

	shine.NextFrame()

	started := 0
	for _, start := range shine.glowStartTimes {
		if start == first {
			started++
		}
	}
	assert.Equal(t, 4, started)
	assert.Equal(t, uint32(0), shine.framesSinceLastGlow)
}

// Fewer idle points than the batch size is not an error
func TestBatchWithFewEligiblePoints(t *testing.T) {
	cfg := ShineConfig{FramesBetweenGlowStart: 0, FramesToMaxGlow: 5, FramesToFade: 5, NumStartSimultaneous: 2}
	shine := newTestShine(t, 2, []model.RGB{red}, cfg, 4)

	shine.NextFrame()
	starts := append([]uint64{}, shine.glowStartTimes...)
	for i := 0; i < 9; i++ {
		shine.NextFrame()
		assert.Equal(t, starts, shine.glowStartTimes)
	}
	shine.NextFrame()
	assert.NotEqual(t, starts, shine.glowStartTimes)
}

func TestSeededShineIsRepeatable(t *testing.T) {
	cfg := ShineConfig{FramesBetweenGlowStart: 1, FramesToMaxGlow: 4, FramesToFade: 6, NumStartSimultaneous: 2}
	colors := []model.RGB{red, green, blue}
	a := newTestShine(t, 8, colors, cfg, 77)
	b := newTestShine(t, 8, colors, cfg, 77)

	for f := 0; f < 50; f++ {
		require.Equal(t, a.NextFrame(), b.NextFrame())
	}
}

func TestSnapshotsAreIndependent(t *testing.T) {
	cfg := ShineConfig{FramesBetweenGlowStart: 1, FramesToMaxGlow: 2, FramesToFade: 2, NumStartSimultaneous: 1}
	input := blackPoints(2)
	shine, err := NewShine(input, []model.RGB{red}, cfg, WithRand(rand.New(rand.NewSource(1))))
	require.Nil(t, err)

	frame := shine.NextFrame()
	frame[0] = frame[0].WithCoordinates(100, 100, 100)
	input[1] = input[1].WithCoordinates(-5, -5, -5)

	snap := shine.Snapshot()
	assert.Equal(t, model.Point{}, snap[0].Point)
	assert.Equal(t, model.Point{X: 1, Y: 2, Z: 3}, snap[1].Point)
}

// A three channel effect over colors with a white channel leaves white alone
func TestShineKeepsWhiteChannel(t *testing.T) {
	points := []model.RGBPoint[model.RGBW]{
		{Point: model.Point{X: 1}, Color: model.RGBW{White: 7}},
		{Point: model.Point{X: 2}, Color: model.RGBW{White: 9}},
	}
	colors := []model.RGBW{{Red: 200, Blue: 100}}
	cfg := ShineConfig{FramesBetweenGlowStart: 1, FramesToMaxGlow: 2, FramesToFade: 2, NumStartSimultaneous: 1}

	shine, err := NewShine(points, colors, cfg, WithRand(rand.New(rand.NewSource(8))))
	require.Nil(t, err)

	lit := false
	for f := 0; f < 20; f++ {
		frame := shine.NextFrame()
		assert.Equal(t, uint8(7), frame[0].Color.White)
		assert.Equal(t, uint8(9), frame[1].Color.White)
		for _, p := range frame {
			if p.Color.Red > 0 {
				lit = true
				assert.Equal(t, uint8(0), p.Color.Green)
			}
		}
	}
	assert.True(t, lit)
}

func TestShineOverRGBWPoints(t *testing.T) {
	points := []model.RGBWPoint[model.RGBW]{
		model.NewRGBWPoint(model.Point{}, model.RGBW{}),
		model.NewRGBWPoint(model.Point{Y: 1}, model.RGBW{}),
		model.NewRGBWPoint(model.Point{Y: 2}, model.RGBW{}),
	}
	cfg := ShineConfig{FramesBetweenGlowStart: 0, FramesToMaxGlow: 2, FramesToFade: 3, NumStartSimultaneous: 1}

	shine, err := NewShine(points, []model.RGBW{{Green: 250}}, cfg, WithRand(rand.New(rand.NewSource(3))))
	require.Nil(t, err)

	lit := false
	for f := 0; f < 30; f++ {
		for _, p := range shine.NextFrame() {
			assert.Equal(t, uint8(0), p.Color.Red)
			assert.LessOrEqual(t, p.Color.Green, uint8(250))
			if p.Color.Green > 0 {
				lit = true
			}
		}
	}
	assert.True(t, lit)
}

// A palette white level must not stick to a four channel point, it returns
// to black once its glow is over
func TestShineRGBWPointReturnsToBlack(t *testing.T) {
	points := []model.RGBWPoint[model.RGBW]{
		model.NewRGBWPoint(model.Point{}, model.RGBW{}),
		model.NewRGBWPoint(model.Point{X: 1}, model.RGBW{}),
	}
	cfg := ShineConfig{FramesBetweenGlowStart: 100, FramesToMaxGlow: 2, FramesToFade: 2, NumStartSimultaneous: 2}

	shine, err := NewShine(points, []model.RGBW{{Green: 200, White: 50}}, cfg, WithRand(rand.New(rand.NewSource(5))))
	require.Nil(t, err)

	for f := 0; f < 60; f++ {
		frame := shine.NextFrame()
		for idx, p := range frame {
			assert.Equal(t, uint8(0), p.Color.White, "frame %d point %d", f, idx)
			switch {
			case f == 2:
				assert.Equal(t, model.RGBW{Green: 200}, p.Color, "frame %d point %d", f, idx)
			case f == 0 || f >= 4:
				assert.True(t, p.Color.IsBlack(), "frame %d point %d %v", f, idx, p.Color)
			}
		}
	}
}
