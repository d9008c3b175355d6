package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const tolerance = 1e-9

func assertPointNear(t *testing.T, want, got Point) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, tolerance)
	assert.InDelta(t, want.Y, got.Y, tolerance)
}

func TestViewport_RoundTrip(t *testing.T) {
	scales := []float64{0.1, 0.37, 1, 2.5, 5}
	offsets := []Point{{}, {X: -350, Y: 42}, {X: 1e4, Y: -1e4}}
	points := []Point{{}, {X: 600, Y: 400}, {X: -12.5, Y: 999.75}}

	for _, s := range scales {
		for _, o := range offsets {
			v := Viewport{Scale: s, Offset: o}
			for _, p := range points {
				assertPointNear(t, p, v.WorldToScreen(v.ScreenToWorld(p)))
			}
		}
	}
}

func TestViewport_ZoomPinsCursor(t *testing.T) {
	tests := []struct {
		name  string
		v     Viewport
		p     Point
		delta float64
	}{
		{"zoom in", Viewport{Scale: 1}, Point{X: 300, Y: 200}, -500},
		{"zoom out", Viewport{Scale: 2, Offset: Point{X: 40, Y: -10}}, Point{X: 10, Y: 700}, 300},
		{"clamped high", Viewport{Scale: 4.9, Offset: Point{X: 5, Y: 5}}, Point{X: 50, Y: 50}, -10000},
		{"clamped low", Viewport{Scale: 0.2}, Point{X: 640, Y: 360}, 10000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.v.ScreenToWorld(tt.p)
			after := tt.v.ZoomAt(tt.p, tt.delta)
			assertPointNear(t, before, after.ScreenToWorld(tt.p))
			assert.GreaterOrEqual(t, after.Scale, MinScale)
			assert.LessOrEqual(t, after.Scale, MaxScale)
		})
	}
}

func TestViewport_ZoomAtScale(t *testing.T) {
	v := Viewport{Scale: 1}
	assert.InDelta(t, 1.1, v.ZoomAt(Point{}, -100).Scale, tolerance)
	assert.InDelta(t, 0.9, v.ZoomAt(Point{}, 100).Scale, tolerance)
	assert.Equal(t, MaxScale, v.ZoomAt(Point{}, -1e6).Scale)
	assert.Equal(t, MinScale, v.ZoomAt(Point{}, 1e6).Scale)
}

func TestViewport_ZeroValueIsIdentity(t *testing.T) {
	var v Viewport
	assert.Equal(t, 1.0, v.EffectiveScale())
	assertPointNear(t, Point{X: 3, Y: 4}, v.ScreenToWorld(Point{X: 3, Y: 4}))
}

func TestViewport_NegativeScaleIsClamped(t *testing.T) {
	v := Viewport{Scale: -3}
	assert.Equal(t, MinScale, v.EffectiveScale())
}

func TestViewport_NonFiniteInput(t *testing.T) {
	nan, inf := math.NaN(), math.Inf(1)
	v := Viewport{Scale: 2, Offset: Point{X: 5, Y: 5}}

	assert.Equal(t, v, v.ZoomAt(Point{}, nan))
	assert.Equal(t, v, v.ZoomAt(Point{X: nan}, 100))
	assert.Equal(t, v, v.Pan(Point{X: inf}))

	out := v.ZoomAt(Point{}, inf)
	assert.Equal(t, MinScale, out.Scale)
	assert.True(t, out.Offset.Finite())
	assert.Equal(t, MaxScale, v.ZoomAt(Point{}, -inf).Scale)

	assert.Equal(t, 1.0, Viewport{Scale: nan}.EffectiveScale())
	assert.Equal(t, MaxScale, Viewport{Scale: inf}.EffectiveScale())
}

func TestClamp_NaN(t *testing.T) {
	assert.Equal(t, 1.0, clamp(math.NaN(), 1, 2))
	assert.Equal(t, 2.0, clamp(math.Inf(1), 1, 2))
	assert.Equal(t, 1.0, clamp(math.Inf(-1), 1, 2))
	assert.Equal(t, Size{W: 100, H: 50}, Size{W: math.NaN(), H: math.NaN()}.Clamp(Size{W: 100, H: 50}, Size{W: 800, H: 800}))
}

func TestViewport_Pan(t *testing.T) {
	v := NewViewport(800, 600).Pan(Point{X: 10, Y: -5}).Pan(Point{X: 1, Y: 1})
	assert.Equal(t, Point{X: 11, Y: -4}, v.Offset)
	assert.Equal(t, Point{X: 800, Y: 600}, v.Reset().ScreenCenter().Scale(2))
}

func TestViewport_CenterAndPlacement(t *testing.T) {
	v := Viewport{Scale: 2, Offset: Point{X: 100, Y: 50}, Width: 1000, Height: 600}

	assertPointNear(t, Point{X: 200, Y: 125}, v.CenterWorld())
	assertPointNear(t, Point{X: 100, Y: 65}, v.PlacementFor(0))
	assertPointNear(t, Point{X: 140, Y: 105}, v.PlacementFor(2))
}

func TestViewport_CenterUsesDefaultSize(t *testing.T) {
	var v Viewport
	assert.Equal(t, Point{X: DefaultViewportWidth / 2, Y: DefaultViewportHeight / 2}, v.CenterWorld())
}

func TestViewport_VisibleWorld(t *testing.T) {
	v := Viewport{Scale: 0.5, Offset: Point{X: -100, Y: 0}, Width: 400, Height: 300}
	r := v.VisibleWorld()
	assert.InDelta(t, 200, r.X, tolerance)
	assert.InDelta(t, 0, r.Y, tolerance)
	assert.InDelta(t, 800, r.W, tolerance)
	assert.InDelta(t, 600, r.H, tolerance)
}
