package domain

import "math"

// Viewport limits and tuning.
const (
	MinScale = 0.1
	MaxScale = 5.0

	// ZoomIntensity converts a wheel delta into a scale change.
	ZoomIntensity = 0.001

	// DefaultViewportWidth and DefaultViewportHeight are used when the
	// visible container size is unknown.
	DefaultViewportWidth  = 1200
	DefaultViewportHeight = 800

	// PlacementStagger offsets each item when several are placed at once.
	PlacementStagger = 20
)

// placementHalf is subtracted from the viewport centre so a new card's
// body, not its corner, lands in the middle of the screen.
var placementHalf = Point{X: 100, Y: 60}

// Viewport is the pan/zoom transform between screen space (pixels in the
// visible container) and world space (where positions are stored).
//
//	screen = world*Scale + Offset
//
// The zero value behaves as scale 1, offset 0.
type Viewport struct {
	Scale  float64 `json:"scale"`
	Offset Point   `json:"offset"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// NewViewport returns an identity viewport for a container of the given size.
func NewViewport(width, height float64) Viewport {
	return Viewport{Scale: 1, Width: width, Height: height}
}

// EffectiveScale returns the scale actually used for mapping. It is always
// within [MinScale, MaxScale]; an unset or NaN scale counts as 1.
func (v Viewport) EffectiveScale() float64 {
	if v.Scale == 0 || math.IsNaN(v.Scale) {
		return 1
	}
	return clamp(v.Scale, MinScale, MaxScale)
}

// ScreenToWorld maps a screen point into world space.
func (v Viewport) ScreenToWorld(p Point) Point {
	return p.Sub(v.Offset).Scale(1 / v.EffectiveScale())
}

// WorldToScreen maps a world point into screen space.
func (v Viewport) WorldToScreen(p Point) Point {
	return p.Scale(v.EffectiveScale()).Add(v.Offset)
}

// ZoomAt changes the scale by delta*ZoomIntensity (positive delta zooms
// out, as a wheel scrolled down does) while keeping the world point under
// screenPoint fixed.
func (v Viewport) ZoomAt(screenPoint Point, delta float64) Viewport {
	return v.ZoomTo(screenPoint, v.EffectiveScale()-delta*ZoomIntensity)
}

// ZoomTo sets the scale to target (clamped) pinned at screenPoint.
// A NaN target or a non-finite point leaves v unchanged.
func (v Viewport) ZoomTo(screenPoint Point, target float64) Viewport {
	if math.IsNaN(target) || !screenPoint.Finite() || !v.Offset.Finite() {
		return v
	}
	world := v.ScreenToWorld(screenPoint)
	next := clamp(target, MinScale, MaxScale)
	v.Scale = next
	v.Offset = screenPoint.Sub(world.Scale(next))
	return v
}

// Pan translates the world origin by a screen-space delta. A non-finite
// delta leaves v unchanged.
func (v Viewport) Pan(delta Point) Viewport {
	if !delta.Finite() {
		return v
	}
	v.Offset = v.Offset.Add(delta)
	return v
}

// Reset returns the identity transform, keeping the container size.
func (v Viewport) Reset() Viewport {
	return Viewport{Scale: 1, Width: v.Width, Height: v.Height}
}

// Resize records a new container size.
func (v Viewport) Resize(width, height float64) Viewport {
	v.Width, v.Height = width, height
	return v
}

// ScreenCenter returns the middle of the visible container in screen space.
func (v Viewport) ScreenCenter() Point {
	w, h := v.Width, v.Height
	if w <= 0 {
		w = DefaultViewportWidth
	}
	if h <= 0 {
		h = DefaultViewportHeight
	}
	return Point{X: w / 2, Y: h / 2}
}

// CenterWorld returns the world coordinate currently at the centre of the
// visible container.
func (v Viewport) CenterWorld() Point {
	return v.ScreenToWorld(v.ScreenCenter())
}

// PlacementFor returns a default world position for the index-th item
// added in one batch: near the visible centre, staggered diagonally.
func (v Viewport) PlacementFor(index int) Point {
	stagger := float64(index * PlacementStagger)
	return v.CenterWorld().Sub(placementHalf).Add(Point{X: stagger, Y: stagger})
}

// VisibleWorld returns the world-space rectangle covered by the container.
func (v Viewport) VisibleWorld() Rect {
	c := v.ScreenCenter()
	tl := v.ScreenToWorld(Point{})
	br := v.ScreenToWorld(c.Scale(2))
	return Rect{X: tl.X, Y: tl.Y, W: br.X - tl.X, H: br.Y - tl.Y}
}
