package domain

import "math"

// Point is a 2D coordinate. Whether it is in screen or world space
// depends on the caller.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Finite reports whether both components are real numbers.
func (p Point) Finite() bool {
	return finite(p.X) && finite(p.Y)
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p minus q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale multiplies both components by f.
func (p Point) Scale(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

// Size is a width/height pair.
type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Finite reports whether both dimensions are real numbers.
func (s Size) Finite() bool {
	return finite(s.W) && finite(s.H)
}

// Clamp bounds s component-wise to [lo, hi].
func (s Size) Clamp(lo, hi Size) Size {
	return Size{W: clamp(s.W, lo.W, hi.W), H: clamp(s.H, lo.H, hi.H)}
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Finite reports whether every field is a real number.
func (r Rect) Finite() bool {
	return finite(r.X) && finite(r.Y) && finite(r.W) && finite(r.H)
}

// Center returns the midpoint of r.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Contains reports whether p lies inside r (edges inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// clamp bounds v to [lo, hi]. NaN maps to lo; infinities to the nearer bound.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// requireFinite returns a ValidationError for field when ok is false.
func requireFinite(field string, ok bool) error {
	if !ok {
		return NewValidationError(field, "must be a finite number")
	}
	return nil
}
