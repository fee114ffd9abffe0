// Package geom holds the float geometry primitives shared by the crop engine.
package geom

import (
	"math"
)

// Point is a 2D position in component-local pixels.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Finite reports whether both coordinates are finite numbers.
func (p Point) Finite() bool {
	return finite(p.X) && finite(p.Y)
}

// Rect describes a rectangle by its four edge coordinates.
type Rect struct {
	Left   float64 `json:"left" yaml:"left"`
	Top    float64 `json:"top" yaml:"top"`
	Right  float64 `json:"right" yaml:"right"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
}

// R is shorthand for Rect{Left: l, Top: t, Right: r, Bottom: b}.
func R(l, t, r, b float64) Rect {
	return Rect{Left: l, Top: t, Right: r, Bottom: b}
}

// Width returns Right-Left.
func (r Rect) Width() float64 {
	return r.Right - r.Left
}

// Height returns Bottom-Top.
func (r Rect) Height() float64 {
	return r.Bottom - r.Top
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{X: (r.Left + r.Right) / 2, Y: (r.Top + r.Bottom) / 2}
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width() <= 0 || r.Height() <= 0
}

// Finite reports whether all four coordinates are finite numbers.
func (r Rect) Finite() bool {
	return finite(r.Left) && finite(r.Top) && finite(r.Right) && finite(r.Bottom)
}

// Inset shrinks the rectangle by fractions of its own width and height on each side.
func (r Rect) Inset(fx, fy float64) Rect {
	dx := fx * r.Width()
	dy := fy * r.Height()
	return Rect{
		Left:   r.Left + dx,
		Top:    r.Top + dy,
		Right:  r.Right - dx,
		Bottom: r.Bottom - dy,
	}
}

// Translate moves the rectangle by d.
func (r Rect) Translate(d Point) Rect {
	return Rect{
		Left:   r.Left + d.X,
		Top:    r.Top + d.Y,
		Right:  r.Right + d.X,
		Bottom: r.Bottom + d.Y,
	}
}

// Normalize returns a rectangle with Left <= Right and Top <= Bottom.
func Normalize(r Rect) Rect {
	if r.Right < r.Left {
		r.Left, r.Right = r.Right, r.Left
	}
	if r.Bottom < r.Top {
		r.Top, r.Bottom = r.Bottom, r.Top
	}
	return r
}

// Contains reports whether a point is inside the rectangle (edges inclusive).
func Contains(r Rect, p Point) bool {
	return p.X >= r.Left && p.X <= r.Right && p.Y >= r.Top && p.Y <= r.Bottom
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// finite reports whether v is neither NaN nor infinite.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
