// Package handle resolves which control point of the crop rectangle a touch
// activates and the offset kept between the touch and that control point.
package handle

import (
	"fmt"
	"math"

	"github.com/frudas24/cropslice/internal/geom"
)

// ControlPoint is one of the nine draggable parts of the crop rectangle.
type ControlPoint int

const (
	// TopLeft drives the Top and Left edges.
	TopLeft ControlPoint = iota
	// TopRight drives the Top and Right edges.
	TopRight
	// BottomLeft drives the Bottom and Left edges.
	BottomLeft
	// BottomRight drives the Bottom and Right edges.
	BottomRight
	// Left drives the Left edge.
	Left
	// Top drives the Top edge.
	Top
	// Right drives the Right edge.
	Right
	// Bottom drives the Bottom edge.
	Bottom
	// Center moves the whole rectangle.
	Center
)

var names = [...]string{
	TopLeft:     "top_left",
	TopRight:    "top_right",
	BottomLeft:  "bottom_left",
	BottomRight: "bottom_right",
	Left:        "left",
	Top:         "top",
	Right:       "right",
	Bottom:      "bottom",
	Center:      "center",
}

// All lists every control point in declaration order.
var All = []ControlPoint{TopLeft, TopRight, BottomLeft, BottomRight, Left, Top, Right, Bottom, Center}

// String returns the snake_case name used on the wire and in metrics.
func (cp ControlPoint) String() string {
	if cp < 0 || int(cp) >= len(names) {
		return "unknown"
	}
	return names[cp]
}

// MarshalText implements encoding.TextMarshaler.
func (cp ControlPoint) MarshalText() ([]byte, error) {
	if cp < 0 || int(cp) >= len(names) {
		return nil, fmt.Errorf("invalid control point %d", int(cp))
	}
	return []byte(names[cp]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (cp *ControlPoint) UnmarshalText(b []byte) error {
	v, err := ParseControlPoint(string(b))
	if err != nil {
		return err
	}
	*cp = v
	return nil
}

// ParseControlPoint returns the control point with the given snake_case name.
func ParseControlPoint(s string) (ControlPoint, error) {
	for i, n := range names {
		if n == s {
			return ControlPoint(i), nil
		}
	}
	return 0, fmt.Errorf("unknown control point %q", s)
}

// IsCorner reports whether cp is one of the four corners.
func (cp ControlPoint) IsCorner() bool {
	return cp >= TopLeft && cp <= BottomRight
}

// Resolve returns the control point activated by touch. Corners win when
// the nearest one is within radius; then the edge bands in the order Top,
// Bottom, Left, Right; then Center when the touch is inside rect. A touch
// matching nothing resolves to Center when assumeCenter is set, otherwise
// ok is false.
func Resolve(touch geom.Point, rect geom.Rect, radius float64, assumeCenter bool) (cp ControlPoint, ok bool) {
	corners := [...]struct {
		cp ControlPoint
		at geom.Point
	}{
		{TopLeft, geom.Point{X: rect.Left, Y: rect.Top}},
		{TopRight, geom.Point{X: rect.Right, Y: rect.Top}},
		{BottomLeft, geom.Point{X: rect.Left, Y: rect.Bottom}},
		{BottomRight, geom.Point{X: rect.Right, Y: rect.Bottom}},
	}
	closest := math.Inf(1)
	nearest := TopLeft
	for _, c := range corners {
		if d := geom.Distance(touch, c.at); d < closest {
			closest = d
			nearest = c.cp
		}
	}
	if closest <= radius {
		return nearest, true
	}

	switch {
	case inHorizontalZone(touch, rect.Left, rect.Right, rect.Top, radius):
		return Top, true
	case inHorizontalZone(touch, rect.Left, rect.Right, rect.Bottom, radius):
		return Bottom, true
	case inVerticalZone(touch, rect.Left, rect.Top, rect.Bottom, radius):
		return Left, true
	case inVerticalZone(touch, rect.Right, rect.Top, rect.Bottom, radius):
		return Right, true
	}

	if geom.Contains(rect, touch) || assumeCenter {
		return Center, true
	}
	return 0, false
}

// PressOffset returns the nominal anchor of cp minus touch. Side handles keep
// only the offset on their own axis; Center anchors on the rectangle centre.
func PressOffset(cp ControlPoint, touch geom.Point, rect geom.Rect) geom.Point {
	switch cp {
	case TopLeft:
		return geom.Point{X: rect.Left - touch.X, Y: rect.Top - touch.Y}
	case TopRight:
		return geom.Point{X: rect.Right - touch.X, Y: rect.Top - touch.Y}
	case BottomLeft:
		return geom.Point{X: rect.Left - touch.X, Y: rect.Bottom - touch.Y}
	case BottomRight:
		return geom.Point{X: rect.Right - touch.X, Y: rect.Bottom - touch.Y}
	case Left:
		return geom.Point{X: rect.Left - touch.X}
	case Top:
		return geom.Point{Y: rect.Top - touch.Y}
	case Right:
		return geom.Point{X: rect.Right - touch.X}
	case Bottom:
		return geom.Point{Y: rect.Bottom - touch.Y}
	case Center:
		return rect.Center().Sub(touch)
	default:
		return geom.Point{}
	}
}

// inHorizontalZone reports whether p lies in the band around a horizontal edge.
func inHorizontalZone(p geom.Point, xStart, xEnd, y, radius float64) bool {
	return p.X > xStart && p.X < xEnd && math.Abs(p.Y-y) <= radius
}

// inVerticalZone reports whether p lies in the band around a vertical edge.
func inVerticalZone(p geom.Point, x, yStart, yEnd, radius float64) bool {
	return math.Abs(p.X-x) <= radius && p.Y > yStart && p.Y < yEnd
}
