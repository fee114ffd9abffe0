// Package handler implements the per-control-point edge update rules applied
// to a frame while it is dragged.
package handler

import (
	"math"

	"github.com/frudas24/cropslice/internal/aspect"
	"github.com/frudas24/cropslice/internal/frame"
	"github.com/frudas24/cropslice/internal/geom"
	"github.com/frudas24/cropslice/internal/handle"
)

// Kind selects the update rule.
type Kind int

const (
	// Corner drives one horizontal and one vertical edge.
	Corner Kind = iota
	// HorizontalEdge drives Top or Bottom.
	HorizontalEdge
	// VerticalEdge drives Left or Right.
	VerticalEdge
	// Center translates the whole rectangle.
	Center
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Corner:
		return "corner"
	case HorizontalEdge:
		return "horizontal_edge"
	case VerticalEdge:
		return "vertical_edge"
	case Center:
		return "center"
	default:
		return "unknown"
	}
}

// Handler is the update rule bound to one control point. Horizontal is used
// by Corner and HorizontalEdge, Vertical by Corner and VerticalEdge.
type Handler struct {
	Kind       Kind
	Horizontal frame.Edge
	Vertical   frame.Edge
}

// For returns the handler for cp.
func For(cp handle.ControlPoint) Handler {
	if cp.IsCorner() {
		return corner(cp)
	}
	switch cp {
	case handle.Left:
		return Handler{Kind: VerticalEdge, Vertical: frame.Left}
	case handle.Right:
		return Handler{Kind: VerticalEdge, Vertical: frame.Right}
	case handle.Top:
		return Handler{Kind: HorizontalEdge, Horizontal: frame.Top}
	case handle.Bottom:
		return Handler{Kind: HorizontalEdge, Horizontal: frame.Bottom}
	default:
		return Handler{Kind: Center}
	}
}

// corner returns the handler for one of the four corner control points.
func corner(cp handle.ControlPoint) Handler {
	h := Handler{Kind: Corner, Horizontal: frame.Top, Vertical: frame.Left}
	if cp == handle.BottomLeft || cp == handle.BottomRight {
		h.Horizontal = frame.Bottom
	}
	if cp == handle.TopRight || cp == handle.BottomRight {
		h.Vertical = frame.Right
	}
	return h
}

// drives reports whether the handler moves e directly.
func (h Handler) drives(e frame.Edge) bool {
	switch h.Kind {
	case Corner:
		return e == h.Horizontal || e == h.Vertical
	case HorizontalEdge:
		return e == h.Horizontal
	case VerticalEdge:
		return e == h.Vertical
	default:
		return false
	}
}

// Input is one move event as seen by a handler. Point is the touch position
// already corrected by the press offset.
type Input struct {
	Point      geom.Point
	Image      geom.Rect
	SnapRadius float64
	Ratio      aspect.Ratio
	Locked     bool
}

// Dispatch applies h to f. After the update the frame is normalized so that
// Left <= Right and Top <= Bottom; the return value reports whether that
// repair was needed.
func Dispatch(h Handler, f *frame.Frame, in Input) bool {
	switch {
	case h.Kind == Center:
		moveCenter(f, in)
	case !in.Locked:
		moveFree(h, f, in)
	case h.Kind == Corner:
		moveCorner(h, f, in)
		keepMinimum(h, f, in)
	case h.Kind == HorizontalEdge:
		moveEdge(f, in, h.Horizontal, frame.Left, frame.Right)
		keepMinimum(h, f, in)
	case h.Kind == VerticalEdge:
		moveEdge(f, in, h.Vertical, frame.Top, frame.Bottom)
		keepMinimum(h, f, in)
	}
	return f.Normalize()
}

// ActiveEdges returns the (primary, secondary) edges of a corner for a touch
// at p. The touch-implied ratio is computed from rect with the corner's two
// edges moved onto p; when it is wider than ratio, or undefined because the
// implied height is zero, the vertical edge leads.
func ActiveEdges(h Handler, rect geom.Rect, p geom.Point, ratio aspect.Ratio) (primary, secondary frame.Edge) {
	l, t, r, b := rect.Left, rect.Top, rect.Right, rect.Bottom
	if h.Vertical == frame.Left {
		l = p.X
	} else {
		r = p.X
	}
	if h.Horizontal == frame.Top {
		t = p.Y
	} else {
		b = p.Y
	}
	implied, err := aspect.Calculate(l, t, r, b)
	if err != nil || implied > ratio.Float() {
		return h.Vertical, h.Horizontal
	}
	return h.Horizontal, h.Vertical
}

// moveFree drives the handler's edges toward the touch without a ratio.
func moveFree(h Handler, f *frame.Frame, in Input) {
	x, y := in.Point.X, in.Point.Y
	if h.Kind == Corner || h.Kind == HorizontalEdge {
		f.AdjustCoordinate(h.Horizontal, x, y, in.Image, in.SnapRadius, aspect.Free)
	}
	if h.Kind == Corner || h.Kind == VerticalEdge {
		f.AdjustCoordinate(h.Vertical, x, y, in.Image, in.SnapRadius, aspect.Free)
	}
}

// moveCorner drives the leading edge of a corner toward the touch and derives
// the other one from the ratio. A derived edge that lands past the image is
// snapped back and the leading edge is derived instead.
func moveCorner(h Handler, f *frame.Frame, in Input) {
	primary, secondary := ActiveEdges(h, f.Rect(), in.Point, in.Ratio)

	f.AdjustCoordinate(primary, in.Point.X, in.Point.Y, in.Image, in.SnapRadius, in.Ratio)
	f.AdjustToRatio(secondary, in.Ratio)

	if f.IsOutsideMargin(secondary, in.Image, in.SnapRadius) {
		f.SnapToRect(secondary, in.Image)
		f.AdjustToRatio(primary, in.Ratio)
	}
}

// moveEdge drives own toward the touch and re-centres the perpendicular pair
// (low, high) so the rectangle keeps the ratio.
func moveEdge(f *frame.Frame, in Input, own, low, high frame.Edge) {
	f.AdjustCoordinate(own, in.Point.X, in.Point.Y, in.Image, in.SnapRadius, in.Ratio)

	var half float64
	if own.Horizontal() {
		half = (in.Ratio.Width(f.Height()) - f.Width()) / 2
	} else {
		half = (in.Ratio.Height(f.Width()) - f.Height()) / 2
	}
	f.Offset(low, -half)
	f.Offset(high, half)

	for _, side := range [2]frame.Edge{low, high} {
		if !f.IsOutsideMargin(side, in.Image, in.SnapRadius) {
			continue
		}
		if f.IsNewRectangleOutOfBounds(own, side, in.Image, in.Ratio) {
			continue
		}
		delta := f.SnapToRect(side, in.Image)
		f.Offset(side.Opposite(), -delta)
		f.AdjustToRatio(own, in.Ratio)
	}
}

// moveCenter translates the rectangle so its centre follows the touch, then
// slides it back inside the image on each axis.
func moveCenter(f *frame.Frame, in Input) {
	f.SetRect(f.Rect().Translate(in.Point.Sub(f.Rect().Center())))

	switch {
	case f.IsOutsideMargin(frame.Left, in.Image, in.SnapRadius):
		f.Offset(frame.Right, f.SnapToRect(frame.Left, in.Image))
	case f.IsOutsideMargin(frame.Right, in.Image, in.SnapRadius):
		f.Offset(frame.Left, f.SnapToRect(frame.Right, in.Image))
	}
	switch {
	case f.IsOutsideMargin(frame.Top, in.Image, in.SnapRadius):
		f.Offset(frame.Bottom, f.SnapToRect(frame.Top, in.Image))
	case f.IsOutsideMargin(frame.Bottom, in.Image, in.SnapRadius):
		f.Offset(frame.Top, f.SnapToRect(frame.Bottom, in.Image))
	}
}

// minSlack absorbs float error in sizes that sit exactly on MinCropLength.
const minSlack = 1e-6

// keepMinimum grows a ratio-locked rectangle that a compensating snap left
// under MinCropLength. See growAxis for how each axis grows.
func keepMinimum(h Handler, f *frame.Frame, in Input) {
	if f.Width() >= frame.MinCropLength-minSlack && f.Height() >= frame.MinCropLength-minSlack {
		return
	}
	ratio := in.Ratio.Float()
	height := math.Max(f.Height(), math.Max(frame.MinCropLength, frame.MinCropLength/ratio))
	width := math.Max(in.Ratio.Width(height), frame.MinCropLength)
	growAxis(h, f, frame.Left, frame.Right, width, in.Image.Left, in.Image.Right)
	growAxis(h, f, frame.Top, frame.Bottom, height, in.Image.Top, in.Image.Bottom)
}

// growAxis widens the (low, high) pair to size when it is shorter. A driven
// edge moves away from its opposite; an undriven pair grows about its midpoint.
// The pair is then shifted into [lo, hi], and lo wins when it does not fit.
func growAxis(h Handler, f *frame.Frame, low, high frame.Edge, size, lo, hi float64) {
	if f.Coordinate(high)-f.Coordinate(low) >= size {
		return
	}
	switch {
	case h.drives(high):
		f.SetCoordinate(high, f.Coordinate(low)+size)
	case h.drives(low):
		f.SetCoordinate(low, f.Coordinate(high)-size)
	default:
		mid := (f.Coordinate(low) + f.Coordinate(high)) / 2
		f.SetCoordinate(low, mid-size/2)
		f.SetCoordinate(high, mid+size/2)
	}
	if over := f.Coordinate(high) - hi; over > 0 {
		f.Offset(low, -over)
		f.Offset(high, -over)
	}
	if under := lo - f.Coordinate(low); under > 0 {
		f.Offset(low, under)
		f.Offset(high, under)
	}
}
