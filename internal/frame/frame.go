// Package frame holds the four edges of the crop rectangle and the per-edge
// adjustment rules: snapping to the image, minimum size, and ratio derivation.
package frame

import (
	"math"

	"github.com/frudas24/cropslice/internal/aspect"
	"github.com/frudas24/cropslice/internal/geom"
)

// MinCropLength is the smallest distance, in pixels, kept between opposite edges.
const MinCropLength = 40

// Edge identifies one side of the crop rectangle.
type Edge int

const (
	// Left is the x coordinate of the left side.
	Left Edge = iota
	// Top is the y coordinate of the top side.
	Top
	// Right is the x coordinate of the right side.
	Right
	// Bottom is the y coordinate of the bottom side.
	Bottom
)

// String returns the lowercase edge name.
func (e Edge) String() string {
	switch e {
	case Left:
		return "left"
	case Top:
		return "top"
	case Right:
		return "right"
	case Bottom:
		return "bottom"
	default:
		return "unknown"
	}
}

// Horizontal reports whether the edge holds a y coordinate (Top or Bottom).
func (e Edge) Horizontal() bool {
	return e == Top || e == Bottom
}

// Opposite returns the parallel edge on the other side of the rectangle.
func (e Edge) Opposite() Edge {
	switch e {
	case Left:
		return Right
	case Right:
		return Left
	case Top:
		return Bottom
	default:
		return Top
	}
}

// Frame is the crop rectangle: one mutable coordinate per Edge.
type Frame struct {
	coords [4]float64
}

// New returns a frame initialized to r.
func New(r geom.Rect) *Frame {
	f := &Frame{}
	f.SetRect(r)
	return f
}

// Coordinate returns the coordinate of e.
func (f *Frame) Coordinate(e Edge) float64 {
	return f.coords[e]
}

// SetCoordinate sets the coordinate of e.
func (f *Frame) SetCoordinate(e Edge, v float64) {
	f.coords[e] = v
}

// Offset adds distance to the coordinate of e.
func (f *Frame) Offset(e Edge, distance float64) {
	f.coords[e] += distance
}

// Width returns Right-Left.
func (f *Frame) Width() float64 {
	return f.coords[Right] - f.coords[Left]
}

// Height returns Bottom-Top.
func (f *Frame) Height() float64 {
	return f.coords[Bottom] - f.coords[Top]
}

// Rect returns a snapshot of the four edges.
func (f *Frame) Rect() geom.Rect {
	return geom.R(f.coords[Left], f.coords[Top], f.coords[Right], f.coords[Bottom])
}

// SetRect overwrites all four edges.
func (f *Frame) SetRect(r geom.Rect) {
	f.coords = [4]float64{r.Left, r.Top, r.Right, r.Bottom}
}

// Normalize restores Left <= Right and Top <= Bottom by collapsing a crossed
// axis onto its midpoint. It reports whether a repair was needed.
func (f *Frame) Normalize() bool {
	repaired := false
	if f.coords[Right] < f.coords[Left] {
		mid := (f.coords[Left] + f.coords[Right]) / 2
		f.coords[Left], f.coords[Right] = mid, mid
		repaired = true
	}
	if f.coords[Bottom] < f.coords[Top] {
		mid := (f.coords[Top] + f.coords[Bottom]) / 2
		f.coords[Top], f.coords[Bottom] = mid, mid
		repaired = true
	}
	return repaired
}

// AdjustCoordinate moves e toward the touch point (x for Left/Right, y for
// Top/Bottom). The edge snaps onto the image boundary when the touch is closer
// than snapRadius to it; otherwise it is clamped so the rectangle keeps
// MinCropLength in both dimensions at the given ratio.
func (f *Frame) AdjustCoordinate(e Edge, x, y float64, image geom.Rect, snapRadius float64, ratio aspect.Ratio) {
	switch e {
	case Left:
		f.coords[Left] = f.adjustLeft(x, image, snapRadius, ratio)
	case Top:
		f.coords[Top] = f.adjustTop(y, image, snapRadius, ratio)
	case Right:
		f.coords[Right] = f.adjustRight(x, image, snapRadius, ratio)
	case Bottom:
		f.coords[Bottom] = f.adjustBottom(y, image, snapRadius, ratio)
	}
}

// AdjustToRatio recomputes e from the other three edges so the rectangle has the given ratio.
func (f *Frame) AdjustToRatio(e Edge, ratio aspect.Ratio) {
	l, t, r, b := f.coords[Left], f.coords[Top], f.coords[Right], f.coords[Bottom]
	switch e {
	case Left:
		f.coords[Left] = ratio.Left(t, r, b)
	case Top:
		f.coords[Top] = ratio.Top(l, r, b)
	case Right:
		f.coords[Right] = ratio.Right(l, t, b)
	case Bottom:
		f.coords[Bottom] = ratio.Bottom(l, t, r)
	}
}

// SnapToRect places e exactly on the matching image boundary and returns the signed delta applied.
func (f *Frame) SnapToRect(e Edge, image geom.Rect) float64 {
	delta := f.SnapOffset(e, image)
	f.coords[e] += delta
	return delta
}

// SnapOffset returns the delta SnapToRect would apply, without moving the edge.
func (f *Frame) SnapOffset(e Edge, image geom.Rect) float64 {
	return boundary(e, image) - f.coords[e]
}

// IsOutsideMargin reports whether e is closer than margin to its image
// boundary, or already past it.
func (f *Frame) IsOutsideMargin(e Edge, image geom.Rect, margin float64) bool {
	c := f.coords[e]
	switch e {
	case Left:
		return c-image.Left < margin
	case Top:
		return c-image.Top < margin
	case Right:
		return image.Right-c < margin
	default:
		return image.Bottom-c < margin
	}
}

// IsNewRectangleOutOfBounds predicts the effect of snapping other onto the
// image while its opposite edge shrinks by the same delta: it reports whether
// e, recomputed from the ratio afterwards, would leave the rectangle outside
// the image. Edges on the same axis never affect each other and yield false.
func (f *Frame) IsNewRectangleOutOfBounds(e, other Edge, image geom.Rect, ratio aspect.Ratio) bool {
	if e.Horizontal() == other.Horizontal() {
		return false
	}
	offset := f.SnapOffset(other, image)
	r := f.Rect()

	switch other {
	case Left:
		r.Left = image.Left
		r.Right -= offset
	case Right:
		r.Right = image.Right
		r.Left -= offset
	case Top:
		r.Top = image.Top
		r.Bottom -= offset
	case Bottom:
		r.Bottom = image.Bottom
		r.Top -= offset
	}

	switch e {
	case Left:
		r.Left = ratio.Left(r.Top, r.Right, r.Bottom)
	case Top:
		r.Top = ratio.Top(r.Left, r.Right, r.Bottom)
	case Right:
		r.Right = ratio.Right(r.Left, r.Top, r.Bottom)
	case Bottom:
		r.Bottom = ratio.Bottom(r.Left, r.Top, r.Right)
	}
	return r.Top < image.Top || r.Left < image.Left || r.Bottom > image.Bottom || r.Right > image.Right
}

// adjustLeft returns the new Left for a touch at x.
func (f *Frame) adjustLeft(x float64, image geom.Rect, snapRadius float64, ratio aspect.Ratio) float64 {
	if x-image.Left < snapRadius {
		return image.Left
	}
	right := f.coords[Right]
	limitX := math.Inf(1)
	limitY := math.Inf(1)
	if x >= right-MinCropLength {
		limitX = right - MinCropLength
	}
	if (right-x)/ratio.Float() <= MinCropLength {
		limitY = right - MinCropLength*ratio.Float()
	}
	return math.Min(x, math.Min(limitX, limitY))
}

// adjustRight returns the new Right for a touch at x.
func (f *Frame) adjustRight(x float64, image geom.Rect, snapRadius float64, ratio aspect.Ratio) float64 {
	if image.Right-x < snapRadius {
		return image.Right
	}
	left := f.coords[Left]
	limitX := math.Inf(-1)
	limitY := math.Inf(-1)
	if x <= left+MinCropLength {
		limitX = left + MinCropLength
	}
	if (x-left)/ratio.Float() <= MinCropLength {
		limitY = left + MinCropLength*ratio.Float()
	}
	return math.Max(x, math.Max(limitX, limitY))
}

// adjustTop returns the new Top for a touch at y.
func (f *Frame) adjustTop(y float64, image geom.Rect, snapRadius float64, ratio aspect.Ratio) float64 {
	if y-image.Top < snapRadius {
		return image.Top
	}
	bottom := f.coords[Bottom]
	limitY := math.Inf(1)
	limitX := math.Inf(1)
	if y >= bottom-MinCropLength {
		limitY = bottom - MinCropLength
	}
	if (bottom-y)*ratio.Float() <= MinCropLength {
		limitX = bottom - MinCropLength/ratio.Float()
	}
	return math.Min(y, math.Min(limitY, limitX))
}

// adjustBottom returns the new Bottom for a touch at y.
func (f *Frame) adjustBottom(y float64, image geom.Rect, snapRadius float64, ratio aspect.Ratio) float64 {
	if image.Bottom-y < snapRadius {
		return image.Bottom
	}
	top := f.coords[Top]
	limitY := math.Inf(-1)
	limitX := math.Inf(-1)
	if y <= top+MinCropLength {
		limitY = top + MinCropLength
	}
	if (y-top)*ratio.Float() <= MinCropLength {
		limitX = top + MinCropLength/ratio.Float()
	}
	return math.Max(y, math.Max(limitY, limitX))
}

// boundary returns the image coordinate matching e.
func boundary(e Edge, image geom.Rect) float64 {
	switch e {
	case Left:
		return image.Left
	case Top:
		return image.Top
	case Right:
		return image.Right
	default:
		return image.Bottom
	}
}
