// Package aspect derives crop edges, widths, and heights from a target
// width/height ratio.
package aspect

import (
	"errors"
	"math"

	"github.com/frudas24/cropslice/internal/geom"
)

// ErrZeroHeight is returned when a ratio is requested for a rectangle with no height.
var ErrZeroHeight = errors.New("aspect: zero height")

// Ratio is a validated, strictly positive width/height ratio.
// Obtain one from New; the zero value is not usable.
type Ratio float64

// Free is the ratio used by unlocked drags when clamping to the minimum size.
const Free Ratio = 1

// New validates v and returns it as a Ratio.
func New(v float64) (Ratio, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, &geom.ConfigError{Field: "aspect_ratio", Value: v}
	}
	return Ratio(v), nil
}

// Float returns the ratio as a float64.
func (r Ratio) Float() float64 {
	return float64(r)
}

// Calculate returns (right-left)/(bottom-top).
func Calculate(left, top, right, bottom float64) (float64, error) {
	height := bottom - top
	if height == 0 {
		return 0, ErrZeroHeight
	}
	return (right - left) / height, nil
}

// Left returns the left coordinate that gives the ratio with the other three edges.
func (r Ratio) Left(top, right, bottom float64) float64 {
	return right - float64(r)*(bottom-top)
}

// Top returns the top coordinate that gives the ratio with the other three edges.
func (r Ratio) Top(left, right, bottom float64) float64 {
	return bottom - (right-left)/float64(r)
}

// Right returns the right coordinate that gives the ratio with the other three edges.
func (r Ratio) Right(left, top, bottom float64) float64 {
	return float64(r)*(bottom-top) + left
}

// Bottom returns the bottom coordinate that gives the ratio with the other three edges.
func (r Ratio) Bottom(left, top, right float64) float64 {
	return (right-left)/float64(r) + top
}

// Width returns the width matching height.
func (r Ratio) Width(height float64) float64 {
	return float64(r) * height
}

// Height returns the height matching width.
func (r Ratio) Height(width float64) float64 {
	return width / float64(r)
}

// Fit returns the largest rectangle of ratio r centred inside bounds.
func (r Ratio) Fit(bounds geom.Rect) geom.Rect {
	w, h := bounds.Width(), bounds.Height()
	if h <= 0 || w <= 0 {
		return bounds
	}
	if w/h > float64(r) {
		dx := (w - r.Width(h)) / 2
		return geom.R(bounds.Left+dx, bounds.Top, bounds.Right-dx, bounds.Bottom)
	}
	dy := (h - r.Height(w)) / 2
	return geom.R(bounds.Left, bounds.Top+dy, bounds.Right, bounds.Bottom-dy)
}
