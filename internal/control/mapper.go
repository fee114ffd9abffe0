package control

import (
	"math"

	"github.com/frudas24/cropslice/internal/display"
)

// NormToView maps normalized [0..1] coordinates to view pixels.
func NormToView(xn, yn float64, vp display.Viewport) (float64, float64) {
	return normToPixels(clamp01(xn), vp.Width), normToPixels(clamp01(yn), vp.Height)
}

// normToPixels scales a [0,1] coordinate to span pixels.
func normToPixels(norm float64, span int) float64 {
	if span <= 0 {
		return 0
	}
	return norm * float64(span)
}

// clamp01 bounds a float to the [0..1] range. NaN passes through and is
// dropped by the engine.
func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return v
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
