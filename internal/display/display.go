// Package display maps between source image pixels and the view the crop
// rectangle is drawn in.
package display

import (
	"fmt"
	"image"
	"math"

	"github.com/frudas24/cropslice/internal/geom"
)

// Transform is the scale and translation applied to the source image when it is drawn.
type Transform struct {
	ScaleX float64 `json:"scale_x" yaml:"scale_x"`
	ScaleY float64 `json:"scale_y" yaml:"scale_y"`
	TransX float64 `json:"trans_x" yaml:"trans_x"`
	TransY float64 `json:"trans_y" yaml:"trans_y"`
}

// Identity returns a transform that draws the image at its natural size at the origin.
func Identity() Transform {
	return Transform{ScaleX: 1, ScaleY: 1}
}

// Validate rejects non-positive or non-finite scales and non-finite translations.
func (t Transform) Validate() error {
	if !(t.ScaleX > 0) || math.IsInf(t.ScaleX, 0) {
		return &geom.ConfigError{Field: "scale_x", Value: t.ScaleX}
	}
	if !(t.ScaleY > 0) || math.IsInf(t.ScaleY, 0) {
		return &geom.ConfigError{Field: "scale_y", Value: t.ScaleY}
	}
	if !(geom.Point{X: t.TransX, Y: t.TransY}).Finite() {
		return &geom.ConfigError{Field: "translation", Value: t.TransX}
	}
	return nil
}

// Viewport is a view of Width x Height pixels showing an image through Transform.
type Viewport struct {
	Width     int       `json:"width" yaml:"width"`
	Height    int       `json:"height" yaml:"height"`
	Transform Transform `json:"transform" yaml:"transform"`
}

// ImageRect returns the part of the view covered by an image of the given
// natural size. The displayed size is rounded, starts at the non-negative
// translation and is clipped to the view.
func (v Viewport) ImageRect(natural image.Point) geom.Rect {
	w := math.Round(float64(natural.X) * v.Transform.ScaleX)
	h := math.Round(float64(natural.Y) * v.Transform.ScaleY)
	left := math.Max(v.Transform.TransX, 0)
	top := math.Max(v.Transform.TransY, 0)
	return geom.Rect{
		Left:   left,
		Top:    top,
		Right:  math.Min(left+w, float64(v.Width)),
		Bottom: math.Min(top+h, float64(v.Height)),
	}
}

// Fit returns a viewport of viewW x viewH that shows the whole image scaled
// uniformly and centred.
func Fit(natural image.Point, viewW, viewH int) (Viewport, error) {
	if natural.X <= 0 || natural.Y <= 0 {
		return Viewport{}, &geom.ConfigError{Field: "image_size", Value: float64(natural.X)}
	}
	if viewW <= 0 {
		return Viewport{}, &geom.ConfigError{Field: "view_width", Value: float64(viewW)}
	}
	if viewH <= 0 {
		return Viewport{}, &geom.ConfigError{Field: "view_height", Value: float64(viewH)}
	}
	scale := math.Min(float64(viewW)/float64(natural.X), float64(viewH)/float64(natural.Y))
	return Viewport{
		Width:  viewW,
		Height: viewH,
		Transform: Transform{
			ScaleX: scale,
			ScaleY: scale,
			TransX: (float64(viewW) - float64(natural.X)*scale) / 2,
			TransY: (float64(viewH) - float64(natural.Y)*scale) / 2,
		},
	}, nil
}

// CropRegion converts a view-space crop rectangle into source pixels. The
// translation is removed and the result divided by the scale; the size is
// clamped so the region never extends past the natural image.
func CropRegion(rect geom.Rect, natural image.Point, t Transform) (image.Rectangle, error) {
	if err := t.Validate(); err != nil {
		return image.Rectangle{}, err
	}
	if !rect.Finite() {
		return image.Rectangle{}, &geom.ConfigError{Field: "crop_rect", Value: rect.Width()}
	}

	x := math.Max((rect.Left-t.TransX)/t.ScaleX, 0)
	y := math.Max((rect.Top-t.TransY)/t.ScaleY, 0)
	w := math.Min(rect.Width()/t.ScaleX, float64(natural.X)-x)
	h := math.Min(rect.Height()/t.ScaleY, float64(natural.Y)-y)

	if int(w) <= 0 || int(h) <= 0 {
		return image.Rectangle{}, fmt.Errorf("crop region at (%d,%d) is empty: %dx%d", int(x), int(y), int(w), int(h))
	}
	return image.Rect(int(x), int(y), int(x)+int(w), int(y)+int(h)), nil
}
