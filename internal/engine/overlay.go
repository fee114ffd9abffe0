package engine

import "github.com/frudas24/cropslice/internal/geom"

// Line is a segment drawn over the image.
type Line struct {
	From geom.Point `json:"from"`
	To   geom.Point `json:"to"`
}

// Overlay is everything a renderer needs to draw the crop UI.
type Overlay struct {
	Border geom.Rect `json:"border"`
	// Guidelines split the rectangle in thirds: two vertical lines then two horizontal.
	Guidelines [4]Line `json:"guidelines"`
	// Bands are the dimmed areas of the image above, below, left of, and right of the rectangle.
	Bands   [4]geom.Rect `json:"bands"`
	Pressed bool         `json:"pressed"`
}

// Overlay returns the drawing geometry for the current rectangle.
func (e *Engine) Overlay() Overlay {
	r := e.frame.Rect()
	img := e.image
	w3 := r.Width() / 3
	h3 := r.Height() / 3
	return Overlay{
		Border: r,
		Guidelines: [4]Line{
			{From: geom.Point{X: r.Left + w3, Y: r.Top}, To: geom.Point{X: r.Left + w3, Y: r.Bottom}},
			{From: geom.Point{X: r.Right - w3, Y: r.Top}, To: geom.Point{X: r.Right - w3, Y: r.Bottom}},
			{From: geom.Point{X: r.Left, Y: r.Top + h3}, To: geom.Point{X: r.Right, Y: r.Top + h3}},
			{From: geom.Point{X: r.Left, Y: r.Bottom - h3}, To: geom.Point{X: r.Right, Y: r.Bottom - h3}},
		},
		Bands: [4]geom.Rect{
			geom.R(img.Left, img.Top, img.Right, r.Top),
			geom.R(img.Left, r.Bottom, img.Right, img.Bottom),
			geom.R(img.Left, r.Top, r.Left, r.Bottom),
			geom.R(r.Right, r.Top, img.Right, r.Bottom),
		},
		Pressed: e.drag != nil,
	}
}
