// Package engine owns the crop frame and turns press, move, and release
// events into handler dispatches.
package engine

import (
	"image"
	"io"
	"log/slog"
	"math"

	"github.com/frudas24/cropslice/internal/aspect"
	"github.com/frudas24/cropslice/internal/display"
	"github.com/frudas24/cropslice/internal/frame"
	"github.com/frudas24/cropslice/internal/geom"
	"github.com/frudas24/cropslice/internal/handle"
	"github.com/frudas24/cropslice/internal/handler"
)

// InitialInset is the fraction of the image rect left around a fresh crop rectangle on each side.
const InitialInset = 0.1

// Options tunes hit testing and snapping.
type Options struct {
	// HandleRadius is the touch radius around corners and edges, in pixels.
	HandleRadius float64
	// SnapRadius is the distance under which an edge snaps onto the image boundary.
	SnapRadius float64
	// AssumeCenterIfUnmatched makes a press outside every handle and outside
	// the rectangle start a Center drag instead of being ignored.
	AssumeCenterIfUnmatched bool
	// Logger receives debug events such as ratio locks. Nil discards them.
	Logger *slog.Logger
}

// DefaultOptions returns the stock touch and snap radii.
func DefaultOptions() Options {
	return Options{
		HandleRadius:            24,
		SnapRadius:              3,
		AssumeCenterIfUnmatched: true,
	}
}

// Validate rejects negative or non-finite radii.
func (o Options) Validate() error {
	if !(o.HandleRadius >= 0) || math.IsInf(o.HandleRadius, 0) {
		return &geom.ConfigError{Field: "handle_radius", Value: o.HandleRadius}
	}
	if !(o.SnapRadius >= 0) || math.IsInf(o.SnapRadius, 0) {
		return &geom.ConfigError{Field: "snap_radius", Value: o.SnapRadius}
	}
	return nil
}

// DragState is the gesture in progress: the pressed control point and the
// offset added to every move so the handle does not jump onto the touch.
type DragState struct {
	ControlPoint handle.ControlPoint `json:"control_point"`
	Offset       geom.Point          `json:"offset"`
}

// Engine is the crop rectangle state machine. It is not safe for concurrent use.
type Engine struct {
	opts   Options
	log    *slog.Logger
	image  geom.Rect
	frame  *frame.Frame
	ratio  aspect.Ratio
	locked bool
	drag   *DragState
}

// New returns an engine whose rectangle is inset InitialInset inside imageRect.
func New(imageRect geom.Rect, opts Options) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := geom.CheckImageRect(imageRect); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	e := &Engine{
		opts:  opts,
		log:   logger,
		image: imageRect,
		frame: frame.New(imageRect),
		ratio: aspect.Free,
	}
	e.Reset()
	return e, nil
}

// SetImageRect replaces the bounding image rect and re-initializes the rectangle.
// A drag in progress is dropped.
func (e *Engine) SetImageRect(r geom.Rect) error {
	if err := geom.CheckImageRect(r); err != nil {
		return err
	}
	e.image = r
	e.Reset()
	return nil
}

// Reset re-initializes the rectangle inside the current image rect, fitted to
// the locked ratio if there is one, and clears any drag.
func (e *Engine) Reset() {
	r := e.image.Inset(InitialInset, InitialInset)
	if e.locked {
		r = e.ratio.Fit(r)
	}
	e.frame.SetRect(r)
	e.drag = nil
}

// SetAspectRatio locks the rectangle to width/height = v and re-fits it.
func (e *Engine) SetAspectRatio(v float64) error {
	r, err := aspect.New(v)
	if err != nil {
		return err
	}
	e.ratio = r
	e.locked = true
	e.Reset()
	e.log.Debug("aspect ratio locked", "ratio", v)
	return nil
}

// ClearAspectRatio returns to free-form dragging. The rectangle is kept.
func (e *Engine) ClearAspectRatio() {
	e.ratio = aspect.Free
	e.locked = false
}

// AspectRatio returns the locked ratio, if any.
func (e *Engine) AspectRatio() (aspect.Ratio, bool) {
	return e.ratio, e.locked
}

// Options returns the options the engine was built with.
func (e *Engine) Options() Options {
	return e.opts
}

// Press starts a drag at (x, y). It returns the activated control point, or
// false when nothing was hit.
func (e *Engine) Press(x, y float64) (handle.ControlPoint, bool) {
	touch := geom.Point{X: x, Y: y}
	if !touch.Finite() {
		return 0, false
	}
	rect := e.frame.Rect()
	cp, ok := handle.Resolve(touch, rect, e.opts.HandleRadius, e.opts.AssumeCenterIfUnmatched)
	if !ok {
		e.drag = nil
		return 0, false
	}
	e.drag = &DragState{ControlPoint: cp, Offset: handle.PressOffset(cp, touch, rect)}
	return cp, true
}

// Move continues the drag with a touch at (x, y). It reports whether the
// rectangle was updated; without an active drag, or with a non-finite touch,
// nothing happens.
func (e *Engine) Move(x, y float64) bool {
	if e.drag == nil {
		return false
	}
	touch := geom.Point{X: x, Y: y}
	if !touch.Finite() {
		return false
	}
	in := handler.Input{
		Point:      touch.Add(e.drag.Offset),
		Image:      e.image,
		SnapRadius: e.opts.SnapRadius,
		Ratio:      e.ratio,
		Locked:     e.locked,
	}
	if handler.Dispatch(handler.For(e.drag.ControlPoint), e.frame, in) {
		e.log.Debug("crop rectangle collapsed on a crossed axis",
			"control_point", e.drag.ControlPoint.String(),
			"rect", e.frame.Rect(),
		)
	}
	return true
}

// Release ends the drag. It is also used for cancel.
func (e *Engine) Release() {
	e.drag = nil
}

// Drag returns the drag in progress, if any.
func (e *Engine) Drag() (DragState, bool) {
	if e.drag == nil {
		return DragState{}, false
	}
	return *e.drag, true
}

// Rectangle returns the current crop rectangle.
func (e *Engine) Rectangle() geom.Rect {
	return e.frame.Rect()
}

// ImageRect returns the bounding image rect.
func (e *Engine) ImageRect() geom.Rect {
	return e.image
}

// FinalCropRegion maps the current rectangle into source pixels of an image
// with the given natural size drawn through t.
func (e *Engine) FinalCropRegion(natural image.Point, t display.Transform) (image.Rectangle, error) {
	return display.CropRegion(e.frame.Rect(), natural, t)
}
