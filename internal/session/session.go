// Package session holds the crop state shared by the HTTP handlers, the
// control websocket, and the preview renderer.
package session

import (
	"errors"
	"image"
	"sync"

	"github.com/frudas24/cropslice/internal/display"
	"github.com/frudas24/cropslice/internal/engine"
	"github.com/frudas24/cropslice/internal/extract"
	"github.com/frudas24/cropslice/internal/geom"
	"github.com/frudas24/cropslice/internal/handle"
)

// ErrNoImage is returned by Crop when no source image is loaded.
var ErrNoImage = errors.New("no source image loaded")

// State is a read-only view of the crop session, as sent to clients.
type State struct {
	Rect         geom.Rect            `json:"rect"`
	ImageRect    geom.Rect            `json:"image_rect"`
	ControlPoint *handle.ControlPoint `json:"control_point,omitempty"`
	AspectRatio  *float64             `json:"aspect_ratio,omitempty"`
	Overlay      engine.Overlay       `json:"overlay"`
	Viewport     display.Viewport     `json:"viewport"`
	ImageSize    image.Point          `json:"image_size"`
	Region       *image.Rectangle     `json:"region,omitempty"`
}

// Session guards one engine and its source image with a single mutex.
type Session struct {
	mu            sync.Mutex
	password      string
	authenticated bool

	engine   *engine.Engine
	source   image.Image
	natural  image.Point
	viewport display.Viewport
	onChange []func()
}

// New returns a session showing src fitted into a viewW x viewH view. A nil
// src runs the engine over a blank image of the view size.
func New(password string, src image.Image, viewW, viewH int, opts engine.Options) (*Session, error) {
	natural := image.Pt(viewW, viewH)
	if src != nil {
		natural = src.Bounds().Size()
	}
	vp, err := display.Fit(natural, viewW, viewH)
	if err != nil {
		return nil, err
	}
	e, err := engine.New(vp.ImageRect(natural), opts)
	if err != nil {
		return nil, err
	}
	return &Session{
		password: password,
		engine:   e,
		source:   src,
		natural:  natural,
		viewport: vp,
	}, nil
}

// Authenticate validates the password and marks the session as authenticated.
func (s *Session) Authenticate(pass string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated = pass != "" && pass == s.password
	return s.authenticated
}

// Logout clears authentication state.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated = false
}

// IsAuthenticated reports whether the session is authenticated.
func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// OnChange registers fn to run after every mutation, outside the lock.
func (s *Session) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = append(s.onChange, fn)
}

// Press starts a drag. ok is false when no control point was hit.
func (s *Session) Press(x, y float64) (cp handle.ControlPoint, ok bool) {
	s.mutate(func() {
		cp, ok = s.engine.Press(x, y)
	})
	return cp, ok
}

// Move continues the active drag and reports whether the rectangle changed.
func (s *Session) Move(x, y float64) (moved bool) {
	s.mutate(func() {
		moved = s.engine.Move(x, y)
	})
	return moved
}

// Release ends the active drag.
func (s *Session) Release() {
	s.mutate(s.engine.Release)
}

// SetAspectRatio locks the ratio, or returns to free-form when ratio is nil.
func (s *Session) SetAspectRatio(ratio *float64) (err error) {
	s.mutate(func() {
		if ratio == nil {
			s.engine.ClearAspectRatio()
			return
		}
		err = s.engine.SetAspectRatio(*ratio)
	})
	return err
}

// Reset re-initializes the rectangle.
func (s *Session) Reset() {
	s.mutate(s.engine.Reset)
}

// Layout refits the image into a view of w x h and re-initializes the rectangle.
func (s *Session) Layout(w, h int) (err error) {
	s.mutate(func() {
		var vp display.Viewport
		vp, err = display.Fit(s.natural, w, h)
		if err != nil {
			return
		}
		if err = s.engine.SetImageRect(vp.ImageRect(s.natural)); err != nil {
			return
		}
		s.viewport = vp
	})
	return err
}

// Snapshot returns the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// Viewport returns the current view mapping.
func (s *Session) Viewport() display.Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewport
}

// Crop cuts the final region out of the source image.
func (s *Session) Crop() (image.Image, error) {
	s.mu.Lock()
	src := s.source
	region, err := s.engine.FinalCropRegion(s.natural, s.viewport.Transform)
	s.mu.Unlock()
	if src == nil {
		return nil, ErrNoImage
	}
	if err != nil {
		return nil, err
	}
	return extract.Crop(src, region)
}

// Frame returns what the preview should draw. It matches preview.Source.
func (s *Session) Frame() (image.Image, display.Viewport, engine.Overlay, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source, s.viewport, s.engine.Overlay(), true
}

// mutate runs fn under the lock, then the change hooks without it.
func (s *Session) mutate(fn func()) {
	s.mu.Lock()
	fn()
	hooks := append([]func(){}, s.onChange...)
	s.mu.Unlock()
	for _, h := range hooks {
		h()
	}
}

// stateLocked builds the snapshot. The caller holds s.mu.
func (s *Session) stateLocked() State {
	st := State{
		Rect:      s.engine.Rectangle(),
		ImageRect: s.engine.ImageRect(),
		Overlay:   s.engine.Overlay(),
		Viewport:  s.viewport,
		ImageSize: s.natural,
	}
	if d, ok := s.engine.Drag(); ok {
		cp := d.ControlPoint
		st.ControlPoint = &cp
	}
	if r, ok := s.engine.AspectRatio(); ok {
		v := r.Float()
		st.AspectRatio = &v
	}
	if region, err := s.engine.FinalCropRegion(s.natural, s.viewport.Transform); err == nil {
		st.Region = &region
	}
	return st
}
