// Package script replays recorded crop gestures from YAML files without a
// client attached.
package script

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/frudas24/cropslice/internal/display"
	"github.com/frudas24/cropslice/internal/engine"
	"github.com/frudas24/cropslice/internal/geom"
)

// Step operations.
const (
	OpPress   = "press"
	OpMove    = "move"
	OpRelease = "release"
	OpRatio   = "ratio"
	OpReset   = "reset"
)

// View is the size of the surface the gestures were recorded on.
type View struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Step is one recorded event. Ratio is only read by OpRatio; nil unlocks.
type Step struct {
	Op    string   `yaml:"op"`
	X     float64  `yaml:"x"`
	Y     float64  `yaml:"y"`
	Ratio *float64 `yaml:"ratio"`
}

// Script is a parsed gesture file.
type Script struct {
	View         View       `yaml:"view"`
	ImageRect    *geom.Rect `yaml:"image_rect"`
	AspectRatio  *float64   `yaml:"aspect_ratio"`
	AssumeCenter *bool      `yaml:"assume_center"`
	HandleRadius *float64   `yaml:"handle_radius"`
	SnapRadius   *float64   `yaml:"snap_radius"`
	Steps        []Step     `yaml:"steps"`
}

// Trace records the rectangle after one step.
type Trace struct {
	Index        int       `json:"index" yaml:"index"`
	Op           string    `json:"op" yaml:"op"`
	Rect         geom.Rect `json:"rect" yaml:"rect"`
	ControlPoint string    `json:"control_point,omitempty" yaml:"control_point,omitempty"`
	Changed      bool      `json:"changed" yaml:"changed"`
}

// Result is the outcome of a replay.
type Result struct {
	ImageRect geom.Rect        `json:"image_rect" yaml:"image_rect"`
	Final     geom.Rect        `json:"final" yaml:"final"`
	Viewport  display.Viewport `json:"viewport" yaml:"viewport"`
	Region    image.Rectangle  `json:"region" yaml:"region"`
	Trace     []Trace          `json:"trace" yaml:"trace"`
}

// Load reads and parses a script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a script.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the view and every step op.
func (s *Script) Validate() error {
	if s.View.Width <= 0 || s.View.Height <= 0 {
		return fmt.Errorf("view: width and height must be positive, got %dx%d", s.View.Width, s.View.Height)
	}
	if len(s.Steps) == 0 {
		return errors.New("steps: script has no steps")
	}
	for i, st := range s.Steps {
		switch st.Op {
		case OpPress, OpMove, OpRelease, OpRatio, OpReset:
		default:
			return fmt.Errorf("steps[%d]: unknown op %q", i, st.Op)
		}
	}
	return nil
}

// Options returns the engine options the script asks for.
func (s *Script) Options() engine.Options {
	opts := engine.DefaultOptions()
	if s.AssumeCenter != nil {
		opts.AssumeCenterIfUnmatched = *s.AssumeCenter
	}
	if s.HandleRadius != nil {
		opts.HandleRadius = *s.HandleRadius
	}
	if s.SnapRadius != nil {
		opts.SnapRadius = *s.SnapRadius
	}
	return opts
}

// Run replays s. natural is the source image size; a zero value replays over
// a blank image the size of the view. An explicit image_rect overrides the
// fitted one.
func Run(s *Script, natural image.Point, logger *slog.Logger) (Result, error) {
	if natural == (image.Point{}) {
		natural = image.Pt(s.View.Width, s.View.Height)
	}
	vp, err := display.Fit(natural, s.View.Width, s.View.Height)
	if err != nil {
		return Result{}, err
	}
	imageRect := vp.ImageRect(natural)
	if s.ImageRect != nil {
		imageRect = *s.ImageRect
	}

	opts := s.Options()
	opts.Logger = logger
	e, err := engine.New(imageRect, opts)
	if err != nil {
		return Result{}, err
	}
	if s.AspectRatio != nil {
		if err := e.SetAspectRatio(*s.AspectRatio); err != nil {
			return Result{}, err
		}
	}

	res := Result{ImageRect: imageRect, Viewport: vp, Trace: make([]Trace, 0, len(s.Steps))}
	for i, st := range s.Steps {
		tr := Trace{Index: i, Op: st.Op}
		before := e.Rectangle()
		switch st.Op {
		case OpPress:
			if cp, ok := e.Press(st.X, st.Y); ok {
				tr.ControlPoint = cp.String()
			}
		case OpMove:
			e.Move(st.X, st.Y)
			if d, ok := e.Drag(); ok {
				tr.ControlPoint = d.ControlPoint.String()
			}
		case OpRelease:
			e.Release()
		case OpRatio:
			if st.Ratio == nil {
				e.ClearAspectRatio()
			} else if err := e.SetAspectRatio(*st.Ratio); err != nil {
				return res, fmt.Errorf("steps[%d]: %w", i, err)
			}
		case OpReset:
			e.Reset()
		}
		tr.Rect = e.Rectangle()
		tr.Changed = tr.Rect != before
		res.Trace = append(res.Trace, tr)
	}

	res.Final = e.Rectangle()
	region, err := e.FinalCropRegion(natural, vp.Transform)
	if err != nil {
		return res, err
	}
	res.Region = region
	return res, nil
}
