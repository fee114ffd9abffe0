package script

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frudas24/cropslice/internal/geom"
)

const topLeftDrag = `
view: {width: 1000, height: 800}
steps:
  - {op: press, x: 100, y: 80}
  - {op: move, x: 50, y: 40}
  - {op: release}
`

// TestParse_Valid verifies a script decodes with its steps in order.
func TestParse_Valid(t *testing.T) {
	s, err := Parse([]byte(topLeftDrag))
	require.NoError(t, err)
	assert.Equal(t, View{Width: 1000, Height: 800}, s.View)
	require.Len(t, s.Steps, 3)
	assert.Equal(t, Step{Op: OpMove, X: 50, Y: 40}, s.Steps[1])
	assert.True(t, s.Options().AssumeCenterIfUnmatched)
}

// TestParse_Invalid verifies bad documents are rejected with the offending key.
func TestParse_Invalid(t *testing.T) {
	cases := map[string]string{
		"view":      "view: {width: 0, height: 10}\nsteps: [{op: reset}]",
		"no steps":  "view: {width: 10, height: 10}",
		"steps[0]":  "view: {width: 10, height: 10}\nsteps: [{op: jump}]",
		"malformed": "view: [",
	}
	for name, doc := range cases {
		_, err := Parse([]byte(doc))
		assert.Error(t, err, name)
	}
	_, err := Parse([]byte(cases["steps[0]"]))
	assert.ErrorContains(t, err, "steps[0]")
}

// TestOptions verifies script overrides reach the engine options.
func TestOptions(t *testing.T) {
	s, err := Parse([]byte("view: {width: 10, height: 10}\nassume_center: false\nhandle_radius: 12\nsnap_radius: 0\nsteps: [{op: reset}]"))
	require.NoError(t, err)
	opts := s.Options()
	assert.False(t, opts.AssumeCenterIfUnmatched)
	assert.Equal(t, 12.0, opts.HandleRadius)
	assert.Equal(t, 0.0, opts.SnapRadius)
}

// TestRun_TopLeftDrag verifies the trace and final rectangle of a free-form drag.
func TestRun_TopLeftDrag(t *testing.T) {
	s, err := Parse([]byte(topLeftDrag))
	require.NoError(t, err)

	res, err := Run(s, image.Point{}, nil)
	require.NoError(t, err)
	assert.Equal(t, geom.R(0, 0, 1000, 800), res.ImageRect)
	assert.Equal(t, geom.R(50, 40, 900, 720), res.Final)
	assert.Equal(t, image.Rect(50, 40, 900, 720), res.Region)

	require.Len(t, res.Trace, 3)
	assert.Equal(t, "top_left", res.Trace[0].ControlPoint)
	assert.False(t, res.Trace[0].Changed)
	assert.True(t, res.Trace[1].Changed)
	assert.Equal(t, "", res.Trace[2].ControlPoint)
}

// TestRun_ScaledImage verifies the final region is mapped back to source pixels.
func TestRun_ScaledImage(t *testing.T) {
	s, err := Parse([]byte(topLeftDrag))
	require.NoError(t, err)

	res, err := Run(s, image.Pt(2000, 1600), nil)
	require.NoError(t, err)
	assert.Equal(t, geom.R(50, 40, 900, 720), res.Final)
	assert.Equal(t, image.Rect(100, 80, 1800, 1440), res.Region)
}

// TestLoadRun_SquareRatio verifies a locked right-edge drag from a file keeps the square.
func TestLoadRun_SquareRatio(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "square_right.yaml"))
	require.NoError(t, err)

	res, err := Run(s, image.Point{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "right", res.Trace[0].ControlPoint)
	assert.Equal(t, geom.R(180, 40, 900, 760), res.Final)
	assert.InDelta(t, res.Final.Width(), res.Final.Height(), 1e-9)
}

// TestRun_RatioSteps verifies ratio steps lock, unlock, and reject bad values.
func TestRun_RatioSteps(t *testing.T) {
	s, err := Parse([]byte(`
view: {width: 1000, height: 800}
steps:
  - {op: ratio, ratio: 1}
  - {op: ratio, ratio: null}
  - {op: reset}
`))
	require.NoError(t, err)
	res, err := Run(s, image.Point{}, nil)
	require.NoError(t, err)
	assert.Equal(t, geom.R(180, 80, 820, 720), res.Trace[0].Rect)
	assert.True(t, res.Trace[0].Changed)
	assert.Equal(t, geom.R(180, 80, 820, 720), res.Trace[1].Rect)
	assert.Equal(t, geom.R(100, 80, 900, 720), res.Final)

	s, err = Parse([]byte("view: {width: 1000, height: 800}\nsteps: [{op: ratio, ratio: -1}]"))
	require.NoError(t, err)
	_, err = Run(s, image.Point{}, nil)
	assert.ErrorIs(t, err, geom.ErrInvalidConfig)
}

// TestLoad_Missing verifies read errors name the path.
func TestLoad_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.yaml")
	_, err := Load(path)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.ErrorContains(t, err, path)
}
