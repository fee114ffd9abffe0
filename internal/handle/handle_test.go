package handle

import (
	"encoding/json"
	"testing"

	"github.com/frudas24/cropslice/internal/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rect = geom.R(100, 80, 900, 720)

// TestResolve_Corners verifies each corner is picked within the radius.
func TestResolve_Corners(t *testing.T) {
	cases := map[geom.Point]ControlPoint{
		{X: 110, Y: 90}:  TopLeft,
		{X: 890, Y: 70}:  TopRight,
		{X: 95, Y: 730}:  BottomLeft,
		{X: 920, Y: 720}: BottomRight,
		{X: 100, Y: 104}: TopLeft,
		{X: 876, Y: 720}: BottomRight,
	}
	for p, want := range cases {
		got, ok := Resolve(p, rect, 24, true)
		require.True(t, ok)
		assert.Equal(t, want, got, "touch %+v", p)
	}
}

// TestResolve_CornerBeatsEdge verifies a touch in range of both a corner and an edge band picks the corner.
func TestResolve_CornerBeatsEdge(t *testing.T) {
	// (115, 80) is on the Top band and 15px from TopLeft.
	got, ok := Resolve(geom.Point{X: 115, Y: 80}, rect, 24, false)
	require.True(t, ok)
	assert.Equal(t, TopLeft, got)
}

// TestResolve_CornerTieKeepsFirst verifies equal distances keep the earlier corner.
func TestResolve_CornerTieKeepsFirst(t *testing.T) {
	small := geom.R(0, 0, 20, 20)
	got, ok := Resolve(geom.Point{X: 10, Y: 10}, small, 24, false)
	require.True(t, ok)
	assert.Equal(t, TopLeft, got)
}

// TestResolve_Edges verifies each edge band.
func TestResolve_Edges(t *testing.T) {
	cases := map[geom.Point]ControlPoint{
		{X: 500, Y: 60}:  Top,
		{X: 500, Y: 744}: Bottom,
		{X: 80, Y: 400}:  Left,
		{X: 924, Y: 400}: Right,
	}
	for p, want := range cases {
		got, ok := Resolve(p, rect, 24, false)
		require.True(t, ok)
		assert.Equal(t, want, got, "touch %+v", p)
	}
}

// TestResolve_EdgePriority verifies Top wins over Bottom when the rectangle is thin.
func TestResolve_EdgePriority(t *testing.T) {
	thin := geom.R(0, 100, 400, 110)
	got, ok := Resolve(geom.Point{X: 200, Y: 105}, thin, 24, false)
	require.True(t, ok)
	assert.Equal(t, Top, got)
}

// TestResolve_Inside verifies an interior touch away from handles resolves to Center.
func TestResolve_Inside(t *testing.T) {
	got, ok := Resolve(geom.Point{X: 500, Y: 400}, rect, 24, false)
	require.True(t, ok)
	assert.Equal(t, Center, got)
}

// TestResolve_OutsideFallback verifies the unmatched fallback honours assumeCenter.
func TestResolve_OutsideFallback(t *testing.T) {
	far := geom.Point{X: 990, Y: 10}
	got, ok := Resolve(far, rect, 24, true)
	require.True(t, ok)
	assert.Equal(t, Center, got)

	_, ok = Resolve(far, rect, 24, false)
	assert.False(t, ok)
}

// TestPressOffset verifies the anchor minus touch rule for every control point.
func TestPressOffset(t *testing.T) {
	touch := geom.Point{X: 110, Y: 90}
	cases := map[ControlPoint]geom.Point{
		TopLeft:     {X: -10, Y: -10},
		TopRight:    {X: 790, Y: -10},
		BottomLeft:  {X: -10, Y: 630},
		BottomRight: {X: 790, Y: 630},
		Left:        {X: -10},
		Top:         {Y: -10},
		Right:       {X: 790},
		Bottom:      {Y: 630},
		Center:      {X: 390, Y: 310},
	}
	for cp, want := range cases {
		assert.Equal(t, want, PressOffset(cp, touch, rect), cp.String())
	}
}

// TestControlPointNames verifies the names round trip through text encoding.
func TestControlPointNames(t *testing.T) {
	for _, cp := range All {
		got, err := ParseControlPoint(cp.String())
		require.NoError(t, err)
		assert.Equal(t, cp, got)
	}
	_, err := ParseControlPoint("middle")
	assert.Error(t, err)
	assert.Equal(t, "unknown", ControlPoint(42).String())

	b, err := json.Marshal(struct {
		CP ControlPoint `json:"cp"`
	}{BottomRight})
	require.NoError(t, err)
	assert.JSONEq(t, `{"cp":"bottom_right"}`, string(b))
}

// TestIsCorner verifies only the four corners report true.
func TestIsCorner(t *testing.T) {
	assert.True(t, BottomRight.IsCorner())
	assert.False(t, Left.IsCorner())
	assert.False(t, Center.IsCorner())
}
