package sink

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pcbrender/internal/geom"
	"pcbrender/internal/raster"
)

type fakeAperture struct {
	half geom.Vec2
}

func (f fakeAperture) HalfExtents() geom.Vec2 { return f.half }
func (f fakeAperture) Render(dpi float64, col color.Color) *raster.Canvas {
	return raster.RenderStandard(raster.StandardAperture{Kind: raster.Circle, Width: f.half.X * 2}, dpi, col)
}

func TestExtentsSinkNoPointsUntilDrawn(t *testing.T) {
	e := NewExtentsSink()
	_, ok := e.MinPt()
	assert.False(t, ok)
}

func TestExtentsSinkPadsByAperture(t *testing.T) {
	e := NewExtentsSink()
	e.SelectAperture(fakeAperture{half: geom.Vec2{X: 0.01, Y: 0.01}})
	e.Line(geom.Vec2{X: 0, Y: 0}, geom.Vec2{X: 1, Y: 0})

	min, ok := e.MinPt()
	require.True(t, ok)
	max, _ := e.MaxPt()

	assert.InDelta(t, -0.01, min.X, 1e-9)
	assert.InDelta(t, -0.01, min.Y, 1e-9)
	assert.InDelta(t, 1.01, max.X, 1e-9)
	assert.InDelta(t, 0.01, max.Y, 1e-9)
}

func TestExtentsSinkRegionUsesZeroPad(t *testing.T) {
	e := NewExtentsSink()
	e.SelectAperture(fakeAperture{half: geom.Vec2{X: 0.05, Y: 0.05}})
	e.BeginPath()
	e.RegionMove(geom.Vec2{X: 0, Y: 0})
	e.RegionLine(geom.Vec2{X: 1, Y: 1})
	e.EndPath()

	min, ok := e.MinPt()
	require.True(t, ok)
	max, _ := e.MaxPt()
	assert.InDelta(t, 0, min.X, 1e-9)
	assert.InDelta(t, 0, min.Y, 1e-9)
	assert.InDelta(t, 1, max.X, 1e-9)
	assert.InDelta(t, 1, max.Y, 1e-9)
}

func TestExtentsSinkDrillToolPad(t *testing.T) {
	e := NewExtentsSink()
	e.SwitchDrillTool(0.04)
	e.Drill(geom.Vec2{X: 2, Y: 2})
	min, _ := e.MinPt()
	max, _ := e.MaxPt()
	assert.InDelta(t, 1.98, min.X, 1e-9)
	assert.InDelta(t, 2.02, max.X, 1e-9)
}
