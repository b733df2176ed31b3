package sink

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"

	"pcbrender/internal/geom"
	"pcbrender/internal/raster"
)

func TestRasterSinkFlashStampsAperture(t *testing.T) {
	canvas := raster.NewInches(geom.Vec2{X: 0.2, Y: 0.2}, 1000, geom.Vec2{X: -0.1, Y: -0.1}, false)
	r := NewRasterSink(canvas, color.Black)
	r.SelectAperture(fakeAperture{half: geom.Vec2{X: 0.01, Y: 0.01}})
	r.FlashAt(geom.Vec2{X: 0, Y: 0})

	img := canvas.Context().Image()
	_, _, _, a := img.At(100, 100).RGBA()
	assert.Greater(t, a, uint32(0), "flash should have painted near the canvas center")
}

func TestRasterSinkRegionFillsClosedPath(t *testing.T) {
	canvas := raster.NewInches(geom.Vec2{X: 1, Y: 1}, 100, geom.Zero, false)
	r := NewRasterSink(canvas, color.Black)
	r.BeginPath()
	r.RegionMove(geom.Vec2{X: 0.1, Y: 0.1})
	r.RegionLine(geom.Vec2{X: 0.9, Y: 0.1})
	r.RegionLine(geom.Vec2{X: 0.9, Y: 0.9})
	r.RegionLine(geom.Vec2{X: 0.1, Y: 0.9})
	r.EndPath()

	img := canvas.Context().Image()
	_, _, _, a := img.At(50, 50).RGBA()
	assert.Greater(t, a, uint32(0), "region interior should be filled")
}

func TestRasterSinkDrawModeClearTogglesPolarity(t *testing.T) {
	canvas := raster.NewInches(geom.Vec2{X: 1, Y: 1}, 100, geom.Zero, false)
	r := NewRasterSink(canvas, color.Black)
	assert.Equal(t, raster.OpOver, r.polarity)
	r.DrawModeClear()
	assert.Equal(t, raster.OpXor, r.polarity)
	r.DrawModeDark()
	assert.Equal(t, raster.OpOver, r.polarity)
}
