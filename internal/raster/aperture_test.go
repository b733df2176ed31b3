package raster

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"

	"pcbrender/internal/geom"
)

func TestStandardApertureExtents(t *testing.T) {
	circ := StandardAperture{Kind: Circle, Width: 0.02}
	assert.Equal(t, geom.Vec2{X: 0.02, Y: 0.02}, circ.PhysicalExtents())

	rect := StandardAperture{Kind: Rectangle, Width: 0.01, Height: 0.03}
	assert.Equal(t, geom.Vec2{X: 0.01, Y: 0.03}, rect.PhysicalExtents())
}

func TestRenderStandardCircleProducesOpaquePixels(t *testing.T) {
	a := StandardAperture{Kind: Circle, Width: 0.01}
	canvas := RenderStandard(a, 1000, color.Black)
	img := canvas.rgba()
	mid := img.Bounds().Dx() / 2
	i := img.PixOffset(mid, mid)
	assert.Equal(t, byte(255), img.Pix[i+3], "aperture center should be fully opaque")
}

func TestRenderStandardRectangleDimensions(t *testing.T) {
	a := StandardAperture{Kind: Rectangle, Width: 0.02, Height: 0.01}
	canvas := RenderStandard(a, 1000, color.Black)
	assert.GreaterOrEqual(t, canvas.Width(), 20)
	assert.GreaterOrEqual(t, canvas.Height(), 10)
}
