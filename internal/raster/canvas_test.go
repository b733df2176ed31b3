package raster

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pcbrender/internal/geom"
)

func TestCanvasFillAndPixel(t *testing.T) {
	c := New(10, 10, 100, geom.Zero, false)
	c.Fill(color.RGBA{R: 10, G: 20, B: 30, A: 255})
	got := c.rgba()
	i := got.PixOffset(5, 5)
	assert.Equal(t, byte(10), got.Pix[i])
	assert.Equal(t, byte(20), got.Pix[i+1])
	assert.Equal(t, byte(30), got.Pix[i+2])
	assert.Equal(t, byte(255), got.Pix[i+3])
}

func TestCanvasComposeOnOver(t *testing.T) {
	dst := New(10, 10, 100, geom.Zero, false)
	dst.Fill(color.RGBA{R: 0, G: 0, B: 0, A: 255})

	src := New(10, 10, 100, geom.Zero, false)
	src.Fill(color.RGBA{R: 255, G: 0, B: 0, A: 255})

	require.NoError(t, src.ComposeOnto(dst, OpOver))
	got := dst.rgba()
	i := got.PixOffset(5, 5)
	assert.Equal(t, byte(255), got.Pix[i])
	assert.Equal(t, byte(0), got.Pix[i+1])
}

func TestCanvasComposeOntoRejectsMismatchedDPI(t *testing.T) {
	dst := New(10, 10, 100, geom.Zero, false)
	src := New(10, 10, 200, geom.Zero, false)
	err := src.ComposeOnto(dst, OpOver)
	require.Error(t, err)
}

func TestAlphaPolarizeThresholds(t *testing.T) {
	c := New(1, 1, 100, geom.Zero, false)
	c.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 20})
	c.AlphaPolarize(30)
	got := c.rgba()
	i := got.PixOffset(0, 0)
	assert.Equal(t, byte(0), got.Pix[i+3])

	c2 := New(1, 1, 100, geom.Zero, false)
	c2.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 200})
	c2.AlphaPolarize(30)
	got2 := c2.rgba()
	i2 := got2.PixOffset(0, 0)
	assert.Equal(t, byte(255), got2.Pix[i2+3])
}

func TestCanvasWorldToPixelInvertY(t *testing.T) {
	c := New(100, 100, 100, geom.Zero, true)
	p := c.worldToPixel(geom.Vec2{X: 0, Y: 0})
	assert.InDelta(t, 100, p.Y, 1e-9)
}

func TestScratchMatchesDimensions(t *testing.T) {
	c := New(20, 30, 50, geom.Vec2{X: 5, Y: 5}, true)
	s := c.Scratch()
	assert.Equal(t, c.Width(), s.Width())
	assert.Equal(t, c.Height(), s.Height())
	assert.Equal(t, c.DPI(), s.DPI())
	assert.Equal(t, c.Offset(), s.Offset())
}
