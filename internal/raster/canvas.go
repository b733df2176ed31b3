// Package raster implements the abstract 2-D raster surface that the
// Gerber/Excellon sinks draw into, and the small aperture-shaped
// canvases stamped along a trajectory to render a stroke.
//
// The surface itself is backed by github.com/gogpu/gg, a pure-Go 2-D
// graphics context providing ARGB pixmaps, an affine transform stack,
// antialiased path fills, and PNG encoding. gogpu/gg does not expose
// Porter-Duff compositing between two independent contexts (that is a
// cairo-specific operator concept the original renderer leaned on), so
// Canvas implements compose_onto/alpha_polarize directly against the
// *image.RGBA buffer gg.Context.Image() exposes.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/gogpu/gg"

	"pcbrender/internal/geom"
)

// Operator names the compositing operators a Canvas can blend with,
// mirroring the Porter-Duff operator names gogpu/gg's scene package
// enumerates (BlendSourceOver, BlendXor, BlendSourceIn, …).
type Operator string

const (
	OpOver     Operator = "over"
	OpXor      Operator = "xor"
	OpMultiply Operator = "multiply"
	OpIn       Operator = "in"
	OpOut      Operator = "out"
	OpDestIn   Operator = "dest-in"
	OpDestOut  Operator = "dest-out"
)

// Canvas is an ARGB raster surface with a world-coordinate offset (in
// pixels) and a DPI, matching spec.md §3's Canvas invariants: offset +
// dimensions yields the top-right world point, and composing two
// canvases requires equal DPI.
type Canvas struct {
	ctx      *gg.Context
	dpi      float64
	offset   geom.Vec2 // pixels
	invertY  bool
	widthPx  int
	heightPx int
}

// New allocates a canvas of the given pixel dimensions at dpi, with
// offset (in pixels) locating the world-coordinate origin of the
// image. invertY accounts for the PCB Y-up / image Y-down convention.
func New(widthPx, heightPx int, dpi float64, offsetPx geom.Vec2, invertY bool) *Canvas {
	if widthPx < 1 {
		widthPx = 1
	}
	if heightPx < 1 {
		heightPx = 1
	}
	ctx := gg.NewContext(widthPx, heightPx)
	c := &Canvas{ctx: ctx, dpi: dpi, offset: offsetPx, invertY: invertY, widthPx: widthPx, heightPx: heightPx}
	c.applyTransform()
	return c
}

// Scratch allocates a new, fully transparent canvas with the same
// dimensions, DPI, offset and Y-convention as c. Used to fill a region
// path in isolation before compositing it onto a target with a
// polarity-dependent operator.
func (c *Canvas) Scratch() *Canvas {
	return New(c.widthPx, c.heightPx, c.dpi, c.offset, c.invertY)
}

// NewInches is a convenience constructor taking dimensions and offset
// in inches, converted to pixels by the given DPI.
func NewInches(dimsIn geom.Vec2, dpi float64, offsetIn geom.Vec2, invertY bool) *Canvas {
	w := int(dimsIn.X * dpi)
	h := int(dimsIn.Y * dpi)
	return New(w, h, dpi, offsetIn.Scale(dpi), invertY)
}

// applyTransform sets the world->pixel transform: scale by DPI and
// translate by -offset so world coordinates (inches) can be passed
// directly to drawing calls, and flip Y if the canvas uses the PCB
// Y-up convention. A canvas with zero DPI (an aperture bitmap) is
// drawn in pixel coordinates.
func (c *Canvas) applyTransform() {
	c.ctx.Identity()
	if c.invertY {
		c.ctx.Translate(0, float64(c.heightPx))
		c.ctx.Scale(1, -1)
	}
	c.ctx.Translate(-c.offset.X, -c.offset.Y)
	if c.dpi > 0 {
		c.ctx.Scale(c.dpi, c.dpi)
	}
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int { return c.widthPx }

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int { return c.heightPx }

// DPI returns the canvas resolution.
func (c *Canvas) DPI() float64 { return c.dpi }

// Offset returns the pixel offset of the world-coordinate origin.
func (c *Canvas) Offset() geom.Vec2 { return c.offset }

// Dimensions returns the canvas size, in pixels, as a Vec2.
func (c *Canvas) Dimensions() geom.Vec2 {
	return geom.Vec2{X: float64(c.widthPx), Y: float64(c.heightPx)}
}

// Context exposes the underlying drawing context for drawing
// primitives (used by RasterSink's path filler and ApertureRenderer).
func (c *Canvas) Context() *gg.Context { return c.ctx }

// rgba returns the canvas's backing *image.RGBA, flushing any pending
// GPU-accelerated draws first.
func (c *Canvas) rgba() *image.RGBA {
	img := c.ctx.Image()
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	// Fall back to a defensive copy if the backend ever returns a
	// different concrete image type.
	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, img, bounds.Min, draw.Src)
	return out
}

// Fill floods the entire canvas with a solid color.
func (c *Canvas) Fill(col color.Color) {
	r, g, b, a := col.RGBA()
	rgba := c.rgba()
	solid := color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
	draw.Draw(rgba, rgba.Bounds(), &image.Uniform{C: solid}, image.Point{}, draw.Src)
	c.replaceBacking(rgba)
}

// StampOn paints this canvas, centered at worldPoint (in the
// destination's world coordinates, inches), onto dst using op (OpOver
// for normal dark-polarity drawing, OpXor for the approximate
// clear-polarity policy described in DESIGN.md).
func (c *Canvas) StampOn(dst *Canvas, worldPoint geom.Vec2, op Operator) {
	src := c.rgba()
	half := geom.Vec2{X: float64(src.Bounds().Dx()) / 2, Y: float64(src.Bounds().Dy()) / 2}

	center := dst.worldToPixel(worldPoint)
	origin := image.Point{
		X: int(center.X - half.X),
		Y: int(center.Y - half.Y),
	}
	destRGBA := dst.rgba()
	composite(destRGBA, src, origin, op)
	dst.replaceBacking(destRGBA)
}

// worldToPixel maps a world-coordinate point (inches) to this
// canvas's pixel space, honoring DPI, offset and Y inversion.
func (c *Canvas) worldToPixel(worldPoint geom.Vec2) geom.Vec2 {
	px := worldPoint.Scale(c.dpi).Sub(c.offset)
	if c.invertY {
		px.Y = float64(c.heightPx) - px.Y
	}
	return px
}

// topLeftWorld returns the world-coordinate point that maps to this
// canvas's pixel (0, 0) (its top-left corner), the inverse of
// worldToPixel at the origin.
func (c *Canvas) topLeftWorld() geom.Vec2 {
	if c.invertY {
		return geom.Vec2{X: c.offset.X, Y: c.offset.Y + float64(c.heightPx)}.Div(c.dpi)
	}
	return c.offset.Div(c.dpi)
}

// ComposeOnto blends this entire canvas onto dst using the named
// compositing operator. Both canvases must share a DPI and Y
// convention so that world coordinates line up pixel-for-pixel.
func (c *Canvas) ComposeOnto(dst *Canvas, op Operator) error {
	if c.dpi != dst.dpi {
		return fmt.Errorf("raster: cannot compose canvases with differing DPI (%v vs %v)", c.dpi, dst.dpi)
	}
	src := c.rgba()
	dest := dst.rgba()

	topLeft := dst.worldToPixel(c.topLeftWorld())
	origin := image.Point{X: int(topLeft.X), Y: int(topLeft.Y)}

	composite(dest, src, origin, op)
	dst.replaceBacking(dest)
	return nil
}

// replaceBacking swaps the canvas's drawing context for one backed by
// the given pixel buffer, preserving the world transform.
func (c *Canvas) replaceBacking(img *image.RGBA) {
	c.ctx = gg.NewContextForImage(img)
	c.applyTransform()
}

// AlphaPolarize thresholds the alpha channel: pixels with alpha above
// threshold become fully opaque, others become fully transparent
// black. Used to clean up antialiasing fringes after Clear-polarity
// rendering via XOR composition.
func (c *Canvas) AlphaPolarize(threshold uint8) {
	img := c.rgba()
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := img.PixOffset(x, y)
			if img.Pix[i+3] > threshold {
				img.Pix[i+3] = 0xff
			} else {
				img.Pix[i+0] = 0
				img.Pix[i+1] = 0
				img.Pix[i+2] = 0
				img.Pix[i+3] = 0
			}
		}
	}
	c.replaceBacking(img)
}

// ExportPNG writes the canvas to path as a PNG file.
func (c *Canvas) ExportPNG(path string) error {
	if err := c.ctx.SavePNG(path); err != nil {
		return fmt.Errorf("raster: export png %s: %w", path, err)
	}
	return nil
}
