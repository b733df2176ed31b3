package raster

import (
	"image/color"
	"math"

	"pcbrender/internal/geom"
)

// ApertureKind is the tag of an ApertureDefinition's standard-template
// variant. Macro apertures carry their own representation (see
// gerber.Macro) and are rendered by gerber.ApertureDefinition.Render.
type ApertureKind int

const (
	Circle ApertureKind = iota
	Rectangle
	Obround
)

// StandardAperture is a non-macro aperture definition: one of circle
// (diameter), rectangle or obround (width, height), all in inches.
type StandardAperture struct {
	Kind   ApertureKind
	Width  float64 // diameter, for Kind == Circle
	Height float64 // unused for Kind == Circle
}

// PhysicalExtents returns the bounding rectangle of the aperture, in
// inches, without rasterizing it.
func (a StandardAperture) PhysicalExtents() geom.Vec2 {
	if a.Kind == Circle {
		return geom.Vec2{X: a.Width, Y: a.Width}
	}
	return geom.Vec2{X: a.Width, Y: a.Height}
}

// RenderStandard produces a small Canvas depicting a, filled with
// col, at the given dpi. Canvas dimensions always comfortably contain
// the shape so stamping never clips it.
func RenderStandard(a StandardAperture, dpi float64, col color.Color) *Canvas {
	switch a.Kind {
	case Circle:
		return renderCircular(a.Width/2*dpi, col)
	case Rectangle:
		return renderRectangular(a.Width*dpi, a.Height*dpi, col)
	case Obround:
		return renderObround(a.Width*dpi, a.Height*dpi, col)
	default:
		return renderCircular(0.001/2*dpi, col)
	}
}

func renderCircular(radiusPx float64, col color.Color) *Canvas {
	size := 2*math.Ceil(radiusPx) + 4
	c := New(int(size), int(size), 0, geom.Zero, false)
	mid := size / 2
	ctx := c.Context()
	ctx.SetColor(col)
	ctx.DrawCircle(mid, mid, radiusPx)
	ctx.Fill()
	return c
}

func renderRectangular(widthPx, heightPx float64, col color.Color) *Canvas {
	c := New(int(math.Ceil(widthPx)), int(math.Ceil(heightPx)), 0, geom.Zero, false)
	ctx := c.Context()
	ctx.SetColor(col)
	ctx.DrawRectangle(0, 0, widthPx, heightPx)
	ctx.Fill()
	return c
}

func renderObround(widthPx, heightPx float64, col color.Color) *Canvas {
	radius := math.Min(widthPx, heightPx) / 2
	const padding = 1.0
	w := math.Ceil(widthPx) + 2*padding
	h := math.Ceil(heightPx) + 2*padding
	c := New(int(w), int(h), 0, geom.Zero, false)
	ctx := c.Context()
	ctx.SetColor(col)
	if heightPx < widthPx {
		// Horizontal obround: rectangle body plus two semicircular caps.
		ctx.DrawRectangle(radius+padding, padding, widthPx-2*radius, heightPx)
		ctx.Fill()
		ctx.DrawCircle(widthPx-radius+padding, radius+padding, radius)
		ctx.Fill()
	} else {
		// Vertical obround.
		ctx.DrawRectangle(padding, radius+padding, widthPx, heightPx-2*radius)
		ctx.Fill()
		ctx.DrawCircle(radius+padding, padding+heightPx-radius, radius)
		ctx.Fill()
	}
	ctx.DrawCircle(radius+padding, radius+padding, radius)
	ctx.Fill()
	return c
}

// RenderMacroPlaceholder renders the not-implemented fallback for
// aperture macro kinds the renderer does not fully evaluate: a small
// filled circle, matching the original implementation's "TODO: NOT
// IMPLEMENTED" placeholder (ApertureRenderer.from_macro_definition).
func RenderMacroPlaceholder(col color.Color) *Canvas {
	return renderCircular(5, col)
}

// MissingApertureDiameterIn is substituted when a D-code selects an
// aperture that was never defined (spec.md §4.8 "Missing aperture
// selected").
const MissingApertureDiameterIn = 0.001
