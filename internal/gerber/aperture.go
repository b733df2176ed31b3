package gerber

import (
	"fmt"
	"image/color"

	"pcbrender/internal/geom"
	"pcbrender/internal/raster"
	"pcbrender/internal/sink"
)

// MacroPrimitiveCode is an aperture macro primitive tag, per RS-274X
// §4.5 and spec.md's ApertureMacroPrimitive. Only Circle and
// CenterLine are rendered; the rest get a placeholder.
type MacroPrimitiveCode int

const (
	MacroComment    MacroPrimitiveCode = 0
	MacroCircle     MacroPrimitiveCode = 1
	MacroOutline    MacroPrimitiveCode = 4
	MacroPolygon    MacroPrimitiveCode = 5
	MacroMoire      MacroPrimitiveCode = 6
	MacroThermal    MacroPrimitiveCode = 7
	MacroVectorLine MacroPrimitiveCode = 20
	MacroCenterLine MacroPrimitiveCode = 21
)

// MacroPrimitive is one line of an aperture macro body: a primitive
// code and its ordered, still-string parameters (arithmetic
// expressions inside aperture macros are out of scope per spec.md's
// Non-goals, so parameters are kept as literal numeric strings).
type MacroPrimitive struct {
	Code   MacroPrimitiveCode
	Params []string
}

// Macro is a named, ordered sequence of macro primitives, created by
// an AM block and later bound to a D-code by an ADD<d><name> command.
type Macro struct {
	Name       string
	Primitives []MacroPrimitive
}

// ApertureKind tags the variant of an ApertureDefinition, the Go
// rendering of spec.md §3's "tagged variant" ApertureDefinition.
type ApertureKind int

const (
	AptCircle ApertureKind = iota
	AptRectangle
	AptObround
	AptMacro
)

// ApertureDefinition is a tagged variant over the four standard-or-
// macro aperture shapes, satisfying sink.Aperture so it can be passed
// straight to a Sink's SelectAperture.
type ApertureDefinition struct {
	Kind ApertureKind

	// Standard (Circle/Rectangle/Obround), inches.
	Width  float64
	Height float64

	// Macro
	Macro *Macro
}

// CircleAperture returns a standard circular aperture of the given
// diameter, in inches. Used both for AD…C definitions and for the
// missing-aperture and drill-tool placeholders.
func CircleAperture(diameterIn float64) ApertureDefinition {
	return ApertureDefinition{Kind: AptCircle, Width: diameterIn, Height: diameterIn}
}

// HalfExtents implements sink.Aperture: physical_extents(def)/2.
func (a ApertureDefinition) HalfExtents() geom.Vec2 {
	switch a.Kind {
	case AptCircle:
		return geom.Vec2{X: a.Width / 2, Y: a.Width / 2}
	case AptRectangle, AptObround:
		return geom.Vec2{X: a.Width / 2, Y: a.Height / 2}
	default: // AptMacro: placeholder extents, matching physical_extents_macro.
		return geom.Vec2{X: 0.05, Y: 0.05}
	}
}

// Render implements sink.Aperture by delegating to the raster package's
// ApertureRenderer port. Macro apertures only evaluate MacroCircle and
// MacroCenterLine for real; anything else falls back to a warned
// placeholder, per spec.md §4.4/§9's accepted floor.
func (a ApertureDefinition) Render(dpi float64, col color.Color) *raster.Canvas {
	switch a.Kind {
	case AptCircle:
		return raster.RenderStandard(raster.StandardAperture{Kind: raster.Circle, Width: a.Width}, dpi, col)
	case AptRectangle:
		return raster.RenderStandard(raster.StandardAperture{Kind: raster.Rectangle, Width: a.Width, Height: a.Height}, dpi, col)
	case AptObround:
		return raster.RenderStandard(raster.StandardAperture{Kind: raster.Obround, Width: a.Width, Height: a.Height}, dpi, col)
	case AptMacro:
		return a.renderMacro(dpi, col)
	default:
		return raster.RenderMacroPlaceholder(col)
	}
}

func (a ApertureDefinition) renderMacro(dpi float64, col color.Color) *raster.Canvas {
	if a.Macro == nil || len(a.Macro.Primitives) == 0 {
		return raster.RenderMacroPlaceholder(col)
	}
	for _, prim := range a.Macro.Primitives {
		switch prim.Code {
		case MacroCircle:
			if d, ok := macroFloat(prim.Params, 1); ok {
				return raster.RenderStandard(raster.StandardAperture{Kind: raster.Circle, Width: d}, dpi, col)
			}
		case MacroCenterLine:
			w, wok := macroFloat(prim.Params, 1)
			h, hok := macroFloat(prim.Params, 2)
			if wok && hok {
				return raster.RenderStandard(raster.StandardAperture{Kind: raster.Rectangle, Width: w, Height: h}, dpi, col)
			}
		}
	}
	return raster.RenderMacroPlaceholder(col)
}

func macroFloat(params []string, index int) (float64, bool) {
	if index < 0 || index >= len(params) {
		return 0, false
	}
	var v float64
	if _, err := fmt.Sscanf(params[index], "%g", &v); err != nil {
		return 0, false
	}
	return v, true
}

var _ sink.Aperture = ApertureDefinition{}
