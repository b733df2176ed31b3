// Package sink defines the event vocabulary emitted by the Gerber and
// Excellon interpreters, and the two concrete consumers of that
// vocabulary: ExtentsSink (bounding-box discovery) and RasterSink
// (actual pixel drawing). Grounded in original_source/gerber's
// InterpreterCallbacks.py, where BaseCallback supplies no-op defaults
// overridden by CairoCallback/SizeDeterminationCallback; here the same
// shape is an interface with two implementations instead of a base
// class with overrides.
package sink

import (
	"image/color"

	"pcbrender/internal/geom"
	"pcbrender/internal/raster"
)

// Aperture is the shape contract a Sink needs from whatever aperture
// representation the interpreter passes to SelectAperture: its
// physical half-extents (for padding bounding boxes) and, for
// RasterSink, a way to rasterize itself at a given DPI and color.
type Aperture interface {
	// HalfExtents returns the aperture's bounding half-width/half-height
	// in inches, used to pad extents and trajectory strokes.
	HalfExtents() geom.Vec2

	// Render rasterizes the aperture into a small Canvas filled with
	// col, at the resolution dpi.
	Render(dpi float64, col color.Color) *raster.Canvas
}

// Sink is the complete event vocabulary an interpreter may emit.
// Every method has a meaningful no-op in at least one implementation;
// embedding NopSink gives a type the full interface with all-no-op
// bodies so a concrete type only needs to override what it cares
// about.
type Sink interface {
	BeginPath()
	EndPath()
	RegionMove(p geom.Vec2)
	RegionLine(p geom.Vec2)
	RegionArcCW(from, to, center geom.Vec2)
	RegionArcCCW(from, to, center geom.Vec2)
	CloseContour()

	DrawModeDark()
	DrawModeClear()

	SelectAperture(a Aperture)

	Line(a, b geom.Vec2)
	ArcCW(a, b, center geom.Vec2)
	ArcCCW(a, b, center geom.Vec2)
	Circle(center geom.Vec2, radius float64)
	FlashAt(p geom.Vec2)

	SwitchDrillTool(diameterIn float64)
	Drill(p geom.Vec2)
}

// NopSink implements Sink with every method a no-op. Embed it in a
// concrete sink to inherit defaults for events it doesn't care about.
type NopSink struct{}

func (NopSink) BeginPath()                     {}
func (NopSink) EndPath()                       {}
func (NopSink) RegionMove(geom.Vec2)           {}
func (NopSink) RegionLine(geom.Vec2)           {}
func (NopSink) RegionArcCW(_, _, _ geom.Vec2)  {}
func (NopSink) RegionArcCCW(_, _, _ geom.Vec2) {}
func (NopSink) CloseContour()                  {}
func (NopSink) DrawModeDark()                  {}
func (NopSink) DrawModeClear()                 {}
func (NopSink) SelectAperture(Aperture)        {}
func (NopSink) Line(_, _ geom.Vec2)            {}
func (NopSink) ArcCW(_, _, _ geom.Vec2)        {}
func (NopSink) ArcCCW(_, _, _ geom.Vec2)       {}
func (NopSink) Circle(_ geom.Vec2, _ float64)  {}
func (NopSink) FlashAt(geom.Vec2)              {}
func (NopSink) SwitchDrillTool(float64)        {}
func (NopSink) Drill(geom.Vec2)                {}

var _ Sink = NopSink{}
