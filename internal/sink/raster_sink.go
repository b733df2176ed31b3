package sink

import (
	"image/color"

	"pcbrender/internal/geom"
	"pcbrender/internal/raster"
)

type pathCmd struct {
	lineTo bool // false = moveto
	point  geom.Vec2
}

// RasterSink stamps the currently selected aperture along each stroke
// primitive onto a target Canvas, and fills accumulated region paths.
// Grounded in CairoCallback (InterpreterCallbacks.py): select_aperture
// re-renders the aperture shape, line/arc/circle delegate to
// GeoInterpolation-driven blit_* calls, drawmode toggles the
// destination's compositing operator, flash_at degenerates to a
// zero-length line.
type RasterSink struct {
	NopSink

	target *raster.Canvas
	color  color.Color

	apertureHalf geom.Vec2
	aperture     *raster.Canvas
	polarity     raster.Operator

	path []pathCmd
}

// NewRasterSink returns a RasterSink drawing onto target in col.
func NewRasterSink(target *raster.Canvas, col color.Color) *RasterSink {
	return &RasterSink{target: target, color: col, polarity: raster.OpOver}
}

func (r *RasterSink) SelectAperture(a Aperture) {
	r.apertureHalf = a.HalfExtents()
	r.aperture = a.Render(r.target.DPI(), r.color)
}

func (r *RasterSink) stampAt(p geom.Vec2) {
	if r.aperture == nil {
		return
	}
	r.aperture.StampOn(r.target, p, r.polarity)
}

// sampler returns a Sampler over inch coordinates whose coefficient is
// the target DPI, giving about one sample per target pixel.
func (r *RasterSink) sampler(cb func(geom.Vec2)) *geom.Sampler {
	s := geom.NewSampler(cb)
	s.Coeff = r.target.DPI()
	return s
}

func (r *RasterSink) Line(a, b geom.Vec2) {
	s := r.sampler(r.stampAt)
	s.Line(a, b)
}

func (r *RasterSink) ArcCCW(a, b, center geom.Vec2) {
	radius := b.Sub(center).Length()
	from := a.Sub(center).Angle()
	to := b.Sub(center).Angle()
	s := r.sampler(r.stampAt)
	s.Arc(center, radius, &from, &to)
}

func (r *RasterSink) ArcCW(a, b, center geom.Vec2) { r.ArcCCW(b, a, center) }

func (r *RasterSink) Circle(center geom.Vec2, radius float64) {
	s := r.sampler(r.stampAt)
	s.Circle(center, radius)
}

func (r *RasterSink) FlashAt(p geom.Vec2) { r.Line(p, p) }

// DrawModeDark/DrawModeClear switch the operator that subsequent
// aperture stamps and region fills are composited onto the target
// with: OpOver for Dark, OpXor for Clear, matching the original
// renderer's (approximate) polarity policy — see DESIGN.md's
// clear-polarity note.
func (r *RasterSink) DrawModeDark()  { r.polarity = raster.OpOver }
func (r *RasterSink) DrawModeClear() { r.polarity = raster.OpXor }

func (r *RasterSink) BeginPath() { r.path = r.path[:0] }

func (r *RasterSink) RegionMove(p geom.Vec2) {
	r.path = append(r.path, pathCmd{lineTo: false, point: p})
}
func (r *RasterSink) RegionLine(p geom.Vec2) {
	r.path = append(r.path, pathCmd{lineTo: true, point: p})
}

func (r *RasterSink) RegionArcCCW(from, to, center geom.Vec2) {
	radius := to.Sub(center).Length()
	fromAngle := from.Sub(center).Angle()
	toAngle := to.Sub(center).Angle()
	s := r.sampler(func(p geom.Vec2) { r.path = append(r.path, pathCmd{lineTo: true, point: p}) })
	s.Arc(center, radius, &fromAngle, &toAngle)
}

func (r *RasterSink) RegionArcCW(from, to, center geom.Vec2) { r.RegionArcCCW(to, from, center) }

func (r *RasterSink) CloseContour() {
	if len(r.path) > 0 {
		r.path = append(r.path, pathCmd{lineTo: true, point: r.path[0].point})
	}
}

func (r *RasterSink) EndPath() {
	r.CloseContour()
	if len(r.path) == 0 {
		return
	}
	scratch := r.target.Scratch()
	ctx := scratch.Context()
	ctx.SetColor(r.color)
	ctx.NewSubPath()
	for _, cmd := range r.path {
		if cmd.lineTo {
			ctx.LineTo(cmd.point.X, cmd.point.Y)
		} else {
			ctx.MoveTo(cmd.point.X, cmd.point.Y)
		}
	}
	ctx.ClosePath()
	ctx.Fill()
	scratch.ComposeOnto(r.target, r.polarity)
	r.path = r.path[:0]
}

func (r *RasterSink) SwitchDrillTool(diameterIn float64) {
	r.apertureHalf = geom.Vec2{X: diameterIn / 2, Y: diameterIn / 2}
	r.aperture = raster.RenderStandard(raster.StandardAperture{Kind: raster.Circle, Width: diameterIn}, r.target.DPI(), r.color)
}

func (r *RasterSink) Drill(p geom.Vec2) { r.stampAt(p) }

var _ Sink = (*RasterSink)(nil)
