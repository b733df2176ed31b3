package sink

import "pcbrender/internal/geom"

// ExtentsSink accumulates the bounding box of everything drawn,
// padding each point by the current aperture's half-extents. Grounded
// in SizeDeterminationCallback (InterpreterCallbacks.py): _add_point
// pads by the current aperture and min_pt/max_pt are nil until
// something is drawn.
type ExtentsSink struct {
	NopSink

	pad      geom.Vec2
	hasPoint bool
	min, max geom.Vec2

	regionPad    geom.Vec2
	inRegion     bool
	regionPoints []geom.Vec2
	sampler      *geom.Sampler
}

// NewExtentsSink returns an empty ExtentsSink.
func NewExtentsSink() *ExtentsSink {
	e := &ExtentsSink{}
	e.sampler = geom.NewSampler(func(p geom.Vec2) { e.addPoint(p, geom.Zero) })
	return e
}

// MinPt returns the accumulated lower-left corner and whether any
// primitive was ever drawn.
func (e *ExtentsSink) MinPt() (geom.Vec2, bool) { return e.min, e.hasPoint }

// MaxPt returns the accumulated upper-right corner and whether any
// primitive was ever drawn.
func (e *ExtentsSink) MaxPt() (geom.Vec2, bool) { return e.max, e.hasPoint }

func (e *ExtentsSink) addPoint(p, pad geom.Vec2) {
	lo := p.Sub(pad)
	hi := p.Add(pad)
	if !e.hasPoint {
		e.min, e.max = lo, hi
		e.hasPoint = true
		return
	}
	if lo.X < e.min.X {
		e.min.X = lo.X
	}
	if lo.Y < e.min.Y {
		e.min.Y = lo.Y
	}
	if hi.X > e.max.X {
		e.max.X = hi.X
	}
	if hi.Y > e.max.Y {
		e.max.Y = hi.Y
	}
}

func (e *ExtentsSink) SelectAperture(a Aperture) {
	e.pad = a.HalfExtents()
}

func (e *ExtentsSink) SwitchDrillTool(diameterIn float64) {
	e.pad = geom.Vec2{X: diameterIn / 2, Y: diameterIn / 2}
}

func (e *ExtentsSink) Line(a, b geom.Vec2) {
	e.addPoint(a, e.pad)
	e.addPoint(b, e.pad)
}

func (e *ExtentsSink) ArcCW(a, b, center geom.Vec2) { e.ArcCCW(b, a, center) }

func (e *ExtentsSink) ArcCCW(a, b, center geom.Vec2) {
	radius := b.Sub(center).Length()
	from := a.Sub(center).Angle()
	to := b.Sub(center).Angle()
	e.sweepArc(center, radius, &from, &to, e.pad)
}

func (e *ExtentsSink) Circle(center geom.Vec2, radius float64) {
	e.addPoint(center, e.pad.Add(geom.Vec2{X: radius, Y: radius}))
}

func (e *ExtentsSink) sweepArc(center geom.Vec2, radius float64, from, to *float64, pad geom.Vec2) {
	s := geom.NewSampler(func(p geom.Vec2) { e.addPoint(p, pad) })
	s.Arc(center, radius, from, to)
}

func (e *ExtentsSink) FlashAt(p geom.Vec2) { e.addPoint(p, e.pad) }

func (e *ExtentsSink) Drill(p geom.Vec2) { e.addPoint(p, e.pad) }

// BeginPath starts accumulating a region contour with padding
// temporarily zeroed: the spec directs region interiors to be visited
// at zero pad, only the stroke-style primitives pad by the aperture.
func (e *ExtentsSink) BeginPath() {
	e.inRegion = true
	e.regionPoints = e.regionPoints[:0]
}

func (e *ExtentsSink) RegionMove(p geom.Vec2) {
	e.regionPoints = append(e.regionPoints, p)
	e.addPoint(p, geom.Zero)
}

func (e *ExtentsSink) RegionLine(p geom.Vec2) {
	e.regionPoints = append(e.regionPoints, p)
	e.addPoint(p, geom.Zero)
}

func (e *ExtentsSink) RegionArcCW(from, to, center geom.Vec2) { e.RegionArcCCW(to, from, center) }

func (e *ExtentsSink) RegionArcCCW(from, to, center geom.Vec2) {
	radius := to.Sub(center).Length()
	fromAngle := from.Sub(center).Angle()
	toAngle := to.Sub(center).Angle()
	s := geom.NewSampler(func(p geom.Vec2) { e.addPoint(p, geom.Zero) })
	s.Arc(center, radius, &fromAngle, &toAngle)
}

func (e *ExtentsSink) EndPath() {
	e.inRegion = false
}

var _ Sink = (*ExtentsSink)(nil)
