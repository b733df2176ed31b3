package geom

import "math"

// DefaultSamplingCoefficient gives roughly one sample per world unit.
// A caller sampling inch coordinates for a raster sets Coeff to the
// target DPI to get about one sample per pixel.
const DefaultSamplingCoefficient = 1.0

// Sampler emits a dense sequence of points along a line, arc, or full
// circle, calling back for each one. Ported from the original
// GeoInterpolation: consecutive samples stay within about one world
// unit divided by the sampling coefficient.
type Sampler struct {
	Callback func(Vec2)
	Coeff    float64
}

// NewSampler returns a Sampler with the default sampling coefficient.
func NewSampler(callback func(Vec2)) *Sampler {
	return &Sampler{Callback: callback, Coeff: DefaultSamplingCoefficient}
}

// Line emits samples from src to dst inclusive of both endpoints.
func (s *Sampler) Line(src, dst Vec2) {
	length := dst.Sub(src).Length()
	points := int(math.Round(length * s.Coeff))
	if points == 0 {
		s.Callback(src.Add(dst).Scale(0.5))
		return
	}
	slope := dst.Sub(src).Div(float64(points))
	for i := 0; i <= points; i++ {
		s.Callback(src.Add(slope.Scale(float64(i))))
	}
}

// Arc emits samples along the arc of the given radius centered at
// center, from fromRad to toRad (radians). A nil fromRad, or fromRad
// and toRad within 1e-6 of each other, is treated as a full circle.
func (s *Sampler) Arc(center Vec2, radius float64, fromRad, toRad *float64) {
	fullCircle := fromRad == nil || toRad == nil || Almost(*fromRad, *toRad)

	from, to := 0.0, 2*math.Pi
	ratio := 1.0
	if !fullCircle {
		from, to = *fromRad, *toRad
		ratio = math.Mod(to-from, 2*math.Pi) / (2 * math.Pi)
		if ratio < 0 {
			ratio += 1
		}
	}

	length := 2 * radius * math.Pi * ratio
	points := int(math.Round(length * s.Coeff))
	if points < 2 {
		points = 2
	}
	s.sweep(center, radius, from, to, points)
}

func (s *Sampler) sweep(center Vec2, radius, from, to float64, points int) {
	if to < from {
		to += 2 * math.Pi
	}
	slope := (to - from) / float64(points)
	for i := 0; i <= points; i++ {
		angle := from + float64(i)*slope
		s.Callback(center.Add(UnitAngle(angle).Scale(radius)))
	}
}

// Circle emits samples along a full circle of the given radius
// centered at center.
func (s *Sampler) Circle(center Vec2, radius float64) {
	s.Arc(center, radius, nil, nil)
}
