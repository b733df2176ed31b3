package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSamplerLineEndpoints(t *testing.T) {
	var pts []Vec2
	s := NewSampler(func(p Vec2) { pts = append(pts, p) })
	s.Line(Vec2{X: 0, Y: 0}, Vec2{X: 10, Y: 0})

	require.NotEmpty(t, pts)
	assert.True(t, pts[0].Equal(Vec2{X: 0, Y: 0}))
	assert.True(t, pts[len(pts)-1].Equal(Vec2{X: 10, Y: 0}))
}

func TestSamplerLineZeroLength(t *testing.T) {
	var pts []Vec2
	s := NewSampler(func(p Vec2) { pts = append(pts, p) })
	p := Vec2{X: 5, Y: 5}
	s.Line(p, p)

	require.Len(t, pts, 1)
	assert.True(t, pts[0].Equal(p))
}

func TestSamplerFullCircleClosesLoop(t *testing.T) {
	var pts []Vec2
	s := NewSampler(func(p Vec2) { pts = append(pts, p) })
	s.Circle(Vec2{X: 0, Y: 0}, 1)

	require.True(t, len(pts) >= 2)
	assert.True(t, pts[0].Equal(pts[len(pts)-1]), "full circle should start and end at the same point")
	for _, p := range pts {
		assert.InDelta(t, 1.0, p.Length(), 1e-6)
	}
}

func TestSamplerArcQuarterTurn(t *testing.T) {
	var pts []Vec2
	s := NewSampler(func(p Vec2) { pts = append(pts, p) })
	from, to := 0.0, math.Pi/2
	s.Arc(Vec2{X: 0, Y: 0}, 2, &from, &to)

	require.NotEmpty(t, pts)
	assert.True(t, pts[0].Equal(Vec2{X: 2, Y: 0}))
	last := pts[len(pts)-1]
	assert.InDelta(t, 0, last.X, 1e-6)
	assert.InDelta(t, 2, last.Y, 1e-6)
}
