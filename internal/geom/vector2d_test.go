package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec2Arithmetic(t *testing.T) {
	a := Vec2{X: 1, Y: 2}
	b := Vec2{X: 3, Y: -1}

	assert.Equal(t, Vec2{X: 4, Y: 1}, a.Add(b))
	assert.Equal(t, Vec2{X: -2, Y: 3}, a.Sub(b))
	assert.Equal(t, Vec2{X: -1, Y: -2}, a.Neg())
	assert.Equal(t, Vec2{X: 2, Y: 4}, a.Scale(2))
	assert.Equal(t, Vec2{X: 0.5, Y: 1}, a.Div(2))
	assert.Equal(t, Vec2{X: 3, Y: -2}, a.CompMul(b))
}

func TestVec2LengthAndAngle(t *testing.T) {
	v := Vec2{X: 3, Y: 4}
	assert.InDelta(t, 5.0, v.Length(), 1e-9)

	right := Vec2{X: 1, Y: 0}
	assert.InDelta(t, 0, right.Angle(), 1e-9)

	down := Vec2{X: 0, Y: -1}
	assert.InDelta(t, 3*math.Pi/2, down.Angle(), 1e-9)
}

func TestUnitAngle(t *testing.T) {
	u := UnitAngle(0)
	assert.True(t, u.Equal(Vec2{X: 1, Y: 0}))

	u90 := UnitAngle(math.Pi / 2)
	assert.True(t, u90.Equal(Vec2{X: 0, Y: 1}))
}

func TestVec2Equal(t *testing.T) {
	a := Vec2{X: 1.0000001, Y: 2}
	b := Vec2{X: 1.0000002, Y: 2}
	assert.True(t, a.Equal(b))

	c := Vec2{X: 1.1, Y: 2}
	assert.False(t, a.Equal(c))
}
