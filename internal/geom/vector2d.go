// Package geom provides the 2-D primitives shared by the Gerber and
// Excellon interpreters and the rasterization sinks: a point/vector
// type and a dense-sampling helper for lines, arcs and circles.
package geom

import (
	"fmt"
	"math"
)

// tolerance is the approximate-equality threshold for Vec2.
const tolerance = 1e-6

// Vec2 is an immutable 2-D point or vector. All arithmetic returns a
// new value; there are no mutating methods.
type Vec2 struct {
	X, Y float64
}

// Zero is the origin.
var Zero = Vec2{}

// UnitAngle returns the unit vector at the given angle, in radians.
func UnitAngle(angleRad float64) Vec2 {
	return Vec2{X: math.Cos(angleRad), Y: math.Sin(angleRad)}
}

// Length returns the Euclidean length of v.
func (v Vec2) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Angle returns the polar angle of v in [0, 2*pi).
func (v Vec2) Angle() float64 {
	a := math.Atan2(v.Y, v.X)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// Neg returns -v.
func (v Vec2) Neg() Vec2 {
	return Vec2{-v.X, -v.Y}
}

// Scale returns v scaled by s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Div returns v scaled by 1/s.
func (v Vec2) Div(s float64) Vec2 {
	return v.Scale(1 / s)
}

// CompMul returns the componentwise product of v and o.
func (v Vec2) CompMul(o Vec2) Vec2 {
	return Vec2{v.X * o.X, v.Y * o.Y}
}

// CompDiv returns the componentwise quotient of v and o.
func (v Vec2) CompDiv(o Vec2) Vec2 {
	return Vec2{v.X / o.X, v.Y / o.Y}
}

// Almost reports whether x and y are within the approximate-equality
// tolerance used throughout the package.
func Almost(x, y float64) bool {
	return math.Abs(x-y) < tolerance
}

// Equal reports approximate equality between v and o.
func (v Vec2) Equal(o Vec2) bool {
	return Almost(v.X, o.X) && Almost(v.Y, o.Y)
}

func (v Vec2) String() string {
	return fmt.Sprintf("(%.3f, %.3f)", v.X, v.Y)
}
