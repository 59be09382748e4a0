// Package gamemath holds the small amount of 2D geometry shared between the
// client interpolator and the server simulation.
package gamemath

import "math"

// Vec2 is a point or direction in world units.
type Vec2 struct {
	X, Y float64
}

func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

func (v Vec2) LenSq() float64 { return v.X*v.X + v.Y*v.Y }

func (v Vec2) Len() float64 { return math.Sqrt(v.LenSq()) }

// DistSq returns the squared distance between two points.
func (v Vec2) DistSq(o Vec2) float64 { return o.Sub(v).LenSq() }

func (v Vec2) Dist(o Vec2) float64 { return o.Sub(v).Len() }

// Normalized returns the unit vector in v's direction, or the zero vector.
func (v Vec2) Normalized() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Angle returns the heading of v in radians.
func (v Vec2) Angle() float64 { return math.Atan2(v.Y, v.X) }

// FromAngle returns the unit vector for a heading.
func FromAngle(a float64) Vec2 { return Vec2{math.Cos(a), math.Sin(a)} }

// MoveTowards advances from toward to by at most step. The second return
// value reports arrival, in which case the result is exactly to.
func MoveTowards(from, to Vec2, step float64) (Vec2, bool) {
	delta := to.Sub(from)
	dist := delta.Len()
	if dist <= step || dist == 0 {
		return to, true
	}
	return from.Add(delta.Scale(step / dist)), false
}
