package gamemath

import "math"

// WrapAngle maps an angle in radians into (-π, π].
func WrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a <= -math.Pi {
		a += 2 * math.Pi
	} else if a > math.Pi {
		a -= 2 * math.Pi
	}
	return a
}

// AngleDelta returns the signed shortest rotation from one heading to another.
func AngleDelta(from, to float64) float64 {
	return WrapAngle(to - from)
}

// UnwrapToward returns the representation of target closest to from, so that
// a linear blend between the two rotates the short way round.
func UnwrapToward(from, target float64) float64 {
	return from + AngleDelta(from, target)
}

// RotateTowards turns from toward to by at most maxStep radians along the
// shortest path. The result is wrapped.
func RotateTowards(from, to, maxStep float64) (float64, bool) {
	delta := AngleDelta(from, to)
	if math.Abs(delta) <= maxStep {
		return WrapAngle(to), true
	}
	return WrapAngle(from + math.Copysign(maxStep, delta)), false
}

func Lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

func Deg(d float64) float64 { return d * math.Pi / 180 }
