package gamemath

// CalculateHomingVelocity returns a velocity of the given speed pointing from
// pos toward target, or zero when they coincide.
func CalculateHomingVelocity(pos, target Vec2, speed float64) Vec2 {
	return target.Sub(pos).Normalized().Scale(speed)
}

// ClampToRange pulls point along the ray from origin so that its distance lies
// in [minRange, maxRange]. A point on top of origin is pushed out along
// fallbackAngle. A maxRange of zero leaves the upper bound open.
func ClampToRange(origin, point Vec2, minRange, maxRange, fallbackAngle float64) Vec2 {
	delta := point.Sub(origin)
	dist := delta.Len()
	dir := delta.Normalized()
	if dist == 0 {
		dir = FromAngle(fallbackAngle)
	}
	switch {
	case dist < minRange:
		return origin.Add(dir.Scale(minRange))
	case maxRange > 0 && dist > maxRange:
		return origin.Add(dir.Scale(maxRange))
	}
	return point
}
