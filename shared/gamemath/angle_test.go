package gamemath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestWrapAngle(t *testing.T) {
	assert.InDelta(t, math.Pi, WrapAngle(-math.Pi), 1e-12)
	assert.InDelta(t, math.Pi, WrapAngle(3*math.Pi), 1e-12)
	assert.InDelta(t, -math.Pi/2, WrapAngle(3*math.Pi/2), 1e-12)
	assert.InDelta(t, 0.25, WrapAngle(0.25+4*math.Pi), 1e-9)
}

func TestUnwrapToward_CrossesPi(t *testing.T) {
	start := Deg(170)
	dest := UnwrapToward(start, Deg(-170))

	assert.InDelta(t, Deg(190), dest, 1e-9)
	// Halfway point of the blend sits on 180 degrees, not 0.
	mid := WrapAngle(Lerp(start, dest, 0.5))
	assert.InDelta(t, math.Pi, math.Abs(mid), 1e-9)
}

func TestRotateTowards(t *testing.T) {
	got, done := RotateTowards(0, math.Pi/2, 0.1)
	assert.False(t, done)
	assert.InDelta(t, 0.1, got, 1e-12)

	got, done = RotateTowards(Deg(175), Deg(-175), Deg(20))
	assert.True(t, done)
	assert.InDelta(t, Deg(-175), got, 1e-9)

	got, done = RotateTowards(Deg(175), Deg(-175), Deg(5))
	assert.False(t, done)
	assert.InDelta(t, math.Pi, math.Abs(got), 1e-9)
}

func TestAngleDelta_IsShortest(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		from := rapid.Float64Range(-20, 20).Draw(t, "from")
		to := rapid.Float64Range(-20, 20).Draw(t, "to")

		d := AngleDelta(from, to)
		if d <= -math.Pi-1e-9 || d > math.Pi+1e-9 {
			t.Fatalf("delta %v out of (-π, π]", d)
		}
		landed := WrapAngle(from + d)
		if math.Abs(AngleDelta(landed, to)) > 1e-9 {
			t.Fatalf("from %v + %v does not land on %v", from, d, to)
		}
	})
}
