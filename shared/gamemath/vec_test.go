package gamemath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoveTowards_NeverOvershoots(t *testing.T) {
	p, arrived := MoveTowards(V(0, 0), V(10, 0), 4)
	assert.False(t, arrived)
	assert.Equal(t, V(4, 0), p)

	p, arrived = MoveTowards(p, V(10, 0), 7)
	assert.True(t, arrived)
	assert.Equal(t, V(10, 0), p)

	p, arrived = MoveTowards(V(3, 3), V(3, 3), 0)
	assert.True(t, arrived)
	assert.Equal(t, V(3, 3), p)
}

func TestNormalized(t *testing.T) {
	assert.Equal(t, Vec2{}, Vec2{}.Normalized())
	n := V(3, 4).Normalized()
	assert.InDelta(t, 1.0, n.Len(), 1e-12)
	assert.InDelta(t, 25.0, V(0, 0).DistSq(V(3, 4)), 1e-12)
}

func TestClampToRange(t *testing.T) {
	origin := V(0, 0)

	got := ClampToRange(origin, V(10, 0), 50, 300, 0)
	assert.InDelta(t, 50, got.X, 1e-9)
	assert.InDelta(t, 0, got.Y, 1e-9)

	got = ClampToRange(origin, V(0, 900), 0, 300, 0)
	assert.InDelta(t, 300, got.Y, 1e-9)

	got = ClampToRange(origin, origin, 20, 0, math.Pi/2)
	assert.InDelta(t, 0, got.X, 1e-9)
	assert.InDelta(t, 20, got.Y, 1e-9)

	assert.Equal(t, V(100, 0), ClampToRange(origin, V(100, 0), 20, 0, 0))
}

func TestCalculateHomingVelocity(t *testing.T) {
	v := CalculateHomingVelocity(V(0, 0), V(0, -5), 8)
	assert.InDelta(t, 0, v.X, 1e-12)
	assert.InDelta(t, -8, v.Y, 1e-12)
	assert.Equal(t, Vec2{}, CalculateHomingVelocity(V(1, 1), V(1, 1), 8))
}
