package systems

import (
	"math"
	"testing"

	"github.com/automoto/skirmish/components"
	"github.com/automoto/skirmish/config"
	"github.com/automoto/skirmish/shared/gamemath"
	"github.com/automoto/skirmish/shared/netcomponents"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"pgregory.net/rapid"
)

type fixedDelay float64

func (d fixedDelay) Delay() float64 { return float64(d) }

func deg(d float64) float64 { return d * math.Pi / 180 }

func initialized(target netcomponents.NetTransformData) *components.NetInterpData {
	in := &components.NetInterpData{}
	ObserveTarget(in, target, 0, 0)
	return in
}

func TestObserveTarget_FirstTargetSnaps(t *testing.T) {
	in := &components.NetInterpData{}
	assert.True(t, ObserveTarget(in, netcomponents.NetTransformData{X: 5, Y: 6, Angle: 1}, 0.05, 0.05))

	assert.True(t, in.Initialized)
	assert.False(t, in.Interpolating)
	assert.Equal(t, 5.0, in.X)
	assert.Equal(t, 6.0, in.Y)
	assert.Equal(t, 1.0, in.Angle)
}

func TestStepInterp_ConvergesAtDeadline(t *testing.T) {
	in := initialized(netcomponents.NetTransformData{})
	ObserveTarget(in, netcomponents.NetTransformData{X: 10}, 0.05, 0.05)

	require.InDelta(t, 0.1, in.Duration, 1e-12)
	assert.InDelta(t, 100, in.EndSpeed, 1e-9)

	prev := 0.0
	for i := 0; i < 5; i++ {
		StepInterp(in, 1.0/60)
		assert.Greater(t, in.X, prev)
		assert.LessOrEqual(t, in.X, 10.0)
		prev = in.X
	}
	StepInterp(in, 1.0/60)
	StepInterp(in, 1.0/60)

	assert.Equal(t, 10.0, in.X)
	assert.Equal(t, 0.0, in.Y)
	assert.False(t, in.Interpolating)
}

func TestObserveTarget_DeclaredSpeedNeverReduced(t *testing.T) {
	in := initialized(netcomponents.NetTransformData{})
	ObserveTarget(in, netcomponents.NetTransformData{X: 1, Speed: 180}, 0.05, 0.05)
	assert.InDelta(t, 180, in.EndSpeed, 1e-9)

	in = initialized(netcomponents.NetTransformData{})
	ObserveTarget(in, netcomponents.NetTransformData{X: 50, Speed: 10}, 0.05, 0.05)
	assert.InDelta(t, 500, in.EndSpeed, 1e-9)
}

func TestObserveTarget_DegenerateDurationClamped(t *testing.T) {
	in := initialized(netcomponents.NetTransformData{})
	ObserveTarget(in, netcomponents.NetTransformData{X: 1}, 0, 0)
	assert.InDelta(t, config.Interp.MinDuration, in.Duration, 1e-12)

	StepInterp(in, 1.0/60)
	assert.Equal(t, 1.0, in.X)
	assert.False(t, in.Interpolating)
}

func TestStepInterp_CrossesPi(t *testing.T) {
	in := initialized(netcomponents.NetTransformData{Angle: deg(170)})
	ObserveTarget(in, netcomponents.NetTransformData{Angle: deg(-170)}, 0.05, 0.05)

	assert.InDelta(t, deg(190), in.DestAngle, 1e-9)

	StepInterp(in, 0.05)
	assert.InDelta(t, math.Pi, in.Angle, 1e-6)

	StepInterp(in, 0.05)
	assert.False(t, in.Interpolating)
	assert.InDelta(t, deg(-170), in.Angle, 1e-9)
}

func TestObserveTarget_IdenticalTargetIsNoop(t *testing.T) {
	target := netcomponents.NetTransformData{X: 3, Y: 4, Angle: 0.5, Speed: 10}
	in := initialized(netcomponents.NetTransformData{})
	require.True(t, ObserveTarget(in, target, 0.05, 0.05))
	StepInterp(in, 0.01)
	before := *in

	assert.False(t, ObserveTarget(in, target, 0.05, 0.05))
	assert.Equal(t, before.Elapsed, in.Elapsed)
	assert.Equal(t, before.DestX, in.DestX)
	assert.Equal(t, before.Duration, in.Duration)
}

func TestObserveTarget_OnlyLatestTargetMatters(t *testing.T) {
	in := initialized(netcomponents.NetTransformData{})
	ObserveTarget(in, netcomponents.NetTransformData{X: 100, Y: 100}, 0.05, 0.05)
	ObserveTarget(in, netcomponents.NetTransformData{X: -20, Angle: math.Pi / 2}, 0.05, 0.05)

	for i := 0; i < 10 && in.Interpolating; i++ {
		StepInterp(in, 1.0/60)
	}
	assert.Equal(t, -20.0, in.X)
	assert.Equal(t, 0.0, in.Y)
	assert.InDelta(t, math.Pi/2, in.Angle, 1e-9)
}

func TestObserveTarget_AngleOnlyKeepsMotion(t *testing.T) {
	in := initialized(netcomponents.NetTransformData{})
	ObserveTarget(in, netcomponents.NetTransformData{X: 10, Speed: 50}, 0.05, 0.05)
	StepInterp(in, 0.05)
	midX, speed := in.X, in.EndSpeed

	ObserveTarget(in, netcomponents.NetTransformData{X: 10, Speed: 50, Angle: 1}, 0.05, 0.05)
	assert.Equal(t, midX, in.X)
	assert.Equal(t, 10.0, in.DestX)
	assert.Equal(t, speed, in.EndSpeed)
	assert.True(t, in.Interpolating)
	assert.Zero(t, in.Elapsed)

	for i := 0; i < 10 && in.Interpolating; i++ {
		StepInterp(in, 0.02)
	}
	assert.Equal(t, 10.0, in.X)
	assert.InDelta(t, 1, in.Angle, 1e-9)
}

func TestObserveTarget_SnapFollow(t *testing.T) {
	in := initialized(netcomponents.NetTransformData{})
	ObserveTarget(in, netcomponents.NetTransformData{X: 10}, 0.05, 0.05)
	StepInterp(in, 0.01)

	ObserveTarget(in, netcomponents.NetTransformData{X: 300, Y: 40, Angle: 2, Snap: true}, 0.05, 0.05)
	assert.False(t, in.Interpolating)
	assert.Equal(t, 300.0, in.X)
	assert.Equal(t, 40.0, in.Y)
	assert.Equal(t, 2.0, in.Angle)
}

func TestObserveTarget_LeavingSnapFollowSnaps(t *testing.T) {
	in := initialized(netcomponents.NetTransformData{})
	ObserveTarget(in, netcomponents.NetTransformData{X: 64, Y: 64, Snap: true}, 0.05, 0.05)

	require.True(t, ObserveTarget(in, netcomponents.NetTransformData{X: 576, Y: 64, Angle: 1}, 0.05, 0.05))
	assert.False(t, in.Interpolating)
	assert.Equal(t, 576.0, in.X)
	assert.Equal(t, 64.0, in.Y)
	assert.Equal(t, 1.0, in.Angle)

	StepInterp(in, 1.0/60)
	assert.Equal(t, 576.0, in.X)

	// Later targets blend again.
	require.True(t, ObserveTarget(in, netcomponents.NetTransformData{X: 586, Y: 64, Angle: 1}, 0.05, 0.05))
	assert.True(t, in.Interpolating)
}

func TestStepInterp_IdleAngleCatchUp(t *testing.T) {
	in := initialized(netcomponents.NetTransformData{})
	in.Last.Angle = math.Pi / 2

	StepInterp(in, 0.1)
	assert.InDelta(t, config.Interp.AngleCatchUpRate*0.1, in.Angle, 1e-9)

	for i := 0; i < 20; i++ {
		StepInterp(in, 0.1)
		assert.LessOrEqual(t, in.Angle, math.Pi/2)
	}
	assert.Equal(t, math.Pi/2, in.Angle)
}

func TestStepInterp_ConvergenceProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		coord := rapid.Float64Range(-1000, 1000)
		angle := rapid.Float64Range(-math.Pi, math.Pi)
		start := netcomponents.NetTransformData{
			X:     coord.Draw(t, "x0"),
			Y:     coord.Draw(t, "y0"),
			Angle: angle.Draw(t, "a0"),
		}
		target := netcomponents.NetTransformData{
			X:     coord.Draw(t, "x1"),
			Y:     coord.Draw(t, "y1"),
			Angle: angle.Draw(t, "a1"),
			Speed: rapid.Float64Range(0, 500).Draw(t, "speed"),
		}
		delay := rapid.Float64Range(0, 0.3).Draw(t, "delay")
		fixed := rapid.Float64Range(0.01, 0.1).Draw(t, "fixed")
		dt := rapid.Float64Range(0.001, 0.05).Draw(t, "dt")

		in := initialized(start)
		ObserveTarget(in, target, delay, fixed)
		deadline := delay + fixed
		dest := gamemath.V(target.X, target.Y)
		sweep := math.Abs(in.DestAngle - in.StartAngle)

		remaining := gamemath.V(in.X, in.Y).Dist(dest)
		steps := int(math.Ceil(deadline/dt)) + 1
		for i := 0; i < steps && in.Interpolating; i++ {
			StepInterp(in, dt)
			d := gamemath.V(in.X, in.Y).Dist(dest)
			if d > remaining+1e-9 {
				t.Fatalf("moved away from target: %v > %v", d, remaining)
			}
			remaining = d
			if in.Interpolating && math.Abs(in.Angle-in.StartAngle) > sweep+1e-9 {
				t.Fatalf("angle overshoot: %v beyond sweep %v", in.Angle, sweep)
			}
		}

		if in.Interpolating {
			t.Fatalf("still interpolating after %v (deadline %v)", in.Elapsed, deadline)
		}
		if in.Elapsed > deadline+dt+1e-9 {
			t.Fatalf("finished late: %v > %v", in.Elapsed, deadline)
		}
		if in.X != target.X || in.Y != target.Y {
			t.Fatalf("position (%v,%v) != target (%v,%v)", in.X, in.Y, target.X, target.Y)
		}
		if math.Abs(gamemath.AngleDelta(in.Angle, target.Angle)) > 1e-9 {
			t.Fatalf("angle %v != target %v", in.Angle, target.Angle)
		}
	})
}

func TestNetInterpSystem_DrivesEntities(t *testing.T) {
	world := donburi.NewWorld()
	e := ecs.NewECS(world)
	e.AddSystem(NewNetInterpSystem(fixedDelay(0.05), func() int { return 20 }))

	entry := world.Entry(world.Create(netcomponents.NetTransform, components.NetInterp))
	netcomponents.NetTransform.SetValue(entry, netcomponents.NetTransformData{X: 1, Y: 1})
	e.Update()

	interp := components.NetInterp.Get(entry)
	require.True(t, interp.Initialized)
	assert.Equal(t, 1.0, interp.X)

	netcomponents.NetTransform.SetValue(entry, netcomponents.NetTransformData{X: 11, Y: 1})
	e.Update()
	assert.True(t, interp.Interpolating)
	assert.Greater(t, interp.X, 1.0)

	for i := 0; i < 10; i++ {
		e.Update()
	}
	assert.Equal(t, 11.0, interp.X)
	assert.False(t, interp.Interpolating)
}
