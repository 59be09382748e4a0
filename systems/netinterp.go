package systems

import (
	"math"

	"github.com/automoto/skirmish/components"
	"github.com/automoto/skirmish/config"
	"github.com/automoto/skirmish/shared/gamemath"
	"github.com/automoto/skirmish/shared/netcomponents"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"github.com/yohamta/donburi/filter"
)

// DelaySource reports the current one-way network delay in seconds.
type DelaySource interface {
	Delay() float64
}

var interpQuery = donburi.NewQuery(filter.Contains(netcomponents.NetTransform, components.NetInterp))

// NewNetInterpSystem returns an update system that blends every networked
// entity toward its replicated NetTransform. Each new target must be reached
// within one network delay plus one server tick.
func NewNetInterpSystem(delay DelaySource, tickRate func() int) func(*ecs.ECS) {
	dt := 1.0 / float64(config.Client.FrameRate)
	return func(e *ecs.ECS) {
		fixed := config.FixedUpdateInterval(tickRate())
		d := delay.Delay()
		interpQuery.Each(e.World, func(entry *donburi.Entry) {
			interp := components.NetInterp.Get(entry)
			ObserveTarget(interp, *netcomponents.NetTransform.Get(entry), d, fixed)
			StepInterp(interp, dt)
		})
	}
}

// ObserveTarget starts a new blend when target differs from the last one
// consumed. It returns false for an unchanged target. The first target after
// snap follow also snaps, so a respawn never blends from the corpse.
func ObserveTarget(in *components.NetInterpData, target netcomponents.NetTransformData, delay, fixedInterval float64) bool {
	if in.Initialized && target == in.Last {
		return false
	}

	if !in.Initialized || target.Snap || in.Last.Snap {
		snapTo(in, target)
		return true
	}

	prev := in.Last
	in.Last = target

	duration := delay + fixedInterval
	if duration <= 0 {
		duration = config.Interp.MinDuration
	}
	in.Elapsed = 0
	in.Duration = duration
	in.StartAngle = in.Angle
	in.DestAngle = in.StartAngle + gamemath.WrapAngle(target.Angle-in.StartAngle)
	in.AngleTween = gween.New(0, 1, float32(duration), ease.Linear)
	in.Interpolating = true

	if prev.X == target.X && prev.Y == target.Y && prev.Speed == target.Speed {
		return true
	}

	in.StartX, in.StartY = in.X, in.Y
	in.DestX, in.DestY = target.X, target.Y
	in.StartSpeed = in.EndSpeed
	dist := math.Hypot(target.X-in.X, target.Y-in.Y)
	in.EndSpeed = math.Max(target.Speed, dist/duration)
	return true
}

// StepInterp advances the rendered state by dt seconds.
func StepInterp(in *components.NetInterpData, dt float64) {
	if !in.Initialized || dt <= 0 {
		return
	}

	if !in.Interpolating {
		in.Angle, _ = gamemath.RotateTowards(in.Angle, in.Last.Angle, config.Interp.AngleCatchUpRate*dt)
		return
	}

	in.Elapsed += dt
	t, finished := 1.0, true
	if in.AngleTween != nil {
		p, done := in.AngleTween.Update(float32(dt))
		t, finished = math.Min(float64(p), 1), done
	}
	if in.Elapsed >= in.Duration {
		t, finished = 1, true
	}
	in.Angle = in.StartAngle*(1-t) + in.DestAngle*t

	pos := gamemath.V(in.X, in.Y)
	dest := gamemath.V(in.DestX, in.DestY)
	arrived := pos == dest
	if !arrived {
		if finished {
			pos, arrived = dest, true
		} else {
			pos, arrived = gamemath.MoveTowards(pos, dest, in.EndSpeed*dt)
		}
		in.X, in.Y = pos.X, pos.Y
	}

	if arrived && finished {
		in.Interpolating = false
		in.Angle = gamemath.WrapAngle(in.DestAngle)
		in.AngleTween = nil
	}
}

func snapTo(in *components.NetInterpData, target netcomponents.NetTransformData) {
	in.X, in.Y = target.X, target.Y
	in.Angle = gamemath.WrapAngle(target.Angle)
	in.StartX, in.StartY = target.X, target.Y
	in.DestX, in.DestY = target.X, target.Y
	in.StartAngle, in.DestAngle = in.Angle, in.Angle
	in.StartSpeed, in.EndSpeed = target.Speed, target.Speed
	in.Elapsed, in.Duration = 0, 0
	in.Interpolating = false
	in.AngleTween = nil
	in.Last = target
	in.Initialized = true
}
