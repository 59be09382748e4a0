package core

import (
	"math"

	"github.com/automoto/skirmish/config"
	"github.com/automoto/skirmish/shared/gamemath"
	"github.com/automoto/skirmish/shared/netconfig"
	"github.com/rs/zerolog"
)

type fireTarget struct {
	point       gamemath.Vec2
	ability     *AbilityController
	minRange    float64
	maxRange    float64
	maxAimAngle float64
}

// FireTargetController walks a player into range of a pending aim target,
// turns to face it, and fires the aim ability once range and aim allow.
// A pending target is kept across leaving the movable state and retried on
// re-entry; disabling the controller drops it.
type FireTargetController struct {
	switchable

	driver  MovementDriver
	states  *PlayerStateMachine
	pending *fireTarget
	logger  zerolog.Logger
}

// NewFireTargetController panics when driver or states is nil.
func NewFireTargetController(driver MovementDriver, states *PlayerStateMachine, logger zerolog.Logger) *FireTargetController {
	if driver == nil {
		panic("core: fire target controller needs a movement driver")
	}
	if states == nil {
		panic("core: fire target controller needs a state machine")
	}
	f := &FireTargetController{driver: driver, states: states, logger: logger}
	f.onDisable = f.Cancel
	states.OnEnter(netconfig.StateMovable, func(netconfig.PlayerState) {
		if f.pending != nil {
			f.TryFire()
		}
	})
	return f
}

// Pending returns the queued target point.
func (f *FireTargetController) Pending() (gamemath.Vec2, bool) {
	if f.pending == nil {
		return gamemath.Vec2{}, false
	}
	return f.pending.point, true
}

// Cancel drops the pending target.
func (f *FireTargetController) Cancel() {
	f.pending = nil
}

// SetFireDest records a target for an aim ability and starts moving toward
// it. It returns false for a nil, removed or non-aim ability, or while the
// controller is disabled.
func (f *FireTargetController) SetFireDest(point gamemath.Vec2, ability *AbilityController) bool {
	if !f.enabled || ability == nil || !ability.Alive() || ability.Kind() != netconfig.AbilityAim {
		return false
	}

	def := ability.Def()
	t := &fireTarget{
		point:       point,
		ability:     ability,
		minRange:    def.MinRange,
		maxRange:    def.MaxRange,
		maxAimAngle: def.MaxAimAngle,
	}
	if t.minRange <= 0 {
		t.minRange = config.Match.DefaultMinRange
	}
	if t.maxRange <= 0 {
		t.maxRange = config.Match.DefaultMaxRange
	}
	if t.maxAimAngle <= 0 {
		t.maxAimAngle = config.Match.DefaultMaxAimAngle
	}

	f.pending = t
	f.driver.MoveTo(point)
	f.TryFire()
	return true
}

// TryFire attempts to fire at the pending target. Out of range it moves
// toward the target; in range but misaligned it turns in place. Outside the
// movable state the target is kept and retried on re-entry.
func (f *FireTargetController) TryFire() bool {
	t := f.pending
	if !f.enabled || t == nil {
		return false
	}
	if !t.ability.Alive() {
		f.pending = nil
		return false
	}
	if f.states.Current() != netconfig.StateMovable {
		return false
	}

	origin := f.driver.Position()
	to := t.point.Sub(origin)
	dist := to.Len()

	if dist > t.maxRange {
		f.driver.MoveTo(t.point)
		return false
	}

	fireAngle := f.driver.Angle()
	if dist > 0 {
		fireAngle = to.Angle()
	}
	if math.Abs(gamemath.AngleDelta(f.driver.Angle(), fireAngle)) > t.maxAimAngle {
		f.driver.FaceAngle(fireAngle)
		return false
	}

	if !t.ability.CanFire() {
		f.driver.Halt()
		return false
	}

	point := gamemath.ClampToRange(origin, t.point, t.minRange, math.Inf(1), f.driver.Angle())
	f.driver.Halt()
	f.states.Switch(netconfig.StateFiring)
	f.pending = nil
	t.ability.Start(&point)

	f.logger.Debug().
		Str("ability", t.ability.ID()).
		Float64("x", point.X).
		Float64("y", point.Y).
		Float64("dist", dist).
		Msg("fired")
	return true
}

// Update retries the pending target each tick.
func (f *FireTargetController) Update(float64) {
	if f.pending != nil {
		f.TryFire()
	}
}
