package core

import (
	"github.com/automoto/skirmish/shared/gamemath"
)

type regenEffect struct {
	BaseEffect
	owner  *Player
	params RegenParams
}

func (e *regenEffect) OnUpdate(dt float64) {
	e.owner.Heal(e.params.HealthPerSecond * dt)
}

type dashEffect struct {
	BaseEffect
	owner  *Player
	params DashParams
}

func (e *dashEffect) OnStart(*gamemath.Vec2) {
	e.owner.Mover.SpeedScale = e.params.SpeedScale
}

func (e *dashEffect) OnEnd() {
	e.owner.Mover.SpeedScale = 1
}

type shieldEffect struct {
	BaseEffect
	owner  *Player
	params ShieldParams
}

func (e *shieldEffect) OnStart(*gamemath.Vec2) {
	e.owner.DamageScale = e.params.DamageScale
}

func (e *shieldEffect) OnEnd() {
	e.owner.DamageScale = 1
}

// boomerangEffect throws a projectile and stays active until it is caught.
// The primary action recalls it early.
type boomerangEffect struct {
	BaseEffect
	ctrl   *AbilityController
	owner  *Player
	match  *Match
	cost   float64
	params BoomerangParams
	proj   *Projectile
}

func (e *boomerangEffect) bindController(c *AbilityController) { e.ctrl = c }

func (e *boomerangEffect) CanFire() bool {
	return e.owner.Energy >= e.cost
}

func (e *boomerangEffect) OnStart(point *gamemath.Vec2) {
	if point == nil {
		return
	}
	e.owner.SpendEnergy(e.cost)
	e.proj = e.match.throwBoomerang(e.owner, *point, e.params, e.caught)
}

func (e *boomerangEffect) caught() {
	e.proj = nil
	if e.ctrl != nil {
		e.ctrl.End()
	}
}

func (e *boomerangEffect) OnEnd() {
	if e.proj == nil {
		return
	}
	p := e.proj
	e.proj = nil
	p.onDone = nil
	p.Destroy = true
}

func (e *boomerangEffect) OnPrimary(_ *Player, _ gamemath.Vec2) {
	if e.proj != nil {
		e.proj.Recall()
	}
}

// blinkEffect teleports to the target point and ends immediately. Points
// inside walls are refused but still cost the cooldown.
type blinkEffect struct {
	BaseEffect
	ctrl  *AbilityController
	owner *Player
	match *Match
	cost  float64
}

func (e *blinkEffect) bindController(c *AbilityController) { e.ctrl = c }

func (e *blinkEffect) CanFire() bool {
	return e.owner.Energy >= e.cost
}

func (e *blinkEffect) OnStart(point *gamemath.Vec2) {
	if point != nil {
		if e.match.level != nil && e.match.level.Blocked(*point, e.owner.Mover.Width(), e.owner.Mover.Height()) {
			e.owner.logger.Debug().Float64("x", point.X).Float64("y", point.Y).Msg("blink target blocked")
		} else {
			e.owner.SpendEnergy(e.cost)
			e.owner.Mover.Teleport(*point)
		}
	}
	if e.ctrl != nil {
		e.ctrl.End()
	}
}
