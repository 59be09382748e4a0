package core

import (
	"github.com/automoto/skirmish/shared/gamemath"
	"github.com/automoto/skirmish/shared/netcomponents"
	"github.com/automoto/skirmish/shared/netconfig"
	"github.com/rs/zerolog"
)

//go:generate go tool mockgen -destination=./mocks/effect_mock.go -package=mocks . AbilityEffect

// AbilityEffect is the gameplay half of an ability. The controller owns the
// lifecycle and calls these hooks; effects never change lifecycle state except
// through the controller (for example by calling End when a projectile
// returns).
type AbilityEffect interface {
	OnStart(point *gamemath.Vec2)
	OnEnd()
	OnUpdate(dt float64)
	CanUse() bool
	CanFire() bool
}

// PrimaryHandler is implemented by effects that react to the primary action
// while active.
type PrimaryHandler interface {
	OnPrimary(actor *Player, point gamemath.Vec2)
}

// controllerBinder is implemented by effects that need their controller, e.g.
// to end themselves.
type controllerBinder interface {
	bindController(c *AbilityController)
}

// BaseEffect provides permissive no-op hooks for embedding.
type BaseEffect struct{}

func (BaseEffect) OnStart(*gamemath.Vec2) {}
func (BaseEffect) OnEnd()                 {}
func (BaseEffect) OnUpdate(float64)       {}
func (BaseEffect) CanUse() bool           { return true }
func (BaseEffect) CanFire() bool          { return true }

// AbilityController runs the available → active → cooldown → available
// lifecycle of one ability instance, plus the terminal removed state.
//
// Invalid calls (Start outside available, End outside active) are silent
// no-ops. Each cooldown schedules exactly one timer; the timer checks liveness
// and a generation counter so a removed controller is never revived.
type AbilityController struct {
	def    AbilityDef
	effect AbilityEffect
	clock  Clock
	logger zerolog.Logger

	state    netconfig.AbilityState
	lastUsed float64
	readyAt  float64
	dest     *gamemath.Vec2
	enabled  bool
	live     bool
	gen      uint64

	onChange func(c *AbilityController, from, to netconfig.AbilityState)
}

// NewAbilityController wires an effect to the lifecycle. A nil effect or clock
// is a wiring bug and panics.
func NewAbilityController(def AbilityDef, effect AbilityEffect, clock Clock, logger zerolog.Logger) *AbilityController {
	if effect == nil {
		panic("core: ability " + def.ID + " has no effect")
	}
	if clock == nil {
		panic("core: ability " + def.ID + " has no clock")
	}
	c := &AbilityController{
		def:    def,
		effect: effect,
		clock:  clock,
		logger: logger.With().Str("ability", def.ID).Logger(),
		state:  netconfig.AbilityAvailable,
		live:   true,
	}
	if b, ok := effect.(controllerBinder); ok {
		b.bindController(c)
	}
	return c
}

func (c *AbilityController) ID() string                    { return c.def.ID }
func (c *AbilityController) Def() AbilityDef               { return c.def }
func (c *AbilityController) Kind() netconfig.AbilityKind   { return c.def.Kind }
func (c *AbilityController) State() netconfig.AbilityState { return c.state }
func (c *AbilityController) LastUsed() float64             { return c.lastUsed }
func (c *AbilityController) Enabled() bool                 { return c.enabled }

// Alive reports whether the controller has not been removed.
func (c *AbilityController) Alive() bool { return c.live }

// Destination returns the point the active ability was started with.
func (c *AbilityController) Destination() (gamemath.Vec2, bool) {
	if c.dest == nil {
		return gamemath.Vec2{}, false
	}
	return *c.dest, true
}

// OnStateChange registers a listener for lifecycle transitions.
func (c *AbilityController) OnStateChange(fn func(c *AbilityController, from, to netconfig.AbilityState)) {
	c.onChange = fn
}

// CanUse reports whether Start would take effect. Passives are never used
// explicitly.
func (c *AbilityController) CanUse() bool {
	return c.live &&
		c.enabled &&
		c.def.Kind != netconfig.AbilityPassive &&
		c.state == netconfig.AbilityAvailable &&
		c.effect.CanUse()
}

// CanFire adds the effect's firing precondition (resource cost, etc.).
func (c *AbilityController) CanFire() bool {
	return c.CanUse() && c.effect.CanFire()
}

// Start activates the ability. Aim abilities without a point end at once
// without applying their effect.
func (c *AbilityController) Start(point *gamemath.Vec2) {
	if !c.live || !c.enabled || c.def.Kind == netconfig.AbilityPassive || c.state != netconfig.AbilityAvailable {
		c.logger.Debug().Str("state", c.state.String()).Bool("enabled", c.enabled).Msg("start ignored")
		return
	}

	c.lastUsed = c.clock.Now()
	c.dest = nil
	if point != nil {
		p := *point
		c.dest = &p
	}
	c.setState(netconfig.AbilityActive)

	if c.def.Kind == netconfig.AbilityAim && c.dest == nil {
		c.logger.Debug().Msg("aim ability started without a target, cancelling")
		c.End()
		return
	}

	var arg *gamemath.Vec2
	if c.dest != nil {
		p := *c.dest
		arg = &p
	}
	c.effect.OnStart(arg)
}

// End finishes an active trigger or aim ability and starts its cooldown.
// Passives only leave the active state through Disable or Remove.
func (c *AbilityController) End() {
	if !c.live || c.state != netconfig.AbilityActive || c.def.Kind == netconfig.AbilityPassive {
		return
	}
	c.effect.OnEnd()
	if c.state != netconfig.AbilityActive {
		return
	}
	c.dest = nil
	c.beginCooldown()
}

func (c *AbilityController) beginCooldown() {
	if c.def.Cooldown <= 0 {
		c.readyAt = c.clock.Now()
		c.setState(netconfig.AbilityAvailable)
		return
	}

	c.gen++
	gen := c.gen
	c.readyAt = c.clock.Now() + c.def.Cooldown
	c.setState(netconfig.AbilityCooldown)

	c.clock.After(c.def.Cooldown, func() {
		if !c.live || c.gen != gen || c.state != netconfig.AbilityCooldown {
			return
		}
		c.setState(netconfig.AbilityAvailable)
	})
}

// Update runs the effect while active and expires timed abilities.
func (c *AbilityController) Update(dt float64) {
	if !c.live || c.state != netconfig.AbilityActive {
		return
	}
	c.effect.OnUpdate(dt)
	if c.state != netconfig.AbilityActive || c.def.Kind == netconfig.AbilityPassive {
		return
	}
	if c.def.Duration > 0 && c.clock.Now()-c.lastUsed >= c.def.Duration {
		c.End()
	}
}

// Enable arms the ability. Passives activate here, once per enable.
func (c *AbilityController) Enable() {
	if !c.live || c.enabled {
		return
	}
	c.enabled = true
	if c.def.Kind == netconfig.AbilityPassive && c.state == netconfig.AbilityAvailable {
		c.lastUsed = c.clock.Now()
		c.setState(netconfig.AbilityActive)
		c.effect.OnStart(nil)
	}
}

// Disable disarms the ability. An active passive releases its effect and goes
// dormant; an active trigger or aim ability ends and cools down.
func (c *AbilityController) Disable() {
	if !c.live || !c.enabled {
		return
	}
	c.enabled = false
	if c.state != netconfig.AbilityActive {
		return
	}
	if c.def.Kind == netconfig.AbilityPassive {
		c.effect.OnEnd()
		c.setState(netconfig.AbilityAvailable)
		return
	}
	c.End()
}

// Primary forwards the primary action to an active effect that handles it.
func (c *AbilityController) Primary(actor *Player, point gamemath.Vec2) bool {
	if !c.live || c.state != netconfig.AbilityActive {
		return false
	}
	h, ok := c.effect.(PrimaryHandler)
	if !ok {
		return false
	}
	h.OnPrimary(actor, point)
	return true
}

// Remove retires the ability for good, releasing an active effect first.
// Pending cooldown timers become no-ops.
func (c *AbilityController) Remove() {
	if !c.live {
		return
	}
	if c.state == netconfig.AbilityActive {
		c.effect.OnEnd()
	}
	c.live = false
	c.enabled = false
	c.dest = nil
	c.setState(netconfig.AbilityRemoved)
}

// Slot returns the replicated read-only view for HUDs.
func (c *AbilityController) Slot() netcomponents.NetAbilitySlot {
	return netcomponents.NetAbilitySlot{
		ID:       c.def.ID,
		Kind:     c.def.Kind,
		State:    c.state,
		Cooldown: c.def.Cooldown,
		Duration: c.def.Duration,
		LastUsed: c.lastUsed,
		ReadyAt:  c.readyAt,
	}
}

func (c *AbilityController) setState(to netconfig.AbilityState) {
	from := c.state
	if from == to {
		return
	}
	c.state = to
	c.logger.Debug().Str("from", from.String()).Str("to", to.String()).Msg("ability state")
	if c.onChange != nil {
		c.onChange(c, from, to)
	}
}
