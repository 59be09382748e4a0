package core

import (
	"math"

	"github.com/automoto/skirmish/config"
	"github.com/automoto/skirmish/shared/gamemath"
	"github.com/automoto/skirmish/shared/netconfig"
	"github.com/rs/zerolog"
	"github.com/yohamta/donburi"
)

// Player is the server-side aggregate for one connected player. It is not a
// donburi component; the replicated view is written by the match each tick.
type Player struct {
	Entity  donburi.Entity
	Name    string
	Loadout string

	Health      float64
	MaxHealth   float64
	Energy      float64
	MaxEnergy   float64
	DamageScale float64

	Mover     *Mover
	States    *PlayerStateMachine
	Fire      *FireTargetController
	Abilities []*AbilityController

	loadout             *abilitySet
	authoritativeFollow *Toggle
	snapFollow          *Toggle
	snap                bool
	snapOnce            bool

	live      bool
	firingGen uint64
	busyGen   uint64

	logger zerolog.Logger
}

// abilitySet enables or disables every ability of the current loadout.
type abilitySet struct {
	switchable
	p *Player
}

func newAbilitySet(p *Player) *abilitySet {
	s := &abilitySet{p: p}
	s.onEnable = func() {
		for _, a := range p.Abilities {
			a.Enable()
		}
	}
	s.onDisable = func() {
		for _, a := range p.Abilities {
			a.Disable()
		}
	}
	return s
}

func newPlayer(entity donburi.Entity, name string, level *ServerLevel, spawn gamemath.Vec2, clock Clock, logger zerolog.Logger) *Player {
	logger = logger.With().Str("player", name).Logger()
	p := &Player{
		Entity:      entity,
		Name:        name,
		Health:      float64(config.Player.Health),
		MaxHealth:   float64(config.Player.Health),
		Energy:      config.Player.Energy,
		MaxEnergy:   config.Player.Energy,
		DamageScale: 1,
		Mover:       NewMover(level, spawn, 0),
		States:      NewPlayerStateMachine(logger),
		live:        true,
		logger:      logger,
	}
	p.Fire = NewFireTargetController(p.Mover, p.States, logger)
	p.loadout = newAbilitySet(p)
	p.authoritativeFollow = NewToggle(func() { p.snap = false }, nil)
	p.snapFollow = NewToggle(func() { p.snap = true }, func() { p.snap = false })
	p.wireStates(clock)
	return p
}

// wireStates installs the per-state behaviour switches.
func (p *Player) wireStates(clock Clock) {
	sm := p.States

	sm.SetEffects(netconfig.StateDisabled, []StateEffect{
		DisableEffect(p.Mover),
		DisableEffect(p.Fire),
		DisableEffect(p.loadout),
	}, nil)

	sm.SetEffects(netconfig.StateMovable, []StateEffect{
		EnableEffect(p.Mover),
		EnableEffect(p.Fire),
		EnableEffect(p.loadout),
		EnableEffect(p.authoritativeFollow),
	}, nil)

	sm.OnEnter(netconfig.StateFiring, func(netconfig.PlayerState) {
		p.firingGen++
		gen := p.firingGen
		clock.After(config.Match.FireLockSeconds, func() {
			if !p.live || p.firingGen != gen || sm.Current() != netconfig.StateFiring {
				return
			}
			sm.Switch(netconfig.StateMovable)
		})
	})

	sm.SetEffects(netconfig.StateBusy, []StateEffect{
		DisableEffect(p.Fire),
		DisableEffect(p.Mover),
	}, []StateEffect{
		EnableEffect(p.Mover),
	})

	sm.SetEffects(netconfig.StateDead, []StateEffect{
		DisableEffect(p.Fire),
		DisableEffect(p.Mover),
		DisableEffect(p.loadout),
		DisableEffect(p.authoritativeFollow),
		EnableEffect(p.snapFollow),
	}, []StateEffect{
		DisableEffect(p.snapFollow),
	})
}

// Snap reports whether clients should place the player directly rather than
// interpolate.
func (p *Player) Snap() bool { return p.snap }

// Alive reports whether the player is still part of the match.
func (p *Player) Alive() bool { return p.live }

// Ability returns the loadout ability with the given ID.
func (p *Player) Ability(id string) *AbilityController {
	for _, a := range p.Abilities {
		if a.ID() == id {
			return a
		}
	}
	return nil
}

func (p *Player) Heal(amount float64) {
	if amount <= 0 || !p.States.IsAlive() {
		return
	}
	p.Health = math.Min(p.MaxHealth, p.Health+amount)
}

// SpendEnergy deducts cost if affordable.
func (p *Player) SpendEnergy(cost float64) bool {
	if cost > p.Energy {
		return false
	}
	p.Energy -= cost
	return true
}

// Update advances movement, pending fire and abilities.
func (p *Player) Update(dt float64) {
	if !p.live {
		return
	}
	p.Mover.Update(dt)
	p.Fire.Update(dt)
	for _, a := range p.Abilities {
		a.Update(dt)
	}
	if p.States.IsAlive() {
		p.Energy = math.Min(p.MaxEnergy, p.Energy+config.Player.EnergyRegen*dt)
	}
}

// destroy retires every behaviour; pending timers see !live and do nothing.
func (p *Player) destroy() {
	if !p.live {
		return
	}
	p.States.Switch(netconfig.StateDisabled)
	for _, a := range p.Abilities {
		a.Remove()
	}
	p.Fire.Disable()
	p.Mover.Detach()
	p.live = false
}
