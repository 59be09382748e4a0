package core

import (
	"fmt"

	"github.com/automoto/skirmish/config"
	"github.com/automoto/skirmish/shared/netconfig"
)

// AbilityDef is the static description of an ability. Zero range or aim
// bounds fall back to the match defaults.
type AbilityDef struct {
	ID          string
	Kind        netconfig.AbilityKind
	Cooldown    float64 // seconds
	Duration    float64 // seconds, 0 = until ended explicitly
	MinRange    float64
	MaxRange    float64
	MaxAimAngle float64 // radians
	EnergyCost  float64
	Params      AbilityParams
}

// AbilityParams is the closed set of effect parameters.
type AbilityParams interface {
	abilityParams()
}

// RegenParams heals the owner while the passive is active.
type RegenParams struct {
	HealthPerSecond float64
}

// DashParams scales movement speed while active.
type DashParams struct {
	SpeedScale float64
}

// ShieldParams scales incoming damage while active.
type ShieldParams struct {
	DamageScale float64
}

// BoomerangParams drives the thrown projectile. The ability stays active
// until the projectile is caught or lost.
type BoomerangParams struct {
	Speed       float64
	ReturnSpeed float64
	CatchRadius float64
	Size        float64
	Lifetime    float64
	Damage      int
	HitStun     float64
}

// BlinkParams teleports the owner to the target point.
type BlinkParams struct{}

func (RegenParams) abilityParams()     {}
func (DashParams) abilityParams()      {}
func (ShieldParams) abilityParams()    {}
func (BoomerangParams) abilityParams() {}
func (BlinkParams) abilityParams()     {}

// DefaultCatalog returns the built-in abilities keyed by ID, reading tunables
// from the current configuration.
func DefaultCatalog() map[string]AbilityDef {
	defs := []AbilityDef{
		{
			ID:     "regen",
			Kind:   netconfig.AbilityPassive,
			Params: RegenParams{HealthPerSecond: 2},
		},
		{
			ID:       "dash",
			Kind:     netconfig.AbilityTrigger,
			Cooldown: 4,
			Duration: 0.5,
			Params:   DashParams{SpeedScale: 2.5},
		},
		{
			ID:       "shield",
			Kind:     netconfig.AbilityTrigger,
			Cooldown: 8,
			Duration: 2,
			Params:   ShieldParams{DamageScale: 0.25},
		},
		{
			ID:          "boomerang",
			Kind:        netconfig.AbilityAim,
			Cooldown:    1,
			MinRange:    24,
			MaxRange:    300,
			MaxAimAngle: config.Match.DefaultMaxAimAngle,
			EnergyCost:  15,
			Params: BoomerangParams{
				Speed:       config.Boomerang.Speed,
				ReturnSpeed: config.Boomerang.ReturnSpeed,
				CatchRadius: config.Boomerang.CatchRadius,
				Size:        config.Boomerang.Size,
				Lifetime:    config.Boomerang.Lifetime,
				Damage:      config.Boomerang.Damage,
				HitStun:     0.3,
			},
		},
		{
			ID:          "blink",
			Kind:        netconfig.AbilityAim,
			Cooldown:    6,
			MaxRange:    160,
			MaxAimAngle: config.Match.DefaultMaxAimAngle,
			EnergyCost:  30,
			Params:      BlinkParams{},
		},
	}

	out := make(map[string]AbilityDef, len(defs))
	for _, d := range defs {
		out[d.ID] = d
	}
	return out
}

// newEffect builds the effect for def owned by p.
func newEffect(def AbilityDef, p *Player, m *Match) (AbilityEffect, error) {
	switch params := def.Params.(type) {
	case RegenParams:
		return &regenEffect{owner: p, params: params}, nil
	case DashParams:
		return &dashEffect{owner: p, params: params}, nil
	case ShieldParams:
		return &shieldEffect{owner: p, params: params}, nil
	case BoomerangParams:
		return &boomerangEffect{owner: p, match: m, cost: def.EnergyCost, params: params}, nil
	case BlinkParams:
		return &blinkEffect{owner: p, match: m, cost: def.EnergyCost}, nil
	case nil:
		return nil, fmt.Errorf("ability %q has no params", def.ID)
	default:
		return nil, fmt.Errorf("ability %q: unsupported params %T", def.ID, params)
	}
}
