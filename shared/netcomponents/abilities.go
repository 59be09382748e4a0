package netcomponents

import (
	"github.com/automoto/skirmish/shared/netconfig"
	"github.com/yohamta/donburi"
)

// NetAbilitySlot is the read-only view of one ability for HUD countdowns.
type NetAbilitySlot struct {
	ID       string
	Kind     netconfig.AbilityKind
	State    netconfig.AbilityState
	Cooldown float64 // seconds
	Duration float64 // seconds, 0 = until ended
	LastUsed float64 // server time the ability last started
	ReadyAt  float64 // server time the pending cooldown ends
}

// CooldownRemaining returns the seconds left before the slot is usable
// again, measured against the replicated server clock.
func (s NetAbilitySlot) CooldownRemaining(serverNow float64) float64 {
	if s.State != netconfig.AbilityCooldown {
		return 0
	}
	return positive(s.ReadyAt - serverNow)
}

// ActiveRemaining returns the seconds left on a timed active ability.
func (s NetAbilitySlot) ActiveRemaining(serverNow float64) float64 {
	if s.State != netconfig.AbilityActive || s.Duration <= 0 {
		return 0
	}
	return positive(s.LastUsed + s.Duration - serverNow)
}

func positive(v float64) float64 {
	if v > 0 {
		return v
	}
	return 0
}

type NetAbilitiesData struct {
	Slots []NetAbilitySlot
}

var NetAbilities = donburi.NewComponentType[NetAbilitiesData]()
