package systems

import (
	"github.com/automoto/skirmish/shared/netcomponents"
	"github.com/automoto/skirmish/shared/netconfig"
	"github.com/leap-fish/necs/esync"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// AbilityCountdown is the read-only HUD view of one ability slot.
type AbilityCountdown struct {
	ID        string
	Kind      netconfig.AbilityKind
	State     netconfig.AbilityState
	Cooldown  float64
	Duration  float64
	LastUsed  float64
	Remaining float64 // seconds left on the active duration or cooldown
}

// HUD holds what a renderer would draw for the local player.
type HUD struct {
	Health     int
	Energy     float64
	State      netconfig.PlayerState
	Abilities  []AbilityCountdown
	ServerTime float64
	Scores     map[string]int
}

// ServerNow returns the replicated server clock, or 0 before the first game
// state arrives.
func ServerNow(world donburi.World) float64 {
	entry, ok := netcomponents.NetGameState.First(world)
	if !ok {
		return 0
	}
	return netcomponents.NetGameState.Get(entry).ServerTime
}

// AbilityCountdowns lists the local view of an entity's ability slots at
// server time now.
func AbilityCountdowns(entry *donburi.Entry, now float64) []AbilityCountdown {
	if entry == nil || !entry.HasComponent(netcomponents.NetAbilities) {
		return nil
	}
	slots := netcomponents.NetAbilities.Get(entry).Slots
	out := make([]AbilityCountdown, len(slots))
	for i, s := range slots {
		out[i] = AbilityCountdown{
			ID:        s.ID,
			Kind:      s.Kind,
			State:     s.State,
			Cooldown:  s.Cooldown,
			Duration:  s.Duration,
			LastUsed:  s.LastUsed,
			Remaining: s.CooldownRemaining(now) + s.ActiveRemaining(now),
		}
	}
	return out
}

// NewHUDSystem returns an update system that refreshes hud from the local
// player's replicated components every frame.
func NewHUDSystem(localNetID func() esync.NetworkId, hud *HUD) func(*ecs.ECS) {
	return func(e *ecs.ECS) {
		now := ServerNow(e.World)
		hud.ServerTime = now
		if entry, ok := netcomponents.NetGameState.First(e.World); ok {
			hud.Scores = netcomponents.NetGameState.Get(entry).Scores
		}

		entity := esync.FindByNetworkId(e.World, localNetID())
		if !e.World.Valid(entity) {
			hud.Abilities = nil
			return
		}
		entry := e.World.Entry(entity)
		if entry.HasComponent(netcomponents.NetPlayerState) {
			ps := netcomponents.NetPlayerState.Get(entry)
			hud.Health = ps.Health
			hud.Energy = ps.Energy
			hud.State = ps.State
		}
		hud.Abilities = AbilityCountdowns(entry, now)
	}
}
