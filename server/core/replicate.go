package core

import (
	"maps"
	"math"

	"github.com/automoto/skirmish/shared/netcomponents"
)

// replicate copies simulation state into the synced components. It runs at
// the end of every tick, before the transport diffs the world.
func (m *Match) replicate() {
	for _, p := range m.players {
		m.writePlayer(p)
	}
	for _, p := range m.projectiles {
		m.writeProjectile(p)
	}
	m.writeGameState()
}

func (m *Match) writePlayer(p *Player) {
	if !m.world.Valid(p.Entity) {
		return
	}
	entry := m.world.Entry(p.Entity)

	pos := p.Mover.Position()
	netcomponents.NetTransform.Set(entry, &netcomponents.NetTransformData{
		X:     pos.X,
		Y:     pos.Y,
		Angle: p.Mover.Angle(),
		Speed: p.Mover.Speed(),
		Snap:  p.Snap() || p.snapOnce,
	})
	p.snapOnce = false

	netcomponents.NetPlayerState.Set(entry, &netcomponents.NetPlayerStateData{
		State:   p.States.Current(),
		Name:    p.Name,
		Health:  int(math.Ceil(p.Health)),
		Energy:  p.Energy,
		Loadout: p.Loadout,
	})

	slots := make([]netcomponents.NetAbilitySlot, len(p.Abilities))
	for i, a := range p.Abilities {
		slots[i] = a.Slot()
	}
	netcomponents.NetAbilities.Set(entry, &netcomponents.NetAbilitiesData{Slots: slots})
}

func (m *Match) writeGameState() {
	if !m.world.Valid(m.gameState) {
		return
	}
	entry := m.world.Entry(m.gameState)
	netcomponents.NetGameState.Set(entry, &netcomponents.NetGameStateData{
		ServerTime: m.sched.Now(),
		TickRate:   m.tickRate,
		MatchState: m.matchState,
		Scores:     maps.Clone(m.scores),
	})
}
