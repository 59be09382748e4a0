package core

import (
	"math"

	"github.com/automoto/skirmish/config"
	"github.com/automoto/skirmish/shared/gamemath"
	"github.com/automoto/skirmish/shared/messages"
	"github.com/automoto/skirmish/shared/netconfig"
)

// ApplyDamage hits target for amount scaled by its damage scale. A hit that
// empties health kills the target and schedules a respawn. attacker may be
// nil for environmental damage.
func (m *Match) ApplyDamage(target, attacker *Player, amount int, abilityID string, at gamemath.Vec2) {
	if target == nil || !target.live || !target.States.IsAlive() || amount <= 0 {
		return
	}

	dealt := float64(amount) * target.DamageScale
	target.Health = math.Max(0, target.Health-dealt)

	var attackerID uint
	if attacker != nil {
		attackerID = m.networkID(attacker.Entity)
	}
	m.broadcast(messages.HitEvent{
		AttackerNetworkID: attackerID,
		TargetNetworkID:   m.networkID(target.Entity),
		AbilityID:         abilityID,
		Damage:            int(math.Round(dealt)),
		X:                 at.X,
		Y:                 at.Y,
	})

	if target.Health <= 0 {
		m.kill(target, attacker)
	}
}

func (m *Match) kill(target, killer *Player) {
	if target.States.Switch(netconfig.StateDead) == SwitchRejected {
		return
	}

	var killerID uint
	if killer != nil && killer != target {
		killerID = m.networkID(killer.Entity)
		m.scores[killer.Name]++
	}
	m.broadcast(messages.DeathEvent{
		VictimNetworkID: m.networkID(target.Entity),
		KillerNetworkID: killerID,
	})
	m.logger.Info().Str("victim", target.Name).Uint("killer", killerID).Msg("player died")

	m.sched.After(config.Player.RespawnDelay, func() {
		if !target.live || target.States.Current() != netconfig.StateDead {
			return
		}
		m.respawn(target)
	})
}

func (m *Match) respawn(p *Player) {
	spawn := m.nextSpawnPoint()
	p.Mover.Teleport(spawn)
	// Clients place the respawned player directly for one replicated tick.
	p.snapOnce = true
	p.Health = p.MaxHealth
	p.Energy = p.MaxEnergy
	p.DamageScale = 1
	p.States.Switch(netconfig.StateMovable)

	m.broadcast(messages.RespawnEvent{
		NetworkID: m.networkID(p.Entity),
		X:         spawn.X,
		Y:         spawn.Y,
	})
}

// Stun freezes a movable or firing player for seconds.
func (m *Match) Stun(p *Player, seconds float64) {
	if !p.live || p.States.Switch(netconfig.StateBusy) == SwitchRejected {
		return
	}
	p.busyGen++
	gen := p.busyGen
	m.sched.After(seconds, func() {
		if !p.live || p.busyGen != gen || p.States.Current() != netconfig.StateBusy {
			return
		}
		p.States.Switch(netconfig.StateMovable)
	})
}
