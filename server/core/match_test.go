package core

import (
	"errors"
	"math"
	"testing"

	"github.com/automoto/skirmish/config"
	"github.com/automoto/skirmish/shared/gamemath"
	"github.com/automoto/skirmish/shared/messages"
	"github.com/automoto/skirmish/shared/netcomponents"
	"github.com/automoto/skirmish/shared/netconfig"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yohamta/donburi"
)

type recordingBroadcaster struct {
	msgs []any
}

func (r *recordingBroadcaster) Broadcast(msg any) {
	r.msgs = append(r.msgs, msg)
}

func eventsOf[T any](r *recordingBroadcaster) []T {
	var out []T
	for _, m := range r.msgs {
		if v, ok := m.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

func newTestMatch(t *testing.T) (*Match, *recordingBroadcaster) {
	t.Helper()
	t.Cleanup(config.Reset)
	events := &recordingBroadcaster{}
	m := NewMatch(donburi.NewWorld(), newTestArena(), 20, zerolog.Nop(), WithBroadcaster(events))
	return m, events
}

func tickFor(m *Match, seconds float64) {
	const dt = 0.05
	for elapsed := 0.0; elapsed < seconds; elapsed += dt {
		m.Tick(dt)
	}
}

func TestMatch_SpawnPlayerWithDefaultLoadout(t *testing.T) {
	m, _ := newTestMatch(t)

	p, err := m.SpawnPlayer("alice", "")
	require.NoError(t, err)

	assert.Equal(t, "striker", p.Loadout)
	assert.Equal(t, netconfig.StateMovable, p.States.Current())
	require.Len(t, p.Abilities, 3)
	assert.Equal(t, netconfig.AbilityActive, p.Ability("regen").State())
	assert.Equal(t, netconfig.AbilityAvailable, p.Ability("dash").State())
	assert.Same(t, p, m.Player(p.Entity))
	assert.Equal(t, m.Level().Spawn(0), p.Mover.Position())
}

func TestMatch_SpawnRejections(t *testing.T) {
	m, _ := newTestMatch(t)

	_, err := m.SpawnPlayer("bob", "sniper")
	assert.True(t, errors.Is(err, ErrUnknownLoadout))
	assert.Empty(t, m.Players())

	config.Match.MaxPlayers = 1
	_, err = m.SpawnPlayer("carol", "")
	require.NoError(t, err)
	_, err = m.SpawnPlayer("dave", "")
	assert.ErrorIs(t, err, ErrMatchFull)
}

func TestMatch_ReplicatesComponents(t *testing.T) {
	m, _ := newTestMatch(t)
	p, err := m.SpawnPlayer("alice", "")
	require.NoError(t, err)

	m.HandleMove(p, gamemath.V(300, 64))
	m.Tick(0.05)

	entry := m.world.Entry(p.Entity)
	tr := netcomponents.NetTransform.Get(entry)
	assert.InDelta(t, p.Mover.Position().X, tr.X, 1e-9)
	assert.InDelta(t, config.Player.MoveSpeed, tr.Speed, 1e-9)
	assert.False(t, tr.Snap)

	st := netcomponents.NetPlayerState.Get(entry)
	assert.Equal(t, netconfig.StateMovable, st.State)
	assert.Equal(t, "alice", st.Name)
	assert.Equal(t, 100, st.Health)

	slots := netcomponents.NetAbilities.Get(entry).Slots
	require.Len(t, slots, 3)
	assert.Equal(t, "regen", slots[0].ID)

	gs := netcomponents.NetGameState.Get(m.world.Entry(m.gameState))
	assert.InDelta(t, 0.05, gs.ServerTime, 1e-12)
	assert.Equal(t, netconfig.MatchStatePlaying, gs.MatchState)
}

func TestMatch_RemoveWithPendingCooldown(t *testing.T) {
	m, _ := newTestMatch(t)
	p, err := m.SpawnPlayer("alice", "")
	require.NoError(t, err)

	dash := p.Ability("dash")
	require.True(t, m.HandleFire(p, "dash", nil))
	assert.InDelta(t, 2.5, p.Mover.SpeedScale, 1e-9)

	tickFor(m, 0.6)
	require.Equal(t, netconfig.AbilityCooldown, dash.State())
	assert.InDelta(t, 1, p.Mover.SpeedScale, 1e-9)

	require.Equal(t, netconfig.MatchStatePlaying, m.State())
	require.True(t, m.RemovePlayer(p.Entity))
	assert.False(t, m.world.Valid(p.Entity))
	assert.Nil(t, m.Player(p.Entity))
	assert.Equal(t, netconfig.MatchStateWaiting, m.State())

	assert.NotPanics(t, func() { tickFor(m, 5) })
	assert.Equal(t, netconfig.AbilityRemoved, dash.State())
	assert.False(t, m.RemovePlayer(p.Entity))
}

func TestMatch_DamageDeathAndRespawn(t *testing.T) {
	m, events := newTestMatch(t)
	attacker, err := m.SpawnPlayer("alice", "")
	require.NoError(t, err)
	victim, err := m.SpawnPlayer("bob", "")
	require.NoError(t, err)

	m.ApplyDamage(victim, attacker, 30, "test", victim.Mover.Position())
	assert.InDelta(t, 70, victim.Health, 1e-9)
	assert.Len(t, eventsOf[messages.HitEvent](events), 1)

	m.ApplyDamage(victim, attacker, 500, "test", victim.Mover.Position())
	assert.Equal(t, netconfig.StateDead, victim.States.Current())
	assert.True(t, victim.Snap())
	assert.Equal(t, 1, m.Scores()["alice"])
	assert.Len(t, eventsOf[messages.DeathEvent](events), 1)

	// The dead take no further damage.
	m.ApplyDamage(victim, attacker, 10, "test", victim.Mover.Position())
	assert.Len(t, eventsOf[messages.HitEvent](events), 2)

	tickFor(m, config.Player.RespawnDelay+0.1)
	assert.Equal(t, netconfig.StateMovable, victim.States.Current())
	assert.InDelta(t, victim.MaxHealth, victim.Health, 1e-9)
	assert.False(t, victim.Snap())
	assert.Len(t, eventsOf[messages.RespawnEvent](events), 1)
}

func TestMatch_RespawnReplicatesOneSnapTick(t *testing.T) {
	m, events := newTestMatch(t)
	victim, err := m.SpawnPlayer("bob", "")
	require.NoError(t, err)

	m.ApplyDamage(victim, nil, 500, "fall", victim.Mover.Position())
	m.Tick(0.05)
	entry := m.world.Entry(victim.Entity)
	require.True(t, netcomponents.NetTransform.Get(entry).Snap)

	for i := 0; victim.States.Current() == netconfig.StateDead; i++ {
		require.Less(t, i, 1000)
		m.Tick(0.05)
	}
	respawns := eventsOf[messages.RespawnEvent](events)
	require.Len(t, respawns, 1)

	tr := netcomponents.NetTransform.Get(entry)
	assert.True(t, tr.Snap)
	assert.InDelta(t, respawns[0].X, tr.X, 1e-9)
	assert.InDelta(t, respawns[0].Y, tr.Y, 1e-9)
	assert.False(t, victim.Snap())

	m.Tick(0.05)
	tr = netcomponents.NetTransform.Get(entry)
	assert.False(t, tr.Snap)
	assert.InDelta(t, respawns[0].X, tr.X, 1e-9)
}

func TestMatch_RespawnSkippedAfterRemoval(t *testing.T) {
	m, events := newTestMatch(t)
	victim, err := m.SpawnPlayer("bob", "")
	require.NoError(t, err)

	m.ApplyDamage(victim, nil, 500, "fall", victim.Mover.Position())
	require.True(t, m.RemovePlayer(victim.Entity))

	assert.NotPanics(t, func() { tickFor(m, config.Player.RespawnDelay+1) })
	assert.Empty(t, eventsOf[messages.RespawnEvent](events))
}

func TestMatch_ShieldScalesDamage(t *testing.T) {
	m, _ := newTestMatch(t)
	p, err := m.SpawnPlayer("wally", "warden")
	require.NoError(t, err)

	require.True(t, m.HandleFire(p, "shield", nil))
	m.ApplyDamage(p, nil, 20, "test", gamemath.Vec2{})
	assert.InDelta(t, 95, p.Health, 1e-9)

	tickFor(m, 2.1)
	assert.Equal(t, netconfig.AbilityCooldown, p.Ability("shield").State())
	assert.InDelta(t, 1, p.DamageScale, 1e-9)
}

func TestMatch_SwapLoadout(t *testing.T) {
	m, _ := newTestMatch(t)
	p, err := m.SpawnPlayer("alice", "striker")
	require.NoError(t, err)

	old := p.Ability("dash")
	require.True(t, m.HandleFire(p, "dash", nil))

	require.NoError(t, m.SwapLoadout(p, "warden"))
	assert.Equal(t, "warden", p.Loadout)
	assert.Equal(t, netconfig.AbilityRemoved, old.State())
	assert.Nil(t, p.Ability("dash"))
	assert.Equal(t, netconfig.AbilityActive, p.Ability("regen").State())
	assert.True(t, p.Ability("blink").Enabled())

	assert.ErrorIs(t, m.SwapLoadout(p, "nope"), ErrUnknownLoadout)
	assert.Equal(t, "warden", p.Loadout)
}

func TestMatch_AimWithoutTargetIsCancelled(t *testing.T) {
	m, events := newTestMatch(t)
	p, err := m.SpawnPlayer("alice", "")
	require.NoError(t, err)

	require.True(t, m.HandleFire(p, "boomerang", nil))
	assert.Equal(t, netconfig.AbilityCooldown, p.Ability("boomerang").State())
	assert.Empty(t, m.projectiles)
	assert.Len(t, eventsOf[messages.AbilityEndedEvent](events), 1)

	assert.False(t, m.HandleFire(p, "missing", nil))
	assert.False(t, m.HandleFire(p, "regen", nil))
}

func TestMatch_MoveOnlyWhileMovable(t *testing.T) {
	m, _ := newTestMatch(t)
	p, err := m.SpawnPlayer("alice", "")
	require.NoError(t, err)

	m.Stun(p, 0.3)
	assert.False(t, m.HandleMove(p, gamemath.V(300, 300)))

	tickFor(m, 0.35)
	assert.Equal(t, netconfig.StateMovable, p.States.Current())
	assert.True(t, m.HandleMove(p, gamemath.V(300, 300)))
}

func TestMatch_BoomerangHitsAndReturns(t *testing.T) {
	m, events := newTestMatch(t)
	thrower, err := m.SpawnPlayer("alice", "striker")
	require.NoError(t, err)
	target, err := m.SpawnPlayer("bob", "striker")
	require.NoError(t, err)

	origin := thrower.Mover.Position()
	target.Mover.Teleport(origin.Add(gamemath.V(136, 0)))
	boomerang := thrower.Ability("boomerang")

	aim := target.Mover.Position()
	require.True(t, m.HandleFire(thrower, "boomerang", &aim))
	require.Equal(t, netconfig.AbilityActive, boomerang.State())
	require.Len(t, m.projectiles, 1)
	assert.Less(t, thrower.Energy, thrower.MaxEnergy)

	tickFor(m, 0.5)
	assert.Less(t, target.Health, target.MaxHealth)
	hits := eventsOf[messages.HitEvent](events)
	require.Len(t, hits, 1)
	assert.Equal(t, "boomerang", hits[0].AbilityID)

	tickFor(m, 1)
	assert.Empty(t, m.projectiles)
	assert.NotEqual(t, netconfig.AbilityActive, boomerang.State())
	assert.Len(t, eventsOf[messages.AbilityEndedEvent](events), 1)
}

func TestMatch_BoomerangRecall(t *testing.T) {
	m, _ := newTestMatch(t)
	p, err := m.SpawnPlayer("alice", "")
	require.NoError(t, err)

	aim := p.Mover.Position().Add(gamemath.V(250, 0))
	require.True(t, m.HandleFire(p, "boomerang", &aim))
	m.Tick(0.05)
	m.Tick(0.05)

	require.True(t, m.HandlePrimary(p, "boomerang", gamemath.Vec2{}))
	assert.Equal(t, netconfig.ProjectileInbound, m.projectiles[0].State)

	tickFor(m, 0.5)
	assert.Empty(t, m.projectiles)
	assert.Equal(t, netconfig.AbilityCooldown, p.Ability("boomerang").State())
}

func TestMatch_RemovePlayerDropsProjectile(t *testing.T) {
	m, _ := newTestMatch(t)
	p, err := m.SpawnPlayer("alice", "")
	require.NoError(t, err)

	aim := p.Mover.Position().Add(gamemath.V(200, 0))
	require.True(t, m.HandleFire(p, "boomerang", &aim))
	entity := m.projectiles[0].Entity

	require.True(t, m.RemovePlayer(p.Entity))
	assert.Empty(t, m.projectiles)
	assert.False(t, m.world.Valid(entity))
	assert.NotPanics(t, func() { tickFor(m, 2) })
}

func TestMatch_BlinkTeleports(t *testing.T) {
	m, _ := newTestMatch(t)
	p, err := m.SpawnPlayer("wally", "warden")
	require.NoError(t, err)

	start := p.Mover.Position()
	aim := start.Add(gamemath.V(100, 0))
	require.True(t, m.HandleFire(p, "blink", &aim))

	assert.Equal(t, aim, p.Mover.Position())
	assert.Equal(t, netconfig.AbilityCooldown, p.Ability("blink").State())
	assert.InDelta(t, p.MaxEnergy-30, p.Energy, 1e-9)
}

func TestMatch_BlinkIntoWallRefused(t *testing.T) {
	m, _ := newTestMatch(t)
	p, err := m.SpawnPlayer("wally", "warden")
	require.NoError(t, err)

	start := p.Mover.Position()
	p.Mover.Teleport(gamemath.V(start.X, 100))
	p.Mover.angle = -math.Pi / 2
	wall := gamemath.V(start.X, 8)
	require.True(t, m.HandleFire(p, "blink", &wall))

	assert.Equal(t, gamemath.V(start.X, 100), p.Mover.Position())
	assert.Equal(t, netconfig.AbilityCooldown, p.Ability("blink").State())
	assert.InDelta(t, p.MaxEnergy, p.Energy, 1e-9)
}
