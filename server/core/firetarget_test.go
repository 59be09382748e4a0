package core

import (
	"math"
	"testing"

	"github.com/automoto/skirmish/config"
	"github.com/automoto/skirmish/shared/gamemath"
	"github.com/automoto/skirmish/shared/netconfig"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// armedPlayer returns a movable player at the origin facing +X with the given
// abilities in its loadout.
func armedPlayer(t *testing.T, defs ...AbilityDef) (*Player, *Scheduler) {
	t.Helper()
	p, sched := newTestPlayer(t)
	for _, def := range defs {
		p.Abilities = append(p.Abilities, NewAbilityController(def, BaseEffect{}, sched, zerolog.Nop()))
	}
	require.Equal(t, SwitchApplied, p.States.Switch(netconfig.StateMovable))
	return p, sched
}

func aimDef(id string, maxRange float64) AbilityDef {
	return AbilityDef{ID: id, Kind: netconfig.AbilityAim, Cooldown: 1, MaxRange: maxRange, MaxAimAngle: gamemath.Deg(10)}
}

func TestFireTarget_WalksIntoRangeThenFiresOnce(t *testing.T) {
	p, _ := armedPlayer(t, aimDef("throw", 500))
	ability := p.Ability("throw")

	require.True(t, p.Fire.SetFireDest(gamemath.V(1000, 0), ability))
	assert.False(t, p.Fire.TryFire())
	assert.Equal(t, netconfig.StateMovable, p.States.Current())

	const dt = 0.05
	fired := 0
	for i := 0; i < 200; i++ {
		p.Mover.Update(dt)
		if p.Fire.TryFire() {
			fired++
			assert.Equal(t, netconfig.StateFiring, p.States.Current())
			assert.LessOrEqual(t, gamemath.V(1000, 0).Dist(p.Mover.Position()), 500.0)
		}
	}

	assert.Equal(t, 1, fired)
	assert.Equal(t, netconfig.AbilityActive, ability.State())
	dest, ok := ability.Destination()
	require.True(t, ok)
	assert.Equal(t, gamemath.V(1000, 0), dest)
	_, pending := p.Fire.Pending()
	assert.False(t, pending)
}

func TestFireTarget_TurnsInPlaceWhenMisaligned(t *testing.T) {
	p, _ := armedPlayer(t, aimDef("throw", 300))

	require.True(t, p.Fire.SetFireDest(gamemath.V(0, 100), p.Ability("throw")))
	assert.Equal(t, netconfig.StateMovable, p.States.Current())

	for i := 0; i < 10 && !p.Fire.TryFire(); i++ {
		p.Mover.Update(0.05)
	}

	assert.Equal(t, netconfig.StateFiring, p.States.Current())
	assert.Equal(t, gamemath.V(0, 0), p.Mover.Position())
	assert.InDelta(t, math.Pi/2, p.Mover.Angle(), gamemath.Deg(10))
}

func TestFireTarget_ClampsToMinRange(t *testing.T) {
	def := aimDef("throw", 300)
	def.MinRange = 50
	p, _ := armedPlayer(t, def)
	ability := p.Ability("throw")

	require.True(t, p.Fire.SetFireDest(gamemath.V(10, 0), ability))

	dest, ok := ability.Destination()
	require.True(t, ok)
	assert.InDelta(t, 50, dest.X, 1e-9)
	assert.InDelta(t, 0, dest.Y, 1e-9)
}

func TestFireTarget_RangeFallsBackToDefaults(t *testing.T) {
	t.Cleanup(config.Reset)
	config.Match.DefaultMaxRange = 100

	p, _ := armedPlayer(t, AbilityDef{ID: "throw", Kind: netconfig.AbilityAim})
	require.True(t, p.Fire.SetFireDest(gamemath.V(150, 0), p.Ability("throw")))
	assert.Equal(t, netconfig.StateMovable, p.States.Current())

	dest, moving := p.Mover.Destination()
	assert.True(t, moving)
	assert.Equal(t, gamemath.V(150, 0), dest)
}

func TestFireTarget_RejectsNilAndNonAim(t *testing.T) {
	p, _ := armedPlayer(t, AbilityDef{ID: "dash", Kind: netconfig.AbilityTrigger})

	assert.False(t, p.Fire.SetFireDest(gamemath.V(10, 0), nil))
	assert.False(t, p.Fire.SetFireDest(gamemath.V(10, 0), p.Ability("dash")))

	_, pending := p.Fire.Pending()
	assert.False(t, pending)
	_, moving := p.Mover.Destination()
	assert.False(t, moving)
}

func TestFireTarget_WaitsForCooldown(t *testing.T) {
	p, sched := armedPlayer(t, aimDef("throw", 300))
	ability := p.Ability("throw")

	ability.Start(&gamemath.Vec2{X: 1})
	ability.End()
	require.Equal(t, netconfig.AbilityCooldown, ability.State())

	require.True(t, p.Fire.SetFireDest(gamemath.V(100, 0), ability))
	assert.False(t, p.Fire.TryFire())

	sched.Advance(1)
	assert.True(t, p.Fire.TryFire())
}

func TestFireTarget_RearmsOnReturnToMovable(t *testing.T) {
	t.Cleanup(config.Reset)
	config.Match.FireLockSeconds = 0.2

	p, sched := armedPlayer(t, aimDef("first", 300), aimDef("second", 300))

	require.True(t, p.Fire.SetFireDest(gamemath.V(100, 0), p.Ability("first")))
	require.Equal(t, netconfig.StateFiring, p.States.Current())

	// Queued while firing: kept, not fired.
	require.True(t, p.Fire.SetFireDest(gamemath.V(120, 0), p.Ability("second")))
	assert.Equal(t, netconfig.AbilityAvailable, p.Ability("second").State())

	sched.Advance(0.2)
	assert.Equal(t, netconfig.AbilityActive, p.Ability("second").State())
	assert.Equal(t, netconfig.StateFiring, p.States.Current())
}

func TestFireTarget_DisableDropsPending(t *testing.T) {
	p, _ := armedPlayer(t, aimDef("throw", 100))

	require.True(t, p.Fire.SetFireDest(gamemath.V(1000, 0), p.Ability("throw")))
	_, pending := p.Fire.Pending()
	require.True(t, pending)

	p.States.Switch(netconfig.StateDead)
	_, pending = p.Fire.Pending()
	assert.False(t, pending)
	assert.False(t, p.Fire.TryFire())
}

func TestFireTarget_MissingDriverPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewFireTargetController(nil, NewPlayerStateMachine(zerolog.Nop()), zerolog.Nop())
	})
}
