package core

import (
	"math"

	"github.com/automoto/skirmish/shared/gamemath"
	"github.com/automoto/skirmish/shared/netcomponents"
	"github.com/automoto/skirmish/shared/netconfig"
	"github.com/automoto/skirmish/tags"
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
)

// Projectile holds server-side state for a thrown boomerang. It flies to its
// target, then homes back to the owner until caught.
type Projectile struct {
	Entity     donburi.Entity
	Owner      *Player
	Pos, Vel   gamemath.Vec2
	Target     gamemath.Vec2
	State      int // netconfig.ProjectileOutbound or ProjectileInbound
	Params     BoomerangParams
	Age        float64
	HitPlayers map[*Player]struct{}
	Destroy    bool // flagged for deferred removal

	object *resolv.Object
	onDone func()
}

// Recall turns the projectile around.
func (p *Projectile) Recall() {
	p.State = netconfig.ProjectileInbound
}

func (m *Match) throwBoomerang(owner *Player, target gamemath.Vec2, params BoomerangParams, onDone func()) *Projectile {
	origin := owner.Mover.Position()
	entity := m.world.Create(tags.Projectile, netcomponents.NetProjectile)

	p := &Projectile{
		Entity:     entity,
		Owner:      owner,
		Pos:        origin,
		Vel:        gamemath.CalculateHomingVelocity(origin, target, params.Speed),
		Target:     target,
		State:      netconfig.ProjectileOutbound,
		Params:     params,
		HitPlayers: make(map[*Player]struct{}),
		onDone:     onDone,
	}
	if m.level != nil {
		half := params.Size / 2
		p.object = resolv.NewObject(origin.X-half, origin.Y-half, params.Size, params.Size, tags.ResolvProjectile)
		p.object.SetShape(resolv.NewRectangle(0, 0, params.Size, params.Size))
		m.level.Space.Add(p.object)
	}

	m.projectiles = append(m.projectiles, p)
	m.writeProjectile(p)
	if m.replicator != nil {
		if err := m.replicator.TrackProjectile(entity); err != nil {
			m.logger.Error().Err(err).Msg("failed to sync projectile")
		}
	}
	return p
}

// updateProjectiles is called from Tick after players have moved.
func (m *Match) updateProjectiles(dt float64) {
	for _, p := range m.projectiles {
		if p.Destroy {
			continue
		}
		m.stepProjectile(p, dt)
		m.checkProjectileCollisions(p)
	}
	m.destroyFlaggedProjectiles()
}

func (m *Match) stepProjectile(p *Projectile, dt float64) {
	p.Age += dt
	if p.Age >= p.Params.Lifetime || !p.Owner.live {
		m.logger.Debug().Str("owner", p.Owner.Name).Float64("age", p.Age).Msg("projectile lost")
		p.Destroy = true
		return
	}

	switch p.State {
	case netconfig.ProjectileOutbound:
		p.Vel = gamemath.CalculateHomingVelocity(p.Pos, p.Target, p.Params.Speed)
		next, arrived := gamemath.MoveTowards(p.Pos, p.Target, p.Params.Speed*dt)
		p.Pos = next
		if arrived {
			p.State = netconfig.ProjectileInbound
		}

	case netconfig.ProjectileInbound:
		home := p.Owner.Mover.Position()
		p.Vel = gamemath.CalculateHomingVelocity(p.Pos, home, p.Params.ReturnSpeed)
		p.Pos, _ = gamemath.MoveTowards(p.Pos, home, p.Params.ReturnSpeed*dt)
	}

	if p.object != nil {
		p.object.X = p.Pos.X - p.Params.Size/2
		p.object.Y = p.Pos.Y - p.Params.Size/2
		p.object.Update()
	}
}

func (m *Match) checkProjectileCollisions(p *Projectile) {
	if p.Destroy {
		return
	}

	// Proximity catch runs first; a fast projectile can pass the owner
	// between ticks without overlapping.
	if p.State == netconfig.ProjectileInbound && p.Pos.Dist(p.Owner.Mover.Position()) < p.Params.CatchRadius {
		p.Destroy = true
		m.logger.Debug().Str("owner", p.Owner.Name).Msg("projectile caught")
		return
	}

	if p.State == netconfig.ProjectileOutbound && p.object != nil && m.level.solidOverlap(p.object) {
		p.State = netconfig.ProjectileInbound
	}

	for _, target := range m.players {
		if target == p.Owner || !target.live || !target.States.IsAlive() {
			continue
		}
		if _, already := p.HitPlayers[target]; already {
			continue
		}
		reach := p.Params.Size/2 + math.Max(target.Mover.Width(), target.Mover.Height())/2
		if p.Pos.Dist(target.Mover.Position()) >= reach {
			continue
		}
		p.HitPlayers[target] = struct{}{}
		m.ApplyDamage(target, p.Owner, p.Params.Damage, "boomerang", p.Pos)
		if target.States.IsAlive() && p.Params.HitStun > 0 {
			m.Stun(target, p.Params.HitStun)
		}
	}
}

// destroyProjectile removes the entity and collision object, then reports
// completion to the owning ability.
func (m *Match) destroyProjectile(p *Projectile) {
	if p.object != nil && m.level != nil {
		m.level.Space.Remove(p.object)
		p.object = nil
	}
	if m.world.Valid(p.Entity) {
		m.world.Remove(p.Entity)
	}
	if done := p.onDone; done != nil {
		p.onDone = nil
		done()
	}
}

func (m *Match) destroyFlaggedProjectiles() {
	kept := m.projectiles[:0]
	var flagged []*Projectile
	for _, p := range m.projectiles {
		if p.Destroy {
			flagged = append(flagged, p)
			continue
		}
		kept = append(kept, p)
	}
	for i := len(kept); i < len(m.projectiles); i++ {
		m.projectiles[i] = nil
	}
	m.projectiles = kept

	for _, p := range flagged {
		m.destroyProjectile(p)
	}
}

func (m *Match) writeProjectile(p *Projectile) {
	if !m.world.Valid(p.Entity) {
		return
	}
	entry := m.world.Entry(p.Entity)
	netcomponents.NetProjectile.Set(entry, &netcomponents.NetProjectileData{
		X:              p.Pos.X,
		Y:              p.Pos.Y,
		VelX:           p.Vel.X,
		VelY:           p.Vel.Y,
		OwnerNetworkID: m.networkID(p.Owner.Entity),
		State:          p.State,
	})
}
