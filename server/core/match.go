package core

import (
	"errors"
	"fmt"

	"github.com/automoto/skirmish/config"
	"github.com/automoto/skirmish/shared/gamemath"
	"github.com/automoto/skirmish/shared/netcomponents"
	"github.com/automoto/skirmish/shared/netconfig"
	"github.com/automoto/skirmish/tags"
	"github.com/rs/zerolog"
	"github.com/yohamta/donburi"
)

var ErrMatchFull = errors.New("match is full")

// Replicator marks entities for network sync and resolves their network IDs.
type Replicator interface {
	TrackPlayer(entity donburi.Entity) error
	TrackProjectile(entity donburi.Entity) error
	TrackGameState(entity donburi.Entity) error
	NetworkID(entity donburi.Entity) uint
}

// Broadcaster delivers gameplay events to every connected client.
type Broadcaster interface {
	Broadcast(msg any)
}

// Match is the authoritative simulation for one arena. All methods must be
// called from the tick goroutine.
type Match struct {
	world   donburi.World
	sched   *Scheduler
	level   *ServerLevel
	catalog map[string]AbilityDef

	players     []*Player
	byEntity    map[donburi.Entity]*Player
	projectiles []*Projectile

	gameState  donburi.Entity
	matchState netconfig.MatchStateID
	scores     map[string]int
	tickRate   int
	nextSpawn  int

	replicator  Replicator
	broadcaster Broadcaster
	logger      zerolog.Logger
}

type MatchOption func(*Match)

func WithReplicator(r Replicator) MatchOption   { return func(m *Match) { m.replicator = r } }
func WithBroadcaster(b Broadcaster) MatchOption { return func(m *Match) { m.broadcaster = b } }

// WithCatalog replaces the built-in ability catalogue.
func WithCatalog(c map[string]AbilityDef) MatchOption { return func(m *Match) { m.catalog = c } }

// NewMatch creates a match on world. level may be nil for an open,
// collision-free arena.
func NewMatch(world donburi.World, level *ServerLevel, tickRate int, logger zerolog.Logger, opts ...MatchOption) *Match {
	if tickRate <= 0 {
		tickRate = config.Server.TickRate
	}
	m := &Match{
		world:    world,
		sched:    NewScheduler(),
		level:    level,
		catalog:  DefaultCatalog(),
		byEntity: make(map[donburi.Entity]*Player),
		scores:   make(map[string]int),
		tickRate: tickRate,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.gameState = world.Create(tags.GameState, netcomponents.NetGameState)
	m.writeGameState()
	if m.replicator != nil {
		if err := m.replicator.TrackGameState(m.gameState); err != nil {
			m.logger.Error().Err(err).Msg("failed to sync game state")
		}
	}
	return m
}

func (m *Match) Clock() Clock           { return m.sched }
func (m *Match) Now() float64           { return m.sched.Now() }
func (m *Match) Level() *ServerLevel    { return m.level }
func (m *Match) Players() []*Player     { return m.players }
func (m *Match) Scores() map[string]int { return m.scores }

func (m *Match) State() netconfig.MatchStateID { return m.matchState }

// Player returns the live player for entity, or nil.
func (m *Match) Player(entity donburi.Entity) *Player {
	return m.byEntity[entity]
}

// Tick advances the simulation by dt seconds: timers, then players, then
// projectiles, then the replicated components.
func (m *Match) Tick(dt float64) {
	m.sched.Advance(dt)
	for _, p := range m.players {
		p.Update(dt)
	}
	m.updateProjectiles(dt)
	m.replicate()
}

// SpawnPlayer adds a player with the given loadout (the default when empty)
// at the next spawn point and makes it movable.
func (m *Match) SpawnPlayer(name, loadout string) (*Player, error) {
	if len(m.players) >= config.Match.MaxPlayers {
		return nil, ErrMatchFull
	}
	if loadout == "" {
		loadout = config.Match.DefaultLoadout
	}

	entity := m.world.Create(tags.Player, netcomponents.NetTransform, netcomponents.NetPlayerState, netcomponents.NetAbilities)
	p := newPlayer(entity, name, m.level, m.nextSpawnPoint(), m.sched, m.logger)

	abilities, err := m.buildLoadout(p, loadout)
	if err != nil {
		p.Mover.Detach()
		m.world.Remove(entity)
		return nil, fmt.Errorf("spawn %s: %w", name, err)
	}
	p.Abilities = abilities
	p.Loadout = loadout

	m.players = append(m.players, p)
	m.byEntity[entity] = p
	m.writePlayer(p)

	if m.replicator != nil {
		if err := m.replicator.TrackPlayer(entity); err != nil {
			m.logger.Error().Err(err).Str("player", name).Msg("failed to sync player")
		}
	}

	p.States.Switch(netconfig.StateMovable)
	if m.matchState == netconfig.MatchStateWaiting {
		m.matchState = netconfig.MatchStatePlaying
	}

	m.logger.Info().Str("player", name).Str("loadout", loadout).Int("players", len(m.players)).Msg("player spawned")
	return p, nil
}

// RemovePlayer destroys a player's behaviours and entity. Timers it
// scheduled stay queued but do nothing.
func (m *Match) RemovePlayer(entity donburi.Entity) bool {
	p, ok := m.byEntity[entity]
	if !ok {
		return false
	}

	p.destroy()
	for _, proj := range m.projectiles {
		if proj.Owner == p {
			proj.Destroy = true
		}
	}
	m.destroyFlaggedProjectiles()

	delete(m.byEntity, entity)
	for i, other := range m.players {
		if other == p {
			m.players = append(m.players[:i], m.players[i+1:]...)
			break
		}
	}
	if m.world.Valid(entity) {
		m.world.Remove(entity)
	}
	if len(m.players) == 0 && m.matchState == netconfig.MatchStatePlaying {
		m.matchState = netconfig.MatchStateWaiting
	}

	m.logger.Info().Str("player", p.Name).Int("players", len(m.players)).Msg("player removed")
	return true
}

// HandleMove sends a movable player toward point, dropping any pending aim.
func (m *Match) HandleMove(p *Player, point gamemath.Vec2) bool {
	if p.States.Current() != netconfig.StateMovable {
		return false
	}
	p.Fire.Cancel()
	p.Mover.MoveTo(point)
	return true
}

// HandleStop halts a player and drops any pending aim.
func (m *Match) HandleStop(p *Player) {
	p.Fire.Cancel()
	if p.Mover.Enabled() {
		p.Mover.Halt()
	}
}

// HandleFire uses an ability. Trigger abilities start directly; aim
// abilities go through the fire target controller, or start without a point
// (a cancelled attempt) when no target was given.
func (m *Match) HandleFire(p *Player, abilityID string, target *gamemath.Vec2) bool {
	a := p.Ability(abilityID)
	if a == nil {
		p.logger.Debug().Str("ability", abilityID).Msg("fire for unknown ability")
		return false
	}

	switch a.Kind() {
	case netconfig.AbilityTrigger:
		if !a.CanUse() {
			return false
		}
		a.Start(nil)
		return true

	case netconfig.AbilityAim:
		if target == nil {
			if !a.CanUse() {
				return false
			}
			a.Start(nil)
			return true
		}
		return p.Fire.SetFireDest(*target, a)
	}
	return false
}

// HandlePrimary forwards the primary action to an active ability.
func (m *Match) HandlePrimary(p *Player, abilityID string, point gamemath.Vec2) bool {
	a := p.Ability(abilityID)
	if a == nil {
		return false
	}
	return a.Primary(p, point)
}

func (m *Match) nextSpawnPoint() gamemath.Vec2 {
	if m.level == nil {
		return gamemath.Vec2{}
	}
	p := m.level.Spawn(m.nextSpawn)
	m.nextSpawn++
	return p
}

func (m *Match) networkID(entity donburi.Entity) uint {
	if m.replicator == nil {
		return 0
	}
	return m.replicator.NetworkID(entity)
}

func (m *Match) broadcast(msg any) {
	if m.broadcaster != nil {
		m.broadcaster.Broadcast(msg)
	}
}
