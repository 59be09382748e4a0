package archetypes

import (
	"github.com/automoto/skirmish/components"
	"github.com/automoto/skirmish/shared/netcomponents"
	"github.com/automoto/skirmish/tags"
	"github.com/leap-fish/necs/esync"
	"github.com/yohamta/donburi"
)

// Client-side shapes of replicated entities. Every one carries the necs
// network ID so snapshots can find it again.
var (
	RemotePlayer = newArchetype(
		tags.Player,
		esync.NetworkIdComponent,
		netcomponents.NetTransform,
		netcomponents.NetPlayerState,
		netcomponents.NetAbilities,
		components.NetInterp,
	)
	RemoteProjectile = newArchetype(
		tags.Projectile,
		esync.NetworkIdComponent,
		netcomponents.NetProjectile,
	)
	GameState = newArchetype(
		tags.GameState,
		esync.NetworkIdComponent,
		netcomponents.NetGameState,
	)
	Replicated = newArchetype(
		esync.NetworkIdComponent,
	)
)

type archetype struct {
	components []donburi.IComponentType
}

func newArchetype(cs ...donburi.IComponentType) *archetype {
	return &archetype{
		components: cs,
	}
}

func (a *archetype) Spawn(world donburi.World, cs ...donburi.IComponentType) *donburi.Entry {
	return world.Entry(world.Create(append(a.components, cs...)...))
}

// ForInstances picks the archetype matching decoded snapshot components.
func ForInstances(compData []any) *archetype {
	for _, data := range compData {
		switch data.(type) {
		case netcomponents.NetPlayerStateData, netcomponents.NetTransformData:
			return RemotePlayer
		case netcomponents.NetProjectileData:
			return RemoteProjectile
		case netcomponents.NetGameStateData:
			return GameState
		}
	}
	return Replicated
}
