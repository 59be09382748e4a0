package systems

import (
	"github.com/automoto/skirmish/archetypes"
	"github.com/automoto/skirmish/components"
	"github.com/automoto/skirmish/shared/netcomponents"
	"github.com/leap-fish/necs/esync"
	"github.com/rs/zerolog"
	"github.com/yohamta/donburi"
)

// SnapshotApplier mirrors server snapshots into a client world. Entities the
// server stopped sending are removed.
type SnapshotApplier struct {
	world   donburi.World
	local   func() esync.NetworkId
	present map[esync.NetworkId]bool
	logger  zerolog.Logger
}

func NewSnapshotApplier(world donburi.World, localNetID func() esync.NetworkId, logger zerolog.Logger) *SnapshotApplier {
	return &SnapshotApplier{
		world:   world,
		local:   localNetID,
		present: make(map[esync.NetworkId]bool),
		logger:  logger,
	}
}

// Apply decodes and writes one snapshot.
func (a *SnapshotApplier) Apply(snapshot esync.WorldSnapshot) {
	clear(a.present)

	for _, ent := range snapshot {
		a.present[ent.Id] = true

		var compData []any
		for _, componentBytes := range ent.State {
			instance, err := esync.Mapper.Deserialize(componentBytes)
			if err != nil {
				a.logger.Debug().Err(err).Uint("networkID", uint(ent.Id)).Msg("skipping undecodable component")
				continue
			}
			compData = append(compData, instance)
		}
		a.ApplyEntity(ent.Id, compData)
	}

	var stale []*donburi.Entry
	esync.NetworkEntityQuery.Each(a.world, func(entry *donburi.Entry) {
		id := esync.GetNetworkId(entry)
		if id == nil {
			return
		}
		if !a.present[*id] {
			stale = append(stale, entry)
		}
	})
	for _, entry := range stale {
		entry.Remove()
	}
}

// ApplyEntity writes decoded component values to the entity with the given
// network ID, creating it on first sight.
func (a *SnapshotApplier) ApplyEntity(id esync.NetworkId, compData []any) *donburi.Entry {
	var entry *donburi.Entry
	if entity := esync.FindByNetworkId(a.world, id); a.world.Valid(entity) {
		entry = a.world.Entry(entity)
	} else {
		entry = archetypes.ForInstances(compData).Spawn(a.world)
		esync.NetworkIdComponent.SetValue(entry, id)
	}

	for _, data := range compData {
		applyComponentToEntry(entry, data)
	}
	if id == a.local() && entry.HasComponent(netcomponents.NetPlayerState) {
		netcomponents.NetPlayerState.Get(entry).IsLocal = true
	}
	return entry
}

func applyComponentToEntry(entry *donburi.Entry, data any) {
	switch v := data.(type) {
	case netcomponents.NetTransformData:
		if !entry.HasComponent(netcomponents.NetTransform) {
			entry.AddComponent(netcomponents.NetTransform)
			entry.AddComponent(components.NetInterp)
		}
		netcomponents.NetTransform.SetValue(entry, v)
	case netcomponents.NetPlayerStateData:
		if !entry.HasComponent(netcomponents.NetPlayerState) {
			entry.AddComponent(netcomponents.NetPlayerState)
		}
		netcomponents.NetPlayerState.SetValue(entry, v)
	case netcomponents.NetAbilitiesData:
		if !entry.HasComponent(netcomponents.NetAbilities) {
			entry.AddComponent(netcomponents.NetAbilities)
		}
		netcomponents.NetAbilities.SetValue(entry, v)
	case netcomponents.NetProjectileData:
		if !entry.HasComponent(netcomponents.NetProjectile) {
			entry.AddComponent(netcomponents.NetProjectile)
		}
		netcomponents.NetProjectile.SetValue(entry, v)
	case netcomponents.NetGameStateData:
		if !entry.HasComponent(netcomponents.NetGameState) {
			entry.AddComponent(netcomponents.NetGameState)
		}
		netcomponents.NetGameState.SetValue(entry, v)
	}
}
