package protocol

import (
	"fmt"

	"github.com/automoto/skirmish/shared/netcomponents"
	"github.com/leap-fish/necs/esync"
)

// Sync ID constants - ID 1 is reserved by necs for NetworkId
const (
	SyncIDNetTransform   uint = 10
	SyncIDNetPlayerState uint = 11
	SyncIDNetAbilities   uint = 12
	SyncIDNetProjectile  uint = 13
	SyncIDNetGameState   uint = 14
)

// RegisterComponents registers all network components with necs for serialization.
// This must be called by both server and client before any network operations.
//
// No component registers an interpolation function: transforms are blended by
// the client's own motion interpolator, everything else is discrete state.
func RegisterComponents() error {
	registrations := []struct {
		id   uint
		name string
		fn   func() error
	}{
		{SyncIDNetTransform, "transform", func() error {
			return esync.RegisterComponent(SyncIDNetTransform, netcomponents.NetTransformData{}, netcomponents.NetTransform)
		}},
		{SyncIDNetPlayerState, "player state", func() error {
			return esync.RegisterComponent(SyncIDNetPlayerState, netcomponents.NetPlayerStateData{}, netcomponents.NetPlayerState)
		}},
		{SyncIDNetAbilities, "abilities", func() error {
			return esync.RegisterComponent(SyncIDNetAbilities, netcomponents.NetAbilitiesData{}, netcomponents.NetAbilities)
		}},
		{SyncIDNetProjectile, "projectile", func() error {
			return esync.RegisterComponent(SyncIDNetProjectile, netcomponents.NetProjectileData{}, netcomponents.NetProjectile)
		}},
		{SyncIDNetGameState, "game state", func() error {
			return esync.RegisterComponent(SyncIDNetGameState, netcomponents.NetGameStateData{}, netcomponents.NetGameState)
		}},
	}

	for _, r := range registrations {
		if err := r.fn(); err != nil {
			return fmt.Errorf("register %s component (sync id %d): %w", r.name, r.id, err)
		}
	}
	return nil
}
