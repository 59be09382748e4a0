package scenes

import (
	"errors"
	"sync"

	"github.com/automoto/skirmish/logging"
	"github.com/automoto/skirmish/network"
	"github.com/automoto/skirmish/shared/messages"
	"github.com/automoto/skirmish/systems"
	"github.com/rs/zerolog"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// ErrDisconnected is returned by Update once the session has ended.
var ErrDisconnected = errors.New("disconnected from server")

// NetworkedScene is a headless client session: it feeds latency samples to
// the estimator, mirrors server snapshots, and runs the client systems.
type NetworkedScene struct {
	ecsWorld  *ecs.ECS
	netClient *network.Client
	estimator *network.LatencyEstimator
	applier   *systems.SnapshotApplier
	hud       *systems.HUD
	bot       bool
	once      sync.Once
	logger    zerolog.Logger
}

func NewNetworkedScene(client *network.Client, bot bool) *NetworkedScene {
	return &NetworkedScene{
		netClient: client,
		estimator: network.NewLatencyEstimator(0),
		hud:       &systems.HUD{},
		bot:       bot,
		logger:    logging.For("scene"),
	}
}

// Update runs one client frame.
func (ns *NetworkedScene) Update() error {
	ns.once.Do(ns.configure)

	state := ns.netClient.State()
	if state == network.StateDisconnected || state == network.StateError {
		ns.logger.Info().Err(ns.netClient.LastError()).Msg("session ended")
		ns.netClient.Disconnect()
		return ErrDisconnected
	}

	for _, rtt := range ns.netClient.DrainRoundTrips() {
		ns.estimator.AddRoundTrip(rtt)
	}
	if snap := ns.netClient.LatestSnapshot(); snap != nil {
		ns.applier.Apply(*snap)
	}
	for _, evt := range ns.netClient.DrainEvents() {
		ns.logEvent(evt)
	}

	ns.ecsWorld.Update()
	return nil
}

// HUD returns the local player's read model.
func (ns *NetworkedScene) HUD() *systems.HUD { return ns.hud }

// Delay returns the current one-way delay estimate in seconds.
func (ns *NetworkedScene) Delay() float64 { return ns.estimator.Delay() }

func (ns *NetworkedScene) World() donburi.World {
	ns.once.Do(ns.configure)
	return ns.ecsWorld.World
}

func (ns *NetworkedScene) configure() {
	ns.ecsWorld = ecs.NewECS(donburi.NewWorld())
	ns.applier = systems.NewSnapshotApplier(ns.ecsWorld.World, ns.netClient.NetworkID, ns.logger)

	sendFn := func(msg any) error {
		if ns.netClient.State() != network.StateJoinedGame {
			return nil
		}
		return ns.netClient.SendMessage(msg)
	}

	ns.ecsWorld.AddSystem(systems.NewNetInterpSystem(ns.estimator, ns.netClient.TickRate))
	ns.ecsWorld.AddSystem(systems.NewHUDSystem(ns.netClient.NetworkID, ns.hud))
	if ns.bot {
		ns.ecsWorld.AddSystem(systems.NewBotSystem(ns.netClient.NetworkID, sendFn, ns.hud, logging.For("bot")))
	}
}

func (ns *NetworkedScene) logEvent(evt any) {
	switch e := evt.(type) {
	case messages.HitEvent:
		ns.logger.Info().Uint("attacker", e.AttackerNetworkID).Uint("target", e.TargetNetworkID).
			Str("ability", e.AbilityID).Int("damage", e.Damage).Msg("hit")
	case messages.DeathEvent:
		ns.logger.Info().Uint("victim", e.VictimNetworkID).Uint("killer", e.KillerNetworkID).Msg("death")
	case messages.RespawnEvent:
		ns.logger.Info().Uint("player", e.NetworkID).Float64("x", e.X).Float64("y", e.Y).Msg("respawn")
	case messages.AbilityStartedEvent:
		ns.logger.Debug().Uint("owner", e.OwnerNetworkID).Str("ability", e.AbilityID).Msg("ability started")
	case messages.AbilityEndedEvent:
		ns.logger.Debug().Uint("owner", e.OwnerNetworkID).Str("ability", e.AbilityID).Msg("ability ended")
	}
}
