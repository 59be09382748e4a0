package systems

import (
	"math"
	"math/rand"

	"github.com/automoto/skirmish/components"
	cfg "github.com/automoto/skirmish/config"
	"github.com/automoto/skirmish/shared/gamemath"
	"github.com/automoto/skirmish/shared/messages"
	"github.com/automoto/skirmish/shared/netcomponents"
	"github.com/automoto/skirmish/shared/netconfig"
	"github.com/leap-fish/necs/esync"
	"github.com/rs/zerolog"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"github.com/yohamta/donburi/filter"
)

type playerInfo struct {
	pos       gamemath.Vec2
	health    int
	maxHealth int
	alive     bool
}

var botPlayerQuery = donburi.NewQuery(filter.Contains(netcomponents.NetTransform, netcomponents.NetPlayerState))

// NewBotSystem returns an update system that drives the local player with
// scripted commands: chase the nearest opponent, throw aim abilities when in
// range, retreat when hurt, otherwise wander. localNetID names the player the
// bot controls.
func NewBotSystem(localNetID func() esync.NetworkId, send func(any) error, hud *HUD, logger zerolog.Logger) func(*ecs.ECS) {
	// Fixed seed so bot sessions replay the same way.
	rng := rand.New(rand.NewSource(42))
	wait := 0

	return func(e *ecs.ECS) {
		if wait > 0 {
			wait--
			return
		}
		tuning := cfg.BotTuning()
		wait = tuning.ReactionDelay

		self, players, ok := collectPlayers(e.World, localNetID())
		if !ok || !self.alive {
			return
		}
		cmd := decideBot(self, players, hud, tuning, rng)
		if cmd == nil {
			return
		}
		if err := send(cmd); err != nil {
			logger.Debug().Err(err).Type("command", cmd).Msg("bot command not sent")
		}
	}
}

// collectPlayers splits networked players into the local one and the living
// opponents. Entities without a network id are skipped.
func collectPlayers(world donburi.World, local esync.NetworkId) (playerInfo, []playerInfo, bool) {
	var self playerInfo
	found := false
	var others []playerInfo

	botPlayerQuery.Each(world, func(entry *donburi.Entry) {
		id := esync.GetNetworkId(entry)
		if id == nil {
			return
		}
		ps := netcomponents.NetPlayerState.Get(entry)
		info := playerInfo{
			pos:       renderedPosition(entry),
			health:    ps.Health,
			maxHealth: cfg.Player.Health,
			alive:     ps.State.IsAlive(),
		}
		if *id == local {
			self = info
			found = true
			return
		}
		if info.alive {
			others = append(others, info)
		}
	})
	return self, others, found
}

func renderedPosition(entry *donburi.Entry) gamemath.Vec2 {
	if entry.HasComponent(components.NetInterp) {
		if in := components.NetInterp.Get(entry); in.Initialized {
			return gamemath.V(in.X, in.Y)
		}
	}
	t := netcomponents.NetTransform.Get(entry)
	return gamemath.V(t.X, t.Y)
}

// decideBot picks the next command for the bot, or nil to do nothing.
func decideBot(self playerInfo, others []playerInfo, hud *HUD, tuning cfg.BotDifficultyConfig, rng *rand.Rand) any {
	target := nearest(self.pos, others)

	if target == nil {
		angle := rng.Float64() * 2 * math.Pi
		dest := self.pos.Add(gamemath.FromAngle(angle).Scale(tuning.WanderRadius))
		return messages.MoveCommand{X: dest.X, Y: dest.Y}
	}

	dist := self.pos.Dist(target.pos)
	if self.maxHealth > 0 && float64(self.health)/float64(self.maxHealth) < tuning.RetreatThreshold {
		away := self.pos.Sub(target.pos)
		if away.LenSq() == 0 {
			away = gamemath.V(1, 0)
		}
		dest := self.pos.Add(away.Normalized().Scale(tuning.WanderRadius))
		return messages.MoveCommand{X: dest.X, Y: dest.Y}
	}

	if dist <= tuning.AttackRange {
		if id, ok := readyAbility(hud, netconfig.AbilityAim); ok {
			return messages.FireCommand{AbilityID: id, HasTarget: true, X: target.pos.X, Y: target.pos.Y}
		}
	}

	if dist <= tuning.ChaseRange {
		if id, ok := readyAbility(hud, netconfig.AbilityTrigger); ok && dist > tuning.AttackRange {
			return messages.FireCommand{AbilityID: id}
		}
	}
	return messages.MoveCommand{X: target.pos.X, Y: target.pos.Y}
}

func nearest(from gamemath.Vec2, others []playerInfo) *playerInfo {
	var best *playerInfo
	bestDist := math.Inf(1)
	for i := range others {
		if d := from.Dist(others[i].pos); d < bestDist {
			best, bestDist = &others[i], d
		}
	}
	return best
}

func readyAbility(hud *HUD, kind netconfig.AbilityKind) (string, bool) {
	if hud == nil {
		return "", false
	}
	for _, a := range hud.Abilities {
		if a.Kind == kind && a.State == netconfig.AbilityAvailable {
			return a.ID, true
		}
	}
	return "", false
}
