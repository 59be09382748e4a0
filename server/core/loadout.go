package core

import (
	"errors"
	"fmt"

	"github.com/automoto/skirmish/config"
	"github.com/automoto/skirmish/shared/messages"
	"github.com/automoto/skirmish/shared/netconfig"
)

var ErrUnknownLoadout = errors.New("unknown loadout")

func (m *Match) buildLoadout(p *Player, name string) ([]*AbilityController, error) {
	ids, ok := config.Match.Loadouts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLoadout, name)
	}

	abilities := make([]*AbilityController, 0, len(ids))
	for _, id := range ids {
		def, ok := m.catalog[id]
		if !ok {
			return nil, fmt.Errorf("loadout %q: unknown ability %q", name, id)
		}
		effect, err := newEffect(def, p, m)
		if err != nil {
			return nil, fmt.Errorf("loadout %q: %w", name, err)
		}
		c := NewAbilityController(def, effect, m.sched, p.logger)
		c.OnStateChange(m.abilityEvents(p))
		abilities = append(abilities, c)
	}
	return abilities, nil
}

// SwapLoadout replaces a player's abilities. Old controllers are removed
// first so their timers can never fire into the new set.
func (m *Match) SwapLoadout(p *Player, name string) error {
	if !p.live {
		return nil
	}
	if name == p.Loadout {
		return nil
	}
	abilities, err := m.buildLoadout(p, name)
	if err != nil {
		return err
	}

	p.Fire.Cancel()
	for _, a := range p.Abilities {
		a.Remove()
	}
	p.Abilities = abilities
	p.Loadout = name
	if p.loadout.Enabled() {
		for _, a := range p.Abilities {
			a.Enable()
		}
	}

	m.logger.Info().Str("player", p.Name).Str("loadout", name).Msg("loadout swapped")
	return nil
}

func (m *Match) abilityEvents(p *Player) func(c *AbilityController, from, to netconfig.AbilityState) {
	return func(c *AbilityController, from, to netconfig.AbilityState) {
		switch {
		case to == netconfig.AbilityActive:
			dest, ok := c.Destination()
			m.broadcast(messages.AbilityStartedEvent{
				OwnerNetworkID: m.networkID(p.Entity),
				AbilityID:      c.ID(),
				HasTarget:      ok,
				X:              dest.X,
				Y:              dest.Y,
			})
		case from == netconfig.AbilityActive:
			m.broadcast(messages.AbilityEndedEvent{
				OwnerNetworkID: m.networkID(p.Entity),
				AbilityID:      c.ID(),
			})
		}
	}
}
