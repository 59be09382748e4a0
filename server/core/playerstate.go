package core

import (
	"github.com/automoto/skirmish/shared/netconfig"
	"github.com/rs/zerolog"
)

// transitions lists the allowed edges of the player state graph.
var transitions = map[netconfig.PlayerState][]netconfig.PlayerState{
	netconfig.StateDisabled: {netconfig.StateMovable},
	netconfig.StateMovable:  {netconfig.StateFiring, netconfig.StateBusy, netconfig.StateDead, netconfig.StateDisabled},
	netconfig.StateFiring:   {netconfig.StateMovable, netconfig.StateBusy, netconfig.StateDead, netconfig.StateDisabled},
	netconfig.StateBusy:     {netconfig.StateMovable, netconfig.StateDead, netconfig.StateDisabled},
	netconfig.StateDead:     {netconfig.StateMovable, netconfig.StateDisabled},
}

// CanTransition reports whether from → to is an edge of the state graph.
func CanTransition(from, to netconfig.PlayerState) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// StateEffect switches one behaviour when a state is entered or exited.
type StateEffect struct {
	Target Behaviour
	Enable bool
}

func EnableEffect(b Behaviour) StateEffect  { return StateEffect{Target: b, Enable: true} }
func DisableEffect(b Behaviour) StateEffect { return StateEffect{Target: b} }

func (e StateEffect) apply() {
	if e.Enable {
		e.Target.Enable()
	} else {
		e.Target.Disable()
	}
}

// SwitchResult reports what Switch did with a request.
type SwitchResult uint8

const (
	// SwitchRejected means the edge is missing or the state is unchanged.
	SwitchRejected SwitchResult = iota
	// SwitchApplied means the transition ran to completion before returning.
	SwitchApplied
	// SwitchQueued means the request arrived during another transition. It
	// is validated when it runs and may still be rejected then.
	SwitchQueued
)

// PlayerStateMachine gates which behaviours run for a player. A transition
// applies the exit effects of the old state, then the enter effects of the
// new one, then notifies enter listeners, all before Switch returns. Switch
// calls made by listeners are queued and run once the current transition is
// complete.
type PlayerStateMachine struct {
	current   netconfig.PlayerState
	enter     map[netconfig.PlayerState][]StateEffect
	exit      map[netconfig.PlayerState][]StateEffect
	listeners map[netconfig.PlayerState][]func(from netconfig.PlayerState)

	switching bool
	queued    []netconfig.PlayerState

	logger zerolog.Logger
}

// NewPlayerStateMachine starts in StateDisabled.
func NewPlayerStateMachine(logger zerolog.Logger) *PlayerStateMachine {
	return &PlayerStateMachine{
		current:   netconfig.StateDisabled,
		enter:     make(map[netconfig.PlayerState][]StateEffect),
		exit:      make(map[netconfig.PlayerState][]StateEffect),
		listeners: make(map[netconfig.PlayerState][]func(netconfig.PlayerState)),
		logger:    logger,
	}
}

func (m *PlayerStateMachine) Current() netconfig.PlayerState { return m.current }

// IsAlive reports whether the current state carries the alive bit.
func (m *PlayerStateMachine) IsAlive() bool { return m.current.IsAlive() }

// SetEffects replaces the behaviour switches applied on entering and leaving
// state.
func (m *PlayerStateMachine) SetEffects(state netconfig.PlayerState, enter, exit []StateEffect) {
	m.enter[state] = enter
	m.exit[state] = exit
}

// OnEnter registers a listener called after state's enter effects.
func (m *PlayerStateMachine) OnEnter(state netconfig.PlayerState, fn func(from netconfig.PlayerState)) {
	m.listeners[state] = append(m.listeners[state], fn)
}

// Switch moves to state to. Same-state and disallowed transitions are
// rejected. A call made while another transition is running is queued and
// returns SwitchQueued without checking the edge.
func (m *PlayerStateMachine) Switch(to netconfig.PlayerState) SwitchResult {
	if m.switching {
		m.queued = append(m.queued, to)
		return SwitchQueued
	}

	result := SwitchRejected
	if m.switchNow(to) {
		result = SwitchApplied
	}
	for len(m.queued) > 0 {
		next := m.queued[0]
		m.queued = m.queued[1:]
		m.switchNow(next)
	}
	return result
}

func (m *PlayerStateMachine) switchNow(to netconfig.PlayerState) bool {
	from := m.current
	if from == to || !CanTransition(from, to) {
		m.logger.Debug().Str("from", from.String()).Str("to", to.String()).Msg("transition rejected")
		return false
	}

	m.switching = true
	defer func() { m.switching = false }()

	for _, e := range m.exit[from] {
		e.apply()
	}
	m.current = to
	for _, e := range m.enter[to] {
		e.apply()
	}
	for _, fn := range m.listeners[to] {
		fn(from)
	}

	m.logger.Debug().Str("from", from.String()).Str("to", to.String()).Msg("player state")
	return true
}
