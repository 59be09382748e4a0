// Package netconfig defines lightweight types shared between client and server
// for network serialization. It must stay free of simulation dependencies so
// the client only pulls in what it renders.
package netconfig

// PlayerState is the coarse player state. Alive states share StateAlive so a
// single mask test answers "is alive".
type PlayerState uint8

const StateAlive PlayerState = 1 << 0

const (
	StateNone     PlayerState = 0
	StateDisabled PlayerState = 1 << 1
	StateMovable  PlayerState = 1<<2 | StateAlive
	StateBusy     PlayerState = 1<<3 | StateAlive
	StateFiring   PlayerState = 1<<4 | StateAlive
	StateDead     PlayerState = 1 << 5
)

// IsAlive reports whether the alive bit is set.
func (s PlayerState) IsAlive() bool { return s&StateAlive != 0 }

func (s PlayerState) String() string {
	switch s {
	case StateNone:
		return "none"
	case StateDisabled:
		return "disabled"
	case StateMovable:
		return "movable"
	case StateBusy:
		return "busy"
	case StateFiring:
		return "firing"
	case StateDead:
		return "dead"
	}
	return "unknown"
}

// AbilityKind selects how an ability is triggered.
type AbilityKind uint8

const (
	AbilityPassive AbilityKind = iota // runs while enabled, never triggered
	AbilityTrigger                    // started directly by a command
	AbilityAim                        // needs a target point, range and aim checks
)

func (k AbilityKind) String() string {
	switch k {
	case AbilityPassive:
		return "passive"
	case AbilityTrigger:
		return "trigger"
	case AbilityAim:
		return "aim"
	}
	return "unknown"
}

// AbilityState is the lifecycle state of one ability instance.
type AbilityState uint8

const (
	AbilityAvailable AbilityState = iota
	AbilityActive
	AbilityCooldown
	AbilityRemoved
)

func (s AbilityState) String() string {
	switch s {
	case AbilityAvailable:
		return "available"
	case AbilityActive:
		return "active"
	case AbilityCooldown:
		return "cooldown"
	case AbilityRemoved:
		return "removed"
	}
	return "unknown"
}

// MatchStateID represents the current state of a match.
type MatchStateID int

const (
	MatchStateWaiting  MatchStateID = iota // Waiting for players
	MatchStatePlaying                      // Active gameplay
	MatchStateFinished                     // Match over
)

func (s MatchStateID) String() string {
	switch s {
	case MatchStateWaiting:
		return "waiting"
	case MatchStatePlaying:
		return "playing"
	case MatchStateFinished:
		return "finished"
	}
	return "unknown"
}

// Projectile state constants
const (
	ProjectileOutbound = 0
	ProjectileInbound  = 1
)
