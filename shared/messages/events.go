package messages

// AbilityStartedEvent is broadcast when an ability becomes active
type AbilityStartedEvent struct {
	OwnerNetworkID uint
	AbilityID      string
	HasTarget      bool
	X, Y           float64
}

// AbilityEndedEvent is broadcast when an active ability ends
type AbilityEndedEvent struct {
	OwnerNetworkID uint
	AbilityID      string
}

// HitEvent is broadcast when an ability damages a player
type HitEvent struct {
	AttackerNetworkID uint
	TargetNetworkID   uint
	AbilityID         string
	Damage            int
	X, Y              float64
}

// DeathEvent is broadcast when a player dies
type DeathEvent struct {
	VictimNetworkID uint
	KillerNetworkID uint // 0 if environmental
}

// RespawnEvent is broadcast when a dead player returns at a spawn point
type RespawnEvent struct {
	NetworkID uint
	X, Y      float64
}
