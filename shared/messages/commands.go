package messages

// MoveCommand asks the server to walk the player to a world point.
type MoveCommand struct {
	X, Y float64
}

// StopCommand halts movement and cancels any pending fire target.
type StopCommand struct{}

// FireCommand triggers an ability from the player's loadout. Aim abilities
// use the target point; HasTarget=false is a cancelled aim attempt.
type FireCommand struct {
	AbilityID string
	HasTarget bool
	X, Y      float64
}

// PrimaryCommand forwards the primary action to an active ability, e.g. to
// recall a thrown boomerang early.
type PrimaryCommand struct {
	AbilityID string
	X, Y      float64
}

// LoadoutCommand swaps the player's ability loadout.
type LoadoutCommand struct {
	Loadout string
}
