package tags

import "github.com/yohamta/donburi"

var (
	Player     = donburi.NewTag().SetName("Player")
	Projectile = donburi.NewTag().SetName("Projectile")
	GameState  = donburi.NewTag().SetName("GameState")
)

// Resolv tags for physics collision
const (
	ResolvSolid      = "solid"
	ResolvPlayer     = "Player"
	ResolvProjectile = "Projectile"
)
