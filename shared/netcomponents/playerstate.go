package netcomponents

import (
	"github.com/automoto/skirmish/shared/netconfig"
	"github.com/yohamta/donburi"
)

type NetPlayerStateData struct {
	State   netconfig.PlayerState
	Name    string
	Health  int
	Energy  float64
	Loadout string
	IsLocal bool // Client-side only, not synced
}

var NetPlayerState = donburi.NewComponentType[NetPlayerStateData]()
