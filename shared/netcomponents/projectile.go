package netcomponents

import "github.com/yohamta/donburi"

type NetProjectileData struct {
	X, Y           float64
	VelX, VelY     float64
	OwnerNetworkID uint
	State          int // 0=Outbound, 1=Inbound
}

var NetProjectile = donburi.NewComponentType[NetProjectileData]()
