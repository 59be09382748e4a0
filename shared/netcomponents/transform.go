package netcomponents

import "github.com/yohamta/donburi"

// NetTransformData is the authoritative motion target of an entity.
type NetTransformData struct {
	X, Y  float64
	Angle float64 // radians
	Speed float64 // declared movement speed, units per second
	Snap  bool    // render the target directly instead of interpolating
}

var NetTransform = donburi.NewComponentType[NetTransformData]()
