package components

import (
	"github.com/automoto/skirmish/shared/netcomponents"
	"github.com/tanema/gween"
	"github.com/yohamta/donburi"
)

// NetInterpData is the client-side blend from the rendered state toward the
// latest authoritative NetTransform. X, Y and Angle are what gets drawn.
type NetInterpData struct {
	StartX, StartY        float64
	DestX, DestY          float64
	StartAngle, DestAngle float64 // DestAngle is unwrapped relative to StartAngle
	StartSpeed, EndSpeed  float64
	Elapsed, Duration     float64
	Interpolating         bool

	X, Y, Angle float64

	Last        netcomponents.NetTransformData // last consumed target
	Initialized bool

	AngleTween *gween.Tween // 0→1 progress over Duration
}

var NetInterp = donburi.NewComponentType[NetInterpData]()
