package core

import (
	"math"

	"github.com/automoto/skirmish/config"
	"github.com/automoto/skirmish/shared/gamemath"
	"github.com/automoto/skirmish/tags"
	"github.com/solarlune/resolv"
)

type moveMode uint8

const (
	moveIdle moveMode = iota
	moveToPoint
	moveFace
)

// MovementDriver is the part of a mover the fire controller steers.
type MovementDriver interface {
	Position() gamemath.Vec2
	Angle() float64
	MoveTo(p gamemath.Vec2)
	FaceAngle(a float64)
	Halt()
}

// Mover owns a player's position and facing. Movement is straight-line toward
// a destination while turning toward it at TurnRate. When a level is attached
// the mover collides with solids, resolving each axis separately.
type Mover struct {
	switchable

	level *ServerLevel
	obj   *resolv.Object
	w, h  float64

	pos   gamemath.Vec2
	angle float64

	BaseSpeed  float64
	TurnRate   float64
	SpeedScale float64

	mode   moveMode
	dest   gamemath.Vec2
	face   float64
	moving bool
}

// NewMover places a mover centred on spawn. level may be nil for a
// collision-free mover.
func NewMover(level *ServerLevel, spawn gamemath.Vec2, angle float64) *Mover {
	m := &Mover{
		level:      level,
		w:          config.Player.CollisionWidth,
		h:          config.Player.CollisionHeight,
		pos:        spawn,
		angle:      gamemath.WrapAngle(angle),
		BaseSpeed:  config.Player.MoveSpeed,
		TurnRate:   config.Player.TurnRate,
		SpeedScale: 1,
	}
	m.onDisable = m.Halt

	if level != nil {
		m.obj = resolv.NewObject(spawn.X-m.w/2, spawn.Y-m.h/2, m.w, m.h, tags.ResolvPlayer)
		m.obj.SetShape(resolv.NewRectangle(0, 0, m.w, m.h))
		level.Space.Add(m.obj)
	}
	return m
}

func (m *Mover) Position() gamemath.Vec2 { return m.pos }
func (m *Mover) Angle() float64          { return m.angle }
func (m *Mover) Width() float64          { return m.w }
func (m *Mover) Height() float64         { return m.h }

// Speed is the replicated movement speed: non-zero only while travelling.
func (m *Mover) Speed() float64 {
	if !m.moving {
		return 0
	}
	return m.BaseSpeed * m.SpeedScale
}

// Destination returns the current move target, if any.
func (m *Mover) Destination() (gamemath.Vec2, bool) {
	return m.dest, m.mode == moveToPoint
}

func (m *Mover) MoveTo(p gamemath.Vec2) {
	m.mode = moveToPoint
	m.dest = p
}

// FaceAngle holds position and turns toward a.
func (m *Mover) FaceAngle(a float64) {
	m.mode = moveFace
	m.face = gamemath.WrapAngle(a)
	m.moving = false
}

func (m *Mover) Halt() {
	m.mode = moveIdle
	m.moving = false
}

// Teleport moves instantly, cancelling any movement.
func (m *Mover) Teleport(p gamemath.Vec2) {
	m.Halt()
	m.pos = p
	if m.obj != nil {
		m.obj.X = p.X - m.w/2
		m.obj.Y = p.Y - m.h/2
		m.obj.Update()
	}
}

// Detach removes the collision object from the level.
func (m *Mover) Detach() {
	if m.obj != nil && m.level != nil {
		m.level.Space.Remove(m.obj)
		m.obj = nil
	}
}

func (m *Mover) Update(dt float64) {
	if !m.enabled || dt <= 0 {
		return
	}

	switch m.mode {
	case moveFace:
		var done bool
		m.angle, done = gamemath.RotateTowards(m.angle, m.face, m.TurnRate*dt)
		if done {
			m.mode = moveIdle
		}

	case moveToPoint:
		to := m.dest.Sub(m.pos)
		if to.LenSq() > 0 {
			m.angle, _ = gamemath.RotateTowards(m.angle, to.Angle(), m.TurnRate*dt)
		}

		next, arrived := gamemath.MoveTowards(m.pos, m.dest, m.BaseSpeed*m.SpeedScale*dt)
		want := next.Sub(m.pos)
		dx, dy := m.resolve(want.X, want.Y)
		m.pos = m.pos.Add(gamemath.V(dx, dy))
		m.moving = dx != 0 || dy != 0

		blocked := dx != want.X || dy != want.Y
		if (arrived && !blocked) || !m.moving {
			m.mode = moveIdle
			m.moving = false
		}
	}
}

// resolve clips a displacement against solids, X first then Y.
func (m *Mover) resolve(dx, dy float64) (float64, float64) {
	if m.obj == nil {
		return dx, dy
	}
	if dx != 0 {
		dx = m.sweep(dx, 0)
		m.obj.X += dx
		m.obj.Update()
	}
	if dy != 0 {
		dy = m.sweep(0, dy)
		m.obj.Y += dy
		m.obj.Update()
	}
	return dx, dy
}

// sweep returns the largest part of a single-axis move that stays clear of
// solids in its path.
func (m *Mover) sweep(dx, dy float64) float64 {
	want := dx + dy
	check := m.obj.Check(dx, dy, tags.ResolvSolid)
	if check == nil {
		return want
	}

	best := want
	for _, s := range check.ObjectsByTags(tags.ResolvSolid) {
		var c float64
		if dx != 0 {
			if !overlaps(m.obj.Y, m.obj.H, s.Y, s.H) || behind(m.obj.X, m.obj.W, s.X, s.W, dx) {
				continue
			}
			c = check.ContactWithObject(s).X()
		} else {
			if !overlaps(m.obj.X, m.obj.W, s.X, s.W) || behind(m.obj.Y, m.obj.H, s.Y, s.H, dy) {
				continue
			}
			c = check.ContactWithObject(s).Y()
		}
		if c*want < 0 {
			c = 0
		}
		if math.Abs(c) < math.Abs(best) {
			best = c
		}
	}
	return best
}

// behind reports whether span b lies entirely on the far side of a relative
// to a move of d.
func behind(a, aw, b, bw, d float64) bool {
	if d > 0 {
		return b+bw <= a
	}
	return b >= a+aw
}
