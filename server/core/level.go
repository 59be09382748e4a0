package core

import (
	"fmt"
	"os"

	"github.com/automoto/skirmish/logging"
	"github.com/automoto/skirmish/shared/gamemath"
	"github.com/automoto/skirmish/shared/leveldata"
	"github.com/automoto/skirmish/tags"
	"github.com/solarlune/resolv"
)

// ServerLevel holds the server's collision space and spawn data for a level.
type ServerLevel struct {
	Name        string
	Space       *resolv.Space
	SpawnPoints []leveldata.SpawnPoint
	MapWidth    int
	MapHeight   int
}

// NewServerLevel builds a resolv.Space from parsed collision data.
func NewServerLevel(data *leveldata.CollisionData) *ServerLevel {
	space := resolv.NewSpace(data.MapWidth, data.MapHeight, 16, 16)

	for _, r := range data.SolidRects {
		obj := resolv.NewObject(r.X, r.Y, r.W, r.H, tags.ResolvSolid)
		obj.SetShape(resolv.NewRectangle(0, 0, r.W, r.H))
		space.Add(obj)
	}

	logging.For("level").Info().
		Str("name", data.Name).
		Int("solids", len(data.SolidRects)).
		Int("spawns", len(data.SpawnPoints)).
		Int("width", data.MapWidth).
		Int("height", data.MapHeight).
		Msg("loaded level")

	return &ServerLevel{
		Name:        data.Name,
		Space:       space,
		SpawnPoints: data.SpawnPoints,
		MapWidth:    data.MapWidth,
		MapHeight:   data.MapHeight,
	}
}

// Blocked reports whether a w×h box centred on p overlaps a solid or leaves
// the map.
func (l *ServerLevel) Blocked(p gamemath.Vec2, w, h float64) bool {
	x, y := p.X-w/2, p.Y-h/2
	if x < 0 || y < 0 || x+w > float64(l.MapWidth) || y+h > float64(l.MapHeight) {
		return true
	}

	probe := resolv.NewObject(x, y, w, h)
	l.Space.Add(probe)
	defer l.Space.Remove(probe)
	return l.solidOverlap(probe)
}

// solidOverlap reports whether obj's bounds intersect any solid. The resolv
// check is cell-granular, so candidates are confirmed against their bounds.
func (l *ServerLevel) solidOverlap(obj *resolv.Object) bool {
	check := obj.Check(0, 0, tags.ResolvSolid)
	if check == nil {
		return false
	}
	for _, s := range check.ObjectsByTags(tags.ResolvSolid) {
		if overlaps(obj.X, obj.W, s.X, s.W) && overlaps(obj.Y, obj.H, s.Y, s.H) {
			return true
		}
	}
	return false
}

// Spawn returns the centre of spawn point i, wrapping around the list.
func (l *ServerLevel) Spawn(i int) gamemath.Vec2 {
	if len(l.SpawnPoints) == 0 {
		return gamemath.V(float64(l.MapWidth)/2, float64(l.MapHeight)/2)
	}
	sp := l.SpawnPoints[i%len(l.SpawnPoints)]
	return gamemath.V(sp.X, sp.Y)
}

// LoadAllServerLevels loads all .tmx levels from the given assets directory,
// returning a map of ServerLevel keyed by stem name plus a sorted name list.
func LoadAllServerLevels(assetsDir string) (map[string]*ServerLevel, []string, error) {
	collisionMap, names, err := leveldata.LoadAllLevels(os.DirFS(assetsDir), "levels")
	if err != nil {
		return nil, nil, fmt.Errorf("load all levels: %w", err)
	}

	levels := make(map[string]*ServerLevel, len(names))
	for _, name := range names {
		levels[name] = NewServerLevel(collisionMap[name])
	}

	return levels, names, nil
}

func overlaps(a, aw, b, bw float64) bool {
	return a < b+bw && b < a+aw
}
