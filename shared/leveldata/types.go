// Package leveldata provides TMX arena parsing shared between client and server.
// It has no dependencies on donburi or resolv, only plain data.
package leveldata

// CollisionData holds all collision-relevant data parsed from a TMX level file.
type CollisionData struct {
	Name        string
	SolidRects  []SolidRect
	SpawnPoints []SpawnPoint
	MapWidth    int
	MapHeight   int
}

// SolidRect represents a solid collision tile.
type SolidRect struct {
	X, Y, W, H float64
}

// SpawnPoint represents a player spawn location.
type SpawnPoint struct {
	X, Y  float64
	Index int
}

// DefaultArena returns an open walled arena used when no level files are
// configured. Walls are one tile thick around the border.
func DefaultArena(width, height int, tile float64) *CollisionData {
	w := float64(width)
	h := float64(height)
	data := &CollisionData{
		Name:      "default",
		MapWidth:  width,
		MapHeight: height,
		SolidRects: []SolidRect{
			{X: 0, Y: 0, W: w, H: tile},
			{X: 0, Y: h - tile, W: w, H: tile},
			{X: 0, Y: tile, W: tile, H: h - 2*tile},
			{X: w - tile, Y: tile, W: tile, H: h - 2*tile},
		},
	}

	// Four spawns inset from the corners, sorted left-to-right.
	inset := 4 * tile
	data.SpawnPoints = []SpawnPoint{
		{X: inset, Y: inset, Index: 0},
		{X: inset, Y: h - inset, Index: 1},
		{X: w - inset, Y: inset, Index: 2},
		{X: w - inset, Y: h - inset, Index: 3},
	}
	return data
}
