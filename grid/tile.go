package grid

// TileKind is the stable integer encoding shared with the renderer and the
// collision layer.
type TileKind uint8

const (
	Grass TileKind = iota
	Tree
	Rock
	CastleWall
	CastleRoof
	Turret
	Gate
	Drawbridge
)

var tileNames = [...]string{
	Grass:      "grass",
	Tree:       "tree",
	Rock:       "rock",
	CastleWall: "castle_wall",
	CastleRoof: "castle_roof",
	Turret:     "turret",
	Gate:       "gate",
	Drawbridge: "drawbridge",
}

var tileRunes = [...]rune{
	Grass:      '.',
	Tree:       'T',
	Rock:       '#',
	CastleWall: 'W',
	CastleRoof: 'R',
	Turret:     'O',
	Gate:       'G',
	Drawbridge: '=',
}

func (k TileKind) String() string {
	if int(k) < len(tileNames) {
		return tileNames[k]
	}
	return "unknown"
}

// Rune returns the single-character form used by Map.String.
func (k TileKind) Rune() rune {
	if int(k) < len(tileRunes) {
		return tileRunes[k]
	}
	return '?'
}

// Passable reports whether the path planner may traverse the tile.
func (k TileKind) Passable() bool {
	return k == Grass || k == Drawbridge
}

// Obstacle reports whether the tile is a scattered obstacle.
func (k TileKind) Obstacle() bool {
	return k == Tree || k == Rock
}
