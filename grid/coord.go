package grid

import (
	"math"

	"github.com/milk9111/castlechase/common"
)

// Coord addresses a tile by column and row.
type Coord struct {
	Col int
	Row int
}

func (c Coord) Add(dc, dr int) Coord {
	return Coord{Col: c.Col + dc, Row: c.Row + dr}
}

func (c Coord) Manhattan(o Coord) int {
	return abs(c.Col-o.Col) + abs(c.Row-o.Row)
}

func (c Coord) Chebyshev(o Coord) int {
	return max(abs(c.Col-o.Col), abs(c.Row-o.Row))
}

// Rect is an axis-aligned block of tiles.
type Rect struct {
	Col    int
	Row    int
	Width  int
	Height int
}

func (r Rect) Contains(c Coord) bool {
	return c.Col >= r.Col && c.Col < r.Col+r.Width &&
		c.Row >= r.Row && c.Row < r.Row+r.Height
}

// Grow returns r expanded by n tiles on every side.
func (r Rect) Grow(n int) Rect {
	return Rect{Col: r.Col - n, Row: r.Row - n, Width: r.Width + 2*n, Height: r.Height + 2*n}
}

func (r Rect) Right() int  { return r.Col + r.Width - 1 }
func (r Rect) Bottom() int { return r.Row + r.Height - 1 }

// WorldToTile maps a world position to the tile containing it.
func WorldToTile(x, y float64) Coord {
	return Coord{
		Col: int(math.Floor(x / common.TileSize)),
		Row: int(math.Floor(y / common.TileSize)),
	}
}

// TileToWorld returns the world position of the tile centre.
func TileToWorld(c Coord) (x, y float64) {
	half := common.TileSize / 2.0
	return float64(c.Col)*common.TileSize + half, float64(c.Row)*common.TileSize + half
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
