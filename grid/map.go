package grid

import "strings"

// Face identifies one side of the castle footprint.
type Face uint8

const (
	FaceLeft Face = iota
	FaceRight
	FaceTop
	FaceBottom
)

// Normal returns the outward unit step of the face.
func (f Face) Normal() (dc, dr int) {
	switch f {
	case FaceLeft:
		return -1, 0
	case FaceRight:
		return 1, 0
	case FaceTop:
		return 0, -1
	default:
		return 0, 1
	}
}

func (f Face) String() string {
	switch f {
	case FaceLeft:
		return "left"
	case FaceRight:
		return "right"
	case FaceTop:
		return "top"
	default:
		return "bottom"
	}
}

// Map is a square tile grid plus the regions derived while generating it.
// Tiles live in a flat row-major buffer.
type Map struct {
	size  int
	tiles []TileKind

	Castle     Rect
	GateFace   Face
	Gate       []Coord
	Drawbridge []Coord
	Keys       []Coord
}

// NewMap returns a size×size map filled with Grass.
func NewMap(size int) *Map {
	return &Map{
		size:  size,
		tiles: make([]TileKind, size*size),
	}
}

func (m *Map) Size() int {
	if m == nil {
		return 0
	}
	return m.size
}

func (m *Map) In(c Coord) bool {
	return m != nil && c.Col >= 0 && c.Row >= 0 && c.Col < m.size && c.Row < m.size
}

// At returns the tile at c. Coordinates outside the map read as Rock.
func (m *Map) At(c Coord) TileKind {
	if !m.In(c) {
		return Rock
	}
	return m.tiles[c.Row*m.size+c.Col]
}

// Set writes k at c; writes outside the map are dropped.
func (m *Map) Set(c Coord, k TileKind) {
	if !m.In(c) {
		return
	}
	m.tiles[c.Row*m.size+c.Col] = k
}

// OpenGate converts every gate tile into Drawbridge. It is the one runtime
// mutation of a generated map; callers re-derive passability afterwards.
func (m *Map) OpenGate() {
	if m == nil {
		return
	}
	for _, c := range m.Gate {
		m.Set(c, Drawbridge)
	}
}

// GateOpen reports whether OpenGate has been applied.
func (m *Map) GateOpen() bool {
	if m == nil || len(m.Gate) == 0 {
		return false
	}
	for _, c := range m.Gate {
		if m.At(c) != Drawbridge {
			return false
		}
	}
	return true
}

// Passability snapshots which tiles the planner may traverse.
func (m *Map) Passability() Passability {
	p := Passability{Width: m.Size(), Height: m.Size(), open: make([]bool, len(m.tiles))}
	for i, k := range m.tiles {
		p.open[i] = k.Passable()
	}
	return p
}

// String renders the map one rune per tile with keys drawn as 'K'.
func (m *Map) String() string {
	if m == nil {
		return ""
	}
	keys := make(map[Coord]bool, len(m.Keys))
	for _, k := range m.Keys {
		keys[k] = true
	}
	var b strings.Builder
	b.Grow((m.size + 1) * m.size)
	for row := 0; row < m.size; row++ {
		for col := 0; col < m.size; col++ {
			c := Coord{Col: col, Row: row}
			if keys[c] {
				b.WriteRune('K')
				continue
			}
			b.WriteRune(m.At(c).Rune())
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Passability is an immutable traversal matrix derived from a Map.
type Passability struct {
	Width  int
	Height int
	open   []bool
}

// NewPassability builds a matrix from a row-major slice. The slice is copied.
func NewPassability(width, height int, open []bool) Passability {
	cp := make([]bool, width*height)
	copy(cp, open)
	return Passability{Width: width, Height: height, open: cp}
}

func (p Passability) Open(c Coord) bool {
	if c.Col < 0 || c.Row < 0 || c.Col >= p.Width || c.Row >= p.Height {
		return false
	}
	return p.open[c.Row*p.Width+c.Col]
}

func (p Passability) In(c Coord) bool {
	return c.Col >= 0 && c.Row >= 0 && c.Col < p.Width && c.Row < p.Height
}
