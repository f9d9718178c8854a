package mapgen

import (
	"math/rand"
	"testing"

	"github.com/milk9111/castlechase/grid"
)

type genCase struct {
	name     string
	size     int
	density  float64
	keys     int
	spawnCol int
	spawnRow int
}

var genCases = []genCase{
	{"easy_center", 40, 0.10, 3, 20, 20},
	{"medium_center", 50, 0.15, 5, 25, 25},
	{"hard_center", 60, 0.15, 5, 30, 30},
	{"dense_offset", 50, 0.9, 5, 12, 30},
	{"corner_spawn", 45, 0.3, 6, 8, 8},
}

func generateSeeds(t *testing.T, fn func(t *testing.T, c genCase, m *grid.Map, g *Generator)) {
	t.Helper()
	for _, c := range genCases {
		t.Run(c.name, func(t *testing.T) {
			for seed := int64(1); seed <= 20; seed++ {
				g := New(rand.New(rand.NewSource(seed)))
				spawn := grid.Coord{Col: c.spawnCol, Row: c.spawnRow}
				m := g.Generate(spawn, c.size, c.density, c.keys)
				fn(t, c, m, g)
			}
		})
	}
}

func TestBorderIsRock(t *testing.T) {
	generateSeeds(t, func(t *testing.T, c genCase, m *grid.Map, _ *Generator) {
		last := c.size - 1
		for i := 0; i < c.size; i++ {
			for _, p := range []grid.Coord{{Col: i, Row: 0}, {Col: i, Row: last}, {Col: 0, Row: i}, {Col: last, Row: i}} {
				if m.At(p) != grid.Rock {
					t.Fatalf("border tile %v = %s", p, m.At(p))
				}
			}
		}
	})
}

func TestObstaclesNeverShareAnEdge(t *testing.T) {
	generateSeeds(t, func(t *testing.T, c genCase, m *grid.Map, _ *Generator) {
		// the border ring is Rock too, so it is checked only as a neighbour
		for row := 1; row < c.size-1; row++ {
			for col := 1; col < c.size-1; col++ {
				p := grid.Coord{Col: col, Row: row}
				if !m.At(p).Obstacle() {
					continue
				}
				for _, n := range []grid.Coord{p.Add(0, -1), p.Add(0, 1), p.Add(-1, 0), p.Add(1, 0)} {
					if m.At(n) != grid.Grass {
						t.Fatalf("obstacle %s at %v touches %s at %v", m.At(p), p, m.At(n), n)
					}
				}
			}
		}
	})
}

func TestObstaclesMayFillCastleBuffer(t *testing.T) {
	found := 0
	for seed := int64(1); seed <= 20; seed++ {
		g := New(rand.New(rand.NewSource(seed)))
		m := g.Generate(grid.Coord{Col: 25, Row: 25}, 50, 0.9, 5)
		zone := m.Castle.Grow(g.Options().CastleBuffer)
		for row := zone.Row; row <= zone.Bottom(); row++ {
			for col := zone.Col; col <= zone.Right(); col++ {
				p := grid.Coord{Col: col, Row: row}
				if !m.Castle.Contains(p) && m.At(p).Obstacle() {
					found++
				}
			}
		}
	}
	if found == 0 {
		t.Fatalf("no obstacle landed in the castle buffer over 20 dense maps")
	}
}

func TestSpawnClearRadius(t *testing.T) {
	generateSeeds(t, func(t *testing.T, c genCase, m *grid.Map, g *Generator) {
		spawn := grid.Coord{Col: c.spawnCol, Row: c.spawnRow}
		r := g.Options().ClearRadius
		for row := 1; row < c.size-1; row++ {
			for col := 1; col < c.size-1; col++ {
				p := grid.Coord{Col: col, Row: row}
				if p.Chebyshev(spawn) <= r && m.At(p).Obstacle() {
					t.Fatalf("obstacle %s at %v within radius %d of spawn", m.At(p), p, r)
				}
			}
		}
	})
}

func TestCastlePlacement(t *testing.T) {
	generateSeeds(t, func(t *testing.T, c genCase, m *grid.Map, _ *Generator) {
		castle := m.Castle
		if castle.Col < 1 || castle.Row < 1 || castle.Right() > c.size-2 || castle.Bottom() > c.size-2 {
			t.Fatalf("castle %+v overlaps border of %d map", castle, c.size)
		}

		turrets := []grid.Coord{
			{Col: castle.Col, Row: castle.Row}, {Col: castle.Right(), Row: castle.Row},
			{Col: castle.Col, Row: castle.Bottom()}, {Col: castle.Right(), Row: castle.Bottom()},
		}
		for _, p := range turrets {
			if m.At(p) != grid.Turret {
				t.Fatalf("corner %v = %s, want turret", p, m.At(p))
			}
		}

		center := c.size / 2
		dists := map[grid.Face]int{
			grid.FaceLeft:   iabs(castle.Col - center),
			grid.FaceRight:  iabs(castle.Right() - center),
			grid.FaceTop:    iabs(castle.Row - center),
			grid.FaceBottom: iabs(castle.Bottom() - center),
		}
		for f, d := range dists {
			if d < dists[m.GateFace] {
				t.Fatalf("gate on %s (dist %d) but %s is closer (%d)", m.GateFace, dists[m.GateFace], f, d)
			}
		}

		if len(m.Gate) != 3 {
			t.Fatalf("expected 3 gate tiles, got %d", len(m.Gate))
		}
		for i, g := range m.Gate {
			if m.At(g) != grid.Gate {
				t.Fatalf("gate tile %v = %s", g, m.At(g))
			}
			if !onFace(castle, m.GateFace, g) {
				t.Fatalf("gate tile %v not on %s face", g, m.GateFace)
			}
			if i > 0 && g.Manhattan(m.Gate[i-1]) != 1 {
				t.Fatalf("gate tiles not contiguous: %v", m.Gate)
			}
		}

		if len(m.Drawbridge) != 6 {
			t.Fatalf("expected 6 drawbridge tiles, got %d", len(m.Drawbridge))
		}
		dc, dr := m.GateFace.Normal()
		for _, g := range m.Gate {
			for depth := 1; depth <= 2; depth++ {
				b := g.Add(dc*depth, dr*depth)
				if m.At(b) != grid.Drawbridge {
					t.Fatalf("drawbridge %v (depth %d from %v) = %s", b, depth, g, m.At(b))
				}
			}
		}
	})
}

func TestCastleFarthestCorner(t *testing.T) {
	// spawn near the top-left: the castle must land bottom-right.
	g := New(rand.New(rand.NewSource(7)))
	m := g.Generate(grid.Coord{Col: 8, Row: 8}, 50, 0.1, 3)
	if m.Castle.Col != 50-7-3 || m.Castle.Row != 50-7-3 {
		t.Fatalf("castle at %+v, want bottom-right corner", m.Castle)
	}
	if m.GateFace != grid.FaceLeft {
		t.Fatalf("gate face = %s, want left (ties resolve left first)", m.GateFace)
	}
}

func TestKeyConstraints(t *testing.T) {
	generateSeeds(t, func(t *testing.T, c genCase, m *grid.Map, g *Generator) {
		o := g.Options()
		spawn := grid.Coord{Col: c.spawnCol, Row: c.spawnRow}
		if len(m.Keys) > c.keys {
			t.Fatalf("placed %d keys, requested %d", len(m.Keys), c.keys)
		}
		for i, k := range m.Keys {
			if m.At(k) != grid.Grass {
				t.Fatalf("key %v on %s", k, m.At(k))
			}
			if m.Castle.Contains(k) {
				t.Fatalf("key %v inside castle", k)
			}
			if k.Manhattan(spawn) < o.KeyMinFromSpawn {
				t.Fatalf("key %v too close to spawn", k)
			}
			for _, other := range m.Keys[i+1:] {
				if k.Manhattan(other) < o.KeyMinBetween {
					t.Fatalf("keys %v and %v too close", k, other)
				}
			}
		}
	})
}

func TestEmptyMapScenario(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		g := New(rand.New(rand.NewSource(seed)))
		m := g.Generate(grid.Coord{Col: 25, Row: 25}, 50, 0, 5)
		if len(m.Keys) != 5 {
			t.Fatalf("seed %d: placed %d keys, want 5", seed, len(m.Keys))
		}
		bridge := map[grid.Coord]bool{}
		for _, b := range m.Drawbridge {
			bridge[b] = true
		}
		for row := 1; row < 49; row++ {
			for col := 1; col < 49; col++ {
				p := grid.Coord{Col: col, Row: row}
				if m.Castle.Contains(p) || bridge[p] {
					continue
				}
				if m.At(p) != grid.Grass {
					t.Fatalf("seed %d: tile %v = %s, want grass", seed, p, m.At(p))
				}
			}
		}
	}
}

func TestShortKeyListWhenSpaceIsScarce(t *testing.T) {
	g := New(rand.New(rand.NewSource(3)))
	m := g.Generate(grid.Coord{Col: 12, Row: 12}, 24, 0, 50)
	if len(m.Keys) == 0 || len(m.Keys) >= 50 {
		t.Fatalf("expected a short, non-empty key list, got %d", len(m.Keys))
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	a := New(rand.New(rand.NewSource(42))).Generate(grid.Coord{Col: 25, Row: 25}, 50, 0.15, 5)
	b := New(rand.New(rand.NewSource(42))).Generate(grid.Coord{Col: 25, Row: 25}, 50, 0.15, 5)
	if a.String() != b.String() {
		t.Fatalf("same seed produced different maps")
	}
	c := New(rand.New(rand.NewSource(43))).Generate(grid.Coord{Col: 25, Row: 25}, 50, 0.15, 5)
	if a.String() == c.String() {
		t.Fatalf("different seeds produced identical maps")
	}
}

func TestMinMapSize(t *testing.T) {
	if got := MinMapSize(DefaultOptions()); got != 15 {
		t.Fatalf("MinMapSize = %d, want 15", got)
	}
}

func onFace(r grid.Rect, f grid.Face, c grid.Coord) bool {
	switch f {
	case grid.FaceLeft:
		return c.Col == r.Col && c.Row > r.Row && c.Row < r.Bottom()
	case grid.FaceRight:
		return c.Col == r.Right() && c.Row > r.Row && c.Row < r.Bottom()
	case grid.FaceTop:
		return c.Row == r.Row && c.Col > r.Col && c.Col < r.Right()
	default:
		return c.Row == r.Bottom() && c.Col > r.Col && c.Col < r.Right()
	}
}

func TestOptionsShapeTheMap(t *testing.T) {
	spawn := grid.Coord{Col: 20, Row: 20}
	g := New(rand.New(rand.NewSource(5)), WithCastle(7, 5, 2, 1), WithClearRadius(6))
	m := g.Generate(spawn, 40, 0.5, 3)

	if m.Castle.Width != 7 || m.Castle.Height != 5 {
		t.Fatalf("castle = %+v, want 7x5", m.Castle)
	}
	if m.Castle.Col != 2 && m.Castle.Right() != 40-2-1 {
		t.Fatalf("castle %+v not inset by the margin", m.Castle)
	}
	for row := 1; row < 39; row++ {
		for col := 1; col < 39; col++ {
			p := grid.Coord{Col: col, Row: row}
			if p.Chebyshev(spawn) <= 6 && m.At(p).Obstacle() {
				t.Fatalf("obstacle at %v inside the widened clear radius", p)
			}
		}
	}
	if got := MinMapSize(g.Options()); got != 2*2+7+2 {
		t.Fatalf("MinMapSize = %d, want %d", got, 2*2+7+2)
	}
}
