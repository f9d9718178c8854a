package pathfind

import (
	"math/rand"
	"testing"

	"github.com/milk9111/castlechase/grid"
	"github.com/milk9111/castlechase/mapgen"
)

// parseGrid builds a passability matrix from rows of '.' (open) and '#'.
func parseGrid(rows ...string) grid.Passability {
	h := len(rows)
	w := len(rows[0])
	open := make([]bool, w*h)
	for r, line := range rows {
		for c, ch := range line {
			open[r*w+c] = ch == '.'
		}
	}
	return grid.NewPassability(w, h, open)
}

func center(col, row int) (float64, float64) {
	return grid.TileToWorld(grid.Coord{Col: col, Row: row})
}

func drain(p *Planner) int {
	ticks := 0
	for p.Pending() > 0 {
		p.Tick()
		ticks++
		if ticks > 100000 {
			panic("planner did not drain")
		}
	}
	return ticks
}

func solve(t *testing.T, g grid.Passability, from, to grid.Coord) []Waypoint {
	t.Helper()
	p := New()
	p.SetGrid(g)
	fx, fy := grid.TileToWorld(from)
	tx, ty := grid.TileToWorld(to)
	id := p.FindPath(fx, fy, tx, ty)
	drain(p)
	path, done := p.Result(id)
	if !done {
		t.Fatalf("request %s not resolved", id)
	}
	return path
}

func TestFindPathCases(t *testing.T) {
	open5 := parseGrid(
		".....",
		".....",
		".....",
		".....",
		".....",
	)
	cases := []struct {
		name    string
		grid    grid.Passability
		from    grid.Coord
		to      grid.Coord
		wantLen int // -1 means nil
	}{
		{"same_tile", open5, grid.Coord{Col: 2, Row: 2}, grid.Coord{Col: 2, Row: 2}, -1},
		{"adjacent", open5, grid.Coord{Col: 2, Row: 2}, grid.Coord{Col: 3, Row: 2}, 1},
		{"straight_line", open5, grid.Coord{Col: 0, Row: 0}, grid.Coord{Col: 4, Row: 0}, 4},
		{"pure_diagonal", open5, grid.Coord{Col: 0, Row: 0}, grid.Coord{Col: 4, Row: 4}, 4},
		{"goal_out_of_bounds", open5, grid.Coord{Col: 0, Row: 0}, grid.Coord{Col: 9, Row: 0}, -1},
		{"start_out_of_bounds", open5, grid.Coord{Col: -1, Row: 0}, grid.Coord{Col: 2, Row: 0}, -1},
		{"goal_blocked", parseGrid("..#", "...", "..."), grid.Coord{Col: 0, Row: 0}, grid.Coord{Col: 2, Row: 0}, -1},
		{"walled_off", parseGrid("..#..", "..#..", "..#.."), grid.Coord{Col: 0, Row: 1}, grid.Coord{Col: 4, Row: 1}, -1},
		{"corner_both_blocked", parseGrid(".#", "#."), grid.Coord{Col: 0, Row: 0}, grid.Coord{Col: 1, Row: 1}, -1},
		{"corner_one_blocked", parseGrid(".#", ".."), grid.Coord{Col: 0, Row: 0}, grid.Coord{Col: 1, Row: 1}, 2},
		{"detour", parseGrid(".....", ".###.", "....."), grid.Coord{Col: 0, Row: 1}, grid.Coord{Col: 4, Row: 1}, 6},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			path := solve(t, c.grid, c.from, c.to)
			if c.wantLen < 0 {
				if path != nil {
					t.Fatalf("expected no path, got %v", path)
				}
				return
			}
			if len(path) != c.wantLen {
				t.Fatalf("path length = %d, want %d (%v)", len(path), c.wantLen, path)
			}
			gx, gy := grid.TileToWorld(c.to)
			last := path[len(path)-1]
			if last.X != gx || last.Y != gy {
				t.Fatalf("path ends at %v, want (%v,%v)", last, gx, gy)
			}
		})
	}
}

func TestPathShapeOnGeneratedMaps(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		rng := rand.New(rand.NewSource(seed))
		m := mapgen.New(rng).Generate(grid.Coord{Col: 25, Row: 25}, 50, 0.15, 5)
		pass := m.Passability()
		start := grid.Coord{Col: 25, Row: 25}

		for _, k := range m.Keys {
			path := solve(t, pass, start, k)
			if path == nil {
				continue
			}
			if len(path) < 1 {
				t.Fatalf("seed %d: empty non-nil path", seed)
			}
			prev := start
			for i, wp := range path {
				c := grid.WorldToTile(wp.X, wp.Y)
				if i == 0 && c == start {
					t.Fatalf("seed %d: path includes the origin tile", seed)
				}
				if !pass.Open(c) {
					t.Fatalf("seed %d: waypoint %v is impassable", seed, c)
				}
				if c.Chebyshev(prev) != 1 {
					t.Fatalf("seed %d: waypoint %v not adjacent to %v", seed, c, prev)
				}
				if c.Col != prev.Col && c.Row != prev.Row {
					if !pass.Open(grid.Coord{Col: c.Col, Row: prev.Row}) || !pass.Open(grid.Coord{Col: prev.Col, Row: c.Row}) {
						t.Fatalf("seed %d: diagonal %v -> %v cuts a corner", seed, prev, c)
					}
				}
				prev = c
			}
			if prev != k {
				t.Fatalf("seed %d: path ends at %v, want key %v", seed, prev, k)
			}
		}
	}
}

func TestTickIsTimeSliced(t *testing.T) {
	rows := make([]string, 40)
	for i := range rows {
		rows[i] = "........................................"
	}
	p := New(WithBudget(5))
	p.SetGrid(parseGrid(rows...))

	fx, fy := center(0, 0)
	tx, ty := center(39, 39)
	var got []Waypoint
	calls := 0
	p.FindPathFunc(fx, fy, tx, ty, func(_ RequestID, path []Waypoint) {
		calls++
		got = path
	})

	p.Tick()
	if calls != 0 {
		t.Fatalf("request resolved within one 5-expansion tick")
	}
	ticks := 1 + drain(p)
	if calls != 1 {
		t.Fatalf("callback called %d times", calls)
	}
	if len(got) != 39 {
		t.Fatalf("diagonal path length = %d, want 39", len(got))
	}
	if ticks < 8 {
		t.Fatalf("expected the search to span several ticks, took %d", ticks)
	}
}

func TestRequestsResolveInArrivalOrder(t *testing.T) {
	p := New(WithBudget(3))
	p.SetGrid(parseGrid(
		"..........",
		"..........",
		"..........",
	))

	var order []RequestID
	record := func(id RequestID, _ []Waypoint) { order = append(order, id) }

	ax, ay := center(0, 0)
	bx, by := center(9, 2)
	first := p.FindPathFunc(ax, ay, bx, by, record)
	second := p.FindPathFunc(bx, by, ax, ay, record)
	third := p.FindPathFunc(ax, ay, ax, ay, record)
	drain(p)

	want := []RequestID{first, second, third}
	if len(order) != len(want) {
		t.Fatalf("resolved %d requests, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("resolution %d = %s, want %s", i, order[i], want[i])
		}
	}
}

func TestResultIsConsumed(t *testing.T) {
	p := New()
	p.SetGrid(parseGrid("...", "...", "..."))
	fx, fy := center(0, 0)
	tx, ty := center(2, 2)
	id := p.FindPath(fx, fy, tx, ty)

	if _, done := p.Result(id); done {
		t.Fatalf("result available before any tick")
	}
	p.Tick()
	if path, done := p.Result(id); !done || len(path) != 2 {
		t.Fatalf("Result = %v, %v", path, done)
	}
	if _, done := p.Result(id); done {
		t.Fatalf("result should be consumed by the first read")
	}
}

func TestSetGridAfterGateOpens(t *testing.T) {
	m := grid.NewMap(5)
	m.Gate = []grid.Coord{{Col: 2, Row: 0}, {Col: 2, Row: 1}, {Col: 2, Row: 2}, {Col: 2, Row: 3}, {Col: 2, Row: 4}}
	for _, c := range m.Gate {
		m.Set(c, grid.Gate)
	}
	from, to := grid.Coord{Col: 0, Row: 2}, grid.Coord{Col: 4, Row: 2}
	if path := solve(t, m.Passability(), from, to); path != nil {
		t.Fatalf("closed gate should block, got %v", path)
	}
	m.OpenGate()
	if path := solve(t, m.Passability(), from, to); len(path) != 4 {
		t.Fatalf("open gate path = %v", path)
	}
}

func TestNoGridResolvesNil(t *testing.T) {
	p := New()
	calls := 0
	p.FindPathFunc(10, 10, 100, 100, func(_ RequestID, path []Waypoint) {
		calls++
		if path != nil {
			t.Fatalf("expected nil path without a grid")
		}
	})
	p.Tick()
	if calls != 1 {
		t.Fatalf("callback calls = %d", calls)
	}
}
