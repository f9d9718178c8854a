package physics

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/milk9111/castlechase/ecs"
	"github.com/milk9111/castlechase/grid"
)

const frame = 16 * time.Millisecond

func run(s *Space, w *ecs.World, frames int) {
	for i := 0; i < frames; i++ {
		s.Update(w, frame)
	}
}

func findEvent(events []ecs.Event, kind ecs.EventType, e ecs.Entity) (ecs.Event, bool) {
	for _, evt := range events {
		if evt.Type == kind && evt.Entity == e {
			return evt, true
		}
	}
	return ecs.Event{}, false
}

func TestArenaWallStopsDragonAndReports(t *testing.T) {
	w := ecs.NewWorld()
	s := NewArenaSpace(w, zerolog.Nop(), 640, 480, 16)
	dragon, k := w.Spawn(ecs.KindDragon, 80, 240, 24)
	s.Add(dragon)
	k.SetVelocity(-350, 0)

	run(s, w, 30)

	if _, ok := findEvent(w.Events().Drain(), ecs.EventWallHit, dragon); !ok {
		t.Fatalf("no wall_hit event for a dragon charging into the wall")
	}
	if k.X < 16+24-2 {
		t.Fatalf("dragon passed into the wall: x = %v", k.X)
	}
}

func TestDragonMovingAwayFromWallIsQuiet(t *testing.T) {
	w := ecs.NewWorld()
	s := NewArenaSpace(w, zerolog.Nop(), 640, 480, 16)
	dragon, k := w.Spawn(ecs.KindDragon, 320, 240, 24)
	s.Add(dragon)
	k.SetVelocity(100, 0)

	run(s, w, 10)

	if _, ok := findEvent(w.Events().Drain(), ecs.EventWallHit, dragon); ok {
		t.Fatalf("wall_hit reported in open floor")
	}
	if k.X <= 320 {
		t.Fatalf("dragon did not move: x = %v", k.X)
	}
}

func TestPlayerOverlaps(t *testing.T) {
	cases := []struct {
		name  string
		kind  ecs.Kind
		event ecs.EventType
	}{
		{"knight_hit", ecs.KindKnight, ecs.EventHit},
		{"dragon_hit", ecs.KindDragon, ecs.EventHit},
		{"fireball_hit", ecs.KindFireball, ecs.EventHit},
		{"key_pickup", ecs.KindKey, ecs.EventPickup},
		{"bomb_pickup", ecs.KindBomb, ecs.EventPickup},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := ecs.NewWorld()
			s := NewArenaSpace(w, zerolog.Nop(), 640, 480, 16)
			player, pk := w.Spawn(ecs.KindPlayer, 200, 200, 12)
			other, _ := w.Spawn(c.kind, 210, 200, 12)
			s.Add(player)
			s.Add(other)

			run(s, w, 1)

			evt, ok := findEvent(w.Events().Drain(), c.event, player)
			if !ok {
				t.Fatalf("no %s event", c.event)
			}
			if evt.Other != other {
				t.Fatalf("event names %s, want %s", evt.Other, other)
			}
			if pk.X != 200 || pk.Y != 200 {
				t.Fatalf("overlap pushed the player to (%v,%v)", pk.X, pk.Y)
			}
		})
	}
}

func TestFireballReportsWall(t *testing.T) {
	w := ecs.NewWorld()
	s := NewArenaSpace(w, zerolog.Nop(), 640, 480, 16)
	fb, k := w.Spawn(ecs.KindFireball, 320, 40, 8)
	s.Add(fb)
	k.SetVelocity(0, -200)

	run(s, w, 20)

	if _, ok := findEvent(w.Events().Drain(), ecs.EventWallHit, fb); !ok {
		t.Fatalf("fireball crossing the wall was not reported")
	}
}

func TestRemove(t *testing.T) {
	w := ecs.NewWorld()
	s := NewArenaSpace(w, zerolog.Nop(), 640, 480, 16)
	player, _ := w.Spawn(ecs.KindPlayer, 200, 200, 12)
	key, _ := w.Spawn(ecs.KindKey, 200, 200, 12)
	s.Add(player)
	s.Add(key)
	s.Remove(key)
	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}

	run(s, w, 1)
	if _, ok := findEvent(w.Events().Drain(), ecs.EventPickup, player); ok {
		t.Fatalf("removed key still collected")
	}
}

func wallMap() *grid.Map {
	m := grid.NewMap(6)
	for row := 0; row < 6; row++ {
		m.Set(grid.Coord{Col: 3, Row: row}, grid.Rock)
	}
	m.Gate = []grid.Coord{{Col: 3, Row: 2}, {Col: 3, Row: 3}}
	for _, c := range m.Gate {
		m.Set(c, grid.Gate)
	}
	return m
}

func TestTileWallsBlock(t *testing.T) {
	w := ecs.NewWorld()
	m := wallMap()
	s := NewTileSpace(w, zerolog.Nop(), m)
	if !s.GateClosed() {
		t.Fatalf("gate shapes missing")
	}

	player, k := w.Spawn(ecs.KindPlayer, 48, 16+32*2.5, 10)
	s.Add(player)
	k.SetVelocity(200, 0)
	run(s, w, 60)

	if k.X >= 96 {
		t.Fatalf("player passed the closed gate: x = %v", k.X)
	}
}

func TestOpenGateLetsBodiesThrough(t *testing.T) {
	w := ecs.NewWorld()
	m := wallMap()
	s := NewTileSpace(w, zerolog.Nop(), m)
	m.OpenGate()
	s.OpenGate()
	if s.GateClosed() {
		t.Fatalf("gate shapes still present")
	}

	// centred on the two open gate rows
	player, k := w.Spawn(ecs.KindPlayer, 48, 96, 10)
	s.Add(player)
	k.SetVelocity(200, 0)
	run(s, w, 60)

	if k.X <= 128 {
		t.Fatalf("player did not pass the open gate: x = %v", k.X)
	}
}

func TestSteeredBodyHoldsAgainstWall(t *testing.T) {
	cases := []struct {
		name   string
		vx, vy float64
	}{
		{"head_on", 200, 0},
		{"diagonal", 200, 60},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := ecs.NewWorld()
			s := NewTileSpace(w, zerolog.Nop(), wallMap())
			player, k := w.Spawn(ecs.KindPlayer, 48, 16, 10)
			s.Add(player)

			// a controller writes its velocity every frame
			for i := 0; i < 120; i++ {
				k.SetVelocity(c.vx, c.vy)
				s.Update(w, frame)
			}

			if k.X > 96-10+1 {
				t.Fatalf("player sank into the rock column: x = %v", k.X)
			}
			if k.VX != c.vx || k.VY != c.vy {
				t.Fatalf("requested velocity overwritten: (%v,%v)", k.VX, k.VY)
			}
			if c.vy != 0 && k.Y <= 16 {
				t.Fatalf("player did not slide along the wall: y = %v", k.Y)
			}
		})
	}
}
