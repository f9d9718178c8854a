package physics

import (
	"math"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/rs/zerolog"

	"github.com/milk9111/castlechase/common"
	"github.com/milk9111/castlechase/ecs"
	"github.com/milk9111/castlechase/grid"
)

const (
	collisionTypeWall cp.CollisionType = iota + 1
	collisionTypeGate
	collisionTypePlayer
	collisionTypeKnight
	collisionTypeDragon
	collisionTypeFireball
	collisionTypePickup
)

type binding struct {
	entity ecs.Entity
	kin    *ecs.Kinematic
	body   *cp.Body
	shape  *cp.Shape
	static bool
}

// Space wraps a gravity-free chipmunk space. Contacts are published to the
// world's event queue as hit, pickup and wall_hit events.
type Space struct {
	space  *cp.Space
	world  *ecs.World
	log    zerolog.Logger
	width  float64
	height float64

	bindings map[ecs.Entity]*binding
	owners   map[*cp.Shape]ecs.Entity
	gates    []*cp.Shape
}

func newSpace(world *ecs.World, log zerolog.Logger, width, height float64) *Space {
	space := cp.NewSpace()
	space.Iterations = 10
	space.SetGravity(cp.Vector{})

	s := &Space{
		space:    space,
		world:    world,
		log:      log,
		width:    width,
		height:   height,
		bindings: make(map[ecs.Entity]*binding),
		owners:   make(map[*cp.Shape]ecs.Entity),
	}
	s.setupHandlers()
	return s
}

// NewTileSpace builds static collision for every impassable tile of m.
// Gate tiles get their own shapes so OpenGate can drop them.
func NewTileSpace(world *ecs.World, log zerolog.Logger, m *grid.Map) *Space {
	size := float64(m.Size() * common.TileSize)
	s := newSpace(world, log, size, size)
	s.buildTiles(m)
	return s
}

// NewArenaSpace builds a width×height room closed by four walls of the given
// thickness.
func NewArenaSpace(world *ecs.World, log zerolog.Logger, width, height, thickness float64) *Space {
	s := newSpace(world, log, width, height)
	walls := []cp.BB{
		{L: 0, B: 0, R: width, T: thickness},
		{L: 0, B: height - thickness, R: width, T: height},
		{L: 0, B: 0, R: thickness, T: height},
		{L: width - thickness, B: 0, R: width, T: height},
	}
	for _, bb := range walls {
		s.addStatic(bb, collisionTypeWall)
	}
	return s
}

func (s *Space) addStatic(bb cp.BB, ct cp.CollisionType) *cp.Shape {
	shape := cp.NewBox2(s.space.StaticBody, bb, 0)
	shape.SetFriction(0)
	shape.SetCollisionType(ct)
	s.space.AddShape(shape)
	return shape
}

// buildTiles merges runs of solid tiles into rectangles, first along the row
// and then down as far as the whole run stays solid.
func (s *Space) buildTiles(m *grid.Map) {
	size := m.Size()
	solid := func(c grid.Coord) bool {
		k := m.At(c)
		return !k.Passable() && k != grid.Gate
	}
	processed := make([]bool, size*size)
	ts := float64(common.TileSize)

	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			idx := row*size + col
			if processed[idx] {
				continue
			}
			c := grid.Coord{Col: col, Row: row}
			if m.At(c) == grid.Gate {
				x0, y0 := float64(col)*ts, float64(row)*ts
				s.gates = append(s.gates, s.addStatic(cp.BB{L: x0, B: y0, R: x0 + ts, T: y0 + ts}, collisionTypeGate))
				processed[idx] = true
				continue
			}
			if !solid(c) {
				processed[idx] = true
				continue
			}

			w := 1
			for col+w < size && !processed[row*size+col+w] && solid(grid.Coord{Col: col + w, Row: row}) {
				w++
			}
			h := 1
		heightLoop:
			for row+h < size {
				for x := col; x < col+w; x++ {
					if processed[(row+h)*size+x] || !solid(grid.Coord{Col: x, Row: row + h}) {
						break heightLoop
					}
				}
				h++
			}

			x0, y0 := float64(col)*ts, float64(row)*ts
			s.addStatic(cp.BB{L: x0, B: y0, R: x0 + float64(w)*ts, T: y0 + float64(h)*ts}, collisionTypeWall)
			for y := row; y < row+h; y++ {
				for x := col; x < col+w; x++ {
					processed[y*size+x] = true
				}
			}
		}
	}
}

// OpenGate removes the gate shapes so bodies can pass through.
func (s *Space) OpenGate() {
	for _, shape := range s.gates {
		s.space.RemoveShape(shape)
	}
	if len(s.gates) > 0 {
		s.log.Debug().Int("shapes", len(s.gates)).Msg("physics: gate opened")
	}
	s.gates = nil
}

// GateClosed reports whether gate shapes are still present.
func (s *Space) GateClosed() bool {
	return len(s.gates) > 0
}

// Add attaches a collision shape to e based on its kind and radius. Keys and
// bombs are static sensors; fireballs are moving sensors; everything else is
// a solid body that never rotates.
func (s *Space) Add(e ecs.Entity) {
	if _, ok := s.bindings[e]; ok {
		return
	}
	k, ok := s.world.Kinematic(e)
	if !ok {
		return
	}
	kind := s.world.Kind(e)
	radius := s.world.Radius(e)
	pos := cp.Vector{X: k.X, Y: k.Y}

	b := &binding{entity: e, kin: k}
	switch kind {
	case ecs.KindKey, ecs.KindBomb:
		b.static = true
		b.shape = cp.NewCircle(s.space.StaticBody, radius, pos)
		b.shape.SetSensor(true)
		b.shape.SetCollisionType(collisionTypePickup)
	default:
		b.body = cp.NewBody(1, math.Inf(1))
		b.body.SetPosition(pos)
		b.body.SetVelocity(k.VX, k.VY)
		// the requested velocity goes in before the solver runs, so contacts
		// still correct it within the same step
		b.body.SetVelocityUpdateFunc(func(body *cp.Body, _ cp.Vector, _, _ float64) {
			body.SetVelocity(k.VX, k.VY)
		})
		b.shape = cp.NewCircle(b.body, radius, cp.Vector{})
		b.shape.SetFriction(0)
		b.shape.SetCollisionType(collisionTypeFor(kind))
		if kind == ecs.KindFireball {
			b.shape.SetSensor(true)
		}
		s.space.AddBody(b.body)
	}
	s.space.AddShape(b.shape)
	s.bindings[e] = b
	s.owners[b.shape] = e
}

func collisionTypeFor(kind ecs.Kind) cp.CollisionType {
	switch kind {
	case ecs.KindPlayer:
		return collisionTypePlayer
	case ecs.KindKnight:
		return collisionTypeKnight
	case ecs.KindDragon:
		return collisionTypeDragon
	case ecs.KindFireball:
		return collisionTypeFireball
	default:
		return collisionTypeWall
	}
}

// Remove detaches e's shape and body.
func (s *Space) Remove(e ecs.Entity) {
	b, ok := s.bindings[e]
	if !ok {
		return
	}
	s.space.RemoveShape(b.shape)
	if b.body != nil {
		s.space.RemoveBody(b.body)
	}
	delete(s.owners, b.shape)
	delete(s.bindings, e)
}

// Place moves e to (x, y) without sweeping through what lies between.
func (s *Space) Place(e ecs.Entity, x, y float64) {
	b, ok := s.bindings[e]
	if !ok || b.static {
		return
	}
	b.body.SetPosition(cp.Vector{X: x, Y: y})
	b.kin.X, b.kin.Y = x, y
}

func (s *Space) Len() int {
	return len(s.bindings)
}

// SyncOut copies body positions back into their Kinematics.
func (s *Space) SyncOut() {
	for _, b := range s.bindings {
		if b.body == nil {
			continue
		}
		p := b.body.Position()
		b.kin.X, b.kin.Y = p.X, p.Y
	}
}

// Update steps the space and copies positions out. Bodies read their
// Kinematic velocity during the step. It satisfies ecs.System.
func (s *Space) Update(_ *ecs.World, dt time.Duration) {
	s.space.Step(dt.Seconds())
	s.SyncOut()
}

// Bounds returns the size of the simulated area.
func (s *Space) Bounds() (width, height float64) {
	return s.width, s.height
}

// DebugDraw hands every shape in the space to d.
func (s *Space) DebugDraw(d cp.Drawer) {
	cp.DrawSpace(s.space, d)
}
