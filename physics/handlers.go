package physics

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/castlechase/ecs"
)

func (s *Space) setupHandlers() {
	// overlaps that end the run: report, never push
	for _, other := range []cp.CollisionType{collisionTypeKnight, collisionTypeDragon, collisionTypeFireball} {
		h := s.space.NewCollisionHandler(collisionTypePlayer, other)
		h.UserData = s
		h.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
			s.publish(arb, ecs.EventHit)
			return false
		}
	}

	pickup := s.space.NewCollisionHandler(collisionTypePlayer, collisionTypePickup)
	pickup.UserData = s
	pickup.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		s.publish(arb, ecs.EventPickup)
		return false
	}

	// fireballs die on any wall, closed gates included
	for _, wall := range []cp.CollisionType{collisionTypeWall, collisionTypeGate} {
		h := s.space.NewCollisionHandler(collisionTypeFireball, wall)
		h.UserData = s
		h.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
			s.publish(arb, ecs.EventWallHit)
			return false
		}
	}

	// the dragon reports contact while moving into a wall; the encounter
	// ignores the signal outside a charge
	dragonWall := s.space.NewCollisionHandler(collisionTypeDragon, collisionTypeWall)
	dragonWall.UserData = s
	dragonWall.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		a, _ := arb.Shapes()
		if body := a.Body(); body != nil && body.Velocity().Dot(arb.Normal()) > 0 {
			s.publish(arb, ecs.EventWallHit)
		}
		return true
	}

	// projectiles and pickups pass through the dragon and knights silently
	for _, pair := range [][2]cp.CollisionType{
		{collisionTypeDragon, collisionTypeFireball},
		{collisionTypeKnight, collisionTypeFireball},
		{collisionTypeKnight, collisionTypePickup},
		{collisionTypeDragon, collisionTypePickup},
		{collisionTypeFireball, collisionTypePickup},
	} {
		h := s.space.NewCollisionHandler(pair[0], pair[1])
		h.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
			return false
		}
	}
}

// publish pushes an event for the first shape of the arbiter, naming the
// second as Other when it belongs to an entity.
func (s *Space) publish(arb *cp.Arbiter, kind ecs.EventType) {
	a, b := arb.Shapes()
	e, ok := s.owners[a]
	if !ok {
		return
	}
	other := s.owners[b]
	s.world.Events().Push(ecs.Event{Type: kind, Entity: e, Other: other})
	s.log.Trace().Str("event", string(kind)).Stringer("entity", e).Stringer("other", other).Msg("physics: contact")
}
