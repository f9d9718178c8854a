package ecs

import (
	"errors"
	"slices"
)

var ErrDeadEntity = errors.New("ecs: entity is not alive")

// World owns entities and their component stores.
type World struct {
	entities entityStore
	events   EventQueue

	kinematics  *SparseSet[*Kinematic]
	kinds       *SparseSet[Kind]
	radii       *SparseSet[float64]
	controllers *SparseSet[Controller]
}

func NewWorld() *World {
	return &World{
		kinematics:  NewSparseSet[*Kinematic](),
		kinds:       NewSparseSet[Kind](),
		radii:       NewSparseSet[float64](),
		controllers: NewSparseSet[Controller](),
	}
}

func CreateEntity(w *World) Entity {
	return w.entities.create()
}

// DestroyEntity frees e and drops all of its components. It returns false
// when e was already dead.
func DestroyEntity(w *World, e Entity) bool {
	if !w.entities.destroy(e) {
		return false
	}
	w.kinematics.Remove(e)
	w.kinds.Remove(e)
	w.radii.Remove(e)
	w.controllers.Remove(e)
	return true
}

func IsAlive(w *World, e Entity) bool {
	return w != nil && w.entities.isAlive(e)
}

// Entities returns every live entity in slot order.
func Entities(w *World) []Entity {
	out := make([]Entity, 0, len(w.entities.gen))
	for i, gen := range w.entities.gen {
		if w.entities.alive[i] {
			out = append(out, makeEntity(entityID(i+1), gen))
		}
	}
	return out
}

// Spawn creates an entity with a kind, a collision radius and a Kinematic at
// (x, y). The returned pointer stays valid until the entity is destroyed.
func (w *World) Spawn(kind Kind, x, y, radius float64) (Entity, *Kinematic) {
	e := CreateEntity(w)
	k := &Kinematic{X: x, Y: y}
	w.kinematics.Set(e, k)
	w.kinds.Set(e, kind)
	w.radii.Set(e, radius)
	return e, k
}

func (w *World) Kinematic(e Entity) (*Kinematic, bool) {
	return w.kinematics.Get(e)
}

func (w *World) Kind(e Entity) Kind {
	k, _ := w.kinds.Get(e)
	return k
}

func (w *World) Radius(e Entity) float64 {
	r, _ := w.radii.Get(e)
	return r
}

// SetController attaches c to e; it will be stepped by ControllerSystem.
func (w *World) SetController(e Entity, c Controller) error {
	if !IsAlive(w, e) {
		return ErrDeadEntity
	}
	w.controllers.Set(e, c)
	return nil
}

func (w *World) Controller(e Entity) (Controller, bool) {
	return w.controllers.Get(e)
}

// ForEachKind calls fn for every live entity tagged kind, in slot order.
// fn may destroy entities.
func ForEachKind(w *World, kind Kind, fn func(e Entity, k *Kinematic)) {
	for _, e := range sortedEntities(w.kinds.Entities()) {
		if k, _ := w.kinds.Get(e); k != kind {
			continue
		}
		if !IsAlive(w, e) {
			continue
		}
		kin, ok := w.kinematics.Get(e)
		if !ok {
			continue
		}
		fn(e, kin)
	}
}

// CountKind returns the number of live entities tagged kind.
func CountKind(w *World, kind Kind) int {
	n := 0
	for _, e := range w.kinds.Entities() {
		if k, _ := w.kinds.Get(e); k == kind {
			n++
		}
	}
	return n
}

func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// sortedEntities copies ents and orders them by slot so that iteration is
// stable across swap-removals.
func sortedEntities(ents []Entity) []Entity {
	out := slices.Clone(ents)
	slices.SortFunc(out, func(a, b Entity) int {
		return int(a.id()) - int(b.id())
	})
	return out
}
