package ecs

import "time"

type System interface {
	Update(w *World, dt time.Duration)
}

type Scheduler struct {
	systems []System
}

func NewScheduler(systems ...System) *Scheduler {
	copied := append([]System(nil), systems...)
	return &Scheduler{systems: copied}
}

// Add appends a system; it runs after those already registered.
func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

func (s *Scheduler) Update(w *World, dt time.Duration) {
	for _, system := range s.systems {
		system.Update(w, dt)
	}
}

// ControllerSystem steps every attached Controller in slot order.
type ControllerSystem struct{}

func (ControllerSystem) Update(w *World, dt time.Duration) {
	for _, e := range sortedEntities(w.controllers.Entities()) {
		c, ok := w.controllers.Get(e)
		if !ok || c == nil {
			continue
		}
		c.Step(dt)
	}
}
