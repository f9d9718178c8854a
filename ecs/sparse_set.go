package ecs

// SparseSet stores one component value per entity in a dense slice for
// iteration, with a sparse index keyed by entity slot.
type SparseSet[T any] struct {
	dense  []Entity
	values []T
	sparse []int
}

func NewSparseSet[T any]() *SparseSet[T] {
	return &SparseSet[T]{}
}

func (s *SparseSet[T]) slot(e Entity) (int, bool) {
	if s == nil {
		return 0, false
	}
	id := int(e.id())
	if id <= 0 || id > len(s.sparse) {
		return 0, false
	}
	idx := s.sparse[id-1]
	if idx < 0 || idx >= len(s.dense) || s.dense[idx] != e {
		return 0, false
	}
	return idx, true
}

// Has reports whether e holds a value in the set.
func (s *SparseSet[T]) Has(e Entity) bool {
	_, ok := s.slot(e)
	return ok
}

// Get returns the value for e.
func (s *SparseSet[T]) Get(e Entity) (T, bool) {
	idx, ok := s.slot(e)
	if !ok {
		var zero T
		return zero, false
	}
	return s.values[idx], true
}

// Set inserts or replaces the value for e.
func (s *SparseSet[T]) Set(e Entity, v T) {
	if s == nil || !e.Valid() {
		return
	}
	if idx, ok := s.slot(e); ok {
		s.values[idx] = v
		return
	}
	id := int(e.id())
	for len(s.sparse) < id {
		s.sparse = append(s.sparse, -1)
	}
	// a stale generation of the same slot is replaced in place
	if idx := s.sparse[id-1]; idx >= 0 && idx < len(s.dense) && s.dense[idx].id() == e.id() {
		s.dense[idx] = e
		s.values[idx] = v
		return
	}
	s.dense = append(s.dense, e)
	s.values = append(s.values, v)
	s.sparse[id-1] = len(s.dense) - 1
}

// Remove deletes the value for e if present.
func (s *SparseSet[T]) Remove(e Entity) bool {
	idx, ok := s.slot(e)
	if !ok {
		return false
	}
	last := len(s.dense) - 1
	moved := s.dense[last]

	s.dense[idx] = moved
	s.values[idx] = s.values[last]
	s.sparse[moved.id()-1] = idx

	var zero T
	s.values[last] = zero
	s.dense = s.dense[:last]
	s.values = s.values[:last]
	s.sparse[e.id()-1] = -1
	return true
}

func (s *SparseSet[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.dense)
}

// Entities returns the dense entity list. Callers must not modify it.
func (s *SparseSet[T]) Entities() []Entity {
	if s == nil {
		return nil
	}
	return s.dense
}
