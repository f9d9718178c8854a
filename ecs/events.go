package ecs

// EventType names a gameplay event.
type EventType string

const (
	EventHit       EventType = "hit"
	EventPickup    EventType = "pickup"
	EventWallHit   EventType = "wall_hit"
	EventEnterGate EventType = "enter_gate"
	EventDespawn   EventType = "despawn"
)

// Event is a gameplay signal about one entity, optionally involving another.
type Event struct {
	Type   EventType
	Entity Entity
	Other  Entity
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
