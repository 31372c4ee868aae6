package ecs

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

// maxQueuedEvents bounds the queue when nobody drains it; the oldest events
// are dropped first.
const maxQueuedEvents = 256

// EventQueue is a simple FIFO queue. Producers push during a tick; whoever
// owns the game loop drains it.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	if len(q.items) >= maxQueuedEvents {
		q.items = append(q.items[:0], q.items[1:]...)
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

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
