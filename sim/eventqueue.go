package sim

import (
	"container/heap"
	"sync"
)

// EventQueue is a queue of scheduled events ordered by due time, with ties
// broken by insertion sequence number. The stable tie-break keeps dispatch
// deterministic when multiple events share the same due time.
type EventQueue interface {
	Push(h *EventHandle)
	Pop() *EventHandle
	Len() int
	Peek() *EventHandle
}

// EventQueueImpl provides a thread safe event queue.
type EventQueueImpl struct {
	sync.Mutex
	events eventHeap
}

// NewEventQueue creates and returns a newly created EventQueue.
func NewEventQueue() *EventQueueImpl {
	q := new(EventQueueImpl)
	q.events = make([]*EventHandle, 0)
	heap.Init(&q.events)
	return q
}

// Push adds an event to the event queue.
func (q *EventQueueImpl) Push(h *EventHandle) {
	q.Lock()
	heap.Push(&q.events, h)
	q.Unlock()
}

// Pop returns the next earliest event.
func (q *EventQueueImpl) Pop() *EventHandle {
	q.Lock()
	h := heap.Pop(&q.events).(*EventHandle)
	q.Unlock()
	return h
}

// Len returns the number of events in the queue.
func (q *EventQueueImpl) Len() int {
	q.Lock()
	l := q.events.Len()
	q.Unlock()
	return l
}

// Peek returns the event in front of the queue without removing it from the
// queue.
func (q *EventQueueImpl) Peek() *EventHandle {
	q.Lock()
	h := q.events[0]
	q.Unlock()
	return h
}

type eventHeap []*EventHandle

// Len returns the length of the event queue.
func (h eventHeap) Len() int {
	return len(h)
}

// Less determines the order between two events. Less returns true if the
// i-th event happens before the j-th event. Events due at the same time
// keep their insertion order.
func (h eventHeap) Less(i, j int) bool {
	if h[i].evt.Time() != h[j].evt.Time() {
		return h[i].evt.Time() < h[j].evt.Time()
	}

	return h[i].seq < h[j].seq
}

// Swap changes the position of two events in the event queue.
func (h eventHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

// Push adds an event into the event queue.
func (h *eventHeap) Push(x interface{}) {
	handle := x.(*EventHandle)
	*h = append(*h, handle)
}

// Pop removes and returns the next event to happen.
func (h *eventHeap) Pop() interface{} {
	old := *h
	n := len(old)
	handle := old[n-1]
	*h = old[0 : n-1]
	return handle
}
