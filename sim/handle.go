package sim

import "sync/atomic"

// An EventHandle refers to an event that has been scheduled but not yet
// dispatched. It allows the event to be cancelled before it is due.
//
// The engine remains the sole owner of the event. A handle never outlives
// its usefulness: cancelling after the event has dispatched, or cancelling
// twice, is a no-op.
type EventHandle struct {
	evt       Event
	seq       uint64
	cancelled atomic.Bool
}

// Event returns the event the handle refers to.
func (h *EventHandle) Event() Event {
	return h.evt
}

// IsCancelled tells if the handle has been cancelled.
func (h *EventHandle) IsCancelled() bool {
	return h.cancelled.Load()
}

func (h *EventHandle) cancel() {
	h.cancelled.Store(true)
}
