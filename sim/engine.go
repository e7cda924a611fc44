package sim

import "errors"

// ErrInvalidDelay is returned when an event is scheduled before the current
// virtual time, which corresponds to a negative scheduling delay.
var ErrInvalidDelay = errors.New("sim: scheduling delay is negative")

// TimeTeller can be used to get the current virtual time.
type TimeTeller interface {
	CurrentTime() VTimeInSec
}

// EventScheduler can be used to schedule and cancel future events.
type EventScheduler interface {
	// Schedule registers an event to happen in the future. It fails with
	// ErrInvalidDelay if the event is due before the current time. The
	// returned handle can be used to cancel the event before it dispatches.
	Schedule(e Event) (*EventHandle, error)

	// Cancel removes the referenced event if it is still pending. Cancelling
	// a nil handle, an already-dispatched event, or an already-cancelled
	// event is a no-op. Cancel never fails.
	Cancel(h *EventHandle)
}

// A SimulationEndHandler is a handler that is called after the simulation
// ends.
type SimulationEndHandler interface {
	Handle(now VTimeInSec)
}

// An Engine is a unit that keeps the discrete event simulation running.
type Engine interface {
	Hookable
	TimeTeller
	EventScheduler

	// Run processes all the events until no event is left.
	Run() error

	// RunUntil processes events up to and including the given virtual time.
	// Events due strictly after the stop time stay pending, so a later call
	// to Run or RunUntil can resume the simulation.
	RunUntil(stop VTimeInSec) error

	// Pause will pause the simulation until Continue is called.
	Pause()

	// Continue will continue the paused simulation.
	Continue()

	// RegisterSimulationEndHandler registers a handler that performs some
	// actions after the simulation is finished.
	RegisterSimulationEndHandler(handler SimulationEndHandler)

	// Finished invokes all the registered SimulationEndHandlers.
	Finished()
}
