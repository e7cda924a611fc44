package sim

import (
	"log"
	"reflect"
	"sync"
)

// A SerialEngine is an Engine that always runs events one after another in
// a single logical thread of control. Events dispatch in non-decreasing
// time order; same-time events dispatch in insertion order, except that
// secondary events dispatch after all same-time primary events.
type SerialEngine struct {
	HookableBase

	timeLock sync.RWMutex
	time     VTimeInSec

	seqLock sync.Mutex
	nextSeq uint64

	queue          EventQueue
	secondaryQueue EventQueue

	isPaused     bool
	isPausedLock sync.Mutex
	pauseLock    sync.Mutex

	singleRunLock sync.Mutex

	simulationEndHandlers []SimulationEndHandler
}

// NewSerialEngine creates a SerialEngine.
func NewSerialEngine() *SerialEngine {
	e := new(SerialEngine)

	e.queue = NewEventQueue()
	e.secondaryQueue = NewEventQueue()

	return e
}

// Schedule registers an event to happen in the future. Scheduling an event
// due before the current time fails with ErrInvalidDelay and leaves the
// pending set untouched.
func (e *SerialEngine) Schedule(evt Event) (*EventHandle, error) {
	now := e.readNow()
	if evt.Time() < now {
		return nil, ErrInvalidDelay
	}

	handle := &EventHandle{evt: evt, seq: e.nextSeqNum()}

	if evt.IsSecondary() {
		e.secondaryQueue.Push(handle)
		return handle, nil
	}

	e.queue.Push(handle)

	return handle, nil
}

// Cancel removes the referenced event if it is still pending. Cancellation
// is lazy: the event stays in the queue but is skipped when it surfaces.
// Cancelling a nil handle or cancelling more than once is a no-op.
func (e *SerialEngine) Cancel(h *EventHandle) {
	if h == nil {
		return
	}

	h.cancel()
}

func (e *SerialEngine) nextSeqNum() uint64 {
	e.seqLock.Lock()
	seq := e.nextSeq
	e.nextSeq++
	e.seqLock.Unlock()
	return seq
}

func (e *SerialEngine) readNow() VTimeInSec {
	e.timeLock.RLock()
	t := e.time
	e.timeLock.RUnlock()
	return t
}

func (e *SerialEngine) writeNow(t VTimeInSec) {
	e.timeLock.Lock()
	e.time = t
	e.timeLock.Unlock()
}

// Run processes all the events scheduled in the SerialEngine.
func (e *SerialEngine) Run() error {
	return e.processEvents(0, false)
}

// RunUntil processes events up to and including the stop time. The first
// event due strictly after the stop time stays pending and is never
// dispatched by this call.
func (e *SerialEngine) RunUntil(stop VTimeInSec) error {
	return e.processEvents(stop, true)
}

func (e *SerialEngine) processEvents(stop VTimeInSec, bounded bool) error {
	e.singleRunLock.Lock()
	defer e.singleRunLock.Unlock()

	for {
		e.pauseLock.Lock()

		handle := e.nextLiveHandle()
		if handle == nil {
			e.pauseLock.Unlock()
			return nil
		}

		evt := handle.Event()
		if bounded && evt.Time() > stop {
			e.pushBack(handle)
			e.pauseLock.Unlock()
			return nil
		}

		now := e.readNow()
		if evt.Time() < now {
			log.Panicf(
				"cannot run event in the past, evt %s @ %.10f, now %.10f",
				reflect.TypeOf(evt), evt.Time(), now,
			)
		}
		e.writeNow(evt.Time())

		hookCtx := HookCtx{
			Domain: e,
			Pos:    HookPosBeforeEvent,
			Item:   evt,
		}
		e.InvokeHook(hookCtx)

		handler := evt.Handler()
		_ = handler.Handle(evt)

		hookCtx.Pos = HookPosAfterEvent
		e.InvokeHook(hookCtx)

		e.pauseLock.Unlock()
	}
}

// nextLiveHandle pops the (time, sequence)-smallest pending event, skipping
// cancelled ones. Primary events win over secondary events at equal time.
func (e *SerialEngine) nextLiveHandle() *EventHandle {
	for {
		handle := e.popNext()
		if handle == nil {
			return nil
		}

		if handle.IsCancelled() {
			continue
		}

		return handle
	}
}

func (e *SerialEngine) popNext() *EventHandle {
	if e.queue.Len() == 0 && e.secondaryQueue.Len() == 0 {
		return nil
	}

	if e.queue.Len() == 0 {
		return e.secondaryQueue.Pop()
	}

	if e.secondaryQueue.Len() == 0 {
		return e.queue.Pop()
	}

	primary := e.queue.Peek()
	secondary := e.secondaryQueue.Peek()

	if primary.Event().Time() <= secondary.Event().Time() {
		return e.queue.Pop()
	}

	return e.secondaryQueue.Pop()
}

func (e *SerialEngine) pushBack(h *EventHandle) {
	if h.Event().IsSecondary() {
		e.secondaryQueue.Push(h)
		return
	}

	e.queue.Push(h)
}

// Pause prevents the SerialEngine from triggering more events.
func (e *SerialEngine) Pause() {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	if e.isPaused {
		return
	}

	e.pauseLock.Lock()
	e.isPaused = true
}

// Continue allows the SerialEngine to trigger more events.
func (e *SerialEngine) Continue() {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	if !e.isPaused {
		return
	}

	e.pauseLock.Unlock()
	e.isPaused = false
}

// CurrentTime returns the current time at which the engine is at.
// Specifically, the run time of the current event.
func (e *SerialEngine) CurrentTime() VTimeInSec {
	return e.readNow()
}

// RegisterSimulationEndHandler registers a handler to be called after the
// simulation ends.
func (e *SerialEngine) RegisterSimulationEndHandler(
	handler SimulationEndHandler,
) {
	e.simulationEndHandlers = append(e.simulationEndHandlers, handler)
}

// Finished should be called after the simulation ends. This function
// calls all the registered SimulationEndHandlers.
func (e *SerialEngine) Finished() {
	now := e.readNow()
	for _, h := range e.simulationEndHandlers {
		h.Handle(now)
	}
}
