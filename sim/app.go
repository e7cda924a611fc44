package sim

import (
	"fmt"
	"sync"
)

// AppState is the lifecycle state of an application. The state machine is
// one-way: Created -> Scheduled -> Running -> Stopped.
type AppState int

// Lifecycle states of an application.
const (
	AppStateCreated AppState = iota
	AppStateScheduled
	AppStateRunning
	AppStateStopped
)

func (s AppState) String() string {
	switch s {
	case AppStateCreated:
		return "Created"
	case AppStateScheduled:
		return "Scheduled"
	case AppStateRunning:
		return "Running"
	case AppStateStopped:
		return "Stopped"
	default:
		return fmt.Sprintf("AppState(%d)", int(s))
	}
}

// An App is a unit of behavior with a start/stop lifecycle, installed on a
// node and driven by the event engine.
type App interface {
	Named

	// State returns the current lifecycle state.
	State() AppState

	// Stop transitions the application to Stopped, cancelling outstanding
	// work. Stopping an already-stopped application is a no-op.
	Stop()
}

// AppBehavior defines the variant-specific behavior of an application.
// StartApp runs when the application enters Running. StopApp runs when the
// application enters Stopped and must be safe to call regardless of
// whether StartApp ever ran.
type AppBehavior interface {
	StartApp()
	StopApp()
}

type appStartEvent struct {
	*EventBase
}

type appStopEvent struct {
	*EventBase
}

// AppBase implements the application lifecycle state machine. Concrete
// application variants embed an AppBase and provide an AppBehavior, the
// same way ticking components wrap a Ticker.
//
// The start action is scheduled as a primary event. The stop action is
// scheduled as a secondary event, so that at an equal-time boundary the
// application's pending work dispatches before the stop tears it down.
type AppBase struct {
	HookableBase
	sync.Mutex

	name     string
	node     *Node
	engine   Engine
	behavior AppBehavior

	startAt     VTimeInSec
	stopAt      VTimeInSec
	hasStopTime bool

	state     AppState
	earlyStop bool
	work      *EventHandle
}

// NewAppBase creates an AppBase in the Created state.
func NewAppBase(
	name string,
	node *Node,
	engine Engine,
	behavior AppBehavior,
) *AppBase {
	a := new(AppBase)
	a.name = name
	a.node = node
	a.engine = engine
	a.behavior = behavior
	a.state = AppStateCreated

	return a
}

// Name returns the name of the application.
func (a *AppBase) Name() string {
	return a.name
}

// Node returns the node the application is installed on.
func (a *AppBase) Node() *Node {
	return a.node
}

// State returns the current lifecycle state.
func (a *AppBase) State() AppState {
	a.Lock()
	defer a.Unlock()

	return a.state
}

// SetStartTime configures when the application starts.
func (a *AppBase) SetStartTime(t VTimeInSec) {
	a.startAt = t
}

// SetStopTime configures when the application stops.
func (a *AppBase) SetStopTime(t VTimeInSec) {
	a.stopAt = t
	a.hasStopTime = true
}

// Install schedules the lifecycle transitions on the engine and moves the
// application from Created to Scheduled. A start time earlier than the
// current time is permitted and dispatches on the next engine advance. A
// stop time earlier than the start time yields a degenerate but valid run
// with zero units of recurring work.
func (a *AppBase) Install() error {
	a.Lock()
	if a.state != AppStateCreated {
		a.Unlock()
		return fmt.Errorf("app %s is already installed", a.name)
	}

	now := a.engine.CurrentTime()

	startAt := a.startAt
	if startAt < now {
		startAt = now
	}

	if a.hasStopTime && a.stopAt < a.startAt {
		a.earlyStop = true
	}

	a.state = AppStateScheduled
	a.Unlock()

	startEvt := appStartEvent{NewEventBase(startAt, a)}
	if _, err := a.engine.Schedule(startEvt); err != nil {
		return err
	}

	if a.hasStopTime {
		stopAt := a.stopAt
		if stopAt < now {
			stopAt = now
		}

		stopEvt := appStopEvent{NewSecondaryEventBase(stopAt, a)}
		if _, err := a.engine.Schedule(stopEvt); err != nil {
			return err
		}
	}

	return nil
}

// Handle dispatches the lifecycle events of the application.
func (a *AppBase) Handle(e Event) error {
	switch e.(type) {
	case appStartEvent:
		a.handleStart()
	case appStopEvent:
		a.handleStop()
	default:
		return fmt.Errorf("app %s cannot handle event %T", a.name, e)
	}

	return nil
}

func (a *AppBase) handleStart() {
	a.Lock()
	if a.state != AppStateScheduled {
		a.Unlock()
		return
	}

	a.state = AppStateRunning
	earlyStop := a.earlyStop
	a.Unlock()

	a.InvokeHook(HookCtx{
		Domain: a,
		Pos:    HookPosAppStart,
		Item:   a.name,
	})

	if earlyStop {
		a.Stop()
		return
	}

	a.behavior.StartApp()
}

func (a *AppBase) handleStop() {
	a.Lock()
	if a.state == AppStateScheduled {
		// The stop action landed before the start action. Finalization is
		// deferred to the start action so the lifecycle still passes
		// through Running.
		a.earlyStop = true
		a.Unlock()
		return
	}
	a.Unlock()

	a.Stop()
}

// Stop transitions the application to Stopped, cancels its outstanding
// recurring-work handle, and runs the variant's stop behavior. Stopping an
// already-stopped application is a no-op.
func (a *AppBase) Stop() {
	a.Lock()
	if a.state == AppStateStopped {
		a.Unlock()
		return
	}

	a.state = AppStateStopped
	work := a.work
	a.work = nil
	a.Unlock()

	a.engine.Cancel(work)

	a.InvokeHook(HookCtx{
		Domain: a,
		Pos:    HookPosAppStop,
		Item:   a.name,
	})

	a.behavior.StopApp()
}

// SetWorkHandle records the single outstanding handle for the
// application's recurring work, forgetting any prior reference. There is at
// most one outstanding handle at a time by construction, since a new one is
// only created from within the work action itself.
func (a *AppBase) SetWorkHandle(h *EventHandle) {
	a.Lock()
	a.work = h
	a.Unlock()
}
