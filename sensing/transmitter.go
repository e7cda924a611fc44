package sensing

import (
	"sync"

	"github.com/sensorlab/motesim/sim"
)

// A Transmitter is an application that, once started, repeatedly draws a
// measurement, hands it to the channel addressed to its destination, and
// reschedules itself after a fixed interval.
//
// A send failure implicitly stops the transmitter: its reporting sequence
// is truncated, but the rest of the simulation continues.
type Transmitter struct {
	*sim.AppBase

	engine   sim.Engine
	channel  sim.Channel
	src, dst sim.EndpointAddress
	interval sim.VTimeInSec
	source   *ReadingSource

	sentLock sync.Mutex
	sent     int
}

type fireEvent struct {
	*sim.EventBase
}

// Endpoint returns the endpoint the transmitter sends from.
func (t *Transmitter) Endpoint() sim.EndpointAddress {
	return t.src
}

// SentCount returns the number of payloads handed to the channel so far.
func (t *Transmitter) SentCount() int {
	t.sentLock.Lock()
	defer t.sentLock.Unlock()

	return t.sent
}

// Handle dispatches the transmitter's fire events and delegates lifecycle
// events to the AppBase.
func (t *Transmitter) Handle(e sim.Event) error {
	switch e.(type) {
	case fireEvent:
		t.fire()
		return nil
	default:
		return t.AppBase.Handle(e)
	}
}

// StartApp performs the first fire cycle immediately.
func (t *Transmitter) StartApp() {
	t.fire()
}

// StopApp releases the transmitter's send endpoint.
func (t *Transmitter) StopApp() {
	t.channel.CloseEndpoint(t.src)
}

// fire runs one fire cycle: check the lifecycle state, generate a payload,
// hand it to the channel, and schedule the next cycle. The state check
// guards against a stop that landed at an earlier instant.
func (t *Transmitter) fire() {
	if t.State() != sim.AppStateRunning {
		return
	}

	d := sim.Datagram{
		ID:      sim.GetIDGenerator().Generate(),
		Src:     t.src,
		Dst:     t.dst,
		Payload: FormatReading(t.source.Next()),
	}

	if err := t.channel.Send(d); err != nil {
		t.Stop()
		return
	}

	t.sentLock.Lock()
	t.sent++
	t.sentLock.Unlock()

	next := fireEvent{
		EventBase: sim.NewEventBase(t.engine.CurrentTime()+t.interval, t),
	}

	handle, err := t.engine.Schedule(next)
	if err != nil {
		t.Stop()
		return
	}

	t.SetWorkHandle(handle)
}
