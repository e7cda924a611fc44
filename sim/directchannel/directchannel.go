// Package directchannel provides a channel that delivers datagrams between
// endpoints by scheduling delivery events on the simulation engine. Routing
// every arrival through the engine keeps deliveries inside the single total
// event order.
package directchannel

import (
	"sync"

	"github.com/sensorlab/motesim/sim"
)

// Comp is a channel that connects endpoints with a fixed propagation delay.
type Comp struct {
	sim.HookableBase

	sync.Mutex
	name   string
	engine sim.Engine
	delay  sim.VTimeInSec

	handlers map[sim.EndpointAddress]sim.ReceiveHandler
	closed   map[sim.EndpointAddress]bool
}

type deliveryEvent struct {
	*sim.EventBase

	dgram sim.Datagram
}

// Name returns the name of the channel.
func (c *Comp) Name() string {
	return c.name
}

// RegisterReceiveHandler associates the handler with the endpoint,
// replacing any prior handler. Registering reopens a closed endpoint.
func (c *Comp) RegisterReceiveHandler(
	endpoint sim.EndpointAddress,
	h sim.ReceiveHandler,
) {
	c.Lock()
	defer c.Unlock()

	c.handlers[endpoint] = h
	delete(c.closed, endpoint)
}

// CloseEndpoint closes an endpoint. Datagrams sent from or to a closed
// endpoint are rejected. Closing twice is a no-op.
func (c *Comp) CloseEndpoint(endpoint sim.EndpointAddress) {
	c.Lock()
	defer c.Unlock()

	c.closed[endpoint] = true
}

// Send accepts a datagram and schedules its delivery at the current time
// plus the propagation delay. It rejects the datagram if either endpoint is
// closed or if no receive handler is registered for the destination.
func (c *Comp) Send(d sim.Datagram) *sim.SendError {
	c.Lock()

	if c.closed[d.Src] {
		c.Unlock()
		return c.rejected(d, "source endpoint closed")
	}

	if c.closed[d.Dst] {
		c.Unlock()
		return c.rejected(d, "destination endpoint closed")
	}

	if _, found := c.handlers[d.Dst]; !found {
		c.Unlock()
		return c.rejected(d, "destination unreachable")
	}

	c.Unlock()

	evt := deliveryEvent{
		EventBase: sim.NewEventBase(c.engine.CurrentTime()+c.delay, c),
		dgram:     d,
	}

	if _, err := c.engine.Schedule(evt); err != nil {
		return c.rejected(d, err.Error())
	}

	return nil
}

func (c *Comp) rejected(d sim.Datagram, reason string) *sim.SendError {
	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    sim.HookPosChannelSendFail,
		Item:   d,
		Detail: reason,
	})

	return sim.NewSendError(reason)
}

// Handle delivers a datagram to the receive handler of its destination.
// Datagrams whose destination was closed or unregistered while in flight
// are silently dropped.
func (c *Comp) Handle(e sim.Event) error {
	evt := e.(deliveryEvent)
	d := evt.dgram

	c.Lock()
	h, found := c.handlers[d.Dst]
	closed := c.closed[d.Dst]
	c.Unlock()

	if !found || closed {
		return nil
	}

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    sim.HookPosChannelDeliver,
		Item:   d,
	})

	h(d, c.engine.CurrentTime())

	return nil
}
