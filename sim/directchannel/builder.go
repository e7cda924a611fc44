package directchannel

import "github.com/sensorlab/motesim/sim"

// Builder can help building direct channels.
type Builder struct {
	engine sim.Engine
	delay  sim.VTimeInSec
}

// MakeBuilder creates a Builder with a zero propagation delay.
func MakeBuilder() Builder {
	return Builder{}
}

// WithEngine sets the engine that the channel schedules delivery events on.
func (b Builder) WithEngine(e sim.Engine) Builder {
	b.engine = e
	return b
}

// WithDelay sets the propagation delay applied to every delivery.
func (b Builder) WithDelay(d sim.VTimeInSec) Builder {
	b.delay = d
	return b
}

// Build creates the channel.
func (b Builder) Build(name string) *Comp {
	if b.engine == nil {
		panic("directchannel requires an engine")
	}

	if b.delay < 0 {
		panic("propagation delay must not be negative")
	}

	c := new(Comp)
	c.name = name
	c.engine = b.engine
	c.delay = b.delay
	c.handlers = make(map[sim.EndpointAddress]sim.ReceiveHandler)
	c.closed = make(map[sim.EndpointAddress]bool)

	return c
}
