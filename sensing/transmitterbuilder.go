package sensing

import "github.com/sensorlab/motesim/sim"

// TransmitterBuilder can build transmitters.
type TransmitterBuilder struct {
	engine   sim.Engine
	channel  sim.Channel
	node     *sim.Node
	dst      sim.EndpointAddress
	interval sim.VTimeInSec
	seed     int64
	min, max float64
}

// MakeTransmitterBuilder creates a TransmitterBuilder with the default
// reporting interval of 2 seconds and the default pH range [6.0, 8.0).
func MakeTransmitterBuilder() TransmitterBuilder {
	return TransmitterBuilder{
		interval: 2.0,
		min:      6.0,
		max:      8.0,
	}
}

// WithEngine sets the engine the transmitter schedules its fire cycles on.
func (b TransmitterBuilder) WithEngine(e sim.Engine) TransmitterBuilder {
	b.engine = e
	return b
}

// WithChannel sets the channel that carries the transmitter's payloads.
func (b TransmitterBuilder) WithChannel(c sim.Channel) TransmitterBuilder {
	b.channel = c
	return b
}

// WithNode sets the node the transmitter is installed on.
func (b TransmitterBuilder) WithNode(n *sim.Node) TransmitterBuilder {
	b.node = n
	return b
}

// WithDestination sets the endpoint the payloads are addressed to.
func (b TransmitterBuilder) WithDestination(
	dst sim.EndpointAddress,
) TransmitterBuilder {
	b.dst = dst
	return b
}

// WithInterval sets the fixed reporting interval.
func (b TransmitterBuilder) WithInterval(
	i sim.VTimeInSec,
) TransmitterBuilder {
	b.interval = i
	return b
}

// WithSeed sets the seed of the transmitter's reading source.
func (b TransmitterBuilder) WithSeed(seed int64) TransmitterBuilder {
	b.seed = seed
	return b
}

// WithReadingRange sets the bounded range measurements are drawn from.
func (b TransmitterBuilder) WithReadingRange(
	min, max float64,
) TransmitterBuilder {
	b.min = min
	b.max = max
	return b
}

// Build creates the transmitter.
func (b TransmitterBuilder) Build(name string) *Transmitter {
	if b.engine == nil || b.channel == nil || b.node == nil {
		panic("transmitter requires an engine, a channel, and a node")
	}

	if b.interval <= 0 {
		panic("reporting interval must be positive")
	}

	t := new(Transmitter)
	t.engine = b.engine
	t.channel = b.channel
	t.src = b.node.Endpoint("Out")
	t.dst = b.dst
	t.interval = b.interval
	t.source = NewReadingSource(b.seed, b.min, b.max)
	t.AppBase = sim.NewAppBase(name, b.node, b.engine, t)

	return t
}
