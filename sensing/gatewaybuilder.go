package sensing

import (
	"log"

	"github.com/sensorlab/motesim/datarecording"
	"github.com/sensorlab/motesim/sim"
)

// GatewayBuilder can build gateways.
type GatewayBuilder struct {
	engine   sim.Engine
	channel  sim.Channel
	node     *sim.Node
	recorder datarecording.DataRecorder
	logger   *log.Logger
}

// MakeGatewayBuilder creates a GatewayBuilder.
func MakeGatewayBuilder() GatewayBuilder {
	return GatewayBuilder{}
}

// WithEngine sets the engine that drives the gateway's lifecycle.
func (b GatewayBuilder) WithEngine(e sim.Engine) GatewayBuilder {
	b.engine = e
	return b
}

// WithChannel sets the channel the gateway receives from.
func (b GatewayBuilder) WithChannel(c sim.Channel) GatewayBuilder {
	b.channel = c
	return b
}

// WithNode sets the node the gateway is installed on.
func (b GatewayBuilder) WithNode(n *sim.Node) GatewayBuilder {
	b.node = n
	return b
}

// WithDataRecorder makes the gateway mirror every delivery into the data
// recorder.
func (b GatewayBuilder) WithDataRecorder(
	r datarecording.DataRecorder,
) GatewayBuilder {
	b.recorder = r
	return b
}

// WithLogger makes the gateway log every delivery.
func (b GatewayBuilder) WithLogger(l *log.Logger) GatewayBuilder {
	b.logger = l
	return b
}

// Build creates the gateway.
func (b GatewayBuilder) Build(name string) *Gateway {
	if b.engine == nil || b.channel == nil || b.node == nil {
		panic("gateway requires an engine, a channel, and a node")
	}

	g := new(Gateway)
	g.channel = b.channel
	g.endpoint = b.node.Endpoint("In")
	g.recorder = b.recorder
	g.logger = b.logger
	g.AppBase = sim.NewAppBase(name, b.node, b.engine, g)

	if b.recorder != nil {
		b.recorder.CreateTable(deliveryTable, DeliveryRow{})
	}

	return g
}
