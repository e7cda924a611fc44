package sensing

import (
	"log"
	"sync"

	"github.com/sensorlab/motesim/datarecording"
	"github.com/sensorlab/motesim/sim"
)

// A Delivery is one entry of the gateway's delivery record: the payload,
// the sending endpoint, and the virtual arrival time.
type Delivery struct {
	Payload     []byte
	Src         sim.EndpointAddress
	ArrivalTime sim.VTimeInSec
}

// DeliveryRow is the flattened form of a Delivery that the data recorder
// persists.
type DeliveryRow struct {
	Src         string
	Payload     string
	ArrivalTime float64
}

// deliveryTable is the data recorder table the gateway writes into.
const deliveryTable = "deliveries"

// A Gateway is the receiving application. It registers a receive handler
// for its endpoint when started and folds every arrival into an
// append-only delivery record.
type Gateway struct {
	*sim.AppBase

	channel  sim.Channel
	endpoint sim.EndpointAddress
	recorder datarecording.DataRecorder
	logger   *log.Logger

	recordLock sync.Mutex
	records    []Delivery
}

// Endpoint returns the endpoint the gateway receives on.
func (g *Gateway) Endpoint() sim.EndpointAddress {
	return g.endpoint
}

// StartApp registers the gateway's receive handler with the channel.
func (g *Gateway) StartApp() {
	g.channel.RegisterReceiveHandler(g.endpoint, g.receive)
}

// StopApp closes the gateway's receive endpoint.
func (g *Gateway) StopApp() {
	g.channel.CloseEndpoint(g.endpoint)
}

// receive appends the arrival to the delivery record before returning. It
// never blocks.
func (g *Gateway) receive(d sim.Datagram, now sim.VTimeInSec) {
	g.recordLock.Lock()
	g.records = append(g.records, Delivery{
		Payload:     d.Payload,
		Src:         d.Src,
		ArrivalTime: now,
	})
	g.recordLock.Unlock()

	if g.recorder != nil {
		g.recorder.InsertData(deliveryTable, DeliveryRow{
			Src:         string(d.Src),
			Payload:     string(d.Payload),
			ArrivalTime: float64(now),
		})
	}

	if g.logger != nil {
		g.logger.Printf("%.10f, %s received %q from %s",
			now, g.Name(), d.Payload, d.Src)
	}
}

// Deliveries returns a copy of the delivery record, in arrival order.
func (g *Gateway) Deliveries() []Delivery {
	g.recordLock.Lock()
	defer g.recordLock.Unlock()

	records := make([]Delivery, len(g.records))
	copy(records, g.records)

	return records
}

// DeliveryCount returns the number of recorded deliveries.
func (g *Gateway) DeliveryCount() int {
	g.recordLock.Lock()
	defer g.recordLock.Unlock()

	return len(g.records)
}
