package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sensorlab/motesim/sim"
)

// Metrics is a hook that counts simulation activity and exports it in
// Prometheus format. Attach it to the engine for event counts and to a
// channel for delivery and send-failure counts.
type Metrics struct {
	registry *prometheus.Registry

	eventsDispatched prometheus.Counter
	deliveries       prometheus.Counter
	sendFailures     prometheus.Counter
	virtualTime      prometheus.Gauge
}

// NewMetrics creates a Metrics collector with its own registry, so that
// multiple independent simulations can collect metrics in one process.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		eventsDispatched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "motesim_events_dispatched_total",
			Help: "Total events dispatched by the engine.",
		}),
		deliveries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "motesim_payloads_delivered_total",
			Help: "Total payloads delivered to receive handlers.",
		}),
		sendFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "motesim_sends_failed_total",
			Help: "Total sends rejected by a channel.",
		}),
		virtualTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "motesim_virtual_time_seconds",
			Help: "Current virtual time of the engine.",
		}),
	}

	m.registry.MustRegister(
		m.eventsDispatched, m.deliveries, m.sendFailures, m.virtualTime)

	return m
}

// Registry returns the registry the metrics are collected in.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Func updates the counters for the hook positions Metrics understands.
func (m *Metrics) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case sim.HookPosBeforeEvent:
		m.eventsDispatched.Inc()
		if evt, ok := ctx.Item.(sim.Event); ok {
			m.virtualTime.Set(float64(evt.Time()))
		}
	case sim.HookPosChannelDeliver:
		m.deliveries.Inc()
	case sim.HookPosChannelSendFail:
		m.sendFailures.Inc()
	}
}
