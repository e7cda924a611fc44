// Package simulation provides the service required to define and tear down
// one simulation run.
package simulation

import (
	"github.com/sensorlab/motesim/datarecording"
	"github.com/sensorlab/motesim/monitoring"
	"github.com/sensorlab/motesim/sim"
)

// A Simulation bundles the engine, the data recorder, the monitor, and the
// registries of applications and channels that make up one run.
type Simulation struct {
	id string

	engine       sim.Engine
	dataRecorder datarecording.DataRecorder
	monitor      *monitoring.Monitor
	metrics      *monitoring.Metrics

	apps         []sim.App
	appNameIndex map[string]int
	channels     []sim.Channel
}

// ID returns the unique ID of the simulation run.
func (s *Simulation) ID() string {
	return s.id
}

// GetEngine returns the engine used in the simulation.
func (s *Simulation) GetEngine() sim.Engine {
	return s.engine
}

// GetDataRecorder returns the data recorder used in the simulation.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// GetMonitor returns the monitor used in the simulation. It is nil when
// monitoring is disabled.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// GetMetrics returns the metrics collector of the simulation. It is nil
// when monitoring is disabled.
func (s *Simulation) GetMetrics() *monitoring.Metrics {
	return s.metrics
}

// RegisterApp registers an application with the simulation. Registered
// applications show up in the monitor and are stopped at teardown.
func (s *Simulation) RegisterApp(a sim.App) {
	name := a.Name()
	if _, found := s.appNameIndex[name]; found {
		panic("app " + name + " already registered")
	}

	s.apps = append(s.apps, a)
	s.appNameIndex[name] = len(s.apps) - 1

	if s.monitor != nil {
		s.monitor.RegisterApp(a)
	}
}

// RegisterChannel registers a channel with the simulation. When metrics
// are enabled, the channel's deliveries and send failures are counted.
func (s *Simulation) RegisterChannel(c sim.Channel) {
	s.channels = append(s.channels, c)

	if s.metrics != nil {
		if hookable, ok := c.(sim.Hookable); ok {
			hookable.AcceptHook(s.metrics)
		}
	}
}

// GetAppByName returns the application with the given name.
func (s *Simulation) GetAppByName(name string) sim.App {
	return s.apps[s.appNameIndex[name]]
}

// Terminate tears the simulation down. Applications still running are
// stopped, the simulation end handlers run, and the data recorder is
// flushed and closed.
func (s *Simulation) Terminate() {
	for _, a := range s.apps {
		a.Stop()
	}

	s.engine.Finished()

	if s.dataRecorder != nil {
		if err := s.dataRecorder.Close(); err != nil {
			panic(err)
		}
	}
}
