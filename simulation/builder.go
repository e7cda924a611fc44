package simulation

import (
	"github.com/rs/xid"

	"github.com/sensorlab/motesim/datarecording"
	"github.com/sensorlab/motesim/monitoring"
	"github.com/sensorlab/motesim/sim"
)

// Builder can be used to build a simulation.
type Builder struct {
	monitorOn      bool
	monitorPort    int
	recorderOn     bool
	outputFileName string
}

// MakeBuilder creates a new Builder.
func MakeBuilder() Builder {
	return Builder{
		monitorOn:  true,
		recorderOn: true,
	}
}

// WithoutMonitoring sets the simulation to not use monitoring.
func (b Builder) WithoutMonitoring() Builder {
	b.monitorOn = false
	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithoutDataRecording sets the simulation to not record output data.
func (b Builder) WithoutDataRecording() Builder {
	b.recorderOn = false
	return b
}

// WithOutputFileName sets the custom output file name for the data
// recorder.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.outputFileName = filename
	return b
}

func (b Builder) parametersMustBeValid() {
	if !b.monitorOn && b.monitorPort != 0 {
		panic("monitor port cannot be set when monitoring is disabled")
	}

	if !b.recorderOn && b.outputFileName != "" {
		panic("output file name cannot be set when recording is disabled")
	}
}

// Build builds the simulation.
func (b Builder) Build() *Simulation {
	b.parametersMustBeValid()

	s := &Simulation{
		appNameIndex: make(map[string]int),
	}

	s.id = xid.New().String()
	s.engine = sim.NewSerialEngine()

	if b.recorderOn {
		outputPath := b.outputFileName
		if outputPath == "" {
			outputPath = "motesim_run_" + s.id
		}
		s.dataRecorder = datarecording.NewDataRecorder(outputPath)
	}

	if b.monitorOn {
		s.metrics = monitoring.NewMetrics()
		s.engine.AcceptHook(s.metrics)

		s.monitor = monitoring.NewMonitor()
		if b.monitorPort > 0 {
			s.monitor.WithPortNumber(b.monitorPort)
		}
		s.monitor.RegisterEngine(s.engine)
		s.monitor.RegisterMetrics(s.metrics)
		s.monitor.StartServer()
	}

	return s
}
