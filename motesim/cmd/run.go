package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sensorlab/motesim/monitoring"
	"github.com/sensorlab/motesim/sensing"
	"github.com/sensorlab/motesim/sim"
	"github.com/sensorlab/motesim/sim/directchannel"
	"github.com/sensorlab/motesim/simulation"
)

var runFlags = struct {
	sensors     int
	start       float64
	stop        float64
	interval    float64
	delay       float64
	seed        int64
	phMin       float64
	phMax       float64
	output      string
	noRecording bool
	monitorOn   bool
	monitorPort int
	logEvents   bool
}{}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the sensor network scenario",
	Long: `Run builds a scenario with the configured number of sensor ` +
		`motes reporting to one gateway and processes it to the stop time.`,
	Run: func(_ *cobra.Command, _ []string) {
		runScenario()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntVar(&runFlags.sensors, "sensors", 5,
		"number of sensor motes")
	runCmd.Flags().Float64Var(&runFlags.start, "start", 2.0,
		"virtual time at which the motes start reporting")
	runCmd.Flags().Float64Var(&runFlags.stop, "stop", 10.0,
		"virtual time at which the simulation stops")
	runCmd.Flags().Float64Var(&runFlags.interval, "interval", 2.0,
		"reporting interval of each mote")
	runCmd.Flags().Float64Var(&runFlags.delay, "delay", 0,
		"propagation delay of the channel")
	runCmd.Flags().Int64Var(&runFlags.seed, "seed", 1,
		"seed of the measurement generators")
	runCmd.Flags().Float64Var(&runFlags.phMin, "ph-min", 6.0,
		"lower bound of the simulated pH readings")
	runCmd.Flags().Float64Var(&runFlags.phMax, "ph-max", 8.0,
		"upper bound of the simulated pH readings")
	runCmd.Flags().StringVar(&runFlags.output, "output", "",
		"output database name, without the .sqlite3 suffix")
	runCmd.Flags().BoolVar(&runFlags.noRecording, "no-recording", false,
		"disable delivery recording")
	runCmd.Flags().BoolVar(&runFlags.monitorOn, "monitor", false,
		"start the monitoring server")
	runCmd.Flags().IntVar(&runFlags.monitorPort, "monitor-port", 0,
		"port of the monitoring server")
	runCmd.Flags().BoolVar(&runFlags.logEvents, "log-events", false,
		"log every dispatched event to stderr")
}

func runScenario() {
	// Optional overrides from a .env file; missing files are fine.
	_ = godotenv.Load()
	if runFlags.output == "" {
		runFlags.output = os.Getenv("MOTESIM_OUTPUT")
	}

	s := buildSimulation()
	engine := s.GetEngine()

	if runFlags.logEvents {
		logger := log.New(os.Stderr, "", 0)
		engine.AcceptHook(sim.NewEventLogger(logger))
	}

	channel := directchannel.MakeBuilder().
		WithEngine(engine).
		WithDelay(sim.VTimeInSec(runFlags.delay)).
		Build("Channel")
	s.RegisterChannel(channel)

	gateway := buildGateway(s, channel)
	transmitters := buildTransmitters(s, channel, gateway)

	var bar *monitoring.ProgressBar
	if monitor := s.GetMonitor(); monitor != nil {
		monitor.SetStopTime(sim.VTimeInSec(runFlags.stop))
		bar = monitor.CreateProgressBar(
			"virtual time", uint64(runFlags.stop))
		engine.AcceptHook(&timeProgressHook{bar: bar})
	}

	err := engine.RunUntil(sim.VTimeInSec(runFlags.stop))
	if err != nil {
		fmt.Fprintf(os.Stderr, "simulation failed: %v\n", err)
		atexit.Exit(1)
	}

	if monitor := s.GetMonitor(); monitor != nil && bar != nil {
		monitor.CompleteProgressBar(bar)
	}

	reportSummary(gateway, transmitters)

	s.Terminate()
	atexit.Exit(0)
}

func buildSimulation() *simulation.Simulation {
	builder := simulation.MakeBuilder()

	if runFlags.monitorOn {
		if runFlags.monitorPort > 0 {
			builder = builder.WithMonitorPort(runFlags.monitorPort)
		}
	} else {
		builder = builder.WithoutMonitoring()
	}

	if runFlags.noRecording {
		builder = builder.WithoutDataRecording()
	} else if runFlags.output != "" {
		builder = builder.WithOutputFileName(runFlags.output)
	}

	return builder.Build()
}

func buildGateway(
	s *simulation.Simulation,
	channel sim.Channel,
) *sensing.Gateway {
	node := sim.NewNode("Gateway")

	builder := sensing.MakeGatewayBuilder().
		WithEngine(s.GetEngine()).
		WithChannel(channel).
		WithNode(node)

	if recorder := s.GetDataRecorder(); recorder != nil {
		builder = builder.WithDataRecorder(recorder)
	}

	gateway := builder.Build("Gateway.App")
	gateway.SetStartTime(0)

	if err := gateway.Install(); err != nil {
		panic(err)
	}

	s.RegisterApp(gateway)

	return gateway
}

func buildTransmitters(
	s *simulation.Simulation,
	channel sim.Channel,
	gateway *sensing.Gateway,
) []*sensing.Transmitter {
	transmitters := make([]*sensing.Transmitter, 0, runFlags.sensors)

	for i := 1; i <= runFlags.sensors; i++ {
		node := sim.NewNode(fmt.Sprintf("Sensor%d", i))

		tx := sensing.MakeTransmitterBuilder().
			WithEngine(s.GetEngine()).
			WithChannel(channel).
			WithNode(node).
			WithDestination(gateway.Endpoint()).
			WithInterval(sim.VTimeInSec(runFlags.interval)).
			WithSeed(runFlags.seed + int64(i)).
			WithReadingRange(runFlags.phMin, runFlags.phMax).
			Build(node.Name() + ".App")

		tx.SetStartTime(sim.VTimeInSec(runFlags.start))
		tx.SetStopTime(sim.VTimeInSec(runFlags.stop))

		if err := tx.Install(); err != nil {
			panic(err)
		}

		s.RegisterApp(tx)
		transmitters = append(transmitters, tx)
	}

	return transmitters
}

func reportSummary(
	gateway *sensing.Gateway,
	transmitters []*sensing.Transmitter,
) {
	for _, tx := range transmitters {
		fmt.Printf("%s sent %d reports\n", tx.Name(), tx.SentCount())
	}

	fmt.Printf("%s recorded %d deliveries\n",
		gateway.Name(), gateway.DeliveryCount())
}

// timeProgressHook advances a progress bar as virtual time passes.
type timeProgressHook struct {
	bar       *monitoring.ProgressBar
	lastWhole uint64
}

func (h *timeProgressHook) Func(ctx sim.HookCtx) {
	if ctx.Pos != sim.HookPosBeforeEvent {
		return
	}

	evt, ok := ctx.Item.(sim.Event)
	if !ok {
		return
	}

	whole := uint64(evt.Time())
	if whole > h.lastWhole {
		h.bar.IncrementFinished(whole - h.lastWhole)
		h.lastWhole = whole
	}
}
