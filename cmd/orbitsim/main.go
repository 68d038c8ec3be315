package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/logging"
	"github.com/san-kum/orbitsim/internal/scenario"
	"github.com/san-kum/orbitsim/internal/sim"
	"github.com/san-kum/orbitsim/internal/viz"
)

var (
	configFile  string
	dataDir     string
	logLevel    string
	preset      string
	steps       int
	sampleEvery int
	// live view
	frameRate     int
	ticksPerFrame int
	theme         string
	// serve
	addr           string
	tickRate       float64
	broadcastEvery int
	// plot and analyze
	bodyName     string
	centerName   string
	lyapunovRuns int
	perturbation float64
	// export
	outFile  string
	svgStyle string
	width    int
	height   int
	// batch and sweep
	workers  int
	duration string
	dtList   []string

	cfg *config.Config
	log *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:               "orbitsim",
		Short:             "n-body gravity simulator",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if log != nil {
				_ = log.Sync()
			}
		},
		// no subcommand opens the scenario picker
		RunE: func(cmd *cobra.Command, args []string) error {
			return pickScenario()
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug|info|warn|error)")

	runCmd := &cobra.Command{
		Use:   "run [scenario-file]",
		Short: "run a scenario headless and record it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	runCmd.Flags().StringVar(&preset, "preset", "", "use a built-in scenario")
	runCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of ticks")
	runCmd.Flags().IntVar(&sampleEvery, "sample-every", config.DefaultSampleEvery, "record every Nth tick")

	liveCmd := &cobra.Command{
		Use:   "live [scenario-file]",
		Short: "run a scenario with live terminal visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&preset, "preset", "", "use a built-in scenario")
	liveCmd.Flags().IntVar(&steps, "steps", 0, "stop after this many ticks (0 runs until quit)")
	liveCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
	liveCmd.Flags().IntVar(&ticksPerFrame, "ticks-per-frame", config.DefaultTicksPerFrame, "ticks per frame")
	liveCmd.Flags().StringVar(&theme, "theme", viz.ThemeDeepSpace.Name, "colour theme")

	serveCmd := &cobra.Command{
		Use:   "serve [scenario-file]",
		Short: "serve a running scenario over websocket and HTTP",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&preset, "preset", "", "use a built-in scenario")
	serveCmd.Flags().IntVar(&steps, "steps", 0, "stop after this many ticks (0 runs forever)")
	serveCmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")
	serveCmd.Flags().Float64Var(&tickRate, "tick-rate", config.DefaultTickRate, "ticks per second")
	serveCmd.Flags().IntVar(&broadcastEvery, "broadcast-every", config.DefaultBroadcastEvery, "push every Nth snapshot")

	validateCmd := &cobra.Command{
		Use:   "validate [scenario-file]",
		Short: "parse a scenario and print the resolved bodies",
		Args:  cobra.MaximumNArgs(1),
		RunE:  validateScenario,
	}
	validateCmd.Flags().StringVar(&preset, "preset", "", "use a built-in scenario")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenarios",
		RunE:  listPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&bodyName, "body", "", "body to plot (default: second body)")
	plotCmd.Flags().StringVar(&centerName, "center", "", "plot relative to this body (default: first body)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "orbital period, apsides and stability of a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&bodyName, "body", "", "orbiting body (default: second body)")
	analyzeCmd.Flags().StringVar(&centerName, "center", "", "central body (default: first body)")
	analyzeCmd.Flags().IntVar(&lyapunovRuns, "lyapunov-steps", 0, "ticks for the Lyapunov estimate (0 skips it)")
	analyzeCmd.Flags().Float64Var(&perturbation, "perturbation", 1000, "initial separation for the Lyapunov estimate, meters")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default: stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a run trajectory to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default: stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw a run's orbits as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default: <run_id>.svg)")
	exportSVGCmd.Flags().StringVar(&svgStyle, "style", "paths", "paths or braille")
	exportSVGCmd.Flags().IntVar(&width, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&height, "height", 800, "image height")

	batchCmd := &cobra.Command{
		Use:   "batch [plan.yaml]",
		Short: "record every run of a yaml plan",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	batchCmd.Flags().IntVar(&workers, "workers", 0, "concurrent runs (default: number of CPUs)")
	batchCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "ticks for runs that do not set steps")
	batchCmd.Flags().IntVar(&sampleEvery, "sample-every", config.DefaultSampleEvery, "sampling for runs that do not set sample_every")

	sweepCmd := &cobra.Command{
		Use:   "sweep [scenario-file]",
		Short: "compare time steps over the same simulated duration",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&preset, "preset", "", "use a built-in scenario")
	sweepCmd.Flags().StringVar(&duration, "duration", "28d", "simulated duration (e.g. 90m, 12h, 28d, 2w, 1y)")
	sweepCmd.Flags().StringSliceVar(&dtList, "dt", []string{"1h", "10m", "1m"}, "time steps to compare")
	sweepCmd.Flags().StringVar(&bodyName, "body", "", "body whose final position is compared (default: last body)")

	rootCmd.AddCommand(runCmd, liveCmd, serveCmd, validateCmd, presetsCmd, listCmd, plotCmd, analyzeCmd, exportJSONCmd, exportCSVCmd, exportSVGCmd, batchCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads the config file and lets explicitly set flags override it.
func setup(cmd *cobra.Command, args []string) error {
	cfg = config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("data") || cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("sample-every") {
		cfg.SampleEvery = sampleEvery
	}
	if flags.Changed("fps") {
		cfg.FPS = frameRate
	}
	if flags.Changed("ticks-per-frame") {
		cfg.TicksPerFrame = ticksPerFrame
	}
	if flags.Changed("addr") {
		cfg.Serve.Addr = addr
	}
	if flags.Changed("tick-rate") {
		cfg.Serve.TickRate = tickRate
	}
	if flags.Changed("broadcast-every") {
		cfg.Serve.BroadcastEvery = broadcastEvery
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	format := logging.Console
	if cmd.Name() == "serve" {
		format = logging.JSON
	}
	var err error
	log, err = logging.New(cfg.LogLevel, format)
	return err
}

// scenarioSource returns the scenario text named by a file argument or the
// --preset flag, and a label recorded with the run.
func scenarioSource(args []string) ([]byte, string, error) {
	file := ""
	if len(args) == 1 {
		file = args[0]
	}
	return resolveSource(file, preset)
}

func resolveSource(file, presetName string) ([]byte, string, error) {
	switch {
	case file != "" && presetName != "":
		return nil, "", fmt.Errorf("give a scenario file or a preset, not both")
	case file != "":
		text, err := os.ReadFile(file)
		if err != nil {
			return nil, "", err
		}
		return text, file, nil
	case presetName != "":
		text, ok := config.GetPreset(presetName)
		if !ok {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", presetName, config.ListPresets())
		}
		return []byte(text), presetPrefix + presetName, nil
	}
	return nil, "", fmt.Errorf("no scenario: give a file or --preset (available: %v)", config.ListPresets())
}

const presetPrefix = "preset:"

// readSource resolves a label written by scenarioSource back to its text.
func readSource(source string) ([]byte, error) {
	if name, ok := strings.CutPrefix(source, presetPrefix); ok {
		text, found := config.GetPreset(name)
		if !found {
			return nil, fmt.Errorf("unknown preset: %s", name)
		}
		return []byte(text), nil
	}
	return os.ReadFile(source)
}

func parse(text []byte) (*sim.Simulation, error) {
	return scenario.Parse(bytes.NewReader(text),
		scenario.WithLogger(log.Named("scenario")),
		scenario.WithConstants(cfg.PhysicalConstants()))
}

func loadScenario(args []string) (*sim.Simulation, []byte, string, error) {
	text, source, err := scenarioSource(args)
	if err != nil {
		return nil, nil, "", err
	}
	s, err := parse(text)
	if err != nil {
		return nil, nil, "", err
	}
	return s, text, source, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
