package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/orbitsim/internal/analysis"
	"github.com/san-kum/orbitsim/internal/automation"
	"github.com/san-kum/orbitsim/internal/celestial"
	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/export"
	"github.com/san-kum/orbitsim/internal/quantity"
	"github.com/san-kum/orbitsim/internal/sim"
	"github.com/san-kum/orbitsim/internal/storage"
	"github.com/san-kum/orbitsim/internal/stream"
	"github.com/san-kum/orbitsim/internal/units"
	"github.com/san-kum/orbitsim/internal/viz"
)

func runScenario(cmd *cobra.Command, args []string) error {
	s, text, source, err := loadScenario(args)
	if err != nil {
		return err
	}

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	fmt.Printf("running %s (%d bodies, dt %gs)...\n", s.Name, len(s.Bodies), s.Dt.Float())
	rec, err := automation.Record(ctx, s, cfg.Steps, cfg.SampleEvery)
	switch {
	case errors.Is(err, context.Canceled):
		log.Warn("interrupted, saving partial run", zap.Int("steps", s.Steps()))
	case err != nil:
		return err
	}
	rec.Meta.Source = source
	rec.Meta.Checksum = storage.Checksum(text)

	runID, err := st.Save(rec.Meta, rec.Trajectory)
	if err != nil {
		return err
	}
	log.Debug("run saved", zap.String("id", runID), zap.Duration("elapsed", rec.Elapsed))

	fmt.Printf("completed in %v\n", rec.Elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d (%s simulated)\n", s.Steps(), humanTime(s.Elapsed.Float()))
	fmt.Printf("samples: %d\n", len(rec.Trajectory.Samples))
	fmt.Println("\nmetrics:")
	for _, name := range sortedKeys(rec.Meta.Metrics) {
		fmt.Printf("  %s: %.6g\n", name, rec.Meta.Metrics[name])
	}
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	plan, err := automation.LoadPlan(args[0])
	if err != nil {
		return err
	}
	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	runner := &automation.Runner{
		Resolve: func(rs automation.RunSpec) ([]byte, string, error) {
			return resolveSource(rs.File, rs.Preset)
		},
		Parse:       parse,
		Store:       st,
		Workers:     workers,
		Steps:       cfg.Steps,
		SampleEvery: cfg.SampleEvery,
		Log:         log,
	}
	fmt.Printf("running plan %q (%d runs)...\n", plan.Name, len(plan.Runs))
	results, err := runner.Run(ctx, plan)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SOURCE\tRUN ID\tSTEPS\tDRIFT\tSTABILITY\tERROR")
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(w, "%s\t-\t-\t-\t-\t%v\n", r.Spec, r.Err)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2e\t%.3f\t\n", r.Spec, r.RunID, r.Meta.Steps, r.Meta.Metrics["energy_drift"], r.Meta.Metrics["stability"])
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d runs failed", failed, len(results))
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	text, source, err := scenarioSource(args)
	if err != nil {
		return err
	}
	base, err := parse(text)
	if err != nil {
		return err
	}
	total, err := units.ParseDuration(duration)
	if err != nil {
		return err
	}
	dts := make([]float64, 0, len(dtList))
	for _, d := range dtList {
		v, err := units.ParseDuration(d)
		if err != nil {
			return err
		}
		dts = append(dts, v)
	}
	tracked := bodyName
	if tracked == "" && len(base.Bodies) > 0 {
		tracked = base.Bodies[len(base.Bodies)-1].Name
	}

	ctx, stop := signalContext()
	defer stop()

	results, err := automation.DtSweep(ctx, func() (*sim.Simulation, error) { return parse(text) }, tracked, total, dts)
	if err != nil {
		return err
	}

	fmt.Printf("%s over %s, tracking %s\n\n", source, humanTime(total), tracked)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DT\tSTEPS\tENERGY DRIFT\tOFFSET (m)\tERROR")
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(w, "%gs\t%d\t-\t-\t%v\n", r.Dt, r.Steps, r.Err)
			continue
		}
		fmt.Fprintf(w, "%gs\t%d\t%.3e\t%.4g\t\n", r.Dt, r.Steps, r.EnergyDrift, r.Offset)
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && preset == "" {
		return pickScenario()
	}
	s, _, _, err := loadScenario(args)
	if err != nil {
		return err
	}
	return viz.Play(s, liveOptions(cmd))
}

func liveOptions(cmd *cobra.Command) viz.Options {
	opts := viz.Options{FPS: cfg.FPS, TicksPerFrame: cfg.TicksPerFrame, Theme: theme}
	if cmd.Flags().Changed("steps") {
		opts.Limit = steps
	}
	return opts
}

func pickScenario() error {
	var choices []viz.Choice
	for _, name := range config.ListPresets() {
		text, _ := config.GetPreset(name)
		desc := "scenario"
		if s, err := parse([]byte(text)); err == nil {
			desc = fmt.Sprintf("%s, %d bodies", s.Name, len(s.Bodies))
		}
		choices = append(choices, viz.Choice{Name: name, Description: desc})
	}
	load := func(name string) (*sim.Simulation, error) {
		text, ok := config.GetPreset(name)
		if !ok {
			return nil, fmt.Errorf("unknown preset: %s", name)
		}
		return parse([]byte(text))
	}
	return viz.RunPicker(choices, load, viz.Options{FPS: cfg.FPS, TicksPerFrame: cfg.TicksPerFrame, Theme: theme})
}

func runServe(cmd *cobra.Command, args []string) error {
	s, _, source, err := loadScenario(args)
	if err != nil {
		return err
	}
	limit := 0
	if cmd.Flags().Changed("steps") {
		limit = steps
	}
	ctx, stop := signalContext()
	defer stop()

	log.Info("serving scenario",
		zap.String("scenario", s.Name),
		zap.String("source", source),
		zap.Int("bodies", len(s.Bodies)),
		zap.Float64("tick_rate", cfg.Serve.TickRate))
	srv := stream.New(s, stream.Config{
		Addr:           cfg.Serve.Addr,
		TickRate:       cfg.Serve.TickRate,
		BroadcastEvery: cfg.Serve.BroadcastEvery,
		Steps:          limit,
	}, log)
	return srv.Run(ctx)
}

func validateScenario(cmd *cobra.Command, args []string) error {
	s, text, source, err := loadScenario(args)
	if err != nil {
		return err
	}
	consts := s.Constants()

	fmt.Printf("scenario: %s\n", s.Name)
	fmt.Printf("source: %s (checksum %s)\n", source, storage.Checksum(text))
	fmt.Printf("dt: %gs\n\n", s.Dt.Float())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTYPE\tMASS (kg)\tRADIUS (m)\tDENSITY\tPOSITION (m)\tVELOCITY (m/s)")
	for _, b := range s.Bodies {
		fmt.Fprintf(w, "%s\t%s\t%.4g\t%.4g\t%.4g\t%s\t%s\n",
			b.Name, b.Kind, b.Mass.Float(), b.Radius.Float(), b.Density.Float(), b.Coordinates, b.Velocity)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for _, b := range s.Bodies {
		switch b.Kind {
		case celestial.Star:
			r := b.Radiation(consts)
			fmt.Printf("\n%s: class %s, %.0f K, %.3g W, peak %.3g m\n", b.Name, r.Class, r.Temperature, r.Luminosity, r.Wavelength)
		case celestial.BlackHole:
			fmt.Printf("\n%s: event horizon %.4g m\n", b.Name, b.SchwarzschildRadius(consts).Float())
		}
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tSCENARIO\tBODIES\tDT")
	for _, name := range config.ListPresets() {
		text, _ := config.GetPreset(name)
		s, err := parse([]byte(text))
		if err != nil {
			fmt.Fprintf(w, "%s\t(invalid: %v)\t\t\n", name, err)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%gs\n", name, s.Name, len(s.Bodies), s.Dt.Float())
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(cfg.DataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tSTEPS\tDT\tBODIES\tDRIFT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%gs\t%d\t%.2e\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.Dt,
			len(run.Bodies),
			run.Metrics["energy_drift"],
		)
	}
	return w.Flush()
}

// orbitPair loads a run and picks the orbiting and central bodies from the
// --body and --center flags, defaulting to the second and first body.
func orbitPair(runID string) (*storage.RunMetadata, *storage.Trajectory, string, string, error) {
	st := storage.New(cfg.DataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, "", "", err
	}
	tr, err := st.LoadTrajectory(runID)
	if err != nil {
		return nil, nil, "", "", err
	}
	if len(tr.Samples) == 0 || len(tr.Bodies) == 0 {
		return nil, nil, "", "", fmt.Errorf("no data in run %s", runID)
	}

	orbiting, center := bodyName, centerName
	if center == "" {
		center = tr.Bodies[0]
	}
	if orbiting == "" {
		orbiting = tr.Bodies[0]
		if len(tr.Bodies) > 1 {
			orbiting = tr.Bodies[1]
		}
	}
	for _, name := range []string{orbiting, center} {
		if tr.Track(name) == nil {
			return nil, nil, "", "", fmt.Errorf("no body %q in run (bodies: %v)", name, tr.Bodies)
		}
	}
	return meta, tr, orbiting, center, nil
}

func relativeTrack(tr *storage.Trajectory, orbiting, center string) []quantity.Point {
	if orbiting == center {
		return tr.Track(orbiting)
	}
	return analysis.Relative(tr.Track(orbiting), tr.Track(center))
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, tr, orbiting, center, err := orbitPair(args[0])
	if err != nil {
		return err
	}
	rel := relativeTrack(tr, orbiting, center)

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(tr.Samples))

	fmt.Println(asciigraph.Plot(analysis.Distances(rel),
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("distance %s-%s (m) vs sample", orbiting, center)),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(analysis.Xs(rel),
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s x relative to %s (m)", orbiting, center)),
	))
	fmt.Printf("\norbit of %s around %s:\n", orbiting, center)
	fmt.Println(analysis.PortraitToASCII(rel, 60, 24))
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, tr, orbiting, center, err := orbitPair(args[0])
	if err != nil {
		return err
	}
	rel := relativeTrack(tr, orbiting, center)
	times := tr.Times()

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("%s around %s, %d samples\n\n", orbiting, center, len(rel))

	if len(times) > 1 {
		period, err := analysis.DominantPeriod(analysis.Xs(rel), times[1]-times[0])
		if err != nil {
			fmt.Printf("period: %v\n", err)
		} else {
			fmt.Printf("period: %s (%.6g s)\n", humanTime(period), period)
		}
	}
	peri, apo, ecc := analysis.Apsides(rel)
	fmt.Printf("periapsis: %.6g m\n", peri)
	fmt.Printf("apoapsis: %.6g m\n", apo)
	fmt.Printf("eccentricity: %.4f\n", ecc)
	fmt.Printf("revolutions: %d\n", analysis.Crossings(rel))

	if lyapunovRuns <= 0 {
		return nil
	}
	text, err := readSource(meta.Source)
	if err != nil {
		return fmt.Errorf("rebuild scenario for lyapunov estimate: %w", err)
	}
	if sum := storage.Checksum(text); sum != meta.Checksum {
		log.Warn("scenario changed since the run was recorded", zap.String("source", meta.Source))
	}
	lambda, err := analysis.LyapunovExponent(func() (*sim.Simulation, error) { return parse(text) }, orbiting, perturbation, lyapunovRuns)
	if err != nil {
		return err
	}
	fmt.Printf("lyapunov exponent: %.6g 1/s\n", lambda)
	return nil
}

// output opens --out, or stdout when it is empty.
func output() (io.WriteCloser, error) {
	if outFile == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(outFile)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func exportJSON(cmd *cobra.Command, args []string) error {
	w, err := output()
	if err != nil {
		return err
	}
	defer w.Close()
	return storage.New(cfg.DataDir).ExportJSON(w, args[0])
}

func exportCSV(cmd *cobra.Command, args []string) error {
	w, err := output()
	if err != nil {
		return err
	}
	defer w.Close()
	return storage.New(cfg.DataDir).ExportCSV(w, args[0])
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(cfg.DataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	tr, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	tracks := make([]export.Track, len(tr.Bodies))
	for i, name := range tr.Bodies {
		tracks[i] = export.Track{Name: name, Points: tr.TrackAt(i)}
		if i < len(meta.Hints) {
			tracks[i].Hint = meta.Hints[i]
		}
	}

	var svg string
	switch svgStyle {
	case "paths":
		svg = export.TrajectoriesToSVG(tracks, width, height)
	case "braille":
		svg = export.CanvasToSVG(brailleCanvas(tracks, width/8, height/16), 4, "#00ff88")
	default:
		return fmt.Errorf("unknown style %q (paths or braille)", svgStyle)
	}
	if svg == "" {
		return fmt.Errorf("run %s has nothing to draw", runID)
	}

	path := outFile
	if path == "" {
		path = runID + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", path)
	return nil
}

// brailleCanvas draws every track top-down on a braille canvas of w x h
// cells.
func brailleCanvas(tracks []export.Track, w, h int) *viz.Canvas {
	c := viz.NewCanvas(max(w, 10), max(h, 5))
	var extent float64
	for _, t := range tracks {
		for _, p := range t.Points {
			extent = math.Max(extent, p.Distance(quantity.Origin).Float())
		}
	}
	if extent == 0 {
		extent = 1
	}
	scene, cam := viz.Scene{Scale: extent * 1.2}, viz.NewCamera()
	sw, sh := c.Dots()
	for _, t := range tracks {
		for _, p := range t.Points {
			if x, y, _, ok := cam.Project(scene.Point(p), sw, sh); ok {
				c.Set(x, y)
			}
		}
	}
	return c
}

func humanTime(seconds float64) string {
	switch {
	case seconds >= units.Year:
		return fmt.Sprintf("%.2f years", seconds/units.Year)
	case seconds >= units.Day:
		return fmt.Sprintf("%.2f days", seconds/units.Day)
	case seconds >= units.Hour:
		return fmt.Sprintf("%.2f hours", seconds/units.Hour)
	}
	return fmt.Sprintf("%.0f s", seconds)
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
