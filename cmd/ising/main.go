package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/san-kum/ising/internal/analysis"
	"github.com/san-kum/ising/internal/automation"
	"github.com/san-kum/ising/internal/config"
	"github.com/san-kum/ising/internal/experiment"
	"github.com/san-kum/ising/internal/export"
	"github.com/san-kum/ising/internal/lattice"
	"github.com/san-kum/ising/internal/sim"
	"github.com/san-kum/ising/internal/storage"
	"github.com/san-kum/ising/internal/telemetry"
	"github.com/san-kum/ising/internal/tui"
	"github.com/san-kum/ising/internal/viz"
)

var (
	dataDir     string
	logLevel    string
	metricsAddr string

	configFile   string
	preset       string
	size         int
	temperature  float64
	coupling     float64
	steps        int
	stepsPerTick int
	seed         int64
	initMode     string
	discard      int
	historyMode  string
	window       int
	stride       int

	metricNames []string
	replicas    int
	workers     int
	svgPath     string
	noSave      bool
	progress    bool

	tMin   float64
	tMax   float64
	points int
	output string

	burnIn     int
	benchSteps int
	last       int
	jsonPath   string
)

var logger = slog.Default()

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd registers the commands and flags; with no subcommand the root
// opens the interactive launcher.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ising",
		Short: "2d ising model, metropolis dynamics",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var observers []sim.TickObserver
			if c := startTelemetry(ctx); c != nil {
				observers = append(observers, c)
			}
			return viz.RunInteractive(observers...)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".ising", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and save its history",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addLatticeFlags(runCmd)
	runCmd.Flags().StringSliceVar(&metricNames, "metrics", nil, "estimators to compute (default all)")
	runCmd.Flags().IntVar(&replicas, "replicas", 1, "independent replicas, seeded seed, seed+1, ...")
	runCmd.Flags().IntVar(&workers, "workers", 0, "concurrent replicas (0 = all)")
	runCmd.Flags().StringVar(&svgPath, "svg", "", "write the final lattice as SVG")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().BoolVar(&progress, "progress", true, "show a progress line on stderr")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the lattice with live visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addLatticeFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot energy and magnetization of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&output, "svg-dir", "", "also write energy.svg and magnetization.svg here")
	plotCmd.Flags().IntVar(&last, "last", 0, "plot only the last N history entries (0 = all)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "autocorrelation and error analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&burnIn, "discard", -1, "burn-in steps to drop (default: the run's own)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run history to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&jsonPath, "output", "o", "", "write to this file instead of stdout")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run independent simulations across a temperature range",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addLatticeFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&tMin, "tmin", 1.5, "lowest temperature")
	sweepCmd.Flags().Float64Var(&tMax, "tmax", 3.5, "highest temperature")
	sweepCmd.Flags().IntVar(&points, "points", 9, "number of temperatures")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "concurrent points (0 = all)")
	sweepCmd.Flags().StringVar(&output, "json", "", "write results as JSON")

	annealCmd := &cobra.Command{
		Use:   "anneal [scenario.yaml]",
		Short: "take one lattice through a temperature schedule",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnneal,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tL\tT\tJ\tSTEPS\tINIT\tHISTORY")
			for _, name := range config.ListPresets() {
				p := config.Presets[name]
				fmt.Fprintf(w, "%s\t%d\t%.4f\t%+.1f\t%d\t%s\t%s\n",
					name, p.Size, p.Temperature, p.Coupling, p.Steps, p.Init, p.History.Mode)
			}
			return w.Flush()
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark Metropolis throughput",
		RunE:  benchLattice,
	}
	benchCmd.Flags().IntVar(&benchSteps, "steps", 200000, "trials per measurement")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, analyzeCmd, exportCSVCmd, exportJSONCmd, sweepCmd, annealCmd, presetsCmd, benchCmd)
	return rootCmd
}

func addLatticeFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.IntVar(&size, "size", config.DefaultSize, "lattice side L")
	f.Float64Var(&temperature, "temperature", config.DefaultTemperature, "temperature T")
	f.Float64Var(&coupling, "coupling", config.DefaultCoupling, "coupling constant J")
	f.IntVar(&steps, "steps", config.DefaultSteps, "Metropolis trials")
	f.IntVar(&stepsPerTick, "steps-per-tick", config.DefaultStepsPerTick, "trials per tick")
	f.Int64Var(&seed, "seed", 0, "random seed (0 = clock)")
	f.StringVar(&initMode, "init", config.DefaultInit, "initial spins (random, up, down)")
	f.IntVar(&discard, "discard", 0, "burn-in steps excluded from estimators")
	f.StringVar(&historyMode, "history", config.DefaultHistoryMode, "history policy (all, window, stride)")
	f.IntVar(&window, "window", 0, "entries kept in window mode")
	f.IntVar(&stride, "stride", 0, "record every k-th step in stride mode")
}

func setupLogger() error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// resolveConfig layers defaults, preset, config file and explicitly set flags,
// in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("size") {
		cfg.Size = size
	}
	if flags.Changed("temperature") {
		cfg.Temperature = temperature
	}
	if flags.Changed("coupling") {
		cfg.Coupling = coupling
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("steps-per-tick") {
		cfg.StepsPerTick = stepsPerTick
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("init") {
		cfg.Init = initMode
	}
	if flags.Changed("discard") {
		cfg.Discard = discard
	}
	if flags.Changed("history") {
		cfg.History.Mode = historyMode
	}
	if flags.Changed("window") {
		cfg.History.Window = window
	}
	if flags.Changed("stride") {
		cfg.History.Stride = stride
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// startTelemetry serves a fresh registry when --metrics-addr is set.
func startTelemetry(ctx context.Context) *telemetry.Collector {
	if metricsAddr == "" {
		return nil
	}
	reg := prometheus.NewRegistry()
	c := telemetry.NewCollector(reg)
	go func() {
		if err := telemetry.Serve(ctx, metricsAddr, reg, logger); err != nil {
			logger.Error("metrics server failed", slog.Any("error", err))
		}
	}()
	return c
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if replicas > 1 {
		if svgPath != "" {
			return fmt.Errorf("--svg needs a single run, got --replicas %d", replicas)
		}
		return runReplicas(ctx, cfg)
	}

	registry := experiment.NewRegistry()
	ms, err := registry.Metrics(metricNames, cfg)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg, logger)
	if err := exp.Setup(ms); err != nil {
		return err
	}
	if c := startTelemetry(ctx); c != nil {
		exp.GetSimulator().AddObserver(c)
	}

	fmt.Printf("running %d×%d lattice at T=%.4f J=%+.2f for %d steps...\n", cfg.Size, cfg.Size, cfg.Temperature, cfg.Coupling, cfg.Steps)

	var pr *tui.ProgressRenderer
	if progress {
		pr = tui.NewProgressRenderer(os.Stderr, exp.Lattice().Steps(), cfg.Steps, 10)
		exp.GetSimulator().AddObserver(pr)
		pr.Start()
	}
	result, runErr := exp.Run(ctx)
	if pr != nil {
		pr.Stop()
	}
	if runErr != nil && result == nil {
		return runErr
	}
	if runErr != nil {
		fmt.Printf("interrupted after %d steps\n", result.Steps)
	}

	if svgPath != "" {
		svg := export.LatticeToSVG(exp.Lattice().Spins(), 8, "", "")
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("lattice written to %s\n", svgPath)
	}

	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(cfg, result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	fmt.Printf("completed in %v\n", result.Elapsed)
	fmt.Printf("steps: %d (accepted %.2f%%)\n", result.Steps, 100*result.AcceptanceRate())
	fmt.Printf("final energy: %.2f (%.4f/site)\n", result.FinalEnergy, result.FinalEnergy/float64(cfg.Sites()))
	fmt.Printf("final magnetization: %+.4f\n", result.FinalMagnetization)
	printMetrics(result.Metrics)

	return runErr
}

func runReplicas(ctx context.Context, cfg *config.Config) error {
	fmt.Printf("running %d replicas of %d×%d at T=%.4f...\n", replicas, cfg.Size, cfg.Size, cfg.Temperature)
	start := time.Now()

	results, err := automation.RunReplicas(ctx, cfg, replicas, workers, metricNames, logger)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", time.Since(start))
	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		for _, res := range results {
			c := *cfg
			c.Seed = res.Seed
			runID, err := st.Save(&c, res)
			if err != nil {
				return err
			}
			fmt.Printf("run id: %s (seed %d)\n", runID, res.Seed)
		}
	}
	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tMEAN\tSTDERR")
	for _, name := range sortedKeys(results[0].Metrics) {
		mean, se := automation.ReplicaStats(results, name)
		fmt.Fprintf(w, "%s\t%.6f\t%.6f\n", name, mean, se)
	}
	return w.Flush()
}

func printMetrics(ms map[string]float64) {
	if len(ms) == 0 {
		return
	}
	fmt.Println("\nmetrics:")
	for _, name := range sortedKeys(ms) {
		fmt.Printf("  %s: %.6f\n", name, ms[name])
	}
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m, err := viz.NewModel(viz.LatticeBuilder(cfg), cfg.Temperature, cfg.Coupling, cfg.StepsPerTick)
	if err != nil {
		return err
	}
	if c := startTelemetry(ctx); c != nil {
		m.AddObserver(c)
	}
	return viz.Run(m)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tL\tT\tJ\tSTEPS\tE/SITE\t|M|")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.4f\t%+.2f\t%d\t%.4f\t%.4f\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Size,
			run.Temperature,
			run.Coupling,
			run.Steps,
			run.Metrics["energy_per_site"],
			run.Metrics["abs_magnetization"],
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, lattice.History, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, lattice.History{}, err
	}
	h, err := st.LoadHistory(runID)
	if err != nil {
		return nil, lattice.History{}, err
	}
	return meta, h, nil
}

// downsample keeps at most n evenly spaced points for terminal plots.
func downsample(data []float64, n int) []float64 {
	if len(data) <= n {
		return data
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = data[i*len(data)/n]
	}
	return out
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, h, err := loadRun(args[0])
	if err != nil {
		return err
	}

	if last > 0 {
		h = h.Tail(last)
	}
	if h.Len() < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("lattice: %d×%d  T=%.4f  J=%+.2f\n", meta.Size, meta.Size, meta.Temperature, meta.Coupling)
	fmt.Printf("samples: %d (steps %d..%d)\n\n", h.Len(), h.Step(0), h.Step(h.Len()-1))

	sites := float64(meta.Size * meta.Size)
	perSite := make([]float64, h.Len())
	for i, e := range h.Energy {
		perSite[i] = e / sites
	}

	series := []struct {
		data    []float64
		caption string
	}{
		{perSite, "energy per site vs step"},
		{h.Magnetization, "magnetization vs step"},
	}
	for _, s := range series {
		graph := asciigraph.Plot(downsample(s.data, 400),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if output != "" {
		if err := os.MkdirAll(output, 0755); err != nil {
			return err
		}
		files := map[string]string{
			"energy.svg":        export.SeriesToSVG(perSite, h.Start, h.Stride, 800, 300, "#00ccff"),
			"magnetization.svg": export.SeriesToSVG(h.Magnetization, h.Start, h.Stride, 800, 300, "#ff88ff"),
		}
		for name, svg := range files {
			if err := os.WriteFile(filepath.Join(output, name), []byte(svg), 0644); err != nil {
				return err
			}
		}
		fmt.Printf("svg written to %s\n", output)
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, h, err := loadRun(args[0])
	if err != nil {
		return err
	}

	skipSteps := meta.Discard
	if burnIn >= 0 {
		skipSteps = burnIn
	}
	// burn-in is in steps; history entries are Stride steps apart
	skip := 0
	if skipSteps > h.Start && h.Stride > 0 {
		skip = (skipSteps - h.Start + h.Stride - 1) / h.Stride
	}

	sites := float64(meta.Size * meta.Size)
	energy := make([]float64, 0, h.Len())
	absMag := make([]float64, 0, h.Len())
	for i := range h.Energy {
		energy = append(energy, h.Energy[i]/sites)
		m := h.Magnetization[i]
		if m < 0 {
			m = -m
		}
		absMag = append(absMag, m)
	}
	energy = analysis.Discard(energy, skip)
	absMag = analysis.Discard(absMag, skip)

	if len(energy) < 2 {
		return fmt.Errorf("not enough samples after discarding %d steps", skipSteps)
	}

	fmt.Printf("analysis: %s\n", meta.ID)
	fmt.Printf("samples after burn-in: %d (stride %d)\n\n", len(energy), h.Stride)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "OBSERVABLE\tMEAN\tSTDERR\tTAU\tN_EFF\tMIN\tMAX")
	for _, obs := range []struct {
		name string
		data []float64
	}{
		{"energy/site", energy},
		{"|m|", absMag},
	} {
		s := analysis.Summarize(obs.data)
		fmt.Fprintf(w, "%s\t%.6f\t%.6f\t%.1f\t%.0f\t%.4f\t%.4f\n",
			obs.name, s.Mean, s.StdErr, s.Tau, s.EffectiveSamples, s.Min, s.Max)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Println()

	maxLag := min(len(energy)-1, 200)
	rho := analysis.Autocorrelation(energy, maxLag)
	graph := asciigraph.Plot(rho,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("energy autocorrelation, lag in entries (×%d steps)", h.Stride)),
	)
	fmt.Println(graph)

	// slow modes near Tc pile power into the lowest bins
	ps := analysis.PowerSpectrum(energy)
	if len(ps) > 2 {
		bins := ps[1:min(len(ps), 129)]
		fmt.Println()
		fmt.Println(asciigraph.Plot(bins,
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("energy power spectrum, first %d bins", len(bins))),
		))
	}

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, h, err := loadRun(args[0])
	if err != nil {
		return err
	}

	if h.Len() == 0 {
		return fmt.Errorf("no data to export")
	}

	return storage.WriteHistoryCSV(os.Stdout, h)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, h, err := loadRun(args[0])
	if err != nil {
		return err
	}

	cfg := &config.Config{
		Size:        meta.Size,
		Temperature: meta.Temperature,
		Coupling:    meta.Coupling,
		Seed:        meta.Seed,
	}
	result := &sim.Result{
		Steps:              meta.Steps,
		Accepted:           meta.Accepted,
		History:            h,
		Metrics:            meta.Metrics,
		FinalEnergy:        meta.FinalEnergy,
		FinalMagnetization: meta.FinalMagnetization,
	}
	if jsonPath != "" {
		if err := export.ExportJSONFile(jsonPath, cfg, result); err != nil {
			return err
		}
		fmt.Printf("exported to %s\n", jsonPath)
		return nil
	}
	return export.ExportJSON(os.Stdout, cfg, result)
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweep := &automation.ParameterSweep{
		Base:    cfg,
		TMin:    tMin,
		TMax:    tMax,
		Points:  points,
		Workers: workers,
	}

	fmt.Printf("sweeping %d×%d lattice over T in [%.3f, %.3f], %d points...\n", cfg.Size, cfg.Size, tMin, tMax, points)
	start := time.Now()

	results, err := automation.RunSweep(ctx, sweep, logger)
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "T\tE/SITE\t|M|\tC\tCHI\tBINDER\tACCEPT")
	mags := make([]float64, len(results))
	heat := make([]float64, len(results))
	for i, r := range results {
		fmt.Fprintf(w, "%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%.3f\n",
			r.Temperature, r.Energy, r.AbsMagnetization, r.SpecificHeat, r.Susceptibility, r.Binder, r.Acceptance)
		mags[i] = r.AbsMagnetization
		heat[i] = r.SpecificHeat
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(results) > 1 {
		for _, s := range []struct {
			data    []float64
			caption string
		}{
			{mags, "|m| vs T"},
			{heat, "specific heat vs T"},
		} {
			fmt.Println()
			fmt.Println(asciigraph.Plot(s.data,
				asciigraph.Height(8),
				asciigraph.Width(60),
				asciigraph.Caption(s.caption),
			))
		}
	}

	if peak, ok := automation.PeakSpecificHeat(results); ok {
		fmt.Printf("\nspecific heat peaks at T=%.4f (Onsager Tc=%.4f)\n", peak.Temperature, config.CriticalTemperature)
	}

	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := writeJSON(f, results); err != nil {
			return err
		}
		fmt.Printf("results written to %s\n", output)
	}

	return nil
}

func runAnneal(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	name := scenario.Name
	if name == "" {
		name = filepath.Base(args[0])
	}
	fmt.Printf("scenario: %s (%d stages, %d steps)\n", name, len(scenario.Stages), scenario.Total())
	if scenario.Description != "" {
		fmt.Println(scenario.Description)
	}
	fmt.Println()

	results, runErr := automation.RunScenario(ctx, scenario, logger)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STAGE\tSTART\tT\tJ\tSTEPS\tE/SITE\t|M|\tC\tACCEPT")
	for _, r := range results {
		m := r.Result.Metrics
		fmt.Fprintf(w, "%d\t%d\t%.4f\t%+.2f\t%d\t%.4f\t%.4f\t%.4f\t%.3f\n",
			r.Stage, r.Step, r.Temperature, r.Coupling, r.Result.Steps,
			m["energy_per_site"], m["abs_magnetization"], m["specific_heat"], m["acceptance"])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if n := len(results); n > 0 {
		h := results[n-1].Result.History
		if h.Len() > 1 {
			fmt.Println()
			fmt.Println(asciigraph.Plot(downsample(h.Magnetization, 400),
				asciigraph.Height(10),
				asciigraph.Width(80),
				asciigraph.Caption("magnetization over the schedule"),
			))
		}
	}

	return runErr
}

func benchLattice(cmd *cobra.Command, args []string) error {
	sizes := []int{16, 32, 64, 128}
	policies := []struct {
		name   string
		policy lattice.HistoryPolicy
	}{
		{"all", lattice.HistoryUnbounded()},
		{"stride=1000", lattice.HistoryStride(1000)},
	}

	fmt.Printf("benchmarking %d trials per run\n\n", benchSteps)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "L\tHISTORY\tSTEPS\tTIME\tSTEPS/SEC")

	for _, n := range sizes {
		for _, p := range policies {
			l, err := lattice.New(n, config.CriticalTemperature, 1.0, lattice.WithSeed(42), lattice.WithHistory(p.policy))
			if err != nil {
				return err
			}

			start := time.Now()
			for i := 0; i < benchSteps; i++ {
				l.Step()
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%d\t%s\t%d\t%v\t%.0f\n",
				n, p.name, benchSteps, elapsed.Round(time.Microsecond), float64(benchSteps)/elapsed.Seconds())
		}
	}

	return w.Flush()
}

func writeJSON(f *os.File, v any) error {
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
