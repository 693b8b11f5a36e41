package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/ballpit/internal/config"
	"github.com/san-kum/ballpit/internal/export"
	"github.com/san-kum/ballpit/internal/logging"
	"github.com/san-kum/ballpit/internal/metrics"
	"github.com/san-kum/ballpit/internal/sim"
	"github.com/san-kum/ballpit/internal/storage"
	"github.com/san-kum/ballpit/internal/viz"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dataDir    string
	verbose    bool
	logFile    string
	configFile string
	preset     string

	count      int
	gravity    float64
	friction   float64
	wallBounce float64
	minSize    float64
	maxSize    float64
	noFollow   bool
	seed       int64
	fps        int
	fixedStep  float64

	// live view
	watch bool
	theme string

	// headless runs
	steps       int
	dt          float64
	numRuns     int
	width       float64
	height      float64
	recordEvery int
	noSave      bool
	jsonOut     bool

	logger *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ballpit",
		Short: "interactive ball-pit simulation",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// the live view owns the terminal, so it only logs to a file
			interactive := cmd.Name() == "live" || cmd.Name() == "ballpit"
			var err error
			logger, err = logging.New(logging.Options{
				Verbose: verbose,
				File:    logFile,
				Discard: interactive,
			})
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := viz.RunPicker()
			if err != nil || name == "" {
				return err
			}
			preset = name
			return runLive(cmd, args)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".ballpit", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the ball pit in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().BoolVar(&watch, "watch", false, "reload when --config changes")
	liveCmd.Flags().StringVar(&theme, "theme", "pit", "panel theme")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless and record the result",
		Args:  cobra.NoArgs,
		RunE:  runHeadless,
	}
	addSimFlags(runCmd)
	runCmd.Flags().IntVar(&steps, "steps", 600, "steps per run")
	runCmd.Flags().Float64Var(&dt, "dt", 1.0/60, "step length in seconds (clamped to max_dt)")
	runCmd.Flags().IntVar(&numRuns, "runs", 1, "independent runs with consecutive seeds")
	runCmd.Flags().Float64Var(&width, "width", 1280, "surface width in pixels")
	runCmd.Flags().Float64Var(&height, "height", 720, "surface height in pixels")
	runCmd.Flags().IntVar(&recordEvery, "record-every", 10, "keep every Nth snapshot")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not write the run to the data directory")
	runCmd.Flags().BoolVar(&jsonOut, "json", false, "print the recorded run as JSON")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot energy and overlap of a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a recorded run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render the last recorded frame of a run to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().Float64Var(&width, "width", 1280, "image width in pixels")
	exportSVGCmd.Flags().Float64Var(&height, "height", 720, "image height in pixels")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCOUNT\tGRAVITY\tFRICTION\tBOUNCE")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%.2f\t%.4f\t%.2f\n", name, p.Count, p.Gravity, p.Friction, p.WallBounce)
			}
			return w.Flush()
		},
	}

	initConfigCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write a config file with every field set",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "ballpit.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			name := preset
			if name == "" {
				name = "default"
			}
			cfg := config.GetPreset(name)
			if cfg == nil {
				return fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}
	initConfigCmd.Flags().StringVar(&preset, "preset", "", "start from this preset")

	rootCmd.AddCommand(liveCmd, runCmd, listCmd, plotCmd, exportJSONCmd, exportSVGCmd, presetsCmd, initConfigCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().IntVar(&count, "count", config.DefaultCount, "number of bodies")
	cmd.Flags().Float64Var(&gravity, "gravity", config.DefaultGravity, "downward acceleration")
	cmd.Flags().Float64Var(&friction, "friction", config.DefaultFriction, "velocity retention per reference frame, [0,1]")
	cmd.Flags().Float64Var(&wallBounce, "wall-bounce", config.DefaultWallBounce, "restitution, [0,1]")
	cmd.Flags().Float64Var(&minSize, "min-size", config.DefaultMinSize, "smallest radius")
	cmd.Flags().Float64Var(&maxSize, "max-size", config.DefaultMaxSize, "largest radius")
	cmd.Flags().BoolVar(&noFollow, "no-follow", false, "ignore the pointer")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	cmd.Flags().IntVar(&fps, "fps", config.DefaultFPS, "frame rate")
	cmd.Flags().Float64Var(&fixedStep, "fixed-step", 0, "fixed step length, 0 for variable")
}

// resolveConfig layers preset, then config file, then explicitly set flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("count") {
		cfg.Count = count
	}
	if flags.Changed("gravity") {
		cfg.Gravity = gravity
	}
	if flags.Changed("friction") {
		cfg.Friction = friction
	}
	if flags.Changed("wall-bounce") {
		cfg.WallBounce = wallBounce
	}
	if flags.Changed("min-size") {
		cfg.MinSize = minSize
	}
	if flags.Changed("max-size") {
		cfg.MaxSize = maxSize
	}
	if flags.Changed("no-follow") {
		cfg.FollowCursor = !noFollow
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("fixed-step") {
		cfg.FixedStep = fixedStep
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if watch && configFile == "" {
		return errors.New("--watch needs --config")
	}

	ctx, cancel := signalContext()
	defer cancel()

	opts := viz.LiveOptions{Theme: theme, Title: "ballpit", Logger: logger}
	if preset != "" {
		opts.Title = "ballpit · " + preset
	}
	if watch {
		opts.WatchPath = configFile
	}
	return viz.RunLive(ctx, cfg, opts)
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if numRuns < 1 {
		return fmt.Errorf("--runs must be at least 1, got %d", numRuns)
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	ctx, cancel := signalContext()
	defer cancel()

	sets := make([]*metrics.Set, numRuns)
	recs := make([]*storage.Recorder, numRuns)
	for i := range sets {
		sets[i] = metrics.Standard()
		recs[i] = storage.NewRecorder(recordEvery)
	}

	logger.Info("running",
		zap.Int("runs", numRuns),
		zap.Int("steps", steps),
		zap.Int("bodies", cfg.Count),
		zap.Int64("seed", cfg.Seed))
	start := time.Now()

	ens := sim.NewEnsemble(cfg, numRuns, cfg.Seed)
	_, err = ens.Run(ctx, width, height, steps, dt, func(run int, l *sim.Loop) {
		l.Attach(sets[run])
		l.Attach(recs[run])
	})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	var st *storage.Store
	if !noSave {
		st = storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
	}

	for i := 0; i < numRuns; i++ {
		runCfg := cfg.Clone()
		runCfg.Seed = ens.Seed(i)
		meta := storage.RunMetadata{
			Preset:  preset,
			Seed:    runCfg.Seed,
			Dt:      dt,
			Steps:   steps,
			Width:   width,
			Height:  height,
			Config:  runCfg,
			Metrics: sets[i].Values(),
		}

		if jsonOut {
			if err := storage.ExportJSON(os.Stdout, meta, recs[i].Snapshots()); err != nil {
				return err
			}
		}
		if st != nil {
			runID, err := st.Save(meta, recs[i].Snapshots())
			if err != nil {
				return err
			}
			meta.ID = runID
		}
		if !jsonOut {
			printRun(meta)
		}
	}

	if !jsonOut {
		fmt.Printf("\ncompleted %d run(s) in %v\n", numRuns, elapsed)
	}
	return nil
}

func printRun(meta storage.RunMetadata) {
	if meta.ID != "" {
		fmt.Printf("run id: %s\n", meta.ID)
	}
	fmt.Printf("seed: %d  steps: %d\n", meta.Seed, meta.Steps)
	names := make([]string, 0, len(meta.Metrics))
	for name := range meta.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, meta.Metrics[name])
	}
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
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tSTEPS\tDT\tSEED\tCONTAINMENT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4fs\t%d\t%.3f\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.Dt,
			run.Seed,
			run.Metrics["containment"],
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	snaps, err := st.LoadSnapshots(runID)
	if err != nil {
		return err
	}
	if len(snaps) < 2 {
		return fmt.Errorf("no data to plot")
	}

	energy := metrics.NewKineticEnergy()
	var energySeries, overlapSeries []float64
	for _, s := range snaps {
		energy.Observe(s)
		energySeries = append(energySeries, energy.Last())

		p := metrics.NewPenetration()
		p.Observe(s)
		overlapSeries = append(overlapSeries, p.Value())
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s  seed: %d\n", meta.Preset, meta.Seed)
	fmt.Printf("samples: %d\n\n", len(snaps))

	fmt.Println(asciigraph.Plot(energySeries[1:],
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("kinetic energy (sampled)")))
	fmt.Println()
	fmt.Println(asciigraph.Plot(overlapSeries,
		asciigraph.Height(6),
		asciigraph.Width(80),
		asciigraph.Caption("max overlap / smaller radius")))
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	snaps, err := st.LoadSnapshots(runID)
	if err != nil {
		return err
	}

	path := filepath.Join(dataDir, runID, "export.json")
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := storage.ExportJSON(f, *meta, snaps); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", path)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	snaps, err := st.LoadSnapshots(runID)
	if err != nil {
		return err
	}
	if len(snaps) == 0 || meta.Config == nil {
		return fmt.Errorf("no frame to render")
	}

	// the volume is not recorded; rebuild it from the surface the run used
	last := snaps[len(snaps)-1]
	vp, err := sim.NewViewport(meta.Width, meta.Height, meta.Config.Camera, meta.Config.Depth)
	if err != nil {
		return err
	}
	last.Volume = vp.Volume

	svg := export.SnapshotToSVG(last, int(width), int(height), meta.Config.Camera.Distance, viz.NewShader(meta.Config.Lighting))
	path := filepath.Join(dataDir, runID, fmt.Sprintf("frame_%d.svg", last.Step))
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", path)
	return nil
}
