package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/guisoares9/tradespace-designer/internal/config"
	"github.com/guisoares9/tradespace-designer/internal/logging"
	"github.com/guisoares9/tradespace-designer/internal/observability"
	"github.com/guisoares9/tradespace-designer/internal/viz"
)

var (
	settingsFile string
	dataDir      string
	logLevel     string
	logFormat    string
	workers      int
	theme        string

	// solve / envelope / curves
	throttle      float64
	safeDuty      float64
	maxDuty       float64
	minTWR        float64
	maxCurrent    float64
	minFlightTime float64
	curveSteps    int
	jsonOut       bool

	// sweep
	sweepName  string
	timeBudget time.Duration
	lhsSamples int
	lhsSeed    uint64
	noSave     bool
	rankAll    bool
	frontLimit int

	// plot / export
	xMetric   string
	yMetric   string
	frontOnly bool
	outPath   string
	svgPath   string

	// serve
	httpAddr string
	origins  []string
)

// state shared by the commands after PersistentPreRunE
var (
	settings *config.Settings
	logger   = zap.NewNop()
	styles   = viz.DefaultStyles()
	shutdown = func(context.Context) error { return nil }
)

func main() {
	rootCmd := &cobra.Command{
		Use:               "tradespace",
		Short:             "multirotor propulsion tradespace designer",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			observability.ShutdownWithTimeout(context.Background(), shutdown, logger)
			_ = logger.Sync()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&settingsFile, "settings", "", "settings file (yaml, toml or json)")
	pf.StringVar(&dataDir, "data", "", "run storage directory")
	pf.StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	pf.StringVar(&logFormat, "log-format", "", "console or json")
	pf.IntVar(&workers, "workers", 0, "sweep workers (0 = GOMAXPROCS)")
	pf.StringVar(&theme, "theme", "cyberpunk", fmt.Sprintf("color theme %v", viz.ThemeNames()))

	solveCmd := &cobra.Command{
		Use:   "solve [preset|vehicle.yaml]",
		Short: "solve the operating point of one vehicle",
		Args:  cobra.ExactArgs(1),
		RunE:  runSolve,
	}
	solveCmd.Flags().Float64Var(&throttle, "throttle", 0, "override throttle (0 keeps the vehicle's)")
	solveCmd.Flags().Float64Var(&maxDuty, "max-duty", 0, "max hover throttle")
	solveCmd.Flags().Float64Var(&minTWR, "min-twr", 0, "min thrust-to-weight")
	solveCmd.Flags().Float64Var(&maxCurrent, "max-current", 0, "max battery current (A)")
	solveCmd.Flags().Float64Var(&minFlightTime, "min-flight-time", 0, "min hover time (min)")
	solveCmd.Flags().BoolVar(&jsonOut, "json", false, "print JSON")

	envelopeCmd := &cobra.Command{
		Use:   "envelope [preset|vehicle.yaml]",
		Short: "hover, safe-duty and full-throttle points",
		Args:  cobra.ExactArgs(1),
		RunE:  runEnvelope,
	}
	envelopeCmd.Flags().Float64Var(&safeDuty, "safe-duty", 0, "safe throttle ceiling (0 keeps the vehicle's)")
	envelopeCmd.Flags().BoolVar(&jsonOut, "json", false, "print JSON")

	curvesCmd := &cobra.Command{
		Use:   "curves [preset|vehicle.yaml]",
		Short: "plot thrust and current against throttle",
		Args:  cobra.ExactArgs(1),
		RunE:  runCurves,
	}
	curvesCmd.Flags().IntVar(&curveSteps, "steps", 20, "throttle samples")

	sweepCmd := &cobra.Command{
		Use:   "sweep [sweep.yaml]",
		Short: "evaluate a design space and extract the Pareto front",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepName, "name", "", "run name (defaults to the file's)")
	sweepCmd.Flags().DurationVar(&timeBudget, "time-budget", 0, "stop after this long")
	sweepCmd.Flags().IntVar(&lhsSamples, "lhs", 0, "latin hypercube samples instead of full enumeration")
	sweepCmd.Flags().Uint64Var(&lhsSeed, "seed", 1, "sampling seed")
	sweepCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	sweepCmd.Flags().BoolVar(&rankAll, "rank-all", false, "rank every non-dominated layer")
	sweepCmd.Flags().IntVar(&frontLimit, "limit", 20, "front rows to print")
	sweepCmd.Flags().BoolVar(&jsonOut, "json", false, "print JSON")

	initCmd := &cobra.Command{
		Use:   "init [sweep.yaml]",
		Short: "write the default sweep definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Save(args[0], config.DefaultSweep()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "summarize a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().IntVar(&frontLimit, "limit", 20, "front rows to print")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the Pareto front of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&xMetric, "x", "mass", "metric along the front")
	plotCmd.Flags().StringVar(&yMetric, "y", "hover_time", "metric to plot")
	plotCmd.Flags().StringVar(&svgPath, "svg", "", "also write an SVG scatter of the tradespace")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run candidates to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().BoolVar(&frontOnly, "front", false, "only front members")
	exportCSVCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list vehicle presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				fmt.Printf("  %-8s %s\n", name, config.GetPreset(name).Description)
			}
			return nil
		},
	}

	browseCmd := &cobra.Command{
		Use:   "browse [run_id]",
		Short: "browse run candidates interactively",
		Args:  cobra.ExactArgs(1),
		RunE:  browseRun,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the HTTP API",
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&httpAddr, "addr", "", "listen address (default from settings)")
	serveCmd.Flags().StringSliceVar(&origins, "cors-origin", nil, "allowed CORS origins (default any)")

	rootCmd.AddCommand(solveCmd, envelopeCmd, curvesCmd, sweepCmd, initCmd, listCmd, showCmd, plotCmd,
		exportCSVCmd, exportJSONCmd, presetsCmd, browseCmd, serveCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// setup loads settings, applies explicit flags on top and builds the
// logger and tracer.
func setup(cmd *cobra.Command, args []string) error {
	s, err := config.LoadSettings(settingsFile)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("data") {
		s.DataDir = dataDir
	}
	if flags.Changed("log-level") {
		s.LogLevel = logLevel
	}
	if flags.Changed("log-format") {
		s.LogFormat = logFormat
	}
	if flags.Changed("workers") {
		s.Workers = workers
	}
	if err := s.Validate(); err != nil {
		return err
	}
	settings = s

	logger, err = logging.New(logging.Config{Level: s.LogLevel, Format: s.LogFormat})
	if err != nil {
		return err
	}
	styles = viz.NewStyles(viz.GetTheme(theme))

	shutdown, err = observability.InitTracing(cmd.Context(), observability.TracingConfig{
		Enabled:     s.TracingEnabled,
		ServiceName: "tradespace",
		Exporter:    s.TracingExporter,
		SampleRatio: s.TracingRatio,
	}, logger)
	return err
}
