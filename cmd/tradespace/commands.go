package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/guisoares9/tradespace-designer/internal/api"
	"github.com/guisoares9/tradespace-designer/internal/config"
	"github.com/guisoares9/tradespace-designer/internal/feasibility"
	"github.com/guisoares9/tradespace-designer/internal/observability"
	"github.com/guisoares9/tradespace-designer/internal/solver"
	"github.com/guisoares9/tradespace-designer/internal/storage"
	"github.com/guisoares9/tradespace-designer/internal/tradespace"
	"github.com/guisoares9/tradespace-designer/internal/viz"
)

// loadVehicle resolves a preset name or a vehicle file.
func loadVehicle(arg string) (*config.Vehicle, error) {
	if v := config.GetPreset(arg); v != nil {
		return v, nil
	}
	v, err := config.LoadVehicle(arg)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("unknown preset or file: %s (presets: %v)", arg, config.ListPresets())
		}
		return nil, err
	}
	return v, nil
}

func printJSON(v any) error {
	return storage.ExportJSONStdout(v)
}

func runSolve(cmd *cobra.Command, args []string) error {
	v, err := loadVehicle(args[0])
	if err != nil {
		return err
	}
	if throttle != 0 {
		v.Throttle = throttle
	}
	cfg, err := v.Configuration()
	if err != nil {
		return err
	}
	constraints := feasibility.Constraints{
		MaxDutyCycle:      maxDuty,
		MinThrustToWeight: minTWR,
		MaxCurrent:        maxCurrent,
		MinFlightTime:     minFlightTime,
	}
	if err := constraints.Validate(); err != nil {
		return err
	}

	res, err := solver.Solve(cfg)
	if err != nil {
		return err
	}
	verdict := feasibility.EvaluateRatings(res, constraints, cfg.Motor, cfg.ESC)
	logger.Debug("solved", zap.String("vehicle", v.Name), zap.Int("iterations", res.Iterations))

	if jsonOut {
		return printJSON(api.SolveResponse{Vehicle: v.Name, Configuration: cfg, Result: res, Verdict: verdict})
	}
	fmt.Println(viz.RenderPerformance(styles, v.Name, cfg, res, verdict))
	return nil
}

func runEnvelope(cmd *cobra.Command, args []string) error {
	v, err := loadVehicle(args[0])
	if err != nil {
		return err
	}
	if safeDuty != 0 {
		v.SafeDuty = safeDuty
	}
	cfg, err := v.Configuration()
	if err != nil {
		return err
	}
	env, err := solver.Envelope(cfg, v.SafeDutyCycle())
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(api.EnvelopeResponse{Vehicle: v.Name, Configuration: cfg, Envelope: env})
	}
	fmt.Println(viz.RenderEnvelope(styles, v.Name, cfg, env))
	return nil
}

func runCurves(cmd *cobra.Command, args []string) error {
	v, err := loadVehicle(args[0])
	if err != nil {
		return err
	}
	cfg, err := v.Configuration()
	if err != nil {
		return err
	}
	out, err := viz.ThrottleCurves(solver.New(solver.DefaultOptions()), cfg, curveSteps, 80, 12)
	if err != nil {
		return err
	}
	fmt.Printf("vehicle: %s\n\n%s\n", v.Name, out)
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	sweep := config.DefaultSweep()
	if len(args) == 1 {
		var err error
		if sweep, err = config.Load(args[0]); err != nil {
			return err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("name") {
		sweep.Name = sweepName
	}
	if flags.Changed("time-budget") {
		sweep.TimeBudget = timeBudget
	}
	if lhsSamples > 0 {
		sweep.Sampling = tradespace.Sampling{Method: tradespace.SamplingLHS, Samples: lhsSamples, Seed: lhsSeed}
	}
	if rankAll {
		sweep.RankAll = true
	}

	req, err := sweep.ToRequest()
	if err != nil {
		return err
	}

	engine := tradespace.NewEngine(solver.New(sweep.Solver.Options()), tradespace.Options{
		Workers: settings.Workers,
		Logger:  logger,
	})
	result, err := engine.Run(cmd.Context(), req)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if err != nil {
		logger.Warn("sweep interrupted; keeping partial result", zap.Int("evaluated", result.Evaluated))
	}

	if !noSave {
		st := storage.New(settings.DataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(sweep.Name, req, result)
		if err != nil {
			return err
		}
		logger.Info("run saved", zap.String("id", runID), zap.String("dir", settings.DataDir))
		if !jsonOut {
			fmt.Printf("run: %s\n", runID)
		}
	}

	if jsonOut {
		return printJSON(result)
	}
	fmt.Println(viz.RenderSweep(styles, result, tradespace.Summarize(result, nil), frontLimit))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(settings.DataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tEVALUATED\tFEASIBLE\tFRONT\tELAPSED")

	for _, run := range runs {
		evaluated := fmt.Sprintf("%d/%d", run.Evaluated, run.Total)
		if run.Truncated {
			evaluated += "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
			run.ID,
			run.Name,
			run.Timestamp.Local().Format("2006-01-02 15:04:05"),
			evaluated,
			run.Feasible,
			run.FrontSize,
			run.Duration.Round(time.Millisecond),
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, *tradespace.SweepResult, error) {
	st := storage.New(settings.DataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	result, err := st.LoadResult(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, result, nil
}

func showRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("name: %s\n", meta.Name)
	fmt.Printf("time: %s\n\n", meta.Timestamp.Local().Format(time.RFC3339))
	fmt.Println(viz.RenderSweep(styles, result, tradespace.Summarize(result, nil), frontLimit))
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	graph, err := viz.FrontPlot(result, xMetric, yMetric, 80, 15)
	if err != nil {
		return err
	}
	fmt.Printf("run: %s\n\n%s\n", meta.ID, graph)

	if svgPath != "" {
		svg, err := viz.TradespaceSVG(result, xMetric, yMetric, 800, 600)
		if err != nil {
			return err
		}
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("svg written to %s\n", svgPath)
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if outPath == "" {
		return storage.WriteCSV(os.Stdout, result, frontOnly)
	}
	if err := storage.ExportCSV(outPath, result, frontOnly); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", outPath)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	data := api.RunResponse{Run: meta, Summary: tradespace.Summarize(result, nil), Result: result}
	if outPath == "" {
		return printJSON(data)
	}
	if err := storage.ExportJSON(outPath, data); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", outPath)
	return nil
}

func browseRun(cmd *cobra.Command, args []string) error {
	_, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return viz.RunBrowser(result)
}

func serve(cmd *cobra.Command, args []string) error {
	addr := settings.HTTPAddr
	if httpAddr != "" {
		addr = httpAddr
	}

	var metrics *observability.SweepMetrics
	if settings.MetricsEnabled {
		var err error
		if metrics, err = observability.NewSweepMetrics(prometheus.DefaultRegisterer); err != nil {
			return err
		}
	}

	st := storage.New(settings.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	engineOpts := tradespace.Options{Workers: settings.Workers, Logger: logger}
	if metrics != nil {
		engineOpts.Recorder = metrics
	}
	gin.SetMode(gin.ReleaseMode)
	server := api.NewServer(api.Options{
		Engine:         tradespace.NewEngine(nil, engineOpts),
		Store:          st,
		Metrics:        metrics,
		Logger:         logger,
		AllowedOrigins: origins,
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting API server", zap.String("addr", addr), zap.String("data_dir", settings.DataDir))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-cmd.Context().Done():
	}

	logger.Info("shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
