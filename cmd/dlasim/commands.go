package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/dlasim/internal/automation"
	"github.com/san-kum/dlasim/internal/config"
	"github.com/san-kum/dlasim/internal/dla"
	"github.com/san-kum/dlasim/internal/experiment"
	"github.com/san-kum/dlasim/internal/export"
	"github.com/san-kum/dlasim/internal/storage"
	"github.com/san-kum/dlasim/internal/viz"
	"github.com/spf13/cobra"
)

// resolveConfig layers defaults, preset, config file, DLASIM_* environment
// and explicitly set flags, in that order.
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
		if err := cfg.Merge(configFile); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	f := cmd.Flags()
	if f.Changed("radius") {
		cfg.Radius = radius
	}
	if f.Changed("seed") {
		cfg.Seed = seed
	}
	if f.Changed("max-attempts") {
		cfg.MaxAttempts = maxAttempts
	}
	if f.Changed("interval") {
		cfg.SnapshotInterval = interval
	}
	if f.Changed("out") {
		cfg.OutputDir = outputDir
	}
	if f.Changed("cell-size") {
		cfg.CellSize = cellSize
	}
	if f.Changed("debug") {
		cfg.Debug = debug
	}
	if cfg.Seed == 0 && !f.Changed("seed") {
		cfg.Seed = time.Now().UnixNano()
	}
	return cfg, cfg.Validate()
}

func runAggregation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	renderer, err := experiment.NewRegistry().GetRenderer(rendererName, cfg)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(renderer, engineLogger()); err != nil {
		return err
	}

	printer.Printf("growing cluster: radius %d, seed %d, cap %d walkers\n", cfg.Radius, cfg.Seed, cfg.MaxAttempts)
	result, err := exp.Run()
	if err != nil {
		return fmt.Errorf("run failed after %d walkers: %w", result.Run.Attempts, err)
	}

	runID, err := st.Save(cfg, result)
	if err != nil {
		return err
	}
	printResult(runID, cfg, result)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	renderer, err := experiment.NewRegistry().GetRenderer(rendererName, cfg)
	if err != nil {
		return err
	}

	// Engine progress lines would tear the alt screen.
	exp := experiment.New(cfg)
	if err := exp.Setup(renderer, nil); err != nil {
		return err
	}

	result, err := viz.Run(exp)
	if err != nil {
		return err
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(cfg, result)
		if err != nil {
			return err
		}
		printResult(runID, cfg, result)
	}
	return nil
}

func writeSVG(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	scale, _ := cmd.Flags().GetFloat64("scale")

	exp := experiment.New(cfg)
	if err := exp.Setup(nil, engineLogger()); err != nil {
		return err
	}
	result, err := exp.Run()
	if err != nil {
		return err
	}

	svg := export.LatticeSVG(exp.Engine().Grid().Cells(), scale)
	if err := os.WriteFile(args[0], []byte(svg), 0644); err != nil {
		return err
	}
	printer.Printf("wrote %s (%d walkers, cluster %d)\n", args[0], result.Run.Attempts, result.Run.ClusterSize)
	return nil
}

func printResult(runID string, cfg *config.Config, result *experiment.Result) {
	fmt.Println()
	fmt.Println(headText.Render("run: " + runID))
	printer.Printf("radius: %d  seed: %d\n", cfg.Radius, cfg.Seed)
	printer.Printf("walkers: %d\n", result.Run.Attempts)
	printer.Printf("aggregated: %d\n", result.Run.ClusterSize)
	printer.Printf("outcome: %s\n", result.Run.Outcome)
	printer.Printf("snapshots: %d\n", result.Run.Snapshots)
	printer.Printf("elapsed: %s\n", result.Elapsed.Round(time.Millisecond))
	printMetrics(result.Metrics)

	if result.Run.Outcome == dla.Exhausted {
		fmt.Println(warnText.Render("warning: walker cap reached before the cluster touched the boundary"))
	}
}

func printMetrics(m map[string]float64) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		printer.Printf("  %-20s %.4f\n", k, m[k])
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
	fmt.Fprintln(w, "ID\tTIME\tRADIUS\tSEED\tOUTCOME\tWALKERS\tCLUSTER")

	for _, run := range runs {
		printer.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%d\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Radius,
			run.Seed,
			run.Outcome,
			run.Attempts,
			run.ClusterSize,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	fmt.Println(headText.Render("run: " + meta.ID))
	fmt.Printf("time: %s\n", meta.Timestamp.Format(time.RFC3339))
	printer.Printf("radius: %d  seed: %d\n", meta.Radius, meta.Seed)
	printer.Printf("walkers: %d of %d\n", meta.Attempts, meta.MaxAttempts)
	printer.Printf("aggregated: %d\n", meta.ClusterSize)
	fmt.Printf("outcome: %s\n", meta.Outcome)
	printer.Printf("snapshots: %d every %d walkers in %s\n", meta.Snapshots, meta.SnapshotInterval, meta.OutputDir)
	fmt.Printf("elapsed: %.2fs\n", meta.ElapsedSeconds)
	printMetrics(meta.Metrics)
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	points, err := st.LoadGrowth(runID)
	if err != nil {
		return err
	}

	if len(points) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	printer.Printf("samples: %d\n\n", len(points))

	data := make([]float64, len(points))
	for i, p := range points {
		data[i] = float64(p.ClusterSize)
	}
	graph := asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("cluster size per absorption"),
	)
	fmt.Println(graph)

	if path, _ := cmd.Flags().GetString("png"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := export.GrowthChartPNG(f, points, 1024, 512); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Printf("\nchart written to %s\n", path)
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	if path, _ := cmd.Flags().GetString("output"); path != "" {
		if err := st.ExportJSON(runID, path); err != nil {
			return err
		}
		fmt.Printf("exported %s to %s\n", runID, path)
		return nil
	}

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Println(headText.Render("scenario: " + scenario.Name))
	if scenario.Description != "" {
		fmt.Println(scenario.Description)
	}
	results, err := automation.RunScenario(scenario, base, experiment.NewRegistry(), st, os.Stdout)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nSTEP\tRADIUS\tOUTCOME\tWALKERS\tCLUSTER\tRUN")
	for _, r := range results {
		id := r.RunID
		if id == "" {
			id = "-"
		}
		printer.Fprintf(w, "%s\t%d\t%s\t%d\t%d\t%s\n",
			r.Name, r.Config.Radius, r.Result.Run.Outcome, r.Result.Run.Attempts, r.Result.Run.ClusterSize, id)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	sweep := &automation.RadiusSweep{}
	sweep.MinRadius, _ = f.GetInt("min")
	sweep.MaxRadius, _ = f.GetInt("max")
	sweep.Step, _ = f.GetInt("step")
	sweep.Seed, _ = f.GetInt64("seed")
	sweep.MaxAttempts, _ = f.GetInt("max-attempts")

	results, err := automation.RunSweep(sweep, os.Stdout)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nRADIUS\tOUTCOME\tWALKERS\tCLUSTER\tRG\tDIMENSION")
	for _, r := range results {
		printer.Fprintf(w, "%d\t%s\t%d\t%d\t%.2f\t%.3f\n",
			r.Radius, r.Outcome, r.Attempts, r.ClusterSize, r.Gyration, r.FractalDimension)
	}
	return w.Flush()
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	cfg := &automation.EnsembleConfig{}
	cfg.Radius, _ = f.GetInt("radius")
	cfg.NumTrials, _ = f.GetInt("trials")
	cfg.Seed, _ = f.GetInt64("seed")
	cfg.MaxAttempts, _ = f.GetInt("max-attempts")
	cfg.Workers, _ = f.GetInt("workers")

	results, err := automation.RunEnsemble(cfg, os.Stdout)
	if err != nil {
		return err
	}

	mean, std, terminated := automation.EnsembleStats(results)
	fmt.Println(headText.Render(fmt.Sprintf("ensemble: radius %d, %d trials", cfg.Radius, len(results))))
	printer.Printf("fractal dimension: %.3f ± %.3f\n", mean, std)
	printer.Printf("reached boundary: %d/%d\n", terminated, len(results))
	if terminated < len(results) {
		fmt.Println(warnText.Render("warning: some trials hit the walker cap"))
	}
	return nil
}
