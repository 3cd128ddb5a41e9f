package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/dlasim/internal/config"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	dataDir  string
	envFile  string
	quiet    bool
	printer  = message.NewPrinter(language.English)
	warnText = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00"))
	headText = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ffff"))
)

// Flags shared by every command that grows a cluster.
var (
	configFile   string
	preset       string
	radius       int
	seed         int64
	maxAttempts  int
	interval     int
	outputDir    string
	cellSize     int
	debug        bool
	rendererName string
)

// main registers the dlasim commands and exits with status 1 if the chosen
// command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:          "dlasim",
		Short:        "diffusion-limited aggregation on a square lattice",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envFile != "" {
				return config.LoadDotEnv(envFile)
			}
			return config.LoadDotEnv()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".dlasim", "data directory")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file with DLASIM_* overrides (default ./.env)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress engine progress lines")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "grow a cluster and save the run",
		Args:  cobra.NoArgs,
		RunE:  runAggregation,
	}
	addGrowthFlags(runCmd)
	runCmd.Flags().StringVar(&rendererName, "renderer", "png", "snapshot renderer (png, svg, none)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "grow a cluster in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addGrowthFlags(liveCmd)
	liveCmd.Flags().StringVar(&rendererName, "renderer", "none", "snapshot renderer (png, svg, none)")
	liveCmd.Flags().Bool("save", false, "save the run when the view closes")

	svgCmd := &cobra.Command{
		Use:   "svg [file]",
		Short: "grow a cluster and write the final lattice as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  writeSVG,
	}
	addGrowthFlags(svgCmd)
	svgCmd.Flags().Float64("scale", 4, "pixels per cell")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show run summary and metrics",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot cluster growth",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().String("png", "", "also write the chart to a PNG file")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata and growth to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringP("output", "o", "", "output file (default stdout, metadata only)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(headText.Render("presets:"))
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				printer.Printf("  %-8s radius %-4d snapshot every %d\n", name, p.Radius, p.SnapshotInterval)
			}
			return nil
		},
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a YAML scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	addGrowthFlags(scenarioCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grow one cluster per radius and tabulate fractal dimension",
		RunE:  runSweep,
	}
	sweepCmd.Flags().Int("min", 10, "smallest radius")
	sweepCmd.Flags().Int("max", 50, "largest radius")
	sweepCmd.Flags().Int("step", 10, "radius increment")
	sweepCmd.Flags().Int64("seed", 1, "random seed")
	sweepCmd.Flags().Int("max-attempts", 0, "walker cap per run (0 = default)")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "repeat runs at one radius with derived seeds",
		RunE:  runEnsemble,
	}
	ensembleCmd.Flags().Int("radius", 30, "aggregation radius")
	ensembleCmd.Flags().Int("trials", 10, "number of trials")
	ensembleCmd.Flags().Int64("seed", 1, "seed for trial seeds")
	ensembleCmd.Flags().Int("max-attempts", 0, "walker cap per run (0 = default)")
	ensembleCmd.Flags().Int("workers", 0, "trials grown at once (0 = GOMAXPROCS)")

	rootCmd.AddCommand(runCmd, liveCmd, svgCmd, listCmd, showCmd, plotCmd, exportCmd, presetsCmd, scenarioCmd, sweepCmd, ensembleCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addGrowthFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.IntVarP(&radius, "radius", "r", config.DefaultRadius, "aggregation radius")
	f.Int64Var(&seed, "seed", 0, "random seed (default: time based)")
	f.IntVar(&maxAttempts, "max-attempts", config.DefaultMaxAttempts, "walker cap")
	f.IntVar(&interval, "interval", config.DefaultSnapshotInterval, "walkers between snapshots")
	f.StringVar(&outputDir, "out", config.DefaultOutputDir, "snapshot directory")
	f.IntVar(&cellSize, "cell-size", config.DefaultCellSize, "pixels per cell in snapshots")
	f.BoolVar(&debug, "debug", false, "assert walkers never wrap around the lattice")
}

func engineLogger() *log.Logger {
	if quiet {
		return log.New(io.Discard, "", 0)
	}
	return log.New(os.Stdout, "", log.Ltime)
}
