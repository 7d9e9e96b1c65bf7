package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/hillfit/internal/logger"
)

var (
	dataDir    string
	logLevel   string
	logFormat  string
	configFile string
	preset     string
	fixBottom  bool
	points     int
	maxEvals   int
	sigfigs    int
	noPlot     bool
	jsonOut    bool
	export     bool
	outDir     string
	exportName string
	title      string
	// eval parameters
	top    float64
	bottom float64
	ec50   float64
	nh     float64

	log = slog.Default()
)

// main registers the hillfit commands and exits 1 when one fails.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "hillfit",
		Short:        "fit the four-parameter Hill equation to dose-response data",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log = logger.New(cmd.ErrOrStderr(), logLevel, logFormat)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".", "export directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); defaults to $LOG_LEVEL")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	fitCmd := &cobra.Command{
		Use:   "fit [file]",
		Short: "fit a dataset (csv, json or yaml)",
		Args:  cobra.ExactArgs(1),
		RunE:  fitFile,
	}
	addFitFlags(fitCmd)

	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "fit the built-in reference dataset",
		Args:  cobra.NoArgs,
		RunE:  fitDemo,
	}
	addFitFlags(demoCmd)

	evalCmd := &cobra.Command{
		Use:   "eval [file]",
		Short: "score given parameters against a dataset",
		Args:  cobra.ExactArgs(1),
		RunE:  evalFile,
	}
	evalCmd.Flags().Float64Var(&top, "top", 100, "top asymptote")
	evalCmd.Flags().Float64Var(&bottom, "bottom", 0, "bottom asymptote")
	evalCmd.Flags().Float64Var(&ec50, "ec50", 0, "half-maximal concentration")
	evalCmd.Flags().Float64Var(&nh, "nh", 1, "hill coefficient")
	evalCmd.Flags().IntVar(&points, "points", 0, "resampled points (0 = one per sample)")
	evalCmd.Flags().IntVar(&sigfigs, "sigfigs", 0, "significant figures in the equation")
	evalCmd.Flags().BoolVar(&noPlot, "no-plot", false, "skip the terminal plot")
	evalCmd.Flags().BoolVar(&jsonOut, "json", false, "print the result as json")
	_ = evalCmd.MarkFlagRequired("ec50")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list exports",
		Args:  cobra.NoArgs,
		RunE:  listExports,
	}

	showCmd := &cobra.Command{
		Use:   "show [id]",
		Short: "print an export's parameters",
		Args:  cobra.ExactArgs(1),
		RunE:  showExport,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [id]",
		Short: "plot an export in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotExport,
	}

	viewCmd := &cobra.Command{
		Use:   "view [file]",
		Short: "fit a dataset and browse it interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE:  viewFile,
	}
	viewCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml or toml)")
	viewCmd.Flags().StringVar(&preset, "preset", "", "use a solver preset")
	viewCmd.Flags().BoolVar(&fixBottom, "fix-bottom", false, "hold bottom at 0")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list solver presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	rootCmd.AddCommand(fitCmd, demoCmd, evalCmd, listCmd, showCmd, plotCmd, viewCmd, presetsCmd)
	return rootCmd
}

func addFitFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml or toml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use a solver preset")
	cmd.Flags().BoolVar(&fixBottom, "fix-bottom", false, "hold bottom at 0")
	cmd.Flags().IntVar(&points, "points", 0, "resampled points (0 = one per sample)")
	cmd.Flags().IntVar(&maxEvals, "max-evals", 0, "solver evaluation cap")
	cmd.Flags().IntVar(&sigfigs, "sigfigs", 0, "significant figures in the equation")
	cmd.Flags().BoolVar(&noPlot, "no-plot", false, "skip the terminal plot")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the report as json")
	cmd.Flags().BoolVar(&export, "export", false, "write the fit to an export directory")
	cmd.Flags().StringVar(&outDir, "out", "", "export directory (defaults to --data)")
	cmd.Flags().StringVar(&exportName, "name", "", "export name (defaults to <date>-Hillfit)")
	cmd.Flags().StringVar(&title, "title", "", "figure and report title")
}
