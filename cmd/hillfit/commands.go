package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/hillfit/internal/config"
	"github.com/san-kum/hillfit/internal/dataset"
	"github.com/san-kum/hillfit/internal/hill"
	"github.com/san-kum/hillfit/internal/render"
	"github.com/san-kum/hillfit/internal/storage"
	"github.com/san-kum/hillfit/internal/tui"
)

type fitOutput struct {
	Title    string `json:"title,omitempty"`
	Source   string `json:"source"`
	Equation string `json:"equation"`
	Export   string `json:"export,omitempty"`
	*hill.Report
}

func fitFile(cmd *cobra.Command, args []string) error {
	series, err := dataset.Load(args[0])
	if err != nil {
		return err
	}
	return runFit(cmd, series, args[0])
}

func fitDemo(cmd *cobra.Command, args []string) error {
	ref := dataset.Reference()
	return runFit(cmd, &ref, "reference")
}

// resolveConfig layers the preset, then the config file (or the default
// config when neither is given), then any flag set on the command line.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	switch {
	case configFile != "":
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	case preset == "":
		loaded, err := config.LoadDefault()
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("fix-bottom") {
		cfg.FixBottom = fixBottom
	}
	if flags.Changed("points") {
		cfg.Output.Points = points
	}
	if flags.Changed("max-evals") {
		cfg.Solver.MaxEvaluations = maxEvals
	}
	if flags.Changed("sigfigs") {
		cfg.Output.SigFigs = sigfigs
	}
	if flags.Changed("no-plot") {
		cfg.Output.Plot = !noPlot
	}
	if flags.Changed("title") {
		cfg.Output.Title = title
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runFit(cmd *cobra.Command, series *dataset.Series, source string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	log.Info("fitting", "source", source, "points", series.Len(), "fix_bottom", cfg.FixBottom)
	rep, err := hill.Fit(cmd.Context(), series.X, series.Y, cfg.Options()...)
	if err != nil {
		log.Error("fit failed", "source", source, "err", err)
		return err
	}
	log.Debug("solver finished",
		"status", rep.Status.String(),
		"iterations", rep.Iterations,
		"evaluations", rep.Evaluations,
		"cost", rep.Cost,
	)
	for _, w := range rep.Warnings {
		log.Warn(w, "source", source)
	}

	out := fitOutput{
		Title:    cfg.Output.Title,
		Source:   source,
		Equation: rep.Params.Equation(cfg.Output.SigFigs),
		Report:   rep,
	}

	if export {
		id, err := exportFit(series, rep, cfg, source)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		out.Export = id
	}

	w := cmd.OutOrStdout()
	if jsonOut {
		return writeJSON(w, out)
	}

	fmt.Fprintln(w, render.Report(cfg.Output.Title, rep, cfg.Output.SigFigs))
	if cfg.Output.Plot {
		plot, err := render.Curve(series.X, series.Y, rep.Params, render.PlotOptions{
			Width:  cfg.Output.Width,
			Height: cfg.Output.Height,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(w, plot)
	}
	if out.Export != "" {
		fmt.Fprintf(w, "exported to %s\n", out.Export)
	}
	return nil
}

func exportFit(series *dataset.Series, rep *hill.Report, cfg *config.Config, source string) (string, error) {
	dir := outDir
	if dir == "" {
		dir = dataDir
	}
	st := storage.New(dir)
	figTitle := cfg.Output.Title
	id, err := st.Save(storage.Bundle{
		Name:    exportName,
		Title:   figTitle,
		Source:  source,
		X:       series.X,
		Y:       series.Y,
		Report:  rep,
		SigFigs: cfg.Output.SigFigs,
		Figure: func(w io.Writer) error {
			return render.SVG(w, series.X, series.Y, &rep.Result, render.FigureOptions{Title: figTitle})
		},
	})
	if err != nil {
		return "", err
	}
	log.Info("exported", "id", id, "dir", dir)
	return id, nil
}

func evalFile(cmd *cobra.Command, args []string) error {
	series, err := dataset.Load(args[0])
	if err != nil {
		return err
	}
	p := hill.Params{Top: top, Bottom: bottom, EC50: ec50, NH: nh}
	res, err := hill.Evaluate(series.X, series.Y, p, points)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if jsonOut {
		return writeJSON(w, struct {
			Params hill.Params `json:"params"`
			*hill.Result
		}{p, res})
	}

	fmt.Fprintln(w, p.Equation(sigfigs))
	fmt.Fprintf(w, "R² = %.6g\n", res.RSquared)
	if !noPlot {
		plot, err := render.Curve(series.X, series.Y, p, render.PlotOptions{Height: config.DefaultChartHeight})
		if err != nil {
			return err
		}
		fmt.Fprintln(w, plot)
	}
	return nil
}

func listExports(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	exports, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(exports) == 0 {
		fmt.Fprintln(out, "no exports found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tPOINTS\tR²\tEC50\tNH")
	for _, e := range exports {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.4f\t%.4g\t%.4g\n",
			e.ID,
			e.Timestamp.Format("2006-01-02 15:04:05"),
			e.Points,
			e.RSquared,
			e.Params.EC50,
			e.Params.NH,
		)
	}
	return w.Flush()
}

func showExport(cmd *cobra.Command, args []string) error {
	meta, err := storage.New(dataDir).Load(args[0])
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), meta)
}

func plotExport(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}

	plot, err := render.Curve(series.X, series.Y, meta.Params, render.PlotOptions{
		Height:  config.DefaultChartHeight,
		Caption: fmt.Sprintf("%s  R² = %.4f", meta.Equation, meta.RSquared),
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), plot)
	return nil
}

func viewFile(cmd *cobra.Command, args []string) error {
	var series *dataset.Series
	if len(args) == 0 {
		ref := dataset.Reference()
		series = &ref
	} else {
		var err error
		if series, err = dataset.Load(args[0]); err != nil {
			return err
		}
	}

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	rep, err := hill.Fit(cmd.Context(), series.X, series.Y, cfg.Options()...)
	if err != nil {
		return err
	}
	return tui.Run(tui.New(cfg.Output.Title, *series, rep, cfg.Output.SigFigs))
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMAX EVALS\tFTOL\tXTOL\tGTOL\tPOINTS\tSIGFIGS")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%g\t%g\t%g\t%d\t%d\n",
			name,
			p.Solver.MaxEvaluations,
			p.Solver.FTol,
			p.Solver.XTol,
			p.Solver.GTol,
			p.Output.Points,
			p.Output.SigFigs,
		)
	}
	return w.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
