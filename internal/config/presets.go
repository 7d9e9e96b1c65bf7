package config

import "sort"

var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"precise": {
		Solver: SolverConfig{MaxEvaluations: 100000, FTol: 1e-12, XTol: 1e-12, GTol: 1e-12},
		Output: OutputConfig{Points: 200, SigFigs: 8, Plot: true, Width: DefaultChartWidth, Height: DefaultChartHeight},
	},
	"quick": {
		Solver: SolverConfig{MaxEvaluations: 30000, FTol: 1e-6, XTol: 1e-6, GTol: 1e-6},
		Output: OutputConfig{Points: 0, SigFigs: 4, Plot: true, Width: DefaultChartWidth, Height: DefaultChartHeight},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
