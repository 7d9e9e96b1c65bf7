package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/hillfit/internal/hill"
	"github.com/san-kum/hillfit/internal/lsq"
)

const (
	DefaultPoints         = 0
	DefaultSigFigs        = hill.DefaultSigFigs
	DefaultMaxEvaluations = lsq.DefaultMaxEvaluations
	DefaultTolerance      = lsq.DefaultTolerance
	DefaultChartWidth     = 60
	DefaultChartHeight    = 15
)

type Config struct {
	FixBottom bool         `yaml:"fix_bottom" toml:"fix_bottom"`
	Solver    SolverConfig `yaml:"solver" toml:"solver"`
	Output    OutputConfig `yaml:"output" toml:"output"`
}

type SolverConfig struct {
	MaxEvaluations int     `yaml:"max_evaluations" toml:"max_evaluations"`
	FTol           float64 `yaml:"ftol" toml:"ftol"`
	XTol           float64 `yaml:"xtol" toml:"xtol"`
	GTol           float64 `yaml:"gtol" toml:"gtol"`
}

type OutputConfig struct {
	Points  int    `yaml:"points" toml:"points"`
	SigFigs int    `yaml:"sigfigs" toml:"sigfigs"`
	Plot    bool   `yaml:"plot" toml:"plot"`
	Width   int    `yaml:"width" toml:"width"`
	Height  int    `yaml:"height" toml:"height"`
	Title   string `yaml:"title" toml:"title"`
}

func DefaultConfig() *Config {
	return &Config{
		Solver: SolverConfig{
			MaxEvaluations: DefaultMaxEvaluations,
			FTol:           DefaultTolerance,
			XTol:           DefaultTolerance,
			GTol:           DefaultTolerance,
		},
		Output: OutputConfig{
			Points:  DefaultPoints,
			SigFigs: DefaultSigFigs,
			Plot:    true,
			Width:   DefaultChartWidth,
			Height:  DefaultChartHeight,
		},
	}
}

// Load reads a YAML config, or TOML when the file ends in .toml. Fields the
// file leaves out keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if isTOML(path) {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadDefault loads the config at DefaultPath. A missing file yields the defaults.
func LoadDefault() (*Config, error) {
	path := DefaultPath()
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("stat config: %w", err)
	}
	return Load(path)
}

func Save(path string, cfg *Config) error {
	var data []byte
	if isTOML(path) {
		var b strings.Builder
		if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
			return err
		}
		data = []byte(b.String())
	} else {
		var err error
		if data, err = yaml.Marshal(cfg); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects settings the solver or renderer cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Solver.MaxEvaluations < 0:
		return fmt.Errorf("max_evaluations must not be negative, got %d", c.Solver.MaxEvaluations)
	case c.Solver.FTol < 0 || c.Solver.XTol < 0 || c.Solver.GTol < 0:
		return fmt.Errorf("tolerances must not be negative")
	case c.Output.Points == 1 || c.Output.Points < 0:
		return fmt.Errorf("points must be 0 or at least 2, got %d", c.Output.Points)
	case c.Output.SigFigs < 0:
		return fmt.Errorf("sigfigs must not be negative, got %d", c.Output.SigFigs)
	}
	return nil
}

// Options translates the config into estimator options.
func (c *Config) Options() []hill.Option {
	return []hill.Option{
		hill.WithFixedBottom(c.FixBottom),
		hill.WithResolution(c.Output.Points),
		hill.WithSolverSettings(lsq.Settings{
			MaxEvaluations: c.Solver.MaxEvaluations,
			FTol:           c.Solver.FTol,
			XTol:           c.Solver.XTol,
			GTol:           c.Solver.GTol,
		}),
	}
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
