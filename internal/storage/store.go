package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/hillfit/internal/dataset"
	"github.com/san-kum/hillfit/internal/hill"
)

const (
	EquationFile = "equation.txt"
	ParamsFile   = "params.json"
	RawFile      = "raw_data.csv"
	FittedFile   = "fitted_data.csv"
	FigureFile   = "regression.svg"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string {
	return s.baseDir
}

// DefaultName is the export name used when none is given, e.g. "2024-05-01-Hillfit".
func DefaultName(t time.Time) string {
	return t.Format("2006-01-02") + "-Hillfit"
}

// NextAvailablePath returns the first of name, name-1, name-2, ... that does
// not exist under the store. It never creates anything, so calling it twice
// without a Save in between yields the same path.
func (s *Store) NextAvailablePath(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid export name %q", name)
	}
	candidate := name
	for i := 1; ; i++ {
		path := filepath.Join(s.baseDir, candidate)
		_, err := os.Stat(path)
		if os.IsNotExist(err) {
			return path, nil
		}
		if err != nil {
			return "", err
		}
		candidate = name + "-" + strconv.Itoa(i)
	}
}

// Metadata is the structured parameter dump written to params.json.
type Metadata struct {
	ID          string             `json:"id"`
	Title       string             `json:"title,omitempty"`
	Source      string             `json:"source,omitempty"`
	Timestamp   time.Time          `json:"timestamp"`
	Equation    string             `json:"equation"`
	Params      hill.Params        `json:"params"`
	Initial     hill.Params        `json:"initial"`
	Bounds      hill.Bounds        `json:"bounds"`
	FixedBottom bool               `json:"fixed_bottom"`
	RSquared    float64            `json:"r_squared"`
	Points      int                `json:"points"`
	Resolution  int                `json:"resolution"`
	Iterations  int                `json:"iterations"`
	Evaluations int                `json:"evaluations"`
	Metrics     map[string]float64 `json:"metrics,omitempty"`
	Warnings    []string           `json:"warnings,omitempty"`
}

// Bundle is everything one export writes.
type Bundle struct {
	Name    string
	Title   string
	Source  string
	X, Y    []float64
	Report  *hill.Report
	SigFigs int

	// Figure, when set, renders the regression plot as SVG.
	Figure func(w io.Writer) error
}

// Save writes b into a fresh directory and returns its id.
func (s *Store) Save(b Bundle) (string, error) {
	if b.Report == nil {
		return "", fmt.Errorf("export has no fit report")
	}
	if err := s.Init(); err != nil {
		return "", err
	}
	now := time.Now()
	name := b.Name
	if name == "" {
		name = DefaultName(now)
	}

	var dir string
	for {
		path, err := s.NextAvailablePath(name)
		if err != nil {
			return "", err
		}
		if err := os.Mkdir(path, 0755); err != nil {
			if os.IsExist(err) {
				continue
			}
			return "", err
		}
		dir = path
		break
	}
	id := filepath.Base(dir)

	rep := b.Report
	equation := rep.Params.Equation(b.SigFigs)
	meta := Metadata{
		ID:          id,
		Title:       b.Title,
		Source:      b.Source,
		Timestamp:   now,
		Equation:    equation,
		Params:      rep.Params,
		Initial:     rep.Initial,
		Bounds:      rep.Bounds,
		FixedBottom: rep.FixedBottom,
		RSquared:    rep.RSquared,
		Points:      rep.Points,
		Resolution:  len(rep.XFit),
		Iterations:  rep.Iterations,
		Evaluations: rep.Evaluations,
		Metrics:     rep.Metrics,
		Warnings:    rep.Warnings,
	}

	if err := writeFile(filepath.Join(dir, ParamsFile), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	}); err != nil {
		return "", err
	}

	if err := writeFile(filepath.Join(dir, EquationFile), func(w io.Writer) error {
		_, err := io.WriteString(w, equationText(equation, rep))
		return err
	}); err != nil {
		return "", err
	}

	if err := writeFile(filepath.Join(dir, RawFile), func(w io.Writer) error {
		return dataset.WriteCSV(w, "x", "y", b.X, b.Y)
	}); err != nil {
		return "", err
	}

	if err := writeFile(filepath.Join(dir, FittedFile), func(w io.Writer) error {
		return dataset.WriteCSV(w, "x_fit", "y_fit", rep.XFit, rep.YFit)
	}); err != nil {
		return "", err
	}

	if b.Figure != nil {
		if err := writeFile(filepath.Join(dir, FigureFile), b.Figure); err != nil {
			return "", err
		}
	}

	return id, nil
}

func equationText(equation string, rep *hill.Report) string {
	lines := []string{
		"Fitted Hill equation: " + equation,
		"top = " + formatFloat(rep.Params.Top),
		"bottom = " + formatFloat(rep.Params.Bottom),
		"ec50 = " + formatFloat(rep.Params.EC50),
		"nH = " + formatFloat(rep.Params.NH),
		"R² = " + formatFloat(rep.RSquared),
	}
	return strings.Join(lines, "\n") + "\n"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

// List returns the metadata of every export under the store, oldest first.
// Directories without a readable params.json are skipped.
func (s *Store) List() ([]Metadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Metadata{}, nil
		}
		return nil, err
	}

	exports := make([]Metadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		exports = append(exports, *meta)
	}

	sort.SliceStable(exports, func(i, j int) bool {
		return exports[i].Timestamp.Before(exports[j].Timestamp)
	})
	return exports, nil
}

func (s *Store) Load(id string) (*Metadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, ParamsFile))
	if err != nil {
		return nil, err
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSeries reads back the raw samples of an export.
func (s *Store) LoadSeries(id string) (*dataset.Series, error) {
	series, err := readSeries(filepath.Join(s.baseDir, id, RawFile))
	if err != nil {
		return nil, err
	}
	series.Name = id
	return series, nil
}

// LoadFitted reads back the resampled curve of an export.
func (s *Store) LoadFitted(id string) (xFit, yFit []float64, err error) {
	series, err := readSeries(filepath.Join(s.baseDir, id, FittedFile))
	if err != nil {
		return nil, nil, err
	}
	return series.X, series.Y, nil
}

func readSeries(path string) (*dataset.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return dataset.ReadCSV(f)
}
