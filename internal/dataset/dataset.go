// Package dataset loads paired x/y samples for fitting.
package dataset

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrUnsupportedFormat = errors.New("dataset: unsupported file format")
	ErrEmpty             = errors.New("dataset: no samples")
	ErrColumns           = errors.New("dataset: need at least two columns")
)

// Series is one set of paired samples, x ascending.
type Series struct {
	Name string    `json:"name,omitempty" yaml:"name,omitempty"`
	X    []float64 `json:"x" yaml:"x"`
	Y    []float64 `json:"y" yaml:"y"`
}

func (s Series) Len() int {
	return len(s.X)
}

func (s Series) Clone() Series {
	c := Series{Name: s.Name, X: make([]float64, len(s.X)), Y: make([]float64, len(s.Y))}
	copy(c.X, s.X)
	copy(c.Y, s.Y)
	return c
}

// Load reads a series from a .csv, .json, .yaml or .yml file.
func Load(path string) (*Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var s *Series
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".txt":
		s, err = ReadCSV(f)
	case ".json":
		s, err = decode(f, json.Unmarshal)
	case ".yaml", ".yml":
		s, err = decode(f, yaml.Unmarshal)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

func decode(r io.Reader, unmarshal func([]byte, any) error) (*Series, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var s Series
	if err := unmarshal(data, &s); err != nil {
		return nil, err
	}
	if len(s.X) == 0 {
		return nil, ErrEmpty
	}
	return &s, nil
}

// ReadCSV parses x/y columns. A header row is optional; when present, columns
// named x and y are used, otherwise the last two columns. A leading index
// column, as written by the exporter, is ignored either way.
func ReadCSV(r io.Reader) (*Series, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	xCol, yCol := -1, -1
	start := 0
	if len(records) > 0 && !numeric(records[0]) {
		for i, name := range records[0] {
			switch strings.ToLower(strings.TrimSpace(name)) {
			case "x":
				xCol = i
			case "y":
				yCol = i
			}
		}
		start = 1
	}

	s := &Series{}
	for i := start; i < len(records); i++ {
		record := records[i]
		if len(record) == 0 || len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		if len(record) < 2 {
			return nil, fmt.Errorf("%w: line %d", ErrColumns, i+1)
		}
		xi, yi := xCol, yCol
		if xi < 0 || yi < 0 {
			xi, yi = len(record)-2, len(record)-1
		}
		if xi >= len(record) || yi >= len(record) {
			return nil, fmt.Errorf("%w: line %d", ErrColumns, i+1)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(record[xi]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(record[yi]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		s.X = append(s.X, x)
		s.Y = append(s.Y, y)
	}

	if len(s.X) == 0 {
		return nil, ErrEmpty
	}
	return s, nil
}

func numeric(record []string) bool {
	for _, field := range record {
		if _, err := strconv.ParseFloat(strings.TrimSpace(field), 64); err != nil {
			return false
		}
	}
	return true
}

// WriteCSV writes paired columns with a pandas-style index column and a header.
func WriteCSV(w io.Writer, xName, yName string, xs, ys []float64) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"", xName, yName}); err != nil {
		return err
	}
	for i := range xs {
		row := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(xs[i], 'g', -1, 64),
			strconv.FormatFloat(ys[i], 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
