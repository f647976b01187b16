// Package instance - file loaders.
//
// Two on-disk formats are understood:
//
//   - FormatText: one matrix row per line, values separated by whitespace;
//     blank lines and lines starting with '#' are ignored.
//
//   - FormatYAML: a mapping with an optional name and exactly one of
//
//     matrix: [[0, 5], [5, 0]]
//     points: [[0, 0], [3, 4]]
//
// Loaded matrices must be square, have at least two cities and be symmetric;
// entry-level checks (negative or non-finite distances) are left to the cost
// model so every caller sees the same tsp sentinels.
package instance

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/tspmeta/matrix"
)

// symTol is the symmetry tolerance applied to loaded matrices.
const symTol = 1e-9

// ErrFormat - the input cannot be parsed as the requested format.
var ErrFormat = errors.New("instance: malformed input")

// Format selects a file syntax.
type Format int

const (
	// FormatText is whitespace-separated rows.
	FormatText Format = iota
	// FormatYAML is the YAML document described in the package doc.
	FormatYAML
)

// String returns "text" or "yaml".
func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "text"
}

// FormatFromPath picks FormatYAML for .yaml/.yml files and FormatText otherwise.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatText
	}
}

// Instance is a named distance matrix.
type Instance struct {
	Name string
	Dist *matrix.Dense
}

// Cities returns the number of cities.
func (in *Instance) Cities() int { return in.Dist.Rows() }

// yamlDoc is the YAML file schema.
type yamlDoc struct {
	Name   string      `yaml:"name"`
	Matrix [][]float64 `yaml:"matrix"`
	Points [][]float64 `yaml:"points"`
}

// LoadFile opens path and loads it in the format implied by its extension.
// The instance is named after the file when the document carries no name.
func LoadFile(path string) (*Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("instance: open %s: %w", path, err)
	}
	defer f.Close()

	in, err := Load(f, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if in.Name == "" {
		in.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	return in, nil
}

// Load reads one instance from r.
//
// Errors: ErrFormat for syntax problems, ErrTooFewCities, ErrBadPoint and the
// matrix shape/symmetry sentinels (matrix.ErrRagged, matrix.ErrNonSquare,
// matrix.ErrAsymmetry).
func Load(r io.Reader, format Format) (*Instance, error) {
	var (
		in  *Instance
		err error
	)
	switch format {
	case FormatText:
		in, err = loadText(r)
	case FormatYAML:
		in, err = loadYAML(r)
	default:
		return nil, fmt.Errorf("%w: unknown format %d", ErrFormat, int(format))
	}
	if err != nil {
		return nil, err
	}
	if err = checkShape(in.Dist); err != nil {
		return nil, err
	}

	return in, nil
}

func loadText(r io.Reader) (*Instance, error) {
	var (
		rows   [][]float64
		sc     = bufio.NewScanner(r)
		lineNo int
		line   string
		fields []string
		row    []float64
		v      float64
		err    error
	)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for sc.Scan() {
		lineNo++
		line = strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields = strings.Fields(line)
		row = make([]float64, len(fields))
		for i, tok := range fields {
			if v, err = strconv.ParseFloat(tok, 64); err != nil {
				return nil, fmt.Errorf("%w: line %d column %d: %q", ErrFormat, lineNo, i+1, tok)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	if err = sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}

	return fromRows("", rows)
}

func loadYAML(r io.Reader) (*Instance, error) {
	var doc yamlDoc
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrFormat)
		}
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}

	switch {
	case len(doc.Matrix) > 0 && len(doc.Points) > 0:
		return nil, fmt.Errorf("%w: both matrix and points given", ErrFormat)
	case len(doc.Matrix) > 0:
		return fromRows(doc.Name, doc.Matrix)
	case len(doc.Points) > 0:
		pts := make([][2]float64, len(doc.Points))
		for i, p := range doc.Points {
			if len(p) != 2 {
				return nil, fmt.Errorf("%w: point %d has %d coordinates", ErrFormat, i, len(p))
			}
			pts[i] = [2]float64{p[0], p[1]}
		}
		m, err := Euclidean(pts)
		if err != nil {
			return nil, err
		}
		return &Instance{Name: doc.Name, Dist: m}, nil
	default:
		return nil, fmt.Errorf("%w: neither matrix nor points given", ErrFormat)
	}
}

// fromRows wraps rows into a Dense, mapping empty input to ErrTooFewCities.
func fromRows(name string, rows [][]float64) (*Instance, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrTooFewCities)
	}
	m, err := matrix.NewDenseFrom(rows)
	if err != nil {
		return nil, err
	}

	return &Instance{Name: name, Dist: m}, nil
}

// checkShape enforces square, n ≥ 2 and symmetry.
func checkShape(m *matrix.Dense) error {
	if err := matrix.ValidateSquare(m); err != nil {
		return err
	}
	if m.Rows() < 2 {
		return fmt.Errorf("%w: n=%d", ErrTooFewCities, m.Rows())
	}

	return matrix.ValidateSymmetric(m, symTol)
}
