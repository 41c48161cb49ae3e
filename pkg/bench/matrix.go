package bench

import (
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/homcount/pkg/errors"
)

// Pair is one marked cell of a [Matrix].
type Pair struct {
	Decomposition string
	Target        string
}

// Matrix lists the decomposition/target pairs to measure.
type Matrix struct {
	Decompositions []string
	Targets        []string
	marked         [][]bool
}

// Pairs returns the marked cells row by row.
func (m *Matrix) Pairs() []Pair {
	var out []Pair
	for i, row := range m.marked {
		for j, on := range row {
			if on {
				out = append(out, Pair{Decomposition: m.Decompositions[i], Target: m.Targets[j]})
			}
		}
	}
	return out
}

// ReadMatrix decodes a matrix CSV.
func ReadMatrix(r io.Reader) (*Matrix, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.FormatErrorf(1, "empty matrix")
	}
	if err != nil {
		return nil, csvError(err)
	}
	if len(header) < 2 {
		return nil, errors.FormatErrorf(1, "matrix header needs at least one target column")
	}

	m := &Matrix{Targets: header[1:]}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, csvError(err)
		}
		line, _ := cr.FieldPos(0)

		row := make([]bool, len(m.Targets))
		for j, cell := range rec[1:] {
			switch strings.TrimSpace(cell) {
			case "1":
				row[j] = true
			case "0", "":
			default:
				return nil, errors.FormatErrorf(line, "cell %q for %s must be 0 or 1", cell, m.Targets[j])
			}
		}
		m.Decompositions = append(m.Decompositions, strings.TrimSpace(rec[0]))
		m.marked = append(m.marked, row)
	}
	return m, nil
}

// ImportMatrix reads a matrix CSV file at path.
func ImportMatrix(path string) (*Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	m, err := ReadMatrix(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func csvError(err error) error {
	var pe *csv.ParseError
	if stderrors.As(err, &pe) {
		return errors.FormatErrorf(pe.Line, "%v", pe.Err)
	}
	return fmt.Errorf("read matrix: %w", err)
}
