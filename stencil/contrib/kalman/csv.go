package kalman

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// ReadCSV reads comma separated rows, one time step per row, and returns
// them transposed: row i of the result is column i of the file.
// Blank lines and lines starting with '#' are skipped.
func ReadCSV(r io.Reader) (*mat.Dense, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true

	var (
		data []float64
		cols int
		rows int
	)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("kalman: read csv: %w", err)
		}
		if rows == 0 {
			cols = len(rec)
		}
		for j, field := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("kalman: read csv: line %d column %d: %w", rows+1, j+1, err)
			}
			data = append(data, v)
		}
		rows++
	}
	if rows == 0 {
		return nil, fmt.Errorf("kalman: read csv: %w", io.ErrUnexpectedEOF)
	}

	var out mat.Dense
	out.CloneFrom(mat.NewDense(rows, cols, data).T())
	return &out, nil
}

// WriteCSV writes traj (components x steps) as one row per time step.
func WriteCSV(w io.Writer, traj mat.Matrix) error {
	comps, steps := traj.Dims()
	cw := csv.NewWriter(w)
	rec := make([]string, comps)
	for k := range steps {
		for i := range comps {
			rec[i] = strconv.FormatFloat(traj.At(i, k), 'g', -1, 64)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
