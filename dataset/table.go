// Package dataset holds numeric records for training: a table of named
// columns backed by a gorgonia tensor, whole-record dropout and extraction
// of normalized input/output samples.
package dataset

import (
	"errors"
	"fmt"

	"gorgonia.org/tensor"

	"nna/neuralnet"
)

var (
	ErrEmpty         = errors.New("dataset has no records")
	ErrUnknownColumn = errors.New("unknown column")
)

// Table is a rows x columns matrix of float64 records.
type Table struct {
	columns []string
	index   map[string]int
	data    *tensor.Dense
}

func NewTable(columns []string, rows [][]float64) (*Table, error) {
	if len(columns) == 0 {
		return nil, errors.New("dataset has no columns")
	}
	if len(rows) == 0 {
		return nil, ErrEmpty
	}
	index := make(map[string]int, len(columns))
	for j, name := range columns {
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		index[name] = j
	}

	backing := make([]float64, 0, len(rows)*len(columns))
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("record %d: %w", i, &neuralnet.ShapeError{Op: "dataset record", Want: len(columns), Got: len(row)})
		}
		backing = append(backing, row...)
	}

	return &Table{
		columns: append([]string(nil), columns...),
		index:   index,
		data:    tensor.New(tensor.Of(tensor.Float64), tensor.WithShape(len(rows), len(columns)), tensor.WithBacking(backing)),
	}, nil
}

func (t *Table) Len() int { return t.data.Shape()[0] }

func (t *Table) Columns() []string { return append([]string(nil), t.columns...) }

func (t *Table) at(i, j int) float64 {
	v, err := t.data.At(i, j)
	if err != nil {
		panic(err)
	}
	return v.(float64)
}

func (t *Table) Row(i int) []float64 {
	row := make([]float64, len(t.columns))
	for j := range row {
		row[j] = t.at(i, j)
	}
	return row
}

func (t *Table) Rows() [][]float64 {
	rows := make([][]float64, t.Len())
	for i := range rows {
		rows[i] = t.Row(i)
	}
	return rows
}

func (t *Table) Column(name string) ([]float64, error) {
	j, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownColumn, name)
	}
	col := make([]float64, t.Len())
	for i := range col {
		col[i] = t.at(i, j)
	}
	return col, nil
}

// Dropout returns a new table keeping each record with probability
// 1-rate. Records are dropped whole so columns stay aligned.
func (t *Table) Dropout(rate float64) (*Table, error) {
	kept := neuralnet.ApplyDropout(t.Rows(), rate)
	if len(kept) == 0 {
		return nil, ErrEmpty
	}
	return NewTable(t.columns, kept)
}

// Samples are min-max normalized training pairs. Targets keeps the raw
// target column so predictions can be mapped back with
// neuralnet.UnnormalizeFeature.
type Samples struct {
	Inputs  [][]float64
	Outputs []float64
	Targets []float64
}

// Samples normalizes every feature column and the target column
// independently and zips the features back into per-record inputs.
// A constant column normalizes to NaN and makes training fail.
func (t *Table) Samples(features []string, target string) (*Samples, error) {
	if len(features) == 0 {
		return nil, errors.New("no feature columns")
	}
	scaled := make([][]float64, len(features))
	for f, name := range features {
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		scaled[f] = neuralnet.NormalizeFeature(col)
	}
	raw, err := t.Column(target)
	if err != nil {
		return nil, err
	}

	inputs := make([][]float64, t.Len())
	for i := range inputs {
		inputs[i] = make([]float64, len(features))
		for f := range features {
			inputs[i][f] = scaled[f][i]
		}
	}
	return &Samples{
		Inputs:  inputs,
		Outputs: neuralnet.NormalizeFeature(raw),
		Targets: raw,
	}, nil
}
