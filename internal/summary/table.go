package summary

import (
	"fmt"

	"github.com/samber/lo"

	"olttstats/internal/errors"
)

// Trial is one cleaned row of a task file.
type Trial struct {
	Text    map[string]string
	Numeric map[string]float64
}

// TrialTable holds the trials of one task file together with the column
// names they were read under.
type TrialTable struct {
	Columns []string
	Trials  []Trial
}

// HasColumn reports whether name is one of the table's columns.
func (t *TrialTable) HasColumn(name string) bool {
	return lo.Contains(t.Columns, name)
}

// Len returns the number of trials.
func (t *TrialTable) Len() int {
	return len(t.Trials)
}

// Table is a summary table: one row per category, one column per
// metric/statistic pair. Values are indexed [row][column].
type Table struct {
	Index   []string
	Columns []string
	Values  [][]float64
}

// Value looks up a single cell by row and column label.
func (t *Table) Value(row, column string) (float64, bool) {
	r := lo.IndexOf(t.Index, row)
	c := lo.IndexOf(t.Columns, column)
	if r < 0 || c < 0 {
		return 0, false
	}
	return t.Values[r][c], true
}

// Column returns a copy of one column, in index order.
func (t *Table) Column(name string) ([]float64, bool) {
	c := lo.IndexOf(t.Columns, name)
	if c < 0 {
		return nil, false
	}
	return lo.Map(t.Values, func(row []float64, _ int) float64 { return row[c] }), true
}

// HStack joins tables side by side. Every table must share the same index in
// the same order; columns keep their order, table by table.
func HStack(tables ...*Table) (*Table, error) {
	if len(tables) == 0 {
		return &Table{}, nil
	}

	index := tables[0].Index
	out := &Table{
		Index:  append([]string(nil), index...),
		Values: make([][]float64, len(index)),
	}

	for i, t := range tables {
		if len(t.Index) != len(index) || !sameOrder(index, t.Index) {
			return nil, errors.NewInvalidArgumentError(
				fmt.Sprintf("table %d index %v does not match %v", i, t.Index, index))
		}
		out.Columns = append(out.Columns, t.Columns...)
		for r := range index {
			out.Values[r] = append(out.Values[r], t.Values[r]...)
		}
	}

	return out, nil
}

func sameOrder(a, b []string) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
