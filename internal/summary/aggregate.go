package summary

import (
	"fmt"

	"github.com/samber/lo"

	"olttstats/internal/errors"
)

// NamedValue is one reduced metric, named "<metric> <statistic>".
type NamedValue struct {
	Name  string
	Value float64
}

// Aggregate applies stat to every metric over the trials whose objectColumn
// label is in category. A trial without a value for a metric contributes
// nothing to that metric.
func Aggregate(trials *TrialTable, metrics []string, objectColumn string, category Category, stat Statistic) ([]NamedValue, error) {
	if err := checkColumns(trials, metrics, objectColumn); err != nil {
		return nil, err
	}

	matched := lo.Filter(trials.Trials, func(t Trial, _ int) bool {
		return category.Contains(t.Text[objectColumn])
	})

	out := make([]NamedValue, 0, len(metrics))
	for _, m := range metrics {
		values := lo.FilterMap(matched, func(t Trial, _ int) (float64, bool) {
			v, ok := t.Numeric[m]
			return v, ok
		})
		out = append(out, NamedValue{Name: stat.ColumnName(m), Value: stat.Apply(values)})
	}

	return out, nil
}

// AssembleStatistic runs Aggregate for every category in set and stacks the
// results as rows, in set order.
func AssembleStatistic(trials *TrialTable, metrics []string, objectColumn string, set CategorySet, stat Statistic) (*Table, error) {
	table := &Table{
		Index:   set.Names(),
		Columns: lo.Map(metrics, func(m string, _ int) string { return stat.ColumnName(m) }),
		Values:  make([][]float64, 0, set.Len()),
	}

	for _, c := range set.Categories() {
		values, err := Aggregate(trials, metrics, objectColumn, c, stat)
		if err != nil {
			return nil, fmt.Errorf("aggregate %s for %q: %w", stat, c.Name, err)
		}
		table.Values = append(table.Values, lo.Map(values, func(v NamedValue, _ int) float64 { return v.Value }))
	}

	return table, nil
}

// Compute builds the wide summary table of trials for a task: the sum, mean
// and median blocks side by side.
func Compute(trials *TrialTable, task TaskType, set CategorySet) (*Table, error) {
	layout, err := LayoutFor(task)
	if err != nil {
		return nil, err
	}

	blocks := make([]*Table, 0, len(Statistics))
	for _, stat := range Statistics {
		t, err := AssembleStatistic(trials, layout.Metrics, layout.ObjectColumn, set, stat)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, t)
	}

	return HStack(blocks...)
}

func checkColumns(trials *TrialTable, metrics []string, objectColumn string) error {
	if trials == nil {
		return errors.NewInvalidArgumentError("trial table is nil")
	}
	if !trials.HasColumn(objectColumn) {
		return errors.NewInvalidArgumentError(fmt.Sprintf("object column %q not in table", objectColumn))
	}
	if missing, _ := lo.Difference(metrics, trials.Columns); len(missing) > 0 {
		return errors.NewInvalidArgumentError(fmt.Sprintf("metric columns %q not in table", missing))
	}
	return nil
}
