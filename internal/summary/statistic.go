package summary

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"olttstats/internal/errors"
)

// Statistic selects the reduction applied to a metric column.
type Statistic int

const (
	Sum Statistic = iota
	Mean
	Median
)

// Statistics lists every statistic in wide-table block order.
var Statistics = []Statistic{Sum, Mean, Median}

func (s Statistic) String() string {
	switch s {
	case Sum:
		return "sum"
	case Mean:
		return "mean"
	case Median:
		return "median"
	default:
		return fmt.Sprintf("statistic(%d)", int(s))
	}
}

// ParseStatistic maps a statistic name back to its value.
func ParseStatistic(name string) (Statistic, error) {
	for _, s := range Statistics {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, errors.NewInvalidArgumentError(fmt.Sprintf("unknown statistic %q", name))
}

// Apply reduces values. Sum of nothing is 0; mean and median of nothing are NaN.
func (s Statistic) Apply(values []float64) float64 {
	switch s {
	case Sum:
		return floats.Sum(values)
	case Mean:
		if len(values) == 0 {
			return math.NaN()
		}
		return stat.Mean(values, nil)
	case Median:
		return median(values)
	default:
		return math.NaN()
	}
}

// ColumnName is the output column for metric under this statistic.
func (s Statistic) ColumnName(metric string) string {
	return metric + " " + s.String()
}

// median averages the two middle values for even lengths.
func median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return math.NaN()
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}
