package summary

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCategorySet(t *testing.T) {
	tests := []struct {
		name      string
		groups    []Category
		unionName string
		wantErr   bool
		wantNames []string
	}{
		{
			name: "three groups plus union",
			groups: []Category{
				NewCategory("target", []string{" a"}),
				NewCategory("repeated", []string{" b"}),
				NewCategory("foil", []string{" c"}),
			},
			unionName: "all",
			wantNames: []string{"target", "repeated", "foil", "all"},
		},
		{
			name:      "no groups",
			unionName: "all",
			wantErr:   true,
		},
		{
			name:      "empty union name",
			groups:    []Category{NewCategory("target", []string{" a"})},
			unionName: "",
			wantErr:   true,
		},
		{
			name: "overlapping labels",
			groups: []Category{
				NewCategory("target", []string{" a", " b"}),
				NewCategory("foil", []string{" b"}),
			},
			unionName: "all",
			wantErr:   true,
		},
		{
			name: "duplicate names",
			groups: []Category{
				NewCategory("target", []string{" a"}),
				NewCategory("target", []string{" b"}),
			},
			unionName: "all",
			wantErr:   true,
		},
		{
			name:      "group named like union",
			groups:    []Category{NewCategory("all", []string{" a"})},
			unionName: "all",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := NewCategorySet(tt.groups, tt.unionName)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantNames, set.Names())
			assert.Equal(t, len(tt.wantNames), set.Len())
		})
	}
}

func TestCategorySet_UnionContainsEveryLabel(t *testing.T) {
	set, err := NewCategorySet([]Category{
		NewCategory("target", []string{" a", " b"}),
		NewCategory("foil", []string{" c"}),
	}, "all")
	require.NoError(t, err)

	all := set.Categories()[2]
	for _, l := range []string{" a", " b", " c"} {
		assert.True(t, all.Contains(l), l)
	}
	assert.False(t, all.Contains("a"))
	assert.ElementsMatch(t, []string{" a", " b", " c"}, all.Labels)
}

func TestStatistic_Apply(t *testing.T) {
	tests := []struct {
		name   string
		stat   Statistic
		values []float64
		want   float64
		nan    bool
	}{
		{name: "sum", stat: Sum, values: []float64{1, 2, 3.5}, want: 6.5},
		{name: "sum empty", stat: Sum, values: nil, want: 0},
		{name: "mean", stat: Mean, values: []float64{1, 2, 6}, want: 3},
		{name: "mean empty", stat: Mean, values: nil, nan: true},
		{name: "median odd", stat: Median, values: []float64{9, 1, 5}, want: 5},
		{name: "median even", stat: Median, values: []float64{4, 1, 3, 10}, want: 3.5},
		{name: "median single", stat: Median, values: []float64{7}, want: 7},
		{name: "median empty", stat: Median, values: []float64{}, nan: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.stat.Apply(tt.values)
			if tt.nan {
				assert.True(t, math.IsNaN(got))
				return
			}
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestStatistic_MedianDoesNotReorderInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Median.Apply(values)
	assert.Equal(t, []float64{3, 1, 2}, values)
}

func TestParseStatistic(t *testing.T) {
	for _, s := range Statistics {
		got, err := ParseStatistic(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := ParseStatistic("mode")
	assert.Error(t, err)
}

func TestHStack(t *testing.T) {
	a := &Table{Index: []string{"x", "y"}, Columns: []string{"a sum"}, Values: [][]float64{{1}, {2}}}
	b := &Table{Index: []string{"x", "y"}, Columns: []string{"a mean", "b mean"}, Values: [][]float64{{3, 4}, {5, 6}}}

	got, err := HStack(a, b)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, got.Index)
	assert.Equal(t, []string{"a sum", "a mean", "b mean"}, got.Columns)
	assert.Equal(t, [][]float64{{1, 3, 4}, {2, 5, 6}}, got.Values)

	// inputs are left untouched
	assert.Equal(t, [][]float64{{1}, {2}}, a.Values)

	col, ok := got.Column("a mean")
	require.True(t, ok)
	assert.Equal(t, []float64{3, 5}, col)

	_, ok = got.Column("missing")
	assert.False(t, ok)
}

func TestHStack_IndexMismatch(t *testing.T) {
	a := &Table{Index: []string{"x", "y"}, Columns: []string{"a"}, Values: [][]float64{{1}, {2}}}
	b := &Table{Index: []string{"y", "x"}, Columns: []string{"b"}, Values: [][]float64{{1}, {2}}}
	c := &Table{Index: []string{"x"}, Columns: []string{"c"}, Values: [][]float64{{1}}}

	_, err := HStack(a, b)
	assert.Error(t, err)

	_, err = HStack(a, c)
	assert.Error(t, err)
}

func TestHStack_Empty(t *testing.T) {
	got, err := HStack()
	require.NoError(t, err)
	assert.Empty(t, got.Index)
}
