package exporter

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"olttstats/internal/errors"
	"olttstats/internal/summary"
)

func sampleTable() *summary.Table {
	return &summary.Table{
		Index:   []string{"target", "repeated", "foil", "all"},
		Columns: []string{" time sum", " time mean", " time median"},
		Values: [][]float64{
			{2700, 1350, 1350},
			{0, math.NaN(), math.NaN()},
			{650.5, 650.5, 650.5},
			{3350.5, 1116.8333333333333, 1200},
		},
	}
}

func TestPackage_Layout(t *testing.T) {
	data, err := Package([]Sheet{
		{Name: "freercl", Table: sampleTable()},
		{Name: "cuedrcl", Table: sampleTable()},
		{Name: "recognt", Table: sampleTable()},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"freercl", "cuedrcl", "recognt"}, f.GetSheetList())

	a1, err := f.GetCellValue("freercl", "A1")
	require.NoError(t, err)
	assert.Empty(t, a1)

	b1, err := f.GetCellValue("freercl", "B1")
	require.NoError(t, err)
	assert.Equal(t, " time sum", b1)

	a5, err := f.GetCellValue("recognt", "A5")
	require.NoError(t, err)
	assert.Equal(t, "all", a5)

	b2, err := f.GetCellValue("cuedrcl", "B2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "2700", b2)

	// NaN is written as a blank cell
	c3, err := f.GetCellValue("freercl", "C3")
	require.NoError(t, err)
	assert.Empty(t, c3)
}

func TestPackage_RoundTrip(t *testing.T) {
	want := sampleTable()
	data, err := Package([]Sheet{{Name: "recognt", Table: want}})
	require.NoError(t, err)

	sheets, err := Unpack(data)
	require.NoError(t, err)
	require.Len(t, sheets, 1)
	assert.Equal(t, "recognt", sheets[0].Name)

	got := sheets[0].Table
	assert.Equal(t, want.Index, got.Index)
	assert.Equal(t, want.Columns, got.Columns)
	require.Len(t, got.Values, len(want.Values))
	for r := range want.Values {
		for c := range want.Values[r] {
			w, g := want.Values[r][c], got.Values[r][c]
			if math.IsNaN(w) {
				assert.True(t, math.IsNaN(g), "row %d col %d", r, c)
				continue
			}
			assert.InDelta(t, w, g, 1e-9, "row %d col %d", r, c)
		}
	}
}

func TestPackage_InvalidSheets(t *testing.T) {
	tests := []struct {
		name   string
		sheets []Sheet
	}{
		{name: "no sheets"},
		{name: "missing table", sheets: []Sheet{{Name: "freercl"}}},
		{name: "missing name", sheets: []Sheet{{Table: sampleTable()}}},
		{
			name: "duplicate names",
			sheets: []Sheet{
				{Name: "freercl", Table: sampleTable()},
				{Name: "freercl", Table: sampleTable()},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Package(tt.sheets)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrTypeInvalidArgument))
		})
	}
}

func TestUnpack_NotAWorkbook(t *testing.T) {
	_, err := Unpack([]byte("trial num, obj\n"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeParsing))
}
