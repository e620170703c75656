package dataprocessing

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"olttstats/internal/errors"
	"olttstats/internal/summary"
)

const preamble = "participant,101\nsession,1\nversion,11a\ndate,2021-03-04\n"

const recallCSV = preamble +
	"trial num, object, env, target X, target Y, response X, response Y, deltatime, error in px, error in cm, extra\n" +
	"1, dustpan, kitchen,100,200,110,190,1500,14.14,0.37,x\n" +
	"2, pillow, bedroom,300,400,300,400,900,0,0,x\n" +
	"3, boot, garage,10,20,,25,700,5.0,0.13,x\n" +
	"\n" +
	"4, wig, bath,1,2,3,4,1200,2.83,0.07,x\n"

func newTestParser() *Parser {
	return NewParser(4, slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func TestParse_Recall(t *testing.T) {
	table, stats, err := newTestParser().Parse(strings.NewReader(recallCSV), summary.RecallLayout)
	require.NoError(t, err)

	assert.Equal(t, summary.RecallLayout.ColumnNames(), table.Columns)
	assert.Equal(t, ParseStats{Rows: 4, Kept: 3, Dropped: 1}, stats)
	require.Equal(t, 3, table.Len())

	first := table.Trials[0]
	// text values keep their leading space
	assert.Equal(t, " dustpan", first.Text[" object"])
	assert.Equal(t, " kitchen", first.Text[" env"])
	assert.Equal(t, 1500.0, first.Numeric[" deltatime"])
	assert.InDelta(t, 14.14, first.Numeric[" error in px"], 1e-9)
	assert.Equal(t, 1.0, first.Numeric["trial num"])
	assert.NotContains(t, first.Text, " extra")

	assert.Equal(t, " wig", table.Trials[2].Text[" object"])
}

func TestParse_Recognition(t *testing.T) {
	csv := preamble +
		"trial num, env, obj, location, location chosen, time\r\n" +
		"1, kitchen, dustpan, left, left,800\r\n" +
		"2, kitchen, boot, right, NA,650\r\n"

	table, stats, err := newTestParser().Parse(strings.NewReader(csv), summary.RecognitionLayout)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Dropped)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, " dustpan", table.Trials[0].Text[" obj"])
	assert.Equal(t, 800.0, table.Trials[0].Numeric[" time"])
}

func TestParse_ByteOrderMark(t *testing.T) {
	csv := "\xEF\xBB\xBF" + preamble +
		"trial num, env, obj, location, location chosen, time\n" +
		"1, kitchen, dustpan, left, left,800\n"

	table, _, err := newTestParser().Parse(strings.NewReader(csv), summary.RecognitionLayout)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "preamble too short",
			input: "a\nb\n",
		},
		{
			name:  "no header",
			input: preamble,
		},
		{
			name: "header without leading spaces",
			input: preamble +
				"trial num,env,obj,location,location chosen,time\n" +
				"1,kitchen,dustpan,left,left,800\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := newTestParser().Parse(strings.NewReader(tt.input), summary.RecognitionLayout)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrTypeParsing))
		})
	}
}

func TestParse_MalformedRowsAreDropped(t *testing.T) {
	csv := preamble +
		"trial num, env, obj, location, location chosen, time\n" +
		"1, kitchen, dustpan\n" +
		"2, kitchen, boot, right, right,650\n" +
		"3, kitchen, dvd, left, left,fast\n" +
		"4, kitchen, gift, left, left,80.5\n" +
		"5, kitchen, wig, left, left,Inf\n" +
		"6, kitchen, lamp, left, left,-inf\n"

	table, stats, err := newTestParser().Parse(strings.NewReader(csv), summary.RecognitionLayout)
	require.NoError(t, err)
	assert.Equal(t, ParseStats{Rows: 6, Kept: 1, Dropped: 5}, stats)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, " boot", table.Trials[0].Text[" obj"])
}

func TestParse_NonFiniteNumbersAreDropped(t *testing.T) {
	tests := []struct {
		name      string
		deltatime string
		errorPx   string
	}{
		{"upper case nan", "20", "NAN"},
		{"mixed case nan", "20", "Nan"},
		{"negative nan", "20", "-NaN"},
		{"lower case n/a", "20", "n/a"},
		{"pandas NA", "20", "<NA>"},
		{"none", "20", "None"},
		{"infinite float", "20", "Infinity"},
		{"infinite integer", "Inf", "3.0"},
		{"negative infinite integer", "-Inf", "3.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			csv := preamble +
				"trial num, object, env, target X, target Y, response X, response Y, deltatime, error in px, error in cm\n" +
				"1, dustpan, kitchen,1,1,1,1,10, 2.0, 1.0\n" +
				"2, dustpan, kitchen,1,1,1,1," + tt.deltatime + ", " + tt.errorPx + ", 3.0\n"

			table, stats, err := newTestParser().Parse(strings.NewReader(csv), summary.RecallLayout)
			require.NoError(t, err)
			assert.Equal(t, ParseStats{Rows: 2, Kept: 1, Dropped: 1}, stats)

			set, err := summary.NewCategorySet([]summary.Category{
				summary.NewCategory("target", []string{" dustpan"}),
			}, "all")
			require.NoError(t, err)

			got, err := summary.Compute(table, summary.TaskRecall, set)
			require.NoError(t, err)

			px, ok := got.Value("target", " error in px sum")
			require.True(t, ok)
			assert.Equal(t, 2.0, px)
			dt, ok := got.Value("all", " deltatime sum")
			require.True(t, ok)
			assert.Equal(t, 10.0, dt)
		})
	}
}

func TestParse_FeedsAggregator(t *testing.T) {
	table, _, err := newTestParser().Parse(strings.NewReader(recallCSV), summary.RecallLayout)
	require.NoError(t, err)

	set, err := summary.NewCategorySet([]summary.Category{
		summary.NewCategory("target", []string{" dustpan", " wig"}),
		summary.NewCategory("repeated", []string{" pillow"}),
	}, "all")
	require.NoError(t, err)

	got, err := summary.Compute(table, summary.TaskRecall, set)
	require.NoError(t, err)

	col, ok := got.Column(" deltatime sum")
	require.True(t, ok)
	assert.Equal(t, []float64{2700, 900, 3600}, col)
}
