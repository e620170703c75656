package dataprocessing

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"olttstats/internal/errors"
	"olttstats/internal/summary"
)

// missingMarkers are field values read as missing, after trimming spaces.
var missingMarkers = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"n/a":  {},
	"#N/A": {},
	"#NA":  {},
	"<NA>": {},
	"NaN":  {},
	"nan":  {},
	"-NaN": {},
	"-nan": {},
	"None": {},
	"null": {},
	"NULL": {},
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseStats counts what happened to the data rows of one file.
type ParseStats struct {
	Rows    int // data rows read after the header
	Kept    int
	Dropped int // rows with a missing or malformed selected field
}

// Parser reads raw task exports into trial tables.
type Parser struct {
	skipRows int
	logger   *slog.Logger
}

// NewParser creates a parser that discards skipRows metadata lines before
// the header line.
func NewParser(skipRows int, logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{skipRows: skipRows, logger: logger}
}

// Parse reads a task export, keeping only the layout's columns. Rows with a
// missing or unparseable value in any kept column are dropped and counted. A
// kept column absent from the header is a parsing error.
func (p *Parser) Parse(r io.Reader, layout summary.TaskLayout) (*summary.TrialTable, ParseStats, error) {
	var stats ParseStats

	br := bufio.NewReader(r)
	if bom, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(bom, utf8BOM) {
		br.Discard(len(utf8BOM))
	}
	for i := 0; i < p.skipRows; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			if err == io.EOF {
				return nil, stats, errors.NewParsingError(
					fmt.Sprintf("file ends within the first %d lines", p.skipRows), nil)
			}
			return nil, stats, errors.NewParsingError("read preamble", err)
		}
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, stats, errors.NewParsingError("missing header line", nil)
	}
	if err != nil {
		return nil, stats, errors.NewParsingError("read header", err)
	}

	columnMap := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := columnMap[name]; !dup {
			columnMap[name] = i
		}
	}

	positions := make([]int, len(layout.Columns))
	for i, col := range layout.Columns {
		pos, ok := columnMap[col.Name]
		if !ok {
			return nil, stats, errors.NewParsingError(
				fmt.Sprintf("column %q not found in %s header", col.Name, layout.Task), nil).
				WithContext("header", header)
		}
		positions[i] = pos
	}

	table := &summary.TrialTable{Columns: layout.ColumnNames()}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, stats, errors.NewParsingError("read trial row", err)
		}
		line, _ := reader.FieldPos(0)
		stats.Rows++

		trial, reason := parseRow(record, positions, layout.Columns)
		if reason != "" {
			stats.Dropped++
			p.logger.Debug("dropping trial row",
				slog.String("task", string(layout.Task)),
				slog.Int("line", line+p.skipRows),
				slog.String("reason", reason))
			continue
		}
		table.Trials = append(table.Trials, trial)
	}
	stats.Kept = len(table.Trials)

	return table, stats, nil
}

// parseRow converts one record. A non-empty reason means the row is dropped.
func parseRow(record []string, positions []int, columns []summary.Column) (summary.Trial, string) {
	trial := summary.Trial{
		Text:    make(map[string]string),
		Numeric: make(map[string]float64),
	}

	for i, col := range columns {
		pos := positions[i]
		if pos >= len(record) {
			return trial, fmt.Sprintf("column %q missing from row", col.Name)
		}
		raw := record[pos]
		trimmed := strings.TrimSpace(raw)
		if _, missing := missingMarkers[trimmed]; missing {
			return trial, fmt.Sprintf("column %q is empty", col.Name)
		}

		switch col.Kind {
		case summary.KindText:
			trial.Text[col.Name] = raw
		case summary.KindInt:
			v, err := strconv.ParseFloat(trimmed, 64)
			if err != nil || !finite(v) || v != math.Trunc(v) {
				return trial, fmt.Sprintf("column %q: %q is not an integer", col.Name, raw)
			}
			trial.Numeric[col.Name] = v
		case summary.KindFloat:
			v, err := strconv.ParseFloat(trimmed, 64)
			if err != nil || !finite(v) {
				return trial, fmt.Sprintf("column %q: %q is not a number", col.Name, raw)
			}
			trial.Numeric[col.Name] = v
		}
	}

	return trial, ""
}

// finite rejects the NaN and infinity spellings strconv accepts.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
