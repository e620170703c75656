package exporter

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/xuri/excelize/v2"

	"olttstats/internal/errors"
	"olttstats/internal/summary"
)

// Sheet pairs a worksheet name with the table written to it.
type Sheet struct {
	Name  string
	Table *summary.Table
}

var headerBorder = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
}

// Package writes the sheets, in order, into one XLSX workbook and returns its
// bytes. Each sheet has the column names in row 1 starting at B1, the row
// labels in column A starting at A2, and the values below and to the right.
// A1 is empty and NaN values are left as blank cells.
func Package(sheets []Sheet) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, errors.NewInvalidArgumentError("workbook needs at least one sheet")
	}
	seen := make(map[string]bool, len(sheets))
	for _, s := range sheets {
		if s.Name == "" || s.Table == nil {
			return nil, errors.NewInvalidArgumentError("sheet needs a name and a table")
		}
		if seen[s.Name] {
			return nil, errors.NewInvalidArgumentError(fmt.Sprintf("duplicate sheet name %q", s.Name))
		}
		seen[s.Name] = true
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Border:    headerBorder,
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "top"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	defaultSheet := f.GetSheetName(0)
	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, s.Name); err != nil {
				return nil, fmt.Errorf("name sheet %q: %w", s.Name, err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return nil, fmt.Errorf("create sheet %q: %w", s.Name, err)
		}
		if err := writeTable(f, s.Name, s.Table, headerStyle); err != nil {
			return nil, fmt.Errorf("write sheet %q: %w", s.Name, err)
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeTable(f *excelize.File, sheet string, t *summary.Table, headerStyle int) error {
	for c, name := range t.Columns {
		cell, err := excelize.CoordinatesToCellName(c+2, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(sheet, cell, name); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	for r, label := range t.Index {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(sheet, cell, label); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return err
		}

		for c := range t.Columns {
			v := t.Values[r][c]
			if math.IsNaN(v) {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+2, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellFloat(sheet, cell, v, -1, 64); err != nil {
				return err
			}
		}
	}

	if len(t.Columns) > 0 {
		last, err := excelize.ColumnNumberToName(len(t.Columns) + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, "B", last, 16); err != nil {
			return err
		}
	}
	return nil
}

// Unpack reads a workbook written by Package back into sheets, in workbook
// order. Blank value cells become NaN.
func Unpack(data []byte) ([]Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.NewParsingError("open workbook", err)
	}
	defer f.Close()

	var sheets []Sheet
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, errors.NewParsingError(fmt.Sprintf("read sheet %q", name), err)
		}
		table, err := rowsToTable(rows)
		if err != nil {
			return nil, errors.NewParsingError(fmt.Sprintf("sheet %q", name), err)
		}
		sheets = append(sheets, Sheet{Name: name, Table: table})
	}
	return sheets, nil
}

func rowsToTable(rows [][]string) (*summary.Table, error) {
	t := &summary.Table{}
	if len(rows) == 0 {
		return t, nil
	}

	header := rows[0]
	if len(header) > 1 {
		t.Columns = append([]string(nil), header[1:]...)
	}

	for i, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		t.Index = append(t.Index, row[0])
		values := make([]float64, len(t.Columns))
		for c := range values {
			values[c] = math.NaN()
			if c+1 >= len(row) || row[c+1] == "" {
				continue
			}
			v, err := strconv.ParseFloat(row[c+1], 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", i+2, t.Columns[c], err)
			}
			values[c] = v
		}
		t.Values = append(t.Values, values)
	}
	return t, nil
}
