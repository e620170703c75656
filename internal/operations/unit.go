package operations

import (
	"fmt"
	"io"

	"olttstats/internal/dataprocessing"
	"olttstats/internal/exporter"
	"olttstats/internal/files"
	"olttstats/internal/summary"
)

// OpenFunc opens the raw export that plays role in a unit.
type OpenFunc func(role files.Role) (io.ReadCloser, error)

// UnitOutput is the computed workbook of one unit.
type UnitOutput struct {
	Sheets   []exporter.Sheet
	Workbook []byte
	Stats    map[files.Role]dataprocessing.ParseStats
}

// Dropped returns rows dropped per sheet name.
func (o *UnitOutput) Dropped() map[string]int {
	out := make(map[string]int, len(o.Stats))
	for _, us := range unitSheets {
		if s, ok := o.Stats[us.Role]; ok {
			out[us.Sheet] = s.Dropped
		}
	}
	return out
}

// Summarizer turns the three raw exports of a unit into a summary workbook.
type Summarizer struct {
	parser *dataprocessing.Parser
	set    summary.CategorySet
}

// NewSummarizer creates a summarizer grouping by set.
func NewSummarizer(parser *dataprocessing.Parser, set summary.CategorySet) *Summarizer {
	return &Summarizer{parser: parser, set: set}
}

// Summarize reads, aggregates and packages the free recall, cued recall and
// recognition exports returned by open.
func (s *Summarizer) Summarize(open OpenFunc) (*UnitOutput, error) {
	out := &UnitOutput{
		Sheets: make([]exporter.Sheet, 0, len(unitSheets)),
		Stats:  make(map[files.Role]dataprocessing.ParseStats, len(unitSheets)),
	}

	for _, us := range unitSheets {
		table, stats, err := s.summarizeOne(open, us)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", us.Role, err)
		}
		out.Stats[us.Role] = stats
		out.Sheets = append(out.Sheets, exporter.Sheet{Name: us.Sheet, Table: table})
	}

	data, err := exporter.Package(out.Sheets)
	if err != nil {
		return nil, err
	}
	out.Workbook = data
	return out, nil
}

func (s *Summarizer) summarizeOne(open OpenFunc, us unitSheet) (*summary.Table, dataprocessing.ParseStats, error) {
	layout, err := summary.LayoutFor(us.Task)
	if err != nil {
		return nil, dataprocessing.ParseStats{}, err
	}

	rc, err := open(us.Role)
	if err != nil {
		return nil, dataprocessing.ParseStats{}, err
	}
	defer rc.Close()

	trials, stats, err := s.parser.Parse(rc, layout)
	if err != nil {
		return nil, stats, err
	}

	table, err := summary.Compute(trials, us.Task, s.set)
	if err != nil {
		return nil, stats, err
	}
	return table, stats, nil
}
