package operations

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/samber/lo"
)

// Report tracks the outcome of one walk over a folder tree
type Report struct {
	// Identity
	RunID    string `json:"run_id"`
	RootID   string `json:"root_id"`
	RootName string `json:"root_name"`

	// Options
	Overwrite bool `json:"overwrite"`
	DryRun    bool `json:"dry_run"`

	// Execution tracking
	StartTime      time.Time    `json:"start_time"`
	EndTime        time.Time    `json:"end_time"`
	FoldersVisited int          `json:"folders_visited"`
	Units          []UnitResult `json:"units"`

	// Current status
	Status string `json:"status"` // "running", "completed", "failed"
	Error  string `json:"error,omitempty"`
}

// NewReport creates a running report
func NewReport(runID string, opts WalkOptions) *Report {
	return &Report{
		RunID:     runID,
		Overwrite: opts.Overwrite,
		DryRun:    opts.DryRun,
		StartTime: time.Now(),
		Units:     []UnitResult{},
		Status:    "running",
	}
}

// Add appends a unit result
func (r *Report) Add(result UnitResult) {
	r.Units = append(r.Units, result)
}

// Finish closes the report, failed when err is non-nil
func (r *Report) Finish(err error) {
	r.EndTime = time.Now()
	if err != nil {
		r.Status = "failed"
		r.Error = err.Error()
		return
	}
	r.Status = "completed"
}

// Duration returns the wall time of the walk
func (r *Report) Duration() time.Duration {
	if r.EndTime.IsZero() {
		return time.Since(r.StartTime)
	}
	return r.EndTime.Sub(r.StartTime)
}

// Count returns the number of units with status
func (r *Report) Count(status UnitStatus) int {
	return lo.CountBy(r.Units, func(u UnitResult) bool { return u.Status == status })
}

// Counts returns the number of units per status, every status included
func (r *Report) Counts() map[UnitStatus]int {
	counts := lo.SliceToMap(Statuses, func(s UnitStatus) (UnitStatus, int) { return s, 0 })
	for _, u := range r.Units {
		counts[u.Status]++
	}
	return counts
}

// Incomplete returns the units that were missing raw exports
func (r *Report) Incomplete() []UnitResult {
	return lo.Filter(r.Units, func(u UnitResult, _ int) bool { return u.Status == StatusIncomplete })
}

// WriteText prints the per-status counts and the incomplete units
func (r *Report) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "run\t%s\n", r.RunID)
	fmt.Fprintf(tw, "root\t%s (%s)\n", r.RootName, r.RootID)
	fmt.Fprintf(tw, "status\t%s\n", r.Status)
	fmt.Fprintf(tw, "folders\t%d\n", r.FoldersVisited)
	fmt.Fprintf(tw, "duration\t%s\n", r.Duration().Round(time.Millisecond))
	counts := r.Counts()
	for _, s := range Statuses {
		fmt.Fprintf(tw, "%s\t%d\n", s, counts[s])
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	incomplete := r.Incomplete()
	if len(incomplete) == 0 {
		return nil
	}
	fmt.Fprintln(w, "\nincomplete units:")
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, u := range incomplete {
		fmt.Fprintf(tw, "  %s\t%s\tmissing: %v\n", u.Path, u.FolderID, u.Missing)
	}
	return tw.Flush()
}

// SaveToFile writes the report as indented JSON
func (r *Report) SaveToFile(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}

// LoadReportFromFile reads a report written by SaveToFile
func LoadReportFromFile(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}

	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}

	return &report, nil
}
