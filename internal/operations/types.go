package operations

import (
	"time"

	"olttstats/internal/files"
	"olttstats/internal/summary"
)

// UnitStatus is the outcome of one participant folder.
type UnitStatus string

const (
	// StatusWritten: a new summary workbook was created.
	StatusWritten UnitStatus = "written"
	// StatusUpdated: an existing summary workbook was replaced.
	StatusUpdated UnitStatus = "updated"
	// StatusExists: a summary workbook exists and overwrite is off.
	StatusExists UnitStatus = "exists"
	// StatusIncomplete: some but not all raw exports are present.
	StatusIncomplete UnitStatus = "incomplete"
	// StatusDryRun: the workbook was built but not uploaded.
	StatusDryRun UnitStatus = "dry_run"
)

// Statuses lists every unit status in report order.
var Statuses = []UnitStatus{StatusWritten, StatusUpdated, StatusExists, StatusIncomplete, StatusDryRun}

// Sheet names of the summary workbook, in workbook order.
const (
	SheetFreeRecall  = "freercl"
	SheetCuedRecall  = "cuedrcl"
	SheetRecognition = "recognt"
)

// unitSheet ties a raw export to its task layout and output sheet.
type unitSheet struct {
	Role  files.Role
	Task  summary.TaskType
	Sheet string
}

var unitSheets = []unitSheet{
	{Role: files.RoleFreeRecall, Task: summary.TaskRecall, Sheet: SheetFreeRecall},
	{Role: files.RoleCuedRecall, Task: summary.TaskRecall, Sheet: SheetCuedRecall},
	{Role: files.RoleRecognition, Task: summary.TaskRecognition, Sheet: SheetRecognition},
}

// UnitResult describes what happened to one participant folder.
type UnitResult struct {
	FolderID   string         `json:"folder_id"`
	FolderName string         `json:"folder_name"`
	Path       string         `json:"path"`
	Status     UnitStatus     `json:"status"`
	Missing    []string       `json:"missing,omitempty"`
	OutputID   string         `json:"output_id,omitempty"`
	OutputName string         `json:"output_name,omitempty"`
	Bytes      int            `json:"bytes,omitempty"`
	Dropped    map[string]int `json:"rows_dropped,omitempty"`
	Duration   time.Duration  `json:"duration"`
}

// WalkOptions control what the walker does with a complete unit.
type WalkOptions struct {
	Overwrite bool
	DryRun    bool
}
