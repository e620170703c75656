package summary

import (
	"fmt"

	"github.com/samber/lo"

	"olttstats/internal/errors"
)

// TaskType tags the column layout a trial file uses.
type TaskType string

const (
	TaskRecall      TaskType = "recall"
	TaskRecognition TaskType = "recogn"
)

// ColumnKind is the type a raw CSV field is parsed into.
type ColumnKind int

const (
	KindText ColumnKind = iota
	KindInt
	KindFloat
)

// Column is one selected column of a task file.
type Column struct {
	Name string
	Kind ColumnKind
}

// TaskLayout describes which columns a task file contributes, which of them
// holds the object label, and which are summarized.
type TaskLayout struct {
	Task         TaskType
	Columns      []Column
	ObjectColumn string
	Metrics      []string
}

// Header names carry the leading space the task exports write after commas.
var (
	RecallLayout = TaskLayout{
		Task: TaskRecall,
		Columns: []Column{
			{Name: "trial num", Kind: KindInt},
			{Name: " object", Kind: KindText},
			{Name: " env", Kind: KindText},
			{Name: " target X", Kind: KindInt},
			{Name: " target Y", Kind: KindInt},
			{Name: " response X", Kind: KindInt},
			{Name: " response Y", Kind: KindInt},
			{Name: " deltatime", Kind: KindInt},
			{Name: " error in px", Kind: KindFloat},
			{Name: " error in cm", Kind: KindFloat},
		},
		ObjectColumn: " object",
		Metrics:      []string{" deltatime", " error in px", " error in cm"},
	}

	RecognitionLayout = TaskLayout{
		Task: TaskRecognition,
		Columns: []Column{
			{Name: "trial num", Kind: KindInt},
			{Name: " env", Kind: KindText},
			{Name: " obj", Kind: KindText},
			{Name: " location", Kind: KindText},
			{Name: " location chosen", Kind: KindText},
			{Name: " time", Kind: KindInt},
		},
		ObjectColumn: " obj",
		Metrics:      []string{" time"},
	}
)

// LayoutFor dispatches a task tag to its layout.
func LayoutFor(task TaskType) (TaskLayout, error) {
	switch task {
	case TaskRecall:
		return RecallLayout, nil
	case TaskRecognition:
		return RecognitionLayout, nil
	default:
		return TaskLayout{}, errors.NewInvalidArgumentError(
			fmt.Sprintf("task type %q must be either %q or %q", task, TaskRecall, TaskRecognition))
	}
}

// ColumnNames returns the selected column names in file order.
func (l TaskLayout) ColumnNames() []string {
	return lo.Map(l.Columns, func(c Column, _ int) string { return c.Name })
}
