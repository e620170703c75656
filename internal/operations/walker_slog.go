package operations

import (
	"context"
	"log/slog"
	"time"

	"olttstats/internal/files"
)

// logWalkStart logs the start of a walk
func (w *Walker) logWalkStart(ctx context.Context, root files.Item) {
	w.logger.InfoContext(ctx, "walk_start",
		slog.String("root_id", root.ID),
		slog.String("root_name", root.Name),
		slog.Bool("overwrite", w.opts.Overwrite),
		slog.Bool("dry_run", w.opts.DryRun))
}

// logWalkComplete logs the end of a walk
func (w *Walker) logWalkComplete(ctx context.Context, report *Report) {
	attrs := []any{
		slog.String("status", report.Status),
		slog.Int("folders", report.FoldersVisited),
		slog.Duration("duration", report.Duration()),
	}
	for status, n := range report.Counts() {
		attrs = append(attrs, slog.Int(string(status), n))
	}
	w.logger.InfoContext(ctx, "walk_complete", attrs...)
}

// logUnitStart logs the folder name and id of a complete unit
func (w *Walker) logUnitStart(ctx context.Context, folder files.Item, path string) {
	w.logger.InfoContext(ctx, "unit_start",
		slog.String("folder", folder.Name),
		slog.String("folder_id", folder.ID),
		slog.String("path", path))
}

// logUnitComplete logs a unit outcome
func (w *Walker) logUnitComplete(ctx context.Context, result UnitResult, duration time.Duration) {
	w.logger.InfoContext(ctx, "unit_complete",
		slog.String("folder", result.FolderName),
		slog.String("folder_id", result.FolderID),
		slog.String("status", string(result.Status)),
		slog.String("output", result.OutputName),
		slog.String("output_id", result.OutputID),
		slog.Any("rows_dropped", result.Dropped),
		slog.Duration("duration", duration))
}

// logUnitError logs a unit failure
func (w *Walker) logUnitError(ctx context.Context, folder files.Item, path string, err error) {
	errorMsg := "unknown error"
	if err != nil {
		errorMsg = err.Error()
	}
	w.logger.ErrorContext(ctx, "unit_error",
		slog.String("folder", folder.Name),
		slog.String("folder_id", folder.ID),
		slog.String("path", path),
		slog.String("error", errorMsg))
}
