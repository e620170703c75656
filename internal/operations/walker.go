package operations

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"time"

	"github.com/samber/lo"

	"olttstats/internal/files"
	"olttstats/internal/infrastructure"
)

// Walker walks a folder tree depth-first and writes a summary workbook into
// every folder holding the three raw exports.
type Walker struct {
	store      files.Store
	matcher    *files.Matcher
	summarizer *Summarizer
	tracer     *WalkTracer
	opts       WalkOptions
	logger     *slog.Logger
}

// NewWalker creates a walker. A nil tracer disables spans and metrics; a nil
// logger uses the global one.
func NewWalker(store files.Store, matcher *files.Matcher, summarizer *Summarizer, tracer *WalkTracer, opts WalkOptions, logger *slog.Logger) *Walker {
	if tracer == nil {
		tracer = NewWalkTracer(nil, nil)
	}
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &Walker{
		store:      store,
		matcher:    matcher,
		summarizer: summarizer,
		tracer:     tracer,
		opts:       opts,
		logger:     infrastructure.WithComponent(logger, "walker"),
	}
}

// Run walks the tree under rootID. The returned report is never nil; it holds
// every unit finished before a failure.
func (w *Walker) Run(ctx context.Context, rootID string) (*Report, error) {
	report := NewReport(infrastructure.GetRunID(ctx), w.opts)
	report.RootID = rootID

	root, err := w.store.Folder(ctx, rootID)
	if err != nil {
		err = fmt.Errorf("open root folder: %w", err)
		report.Finish(err)
		return report, err
	}
	report.RootName = root.Name

	w.logWalkStart(ctx, root)
	err = w.walk(ctx, root, root.Name, report)
	report.Finish(err)
	w.logWalkComplete(ctx, report)
	return report, err
}

// folderContents is what one listing yields for unit detection.
type folderContents struct {
	raw     map[files.Role]files.Item
	summary *files.Item
}

func (w *Walker) walk(ctx context.Context, folder files.Item, folderPath string, report *Report) (err error) {
	ctx, span := w.tracer.TraceFolder(ctx, folder, folderPath)
	defer func() {
		if err != nil {
			infrastructure.RecordError(ctx, err)
		}
		span.End()
	}()

	if err := ctx.Err(); err != nil {
		return err
	}

	items, err := w.store.ListChildren(ctx, folder.ID)
	if err != nil {
		return fmt.Errorf("list %s: %w", folderPath, err)
	}
	report.FoldersVisited++

	for _, sub := range lo.Filter(items, func(i files.Item, _ int) bool { return i.IsFolder() }) {
		if err := w.walk(ctx, sub, path.Join(folderPath, sub.Name), report); err != nil {
			return err
		}
	}

	contents := w.classify(ctx, folder, lo.Reject(items, func(i files.Item, _ int) bool { return i.IsFolder() }))
	if len(contents.raw) == 0 {
		return nil
	}

	if len(contents.raw) < len(files.RawRoles) {
		missing := lo.FilterMap(files.RawRoles, func(r files.Role, _ int) (string, bool) {
			_, ok := contents.raw[r]
			return r.String(), !ok
		})
		w.logger.WarnContext(ctx, "unit_incomplete",
			slog.String("folder", folder.Name),
			slog.String("folder_id", folder.ID),
			slog.String("path", folderPath),
			slog.Any("missing", missing))
		result := UnitResult{
			FolderID:   folder.ID,
			FolderName: folder.Name,
			Path:       folderPath,
			Status:     StatusIncomplete,
			Missing:    missing,
		}
		w.tracer.metrics.RecordUnit(ctx, string(StatusIncomplete), 0)
		report.Add(result)
		return nil
	}

	result, err := w.processUnit(ctx, folder, folderPath, contents)
	if err != nil {
		return err
	}
	report.Add(result)
	return nil
}

// classify picks the raw exports and any existing summary out of a listing.
// When several files match one role the last listed wins.
func (w *Walker) classify(ctx context.Context, folder files.Item, items []files.Item) folderContents {
	contents := folderContents{raw: make(map[files.Role]files.Item, len(files.RawRoles))}
	outputName := w.matcher.OutputName(folder.Name)

	for _, item := range items {
		role := w.matcher.Classify(item.Name)
		if item.Name == outputName {
			role = files.RoleSummary
		}

		switch role {
		case files.RoleOther:
			continue
		case files.RoleSummary:
			if contents.summary != nil {
				w.logger.DebugContext(ctx, "duplicate_match",
					slog.String("folder_id", folder.ID),
					slog.String("role", role.String()),
					slog.String("replaced", contents.summary.Name),
					slog.String("file", item.Name))
			}
			contents.summary = &item
		default:
			if prev, ok := contents.raw[role]; ok {
				w.logger.DebugContext(ctx, "duplicate_match",
					slog.String("folder_id", folder.ID),
					slog.String("role", role.String()),
					slog.String("replaced", prev.Name),
					slog.String("file", item.Name))
			}
			contents.raw[role] = item
		}
	}
	return contents
}

func (w *Walker) processUnit(ctx context.Context, folder files.Item, folderPath string, contents folderContents) (result UnitResult, err error) {
	start := time.Now()
	ctx, span := w.tracer.TraceUnit(ctx, folder, folderPath)
	defer func() {
		result.Duration = since(start)
		w.tracer.RecordUnitCompletion(ctx, span, result, err)
		span.End()
	}()

	result = UnitResult{
		FolderID:   folder.ID,
		FolderName: folder.Name,
		Path:       folderPath,
		OutputName: w.matcher.OutputName(folder.Name),
	}

	if contents.summary != nil && !w.opts.Overwrite {
		result.Status = StatusExists
		result.OutputID = contents.summary.ID
		result.OutputName = contents.summary.Name
		w.logger.InfoContext(ctx, "summary_exists",
			slog.String("folder", folder.Name),
			slog.String("file", contents.summary.Name),
			slog.String("file_id", contents.summary.ID))
		return result, nil
	}

	w.logUnitStart(ctx, folder, folderPath)

	output, err := w.summarizer.Summarize(func(role files.Role) (io.ReadCloser, error) {
		rc, err := w.store.ReadFile(ctx, contents.raw[role].ID)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", contents.raw[role].Name, err)
		}
		return rc, nil
	})
	if err != nil {
		w.logUnitError(ctx, folder, folderPath, err)
		return result, fmt.Errorf("process %s: %w", folderPath, err)
	}
	for role, stats := range output.Stats {
		w.tracer.RecordParse(ctx, role, stats)
	}
	result.Dropped = output.Dropped()
	result.Bytes = len(output.Workbook)

	item, status, err := w.upload(ctx, folder, contents.summary, result.OutputName, output.Workbook)
	if err != nil {
		w.logUnitError(ctx, folder, folderPath, err)
		return result, fmt.Errorf("upload %s: %w", folderPath, err)
	}
	result.Status = status
	result.OutputID = item.ID
	if item.Name != "" {
		result.OutputName = item.Name
	}

	w.logUnitComplete(ctx, result, time.Since(start))
	return result, nil
}

// upload creates the summary workbook or replaces the existing one.
func (w *Walker) upload(ctx context.Context, folder files.Item, existing *files.Item, name string, workbook []byte) (files.Item, UnitStatus, error) {
	if w.opts.DryRun {
		w.logger.InfoContext(ctx, "dry_run_skip_upload",
			slog.String("folder", folder.Name),
			slog.String("file", name),
			slog.Int("bytes", len(workbook)))
		return files.Item{}, StatusDryRun, nil
	}

	if existing != nil {
		w.logger.InfoContext(ctx, "overwriting_file",
			slog.String("file", existing.Name),
			slog.String("file_id", existing.ID))
		item, err := w.store.UpdateFile(ctx, existing.ID, bytes.NewReader(workbook))
		if err != nil {
			return files.Item{}, "", err
		}
		w.tracer.RecordUpload(ctx, len(workbook))
		return item, StatusUpdated, nil
	}

	w.logger.InfoContext(ctx, "uploading_file",
		slog.String("folder_id", folder.ID),
		slog.String("file", name))
	item, err := w.store.CreateFile(ctx, folder.ID, name, bytes.NewReader(workbook))
	if err != nil {
		return files.Item{}, "", err
	}
	w.tracer.RecordUpload(ctx, len(workbook))
	return item, StatusWritten, nil
}
