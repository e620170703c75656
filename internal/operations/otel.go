package operations

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"olttstats/internal/dataprocessing"
	"olttstats/internal/files"
	"olttstats/internal/infrastructure"
)

const (
	TracerName = "olttstats.walk"
)

// WalkTracer provides OpenTelemetry instrumentation for the folder walk
type WalkTracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
}

// NewWalkTracer creates a walk tracer. A nil tracer falls back to the global
// provider; nil metrics disables recording.
func NewWalkTracer(tracer trace.Tracer, metrics *infrastructure.PipelineMetrics) *WalkTracer {
	if tracer == nil {
		tracer = otel.Tracer(TracerName)
	}
	return &WalkTracer{tracer: tracer, metrics: metrics}
}

// TraceFolder creates a span for listing one folder
func (wt *WalkTracer) TraceFolder(ctx context.Context, folder files.Item, path string) (context.Context, trace.Span) {
	ctx, span := wt.tracer.Start(ctx, "walk.folder",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("folder.id", folder.ID),
			attribute.String("folder.name", folder.Name),
			attribute.String("folder.path", path),
		),
	)
	if wt.metrics != nil {
		wt.metrics.FoldersTraversed.Add(ctx, 1)
	}
	return ctx, span
}

// TraceUnit creates a span for processing one participant folder
func (wt *WalkTracer) TraceUnit(ctx context.Context, folder files.Item, path string) (context.Context, trace.Span) {
	return wt.tracer.Start(ctx, "unit.process",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("folder.id", folder.ID),
			attribute.String("folder.name", folder.Name),
			attribute.String("folder.path", path),
		),
	)
}

// RecordParse records one parsed raw export
func (wt *WalkTracer) RecordParse(ctx context.Context, role files.Role, stats dataprocessing.ParseStats) {
	trace.SpanFromContext(ctx).AddEvent("file.parsed", trace.WithAttributes(
		attribute.String("role", role.String()),
		attribute.Int("rows", stats.Rows),
		attribute.Int("rows_dropped", stats.Dropped),
	))
	if wt.metrics == nil {
		return
	}
	wt.metrics.FilesRead.Add(ctx, 1, metric.WithAttributes(attribute.String("role", role.String())))
	if stats.Dropped > 0 {
		wt.metrics.RowsDropped.Add(ctx, int64(stats.Dropped),
			metric.WithAttributes(attribute.String("role", role.String())))
	}
}

// RecordUpload records a workbook written to the store
func (wt *WalkTracer) RecordUpload(ctx context.Context, bytes int) {
	if wt.metrics == nil {
		return
	}
	wt.metrics.WorkbooksWritten.Add(ctx, 1)
	wt.metrics.BytesUploaded.Add(ctx, int64(bytes))
}

// RecordUnitCompletion sets the span outcome and records unit metrics
func (wt *WalkTracer) RecordUnitCompletion(ctx context.Context, span trace.Span, result UnitResult, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		wt.metrics.RecordUnit(ctx, "failed", result.Duration)
		return
	}

	span.SetAttributes(
		attribute.String("unit.status", string(result.Status)),
		attribute.Float64("unit.duration_seconds", result.Duration.Seconds()),
	)
	if result.OutputID != "" {
		span.SetAttributes(attribute.String("unit.output_id", result.OutputID))
	}
	span.SetStatus(codes.Ok, "")
	wt.metrics.RecordUnit(ctx, string(result.Status), result.Duration)
}

// since is time.Since rounded for reports
func since(start time.Time) time.Duration {
	return time.Since(start).Round(time.Millisecond)
}
