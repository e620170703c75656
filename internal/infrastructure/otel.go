package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"

	"olttstats/internal/config"
)

const (
	ServiceName = "oltt-grouped-summary"
	MeterName   = "olttstats"
)

// OTelProviders holds the OpenTelemetry providers
type OTelProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	// Registry gathers the Prometheus view of the meter provider. Nil when
	// metrics are disabled.
	Registry *prometheus.Registry
	Logger   *slog.Logger
}

// InitializeOTel sets up tracing and metrics for one run. Disabled exporters
// leave no-op tracer and meter in place, so callers never nil-check.
func InitializeOTel(cfg config.TelemetryConfig, logger *slog.Logger) (*OTelProviders, error) {
	return initializeOTel(cfg, logger, os.Stderr)
}

func initializeOTel(cfg config.TelemetryConfig, logger *slog.Logger, traceOut io.Writer) (*OTelProviders, error) {
	ctx := context.Background()

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(config.AppVersion),
		semconv.DeploymentEnvironmentName(cfg.Environment),
		attribute.String("service.instance.id", generateInstanceID()),
	)

	providers := &OTelProviders{
		Tracer: otel.Tracer(MeterName),
		Meter:  otel.Meter(MeterName),
		Logger: logger,
	}

	if err := initializeTracing(cfg, res, providers, traceOut); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if err := initializeMetrics(cfg, res, providers); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	logger.DebugContext(ctx, "OpenTelemetry initialized",
		slog.String("trace_exporter", cfg.TraceExporter),
		slog.String("metric_exporter", cfg.MetricExporter),
		slog.Float64("sample_ratio", cfg.SampleRatio))

	return providers, nil
}

func initializeTracing(cfg config.TelemetryConfig, res *resource.Resource, providers *OTelProviders, out io.Writer) error {
	switch cfg.TraceExporter {
	case "stdout":
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(out), stdouttrace.WithPrettyPrint())
		if err != nil {
			return fmt.Errorf("failed to create trace exporter: %w", err)
		}
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithSyncer(exporter),
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SampleRatio)),
		)
		providers.TracerProvider = tp
		providers.Tracer = tp.Tracer(MeterName, trace.WithInstrumentationVersion(config.AppVersion))
	case "none", "":
		return nil
	default:
		return fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}
	return nil
}

func initializeMetrics(cfg config.TelemetryConfig, res *resource.Resource, providers *OTelProviders) error {
	switch cfg.MetricExporter {
	case "prometheus":
		registry := prometheus.NewRegistry()
		exporter, err := otelprom.New(otelprom.WithRegisterer(registry), otelprom.WithoutScopeInfo())
		if err != nil {
			return fmt.Errorf("failed to create prometheus exporter: %w", err)
		}
		mp := sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(exporter),
		)
		providers.Registry = registry
		providers.MeterProvider = mp
		providers.Meter = mp.Meter(MeterName, metric.WithInstrumentationVersion(config.AppVersion))
	case "none", "":
		return nil
	default:
		return fmt.Errorf("unsupported metric exporter: %s", cfg.MetricExporter)
	}
	return nil
}

// WriteMetricsTextfile writes the gathered metrics in the Prometheus text
// format, for the node exporter textfile collector. It is a no-op when
// metrics are disabled or path is empty.
func (p *OTelProviders) WriteMetricsTextfile(path string) error {
	if p.Registry == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, p.Registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

// Shutdown flushes and stops the providers
func (p *OTelProviders) Shutdown(ctx context.Context) error {
	var errs []error

	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}
	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("opentelemetry shutdown errors: %v", errs)
	}
	return nil
}

// PipelineMetrics holds the counters the walker records per run
type PipelineMetrics struct {
	Units            metric.Int64Counter
	FilesRead        metric.Int64Counter
	RowsDropped      metric.Int64Counter
	WorkbooksWritten metric.Int64Counter
	BytesUploaded    metric.Int64Counter
	UnitDuration     metric.Float64Histogram
	FoldersTraversed metric.Int64Counter
}

// NewPipelineMetrics creates the pipeline instruments on meter
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	units, err := meter.Int64Counter("oltt_units",
		metric.WithDescription("Processing units seen, by status"))
	if err != nil {
		return nil, err
	}
	filesRead, err := meter.Int64Counter("oltt_files_read",
		metric.WithDescription("Raw trial files downloaded and parsed"))
	if err != nil {
		return nil, err
	}
	rowsDropped, err := meter.Int64Counter("oltt_rows_dropped",
		metric.WithDescription("Trial rows dropped for empty or non-numeric fields"))
	if err != nil {
		return nil, err
	}
	written, err := meter.Int64Counter("oltt_workbooks_written",
		metric.WithDescription("Summary workbooks created or updated"))
	if err != nil {
		return nil, err
	}
	bytesUploaded, err := meter.Int64Counter("oltt_uploaded",
		metric.WithDescription("Workbook bytes uploaded"),
		metric.WithUnit("By"))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("oltt_unit_duration",
		metric.WithDescription("Time spent on one processing unit"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}
	folders, err := meter.Int64Counter("oltt_folders_traversed",
		metric.WithDescription("Folders listed during traversal"))
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		Units:            units,
		FilesRead:        filesRead,
		RowsDropped:      rowsDropped,
		WorkbooksWritten: written,
		BytesUploaded:    bytesUploaded,
		UnitDuration:     duration,
		FoldersTraversed: folders,
	}, nil
}

// RecordUnit records the outcome of one processing unit
func (m *PipelineMetrics) RecordUnit(ctx context.Context, status string, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("status", status))
	m.Units.Add(ctx, 1, attrs)
	m.UnitDuration.Record(ctx, duration.Seconds(), attrs)
}

// generateInstanceID generates a unique instance identifier
func generateInstanceID() string {
	hostname, _ := os.Hostname()
	return fmt.Sprintf("%s-%d", hostname, time.Now().Unix())
}

// TraceIDFromContext extracts trace ID from context for logging correlation
func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.IsValid() {
		return spanCtx.TraceID().String()
	}
	return ""
}

// RecordError records an error on the current span
func RecordError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
