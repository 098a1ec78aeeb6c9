package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"covercli/internal/config"
	"covercli/pkg/contracts"
)

// MeterName is the instrumentation scope for tracer and meter
const MeterName = "covercli"

// OTelConfig holds OpenTelemetry configuration
type OTelConfig struct {
	ServiceName    string
	ServiceVersion string
	EnableTracing  bool
	// TraceWriter receives pretty printed spans; nil means stderr
	TraceWriter io.Writer
}

// OTelConfigFrom builds an OTelConfig from the telemetry section
func OTelConfigFrom(cfg config.TelemetryConfig, w io.Writer) *OTelConfig {
	return &OTelConfig{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: contracts.Version,
		EnableTracing:  cfg.EnableTracing,
		TraceWriter:    w,
	}
}

// OTelProviders holds the OpenTelemetry providers
type OTelProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	// Registry backs the prometheus exporter and can be dumped to a textfile
	Registry *promclient.Registry
	Logger   *slog.Logger
}

// PipelineMetrics are the instruments recorded per operation run
type PipelineMetrics struct {
	OperationsTotal   metric.Int64Counter
	OperationDuration metric.Float64Histogram
	RowsWritten       metric.Int64Counter
	UnmatchedKeys     metric.Int64Counter
}

// InitializeOTel sets up tracing (when enabled) and metrics.
// Metrics always go to a private prometheus registry.
func InitializeOTel(cfg *OTelConfig, logger *slog.Logger) (*OTelProviders, error) {
	if cfg == nil {
		cfg = &OTelConfig{ServiceName: config.DefaultServiceName, ServiceVersion: contracts.Version}
	}
	if logger == nil {
		logger = slog.Default()
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
	)

	providers := &OTelProviders{Logger: logger}

	if err := initializeTracing(cfg, res, providers); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if err := initializeMetrics(cfg, res, providers); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	logger.Debug("OpenTelemetry initialized",
		slog.String("service", cfg.ServiceName),
		slog.Bool("tracing_enabled", cfg.EnableTracing))

	return providers, nil
}

// initializeTracing sets up a synchronous stdout span exporter
func initializeTracing(cfg *OTelConfig, res *resource.Resource, providers *OTelProviders) error {
	if !cfg.EnableTracing {
		providers.Tracer = noop.NewTracerProvider().Tracer(MeterName)
		return nil
	}

	w := cfg.TraceWriter
	if w == nil {
		w = os.Stderr
	}
	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(w),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	// A CLI run is short lived; export spans as they end
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithResource(res),
	)

	providers.TracerProvider = tp
	providers.Tracer = tp.Tracer(MeterName, trace.WithInstrumentationVersion(cfg.ServiceVersion))
	return nil
}

// initializeMetrics wires the otel meter provider to a prometheus registry
func initializeMetrics(cfg *OTelConfig, res *resource.Resource, providers *OTelProviders) error {
	registry := promclient.NewRegistry()

	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)

	providers.Registry = registry
	providers.MeterProvider = mp
	providers.Meter = mp.Meter(MeterName, metric.WithInstrumentationVersion(cfg.ServiceVersion))
	return nil
}

// CreatePipelineMetrics creates the operation instruments on meter
func CreatePipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	operationsTotal, err := meter.Int64Counter(
		"covercli_operations",
		metric.WithDescription("Operations run, by outcome"),
	)
	if err != nil {
		return nil, err
	}

	operationDuration, err := meter.Float64Histogram(
		"covercli_operation_duration",
		metric.WithDescription("Operation wall time"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	rowsWritten, err := meter.Int64Counter(
		"covercli_rows_written",
		metric.WithDescription("Rows written to operation outputs"),
	)
	if err != nil {
		return nil, err
	}

	unmatchedKeys, err := meter.Int64Counter(
		"covercli_unmatched_keys",
		metric.WithDescription("Distinct join keys without a partner on the other side"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		OperationsTotal:   operationsTotal,
		OperationDuration: operationDuration,
		RowsWritten:       rowsWritten,
		UnmatchedKeys:     unmatchedKeys,
	}, nil
}

// RecordOperationMetrics records the outcome of one operation run
func RecordOperationMetrics(ctx context.Context, m *PipelineMetrics, operationID string, duration time.Duration, rows int, err error) {
	if m == nil {
		return
	}

	status := "success"
	if err != nil {
		status = "failure"
	}

	m.OperationsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operationID),
		attribute.String("status", status),
	))
	m.OperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("operation", operationID),
	))
	if err == nil && rows > 0 {
		m.RowsWritten.Add(ctx, int64(rows), metric.WithAttributes(
			attribute.String("operation", operationID),
		))
	}
}

// RecordUnmatchedKeys records join keys that found no partner
func RecordUnmatchedKeys(ctx context.Context, m *PipelineMetrics, operationID, side string, count int) {
	if m == nil || count == 0 {
		return
	}
	m.UnmatchedKeys.Add(ctx, int64(count), metric.WithAttributes(
		attribute.String("operation", operationID),
		attribute.String("side", side),
	))
}

// WriteMetricsFile dumps the registry in the Prometheus text format
func (p *OTelProviders) WriteMetricsFile(path string) error {
	if path == "" || p.Registry == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := promclient.WriteToTextfile(path, p.Registry); err != nil {
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

	return errors.Join(errs...)
}

// RecordError marks the span in ctx as failed
func RecordError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
