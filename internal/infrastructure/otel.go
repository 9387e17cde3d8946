package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"cohortpay/internal/config"
)

// MeterName names both the tracer and the meter.
const MeterName = "cohortpay"

// Telemetry bundles the tracer and the pipeline instruments for one run.
type Telemetry struct {
	Tracer   trace.Tracer
	Metrics  *PipelineMetrics
	System   *SystemMetrics
	Registry *prometheus.Registry

	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	traceFile      *os.File
	metricsFile    string
	logger         *slog.Logger
}

// InitializeTelemetry sets up tracing and metrics for a batch run.
// Spans go to cfg.TraceFile when set; metrics are collected into a private
// prometheus registry and written to cfg.MetricsFile on Shutdown.
func InitializeTelemetry(cfg config.TelemetryConfig, logger *slog.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = slog.Default()
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(config.AppName),
		semconv.ServiceVersion(config.AppVersion),
	)

	t := &Telemetry{
		metricsFile: cfg.MetricsFile,
		logger:      logger,
	}

	tpOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	}
	if cfg.TraceFile != "" {
		f, err := os.Create(cfg.TraceFile)
		if err != nil {
			return nil, fmt.Errorf("failed to create trace file: %w", err)
		}
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(f))
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}
		t.traceFile = f
		tpOpts = append(tpOpts, sdktrace.WithBatcher(exporter))
	}
	t.tracerProvider = sdktrace.NewTracerProvider(tpOpts...)
	t.Tracer = t.tracerProvider.Tracer(MeterName, trace.WithInstrumentationVersion(config.AppVersion))

	t.Registry = prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(t.Registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	t.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)

	meter := t.meterProvider.Meter(MeterName, metric.WithInstrumentationVersion(config.AppVersion))
	metrics, err := NewPipelineMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}
	t.Metrics = metrics

	system, err := NewSystemMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create system metrics: %w", err)
	}
	t.System = system

	logger.Debug("Telemetry initialized",
		slog.String("trace_file", cfg.TraceFile),
		slog.String("metrics_file", cfg.MetricsFile))

	return t, nil
}

// NewNoopTelemetry returns telemetry that records nothing.
func NewNoopTelemetry() *Telemetry {
	meter := metricnoop.NewMeterProvider().Meter(MeterName)
	metrics, _ := NewPipelineMetrics(meter)
	system, _ := NewSystemMetrics(meter)
	return &Telemetry{
		Tracer:  tracenoop.NewTracerProvider().Tracer(MeterName),
		Metrics: metrics,
		System:  system,
		logger:  slog.Default(),
	}
}

// StartStage opens a span for a pipeline stage. The returned func ends the
// span, marks it failed when err is non-nil and records the stage duration
// and a runtime snapshot.
func (t *Telemetry) StartStage(ctx context.Context, stage string) (context.Context, func(err error)) {
	start := time.Now()
	ctx, span := t.Tracer.Start(ctx, stage, trace.WithAttributes(attribute.String("stage", stage)))

	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		t.Metrics.StageDuration.Record(ctx, time.Since(start).Seconds(),
			metric.WithAttributes(attribute.String("stage", stage)))
		if t.System != nil {
			stats := t.System.RecordStage(ctx, stage)
			t.logger.DebugContext(ctx, "Stage finished",
				slog.String("stage", stage),
				slog.Duration("duration", time.Since(start)),
				slog.Int64("goroutines", stats.GoRoutines),
				slog.Uint64("heap_alloc", stats.HeapAlloc))
		}
	}
}

// WriteMetrics writes the registry in text exposition format to the
// configured metrics file, for a node-exporter textfile collector.
func (t *Telemetry) WriteMetrics() error {
	if t.Registry == nil || t.metricsFile == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(t.metricsFile, t.Registry); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}

// Shutdown flushes metrics and spans and releases the trace file.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error

	if err := t.WriteMetrics(); err != nil {
		errs = append(errs, err)
	}
	if t.tracerProvider != nil {
		if err := t.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}
	if t.meterProvider != nil {
		if err := t.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}
	if t.traceFile != nil {
		if err := t.traceFile.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close trace file: %w", err))
		}
	}

	return errors.Join(errs...)
}
