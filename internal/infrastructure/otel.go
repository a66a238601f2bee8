package infrastructure

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName names the tracer and meter of the loader
const InstrumentationName = "github.com/agrippa-data/course-r-actuaries/loader"

// LoaderTelemetry provides OpenTelemetry instrumentation for load runs
type LoaderTelemetry struct {
	tracer trace.Tracer

	filesParsed   metric.Int64Counter
	recordsLoaded metric.Int64Counter
	loadFailures  metric.Int64Counter
	parseDuration metric.Float64Histogram
}

// NewLoaderTelemetry creates the loader instruments. Nil providers fall back
// to the otel globals, which are no-ops unless an SDK was installed.
func NewLoaderTelemetry(tp trace.TracerProvider, mp metric.MeterProvider) (*LoaderTelemetry, error) {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(InstrumentationName)

	filesParsed, err := meter.Int64Counter(
		"loader.files.parsed",
		metric.WithDescription("Total number of input files parsed"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create files counter: %w", err)
	}

	recordsLoaded, err := meter.Int64Counter(
		"loader.records.loaded",
		metric.WithDescription("Total number of records parsed from input files"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create records counter: %w", err)
	}

	loadFailures, err := meter.Int64Counter(
		"loader.failures",
		metric.WithDescription("Total number of failed load runs"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create failures counter: %w", err)
	}

	parseDuration, err := meter.Float64Histogram(
		"loader.parse.duration",
		metric.WithDescription("Per-file parse duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create parse histogram: %w", err)
	}

	return &LoaderTelemetry{
		tracer:        tp.Tracer(InstrumentationName),
		filesParsed:   filesParsed,
		recordsLoaded: recordsLoaded,
		loadFailures:  loadFailures,
		parseDuration: parseDuration,
	}, nil
}

// StartLoad creates a span for a whole load run
func (t *LoaderTelemetry) StartLoad(ctx context.Context, dir, suffix string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "loader.load",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("loader.dir", dir),
			attribute.String("loader.suffix", suffix),
			attribute.String("trace_id", GetTraceID(ctx)),
		),
	)
}

// StartParse creates a span for one file parse
func (t *LoaderTelemetry) StartParse(ctx context.Context, path, format string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "loader.parse",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("file.path", path),
			attribute.String("file.format", format),
		),
	)
}

// RecordParse records the outcome of one file parse on its span and metrics
func (t *LoaderTelemetry) RecordParse(ctx context.Context, span trace.Span, format string, records int, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	attrs := metric.WithAttributes(
		attribute.String("format", format),
		attribute.String("status", status),
	)

	t.filesParsed.Add(ctx, 1, attrs)
	t.parseDuration.Record(ctx, duration.Seconds(), attrs)
	if err == nil {
		t.recordsLoaded.Add(ctx, int64(records), metric.WithAttributes(attribute.String("format", format)))
	}

	span.SetAttributes(
		attribute.Int("file.records", records),
		attribute.Float64("file.duration_seconds", duration.Seconds()),
	)
	EndSpan(span, err)
}

// RecordLoad records the outcome of a load run on its span
func (t *LoaderTelemetry) RecordLoad(ctx context.Context, span trace.Span, files, records int, err error) {
	span.SetAttributes(
		attribute.Int("loader.files", files),
		attribute.Int("loader.records", records),
	)
	if err != nil {
		t.loadFailures.Add(ctx, 1)
	}
	EndSpan(span, err)
}

// EndSpan sets the span status from err and ends it
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
