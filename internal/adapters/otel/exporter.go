// Package otel ships operational metrics to an OTEL Collector over OTLP
// gRPC. When no collector is configured the process falls back to the
// no-op recorder and keeps working.
package otel

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const (
	serviceName    = "prolific"
	serviceVersion = "1.0.0"
)

// Recorder receives the metrics the tracker emits. The exporter and the
// no-op recorder both satisfy it.
type Recorder interface {
	RowsImported(ctx context.Context, kind string, n int64)
	ImportDuration(ctx context.Context, d time.Duration)
	HTTPRequest(ctx context.Context, route string, status int)
	AnalyticsComputed(ctx context.Context)
	Close(ctx context.Context) error
}

// Exporter records tracker metrics and exports them to an OTEL Collector.
type Exporter struct {
	provider       *sdkmetric.MeterProvider
	meter          metric.Meter
	rowsTotal      metric.Int64Counter
	importDuration metric.Float64Histogram
	requestsTotal  metric.Int64Counter
	analyticsTotal metric.Int64Counter
}

// NewExporter creates a new OTEL metrics exporter.
func NewExporter(ctx context.Context, cfg Config) (*Exporter, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return nil, fmt.Errorf("OTEL exporter is disabled or endpoint not configured")
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	rowsTotal, err := meter.Int64Counter(
		"prolific_rows_imported_total",
		metric.WithDescription("Rows imported from legacy logs, by event kind"),
		metric.WithUnit("{row}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating rows counter: %w", err)
	}

	importDuration, err := meter.Float64Histogram(
		"prolific_import_duration_seconds",
		metric.WithDescription("Duration of legacy import passes"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating import duration histogram: %w", err)
	}

	requestsTotal, err := meter.Int64Counter(
		"prolific_http_requests_total",
		metric.WithDescription("HTTP requests served, by route and status"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating requests counter: %w", err)
	}

	analyticsTotal, err := meter.Int64Counter(
		"prolific_analytics_computations_total",
		metric.WithDescription("Per-day analytics bundles computed"),
		metric.WithUnit("{computation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating analytics counter: %w", err)
	}

	return &Exporter{
		provider:       provider,
		meter:          meter,
		rowsTotal:      rowsTotal,
		importDuration: importDuration,
		requestsTotal:  requestsTotal,
		analyticsTotal: analyticsTotal,
	}, nil
}

func (e *Exporter) RowsImported(ctx context.Context, kind string, n int64) {
	e.rowsTotal.Add(ctx, n, metric.WithAttributes(attribute.String("kind", kind)))
}

func (e *Exporter) ImportDuration(ctx context.Context, d time.Duration) {
	e.importDuration.Record(ctx, d.Seconds())
}

func (e *Exporter) HTTPRequest(ctx context.Context, route string, status int) {
	e.requestsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("route", route),
		attribute.String("status", strconv.Itoa(status)),
	))
}

func (e *Exporter) AnalyticsComputed(ctx context.Context) {
	e.analyticsTotal.Add(ctx, 1)
}

// Close shuts down the exporter and flushes any pending metrics.
func (e *Exporter) Close(ctx context.Context) error {
	return e.provider.Shutdown(ctx)
}
