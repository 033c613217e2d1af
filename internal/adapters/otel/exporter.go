package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/emiliopalmerini/crodash/internal/domain"
	"github.com/emiliopalmerini/crodash/internal/ports"
)

const (
	serviceName    = "crodash"
	serviceVersion = "1.0.0"
)

// Exporter exports sync run metrics to an OTEL Collector.
type Exporter struct {
	provider       *sdkmetric.MeterProvider
	rowsTotal      metric.Int64Counter
	droppedTotal   metric.Int64Counter
	upsertedTotal  metric.Int64Counter
	ambiguousTotal metric.Int64Counter
	durationHist   metric.Float64Histogram
}

// New returns an OTLP exporter when cfg is active and a no-op exporter
// otherwise.
func New(ctx context.Context, cfg Config) (ports.MetricsExporter, error) {
	if !cfg.Active() {
		return NewNoOpExporter(), nil
	}
	return NewExporter(ctx, cfg)
}

// NewExporter creates a new OTEL metrics exporter.
func NewExporter(ctx context.Context, cfg Config) (*Exporter, error) {
	if !cfg.Active() {
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

	e, err := newExporter(ctx, sdkmetric.NewPeriodicReader(exp))
	if err != nil {
		return nil, err
	}
	otel.SetMeterProvider(e.provider)
	return e, nil
}

func newExporter(ctx context.Context, reader sdkmetric.Reader) (*Exporter, error) {
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
		sdkmetric.WithReader(reader),
		sdkmetric.WithResource(res),
	)
	meter := provider.Meter(serviceName)

	counter := func(name, desc, unit string) (metric.Int64Counter, error) {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
		if err != nil {
			return nil, fmt.Errorf("creating %s counter: %w", name, err)
		}
		return c, nil
	}

	e := &Exporter{provider: provider}
	if e.rowsTotal, err = counter("crodash_sync_rows_total", "Raw rows read from the live source", "{row}"); err != nil {
		return nil, err
	}
	if e.droppedTotal, err = counter("crodash_sync_rows_dropped_total", "Rows dropped for lacking an identifier", "{row}"); err != nil {
		return nil, err
	}
	if e.upsertedTotal, err = counter("crodash_sync_records_upserted_total", "Records written to the store", "{record}"); err != nil {
		return nil, err
	}
	if e.ambiguousTotal, err = counter("crodash_sync_ambiguous_dates_total", "Slash dates readable both month-first and day-first", "{date}"); err != nil {
		return nil, err
	}

	e.durationHist, err = meter.Float64Histogram(
		"crodash_sync_duration_seconds",
		metric.WithDescription("Sync run duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}
	return e, nil
}

// ExportSyncRun records the counters of a finished run.
func (e *Exporter) ExportSyncRun(ctx context.Context, run *domain.SyncRun) error {
	opt := metric.WithAttributes(
		attribute.String("source", run.Source),
		attribute.String("sink", run.Sink),
		attribute.String("status", run.Status),
	)

	e.rowsTotal.Add(ctx, run.RowsRead, opt)
	e.droppedTotal.Add(ctx, run.RowsDropped, opt)
	e.upsertedTotal.Add(ctx, run.Upserted, opt)
	e.ambiguousTotal.Add(ctx, run.AmbiguousDates, opt)
	e.durationHist.Record(ctx, run.Duration().Seconds(), opt)

	return nil
}

// Close shuts down the exporter and flushes any pending metrics.
func (e *Exporter) Close(ctx context.Context) error {
	return e.provider.Shutdown(ctx)
}
