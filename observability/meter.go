package observability

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/engineconnector/logger"
)

// Metric exporters.
const (
	ExporterPrometheus = "prometheus"
	ExporterOTLP       = "otlp"
)

// otlpExportInterval is how often pushed metrics are exported.
const otlpExportInterval = 15 * time.Second

// InitMeter installs a global meter provider that pushes to the OTLP HTTP
// endpoint in cfg every otlpExportInterval.
func InitMeter(ctx context.Context, id Identity, cfg Config) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}
	res, err := id.resource()
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(otlpExportInterval))),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", id.Service,
		"exporter", ExporterOTLP,
		"endpoint", cfg.Endpoint,
	))
	return mp, nil
}

// InitPrometheusMeter installs a global meter provider read by a Prometheus
// exporter on a private registry, and returns the scrape handler for it.
func InitPrometheusMeter(id Identity) (*sdkmetric.MeterProvider, http.Handler, error) {
	registry := prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, nil, fmt.Errorf("creating prometheus exporter: %w", err)
	}
	res, err := id.resource()
	if err != nil {
		return nil, nil, fmt.Errorf("creating resource: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields("service", id.Service, "exporter", ExporterPrometheus))
	return mp, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), nil
}

// Metrics holds the connector's metric instruments.
type Metrics struct {
	requestTotal      metric.Int64Counter
	requestDuration   metric.Float64Histogram
	requestActive     metric.Int64UpDownCounter
	operationTotal    metric.Int64Counter
	operationDuration metric.Float64Histogram
	errorTotal        metric.Int64Counter
}

// NewMetrics creates the instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var (
		m    Metrics
		err  error
		errs []error
	)
	check := func(name string) {
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	m.requestTotal, err = meter.Int64Counter("gateway.request.total",
		metric.WithDescription("Gateway requests served"))
	check("gateway.request.total")
	m.requestDuration, err = meter.Float64Histogram("gateway.request.duration",
		metric.WithDescription("Gateway request duration"), metric.WithUnit("s"))
	check("gateway.request.duration")
	m.requestActive, err = meter.Int64UpDownCounter("gateway.request.active",
		metric.WithDescription("Gateway requests in flight"))
	check("gateway.request.active")
	m.operationTotal, err = meter.Int64Counter("engine.operation.total",
		metric.WithDescription("Engine operations run"))
	check("engine.operation.total")
	m.operationDuration, err = meter.Float64Histogram("engine.operation.duration",
		metric.WithDescription("Engine operation duration, retries and rate-limit waits included"), metric.WithUnit("s"))
	check("engine.operation.duration")
	m.errorTotal, err = meter.Int64Counter("engine.error.total",
		metric.WithDescription("Errors by code and operation"))
	check("engine.error.total")

	if len(errs) > 0 {
		return nil, fmt.Errorf("creating instruments: %w", stderrors.Join(errs...))
	}
	return &m, nil
}

// RecordRequestStart increments the active request count.
func (m *Metrics) RecordRequestStart(ctx context.Context) {
	m.requestActive.Add(ctx, 1)
}

// RecordRequestEnd decrements active requests and records the completed request.
func (m *Metrics) RecordRequestEnd(ctx context.Context, service, method, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("service", service),
		attribute.String("method", method),
		attribute.String("status", status),
	)
	m.requestActive.Add(ctx, -1)
	m.requestTotal.Add(ctx, 1, attrs)
	m.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("service", service),
		attribute.String("method", method),
	))
}

// RecordOperation records one engine operation.
func (m *Metrics) RecordOperation(ctx context.Context, service, operation, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("service", service),
		attribute.String("operation", operation),
		attribute.String("status", status),
	)
	m.operationTotal.Add(ctx, 1, attrs)
	m.operationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("service", service),
		attribute.String("operation", operation),
	))
}

// RecordError records an error by code and component.
func (m *Metrics) RecordError(ctx context.Context, code, component string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("code", code),
		attribute.String("component", component),
	))
}
