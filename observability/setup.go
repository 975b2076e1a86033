package observability

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Config is the observability section of the application configuration.
type Config struct {
	// Tracing enables the OTLP trace exporter.
	Tracing bool `mapstructure:"tracing"`
	// Metrics enables metric collection.
	Metrics bool `mapstructure:"metrics"`
	// Exporter selects the metric exporter: "prometheus" or "otlp".
	Exporter string `mapstructure:"exporter"`
	// Endpoint is the OTLP HTTP endpoint host:port.
	Endpoint string `mapstructure:"endpoint"`
	// Insecure disables TLS towards the OTLP endpoint.
	Insecure bool `mapstructure:"insecure"`
	// SampleRate is the trace sampling ratio.
	SampleRate float64 `mapstructure:"sample_rate"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Exporter == "" {
		c.Exporter = ExporterPrometheus
	}
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
}

// Validate checks the exporter name.
func (c *Config) Validate() error {
	switch c.Exporter {
	case "", ExporterPrometheus, ExporterOTLP:
		return nil
	default:
		return fmt.Errorf("observability: unknown metrics exporter %q", c.Exporter)
	}
}

// Telemetry is the set of providers created by Setup.
type Telemetry struct {
	// Metrics is nil when metrics are disabled.
	Metrics *Metrics
	// Handler serves the Prometheus scrape endpoint; nil unless the
	// prometheus exporter is active.
	Handler http.Handler

	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
}

// Setup initializes tracing and metrics according to cfg. On failure
// anything already started is shut down again.
func Setup(ctx context.Context, cfg Config, id Identity) (*Telemetry, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	t := &Telemetry{}

	if cfg.Tracing {
		tp, err := InitTracer(ctx, id, cfg)
		if err != nil {
			return nil, err
		}
		t.tracerProvider = tp
	}

	if cfg.Metrics {
		var err error
		if cfg.Exporter == ExporterOTLP {
			t.meterProvider, err = InitMeter(ctx, id, cfg)
		} else {
			t.meterProvider, t.Handler, err = InitPrometheusMeter(id)
		}
		if err == nil {
			t.Metrics, err = NewMetrics(t.meterProvider.Meter(instrumentationName))
		}
		if err != nil {
			_ = t.Shutdown(ctx)
			return nil, err
		}
	}

	return t, nil
}

// Shutdown flushes and stops every provider Setup created.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	if t.tracerProvider != nil {
		errs = append(errs, t.tracerProvider.Shutdown(ctx))
	}
	if t.meterProvider != nil {
		errs = append(errs, t.meterProvider.Shutdown(ctx))
	}
	return stderrors.Join(errs...)
}
