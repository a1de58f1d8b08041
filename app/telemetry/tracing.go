// Package telemetry wires OpenTelemetry into the oracle host. Every delivered block and
// every state query runs under a span, and block outcomes are recorded on a meter that
// is exported through Prometheus.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	metricsdk "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	instrumentationName = "oraclenet"
	serviceVersion      = "1.0.0"
	tracesURLPath       = "/v1/traces"
)

// Config selects the trace and meter exporters of an oracle node
type Config struct {
	Enabled      bool
	OTLPEndpoint string
	SampleRate   float64
	Environment  string
	NetworkID    string

	// PrometheusEnabled exports block meters on the default Prometheus registry
	PrometheusEnabled bool
}

// DefaultConfig is disabled and points at a local collector
func DefaultConfig() Config {
	return Config{
		OTLPEndpoint: "http://localhost:4318",
		SampleRate:   0.1,
		Environment:  "local",
		NetworkID:    "oraclenet",
	}
}

// Validate checks the exporter settings
func (c Config) Validate() error {
	if c.OTLPEndpoint == "" {
		return errors.New("otlp endpoint is required")
	}
	if _, err := url.Parse(c.OTLPEndpoint); err != nil {
		return fmt.Errorf("invalid otlp endpoint: %w", err)
	}
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("sample rate must be between 0 and 1, got %g", c.SampleRate)
	}
	return nil
}

// traceClientOptions turns an endpoint URL into OTLP/HTTP client options. Bare host:port
// endpoints are accepted and exported without TLS.
func traceClientOptions(endpoint string) ([]otlptracehttp.Option, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid otlp endpoint: %w", err)
	}

	host := u.Host
	if host == "" {
		host = endpoint
	}
	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(host),
		otlptracehttp.WithURLPath(tracesURLPath),
	}
	if u.Scheme != "https" {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	return opts, nil
}

// Provider owns the SDK tracer and meter providers installed for the process
type Provider struct {
	cfg    Config
	traces *tracesdk.TracerProvider
	meters *metricsdk.MeterProvider
}

// NewProvider installs the configured exporters as the global OTel providers. A disabled
// config installs nothing and leaves the no-op globals in place.
func NewProvider(cfg Config) (*Provider, error) {
	p := &Provider{cfg: cfg}
	if !cfg.Enabled {
		return p, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid telemetry config: %w", err)
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(instrumentationName),
			semconv.ServiceVersion(serviceVersion),
			attribute.String("deployment.environment", cfg.Environment),
			attribute.String("oraclenet.network_id", cfg.NetworkID),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	if p.traces, err = newTracerProvider(cfg, res); err != nil {
		return nil, err
	}
	otel.SetTracerProvider(p.traces)

	if cfg.PrometheusEnabled {
		exporter, err := prometheus.New()
		if err != nil {
			_ = p.traces.Shutdown(context.Background())
			return nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
		}
		p.meters = metricsdk.NewMeterProvider(
			metricsdk.WithResource(res),
			metricsdk.WithReader(exporter),
		)
		otel.SetMeterProvider(p.meters)
	}

	return p, nil
}

func newTracerProvider(cfg Config, res *resource.Resource) (*tracesdk.TracerProvider, error) {
	opts, err := traceClientOptions(cfg.OTLPEndpoint)
	if err != nil {
		return nil, err
	}
	exporter, err := otlptrace.New(context.Background(), otlptracehttp.NewClient(opts...))
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	return tracesdk.NewTracerProvider(
		tracesdk.WithBatcher(exporter, tracesdk.WithBatchTimeout(5*time.Second)),
		tracesdk.WithResource(res),
		tracesdk.WithSampler(tracesdk.ParentBased(tracesdk.TraceIDRatioBased(cfg.SampleRate))),
	), nil
}

// Shutdown flushes pending spans and stops both providers
func (p *Provider) Shutdown(ctx context.Context) error {
	var errs []error
	if p.traces != nil {
		if err := p.traces.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider: %w", err))
		}
	}
	if p.meters != nil {
		if err := p.meters.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Meter returns the meter block instruments are created on
func (p *Provider) Meter() metric.Meter {
	if p.meters == nil {
		return otel.Meter(instrumentationName)
	}
	return p.meters.Meter(instrumentationName)
}

// Check reports whether every exporter the config asks for is installed
func (p *Provider) Check() error {
	if !p.cfg.Enabled {
		return nil
	}
	if p.traces == nil {
		return errors.New("tracer provider not initialized")
	}
	if p.cfg.PrometheusEnabled && p.meters == nil {
		return errors.New("meter provider not initialized but Prometheus is enabled")
	}
	return nil
}

// StartBlockSpan starts the span of one delivered block
func StartBlockSpan(ctx context.Context, height int64, operation string) (context.Context, trace.Span) {
	return otel.Tracer(instrumentationName).Start(ctx, "block."+operation,
		trace.WithAttributes(
			attribute.Int64("block.height", height),
			attribute.String("block.operation", operation),
		),
	)
}

// StartQuerySpan starts the span of a read against the state committed at height
func StartQuerySpan(ctx context.Context, height int64) (context.Context, trace.Span) {
	return otel.Tracer(instrumentationName).Start(ctx, "state.query",
		trace.WithAttributes(attribute.Int64("block.height", height)),
	)
}

// EndSpan marks span failed with err, or ok when err is nil, and ends it
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
