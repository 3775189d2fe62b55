package observability

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/janhq/hf-mcp/internal/config"
	"github.com/janhq/hf-mcp/internal/infrastructure/telemetry"
)

// InstrumentationName names the tracer and meter used by the service.
const InstrumentationName = "github.com/janhq/hf-mcp"

// Provider holds the tracer, the meter and the sanitizer applied to span attributes.
type Provider struct {
	Tracer    trace.Tracer
	Meter     metric.Meter
	Sanitizer *telemetry.Sanitizer

	shutdownFuncs []func(context.Context) error
}

// Setup configures OpenTelemetry tracing and OTLP metric export when enabled. Disabled
// signals fall back to the global no-op tracer and meter.
func Setup(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Provider, error) {
	level, err := telemetry.ParsePIILevel(cfg.PIILevel)
	if err != nil {
		return nil, fmt.Errorf("OTEL_PII_LEVEL: %w", err)
	}
	provider := &Provider{
		Tracer:    otel.Tracer(InstrumentationName),
		Meter:     otel.Meter(InstrumentationName),
		Sanitizer: telemetry.NewSanitizer(level, cfg.ServiceName),
	}

	tracing := cfg.EnableTracing && cfg.OTLPEndpoint != ""
	metrics := cfg.EnableOTLPMetrics && cfg.OTLPEndpoint != ""
	if !tracing && !metrics {
		log.Info().Msg("OpenTelemetry export disabled")
		return provider, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	if tracing {
		tp, err := initTracerProvider(ctx, cfg, res)
		if err != nil {
			return nil, fmt.Errorf("init tracer: %w", err)
		}
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))
		provider.Tracer = tp.Tracer(InstrumentationName)
		provider.shutdownFuncs = append(provider.shutdownFuncs, tp.Shutdown)
		log.Info().Str("endpoint", cfg.OTLPEndpoint).Str("pii_level", string(level)).Msg("Tracing enabled")
	}

	if metrics {
		mp, err := initMeterProvider(ctx, cfg, res)
		if err != nil {
			_ = provider.Shutdown(ctx)
			return nil, fmt.Errorf("init meter: %w", err)
		}
		otel.SetMeterProvider(mp)
		provider.Meter = mp.Meter(InstrumentationName)
		provider.shutdownFuncs = append(provider.shutdownFuncs, mp.Shutdown)
		log.Info().Str("endpoint", cfg.OTLPEndpoint).Dur("interval", cfg.OTLPMetricInterval).Msg("OTLP metric export enabled")
	}

	return provider, nil
}

// Shutdown flushes pending spans and metrics.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}
	var errs []error
	for _, shutdown := range p.shutdownFuncs {
		if err := shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func initTracerProvider(ctx context.Context, cfg *config.Config, res *resource.Resource) (*sdktrace.TracerProvider, error) {
	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(cfg.OTLPEndpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	), nil
}

func initMeterProvider(ctx context.Context, cfg *config.Config, res *resource.Resource) (*sdkmetric.MeterProvider, error) {
	exporter, err := otlpmetrichttp.New(ctx,
		otlpmetrichttp.WithEndpoint(cfg.OTLPEndpoint),
		otlpmetrichttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	return sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(exporter,
				sdkmetric.WithInterval(cfg.OTLPMetricInterval),
			),
		),
		sdkmetric.WithResource(res),
	), nil
}
