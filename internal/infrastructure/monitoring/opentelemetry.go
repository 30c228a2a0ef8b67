package monitoring

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/macrotrack/api/internal/domain/goals"
	"github.com/macrotrack/api/internal/domain/shared"
)

// OpenTelemetryConfig holds OpenTelemetry configuration
type OpenTelemetryConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string

	TracingEnabled bool
	OTLPEndpoint   string
	OTLPInsecure   bool
	SamplingRate   float64
}

// OpenTelemetryProvider owns the tracer and meter providers. Metrics are
// exported through the Prometheus collector's registry.
type OpenTelemetryProvider struct {
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	tracing        trace.TracerProvider
	tracer         trace.Tracer
	meter          metric.Meter
	logger         *zap.Logger

	goalCalculations metric.Int64Counter
	adjustedCalories metric.Float64Histogram
}

// NewOpenTelemetryProvider creates a new OpenTelemetry provider
func NewOpenTelemetryProvider(cfg OpenTelemetryConfig, metrics *MetricsCollector, logger *zap.Logger) (*OpenTelemetryProvider, error) {
	p := &OpenTelemetryProvider{logger: logger.Named("otel")}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
		resource.WithHost(),
		resource.WithProcessPID(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	if err := p.initializeMetrics(res, metrics); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	if cfg.TracingEnabled {
		if err := p.initializeTracing(res, cfg); err != nil {
			return nil, fmt.Errorf("failed to initialize tracing: %w", err)
		}
	} else {
		p.tracing = noop.NewTracerProvider()
		p.tracer = p.tracing.Tracer(cfg.ServiceName)
	}

	p.logger.Info("OpenTelemetry provider initialized",
		zap.String("service", cfg.ServiceName),
		zap.String("version", cfg.ServiceVersion),
		zap.Bool("tracing_enabled", cfg.TracingEnabled),
	)
	return p, nil
}

func (p *OpenTelemetryProvider) initializeMetrics(res *resource.Resource, metrics *MetricsCollector) error {
	exporter, err := otelprom.New(otelprom.WithRegisterer(metrics.Registry()))
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	p.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(p.meterProvider)
	p.meter = p.meterProvider.Meter("github.com/macrotrack/api")

	p.goalCalculations, err = p.meter.Int64Counter("goal_calculations",
		metric.WithDescription("Goal pipeline runs, by trigger"))
	if err != nil {
		return err
	}

	p.adjustedCalories, err = p.meter.Float64Histogram("adjusted_calories",
		metric.WithDescription("Daily calorie targets produced by the goal pipeline"),
		metric.WithUnit("kcal"),
		metric.WithExplicitBucketBoundaries(1200, 1500, 1800, 2100, 2400, 2700, 3000, 3500, 4000))
	return err
}

func (p *OpenTelemetryProvider) initializeTracing(res *resource.Resource, cfg OpenTelemetryConfig) error {
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.OTLPEndpoint)}
	if cfg.OTLPInsecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	exporter, err := otlptracehttp.New(context.Background(), opts...)
	if err != nil {
		return fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	p.tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SamplingRate))),
	)
	otel.SetTracerProvider(p.tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	p.tracing = p.tracerProvider
	p.tracer = p.tracerProvider.Tracer(cfg.ServiceName)

	p.logger.Info("Tracing initialized",
		zap.String("otlp_endpoint", cfg.OTLPEndpoint),
		zap.Float64("sampling_rate", cfg.SamplingRate),
	)
	return nil
}

// Tracer returns the service tracer, a no-op one when tracing is off
func (p *OpenTelemetryProvider) Tracer() trace.Tracer {
	return p.tracer
}

// InstrumentHTTPHandler wraps handler so each request gets a server span
func (p *OpenTelemetryProvider) InstrumentHTTPHandler(handler http.Handler, operation string) http.Handler {
	return otelhttp.NewHandler(handler, operation,
		otelhttp.WithTracerProvider(p.tracing),
		otelhttp.WithMeterProvider(p.meterProvider),
	)
}

// EventHandler records goal recalculations on the OTel meter
func (p *OpenTelemetryProvider) EventHandler(e shared.DomainEvent) error {
	updated, ok := e.(goals.GoalsUpdatedEvent)
	if !ok {
		return nil
	}

	ctx := context.Background()
	p.goalCalculations.Add(ctx, 1, metric.WithAttributes(attribute.String("trigger", string(updated.Trigger))))
	p.adjustedCalories.Record(ctx, updated.Goals.AdjustedCalories)
	return nil
}

// Shutdown flushes spans and stops the providers
func (p *OpenTelemetryProvider) Shutdown(ctx context.Context) error {
	var errs []error
	if p.tracerProvider != nil {
		errs = append(errs, p.tracerProvider.Shutdown(ctx))
	}
	if p.meterProvider != nil {
		errs = append(errs, p.meterProvider.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
