package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	metricSDK "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	traceSDK "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace"
)

const shutdownTimeout = 5 * time.Second

// Telemetry bundles the tracer and meter of one service
type Telemetry struct {
	tracer trace.Tracer
	meter  metric.Meter
	config Config

	counters   sync.Map // name -> metric.Int64Counter
	histograms sync.Map // name -> metric.Float64Histogram
}

// NewTelemetry creates a telemetry instance on top of the global providers.
// Tests use it with the default no-op providers.
func NewTelemetry(config Config) *Telemetry {
	return &Telemetry{
		config: config,
		tracer: otel.Tracer(config.ServiceName),
		meter:  otel.Meter(config.ServiceName),
	}
}

// InitTelemetry installs OTLP trace export plus Prometheus and OTLP metric
// readers as the global providers.
func InitTelemetry(ctx context.Context, config Config) (*Telemetry, func(), error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(config.ServiceName),
			semconv.ServiceVersionKey.String(config.ServiceVersion),
		),
	)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to build telemetry resource")
	}

	traceProvider, err := setupTracing(ctx, res, config.OTLPEndpoint)
	if err != nil {
		return nil, nil, err
	}

	meterProvider, err := setupMetrics(ctx, res, config.OTLPEndpoint)
	if err != nil {
		shutdownWithTimeout(traceProvider.Shutdown)
		return nil, nil, err
	}

	otel.SetTracerProvider(traceProvider)
	otel.SetMeterProvider(meterProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	shutdown := func() {
		shutdownWithTimeout(traceProvider.Shutdown)
		shutdownWithTimeout(meterProvider.Shutdown)
	}

	return NewTelemetry(config), shutdown, nil
}

func setupTracing(ctx context.Context, res *resource.Resource, otlpEndpoint string) (*traceSDK.TracerProvider, error) {
	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(otlpEndpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create OTLP trace exporter")
	}

	return traceSDK.NewTracerProvider(
		traceSDK.WithBatcher(exporter),
		traceSDK.WithResource(res),
		traceSDK.WithSampler(traceSDK.ParentBased(traceSDK.AlwaysSample())),
	), nil
}

func setupMetrics(ctx context.Context, res *resource.Resource, otlpEndpoint string) (*metricSDK.MeterProvider, error) {
	prometheusExporter, err := prometheus.New()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Prometheus exporter")
	}

	otlpExporter, err := otlpmetrichttp.New(ctx,
		otlpmetrichttp.WithEndpoint(otlpEndpoint),
		otlpmetrichttp.WithInsecure(),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create OTLP metric exporter")
	}

	return metricSDK.NewMeterProvider(
		metricSDK.WithResource(res),
		metricSDK.WithReader(prometheusExporter),
		metricSDK.WithReader(metricSDK.NewPeriodicReader(otlpExporter,
			metricSDK.WithInterval(30*time.Second),
		)),
	), nil
}

func shutdownWithTimeout(shutdown func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	_ = shutdown(ctx)
}

// StartSpan starts a new trace span
func (t *Telemetry) StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name, opts...)
}

// GetServiceName returns the service name
func (t *Telemetry) GetServiceName() string {
	return t.config.ServiceName
}

func (t *Telemetry) counter(name, description string) (metric.Int64Counter, error) {
	if c, ok := t.counters.Load(name); ok {
		return c.(metric.Int64Counter), nil
	}
	c, err := t.meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		return nil, err
	}
	actual, _ := t.counters.LoadOrStore(name, c)
	return actual.(metric.Int64Counter), nil
}

func (t *Telemetry) histogram(name, description string) (metric.Float64Histogram, error) {
	if h, ok := t.histograms.Load(name); ok {
		return h.(metric.Float64Histogram), nil
	}
	h, err := t.meter.Float64Histogram(name, metric.WithDescription(description))
	if err != nil {
		return nil, err
	}
	actual, _ := t.histograms.LoadOrStore(name, h)
	return actual.(metric.Float64Histogram), nil
}

type contextKey struct{}

// WithTelemetry injects telemetry into context
func WithTelemetry(ctx context.Context, tel *Telemetry) context.Context {
	return context.WithValue(ctx, contextKey{}, tel)
}

// FromContext extracts telemetry from context
func FromContext(ctx context.Context) *Telemetry {
	if tel, ok := ctx.Value(contextKey{}).(*Telemetry); ok {
		return tel
	}
	return nil
}

var fallback = NewTelemetry(DefaultConfig)

func fromContextOrFallback(ctx context.Context) *Telemetry {
	if tel := FromContext(ctx); tel != nil {
		return tel
	}
	return fallback
}

// StartSpan starts a new trace span using telemetry from context
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return fromContextOrFallback(ctx).StartSpan(ctx, name, opts...)
}

// RecordCounter adds value to the named counter, tagged with the service name
func RecordCounter(ctx context.Context, name, description string, value int64, attrs ...attribute.KeyValue) {
	tel := fromContextOrFallback(ctx)
	counter, err := tel.counter(name, description)
	if err != nil {
		return
	}

	attrs = append(attrs, attribute.String("service", tel.GetServiceName()))
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

// RecordHistogram records value in the named histogram, tagged with the service name
func RecordHistogram(ctx context.Context, name, description string, value float64, attrs ...attribute.KeyValue) {
	tel := fromContextOrFallback(ctx)
	histogram, err := tel.histogram(name, description)
	if err != nil {
		return
	}

	attrs = append(attrs, attribute.String("service", tel.GetServiceName()))
	histogram.Record(ctx, value, metric.WithAttributes(attrs...))
}
