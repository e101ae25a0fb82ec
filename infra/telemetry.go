package infra

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"

	"github.com/skydrive-cloud/sky-drive-service/config"
)

// TelemetryClient owns the trace and metric providers. In development
// mode both stay nil and the no-op globals apply.
type TelemetryClient struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
}

func InitTelemetryClient(cfg *config.EnvConfig) *TelemetryClient {
	if cfg.Environment.Mode == "development" || cfg.Grafana.OTLPEndpoint == "" {
		return &TelemetryClient{}
	}

	ctx := context.Background()

	var traceExporter *otlptrace.Exporter
	traceExporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(cfg.Grafana.OTLPEndpoint),
	)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize OTLP trace exporter: %v", err))
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(newTelemetryResource(cfg)),
	)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	metricExporter, err := otlpmetrichttp.New(ctx,
		otlpmetrichttp.WithEndpoint(cfg.Grafana.OTLPEndpoint),
	)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize OTLP metric exporter: %v", err))
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(newTelemetryResource(cfg)),
	)
	otel.SetMeterProvider(meterProvider)

	if err := runtime.Start(runtime.WithMinimumReadMemStatsInterval(10 * time.Second)); err != nil {
		panic(fmt.Sprintf("Failed to start runtime instrumentation: %v", err))
	}

	return &TelemetryClient{
		TracerProvider: tracerProvider,
		MeterProvider:  meterProvider,
	}
}

func (t *TelemetryClient) Shutdown(ctx context.Context) {
	if t.TracerProvider != nil {
		_ = t.TracerProvider.Shutdown(ctx)
	}
	if t.MeterProvider != nil {
		_ = t.MeterProvider.Shutdown(ctx)
	}
}

func newTelemetryResource(cfg *config.EnvConfig) *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.Grafana.ServiceName),
		semconv.DeploymentEnvironmentName(cfg.Environment.Mode),
	)
}
