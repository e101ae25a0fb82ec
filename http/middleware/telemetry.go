package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/skydrive-cloud/sky-drive-service/config"
)

// TelemetryMiddleware opens a server span per request and records a
// request counter and latency histogram against the global providers.
func TelemetryMiddleware(cfg *config.EnvConfig) (gin.HandlerFunc, error) {
	tracer := otel.Tracer(cfg.Grafana.ServiceName)
	meter := otel.Meter(cfg.Grafana.ServiceName)

	requestCount, err := meter.Int64Counter("http.server.request.count",
		metric.WithDescription("Number of HTTP requests handled"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("HTTP request latency"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), c.Request.Method+" "+c.FullPath(),
			trace.WithSpanKind(trace.SpanKindServer),
		)
		defer span.End()
		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		attrs := metric.WithAttributes(
			attribute.String("http.route", c.FullPath()),
			attribute.String("http.method", c.Request.Method),
			attribute.Int("http.status_code", c.Writer.Status()),
		)
		requestCount.Add(ctx, 1, attrs)
		requestDuration.Record(ctx, float64(elapsed.Milliseconds()), attrs)

		span.SetAttributes(
			attribute.Int("http.status_code", c.Writer.Status()),
		)
	}, nil
}
