package infra

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"github.com/skydrive-cloud/sky-drive-service/config"
)

// LoggerClient wraps slog, bridged to the OTLP collector outside of
// development mode.
type LoggerClient struct {
	Logger   *slog.Logger
	provider *sdklog.LoggerProvider
}

func InitLoggerClient(cfg *config.EnvConfig) *LoggerClient {
	if cfg.Environment.Mode == "development" || cfg.Grafana.OTLPEndpoint == "" {
		return &LoggerClient{
			Logger: slog.New(slog.NewTextHandler(os.Stdout, nil)),
		}
	}

	exporter, err := otlploghttp.New(context.Background(),
		otlploghttp.WithEndpoint(cfg.Grafana.OTLPEndpoint),
	)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize OTLP log exporter: %v", err))
	}

	provider := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
		sdklog.WithResource(newTelemetryResource(cfg)),
	)
	global.SetLoggerProvider(provider)

	handler := otelslog.NewHandler(cfg.Grafana.ServiceName,
		otelslog.WithLoggerProvider(provider),
	)

	return &LoggerClient{
		Logger:   slog.New(handler),
		provider: provider,
	}
}

// Slog exposes the underlying logger for components that take a plain
// *slog.Logger.
func (l *LoggerClient) Slog() *slog.Logger {
	return l.Logger
}

func (l *LoggerClient) InfoWithContextf(ctx context.Context, format string, args ...interface{}) {
	l.Logger.InfoContext(ctx, fmt.Sprintf(format, args...))
}

func (l *LoggerClient) WarningWithContextf(ctx context.Context, format string, args ...interface{}) {
	l.Logger.WarnContext(ctx, fmt.Sprintf(format, args...))
}

func (l *LoggerClient) ErrorWithContextf(ctx context.Context, err error, format string, args ...interface{}) {
	if err != nil {
		l.Logger.ErrorContext(ctx, fmt.Sprintf(format, args...), slog.Any("error", err))
		return
	}
	l.Logger.ErrorContext(ctx, fmt.Sprintf(format, args...))
}

func (l *LoggerClient) Shutdown(ctx context.Context) error {
	if l.provider == nil {
		return nil
	}
	return l.provider.Shutdown(ctx)
}
