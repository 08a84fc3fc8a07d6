package observability

import (
	"context"
	"log/slog"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Config selects how telemetry is produced
type Config struct {
	ServiceName  string
	Environment  string // "development" or "production"
	OTLPEndpoint string // empty means no trace export
}

// Observability holds the telemetry providers shared by the process
type Observability struct {
	Logger         *slog.Logger
	TracerProvider *sdktrace.TracerProvider
}

// Setup initializes the logger and tracer provider
func Setup(ctx context.Context, cfg Config) (*Observability, error) {
	logger := NewLogger(cfg.Environment)

	tp, err := NewTracerProvider(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		return nil, err
	}

	logger.Info("observability initialized",
		slog.String("service", cfg.ServiceName),
		slog.String("environment", cfg.Environment),
	)

	return &Observability{
		Logger:         logger,
		TracerProvider: tp,
	}, nil
}

// Shutdown flushes and stops all telemetry providers
func (o *Observability) Shutdown(ctx context.Context) {
	if o.TracerProvider != nil {
		if err := o.TracerProvider.Shutdown(ctx); err != nil {
			o.Logger.Error("failed to shutdown tracer provider", slog.String("error", err.Error()))
		}
	}
}
