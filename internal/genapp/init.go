package genapp

import (
	"context"
	"fmt"
	"log/slog"

	"airtable-graphql/internal/config"
	"airtable-graphql/internal/logging"
	"airtable-graphql/internal/observability"
)

const tracerName = "airtable-graphql/genapp"

// InitLogger builds the process logger and, when log export is enabled, the
// OTLP logger provider it fans out to.
func InitLogger(cfg *config.Config) (*logging.Logger, *observability.LoggerProvider, error) {
	loggerCfg := logging.Config{
		Level:  cfg.Observability.Logging.Level,
		Format: cfg.Observability.Logging.Format,
	}
	logger := logging.NewLogger(loggerCfg)
	slog.SetDefault(logger.Logger)

	if !cfg.Observability.Logging.ExportsEnabled {
		return logger, nil, nil
	}

	logCollector(logger, "initializing OpenTelemetry logging", cfg)
	loggerProvider, err := observability.InitLoggerProvider(telemetryConfig(cfg))
	if err != nil {
		return nil, nil, err
	}

	loggerCfg.LoggerProvider = loggerProvider.Provider()
	logger = logging.NewLogger(loggerCfg)
	slog.SetDefault(logger.Logger)

	return logger, loggerProvider, nil
}

// Init initializes telemetry providers. It is idempotent.
func (a *App) Init(ctx context.Context) error {
	a.stateMu.Lock()
	if a.initialized {
		a.stateMu.Unlock()
		return nil
	}
	a.stateMu.Unlock()

	cleanup := cleanupStack{}
	success := false
	defer func() {
		if !success {
			cleanup.run(context.Background(), a.logger)
		}
	}()

	if a.loggerProvider != nil {
		provider := a.loggerProvider
		cleanup.push("logger provider", func(shutdownCtx context.Context) error {
			return provider.Shutdown(shutdownCtx, a.logger.Logger)
		})
	}

	meterProvider, metrics, err := initMetrics(a.cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize OpenTelemetry metrics: %w", err)
	}
	cleanup.push("meter provider", func(shutdownCtx context.Context) error {
		return meterProvider.Shutdown(shutdownCtx, a.logger.Logger)
	})

	tracerProvider, err := initTracing(a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize OpenTelemetry tracing: %w", err)
	}
	tracer := a.tracer
	if tracerProvider != nil {
		cleanup.push("tracer provider", func(shutdownCtx context.Context) error {
			return tracerProvider.Shutdown(shutdownCtx, a.logger.Logger)
		})
		tracer = tracerProvider.Tracer(tracerName)
	}

	a.stateMu.Lock()
	a.meterProvider = meterProvider
	a.metrics = metrics
	a.tracerProvider = tracerProvider
	a.tracer = tracer
	a.cleanup = cleanup
	a.initialized = true
	a.stateMu.Unlock()

	success = true
	return nil
}

// initMetrics always records generation metrics; they are only written out
// when a textfile is configured.
func initMetrics(cfg *config.Config) (*observability.MeterProvider, *observability.GenerationMetrics, error) {
	meterProvider, err := observability.InitMeterProvider(telemetryConfig(cfg))
	if err != nil {
		return nil, nil, err
	}

	metrics, err := observability.InitGenerationMetrics(meterProvider.Meter(tracerName))
	if err != nil {
		_ = meterProvider.Shutdown(context.Background(), slog.Default())
		return nil, nil, err
	}
	return meterProvider, metrics, nil
}

func initTracing(cfg *config.Config, logger *logging.Logger) (*observability.TracerProvider, error) {
	if !cfg.Observability.TracingEnabled {
		return nil, nil
	}

	logCollector(logger, "initializing OpenTelemetry tracing", cfg)
	return observability.InitTracerProvider(telemetryConfig(cfg))
}

func telemetryConfig(cfg *config.Config) observability.Config {
	o := cfg.Observability
	return observability.Config{
		ServiceName:      o.ServiceName,
		ServiceVersion:   o.ServiceVersion,
		Environment:      o.Environment,
		TraceSampleRatio: o.TraceSampleRatio,
		Export: observability.ExportConfig{
			Endpoint:    o.OTLP.Endpoint,
			Protocol:    o.OTLP.Protocol,
			Insecure:    o.OTLP.Insecure,
			CAFile:      o.OTLP.CAFile,
			Headers:     o.OTLP.Headers,
			Timeout:     o.OTLP.Timeout,
			Compression: o.OTLP.Compression,
		},
	}
}

func logCollector(logger *logging.Logger, msg string, cfg *config.Config) {
	logger.Debug(msg,
		slog.String("service_name", cfg.Observability.ServiceName),
		slog.String("environment", cfg.Observability.Environment),
		slog.String("otlp_endpoint", cfg.Observability.OTLP.Endpoint),
		slog.String("otlp_protocol", cfg.Observability.OTLP.Protocol),
		slog.Bool("insecure", cfg.Observability.OTLP.Insecure),
	)
}
