// Package genapp runs the generator: it loads a base schema, filters it,
// assembles and validates the GraphQL schema, and writes the schema text and
// the generated resolver source next to a copy of the base.
package genapp

import (
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"airtable-graphql/internal/config"
	"airtable-graphql/internal/logging"
	"airtable-graphql/internal/observability"
)

// App owns runtime resources for one generator process.
type App struct {
	cfg    *config.Config
	logger *logging.Logger

	loggerProvider *observability.LoggerProvider
	meterProvider  *observability.MeterProvider
	metrics        *observability.GenerationMetrics
	tracerProvider *observability.TracerProvider
	tracer         trace.Tracer

	cleanup cleanupStack

	stateMu     sync.Mutex
	initialized bool

	shutdownOnce sync.Once
}

// New creates an App lifecycle wrapper.
func New(cfg *config.Config, logger *logging.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &App{
		cfg:    cfg,
		logger: logger,
		tracer: noop.NewTracerProvider().Tracer(tracerName),
	}, nil
}

// AttachLoggerProvider registers an optional logger provider for shutdown cleanup.
func (a *App) AttachLoggerProvider(provider *observability.LoggerProvider) {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	a.loggerProvider = provider
}
