package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// GenerationStats summarizes one generation run.
type GenerationStats struct {
	Tables       int
	Columns      int
	Types        int
	Fields       int
	Bindings     int
	DanglingRefs int
}

// GenerationMetrics holds the metrics recorded by a generation run.
type GenerationMetrics struct {
	runs          metric.Int64Counter
	runDuration   metric.Float64Histogram
	phaseDuration metric.Float64Histogram
	tables        metric.Int64Gauge
	columns       metric.Int64Gauge
	types         metric.Int64Gauge
	fields        metric.Int64Gauge
	bindings      metric.Int64Gauge
	danglingRefs  metric.Int64Gauge
}

// InitGenerationMetrics creates the generation instruments on meter.
func InitGenerationMetrics(meter metric.Meter) (*GenerationMetrics, error) {
	runs, err := meter.Int64Counter(
		"generation.runs",
		metric.WithDescription("Number of generation runs by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create runs counter: %w", err)
	}

	runDuration, err := meter.Float64Histogram(
		"generation.duration",
		metric.WithDescription("Duration of a generation run"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create run duration histogram: %w", err)
	}

	phaseDuration, err := meter.Float64Histogram(
		"generation.phase.duration",
		metric.WithDescription("Duration of one generation phase"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create phase duration histogram: %w", err)
	}

	gauge := func(name, description string) (metric.Int64Gauge, error) {
		g, err := meter.Int64Gauge(name, metric.WithDescription(description))
		if err != nil {
			return nil, fmt.Errorf("failed to create %s gauge: %w", name, err)
		}
		return g, nil
	}

	m := &GenerationMetrics{
		runs:          runs,
		runDuration:   runDuration,
		phaseDuration: phaseDuration,
	}
	if m.tables, err = gauge("generation.tables", "Tables in the generated schema"); err != nil {
		return nil, err
	}
	if m.columns, err = gauge("generation.columns", "Columns in the generated schema"); err != nil {
		return nil, err
	}
	if m.types, err = gauge("generation.types", "Types in the generated schema"); err != nil {
		return nil, err
	}
	if m.fields, err = gauge("generation.fields", "Fields across all generated types"); err != nil {
		return nil, err
	}
	if m.bindings, err = gauge("generation.bindings", "Resolver bindings in the generated source"); err != nil {
		return nil, err
	}
	if m.danglingRefs, err = gauge("generation.dangling_refs", "Link columns whose target table is missing"); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordPhase records how long a single phase took.
func (m *GenerationMetrics) RecordPhase(ctx context.Context, phase string, duration time.Duration) {
	if m == nil {
		return
	}
	m.phaseDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attribute.String("phase", phase)))
}

// RecordRun records the outcome, duration and size of a finished run.
func (m *GenerationMetrics) RecordRun(ctx context.Context, outcome string, duration time.Duration, stats GenerationStats) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	m.runs.Add(ctx, 1, attrs)
	m.runDuration.Record(ctx, duration.Seconds(), attrs)

	m.tables.Record(ctx, int64(stats.Tables))
	m.columns.Record(ctx, int64(stats.Columns))
	m.types.Record(ctx, int64(stats.Types))
	m.fields.Record(ctx, int64(stats.Fields))
	m.bindings.Record(ctx, int64(stats.Bindings))
	m.danglingRefs.Record(ctx, int64(stats.DanglingRefs))
}
