package airtablekit

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "airtable-graphql/airtablekit"

func (a *API) startSpan(ctx context.Context, op, table string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := a.tracer.Start(ctx, "airtable."+op)
	span.SetAttributes(
		attribute.String("airtable.base_id", a.baseID),
		attribute.String("airtable.table", table),
	)
	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
	return ctx, span
}

func finishSpan(span trace.Span, err error) {
	if span == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.SetAttributes(attribute.String("airtable.outcome", outcome))
}

func defaultTracer() trace.Tracer {
	return otel.Tracer(tracerName)
}
