package genapp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"airtable-graphql/internal/airtable"
	"airtable-graphql/internal/binding"
	"airtable-graphql/internal/codegen"
	"airtable-graphql/internal/config"
	"airtable-graphql/internal/logging"
	"airtable-graphql/internal/naming"
	"airtable-graphql/internal/observability"
	"airtable-graphql/internal/schema"
	"airtable-graphql/internal/schemafilter"
	"airtable-graphql/internal/sdl"
	"airtable-graphql/internal/source"
)

// ErrInvalidSchema is returned when the assembled schema does not compile
// and validation is not skipped.
var ErrInvalidSchema = errors.New("generated schema is invalid")

// Artifacts holds the generated outputs of one base before they are written.
type Artifacts struct {
	Base      []byte // indented JSON of the base as loaded
	SDL       []byte
	Resolvers []byte

	Stats      observability.GenerationStats
	Dangling   []schema.DanglingRef
	Filtered   schemafilter.Report
	Collisions int
	// SchemaErr is the compile error kept when validation is skipped.
	SchemaErr error
}

// Generate derives every artifact from base. It performs no I/O.
func (a *App) Generate(ctx context.Context, base airtable.Base) (*Artifacts, error) {
	logger := logging.FromContextOr(ctx, a.logger)
	if a.cfg.Source.BaseID != "" {
		base.ID = a.cfg.Source.BaseID
	}
	if base.ID == "" {
		logger.Warn("base id is empty; generated resolvers will open an unnamed base",
			slog.String("hint", "set source.base_id or "+config.BaseIDEnv),
		)
	}

	out := &Artifacts{}
	var (
		filtered airtable.Base
		doc      *schema.Document
		plan     *binding.Plan
		namer    = naming.New(a.cfg.Naming, logger.Logger)
	)

	err := a.phase(ctx, "encode", func(context.Context) error {
		var buf bytes.Buffer
		if err := source.Write(&buf, base); err != nil {
			return err
		}
		out.Base = buf.Bytes()
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = a.phase(ctx, "filter", func(context.Context) error {
		filtered, out.Filtered = schemafilter.Apply(base, a.cfg.SchemaFilters, logger.Logger)
		if out.Filtered != (schemafilter.Report{}) {
			logger.Info("schema filters applied",
				slog.Int("tables_dropped", out.Filtered.Tables),
				slog.Int("columns_dropped", out.Filtered.Columns),
				slog.Int("links_dropped", out.Filtered.Links),
			)
		}
		return nil
	})

	_ = a.phase(ctx, "assemble", func(context.Context) error {
		doc = schema.Assemble(filtered, namer)
		out.Dangling = doc.Dangling
		out.Collisions = namer.Collisions()
		for _, ref := range doc.Dangling {
			logger.Warn("link column references a table missing from the base",
				slog.String("type", ref.Type),
				slog.String("field", ref.Field),
				slog.String("table", ref.Table),
				slog.String("column", ref.Column),
			)
		}
		return nil
	})

	err = a.phase(ctx, "validate", func(context.Context) error {
		if _, err := schema.Compile(doc, nil); err != nil {
			if !a.cfg.Output.SkipValidation {
				return fmt.Errorf("%w: %w", ErrInvalidSchema, err)
			}
			out.SchemaErr = err
			logger.Warn("writing schema that failed validation", slog.String("error", err.Error()))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = a.phase(ctx, "print", func(context.Context) error {
		out.SDL = []byte(sdl.Print(doc))
		return nil
	})

	_ = a.phase(ctx, "plan", func(context.Context) error {
		plan = binding.Build(filtered, namer)
		return nil
	})

	if err := a.phase(ctx, "verify", func(context.Context) error {
		return binding.Verify(plan, doc)
	}); err != nil {
		return nil, err
	}

	err = a.phase(ctx, "synthesize", func(context.Context) error {
		src, err := codegen.Render(plan, a.codegenOptions(), a.cfg.Output.Name+resolversSuffix)
		if err != nil {
			return err
		}
		out.Resolvers = src
		return nil
	})
	if err != nil {
		return nil, err
	}

	out.Stats = observability.GenerationStats{
		Tables:       len(filtered.Tables),
		Columns:      filtered.ColumnCount(),
		Types:        len(doc.Types),
		Fields:       doc.FieldCount(),
		Bindings:     plan.BindingCount(),
		DanglingRefs: len(doc.Dangling),
	}
	return out, nil
}

func (a *App) codegenOptions() codegen.Options {
	return codegen.Options{
		Package:       a.cfg.Output.Package,
		RuntimeImport: a.cfg.Output.RuntimeImport,
		FuncName:      a.cfg.Output.FuncName,
	}
}

// phase runs fn inside a span and records its duration.
func (a *App) phase(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := a.tracer.Start(ctx, "generate."+name)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	a.metrics.RecordPhase(ctx, name, time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("error", true))
	}
	return err
}
