package airtablekit

import (
	"context"
	"log/slog"
	"sync"

	"github.com/graphql-go/graphql"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Listing defaults applied when an argument is omitted.
const (
	DefaultPageSize = 100
	DefaultOffset   = 0
)

// API performs CRUD operations against one base. Table handles are opened
// lazily and memoized; concurrent first use may open a handle more than once,
// and one of them is kept.
type API struct {
	base    Base
	baseID  string
	columns Columns
	tables  sync.Map // table name -> Table
	logger  *slog.Logger
	tracer  trace.Tracer
}

// Option configures an API.
type Option func(*API)

// WithLogger sets the logger used for swallowed failures.
func WithLogger(logger *slog.Logger) Option {
	return func(a *API) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithTracer sets the tracer used for backend calls.
func WithTracer(tracer trace.Tracer) Option {
	return func(a *API) {
		if tracer != nil {
			a.tracer = tracer
		}
	}
}

// NewAPI opens base baseID on instance.
func NewAPI(instance Client, baseID string, columns Columns, opts ...Option) *API {
	a := &API{
		base:    instance.Base(baseID),
		baseID:  baseID,
		columns: columns,
		logger:  slog.Default(),
		tracer:  defaultTracer(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *API) table(name string) Table {
	if t, ok := a.tables.Load(name); ok {
		return t.(Table)
	}
	t, _ := a.tables.LoadOrStore(name, a.base.Table(name))
	return t.(Table)
}

// SelectArgs are the arguments of a listing.
type SelectArgs struct {
	Limit           int
	Offset          int
	FilterByFormula string
	OrderBy         []Sort
}

// DefaultSelectArgs returns the arguments of a listing with nothing specified.
func DefaultSelectArgs() SelectArgs {
	return SelectArgs{Limit: DefaultPageSize, Offset: DefaultOffset}
}

// SelectRecords returns the first page of a listing. Sort fields are
// translated to native column names; precedence follows args.OrderBy.
func (a *API) SelectRecords(ctx context.Context, table string, args SelectArgs) ([]*Record, error) {
	opts := SelectOptions{
		PageSize:        args.Limit,
		Offset:          args.Offset,
		FilterByFormula: args.FilterByFormula,
		Sort:            make([]Sort, 0, len(args.OrderBy)),
	}
	for _, s := range args.OrderBy {
		opts.Sort = append(opts.Sort, Sort{Field: a.columns.Native(table, s.Field), Direction: s.Direction})
	}

	ctx, span := a.startSpan(ctx, "select", table,
		attribute.Int("airtable.page_size", opts.PageSize),
		attribute.Int("airtable.offset", opts.Offset),
	)
	defer span.End()
	records, err := a.table(table).Select(ctx, opts)
	finishSpan(span, err)
	return records, err
}

// FindRecord looks up one record by id.
func (a *API) FindRecord(ctx context.Context, table, id string) (*Record, error) {
	ctx, span := a.startSpan(ctx, "find", table, attribute.String("airtable.record_id", id))
	defer span.End()
	record, err := a.table(table).Find(ctx, id)
	finishSpan(span, err)
	return record, err
}

// CreateRecord inserts a record. Field keys are translated to native column names.
func (a *API) CreateRecord(ctx context.Context, table string, fields map[string]any) (*Record, error) {
	ctx, span := a.startSpan(ctx, "create", table)
	defer span.End()
	record, err := a.table(table).Create(ctx, a.nativeFields(table, fields))
	finishSpan(span, err)
	return record, err
}

// UpdateRecord updates a record. Field keys are translated to native column names.
func (a *API) UpdateRecord(ctx context.Context, table, id string, fields map[string]any) (*Record, error) {
	ctx, span := a.startSpan(ctx, "update", table, attribute.String("airtable.record_id", id))
	defer span.End()
	record, err := a.table(table).Update(ctx, id, a.nativeFields(table, fields))
	finishSpan(span, err)
	return record, err
}

// RemoveRecord deletes a record. Any backend failure is reported as false
// rather than as an error.
func (a *API) RemoveRecord(ctx context.Context, table, id string) bool {
	ctx, span := a.startSpan(ctx, "destroy", table, attribute.String("airtable.record_id", id))
	defer span.End()
	destroyed, err := a.table(table).Destroy(ctx, id)
	finishSpan(span, err)
	if err != nil {
		a.logger.Debug("delete failed, reporting false",
			slog.String("table", table),
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return false
	}
	return destroyed
}

func (a *API) nativeFields(table string, fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for key, value := range fields {
		out[a.columns.Native(table, key)] = value
	}
	return out
}

// Select resolves a list query field.
func (a *API) Select(table string) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		args := DefaultSelectArgs()
		if v, ok := p.Args["limit"].(int); ok {
			args.Limit = v
		}
		if v, ok := p.Args["offset"].(int); ok {
			args.Offset = v
		}
		if v, ok := p.Args["filter_by_formula"].(string); ok {
			args.FilterByFormula = v
		}
		args.OrderBy = OrderBy(p, "order_by")
		return a.SelectRecords(p.Context, table, args)
	}
}

// Find resolves a lookup by id.
func (a *API) Find(table string) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		id, _ := p.Args["id"].(string)
		return recordResult(a.FindRecord(p.Context, table, id))
	}
}

// Create resolves an insert mutation.
func (a *API) Create(table string) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		fields, _ := p.Args["fields"].(map[string]any)
		return recordResult(a.CreateRecord(p.Context, table, fields))
	}
}

// Update resolves an update mutation.
func (a *API) Update(table string) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		id, _ := p.Args["id"].(string)
		fields, _ := p.Args["fields"].(map[string]any)
		return recordResult(a.UpdateRecord(p.Context, table, id, fields))
	}
}

// Remove resolves a delete mutation. It never returns an error.
func (a *API) Remove(table string) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		id, _ := p.Args["id"].(string)
		return a.RemoveRecord(p.Context, table, id), nil
	}
}

// recordResult keeps a missing record from reaching the executor as a typed nil.
func recordResult(record *Record, err error) (any, error) {
	if err != nil || record == nil {
		return nil, err
	}
	return record, nil
}
