// Package airtablekit is the runtime used by generated resolver code. It binds
// GraphQL fields to CRUD calls against an Airtable-style backend reached
// through the Client interface.
package airtablekit

import (
	"context"
	"errors"

	"github.com/graphql-go/graphql"
)

// ErrUnexpectedLinkValue is returned when a stored relationship value has a
// shape other than a record id (single links) or a list of record ids (multi links).
var ErrUnexpectedLinkValue = errors.New("airtablekit: unexpected link value")

// Record is one stored row.
type Record struct {
	ID          string         `json:"id"`
	CreatedTime string         `json:"createdTime"`
	Fields      map[string]any `json:"fields"`
}

// Sort is one sort key of a listing, in precedence order.
type Sort struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

// SelectOptions control a paged listing.
type SelectOptions struct {
	PageSize        int
	Offset          int
	FilterByFormula string
	Sort            []Sort
}

// Table is a handle on one backend table.
type Table interface {
	// Select returns the first page of records matching opts.
	Select(ctx context.Context, opts SelectOptions) ([]*Record, error)
	Find(ctx context.Context, id string) (*Record, error)
	Create(ctx context.Context, fields map[string]any) (*Record, error)
	Update(ctx context.Context, id string, fields map[string]any) (*Record, error)
	// Destroy deletes a record and reports whether it was deleted.
	Destroy(ctx context.Context, id string) (bool, error)
}

// Base opens table handles of one base.
type Base interface {
	Table(name string) Table
}

// Client is a connected backend client.
type Client interface {
	Base(id string) Base
}

// ResolverMap maps type names to field names to resolvers.
type ResolverMap map[string]map[string]graphql.FieldResolveFn

// Columns maps table names to field names to native column names.
type Columns map[string]map[string]string

// Native returns the native column name of a field, or the field name itself
// when the table has no such field.
func (c Columns) Native(table, field string) string {
	if native, ok := c[table][field]; ok {
		return native
	}
	return field
}
