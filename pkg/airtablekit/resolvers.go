package airtablekit

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/graphql-go/graphql"
	"golang.org/x/sync/errgroup"
)

// fieldValue returns the stored value of a native column on a resolved source.
func fieldValue(source any, column string) any {
	switch s := source.(type) {
	case *Record:
		if s == nil {
			return nil
		}
		return s.Fields[column]
	case Record:
		return s.Fields[column]
	case map[string]any:
		if fields, ok := s["fields"].(map[string]any); ok {
			return fields[column]
		}
		return s[column]
	default:
		return nil
	}
}

// RecordID resolves the record id.
func RecordID(p graphql.ResolveParams) (any, error) {
	switch s := p.Source.(type) {
	case *Record:
		if s != nil {
			return s.ID, nil
		}
	case Record:
		return s.ID, nil
	case map[string]any:
		return s["id"], nil
	}
	return nil, nil
}

// RecordCreatedTime resolves the record creation time.
func RecordCreatedTime(p graphql.ResolveParams) (any, error) {
	switch s := p.Source.(type) {
	case *Record:
		if s != nil {
			return s.CreatedTime, nil
		}
	case Record:
		return s.CreatedTime, nil
	case map[string]any:
		return s["createdTime"], nil
	}
	return nil, nil
}

// Getter resolves a key of a nested composite value such as an attachment.
func Getter(key string) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		if m, ok := p.Source.(map[string]any); ok {
			return m[key], nil
		}
		return nil, nil
	}
}

// Raw resolves the stored value unmodified.
func Raw(column string) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		return fieldValue(p.Source, column), nil
	}
}

// Checkbox resolves the stored value, or false when absent.
func Checkbox(column string) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		v := fieldValue(p.Source, column)
		if v == nil {
			return false, nil
		}
		return v, nil
	}
}

// MultiSelect resolves the stored choices, or an empty list when absent.
func MultiSelect(column string) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		v := fieldValue(p.Source, column)
		if v == nil {
			return []string{}, nil
		}
		return v, nil
	}
}

// Currency renders the stored number as "<symbol><value>". Absent values
// resolve to null.
func Currency(column, symbol string) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		v := fieldValue(p.Source, column)
		if v == nil {
			return nil, nil
		}
		return symbol + FormatNumber(v), nil
	}
}

// Percent renders the stored number as "<value>%". Absent values resolve to null.
func Percent(column string) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		v := fieldValue(p.Source, column)
		if v == nil {
			return nil, nil
		}
		return FormatNumber(v) + "%", nil
	}
}

// FormatNumber renders a stored number in its shortest decimal form.
func FormatNumber(v any) string {
	switch n := v.(type) {
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32)
	case int:
		return strconv.Itoa(n)
	case int64:
		return strconv.FormatInt(n, 10)
	case json.Number:
		return n.String()
	case string:
		return n
	default:
		return fmt.Sprint(v)
	}
}

// LinkOne resolves a single linked record from the table related by column.
// The stored value is either a record id or a list of ids, as the backend
// exports single links; a list resolves to its first id. A missing link or
// an empty list resolves to null.
func (a *API) LinkOne(table, column string) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		var id string
		switch v := fieldValue(p.Source, column).(type) {
		case nil:
		case string:
			id = v
		case []string, []any:
			ids, err := linkIDs(v)
			if err != nil {
				return nil, fmt.Errorf("%w: %s.%s", err, table, column)
			}
			if len(ids) > 0 {
				id = ids[0]
			}
		default:
			return nil, fmt.Errorf("%w: %s.%s holds %T", ErrUnexpectedLinkValue, table, column, v)
		}
		if id == "" {
			return nil, nil
		}
		return recordResult(a.FindRecord(p.Context, table, id))
	}
}

// LinkMany resolves every linked record from the table related by column.
// Lookups run concurrently; results keep the order of the stored ids and no
// partial result is returned when a lookup fails.
func (a *API) LinkMany(table, column string) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		ids, err := linkIDs(fieldValue(p.Source, column))
		if err != nil {
			return nil, fmt.Errorf("%w: %s.%s", err, table, column)
		}
		if len(ids) == 0 {
			return []*Record{}, nil
		}
		return a.findAll(p.Context, table, ids)
	}
}

func (a *API) findAll(ctx context.Context, table string, ids []string) ([]*Record, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	records := make([]*Record, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			record, err := a.FindRecord(ctx, table, id)
			if err != nil {
				return err
			}
			records[i] = record
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

// linkIDs reads a multi-link value. Anything other than a list is treated as
// no links.
func linkIDs(v any) ([]string, error) {
	switch ids := v.(type) {
	case []string:
		return ids, nil
	case []any:
		out := make([]string, len(ids))
		for i, raw := range ids {
			id, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("%w: element %d holds %T", ErrUnexpectedLinkValue, i, raw)
			}
			out[i] = id
		}
		return out, nil
	default:
		return nil, nil
	}
}
