package binding

import (
	"github.com/graphql-go/graphql"

	fk "airtable-graphql/internal/fieldkind"
	"airtable-graphql/pkg/airtablekit"
)

// ColumnMap returns the field to native column mapping consumed by airtablekit.
func (p *Plan) ColumnMap() airtablekit.Columns {
	cols := make(airtablekit.Columns, len(p.Columns))
	for _, tc := range p.Columns {
		m := make(map[string]string, len(tc.Columns))
		for _, c := range tc.Columns {
			m[c.Field] = c.Native
		}
		cols[tc.Table] = m
	}
	return cols
}

// Bind builds an in-process resolver map for the plan. It is the runtime
// equivalent of the generated CreateResolvers function.
func (p *Plan) Bind(api *airtablekit.API) airtablekit.ResolverMap {
	resolvers := make(airtablekit.ResolverMap, len(p.Types))
	for _, t := range p.Types {
		fields := make(map[string]graphql.FieldResolveFn, len(t.Bindings))
		for _, b := range t.Bindings {
			fields[b.Field] = resolverFor(api, b)
		}
		resolvers[t.Name] = fields
	}
	return resolvers
}

func resolverFor(api *airtablekit.API, b Binding) graphql.FieldResolveFn {
	switch b.Op {
	case OpSelect:
		return api.Select(b.Table)
	case OpFind:
		return api.Find(b.Table)
	case OpCreate:
		return api.Create(b.Table)
	case OpUpdate:
		return api.Update(b.Table)
	case OpRemove:
		return api.Remove(b.Table)
	case OpRecordID:
		return airtablekit.RecordID
	case OpCreatedTime:
		return airtablekit.RecordCreatedTime
	case OpGetter:
		return airtablekit.Getter(b.Key)
	}

	switch b.Resolver {
	case fk.ResolveCheckbox:
		return airtablekit.Checkbox(b.Column)
	case fk.ResolveLinkOne:
		return api.LinkOne(b.Table, b.Column)
	case fk.ResolveLinkMany:
		return api.LinkMany(b.Table, b.Column)
	case fk.ResolveMultiSelect:
		return airtablekit.MultiSelect(b.Column)
	case fk.ResolveCurrency:
		return airtablekit.Currency(b.Column, b.Symbol)
	case fk.ResolvePercent:
		return airtablekit.Percent(b.Column)
	default:
		return airtablekit.Raw(b.Column)
	}
}
