package schema

import (
	"fmt"

	"github.com/graphql-go/graphql"

	fk "airtable-graphql/internal/fieldkind"
	"airtable-graphql/pkg/airtablekit"
)

var scalars = map[string]graphql.Type{
	fk.ScalarID:      graphql.ID,
	fk.ScalarString:  graphql.String,
	fk.ScalarInt:     graphql.Int,
	fk.ScalarFloat:   graphql.Float,
	fk.ScalarBoolean: graphql.Boolean,
}

type compiler struct {
	doc       *Document
	resolvers airtablekit.ResolverMap
	cache     map[string]graphql.Type
}

// Compile converts the document into an executable graphql-go schema, attaching
// resolvers by type and field name when given. Dangling refs compile to a
// missing field type, which graphql-go rejects while building the schema.
func Compile(doc *Document, resolvers airtablekit.ResolverMap) (graphql.Schema, error) {
	c := &compiler{
		doc:       doc,
		resolvers: resolvers,
		cache:     make(map[string]graphql.Type, len(doc.Types)),
	}

	types := make([]graphql.Type, 0, len(doc.Types))
	for _, t := range doc.Types {
		if t == doc.Query || t == doc.Mutation {
			continue
		}
		types = append(types, c.named(t.Name))
	}

	cfg := graphql.SchemaConfig{Types: types}
	if doc.Query != nil {
		cfg.Query = c.named(doc.Query.Name).(*graphql.Object)
	}
	if doc.Mutation != nil && len(doc.Mutation.Fields) > 0 {
		cfg.Mutation = c.named(doc.Mutation.Name).(*graphql.Object)
	}

	schema, err := graphql.NewSchema(cfg)
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// named returns the graphql-go type for a name, building it on first use.
// Unknown names return nil.
func (c *compiler) named(name string) graphql.Type {
	if s, ok := scalars[name]; ok {
		return s
	}
	if cached, ok := c.cache[name]; ok {
		return cached
	}
	t := c.doc.Type(name)
	if t == nil {
		return nil
	}

	var built graphql.Type
	switch t.Kind {
	case KindObject:
		built = graphql.NewObject(graphql.ObjectConfig{
			Name:        t.Name,
			Description: t.Description,
			// Fields are built lazily so object types may reference each other.
			Fields: graphql.FieldsThunk(func() graphql.Fields {
				return c.objectFields(t)
			}),
		})
	case KindInputObject:
		built = graphql.NewInputObject(graphql.InputObjectConfig{
			Name:        t.Name,
			Description: t.Description,
			Fields: graphql.InputObjectConfigFieldMapThunk(func() graphql.InputObjectConfigFieldMap {
				return c.inputFields(t)
			}),
		})
	case KindEnum:
		values := make(graphql.EnumValueConfigMap, len(t.Values))
		for _, v := range t.Values {
			values[v] = &graphql.EnumValueConfig{Value: v}
		}
		built = graphql.NewEnum(graphql.EnumConfig{
			Name:        t.Name,
			Description: t.Description,
			Values:      values,
		})
	}
	c.cache[name] = built
	return built
}

func (c *compiler) objectFields(t *Type) graphql.Fields {
	fields := make(graphql.Fields, len(t.Fields))
	for _, f := range t.Fields {
		field := &graphql.Field{
			Name:        f.Name,
			Description: f.Description,
			Type:        c.ref(f.Type),
		}
		if len(f.Args) > 0 {
			field.Args = make(graphql.FieldConfigArgument, len(f.Args))
			for _, a := range f.Args {
				field.Args[a.Name] = &graphql.ArgumentConfig{
					Type:        c.ref(a.Type),
					Description: a.Description,
				}
			}
		}
		if fn, ok := c.resolvers[t.Name][f.Name]; ok {
			field.Resolve = fn
		}
		fields[f.Name] = field
	}
	return fields
}

func (c *compiler) inputFields(t *Type) graphql.InputObjectConfigFieldMap {
	fields := make(graphql.InputObjectConfigFieldMap, len(t.Fields))
	for _, f := range t.Fields {
		fields[f.Name] = &graphql.InputObjectFieldConfig{
			Type:        c.ref(f.Type),
			Description: f.Description,
		}
	}
	return fields
}

// ref resolves a reference with its wrappers. A dangling or unknown ref
// resolves to nil.
func (c *compiler) ref(r Ref) graphql.Type {
	if r.Dangling {
		return nil
	}
	t := c.named(r.Name)
	if t == nil {
		return nil
	}
	if r.NonNull {
		t = graphql.NewNonNull(t)
	}
	if r.List {
		t = graphql.NewList(t)
	}
	return t
}
