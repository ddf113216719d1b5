package airtablekit

import (
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortPairs(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]any
		keys   []string
		want   []Sort
	}{
		{
			name:   "document order",
			values: map[string]any{"age": "desc", "name": "asc"},
			keys:   []string{"age", "name"},
			want:   []Sort{{Field: "age", Direction: "desc"}, {Field: "name", Direction: "asc"}},
		},
		{
			name:   "reversed document order",
			values: map[string]any{"age": "desc", "name": "asc"},
			keys:   []string{"name", "age"},
			want:   []Sort{{Field: "name", Direction: "asc"}, {Field: "age", Direction: "desc"}},
		},
		{
			name:   "no document order falls back to sorted keys",
			values: map[string]any{"name": "asc", "age": "desc"},
			want:   []Sort{{Field: "age", Direction: "desc"}, {Field: "name", Direction: "asc"}},
		},
		{
			name:   "null directions are skipped",
			values: map[string]any{"age": nil, "name": "asc"},
			keys:   []string{"age", "name"},
			want:   []Sort{{Field: "name", Direction: "asc"}},
		},
		{
			name:   "duplicate keys count once",
			values: map[string]any{"age": "asc"},
			keys:   []string{"age", "age"},
			want:   []Sort{{Field: "age", Direction: "asc"}},
		},
		{
			name:   "empty",
			values: map[string]any{},
			want:   []Sort{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SortPairs(tt.values, tt.keys))
		})
	}
}

func sortSchema(t *testing.T) graphql.Schema {
	t.Helper()
	direction := graphql.NewEnum(graphql.EnumConfig{
		Name: "order_by",
		Values: graphql.EnumValueConfigMap{
			"asc":  &graphql.EnumValueConfig{Value: "asc"},
			"desc": &graphql.EnumValueConfig{Value: "desc"},
		},
	})
	orderBy := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "Person_order_by",
		Fields: graphql.InputObjectConfigFieldMap{
			"id":   &graphql.InputObjectFieldConfig{Type: direction},
			"age":  &graphql.InputObjectFieldConfig{Type: direction},
			"name": &graphql.InputObjectFieldConfig{Type: direction},
		},
	})
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "query_root",
		Fields: graphql.Fields{
			"people": &graphql.Field{
				Type: graphql.NewList(graphql.String),
				Args: graphql.FieldConfigArgument{
					"order_by": &graphql.ArgumentConfig{Type: orderBy},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					var out []string
					for _, s := range OrderBy(p, "order_by") {
						out = append(out, s.Field+":"+s.Direction)
					}
					return out, nil
				},
			},
		},
	})
	schema, err := graphql.NewSchema(graphql.SchemaConfig{Query: query})
	require.NoError(t, err)
	return schema
}

func TestOrderBy_FollowsDocumentOrder(t *testing.T) {
	schema := sortSchema(t)

	tests := []struct {
		query string
		want  []any
	}{
		{`{ people(order_by: {age: desc, name: asc}) }`, []any{"age:desc", "name:asc"}},
		{`{ people(order_by: {name: asc, age: desc}) }`, []any{"name:asc", "age:desc"}},
		{`{ people(order_by: {id: desc}) }`, []any{"id:desc"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			result := graphql.Do(graphql.Params{Schema: schema, RequestString: tt.query})
			require.Empty(t, result.Errors)
			data := result.Data.(map[string]any)
			assert.Equal(t, tt.want, data["people"])
		})
	}
}

func TestOrderBy_VariableUsesSortedKeys(t *testing.T) {
	schema := sortSchema(t)

	result := graphql.Do(graphql.Params{
		Schema:        schema,
		RequestString: `query ($o: Person_order_by) { people(order_by: $o) }`,
		VariableValues: map[string]any{
			"o": map[string]any{"name": "asc", "age": "desc"},
		},
	})
	require.Empty(t, result.Errors)
	data := result.Data.(map[string]any)
	assert.Equal(t, []any{"age:desc", "name:asc"}, data["people"])
}

func TestOrderBy_Absent(t *testing.T) {
	assert.Equal(t, []Sort{}, OrderBy(graphql.ResolveParams{Args: map[string]any{}}, "order_by"))
}
