package sdl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"airtable-graphql/internal/airtable"
	"airtable-graphql/internal/naming"
	"airtable-graphql/internal/schema"
)

func testBase() airtable.Base {
	return airtable.Base{
		ID: "appTest",
		Tables: []airtable.Table{
			{
				Name: "Tasks",
				Columns: []airtable.Column{
					{Name: "Name", Type: airtable.TypeText},
					{Name: "Price", Type: airtable.TypeNumber, Options: airtable.ColumnOptions{Format: "currency", Symbol: "$"}},
					{Name: "Owner", Type: airtable.TypeForeignKey, Options: airtable.ColumnOptions{Relation: airtable.RelationOne, Table: "People"}},
					{Name: "Watchers", Type: airtable.TypeForeignKey, Options: airtable.ColumnOptions{Relation: airtable.RelationMany, Table: "People"}},
					{Name: "Files", Type: airtable.TypeAttachment},
					{Name: "Reviewer", Type: airtable.TypeCollaborator},
				},
			},
			{
				Name: "People",
				Columns: []airtable.Column{
					{Name: "Name", Type: airtable.TypeText},
				},
			},
		},
	}
}

func load(t *testing.T, text string) *ast.Schema {
	t.Helper()
	s, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: text})
	require.Nil(t, err)
	return s
}

func fieldNames(def *ast.Definition) []string {
	names := make([]string, 0, len(def.Fields))
	for _, f := range def.Fields {
		if strings.HasPrefix(f.Name, "__") {
			continue
		}
		names = append(names, f.Name)
	}
	return names
}

func TestPrint_ReparsesAsValidSchema(t *testing.T) {
	text := Print(schema.Assemble(testBase(), naming.Default()))
	s := load(t, text)

	require.NotNil(t, s.Query)
	assert.Equal(t, "query_root", s.Query.Name)
	require.NotNil(t, s.Mutation)
	assert.Equal(t, "mutation_root", s.Mutation.Name)

	tasks := s.Types["Tasks"]
	require.NotNil(t, tasks)
	assert.Equal(t, ast.Object, tasks.Kind)
	assert.Equal(t, []string{"_id", "_createdAt", "name", "price", "owner", "watchers", "files", "reviewer"}, fieldNames(tasks))
	assert.Equal(t, "Unique ID of the record", tasks.Fields.ForName("_id").Description)
	assert.Equal(t, "People", tasks.Fields.ForName("owner").Type.String())
	assert.Equal(t, "[People]", tasks.Fields.ForName("watchers").Type.String())
	assert.Equal(t, "[airtable_attachment]", tasks.Fields.ForName("files").Type.String())
	assert.Equal(t, "airtable_collaborator", tasks.Fields.ForName("reviewer").Type.String())
	assert.Equal(t, "String", tasks.Fields.ForName("price").Type.String())
}

func TestPrint_RootFields(t *testing.T) {
	s := load(t, Print(schema.Assemble(testBase(), naming.Default())))

	assert.Equal(t, []string{"tasks", "task_by_pk", "people", "person_by_pk"}, fieldNames(s.Query))
	list := s.Query.Fields.ForName("tasks")
	assert.Equal(t, "[Tasks]", list.Type.String())
	var args []string
	for _, a := range list.Arguments {
		args = append(args, a.Name+":"+a.Type.String())
	}
	assert.Equal(t, []string{"limit:Int", "offset:Int", "filter_by_formula:String", "order_by:Task_order_by"}, args)
	assert.Equal(t, "ID!", s.Query.Fields.ForName("person_by_pk").Arguments.ForName("id").Type.String())

	assert.Equal(t, []string{
		"insert_task", "update_task", "delete_task",
		"insert_person", "update_person", "delete_person",
	}, fieldNames(s.Mutation))
	assert.Equal(t, "Boolean", s.Mutation.Fields.ForName("delete_task").Type.String())
	assert.Equal(t, "Task_fields", s.Mutation.Fields.ForName("update_task").Arguments.ForName("fields").Type.String())
}

func TestPrint_InputAndEnumTypes(t *testing.T) {
	s := load(t, Print(schema.Assemble(testBase(), naming.Default())))

	enum := s.Types["order_by"]
	require.NotNil(t, enum)
	assert.Equal(t, ast.Enum, enum.Kind)
	require.Len(t, enum.EnumValues, 2)
	assert.Equal(t, "asc", enum.EnumValues[0].Name)
	assert.Equal(t, "desc", enum.EnumValues[1].Name)

	fields := s.Types["Task_fields"]
	require.NotNil(t, fields)
	assert.Equal(t, ast.InputObject, fields.Kind)
	assert.Equal(t, "ID", fields.Fields.ForName("owner").Type.String())
	assert.Equal(t, "[ID]", fields.Fields.ForName("watchers").Type.String())
	assert.Equal(t, "[airtable_input_attachment]", fields.Fields.ForName("files").Type.String())
	assert.Equal(t, "airtable_input_collaborator", fields.Fields.ForName("reviewer").Type.String())

	collab := s.Types["airtable_collaborator"]
	require.NotNil(t, collab)
	assert.Equal(t, "ID!", collab.Fields.ForName("id").Type.String())
	assert.Equal(t, "String!", collab.Fields.ForName("email").Type.String())
}

func TestPrint_Deterministic(t *testing.T) {
	first := Print(schema.Assemble(testBase(), naming.Default()))
	second := Print(schema.Assemble(testBase(), naming.Default()))
	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)
}

func TestPrint_DanglingReferenceIsInvalid(t *testing.T) {
	base := airtable.Base{Tables: []airtable.Table{{
		Name: "Tasks",
		Columns: []airtable.Column{
			{Name: "Owner", Type: airtable.TypeForeignKey, Options: airtable.ColumnOptions{Relation: airtable.RelationOne, Table: "Ghosts"}},
		},
	}}}
	text := Print(schema.Assemble(base, naming.Default()))
	assert.Contains(t, text, "owner: Ghosts")

	_, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: text})
	assert.NotNil(t, err)
}

func TestConvert_SchemaDefinition(t *testing.T) {
	doc := Convert(schema.Assemble(testBase(), naming.Default()))
	require.Len(t, doc.Schema, 1)
	ops := doc.Schema[0].OperationTypes
	require.Len(t, ops, 2)
	assert.Equal(t, ast.Query, ops[0].Operation)
	assert.Equal(t, "query_root", ops[0].Type)
	assert.Equal(t, ast.Mutation, ops[1].Operation)
}
