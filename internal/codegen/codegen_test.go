package codegen

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/packages"

	"airtable-graphql/internal/airtable"
	"airtable-graphql/internal/binding"
	"airtable-graphql/internal/codegen/codegentest"
	"airtable-graphql/internal/naming"
	"airtable-graphql/internal/schema"
	"airtable-graphql/pkg/airtablekit"
	"airtable-graphql/pkg/airtablekit/airtablekittest"
)

func testBase() airtable.Base {
	return airtable.Base{
		ID: "appTest",
		Tables: []airtable.Table{
			{
				Name: "Tasks",
				Columns: []airtable.Column{
					{Name: "Name", Type: airtable.TypeText},
					{Name: "Done", Type: airtable.TypeCheckbox},
					{Name: "Price", Type: airtable.TypeNumber, Options: airtable.ColumnOptions{Format: "currency", Symbol: "€"}},
					{Name: "Share", Type: airtable.TypeNumber, Options: airtable.ColumnOptions{Format: "percent"}},
					{Name: "Tags", Type: airtable.TypeMultiSelect},
					{Name: "Owner", Type: airtable.TypeForeignKey, Options: airtable.ColumnOptions{Relation: airtable.RelationOne, Table: "People"}},
					{Name: "Watchers", Type: airtable.TypeForeignKey, Options: airtable.ColumnOptions{Relation: airtable.RelationMany, Table: "People"}},
					{Name: "Files", Type: airtable.TypeAttachment},
					{Name: "Reviewer", Type: airtable.TypeCollaborator},
					{Name: `Say "hi"\now`, Type: airtable.TypeText},
				},
			},
			{
				Name:    "People",
				Columns: []airtable.Column{{Name: "Name", Type: airtable.TypeText}},
			},
		},
	}
}

func render(t *testing.T, base airtable.Base) []byte {
	t.Helper()
	src, err := Render(binding.Build(base, naming.Default()), DefaultOptions(), "schema_resolvers.go")
	require.NoError(t, err)
	return src
}

// generated is the parsed shape of a generated file.
type generated struct {
	file      *ast.File
	columns   map[string]map[string]string
	resolvers map[string]map[string]string
	order     []string
}

func parse(t *testing.T, src []byte) generated {
	t.Helper()
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "schema_resolvers.go", src, parser.ParseComments)
	require.NoError(t, err)

	g := generated{file: file}
	ast.Inspect(file, func(n ast.Node) bool {
		lit, ok := n.(*ast.CompositeLit)
		if !ok {
			return true
		}
		sel, ok := lit.Type.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		switch sel.Sel.Name {
		case "Columns":
			g.columns, _ = nested(t, lit)
		case "ResolverMap":
			g.resolvers, g.order = nested(t, lit)
		}
		return true
	})
	return g
}

// nested reads a two-level map literal, rendering leaf values as source text.
func nested(t *testing.T, lit *ast.CompositeLit) (map[string]map[string]string, []string) {
	t.Helper()
	out := map[string]map[string]string{}
	var order []string
	for _, elt := range lit.Elts {
		kv := elt.(*ast.KeyValueExpr)
		outer := unquote(t, kv.Key)
		order = append(order, outer)
		inner := map[string]string{}
		for _, e := range kv.Value.(*ast.CompositeLit).Elts {
			ikv := e.(*ast.KeyValueExpr)
			inner[unquote(t, ikv.Key)] = leaf(t, ikv.Value)
		}
		out[outer] = inner
	}
	return out, order
}

// leaf renders a map value: string literals unquoted, anything else as source.
func leaf(t *testing.T, e ast.Expr) string {
	t.Helper()
	if lit, ok := e.(*ast.BasicLit); ok && lit.Kind == token.STRING {
		return unquote(t, lit)
	}
	return types.ExprString(e)
}

func unquote(t *testing.T, e ast.Expr) string {
	t.Helper()
	s, err := strconv.Unquote(e.(*ast.BasicLit).Value)
	require.NoError(t, err)
	return s
}

func TestRender_FunctionSignature(t *testing.T) {
	g := parse(t, render(t, testBase()))

	assert.Equal(t, "resolvers", g.file.Name.Name)
	require.Len(t, g.file.Imports, 1)
	assert.Equal(t, strconv.Quote(DefaultRuntimeImport), g.file.Imports[0].Path.Value)

	var fn *ast.FuncDecl
	for _, decl := range g.file.Decls {
		if d, ok := decl.(*ast.FuncDecl); ok {
			fn = d
		}
	}
	require.NotNil(t, fn)
	assert.Equal(t, "CreateResolvers", fn.Name.Name)
	require.Len(t, fn.Type.Params.List, 1)
	assert.Equal(t, "airtablekit.Client", types.ExprString(fn.Type.Params.List[0].Type))
	require.Len(t, fn.Type.Results.List, 1)
	assert.Equal(t, "airtablekit.ResolverMap", types.ExprString(fn.Type.Results.List[0].Type))
}

func TestRender_HeaderComment(t *testing.T) {
	src := render(t, testBase())
	assert.Contains(t, string(src), "// Code generated by airtable-graphql. DO NOT EDIT.")
}

func TestRender_Columns(t *testing.T) {
	g := parse(t, render(t, testBase()))

	assert.Equal(t, map[string]string{"name": "Name"}, g.columns["People"])
	assert.Equal(t, "Price", g.columns["Tasks"]["price"])
	assert.Equal(t, `Say "hi"\now`, g.columns["Tasks"]["sayhinow"])
}

func TestRender_Resolvers(t *testing.T) {
	g := parse(t, render(t, testBase()))

	assert.Equal(t, []string{
		"query_root", "mutation_root",
		"airtable_attachment_thumbnail", "airtable_attachment_thumbnail_group", "airtable_attachment",
		"airtable_collaborator",
		"Tasks", "People",
	}, g.order)

	assert.Equal(t, map[string]string{
		"tasks":        `api.Select("Tasks")`,
		"task_by_pk":   `api.Find("Tasks")`,
		"people":       `api.Select("People")`,
		"person_by_pk": `api.Find("People")`,
	}, g.resolvers["query_root"])
	assert.Equal(t, `api.Remove("People")`, g.resolvers["mutation_root"]["delete_person"])
	assert.Equal(t, `airtablekit.Getter("thumbnails")`, g.resolvers["airtable_attachment"]["thumbnails"])

	tasks := g.resolvers["Tasks"]
	assert.Equal(t, "airtablekit.RecordID", tasks["_id"])
	assert.Equal(t, "airtablekit.RecordCreatedTime", tasks["_createdAt"])
	assert.Equal(t, `airtablekit.Raw("Name")`, tasks["name"])
	assert.Equal(t, `airtablekit.Checkbox("Done")`, tasks["done"])
	assert.Equal(t, `airtablekit.Currency("Price", "€")`, tasks["price"])
	assert.Equal(t, `airtablekit.Percent("Share")`, tasks["share"])
	assert.Equal(t, `airtablekit.MultiSelect("Tags")`, tasks["tags"])
	assert.Equal(t, `api.LinkOne("People", "Owner")`, tasks["owner"])
	assert.Equal(t, `api.LinkMany("People", "Watchers")`, tasks["watchers"])
	assert.Equal(t, `airtablekit.Raw("Files")`, tasks["files"])
	assert.Equal(t, `airtablekit.Raw("Reviewer")`, tasks["reviewer"])
}

func TestRender_KeysMatchSchema(t *testing.T) {
	base := testBase()
	doc := schema.Assemble(base, naming.Default())
	g := parse(t, render(t, base))

	want := map[string][]string{}
	for _, typ := range doc.Objects() {
		for _, f := range typ.Fields {
			want[typ.Name] = append(want[typ.Name], f.Name)
		}
	}
	got := map[string][]string{}
	for typeName, fields := range g.resolvers {
		for name := range fields {
			got[typeName] = append(got[typeName], name)
		}
	}

	require.Len(t, got, len(want))
	for typeName, fields := range want {
		assert.ElementsMatch(t, fields, got[typeName], typeName)
	}
}

func TestRender_Deterministic(t *testing.T) {
	first := render(t, testBase())
	second := render(t, testBase())
	assert.Equal(t, string(first), string(second))
}

func TestRender_DuplicateNamesProduceUniqueKeys(t *testing.T) {
	base := airtable.Base{ID: "app", Tables: []airtable.Table{
		{Name: "Tasks", Columns: []airtable.Column{
			{Name: "Due Date", Type: airtable.TypeText},
			{Name: "Due-Date", Type: airtable.TypeCheckbox},
		}},
		{Name: "Tasks!", Columns: []airtable.Column{
			{Name: "Due Date", Type: airtable.TypeCheckbox},
		}},
	}}
	g := parse(t, render(t, base))

	assert.Equal(t, []string{"query_root", "mutation_root", "Tasks"}, g.order)
	assert.Equal(t, `airtablekit.Checkbox("Due Date")`, g.resolvers["Tasks"]["dueDate"])
	assert.Equal(t, `api.Select("Tasks!")`, g.resolvers["query_root"]["tasks"])
	assert.Equal(t, map[string]string{"dueDate": "Due-Date"}, g.columns["Tasks"])
}

func TestRender_NoTables(t *testing.T) {
	src := render(t, airtable.Base{ID: "appEmpty"})
	g := parse(t, src)

	assert.NotContains(t, string(src), "NewAPI")
	assert.Equal(t, []string{"query_root"}, g.order)
	assert.Empty(t, g.resolvers["query_root"])
}

func TestRender_CustomOptions(t *testing.T) {
	plan := binding.Build(testBase(), naming.Default())
	src, err := Render(plan, Options{Package: "gen", RuntimeImport: "example.com/kit/airtablekit", FuncName: "Resolvers"}, "out.go")
	require.NoError(t, err)

	g := parse(t, src)
	assert.Equal(t, "gen", g.file.Name.Name)
	assert.Equal(t, `"example.com/kit/airtablekit"`, g.file.Imports[0].Path.Value)
	assert.Contains(t, string(src), "func Resolvers(instance airtablekit.Client) airtablekit.ResolverMap")
}

func TestGenerate_GoString(t *testing.T) {
	code := Generate(binding.Build(testBase(), naming.Default()), DefaultOptions()).GoString()
	assert.Contains(t, code, "package resolvers")
	assert.Contains(t, code, "NewAPI")
}

type importerFunc func(path string) (*types.Package, error)

func (f importerFunc) Import(path string) (*types.Package, error) { return f(path) }

// typeCheck checks a rendered file against the runtime kit of this module.
func typeCheck(t *testing.T, src []byte) error {
	t.Helper()
	pkgs, err := packages.Load(&packages.Config{Mode: packages.NeedName | packages.NeedTypes}, DefaultRuntimeImport)
	require.NoError(t, err)
	require.Len(t, pkgs, 1)
	kit := pkgs[0]
	require.Empty(t, kit.Errors)

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "schema_resolvers.go", src, 0)
	require.NoError(t, err)

	conf := types.Config{Importer: importerFunc(func(path string) (*types.Package, error) {
		if path == kit.PkgPath {
			return kit.Types, nil
		}
		return nil, fmt.Errorf("unexpected import %q", path)
	})}
	_, err = conf.Check("resolvers", fset, []*ast.File{file}, nil)
	return err
}

func TestRender_TypeChecksAgainstRuntime(t *testing.T) {
	require.NoError(t, typeCheck(t, render(t, testBase())))
	require.NoError(t, typeCheck(t, render(t, airtable.Base{ID: "appEmpty"})))
}

func TestRender_TypeCheckRejectsBrokenCall(t *testing.T) {
	src := render(t, testBase())
	broken := []byte(strings.Replace(string(src), `airtablekit.Checkbox("Done")`, `airtablekit.Checkbox("Done", "extra")`, 1))
	require.NotEqual(t, string(src), string(broken))
	assert.Error(t, typeCheck(t, broken))
}

func sampleBase() airtable.Base {
	return airtable.Base{
		ID: "appSample",
		Tables: []airtable.Table{
			{
				Name: "Tasks",
				Columns: []airtable.Column{
					{Name: "Name", Type: airtable.TypeText},
					{Name: "Done", Type: airtable.TypeCheckbox},
					{Name: "Price", Type: airtable.TypeNumber, Options: airtable.ColumnOptions{Format: "currency", Symbol: "$"}},
					{Name: "Share", Type: airtable.TypeNumber, Options: airtable.ColumnOptions{Format: "percent"}},
					{Name: "Owner", Type: airtable.TypeForeignKey, Options: airtable.ColumnOptions{Relation: airtable.RelationOne, Table: "People"}},
				},
			},
			{
				Name:    "People",
				Columns: []airtable.Column{{Name: "Name", Type: airtable.TypeText}},
			},
		},
	}
}

func TestRender_MatchesCompiledSample(t *testing.T) {
	opts := DefaultOptions()
	opts.Package = "codegentest"
	src, err := Render(binding.Build(sampleBase(), naming.Default()), opts, "sample_resolvers.go")
	require.NoError(t, err)

	compiled, err := os.ReadFile(filepath.Join("codegentest", "sample_resolvers.go"))
	require.NoError(t, err)

	got, want := parse(t, src), parse(t, compiled)
	assert.Equal(t, want.file.Name.Name, got.file.Name.Name)
	assert.Equal(t, want.order, got.order)
	assert.Equal(t, want.columns, got.columns)
	assert.Equal(t, want.resolvers, got.resolvers)
}

func TestGeneratedResolvers_MatchInProcessBinding(t *testing.T) {
	base := sampleBase()
	doc := schema.Assemble(base, naming.Default())
	plan := binding.Build(base, naming.Default())

	client := airtablekittest.NewClient()
	seed := client.Seed(base.ID)
	seed.Seed("People").Put(&airtablekit.Record{ID: "rec1", CreatedTime: "t1", Fields: map[string]any{"Name": "Ada"}})
	seed.Seed("Tasks").Put(&airtablekit.Record{
		ID:          "recT",
		CreatedTime: "t2",
		Fields:      map[string]any{"Name": "Ship", "Done": true, "Price": 12.5, "Share": 40, "Owner": "rec1"},
	})

	generated, err := schema.Compile(doc, codegentest.CreateResolvers(client))
	require.NoError(t, err)
	inProcess, err := schema.Compile(doc, plan.Bind(airtablekit.NewAPI(client, base.ID, plan.ColumnMap())))
	require.NoError(t, err)

	query := `{
		tasks { _id _createdAt name done price share owner { name } }
		person_by_pk(id: "rec1") { _id name }
	}`
	want := graphql.Do(graphql.Params{Schema: inProcess, RequestString: query})
	got := graphql.Do(graphql.Params{Schema: generated, RequestString: query})
	require.Empty(t, want.Errors)
	require.Empty(t, got.Errors)
	assert.Equal(t, want.Data, got.Data)

	task := got.Data.(map[string]any)["tasks"].([]any)[0].(map[string]any)
	assert.Equal(t, "$12.5", task["price"])
	assert.Equal(t, "40%", task["share"])
	assert.Equal(t, map[string]any{"name": "Ada"}, task["owner"])
}
