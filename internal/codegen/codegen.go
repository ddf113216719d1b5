// Package codegen renders a resolver plan as Go source: one exported function
// that, given a backend client, returns the resolver map of the generated
// schema.
package codegen

import (
	"bytes"
	"fmt"

	"github.com/dave/jennifer/jen"
	"golang.org/x/tools/imports"

	"airtable-graphql/internal/binding"
	fk "airtable-graphql/internal/fieldkind"
)

// DefaultRuntimeImport is the import path of the runtime kit.
const DefaultRuntimeImport = "airtable-graphql/pkg/airtablekit"

// Options control the generated file.
type Options struct {
	// Package is the package clause of the generated file.
	Package string
	// RuntimeImport is the import path of the runtime kit.
	RuntimeImport string
	// FuncName is the name of the generated function.
	FuncName string
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		Package:       "resolvers",
		RuntimeImport: DefaultRuntimeImport,
		FuncName:      "CreateResolvers",
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Package == "" {
		o.Package = d.Package
	}
	if o.RuntimeImport == "" {
		o.RuntimeImport = d.RuntimeImport
	}
	if o.FuncName == "" {
		o.FuncName = d.FuncName
	}
	return o
}

type generator struct {
	rt string
}

// Generate builds the jennifer file for a plan. Map entries follow plan order.
func Generate(plan *binding.Plan, opts Options) *jen.File {
	opts = opts.withDefaults()
	g := &generator{rt: opts.RuntimeImport}

	f := jen.NewFile(opts.Package)
	f.HeaderComment("Code generated by airtable-graphql. DO NOT EDIT.")
	f.ImportName(g.rt, "airtablekit")

	var body []jen.Code
	if usesAPI(plan) {
		body = append(body, jen.Id("api").Op(":=").Qual(g.rt, "NewAPI").Call(
			jen.Id("instance"),
			jen.Lit(plan.BaseID),
			jen.Qual(g.rt, "Columns").ValuesFunc(entries(g.columns(plan))),
		))
	}
	body = append(body, jen.Return(jen.Qual(g.rt, "ResolverMap").ValuesFunc(entries(g.types(plan)))))

	f.Commentf("%s returns the resolvers of every query, mutation, and object field.", opts.FuncName)
	f.Func().Id(opts.FuncName).
		Params(jen.Id("instance").Qual(g.rt, "Client")).
		Qual(g.rt, "ResolverMap").
		Block(body...)
	return f
}

// Render returns the formatted source of the generated file.
func Render(plan *binding.Plan, opts Options, filename string) ([]byte, error) {
	var buf bytes.Buffer
	if err := Generate(plan, opts).Render(&buf); err != nil {
		return nil, fmt.Errorf("render resolvers: %w", err)
	}
	formatted, err := imports.Process(filename, buf.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("format resolvers: %w", err)
	}
	return formatted, nil
}

type entry struct {
	key   string
	value jen.Code
}

// entries renders key/value pairs one per line in the given order.
func entries(items []entry) func(*jen.Group) {
	return func(g *jen.Group) {
		for _, item := range items {
			g.Line().Lit(item.key).Op(":").Add(item.value)
		}
		if len(items) > 0 {
			g.Line()
		}
	}
}

func (g *generator) columns(plan *binding.Plan) []entry {
	out := make([]entry, 0, len(plan.Columns))
	for _, tc := range plan.Columns {
		fields := make([]entry, 0, len(tc.Columns))
		for _, c := range tc.Columns {
			fields = append(fields, entry{key: c.Field, value: jen.Lit(c.Native)})
		}
		out = append(out, entry{key: tc.Table, value: jen.ValuesFunc(entries(fields))})
	}
	return out
}

func (g *generator) types(plan *binding.Plan) []entry {
	out := make([]entry, 0, len(plan.Types))
	for _, t := range plan.Types {
		fields := make([]entry, 0, len(t.Bindings))
		for _, b := range t.Bindings {
			fields = append(fields, entry{key: b.Field, value: g.resolver(b)})
		}
		out = append(out, entry{key: t.Name, value: jen.ValuesFunc(entries(fields))})
	}
	return out
}

func (g *generator) resolver(b binding.Binding) jen.Code {
	api := func(method string, args ...jen.Code) jen.Code {
		return jen.Id("api").Dot(method).Call(args...)
	}
	kit := func(name string, args ...jen.Code) jen.Code {
		return jen.Qual(g.rt, name).Call(args...)
	}

	switch b.Op {
	case binding.OpSelect:
		return api("Select", jen.Lit(b.Table))
	case binding.OpFind:
		return api("Find", jen.Lit(b.Table))
	case binding.OpCreate:
		return api("Create", jen.Lit(b.Table))
	case binding.OpUpdate:
		return api("Update", jen.Lit(b.Table))
	case binding.OpRemove:
		return api("Remove", jen.Lit(b.Table))
	case binding.OpRecordID:
		return jen.Qual(g.rt, "RecordID")
	case binding.OpCreatedTime:
		return jen.Qual(g.rt, "RecordCreatedTime")
	case binding.OpGetter:
		return kit("Getter", jen.Lit(b.Key))
	}

	switch b.Resolver {
	case fk.ResolveCheckbox:
		return kit("Checkbox", jen.Lit(b.Column))
	case fk.ResolveLinkOne:
		return api("LinkOne", jen.Lit(b.Table), jen.Lit(b.Column))
	case fk.ResolveLinkMany:
		return api("LinkMany", jen.Lit(b.Table), jen.Lit(b.Column))
	case fk.ResolveMultiSelect:
		return kit("MultiSelect", jen.Lit(b.Column))
	case fk.ResolveCurrency:
		return kit("Currency", jen.Lit(b.Column), jen.Lit(b.Symbol))
	case fk.ResolvePercent:
		return kit("Percent", jen.Lit(b.Column))
	default:
		return kit("Raw", jen.Lit(b.Column))
	}
}

// usesAPI reports whether any binding needs the backend API.
func usesAPI(plan *binding.Plan) bool {
	for _, t := range plan.Types {
		for _, b := range t.Bindings {
			switch b.Op {
			case binding.OpSelect, binding.OpFind, binding.OpCreate, binding.OpUpdate, binding.OpRemove:
				return true
			case binding.OpColumn:
				if b.Resolver == fk.ResolveLinkOne || b.Resolver == fk.ResolveLinkMany {
					return true
				}
			}
		}
	}
	return false
}
