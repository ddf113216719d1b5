// Package sdl prints an assembled schema document as GraphQL SDL.
package sdl

import (
	"bytes"
	"io"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"

	"airtable-graphql/internal/schema"
)

// Print returns the SDL text of doc. Output is a pure function of the
// document: types and fields appear in declaration order.
func Print(doc *schema.Document) string {
	var buf bytes.Buffer
	Write(&buf, doc)
	return buf.String()
}

// Write writes the SDL text of doc to w.
func Write(w io.Writer, doc *schema.Document) {
	formatter.NewFormatter(w).FormatSchemaDocument(Convert(doc))
}

// Convert builds the gqlparser AST of doc. A dangling ref is emitted as a
// reference to its undefined type name.
func Convert(doc *schema.Document) *ast.SchemaDocument {
	out := &ast.SchemaDocument{}

	def := &ast.SchemaDefinition{}
	if doc.Query != nil {
		def.OperationTypes = append(def.OperationTypes, &ast.OperationTypeDefinition{
			Operation: ast.Query,
			Type:      doc.Query.Name,
		})
	}
	if doc.Mutation != nil && len(doc.Mutation.Fields) > 0 {
		def.OperationTypes = append(def.OperationTypes, &ast.OperationTypeDefinition{
			Operation: ast.Mutation,
			Type:      doc.Mutation.Name,
		})
	}
	if len(def.OperationTypes) > 0 {
		out.Schema = append(out.Schema, def)
	}

	for _, t := range doc.Types {
		if t == doc.Mutation && len(t.Fields) == 0 {
			continue
		}
		out.Definitions = append(out.Definitions, definition(t))
	}
	return out
}

func definition(t *schema.Type) *ast.Definition {
	d := &ast.Definition{
		Name:        t.Name,
		Description: t.Description,
	}
	switch t.Kind {
	case schema.KindObject:
		d.Kind = ast.Object
	case schema.KindInputObject:
		d.Kind = ast.InputObject
	case schema.KindEnum:
		d.Kind = ast.Enum
		for _, v := range t.Values {
			d.EnumValues = append(d.EnumValues, &ast.EnumValueDefinition{Name: v})
		}
		return d
	}

	for _, f := range t.Fields {
		fd := &ast.FieldDefinition{
			Name:        f.Name,
			Description: f.Description,
			Type:        typeRef(f.Type),
		}
		for _, a := range f.Args {
			fd.Arguments = append(fd.Arguments, &ast.ArgumentDefinition{
				Name:        a.Name,
				Description: a.Description,
				Type:        typeRef(a.Type),
			})
		}
		d.Fields = append(d.Fields, fd)
	}
	return d
}

func typeRef(r schema.Ref) *ast.Type {
	t := &ast.Type{NamedType: r.Name, NonNull: r.NonNull}
	if r.List {
		t = &ast.Type{Elem: t}
	}
	return t
}
