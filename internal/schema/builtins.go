package schema

import (
	fk "airtable-graphql/internal/fieldkind"
)

func scalar(name string) Ref          { return Ref{Name: name} }
func required(name string) Ref        { return Ref{Name: name, NonNull: true} }
func field(name string, t Ref) *Field { return &Field{Name: name, Type: t} }

// builtin describes a composite type shared by every base. deps are added
// before the type itself.
type builtin struct {
	kind   Kind
	deps   []string
	fields func() []*Field
}

var builtins = map[string]builtin{
	fk.TypeCollaborator: {
		kind: KindObject,
		fields: func() []*Field {
			return []*Field{
				field("id", required(fk.ScalarID)),
				field("email", required(fk.ScalarString)),
				field("name", scalar(fk.ScalarString)),
			}
		},
	},
	fk.TypeInputCollaborator: {
		kind: KindInputObject,
		fields: func() []*Field {
			return []*Field{
				field("email", required(fk.ScalarString)),
				field("name", scalar(fk.ScalarString)),
			}
		},
	},
	fk.TypeThumbnail: {
		kind:   KindObject,
		fields: thumbnailFields,
	},
	fk.TypeInputThumbnail: {
		kind:   KindInputObject,
		fields: thumbnailFields,
	},
	fk.TypeThumbnailGroup: {
		kind: KindObject,
		deps: []string{fk.TypeThumbnail},
		fields: func() []*Field {
			return []*Field{
				field("small", scalar(fk.TypeThumbnail)),
				field("large", scalar(fk.TypeThumbnail)),
			}
		},
	},
	fk.TypeInputThumbnailGroup: {
		kind: KindInputObject,
		deps: []string{fk.TypeInputThumbnail},
		fields: func() []*Field {
			return []*Field{
				field("small", scalar(fk.TypeInputThumbnail)),
				field("large", scalar(fk.TypeInputThumbnail)),
			}
		},
	},
	fk.TypeAttachment: {
		kind: KindObject,
		deps: []string{fk.TypeThumbnailGroup},
		fields: func() []*Field {
			return []*Field{
				field("id", required(fk.ScalarID)),
				field("size", scalar(fk.ScalarInt)),
				field("url", scalar(fk.ScalarString)),
				field("type", scalar(fk.ScalarString)),
				field("filename", scalar(fk.ScalarString)),
				field("thumbnails", scalar(fk.TypeThumbnailGroup)),
			}
		},
	},
	fk.TypeInputAttachment: {
		kind: KindInputObject,
		deps: []string{fk.TypeInputThumbnailGroup},
		fields: func() []*Field {
			return []*Field{
				field("size", scalar(fk.ScalarInt)),
				field("url", scalar(fk.ScalarString)),
				field("type", scalar(fk.ScalarString)),
				field("filename", scalar(fk.ScalarString)),
				field("thumbnails", scalar(fk.TypeInputThumbnailGroup)),
			}
		},
	},
}

func thumbnailFields() []*Field {
	return []*Field{
		field("url", scalar(fk.ScalarString)),
		field("height", scalar(fk.ScalarInt)),
		field("width", scalar(fk.ScalarInt)),
	}
}

// requireBuiltin adds the named composite type and its dependencies on first use.
// Names that are not composites are ignored.
func (d *Document) requireBuiltin(name string) {
	b, ok := builtins[name]
	if !ok || d.Type(name) != nil {
		return
	}
	for _, dep := range b.deps {
		d.requireBuiltin(dep)
	}
	t, _ := d.ensure(b.kind, name)
	for _, f := range b.fields() {
		t.SetField(f)
	}
}

// BuiltinObjects returns the composite object types that a type depends on,
// dependencies first, ending with name itself. Non-composites return nil.
func BuiltinObjects(name string) []string {
	b, ok := builtins[name]
	if !ok || b.kind != KindObject {
		return nil
	}
	var out []string
	for _, dep := range b.deps {
		out = append(out, BuiltinObjects(dep)...)
	}
	return append(out, name)
}

// BuiltinFields returns the field names of a composite type in declaration order.
func BuiltinFields(name string) []string {
	b, ok := builtins[name]
	if !ok {
		return nil
	}
	fields := b.fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}
