// Package schema assembles the GraphQL type graph of a base.
//
// The graph is held in an arena (Document) built in two passes: every table's
// object type is allocated first, then fields are populated, so foreign keys
// resolve by lookup regardless of table order. The arena keeps declaration
// order, which the SDL printer relies on for stable output, and is converted
// into an executable graphql-go schema by Compile.
package schema

// Kind is the kind of a named type in the arena.
type Kind int

const (
	KindObject Kind = iota
	KindInputObject
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindInputObject:
		return "input_object"
	case KindEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// Ref is a reference to a named type with its wrappers.
//
// A dangling ref points at a table that is not part of the base. Its Name is
// what the table's type would have been called; no such type exists.
type Ref struct {
	Name     string
	List     bool
	NonNull  bool
	Dangling bool
	// Table is the foreign table of a relationship ref.
	Table string
}

// Field is a field of an object or input object, or an argument of a field.
type Field struct {
	Name        string
	Description string
	Type        Ref
	Args        []*Field
	// Source is the column or table the field was derived from, empty for
	// fixed fields.
	Source string
}

// Arg returns the named argument, or nil.
func (f *Field) Arg(name string) *Field {
	for _, a := range f.Args {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// Type is a named object, input object, or enum.
type Type struct {
	Kind        Kind
	Name        string
	Description string
	Fields      []*Field
	Values      []string
	// Table is set on object types that represent a table.
	Table string

	fieldIndex map[string]int
}

// SetField adds f, or replaces the field of the same name in place.
func (t *Type) SetField(f *Field) {
	if t.fieldIndex == nil {
		t.fieldIndex = make(map[string]int)
	}
	if i, ok := t.fieldIndex[f.Name]; ok {
		t.Fields[i] = f
		return
	}
	t.fieldIndex[f.Name] = len(t.Fields)
	t.Fields = append(t.Fields, f)
}

// Field returns the named field, or nil.
func (t *Type) Field(name string) *Field {
	if i, ok := t.fieldIndex[name]; ok {
		return t.Fields[i]
	}
	return nil
}

func (t *Type) reset() {
	t.Fields = nil
	t.Values = nil
	t.fieldIndex = nil
}

// DanglingRef records a relationship to a table missing from the base.
type DanglingRef struct {
	Type   string
	Field  string
	Table  string
	Column string
}

// Document is the arena of named types. Types are kept in declaration order.
type Document struct {
	Types    []*Type
	Query    *Type
	Mutation *Type
	Dangling []DanglingRef

	index    map[string]int
	registry map[string]int
}

func newDocument() *Document {
	return &Document{
		index:    make(map[string]int),
		registry: make(map[string]int),
	}
}

// Type returns the named type, or nil.
func (d *Document) Type(name string) *Type {
	if i, ok := d.index[name]; ok {
		return d.Types[i]
	}
	return nil
}

// TableType returns the object type registered for a table, or nil.
func (d *Document) TableType(table string) *Type {
	if i, ok := d.registry[table]; ok {
		return d.Types[i]
	}
	return nil
}

// Objects returns every object type, including the roots, in declaration order.
func (d *Document) Objects() []*Type {
	var out []*Type
	for _, t := range d.Types {
		if t.Kind == KindObject {
			out = append(out, t)
		}
	}
	return out
}

// FieldCount returns the number of fields across all object and input types.
func (d *Document) FieldCount() int {
	n := 0
	for _, t := range d.Types {
		n += len(t.Fields)
	}
	return n
}

// allocate returns the slot for name, creating it when absent. An existing
// slot is cleared and reused so that the last writer of a name wins while
// keeping its first declaration position.
func (d *Document) allocate(kind Kind, name string) *Type {
	if i, ok := d.index[name]; ok {
		t := d.Types[i]
		t.Kind = kind
		t.reset()
		return t
	}
	t := &Type{Kind: kind, Name: name}
	d.index[name] = len(d.Types)
	d.Types = append(d.Types, t)
	return t
}

// ensure returns the named type, allocating it only when absent.
func (d *Document) ensure(kind Kind, name string) (*Type, bool) {
	if t := d.Type(name); t != nil {
		return t, false
	}
	return d.allocate(kind, name), true
}
