package schema

import (
	"airtable-graphql/internal/airtable"
	fk "airtable-graphql/internal/fieldkind"
	"airtable-graphql/internal/naming"
)

const (
	descRecordID    = "Unique ID of the record"
	descCreatedTime = "UTC time at the record creation."
)

// Assemble builds the type graph of base. It never fails: unknown column types
// fall back to String, and a relationship to a table missing from the base
// yields a dangling ref that Compile and schema validation reject.
//
// Names that collide after normalization are reported through namer and the
// last writer wins.
func Assemble(base airtable.Base, namer *naming.Namer) *Document {
	if namer == nil {
		namer = naming.Default()
	}
	d := newDocument()

	// Pass 1: allocate every table type so relationships can resolve by lookup.
	for _, table := range base.Tables {
		name := naming.ToType(table.Name)
		namer.ObserveType(name, table.Name)
		t, _ := d.ensure(KindObject, name)
		t.Table = table.Name
		d.registry[table.Name] = d.index[name]
	}

	// Pass 2: populate table types.
	for _, table := range base.Tables {
		t := d.TableType(table.Name)
		if t.Table != table.Name {
			continue
		}
		d.populateObject(t, table, namer)
	}

	order, _ := d.ensure(KindEnum, fk.TypeOrderBy)
	order.Values = []string{"asc", "desc"}

	names := make([]TableNames, len(base.Tables))
	for i, table := range base.Tables {
		names[i] = NamesFor(namer, table)
		d.buildOrderBy(names[i].OrderBy, table)
		if len(table.Columns) > 0 {
			d.buildFieldsInput(names[i].Fields, table, namer)
		}
	}

	d.Query = d.allocate(KindObject, QueryRoot)
	d.Mutation = d.allocate(KindObject, MutationRoot)
	for i, table := range base.Tables {
		d.addRootFields(names[i], table, namer)
	}
	return d
}

func (d *Document) populateObject(t *Type, table airtable.Table, namer *naming.Namer) {
	t.reset()
	d.clearDangling(t.Name)

	t.SetField(&Field{Name: FieldRecordID, Description: descRecordID, Type: scalar(fk.ScalarID)})
	t.SetField(&Field{Name: FieldCreatedTime, Description: descCreatedTime, Type: scalar(fk.ScalarString)})
	for _, col := range table.Columns {
		name := ColumnField(col)
		namer.ObserveField(t.Name, name, "column:"+col.Name)
		t.SetField(&Field{
			Name:   name,
			Type:   d.outputRef(t.Name, name, col),
			Source: col.Name,
		})
	}
}

// outputRef maps a column to its output type, resolving relationships through
// the table registry.
func (d *Document) outputRef(typeName, fieldName string, col airtable.Column) Ref {
	out := fk.Describe(col).Output
	ref := Ref{Name: out.Name, List: out.List}
	if out.Link {
		ref.Table = out.Table
		if target := d.TableType(out.Table); target != nil {
			ref.Name = target.Name
		} else {
			ref.Name = naming.ToType(out.Table)
			ref.Dangling = true
			d.Dangling = append(d.Dangling, DanglingRef{
				Type:   typeName,
				Field:  fieldName,
				Table:  out.Table,
				Column: col.Name,
			})
		}
		return ref
	}
	d.requireBuiltin(ref.Name)
	return ref
}

func (d *Document) inputRef(col airtable.Column) Ref {
	in := fk.Ref(col, true)
	d.requireBuiltin(in.Name)
	return Ref{Name: in.Name, List: in.List}
}

func (d *Document) clearDangling(typeName string) {
	kept := d.Dangling[:0]
	for _, ref := range d.Dangling {
		if ref.Type != typeName {
			kept = append(kept, ref)
		}
	}
	d.Dangling = kept
}

func (d *Document) buildOrderBy(name string, table airtable.Table) {
	t := d.allocate(KindInputObject, name)
	t.Table = table.Name
	t.SetField(field(ArgID, scalar(fk.TypeOrderBy)))
	for _, col := range table.Columns {
		t.SetField(&Field{Name: ColumnField(col), Type: scalar(fk.TypeOrderBy), Source: col.Name})
	}
}

func (d *Document) buildFieldsInput(name string, table airtable.Table, namer *naming.Namer) {
	t := d.allocate(KindInputObject, name)
	t.Table = table.Name
	for _, col := range table.Columns {
		fieldName := ColumnField(col)
		namer.ObserveField(name, fieldName, "column:"+col.Name)
		t.SetField(&Field{Name: fieldName, Type: d.inputRef(col), Source: col.Name})
	}
}

func (d *Document) addRootFields(names TableNames, table airtable.Table, namer *naming.Namer) {
	target := d.TableType(table.Name)
	obj := Ref{Name: target.Name}
	source := "table:" + table.Name

	var fieldsArg []*Field
	if len(table.Columns) > 0 {
		fieldsArg = []*Field{field(ArgFields, scalar(names.Fields))}
	}
	idArg := field(ArgID, required(fk.ScalarID))

	queries := []*Field{
		{
			Name:   names.List,
			Type:   Ref{Name: obj.Name, List: true},
			Source: table.Name,
			Args: []*Field{
				field(ArgLimit, scalar(fk.ScalarInt)),
				field(ArgOffset, scalar(fk.ScalarInt)),
				field(ArgFilterByFormula, scalar(fk.ScalarString)),
				field(ArgOrderBy, scalar(names.OrderBy)),
			},
		},
		{Name: names.ByPK, Type: obj, Source: table.Name, Args: []*Field{idArg}},
	}
	mutations := []*Field{
		{Name: names.Insert, Type: obj, Source: table.Name, Args: fieldsArg},
		{Name: names.Update, Type: obj, Source: table.Name, Args: append([]*Field{idArg}, fieldsArg...)},
		{Name: names.Delete, Type: scalar(fk.ScalarBoolean), Source: table.Name, Args: []*Field{idArg}},
	}

	for _, f := range queries {
		namer.ObserveField(QueryRoot, f.Name, source)
		d.Query.SetField(f)
	}
	for _, f := range mutations {
		namer.ObserveField(MutationRoot, f.Name, source)
		d.Mutation.SetField(f)
	}
}
