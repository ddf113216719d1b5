// Package binding derives the resolver plan of a base: for every object type
// and field of the generated schema, which runtime operation produces its
// value. The plan drives both in-process resolver maps and generated code.
package binding

import (
	"airtable-graphql/internal/airtable"
	fk "airtable-graphql/internal/fieldkind"
	"airtable-graphql/internal/naming"
	"airtable-graphql/internal/schema"
)

// Op is the runtime operation bound to a field.
type Op int

const (
	OpSelect Op = iota
	OpFind
	OpCreate
	OpUpdate
	OpRemove
	OpRecordID
	OpCreatedTime
	OpGetter
	OpColumn
)

var opNames = [...]string{
	OpSelect:      "select",
	OpFind:        "find",
	OpCreate:      "create",
	OpUpdate:      "update",
	OpRemove:      "remove",
	OpRecordID:    "record_id",
	OpCreatedTime: "created_time",
	OpGetter:      "getter",
	OpColumn:      "column",
}

func (o Op) String() string {
	if o < 0 || int(o) >= len(opNames) {
		return "unknown"
	}
	return opNames[o]
}

// Binding binds one field to an operation.
type Binding struct {
	Field string
	Op    Op
	// Table is the table acted on. For relationship columns it is the
	// related table.
	Table string
	// Column is the native column name read by OpColumn.
	Column string
	// Key is the value key read by OpGetter.
	Key string
	// Resolver selects the column behavior of OpColumn.
	Resolver fk.Resolver
	// Symbol is the currency symbol of ResolveCurrency.
	Symbol string
}

// TypeBindings are the bindings of one object type, in field order.
type TypeBindings struct {
	Name     string
	Bindings []Binding

	index map[string]int
}

// Binding returns the binding of a field.
func (t *TypeBindings) Binding(field string) (Binding, bool) {
	i, ok := t.index[field]
	if !ok {
		return Binding{}, false
	}
	return t.Bindings[i], true
}

// set adds b, or replaces the binding of the same field in place.
func (t *TypeBindings) set(b Binding) {
	if t.index == nil {
		t.index = make(map[string]int)
	}
	if i, ok := t.index[b.Field]; ok {
		t.Bindings[i] = b
		return
	}
	t.index[b.Field] = len(t.Bindings)
	t.Bindings = append(t.Bindings, b)
}

// ColumnName maps a field name to its native column name.
type ColumnName struct {
	Field  string
	Native string
}

// TableColumns are the field to column mappings of one table.
type TableColumns struct {
	Table   string
	Columns []ColumnName
}

// Plan is the resolver plan of a base.
type Plan struct {
	BaseID string
	// Types are ordered: query root, mutation root, shared composites, tables.
	Types   []*TypeBindings
	Columns []TableColumns

	index map[string]int
}

// Type returns the bindings of a type, or nil.
func (p *Plan) Type(name string) *TypeBindings {
	if i, ok := p.index[name]; ok {
		return p.Types[i]
	}
	return nil
}

// BindingCount returns the number of bound fields.
func (p *Plan) BindingCount() int {
	n := 0
	for _, t := range p.Types {
		n += len(t.Bindings)
	}
	return n
}

func (p *Plan) add(t *TypeBindings) {
	if p.index == nil {
		p.index = make(map[string]int)
	}
	if i, ok := p.index[t.Name]; ok {
		p.Types[i] = t
		return
	}
	p.index[t.Name] = len(p.Types)
	p.Types = append(p.Types, t)
}

// Build derives the resolver plan of base. Names collide the same way schema
// assembly does: the last table producing a type name supplies its fields,
// and the last source of a field name supplies its binding.
func Build(base airtable.Base, namer *naming.Namer) *Plan {
	if namer == nil {
		namer = naming.Default()
	}

	query := &TypeBindings{Name: schema.QueryRoot}
	mutation := &TypeBindings{Name: schema.MutationRoot}
	var (
		tableTypes []*TypeBindings
		byName     = make(map[string]*TypeBindings)
		composites []string
		seen       = make(map[string]bool)
		owner      = make(map[string]string)
	)
	for _, table := range base.Tables {
		owner[naming.ToType(table.Name)] = table.Name
	}

	for _, table := range base.Tables {
		names := schema.NamesFor(namer, table)
		query.set(Binding{Field: names.List, Op: OpSelect, Table: table.Name})
		query.set(Binding{Field: names.ByPK, Op: OpFind, Table: table.Name})
		mutation.set(Binding{Field: names.Insert, Op: OpCreate, Table: table.Name})
		mutation.set(Binding{Field: names.Update, Op: OpUpdate, Table: table.Name})
		mutation.set(Binding{Field: names.Delete, Op: OpRemove, Table: table.Name})

		if owner[names.Type] != table.Name {
			continue
		}
		tb := &TypeBindings{Name: names.Type}
		if existing, ok := byName[names.Type]; ok {
			*existing = *tb
			tb = existing
		} else {
			byName[names.Type] = tb
			tableTypes = append(tableTypes, tb)
		}

		tb.set(Binding{Field: schema.FieldRecordID, Op: OpRecordID})
		tb.set(Binding{Field: schema.FieldCreatedTime, Op: OpCreatedTime})
		for _, col := range table.Columns {
			tb.set(columnBinding(table, col))
			for _, name := range schema.BuiltinObjects(fk.Describe(col).Output.Name) {
				if !seen[name] {
					seen[name] = true
					composites = append(composites, name)
				}
			}
		}
	}

	p := &Plan{BaseID: base.ID, Columns: columnNames(base)}
	p.add(query)
	if len(mutation.Bindings) > 0 {
		p.add(mutation)
	}
	for _, name := range composites {
		tb := &TypeBindings{Name: name}
		for _, field := range schema.BuiltinFields(name) {
			tb.set(Binding{Field: field, Op: OpGetter, Key: field})
		}
		p.add(tb)
	}
	for _, tb := range tableTypes {
		p.add(tb)
	}
	return p
}

func columnBinding(table airtable.Table, col airtable.Column) Binding {
	b := fk.Describe(col)
	binding := Binding{
		Field:    schema.ColumnField(col),
		Op:       OpColumn,
		Table:    table.Name,
		Column:   col.Name,
		Resolver: b.Resolver,
	}
	switch b.Resolver {
	case fk.ResolveLinkOne, fk.ResolveLinkMany:
		binding.Table = b.Output.Table
	case fk.ResolveCurrency:
		binding.Symbol = col.Options.Symbol
	}
	return binding
}

// columnNames lists the field to native column mapping of every table. A
// repeated table or field name keeps its first position and its last value.
func columnNames(base airtable.Base) []TableColumns {
	var out []TableColumns
	tableIndex := make(map[string]int)
	for _, table := range base.Tables {
		i, ok := tableIndex[table.Name]
		if !ok {
			i = len(out)
			tableIndex[table.Name] = i
			out = append(out, TableColumns{Table: table.Name})
		}
		out[i].Columns = nil

		fieldIndex := make(map[string]int)
		for _, col := range table.Columns {
			name := ColumnName{Field: schema.ColumnField(col), Native: col.Name}
			if j, ok := fieldIndex[name.Field]; ok {
				out[i].Columns[j] = name
				continue
			}
			fieldIndex[name.Field] = len(out[i].Columns)
			out[i].Columns = append(out[i].Columns, name)
		}
	}
	return out
}
