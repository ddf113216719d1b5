// Package airtable describes the tabular base schema that drives generation:
// a base holds tables, tables hold typed columns, and foreign-key columns link
// tables together by display name.
package airtable

// Base is the root schema value for one complete base.
type Base struct {
	ID     string  `json:"id" yaml:"id"`
	Tables []Table `json:"tables" yaml:"tables"`
}

// Table is a named list of columns. Name is the vendor display name and may
// contain arbitrary whitespace and punctuation.
type Table struct {
	Name    string   `json:"name" yaml:"name"`
	Columns []Column `json:"columns" yaml:"columns"`
}

// FindTable returns the table with the given display name.
func (b Base) FindTable(name string) (Table, bool) {
	for _, table := range b.Tables {
		if table.Name == name {
			return table, true
		}
	}
	return Table{}, false
}

// ColumnCount returns the number of columns across all tables.
func (b Base) ColumnCount() int {
	total := 0
	for _, table := range b.Tables {
		total += len(table.Columns)
	}
	return total
}
