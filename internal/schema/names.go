package schema

import (
	"airtable-graphql/internal/airtable"
	"airtable-graphql/internal/naming"
)

// Root type names.
const (
	QueryRoot    = "query_root"
	MutationRoot = "mutation_root"
)

// Fixed fields present on every table type.
const (
	FieldRecordID    = "_id"
	FieldCreatedTime = "_createdAt"
)

// Root field argument names.
const (
	ArgLimit           = "limit"
	ArgOffset          = "offset"
	ArgFilterByFormula = "filter_by_formula"
	ArgOrderBy         = "order_by"
	ArgID              = "id"
	ArgFields          = "fields"
)

// TableNames are the names generated for one table. Schema assembly and
// resolver binding both derive names from here.
type TableNames struct {
	Type    string
	List    string
	ByPK    string
	Insert  string
	Update  string
	Delete  string
	OrderBy string
	Fields  string
}

// NamesFor returns the generated names of a table.
func NamesFor(namer *naming.Namer, table airtable.Table) TableNames {
	single := namer.SingularField(table.Name)
	singleType := namer.SingularType(table.Name)
	return TableNames{
		Type:    naming.ToType(table.Name),
		List:    naming.ToField(table.Name),
		ByPK:    single + "_by_pk",
		Insert:  "insert_" + single,
		Update:  "update_" + single,
		Delete:  "delete_" + single,
		OrderBy: singleType + "_order_by",
		Fields:  singleType + "_fields",
	}
}

// ColumnField returns the field name of a column.
func ColumnField(col airtable.Column) string {
	return naming.ToField(col.Name)
}
