package airtable

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// ColumnType is the discriminator of the column variant union.
type ColumnType string

const (
	TypeText          ColumnType = "text"
	TypeMultilineText ColumnType = "multilineText"
	TypeAttachment    ColumnType = "multipleAttachment"
	TypeAutoNumber    ColumnType = "autoNumber"
	TypeCheckbox      ColumnType = "checkbox"
	TypeCollaborator  ColumnType = "collaborator"
	TypeCount         ColumnType = "count"
	TypeDate          ColumnType = "date"
	TypeMultiSelect   ColumnType = "multiSelect"
	TypeNumber        ColumnType = "number"
	TypeRating        ColumnType = "rating"
	TypeSelect        ColumnType = "select"
	TypeForeignKey    ColumnType = "foreignKey"
)

// Relation is the cardinality of a foreign-key column.
type Relation string

const (
	RelationOne  Relation = "one"
	RelationMany Relation = "many"
)

// Column is one typed field of a table. Options carries the data associated
// with the variant named by Type; fields that do not apply are left empty.
type Column struct {
	Name    string        `json:"name" yaml:"name"`
	Type    ColumnType    `json:"type" yaml:"type"`
	Options ColumnOptions `json:"options" yaml:"options"`
}

// ColumnOptions holds the variant data of a column:
//   - date: Format
//   - number: Format, Symbol
//   - select, multiSelect: Choices
//   - foreignKey: Relation, Table
type ColumnOptions struct {
	Format   string   `json:"format,omitempty" yaml:"format,omitempty"`
	Symbol   string   `json:"symbol,omitempty" yaml:"symbol,omitempty"`
	Choices  []string `json:"choices,omitempty" yaml:"choices,omitempty"`
	Relation Relation `json:"relation,omitempty" yaml:"relation,omitempty"`
	Table    string   `json:"table,omitempty" yaml:"table,omitempty"`
}

// columnOptionsJSON mirrors ColumnOptions and also accepts the "relationship"
// key written by older schema exports.
type columnOptionsJSON struct {
	Format       string   `json:"format"`
	Symbol       string   `json:"symbol"`
	Choices      []string `json:"choices"`
	Relation     Relation `json:"relation"`
	Relationship Relation `json:"relationship"`
	Table        string   `json:"table"`
}

// UnmarshalJSON decodes options, treating "relationship" as an alias of "relation".
func (o *ColumnOptions) UnmarshalJSON(data []byte) error {
	var raw columnOptionsJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	relation := raw.Relation
	if relation == "" {
		relation = raw.Relationship
	}
	*o = ColumnOptions{
		Format:   raw.Format,
		Symbol:   raw.Symbol,
		Choices:  raw.Choices,
		Relation: relation,
		Table:    raw.Table,
	}
	return nil
}

// UnmarshalYAML decodes options with the same alias handling as UnmarshalJSON.
func (o *ColumnOptions) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Format       string   `yaml:"format"`
		Symbol       string   `yaml:"symbol"`
		Choices      []string `yaml:"choices"`
		Relation     Relation `yaml:"relation"`
		Relationship Relation `yaml:"relationship"`
		Table        string   `yaml:"table"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	relation := raw.Relation
	if relation == "" {
		relation = raw.Relationship
	}
	*o = ColumnOptions{
		Format:   raw.Format,
		Symbol:   raw.Symbol,
		Choices:  raw.Choices,
		Relation: relation,
		Table:    raw.Table,
	}
	return nil
}

// IsForeignKey reports whether the column links to another table.
func (c Column) IsForeignKey() bool {
	return c.Type == TypeForeignKey
}

// IsMany reports whether a foreign-key column links to many records. Any
// relation other than "many", including an empty one, is treated as "one".
func (c Column) IsMany() bool {
	return c.Options.Relation == RelationMany
}
