// Package fieldkind provides the shared mapping from column variants to their
// GraphQL output type, input type, and resolver behavior. Schema assembly and
// resolver generation both read this one table so the declared type of a
// field and the value its resolver produces cannot drift apart.
package fieldkind

import (
	"airtable-graphql/internal/airtable"
)

// Built-in scalar names.
const (
	ScalarID      = "ID"
	ScalarString  = "String"
	ScalarInt     = "Int"
	ScalarFloat   = "Float"
	ScalarBoolean = "Boolean"
)

// Composite type names shared by every generated schema.
const (
	TypeCollaborator        = "airtable_collaborator"
	TypeInputCollaborator   = "airtable_input_collaborator"
	TypeThumbnail           = "airtable_attachment_thumbnail"
	TypeInputThumbnail      = "airtable_input_attachment_thumbnail"
	TypeThumbnailGroup      = "airtable_attachment_thumbnail_group"
	TypeInputThumbnailGroup = "airtable_input_attachment_thumbnail_group"
	TypeAttachment          = "airtable_attachment"
	TypeInputAttachment     = "airtable_input_attachment"
	TypeOrderBy             = "order_by"
)

// Variant is the closed set of column behaviors. Several column types share a
// variant; number columns are split by format.
type Variant int

const (
	// VariantString covers text, multilineText, select, date, and any unrecognized type.
	VariantString Variant = iota
	// VariantInteger covers autoNumber, count, and rating.
	VariantInteger
	VariantCheckbox
	VariantCollaborator
	VariantAttachments
	VariantLinkOne
	VariantLinkMany
	VariantMultiSelect
	// VariantCurrency is a number rendered as "<symbol><value>".
	VariantCurrency
	// VariantPercent is a number rendered as "<value>%".
	VariantPercent
	// VariantDuration is a number declared as a string and returned unmodified.
	// The percentage formats share it.
	VariantDuration
	// VariantDecimal is a number with the decimal format.
	VariantDecimal
	// VariantNumber is a number with any other format.
	VariantNumber
)

var variantNames = [...]string{
	VariantString:       "string",
	VariantInteger:      "integer",
	VariantCheckbox:     "checkbox",
	VariantCollaborator: "collaborator",
	VariantAttachments:  "attachments",
	VariantLinkOne:      "link_one",
	VariantLinkMany:     "link_many",
	VariantMultiSelect:  "multi_select",
	VariantCurrency:     "currency",
	VariantPercent:      "percent",
	VariantDuration:     "duration",
	VariantDecimal:      "decimal",
	VariantNumber:       "number",
}

func (v Variant) String() string {
	if v < 0 || int(v) >= len(variantNames) {
		return "unknown"
	}
	return variantNames[v]
}

// Resolver identifies how a column value is produced at resolve time.
type Resolver int

const (
	// ResolveRaw returns the stored value for the column's native key.
	ResolveRaw Resolver = iota
	// ResolveCheckbox returns the stored value or false.
	ResolveCheckbox
	// ResolveLinkOne looks up the single linked record, or null without one.
	ResolveLinkOne
	// ResolveLinkMany looks up every linked record concurrently.
	ResolveLinkMany
	// ResolveMultiSelect returns the stored value or an empty list.
	ResolveMultiSelect
	// ResolveCurrency renders "<symbol><value>".
	ResolveCurrency
	// ResolvePercent renders "<value>%".
	ResolvePercent
)

// TypeRef is a GraphQL type reference before registry resolution. When Link is
// set the named type is the foreign table's object type, filled in by Describe.
type TypeRef struct {
	Name  string
	Table string
	Link  bool
	List  bool
}

// Behavior is the triple every variant maps to.
type Behavior struct {
	Variant  Variant
	Output   TypeRef
	Input    TypeRef
	Resolver Resolver
}

var behaviors = [...]Behavior{
	VariantString: {
		Output:   TypeRef{Name: ScalarString},
		Input:    TypeRef{Name: ScalarString},
		Resolver: ResolveRaw,
	},
	VariantInteger: {
		Output:   TypeRef{Name: ScalarInt},
		Input:    TypeRef{Name: ScalarInt},
		Resolver: ResolveRaw,
	},
	VariantCheckbox: {
		Output:   TypeRef{Name: ScalarBoolean},
		Input:    TypeRef{Name: ScalarBoolean},
		Resolver: ResolveCheckbox,
	},
	VariantCollaborator: {
		Output:   TypeRef{Name: TypeCollaborator},
		Input:    TypeRef{Name: TypeInputCollaborator},
		Resolver: ResolveRaw,
	},
	VariantAttachments: {
		Output:   TypeRef{Name: TypeAttachment, List: true},
		Input:    TypeRef{Name: TypeInputAttachment, List: true},
		Resolver: ResolveRaw,
	},
	// Input objects cannot hold object types, so links are written as record ids.
	VariantLinkOne: {
		Output:   TypeRef{Link: true},
		Input:    TypeRef{Name: ScalarID},
		Resolver: ResolveLinkOne,
	},
	VariantLinkMany: {
		Output:   TypeRef{Link: true, List: true},
		Input:    TypeRef{Name: ScalarID, List: true},
		Resolver: ResolveLinkMany,
	},
	VariantMultiSelect: {
		Output:   TypeRef{Name: ScalarString, List: true},
		Input:    TypeRef{Name: ScalarString, List: true},
		Resolver: ResolveMultiSelect,
	},
	VariantCurrency: {
		Output:   TypeRef{Name: ScalarString},
		Input:    TypeRef{Name: ScalarString},
		Resolver: ResolveCurrency,
	},
	VariantPercent: {
		Output:   TypeRef{Name: ScalarString},
		Input:    TypeRef{Name: ScalarString},
		Resolver: ResolvePercent,
	},
	VariantDuration: {
		Output:   TypeRef{Name: ScalarString},
		Input:    TypeRef{Name: ScalarString},
		Resolver: ResolveRaw,
	},
	VariantDecimal: {
		Output:   TypeRef{Name: ScalarFloat},
		Input:    TypeRef{Name: ScalarFloat},
		Resolver: ResolveRaw,
	},
	VariantNumber: {
		Output:   TypeRef{Name: ScalarInt},
		Input:    TypeRef{Name: ScalarInt},
		Resolver: ResolveRaw,
	},
}

// VariantOf classifies a column. Unknown column types fall back to VariantString.
func VariantOf(col airtable.Column) Variant {
	switch col.Type {
	case airtable.TypeAutoNumber, airtable.TypeCount, airtable.TypeRating:
		return VariantInteger
	case airtable.TypeCheckbox:
		return VariantCheckbox
	case airtable.TypeCollaborator:
		return VariantCollaborator
	case airtable.TypeAttachment:
		return VariantAttachments
	case airtable.TypeForeignKey:
		if col.IsMany() {
			return VariantLinkMany
		}
		return VariantLinkOne
	case airtable.TypeMultiSelect:
		return VariantMultiSelect
	case airtable.TypeNumber:
		return numberVariant(col.Options.Format)
	default:
		return VariantString
	}
}

func numberVariant(format string) Variant {
	switch format {
	case "currency":
		return VariantCurrency
	case "percent", "percentV2":
		return VariantPercent
	case "percentage", "percentageV2", "duration":
		return VariantDuration
	case "decimal":
		return VariantDecimal
	default:
		return VariantNumber
	}
}

// Describe returns the behavior of a column, with link references pointing at
// the column's foreign table.
func Describe(col airtable.Column) Behavior {
	v := VariantOf(col)
	b := behaviors[v]
	b.Variant = v
	if b.Output.Link {
		b.Output.Table = col.Options.Table
	}
	return b
}

// Ref returns the output or input type reference of a column.
func Ref(col airtable.Column, isInput bool) TypeRef {
	b := Describe(col)
	if isInput {
		return b.Input
	}
	return b.Output
}
