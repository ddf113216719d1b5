package naming

import (
	"regexp"
	"strings"
)

var graphqlName = regexp.MustCompile(`^[_A-Za-z][_0-9A-Za-z]*$`)

// graphqlReservedTypeNames contains built-in and generator-owned type names
// that a table type must not shadow.
var graphqlReservedTypeNames = map[string]bool{
	// Built-in scalar types
	"Int":     true,
	"Float":   true,
	"String":  true,
	"Boolean": true,
	"ID":      true,

	// Root and shared types emitted by the generator
	"query_root":    true,
	"mutation_root": true,
	"order_by":      true,
}

func isValidName(name string) bool {
	return graphqlName.MatchString(name)
}

// isReservedTypeName checks if a type name is reserved.
func isReservedTypeName(name string) bool {
	if strings.HasPrefix(name, "__") {
		return true
	}
	if strings.HasPrefix(name, "airtable_") {
		return true
	}
	return graphqlReservedTypeNames[name]
}

// isReservedFieldName checks if a field name is reserved.
func isReservedFieldName(name string) bool {
	return strings.HasPrefix(name, "__")
}
