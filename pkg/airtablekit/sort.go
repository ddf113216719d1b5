package airtablekit

import (
	"fmt"
	"sort"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
)

// OrderBy extracts the sort pairs of an order argument. Precedence follows the
// key order written in the query document. When the argument arrives through
// a variable that order is not available and keys are taken in sorted order.
func OrderBy(p graphql.ResolveParams, argName string) []Sort {
	values, ok := p.Args[argName].(map[string]any)
	if !ok || len(values) == 0 {
		return []Sort{}
	}
	return SortPairs(values, literalKeys(p.Info.FieldASTs, argName))
}

// SortPairs converts an order mapping into sort pairs. keys gives the
// precedence; mapping keys missing from it follow in sorted order. Null
// directions are skipped.
func SortPairs(values map[string]any, keys []string) []Sort {
	seen := make(map[string]bool, len(values))
	pairs := make([]Sort, 0, len(values))
	add := func(key string) {
		if seen[key] {
			return
		}
		seen[key] = true
		dir, ok := values[key]
		if !ok || dir == nil {
			return
		}
		pairs = append(pairs, Sort{Field: key, Direction: fmt.Sprint(dir)})
	}

	for _, key := range keys {
		add(key)
	}
	rest := make([]string, 0, len(values))
	for key := range values {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		add(key)
	}
	return pairs
}

// literalKeys returns the keys of an object literal argument in document order.
func literalKeys(fields []*ast.Field, argName string) []string {
	for _, f := range fields {
		if f == nil {
			continue
		}
		for _, arg := range f.Arguments {
			if arg == nil || arg.Name == nil || arg.Name.Value != argName {
				continue
			}
			obj, ok := arg.Value.(*ast.ObjectValue)
			if !ok {
				return nil
			}
			keys := make([]string, 0, len(obj.Fields))
			for _, of := range obj.Fields {
				if of != nil && of.Name != nil {
					keys = append(keys, of.Name.Value)
				}
			}
			return keys
		}
	}
	return nil
}
