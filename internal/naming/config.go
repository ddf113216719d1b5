// Package naming normalizes base display names into GraphQL identifiers:
// type names, camel-cased field names, and singular root-field prefixes.
// The same functions feed both the schema and the generated resolvers, so a
// field named X in one is always bound under X in the other.
package naming

// Config holds naming customization options
type Config struct {
	// SingularOverrides maps plural -> custom singular
	// Example: {"people": "person", "data": "datum"}
	SingularOverrides map[string]string `mapstructure:"singular_overrides"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		SingularOverrides: make(map[string]string),
	}
}
