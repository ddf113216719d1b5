package naming

import (
	"log/slog"
)

// CollisionResolver tracks registered names and reports when two different
// sources normalize to the same name. It never renames: the caller applies
// last-writer-wins.
type CollisionResolver struct {
	seenTypes  map[string]string            // GraphQL type name → source table
	seenFields map[string]map[string]string // type name → field name → source
	count      int
	logger     *slog.Logger
}

// NewCollisionResolver creates a new collision resolver.
func NewCollisionResolver(logger *slog.Logger) *CollisionResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &CollisionResolver{
		seenTypes:  make(map[string]string),
		seenFields: make(map[string]map[string]string),
		logger:     logger,
	}
}

// RegisterType registers a GraphQL type name and reports whether it collided.
func (c *CollisionResolver) RegisterType(graphqlName, tableName string) bool {
	return c.register(graphqlName, c.seenTypes, "table:"+tableName)
}

// RegisterField registers a field name within a type and reports whether it collided.
func (c *CollisionResolver) RegisterField(typeName, fieldName, source string) bool {
	if c.seenFields[typeName] == nil {
		c.seenFields[typeName] = make(map[string]string)
	}
	return c.register(fieldName, c.seenFields[typeName], source)
}

// FieldExists checks if a field name already exists for a type.
func (c *CollisionResolver) FieldExists(typeName, fieldName string) bool {
	if fields, ok := c.seenFields[typeName]; ok {
		_, exists := fields[fieldName]
		return exists
	}
	return false
}

// Count returns the number of collisions reported so far.
func (c *CollisionResolver) Count() int {
	return c.count
}

func (c *CollisionResolver) register(name string, seen map[string]string, source string) bool {
	existing, exists := seen[name]
	seen[name] = source
	if !exists || existing == source {
		return false
	}

	c.count++
	c.logger.Warn("naming collision detected, later source wins",
		slog.String("name", name),
		slog.String("existing_source", existing),
		slog.String("new_source", source),
	)
	return true
}
