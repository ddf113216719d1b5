package naming

import (
	"log/slog"
	"regexp"
	"strings"
)

var nonWordChars = regexp.MustCompile(`\W`)

// Namer derives type, field, and singular root names from base display names.
// Normalization itself is stateless; the Namer adds singular overrides
// and reports, without resolving, names that collide after normalization.
type Namer struct {
	config   Config
	logger   *slog.Logger
	resolver *CollisionResolver
}

// New creates a Namer with the given configuration
func New(cfg Config, logger *slog.Logger) *Namer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Namer{
		config:   cfg,
		logger:   logger,
		resolver: NewCollisionResolver(logger),
	}
}

// Default returns a Namer with default configuration
func Default() *Namer {
	return New(DefaultConfig(), nil)
}

// Config returns the naming configuration.
func (n *Namer) Config() Config {
	return n.config
}

// Reset clears the collision state, allowing the namer to be reused for a new
// generation run.
func (n *Namer) Reset() {
	n.resolver = NewCollisionResolver(n.logger)
}

// Collisions returns the number of collisions observed since the last Reset.
func (n *Namer) Collisions() int {
	return n.resolver.Count()
}

// ToType strips every non-word character from name. No case transform is applied.
// Example: "Due Date!" -> "DueDate"
func ToType(name string) string {
	return normalize(name)
}

// ToField strips every non-word character from name and converts the result
// to lower camel case.
// Example: "Due Date!" -> "dueDate", "first_name" -> "firstName"
func ToField(name string) string {
	return toCamelCase(normalize(name))
}

func normalize(name string) string {
	return nonWordChars.ReplaceAllString(name, "")
}

// SingularType returns the singular form of a table's type name, used as the
// prefix of per-table input types.
// Example: "Tasks" -> "Task" (for "Task_order_by", "Task_fields")
func (n *Namer) SingularType(tableName string) string {
	return n.Singularize(ToType(tableName))
}

// SingularField returns the singular form of a table's field name, used to
// build singular query and mutation names.
// Example: "Open Tasks" -> "openTask" (for "openTask_by_pk", "insert_openTask")
func (n *Namer) SingularField(tableName string) string {
	return n.Singularize(ToField(tableName))
}

// ObserveType records the type name derived from a table. A name already
// produced by a different table is reported; the later table wins.
func (n *Namer) ObserveType(typeName, tableName string) {
	n.checkTypeName(typeName, tableName)
	n.resolver.RegisterType(typeName, tableName)
}

// ObserveField records a field name within a type. A name already produced by
// a different source within the same type is reported; the later source wins.
func (n *Namer) ObserveField(typeName, fieldName, source string) {
	n.checkFieldName(typeName, fieldName, source)
	n.resolver.RegisterField(typeName, fieldName, source)
}

func (n *Namer) checkTypeName(name, tableName string) {
	if !isValidName(name) || isReservedTypeName(name) {
		n.logger.Warn("table normalizes to an unusable GraphQL type name",
			slog.String("table", tableName),
			slog.String("type", name),
		)
	}
}

func (n *Namer) checkFieldName(typeName, name, source string) {
	if !isValidName(name) || isReservedFieldName(name) {
		n.logger.Warn("source normalizes to an unusable GraphQL field name",
			slog.String("type", typeName),
			slog.String("source", source),
			slog.String("field", name),
		)
	}
}

// toCamelCase lower-camel-cases a normalized identifier. Underscore runs act as
// word separators, a lower-to-upper transition starts a new word, and an
// all-caps prefix is folded into one word ("HTMLParser" -> "htmlParser").
// The first letter after a digit run is capitalized ("item2name" -> "item2Name").
func toCamelCase(s string) string {
	switch len(s) {
	case 0:
		return ""
	case 1:
		return strings.ToLower(s)
	}

	if s != strings.ToLower(s) {
		s = splitCaseTransitions(s)
	}
	s = strings.TrimLeft(s, "_-")
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	upperNext := false
	afterDigit := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' || c == '-' {
			upperNext = true
			afterDigit = false
			continue
		}
		if upperNext || (afterDigit && !isDigit(c)) {
			c = toUpper(c)
			upperNext = false
		}
		afterDigit = isDigit(c)
		b.WriteByte(c)
	}
	return b.String()
}

// splitCaseTransitions inserts '-' at every word boundary implied by case.
func splitCaseTransitions(s string) string {
	out := []byte(s)
	lastLower, lastUpper, lastLastUpper := false, false, false
	for i := 0; i < len(out); i++ {
		c := out[i]
		switch {
		case lastLower && isLetter(c) && isUpper(c):
			out = append(out[:i], append([]byte{'-'}, out[i:]...)...)
			lastLower = false
			lastLastUpper = lastUpper
			lastUpper = true
			i++
		case lastUpper && lastLastUpper && isLetter(c) && isLower(c):
			out = append(out[:i-1], append([]byte{'-'}, out[i-1:]...)...)
			lastLastUpper = lastUpper
			lastUpper = false
			lastLower = true
		default:
			lastLower = isLower(c)
			lastLastUpper = lastUpper
			lastUpper = isUpper(c)
		}
	}
	return string(out)
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isUpper(c byte) bool  { return c >= 'A' && c <= 'Z' }
func isLower(c byte) bool  { return c >= 'a' && c <= 'z' }
func isLetter(c byte) bool { return isUpper(c) || isLower(c) }

func toUpper(c byte) byte {
	if isLower(c) {
		return c - 'a' + 'A'
	}
	return c
}
