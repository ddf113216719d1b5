// Package schemafilter applies allow/deny filters to a base before generation.
package schemafilter

import (
	"log/slog"
	"path"
	"slices"
	"strings"

	"airtable-graphql/internal/airtable"
)

// Config controls allow/deny filters for tables and columns.
type Config struct {
	AllowTables  []string            `mapstructure:"allow_tables"`
	DenyTables   []string            `mapstructure:"deny_tables"`
	AllowColumns map[string][]string `mapstructure:"allow_columns"`
	DenyColumns  map[string][]string `mapstructure:"deny_columns"`
}

// IsZero reports whether the config filters nothing.
func (c Config) IsZero() bool {
	return len(c.AllowTables) == 0 && len(c.DenyTables) == 0 &&
		len(c.AllowColumns) == 0 && len(c.DenyColumns) == 0
}

// Report counts what a filter pass removed.
type Report struct {
	Tables  int
	Columns int
	// Links counts foreign-key columns dropped because their table was filtered out.
	Links int
}

// Apply returns a copy of base with filtered tables and columns removed.
// Missing allow lists default to allow-all; deny rules always win. Patterns
// are path.Match globs matched case-insensitively; column patterns are keyed
// by table name, with "*" applying to every table.
//
// A foreign key whose table was filtered out is dropped with it. A foreign key
// to a table that was never part of the base is kept.
func Apply(base airtable.Base, cfg Config, logger *slog.Logger) (airtable.Base, Report) {
	if logger == nil {
		logger = slog.Default()
	}
	var report Report

	kept := airtable.Base{ID: base.ID, Tables: make([]airtable.Table, 0, len(base.Tables))}
	for _, table := range base.Tables {
		if !tableAllowed(table.Name, cfg.AllowTables, cfg.DenyTables) {
			report.Tables++
			continue
		}
		kept.Tables = append(kept.Tables, table)
	}

	out := airtable.Base{ID: base.ID, Tables: make([]airtable.Table, 0, len(kept.Tables))}
	for _, table := range kept.Tables {
		columns := make([]airtable.Column, 0, len(table.Columns))
		for _, column := range table.Columns {
			if !columnAllowed(table.Name, column.Name, cfg.AllowColumns, cfg.DenyColumns) {
				report.Columns++
				continue
			}
			if column.IsForeignKey() && linksFilteredTable(base, kept, column.Options.Table) {
				report.Links++
				logger.Warn("dropping link to filtered table",
					slog.String("table", table.Name),
					slog.String("column", column.Name),
					slog.String("target", column.Options.Table),
				)
				continue
			}
			columns = append(columns, column)
		}
		out.Tables = append(out.Tables, airtable.Table{Name: table.Name, Columns: columns})
	}
	return out, report
}

// linksFilteredTable reports whether target was in base but did not survive
// filtering. Links to tables never in base are left dangling.
func linksFilteredTable(base, kept airtable.Base, target string) bool {
	if _, ok := base.FindTable(target); !ok {
		return false
	}
	_, ok := kept.FindTable(target)
	return !ok
}

func tableAllowed(table string, allow, deny []string) bool {
	if matchesAny(table, deny) {
		return false
	}
	if len(allow) == 0 {
		return true
	}
	return matchesAny(table, allow)
}

func columnAllowed(table, column string, allow, deny map[string][]string) bool {
	denyPatterns := mergePatterns(deny, table)
	if matchesAny(column, denyPatterns) {
		return false
	}
	allowPatterns := mergePatterns(allow, table)
	if len(allowPatterns) == 0 {
		return true
	}
	return matchesAny(column, allowPatterns)
}

func mergePatterns(patterns map[string][]string, table string) []string {
	if patterns == nil {
		return nil
	}
	combined := append([]string{}, patterns["*"]...)
	combined = append(combined, patterns[table]...)
	return slices.Compact(combined)
}

func matchesAny(value string, patterns []string) bool {
	value = strings.ToLower(value)
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		// matching should be case-insensitive
		ok, err := path.Match(strings.ToLower(pattern), value)
		if err != nil {
			continue
		}
		if ok {
			return true
		}
	}
	return false
}
