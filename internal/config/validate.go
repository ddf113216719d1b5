package config

import (
	"fmt"
	"go/token"
	"net"
	"net/url"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// Issue is one finding of Validate, tied to the config key it concerns.
type Issue struct {
	Field   string
	Message string
	Hint    string
}

func (i Issue) Error() string {
	if i.Hint != "" {
		return fmt.Sprintf("%s: %s (hint: %s)", i.Field, i.Message, i.Hint)
	}
	return fmt.Sprintf("%s: %s", i.Field, i.Message)
}

// ValidationResult collects fatal errors and non-fatal warnings.
type ValidationResult struct {
	Errors   []Issue
	Warnings []Issue
}

// HasErrors returns true if there are any validation errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// Error joins every validation error, or returns "" when there are none.
func (r *ValidationResult) Error() string {
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

func (r *ValidationResult) fail(field, hint, format string, args ...any) {
	r.Errors = append(r.Errors, Issue{Field: field, Message: fmt.Sprintf(format, args...), Hint: hint})
}

func (r *ValidationResult) warn(field, hint, format string, args ...any) {
	r.Warnings = append(r.Warnings, Issue{Field: field, Message: fmt.Sprintf(format, args...), Hint: hint})
}

// oneOf fails field unless value is one of allowed. The empty string is
// accepted when allowed lists it.
func (r *ValidationResult) oneOf(field, value string, allowed ...string) {
	if slices.Contains(allowed, value) {
		return
	}
	named := slices.DeleteFunc(slices.Clone(allowed), func(s string) bool { return s == "" })
	r.fail(field, "valid values are: "+strings.Join(named, ", "), "invalid value %q", value)
}

// glob fails field when pattern is blank or not a valid path.Match pattern.
func (r *ValidationResult) glob(field, pattern string) {
	if strings.TrimSpace(pattern) == "" {
		r.fail(field, "", "glob pattern cannot be empty")
		return
	}
	if _, err := path.Match(strings.ToLower(pattern), ""); err != nil {
		r.fail(field, "", "invalid glob pattern %q: %v", pattern, err)
	}
}

// Validate checks the configuration and returns every error and warning found.
func (c *Config) Validate() *ValidationResult {
	r := &ValidationResult{}

	if strings.TrimSpace(c.Source.Path) == "" {
		r.fail("source.path", "pass a path as the first argument, or - to read stdin", "a base schema file is required")
	}
	r.oneOf("source.format", strings.ToLower(c.Source.Format), "", "auto", "json", "yaml")

	c.Output.validate(r)
	c.Observability.validate(r)

	for _, p := range c.SchemaFilters.AllowTables {
		r.glob("schema_filters.allow_tables", p)
	}
	for _, p := range c.SchemaFilters.DenyTables {
		r.glob("schema_filters.deny_tables", p)
	}
	for field, patterns := range map[string]map[string][]string{
		"schema_filters.allow_columns": c.SchemaFilters.AllowColumns,
		"schema_filters.deny_columns":  c.SchemaFilters.DenyColumns,
	} {
		for table, columns := range patterns {
			r.glob(field, table)
			for _, column := range columns {
				r.glob(field, column)
			}
		}
	}

	for plural, singular := range c.Naming.SingularOverrides {
		if strings.TrimSpace(plural) == "" || strings.TrimSpace(singular) == "" {
			r.fail("naming.singular_overrides", "", "override %q -> %q must not be empty", plural, singular)
		}
	}
	return r
}

func (o *OutputConfig) validate(r *ValidationResult) {
	name := strings.TrimSpace(o.Name)
	switch {
	case name == "":
		r.fail("output.name", "", "output name cannot be empty")
	case name != filepath.Base(name) || strings.ContainsAny(name, `/\`):
		r.fail("output.name", "use output.dir to choose the directory", "output name %q must be a bare file stem", o.Name)
	}

	// The generated file must compile, so its names follow the Go lexer.
	if !token.IsIdentifier(o.Package) {
		r.fail("output.package", "", "invalid Go package name %q", o.Package)
	}
	if !token.IsIdentifier(o.FuncName) || !token.IsExported(o.FuncName) {
		r.fail("output.func_name", "", "invalid exported function name %q", o.FuncName)
	}
	if strings.TrimSpace(o.RuntimeImport) == "" {
		r.fail("output.runtime_import", "", "runtime import path cannot be empty")
	}

	if o.SkipValidation {
		r.warn("output.skip_validation", "", "schema validation is disabled; invalid schemas will be written")
	}
}

func (o *ObservabilityConfig) validate(r *ValidationResult) {
	r.oneOf("observability.logging.level", o.Logging.Level, "debug", "info", "warn", "error")
	r.oneOf("observability.logging.format", o.Logging.Format, "json", "text")

	if o.TraceSampleRatio < 0 || o.TraceSampleRatio > 1 {
		r.fail("observability.trace_sample_ratio", "use a value from 0.0 to 1.0", "trace sample ratio %v is out of range", o.TraceSampleRatio)
	}
	if o.MetricsTextfile != "" && filepath.Ext(o.MetricsTextfile) != ".prom" {
		r.warn("observability.metrics_textfile", "the node exporter textfile collector only reads *.prom files",
			"metrics textfile %q does not end in .prom", o.MetricsTextfile)
	}

	// Collector settings only matter once something is exported.
	if !o.ExportsEnabled() {
		return
	}
	otlp := o.OTLP
	r.oneOf("observability.otlp.protocol", otlp.Protocol, "", "grpc", "http/protobuf")
	r.oneOf("observability.otlp.compression", otlp.Compression, "", "none", "gzip")
	if !validEndpoint(otlp.Endpoint, otlp.Protocol == "http/protobuf") {
		r.fail("observability.otlp.endpoint", "use host:port, or a full URL with http/protobuf", "invalid OTLP endpoint %q", otlp.Endpoint)
	}
	if otlp.Insecure && otlp.CAFile != "" {
		r.warn("observability.otlp.ca_file", "", "ca_file is ignored when insecure is set")
	}
}

// validEndpoint accepts host:port, and a URL with a host when allowURL is set.
func validEndpoint(endpoint string, allowURL bool) bool {
	if allowURL && strings.Contains(endpoint, "://") {
		parsed, err := url.Parse(endpoint)
		return err == nil && parsed.Host != ""
	}
	_, _, err := net.SplitHostPort(endpoint)
	return err == nil
}
