package config

import (
	"time"

	"airtable-graphql/internal/naming"
	"airtable-graphql/internal/schemafilter"
)

// Config holds the generator configuration.
type Config struct {
	Source        SourceConfig        `mapstructure:"source"`
	Output        OutputConfig        `mapstructure:"output"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	SchemaFilters schemafilter.Config `mapstructure:"schema_filters"`
	Naming        naming.Config       `mapstructure:"naming"`
}

// SourceConfig describes where the base schema comes from.
type SourceConfig struct {
	// Path is a JSON or YAML file holding the base schema. "-" and "@-" read stdin.
	Path string `mapstructure:"path"`
	// Format is auto, json, or yaml. Auto picks by file extension and falls
	// back to sniffing the content.
	Format string `mapstructure:"format"`
	// BaseID overrides the id recorded in the schema file. Also read from
	// AIRTABLE_BASE_ID.
	BaseID string `mapstructure:"base_id"`
}

// OutputConfig controls the generated artifacts.
type OutputConfig struct {
	Dir string `mapstructure:"dir"`
	// Name is the file stem shared by <name>.json, <name>.graphql and <name>_resolvers.go.
	Name string `mapstructure:"name"`
	// Package is the Go package clause of the generated resolver file.
	Package string `mapstructure:"package"`
	// RuntimeImport is the import path of the backend-access kit used by generated code.
	RuntimeImport string `mapstructure:"runtime_import"`
	FuncName      string `mapstructure:"func_name"`
	// SkipValidation writes the artifacts even when the schema fails to compile.
	SkipValidation bool `mapstructure:"skip_validation"`
}

// LoggingConfig holds logging parameters.
type LoggingConfig struct {
	Level          string `mapstructure:"level"`           // debug, info, warn, error
	Format         string `mapstructure:"format"`          // json, text
	ExportsEnabled bool   `mapstructure:"exports_enabled"` // Enable OTLP log export
}

// ObservabilityConfig holds observability parameters.
type ObservabilityConfig struct {
	ServiceName      string        `mapstructure:"service_name"`
	ServiceVersion   string        `mapstructure:"service_version"`
	Environment      string        `mapstructure:"environment"`
	TracingEnabled   bool          `mapstructure:"tracing_enabled"`
	TraceSampleRatio float64       `mapstructure:"trace_sample_ratio"`
	MetricsTextfile  string        `mapstructure:"metrics_textfile"` // node-exporter textfile; empty disables
	Logging          LoggingConfig `mapstructure:"logging"`

	// OTLP is the collector traces and logs are exported to.
	OTLP OTLPConfig `mapstructure:"otlp"`
}

// OTLPConfig holds OTLP exporter configuration. Exporters do not retry; a
// generation run is too short to outlast a collector outage.
type OTLPConfig struct {
	Endpoint    string            `mapstructure:"endpoint"`
	Protocol    string            `mapstructure:"protocol"` // "grpc", "http/protobuf"
	Insecure    bool              `mapstructure:"insecure"`
	CAFile      string            `mapstructure:"ca_file"`
	Headers     map[string]string `mapstructure:"headers"`
	Timeout     time.Duration     `mapstructure:"timeout"`
	Compression string            `mapstructure:"compression"` // "none", "gzip"
}

// ExportsEnabled reports whether any signal is sent to the collector.
func (c *ObservabilityConfig) ExportsEnabled() bool {
	return c.TracingEnabled || c.Logging.ExportsEnabled
}
