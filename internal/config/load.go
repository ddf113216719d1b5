// Package config loads generator configuration from files, env vars, and
// flags, and validates it.
package config

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "ATGQL"

// BaseIDEnv is the vendor-style variable also accepted for source.base_id.
const BaseIDEnv = "AIRTABLE_BASE_ID"

// NewFlagSet defines all command line flags using canonical snake_case keys.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)

	// Source flags
	fs.String("source.path", "", "Base schema file (JSON or YAML); - or @- reads stdin")
	fs.String("source.format", "", "Base schema format (auto, json, yaml)")
	fs.String("source.base_id", "", "Base id embedded in generated resolvers (env AIRTABLE_BASE_ID)")

	// Output flags
	fs.String("output.dir", "", "Directory for generated artifacts")
	fs.String("output.name", "", "File stem for <name>.json, <name>.graphql and <name>_resolvers.go")
	fs.String("output.package", "", "Go package name of the generated resolver file")
	fs.String("output.runtime_import", "", "Import path of the runtime kit used by generated resolvers")
	fs.String("output.func_name", "", "Name of the generated resolver constructor")
	fs.Bool("output.skip_validation", false, "Write artifacts even when the schema does not compile")

	// Schema filter flags
	fs.StringSlice("schema_filters.allow_tables", nil, "Table glob patterns to include")
	fs.StringSlice("schema_filters.deny_tables", nil, "Table glob patterns to exclude")

	// Observability flags
	fs.String("observability.service_name", "", "Service name for observability")
	fs.String("observability.service_version", "", "Service version for observability")
	fs.String("observability.environment", "", "Environment name (dev, staging, prod)")
	fs.Bool("observability.tracing_enabled", false, "Export generation traces over OTLP")
	fs.Float64("observability.trace_sample_ratio", 0, "Trace sampling ratio from 0.0 to 1.0")
	fs.String("observability.metrics_textfile", "", "Write generation metrics to this Prometheus textfile")

	// Logging flags (under observability)
	fs.String("observability.logging.level", "", "Log level (debug, info, warn, error)")
	fs.String("observability.logging.format", "", "Log format (json, text)")
	fs.Bool("observability.logging.exports_enabled", false, "Enable OTLP log export")

	// OTLP collector flags
	fs.String("observability.otlp.endpoint", "", "OTLP collector endpoint (e.g., localhost:4317)")
	fs.String("observability.otlp.protocol", "", "OTLP protocol (grpc, http/protobuf)")
	fs.Bool("observability.otlp.insecure", false, "Use insecure connection (no TLS)")
	fs.String("observability.otlp.ca_file", "", "PEM bundle used to verify the collector")
	fs.Duration("observability.otlp.timeout", 0, "OTLP export timeout")
	fs.String("observability.otlp.compression", "", "OTLP compression (none, gzip)")

	fs.StringP("config", "c", "", "Config file path")
	fs.Bool("version", false, "Print version and exit")
	return fs
}

// Load parses args with fs and loads configuration with the following precedence:
// 1. Command line flags (the first positional argument sets source.path)
// 2. Environment variables
// 3. Config file
// 4. Default values
func Load(fs *pflag.FlagSet, args []string) (*Config, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()

	// Defaults (lowest priority)
	setDefaults(v)

	// --- Config file ---
	cfgPath, _ := fs.GetString("config")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.SetConfigName("airtable-graphql")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.airtable-graphql")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if cfgPath != "" {
			return nil, fmt.Errorf("failed to read config file %q: %w", cfgPath, err)
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// --- Environment variables ---
	// Canonical keys: dot + snake_case
	// Env vars: ATGQL_OUTPUT_DIR
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("source.base_id", EnvPrefix+"_SOURCE_BASE_ID", BaseIDEnv); err != nil {
		return nil, fmt.Errorf("failed to bind base id env: %w", err)
	}

	// --- Flags binding (highest normal priority) ---
	bindChangedFlagsToViper(fs, v)
	if !fs.Changed("source.path") && fs.NArg() > 0 {
		v.Set("source.path", fs.Arg(0))
	}
	if fs.NArg() > 1 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args()[1:], " "))
	}

	// --- Unmarshal (strict) ---
	var cfg Config
	if err := v.UnmarshalExact(
		&cfg,
		viper.DecodeHook(
			mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				stringToStringSliceHookFunc(","),
			),
		),
	); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// bindChangedFlagsToViper copies only explicitly-set flags into Viper,
// preserving precedence: flags > env > file > defaults.
func bindChangedFlagsToViper(fs *pflag.FlagSet, v *viper.Viper) {
	fs.Visit(func(f *pflag.Flag) {
		if f.Name == "config" || f.Name == "version" {
			return
		}

		switch f.Value.Type() {
		case "string":
			val, _ := fs.GetString(f.Name)
			v.Set(f.Name, val)
		case "bool":
			val, _ := fs.GetBool(f.Name)
			v.Set(f.Name, val)
		case "float64":
			val, _ := fs.GetFloat64(f.Name)
			v.Set(f.Name, val)
		case "duration":
			val, _ := fs.GetDuration(f.Name)
			v.Set(f.Name, val)
		case "stringSlice":
			val, _ := fs.GetStringSlice(f.Name)
			v.Set(f.Name, val)
		default:
			v.Set(f.Name, f.Value.String())
		}
	})
}

// setDefaults sets default values (lowest precedence).
func setDefaults(v *viper.Viper) {
	// Source defaults
	v.SetDefault("source.path", "")
	v.SetDefault("source.format", "auto")
	v.SetDefault("source.base_id", "")

	// Output defaults
	v.SetDefault("output.dir", ".")
	v.SetDefault("output.name", "schema")
	v.SetDefault("output.package", "resolvers")
	v.SetDefault("output.runtime_import", "airtable-graphql/pkg/airtablekit")
	v.SetDefault("output.func_name", "CreateResolvers")
	v.SetDefault("output.skip_validation", false)

	// Observability defaults
	v.SetDefault("observability.service_name", "airtable-graphql")
	v.SetDefault("observability.service_version", "")
	v.SetDefault("observability.environment", "development")
	v.SetDefault("observability.tracing_enabled", false)
	v.SetDefault("observability.trace_sample_ratio", 1.0)
	v.SetDefault("observability.metrics_textfile", "")

	// Logging defaults (under observability)
	v.SetDefault("observability.logging.level", "info")
	v.SetDefault("observability.logging.format", "text")
	v.SetDefault("observability.logging.exports_enabled", false)

	// OTLP collector defaults
	v.SetDefault("observability.otlp.endpoint", "localhost:4317")
	v.SetDefault("observability.otlp.protocol", "grpc")
	v.SetDefault("observability.otlp.insecure", false)
	v.SetDefault("observability.otlp.ca_file", "")
	v.SetDefault("observability.otlp.timeout", 10*time.Second)
	v.SetDefault("observability.otlp.compression", "gzip")

	// Schema filter defaults (allow all)
	v.SetDefault("schema_filters.allow_tables", []string{"*"})
	v.SetDefault("schema_filters.deny_tables", []string{})
	v.SetDefault("schema_filters.allow_columns", map[string][]string{
		"*": {"*"},
	})
	v.SetDefault("schema_filters.deny_columns", map[string][]string{})

	// Naming defaults
	v.SetDefault("naming.singular_overrides", map[string]string{})
}

func stringToStringSliceHookFunc(sep string) mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if from.Kind() != reflect.String || to != reflect.TypeOf([]string{}) {
			return data, nil
		}

		raw := strings.TrimSpace(data.(string))
		if raw == "" {
			return []string{}, nil
		}

		parts := strings.Split(raw, sep)
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts, nil
	}
}
