// Package source reads and writes the serialized base schema that drives
// generation. Acquiring the schema from the vendor is out of scope; this
// package starts from a JSON or YAML document on disk or stdin.
package source

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"airtable-graphql/internal/airtable"
)

var (
	// ErrEmptyInput is returned when the input holds no document.
	ErrEmptyInput = errors.New("base schema input is empty")
	// ErrUnsupportedFormat is returned for a format other than auto, json, or yaml.
	ErrUnsupportedFormat = errors.New("unsupported base schema format")
	// ErrInteractiveStdin is returned when stdin is a terminal.
	ErrInteractiveStdin = errors.New("refusing to read base schema from an interactive terminal")
)

// Format names a serialization of the base schema.
type Format string

const (
	FormatAuto Format = "auto"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat normalizes a configured format name. The empty string means auto.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// IsStdin reports whether path names standard input.
func IsStdin(path string) bool {
	return path == "-" || path == "@-"
}

// stdin is swapped in tests.
var stdin io.Reader = os.Stdin

// Load reads a base schema from path, or from stdin when path is "-" or "@-".
func Load(path string, format Format) (airtable.Base, error) {
	if IsStdin(path) {
		if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return airtable.Base{}, ErrInteractiveStdin
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return airtable.Base{}, fmt.Errorf("read base schema from stdin: %w", err)
		}
		return Decode(data, format)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return airtable.Base{}, fmt.Errorf("read base schema: %w", err)
	}
	if format == FormatAuto || format == "" {
		format = formatForPath(path)
	}
	base, err := Decode(data, format)
	if err != nil {
		return airtable.Base{}, fmt.Errorf("%s: %w", path, err)
	}
	return base, nil
}

// Decode parses data in the given format. Auto selects JSON when the first
// non-space byte opens an object and YAML otherwise.
func Decode(data []byte, format Format) (airtable.Base, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return airtable.Base{}, ErrEmptyInput
	}
	if format == FormatAuto || format == "" {
		format = sniff(trimmed)
	}

	var base airtable.Base
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(trimmed, &base); err != nil {
			return airtable.Base{}, fmt.Errorf("decode json: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(trimmed, &base); err != nil {
			return airtable.Base{}, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		return airtable.Base{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return base, nil
}

// Write serializes base as indented JSON followed by a newline.
func Write(w io.Writer, base airtable.Base) error {
	data, err := json.MarshalIndent(base, "", "  ")
	if err != nil {
		return fmt.Errorf("encode base schema: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write base schema: %w", err)
	}
	return nil
}

func formatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatAuto
	}
}

func sniff(data []byte) Format {
	if data[0] == '{' {
		return FormatJSON
	}
	return FormatYAML
}
