package api

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// OutputFormat defines the output format for CLI commands.
type OutputFormat string

const (
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatText OutputFormat = "text"
)

// DefaultOutput is the default output format.
var DefaultOutput OutputFormat = OutputFormatYAML

// globalOutputFormat is set by the root command's --output flag.
var globalOutputFormat OutputFormat = OutputFormatYAML

// TextWriter is implemented by results with a human-readable rendering.
// Values without one fall back to YAML in text mode.
type TextWriter interface {
	WriteText(w io.Writer) error
}

// ParseOutputFormat validates a --output flag value.
func ParseOutputFormat(format string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(format)) {
	case OutputFormatJSON:
		return OutputFormatJSON, nil
	case OutputFormatYAML, "yml":
		return OutputFormatYAML, nil
	case OutputFormatText:
		return OutputFormatText, nil
	case "":
		return DefaultOutput, nil
	default:
		return "", fmt.Errorf("unknown output format: %s", format)
	}
}

// SetOutputFormat sets the global output format.
// Unknown values select DefaultOutput.
func SetOutputFormat(format string) {
	f, err := ParseOutputFormat(format)
	if err != nil {
		f = DefaultOutput
	}
	globalOutputFormat = f
}

// GetOutputFormat returns the current global output format.
func GetOutputFormat() OutputFormat {
	return globalOutputFormat
}

// Output writes data to stdout in the configured format.
func Output(data any) error {
	return OutputTo(os.Stdout, globalOutputFormat, data)
}

// OutputTo writes data to the given writer in the specified format.
func OutputTo(w io.Writer, format OutputFormat, data any) error {
	switch format {
	case OutputFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case OutputFormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(data)
	case OutputFormatText:
		if tw, ok := data.(TextWriter); ok {
			return tw.WriteText(w)
		}
		return OutputTo(w, OutputFormatYAML, data)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

// FormatForPath picks a file format from the extension: JSON for .json,
// YAML otherwise.
func FormatForPath(path string) OutputFormat {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return OutputFormatJSON
	}
	return OutputFormatYAML
}

// OutputToFile writes data to path, choosing the format from its extension.
func OutputToFile(data any, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := OutputTo(f, FormatForPath(path), data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// IsStructuredOutput returns true if the output format is structured (JSON/YAML).
// Commands print human-friendly progress messages only when it is false.
func IsStructuredOutput() bool {
	return globalOutputFormat == OutputFormatJSON || globalOutputFormat == OutputFormatYAML
}
