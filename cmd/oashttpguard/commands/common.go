// Package commands provides CLI command handlers for oashttpguard.
package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oashttpguard/internal/pathutil"
)

// Output format constants.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// StdinFilePath is the special file path used to indicate reading from stdin.
const StdinFilePath = "-"

// ValidateOutputFormat validates an output format and returns an error if invalid.
func ValidateOutputFormat(format string) error {
	if format != FormatText && format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s, %s", format, FormatText, FormatJSON, FormatYAML)
	}
	return nil
}

// OutputStructured marshals data in the given format and writes it to stdout,
// or to outputPath if non-empty.
func OutputStructured(data any, format, outputPath string) error {
	var bytes []byte
	var err error

	switch format {
	case FormatJSON:
		bytes, err = json.MarshalIndent(data, "", "  ")
	case FormatYAML:
		bytes, err = yaml.Marshal(data)
	default:
		return fmt.Errorf("invalid format for structured output: %s", format)
	}
	if err != nil {
		return fmt.Errorf("marshaling to %s: %w", format, err)
	}
	bytes = append(bytes, '\n')

	if outputPath == "" {
		_, err = os.Stdout.Write(bytes)
		return err
	}

	safe, err := pathutil.SanitizeOutputPath(outputPath)
	if err != nil {
		return fmt.Errorf("output path: %w", err)
	}
	return os.WriteFile(safe, bytes, 0600)
}

// FormatSpecPath returns a display-friendly path for the specification.
func FormatSpecPath(specPath string) string {
	if specPath == StdinFilePath {
		return "<stdin>"
	}
	return specPath
}
