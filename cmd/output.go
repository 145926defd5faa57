// Package cmd provides output formatting utilities for servicedeck CLI.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Output formats accepted by the -o flag.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// OutputFormats lists the accepted -o values for shell completion.
var OutputFormats = []string{FormatText, FormatJSON, FormatYAML}

// PrintOutput formats and prints data according to the specified output format.
func PrintOutput(w io.Writer, format string, data interface{}) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		return printJSON(w, data)
	case FormatYAML, "yml":
		return printYAML(w, data)
	case FormatText, "":
		return printText(w, data)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// isStructured reports whether format is handled by PrintOutput rather than
// by a command's own table rendering.
func isStructured(format string) bool {
	switch strings.ToLower(format) {
	case FormatText, "":
		return false
	default:
		return true
	}
}

func printJSON(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func printYAML(w io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(w)
	defer func() {
		_ = encoder.Close()
	}()
	return encoder.Encode(data)
}

// printText is a fallback; commands normally render text themselves.
func printText(w io.Writer, data interface{}) error {
	_, err := fmt.Fprintf(w, "%+v\n", data)
	return err
}

// ActionResult is the structured outcome of a control action or unit file edit.
type ActionResult struct {
	Unit      string `json:"unit" yaml:"unit"`
	Action    string `json:"action" yaml:"action"`
	Succeeded bool   `json:"succeeded" yaml:"succeeded"`
	Message   string `json:"message,omitempty" yaml:"message,omitempty"`
	State     string `json:"state,omitempty" yaml:"state,omitempty"`
}
