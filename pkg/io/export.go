package io

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Output formats understood by [Write].
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatCSV  = "csv"
)

// Formats lists the supported output formats.
var Formats = []string{FormatJSON, FormatYAML, FormatCSV}

// Tabular is implemented by results that can be written as CSV.
type Tabular interface {
	Header() []string
	Rows() [][]string
}

// WriteJSON encodes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// WriteYAML encodes v as YAML.
func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// WriteCSV writes a header row followed by rows.
func WriteCSV(w io.Writer, t Tabular) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header()); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	if err := cw.WriteAll(t.Rows()); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// Write encodes v in the named format. CSV requires v to implement [Tabular].
func Write(w io.Writer, format string, v any) error {
	switch format {
	case FormatJSON, "":
		return WriteJSON(w, v)
	case FormatYAML:
		return WriteYAML(w, v)
	case FormatCSV:
		t, ok := v.(Tabular)
		if !ok {
			return fmt.Errorf("%T cannot be written as csv", v)
		}
		return WriteCSV(w, t)
	}
	return fmt.Errorf("unknown format %q", format)
}

// Export writes v to path in the named format.
func Export(path, format string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(f, format, v); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
