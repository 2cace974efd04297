package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/spicery/nutmeg-template/pkg/template"
)

var (
	placeholderColor = color.New(color.FgCyan, color.Bold)
	malformedColor   = color.New(color.FgRed, color.Underline)
)

// emitAll writes records as JSON, one per line, or as one YAML list.
func emitAll[T any](w io.Writer, format string, records []T) error {
	if format == formatYAML {
		return emitYAML(w, records)
	}
	for _, record := range records {
		if err := emitJSON(w, record); err != nil {
			return err
		}
	}
	return nil
}

// emitOne writes a single record as a JSON line or a YAML document.
func emitOne(w io.Writer, format string, record any) error {
	if format == formatYAML {
		return emitYAML(w, record)
	}
	return emitJSON(w, record)
}

func emitJSON(w io.Writer, record any) error {
	jsonBytes, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("JSON encoding error: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonBytes))
	return err
}

func emitYAML(w io.Writer, record any) error {
	yamlBytes, err := yaml.Marshal(record)
	if err != nil {
		return fmt.Errorf("YAML encoding error: %w", err)
	}
	_, err = w.Write(yamlBytes)
	return err
}

// writePretty writes the template text with placeholders and malformed
// parts highlighted.
func writePretty(w io.Writer, b *template.Breakdown) error {
	for _, part := range b.Parts() {
		var err error
		switch part.(type) {
		case *template.Placeholder:
			_, err = placeholderColor.Fprint(w, part.Escaped())
		case *template.Malformed:
			_, err = malformedColor.Fprint(w, part.Escaped())
		default:
			_, err = io.WriteString(w, part.Escaped())
		}
		if err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// checkMalformed reports the malformed parts of a breakdown, after its
// output has been written.
func checkMalformed(b *template.Breakdown) error {
	malformed := b.MalformedParts()
	if len(malformed) == 0 {
		return nil
	}
	first := malformed[0]
	return fmt.Errorf("%w: %d malformed part(s), first '%s' at line %d, column %d",
		errTemplateProblems, len(malformed), first.Text, first.Position.Line, first.Position.Col)
}
