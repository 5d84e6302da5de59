package compiler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Report is the result of compiling one node.
type Report struct {
	Language         string   `json:"language" yaml:"language"`
	Version          string   `json:"version" yaml:"version"`
	Meaning          string   `json:"meaning" yaml:"meaning"`
	Types            []string `json:"types" yaml:"types"`
	BaseCode         string   `json:"base_code" yaml:"base_code"`
	RefinedCode      string   `json:"refined_code" yaml:"refined_code"`
	SecurityFindings []string `json:"security_findings" yaml:"security_findings"`
	Diagnostics      []string `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// Output formats accepted by Encode.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var ErrUnknownFormat = errors.New("unknown output format")

// Text renders the human-readable report block.
func (r Report) Text() string {
	var b strings.Builder
	b.WriteString("=== Intelligent Compiler ===\n")
	fmt.Fprintf(&b, "Language: %s\nVersion: %s\nMeaning: %s\n\n", r.Language, r.Version, r.Meaning)
	fmt.Fprintf(&b, "Base Code:\n%s\n\n", r.BaseCode)
	fmt.Fprintf(&b, "AI Refined Code:\n%s\n\n", r.RefinedCode)
	b.WriteString("Security:\n")
	for _, f := range r.SecurityFindings {
		fmt.Fprintf(&b, "- %s\n", f)
	}
	if len(r.Diagnostics) > 0 {
		b.WriteString("\nDiagnostics:\n")
		for _, d := range r.Diagnostics {
			fmt.Fprintf(&b, "- %s\n", d)
		}
	}
	return b.String()
}

// Encode writes reports in the given format. Text reports are separated by
// a blank line; JSON and YAML emit a single value for one report and a list
// otherwise.
func Encode(w io.Writer, format string, reports ...Report) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatText:
		for i, r := range reports {
			if i > 0 {
				if _, err := io.WriteString(w, "\n"); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, r.Text()); err != nil {
				return err
			}
		}
		return nil
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if len(reports) == 1 {
			return enc.Encode(reports[0])
		}
		return enc.Encode(reports)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		if len(reports) == 1 {
			return enc.Encode(reports[0])
		}
		return enc.Encode(reports)
	default:
		return fmt.Errorf("%w: %q (want text, json or yaml)", ErrUnknownFormat, format)
	}
}
