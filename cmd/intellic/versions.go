package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"intellic/internal/compiler"
	"intellic/internal/version"
)

type versionsView struct {
	Languages []languageView     `json:"languages" yaml:"languages"`
	Overrides []version.Override `json:"overrides" yaml:"overrides"`
}

type languageView struct {
	Language string   `json:"language" yaml:"language"`
	Versions []string `json:"versions" yaml:"versions"`
	Default  string   `json:"default" yaml:"default"`
}

func newVersionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "versions",
		Short: "Show the version knowledge table and metadata overrides",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e := version.New(a.cfg.Versions, a.cfg.Overrides)
			view := versionsView{Overrides: e.Overrides()}
			for _, lang := range e.Languages() {
				view.Languages = append(view.Languages, languageView{
					Language: lang,
					Versions: e.Versions(lang),
					Default:  e.Infer(lang, nil),
				})
			}
			w := cmd.OutOrStdout()
			if !strings.EqualFold(a.cfg.Output, compiler.FormatText) {
				return encodeValue(w, a.cfg.Output, view)
			}
			for _, l := range view.Languages {
				fmt.Fprintf(w, "%-8s %s (default %s)\n", l.Language, strings.Join(l.Versions, ", "), l.Default)
			}
			if len(view.Overrides) > 0 {
				fmt.Fprintln(w, "\noverrides:")
				for _, o := range view.Overrides {
					fmt.Fprintf(w, "  %s: %s=true -> %s\n", o.Language, o.Flag, o.Version)
				}
			}
			return nil
		},
	}
}

// encodeValue writes v as JSON or YAML.
func encodeValue(w io.Writer, format string, v any) error {
	switch strings.ToLower(format) {
	case compiler.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case compiler.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	default:
		return fmt.Errorf("%w: %q", compiler.ErrUnknownFormat, format)
	}
}
