package version

import (
	"sort"

	"intellic/internal/ast"
)

// Unknown is returned for languages missing from the knowledge table.
const Unknown = "unknown"

// Table maps a target language to its supported versions, oldest first.
// The last entry is the latest known version.
type Table map[string][]string

// Override pins a version when Flag is set to "true" on the node and the
// requested language is exactly Language.
type Override struct {
	Language string `koanf:"language" yaml:"language"`
	Flag     string `koanf:"flag" yaml:"flag"`
	Version  string `koanf:"version" yaml:"version"`
}

func DefaultTable() Table {
	return Table{
		"go":    {"1.18", "1.20", "1.21", "1.22"},
		"cpp":   {"17", "20", "23"},
		"swift": {"5.9", "6.0"},
		"rust":  {"2018", "2021", "2024"},
	}
}

// DefaultOverrides are checked in order; the first match wins.
func DefaultOverrides() []Override {
	return []Override{
		{Language: "go", Flag: "uses_generics", Version: "1.21"},
		{Language: "cpp", Flag: "concepts", Version: "20"},
		{Language: "swift", Flag: "strict_concurrency", Version: "6.0"},
	}
}

// Engine infers a concrete target version. It is immutable after New.
type Engine struct {
	table     Table
	overrides []Override
}

// New copies table and overrides so later mutation by the caller has no effect.
// A nil table falls back to DefaultTable; nil overrides to DefaultOverrides.
func New(table Table, overrides []Override) *Engine {
	if table == nil {
		table = DefaultTable()
	}
	if overrides == nil {
		overrides = DefaultOverrides()
	}
	t := make(Table, len(table))
	for lang, vs := range table {
		t[lang] = append([]string(nil), vs...)
	}
	return &Engine{table: t, overrides: append([]Override(nil), overrides...)}
}

// Infer never fails: unknown languages yield Unknown.
func (e *Engine) Infer(language string, node ast.Node) string {
	versions, ok := e.table[language]
	if !ok || len(versions) == 0 {
		return Unknown
	}
	meta := ast.MetaOf(node)
	for _, o := range e.overrides {
		if o.Language == language && meta.Flag(o.Flag) {
			return o.Version
		}
	}
	return versions[len(versions)-1]
}

// Languages lists the table's languages in sorted order.
func (e *Engine) Languages() []string {
	out := make([]string, 0, len(e.table))
	for lang := range e.table {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}

// Versions returns a copy of the known versions for language.
func (e *Engine) Versions(language string) []string {
	return append([]string(nil), e.table[language]...)
}

// Overrides returns a copy of the override list in evaluation order.
func (e *Engine) Overrides() []Override {
	return append([]Override(nil), e.overrides...)
}
