// Package codegen renders syntax nodes into target-language source text from
// literal per-language templates. Output is a skeleton: nothing here checks
// that it compiles; refinement happens downstream.
package codegen

import (
	"fmt"
	"strings"

	"intellic/internal/ast"
)

// Unsupported is emitted for any construct without a template.
const Unsupported = "/* unsupported */"

// Template holds the literal shapes for one language.
//
// Identifier receives the name as %[1]s. Function receives name, the
// comma-joined parameters and the newline-joined body as %[1]s, %[2]s, %[3]s.
type Template struct {
	Identifier string
	Function   string
}

// fallback is used for languages without a template.
var fallback = Template{
	Identifier: "%[1]s",
	Function:   "fn %[1]s(%[2]s) {\n%[3]s\n}",
}

func DefaultTemplates() map[string]Template {
	return map[string]Template{
		"go":    {Identifier: "var %[1]s any", Function: "func %[1]s(%[2]s) {\n%[3]s\n}"},
		"cpp":   {Identifier: "auto %[1]s;", Function: "auto %[1]s(%[2]s) {\n%[3]s\n}"},
		"swift": {Identifier: "var %[1]s: Any", Function: "func %[1]s(%[2]s) {\n%[3]s\n}"},
		"rust":  {Identifier: "let %[1]s;", Function: "fn %[1]s(%[2]s) {\n%[3]s\n}"},
	}
}

type Generator struct {
	templates map[string]Template
}

func New() *Generator {
	return &Generator{templates: DefaultTemplates()}
}

// WithTemplates returns a generator whose table is the defaults overlaid with
// extra. Empty fields in extra keep the default (or fallback) shape.
func WithTemplates(extra map[string]Template) *Generator {
	g := New()
	for lang, t := range extra {
		base, ok := g.templates[lang]
		if !ok {
			base = fallback
		}
		if t.Identifier != "" {
			base.Identifier = t.Identifier
		}
		if t.Function != "" {
			base.Function = t.Function
		}
		g.templates[lang] = base
	}
	return g
}

func (g *Generator) template(language string) Template {
	if t, ok := g.templates[language]; ok {
		return t
	}
	return fallback
}

// Generate is structurally recursive and total: every variant, nil included,
// produces text.
func (g *Generator) Generate(n ast.Node, language string) string {
	switch ast.Kind(n) {
	case ast.KindIdentifier:
		return fmt.Sprintf(g.template(language).Identifier, n.(*ast.Identifier).Name)
	case ast.KindNumber:
		return ast.FormatNumber(n.(*ast.NumberLiteral).Value)
	case ast.KindBinary:
		v := n.(*ast.BinaryOperation)
		return g.Generate(v.Left, language) + " " + v.Operator + " " + g.Generate(v.Right, language)
	case ast.KindFunction:
		v := n.(*ast.FunctionDefinition)
		body := make([]string, 0, len(v.Body))
		for _, c := range v.Body {
			body = append(body, g.Generate(c, language))
		}
		return fmt.Sprintf(g.template(language).Function,
			v.Name, strings.Join(v.Parameters, ", "), strings.Join(body, "\n"))
	default:
		return Unsupported
	}
}
