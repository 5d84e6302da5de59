package codegen

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"intellic/internal/ast"
)

var languages = []string{"go", "cpp", "swift", "rust", "python", "", "unknown-language"}

func TestGenerate_Identifier(t *testing.T) {
	g := New()
	want := map[string]string{
		"go":     "var x any",
		"cpp":    "auto x;",
		"swift":  "var x: Any",
		"rust":   "let x;",
		"python": "x",
		"":       "x",
	}
	for lang, w := range want {
		assert.Equal(t, w, g.Generate(&ast.Identifier{Name: "x"}, lang), lang)
	}
}

func TestGenerate_Number(t *testing.T) {
	g := New()
	assert.Equal(t, "1", g.Generate(&ast.NumberLiteral{Value: 1}, "go"))
	assert.Equal(t, "2.5", g.Generate(&ast.NumberLiteral{Value: 2.5}, "cpp"))
	assert.Equal(t, "NaN", g.Generate(&ast.NumberLiteral{Value: math.NaN()}, "go"))
	assert.Equal(t, "+Inf", g.Generate(&ast.NumberLiteral{Value: math.Inf(1)}, "go"))
}

func TestGenerate_BinaryIsStructural(t *testing.T) {
	g := New()
	l := &ast.Identifier{Name: "a"}
	r := &ast.BinaryOperation{Operator: "*", Left: &ast.NumberLiteral{Value: 2}, Right: &ast.Unrecognized{}}
	for _, lang := range languages {
		n := &ast.BinaryOperation{Operator: "<<=", Left: l, Right: r}
		want := g.Generate(l, lang) + " <<= " + g.Generate(r, lang)
		assert.Equal(t, want, g.Generate(n, lang), lang)
	}
	assert.Equal(t, "var a any + 2 * /* unsupported */",
		g.Generate(&ast.BinaryOperation{Operator: "+", Left: l, Right: r}, "go"))
}

func TestGenerate_Function(t *testing.T) {
	g := New()
	fn := &ast.FunctionDefinition{
		Name:       "add",
		Parameters: []string{"a", "b"},
		Body: []ast.Node{
			&ast.Identifier{Name: "tmp"},
			&ast.BinaryOperation{Operator: "+", Left: &ast.NumberLiteral{Value: 1}, Right: &ast.NumberLiteral{Value: 2}},
		},
	}
	want := map[string]string{
		"go":     "func add(a, b) {\nvar tmp any\n1 + 2\n}",
		"cpp":    "auto add(a, b) {\nauto tmp;\n1 + 2\n}",
		"swift":  "func add(a, b) {\nvar tmp: Any\n1 + 2\n}",
		"rust":   "fn add(a, b) {\nlet tmp;\n1 + 2\n}",
		"kotlin": "fn add(a, b) {\ntmp\n1 + 2\n}",
	}
	for lang, w := range want {
		assert.Equal(t, w, g.Generate(fn, lang), lang)
	}
}

func TestGenerate_EmptyFunction(t *testing.T) {
	g := New()
	assert.Equal(t, "func noop() {\n\n}", g.Generate(&ast.FunctionDefinition{Name: "noop"}, "go"))
}

func TestGenerate_Total(t *testing.T) {
	g := New()
	var nilFn *ast.FunctionDefinition
	nodes := []ast.Node{
		nil,
		nilFn,
		&ast.Unrecognized{},
		&ast.BinaryOperation{Operator: "-"},
		&ast.FunctionDefinition{Body: []ast.Node{nil, &ast.Unrecognized{}}},
	}
	for _, lang := range languages {
		for _, n := range nodes {
			assert.NotPanics(t, func() { _ = g.Generate(n, lang) })
		}
	}
	assert.Equal(t, Unsupported, g.Generate(nil, "go"))
	assert.Equal(t, "/* unsupported */ - /* unsupported */", g.Generate(&ast.BinaryOperation{Operator: "-"}, "go"))
}

func TestWithTemplates(t *testing.T) {
	g := WithTemplates(map[string]Template{
		"python": {Identifier: "%[1]s = None", Function: "def %[1]s(%[2]s):\n%[3]s"},
		"go":     {Identifier: "var %[1]s interface{}"},
	})
	assert.Equal(t, "x = None", g.Generate(&ast.Identifier{Name: "x"}, "python"))
	assert.Equal(t, "def f(a):\n1", g.Generate(&ast.FunctionDefinition{Name: "f", Parameters: []string{"a"}, Body: []ast.Node{&ast.NumberLiteral{Value: 1}}}, "python"))
	assert.Equal(t, "var x interface{}", g.Generate(&ast.Identifier{Name: "x"}, "go"))
	assert.Equal(t, "func f() {\n\n}", g.Generate(&ast.FunctionDefinition{Name: "f"}, "go"))
}
