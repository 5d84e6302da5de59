// Package semantic produces short human-readable labels for syntax nodes.
// It is a label generator, not a type checker.
package semantic

import (
	"fmt"

	"intellic/internal/ast"
)

// Info is the meaning of a node plus the type tags inferred for it.
type Info struct {
	Meaning string   `json:"meaning" yaml:"meaning"`
	Types   []string `json:"types" yaml:"types"`
}

const (
	TypeDynamic = "dynamic"
	TypeNumber  = "number"
	TypeFn      = "fn"
)

// Classify is total over every node, nil included.
func Classify(n ast.Node) Info {
	switch ast.Kind(n) {
	case ast.KindIdentifier:
		return Info{
			Meaning: fmt.Sprintf("identifier '%s'", n.(*ast.Identifier).Name),
			Types:   []string{TypeDynamic},
		}
	case ast.KindNumber:
		return Info{Meaning: "numeric literal", Types: []string{TypeNumber}}
	case ast.KindBinary:
		return Info{
			Meaning: fmt.Sprintf("binary operation '%s'", n.(*ast.BinaryOperation).Operator),
			Types:   []string{TypeNumber},
		}
	case ast.KindFunction:
		return Info{
			Meaning: fmt.Sprintf("function '%s'", n.(*ast.FunctionDefinition).Name),
			Types:   []string{TypeFn},
		}
	default:
		return Info{Meaning: "unknown", Types: []string{}}
	}
}
