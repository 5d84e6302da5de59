package ast

import (
	"sort"
	"strconv"
	"strings"
)

// Describe renders the full structure of n, children and metadata included,
// as a single deterministic line. It is what oracle prompts embed.
func Describe(n Node) string {
	var b strings.Builder
	describe(&b, n)
	return b.String()
}

func describe(b *strings.Builder, n Node) {
	switch Kind(n) {
	case KindIdentifier:
		v := n.(*Identifier)
		b.WriteString("Identifier(name=")
		b.WriteString(strconv.Quote(v.Name))
	case KindNumber:
		v := n.(*NumberLiteral)
		b.WriteString("NumberLiteral(value=")
		b.WriteString(FormatNumber(v.Value))
	case KindBinary:
		v := n.(*BinaryOperation)
		b.WriteString("BinaryOperation(operator=")
		b.WriteString(strconv.Quote(v.Operator))
		b.WriteString(", left=")
		describe(b, v.Left)
		b.WriteString(", right=")
		describe(b, v.Right)
	case KindFunction:
		v := n.(*FunctionDefinition)
		b.WriteString("FunctionDefinition(name=")
		b.WriteString(strconv.Quote(v.Name))
		b.WriteString(", parameters=[")
		for i, p := range v.Parameters {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.Quote(p))
		}
		b.WriteString("], body=[")
		for i, c := range v.Body {
			if i > 0 {
				b.WriteString(", ")
			}
			describe(b, c)
		}
		b.WriteString("]")
	default:
		b.WriteString("Unrecognized(")
	}
	writeMeta(b, MetaOf(n))
	b.WriteString(")")
}

func writeMeta(b *strings.Builder, m Meta) {
	if len(m) == 0 {
		return
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	// "Unrecognized(" has no preceding field.
	if !strings.HasSuffix(b.String(), "(") {
		b.WriteString(", ")
	}
	b.WriteString("meta={")
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Quote(k))
		b.WriteString(": ")
		b.WriteString(strconv.Quote(m[k]))
	}
	b.WriteString("}")
}

// FormatNumber is the canonical decimal text of a literal: shortest
// round-tripping representation without exponent (1, 2.5, 0.001).
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
