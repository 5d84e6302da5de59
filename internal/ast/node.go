package ast

// Meta carries facts attached to a node by an upstream analysis
// (e.g. "uses_generics", "pointer_arith"). Keys are unique; values are free text.
type Meta map[string]string

// Flag reports whether key is set to exactly "true". A missing key or a nil
// map is treated as unset.
func (m Meta) Flag(key string) bool {
	return m[key] == "true"
}

// Node is one element of a pre-built syntax tree. The set of variants is
// closed: Identifier, NumberLiteral, BinaryOperation, FunctionDefinition and
// Unrecognized. Consumers must keep a fallback branch for anything else.
type Node interface {
	Metadata() Meta
	node()
}

type Identifier struct {
	Name string
	Meta Meta
}

type NumberLiteral struct {
	Value float64
	Meta  Meta
}

type BinaryOperation struct {
	Operator string
	Left     Node
	Right    Node
	Meta     Meta
}

type FunctionDefinition struct {
	Name       string
	Parameters []string
	Body       []Node
	Meta       Meta
}

// Unrecognized stands in for any construct the upstream parser could not map.
type Unrecognized struct {
	Meta Meta
}

func (n *Identifier) Metadata() Meta         { return n.Meta }
func (n *NumberLiteral) Metadata() Meta      { return n.Meta }
func (n *BinaryOperation) Metadata() Meta    { return n.Meta }
func (n *FunctionDefinition) Metadata() Meta { return n.Meta }
func (n *Unrecognized) Metadata() Meta       { return n.Meta }

func (*Identifier) node()         {}
func (*NumberLiteral) node()      {}
func (*BinaryOperation) node()    {}
func (*FunctionDefinition) node() {}
func (*Unrecognized) node()       {}

const (
	KindIdentifier   = "identifier"
	KindNumber       = "number"
	KindBinary       = "binary"
	KindFunction     = "function"
	KindUnrecognized = "unrecognized"
)

// Kind names the variant of n. Nil nodes report KindUnrecognized.
func Kind(n Node) string {
	switch v := n.(type) {
	case *Identifier:
		if v != nil {
			return KindIdentifier
		}
	case *NumberLiteral:
		if v != nil {
			return KindNumber
		}
	case *BinaryOperation:
		if v != nil {
			return KindBinary
		}
	case *FunctionDefinition:
		if v != nil {
			return KindFunction
		}
	}
	return KindUnrecognized
}

// MetaOf returns the metadata of n, tolerating nil nodes.
func MetaOf(n Node) Meta {
	switch v := n.(type) {
	case *Identifier:
		if v != nil {
			return v.Meta
		}
	case *NumberLiteral:
		if v != nil {
			return v.Meta
		}
	case *BinaryOperation:
		if v != nil {
			return v.Meta
		}
	case *FunctionDefinition:
		if v != nil {
			return v.Meta
		}
	case *Unrecognized:
		if v != nil {
			return v.Meta
		}
	}
	return nil
}

// Sample is the demo input: identifier "x" flagged as using generics.
func Sample() Node {
	return &Identifier{Name: "x", Meta: Meta{"uses_generics": "true"}}
}
