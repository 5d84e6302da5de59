package ast

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// document is the on-disk shape of a node. YAML is a superset of JSON, so the
// same decoder accepts both.
type document struct {
	Kind       string         `yaml:"kind"`
	Name       string         `yaml:"name"`
	Value      float64        `yaml:"value"`
	Operator   string         `yaml:"operator"`
	Left       *document      `yaml:"left"`
	Right      *document      `yaml:"right"`
	Parameters []string       `yaml:"parameters"`
	Body       []*document    `yaml:"body"`
	Meta       map[string]any `yaml:"meta"`
}

var ErrEmptyDocument = errors.New("ast: empty node document")

// DecodeFile reads a node document from path.
func DecodeFile(path string) (Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	n, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}

// Decode reads one node document (YAML or JSON). Unknown kinds become
// *Unrecognized rather than an error.
func Decode(r io.Reader) (Node, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDocument
		}
		return nil, fmt.Errorf("ast: decode: %w", err)
	}
	return build(&doc, "$")
}

func build(d *document, path string) (Node, error) {
	if d == nil {
		return nil, fmt.Errorf("ast: %s: missing node", path)
	}
	meta := toMeta(d.Meta)
	switch strings.ToLower(strings.TrimSpace(d.Kind)) {
	case "identifier", "ident":
		return &Identifier{Name: d.Name, Meta: meta}, nil
	case "number", "number_literal":
		return &NumberLiteral{Value: d.Value, Meta: meta}, nil
	case "binary", "binary_operation":
		left, err := build(d.Left, path+".left")
		if err != nil {
			return nil, err
		}
		right, err := build(d.Right, path+".right")
		if err != nil {
			return nil, err
		}
		return &BinaryOperation{Operator: d.Operator, Left: left, Right: right, Meta: meta}, nil
	case "function", "function_definition":
		body := make([]Node, 0, len(d.Body))
		for i, c := range d.Body {
			n, err := build(c, fmt.Sprintf("%s.body[%d]", path, i))
			if err != nil {
				return nil, err
			}
			body = append(body, n)
		}
		params := append([]string(nil), d.Parameters...)
		return &FunctionDefinition{Name: d.Name, Parameters: params, Body: body, Meta: meta}, nil
	default:
		return &Unrecognized{Meta: meta}, nil
	}
}

func toMeta(raw map[string]any) Meta {
	if len(raw) == 0 {
		return nil
	}
	m := make(Meta, len(raw))
	for k, v := range raw {
		switch x := v.(type) {
		case nil:
			m[k] = ""
		case string:
			m[k] = x
		default:
			m[k] = fmt.Sprint(x)
		}
	}
	return m
}
