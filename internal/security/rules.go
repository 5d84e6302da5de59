package security

import "intellic/internal/ast"

// Rule is a named detector over a single node.
type Rule struct {
	Name   string
	Detect func(ast.Node) bool
}

// RuleConfig is the config shape for extra metadata-flag rules.
type RuleConfig struct {
	Name string `koanf:"name" yaml:"name"`
	Flag string `koanf:"flag" yaml:"flag"`
}

// FlagRule fires when the node's metadata has key set to "true".
func FlagRule(name, key string) Rule {
	return Rule{
		Name: name,
		Detect: func(n ast.Node) bool {
			return ast.MetaOf(n).Flag(key)
		},
	}
}

func DefaultRules() []Rule {
	return []Rule{
		FlagRule("POINTER_ARITH", "pointer_arith"),
		FlagRule("INTEGER_OVERFLOW", "overflow_risk"),
		FlagRule("UNSAFE_BLOCK", "unsafe"),
	}
}

// RulesFromConfig appends one FlagRule per entry to the defaults. Entries
// missing either field are dropped.
func RulesFromConfig(extra []RuleConfig) []Rule {
	rules := DefaultRules()
	for _, rc := range extra {
		if rc.Name == "" || rc.Flag == "" {
			continue
		}
		rules = append(rules, FlagRule(rc.Name, rc.Flag))
	}
	return rules
}
