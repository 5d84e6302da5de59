// Package security runs deterministic metadata rules over a syntax node and
// appends a free-text assessment from the oracle.
package security

import (
	"context"

	"intellic/internal/ast"
	"intellic/internal/llm"
)

const oraclePrompt = "Assess this syntax node for known weakness categories (CWE) and report any concerns:\n"

// OraclePrefix starts the last finding of every analysis.
const OraclePrefix = "LLM: "

type Engine struct {
	rules  []Rule
	oracle llm.LLMClient
}

// New fixes the rule set for the engine's lifetime. A nil rules slice means
// DefaultRules.
func New(rules []Rule, oracle llm.LLMClient) *Engine {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Engine{rules: append([]Rule(nil), rules...), oracle: oracle}
}

// Analyze never fails: the final entry carries either the oracle's answer
// or the reason it is missing.
func (e *Engine) Analyze(ctx context.Context, n ast.Node) []string {
	findings, _ := e.Assess(ctx, n)
	return findings
}

// Assess is Analyze plus the raw oracle result.
func (e *Engine) Assess(ctx context.Context, n ast.Node) ([]string, llm.Result) {
	findings := make([]string, 0, len(e.rules)+1)
	for _, r := range e.rules {
		if r.Detect != nil && r.Detect(n) {
			findings = append(findings, r.Name)
		}
	}
	res := llm.Ask(llm.WithPhase(ctx, llm.PhaseSecurity), e.oracle, oraclePrompt+ast.Describe(n))
	return append(findings, OraclePrefix+res.String()), res
}
