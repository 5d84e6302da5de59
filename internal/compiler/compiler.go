// Package compiler runs one syntax node through version inference, semantic
// labelling, template generation, oracle refinement and security analysis.
package compiler

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"intellic/internal/ast"
	"intellic/internal/codegen"
	"intellic/internal/llm"
	"intellic/internal/security"
	"intellic/internal/semantic"
	"intellic/internal/version"
)

const refinePrompt = "Rewrite the following %[1]s %[2]s code as idiomatic, modern %[1]s %[2]s code:\n%[3]s"

// Options wires the stages together. Zero fields fall back to defaults; a
// nil Oracle leaves every oracle-backed field as a diagnostic.
type Options struct {
	Versions  *version.Engine
	Generator *codegen.Generator
	Security  *security.Engine
	Oracle    llm.LLMClient
	Logger    *slog.Logger
}

type Compiler struct {
	versions *version.Engine
	gen      *codegen.Generator
	sec      *security.Engine
	oracle   llm.LLMClient
	log      *slog.Logger
}

func New(opts Options) *Compiler {
	c := &Compiler{
		versions: opts.Versions,
		gen:      opts.Generator,
		sec:      opts.Security,
		oracle:   opts.Oracle,
		log:      opts.Logger,
	}
	if c.versions == nil {
		c.versions = version.New(nil, nil)
	}
	if c.gen == nil {
		c.gen = codegen.New()
	}
	if c.sec == nil {
		c.sec = security.New(nil, opts.Oracle)
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	return c
}

// Compile always returns a report. Oracle failures are recorded in the
// affected fields and in Diagnostics.
func (c *Compiler) Compile(ctx context.Context, n ast.Node, language string) Report {
	ver := c.versions.Infer(language, n)
	info := semantic.Classify(n)
	base := c.gen.Generate(n, language)

	refined := llm.Ask(llm.WithPhase(ctx, llm.PhaseRefine), c.oracle, RefinePrompt(language, ver, base))
	findings, assessed := c.sec.Assess(ctx, n)

	r := Report{
		Language:         language,
		Version:          ver,
		Meaning:          info.Meaning,
		Types:            info.Types,
		BaseCode:         base,
		RefinedCode:      refined.String(),
		SecurityFindings: findings,
		Diagnostics:      []string{},
	}
	if !refined.OK() {
		r.Diagnostics = append(r.Diagnostics, llm.PhaseRefine+": "+refined.Err.Error())
	}
	if !assessed.OK() {
		r.Diagnostics = append(r.Diagnostics, llm.PhaseSecurity+": "+assessed.Err.Error())
	}
	c.log.Debug("compiled node", "language", language, "version", ver, "kind", ast.Kind(n), "diagnostics", len(r.Diagnostics))
	return r
}

// CompileAll compiles independent nodes concurrently; reports keep the
// order of nodes. workers <= 0 means one at a time.
func (c *Compiler) CompileAll(ctx context.Context, nodes []ast.Node, language string, workers int) []Report {
	if workers <= 0 {
		workers = 1
	}
	out := make([]Report, len(nodes))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, n := range nodes {
		g.Go(func() error {
			out[i] = c.Compile(ctx, n, language)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// RefinePrompt is the instruction sent to the oracle for a base skeleton.
func RefinePrompt(language, ver, base string) string {
	return fmt.Sprintf(refinePrompt, language, ver, base)
}
