package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"intellic/internal/ast"
	"intellic/internal/codegen"
	"intellic/internal/compiler"
	"intellic/internal/reportstore"
	"intellic/internal/security"
	"intellic/internal/version"
)

func newCompileCmd(a *app) *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:   "compile [node-file ...]",
		Short: "Compile syntax nodes (YAML or JSON, '-' for stdin) into a report",
		Long: `Compile runs each node through version inference, semantic labelling,
template generation, LLM refinement and security analysis.
Without arguments the built-in sample node (identifier x using generics)
is compiled.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			nodes, err := readNodes(cmd, args)
			if err != nil {
				return err
			}
			oracle, err := a.oracle(ctx)
			if err != nil {
				return err
			}
			defer oracle.Close()

			c := compiler.New(compiler.Options{
				Versions:  version.New(a.cfg.Versions, a.cfg.Overrides),
				Generator: codegen.New(),
				Security:  security.New(security.RulesFromConfig(a.cfg.Security.Rules), oracle),
				Oracle:    oracle,
				Logger:    a.log,
			})
			reports := c.CompileAll(ctx, nodes, lang, a.cfg.Transpile.Workers)

			if a.cfg.Store.Path != "" || a.cfg.Store.DSN != "" {
				if err := a.save(cmd, reports); err != nil {
					a.log.Warn("report history not updated", "error", err)
				}
			}
			return compiler.Encode(cmd.OutOrStdout(), a.cfg.Output, reports...)
		},
	}
	cmd.Flags().StringVarP(&lang, "lang", "l", "go", "target language")
	return cmd
}

func readNodes(cmd *cobra.Command, args []string) ([]ast.Node, error) {
	if len(args) == 0 {
		return []ast.Node{ast.Sample()}, nil
	}
	nodes := make([]ast.Node, 0, len(args))
	for _, p := range args {
		var (
			n   ast.Node
			err error
		)
		if p == "-" {
			if n, err = ast.Decode(cmd.InOrStdin()); err != nil {
				err = fmt.Errorf("stdin: %w", err)
			}
		} else {
			n, err = ast.DecodeFile(p)
		}
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func (a *app) save(cmd *cobra.Command, reports []compiler.Report) error {
	store, err := reportstore.Open(cmd.Context(), a.cfg.Store.Path, a.cfg.Store.DSN)
	if err != nil {
		return err
	}
	defer store.Close()
	for _, r := range reports {
		rec, err := store.Put(cmd.Context(), r)
		if err != nil {
			return err
		}
		a.log.Debug("report saved", "id", rec.ID)
	}
	return nil
}
