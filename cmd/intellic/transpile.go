package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"intellic/internal/compiler"
	"intellic/internal/scan"
	"intellic/internal/transpile"
)

var errFilesFailed = errors.New("some files could not be transpiled")

func newTranspileCmd(a *app) *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:   "transpile <source-dir> <output-dir|s3://bucket/prefix>",
		Short: "Mirror a source tree into another language",
		Long: `Transpile walks the source tree, skips VCS and build folders, and asks
the LLM to convert every recognised source file. Output keeps the
directory layout; a.rs becomes a.rs.<ext>. The command exits non-zero
when any file failed, after converting everything else.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			oracle, err := a.oracle(ctx)
			if err != nil {
				return err
			}
			defer oracle.Close()

			sink, err := a.sink(args[1])
			if err != nil {
				return err
			}
			t := transpile.New(transpile.Options{
				Oracle:     oracle,
				Filter:     scan.New(a.cfg.Transpile.FilterOptions()),
				Workers:    a.cfg.Transpile.Workers,
				Logger:     a.log,
				Registerer: a.reg,
			})
			sum, runErr := t.Run(ctx, args[0], sink, lang)
			if err := writeSummary(cmd.OutOrStdout(), a.cfg.Output, sum); err != nil {
				return err
			}
			if runErr != nil {
				return runErr
			}
			if !sum.OK() {
				return fmt.Errorf("%w: %d failed", errFilesFailed, len(sum.Failures))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&lang, "lang", "l", "go", "target language")
	cmd.Flags().Int("workers", transpile.DefaultWorkers, "concurrent file conversions")
	return cmd
}

func (a *app) sink(target string) (transpile.Sink, error) {
	if bucket, prefix, ok := transpile.ParseS3URL(target); ok {
		return transpile.NewS3Sink(a.cfg.S3, bucket, prefix)
	}
	if strings.HasPrefix(target, "s3://") {
		return nil, fmt.Errorf("invalid s3 target %q (want s3://bucket/prefix)", target)
	}
	return transpile.NewDirSink(target)
}

func writeSummary(w io.Writer, format string, sum transpile.Summary) error {
	if strings.EqualFold(format, compiler.FormatText) || format == "" {
		fmt.Fprintln(w, sum.String())
		for _, f := range sum.Failures {
			fmt.Fprintf(w, "  FAIL %s\n", f.Error())
		}
		return nil
	}
	return encodeValue(w, format, sum)
}
