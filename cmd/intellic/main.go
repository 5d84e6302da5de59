// Command intellic compiles syntax nodes into target-language code and
// transpiles whole source trees with the help of an LLM oracle.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"intellic/internal/config"
	"intellic/internal/llm"
	"intellic/internal/metrics"
)

var Version = "0.1.0"

// app carries what every subcommand needs once flags are parsed.
type app struct {
	cfgFile string
	cfg     *config.Config
	log     *slog.Logger
	reg     *prometheus.Registry
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	a := &app{}
	err := newRootCmd(a).ExecuteContext(ctx)
	if ferr := a.flushMetrics(); ferr != nil && a.log != nil {
		a.log.Warn("write metrics", "error", ferr)
	}
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "intellic",
		Short: "Version-aware code generation and LLM-assisted transpilation",
		Long: `intellic infers a target language version for a syntax node, renders a
template skeleton, asks an LLM to refine it and runs security checks.
It can also mirror a whole source tree into another language.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}
			return a.init(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default: ./"+config.DefaultFile+" when present)")
	pf.BoolP("verbose", "v", false, "debug logging")
	pf.StringP("output", "o", "text", "output format (text|json|yaml)")
	pf.String("provider", "fake", "LLM provider (fake|gemini|openai|groq|ollama)")
	pf.String("model", "", "LLM model id (provider default when empty)")
	pf.String("base-url", "", "OpenAI-compatible endpoint override")
	pf.Float64("rps", 0, "LLM requests per second")
	pf.String("metrics-file", "", "write prometheus metrics to this file on exit")
	pf.String("store", "", "report history file")
	pf.String("store-dsn", "", "report history Postgres DSN")

	_ = root.RegisterFlagCompletionFunc("output", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})

	root.AddCommand(newCompileCmd(a), newTranspileCmd(a), newVersionsCmd(a), newHistoryCmd(a))
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	a.cfg = cfg
	a.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(a.log)
	a.reg = prometheus.NewRegistry()
	if cfg.File != "" {
		a.log.Debug("using config file", "path", cfg.File)
	}
	return nil
}

func (a *app) oracle(ctx context.Context) (llm.LLMClient, error) {
	c, err := llm.New(ctx, a.cfg.LLM, a.log, a.reg)
	if err != nil {
		return nil, fmt.Errorf("llm: %w", err)
	}
	a.log.Debug("oracle ready", "client", c.Name())
	return c, nil
}

func (a *app) flushMetrics() error {
	if a.cfg == nil || a.reg == nil {
		return nil
	}
	return metrics.WriteFile(a.cfg.Metrics, a.reg)
}
