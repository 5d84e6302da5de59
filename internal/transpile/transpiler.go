// Package transpile mirrors a source tree into an output location, asking
// the oracle to convert every whitelisted file into a target language.
package transpile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"intellic/internal/llm"
	"intellic/internal/safeio"
	"intellic/internal/scan"
)

// DefaultWorkers bounds concurrent file conversions.
const DefaultWorkers = 4

// ErrOutputIsSource is returned when the output directory is the source root.
var ErrOutputIsSource = errors.New("transpile: output directory is the source directory")

const transpilePrompt = "Transpile this file fully into %s. Return only the converted source code.\n\n%s"

type Options struct {
	Oracle     llm.LLMClient
	Filter     *scan.Filter
	Workers    int
	Logger     *slog.Logger
	Registerer prometheus.Registerer
}

type Transpiler struct {
	oracle  llm.LLMClient
	filter  *scan.Filter
	workers int
	log     *slog.Logger
	metrics *runMetrics
}

func New(opts Options) *Transpiler {
	t := &Transpiler{
		oracle:  opts.Oracle,
		filter:  opts.Filter,
		workers: opts.Workers,
		log:     opts.Logger,
		metrics: newRunMetrics(opts.Registerer),
	}
	if t.filter == nil {
		t.filter = scan.Default()
	}
	if t.workers <= 0 {
		t.workers = DefaultWorkers
	}
	if t.log == nil {
		t.log = slog.Default()
	}
	return t
}

// Transpile converts sourceDir into the local directory outDir.
func Transpile(ctx context.Context, sourceDir, outDir, language string, opts Options) (Summary, error) {
	sink, err := NewDirSink(outDir)
	if err != nil {
		return Summary{}, err
	}
	return New(opts).Run(ctx, sourceDir, sink, language)
}

// Prompt is the instruction sent to the oracle for one file.
func Prompt(language, content string) string {
	return fmt.Sprintf(transpilePrompt, language, content)
}

type run struct {
	*Transpiler
	src      *safeio.SafeFS
	sink     Sink
	language string
	skipAbs  string
	rec      *recorder
	g        errgroup.Group
}

// Run walks sourceDir depth first. Only an unreadable source root, a local
// sink rooted at the source itself, or a sink that cannot begin is fatal;
// every other problem lands in Summary.Failures. When ctx is cancelled no new work starts, in-flight
// conversions finish, and ctx.Err() is returned with the partial summary.
func (t *Transpiler) Run(ctx context.Context, sourceDir string, sink Sink, language string) (Summary, error) {
	rec := &recorder{s: Summary{RunID: uuid.NewString()}}
	src, err := safeio.NewSafeFS(sourceDir)
	if err != nil {
		return rec.snapshot(), fmt.Errorf("open source root: %w", err)
	}
	if _, err := src.ReadDir(""); err != nil {
		return rec.snapshot(), fmt.Errorf("read source root: %w", err)
	}
	local, isLocal := sink.(interface{ Root() string })
	if isLocal && localRoot(local) == src.Root() {
		return rec.snapshot(), ErrOutputIsSource
	}
	if err := sink.Begin(ctx, rec.s.RunID); err != nil {
		return rec.snapshot(), err
	}

	r := &run{Transpiler: t, src: src, sink: sink, language: language, rec: rec}
	r.g.SetLimit(t.workers)
	if isLocal {
		if p := localRoot(local); p != "" && src.Contains(p) {
			r.skipAbs = p
		}
	}

	t.log.Info("transpile started", "run", rec.s.RunID, "source", src.Root(), "target", sink.Location(""), "language", language)
	r.walk(ctx, "")
	_ = r.g.Wait()

	sum := rec.snapshot()
	t.log.Info("transpile finished", "run", sum.RunID, "converted", len(sum.Converted),
		"skipped", len(sum.Skipped), "ignored", len(sum.Ignored), "failed", len(sum.Failures))
	return sum, ctx.Err()
}

// localRoot resolves a local sink's root, or "" while it does not exist.
func localRoot(sink interface{ Root() string }) string {
	p, err := filepath.EvalSymlinks(sink.Root())
	if err != nil {
		return ""
	}
	return p
}

func (r *run) walk(ctx context.Context, dir string) {
	entries, err := r.src.ReadDir(dir)
	if err != nil {
		r.fail(dir, OpReadDir, err)
		return
	}
	for _, e := range entries {
		if ctx.Err() != nil {
			return
		}
		rel := path.Join(dir, e.Name())
		if e.IsDir() {
			r.dir(ctx, rel, e.Name())
			continue
		}
		r.file(ctx, rel, e.Name())
	}
}

func (r *run) dir(ctx context.Context, rel, name string) {
	if r.filter.SkipDir(name) {
		r.rec.skipped(rel)
		r.metrics.skipped.Inc()
		r.log.Debug("skip dir", "path", rel)
		return
	}
	if r.skipAbs != "" && filepath.Join(r.src.Root(), filepath.FromSlash(rel)) == r.skipAbs {
		r.log.Debug("skip output dir", "path", rel)
		return
	}
	if err := r.sink.MkdirAll(ctx, rel); err != nil {
		r.fail(rel, OpMkdir, err)
		return
	}
	r.walk(ctx, rel)
}

func (r *run) file(ctx context.Context, rel, name string) {
	if !r.filter.Convertible(name) || r.filter.Ignored(rel) {
		r.rec.ignored(rel)
		r.metrics.file(outcomeIgnored)
		return
	}
	// Scheduled work outlives cancellation so no file is left half written.
	work := context.WithoutCancel(ctx)
	r.g.Go(func() error {
		if ctx.Err() != nil {
			return nil
		}
		r.convert(work, rel, name)
		return nil
	})
}

func (r *run) convert(ctx context.Context, rel, name string) {
	content, err := r.src.ReadFile(rel)
	if err != nil {
		r.fail(rel, OpRead, err)
		return
	}
	res := llm.Ask(llm.WithPhase(ctx, llm.PhaseTranspile), r.oracle, Prompt(r.language, string(content)))
	if !res.OK() {
		r.fail(rel, OpOracle, res.Err)
		return
	}
	out := path.Join(path.Dir(rel), scan.OutputName(name, r.language))
	if err := r.sink.WriteFile(ctx, out, []byte(res.Text)); err != nil {
		r.fail(rel, OpWrite, err)
		return
	}
	r.rec.converted(rel)
	r.metrics.file(outcomeConverted)
	r.log.Info("converted", "path", rel, "output", r.sink.Location(out))
}

func (r *run) fail(rel, op string, err error) {
	if rel == "" {
		rel = "."
	}
	r.rec.failed(Failure{Path: rel, Op: op, Err: err})
	if op != OpReadDir && op != OpMkdir {
		r.metrics.file(outcomeFailed)
	}
	r.log.Warn("transpile failure", "path", rel, "op", op, "error", err)
}
