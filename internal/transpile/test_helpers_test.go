package transpile

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"intellic/internal/llm"
)

func write(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

// tree lists every file and directory under root, slash separated.
func tree(t *testing.T, root string) (files, dirs []string) {
	t.Helper()
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, p)
		if rel == "." {
			return nil
		}
		if d.IsDir() {
			dirs = append(dirs, filepath.ToSlash(rel))
		} else {
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	require.NoError(t, err)
	sort.Strings(files)
	sort.Strings(dirs)
	return files, dirs
}

func withFake(o Options) Options {
	if o.Oracle == nil {
		o.Oracle = llm.NewFakeClient()
	}
	return o
}

type failingMkdir struct {
	*DirSink
	bad string
}

func (f *failingMkdir) MkdirAll(ctx context.Context, rel string) error {
	if rel == f.bad {
		return errors.New("permission denied")
	}
	return f.DirSink.MkdirAll(ctx, rel)
}

type oracleFunc func(ctx context.Context, prompt string) (string, error)

func (f oracleFunc) Name() string { return "func" }
func (f oracleFunc) Close() error { return nil }
func (f oracleFunc) Predict(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

func failWhen(pred func(string) bool) llm.LLMClient {
	return oracleFunc(func(_ context.Context, prompt string) (string, error) {
		if pred(prompt) {
			return "", errors.New("refused")
		}
		return "ok", nil
	})
}

func sortedCopy(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}

type failingWrite struct {
	*DirSink
	bad string
}

func (f *failingWrite) WriteFile(ctx context.Context, rel string, data []byte) error {
	if rel == f.bad {
		return errors.New("disk full")
	}
	return f.DirSink.WriteFile(ctx, rel, data)
}

// vanishingDir deletes the source directory gone right after its output
// directory is created, so the walk cannot list it.
type vanishingDir struct {
	*DirSink
	src  string
	gone string
}

func (v *vanishingDir) MkdirAll(ctx context.Context, rel string) error {
	if rel == v.gone {
		if err := os.RemoveAll(filepath.Join(v.src, filepath.FromSlash(rel))); err != nil {
			return err
		}
	}
	return v.DirSink.MkdirAll(ctx, rel)
}
