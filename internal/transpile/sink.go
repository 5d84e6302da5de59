package transpile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sink receives converted files. Paths are slash separated and relative to
// the output root.
type Sink interface {
	// Begin prepares the output root for a run. A failure here aborts the run.
	Begin(ctx context.Context, runID string) error
	MkdirAll(ctx context.Context, rel string) error
	WriteFile(ctx context.Context, rel string, data []byte) error
	// Location names where rel ends up, for logs and summaries.
	Location(rel string) string
}

// DirSink writes beneath a local directory, creating it if absent.
type DirSink struct {
	root string
}

func NewDirSink(root string) (*DirSink, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("transpile: empty output directory")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	return &DirSink{root: abs}, nil
}

// Root is the absolute output directory.
func (d *DirSink) Root() string { return d.root }

func (d *DirSink) Begin(ctx context.Context, _ string) error {
	if err := os.MkdirAll(d.root, 0o755); err != nil {
		return fmt.Errorf("create output root %s: %w", d.root, err)
	}
	return nil
}

func (d *DirSink) MkdirAll(ctx context.Context, rel string) error {
	return os.MkdirAll(d.path(rel), 0o755)
}

// WriteFile writes through a temp file and a rename so readers never see a
// partial file.
func (d *DirSink) WriteFile(ctx context.Context, rel string, data []byte) error {
	dst := d.path(rel)
	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func (d *DirSink) Location(rel string) string { return d.path(rel) }

func (d *DirSink) path(rel string) string {
	return filepath.Join(d.root, filepath.FromSlash(rel))
}
