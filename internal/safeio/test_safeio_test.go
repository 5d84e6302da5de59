package safeio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func TestReadFileAndDir(t *testing.T) {
	root := t.TempDir()
	write(t, root, "a.rs", "fn main() {}")
	write(t, root, "sub/b.go", "package b")

	fsys, err := NewSafeFS(root)
	require.NoError(t, err)

	b, err := fsys.ReadFile("sub/b.go")
	require.NoError(t, err)
	assert.Equal(t, "package b", string(b))

	entries, err := fsys.ReadDir("")
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"a.rs", "sub"}, names)

	_, err = fsys.ReadFile("sub")
	assert.ErrorIs(t, err, ErrIsDir)
	_, err = fsys.ReadDir("a.rs")
	assert.ErrorIs(t, err, ErrNotDir)
}

func TestRejectsTraversal(t *testing.T) {
	parent := t.TempDir()
	write(t, parent, "secret.txt", "s")
	root := filepath.Join(parent, "root")
	require.NoError(t, os.Mkdir(root, 0o755))

	fsys, err := NewSafeFS(root)
	require.NoError(t, err)

	for _, p := range []string{"..", "../secret.txt", "a/../../secret.txt", filepath.Join(parent, "secret.txt")} {
		_, err := fsys.ReadFile(p)
		assert.ErrorIs(t, err, ErrTraversal, p)
	}
}

func TestRejectsSymlinkEscape(t *testing.T) {
	parent := t.TempDir()
	write(t, parent, "outside/secret.txt", "s")
	root := filepath.Join(parent, "root")
	require.NoError(t, os.Mkdir(root, 0o755))
	if err := os.Symlink(filepath.Join(parent, "outside"), filepath.Join(root, "link")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	fsys, err := NewSafeFS(root)
	require.NoError(t, err)
	_, err = fsys.ReadFile("link/secret.txt")
	assert.ErrorIs(t, err, ErrOutsideRoot)
}

func TestNewSafeFS(t *testing.T) {
	_, err := NewSafeFS("")
	assert.Error(t, err)

	dir := t.TempDir()
	write(t, dir, "f", "x")
	_, err = NewSafeFS(filepath.Join(dir, "f"))
	assert.ErrorIs(t, err, ErrNotDir)

	_, err = NewSafeFS(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestContains(t *testing.T) {
	root := t.TempDir()
	fsys, err := NewSafeFS(root)
	require.NoError(t, err)
	assert.True(t, fsys.Contains(fsys.Root()))
	assert.True(t, fsys.Contains(filepath.Join(fsys.Root(), "out", "x")))
	assert.False(t, fsys.Contains(filepath.Dir(fsys.Root())))
	assert.False(t, fsys.Contains(fsys.Root()+"-sibling"))
}
