// Package safeio reads files and directories strictly beneath a fixed root.
package safeio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

var (
	ErrTraversal   = errors.New("safeio: path traversal not allowed")
	ErrOutsideRoot = errors.New("safeio: resolved outside root")
	ErrIsDir       = errors.New("safeio: path is a directory")
	ErrNotDir      = errors.New("safeio: path is not a directory")
)

// SafeFS resolves every path relative to a symlink-free absolute root.
type SafeFS struct {
	absRoot string
}

// NewSafeFS locks all future operations to root, which must be an existing
// directory.
func NewSafeFS(root string) (*SafeFS, error) {
	if root == "" {
		return nil, errors.New("safeio: empty root")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	abs, err = filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDir, root)
	}
	return &SafeFS{absRoot: abs}, nil
}

func (s *SafeFS) Root() string {
	if s == nil {
		return ""
	}
	return s.absRoot
}

// ReadFile reads a file relative to the root.
func (s *SafeFS) ReadFile(rel string) ([]byte, error) {
	p, err := s.resolve(rel)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(p)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrIsDir, rel)
	}
	return os.ReadFile(p)
}

// ReadDir lists a directory relative to the root, sorted by name. "" and
// "." name the root itself.
func (s *SafeFS) ReadDir(rel string) ([]fs.DirEntry, error) {
	dir, err := s.resolve(rel)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDir, rel)
	}
	return os.ReadDir(dir)
}

// Contains reports whether the absolute path p lies at or beneath the root.
func (s *SafeFS) Contains(p string) bool {
	if s == nil {
		return false
	}
	if resolved, err := filepath.EvalSymlinks(p); err == nil {
		p = resolved
	}
	return hasPathPrefix(p, s.absRoot)
}

func (s *SafeFS) resolve(rel string) (string, error) {
	if s == nil {
		return "", errors.New("safeio: filesystem not configured")
	}
	clean := filepath.Clean(filepath.FromSlash(rel))
	if clean == "." {
		return s.absRoot, nil
	}
	if filepath.IsAbs(clean) || filepath.VolumeName(clean) != "" {
		return "", fmt.Errorf("%w: absolute path %s", ErrTraversal, rel)
	}
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrTraversal, rel)
	}

	resolved, err := filepath.EvalSymlinks(filepath.Join(s.absRoot, clean))
	if err != nil {
		return "", err
	}
	if !hasPathPrefix(resolved, s.absRoot) {
		return "", fmt.Errorf("%w: %s -> %s", ErrOutsideRoot, rel, resolved)
	}
	return resolved, nil
}

func hasPathPrefix(path, root string) bool {
	path = filepath.Clean(path)
	root = filepath.Clean(root)
	if runtime.GOOS == "windows" {
		path = strings.ToLower(path)
		root = strings.ToLower(root)
	}
	if path == root {
		return true
	}
	sep := string(os.PathSeparator)
	if !strings.HasSuffix(root, sep) {
		root += sep
	}
	return strings.HasPrefix(path, root)
}
