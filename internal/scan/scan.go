// Package scan decides which directories a transpilation walk descends into
// and which files it converts.
package scan

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultSkipDirs are VCS, editor, dependency and build-output folders.
var DefaultSkipDirs = []string{
	".git", ".hg", ".svn", ".idea", ".vscode",
	"node_modules", "vendor", "target", "build", "dist", "out",
	"__pycache__", ".cache", ".gradle", "bin", "obj",
}

// DefaultExtensions are the source extensions worth converting.
var DefaultExtensions = []string{
	".rs", ".go", ".c", ".h", ".cc", ".cpp", ".cxx", ".hpp",
	".py", ".js", ".jsx", ".ts", ".tsx", ".java", ".kt", ".swift",
	".cs", ".rb", ".php", ".scala", ".m", ".mm", ".lua",
}

// Filter is immutable once built with New.
type Filter struct {
	skipDirs map[string]bool
	exts     map[string]bool
	ignore   []string
}

// Options configures a Filter. Nil slices select the defaults; an empty
// non-nil slice really means "none".
type Options struct {
	SkipDirs   []string `koanf:"skip_dirs" yaml:"skip_dirs"`
	Extensions []string `koanf:"extensions" yaml:"extensions"`
	Ignore     []string `koanf:"ignore" yaml:"ignore"`
}

func New(opts Options) *Filter {
	skip := opts.SkipDirs
	if skip == nil {
		skip = DefaultSkipDirs
	}
	exts := opts.Extensions
	if exts == nil {
		exts = DefaultExtensions
	}
	f := &Filter{
		skipDirs: make(map[string]bool, len(skip)),
		exts:     make(map[string]bool, len(exts)),
	}
	for _, d := range skip {
		f.skipDirs[d] = true
	}
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		f.exts[e] = true
	}
	for _, g := range opts.Ignore {
		if g = strings.TrimSpace(g); g != "" && doublestar.ValidatePattern(g) {
			f.ignore = append(f.ignore, g)
		}
	}
	return f
}

// Default is New with every option at its default.
func Default() *Filter { return New(Options{}) }

// SkipDir matches the final path segment exactly; case matters.
func (f *Filter) SkipDir(name string) bool {
	return f.skipDirs[path.Base(filepath.ToSlash(name))]
}

// Convertible checks the extension of name against the whitelist,
// ignoring case. Files without an extension are never convertible.
func (f *Filter) Convertible(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext != "" && f.exts[ext]
}

// Ignored reports whether rel (slash separated, relative to the source
// root) matches one of the extra ignore globs.
func (f *Filter) Ignored(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, g := range f.ignore {
		if ok, _ := doublestar.Match(g, rel); ok {
			return true
		}
	}
	return false
}
