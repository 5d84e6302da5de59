package scan

import "strings"

// FallbackExtension is used for languages without a mapping.
const FallbackExtension = "txt"

var outputExtensions = map[string]string{
	"go":         "go",
	"cpp":        "cpp",
	"c++":        "cpp",
	"c":          "c",
	"swift":      "swift",
	"rust":       "rs",
	"python":     "py",
	"java":       "java",
	"kotlin":     "kt",
	"javascript": "js",
	"typescript": "ts",
	"csharp":     "cs",
	"ruby":       "rb",
	"php":        "php",
	"scala":      "scala",
}

// OutputExtension maps a target language name to a file extension without
// the dot. Lookup ignores case and surrounding space.
func OutputExtension(language string) string {
	if ext, ok := outputExtensions[strings.ToLower(strings.TrimSpace(language))]; ok {
		return ext
	}
	return FallbackExtension
}

// OutputName appends the target extension to the full source file name, so
// "a.rs" becomes "a.rs.go" and no two sources collide.
func OutputName(file, language string) string {
	return file + "." + OutputExtension(language)
}
